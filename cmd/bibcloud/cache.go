// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/bibcloud/internal/alias"
	"github.com/pdiddy/bibcloud/internal/cache"
	"github.com/pdiddy/bibcloud/pkg/types"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect the record cache",
}

var cacheListCmd = &cobra.Command{
	Use:   "list",
	Short: "List cached DBLP keys in the order they were added",
	Args:  cobra.NoArgs,
	RunE:  runCacheList,
}

var cacheShowCmd = &cobra.Command{
	Use:   "show <key>",
	Short: "Print one cached record as YAML",
	Long: `Show prints the cached record for a DBLP key. The key may be given as
"DBLP:conf/osdi/Smith10", as the bare DBLP key, or as an alias.`,
	Args: cobra.ExactArgs(1),
	RunE: runCacheShow,
}

func init() {
	cacheCmd.AddCommand(cacheListCmd, cacheShowCmd)
	rootCmd.AddCommand(cacheCmd)
}

func runCacheList(cmd *cobra.Command, args []string) error {
	store, err := cache.Open(loadConfig().Cache, log)
	if err != nil {
		return err
	}
	defer store.Close()

	for _, k := range store.Keys() {
		fmt.Fprintln(cmd.OutOrStdout(), k)
	}
	return nil
}

func runCacheShow(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	aliases, err := alias.Load(cfg.Overrides.AliasFile, log)
	if err != nil {
		return err
	}
	key := aliases.Resolve(args[0])
	if !types.IsCanonical(key) {
		key = types.CanonicalKey(key)
	}

	store, err := cache.Open(cfg.Cache, log)
	if err != nil {
		return err
	}
	defer store.Close()

	rec, ok := store.Lookup(key)
	if !ok {
		return fmt.Errorf("%s is not cached", key)
	}
	out, err := yaml.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encoding record: %w", err)
	}
	_, err = cmd.OutOrStdout().Write(out)
	return err
}
