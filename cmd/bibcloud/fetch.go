// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/bibcloud/internal/pipeline"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch <base>",
	Short: "Fetch missing DBLP records into the cache",
	Long: `Fetch reads <base>.aux and downloads every DBLP citation missing from
the cache, without writing a bibliography. It exits non-zero if any record
could not be fetched.`,
	Args: cobra.ExactArgs(1),
	RunE: runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	sum, err := pipeline.Fetch(cmd.Context(), cfg, args[0], pipeline.Deps{
		Client: httpClient(cfg),
		Logger: log,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d cached, %d fetched, %d failed, %d handled manually\n",
		sum.Cached, sum.Fetched, sum.FetchFailures, sum.Foreign)
	if sum.FetchFailures > 0 {
		return fmt.Errorf("%d record(s) failed to fetch", sum.FetchFailures)
	}
	return nil
}
