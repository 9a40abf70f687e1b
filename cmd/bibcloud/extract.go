// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/bibcloud/internal/citations"
	"github.com/pdiddy/bibcloud/internal/pipeline"
)

var extractCmd = &cobra.Command{
	Use:   "extract <base>",
	Short: "List the citations and bibliography style of <base>.aux",
	Long: `Extract prints every citation key found in <base>.aux, one per line in
sorted order. With --resolve, aliases are expanded to DBLP keys and alias
conflicts are reported.`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().Bool("resolve", false, "expand aliases from the alias file")
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	w := cmd.OutOrStdout()
	resolve, _ := cmd.Flags().GetBool("resolve")

	if !resolve {
		doc, err := citations.Load(pipeline.AuxPath(args[0]))
		if err != nil {
			return err
		}
		for _, k := range doc.Keys {
			fmt.Fprintln(w, k)
		}
		printStyle(cmd, doc)
		return nil
	}

	plan, err := pipeline.Load(loadConfig(), args[0], log)
	if err != nil {
		return err
	}
	for i, k := range plan.Document.Keys {
		if resolved := plan.Keys[i]; resolved != k {
			fmt.Fprintf(w, "%s -> %s\n", k, resolved)
			continue
		}
		fmt.Fprintln(w, k)
	}
	printStyle(cmd, plan.Document)
	return nil
}

func printStyle(cmd *cobra.Command, doc citations.Document) {
	if doc.Style != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "style: %s\n", doc.Style)
	}
}
