// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/bibcloud/internal/pipeline"
)

var runCmd = &cobra.Command{
	Use:   "run <base>",
	Short: "Fetch missing DBLP records and write dblp.bib",
	Long: `Run reads <base>.aux, resolves aliases, fetches every DBLP citation
missing from the cache, and writes the normalized bibliography.

Citations without a DBLP: prefix or alias are left for the user to supply in
another .bib file. Citations whose record cannot be fetched are reported and
left out.`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringP("output", "o", "", "bibliography to write (default dblp.bib)")
	bindFlag("output_file", runCmd.Flags().Lookup("output"))

	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	sum, err := pipeline.Run(cmd.Context(), cfg, args[0], pipeline.Deps{
		Client: httpClient(cfg),
		Logger: log,
	})
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "wrote %d entries to %s\n", sum.Written, sum.Output)
	fmt.Fprintf(w, "citations: %d (%d DBLP, %d handled manually)\n", sum.Citations, sum.Canonical, sum.Foreign)
	fmt.Fprintf(w, "records: %d cached, %d fetched, %d failed\n", sum.Cached, sum.Fetched, sum.FetchFailures)
	for _, k := range sum.Missing {
		fmt.Fprintf(w, "missing: %s\n", k)
	}
	return nil
}
