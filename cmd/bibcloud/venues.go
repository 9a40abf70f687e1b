// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/bibcloud/internal/normalize"
	"github.com/pdiddy/bibcloud/internal/overrides"
)

var venuesCmd = &cobra.Command{
	Use:   "venues",
	Short: "Print the effective venue table and workshop set",
	Long: `Venues prints the DBLP booktitle to short-name table after applying
the venue override file, followed by the names tagged as workshops.`,
	Args: cobra.NoArgs,
	RunE: runVenues,
}

func init() {
	rootCmd.AddCommand(venuesCmd)
}

func runVenues(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	user, err := overrides.LoadVenues(cfg.Overrides.VenueFile, log)
	if err != nil {
		return err
	}
	table := normalize.NewVenueTable(user)

	w := cmd.OutOrStdout()
	for _, m := range table.Mappings() {
		fmt.Fprintf(w, "%-56s %s\n", m.Raw, m.Short)
	}
	fmt.Fprintln(w)
	for _, name := range table.Workshops() {
		fmt.Fprintf(w, "workshop: %s\n", name)
	}
	return nil
}
