// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"

	"github.com/pdiddy/citegap/internal/library"
	"github.com/pdiddy/citegap/internal/report"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List the library's sources and their identifiers",
	Long: `Sources prints every allowlisted item with the identifier citegap would
look up. Items without a DOI or arXiv id are listed separately; add an
identifier in the reference manager to include them in an analysis.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		items, _, err := loadLibrary(cmd.Context(), cmd)
		if err != nil {
			return err
		}
		part := library.PartitionItems(items)
		return report.FormatSources(cmd.OutOrStdout(), part.WithIdentifier, part.WithoutIdentifier)
	},
}

func init() {
	addLibraryFlags(sourcesCmd)
	rootCmd.AddCommand(sourcesCmd)
}
