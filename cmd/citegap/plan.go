// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/citegap/internal/analysis"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show how a library would be analyzed without calling the API",
	Long: `Plan filters the library, counts the sources that carry a DOI or arXiv id,
and prints the sampling decision and time estimate that analyze would use.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		items, label, err := loadLibrary(cmd.Context(), cmd)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Library: %s (%d items)\n", label, len(items))

		p := analysis.NewPlan(items, appConfig.Sampling)
		printDecision(cmd.OutOrStdout(), p)
		if p.Sampled {
			fmt.Fprintf(cmd.OutOrStdout(), "Sampling %d of %d sources (seed %d)\n",
				len(p.Sources)-len(p.Partition.WithoutIdentifier), len(p.Partition.WithIdentifier), appConfig.Sampling.Seed)
		}
		return nil
	},
}

func init() {
	addLibraryFlags(planCmd)
	rootCmd.AddCommand(planCmd)
}
