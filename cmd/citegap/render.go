// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"

	"github.com/pdiddy/citegap/internal/report"
)

var renderCmd = &cobra.Command{
	Use:   "render <run-file>",
	Short: "Render a saved run in another format",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := report.ParseFormat(stringFlag(cmd, "format"))
		if err != nil {
			return err
		}
		r, err := report.ReadRunFile(args[0])
		if err != nil {
			return err
		}
		return writeReport(cmd, format, r)
	},
}

func init() {
	renderCmd.Flags().String("format", "table", "output format: table, json, yaml or csl")
	renderCmd.Flags().String("output", "", "write to this file instead of stdout")
	rootCmd.AddCommand(renderCmd)
}
