// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/citegap/internal/analysis"
	"github.com/pdiddy/citegap/internal/fetch"
	"github.com/pdiddy/citegap/internal/narrative"
	"github.com/pdiddy/citegap/internal/report"
	"github.com/pdiddy/citegap/internal/s2"
	"github.com/pdiddy/citegap/pkg/types"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Find citation gaps in a library",
	Long: `Analyze fetches the citation lists of the library's sources one at a time,
merges them, and ranks papers that are mentioned repeatedly but are not in
the library. Large libraries are sampled (see "citegap plan").`,
	RunE: runAnalyze,
}

func init() {
	addLibraryFlags(analyzeCmd)
	f := analyzeCmd.Flags()
	f.String("format", "table", "output format: table, json, yaml or csl")
	f.String("output", "", "write the report to this file instead of stdout")
	f.String("save", "", "also save the run as a YAML run file")
	f.Bool("narrative", false, "add an AI-written summary of the gaps")
	f.Int("top-n", 0, "number of gaps to report (default 10)")
	f.Int("min-year", 0, "ignore candidates published before this year (default 2010)")
	f.Int("min-mentions", 0, "ignore candidates mentioned fewer times (default 2)")
	f.Bool("distinct-sources", false, "count each candidate at most once per source")
	f.Duration("delay", 0, "pause between API requests (default 3s)")
	f.String("direction", "", "citations (default) or references")
	f.Int64("seed", 0, "sampling seed (default 42)")
	f.Bool("no-advisory-sampling", false, "analyze mid-sized libraries in full")

	viper.BindPFlag("narrative.enabled", f.Lookup("narrative"))
	viper.BindPFlag("scoring.top_n", f.Lookup("top-n"))
	viper.BindPFlag("scoring.min_year", f.Lookup("min-year"))
	viper.BindPFlag("scoring.min_mentions", f.Lookup("min-mentions"))
	viper.BindPFlag("scoring.distinct_sources", f.Lookup("distinct-sources"))
	viper.BindPFlag("fetch.inter_request_delay", f.Lookup("delay"))
	viper.BindPFlag("fetch.direction", f.Lookup("direction"))
	viper.BindPFlag("sampling.seed", f.Lookup("seed"))

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	format, err := report.ParseFormat(stringFlag(cmd, "format"))
	if err != nil {
		return err
	}

	items, label, err := loadLibrary(ctx, cmd)
	if err != nil {
		return err
	}

	cfg := appConfig
	if noAdvisory, _ := cmd.Flags().GetBool("no-advisory-sampling"); noAdvisory {
		cfg.Sampling.AcceptAdvisory = false
	}

	plan := analysis.NewPlan(items, cfg.Sampling)
	printDecision(os.Stderr, plan)

	client := s2.NewClientFromConfig(cfg.Fetch)
	deps := analysis.Deps{
		Fetcher: fetch.New(client, cfg.Fetch.InterRequestDelay, logger),
		Logger:  logger,
		Progress: func(i, total int, title string) {
			fmt.Fprintf(os.Stderr, "[%d/%d] %s\n", i, total, title)
		},
	}

	r, err := analysis.Run(ctx, items, deps, cfg)
	r.Library = label
	if errors.Is(err, fetch.ErrNoUsableData) {
		fmt.Fprintf(os.Stderr, "No usable citation data: %d sources fetched, %d not found, %d rate limited, %d failed, %d without identifier\n",
			r.Stats.Successful, r.Stats.NotFound, r.Stats.RateLimited, r.Stats.Failed, r.Stats.NoIdentifier)
		return err
	}
	if err != nil {
		return err
	}

	if cfg.Narrative.Enabled && len(r.Gaps) > 0 {
		r.Narrative = writeNarrative(cmd, cfg.Narrative, r)
	}

	if path := stringFlag(cmd, "save"); path != "" {
		if err := report.WriteRunFile(path, r); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Saved run %s to %s\n", r.RunID, path)
	}

	return writeReport(cmd, format, r)
}

// writeNarrative returns the narrative, or "" when generation fails.
// Failures are logged and never fail the run.
func writeNarrative(cmd *cobra.Command, cfg types.NarrativeConfig, r types.Report) string {
	completer, err := narrative.New(cfg)
	if err != nil {
		logger.Warn().Err(err).Msg("narrative disabled")
		return ""
	}
	fmt.Fprintln(os.Stderr, "Writing gap narrative...")
	text, err := narrative.Generate(cmd.Context(), completer, r, cfg.MaxRetries)
	if err != nil {
		logger.Warn().Err(err).Str("provider", cfg.Provider).Msg("narrative failed")
		return ""
	}
	return text
}

func writeReport(cmd *cobra.Command, format report.Format, r types.Report) error {
	var w io.Writer = cmd.OutOrStdout()
	if path := stringFlag(cmd, "output"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		w = f
	}
	return report.Write(w, format, r)
}

func printDecision(w io.Writer, p analysis.Plan) {
	d := p.Decision
	fmt.Fprintf(w, "%d sources with identifiers, %d without\n",
		len(p.Partition.WithIdentifier), len(p.Partition.WithoutIdentifier))
	fmt.Fprintln(w, d.Rationale)
	if d.ShouldSample && !p.Sampled {
		fmt.Fprintln(w, "Advisory sampling declined; analyzing every source.")
	}
	if d.Suggestion != "" {
		fmt.Fprintln(w, "Suggestion:", d.Suggestion)
	}
	fmt.Fprintf(w, "Estimated time: about %d minute(s)\n", d.EstimatedMinutes)
}

func stringFlag(cmd *cobra.Command, name string) string {
	s, _ := cmd.Flags().GetString(name)
	return s
}
