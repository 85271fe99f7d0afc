// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the citegap CLI. citegap finds
// citation gaps in a reference library: papers that the library's sources
// keep citing but that the library does not contain.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/citegap/internal/config"
	"github.com/pdiddy/citegap/internal/observability"
	"github.com/pdiddy/citegap/internal/secrets"
	"github.com/pdiddy/citegap/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	// loadedSecrets holds API keys loaded from .secrets/ at startup.
	loadedSecrets map[string]string

	// appConfig and logger are set by the root command before any
	// subcommand runs.
	appConfig types.PipelineConfig
	logger    zerolog.Logger
)

// rootCmd is the base command for the citegap CLI.
var rootCmd = &cobra.Command{
	Use:   "citegap",
	Short: "Find papers your library keeps citing but does not contain",
	Long: `citegap looks up every source in a reference library on Semantic Scholar,
collects the papers linked to them, and ranks the ones that come up again
and again but are missing from the library.

Libraries are read from a YAML/JSON snapshot (--library) or directly from a
Zotero database (--zotero), optionally restricted to one collection.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(secrets.DefaultDir)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}

		cfg, err := config.Load(viper.GetViper())
		if err != nil {
			return err
		}
		cfg.Fetch.APIKey = secrets.Lookup(s, secrets.SemanticScholarKey, cfg.Fetch.APIKey)
		cfg.Narrative.APIKey = secrets.Lookup(s, narrativeKeyFile(cfg.Narrative.Provider), cfg.Narrative.APIKey)
		appConfig = cfg
		logger = observability.NewLogger(cfg.Logging)
		return nil
	},
}

// narrativeKeyFile maps a provider to its secrets file.
func narrativeKeyFile(provider string) string {
	if provider == "openai" {
		return secrets.OpenAIKey
	}
	return secrets.AnthropicKey
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./citegap.yaml or ~/.config/citegap/citegap.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: trace, debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "", "log format: console or json")

	viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("logging.format", rootCmd.PersistentFlags().Lookup("log-format"))
}

func initConfig() {
	// A missing .env is fine; values in the environment take precedence.
	_ = godotenv.Load()

	config.Bind(viper.GetViper())

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("citegap")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "citegap"))
		}
	}

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
