// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package config loads the pipeline configuration from viper: built-in
// defaults, then the config file, then CITEGAP_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/pdiddy/citegap/internal/narrative"
	"github.com/pdiddy/citegap/pkg/types"
)

// EnvPrefix is the prefix for environment overrides, e.g.
// CITEGAP_FETCH_API_KEY for fetch.api_key.
const EnvPrefix = "CITEGAP"

// SetDefaults registers every key with its default value. Keys must be
// registered for AutomaticEnv to reach them during Unmarshal.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("scoring.min_year", 2010)
	v.SetDefault("scoring.top_n", 10)
	v.SetDefault("scoring.min_mentions", 2)
	v.SetDefault("scoring.distinct_sources", false)

	v.SetDefault("fetch.base_url", "https://api.semanticscholar.org/graph/v1")
	v.SetDefault("fetch.api_key", "")
	v.SetDefault("fetch.inter_request_delay", 3*time.Second)
	v.SetDefault("fetch.max_retries", 3)
	v.SetDefault("fetch.timeout", 30*time.Second)
	v.SetDefault("fetch.user_agent", "citegap/0.1")
	v.SetDefault("fetch.rate_limit", 0.0)
	v.SetDefault("fetch.direction", string(types.DirectionCitations))

	v.SetDefault("sampling.no_sampling_max", 30)
	v.SetDefault("sampling.advisory_max", 100)
	v.SetDefault("sampling.sample_size", 50)
	v.SetDefault("sampling.seed", 42)
	v.SetDefault("sampling.accept_advisory", true)

	v.SetDefault("narrative.enabled", false)
	v.SetDefault("narrative.provider", string(narrative.ProviderAnthropic))
	v.SetDefault("narrative.model", "")
	v.SetDefault("narrative.api_key", "")
	v.SetDefault("narrative.base_url", "")
	v.SetDefault("narrative.command", narrative.DefaultCommand)
	v.SetDefault("narrative.max_retries", 3)
	v.SetDefault("narrative.timeout", 90*time.Second)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// New returns a viper instance with defaults and environment binding.
func New() *viper.Viper {
	v := viper.New()
	Bind(v)
	return v
}

// Bind applies defaults and environment settings to v.
func Bind(v *viper.Viper) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Load unmarshals and validates the configuration held by v.
func Load(v *viper.Viper) (types.PipelineConfig, error) {
	var cfg types.PipelineConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return cfg, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// Validate reports every invalid setting in cfg.
func Validate(cfg types.PipelineConfig) error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	s := cfg.Scoring
	check(s.TopN > 0, "scoring.top_n must be positive, got %d", s.TopN)
	check(s.MinMentions >= 0, "scoring.min_mentions must not be negative, got %d", s.MinMentions)

	f := cfg.Fetch
	check(f.InterRequestDelay >= 0, "fetch.inter_request_delay must not be negative, got %s", f.InterRequestDelay)
	check(f.MaxRetries >= 0, "fetch.max_retries must not be negative, got %d", f.MaxRetries)
	check(f.Timeout >= 0, "fetch.timeout must not be negative, got %s", f.Timeout)
	check(f.RateLimit >= 0, "fetch.rate_limit must not be negative, got %g", f.RateLimit)
	check(f.Direction == types.DirectionCitations || f.Direction == types.DirectionReferences,
		"fetch.direction must be citations or references, got %q", f.Direction)

	sm := cfg.Sampling
	check(sm.SampleSize >= 1, "sampling.sample_size must be at least 1, got %d", sm.SampleSize)
	check(sm.NoSamplingMax >= 1, "sampling.no_sampling_max must be at least 1, got %d", sm.NoSamplingMax)
	check(sm.NoSamplingMax <= sm.AdvisoryMax,
		"sampling.no_sampling_max (%d) must not exceed sampling.advisory_max (%d)", sm.NoSamplingMax, sm.AdvisoryMax)

	n := cfg.Narrative
	if _, err := narrative.ParseProviderKind(n.Provider); err != nil {
		errs = append(errs, err)
	}
	check(n.MaxRetries >= 0, "narrative.max_retries must not be negative, got %d", n.MaxRetries)

	switch strings.ToLower(cfg.Logging.Format) {
	case "console", "json":
	default:
		errs = append(errs, fmt.Errorf("logging.format must be console or json, got %q", cfg.Logging.Format))
	}

	return errors.Join(errs...)
}
