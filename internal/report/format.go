// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report renders an analysis report as a terminal table, JSON,
// YAML, or a CSL-YAML bibliography of the gaps, and saves run files.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/citegap/pkg/types"
)

// Format selects an output format.
type Format string

const (
	Table Format = "table"
	JSON  Format = "json"
	YAML  Format = "yaml"
	CSL   Format = "csl"
)

// Formats lists the supported formats.
var Formats = []Format{Table, JSON, YAML, CSL}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown output format %q (want table, json, yaml or csl)", s)
}

// Write renders r to w in format f.
func Write(w io.Writer, f Format, r types.Report) error {
	switch f {
	case Table:
		return FormatTable(w, r)
	case JSON:
		return FormatJSON(w, r)
	case YAML:
		return FormatYAML(w, r)
	case CSL:
		return FormatCSL(w, r)
	default:
		return fmt.Errorf("unknown output format %q", f)
	}
}

// FormatJSON writes the report as indented JSON.
func FormatJSON(w io.Writer, r types.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rounded(r))
}

// FormatYAML writes the report as YAML.
func FormatYAML(w io.Writer, r types.Report) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	enc.SetIndent(2)
	return enc.Encode(rounded(r))
}

// rounded returns a copy of r with scores rounded to two decimals.
func rounded(r types.Report) types.Report {
	gaps := make([]types.Candidate, len(r.Gaps))
	for i, c := range r.Gaps {
		c.ImpactScore = round2(c.ImpactScore)
		c.TotalScore = round2(c.TotalScore)
		gaps[i] = c
	}
	r.Gaps = gaps
	return r
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
