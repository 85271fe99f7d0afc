// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/citegap/pkg/types"
)

// RunFile is the on-disk record of one analysis run. A saved run can be
// re-rendered in any format without querying the API again.
type RunFile struct {
	Version int          `yaml:"version"`
	Report  types.Report `yaml:"report"`
}

const runFileVersion = 1

// WriteRunFile saves r as YAML at path.
func WriteRunFile(path string, r types.Report) error {
	data, err := yaml.Marshal(&RunFile{Version: runFileVersion, Report: rounded(r)})
	if err != nil {
		return fmt.Errorf("marshaling run file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadRunFile loads a run file written by WriteRunFile.
func ReadRunFile(path string) (types.Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.Report{}, fmt.Errorf("reading run file: %w", err)
	}
	var rf RunFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return types.Report{}, fmt.Errorf("parsing run file: %w", err)
	}
	if rf.Version != runFileVersion {
		return types.Report{}, fmt.Errorf("unsupported run file version %d", rf.Version)
	}
	return rf.Report, nil
}
