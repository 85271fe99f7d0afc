// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package library

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/citegap/pkg/types"
)

// snapshotFile is the wrapped on-disk form: {items: [...]}. A bare list of
// items is accepted too.
type snapshotFile struct {
	Items []types.LibraryItem `json:"items" yaml:"items"`
}

// LoadFile reads a library snapshot from a .yaml, .yml, or .json file.
func LoadFile(path string) ([]types.LibraryItem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading library snapshot: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return decodeSnapshot(data, yaml.Unmarshal)
	case ".json":
		return decodeSnapshot(data, json.Unmarshal)
	default:
		return nil, fmt.Errorf("unsupported snapshot format %q: use .yaml or .json", filepath.Ext(path))
	}
}

func decodeSnapshot(data []byte, unmarshal func([]byte, any) error) ([]types.LibraryItem, error) {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" {
		return nil, nil
	}

	var list []types.LibraryItem
	if err := unmarshal(data, &list); err == nil {
		return list, nil
	}

	var wrapped snapshotFile
	if err := unmarshal(data, &wrapped); err != nil {
		return nil, fmt.Errorf("parsing library snapshot: %w", err)
	}
	return wrapped.Items, nil
}

// InCollection returns the items that belong to the named collection.
// An empty name returns items unchanged.
func InCollection(items []types.LibraryItem, name string) []types.LibraryItem {
	if name == "" {
		return items
	}
	var out []types.LibraryItem
	for _, item := range items {
		for _, c := range item.Collections {
			if strings.EqualFold(c, name) {
				out = append(out, item)
				break
			}
		}
	}
	return out
}
