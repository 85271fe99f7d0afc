// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/citegap/internal/library"
	"github.com/pdiddy/citegap/pkg/types"
)

// addLibraryFlags registers the flags that select the library to read.
func addLibraryFlags(cmd *cobra.Command) {
	cmd.Flags().String("library", "", "library snapshot file (.yaml, .yml or .json)")
	cmd.Flags().String("zotero", "", "path to a zotero.sqlite database (opened read-only)")
	cmd.Flags().String("collection", "", "restrict to the named collection")
	cmd.MarkFlagsMutuallyExclusive("library", "zotero")
	cmd.MarkFlagsOneRequired("library", "zotero")
}

// loadLibrary reads the items selected by the library flags and returns
// them with a label for reports.
func loadLibrary(ctx context.Context, cmd *cobra.Command) ([]types.LibraryItem, string, error) {
	path, _ := cmd.Flags().GetString("library")
	dbPath, _ := cmd.Flags().GetString("zotero")
	collection, _ := cmd.Flags().GetString("collection")

	var (
		items []types.LibraryItem
		label string
	)
	switch {
	case dbPath != "":
		r, err := library.OpenZotero(dbPath)
		if err != nil {
			return nil, "", err
		}
		defer r.Close()
		items, err = r.Items(ctx, collection)
		if err != nil {
			return nil, "", err
		}
		label = dbPath
	case path != "":
		var err error
		items, err = library.LoadFile(path)
		if err != nil {
			return nil, "", err
		}
		if collection != "" {
			items = library.InCollection(items, collection)
		}
		label = path
	default:
		return nil, "", fmt.Errorf("provide --library or --zotero")
	}

	if collection != "" {
		label = fmt.Sprintf("%s (collection %q)", label, collection)
	}
	return items, label, nil
}
