// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/pdiddy/citegap/pkg/types"
)

// FormatSources lists sources with their identifiers, then the titles of
// sources that have none.
func FormatSources(w io.Writer, with, without []types.SourcePaper) error {
	fmt.Fprintln(w, bold.Render(fmt.Sprintf("%d sources with identifiers", len(with))))
	if len(with) > 0 {
		rows := make([][]string, 0, len(with))
		for _, s := range with {
			year := ""
			if s.Year > 0 {
				year = strconv.Itoa(s.Year)
			}
			rows = append(rows, []string{s.ID, string(s.Scheme), s.Identifier, year, truncate(s.Title, titleWidth)})
		}
		t := table.New().
			Headers("Key", "Scheme", "Identifier", "Year", "Title").
			Rows(rows...).
			Border(lipgloss.NormalBorder()).
			BorderStyle(border).
			StyleFunc(func(row, col int) lipgloss.Style {
				if row == table.HeaderRow {
					return header
				}
				return noStyle
			})
		fmt.Fprintln(w, t.Render())
	}

	if len(without) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, bold.Render(fmt.Sprintf("%d sources without identifier (skipped)", len(without))))
		for _, s := range without {
			fmt.Fprintf(w, "  %s  %s\n", dim.Render(s.ID), s.Title)
		}
	}
	return nil
}
