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

const (
	titleWidth     = 60
	influentialTag = "★"
)

var (
	bold     = lipgloss.NewStyle().Bold(true)
	dim      = lipgloss.NewStyle().Faint(true)
	yellow   = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	header   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("4"))
	border   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	noStyle  = lipgloss.NewStyle()
	numStyle = lipgloss.NewStyle().Align(lipgloss.Right)
)

// FormatTable writes the ranked gaps as a table followed by a summary of
// the run.
func FormatTable(w io.Writer, r types.Report) error {
	if len(r.Gaps) == 0 {
		fmt.Fprintln(w, "No citation gaps found.")
		writeSummary(w, r)
		return nil
	}

	fmt.Fprintln(w, bold.Render(fmt.Sprintf("%d citation gaps", len(r.Gaps))))
	fmt.Fprintln(w)

	rows := make([][]string, 0, len(r.Gaps))
	for i, c := range rounded(r).Gaps {
		mark := ""
		if c.EarlyInfluential {
			mark = yellow.Render(influentialTag)
		}
		year := ""
		if c.Year > 0 {
			year = strconv.Itoa(c.Year)
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			truncate(c.Title, titleWidth),
			year,
			strconv.Itoa(c.MentionCount),
			strconv.Itoa(c.CitationCount),
			strconv.FormatFloat(c.TotalScore, 'f', 2, 64),
			mark,
		})
	}

	t := table.New().
		Headers("#", "Title", "Year", "Mentions", "Citations", "Score", "").
		Rows(rows...).
		Border(lipgloss.NormalBorder()).
		BorderStyle(border).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			if col >= 3 && col <= 5 {
				return numStyle
			}
			return noStyle
		})
	fmt.Fprintln(w, t.Render())

	writeSummary(w, r)
	if r.Narrative != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, r.Narrative)
	}
	return nil
}

func writeSummary(w io.Writer, r types.Report) {
	s := r.Stats
	line := fmt.Sprintf("%d/%d sources fetched, %d citations, %d candidates",
		s.Successful, s.Total, s.Citations, r.Candidates)
	if s.Unsuccessful() > 0 {
		line += fmt.Sprintf(" (not found %d, rate limited %d, failed %d, no identifier %d)",
			s.NotFound, s.RateLimited, s.Failed, s.NoIdentifier)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, dim.Render(line))
	if r.Sampled {
		fmt.Fprintln(w, dim.Render(fmt.Sprintf("sampled %d of %d eligible sources", r.Analyzed, r.Eligible)))
	}
	if hasInfluential(r.Gaps) {
		fmt.Fprintln(w, dim.Render(influentialTag+" early influential work"))
	}
}

func hasInfluential(gaps []types.Candidate) bool {
	for _, c := range gaps {
		if c.EarlyInfluential {
			return true
		}
	}
	return false
}

// truncate cuts s to max runes, appending "…" if truncated.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
