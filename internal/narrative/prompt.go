// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package narrative

import (
	"fmt"
	"strings"

	"github.com/pdiddy/citegap/pkg/types"
)

// maxPromptGaps caps how many gaps are listed in the prompt.
const maxPromptGaps = 10

const promptInstructions = `You are helping a researcher review their reference library.
The papers below are frequently cited by papers that cite the library's
sources, but they are not in the library. Write two or three short
paragraphs that group the gaps by theme, say which ones look most worth
reading first, and point out any older foundational work (marked
"early influential"). Do not invent papers that are not listed.`

// BuildPrompt assembles the completion prompt for a report.
func BuildPrompt(r types.Report) string {
	var b strings.Builder
	b.WriteString(promptInstructions)
	b.WriteString("\n\n")

	if r.Library != "" {
		fmt.Fprintf(&b, "Library: %s\n", r.Library)
	}
	fmt.Fprintf(&b, "Sources analyzed: %d of %d eligible", r.Analyzed, r.Eligible)
	if r.Sampled {
		b.WriteString(" (random sample)")
	}
	b.WriteString("\n\nGaps:\n")

	for i, c := range r.Gaps {
		if i == maxPromptGaps {
			break
		}
		year := "n.d."
		if c.Year > 0 {
			year = fmt.Sprintf("%d", c.Year)
		}
		fmt.Fprintf(&b, "%d. %s (%s), cited %d times overall, mentioned %d times",
			i+1, c.Title, year, c.CitationCount, c.MentionCount)
		if c.EarlyInfluential {
			b.WriteString(", early influential")
		}
		b.WriteString("\n")
	}
	return b.String()
}
