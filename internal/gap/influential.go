// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package gap

import (
	"sort"

	"github.com/pdiddy/citegap/pkg/types"
)

const (
	// influentialBeforeYear and influentialMinCitations define an early
	// influential paper.
	influentialBeforeYear   = 2016
	influentialMinCitations = 200
	influentialMax          = 2
)

// MarkInfluential flags up to two of the oldest well-cited papers among the
// first 2×topN entries of a ranked list. Scores and order are unchanged.
func MarkInfluential(ranked []types.Candidate, topN int) {
	window := 2 * topN
	if window > len(ranked) {
		window = len(ranked)
	}
	if window <= 0 {
		return
	}

	var picks []int
	for i := 0; i < window; i++ {
		c := ranked[i]
		if c.Year < influentialBeforeYear && c.CitationCount >= influentialMinCitations {
			picks = append(picks, i)
		}
	}
	sort.SliceStable(picks, func(a, b int) bool {
		return ranked[picks[a]].Year < ranked[picks[b]].Year
	})
	if len(picks) > influentialMax {
		picks = picks[:influentialMax]
	}
	for _, i := range picks {
		ranked[i].EarlyInfluential = true
	}
}
