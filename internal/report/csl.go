// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"io"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/citegap/pkg/types"
)

// CSLItem is a bibliographic entry in CSL-YAML form, readable by Pandoc
// and reference managers.
type CSLItem struct {
	ID     string   `yaml:"id"`
	Type   string   `yaml:"type"`
	Title  string   `yaml:"title"`
	Issued *CSLDate `yaml:"issued,omitempty"`
	URL    string   `yaml:"URL,omitempty"`
	Note   string   `yaml:"note,omitempty"`
}

// CSLDate is a CSL date using date-parts.
type CSLDate struct {
	DateParts [][]int `yaml:"date-parts"`
}

// semanticScholarPaperURL is the public page for a paper id.
const semanticScholarPaperURL = "https://www.semanticscholar.org/paper/"

// FormatCSL writes the gaps as a CSL-YAML list.
func FormatCSL(w io.Writer, r types.Report) error {
	items := make([]CSLItem, len(r.Gaps))
	for i, c := range r.Gaps {
		items[i] = toCSLItem(c)
	}
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(items)
}

func toCSLItem(c types.Candidate) CSLItem {
	item := CSLItem{
		ID:    "S2:" + c.PaperID,
		Type:  "article",
		Title: c.Title,
		URL:   semanticScholarPaperURL + c.PaperID,
	}
	if c.Year > 0 {
		item.Issued = &CSLDate{DateParts: [][]int{{c.Year}}}
	}
	if c.EarlyInfluential {
		item.Note = "early influential work"
	}
	return item
}
