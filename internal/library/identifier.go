// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package library

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/pdiddy/citegap/pkg/types"
)

// doiPattern matches bare DOIs: "10.1145/1234567.1234568".
var doiPattern = regexp.MustCompile(`^10\.\d{4,9}/\S+$`)

// extraDOIPattern finds a "DOI: 10.x/..." line in a free-form Extra field.
var extraDOIPattern = regexp.MustCompile(`(?im)^\s*doi:\s*(10\.\d{4,9}/\S+)\s*$`)

// arxivPattern finds arXiv ids: "2301.07041", "arXiv:2301.07041v2".
var arxivPattern = regexp.MustCompile(`(?i)(?:arxiv[:\s]\s*|arxiv\.org/(?:abs|pdf)/)(\d{4}\.\d{4,5})(?:v\d+)?`)

// NormalizeDOI trims a DOI and strips the resolver and "doi:" prefixes.
// It returns "" when the result is not a DOI.
func NormalizeDOI(raw string) string {
	s := strings.TrimSpace(raw)
	lower := strings.ToLower(s)
	for _, prefix := range []string{"https://doi.org/", "http://doi.org/", "https://dx.doi.org/", "http://dx.doi.org/", "doi.org/", "doi:"} {
		if strings.HasPrefix(lower, prefix) {
			s = strings.TrimSpace(s[len(prefix):])
			lower = strings.ToLower(s)
			break
		}
	}
	if !doiPattern.MatchString(s) {
		return ""
	}
	return lower
}

// ExtractIdentifier returns the best external identifier for an item: the
// DOI field, a DOI line in Extra, a doi.org URL, then an arXiv id from Extra
// or URL. It returns an empty identifier when none is usable.
func ExtractIdentifier(item types.LibraryItem) (string, types.IdentifierScheme) {
	if doi := NormalizeDOI(item.DOI); doi != "" {
		return doi, types.SchemeDOI
	}
	if m := extraDOIPattern.FindStringSubmatch(item.Extra); m != nil {
		if doi := NormalizeDOI(m[1]); doi != "" {
			return doi, types.SchemeDOI
		}
	}
	if u, err := url.Parse(strings.TrimSpace(item.URL)); err == nil && strings.HasSuffix(strings.ToLower(u.Host), "doi.org") {
		if doi := NormalizeDOI(strings.TrimPrefix(u.Path, "/")); doi != "" {
			return doi, types.SchemeDOI
		}
	}
	for _, field := range []string{item.Extra, item.URL} {
		if m := arxivPattern.FindStringSubmatch(field); m != nil {
			return m[1], types.SchemeArxiv
		}
	}
	return "", ""
}
