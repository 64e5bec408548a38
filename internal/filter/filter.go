package filter

import (
	"strings"

	"github.com/amishk599/jobfacts/internal/model"
)

var _ model.ViewFilter = (*FactFilter)(nil)

// FactFilter matches enriched views on their extracted facts. Keyword and
// location matching is case-insensitive. Empty lists are treated as "match all".
type FactFilter struct {
	keywords      []string
	locations     []string
	requireSalary bool
}

// NewFactFilter returns a filter that requires at least one listed keyword
// among the view's keywords, a listed location inside the canonical location
// and, when requireSalary is set, a non-empty salary.
func NewFactFilter(keywords, locations []string, requireSalary bool) *FactFilter {
	return &FactFilter{
		keywords:      lowerAll(keywords),
		locations:     lowerAll(locations),
		requireSalary: requireSalary,
	}
}

// Match reports whether v passes every configured criterion.
func (f *FactFilter) Match(v model.PostingView) bool {
	if f.requireSalary && v.Salary == "" {
		return false
	}

	if len(f.keywords) > 0 {
		matched := false
		for _, have := range v.Keywords {
			if contains(f.keywords, strings.ToLower(have)) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	if len(f.locations) > 0 {
		locationLower := strings.ToLower(v.Location)
		matched := false
		for _, loc := range f.locations {
			if strings.Contains(locationLower, loc) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	return true
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func contains(list []string, s string) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}
