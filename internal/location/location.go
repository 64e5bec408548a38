// Package location reduces free-text posting locations to canonical US
// region tokens.
package location

import (
	"regexp"
	"sort"
	"strings"
)

var (
	byCode = make(map[string]Region, len(Regions))
	// byName holds the lower-cased state names, longest first, so that
	// "west virginia" is tried before "virginia".
	byName []namedRegion

	delimiters   = regexp.MustCompile(`[;,/|&]`)
	codePrefix   = regexp.MustCompile(`^\s*([A-Za-z]{2})\s*-`)
	trailingCode = regexp.MustCompile(`\s([A-Z]{2})$`)
)

type namedRegion struct {
	lower  string
	region Region
}

func init() {
	for _, r := range Regions {
		byCode[r.Code] = r
		byName = append(byName, namedRegion{lower: strings.ToLower(r.Name), region: r})
	}
	sort.SliceStable(byName, func(i, j int) bool {
		return len(byName[i].lower) > len(byName[j].lower)
	})
}

// Canonicalize returns the display form of raw: the single region name, or
// "Multiple locations: A, B" in first-seen order. When nothing resolves, raw
// is returned unchanged.
func Canonicalize(raw string) string {
	regions := Resolve(raw)
	switch len(regions) {
	case 0:
		return raw
	case 1:
		return regions[0].Name
	}
	names := make([]string, len(regions))
	for i, r := range regions {
		names[i] = r.Name
	}
	return "Multiple locations: " + strings.Join(names, ", ")
}

// Resolve returns the distinct regions mentioned in raw, in first-seen order.
// Any mention of "remote" short-circuits to Remote alone.
func Resolve(raw string) []Region {
	if strings.Contains(strings.ToLower(raw), "remote") {
		return []Region{Remote}
	}

	var out []Region
	seen := make(map[string]bool)
	add := func(rs []Region) {
		for _, r := range rs {
			if !seen[r.Code] {
				seen[r.Code] = true
				out = append(out, r)
			}
		}
	}

	for _, seg := range delimiters.Split(raw, -1) {
		if m := codePrefix.FindStringSubmatch(seg); m != nil {
			if r, ok := byCode[strings.ToUpper(m[1])]; ok {
				add([]Region{r})
				continue
			}
		}
		for _, part := range strings.Split(seg, "-") {
			add(resolveSegment(part))
		}
	}
	return out
}

// resolveSegment matches one delimiter-free piece of a location string.
func resolveSegment(seg string) []Region {
	s := strings.TrimSpace(seg)
	if s == "" {
		return nil
	}
	if len(s) == 2 {
		if r, ok := byCode[strings.ToUpper(s)]; ok {
			return []Region{r}
		}
	}

	found := containedNames(strings.ToLower(s))
	if m := trailingCode.FindStringSubmatch(s); m != nil {
		if r, ok := byCode[m[1]]; ok {
			found = append(found, r)
		}
	}
	return found
}

// containedNames finds every state name inside lower without letting two
// matches share bytes, and returns them in text order.
func containedNames(lower string) []Region {
	type hit struct {
		at     int
		region Region
	}
	var hits []hit
	taken := make([]bool, len(lower))

	for _, n := range byName {
		from := 0
		for {
			i := strings.Index(lower[from:], n.lower)
			if i < 0 {
				break
			}
			start := from + i
			end := start + len(n.lower)
			from = end
			if overlapsTaken(taken, start, end) {
				continue
			}
			for k := start; k < end; k++ {
				taken[k] = true
			}
			hits = append(hits, hit{at: start, region: n.region})
			break
		}
	}

	sort.Slice(hits, func(i, j int) bool { return hits[i].at < hits[j].at })
	out := make([]Region, len(hits))
	for i, h := range hits {
		out[i] = h.region
	}
	return out
}

func overlapsTaken(taken []bool, start, end int) bool {
	for k := start; k < end; k++ {
		if taken[k] {
			return true
		}
	}
	return false
}
