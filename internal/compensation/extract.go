// Package compensation finds the single best salary or rate expression in a
// posting description and formats it as "$<amount>[ - $<amount>]/<unit>".
//
// Extraction runs an ordered table of rules (see Rules) over the plain text
// of the description. Dollar-anchored occurrences always outrank bare-numeric
// ones; within the winning pool the occurrence that starts last wins, since
// scraped postings tend to restate compensation in a closing disclosure.
package compensation

import (
	"sort"

	"github.com/amishk599/jobfacts/internal/normalize"
)

// Candidate is one accepted rule occurrence.
type Candidate struct {
	Match string // matched substring
	Start int    // byte offset of Match in the plain text
	End   int
	Class PatternClass
	Rule  Rule

	lo, lok, hi, hik string
}

// Extract returns the formatted compensation for description, or "" when
// nothing plausible is found. It never fails.
func Extract(description string) string {
	text := normalize.PlainText(description)
	best, ok := choose(candidates(text))
	if !ok {
		return ""
	}
	return format(text, best)
}

// Candidates returns every accepted occurrence in text, ordered by start
// offset. text is matched as given; callers wanting the same view as Extract
// should pass normalize.PlainText output.
func Candidates(text string) []Candidate {
	cs := candidates(text)
	sort.SliceStable(cs, func(i, j int) bool { return cs[i].Start < cs[j].Start })
	return cs
}

// candidates runs the rules in table order and keeps an occurrence only if
// it does not overlap one accepted earlier. The result is in rule order.
func candidates(text string) []Candidate {
	if text == "" {
		return nil
	}
	var accepted []Candidate
	for _, r := range Rules {
		re := r.matcher()
		names := re.SubexpNames()
		for _, loc := range re.FindAllStringSubmatchIndex(text, -1) {
			start, end := loc[0], loc[1]
			if overlaps(accepted, start, end) {
				continue
			}
			c := Candidate{
				Match: text[start:end],
				Start: start,
				End:   end,
				Class: r.Class(),
				Rule:  r,
			}
			for i, name := range names {
				if name == "" || loc[2*i] < 0 {
					continue
				}
				v := text[loc[2*i]:loc[2*i+1]]
				switch name {
				case "lo":
					c.lo = v
				case "lok":
					c.lok = v
				case "hi":
					c.hi = v
				case "hik":
					c.hik = v
				}
			}
			accepted = append(accepted, c)
		}
	}
	return accepted
}

func overlaps(cs []Candidate, start, end int) bool {
	for _, c := range cs {
		if start < c.End && c.Start < end {
			return true
		}
	}
	return false
}

// choose picks the winner: the dollar-anchored pool when it is non-empty,
// otherwise the bare-numeric pool, and within the pool the greatest start
// offset. cs is in rule order, so a strict comparison lets the earlier rule
// win a tie.
func choose(cs []Candidate) (Candidate, bool) {
	pool := BareNumeric
	for _, c := range cs {
		if c.Class == DollarAnchored {
			pool = DollarAnchored
			break
		}
	}

	var best Candidate
	found := false
	for _, c := range cs {
		if c.Class != pool {
			continue
		}
		if !found || c.Start > best.Start {
			best = c
			found = true
		}
	}
	return best, found
}
