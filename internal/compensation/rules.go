package compensation

import "regexp"

// PatternClass tells which priority pool a candidate belongs to.
type PatternClass int

const (
	// DollarAnchored patterns require a literal currency sign.
	DollarAnchored PatternClass = iota + 1
	// BareNumeric patterns match plain numbers disambiguated by a unit word.
	BareNumeric
)

func (c PatternClass) String() string {
	switch c {
	case DollarAnchored:
		return "dollar-anchored"
	case BareNumeric:
		return "bare-numeric"
	default:
		return "unknown"
	}
}

// Unit is the pay period of a formatted result.
type Unit string

const (
	Hour  Unit = "hr"
	Month Unit = "month"
	Year  Unit = "year"
)

// Rule is one entry of the extraction table. It is a closed sum type: the
// only variants are DollarAnchoredRule and BareNumericRule.
type Rule interface {
	Name() string
	Class() PatternClass
	matcher() *regexp.Regexp
	// unit picks the pay period for an accepted candidate. text is the full
	// plain text the candidate was found in.
	unit(text string, c Candidate, largest float64) Unit
}

// DollarAnchoredRule matches amounts that carry a "$". Its formatter takes
// the unit from an explicit keyword in the match or a label ending right
// before it, falling back to the magnitude of the largest amount.
type DollarAnchoredRule struct {
	name    string
	pattern *regexp.Regexp
}

func (r DollarAnchoredRule) Name() string            { return r.name }
func (r DollarAnchoredRule) Class() PatternClass     { return DollarAnchored }
func (r DollarAnchoredRule) matcher() *regexp.Regexp { return r.pattern }

func (r DollarAnchoredRule) unit(text string, c Candidate, largest float64) Unit {
	if u := explicitUnit(c.Match); u != "" {
		return u
	}
	if u := labelUnit(labelBefore(text, c.Start)); u != "" {
		// An hourly label never turns a four-figure amount into a wage.
		if u != Hour || largest < 1000 {
			return u
		}
	}
	return unitByMagnitude(largest)
}

// BareNumericRule matches plain numbers. The unit word is part of the
// pattern, so the formatter always uses the rule's fixed unit.
type BareNumericRule struct {
	name      string
	pattern   *regexp.Regexp
	fixedUnit Unit
}

func (r BareNumericRule) Name() string            { return r.name }
func (r BareNumericRule) Class() PatternClass     { return BareNumeric }
func (r BareNumericRule) matcher() *regexp.Regexp { return r.pattern }

func (r BareNumericRule) unit(string, Candidate, float64) Unit { return r.fixedUnit }

// Pattern fragments. Every rule names its amounts lo/hi and their thousands
// suffixes lok/hik.
const (
	num      = `(?:\d{1,3}(?:,\d{3})+|\d+)(?:\.\d{1,2})?`
	usd      = `(?:\s?USD)?`
	dash     = `\s*[-\x{2013}\x{2014}]\s*`
	hourWord = `(?:hours?|hrs?|h)\b`

	unitSuffix = `(?:\s*(?:/\s*|per\s+|an?\s+|each\s+)(?:hours?|hrs?|h|months?|mos?|years?|yrs?|annum)\b` +
		`|\s+(?:hourly|monthly|annually|yearly|annual))?`

	loAmount = `\$\s?(?P<lo>` + num + `)(?:\s?(?P<lok>[kK])\b)?` + usd
	hiAmount = `(?P<hi>` + num + `)(?:\s?(?P<hik>[kK])\b)?` + usd
)

// Rules is the ordered extraction table. Order matters twice: a candidate is
// dropped when it overlaps one accepted from an earlier rule, and on equal
// start offsets the earlier rule wins.
var Rules = []Rule{
	DollarAnchoredRule{
		name:    "dollar-range",
		pattern: regexp.MustCompile(`(?i)` + loAmount + dash + `\$?\s?` + hiAmount + unitSuffix),
	},
	DollarAnchoredRule{
		name: "dollar-word-range",
		pattern: regexp.MustCompile(`(?i)` + loAmount +
			`\s+(?:(?:to|through|thru|up\s+to)\s+\$?|and\s+\$)\s?` + hiAmount + unitSuffix),
	},
	// dollar-k-range only catches k ranges with no word boundary after the
	// first k, as in "$100kto120k". Spaced and dashed forms are claimed by the
	// two range rules above.
	DollarAnchoredRule{
		name: "dollar-k-range",
		pattern: regexp.MustCompile(`(?i)\$\s?(?P<lo>` + num + `)\s?(?P<lok>[kK])\s*(?:[-\x{2013}\x{2014}]|to)\s*` +
			`\$?\s?(?P<hi>` + num + `)\s?(?P<hik>[kK])\b` + unitSuffix),
	},
	DollarAnchoredRule{
		name: "dollar-hourly",
		pattern: regexp.MustCompile(`(?i)` + loAmount +
			`\s*(?:/\s*` + hourWord + `|per\s+hour\b|an\s+hour\b|hourly\b|p/h\b)`),
	},
	DollarAnchoredRule{
		name:    "dollar-single",
		pattern: regexp.MustCompile(`(?i)` + loAmount + unitSuffix),
	},
	BareNumericRule{
		name: "bare-hourly-range",
		pattern: regexp.MustCompile(`(?i)\b(?P<lo>` + num + `)(?:\s*(?:/\s*|per\s+)` + hourWord + `)?` + dash +
			`(?P<hi>` + num + `)\s*(?:/\s*|per\s+)` + hourWord),
		fixedUnit: Hour,
	},
	BareNumericRule{
		name: "bare-monthly",
		pattern: regexp.MustCompile(`(?i)\b(?P<lo>(?:\d{1,3}(?:,\d{3})+|\d{3,})(?:\.\d{1,2})?)` +
			`\s*(?:/\s*|per\s+|a\s+|each\s+)?(?:monthly|months?|mos?)\b`),
		fixedUnit: Month,
	},
}

var (
	hourKeyword  = regexp.MustCompile(`(?i)\b(?:hourly|hours?|hrs?)\b|/\s*h\b|\bp/h\b`)
	monthKeyword = regexp.MustCompile(`(?i)\b(?:monthly|months?|mos?)\b`)
	yearKeyword  = regexp.MustCompile(`(?i)\b(?:annual(?:ly)?|yearly|years?|yrs?|annum|salary|salaries)\b`)
)

// explicitUnit returns the unit named by a keyword in s, checking hour, then
// month, then year.
func explicitUnit(s string) Unit {
	switch {
	case hourKeyword.MatchString(s):
		return Hour
	case monthKeyword.MatchString(s):
		return Month
	case yearKeyword.MatchString(s):
		return Year
	default:
		return ""
	}
}

// unitLabel matches a pay-period label that ends the text, allowing only a
// few label words, a colon or dash, and a linking word between the keyword
// and the end: "Hourly rate:", "Annual salary -", "Salary of".
var unitLabel = regexp.MustCompile(`(?i)\b(hourly|hour|monthly|month|annual(?:ly)?|yearly|year|salary)` +
	`(?:\s+(?:base|pay|rate|wage|salary|compensation|range))*` +
	`\s*(?:[:=\-\x{2013}\x{2014}]|\b(?:of|is|at|from)\b)?\s*$`)

// labelUnit returns the unit of a label that ends s, or "" when s does not end
// with one. Unit words elsewhere in s are ignored.
func labelUnit(s string) Unit {
	m := unitLabel.FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	return explicitUnit(m[1])
}

// labelWindow is how far back from a match labelBefore looks.
const labelWindow = 40

// labelBefore returns the text between the start of the current sentence and
// start, at most labelWindow bytes.
func labelBefore(text string, start int) string {
	from := start - labelWindow
	if from < 0 {
		from = 0
	}
	w := text[from:start]
	for i := len(w) - 1; i >= 0; i-- {
		switch w[i] {
		case '.', '!', '?', ';':
			return w[i+1:]
		}
	}
	return w
}

func unitByMagnitude(largest float64) Unit {
	switch {
	case largest < 100:
		return Hour
	case largest >= 1000 && largest < 20000:
		return Month
	default:
		return Year
	}
}
