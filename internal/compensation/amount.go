package compensation

import (
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

var thousand = decimal.NewFromInt(1000)

// parseAmount reads one amount. Commas are thousands separators and a k
// suffix multiplies by 1,000; nothing else scales the value.
func parseAmount(value, suffix string) (decimal.Decimal, bool) {
	if value == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(value, ",", ""))
	if err != nil {
		return decimal.Zero, false
	}
	if suffix != "" {
		d = d.Mul(thousand)
	}
	return d, true
}

// format turns the winning candidate into the display string, or "" when the
// amounts fail the plausibility guard.
func format(text string, c Candidate) string {
	lo, ok := parseAmount(c.lo, c.lok)
	if !ok {
		return ""
	}
	amounts := []decimal.Decimal{lo}

	if c.hi != "" {
		hi, ok := parseAmount(c.hi, c.hik)
		if !ok {
			return ""
		}
		// "$90-120k": the suffix on the upper bound covers a bare lower bound.
		if c.hik != "" && c.lok == "" && lo.LessThan(thousand) {
			lo = lo.Mul(thousand)
			amounts[0] = lo
		}
		if !hi.Equal(lo) {
			amounts = append(amounts, hi)
		}
	}

	largest := amounts[len(amounts)-1]
	if largest.LessThan(amounts[0]) {
		largest = amounts[0]
	}
	unit := c.Rule.unit(text, c, largest.InexactFloat64())

	if !plausible(amounts, unit) {
		return ""
	}

	parts := make([]string, len(amounts))
	for i, a := range amounts {
		parts[i] = "$" + formatAmount(a, unit)
	}
	return strings.Join(parts, " - ") + "/" + string(unit)
}

var (
	hundred = decimal.NewFromInt(100)
	// ceiling bounds every amount; anything larger is a misread number.
	ceiling = decimal.NewFromInt(100_000_000)
)

// plausible rejects results that point at a false-positive match: a zero
// amount, an amount at or above ceiling, a yearly figure under 100, or an
// inverted range.
func plausible(amounts []decimal.Decimal, unit Unit) bool {
	for _, a := range amounts {
		if !a.IsPositive() || !a.LessThan(ceiling) {
			return false
		}
		if unit == Year && a.LessThan(hundred) {
			return false
		}
	}
	if len(amounts) == 2 && amounts[0].GreaterThan(amounts[1]) {
		return false
	}
	return true
}

// formatAmount renders hourly amounts with two decimals and everything else
// as whole dollars, both with thousands separators.
func formatAmount(d decimal.Decimal, unit Unit) string {
	if unit == Hour {
		d = d.Round(2)
		fixed := d.StringFixed(2)
		return humanize.BigComma(d.BigInt()) + fixed[len(fixed)-3:]
	}
	return humanize.BigComma(d.Round(0).BigInt())
}
