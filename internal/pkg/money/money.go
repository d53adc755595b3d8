// Package money holds the rounding and percentage helpers used for every
// monetary amount. All amounts are decimal.Decimal rounded to 2 places.
package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Hundred is the percentage divisor
var Hundred = decimal.NewFromInt(100)

// Round rounds half away from zero to 2 decimal places
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Percent returns pct percent of amount, unrounded
func Percent(amount, pct decimal.Decimal) decimal.Decimal {
	return amount.Mul(pct).Div(Hundred)
}

// Parse converts a settings or request string into an amount
func Parse(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(strings.ReplaceAll(s, ",", "")))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return d, nil
}

// Max returns the larger of a and b
func Max(a, b decimal.Decimal) decimal.Decimal {
	if a.GreaterThan(b) {
		return a
	}
	return b
}

// Format renders an amount with a currency symbol and thousands separators,
// e.g. Format(₦, 110000) = "₦110,000.00"
func Format(symbol string, d decimal.Decimal) string {
	s := d.StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	intPart, frac, _ := strings.Cut(s, ".")
	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}

	out := symbol + b.String() + "." + frac
	if neg {
		return "-" + out
	}
	return out
}
