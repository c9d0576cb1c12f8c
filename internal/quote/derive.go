package quote

import (
	"strings"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ParseNumber parses a textual numeric field permissively: whitespace is
// trimmed and anything that is not a digit, sign or dot is stripped, since
// some sources embed currency symbols or thousands separators. A value that
// still does not parse is absent, never zero.
func ParseNumber(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Decimal{}, false
	}
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r == '.', r == '-', r == '+':
			b.WriteRune(r)
		}
	}
	d, err := decimal.NewFromString(b.String())
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

// Derived is a change/percent pair computed against a reference price.
type Derived struct {
	Change        decimal.Decimal
	ChangePercent decimal.Decimal
}

// Derive computes the change of price against a reference (previous close or
// day open). An absent or zero reference yields zeros, never NaN or Inf.
func Derive(price, reference decimal.Decimal, hasRef bool) Derived {
	if !hasRef || reference.IsZero() {
		return Derived{}
	}
	change := price.Sub(reference)
	return Derived{
		Change:        change,
		ChangePercent: change.Div(reference).Mul(hundred),
	}
}

// FromHistory applies the two-point strategy to closes ordered oldest to
// newest: the last close is the current price, the second-to-last the
// reference. With fewer than two points the reference is absent.
func FromHistory(closes []decimal.Decimal) (price decimal.Decimal, d Derived, ok bool) {
	if len(closes) == 0 {
		return decimal.Decimal{}, Derived{}, false
	}
	price = closes[len(closes)-1]
	if len(closes) < 2 {
		return price, Derived{}, true
	}
	return price, Derive(price, closes[len(closes)-2], true), true
}

// FromPercent reconstructs the reference from a current price and an
// upstream percent change over the period ending at price. A percent of
// exactly -100 would place the reference at zero, so it degrades to zeros
// like any other zero reference.
func FromPercent(price, pct decimal.Decimal) Derived {
	den := hundred.Add(pct)
	if den.IsZero() {
		return Derived{}
	}
	ref := price.Mul(hundred).Div(den)
	return Derived{Change: price.Sub(ref), ChangePercent: pct}
}
