package quote

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	v, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad literal %q: %v", s, err)
	}
	return v
}

func TestFromHistory_TwoPoints(t *testing.T) {
	price, d, ok := FromHistory([]decimal.Decimal{dec(t, "95"), dec(t, "100"), dec(t, "110")})
	if !ok {
		t.Fatal("want a price")
	}
	if price.InexactFloat64() != 110 {
		t.Fatalf("price = %v, want 110", price)
	}
	if d.Change.InexactFloat64() != 10 {
		t.Fatalf("change = %v, want 10", d.Change)
	}
	if d.ChangePercent.InexactFloat64() != 10.0 {
		t.Fatalf("changePercent = %v, want 10", d.ChangePercent)
	}
}

func TestFromHistory_SinglePoint_NoReference(t *testing.T) {
	price, d, ok := FromHistory([]decimal.Decimal{dec(t, "42.5")})
	if !ok {
		t.Fatal("want a price")
	}
	if price.InexactFloat64() != 42.5 {
		t.Fatalf("price = %v", price)
	}
	if !d.Change.IsZero() || !d.ChangePercent.IsZero() {
		t.Fatalf("want zero change with one point, got %+v", d)
	}
}

func TestFromHistory_Empty(t *testing.T) {
	if _, _, ok := FromHistory(nil); ok {
		t.Fatal("empty history must not produce a price")
	}
}

func TestDerive_ZeroReference(t *testing.T) {
	d := Derive(dec(t, "10"), decimal.Zero, true)
	if d.Change.InexactFloat64() != 0 || d.ChangePercent.InexactFloat64() != 0 {
		t.Fatalf("zero reference must yield exact zeros, got %+v", d)
	}
}

func TestDerive_AbsentReference(t *testing.T) {
	d := Derive(dec(t, "10"), decimal.Decimal{}, false)
	if !d.Change.IsZero() || !d.ChangePercent.IsZero() {
		t.Fatalf("absent reference must yield zeros, got %+v", d)
	}
}

func TestFromPercent_ReconstructsReference(t *testing.T) {
	d := FromPercent(dec(t, "110"), dec(t, "10"))
	if d.Change.InexactFloat64() != 10 {
		t.Fatalf("change = %v, want 10", d.Change)
	}
	if d.ChangePercent.InexactFloat64() != 10 {
		t.Fatalf("changePercent = %v, want 10", d.ChangePercent)
	}
}

func TestFromPercent_MinusHundred(t *testing.T) {
	d := FromPercent(dec(t, "1"), dec(t, "-100"))
	if !d.Change.IsZero() || !d.ChangePercent.IsZero() {
		t.Fatalf("pct=-100 must degrade to zeros, got %+v", d)
	}
}

func TestParseNumber(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"110.5", 110.5, true},
		{"  42 ", 42, true},
		{"-3.25", -3.25, true},
		{"₹1,234.50", 1234.50, true},
		{"$99", 99, true},
		{"12.5%", 12.5, true},
		{"", 0, false},
		{"N/D", 0, false},
		{"-", 0, false},
		{"abc", 0, false},
	}
	for _, c := range cases {
		got, ok := ParseNumber(c.in)
		if ok != c.ok {
			t.Fatalf("ParseNumber(%q) ok = %v, want %v", c.in, ok, c.ok)
		}
		if ok && got.InexactFloat64() != c.want {
			t.Fatalf("ParseNumber(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}
