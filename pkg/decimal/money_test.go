package decimal

import (
	"testing"

	stddec "github.com/shopspring/decimal"
)

func TestConstructors(t *testing.T) {
	m := NewMoney(12.345)
	if m.String() != "12.35" {
		t.Fatalf("NewMoney display mismatch: got %s", m.String())
	}

	d := stddec.NewFromFloat(10.125)
	m2 := NewMoneyFromDecimal(d)
	if !m2.Decimal.Equal(d) {
		t.Fatalf("NewMoneyFromDecimal mismatch: got %s want %s", m2.Decimal, d)
	}
}

func TestPeriodConversions(t *testing.T) {
	m := NewMoney(100)
	if got := m.Annual().String(); got != "1200.00" {
		t.Fatalf("Annual got %s", got)
	}
	if got := m.Annual().Monthly().String(); got != "100.00" {
		t.Fatalf("Monthly after Annual got %s", got)
	}
}

func TestFloor(t *testing.T) {
	if got := NewMoney(-12.5).Floor().String(); got != "0.00" {
		t.Fatalf("Floor of negative got %s", got)
	}
	if got := NewMoney(12.5).Floor().String(); got != "12.50" {
		t.Fatalf("Floor of positive got %s", got)
	}
}

func TestFormat(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "$0.00"},
		{999.999, "$1,000.00"},
		{1234567.891, "$1,234,567.89"},
		{-2500, "-$2,500.00"},
		{12, "$12.00"},
	}
	for _, c := range cases {
		if got := NewMoney(c.in).Format(); got != c.want {
			t.Fatalf("Format(%v) got %s want %s", c.in, got, c.want)
		}
	}
}
