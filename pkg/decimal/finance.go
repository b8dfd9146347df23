package decimal

import (
	"math"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// SafeDiv divides a by b, returning zero when b is zero.
func SafeDiv(a, b decimal.Decimal) decimal.Decimal {
	if b.IsZero() {
		return decimal.Zero
	}
	return a.Div(b)
}

// Percent returns part as a percentage of whole, or zero when whole is zero.
func Percent(part, whole decimal.Decimal) decimal.Decimal {
	return SafeDiv(part, whole).Mul(hundred)
}

// PowFloat raises base to a possibly fractional exponent.
// shopspring's Pow only handles integer exponents, so this goes through float64.
func PowFloat(base decimal.Decimal, exp float64) decimal.Decimal {
	b, _ := base.Float64()
	r := math.Pow(b, exp)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(r)
}

// NonNegative clamps d at zero.
func NonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// Sum adds all values.
func Sum(values ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}

// Float returns d as a float64, ignoring exactness.
func Float(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}
