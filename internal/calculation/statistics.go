package calculation

import (
	"sort"

	money "github.com/finpath/projection-engine/pkg/decimal"
	"github.com/shopspring/decimal"
)

// MaxDrawdown returns the deepest fall from a running peak as a non-positive
// fraction. Peaks at or below zero are skipped.
func MaxDrawdown(values []decimal.Decimal) decimal.Decimal {
	worst := decimal.Zero
	if len(values) == 0 {
		return worst
	}
	peak := values[0]
	for _, v := range values {
		if v.GreaterThan(peak) {
			peak = v
		}
		if !peak.IsPositive() {
			continue
		}
		dd := v.Sub(peak).Div(peak)
		if dd.LessThan(worst) {
			worst = dd
		}
	}
	return worst
}

// CAGR returns the compound annual growth rate of invested growing to final
// over months. Zero when either amount is not positive.
func CAGR(final, invested decimal.Decimal, months int) decimal.Decimal {
	if months <= 0 || !invested.IsPositive() || !final.IsPositive() {
		return decimal.Zero
	}
	years := float64(months) / 12
	return money.PowFloat(final.Div(invested), 1/years).Sub(decimal.NewFromInt(1))
}

// percentiles returns P10..P90 of values using nearest-rank indexing
func percentiles(values []decimal.Decimal) (p10, p25, p50, p75, p90 decimal.Decimal) {
	n := len(values)
	if n == 0 {
		return
	}
	sorted := append([]decimal.Decimal(nil), values...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].LessThan(sorted[j]) })
	at := func(num, den int) decimal.Decimal {
		idx := n * num / den
		if idx >= n {
			idx = n - 1
		}
		return sorted[idx]
	}
	return at(1, 10), at(1, 4), at(1, 2), at(3, 4), at(9, 10)
}

func mean(values []decimal.Decimal) decimal.Decimal {
	if len(values) == 0 {
		return decimal.Zero
	}
	return money.Sum(values...).Div(decimal.NewFromInt(int64(len(values))))
}
