package calculation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func decimals(vs ...float64) []decimal.Decimal {
	out := make([]decimal.Decimal, len(vs))
	for i, v := range vs {
		out[i] = decimal.NewFromFloat(v)
	}
	return out
}

func TestMaxDrawdown(t *testing.T) {
	tests := []struct {
		name   string
		values []decimal.Decimal
		want   decimal.Decimal
	}{
		{"empty", nil, d(0)},
		{"rising", decimals(100, 110, 120), d(0)},
		{"single dip", decimals(100, 120, 90, 130, 117), d(-0.25)},
		{"leading zeros skipped", decimals(0, 0, 100, 50), d(-0.5)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertDecimal(t, tt.want, MaxDrawdown(tt.values))
		})
	}
}

func TestCAGR(t *testing.T) {
	assert.InDelta(t, 0.1, CAGR(d(1210), d(1000), 24).InexactFloat64(), 1e-9)
	assert.InDelta(t, -0.5, CAGR(d(500), d(1000), 12).InexactFloat64(), 1e-9)
	assert.True(t, CAGR(d(0), d(1000), 12).IsZero())
	assert.True(t, CAGR(d(100), d(0), 12).IsZero())
	assert.True(t, CAGR(d(100), d(100), 0).IsZero())
}

func TestPercentiles(t *testing.T) {
	values := make([]decimal.Decimal, 0, 10)
	for i := 10; i >= 1; i-- {
		values = append(values, decimal.NewFromInt(int64(i)))
	}
	p10, p25, p50, p75, p90 := percentiles(values)
	assertDecimal(t, d(2), p10)
	assertDecimal(t, d(3), p25)
	assertDecimal(t, d(6), p50)
	assertDecimal(t, d(8), p75)
	assertDecimal(t, d(10), p90)
	assertDecimal(t, d(10), values[0], "input must not be reordered")
}
