package output

import (
	"time"

	money "github.com/finpath/projection-engine/pkg/decimal"
	"github.com/shopspring/decimal"
)

// FormatCurrency formats a decimal as USD with thousands separators and 2 decimals.
func FormatCurrency(amount decimal.Decimal) string {
	return money.NewMoneyFromDecimal(amount).Format()
}

// FormatPercentage formats a value already expressed in percent, e.g. 12.35%.
func FormatPercentage(amount decimal.Decimal) string { return amount.StringFixed(2) + "%" }

// FormatFraction formats a fraction as a percentage, e.g. 0.1234 -> 12.34%.
func FormatFraction(f decimal.Decimal) string {
	return FormatPercentage(f.Mul(decimal.NewFromInt(100)))
}

// FormatMonth renders a month start as "Jan 2006".
func FormatMonth(t time.Time) string { return t.Format("Jan 2006") }

// FormatOptionalMonth renders nil as "never".
func FormatOptionalMonth(t *time.Time) string {
	if t == nil {
		return "never"
	}
	return FormatMonth(*t)
}

// isoDate is the date layout used in CSV exports.
const isoDate = "2006-01-02"
