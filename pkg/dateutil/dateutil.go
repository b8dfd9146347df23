package dateutil

import (
	"time"
)

// MonthStart returns midnight UTC on the first day of t's month
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// AddMonths adds a specified number of calendar months to a date
func AddMonths(date time.Time, months int) time.Time {
	return date.AddDate(0, months, 0)
}

// MonthSeries returns n consecutive month starts beginning at start's month.
func MonthSeries(start time.Time, n int) []time.Time {
	if n <= 0 {
		return nil
	}
	first := MonthStart(start)
	out := make([]time.Time, n)
	for i := 0; i < n; i++ {
		out[i] = AddMonths(first, i)
	}
	return out
}

// YearsToMonths converts a horizon in years to months
func YearsToMonths(years int) int {
	return years * 12
}

// YearsUntilAge returns the whole years from currentAge until targetAge,
// never less than minimum.
func YearsUntilAge(currentAge, targetAge, minimum int) int {
	years := targetAge - currentAge
	if years < minimum {
		return minimum
	}
	return years
}
