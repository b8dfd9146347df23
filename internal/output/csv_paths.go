package output

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/finpath/projection-engine/internal/domain"
)

// PathsCSV exports both behaviour paths, one row per scenario and month.
type PathsCSV struct{}

func (c PathsCSV) Name() string      { return "csv" }
func (c PathsCSV) Extension() string { return "csv" }

func (c PathsCSV) Format(r *domain.ProjectionReport) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Scenario", "Month", "Date", "Income", "Expenses", "DebtPayment", "Interest", "Savings", "Debt", "NetWorth"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	if r != nil && r.Paths != nil {
		for _, series := range []domain.PathSeries{r.Paths.Current, r.Paths.Improved} {
			for _, m := range series.Months {
				row := []string{
					string(series.Scenario.Name),
					strconv.Itoa(m.Month),
					m.Date.Format(isoDate),
					m.Income.StringFixed(2),
					m.Expenses.StringFixed(2),
					m.DebtPayment.StringFixed(2),
					m.Interest.StringFixed(2),
					m.Savings.StringFixed(2),
					m.Debt.StringFixed(2),
					m.NetWorth.StringFixed(2),
				}
				if err := w.Write(row); err != nil {
					return nil, err
				}
			}
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
