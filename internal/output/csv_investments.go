package output

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/finpath/projection-engine/internal/domain"
)

// InvestmentsCSV exports the monthly portfolio value of every risk profile
// as one column per profile.
type InvestmentsCSV struct{}

func (c InvestmentsCSV) Name() string      { return "investments-csv" }
func (c InvestmentsCSV) Extension() string { return "csv" }

func (c InvestmentsCSV) Format(r *domain.ProjectionReport) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Month", "Date"}
	var series []domain.InvestmentSeries
	if r != nil && r.Investments != nil {
		series = r.Investments.Series
	}
	for _, s := range series {
		header = append(header, string(s.RiskProfile))
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	if len(series) > 0 {
		for i, m := range series[0].Months {
			row := []string{strconv.Itoa(m.Month), m.Date.Format(isoDate)}
			for _, s := range series {
				value := ""
				if i < len(s.Months) {
					value = s.Months[i].TotalValue.StringFixed(2)
				}
				row = append(row, value)
			}
			if err := w.Write(row); err != nil {
				return nil, err
			}
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
