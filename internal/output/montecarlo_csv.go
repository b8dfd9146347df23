package output

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/finpath/projection-engine/internal/domain"
)

// MonteCarloCSV exports the Monte Carlo distribution, one row per risk profile.
type MonteCarloCSV struct{}

func (c MonteCarloCSV) Name() string      { return "montecarlo-csv" }
func (c MonteCarloCSV) Extension() string { return "csv" }

func (c MonteCarloCSV) Format(r *domain.ProjectionReport) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"RiskProfile", "Trials", "TotalInvested", "P10", "P25", "P50", "P75", "P90", "MeanCAGR", "MedianMaxDrawdown", "ProbabilityOfLoss"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	if r != nil && r.MonteCarlo != nil {
		for _, p := range r.MonteCarlo.Profiles {
			row := []string{
				string(p.RiskProfile),
				strconv.Itoa(p.Trials),
				p.TotalInvested.StringFixed(2),
				p.FinalValues.P10.StringFixed(2),
				p.FinalValues.P25.StringFixed(2),
				p.FinalValues.P50.StringFixed(2),
				p.FinalValues.P75.StringFixed(2),
				p.FinalValues.P90.StringFixed(2),
				p.MeanCAGR.StringFixed(6),
				p.MedianMaxDrawdown.StringFixed(6),
				p.ProbabilityOfLoss.StringFixed(4),
			}
			if err := w.Write(row); err != nil {
				return nil, err
			}
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
