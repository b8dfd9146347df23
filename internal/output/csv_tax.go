package output

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/finpath/projection-engine/internal/domain"
)

// TaxCSV exports the multi-year tax projection.
type TaxCSV struct{}

func (c TaxCSV) Name() string      { return "tax-csv" }
func (c TaxCSV) Extension() string { return "csv" }

func (c TaxCSV) Format(r *domain.ProjectionReport) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Year", "AnnualIncome", "RetirementContribution", "FederalTax", "FICATax", "StateTax", "TakeHomePay", "TaxableInvestmentValue", "TaxAdvantagedValue", "TaxesOnInvestments", "TotalNetWorth"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	if r != nil {
		for _, y := range r.TaxProjection {
			row := []string{
				strconv.Itoa(y.Year),
				y.AnnualIncome.StringFixed(2),
				y.RetirementContribution.StringFixed(2),
				y.FederalTax.StringFixed(2),
				y.FICATax.StringFixed(2),
				y.StateTax.StringFixed(2),
				y.TakeHomePay.StringFixed(2),
				y.TaxableInvestmentValue.StringFixed(2),
				y.TaxAdvantagedValue.StringFixed(2),
				y.TaxesOnInvestments.StringFixed(2),
				y.TotalNetWorth.StringFixed(2),
			}
			if err := w.Write(row); err != nil {
				return nil, err
			}
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
