package calculation

import (
	"testing"
	"time"

	"github.com/finpath/projection-engine/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pathStart = time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

func simpleProfile(debt, apr float64) *domain.FinancialProfile {
	p := &domain.FinancialProfile{
		MonthlyIncome:  ptr(1000),
		CurrentSavings: ptr(0),
		Expenses:       expenses("rent", 600.0),
		TotalDebt:      decimal.NewFromFloat(debt),
	}
	if apr > 0 {
		p.PrimaryDebtAPR = ptr(apr)
		p.PrimaryDebtType = "Credit Card"
	}
	return p
}

func TestPathSimulator_SavingsCompounding(t *testing.T) {
	ps := NewPathSimulator(pathStart)
	series, err := ps.Simulate(simpleProfile(0, 0), CurrentScenario(), 2)
	require.NoError(t, err)
	require.Len(t, series.Months, 2)

	assertDecimal(t, d(400), series.Months[0].Savings)
	assert.InDelta(t, 800.6666666667, series.Months[1].Savings.InexactFloat64(), 1e-9)
	assert.True(t, series.Months[1].Debt.IsZero())
	assert.True(t, series.Months[1].NetWorth.Equal(series.Months[1].Savings))
}

func TestPathSimulator_DebtAmortization(t *testing.T) {
	ps := NewPathSimulator(pathStart)

	current, err := ps.Simulate(simpleProfile(1000, 12), CurrentScenario(), 1)
	require.NoError(t, err)
	m := current.Months[0]
	assertDecimal(t, d(10), m.Interest)
	assertDecimal(t, d(25), m.DebtPayment) // 2% of 1000 is below the $25 floor
	assertDecimal(t, d(985), m.Debt)
	assertDecimal(t, d(375), m.Savings)
	assertDecimal(t, d(-610), m.NetWorth)

	improved, err := ps.Simulate(simpleProfile(1000, 12), ImprovedScenario(), 1)
	require.NoError(t, err)
	m = improved.Months[0]
	assertDecimal(t, d(540), m.Expenses)
	assertDecimal(t, d(125), m.DebtPayment)
	assertDecimal(t, d(885), m.Debt)
	assertDecimal(t, d(335), m.Savings)
}

func TestPathSimulator_DefaultAPR(t *testing.T) {
	ps := NewPathSimulator(pathStart)
	p := simpleProfile(1000, 0)
	series, err := ps.Simulate(p, CurrentScenario(), 1)
	require.NoError(t, err)
	assertDecimal(t, d(12.5), series.Months[0].Interest)
}

func TestPathSimulator_IncomeGrowsOnYearBoundaries(t *testing.T) {
	ps := NewPathSimulator(pathStart)
	series, err := ps.Simulate(simpleProfile(0, 0), CurrentScenario(), 25)
	require.NoError(t, err)

	assertDecimal(t, d(1000), series.Months[11].Income)
	assertDecimal(t, d(1020), series.Months[12].Income)
	assertDecimal(t, d(1020), series.Months[23].Income)
	assertDecimal(t, d(1040.4), series.Months[24].Income, "growth compounds")
}

// The improved path cuts expenses once up front; the cut does not compound.
func TestPathSimulator_ExpenseReductionAppliedOnce(t *testing.T) {
	ps := NewPathSimulator(pathStart)
	series, err := ps.Simulate(simpleProfile(0, 0), ImprovedScenario(), 36)
	require.NoError(t, err)
	for _, m := range series.Months {
		assertDecimal(t, d(540), m.Expenses, "month %d", m.Month)
	}
}

func TestPathSimulator_Dates(t *testing.T) {
	ps := NewPathSimulator(pathStart)
	series, err := ps.Simulate(simpleProfile(0, 0), CurrentScenario(), 13)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), series.Months[0].Date)
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), series.Months[12].Date)
}

func TestPathSimulator_UsesNowWhenStartIsZero(t *testing.T) {
	SetNowFunc(func() time.Time { return time.Date(2030, 6, 20, 0, 0, 0, 0, time.UTC) })
	defer SetNowFunc(time.Now)

	ps := NewPathSimulator(time.Time{})
	assert.Equal(t, time.Date(2030, 6, 1, 0, 0, 0, 0, time.UTC), ps.Start())
}

func TestPathSimulator_Invalid(t *testing.T) {
	ps := NewPathSimulator(pathStart)

	p := simpleProfile(0, 0)
	p.MonthlyIncome = nil
	_, err := ps.Simulate(p, CurrentScenario(), 12)
	assert.ErrorIs(t, err, domain.ErrInvalidProfile)

	p = simpleProfile(0, 0)
	p.CurrentSavings = nil
	_, err = ps.Compare(p, 12)
	assert.ErrorIs(t, err, domain.ErrInvalidProfile)

	_, err = ps.Simulate(simpleProfile(0, 0), CurrentScenario(), 0)
	assert.ErrorIs(t, err, domain.ErrInvalidHorizon)

	bad := ImprovedScenario()
	bad.ExpenseReduction = d(1.5)
	_, err = ps.Simulate(simpleProfile(0, 0), bad, 12)
	assert.ErrorIs(t, err, domain.ErrInvalidScenario)
}

func TestPathSimulator_CompareDebtFree(t *testing.T) {
	ps := NewPathSimulator(pathStart)
	cmp, err := ps.Compare(simpleProfile(100, 12), 12)
	require.NoError(t, err)

	require.NotNil(t, cmp.Summary.Current.DebtFreeMonth)
	assert.Equal(t, 4, *cmp.Summary.Current.DebtFreeMonth)
	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), *cmp.Summary.Current.DebtFreeDate)

	require.NotNil(t, cmp.Summary.Improved.DebtFreeMonth)
	assert.Equal(t, 0, *cmp.Summary.Improved.DebtFreeMonth)

	assert.Equal(t, time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC), cmp.Summary.EndDate)
	assert.True(t, cmp.Summary.Difference.NetWorthDiff.Equal(
		cmp.Summary.Improved.FinalNetWorth.Sub(cmp.Summary.Current.FinalNetWorth)))
	assert.True(t, cmp.Summary.Difference.DebtDiff.Equal(
		cmp.Summary.Current.FinalDebt.Sub(cmp.Summary.Improved.FinalDebt)))
}

func TestPathSimulator_CompareNeverDebtFree(t *testing.T) {
	ps := NewPathSimulator(pathStart)
	p := simpleProfile(100000, 20)
	cmp, err := ps.Compare(p, 12)
	require.NoError(t, err)
	assert.Nil(t, cmp.Summary.Current.DebtFreeDate)
	assert.Nil(t, cmp.Summary.Improved.DebtFreeDate)
	assert.True(t, cmp.Summary.Current.FinalDebt.IsPositive())
}

func TestPathSimulator_ImprovedIsNeverLaterDebtFree(t *testing.T) {
	ps := NewPathSimulator(pathStart)
	for _, debt := range []float64{500, 5000, 20000, 60000} {
		for _, apr := range []float64{5, 18, 29} {
			for _, extra := range []float64{0.01, 0.05, 0.1, 0.3} {
				p := referenceProfile()
				p.TotalDebt = decimal.NewFromFloat(debt)
				p.PrimaryDebtAPR = ptr(apr)

				improved := ImprovedScenario()
				improved.ExtraDebtPayment = d(extra)
				cmp, err := ps.CompareScenarios(p, CurrentScenario(), improved, 60)
				require.NoError(t, err)

				cur, imp := cmp.Summary.Current.DebtFreeMonth, cmp.Summary.Improved.DebtFreeMonth
				if cur != nil {
					require.NotNil(t, imp, "debt %v apr %v extra %v", debt, apr, extra)
					assert.LessOrEqual(t, *imp, *cur, "debt %v apr %v extra %v", debt, apr, extra)
				}
				assert.True(t, cmp.Summary.Improved.FinalDebt.LessThanOrEqual(cmp.Summary.Current.FinalDebt))
			}
		}
	}
}

func TestPathSimulator_DebtNeverReportedNegative(t *testing.T) {
	ps := NewPathSimulator(pathStart)
	series, err := ps.Simulate(simpleProfile(300, 24), ImprovedScenario(), 24)
	require.NoError(t, err)
	for _, m := range series.Months {
		assert.False(t, m.Debt.IsNegative(), "month %d", m.Month)
	}
}

func TestPathSimulator_Deterministic(t *testing.T) {
	ps := NewPathSimulator(pathStart)
	a, err := ps.Compare(referenceProfile(), 60)
	require.NoError(t, err)
	b, err := ps.Compare(referenceProfile(), 60)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}
