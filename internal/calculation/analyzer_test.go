package calculation

import (
	"testing"

	"github.com/finpath/projection-engine/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockLogger struct {
	mock.Mock
}

func (m *mockLogger) Debugf(format string, args ...any) {}
func (m *mockLogger) Infof(format string, args ...any)  {}
func (m *mockLogger) Warnf(format string, args ...any)  { m.Called(format) }
func (m *mockLogger) Errorf(format string, args ...any) { m.Called(format) }

func ptr(v float64) *decimal.Decimal {
	x := decimal.NewFromFloat(v)
	return &x
}

func expenses(pairs ...any) []domain.ExpenseItem {
	var out []domain.ExpenseItem
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, domain.ExpenseItem{Category: pairs[i].(string), Amount: decimal.NewFromFloat(pairs[i+1].(float64))})
	}
	return out
}

// referenceProfile: income 5000, expenses 3600 including 150 of debt payments,
// 10000 saved, 5000 of credit card debt at 18%
func referenceProfile() *domain.FinancialProfile {
	return &domain.FinancialProfile{
		MonthlyIncome:  ptr(5000),
		CurrentSavings: ptr(10000),
		Expenses: expenses(
			"rent", 1500.0,
			"utilities", 200.0,
			"groceries", 500.0,
			"dining", 300.0,
			"transportation", 250.0,
			"healthcare", 150.0,
			"entertainment", 200.0,
			"other", 350.0,
			"debt_payments", 150.0,
		),
		TotalDebt:       decimal.NewFromInt(5000),
		PrimaryDebtType: "Credit Card",
		PrimaryDebtAPR:  ptr(18),
		Age:             32,
		RiskTolerance:   domain.RiskToleranceMedium,
	}
}

func TestHealthAnalyzer_ReferenceProfile(t *testing.T) {
	p := referenceProfile()
	require.True(t, p.TotalExpenses().Equal(decimal.NewFromInt(3600)))

	result := NewHealthAnalyzer().Analyze(p)

	require.Len(t, result.Issues, 2)
	assert.Equal(t, "Insufficient emergency fund", result.Issues[0].Issue)
	assert.Equal(t, domain.SeverityMedium, result.Issues[0].Severity)
	assert.Contains(t, result.Issues[0].Details, "2.8 months")

	assert.Equal(t, "High-interest debt", result.Issues[1].Issue)
	assert.Equal(t, domain.SeverityMedium, result.Issues[1].Severity)
	assert.Equal(t, "Your Credit Card has a high APR of 18%", result.Issues[1].Details)

	assert.Equal(t, domain.HealthGood, result.FinancialHealth)
	assert.Equal(t, []string{
		"Increase monthly savings allocation until emergency fund reaches 3-6 months of expenses",
		"Prioritize paying off high-interest debt before focusing on other financial goals",
	}, result.ActionPlan)
}

func TestHealthAnalyzer_ZeroIncome(t *testing.T) {
	p := &domain.FinancialProfile{
		MonthlyIncome:  ptr(0),
		CurrentSavings: ptr(5000),
		Expenses:       expenses("rent", 500.0),
	}

	result := NewHealthAnalyzer().Analyze(p)

	require.Len(t, result.Issues, 2)
	assert.Equal(t, "Missing income information", result.Issues[0].Issue)
	assert.Equal(t, domain.SeverityHigh, result.Issues[0].Severity)
	assert.Equal(t, "Low savings rate", result.Issues[1].Issue)
	assert.Equal(t, domain.SeverityHigh, result.Issues[1].Severity)
	assert.Contains(t, result.Issues[1].Details, "0.0%")
	assert.Equal(t, domain.HealthPoor, result.FinancialHealth)
}

func TestHealthAnalyzer_Ratings(t *testing.T) {
	tests := []struct {
		name       string
		profile    *domain.FinancialProfile
		wantHealth domain.HealthRating
		wantIssues []string
	}{
		{
			name: "Excellent with no issues",
			profile: &domain.FinancialProfile{
				MonthlyIncome:  ptr(10000),
				CurrentSavings: ptr(50000),
				Expenses:       expenses("rent", 2000.0, "groceries", 1000.0),
			},
			wantHealth: domain.HealthExcellent,
			wantIssues: nil,
		},
		{
			name: "Fair with three medium issues",
			profile: &domain.FinancialProfile{
				MonthlyIncome:  ptr(5000),
				CurrentSavings: ptr(5000),
				MonthlySavings: ptr(400),
				Expenses:       expenses("rent", 3000.0, "other", 1250.0),
			},
			wantHealth: domain.HealthFair,
			wantIssues: []string{"Insufficient emergency fund", "High expenses", "Low savings rate"},
		},
		{
			name: "Poor from severe debt-to-income",
			profile: &domain.FinancialProfile{
				MonthlyIncome:  ptr(2000),
				CurrentSavings: ptr(10000),
				Expenses:       expenses("debt_payments", 1100.0),
			},
			wantHealth: domain.HealthPoor,
			wantIssues: []string{"High debt-to-income ratio"},
		},
		{
			name: "Debt type None ignores APR",
			profile: &domain.FinancialProfile{
				MonthlyIncome:   ptr(10000),
				CurrentSavings:  ptr(50000),
				Expenses:        expenses("rent", 2000.0),
				PrimaryDebtType: "None",
				PrimaryDebtAPR:  ptr(29),
			},
			wantHealth: domain.HealthExcellent,
		},
	}

	analyzer := NewHealthAnalyzer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := analyzer.Analyze(tt.profile)
			var names []string
			for _, i := range result.Issues {
				names = append(names, i.Issue)
			}
			assert.Equal(t, tt.wantIssues, names)
			assert.Equal(t, tt.wantHealth, result.FinancialHealth)
		})
	}
}

func TestHealthAnalyzer_DebtToIncomeDetails(t *testing.T) {
	p := &domain.FinancialProfile{
		MonthlyIncome:  ptr(2000),
		CurrentSavings: ptr(10000),
		Expenses:       expenses("debt_payments", 1100.0),
	}
	result := NewHealthAnalyzer().Analyze(p)
	require.Len(t, result.Issues, 1)
	assert.Equal(t, domain.SeverityHigh, result.Issues[0].Severity)
	assert.Equal(t, "Debt payments consume 55.0% of income (recommended: <36%)", result.Issues[0].Details)
}

func TestHealthAnalyzer_ActionPlanOrdersHighBeforeMedium(t *testing.T) {
	p := &domain.FinancialProfile{
		MonthlyIncome:   ptr(4000),
		CurrentSavings:  ptr(6000),
		MonthlySavings:  ptr(1000),
		Expenses:        expenses("rent", 3800.0),
		PrimaryDebtType: "Credit Card",
		PrimaryDebtAPR:  ptr(25),
	}
	result := NewHealthAnalyzer().Analyze(p)

	require.Len(t, result.Issues, 3)
	assert.Equal(t, domain.SeverityMedium, result.Issues[0].Severity) // emergency fund, 1.6 months
	assert.Equal(t, domain.SeverityHigh, result.Issues[1].Severity)   // expenses at 95%
	assert.Equal(t, domain.SeverityHigh, result.Issues[2].Severity)   // 25% APR

	assert.Equal(t, []string{
		"Review budget to identify areas for reduction, especially discretionary spending",
		"Prioritize paying off high-interest debt before focusing on other financial goals",
		"Increase monthly savings allocation until emergency fund reaches 3-6 months of expenses",
	}, result.ActionPlan)
	assert.Equal(t, domain.HealthPoor, result.FinancialHealth)
}

func TestHealthAnalyzer_InvalidProfile(t *testing.T) {
	logger := new(mockLogger)
	logger.On("Warnf", mock.Anything).Return()

	analyzer := NewHealthAnalyzer()
	analyzer.SetLogger(logger)

	result := analyzer.Analyze(&domain.FinancialProfile{CurrentSavings: ptr(100)})
	assert.Equal(t, InvalidProfileResult(), result)
	assert.Equal(t, domain.HealthPoor, result.FinancialHealth)
	assert.Equal(t, []string{"Re-enter financial data", "Verify all inputs are correct"}, result.ActionPlan)

	assert.Equal(t, InvalidProfileResult(), analyzer.Analyze(nil))
	logger.AssertNumberOfCalls(t, "Warnf", 2)
}

func TestHealthAnalyzer_DoesNotMutateProfile(t *testing.T) {
	p := referenceProfile()
	before := p.Clone()
	NewHealthAnalyzer().Analyze(p)
	assert.Equal(t, before, p)
}
