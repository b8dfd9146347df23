package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ScenarioName identifies a behaviour path
type ScenarioName string

const (
	ScenarioCurrent  ScenarioName = "current"
	ScenarioImproved ScenarioName = "improved"
)

// Scenario parameterises a behaviour path
type Scenario struct {
	Name ScenarioName `json:"name" yaml:"name"`
	// IncomeGrowth is the annual raise, compounded every 12 months
	IncomeGrowth decimal.Decimal `json:"income_growth" yaml:"income_growth"`
	// ExpenseReduction is a fraction cut from expenses once, before month 0
	ExpenseReduction decimal.Decimal `json:"expense_reduction" yaml:"expense_reduction"`
	// ExtraDebtPayment is a fraction of the starting monthly income paid on top of the minimum
	ExtraDebtPayment decimal.Decimal `json:"extra_debt_payment" yaml:"extra_debt_payment"`
}

// MonthRecord is one month of a deterministic path
type MonthRecord struct {
	Month       int             `json:"month"`
	Date        time.Time       `json:"date"`
	Income      decimal.Decimal `json:"income"`
	Expenses    decimal.Decimal `json:"expenses"`
	DebtPayment decimal.Decimal `json:"debt_payment"`
	Interest    decimal.Decimal `json:"interest"`
	Savings     decimal.Decimal `json:"savings"`
	Debt        decimal.Decimal `json:"debt"`
	NetWorth    decimal.Decimal `json:"net_worth"`
}

// PathSeries is an ordered month-by-month projection for one scenario
type PathSeries struct {
	Scenario Scenario      `json:"scenario"`
	Months   []MonthRecord `json:"months"`
}

// Final returns the last month, or a zero record for an empty series
func (s *PathSeries) Final() MonthRecord {
	if len(s.Months) == 0 {
		return MonthRecord{}
	}
	return s.Months[len(s.Months)-1]
}

// PathOutcome is the end state of one scenario
type PathOutcome struct {
	FinalSavings  decimal.Decimal `json:"final_savings"`
	FinalDebt     decimal.Decimal `json:"final_debt"`
	FinalNetWorth decimal.Decimal `json:"final_net_worth"`
	// DebtFreeDate is nil when debt never reaches zero within the horizon
	DebtFreeDate  *time.Time `json:"debt_free_date,omitempty"`
	DebtFreeMonth *int       `json:"debt_free_month,omitempty"`
}

// PathDifference compares improved against current. Positive is better for the improved path.
type PathDifference struct {
	SavingsDiff  decimal.Decimal `json:"savings_diff"`
	DebtDiff     decimal.Decimal `json:"debt_diff"`
	NetWorthDiff decimal.Decimal `json:"net_worth_diff"`
}

// ComparisonSummary summarises a current vs improved comparison
type ComparisonSummary struct {
	EndDate    time.Time      `json:"end_date"`
	Current    PathOutcome    `json:"current"`
	Improved   PathOutcome    `json:"improved"`
	Difference PathDifference `json:"difference"`
}

// PathComparison holds both series and their summary
type PathComparison struct {
	Current  PathSeries        `json:"current"`
	Improved PathSeries        `json:"improved"`
	Summary  ComparisonSummary `json:"summary"`
}
