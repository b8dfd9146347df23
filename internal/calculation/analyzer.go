package calculation

import (
	"fmt"

	"github.com/finpath/projection-engine/internal/domain"
	money "github.com/finpath/projection-engine/pkg/decimal"
	"github.com/shopspring/decimal"
)

// Thresholds used by the health detectors. Ratios are percentages of monthly income.
var (
	emergencyFundMonths   = decimal.NewFromInt(3)
	debtToIncomeLimit     = decimal.NewFromInt(36)
	debtToIncomeSevere    = decimal.NewFromInt(50)
	expenseRatioHigh      = decimal.NewFromInt(80)
	expenseRatioExcessive = decimal.NewFromInt(90)
	savingsRateMinimum    = decimal.NewFromInt(10)
	highInterestAPR       = decimal.NewFromInt(10)
	severeInterestAPR     = decimal.NewFromInt(20)
)

// healthDetector inspects a validated profile and returns at most one issue
type healthDetector func(p *domain.FinancialProfile) *domain.Issue

// HealthAnalyzer scores a financial profile against fixed detector rules
type HealthAnalyzer struct {
	detectors []healthDetector
	logger    Logger
}

// NewHealthAnalyzer creates an analyzer with the standard detectors
func NewHealthAnalyzer() *HealthAnalyzer {
	return &HealthAnalyzer{
		detectors: []healthDetector{
			checkEmergencyFund,
			checkDebtToIncome,
			checkExpenseRatio,
			checkSavingsRate,
			checkHighInterestDebt,
		},
		logger: NopLogger{},
	}
}

// SetLogger sets the analyzer's logger
func (ha *HealthAnalyzer) SetLogger(l Logger) { ha.logger = loggerOrNop(l) }

// InvalidProfileResult is returned for profiles that fail validation
func InvalidProfileResult() *domain.AnalysisResult {
	return &domain.AnalysisResult{
		FinancialHealth: domain.HealthPoor,
		Issues: []domain.Issue{{
			Issue:          "Invalid Profile Data",
			Severity:       domain.SeverityHigh,
			Details:        "Unable to analyze profile due to missing or invalid data",
			Recommendation: "Re-enter financial data and verify all inputs are correct",
		}},
		ActionPlan: []string{"Re-enter financial data", "Verify all inputs are correct"},
	}
}

// Analyze runs every detector in order. An invalid profile never raises; it
// yields InvalidProfileResult and the validation error is logged.
func (ha *HealthAnalyzer) Analyze(p *domain.FinancialProfile) *domain.AnalysisResult {
	if err := p.Validate(); err != nil {
		ha.logger.Warnf("health analysis skipped: %v", err)
		return InvalidProfileResult()
	}

	issues := make([]domain.Issue, 0, len(ha.detectors))
	for _, detect := range ha.detectors {
		if issue := detect(p); issue != nil {
			issues = append(issues, *issue)
		}
	}

	result := &domain.AnalysisResult{
		FinancialHealth: rateHealth(issues),
		Issues:          issues,
		ActionPlan:      actionPlan(issues),
	}
	ha.logger.Debugf("health analysis: %s with %d issues", result.FinancialHealth, len(issues))
	return result
}

func rateHealth(issues []domain.Issue) domain.HealthRating {
	if len(issues) == 0 {
		return domain.HealthExcellent
	}
	for _, i := range issues {
		if i.Severity == domain.SeverityHigh {
			return domain.HealthPoor
		}
	}
	if len(issues) <= 2 {
		return domain.HealthGood
	}
	return domain.HealthFair
}

// actionPlan lists high-severity recommendations first, then medium, each in detector order
func actionPlan(issues []domain.Issue) []string {
	plan := make([]string, 0, len(issues))
	for _, sev := range []domain.Severity{domain.SeverityHigh, domain.SeverityMedium} {
		for _, i := range issues {
			if i.Severity == sev {
				plan = append(plan, i.Recommendation)
			}
		}
	}
	return plan
}

func checkEmergencyFund(p *domain.FinancialProfile) *domain.Issue {
	expenses := p.TotalExpenses()
	savings := p.Savings()
	if !savings.LessThan(expenses.Mul(emergencyFundMonths)) {
		return nil
	}
	months := money.SafeDiv(savings, expenses).Round(1)
	severity := domain.SeverityMedium
	if months.LessThan(decimal.NewFromInt(1)) {
		severity = domain.SeverityHigh
	}
	return &domain.Issue{
		Issue:          "Insufficient emergency fund",
		Severity:       severity,
		Details:        fmt.Sprintf("Current savings cover only %s months of expenses instead of recommended 3-6 months", months.StringFixed(1)),
		Recommendation: "Increase monthly savings allocation until emergency fund reaches 3-6 months of expenses",
	}
}

func checkDebtToIncome(p *domain.FinancialProfile) *domain.Issue {
	income := p.Income()
	if !income.IsPositive() {
		return nil
	}
	dti := p.DebtToIncome()
	if !dti.GreaterThan(debtToIncomeLimit) {
		return nil
	}
	severity := domain.SeverityMedium
	if dti.GreaterThan(debtToIncomeSevere) {
		severity = domain.SeverityHigh
	}
	return &domain.Issue{
		Issue:          "High debt-to-income ratio",
		Severity:       severity,
		Details:        fmt.Sprintf("Debt payments consume %s%% of income (recommended: <36%%)", dti.StringFixed(1)),
		Recommendation: "Focus on paying down high-interest debt and avoid taking on new debt",
	}
}

func checkExpenseRatio(p *domain.FinancialProfile) *domain.Issue {
	income := p.Income()
	if income.IsZero() {
		return &domain.Issue{
			Issue:          "Missing income information",
			Severity:       domain.SeverityHigh,
			Details:        "No monthly income data provided",
			Recommendation: "Ensure accurate monthly income is entered to assess financial health",
		}
	}
	ratio := money.Percent(p.TotalExpenses(), income)
	switch {
	case ratio.GreaterThan(expenseRatioExcessive):
		return &domain.Issue{
			Issue:          "Excessive expenses",
			Severity:       domain.SeverityHigh,
			Details:        fmt.Sprintf("Expenses consume %s%% of income, leaving little room for savings", ratio.StringFixed(1)),
			Recommendation: "Review budget to identify areas for reduction, especially discretionary spending",
		}
	case ratio.GreaterThan(expenseRatioHigh):
		return &domain.Issue{
			Issue:          "High expenses",
			Severity:       domain.SeverityMedium,
			Details:        fmt.Sprintf("Expenses consume %s%% of income", ratio.StringFixed(1)),
			Recommendation: "Consider the 50/30/20 rule: 50% needs, 30% wants, 20% savings/debt repayment",
		}
	}
	return nil
}

func checkSavingsRate(p *domain.FinancialProfile) *domain.Issue {
	rate := money.Percent(p.EffectiveMonthlySavings(), p.Income())
	if !rate.LessThan(savingsRateMinimum) {
		return nil
	}
	severity := domain.SeverityMedium
	if !rate.IsPositive() {
		severity = domain.SeverityHigh
	}
	return &domain.Issue{
		Issue:          "Low savings rate",
		Severity:       severity,
		Details:        fmt.Sprintf("Current savings rate is %s%% (recommended: at least 15-20%%)", rate.StringFixed(1)),
		Recommendation: "Aim to increase savings rate by reducing discretionary spending",
	}
}

func checkHighInterestDebt(p *domain.FinancialProfile) *domain.Issue {
	if p.DebtType() == domain.DebtTypeNone {
		return nil
	}
	apr := p.DebtAPR(decimal.Zero)
	if !apr.GreaterThan(highInterestAPR) {
		return nil
	}
	severity := domain.SeverityMedium
	if apr.GreaterThan(severeInterestAPR) {
		severity = domain.SeverityHigh
	}
	return &domain.Issue{
		Issue:          "High-interest debt",
		Severity:       severity,
		Details:        fmt.Sprintf("Your %s has a high APR of %s%%", p.DebtType(), apr.String()),
		Recommendation: "Prioritize paying off high-interest debt before focusing on other financial goals",
	}
}
