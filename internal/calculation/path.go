package calculation

import (
	"fmt"
	"sync"
	"time"

	"github.com/finpath/projection-engine/internal/domain"
	"github.com/finpath/projection-engine/pkg/dateutil"
	money "github.com/finpath/projection-engine/pkg/decimal"
	"github.com/shopspring/decimal"
)

// ledgerPlaces bounds the precision carried between months
const ledgerPlaces = 10

var (
	defaultDebtAPR     = decimal.NewFromInt(15)
	minimumPaymentRate = decimal.NewFromFloat(0.02)
	minimumPayment     = decimal.NewFromInt(25)
	savingsAPY         = decimal.NewFromFloat(0.02)
	monthsPerYear      = decimal.NewFromInt(12)
)

// CurrentScenario keeps today's behaviour with ordinary 2% annual raises
func CurrentScenario() domain.Scenario {
	return domain.Scenario{
		Name:             domain.ScenarioCurrent,
		IncomeGrowth:     decimal.NewFromFloat(0.02),
		ExpenseReduction: decimal.Zero,
		ExtraDebtPayment: decimal.Zero,
	}
}

// ImprovedScenario grows income 3% a year, cuts expenses 10% once and sends
// an extra 10% of starting income to debt every month
func ImprovedScenario() domain.Scenario {
	return domain.Scenario{
		Name:             domain.ScenarioImproved,
		IncomeGrowth:     decimal.NewFromFloat(0.03),
		ExpenseReduction: decimal.NewFromFloat(0.10),
		ExtraDebtPayment: decimal.NewFromFloat(0.10),
	}
}

// PathSimulator projects savings, debt and net worth month by month
type PathSimulator struct {
	start  time.Time
	logger Logger
}

// NewPathSimulator creates a simulator whose first month is start's month.
// A zero start uses the current month.
func NewPathSimulator(start time.Time) *PathSimulator {
	if start.IsZero() {
		start = nowFunc()
	}
	return &PathSimulator{start: dateutil.MonthStart(start), logger: NopLogger{}}
}

// SetLogger sets the simulator's logger
func (ps *PathSimulator) SetLogger(l Logger) { ps.logger = loggerOrNop(l) }

// Start returns the first simulated month
func (ps *PathSimulator) Start() time.Time { return ps.start }

func validateScenario(s domain.Scenario) error {
	one := decimal.NewFromInt(1)
	if s.IncomeGrowth.LessThanOrEqual(one.Neg()) {
		return fmt.Errorf("%w: income growth %s would eliminate income", domain.ErrInvalidScenario, s.IncomeGrowth)
	}
	if s.ExpenseReduction.IsNegative() || s.ExpenseReduction.GreaterThan(one) {
		return fmt.Errorf("%w: expense reduction %s outside [0, 1]", domain.ErrInvalidScenario, s.ExpenseReduction)
	}
	if s.ExtraDebtPayment.IsNegative() {
		return fmt.Errorf("%w: extra debt payment cannot be negative", domain.ErrInvalidScenario)
	}
	return nil
}

// Simulate runs one scenario for the given number of months. Each month:
// income grows on every 12-month boundary, debt accrues interest and takes a
// payment of the 2%-or-$25 minimum plus any extra, then savings earn 2% APY
// and absorb the month's cash flow.
func (ps *PathSimulator) Simulate(p *domain.FinancialProfile, scenario domain.Scenario, months int) (*domain.PathSeries, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if months <= 0 {
		return nil, fmt.Errorf("%w: months must be positive (got %d)", domain.ErrInvalidHorizon, months)
	}
	if err := validateScenario(scenario); err != nil {
		return nil, err
	}

	one := decimal.NewFromInt(1)
	income := p.Income()
	expenses := p.TotalExpenses().Mul(one.Sub(scenario.ExpenseReduction))
	extra := income.Mul(scenario.ExtraDebtPayment)
	monthlyInterest := p.DebtAPR(defaultDebtAPR).Div(decimal.NewFromInt(100)).Div(monthsPerYear)
	savingsRate := savingsAPY.Div(monthsPerYear)
	growth := one.Add(scenario.IncomeGrowth)

	savings := p.Savings()
	debt := p.TotalDebt
	dates := dateutil.MonthSeries(ps.start, months)
	records := make([]domain.MonthRecord, months)

	for i := 0; i < months; i++ {
		if i > 0 && i%12 == 0 {
			income = income.Mul(growth).Round(ledgerPlaces)
		}

		cash := income.Sub(expenses)
		payment := decimal.Zero
		interest := decimal.Zero
		if debt.IsPositive() {
			interest = debt.Mul(monthlyInterest).Round(ledgerPlaces)
			minimum := decimal.Max(debt.Mul(minimumPaymentRate), minimumPayment)
			payment = decimal.Min(minimum.Add(extra), debt.Add(interest))
			debt = debt.Add(interest).Sub(payment)
			cash = cash.Sub(payment)
		}

		savings = savings.Add(cash).Add(savings.Mul(savingsRate)).Round(ledgerPlaces)
		reported := money.NewMoneyFromDecimal(debt).Floor().Decimal

		records[i] = domain.MonthRecord{
			Month:       i,
			Date:        dates[i],
			Income:      income,
			Expenses:    expenses,
			DebtPayment: payment,
			Interest:    interest,
			Savings:     savings,
			Debt:        reported,
			NetWorth:    savings.Sub(reported),
		}
	}

	ps.logger.Debugf("path %s: %d months, final net worth %s", scenario.Name, months, records[months-1].NetWorth.StringFixed(2))
	return &domain.PathSeries{Scenario: scenario, Months: records}, nil
}

// Compare runs the default current and improved scenarios
func (ps *PathSimulator) Compare(p *domain.FinancialProfile, months int) (*domain.PathComparison, error) {
	return ps.CompareScenarios(p, CurrentScenario(), ImprovedScenario(), months)
}

// CompareScenarios runs both scenarios concurrently and summarises the difference
func (ps *PathSimulator) CompareScenarios(p *domain.FinancialProfile, current, improved domain.Scenario, months int) (*domain.PathComparison, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	scenarios := [2]domain.Scenario{current, improved}
	var series [2]*domain.PathSeries
	var errs [2]error
	var wg sync.WaitGroup
	for i := range scenarios {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			series[idx], errs[idx] = ps.Simulate(p, scenarios[idx], months)
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("failed to simulate %s path: %w", scenarios[i].Name, err)
		}
	}

	cur, imp := outcome(series[0]), outcome(series[1])
	return &domain.PathComparison{
		Current:  *series[0],
		Improved: *series[1],
		Summary: domain.ComparisonSummary{
			EndDate:  series[0].Final().Date,
			Current:  cur,
			Improved: imp,
			Difference: domain.PathDifference{
				SavingsDiff:  imp.FinalSavings.Sub(cur.FinalSavings),
				DebtDiff:     cur.FinalDebt.Sub(imp.FinalDebt),
				NetWorthDiff: imp.FinalNetWorth.Sub(cur.FinalNetWorth),
			},
		},
	}, nil
}

func outcome(s *domain.PathSeries) domain.PathOutcome {
	final := s.Final()
	o := domain.PathOutcome{
		FinalSavings:  final.Savings,
		FinalDebt:     final.Debt,
		FinalNetWorth: final.NetWorth,
	}
	for _, m := range s.Months {
		if m.Debt.Sign() <= 0 {
			date, month := m.Date, m.Month
			o.DebtFreeDate = &date
			o.DebtFreeMonth = &month
			break
		}
	}
	return o
}
