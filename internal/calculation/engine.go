package calculation

import (
	"context"
	"fmt"
	"time"

	"github.com/finpath/projection-engine/internal/domain"
	money "github.com/finpath/projection-engine/pkg/decimal"
	"github.com/shopspring/decimal"
)

// DefaultHorizonMonths is the path and investment horizon when ReportOptions.Months is unset
const DefaultHorizonMonths = 60

// ReportOptions controls which sections BuildReport fills and how
type ReportOptions struct {
	Months int
	Seed   int64

	// Improved replaces ImprovedScenario() when set
	Improved *domain.Scenario

	// RetirementRate is the share of gross income sent to a traditional
	// retirement account in the tax sections. Nil means 5%; zero is kept.
	RetirementRate     *decimal.Decimal
	TaxProjectionYears int

	// MonteCarloTrials > 0 adds a Monte Carlo section
	MonteCarloTrials  int
	MonteCarloWorkers int
}

func (o ReportOptions) withDefaults() ReportOptions {
	if o.Months <= 0 {
		o.Months = DefaultHorizonMonths
	}
	if o.Seed == 0 {
		o.Seed = seedFunc()
	}
	if o.RetirementRate == nil {
		rate := decimal.NewFromFloat(0.05)
		o.RetirementRate = &rate
	}
	if o.TaxProjectionYears <= 0 {
		o.TaxProjectionYears = 5
	}
	return o
}

// Engine wires the four calculators together for report assembly
type Engine struct {
	Analyzer    *HealthAnalyzer
	Paths       *PathSimulator
	Investments *InvestmentSimulator
	Taxes       *TaxCalculator
	Logger      Logger
}

// NewEngine creates an engine with 2023 tax rules and the default catalog.
// A zero start uses the current month.
func NewEngine(start time.Time) *Engine {
	if start.IsZero() {
		start = nowFunc()
	}
	return &Engine{
		Analyzer:    NewHealthAnalyzer(),
		Paths:       NewPathSimulator(start),
		Investments: NewInvestmentSimulator(nil, start),
		Taxes:       NewTaxCalculator2023(),
		Logger:      NopLogger{},
	}
}

// SetLogger sets the logger on the engine and every calculator it owns
func (e *Engine) SetLogger(l Logger) {
	e.Logger = loggerOrNop(l)
	e.Analyzer.SetLogger(e.Logger)
	e.Paths.SetLogger(e.Logger)
	e.Investments.SetLogger(e.Logger)
}

// BuildReport runs every calculator against p. The profile must be valid:
// unlike Analyze, a report is not produced for bad input.
func (e *Engine) BuildReport(ctx context.Context, p *domain.FinancialProfile, opts ReportOptions) (*domain.ProjectionReport, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	opts = opts.withDefaults()
	profile := p.Clone()

	report := &domain.ProjectionReport{
		ProfileID:   profile.ID,
		GeneratedAt: nowFunc().UTC(),
		Profile:     profile,
		Analysis:    e.Analyzer.Analyze(profile),
	}

	improved := ImprovedScenario()
	if opts.Improved != nil {
		improved = *opts.Improved
	}
	paths, err := e.Paths.CompareScenarios(profile, CurrentScenario(), improved, opts.Months)
	if err != nil {
		return nil, fmt.Errorf("failed to simulate paths: %w", err)
	}
	report.Paths = paths

	recommended, err := e.Investments.RecommendRiskProfile(profile)
	if err != nil {
		return nil, err
	}
	report.RecommendedProfile = recommended

	investments, err := e.Investments.CompareRiskProfiles(ctx, RiskComparisonRequest{
		ProfileID:           profile.ID,
		MonthlyContribution: profile.MonthlyInvestmentContribution,
		InitialInvestment:   profile.CurrentInvestments,
		Months:              opts.Months,
		Seed:                opts.Seed,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to compare risk profiles: %w", err)
	}
	report.Investments = investments

	if opts.MonteCarloTrials > 0 {
		mc, err := e.Investments.RunMonteCarlo(ctx, MonteCarloConfig{
			ProfileID:           profile.ID,
			MonthlyContribution: profile.MonthlyInvestmentContribution,
			InitialInvestment:   profile.CurrentInvestments,
			Months:              opts.Months,
			Trials:              opts.MonteCarloTrials,
			Workers:             opts.MonteCarloWorkers,
			Seed:                opts.Seed,
		})
		if err != nil {
			return nil, err
		}
		report.MonteCarlo = mc
	}

	annual := money.NewMoneyFromDecimal(profile.Income()).Annual().Decimal
	takeHome, err := e.Taxes.TakeHomePay(annual, annual.Mul(*opts.RetirementRate), decimal.Zero)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate take-home pay: %w", err)
	}
	report.TakeHome = takeHome

	params := DefaultTaxProjectionParams(annual)
	params.Years = opts.TaxProjectionYears
	params.RetirementContribution = *opts.RetirementRate
	params.InitialInvestment = profile.CurrentInvestments
	projection, err := e.Taxes.ProjectTaxImpact(params)
	if err != nil {
		return nil, fmt.Errorf("failed to project taxes: %w", err)
	}
	report.TaxProjection = projection

	e.Logger.Infof("built report for profile %q: health %s, recommended %s", profile.ID, report.Analysis.FinancialHealth, recommended)
	return report, nil
}
