package calculation

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/finpath/projection-engine/internal/domain"
	"github.com/finpath/projection-engine/pkg/dateutil"
	money "github.com/finpath/projection-engine/pkg/decimal"
	"github.com/shopspring/decimal"
)

// NormalSource yields standard normal draws. *rand.Rand satisfies it.
type NormalSource interface {
	NormFloat64() float64
}

// InvestmentSimulator projects portfolio growth under a risk profile's allocation
type InvestmentSimulator struct {
	catalog *Catalog
	start   time.Time
	logger  Logger
}

// NewInvestmentSimulator creates a simulator over catalog (DefaultCatalog when nil)
// whose first month is start's month (the current month when zero)
func NewInvestmentSimulator(catalog *Catalog, start time.Time) *InvestmentSimulator {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	if start.IsZero() {
		start = nowFunc()
	}
	return &InvestmentSimulator{catalog: catalog, start: dateutil.MonthStart(start), logger: NopLogger{}}
}

// SetLogger sets the simulator's logger
func (s *InvestmentSimulator) SetLogger(l Logger) { s.logger = loggerOrNop(l) }

// Catalog returns the asset and profile table in use
func (s *InvestmentSimulator) Catalog() *Catalog { return s.catalog }

// monthlyParams converts annual figures to a monthly mean by compounding and
// a monthly deviation by variance scaling
func monthlyParams(a domain.AssetClass) (mu, sigma float64) {
	r := money.Float(a.AnnualReturn)
	v := money.Float(a.AnnualVolatility)
	return math.Pow(1+r, 1.0/12) - 1, v / math.Sqrt(12)
}

func validateInvestment(contribution, initial decimal.Decimal, months int) error {
	if contribution.IsNegative() {
		return fmt.Errorf("%w: monthly contribution cannot be negative", domain.ErrInvalidInvestmentInput)
	}
	if initial.IsNegative() {
		return fmt.Errorf("%w: initial investment cannot be negative", domain.ErrInvalidInvestmentInput)
	}
	if months <= 0 {
		return fmt.Errorf("%w: months must be positive (got %d)", domain.ErrInvalidHorizon, months)
	}
	return nil
}

// SimulatePath draws months of returns for every asset with a nonzero weight,
// in catalog order, then advances each asset independently:
// value[t] = value[t-1]*(1+r[t]) + contribution*weight, starting from initial*weight.
func (s *InvestmentSimulator) SimulatePath(ctx context.Context, name domain.RiskProfileName, contribution, initial decimal.Decimal, months int, rng NormalSource) (*domain.InvestmentSeries, error) {
	profile, err := s.catalog.Profile(name)
	if err != nil {
		return nil, err
	}
	if err := validateInvestment(contribution, initial, months); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, fmt.Errorf("%w: random source is required", domain.ErrInvalidInvestmentInput)
	}

	type track struct {
		name    domain.AssetName
		value   decimal.Decimal
		deposit decimal.Decimal
		returns []float64
	}
	var tracks []track
	for _, asset := range s.catalog.assets {
		weight := profile.Allocation[asset.Name]
		if !weight.IsPositive() {
			continue
		}
		mu, sigma := monthlyParams(asset)
		returns := make([]float64, months)
		for i := range returns {
			returns[i] = mu + sigma*rng.NormFloat64()
		}
		tracks = append(tracks, track{
			name:    asset.Name,
			value:   initial.Mul(weight),
			deposit: contribution.Mul(weight),
			returns: returns,
		})
	}

	dates := dateutil.MonthSeries(s.start, months)
	out := make([]domain.InvestmentMonth, months)
	one := decimal.NewFromInt(1)
	for t := 0; t < months; t++ {
		if t%12 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		total := decimal.Zero
		values := make(map[domain.AssetName]decimal.Decimal, len(tracks))
		for i := range tracks {
			tr := &tracks[i]
			growth := one.Add(decimal.NewFromFloat(tr.returns[t]))
			tr.value = tr.value.Mul(growth).Add(tr.deposit).Round(ledgerPlaces)
			values[tr.name] = tr.value
			total = total.Add(tr.value)
		}
		out[t] = domain.InvestmentMonth{Month: t, Date: dates[t], TotalValue: total, AssetValues: values}
	}

	return &domain.InvestmentSeries{RiskProfile: name, Months: out}, nil
}

// Summarize condenses a trajectory into growth, CAGR and drawdown figures
func Summarize(series *domain.InvestmentSeries, contribution, initial decimal.Decimal) domain.InvestmentSummary {
	months := len(series.Months)
	contributions := contribution.Mul(decimal.NewFromInt(int64(months)))
	invested := initial.Add(contributions)
	final := decimal.Zero
	if months > 0 {
		final = series.Months[months-1].TotalValue
	}
	growth := final.Sub(invested)
	return domain.InvestmentSummary{
		RiskProfile:         series.RiskProfile,
		InitialInvestment:   initial,
		MonthlyContribution: contribution,
		TotalContributions:  contributions,
		TotalInvested:       invested,
		FinalValue:          final,
		TotalGrowth:         growth,
		GrowthPercentage:    money.Percent(growth, invested),
		CAGR:                CAGR(final, invested, months),
		MaxDrawdown:         MaxDrawdown(series.Values()),
	}
}

// RiskComparisonRequest configures CompareRiskProfiles
type RiskComparisonRequest struct {
	ProfileID           string
	MonthlyContribution decimal.Decimal
	InitialInvestment   decimal.Decimal
	Months              int
	// Seed is the base seed; zero draws one from the seed provider
	Seed int64
}

// CompareRiskProfiles simulates every catalog profile concurrently. Each
// simulation owns a generator seeded from (Seed, ProfileID, profile name), so
// results do not depend on scheduling.
func (s *InvestmentSimulator) CompareRiskProfiles(ctx context.Context, req RiskComparisonRequest) (*domain.RiskComparison, error) {
	if err := validateInvestment(req.MonthlyContribution, req.InitialInvestment, req.Months); err != nil {
		return nil, err
	}
	if req.Seed == 0 {
		req.Seed = seedFunc()
	}

	profiles := s.catalog.Profiles()
	series := make([]*domain.InvestmentSeries, len(profiles))
	errs := make([]error, len(profiles))
	var wg sync.WaitGroup
	for i, p := range profiles {
		wg.Add(1)
		go func(idx int, name domain.RiskProfileName) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(DeriveSeed(req.Seed, req.ProfileID, string(name))))
			series[idx], errs[idx] = s.SimulatePath(ctx, name, req.MonthlyContribution, req.InitialInvestment, req.Months, rng)
		}(i, p.Name)
	}
	wg.Wait()

	result := &domain.RiskComparison{
		Series:    make([]domain.InvestmentSeries, 0, len(profiles)),
		Summaries: make([]domain.InvestmentSummary, 0, len(profiles)),
	}
	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("failed to simulate %s: %w", profiles[i].Name, err)
		}
		result.Series = append(result.Series, *series[i])
		result.Summaries = append(result.Summaries, Summarize(series[i], req.MonthlyContribution, req.InitialInvestment))
	}
	s.logger.Debugf("compared %d risk profiles over %d months (seed %d)", len(profiles), req.Months, req.Seed)
	return result, nil
}

var (
	retirementAge        = 65
	minimumHorizonYears  = 5
	maxTimeScore         = decimal.NewFromInt(10)
	strongEmergencyScore = decimal.NewFromInt(7)
	weakEmergencyScore   = decimal.NewFromInt(3)
	toleranceScores      = map[domain.RiskTolerance]decimal.Decimal{
		domain.RiskToleranceLow:    decimal.NewFromInt(3),
		domain.RiskToleranceMedium: decimal.NewFromInt(6),
		domain.RiskToleranceHigh:   decimal.NewFromInt(9),
	}
	riskThresholds = []struct {
		below decimal.Decimal
		name  domain.RiskProfileName
	}{
		{decimal.NewFromInt(3), domain.VeryConservative},
		{decimal.NewFromInt(5), domain.Conservative},
		{decimal.NewFromInt(7), domain.Moderate},
		{decimal.NewFromFloat(8.5), domain.Aggressive},
	}
)

// RiskScore weighs time to retirement (0.5), emergency fund (0.3) and stated
// tolerance (0.2) into a 0-10 score
func RiskScore(p *domain.FinancialProfile) decimal.Decimal {
	years := dateutil.YearsUntilAge(p.EffectiveAge(), retirementAge, minimumHorizonYears)
	timeScore := decimal.Min(maxTimeScore, decimal.NewFromInt(int64(years)).Div(decimal.NewFromInt(4)))

	emergency := weakEmergencyScore
	if p.Savings().GreaterThanOrEqual(p.TotalExpenses().Mul(emergencyFundMonths)) {
		emergency = strongEmergencyScore
	}

	tolerance, ok := toleranceScores[p.Tolerance()]
	if !ok {
		tolerance = toleranceScores[domain.RiskToleranceMedium]
	}

	return timeScore.Mul(decimal.NewFromFloat(0.5)).
		Add(emergency.Mul(decimal.NewFromFloat(0.3))).
		Add(tolerance.Mul(decimal.NewFromFloat(0.2)))
}

// RecommendRiskProfile maps RiskScore onto the five tiers. Cut points are
// exclusive upper bounds.
func (s *InvestmentSimulator) RecommendRiskProfile(p *domain.FinancialProfile) (domain.RiskProfileName, error) {
	if err := p.Validate(); err != nil {
		return "", err
	}
	score := RiskScore(p)
	for _, th := range riskThresholds {
		if score.LessThan(th.below) {
			return th.name, nil
		}
	}
	return domain.VeryAggressive, nil
}
