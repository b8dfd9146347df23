package calculation

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"sync"

	"github.com/finpath/projection-engine/internal/domain"
	"github.com/shopspring/decimal"
)

// DefaultMonteCarloWorkers caps concurrent trials when MonteCarloConfig.Workers is unset
const DefaultMonteCarloWorkers = 10

// MonteCarloConfig holds configuration for a Monte Carlo run over risk profiles
type MonteCarloConfig struct {
	ProfileID           string
	MonthlyContribution decimal.Decimal
	InitialInvestment   decimal.Decimal
	Months              int
	Trials              int
	Workers             int
	Seed                int64
	// RiskProfiles limits the run; empty means every catalog profile
	RiskProfiles []domain.RiskProfileName
}

// trialOutcome is what one trial keeps after its trajectory is discarded
type trialOutcome struct {
	final    decimal.Decimal
	cagr     decimal.Decimal
	drawdown decimal.Decimal
}

// RunMonteCarlo repeats SimulatePath Trials times per risk profile and
// aggregates the final values into percentile ranges. Trial i of profile p
// always uses the seed derived from (Seed, ProfileID, p, i), so the result
// is independent of Workers.
func (s *InvestmentSimulator) RunMonteCarlo(ctx context.Context, cfg MonteCarloConfig) (*domain.MonteCarloResult, error) {
	if err := validateInvestment(cfg.MonthlyContribution, cfg.InitialInvestment, cfg.Months); err != nil {
		return nil, err
	}
	if cfg.Trials <= 0 {
		return nil, fmt.Errorf("%w: trials must be positive (got %d)", domain.ErrInvalidInvestmentInput, cfg.Trials)
	}
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultMonteCarloWorkers
	}
	if cfg.Seed == 0 {
		cfg.Seed = seedFunc()
	}
	names := cfg.RiskProfiles
	if len(names) == 0 {
		for _, p := range s.catalog.Profiles() {
			names = append(names, p.Name)
		}
	}
	for _, name := range names {
		if _, err := s.catalog.Profile(name); err != nil {
			return nil, err
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	outcomes := make([][]trialOutcome, len(names))
	for i := range outcomes {
		outcomes[i] = make([]trialOutcome, cfg.Trials)
	}
	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)
	semaphore := make(chan struct{}, cfg.Workers)

dispatch:
	for p, name := range names {
		for trial := 0; trial < cfg.Trials; trial++ {
			select {
			case <-ctx.Done():
				break dispatch
			case semaphore <- struct{}{}:
			}
			wg.Add(1)
			go func(p, trial int, name domain.RiskProfileName) {
				defer wg.Done()
				defer func() { <-semaphore }()

				seed := DeriveSeed(cfg.Seed, cfg.ProfileID, string(name), strconv.Itoa(trial))
				series, err := s.SimulatePath(ctx, name, cfg.MonthlyContribution, cfg.InitialInvestment, cfg.Months, rand.New(rand.NewSource(seed)))
				if err != nil {
					errOnce.Do(func() {
						firstErr = err
						cancel()
					})
					return
				}
				summary := Summarize(series, cfg.MonthlyContribution, cfg.InitialInvestment)
				outcomes[p][trial] = trialOutcome{final: summary.FinalValue, cagr: summary.CAGR, drawdown: summary.MaxDrawdown}
			}(p, trial, name)
		}
	}
	wg.Wait()

	if firstErr != nil {
		return nil, fmt.Errorf("monte carlo trial failed: %w", firstErr)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	invested := cfg.InitialInvestment.Add(cfg.MonthlyContribution.Mul(decimal.NewFromInt(int64(cfg.Months))))
	result := &domain.MonteCarloResult{Seed: cfg.Seed, Months: cfg.Months}
	for p, name := range names {
		result.Profiles = append(result.Profiles, aggregateTrials(name, outcomes[p], invested))
	}
	s.logger.Debugf("monte carlo: %d profiles x %d trials (seed %d, workers %d)", len(names), cfg.Trials, cfg.Seed, cfg.Workers)
	return result, nil
}

func aggregateTrials(name domain.RiskProfileName, trials []trialOutcome, invested decimal.Decimal) domain.MonteCarloProfileResult {
	finals := make([]decimal.Decimal, len(trials))
	cagrs := make([]decimal.Decimal, len(trials))
	drawdowns := make([]decimal.Decimal, len(trials))
	losses := 0
	for i, t := range trials {
		finals[i] = t.final
		cagrs[i] = t.cagr
		drawdowns[i] = t.drawdown
		if t.final.LessThan(invested) {
			losses++
		}
	}
	p10, p25, p50, p75, p90 := percentiles(finals)
	_, _, medianDrawdown, _, _ := percentiles(drawdowns)
	return domain.MonteCarloProfileResult{
		RiskProfile:       name,
		Trials:            len(trials),
		FinalValues:       domain.PercentileRanges{P10: p10, P25: p25, P50: p50, P75: p75, P90: p90},
		MeanCAGR:          mean(cagrs),
		MedianMaxDrawdown: medianDrawdown,
		ProbabilityOfLoss: decimal.NewFromInt(int64(losses)).Div(decimal.NewFromInt(int64(len(trials)))),
		TotalInvested:     invested,
	}
}
