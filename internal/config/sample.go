package config

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/finpath/projection-engine/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var sampleCategories = []string{
	"rent_mortgage", "utilities", "groceries", "dining_out",
	"transportation", "healthcare", "entertainment", "shopping",
	"subscriptions", domain.DebtPaymentsCategory, "savings", "miscellaneous",
}

type sampleDebt struct {
	kind           string
	minAmt, maxAmt float64
	minAPR, maxAPR float64
}

var sampleDebts = []sampleDebt{
	{"Credit Card", 500, 15000, 14, 25},
	{"Student Loan", 5000, 80000, 3, 7},
	{"Car Loan", 5000, 50000, 3, 8},
	{"Personal Loan", 1000, 20000, 6, 15},
}

var sampleTolerances = []domain.RiskTolerance{domain.RiskToleranceLow, domain.RiskToleranceMedium, domain.RiskToleranceHigh}

func cents(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

// SampleProfile draws a synthetic household from rng. Income scales with
// age, spending takes 60-95% of income split across the sample categories,
// and seven in ten households carry one to three debts. The same rng state
// always yields the same profile.
func SampleProfile(rng *rand.Rand) (*domain.FinancialProfile, error) {
	id, err := uuid.NewRandomFromReader(rng)
	if err != nil {
		return nil, fmt.Errorf("failed to draw profile id: %w", err)
	}

	age := 22 + rng.Intn(44)
	income := cents(max(rng.NormFloat64()*1500+3000+float64(age)*100, 2000))
	spend := income.Mul(decimal.NewFromFloat(uniform(rng, 0.6, 0.95)))

	// flat Dirichlet weights
	weights := make([]float64, len(sampleCategories))
	var sum float64
	for i := range weights {
		weights[i] = rng.ExpFloat64()
		sum += weights[i]
	}

	row := map[string]any{
		"id":             id.String(),
		"name":           "Sample " + strings.SplitN(id.String(), "-", 2)[0],
		"age":            age,
		"monthly_income": income,
		"risk_tolerance": string(sampleTolerances[rng.Intn(len(sampleTolerances))]),
	}
	total := decimal.Zero
	for i, c := range sampleCategories {
		amt := spend.Mul(decimal.NewFromFloat(weights[i] / sum)).Round(2)
		row[domain.ExpensePrefix+c] = amt
		total = total.Add(amt)
	}
	monthly := income.Sub(total)
	row["monthly_savings"] = monthly
	row["current_savings"] = decimal.Max(monthly, decimal.Zero).Mul(decimal.NewFromInt(int64(1 + rng.Intn(23))))

	debt := decimal.Zero
	row["primary_debt_type"] = domain.DebtTypeNone
	row["primary_debt_apr"] = decimal.Zero
	if rng.Float64() < 0.7 {
		largest := decimal.Zero
		for n := 1 + rng.Intn(3); n > 0; n-- {
			kind := sampleDebts[rng.Intn(len(sampleDebts))]
			amt := cents(uniform(rng, kind.minAmt, kind.maxAmt))
			apr := cents(uniform(rng, kind.minAPR, kind.maxAPR))
			debt = debt.Add(amt)
			if amt.GreaterThan(largest) {
				largest = amt
				row["primary_debt_type"] = kind.kind
				row["primary_debt_apr"] = apr
			}
		}
	}
	row["total_debt"] = debt

	return domain.ProfileFromMap(row)
}

// SampleProfiles draws n profiles from one seeded source
func SampleProfiles(seed int64, n int) ([]*domain.FinancialProfile, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: sample count must be positive (got %d)", domain.ErrInvalidProfile, n)
	}
	rng := rand.New(rand.NewSource(seed))
	out := make([]*domain.FinancialProfile, 0, n)
	for i := 0; i < n; i++ {
		p, err := SampleProfile(rng)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}
