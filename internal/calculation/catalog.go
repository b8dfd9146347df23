package calculation

import (
	"fmt"

	"github.com/finpath/projection-engine/internal/domain"
	"github.com/shopspring/decimal"
)

// weightTolerance is how far a profile's weights may drift from 1
var weightTolerance = decimal.NewFromFloat(1e-9)

// Catalog is the immutable table of asset classes and risk profiles.
// Accessors return copies, so a Catalog can be shared across goroutines.
type Catalog struct {
	assets   []domain.AssetClass
	profiles map[domain.RiskProfileName]domain.RiskProfile
}

// DefaultCatalog returns the standard five assets and five allocation tiers
func DefaultCatalog() *Catalog {
	w := decimal.NewFromFloat
	assets := []domain.AssetClass{
		{Name: domain.AssetSavingsAccount, AnnualReturn: w(0.02), AnnualVolatility: w(0.002), RiskLevel: "very_low"},
		{Name: domain.AssetBonds, AnnualReturn: w(0.04), AnnualVolatility: w(0.05), RiskLevel: "low"},
		{Name: domain.AssetIndexFunds, AnnualReturn: w(0.08), AnnualVolatility: w(0.15), RiskLevel: "medium"},
		{Name: domain.AssetStocks, AnnualReturn: w(0.10), AnnualVolatility: w(0.20), RiskLevel: "high"},
		{Name: domain.AssetCrypto, AnnualReturn: w(0.15), AnnualVolatility: w(0.50), RiskLevel: "very_high"},
	}
	alloc := func(savings, bonds, index, stocks, crypto float64) map[domain.AssetName]decimal.Decimal {
		return map[domain.AssetName]decimal.Decimal{
			domain.AssetSavingsAccount: w(savings),
			domain.AssetBonds:          w(bonds),
			domain.AssetIndexFunds:     w(index),
			domain.AssetStocks:         w(stocks),
			domain.AssetCrypto:         w(crypto),
		}
	}
	profiles := []domain.RiskProfile{
		{Name: domain.VeryConservative, Allocation: alloc(0.70, 0.30, 0, 0, 0)},
		{Name: domain.Conservative, Allocation: alloc(0.40, 0.40, 0.20, 0, 0)},
		{Name: domain.Moderate, Allocation: alloc(0.20, 0.30, 0.40, 0.10, 0)},
		{Name: domain.Aggressive, Allocation: alloc(0.10, 0.15, 0.40, 0.30, 0.05)},
		{Name: domain.VeryAggressive, Allocation: alloc(0.05, 0.10, 0.30, 0.40, 0.15)},
	}
	c, err := NewCatalog(assets, profiles)
	if err != nil {
		panic(fmt.Sprintf("default catalog is invalid: %v", err))
	}
	return c
}

// NewCatalog validates and freezes a set of assets and profiles. Every
// profile must reference known assets only and its weights must sum to 1.
func NewCatalog(assets []domain.AssetClass, profiles []domain.RiskProfile) (*Catalog, error) {
	known := make(map[domain.AssetName]bool, len(assets))
	for _, a := range assets {
		if known[a.Name] {
			return nil, fmt.Errorf("duplicate asset class %q", a.Name)
		}
		if a.AnnualVolatility.IsNegative() {
			return nil, fmt.Errorf("asset class %q has negative volatility", a.Name)
		}
		known[a.Name] = true
	}

	c := &Catalog{
		assets:   append([]domain.AssetClass(nil), assets...),
		profiles: make(map[domain.RiskProfileName]domain.RiskProfile, len(profiles)),
	}
	for _, p := range profiles {
		sum := decimal.Zero
		for asset, weight := range p.Allocation {
			if !known[asset] {
				return nil, fmt.Errorf("risk profile %q references unknown asset %q", p.Name, asset)
			}
			if weight.IsNegative() {
				return nil, fmt.Errorf("risk profile %q has negative weight for %q", p.Name, asset)
			}
			sum = sum.Add(weight)
		}
		if sum.Sub(decimal.NewFromInt(1)).Abs().GreaterThan(weightTolerance) {
			return nil, fmt.Errorf("risk profile %q weights sum to %s, want 1", p.Name, sum)
		}
		c.profiles[p.Name] = copyProfile(p)
	}
	return c, nil
}

func copyProfile(p domain.RiskProfile) domain.RiskProfile {
	alloc := make(map[domain.AssetName]decimal.Decimal, len(p.Allocation))
	for k, v := range p.Allocation {
		alloc[k] = v
	}
	return domain.RiskProfile{Name: p.Name, Allocation: alloc}
}

// Assets returns the asset classes in catalog order
func (c *Catalog) Assets() []domain.AssetClass {
	return append([]domain.AssetClass(nil), c.assets...)
}

// Asset looks up one asset class
func (c *Catalog) Asset(name domain.AssetName) (domain.AssetClass, bool) {
	for _, a := range c.assets {
		if a.Name == name {
			return a, true
		}
	}
	return domain.AssetClass{}, false
}

// Profile looks up a risk profile by name
func (c *Catalog) Profile(name domain.RiskProfileName) (domain.RiskProfile, error) {
	p, ok := c.profiles[name]
	if !ok {
		return domain.RiskProfile{}, fmt.Errorf("%w: %q", domain.ErrUnknownRiskProfile, name)
	}
	return copyProfile(p), nil
}

// Profiles returns every profile in domain.RiskProfileNames order, skipping names the catalog lacks
func (c *Catalog) Profiles() []domain.RiskProfile {
	out := make([]domain.RiskProfile, 0, len(c.profiles))
	for _, name := range domain.RiskProfileNames {
		if p, ok := c.profiles[name]; ok {
			out = append(out, copyProfile(p))
		}
	}
	return out
}

// WithAssumptions returns a catalog whose listed assets use new return and
// volatility figures. Unlisted assets and all profiles are carried over.
func (c *Catalog) WithAssumptions(overrides map[domain.AssetName]domain.AssetClass) *Catalog {
	next := &Catalog{
		assets:   make([]domain.AssetClass, len(c.assets)),
		profiles: c.profiles,
	}
	for i, a := range c.assets {
		if o, ok := overrides[a.Name]; ok {
			a.AnnualReturn = o.AnnualReturn
			a.AnnualVolatility = o.AnnualVolatility
		}
		next.assets[i] = a
	}
	return next
}
