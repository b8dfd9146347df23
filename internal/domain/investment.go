package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AssetName identifies an asset class
type AssetName string

const (
	AssetSavingsAccount AssetName = "savings_account"
	AssetBonds          AssetName = "bonds"
	AssetIndexFunds     AssetName = "index_funds"
	AssetStocks         AssetName = "stocks"
	AssetCrypto         AssetName = "crypto"
)

// RiskProfileName identifies one of the five allocation tiers
type RiskProfileName string

const (
	VeryConservative RiskProfileName = "very_conservative"
	Conservative     RiskProfileName = "conservative"
	Moderate         RiskProfileName = "moderate"
	Aggressive       RiskProfileName = "aggressive"
	VeryAggressive   RiskProfileName = "very_aggressive"
)

// RiskProfileNames lists the tiers from least to most aggressive
var RiskProfileNames = []RiskProfileName{VeryConservative, Conservative, Moderate, Aggressive, VeryAggressive}

// AssetClass holds annual return assumptions for an asset
type AssetClass struct {
	Name             AssetName       `json:"name" yaml:"name"`
	AnnualReturn     decimal.Decimal `json:"annual_return" yaml:"annual_return"`
	AnnualVolatility decimal.Decimal `json:"annual_volatility" yaml:"annual_volatility"`
	RiskLevel        string          `json:"risk_level" yaml:"risk_level"`
}

// RiskProfile maps assets to portfolio weights summing to 1
type RiskProfile struct {
	Name       RiskProfileName               `json:"name" yaml:"name"`
	Allocation map[AssetName]decimal.Decimal `json:"allocation" yaml:"allocation"`
}

// InvestmentMonth is one month of a portfolio trajectory
type InvestmentMonth struct {
	Month       int                           `json:"month"`
	Date        time.Time                     `json:"date"`
	TotalValue  decimal.Decimal               `json:"total_value"`
	AssetValues map[AssetName]decimal.Decimal `json:"asset_values"`
}

// InvestmentSeries is the simulated trajectory for one risk profile
type InvestmentSeries struct {
	RiskProfile RiskProfileName   `json:"risk_profile"`
	Months      []InvestmentMonth `json:"months"`
}

// Values returns total portfolio value per month
func (s *InvestmentSeries) Values() []decimal.Decimal {
	out := make([]decimal.Decimal, len(s.Months))
	for i, m := range s.Months {
		out[i] = m.TotalValue
	}
	return out
}

// InvestmentSummary condenses a trajectory. CAGR and MaxDrawdown are fractions.
type InvestmentSummary struct {
	RiskProfile         RiskProfileName `json:"risk_profile"`
	InitialInvestment   decimal.Decimal `json:"initial_investment"`
	MonthlyContribution decimal.Decimal `json:"monthly_contribution"`
	TotalContributions  decimal.Decimal `json:"total_contributions"`
	TotalInvested       decimal.Decimal `json:"total_invested"`
	FinalValue          decimal.Decimal `json:"final_value"`
	TotalGrowth         decimal.Decimal `json:"total_growth"`
	GrowthPercentage    decimal.Decimal `json:"growth_percentage"`
	CAGR                decimal.Decimal `json:"cagr"`
	MaxDrawdown         decimal.Decimal `json:"max_drawdown"`
}

// RiskComparison holds one series and summary per risk profile, in RiskProfileNames order
type RiskComparison struct {
	Series    []InvestmentSeries  `json:"series"`
	Summaries []InvestmentSummary `json:"summaries"`
}

// Summary returns the summary for name
func (c *RiskComparison) Summary(name RiskProfileName) (InvestmentSummary, bool) {
	for _, s := range c.Summaries {
		if s.RiskProfile == name {
			return s, true
		}
	}
	return InvestmentSummary{}, false
}

// PercentileRanges holds distribution percentiles of a Monte Carlo outcome
type PercentileRanges struct {
	P10 decimal.Decimal `json:"p10"`
	P25 decimal.Decimal `json:"p25"`
	P50 decimal.Decimal `json:"p50"`
	P75 decimal.Decimal `json:"p75"`
	P90 decimal.Decimal `json:"p90"`
}

// MonteCarloProfileResult aggregates many trials for one risk profile
type MonteCarloProfileResult struct {
	RiskProfile       RiskProfileName  `json:"risk_profile"`
	Trials            int              `json:"trials"`
	FinalValues       PercentileRanges `json:"final_values"`
	MeanCAGR          decimal.Decimal  `json:"mean_cagr"`
	MedianMaxDrawdown decimal.Decimal  `json:"median_max_drawdown"`
	ProbabilityOfLoss decimal.Decimal  `json:"probability_of_loss"`
	TotalInvested     decimal.Decimal  `json:"total_invested"`
}

// MonteCarloResult holds per-profile distributions in RiskProfileNames order
type MonteCarloResult struct {
	Seed     int64                     `json:"seed"`
	Months   int                       `json:"months"`
	Profiles []MonteCarloProfileResult `json:"profiles"`
}
