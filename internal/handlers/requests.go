package handlers

import (
	"fmt"

	"github.com/finpath/projection-engine/internal/calculation"
	"github.com/finpath/projection-engine/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	maxMonths = 1200
	maxTrials = 100000
	maxYears  = 100
)

type pathsRequest struct {
	Profile  *domain.FinancialProfile `json:"profile"`
	Months   int                      `json:"months,omitempty"`
	Improved *domain.Scenario         `json:"improved,omitempty"`
}

type investmentsRequest struct {
	ProfileID           string          `json:"profile_id,omitempty"`
	MonthlyContribution decimal.Decimal `json:"monthly_contribution"`
	InitialInvestment   decimal.Decimal `json:"initial_investment"`
	Months              int             `json:"months,omitempty"`
	Seed                int64           `json:"seed,omitempty"`
}

type monteCarloRequest struct {
	investmentsRequest
	Trials       int                      `json:"trials"`
	Workers      int                      `json:"workers,omitempty"`
	RiskProfiles []domain.RiskProfileName `json:"risk_profiles,omitempty"`
}

type recommendationResponse struct {
	RiskProfile domain.RiskProfileName `json:"risk_profile"`
	Score       decimal.Decimal        `json:"score"`
}

type takeHomeRequest struct {
	AnnualIncome           decimal.Decimal `json:"annual_income"`
	RetirementContribution decimal.Decimal `json:"retirement_contribution"`
	OtherPretax            decimal.Decimal `json:"other_pretax"`
}

type taxProjectionRequest struct {
	AnnualIncome           decimal.Decimal  `json:"annual_income"`
	Years                  int              `json:"years,omitempty"`
	IncomeGrowth           *decimal.Decimal `json:"income_growth,omitempty"`
	RetirementContribution *decimal.Decimal `json:"retirement_contribution,omitempty"`
	ReturnRate             *decimal.Decimal `json:"return_rate,omitempty"`
	InitialInvestment      decimal.Decimal  `json:"initial_investment"`
	SavingsRate            *decimal.Decimal `json:"savings_rate,omitempty"`
	TaxableShare           *decimal.Decimal `json:"taxable_share,omitempty"`
	DividendYield          *decimal.Decimal `json:"dividend_yield,omitempty"`
}

func (req taxProjectionRequest) params() (calculation.TaxProjectionParams, error) {
	if req.Years > maxYears {
		return calculation.TaxProjectionParams{}, fmt.Errorf("%w: years must not exceed %d", errBadRequest, maxYears)
	}
	params := calculation.DefaultTaxProjectionParams(req.AnnualIncome)
	if req.Years != 0 {
		params.Years = req.Years
	}
	if req.IncomeGrowth != nil {
		params.IncomeGrowth = *req.IncomeGrowth
	}
	if req.RetirementContribution != nil {
		params.RetirementContribution = *req.RetirementContribution
	}
	if req.ReturnRate != nil {
		params.ReturnRate = *req.ReturnRate
	}
	params.InitialInvestment = req.InitialInvestment
	params.SavingsRate = req.SavingsRate
	params.TaxableShare = req.TaxableShare
	params.DividendYield = req.DividendYield
	return params, nil
}

// reportRequest carries optional overrides of the server's report defaults
type reportRequest struct {
	Profile            *domain.FinancialProfile `json:"profile,omitempty"`
	Months             int                      `json:"months,omitempty"`
	Seed               int64                    `json:"seed,omitempty"`
	Improved           *domain.Scenario         `json:"improved,omitempty"`
	RetirementRate     *decimal.Decimal         `json:"retirement_rate,omitempty"`
	TaxProjectionYears int                      `json:"tax_projection_years,omitempty"`
	MonteCarloTrials   *int                     `json:"monte_carlo_trials,omitempty"`
}

func (req reportRequest) options(defaults calculation.ReportOptions) (calculation.ReportOptions, error) {
	opts := defaults
	if req.Months != 0 {
		opts.Months = req.Months
	}
	if req.Seed != 0 {
		opts.Seed = req.Seed
	}
	if req.Improved != nil {
		improved := *req.Improved
		opts.Improved = &improved
	}
	if req.RetirementRate != nil {
		rate := *req.RetirementRate
		opts.RetirementRate = &rate
	}
	if req.TaxProjectionYears != 0 {
		opts.TaxProjectionYears = req.TaxProjectionYears
	}
	if req.MonteCarloTrials != nil {
		opts.MonteCarloTrials = *req.MonteCarloTrials
	}
	if err := checkMonths(opts.Months); err != nil {
		return opts, err
	}
	if opts.TaxProjectionYears > maxYears {
		return opts, fmt.Errorf("%w: tax_projection_years must not exceed %d", errBadRequest, maxYears)
	}
	if opts.MonteCarloTrials > maxTrials {
		return opts, fmt.Errorf("%w: monte_carlo_trials must not exceed %d", errBadRequest, maxTrials)
	}
	return opts, nil
}

// horizon returns the requested months, defaulting when unset
func horizon(months int) (int, error) {
	if months == 0 {
		return calculation.DefaultHorizonMonths, nil
	}
	return months, checkMonths(months)
}

func checkMonths(months int) error {
	if months > maxMonths {
		return fmt.Errorf("%w: months must not exceed %d", errBadRequest, maxMonths)
	}
	return nil
}
