package domain

import "github.com/shopspring/decimal"

// AccountType distinguishes retirement account tax treatment
type AccountType string

const (
	AccountTraditional401k AccountType = "traditional_401k"
	AccountTraditionalIRA  AccountType = "traditional_ira"
	AccountRothIRA         AccountType = "roth_ira"
)

// IsRoth reports whether contributions are made after tax
func (a AccountType) IsRoth() bool { return a == AccountRothIRA }

// FICABreakdown splits payroll taxes. Medicare includes the additional surtax.
type FICABreakdown struct {
	SocialSecurity     decimal.Decimal `json:"social_security"`
	Medicare           decimal.Decimal `json:"medicare"`
	AdditionalMedicare decimal.Decimal `json:"additional_medicare"`
	Total              decimal.Decimal `json:"total"`
}

// TaxBreakdown converts annual gross income into take-home pay
type TaxBreakdown struct {
	AnnualGrossIncome      decimal.Decimal `json:"annual_gross_income"`
	RetirementContribution decimal.Decimal `json:"retirement_contribution"`
	OtherPretaxDeductions  decimal.Decimal `json:"other_pretax_deductions"`
	TaxableIncome          decimal.Decimal `json:"taxable_income"`
	FederalIncomeTax       decimal.Decimal `json:"federal_income_tax"`
	FICA                   FICABreakdown   `json:"fica"`
	StateIncomeTax         decimal.Decimal `json:"state_income_tax"`
	TotalTax               decimal.Decimal `json:"total_tax"`
	EffectiveTaxRate       decimal.Decimal `json:"effective_tax_rate"`
	AnnualTakeHome         decimal.Decimal `json:"annual_take_home"`
	MonthlyTakeHome        decimal.Decimal `json:"monthly_take_home"`
}

// ContributionSavings describes the tax effect of a retirement contribution
type ContributionSavings struct {
	AccountType         AccountType     `json:"account_type"`
	Contribution        decimal.Decimal `json:"contribution"`
	AllowedContribution decimal.Decimal `json:"allowed_contribution"`
	CurrentYearSavings  decimal.Decimal `json:"current_year_tax_savings"`
	EffectiveCost       decimal.Decimal `json:"effective_contribution_cost"`
	SavingsRate         decimal.Decimal `json:"tax_savings_rate"`
}

// InvestmentTax is the annual tax due on investment returns
type InvestmentTax struct {
	TaxableAmount    decimal.Decimal `json:"taxable_amount"`
	TaxDue           decimal.Decimal `json:"tax_due"`
	EffectiveTaxRate decimal.Decimal `json:"effective_tax_rate"`
	AfterTaxValue    decimal.Decimal `json:"after_tax_value"`
}

// TaxProjectionYear is one row of a multi-year tax projection
type TaxProjectionYear struct {
	Year                   int             `json:"year"`
	AnnualIncome           decimal.Decimal `json:"annual_income"`
	RetirementContribution decimal.Decimal `json:"retirement_contribution"`
	FederalTax             decimal.Decimal `json:"federal_tax"`
	FICATax                decimal.Decimal `json:"fica_tax"`
	StateTax               decimal.Decimal `json:"state_tax"`
	TakeHomePay            decimal.Decimal `json:"take_home_pay"`
	TaxableInvestmentValue decimal.Decimal `json:"taxable_investment_value"`
	TaxAdvantagedValue     decimal.Decimal `json:"tax_advantaged_value"`
	TaxesOnInvestments     decimal.Decimal `json:"taxes_on_investments"`
	TotalNetWorth          decimal.Decimal `json:"total_net_worth"`
}
