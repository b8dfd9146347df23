package calculation

import (
	"fmt"

	"github.com/finpath/projection-engine/internal/domain"
	money "github.com/finpath/projection-engine/pkg/decimal"
	"github.com/shopspring/decimal"
)

// TAX CALCULATION ASSUMPTIONS:
//
// 1. Federal Tax Brackets: 2023 single-filer brackets for every projection year
//    - No inflation indexing applied to future years
//    - Standard deduction: $13,850
//
// 2. State Tax: flat rate on income after pre-tax deductions (default 5%)
//
// 3. Capital gains: one flat rate chosen by ordinary income, plus 3.8% NIIT
//    above $200,000. Non-positive gains owe nothing.

// TaxBracket represents a marginal tax bracket. A zero Max marks the open-ended top bracket.
type TaxBracket struct {
	Min  decimal.Decimal
	Max  decimal.Decimal
	Rate decimal.Decimal
}

// RetirementLimits holds annual contribution limits and Roth income thresholds
type RetirementLimits struct {
	Limit401k       decimal.Decimal
	LimitIRA        decimal.Decimal
	CatchUp401k     decimal.Decimal
	CatchUpIRA      decimal.Decimal
	CatchUpAge      int
	RothIncomeLimit decimal.Decimal
	RothPhaseout    decimal.Decimal
}

// TaxRules is the configuration a TaxCalculator works from
type TaxRules struct {
	Year                        int
	FederalBrackets             []TaxBracket
	StandardDeduction           decimal.Decimal
	SocialSecurityRate          decimal.Decimal
	SocialSecurityWageBase      decimal.Decimal
	MedicareRate                decimal.Decimal
	AdditionalMedicareRate      decimal.Decimal
	AdditionalMedicareThreshold decimal.Decimal
	CapitalGainsBrackets        []TaxBracket
	NIITRate                    decimal.Decimal
	NIITThreshold               decimal.Decimal
	StateRate                   decimal.Decimal
	Limits                      RetirementLimits
}

// DefaultTaxRules2023 returns the 2023 single-filer tables
func DefaultTaxRules2023() TaxRules {
	return TaxRules{
		Year: 2023,
		FederalBrackets: []TaxBracket{
			{decimal.Zero, decimal.NewFromInt(11000), decimal.NewFromFloat(0.10)},
			{decimal.NewFromInt(11000), decimal.NewFromInt(44725), decimal.NewFromFloat(0.12)},
			{decimal.NewFromInt(44725), decimal.NewFromInt(95375), decimal.NewFromFloat(0.22)},
			{decimal.NewFromInt(95375), decimal.NewFromInt(182100), decimal.NewFromFloat(0.24)},
			{decimal.NewFromInt(182100), decimal.NewFromInt(231250), decimal.NewFromFloat(0.32)},
			{decimal.NewFromInt(231250), decimal.NewFromInt(578125), decimal.NewFromFloat(0.35)},
			{decimal.NewFromInt(578125), decimal.Zero, decimal.NewFromFloat(0.37)},
		},
		StandardDeduction:           decimal.NewFromInt(13850),
		SocialSecurityRate:          decimal.NewFromFloat(0.062),
		SocialSecurityWageBase:      decimal.NewFromInt(160200),
		MedicareRate:                decimal.NewFromFloat(0.0145),
		AdditionalMedicareRate:      decimal.NewFromFloat(0.009),
		AdditionalMedicareThreshold: decimal.NewFromInt(200000),
		CapitalGainsBrackets: []TaxBracket{
			{decimal.Zero, decimal.NewFromInt(44625), decimal.Zero},
			{decimal.NewFromInt(44625), decimal.NewFromInt(492300), decimal.NewFromFloat(0.15)},
			{decimal.NewFromInt(492300), decimal.Zero, decimal.NewFromFloat(0.20)},
		},
		NIITRate:      decimal.NewFromFloat(0.038),
		NIITThreshold: decimal.NewFromInt(200000),
		StateRate:     decimal.NewFromFloat(0.05),
		Limits: RetirementLimits{
			Limit401k:       decimal.NewFromInt(22500),
			LimitIRA:        decimal.NewFromInt(6500),
			CatchUp401k:     decimal.NewFromInt(7500),
			CatchUpIRA:      decimal.NewFromInt(1000),
			CatchUpAge:      50,
			RothIncomeLimit: decimal.NewFromInt(153000),
			RothPhaseout:    decimal.NewFromInt(228000),
		},
	}
}

// TaxCalculator computes income, payroll and investment taxes from a fixed rule set.
// It holds no mutable state; WithStateTaxRate returns a new calculator.
type TaxCalculator struct {
	rules TaxRules
}

// NewTaxCalculator creates a calculator over the given rules
func NewTaxCalculator(rules TaxRules) *TaxCalculator {
	return &TaxCalculator{rules: rules}
}

// NewTaxCalculator2023 creates a calculator with the 2023 defaults
func NewTaxCalculator2023() *TaxCalculator {
	return NewTaxCalculator(DefaultTaxRules2023())
}

// Rules returns a copy of the calculator's rules
func (tc *TaxCalculator) Rules() TaxRules {
	return tc.rules
}

// WithStateTaxRate returns a calculator using a different flat state rate
func (tc *TaxCalculator) WithStateTaxRate(rate decimal.Decimal) (*TaxCalculator, error) {
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
		return nil, fmt.Errorf("%w: state tax rate %s outside [0, 1]", domain.ErrInvalidTaxInput, rate)
	}
	rules := tc.rules
	rules.StateRate = rate
	return &TaxCalculator{rules: rules}, nil
}

func requireNonNegative(name string, v decimal.Decimal) error {
	if v.IsNegative() {
		return fmt.Errorf("%w: %s cannot be negative (got %s)", domain.ErrInvalidTaxInput, name, v.StringFixed(2))
	}
	return nil
}

// FederalIncomeTax runs income less deductions through the marginal brackets.
// A nil deduction means the standard deduction.
func (tc *TaxCalculator) FederalIncomeTax(income decimal.Decimal, deduction *decimal.Decimal) (decimal.Decimal, error) {
	if err := requireNonNegative("income", income); err != nil {
		return decimal.Zero, err
	}
	d := tc.rules.StandardDeduction
	if deduction != nil {
		if err := requireNonNegative("deduction", *deduction); err != nil {
			return decimal.Zero, err
		}
		d = *deduction
	}
	return tc.federalTax(income, d), nil
}

func (tc *TaxCalculator) federalTax(income, deduction decimal.Decimal) decimal.Decimal {
	return marginalTax(money.NonNegative(income.Sub(deduction)), tc.rules.FederalBrackets)
}

func marginalTax(taxable decimal.Decimal, brackets []TaxBracket) decimal.Decimal {
	total := decimal.Zero
	for _, b := range brackets {
		if taxable.LessThanOrEqual(b.Min) {
			break
		}
		upper := taxable
		if !b.Max.IsZero() {
			upper = decimal.Min(taxable, b.Max)
		}
		total = total.Add(upper.Sub(b.Min).Mul(b.Rate))
	}
	return total
}

// FICA computes Social Security and Medicare on gross wages
func (tc *TaxCalculator) FICA(income decimal.Decimal) (domain.FICABreakdown, error) {
	if err := requireNonNegative("income", income); err != nil {
		return domain.FICABreakdown{}, err
	}
	return tc.fica(income), nil
}

func (tc *TaxCalculator) fica(income decimal.Decimal) domain.FICABreakdown {
	r := tc.rules
	ss := decimal.Min(income, r.SocialSecurityWageBase).Mul(r.SocialSecurityRate)
	medicare := income.Mul(r.MedicareRate)
	additional := decimal.Zero
	if income.GreaterThan(r.AdditionalMedicareThreshold) {
		additional = income.Sub(r.AdditionalMedicareThreshold).Mul(r.AdditionalMedicareRate)
	}
	return domain.FICABreakdown{
		SocialSecurity:     ss,
		Medicare:           medicare.Add(additional),
		AdditionalMedicare: additional,
		Total:              ss.Add(medicare).Add(additional),
	}
}

// StateIncomeTax applies the flat state rate to income less deductions
func (tc *TaxCalculator) StateIncomeTax(income, deductions decimal.Decimal) (decimal.Decimal, error) {
	if err := requireNonNegative("income", income); err != nil {
		return decimal.Zero, err
	}
	if err := requireNonNegative("deductions", deductions); err != nil {
		return decimal.Zero, err
	}
	return tc.stateTax(income.Sub(deductions)), nil
}

func (tc *TaxCalculator) stateTax(taxable decimal.Decimal) decimal.Decimal {
	return money.NonNegative(taxable).Mul(tc.rules.StateRate)
}

// CapitalGainsTax taxes gains at the single rate selected by ordinary income,
// plus NIIT when income exceeds the threshold
func (tc *TaxCalculator) CapitalGainsTax(gains, income decimal.Decimal) (decimal.Decimal, error) {
	if err := requireNonNegative("income", income); err != nil {
		return decimal.Zero, err
	}
	return tc.capitalGainsTax(gains, income), nil
}

func (tc *TaxCalculator) capitalGainsTax(gains, income decimal.Decimal) decimal.Decimal {
	if !gains.IsPositive() {
		return decimal.Zero
	}
	rate := decimal.Zero
	for _, b := range tc.rules.CapitalGainsBrackets {
		if income.GreaterThan(b.Min) {
			rate = b.Rate
		}
	}
	tax := gains.Mul(rate)
	if income.GreaterThan(tc.rules.NIITThreshold) {
		tax = tax.Add(gains.Mul(tc.rules.NIITRate))
	}
	return tax
}

// InvestmentTaxImpact computes the annual tax owed on growth and dividends.
// Tax-advantaged accounts owe nothing in the current year.
func (tc *TaxCalculator) InvestmentTaxImpact(growth, dividends, income decimal.Decimal, taxAdvantaged bool) (domain.InvestmentTax, error) {
	if err := requireNonNegative("income", income); err != nil {
		return domain.InvestmentTax{}, err
	}
	return tc.investmentTax(growth, dividends, income, taxAdvantaged), nil
}

func (tc *TaxCalculator) investmentTax(growth, dividends, income decimal.Decimal, taxAdvantaged bool) domain.InvestmentTax {
	gain := growth.Add(dividends)
	if taxAdvantaged {
		return domain.InvestmentTax{
			TaxableAmount:    decimal.Zero,
			TaxDue:           decimal.Zero,
			EffectiveTaxRate: decimal.Zero,
			AfterTaxValue:    gain,
		}
	}
	due := tc.capitalGainsTax(growth, income).Add(tc.capitalGainsTax(dividends, income))
	rate := decimal.Zero
	if gain.IsPositive() {
		rate = due.Div(gain)
	}
	return domain.InvestmentTax{
		TaxableAmount:    gain,
		TaxDue:           due,
		EffectiveTaxRate: rate,
		AfterTaxValue:    gain.Sub(due),
	}
}

// RetirementContributionSavings reports the current-year tax effect of a contribution.
// Traditional accounts save federal tax on the contribution; Roth accounts save nothing
// and are capped by the income phase-out.
func (tc *TaxCalculator) RetirementContributionSavings(income, contribution decimal.Decimal, account domain.AccountType) (domain.ContributionSavings, error) {
	if err := requireNonNegative("income", income); err != nil {
		return domain.ContributionSavings{}, err
	}
	if err := requireNonNegative("contribution", contribution); err != nil {
		return domain.ContributionSavings{}, err
	}

	result := domain.ContributionSavings{AccountType: account, Contribution: contribution}
	switch account {
	case domain.AccountRothIRA:
		result.AllowedContribution = tc.rothAllowed(income, contribution)
		result.EffectiveCost = result.AllowedContribution
		return result, nil
	case domain.AccountTraditional401k, domain.AccountTraditionalIRA, "":
		if contribution.GreaterThan(income) {
			return domain.ContributionSavings{}, fmt.Errorf("%w: contribution %s exceeds income %s",
				domain.ErrInvalidTaxInput, contribution.StringFixed(2), income.StringFixed(2))
		}
		d := tc.rules.StandardDeduction
		saved := tc.federalTax(income, d).Sub(tc.federalTax(income.Sub(contribution), d))
		result.AllowedContribution = contribution
		result.CurrentYearSavings = saved
		result.EffectiveCost = contribution.Sub(saved)
		result.SavingsRate = money.SafeDiv(saved, contribution)
		return result, nil
	default:
		return domain.ContributionSavings{}, fmt.Errorf("%w: unknown account type %q", domain.ErrInvalidTaxInput, account)
	}
}

// RothAllowedContribution caps a proposed Roth IRA contribution by the income phase-out.
// Below the limit the IRA cap applies; between limit and ceiling it shrinks linearly to zero.
func (tc *TaxCalculator) RothAllowedContribution(income, proposed decimal.Decimal) (decimal.Decimal, error) {
	if err := requireNonNegative("income", income); err != nil {
		return decimal.Zero, err
	}
	if err := requireNonNegative("contribution", proposed); err != nil {
		return decimal.Zero, err
	}
	return tc.rothAllowed(income, proposed), nil
}

func (tc *TaxCalculator) rothAllowed(income, proposed decimal.Decimal) decimal.Decimal {
	l := tc.rules.Limits
	switch {
	case income.LessThanOrEqual(l.RothIncomeLimit):
		return decimal.Min(proposed, l.LimitIRA)
	case income.LessThan(l.RothPhaseout):
		span := l.RothPhaseout.Sub(l.RothIncomeLimit)
		share := money.SafeDiv(l.RothPhaseout.Sub(income), span)
		return decimal.Min(proposed, share.Mul(l.LimitIRA))
	default:
		return decimal.Zero
	}
}

// ContributionLimit returns the annual limit for an account, including catch-up from CatchUpAge
func (tc *TaxCalculator) ContributionLimit(account domain.AccountType, age int) (decimal.Decimal, error) {
	l := tc.rules.Limits
	catchUp := age >= l.CatchUpAge
	switch account {
	case domain.AccountTraditional401k:
		if catchUp {
			return l.Limit401k.Add(l.CatchUp401k), nil
		}
		return l.Limit401k, nil
	case domain.AccountTraditionalIRA, domain.AccountRothIRA:
		if catchUp {
			return l.LimitIRA.Add(l.CatchUpIRA), nil
		}
		return l.LimitIRA, nil
	default:
		return decimal.Zero, fmt.Errorf("%w: unknown account type %q", domain.ErrInvalidTaxInput, account)
	}
}

// TakeHomePay converts annual gross income into take-home pay.
// Federal and state tax apply after pre-tax deductions; FICA applies to gross wages.
func (tc *TaxCalculator) TakeHomePay(income, retirementContribution, otherPretax decimal.Decimal) (*domain.TaxBreakdown, error) {
	if err := requireNonNegative("income", income); err != nil {
		return nil, err
	}
	if err := requireNonNegative("retirement contribution", retirementContribution); err != nil {
		return nil, err
	}
	if err := requireNonNegative("pre-tax deductions", otherPretax); err != nil {
		return nil, err
	}
	pretax := retirementContribution.Add(otherPretax)
	if pretax.GreaterThan(income) {
		return nil, fmt.Errorf("%w: pre-tax deductions %s exceed income %s",
			domain.ErrInvalidTaxInput, pretax.StringFixed(2), income.StringFixed(2))
	}
	return tc.takeHome(income, retirementContribution, otherPretax), nil
}

func (tc *TaxCalculator) takeHome(income, retirementContribution, otherPretax decimal.Decimal) *domain.TaxBreakdown {
	pretax := retirementContribution.Add(otherPretax)
	taxable := income.Sub(pretax)

	federal := tc.federalTax(taxable, tc.rules.StandardDeduction)
	fica := tc.fica(income)
	state := tc.stateTax(taxable)

	total := federal.Add(fica.Total).Add(state)
	annual := income.Sub(total).Sub(pretax)

	return &domain.TaxBreakdown{
		AnnualGrossIncome:      income,
		RetirementContribution: retirementContribution,
		OtherPretaxDeductions:  otherPretax,
		TaxableIncome:          taxable,
		FederalIncomeTax:       federal,
		FICA:                   fica,
		StateIncomeTax:         state,
		TotalTax:               total,
		EffectiveTaxRate:       money.SafeDiv(total, income),
		AnnualTakeHome:         annual,
		MonthlyTakeHome:        money.NewMoneyFromDecimal(annual).Monthly().Decimal,
	}
}

// TaxProjectionParams configures a multi-year tax projection. Nil savings
// rates fall back to the defaults below; an explicit zero is honored.
type TaxProjectionParams struct {
	AnnualIncome           decimal.Decimal
	Years                  int
	IncomeGrowth           decimal.Decimal
	RetirementContribution decimal.Decimal // fraction of income
	ReturnRate             decimal.Decimal
	InitialInvestment      decimal.Decimal

	SavingsRate   *decimal.Decimal // share of take-home saved, default 0.20
	TaxableShare  *decimal.Decimal // share of savings sent to the taxable account, default 0.50
	DividendYield *decimal.Decimal // default 0.02
}

// DefaultTaxProjectionParams returns a five-year projection with 3% raises,
// a 5% retirement contribution and 7% returns
func DefaultTaxProjectionParams(annualIncome decimal.Decimal) TaxProjectionParams {
	return TaxProjectionParams{
		AnnualIncome:           annualIncome,
		Years:                  5,
		IncomeGrowth:           decimal.NewFromFloat(0.03),
		RetirementContribution: decimal.NewFromFloat(0.05),
		ReturnRate:             decimal.NewFromFloat(0.07),
	}
}

func orDefault(v *decimal.Decimal, def float64) decimal.Decimal {
	if v == nil {
		return decimal.NewFromFloat(def)
	}
	return *v
}

// ProjectTaxImpact projects take-home pay and the growth of a taxable and a
// tax-advantaged account year by year. Taxable growth is taxed annually;
// the tax-advantaged account compounds untaxed and receives the full
// retirement contribution.
func (tc *TaxCalculator) ProjectTaxImpact(params TaxProjectionParams) ([]domain.TaxProjectionYear, error) {
	if params.Years <= 0 {
		return nil, fmt.Errorf("%w: years must be positive (got %d)", domain.ErrInvalidHorizon, params.Years)
	}
	if err := requireNonNegative("income", params.AnnualIncome); err != nil {
		return nil, err
	}
	if err := requireNonNegative("retirement contribution", params.RetirementContribution); err != nil {
		return nil, err
	}
	if err := requireNonNegative("initial investment", params.InitialInvestment); err != nil {
		return nil, err
	}
	if params.RetirementContribution.GreaterThan(decimal.NewFromInt(1)) {
		return nil, fmt.Errorf("%w: retirement contribution share %s exceeds 1", domain.ErrInvalidTaxInput, params.RetirementContribution)
	}
	savingsRate := orDefault(params.SavingsRate, 0.20)
	taxableShare := orDefault(params.TaxableShare, 0.50)
	dividendYield := orDefault(params.DividendYield, 0.02)
	one := decimal.NewFromInt(1)

	income := params.AnnualIncome
	taxable := params.InitialInvestment
	advantaged := decimal.Zero
	rows := make([]domain.TaxProjectionYear, 0, params.Years)

	for year := 1; year <= params.Years; year++ {
		contribution := income.Mul(params.RetirementContribution)
		th := tc.takeHome(income, contribution, decimal.Zero)

		saved := th.AnnualTakeHome.Mul(savingsRate)
		toTaxable := saved.Mul(taxableShare)

		growth := taxable.Mul(params.ReturnRate)
		dividends := taxable.Mul(dividendYield)
		impact := tc.investmentTax(growth.Sub(dividends), dividends, income, false)

		taxable = taxable.Add(growth).Add(toTaxable).Sub(impact.TaxDue)
		advantaged = advantaged.Mul(one.Add(params.ReturnRate)).Add(contribution)

		rows = append(rows, domain.TaxProjectionYear{
			Year:                   year,
			AnnualIncome:           income,
			RetirementContribution: contribution,
			FederalTax:             th.FederalIncomeTax,
			FICATax:                th.FICA.Total,
			StateTax:               th.StateIncomeTax,
			TakeHomePay:            th.AnnualTakeHome,
			TaxableInvestmentValue: taxable,
			TaxAdvantagedValue:     advantaged,
			TaxesOnInvestments:     impact.TaxDue,
			TotalNetWorth:          taxable.Add(advantaged),
		})

		income = income.Mul(one.Add(params.IncomeGrowth))
	}
	return rows, nil
}
