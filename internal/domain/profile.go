package domain

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// RiskTolerance is the self-reported appetite for investment risk
type RiskTolerance string

const (
	RiskToleranceLow    RiskTolerance = "Low"
	RiskToleranceMedium RiskTolerance = "Medium"
	RiskToleranceHigh   RiskTolerance = "High"
)

// DebtTypeNone marks a profile without a primary debt
const DebtTypeNone = "None"

// DebtPaymentsCategory is the expense category holding required debt payments
const DebtPaymentsCategory = "debt_payments"

// DefaultAge is assumed when a profile does not state an age
const DefaultAge = 35

// ExpenseItem is one monthly expense line
type ExpenseItem struct {
	Category string          `yaml:"category" json:"category"`
	Amount   decimal.Decimal `yaml:"amount" json:"amount"`
}

// FinancialProfile is a snapshot of a person's monthly finances.
// MonthlyIncome and CurrentSavings are required; a nil pointer means the
// value was never supplied.
type FinancialProfile struct {
	ID             string           `yaml:"id,omitempty" json:"id,omitempty"`
	Name           string           `yaml:"name,omitempty" json:"name,omitempty"`
	MonthlyIncome  *decimal.Decimal `yaml:"monthly_income" json:"monthly_income"`
	CurrentSavings *decimal.Decimal `yaml:"current_savings" json:"current_savings"`
	Expenses       []ExpenseItem    `yaml:"expenses" json:"expenses"`

	// MonthlySavings overrides income minus expenses in the savings-rate check
	MonthlySavings *decimal.Decimal `yaml:"monthly_savings,omitempty" json:"monthly_savings,omitempty"`

	TotalDebt       decimal.Decimal  `yaml:"total_debt" json:"total_debt"`
	PrimaryDebtType string           `yaml:"primary_debt_type,omitempty" json:"primary_debt_type,omitempty"`
	PrimaryDebtAPR  *decimal.Decimal `yaml:"primary_debt_apr,omitempty" json:"primary_debt_apr,omitempty"` // percent, e.g. 18 for 18%

	Age           int           `yaml:"age,omitempty" json:"age,omitempty"`
	RiskTolerance RiskTolerance `yaml:"risk_tolerance,omitempty" json:"risk_tolerance,omitempty"`

	CurrentInvestments            decimal.Decimal `yaml:"current_investments,omitempty" json:"current_investments,omitempty"`
	MonthlyInvestmentContribution decimal.Decimal `yaml:"monthly_investment_contribution,omitempty" json:"monthly_investment_contribution,omitempty"`
}

// Validate checks required fields and value ranges
func (p *FinancialProfile) Validate() error {
	if p == nil {
		return fmt.Errorf("%w: profile is nil", ErrInvalidProfile)
	}
	if p.MonthlyIncome == nil {
		return fmt.Errorf("%w: monthly_income is required", ErrInvalidProfile)
	}
	if p.CurrentSavings == nil {
		return fmt.Errorf("%w: current_savings is required", ErrInvalidProfile)
	}
	if p.MonthlyIncome.IsNegative() {
		return fmt.Errorf("%w: monthly_income cannot be negative", ErrInvalidProfile)
	}
	if p.CurrentSavings.IsNegative() {
		return fmt.Errorf("%w: current_savings cannot be negative", ErrInvalidProfile)
	}
	for i, e := range p.Expenses {
		if strings.TrimSpace(e.Category) == "" {
			return fmt.Errorf("%w: expense %d has no category", ErrInvalidProfile, i)
		}
		if e.Amount.IsNegative() {
			return fmt.Errorf("%w: expense %q cannot be negative", ErrInvalidProfile, e.Category)
		}
	}
	if p.TotalDebt.IsNegative() {
		return fmt.Errorf("%w: total_debt cannot be negative", ErrInvalidProfile)
	}
	if p.PrimaryDebtAPR != nil && p.PrimaryDebtAPR.IsNegative() {
		return fmt.Errorf("%w: primary_debt_apr cannot be negative", ErrInvalidProfile)
	}
	if p.Age != 0 && (p.Age < 18 || p.Age > 100) {
		return fmt.Errorf("%w: age %d out of range 18-100", ErrInvalidProfile, p.Age)
	}
	switch p.RiskTolerance {
	case "", RiskToleranceLow, RiskToleranceMedium, RiskToleranceHigh:
	default:
		return fmt.Errorf("%w: unknown risk_tolerance %q", ErrInvalidProfile, p.RiskTolerance)
	}
	if p.CurrentInvestments.IsNegative() || p.MonthlyInvestmentContribution.IsNegative() {
		return fmt.Errorf("%w: investment amounts cannot be negative", ErrInvalidProfile)
	}
	return nil
}

// Income returns the monthly income, or zero when missing
func (p *FinancialProfile) Income() decimal.Decimal {
	if p.MonthlyIncome == nil {
		return decimal.Zero
	}
	return *p.MonthlyIncome
}

// Savings returns current savings, or zero when missing
func (p *FinancialProfile) Savings() decimal.Decimal {
	if p.CurrentSavings == nil {
		return decimal.Zero
	}
	return *p.CurrentSavings
}

// TotalExpenses sums every expense line
func (p *FinancialProfile) TotalExpenses() decimal.Decimal {
	total := decimal.Zero
	for _, e := range p.Expenses {
		total = total.Add(e.Amount)
	}
	return total
}

// Expense returns the amount recorded for a category
func (p *FinancialProfile) Expense(category string) decimal.Decimal {
	total := decimal.Zero
	for _, e := range p.Expenses {
		if e.Category == category {
			total = total.Add(e.Amount)
		}
	}
	return total
}

// DebtPayments returns the monthly required debt payments
func (p *FinancialProfile) DebtPayments() decimal.Decimal {
	return p.Expense(DebtPaymentsCategory)
}

// DebtToIncome returns debt payments as a percent of income, 0 without income
func (p *FinancialProfile) DebtToIncome() decimal.Decimal {
	income := p.Income()
	if !income.IsPositive() {
		return decimal.Zero
	}
	return p.DebtPayments().Div(income).Mul(decimal.NewFromInt(100))
}

// DerivedMonthlySavings is income minus total expenses; it is recomputed on every call
func (p *FinancialProfile) DerivedMonthlySavings() decimal.Decimal {
	return p.Income().Sub(p.TotalExpenses())
}

// EffectiveMonthlySavings prefers an explicitly supplied savings amount
func (p *FinancialProfile) EffectiveMonthlySavings() decimal.Decimal {
	if p.MonthlySavings != nil {
		return *p.MonthlySavings
	}
	return p.DerivedMonthlySavings()
}

// DebtType returns the primary debt type, defaulting to DebtTypeNone
func (p *FinancialProfile) DebtType() string {
	if strings.TrimSpace(p.PrimaryDebtType) == "" {
		return DebtTypeNone
	}
	return p.PrimaryDebtType
}

// DebtAPR returns the stated APR in percent, or fallback when none is stated
func (p *FinancialProfile) DebtAPR(fallback decimal.Decimal) decimal.Decimal {
	if p.PrimaryDebtAPR == nil {
		return fallback
	}
	return *p.PrimaryDebtAPR
}

// EffectiveAge returns the stated age or DefaultAge
func (p *FinancialProfile) EffectiveAge() int {
	if p.Age == 0 {
		return DefaultAge
	}
	return p.Age
}

// Tolerance returns the stated risk tolerance, defaulting to Medium
func (p *FinancialProfile) Tolerance() RiskTolerance {
	if p.RiskTolerance == "" {
		return RiskToleranceMedium
	}
	return p.RiskTolerance
}

// Clone returns a deep copy so callers can adjust a profile without
// touching the original
func (p *FinancialProfile) Clone() *FinancialProfile {
	if p == nil {
		return nil
	}
	c := *p
	c.MonthlyIncome = cloneDecimal(p.MonthlyIncome)
	c.CurrentSavings = cloneDecimal(p.CurrentSavings)
	c.MonthlySavings = cloneDecimal(p.MonthlySavings)
	c.PrimaryDebtAPR = cloneDecimal(p.PrimaryDebtAPR)
	c.Expenses = append([]ExpenseItem(nil), p.Expenses...)
	return &c
}

func cloneDecimal(d *decimal.Decimal) *decimal.Decimal {
	if d == nil {
		return nil
	}
	v := *d
	return &v
}

// ExpensePrefix marks expense keys in a flat profile mapping
const ExpensePrefix = "expense_"

// ProfileFromMap converts a flat key/value profile, where expenses are the
// keys prefixed with "expense_", into a FinancialProfile. Expense categories
// are sorted by name so the result does not depend on map order.
func ProfileFromMap(m map[string]any) (*FinancialProfile, error) {
	p := &FinancialProfile{}
	var err error

	if p.MonthlyIncome, err = optionalDecimal(m, "monthly_income"); err != nil {
		return nil, err
	}
	if p.CurrentSavings, err = optionalDecimal(m, "current_savings"); err != nil {
		return nil, err
	}
	if p.MonthlySavings, err = optionalDecimal(m, "monthly_savings"); err != nil {
		return nil, err
	}
	if p.PrimaryDebtAPR, err = optionalDecimal(m, "primary_debt_apr"); err != nil {
		return nil, err
	}
	if d, err := optionalDecimal(m, "total_debt"); err != nil {
		return nil, err
	} else if d != nil {
		p.TotalDebt = *d
	}
	if d, err := optionalDecimal(m, "current_investments"); err != nil {
		return nil, err
	} else if d != nil {
		p.CurrentInvestments = *d
	}
	if d, err := optionalDecimal(m, "monthly_investment_contribution"); err != nil {
		return nil, err
	} else if d != nil {
		p.MonthlyInvestmentContribution = *d
	}
	if d, err := optionalDecimal(m, "age"); err != nil {
		return nil, err
	} else if d != nil {
		p.Age = int(d.IntPart())
	}
	if v, ok := m["primary_debt_type"]; ok && v != nil {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("%w: primary_debt_type must be a string", ErrInvalidProfile)
		}
		p.PrimaryDebtType = s
	}
	if v, ok := m["risk_tolerance"]; ok && v != nil {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("%w: risk_tolerance must be a string", ErrInvalidProfile)
		}
		p.RiskTolerance = RiskTolerance(s)
	}
	if v, ok := m["id"].(string); ok {
		p.ID = v
	}
	if v, ok := m["name"].(string); ok {
		p.Name = v
	}

	var categories []string
	for k := range m {
		if strings.HasPrefix(k, ExpensePrefix) && len(k) > len(ExpensePrefix) {
			categories = append(categories, k)
		}
	}
	sort.Strings(categories)
	for _, k := range categories {
		d, err := optionalDecimal(m, k)
		if err != nil {
			return nil, err
		}
		if d == nil {
			continue
		}
		p.Expenses = append(p.Expenses, ExpenseItem{Category: strings.TrimPrefix(k, ExpensePrefix), Amount: *d})
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func optionalDecimal(m map[string]any, key string) (*decimal.Decimal, error) {
	v, ok := m[key]
	if !ok || v == nil {
		return nil, nil
	}
	var d decimal.Decimal
	switch x := v.(type) {
	case decimal.Decimal:
		d = x
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return nil, fmt.Errorf("%w: %s is not a finite number", ErrInvalidProfile, key)
		}
		d = decimal.NewFromFloat(x)
	case float32:
		if math.IsNaN(float64(x)) || math.IsInf(float64(x), 0) {
			return nil, fmt.Errorf("%w: %s is not a finite number", ErrInvalidProfile, key)
		}
		d = decimal.NewFromFloat32(x)
	case int:
		d = decimal.NewFromInt(int64(x))
	case int64:
		d = decimal.NewFromInt(x)
	case string:
		parsed, err := decimal.NewFromString(strings.TrimSpace(x))
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %q is not a number", ErrInvalidProfile, key, x)
		}
		d = parsed
	default:
		return nil, fmt.Errorf("%w: %s has unsupported type %T", ErrInvalidProfile, key, v)
	}
	return &d, nil
}
