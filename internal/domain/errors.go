package domain

import "errors"

var (
	// ErrInvalidProfile reports missing or malformed required profile fields.
	ErrInvalidProfile = errors.New("invalid profile")
	// ErrUnknownRiskProfile reports a risk profile name outside the catalog.
	ErrUnknownRiskProfile = errors.New("unknown risk profile")
	// ErrInvalidTaxInput reports negative income or contribution amounts.
	ErrInvalidTaxInput = errors.New("invalid tax input")
	// ErrInvalidHorizon reports a non-positive projection length.
	ErrInvalidHorizon = errors.New("invalid projection horizon")
	// ErrInvalidScenario reports out-of-range path scenario parameters.
	ErrInvalidScenario = errors.New("invalid scenario")
	// ErrInvalidInvestmentInput reports negative contribution or principal.
	ErrInvalidInvestmentInput = errors.New("invalid investment input")
	// ErrProfileNotFound is returned by stores when no profile has the given id.
	ErrProfileNotFound = errors.New("profile not found")
)
