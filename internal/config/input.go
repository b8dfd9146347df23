package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/finpath/projection-engine/internal/domain"
	"gopkg.in/yaml.v3"
)

// ProfileParser handles parsing of financial profile files
type ProfileParser struct{}

// NewProfileParser creates a new profile parser
func NewProfileParser() *ProfileParser {
	return &ProfileParser{}
}

// LoadFromFile loads a profile from a YAML or JSON file
func (pp *ProfileParser) LoadFromFile(filename string) (*domain.FinancialProfile, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return pp.Parse(data)
}

// Parse decodes and validates a profile document. JSON is accepted as YAML.
func (pp *ProfileParser) Parse(data []byte) (*domain.FinancialProfile, error) {
	var profile domain.FinancialProfile
	if err := yaml.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := pp.ValidateProfile(&profile); err != nil {
		return nil, fmt.Errorf("profile validation failed: %w", err)
	}

	return &profile, nil
}

// ValidateProfile applies the domain rules plus file-level checks: expense
// categories must be unique and the debt type must be consistent with the
// debt balance
func (pp *ProfileParser) ValidateProfile(profile *domain.FinancialProfile) error {
	if err := profile.Validate(); err != nil {
		return err
	}

	seen := make(map[string]bool, len(profile.Expenses))
	for _, e := range profile.Expenses {
		key := strings.ToLower(strings.TrimSpace(e.Category))
		if seen[key] {
			return fmt.Errorf("%w: duplicate expense category %q", domain.ErrInvalidProfile, e.Category)
		}
		seen[key] = true
	}

	if profile.TotalDebt.IsZero() && profile.DebtType() != domain.DebtTypeNone && profile.PrimaryDebtAPR == nil {
		return fmt.Errorf("%w: primary_debt_type %q given without total_debt or primary_debt_apr", domain.ErrInvalidProfile, profile.PrimaryDebtType)
	}

	return nil
}

// Encode renders profile as a YAML document that Parse accepts
func (pp *ProfileParser) Encode(profile *domain.FinancialProfile) ([]byte, error) {
	data, err := yaml.Marshal(profile)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal profile: %w", err)
	}
	return data, nil
}

// SaveToFile writes profile as YAML
func (pp *ProfileParser) SaveToFile(profile *domain.FinancialProfile, filename string) error {
	data, err := pp.Encode(profile)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", filename, err)
	}
	return nil
}
