package domain

import "time"

// ProjectionReport bundles every calculator's output for one profile.
// Sections are nil when they were not requested.
type ProjectionReport struct {
	ProfileID          string              `json:"profile_id,omitempty"`
	GeneratedAt        time.Time           `json:"generated_at"`
	Profile            *FinancialProfile   `json:"profile"`
	Analysis           *AnalysisResult     `json:"analysis"`
	Paths              *PathComparison     `json:"paths,omitempty"`
	RecommendedProfile RiskProfileName     `json:"recommended_profile"`
	Investments        *RiskComparison     `json:"investments,omitempty"`
	MonteCarlo         *MonteCarloResult   `json:"monte_carlo,omitempty"`
	TakeHome           *TaxBreakdown       `json:"take_home,omitempty"`
	TaxProjection      []TaxProjectionYear `json:"tax_projection,omitempty"`
}
