package domain

// Severity ranks how urgent an issue is
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// HealthRating is the overall verdict of an analysis
type HealthRating string

const (
	HealthExcellent HealthRating = "Excellent"
	HealthGood      HealthRating = "Good"
	HealthFair      HealthRating = "Fair"
	HealthPoor      HealthRating = "Poor"
)

// Issue is a single finding raised by a health detector
type Issue struct {
	Issue          string   `json:"issue" yaml:"issue"`
	Severity       Severity `json:"severity" yaml:"severity"`
	Details        string   `json:"details" yaml:"details"`
	Recommendation string   `json:"recommendation" yaml:"recommendation"`
}

// AnalysisResult is the outcome of a financial health analysis
type AnalysisResult struct {
	FinancialHealth HealthRating `json:"financial_health" yaml:"financial_health"`
	Issues          []Issue      `json:"issues" yaml:"issues"`
	ActionPlan      []string     `json:"action_plan" yaml:"action_plan"`
}

// HasHighSeverity reports whether any issue is high severity
func (r *AnalysisResult) HasHighSeverity() bool {
	for _, i := range r.Issues {
		if i.Severity == SeverityHigh {
			return true
		}
	}
	return false
}
