package output

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/finpath/projection-engine/internal/domain"
)

var (
	colorPrimary = lipgloss.AdaptiveColor{Light: "#1F4E79", Dark: "#7AB8F5"}
	colorSuccess = lipgloss.AdaptiveColor{Light: "#2E7D32", Dark: "#81C784"}
	colorWarning = lipgloss.AdaptiveColor{Light: "#B26A00", Dark: "#FFB74D"}
	colorDanger  = lipgloss.AdaptiveColor{Light: "#C62828", Dark: "#E57373"}
	colorMuted   = lipgloss.AdaptiveColor{Light: "#616161", Dark: "#9E9E9E"}

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary).
			BorderStyle(lipgloss.DoubleBorder()).
			BorderBottom(true).
			BorderForeground(colorPrimary)

	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).MarginTop(1)
	headerStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
)

func severityStyle(s domain.Severity) lipgloss.Style {
	switch s {
	case domain.SeverityHigh:
		return lipgloss.NewStyle().Bold(true).Foreground(colorDanger)
	case domain.SeverityMedium:
		return lipgloss.NewStyle().Foreground(colorWarning)
	default:
		return lipgloss.NewStyle().Foreground(colorMuted)
	}
}

func healthStyle(h domain.HealthRating) lipgloss.Style {
	switch h {
	case domain.HealthExcellent, domain.HealthGood:
		return lipgloss.NewStyle().Bold(true).Foreground(colorSuccess)
	case domain.HealthFair:
		return lipgloss.NewStyle().Bold(true).Foreground(colorWarning)
	default:
		return lipgloss.NewStyle().Bold(true).Foreground(colorDanger)
	}
}
