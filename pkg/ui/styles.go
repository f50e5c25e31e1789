package ui

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	Primary   = lipgloss.Color("#4E9EBF") // Teal - matches workbook links
	Secondary = lipgloss.Color("#00D4AA")

	// Severity colors, matching the dashboard badges
	Critical = lipgloss.Color("#EC4899") // Pink
	High     = lipgloss.Color("#EF4444") // Red
	Medium   = lipgloss.Color("#F97316") // Orange
	Low      = lipgloss.Color("#EAB308") // Yellow

	// Status colors
	Success = lipgloss.Color("#00D26A")
	Warning = lipgloss.Color("#FFB800")
	Error   = lipgloss.Color("#FF3838")
	Muted   = lipgloss.Color("#6B7280")
)

// Pre-configured styles
var (
	BannerStyle = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	VersionStyle = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true)

	SectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Bold(true).
			MarginTop(1)

	ConfigLabelStyle = lipgloss.NewStyle().
				Foreground(Muted).
				Width(15)

	ConfigValueStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FAFAFA"))

	StatLabelStyle = lipgloss.NewStyle().
			Foreground(Muted)

	StatValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Bold(true)

	BracketStyle = lipgloss.NewStyle().
			Foreground(Muted)

	PassStyle = lipgloss.NewStyle().
			Foreground(Success).
			Bold(true)

	FailStyle = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)

	WarnStyle = lipgloss.NewStyle().
			Foreground(Warning).
			Bold(true)

	DividerStyle = lipgloss.NewStyle().
			Foreground(Muted)

	HelpStyle = lipgloss.NewStyle().
			Foreground(Muted).
			Italic(true)

	PathStyle = lipgloss.NewStyle().
			Foreground(Secondary).
			Underline(true)
)

// SeverityStyle returns the appropriate style for a severity level
func SeverityStyle(severity string) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)
	switch severity {
	case "Critical":
		return base.Foreground(Critical)
	case "High":
		return base.Foreground(High)
	case "Medium":
		return base.Foreground(Medium)
	case "Low":
		return base.Foreground(Low)
	default:
		return base.Foreground(Muted)
	}
}

// RiskStyle returns the style for a license risk level name.
func RiskStyle(risk string) lipgloss.Style {
	switch risk {
	case "High":
		return SeverityStyle("High")
	case "Medium":
		return SeverityStyle("Medium")
	case "Low":
		return SeverityStyle("Low")
	default:
		return lipgloss.NewStyle().Foreground(Muted)
	}
}

// Style is the lipgloss style type used by the print helpers.
type Style = lipgloss.Style
