package tui

import (
	lipgloss "charm.land/lipgloss/v2"
)

var (
	colorPrimary = lipgloss.AdaptiveColor{Light: "#005B9A", Dark: "#4FA3FF"}
	colorMuted   = lipgloss.AdaptiveColor{Light: "#666666", Dark: "#6F6F6F"}
	colorOK      = lipgloss.AdaptiveColor{Light: "#0B7A5F", Dark: "#6EE7B7"}
	colorWarn    = lipgloss.AdaptiveColor{Light: "#B45309", Dark: "#F59E0B"}
	colorCrit    = lipgloss.AdaptiveColor{Light: "#B3261E", Dark: "#FF6B6B"}
	colorFilter  = lipgloss.AdaptiveColor{Light: "#B45309", Dark: "#F59E0B"}

	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).MarginBottom(1)

	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(colorMuted).
			BorderStyle(lipgloss.NormalBorder()).BorderBottom(true).BorderForeground(colorMuted)

	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#000000")).
			Background(lipgloss.Color("#2B4C7E"))

	okStyle   = lipgloss.NewStyle().Foreground(colorOK)
	warnStyle = lipgloss.NewStyle().Foreground(colorWarn)
	critStyle = lipgloss.NewStyle().Foreground(colorCrit).Bold(true)

	helpStyle   = lipgloss.NewStyle().Foreground(colorMuted).MarginTop(1)
	filterStyle = lipgloss.NewStyle().Foreground(colorFilter)
)

func outcomeStyle(outcome string, dropped bool) lipgloss.Style {
	switch {
	case dropped:
		return critStyle
	case outcome == "failure":
		return warnStyle
	case outcome == "success":
		return okStyle
	default:
		return lipgloss.NewStyle()
	}
}
