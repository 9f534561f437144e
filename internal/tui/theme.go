package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/mattjoyce/tsh/internal/jobs"
)

// Theme centralizes styling for the monitor.
type Theme struct {
	StateForeground lipgloss.Style
	StateRunning    lipgloss.Style
	StateStopped    lipgloss.Style
	Failed          lipgloss.Style

	Border lipgloss.Style
	Title  lipgloss.Style
	Dim    lipgloss.Style
}

func NewDefaultTheme() Theme {
	purple := lipgloss.Color("#874BFD")

	return Theme{
		StateForeground: lipgloss.NewStyle().Foreground(lipgloss.Color("#61AFEF")),
		StateRunning:    lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF00")),
		StateStopped:    lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFF00")),
		Failed:          lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000")),

		Border: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(purple),
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Padding(0, 1),
		Dim: lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")),
	}
}

// StateStyle picks the style for a job state label.
func (t Theme) StateStyle(s jobs.State) lipgloss.Style {
	switch s {
	case jobs.Foreground:
		return t.StateForeground
	case jobs.Stopped:
		return t.StateStopped
	default:
		return t.StateRunning
	}
}
