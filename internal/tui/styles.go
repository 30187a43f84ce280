package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/petervflocke/quicksearch/internal/models"
)

var (
	colorSuccess = lipgloss.Color("#10B981")
	colorFailure = lipgloss.Color("#EF4444")
	colorWarning = lipgloss.Color("#F59E0B")
	colorInfo    = lipgloss.Color("#3B82F6")
	colorMuted   = lipgloss.Color("#6B7280")

	styleSuccess = lipgloss.NewStyle().Foreground(colorSuccess)
	styleFailure = lipgloss.NewStyle().Foreground(colorFailure)
	styleWarning = lipgloss.NewStyle().Foreground(colorWarning)
	styleMuted   = lipgloss.NewStyle().Foreground(colorMuted)

	styleLabel = lipgloss.NewStyle().Bold(true).Foreground(colorInfo)

	// Result rendering: bold file line, green match line, muted context.
	stylePath    = lipgloss.NewStyle().Bold(true).Foreground(colorInfo)
	styleMatch   = lipgloss.NewStyle().Foreground(colorSuccess)
	styleContext = lipgloss.NewStyle().Foreground(colorMuted)
)

func reasonStyle(reason string) lipgloss.Style {
	switch reason {
	case models.ReasonCompleted:
		return styleSuccess
	case models.ReasonCancelled:
		return styleWarning
	default:
		return styleFailure
	}
}
