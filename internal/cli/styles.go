package cli

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/rileyhilliard/pimanager/internal/ui"
)

// Styles for plain command output. lipgloss drops the colors when stdout
// is not a terminal.
var (
	successStyle = lipgloss.NewStyle().Foreground(ui.ColorSuccess)
	errorStyle   = lipgloss.NewStyle().Foreground(ui.ColorError)
	titleStyle   = lipgloss.NewStyle().Foreground(ui.ColorInfo).Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(ui.ColorMuted)
)
