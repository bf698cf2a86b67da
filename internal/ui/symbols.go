package ui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
)

// Unicode symbols for status indicators.
const (
	SymbolSuccess = "✓" // Operation succeeded
	SymbolFail    = "✗" // Operation failed
	SymbolPending = "○" // Not selected
	SymbolChecked = "●" // Selected
)

// SpinnerFrames defines the custom animation frames (◐ ◓ ◑ ◒) for Bubble Tea programs.
var SpinnerFrames = spinner.Spinner{
	Frames: []string{"◐", "◓", "◑", "◒"},
	FPS:    time.Second / 10, // 100ms per frame
}

// NewSpinner returns a bubbles spinner using SpinnerFrames in color.
func NewSpinner(color lipgloss.Color) spinner.Model {
	sp := spinner.New()
	sp.Spinner = SpinnerFrames
	sp.Style = lipgloss.NewStyle().Foreground(color)
	return sp
}
