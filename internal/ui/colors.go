package ui

import "github.com/charmbracelet/lipgloss"

// Semantic colors for plain command output.
const (
	ColorPrimary lipgloss.Color = "7" // White/default
	ColorSuccess lipgloss.Color = "2" // Green
	ColorError   lipgloss.Color = "1" // Red
	ColorInfo    lipgloss.Color = "6" // Cyan
	ColorMuted   lipgloss.Color = "8" // Gray (bright black)
)

// Palette is the set of colors one dashboard theme uses.
type Palette struct {
	Name string

	Background lipgloss.Color
	Surface    lipgloss.Color
	Border     lipgloss.Color

	Text          lipgloss.Color
	TextSecondary lipgloss.Color
	Muted         lipgloss.Color
	Accent        lipgloss.Color

	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color

	// Series colors
	Queries  lipgloss.Color
	Blocked  lipgloss.Color
	Download lipgloss.Color
	Upload   lipgloss.Color

	// Output is the foreground of command output panes.
	Output lipgloss.Color
}

// DarkPalette is used when darkMode is on.
var DarkPalette = Palette{
	Name:          "dark",
	Background:    lipgloss.Color("#0B0F14"),
	Surface:       lipgloss.Color("#141A22"),
	Border:        lipgloss.Color("#2B3440"),
	Text:          lipgloss.Color("#F2F4F7"),
	TextSecondary: lipgloss.Color("#A9B4C2"),
	Muted:         lipgloss.Color("#66707D"),
	Accent:        lipgloss.Color("#C084FC"),
	Success:       lipgloss.Color("#34D399"),
	Warning:       lipgloss.Color("#FBBF24"),
	Error:         lipgloss.Color("#F87171"),
	Queries:       lipgloss.Color("#8884D8"),
	Blocked:       lipgloss.Color("#F87171"),
	Download:      lipgloss.Color("#34D399"),
	Upload:        lipgloss.Color("#60A5FA"),
	Output:        lipgloss.Color("#4ADE80"),
}

// LightPalette is used when darkMode is off.
var LightPalette = Palette{
	Name:          "light",
	Background:    lipgloss.Color("#FFFFFF"),
	Surface:       lipgloss.Color("#F3F4F6"),
	Border:        lipgloss.Color("#D1D5DB"),
	Text:          lipgloss.Color("#111827"),
	TextSecondary: lipgloss.Color("#374151"),
	Muted:         lipgloss.Color("#6B7280"),
	Accent:        lipgloss.Color("#7C3AED"),
	Success:       lipgloss.Color("#059669"),
	Warning:       lipgloss.Color("#B45309"),
	Error:         lipgloss.Color("#DC2626"),
	Queries:       lipgloss.Color("#6366F1"),
	Blocked:       lipgloss.Color("#DC2626"),
	Download:      lipgloss.Color("#059669"),
	Upload:        lipgloss.Color("#2563EB"),
	Output:        lipgloss.Color("#15803D"),
}

// PaletteFor returns the palette for the darkMode preference.
func PaletteFor(dark bool) Palette {
	if dark {
		return DarkPalette
	}
	return LightPalette
}
