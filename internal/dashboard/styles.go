package dashboard

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rileyhilliard/pimanager/internal/ui"
)

// Styles is the dashboard's lipgloss styles for one palette. They are
// rebuilt whenever darkMode flips.
type Styles struct {
	Palette ui.Palette

	Header lipgloss.Style
	Title  lipgloss.Style
	Footer lipgloss.Style

	Card      lipgloss.Style
	CardTitle lipgloss.Style
	Label     lipgloss.Style
	Value     lipgloss.Style
	Muted     lipgloss.Style

	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style

	Modal      lipgloss.Style
	ModalTitle lipgloss.Style
	Output     lipgloss.Style
	Cursor     lipgloss.Style
	Selected   lipgloss.Style

	HelpKey  lipgloss.Style
	HelpDesc lipgloss.Style
}

// NewStyles builds the styles for p.
func NewStyles(p ui.Palette) Styles {
	return Styles{
		Palette: p,

		Header: lipgloss.NewStyle().
			Foreground(p.Text).
			Background(p.Surface).
			Bold(true).
			Padding(0, 1),
		Title: lipgloss.NewStyle().
			Foreground(p.Accent).
			Bold(true),
		Footer: lipgloss.NewStyle().
			Foreground(p.Muted).
			Padding(0, 1),

		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Border).
			Padding(0, 1),
		CardTitle: lipgloss.NewStyle().
			Foreground(p.Accent).
			Bold(true),
		Label: lipgloss.NewStyle().
			Foreground(p.TextSecondary),
		Value: lipgloss.NewStyle().
			Foreground(p.Text),
		Muted: lipgloss.NewStyle().
			Foreground(p.Muted),

		Success: lipgloss.NewStyle().Foreground(p.Success),
		Warning: lipgloss.NewStyle().Foreground(p.Warning),
		Error:   lipgloss.NewStyle().Foreground(p.Error),

		Modal: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Accent).
			Padding(0, 1),
		ModalTitle: lipgloss.NewStyle().
			Foreground(p.Accent).
			Bold(true).
			MarginBottom(1),
		Output: lipgloss.NewStyle().
			Foreground(p.Output),
		Cursor: lipgloss.NewStyle().
			Foreground(p.Accent).
			Bold(true),
		Selected: lipgloss.NewStyle().
			Foreground(p.Background).
			Background(p.Output),

		HelpKey: lipgloss.NewStyle().
			Foreground(p.Text).
			Bold(true).
			Width(14),
		HelpDesc: lipgloss.NewStyle().
			Foreground(p.TextSecondary),
	}
}

// card renders a bordered card of the given outer width with a title line.
// Body lines beyond height are dropped from the top.
func (s Styles) card(title, body string, width, height int) string {
	inner := width - 4 // border + padding
	if inner < 10 {
		inner = 10
	}
	lines := lastLines(body, height)
	for i, l := range lines {
		lines[i] = truncate(l, inner)
	}
	content := s.CardTitle.Render(truncate(title, inner))
	if len(lines) > 0 {
		content += "\n" + strings.Join(lines, "\n")
	}
	return s.Card.Width(width - 2).Render(content)
}

// lastLines returns the last n lines of text. n <= 0 means all lines.
func lastLines(text string, n int) []string {
	text = strings.TrimRight(text, "\n")
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	if n > 0 && len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return lines
}

// truncate cuts s to at most width display cells.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= width {
		return s
	}
	return lipgloss.NewStyle().MaxWidth(width).Render(s)
}
