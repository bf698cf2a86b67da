package dashboard

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// HelpBinding represents a single keyboard shortcut entry.
type HelpBinding struct {
	Key  string
	Desc string
}

// helpBindings defines all keyboard shortcuts shown in the help overlay.
var helpBindings = []HelpBinding{
	{Key: "u", Desc: "Run system update"},
	{Key: "R", Desc: "Reboot the Pi (asks first)"},
	{Key: "l", Desc: "Refresh update log and status"},
	{Key: "s", Desc: "Run a speed test"},
	{Key: "r", Desc: "Refresh stats and speed history"},
	{Key: "f", Desc: "Show fastfetch output"},
	{Key: "t", Desc: "Show s-tui stats"},
	{Key: "e", Desc: "Download a report bundle"},
	{Key: "c / b / v / h", Desc: "Export queries / blocked / devices / speeds as CSV"},
	{Key: "d", Desc: "Toggle dark mode"},
	{Key: "?", Desc: "Toggle this help"},
	{Key: "q / Ctrl+C", Desc: "Quit"},
}

// commandHelpBindings apply inside a command output window.
var commandHelpBindings = []HelpBinding{
	{Key: "v / a", Desc: "Start selection / select all"},
	{Key: "c", Desc: "Copy selected lines"},
	{Key: "s", Desc: "Save output to a file"},
	{Key: "f", Desc: "Toggle fullscreen"},
	{Key: "Enter", Desc: "Skip the typing effect"},
	{Key: "Esc", Desc: "Close"},
}

// renderHelpOverlay renders a centered help box with keyboard shortcuts.
func (m Model) renderHelpOverlay() string {
	s := m.styles
	keyStyle := s.HelpKey.Width(16)

	var lines []string
	lines = append(lines, s.ModalTitle.Render("Keyboard Shortcuts"))
	for _, binding := range helpBindings {
		lines = append(lines, keyStyle.Render(binding.Key)+s.HelpDesc.Render(binding.Desc))
	}

	lines = append(lines, "", s.ModalTitle.Render("Command Output"))
	for _, binding := range commandHelpBindings {
		lines = append(lines, keyStyle.Render(binding.Key)+s.HelpDesc.Render(binding.Desc))
	}

	lines = append(lines, "", s.Label.Render("Press ? to close"))

	helpBox := s.Modal.Padding(1, 2).Render(strings.Join(lines, "\n"))

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		helpBox,
		lipgloss.WithWhitespaceChars(" "),
	)
}

// renderRebootConfirm asks before rebooting.
func (m Model) renderRebootConfirm() string {
	s := m.styles
	body := s.Warning.Bold(true).Render("Reboot the Pi?") + "\n\n" +
		s.Muted.Render("y confirm · any other key cancels")
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
		s.Modal.Padding(1, 2).Render(body),
		lipgloss.WithWhitespaceChars(" "))
}
