package dashboard

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/rileyhilliard/pimanager/internal/reports"
	"github.com/rileyhilliard/pimanager/internal/ui"
)

// reportSelector is the checklist overlay for the report bundle.
type reportSelector struct {
	cursor int
	sel    reports.Selection
	busy   bool
}

func (m *Model) openSelector() {
	m.selector.cursor = 0
	m.overlay = overlayReports
}

func (m *Model) handleSelectorKey(key string) tea.Cmd {
	kinds := reports.Kinds()

	switch key {
	case KeyQuitAlt:
		return m.quit()

	case KeyClose, KeyQuit:
		m.overlay = overlayNone

	case KeyUp, KeyUpAlt:
		if m.selector.cursor > 0 {
			m.selector.cursor--
		}

	case KeyDown, KeyDownAlt:
		if m.selector.cursor < len(kinds)-1 {
			m.selector.cursor++
		}

	case KeyToggle, KeyToggleAlt:
		m.selector.sel.Toggle(kinds[m.selector.cursor].Kind)

	case KeyDownload, "d":
		return m.bundleCmd()
	}
	return nil
}

// bundleCmd starts a bundle download of the current selection.
func (m *Model) bundleCmd() tea.Cmd {
	b := m.opts.Bundler
	if b == nil {
		return nil
	}
	switch {
	case m.selector.sel.Empty():
		return m.setFlash("Select at least one report", true)
	case m.selector.busy || b.InFlight():
		return m.setFlash("A bundle download is already running", true)
	}

	m.selector.busy = true
	sel := reports.NewSelection(m.selector.sel.Kinds()...)
	ctx := m.ctx
	return func() tea.Msg {
		res, err := b.Download(ctx, sel)
		return bundleDoneMsg{res: res, err: err}
	}
}

// bundleSummary describes a saved bundle for the footer.
func bundleSummary(res reports.Result) string {
	files := "contents unreadable"
	if res.Members != nil {
		files = fmt.Sprintf("%d files", len(res.Members))
	}
	return fmt.Sprintf("Saved %s (%s, %s)", res.Path, humanize.Bytes(uint64(res.Size)), files)
}

func (m Model) renderSelector() string {
	s := m.styles

	lines := []string{s.ModalTitle.Render("📦 Download Reports"), ""}
	for i, info := range reports.Kinds() {
		box := s.Muted.Render("[" + ui.SymbolPending + "]")
		if m.selector.sel.Has(info.Kind) {
			box = s.Success.Render("[" + ui.SymbolChecked + "]")
		}
		cursor := "  "
		if i == m.selector.cursor {
			cursor = s.Cursor.Render("› ")
		}
		lines = append(lines, cursor+box+" "+s.Value.Render(info.Label))
	}
	lines = append(lines, "")

	switch {
	case m.selector.busy:
		lines = append(lines, m.spinner.View()+" "+s.Muted.Render("Downloading..."))
	case m.selector.sel.Empty():
		lines = append(lines, s.Muted.Render("Select at least one report"))
	default:
		lines = append(lines, s.Label.Render(fmt.Sprintf("%d selected", m.selector.sel.Len())))
	}
	lines = append(lines, s.Muted.Render("space toggle · enter download · esc close"))

	box := s.Modal.Padding(1, 2).Render(strings.Join(lines, "\n"))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box,
		lipgloss.WithWhitespaceChars(" "))
}
