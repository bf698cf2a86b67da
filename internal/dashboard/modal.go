package dashboard

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rileyhilliard/pimanager/internal/command"
)

// commandModal is the overlay showing one command's output.
type commandModal struct {
	open    bool
	index   int
	runner  *command.Runner
	seq     uint64 // Seq of the output on screen
	loading bool

	sel    command.Selection
	cursor int

	viewport viewport.Model
	ready    bool
}

// openCommand shows runner i and fetches its output.
func (m *Model) openCommand(i int) tea.Cmd {
	if i < 0 || i >= len(m.opts.Commands) {
		return nil
	}
	m.reveal.Reset("")
	m.modal = commandModal{
		open:    true,
		index:   i,
		runner:  m.opts.Commands[i],
		loading: true,
	}
	m.overlay = overlayCommand
	m.resizeModal()
	return m.fetchCommandCmd()
}

func (m *Model) closeCommand() {
	m.modal.open = false
	m.reveal.Finish()
	m.overlay = overlayNone
}

func (m Model) fetchCommandCmd() tea.Cmd {
	r, idx, ctx := m.modal.runner, m.modal.index, m.ctx
	return func() tea.Msg {
		return commandOutputMsg{index: idx, out: r.Fetch(ctx)}
	}
}

// receiveOutput shows a completed fetch unless a later completion is
// already on screen, then restarts the reveal from the first character.
func (m *Model) receiveOutput(msg commandOutputMsg) tea.Cmd {
	if !m.modal.open || msg.index != m.modal.index || msg.out.Seq <= m.modal.seq {
		return nil
	}
	m.modal.seq = msg.out.Seq
	m.modal.loading = false
	m.modal.sel.Clear()
	m.modal.cursor = 0

	gen := m.reveal.Reset(msg.out.Raw)
	if m.modal.ready {
		m.modal.viewport.GotoTop()
	}
	m.modal.refresh(m.styles, &m.reveal)
	if !m.reveal.Pending() {
		return nil
	}
	return m.revealTickCmd(gen)
}

func (m Model) revealTickCmd(gen uint64) tea.Cmd {
	return tea.Tick(m.opts.RevealInterval, func(time.Time) tea.Msg {
		return revealTickMsg{gen: gen}
	})
}

// advanceReveal shows one more rune. Ticks from an older generation fall
// through without rescheduling.
func (m *Model) advanceReveal(gen uint64) tea.Cmd {
	if !m.modal.open || gen != m.reveal.Generation() {
		return nil
	}
	more := m.reveal.Tick(gen)
	m.modal.refresh(m.styles, &m.reveal)
	if more {
		return m.revealTickCmd(gen)
	}
	return nil
}

// modalOuter is the size of the modal box including its border.
func (m Model) modalOuter() (w, h int) {
	if m.opts.Prefs.CommandFullscreen() {
		return m.width, m.height
	}
	w = m.width * 2 / 3
	if w < 40 {
		w = min(m.width, 40)
	}
	h = m.height * 7 / 10
	if h < 12 {
		h = min(m.height, 12)
	}
	return w, h
}

// modalSize is the size of the output viewport inside the modal.
func (m Model) modalSize() (w, h int) {
	ow, oh := m.modalOuter()
	w = ow - 4 // border + padding
	h = oh - 2 - 3
	return max(w, 1), max(h, 1)
}

// lineCount is the number of lines currently revealed.
func (c *commandModal) lineCount(r *command.Reveal) int {
	return strings.Count(r.Visible(), "\n") + 1
}

// refresh re-renders the visible output into the viewport.
func (c *commandModal) refresh(s Styles, r *command.Reveal) {
	if !c.open || !c.ready {
		return
	}
	if c.loading && r.Visible() == "" {
		c.viewport.SetContent(s.Muted.Render("Loading..."))
		return
	}

	lines := strings.Split(r.Visible(), "\n")
	var b strings.Builder
	for i, line := range lines {
		gutter := "  "
		if i == c.cursor {
			gutter = s.Cursor.Render("› ")
		}
		style := s.Output
		if c.sel.Contains(i) {
			style = s.Selected
		}
		b.WriteString(gutter)
		b.WriteString(style.Render(line))
		if i < len(lines)-1 {
			b.WriteByte('\n')
		}
	}
	c.viewport.SetContent(b.String())
}

// moveCursor moves the line cursor by delta, extending any active
// selection, and scrolls it into view.
func (m *Model) moveCursor(delta int) {
	last := m.modal.lineCount(&m.reveal) - 1
	c := m.modal.cursor + delta
	if c < 0 {
		c = 0
	}
	if c > last {
		c = last
	}
	m.modal.cursor = c
	if m.modal.sel.Active() {
		m.modal.sel.Extend(c)
	}

	vp := &m.modal.viewport
	if c < vp.YOffset {
		vp.SetYOffset(c)
	} else if c >= vp.YOffset+vp.Height {
		vp.SetYOffset(c - vp.Height + 1)
	}
	m.modal.refresh(m.styles, &m.reveal)
}

func (m *Model) handleCommandKey(key string) tea.Cmd {
	switch key {
	case KeyQuitAlt:
		return m.quit()

	case KeyClose, KeyQuit:
		m.closeCommand()
		return nil

	case KeyRefreshOutput:
		m.modal.loading = true
		return m.fetchCommandCmd()

	case KeyFullscreen:
		_, err := m.opts.Prefs.ToggleCommandFullscreen()
		m.resizeModal()
		if err != nil {
			return m.setFlash(err.Error(), true)
		}
		return nil

	case KeyFinishReveal:
		m.reveal.Finish()
		m.modal.refresh(m.styles, &m.reveal)
		return nil

	case KeySelect:
		if m.modal.sel.Active() {
			m.modal.sel.Clear()
		} else {
			m.modal.sel.Begin(m.modal.cursor)
		}
		m.modal.refresh(m.styles, &m.reveal)
		return nil

	case KeySelectAll:
		m.modal.sel.Begin(0)
		m.modal.sel.Extend(m.modal.lineCount(&m.reveal) - 1)
		m.modal.refresh(m.styles, &m.reveal)
		return nil

	case KeyCopy:
		copied, err := command.CopySelection(m.opts.Clipboard, m.modal.sel, m.reveal.Visible())
		switch {
		case err != nil:
			return m.setFlash("Copy failed: "+err.Error(), true)
		case copied:
			return m.setFlash("Copied!", false)
		default:
			return m.setFlash("Nothing selected", true)
		}

	case KeySave:
		return m.downloadOutputCmd()

	case KeyUp, KeyUpAlt:
		m.moveCursor(-1)
	case KeyDown, KeyDownAlt:
		m.moveCursor(1)
	case KeyPageUp:
		m.moveCursor(-max(m.modal.viewport.Height/2, 1))
	case KeyPageDown:
		m.moveCursor(max(m.modal.viewport.Height/2, 1))
	case KeyTop, KeyTopAlt:
		m.moveCursor(-m.modal.cursor)
	case KeyBottom, KeyBottomAlt:
		m.moveCursor(m.modal.lineCount(&m.reveal))
	}
	return nil
}

// downloadOutputCmd saves the raw output, never the partly revealed text.
func (m *Model) downloadOutputCmd() tea.Cmd {
	if m.modal.seq == 0 {
		return m.setFlash("Nothing to save yet", true)
	}
	saver, title, raw, now := m.opts.Saver, m.modal.runner.Title(), m.reveal.Raw(), m.now()
	if saver == nil {
		return nil
	}
	return func() tea.Msg {
		path, err := command.Download(saver, title, raw, now)
		return savedMsg{what: "output", path: path, err: err}
	}
}

func (m Model) renderCommandModal() string {
	s := m.styles
	ow, oh := m.modalOuter()

	fullscreen := "f fullscreen"
	if m.opts.Prefs.CommandFullscreen() {
		fullscreen = "f exit fullscreen"
	}
	hints := s.Muted.Render(strings.Join([]string{
		"r refresh", "v select", "c copy", "s save", fullscreen, "esc close",
	}, " · "))

	title := m.modal.runner.Title()
	if m.reveal.Pending() {
		title += " " + m.spinner.View()
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		s.ModalTitle.Render(title),
		hints,
		m.modal.viewport.View(),
	)
	box := s.Modal.Width(ow - 2).Height(oh - 2).Render(body)

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box,
		lipgloss.WithWhitespaceChars(" "))
}
