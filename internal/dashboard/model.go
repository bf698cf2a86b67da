// Package dashboard is the Bubble Tea view of the Pi.
//
// The model starts a poller.Poller and folds each of its updates into a
// poller.State; rendering only ever reads that state. Command output
// overlays, the report selector and CSV exports are driven from key
// bindings; their work runs as tea.Cmds and comes back as messages.
package dashboard

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rileyhilliard/pimanager/internal/api"
	"github.com/rileyhilliard/pimanager/internal/command"
	"github.com/rileyhilliard/pimanager/internal/errors"
	"github.com/rileyhilliard/pimanager/internal/export"
	"github.com/rileyhilliard/pimanager/internal/logger"
	"github.com/rileyhilliard/pimanager/internal/poller"
	"github.com/rileyhilliard/pimanager/internal/prefs"
	"github.com/rileyhilliard/pimanager/internal/reports"
	"github.com/rileyhilliard/pimanager/internal/ui"
)

// flashDuration is how long transient status messages stay in the footer.
const flashDuration = 1500 * time.Millisecond

// SystemSource provides the Pi's platform summary. *api.Client implements it.
type SystemSource interface {
	FetchSystem(ctx context.Context) (api.SystemInfo, error)
}

// Options wires the model to its collaborators.
type Options struct {
	Context        context.Context
	Poller         *poller.Poller
	Commands       []*command.Runner
	Bundler        *reports.Bundler
	Exporter       *export.Exporter
	Saver          export.Saver
	Prefs          *prefs.Settings
	Clipboard      command.Clipboard
	System         SystemSource
	RevealInterval time.Duration
	BaseURL        string
	Log            logger.Logger
	Now            func() time.Time
}

// overlay is what, if anything, is drawn over the cards.
type overlay int

const (
	overlayNone overlay = iota
	overlayCommand
	overlayReports
	overlayHelp
	overlayConfirmReboot
)

// Model is the Bubble Tea model for the dashboard.
type Model struct {
	opts   Options
	ctx    context.Context
	log    logger.Logger
	now    func() time.Time
	styles Styles

	state   poller.State
	system  api.SystemInfo
	sysErr  error
	spinner spinner.Model

	width    int
	height   int
	overlay  overlay
	modal    commandModal
	reveal   command.Reveal
	selector reportSelector

	flash    string
	flashErr bool
	flashID  int
	quitting bool
}

// updateMsg carries one poller update.
type updateMsg poller.Update

// commandOutputMsg carries a completed command fetch.
type commandOutputMsg struct {
	index int
	out   command.Output
}

// revealTickMsg advances the typing effect of one reveal generation.
type revealTickMsg struct {
	gen uint64
}

// bundleDoneMsg reports the end of a bundle download.
type bundleDoneMsg struct {
	res reports.Result
	err error
}

// savedMsg reports the end of a CSV export or output download.
type savedMsg struct {
	what string
	path string
	err  error
}

// systemMsg carries the platform summary.
type systemMsg struct {
	info api.SystemInfo
	err  error
}

// flashExpiredMsg clears the footer message if it is still flash id.
type flashExpiredMsg struct {
	id int
}

// New creates the dashboard model.
func New(opts Options) Model {
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	if opts.Log == nil {
		opts.Log = logger.Noop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.RevealInterval <= 0 {
		opts.RevealInterval = time.Millisecond
	}
	if opts.Clipboard == nil {
		opts.Clipboard = command.SystemClipboard{}
	}
	if opts.Prefs == nil {
		opts.Prefs = prefs.InMemory(true, false)
	}

	styles := NewStyles(ui.PaletteFor(opts.Prefs.DarkMode()))
	return Model{
		opts:    opts,
		ctx:     opts.Context,
		log:     opts.Log,
		now:     opts.Now,
		styles:  styles,
		state:   poller.NewState(),
		spinner: ui.NewSpinner(styles.Palette.Accent),
	}
}

// Init starts the poller and begins listening for its updates.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.startCmd(),
		waitForUpdate(m.opts.Poller.Updates()),
		m.spinner.Tick,
		m.systemCmd(),
	)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeModal()

	case updateMsg:
		m.state.Apply(poller.Update(msg))
		return m, waitForUpdate(m.opts.Poller.Updates())

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case systemMsg:
		m.system = msg.info
		m.sysErr = msg.err

	case commandOutputMsg:
		return m, m.receiveOutput(msg)

	case revealTickMsg:
		return m, m.advanceReveal(msg.gen)

	case bundleDoneMsg:
		m.selector.busy = false
		if msg.err != nil {
			// The selector stays open so the user can retry.
			return m, m.setFlash(errors.Short(msg.err), true)
		}
		if m.overlay == overlayReports {
			m.overlay = overlayNone
		}
		return m, m.setFlash(bundleSummary(msg.res), false)

	case savedMsg:
		switch {
		case msg.err != nil:
			return m, m.setFlash(errors.Short(msg.err), true)
		case msg.path == "":
			return m, m.setFlash("No "+msg.what+" data to export yet", true)
		default:
			return m, m.setFlash("Saved "+msg.what+" to "+msg.path, false)
		}

	case flashExpiredMsg:
		if msg.id == m.flashID {
			m.flash = ""
			m.flashErr = false
		}
	}

	return m, nil
}

// View renders the dashboard.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	return m.render()
}

// State returns the current display state.
func (m Model) State() poller.State {
	return m.state
}

// startCmd starts the poller. Start returns immediately; results arrive
// through waitForUpdate.
func (m Model) startCmd() tea.Cmd {
	p, ctx := m.opts.Poller, m.ctx
	return func() tea.Msg {
		p.Start(ctx)
		return nil
	}
}

// waitForUpdate receives the next poller update. The model re-arms it after
// every update so exactly one receive is pending at a time.
func waitForUpdate(ch <-chan poller.Update) tea.Cmd {
	return func() tea.Msg {
		return updateMsg(<-ch)
	}
}

func (m Model) systemCmd() tea.Cmd {
	if m.opts.System == nil {
		return nil
	}
	src, ctx := m.opts.System, m.ctx
	return func() tea.Msg {
		info, err := src.FetchSystem(ctx)
		return systemMsg{info: info, err: err}
	}
}

func (m *Model) quit() tea.Cmd {
	m.quitting = true
	m.opts.Poller.Stop()
	return tea.Quit
}

// setFlash shows a transient footer message.
func (m *Model) setFlash(text string, isErr bool) tea.Cmd {
	m.flashID++
	m.flash = text
	m.flashErr = isErr
	id := m.flashID
	return tea.Tick(flashDuration, func(time.Time) tea.Msg {
		return flashExpiredMsg{id: id}
	})
}

func (m *Model) toggleDarkMode() tea.Cmd {
	dark, err := m.opts.Prefs.ToggleDarkMode()
	m.styles = NewStyles(ui.PaletteFor(dark))
	m.spinner.Style = m.spinner.Style.Foreground(m.styles.Palette.Accent)
	m.modal.refresh(m.styles, &m.reveal)
	if err != nil {
		return m.setFlash(errors.Short(err), true)
	}
	return nil
}

// exportCmd writes records as CSV in the background.
func (m Model) exportCmd(what string, records []export.Record, filename string) tea.Cmd {
	exp := m.opts.Exporter
	if exp == nil {
		return nil
	}
	return func() tea.Msg {
		path, err := exp.Export(records, filename)
		return savedMsg{what: what, path: path, err: err}
	}
}

// resizeModal fits the command viewport to the terminal.
func (m *Model) resizeModal() {
	if !m.modal.open {
		return
	}
	w, h := m.modalSize()
	if !m.modal.ready {
		m.modal.viewport = viewport.New(w, h)
		m.modal.ready = true
	} else {
		m.modal.viewport.Width = w
		m.modal.viewport.Height = h
	}
	m.modal.refresh(m.styles, &m.reveal)
}
