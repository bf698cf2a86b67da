package dashboard

import (
	"context"
	stderrors "errors"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rileyhilliard/pimanager/internal/api"
	"github.com/rileyhilliard/pimanager/internal/command"
	"github.com/rileyhilliard/pimanager/internal/export"
	"github.com/rileyhilliard/pimanager/internal/poller"
	"github.com/rileyhilliard/pimanager/internal/prefs"
	"github.com/rileyhilliard/pimanager/internal/reports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePi implements every source the dashboard talks to.
type fakePi struct {
	mu       sync.Mutex
	triggers []api.Action

	text      map[string]string
	bundle    []byte
	bundleErr error
}

func (f *fakePi) FetchLog(ctx context.Context) (string, error)       { return "log", nil }
func (f *fakePi) FetchStatus(ctx context.Context) (string, error)    { return "enabled", nil }
func (f *fakePi) FetchSpeedTest(ctx context.Context) (string, error) { return "90 Mbit/s", nil }
func (f *fakePi) FetchStats(ctx context.Context) (api.Stats, error)  { return api.Stats{}, nil }
func (f *fakePi) FetchSpeedHistory(ctx context.Context) ([]api.SpeedSample, error) {
	return nil, nil
}

func (f *fakePi) Trigger(ctx context.Context, action api.Action) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.triggers = append(f.triggers, action)
	return "ok", nil
}

func (f *fakePi) Text(ctx context.Context, path string) (string, error) {
	return f.text[path], nil
}

func (f *fakePi) Bundle(ctx context.Context, names []string) ([]byte, error) {
	return f.bundle, f.bundleErr
}

func (f *fakePi) triggered() []api.Action {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]api.Action(nil), f.triggers...)
}

type recordingClipboard struct {
	text string
}

func (c *recordingClipboard) WriteAll(text string) error {
	c.text = text
	return nil
}

type harness struct {
	pi    *fakePi
	saver *export.MemorySaver
	clip  *recordingClipboard
	prefs *prefs.Settings
	model Model
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		pi: &fakePi{text: map[string]string{
			api.PathFastfetch: "line one\nline two\nline three",
			api.PathStui:      "CPU 40C",
		}},
		saver: &export.MemorySaver{},
		clip:  &recordingClipboard{},
		prefs: prefs.InMemory(true, false),
	}

	var runners []*command.Runner
	for _, def := range command.Definitions() {
		runners = append(runners, command.NewRunner(def, h.pi, nil))
	}
	p := poller.New(h.pi, time.Hour, nil)
	t.Cleanup(p.Stop)

	h.model = New(Options{
		Poller:    p,
		Commands:  runners,
		Bundler:   reports.NewBundler(h.pi, h.saver, nil),
		Exporter:  export.NewExporter(h.saver, nil),
		Saver:     h.saver,
		Prefs:     h.prefs,
		Clipboard: h.clip,
		BaseURL:   "http://pi.local:5000",
		Now:       func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 678e6, time.UTC) },
	})
	h.send(tea.WindowSizeMsg{Width: 120, Height: 40})
	return h
}

// send delivers msg and returns the resulting command.
func (h *harness) send(msg tea.Msg) tea.Cmd {
	next, cmd := h.model.Update(msg)
	h.model = next.(Model)
	return cmd
}

func (h *harness) press(key string) tea.Cmd {
	switch key {
	case "esc":
		return h.send(tea.KeyMsg{Type: tea.KeyEsc})
	case "enter":
		return h.send(tea.KeyMsg{Type: tea.KeyEnter})
	case " ":
		return h.send(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	case "down":
		return h.send(tea.KeyMsg{Type: tea.KeyDown})
	}
	return h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)})
}

// drainReveal runs reveal ticks until the typing effect finishes.
func (h *harness) drainReveal(cmd tea.Cmd) {
	for cmd != nil {
		cmd = h.send(cmd())
	}
}

func TestUpdateMsg_AppliesToState(t *testing.T) {
	h := newHarness(t)
	h.send(updateMsg(poller.Update{Slot: poller.SlotStatus, Text: "disabled"}))
	assert.Equal(t, "disabled", h.model.State().Status)
	assert.Contains(t, h.model.View(), "disabled")
}

func TestCommandModal_RevealsOutput(t *testing.T) {
	h := newHarness(t)

	cmd := h.press("f")
	require.Equal(t, overlayCommand, h.model.overlay)
	require.NotNil(t, cmd)
	assert.Contains(t, h.model.View(), "Loading...")

	h.drainReveal(h.send(cmd()))

	assert.Equal(t, "line one\nline two\nline three", h.model.reveal.Visible())
	assert.False(t, h.model.reveal.Pending())
	assert.Contains(t, h.model.View(), "Fastfetch Info")
}

func TestCommandModal_IgnoresOlderCompletion(t *testing.T) {
	h := newHarness(t)
	h.press("t")

	h.drainReveal(h.send(commandOutputMsg{index: 1, out: command.Output{Raw: "newer", Seq: 2}}))
	assert.Nil(t, h.send(commandOutputMsg{index: 1, out: command.Output{Raw: "older", Seq: 1}}))
	assert.Equal(t, "newer", h.model.reveal.Visible())
}

func TestCommandModal_StaleTickIgnored(t *testing.T) {
	h := newHarness(t)
	h.press("t")

	h.send(commandOutputMsg{index: 1, out: command.Output{Raw: "first", Seq: 1}})
	oldGen := h.model.reveal.Generation()
	h.send(commandOutputMsg{index: 1, out: command.Output{Raw: "second", Seq: 2}})

	assert.Nil(t, h.send(revealTickMsg{gen: oldGen}))
	assert.Equal(t, 0, h.model.reveal.Shown(), "old generation does not advance the new text")
}

func TestCommandModal_CloseStopsReveal(t *testing.T) {
	h := newHarness(t)
	h.press("t")
	h.send(commandOutputMsg{index: 1, out: command.Output{Raw: "abc", Seq: 1}})
	gen := h.model.reveal.Generation()

	h.press("esc")
	assert.Equal(t, overlayNone, h.model.overlay)
	assert.Nil(t, h.send(revealTickMsg{gen: gen}))
}

func TestCommandModal_CopyAndSave(t *testing.T) {
	h := newHarness(t)
	h.drainReveal(h.send(h.press("f")()))

	h.press("c")
	assert.Empty(t, h.clip.text, "nothing selected")

	h.press("v")
	h.press("j")
	h.press("c")
	assert.Equal(t, "line one\nline two", h.clip.text)
	assert.Equal(t, "Copied!", h.model.flash)

	cmd := h.press("s")
	require.NotNil(t, cmd)
	h.send(cmd())

	saved := h.saver.Saved()
	require.Len(t, saved, 1)
	assert.Equal(t, "Fastfetch_Info_2024-01-02T03-04-05-678Z_output.txt", saved[0].Name)
	assert.Equal(t, "line one\nline two\nline three", string(saved[0].Data))
}

func TestCommandModal_FullscreenPersists(t *testing.T) {
	h := newHarness(t)
	h.press("f")
	smallW, _ := h.model.modalSize()

	h.press("f")
	assert.True(t, h.prefs.CommandFullscreen())
	bigW, _ := h.model.modalSize()
	assert.Greater(t, bigW, smallW)
}

func TestExportKeys(t *testing.T) {
	h := newHarness(t)
	h.send(updateMsg(poller.Update{Slot: poller.SlotStats, Stats: api.Stats{
		Queries: []api.QueryPoint{{Time: "10:00", Queries: 5}},
		Devices: []api.DeviceUsage{{Device: "phone", Queries: 5}},
	}}))

	h.send(h.press("c")())
	h.send(h.press("v")())

	saved := h.saver.Saved()
	require.Len(t, saved, 2)
	assert.Equal(t, export.QueriesFile, saved[0].Name)
	assert.Equal(t, "time,queries\n\"10:00\",5", string(saved[0].Data))
	assert.Equal(t, export.DevicesFile, saved[1].Name)
	assert.Contains(t, h.model.flash, "Saved devices")

	h.send(h.press("b")())
	assert.Len(t, h.saver.Saved(), 2, "empty series is not written")
	assert.Equal(t, "No blocked data to export yet", h.model.flash)
}

func TestReportSelector_Download(t *testing.T) {
	h := newHarness(t)
	h.pi.bundle = []byte("not really a zip")

	h.press("e")
	require.Equal(t, overlayReports, h.model.overlay)

	h.press("enter")
	assert.False(t, h.model.selector.busy, "empty selection does not download")

	h.press(" ")
	h.press("down")
	h.press(" ")
	cmd := h.press("enter")
	require.NotNil(t, cmd)
	assert.True(t, h.model.selector.busy)

	h.send(cmd())
	assert.False(t, h.model.selector.busy)
	assert.Equal(t, overlayNone, h.model.overlay)
	assert.True(t, strings.HasPrefix(h.model.flash, "Saved PiReports.zip"))
	require.Len(t, h.saver.Saved(), 1)
}

func TestReportSelector_FailureKeepsSelection(t *testing.T) {
	h := newHarness(t)
	h.pi.bundleErr = stderrors.New("502 Bad Gateway")

	h.press("e")
	h.press(" ")
	h.send(h.press("enter")())

	assert.Equal(t, overlayReports, h.model.overlay)
	assert.False(t, h.model.selector.busy)
	assert.True(t, h.model.selector.sel.Has(reports.KindFastfetch))
	assert.True(t, h.model.flashErr)
}

func TestRebootNeedsConfirmation(t *testing.T) {
	h := newHarness(t)

	h.press("R")
	h.press("n")
	assert.Equal(t, overlayNone, h.model.overlay)

	h.press("R")
	assert.Contains(t, h.model.View(), "Reboot the Pi?")
	h.press("y")

	assert.Eventually(t, func() bool {
		got := h.pi.triggered()
		return len(got) == 1 && got[0] == api.ActionReboot
	}, time.Second, time.Millisecond)
}

func TestDarkModeToggle(t *testing.T) {
	h := newHarness(t)
	h.press("d")
	assert.False(t, h.prefs.DarkMode())
	assert.Equal(t, "light", h.model.styles.Palette.Name)
}

func TestHelpOverlay(t *testing.T) {
	h := newHarness(t)
	h.press("?")
	assert.Contains(t, h.model.View(), "Keyboard Shortcuts")
	h.press("?")
	assert.Equal(t, overlayNone, h.model.overlay)
}

func TestView_NarrowTerminal(t *testing.T) {
	h := newHarness(t)
	h.send(tea.WindowSizeMsg{Width: 60, Height: 20})
	view := h.model.View()
	assert.Contains(t, view, "Pi Manager Dashboard")
	assert.Contains(t, view, "Update Log")
}

func TestSystemSummary(t *testing.T) {
	info := api.SystemInfo{OS: "Raspbian", Uptime: "3 days", CPU: 12.4, RAM: 40.6, Power: "ok"}
	assert.Equal(t, "Raspbian, up 3 days, CPU 12%, RAM 41%, power ok", SystemSummary(info))
	assert.Equal(t, "Error: vcgencmd missing", SystemSummary(api.SystemInfo{Error: "vcgencmd missing"}))
}

func TestBundleSummary(t *testing.T) {
	res := reports.Result{Path: "/tmp/PiReports.zip", Size: 2048, Members: []string{"a.txt", "b.txt"}}
	assert.Equal(t, "Saved /tmp/PiReports.zip (2.0 kB, 2 files)", bundleSummary(res))
}
