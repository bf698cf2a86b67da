package command

import (
	"context"
	stderrors "errors"
	"sync"
	"testing"
	"time"

	"github.com/rileyhilliard/pimanager/internal/api"
	"github.com/rileyhilliard/pimanager/internal/export"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSource struct {
	body string
	err  error
	path string
}

func (s *stubSource) Text(ctx context.Context, path string) (string, error) {
	s.path = path
	return s.body, s.err
}

// gatedSource releases each call only when its gate is closed, so tests
// control completion order.
type gatedSource struct {
	mu    sync.Mutex
	gates []chan string
}

func (g *gatedSource) Text(ctx context.Context, path string) (string, error) {
	gate := make(chan string)
	g.mu.Lock()
	g.gates = append(g.gates, gate)
	g.mu.Unlock()
	return <-gate, nil
}

func (g *gatedSource) gate(i int) chan string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.gates[i]
}

func (g *gatedSource) started() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.gates)
}

type recordingClipboard struct {
	writes []string
	err    error
}

func (c *recordingClipboard) WriteAll(text string) error {
	if c.err != nil {
		return c.err
	}
	c.writes = append(c.writes, text)
	return nil
}

func TestLookup(t *testing.T) {
	def, ok := Lookup(" FastFetch ")
	require.True(t, ok)
	assert.Equal(t, api.PathFastfetch, def.Endpoint)
	assert.Equal(t, "🧾 Fastfetch Info", def.Title)

	def, ok = Lookup("stui")
	require.True(t, ok)
	assert.Equal(t, api.PathStui, def.Endpoint)

	_, ok = Lookup("htop")
	assert.False(t, ok)
	assert.Len(t, Definitions(), 2)
}

func TestRunner_Fetch(t *testing.T) {
	src := &stubSource{body: "OS: Raspbian\nKernel: 6.1"}
	def, _ := Lookup("fastfetch")
	r := NewRunner(def, src, nil)

	assert.Zero(t, r.Latest().Seq)

	out := r.Fetch(context.Background())
	assert.Equal(t, api.PathFastfetch, src.path)
	assert.Equal(t, "OS: Raspbian\nKernel: 6.1", out.Raw)
	assert.NoError(t, out.Err)
	assert.Equal(t, uint64(1), out.Seq)
	assert.Equal(t, out, r.Latest())

	out = r.Fetch(context.Background())
	assert.Equal(t, uint64(2), out.Seq)
}

func TestRunner_FetchErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		err  error
		want string
	}{
		{
			name: "transport error",
			err:  stderrors.New("connection refused"),
			want: "Error: connection refused",
		},
		{
			name: "status error keeps server body",
			body: "s-tui not installed",
			err:  &api.StatusError{Method: "GET", Path: api.PathStui, StatusCode: 500, Body: "s-tui not installed"},
			want: "s-tui not installed",
		},
		{
			name: "status error without body",
			err:  &api.StatusError{Method: "GET", Path: api.PathStui, StatusCode: 502},
			want: "Error: GET /api/stui: 502 Bad Gateway",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def, _ := Lookup("stui")
			r := NewRunner(def, &stubSource{body: tt.body, err: tt.err}, nil)
			out := r.Fetch(context.Background())
			assert.Equal(t, tt.want, out.Raw)
			assert.Error(t, out.Err)
		})
	}
}

func TestRunner_LastCompletedWins(t *testing.T) {
	src := &gatedSource{}
	def, _ := Lookup("fastfetch")
	r := NewRunner(def, src, nil)

	results := make(chan Output, 2)
	go func() { results <- r.Fetch(context.Background()) }()
	require.Eventually(t, func() bool { return src.started() == 1 }, time.Second, time.Millisecond)
	go func() { results <- r.Fetch(context.Background()) }()
	require.Eventually(t, func() bool { return src.started() == 2 }, time.Second, time.Millisecond)

	// The second request completes first, then the first one.
	src.gate(1) <- "second"
	early := <-results
	src.gate(0) <- "first"
	late := <-results

	assert.Equal(t, "second", early.Raw)
	assert.Equal(t, "first", late.Raw)
	assert.Greater(t, late.Seq, early.Seq)
	assert.Equal(t, "first", r.Latest().Raw, "the response that completed last wins")
}

func TestReveal_ABC(t *testing.T) {
	var r Reveal
	gen := r.Reset("ABC")
	assert.Equal(t, "", r.Visible())

	assert.True(t, r.Tick(gen))
	assert.True(t, r.Tick(gen))
	assert.Equal(t, "AB", r.Visible(), "after N-1 ticks")
	assert.True(t, r.Pending())

	assert.False(t, r.Tick(gen), "last tick does not schedule another")
	assert.Equal(t, "ABC", r.Visible())
	assert.False(t, r.Pending())

	assert.False(t, r.Tick(gen))
	assert.Equal(t, "ABC", r.Visible(), "no growth after completion")
}

func TestReveal_PrefixGrowsMonotonically(t *testing.T) {
	raw := "héllo\nwörld ✓"
	var r Reveal
	gen := r.Reset(raw)

	prev := ""
	for r.Pending() {
		r.Tick(gen)
		cur := r.Visible()
		assert.True(t, len(cur) > len(prev))
		assert.Equal(t, cur, raw[:len(cur)], "visible text is always a prefix of raw")
		prev = cur
	}
	assert.Equal(t, raw, r.Visible())
	assert.Equal(t, len([]rune(raw)), r.Shown())
}

func TestReveal_ResetCancelsStaleTicks(t *testing.T) {
	var r Reveal
	old := r.Reset("first output")
	r.Tick(old)
	r.Tick(old)

	gen := r.Reset("XY")
	assert.Equal(t, "", r.Visible(), "restarts from the first character")

	assert.False(t, r.Tick(old), "stale tick ignored")
	assert.Equal(t, "", r.Visible())

	r.Tick(gen)
	assert.Equal(t, "X", r.Visible())
	assert.Equal(t, "XY", r.Raw())
}

func TestReveal_Finish(t *testing.T) {
	var r Reveal
	gen := r.Reset("abcdef")
	r.Tick(gen)
	r.Finish()
	assert.Equal(t, "abcdef", r.Visible())
	assert.False(t, r.Tick(gen))
	assert.NotEqual(t, gen, r.Generation())
}

func TestReveal_Empty(t *testing.T) {
	var r Reveal
	gen := r.Reset("")
	assert.False(t, r.Pending())
	assert.False(t, r.Tick(gen))
	assert.Equal(t, "", r.Visible())
}

func TestSelection_Text(t *testing.T) {
	text := "line0\nline1\nline2\nline3"

	tests := []struct {
		name   string
		anchor int
		cursor int
		want   string
	}{
		{name: "single line", anchor: 1, cursor: 1, want: "line1"},
		{name: "forward range", anchor: 1, cursor: 2, want: "line1\nline2"},
		{name: "backward range", anchor: 3, cursor: 2, want: "line2\nline3"},
		{name: "clamped past end", anchor: 2, cursor: 10, want: "line2\nline3"},
		{name: "entirely past end", anchor: 8, cursor: 9, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var sel Selection
			sel.Begin(tt.anchor)
			sel.Extend(tt.cursor)
			assert.Equal(t, tt.want, sel.Text(text))
		})
	}
}

func TestSelection_Contains(t *testing.T) {
	var sel Selection
	assert.False(t, sel.Contains(0))

	sel.Extend(4)
	sel.Extend(2)
	assert.True(t, sel.Active())
	assert.True(t, sel.Contains(3))
	assert.False(t, sel.Contains(5))

	sel.Clear()
	assert.False(t, sel.Active())
}

func TestCopySelection(t *testing.T) {
	visible := "CPU: 42C\nFreq: 1500MHz\nLoad: 0.3"

	t.Run("copies only the highlighted lines", func(t *testing.T) {
		cb := &recordingClipboard{}
		var sel Selection
		sel.Begin(1)
		copied, err := CopySelection(cb, sel, visible)
		require.NoError(t, err)
		assert.True(t, copied)
		assert.Equal(t, []string{"Freq: 1500MHz"}, cb.writes)
	})

	t.Run("nothing selected is a no-op", func(t *testing.T) {
		cb := &recordingClipboard{}
		copied, err := CopySelection(cb, Selection{}, visible)
		require.NoError(t, err)
		assert.False(t, copied)
		assert.Empty(t, cb.writes)
	})

	t.Run("clipboard failure", func(t *testing.T) {
		cb := &recordingClipboard{err: stderrors.New("no xclip")}
		var sel Selection
		sel.Begin(0)
		copied, err := CopySelection(cb, sel, visible)
		assert.Error(t, err)
		assert.False(t, copied)
	})
}

func TestDownloadName(t *testing.T) {
	at := time.Date(2024, 1, 2, 3, 4, 5, 678_000_000, time.UTC)

	tests := []struct {
		title string
		want  string
	}{
		{title: "🧾 Fastfetch Info", want: "Fastfetch_Info_2024-01-02T03-04-05-678Z_output.txt"},
		{title: "📊 s-tui Stats", want: "s-tui_Stats_2024-01-02T03-04-05-678Z_output.txt"},
		{title: "Plain  title\twith tabs", want: "Plain_title_with_tabs_2024-01-02T03-04-05-678Z_output.txt"},
		{title: "🧾", want: "command_2024-01-02T03-04-05-678Z_output.txt"},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.want, DownloadName(tt.title, at))
		})
	}
}

func TestDownloadName_UsesUTC(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	at := time.Date(2024, 1, 2, 5, 4, 5, 0, loc)
	assert.Equal(t, "Fastfetch_Info_2024-01-02T03-04-05-000Z_output.txt", DownloadName("🧾 Fastfetch Info", at))
}

func TestDownload_SavesRawText(t *testing.T) {
	saver := &export.MemorySaver{}
	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	path, err := Download(saver, "🧾 Fastfetch Info", "full output", at)
	require.NoError(t, err)
	assert.Equal(t, "Fastfetch_Info_2024-01-02T03-04-05-000Z_output.txt", path)

	saved := saver.Saved()
	require.Len(t, saved, 1)
	assert.Equal(t, "full output", string(saved[0].Data))

	_, err = Download(&export.MemorySaver{Err: stderrors.New("denied")}, "x", "y", at)
	assert.Error(t, err)
}
