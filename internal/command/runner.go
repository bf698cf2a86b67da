// Package command shows the text output of a remote diagnostic command.
//
// A Runner fetches the output on demand. Each Runner owns its own fetch
// lifecycle; nothing is shared between runners except the fullscreen
// preference, which callers pass in explicitly.
package command

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rileyhilliard/pimanager/internal/api"
	"github.com/rileyhilliard/pimanager/internal/logger"
)

// Source fetches the text body of an endpoint. *api.Client implements it.
type Source interface {
	Text(ctx context.Context, path string) (string, error)
}

// Definition names a remote command the dashboard can show.
type Definition struct {
	Name     string
	Title    string
	Endpoint string
}

var definitions = []Definition{
	{Name: "fastfetch", Title: "🧾 Fastfetch Info", Endpoint: api.PathFastfetch},
	{Name: "stui", Title: "📊 s-tui Stats", Endpoint: api.PathStui},
}

// Definitions returns the known commands in display order.
func Definitions() []Definition {
	out := make([]Definition, len(definitions))
	copy(out, definitions)
	return out
}

// Lookup finds a command by name.
func Lookup(name string) (Definition, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, d := range definitions {
		if d.Name == name {
			return d, true
		}
	}
	return Definition{}, false
}

// Output is one completed fetch.
//
// Seq is assigned when the fetch completes, so a larger Seq always means a
// later completion regardless of when the request was started.
type Output struct {
	Raw string
	Err error
	Seq uint64
	At  time.Time
}

// Runner fetches one command's output.
type Runner struct {
	def Definition
	src Source
	log logger.Logger
	now func() time.Time

	mu        sync.Mutex
	completed uint64
	latest    Output
}

// NewRunner creates a runner for def.
func NewRunner(def Definition, src Source, log logger.Logger) *Runner {
	if log == nil {
		log = logger.Noop()
	}
	return &Runner{def: def, src: src, log: log, now: time.Now}
}

// Definition returns the command this runner fetches.
func (r *Runner) Definition() Definition {
	return r.def
}

// Title returns the display title.
func (r *Runner) Title() string {
	return r.def.Title
}

// Fetch requests the command output. Overlapping calls are allowed; each
// completion replaces Latest, so the last response to arrive wins.
//
// A failure is carried in Output.Err, and Raw becomes the server's error
// body when there is one, else "Error: <message>".
func (r *Runner) Fetch(ctx context.Context) Output {
	raw, err := r.src.Text(ctx, r.def.Endpoint)
	if err != nil {
		r.log.Debug("%s fetch failed: %v", r.def.Name, err)
		raw = api.RenderText(raw, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.completed++
	out := Output{Raw: raw, Err: err, Seq: r.completed, At: r.now()}
	r.latest = out
	return out
}

// Latest returns the most recently completed output. Seq is zero when no
// fetch has completed yet.
func (r *Runner) Latest() Output {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.latest
}
