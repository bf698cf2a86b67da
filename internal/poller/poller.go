// Package poller owns the dashboard's fetch schedule.
//
// At start it fetches the log, status, speed test, speed history and live
// statistics concurrently, then re-fetches the statistics on a fixed
// interval until stopped. Manual refreshes and remote actions go through the
// same Poller. Every completed fetch is delivered on Updates as a single
// Update naming the slot it owns.
package poller

import (
	"context"
	"sync"
	"time"

	"github.com/rileyhilliard/pimanager/internal/api"
	"github.com/rileyhilliard/pimanager/internal/logger"
	"golang.org/x/sync/errgroup"
)

// DefaultInterval is how often live statistics are re-fetched.
const DefaultInterval = 2 * time.Second

// updateBuffer is the capacity of the Updates channel.
const updateBuffer = 64

// Source is the remote API. *api.Client implements it.
type Source interface {
	FetchLog(ctx context.Context) (string, error)
	FetchStatus(ctx context.Context) (string, error)
	FetchSpeedTest(ctx context.Context) (string, error)
	FetchStats(ctx context.Context) (api.Stats, error)
	FetchSpeedHistory(ctx context.Context) ([]api.SpeedSample, error)
	Trigger(ctx context.Context, action api.Action) (string, error)
}

// Poller schedules fetches against a Source.
type Poller struct {
	src      Source
	interval time.Duration
	log      logger.Logger
	now      func() time.Time

	updates chan Update
	done    chan struct{}

	mu       sync.Mutex
	started  bool
	reqCtx   context.Context
	cancel   context.CancelFunc
	stopOnce sync.Once
	wg       sync.WaitGroup

	busyMu sync.Mutex
	busy   int
}

// New creates a poller. A non-positive interval means DefaultInterval.
func New(src Source, interval time.Duration, log logger.Logger) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if log == nil {
		log = logger.Noop()
	}
	return &Poller{
		src:      src,
		interval: interval,
		log:      log,
		now:      time.Now,
		updates:  make(chan Update, updateBuffer),
		done:     make(chan struct{}),
		reqCtx:   context.Background(),
	}
}

// Interval returns the statistics polling interval.
func (p *Poller) Interval() time.Duration {
	return p.interval
}

// Updates delivers one Update per completed fetch. It is never closed;
// after Stop nothing more is sent.
func (p *Poller) Updates() <-chan Update {
	return p.updates
}

// Start issues the five initial fetches concurrently and starts the
// statistics ticker. Calling Start again, or after Stop, has no effect.
//
// Requests are not cancelled by Stop or by ctx; they run to completion and
// their results are discarded once the poller has stopped.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	if p.started || p.Stopped() {
		p.mu.Unlock()
		return
	}
	p.started = true
	loopCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.reqCtx = context.WithoutCancel(ctx)
	p.mu.Unlock()

	p.log.Debug("starting: stats every %v", p.interval)

	p.RefreshLog()
	p.RefreshStatus()
	p.RunSpeedTest()
	p.RefreshStats()
	p.RefreshSpeedHistory()

	p.wg.Add(1)
	go p.loop(loopCtx)
}

func (p *Poller) loop(ctx context.Context) {
	defer p.wg.Done()
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.Stop()
			return
		case <-ticker.C:
			p.RefreshStats()
		}
	}
}

// Stop cancels the statistics ticker. It is safe to call more than once
// and from any goroutine; only the first call has an effect.
func (p *Poller) Stop() {
	p.stopOnce.Do(func() {
		p.mu.Lock()
		cancel := p.cancel
		p.mu.Unlock()
		if cancel != nil {
			cancel()
		}
		close(p.done)
		p.log.Debug("stopped")
	})
}

// Wait blocks until the ticker goroutine has exited.
func (p *Poller) Wait() {
	p.wg.Wait()
}

// Stopped reports whether Stop has been called.
func (p *Poller) Stopped() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}

// RefreshLog re-fetches the log.
func (p *Poller) RefreshLog() {
	p.spawn(p.fetchLog)
}

// RefreshStatus re-fetches the status summary.
func (p *Poller) RefreshStatus() {
	p.spawn(p.fetchStatus)
}

// RefreshStats re-fetches the live statistics.
func (p *Poller) RefreshStats() {
	p.spawn(p.fetchStats)
}

// RefreshSpeedHistory re-fetches the speed test history.
func (p *Poller) RefreshSpeedHistory() {
	p.spawn(p.fetchSpeedHistory)
}

// RunSpeedTest runs a speed test on the Pi. The poller is busy until it
// completes.
func (p *Poller) RunSpeedTest() {
	ctx := p.ctx()
	go func() {
		p.addBusy(1)
		defer p.addBusy(-1)
		p.emitUpdate(p.fetchSpeedTest(ctx))
	}()
}

// RunCommand triggers a remote action, then re-fetches the log and then the
// status once each. The follow-up fetches happen whatever the trigger
// returned: a successful trigger only means the Pi accepted the request.
func (p *Poller) RunCommand(action api.Action) {
	ctx := p.ctx()
	go func() {
		p.addBusy(1)
		defer p.addBusy(-1)
		p.runCommand(ctx, action)
	}()
}

func (p *Poller) runCommand(ctx context.Context, action api.Action) {
	body, err := p.src.Trigger(ctx, action)
	if err != nil {
		p.log.Warn("%s trigger failed: %v", action, err)
	}
	p.emitUpdate(Update{Slot: SlotTrigger, Action: action, Text: body, Err: err, At: p.now()})

	p.emitUpdate(p.fetchLog(ctx))
	p.emitUpdate(p.fetchStatus(ctx))
}

// Snapshot fetches the log, status, speed test, speed history and
// statistics once, concurrently, and returns the resulting state. Each
// slot's failure is recorded in State.Errors; the returned error is only
// set when ctx ends first.
func (p *Poller) Snapshot(ctx context.Context) (State, error) {
	fetches := []func(context.Context) Update{
		p.fetchLog,
		p.fetchStatus,
		p.fetchSpeedTest,
		p.fetchSpeedHistory,
		p.fetchStats,
	}
	results := make([]Update, len(fetches))

	g, gctx := errgroup.WithContext(ctx)
	for i, fetch := range fetches {
		g.Go(func() error {
			results[i] = fetch(gctx)
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return State{}, err
	}

	state := NewState()
	for _, u := range results {
		state.Apply(u)
	}
	return state, nil
}

func (p *Poller) ctx() context.Context {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.reqCtx
}

func (p *Poller) fetchLog(ctx context.Context) Update {
	text, err := p.src.FetchLog(ctx)
	return p.textUpdate(SlotLog, text, err)
}

func (p *Poller) fetchStatus(ctx context.Context) Update {
	text, err := p.src.FetchStatus(ctx)
	return p.textUpdate(SlotStatus, text, err)
}

func (p *Poller) fetchSpeedTest(ctx context.Context) Update {
	text, err := p.src.FetchSpeedTest(ctx)
	return p.textUpdate(SlotSpeedTest, text, err)
}

func (p *Poller) fetchStats(ctx context.Context) Update {
	stats, err := p.src.FetchStats(ctx)
	if err != nil {
		p.log.Debug("stats fetch failed, keeping last snapshot: %v", err)
	}
	return Update{Slot: SlotStats, Stats: stats, Err: err, At: p.now()}
}

func (p *Poller) fetchSpeedHistory(ctx context.Context) Update {
	samples, err := p.src.FetchSpeedHistory(ctx)
	if err != nil {
		p.log.Debug("speed history fetch failed, keeping last history: %v", err)
	}
	return Update{Slot: SlotSpeedHistory, Speed: samples, Err: err, At: p.now()}
}

func (p *Poller) textUpdate(slot Slot, text string, err error) Update {
	if err != nil {
		p.log.Debug("%s fetch failed: %v", slot, err)
	}
	return Update{Slot: slot, Text: text, Err: err, At: p.now()}
}

// addBusy changes the busy count and reports it. Holding busyMu across the
// send keeps busy updates in the order the count changed.
func (p *Poller) addBusy(delta int) {
	p.busyMu.Lock()
	defer p.busyMu.Unlock()
	p.busy += delta
	p.emitUpdate(Update{Slot: SlotBusy, Busy: p.busy, At: p.now()})
}

// spawn runs fetch in its own goroutine and delivers the result.
func (p *Poller) spawn(fetch func(context.Context) Update) {
	ctx := p.ctx()
	go func() {
		p.emitUpdate(fetch(ctx))
	}()
}

func (p *Poller) emitUpdate(u Update) {
	if p.Stopped() {
		return
	}
	select {
	case p.updates <- u:
	case <-p.done:
	}
}
