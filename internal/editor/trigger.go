package editor

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/zjrosen/quill/internal/highlight"
	"github.com/zjrosen/quill/internal/log"
	"github.com/zjrosen/quill/internal/pubsub"
)

// DefaultDelay is the quiet period after the last edit before a highlight
// pass runs.
const DefaultDelay = 300 * time.Millisecond

// Clock provides time-related operations for testability.
// Use RealClock for production and a manual clock for testing.
type Clock interface {
	Now() time.Time
	// AfterFunc calls f in its own goroutine once d has elapsed.
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is a pending AfterFunc call.
type Timer interface {
	// Stop prevents the Timer from firing. Returns true if the call stops
	// the timer, false if the timer has already fired or been stopped.
	Stop() bool
}

// RealClock implements Clock using the standard time package.
type RealClock struct{}

// Now returns the current time.
func (RealClock) Now() time.Time { return time.Now() }

// AfterFunc wraps time.AfterFunc.
func (RealClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Highlighted is published after every completed pass.
type Highlighted struct {
	BufferID string
	Result   highlight.Result
	At       time.Time
}

// TriggerConfig holds configuration for a Trigger.
type TriggerConfig struct {
	// Delay is the debounce interval. Defaults to DefaultDelay if zero.
	Delay time.Duration
	// Clock provides time operations. Defaults to RealClock if nil.
	Clock Clock
}

// Trigger re-highlights a buffer once edits have stopped for Delay. Each
// edit cancels the pass scheduled by the previous one, so only the latest
// scheduled pass runs.
type Trigger struct {
	buf    *Buffer
	hl     *highlight.Highlighter
	delay  time.Duration
	clock  Clock
	events *pubsub.Broker[Highlighted]

	ctx    context.Context
	cancel context.CancelFunc

	mu         sync.Mutex
	timer      Timer
	generation uint64
	stopped    bool

	// busy is set while a guarded mutation runs; changes it makes are
	// ignored. Passes only write annotations and never set it.
	busy atomic.Bool

	unobserve func()
}

// NewTrigger attaches a trigger to buf. Passes run until ctx is cancelled
// or Stop is called.
func NewTrigger(ctx context.Context, buf *Buffer, hl *highlight.Highlighter, cfg TriggerConfig) *Trigger {
	if cfg.Delay <= 0 {
		cfg.Delay = DefaultDelay
	}
	if cfg.Clock == nil {
		cfg.Clock = RealClock{}
	}
	tctx, cancel := context.WithCancel(ctx)
	t := &Trigger{
		buf:    buf,
		hl:     hl,
		delay:  cfg.Delay,
		clock:  cfg.Clock,
		events: pubsub.NewBroker[Highlighted](),
		ctx:    tctx,
		cancel: cancel,
	}
	t.unobserve = buf.Observe(t.Notify)
	return t
}

// Events subscribes to the HighlightedEvent published after each pass.
func (t *Trigger) Events() pubsub.Subscriber[Highlighted] {
	return t.events
}

// Delay returns the debounce interval.
func (t *Trigger) Delay() time.Duration {
	return t.delay
}

// Notify schedules a pass after the debounce interval, replacing any pass
// that is still pending.
func (t *Trigger) Notify(c Change) {
	if t.busy.Load() {
		log.Debug(log.CatEditor, "Ignoring change during guarded section", "buffer", t.buf.ID(), "offset", c.Offset)
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped {
		return
	}
	if t.timer != nil {
		t.timer.Stop()
	}
	t.generation++
	gen := t.generation
	t.timer = t.clock.AfterFunc(t.delay, func() { t.fire(gen) })
}

// Pending reports whether a pass is scheduled.
func (t *Trigger) Pending() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.timer != nil
}

// fire runs the pass scheduled as generation gen. A timer that could not be
// stopped in time finds a newer generation and does nothing.
func (t *Trigger) fire(gen uint64) {
	t.mu.Lock()
	if t.stopped || gen != t.generation {
		t.mu.Unlock()
		return
	}
	t.timer = nil
	t.mu.Unlock()

	t.RunNow()
}

// RunNow runs a pass immediately, bypassing the debounce. Edits that land
// while the pass runs schedule a new pass as usual.
func (t *Trigger) RunNow() highlight.Result {
	if t.ctx.Err() != nil {
		return highlight.Result{}
	}
	res := t.hl.Highlight(t.ctx, t.buf)
	if res.Err != nil {
		log.Warn(log.CatEditor, "Highlight pass completed with errors", "buffer", t.buf.ID(), "error", res.Err)
	}
	t.events.Publish(pubsub.HighlightedEvent, Highlighted{
		BufferID: t.buf.ID(),
		Result:   res,
		At:       t.clock.Now(),
	})
	return res
}

// Guard runs fn with the re-entrancy flag set, so that text changes made
// by fn itself do not schedule another pass.
func (t *Trigger) Guard(fn func()) {
	t.busy.Store(true)
	defer t.busy.Store(false)
	fn()
}

// Stop detaches the trigger from its buffer and cancels pending work.
// After Stop returns no new pass starts.
func (t *Trigger) Stop() {
	t.mu.Lock()
	if t.stopped {
		t.mu.Unlock()
		return
	}
	t.stopped = true
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.mu.Unlock()

	t.unobserve()
	t.cancel()
	t.events.Close()
	log.Debug(log.CatEditor, "Trigger stopped", "buffer", t.buf.ID())
}
