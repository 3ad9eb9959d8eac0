package editor

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/quill/internal/annotation"
	"github.com/zjrosen/quill/internal/highlight"
	"github.com/zjrosen/quill/internal/pubsub"
)

// manualClock fires AfterFunc callbacks synchronously from Advance.
type manualClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*manualTimer
}

type manualTimer struct {
	clock *manualClock
	at    time.Time
	f     func()
	done  bool
}

func newManualClock() *manualClock {
	return &manualClock{now: time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)}
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &manualTimer{clock: c, at: c.now.Add(d), f: f}
	c.timers = append(c.timers, t)
	return t
}

func (t *manualTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.done {
		return false
	}
	t.done = true
	return true
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	var due []*manualTimer
	for _, t := range c.timers {
		if !t.done && !t.at.After(c.now) {
			t.done = true
			due = append(due, t)
		}
	}
	c.mu.Unlock()

	for _, t := range due {
		t.f()
	}
}

func newTriggerFixture(t *testing.T, text string) (*Buffer, *Trigger, *manualClock, <-chan pubsub.Event[Highlighted]) {
	t.Helper()
	clock := newManualClock()
	buf := NewBuffer(text)
	hl := highlight.New(highlight.Markdown, highlight.DefaultOptions())
	trig := NewTrigger(context.Background(), buf, hl, TriggerConfig{Delay: 300 * time.Millisecond, Clock: clock})

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(func() {
		cancel()
		trig.Stop()
	})
	return buf, trig, clock, trig.Events().Subscribe(ctx)
}

func TestTrigger_DefaultDelay(t *testing.T) {
	trig := NewTrigger(context.Background(), NewBuffer(""), highlight.New(highlight.Plain, highlight.DefaultOptions()), TriggerConfig{})
	defer trig.Stop()
	assert.Equal(t, DefaultDelay, trig.Delay())
}

func TestTrigger_DebouncesToLatestEdit(t *testing.T) {
	buf, trig, clock, passes := newTriggerFixture(t, "")

	for i, s := range []string{"#", " ", "T"} {
		_, err := buf.Insert(i, s)
		require.NoError(t, err)
		clock.Advance(100 * time.Millisecond)
	}
	assert.Empty(t, passes, "no pass while edits keep arriving")
	assert.True(t, trig.Pending())

	clock.Advance(199 * time.Millisecond)
	assert.Empty(t, passes)

	clock.Advance(time.Millisecond)
	require.Len(t, passes, 1)
	event := <-passes
	assert.Equal(t, pubsub.HighlightedEvent, event.Type)
	assert.Equal(t, buf.ID(), event.Payload.BufferID)
	assert.False(t, trig.Pending())

	owned := buf.Annotations().Owned(highlight.DefaultOwner)
	require.NotEmpty(t, owned)
	assert.Equal(t, 0, owned[0].Start)
	assert.Equal(t, 3, owned[0].End)

	clock.Advance(time.Second)
	assert.Empty(t, passes, "a pass runs once per quiet period")
}

func TestTrigger_StaleTimerDoesNothing(t *testing.T) {
	buf, trig, _, passes := newTriggerFixture(t, "# a")

	_, err := buf.Insert(3, "b")
	require.NoError(t, err)
	_, err = buf.Insert(4, "c")
	require.NoError(t, err)

	trig.fire(1)
	assert.Empty(t, passes)
	assert.True(t, trig.Pending())
}

func TestTrigger_StopCancelsPendingPass(t *testing.T) {
	buf, trig, clock, passes := newTriggerFixture(t, "")

	_, err := buf.Insert(0, "# Title")
	require.NoError(t, err)
	trig.Stop()
	clock.Advance(time.Second)

	assert.Empty(t, passes)
	assert.Zero(t, buf.Annotations().Len())

	_, err = buf.Insert(0, "x")
	require.NoError(t, err)
	assert.False(t, trig.Pending(), "detached trigger ignores further edits")
	assert.Equal(t, highlight.Result{}, trig.RunNow())
}

func TestTrigger_GuardIgnoresOwnChanges(t *testing.T) {
	buf, trig, _, _ := newTriggerFixture(t, "text")

	trig.Guard(func() {
		_, err := buf.Insert(0, "# ")
		require.NoError(t, err)
	})
	assert.False(t, trig.Pending())

	_, err := buf.Insert(0, "x")
	require.NoError(t, err)
	assert.True(t, trig.Pending())
}

func TestTrigger_RunNow(t *testing.T) {
	buf, trig, _, passes := newTriggerFixture(t, "**bold**")

	res := trig.RunNow()
	require.NoError(t, res.Err)
	assert.Positive(t, res.Annotations)
	require.Len(t, passes, 1)
	assert.Len(t, buf.Annotations().Owned(highlight.DefaultOwner), res.Annotations)
}

func TestTrigger_EditDuringPassSchedulesAnotherPass(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	blocking := func(m highlight.Match) []highlight.Span {
		once.Do(func() {
			close(entered)
			<-release
		})
		return []highlight.Span{{Start: m.Start, End: m.End, Decoration: annotation.Bold()}}
	}

	clock := newManualClock()
	buf := NewBuffer("a")
	hl := highlight.New(highlight.Plain, highlight.DefaultOptions(),
		highlight.WithRegistry(highlight.NewRegistry(highlight.NewPattern("run", `a+`, 0, blocking))))
	trig := NewTrigger(context.Background(), buf, hl, TriggerConfig{Delay: 300 * time.Millisecond, Clock: clock})
	defer trig.Stop()

	done := make(chan highlight.Result, 1)
	go func() { done <- trig.RunNow() }()
	<-entered

	_, err := buf.Insert(1, "a")
	require.NoError(t, err)
	assert.True(t, trig.Pending(), "an edit made while a pass runs is not dropped")

	close(release)
	require.NoError(t, (<-done).Err)

	clock.Advance(300 * time.Millisecond)
	assert.False(t, trig.Pending())
	owned := buf.Annotations().Owned(highlight.DefaultOwner)
	require.Len(t, owned, 1)
	assert.Equal(t, 0, owned[0].Start)
	assert.Equal(t, 2, owned[0].End)
}
