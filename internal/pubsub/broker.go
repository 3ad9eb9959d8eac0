package pubsub

import (
	"context"
	"slices"
	"sync"
	"time"
)

const defaultBufferSize = 64

// Broker fans events out to any number of subscribers. Buffer and
// highlighter events flow through it to renderers, and the logger mirrors
// every line onto one so that a live view can tail it.
type Broker[T any] struct {
	mu         sync.RWMutex
	subs       map[*subscription[T]]struct{}
	closed     bool
	bufferSize int
	now        func() time.Time
}

// subscription is one subscriber channel and the event types it accepts.
// An empty filter accepts every type.
type subscription[T any] struct {
	ch     chan Event[T]
	filter []EventType
	stop   func() bool
}

func (s *subscription[T]) accepts(t EventType) bool {
	return len(s.filter) == 0 || slices.Contains(s.filter, t)
}

var (
	_ Publisher[string]  = (*Broker[string])(nil)
	_ Subscriber[string] = (*Broker[string])(nil)
)

// NewBroker creates a new broker with the default buffer size (64).
func NewBroker[T any]() *Broker[T] {
	return NewBrokerWithBuffer[T](defaultBufferSize)
}

// NewBrokerWithBuffer creates a new broker whose subscriber channels hold
// size events.
func NewBrokerWithBuffer[T any](size int) *Broker[T] {
	return &Broker[T]{
		subs:       make(map[*subscription[T]]struct{}),
		bufferSize: max(size, 0),
		now:        time.Now,
	}
}

// Subscribe returns a channel receiving the events of the given types, or
// every event when no type is given. The channel is closed when ctx is
// cancelled or the broker is closed.
func (b *Broker[T]) Subscribe(ctx context.Context, types ...EventType) <-chan Event[T] {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		ch := make(chan Event[T])
		close(ch)
		return ch
	}

	sub := &subscription[T]{ch: make(chan Event[T], b.bufferSize), filter: types}
	b.subs[sub] = struct{}{}

	sub.stop = context.AfterFunc(ctx, func() { b.unsubscribe(sub) })
	return sub.ch
}

func (b *Broker[T]) unsubscribe(sub *subscription[T]) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.subs[sub]; !ok {
		return
	}
	delete(b.subs, sub)
	close(sub.ch)
}

// Publish sends an event to every subscriber accepting its type and
// returns how many received it. A subscriber whose channel is full misses
// the event; Publish never blocks.
func (b *Broker[T]) Publish(eventType EventType, payload T) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return 0
	}

	event := Event[T]{Type: eventType, Payload: payload, Timestamp: b.now()}
	delivered := 0
	for sub := range b.subs {
		if !sub.accepts(eventType) {
			continue
		}
		select {
		case sub.ch <- event:
			delivered++
		default:
		}
	}
	return delivered
}

// Close closes every subscriber channel. Later publishes are dropped and
// later subscriptions receive a closed channel. Close is idempotent.
func (b *Broker[T]) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for sub := range b.subs {
		sub.stop()
		close(sub.ch)
	}
	clear(b.subs)
}

// SubscriberCount returns the number of active subscribers.
func (b *Broker[T]) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
