package pubsub

import "context"

// Listener wraps a broker subscription for callers that pull events one
// at a time instead of ranging over the channel.
type Listener[T any] struct {
	ctx context.Context
	ch  <-chan Event[T]
}

// NewListener subscribes to source for the given event types, or to every
// event when none is given. The subscription is released when ctx is
// cancelled.
func NewListener[T any](ctx context.Context, source Subscriber[T], types ...EventType) *Listener[T] {
	return &Listener[T]{
		ctx: ctx,
		ch:  source.Subscribe(ctx, types...),
	}
}

// Next blocks until an event arrives. It returns false once the context is
// cancelled or the broker is closed.
func (l *Listener[T]) Next() (Event[T], bool) {
	select {
	case <-l.ctx.Done():
		return Event[T]{}, false
	case event, ok := <-l.ch:
		return event, ok
	}
}

// Each calls fn for every event until the listener is exhausted or fn
// returns false.
func (l *Listener[T]) Each(fn func(Event[T]) bool) {
	for {
		event, ok := l.Next()
		if !ok || !fn(event) {
			return
		}
	}
}
