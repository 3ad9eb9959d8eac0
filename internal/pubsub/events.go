// Package pubsub provides a generic publish/subscribe event system.
package pubsub

import (
	"context"
	"time"
)

// EventType represents the type of event being published.
type EventType string

const (
	// LoggedEvent carries a formatted log line.
	LoggedEvent EventType = "logged"
	// ChangedEvent carries a buffer edit.
	ChangedEvent EventType = "changed"
	// HighlightedEvent is published after a highlight pass replaced a
	// buffer's annotations.
	HighlightedEvent EventType = "highlighted"
	// DetachedEvent is published when a buffer is torn down.
	DetachedEvent EventType = "detached"
)

// Event represents a published event with a typed payload.
type Event[T any] struct {
	Type      EventType
	Payload   T
	Timestamp time.Time
}

// Subscriber provides a subscription channel for events, optionally
// restricted to some event types.
type Subscriber[T any] interface {
	Subscribe(ctx context.Context, types ...EventType) <-chan Event[T]
}

// Publisher allows publishing events with a typed payload.
type Publisher[T any] interface {
	Publish(eventType EventType, payload T) int
}
