// Package editor holds the in-memory text buffer and the machinery that
// reacts to its edits: the debounced highlight trigger and the list
// auto-continuation filter.
package editor

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/zjrosen/quill/internal/annotation"
	"github.com/zjrosen/quill/internal/log"
	"github.com/zjrosen/quill/internal/pubsub"
)

// ErrOutOfRange is returned when a change addresses runes outside the
// buffer.
var ErrOutOfRange = errors.New("change out of range")

// Change replaces OldLen runes at Offset with Text, which is NewLen runes
// long. Offsets count runes, not bytes.
type Change struct {
	Offset int
	OldLen int
	NewLen int
	Text   string
}

// Insertion reports whether the change only inserts text.
func (c Change) Insertion() bool {
	return c.OldLen == 0 && c.NewLen > 0
}

// InputFilter may rewrite a change before it is applied. text is the
// buffer content the change will be applied to.
type InputFilter func(text string, c Change) Change

// Buffer is a mutable text buffer with an annotation layer. Every applied
// change is passed to the registered observers and published on Events.
type Buffer struct {
	id string

	mu   sync.RWMutex
	text []rune
	anns *annotation.Set

	obsMu     sync.Mutex
	observers map[int]func(Change)
	filters   map[int]InputFilter
	nextID    int

	events *pubsub.Broker[Change]
}

// NewBuffer creates a buffer holding text.
func NewBuffer(text string) *Buffer {
	return &Buffer{
		id:        uuid.New().String(),
		text:      []rune(text),
		anns:      annotation.NewSet(),
		observers: make(map[int]func(Change)),
		filters:   make(map[int]InputFilter),
		events:    pubsub.NewBroker[Change](),
	}
}

// ID returns the buffer's unique identifier.
func (b *Buffer) ID() string { return b.id }

// Text returns the current content.
func (b *Buffer) Text() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return string(b.text)
}

// Len returns the content length in runes.
func (b *Buffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.text)
}

// Annotations returns the buffer's annotation layer.
func (b *Buffer) Annotations() *annotation.Set { return b.anns }

// Events subscribes to the buffer's events: a ChangedEvent per applied change
// and a DetachedEvent on Close.
func (b *Buffer) Events() pubsub.Subscriber[Change] { return b.events }

// Observe registers fn to be called synchronously after every applied
// change. The returned function removes the observer.
func (b *Buffer) Observe(fn func(Change)) func() {
	b.obsMu.Lock()
	defer b.obsMu.Unlock()
	id := b.nextID
	b.nextID++
	b.observers[id] = fn
	return func() {
		b.obsMu.Lock()
		defer b.obsMu.Unlock()
		delete(b.observers, id)
	}
}

// AddFilter registers an input filter. Filters run in registration order.
// The returned function removes the filter.
func (b *Buffer) AddFilter(f InputFilter) func() {
	b.obsMu.Lock()
	defer b.obsMu.Unlock()
	id := b.nextID
	b.nextID++
	b.filters[id] = f
	return func() {
		b.obsMu.Lock()
		defer b.obsMu.Unlock()
		delete(b.filters, id)
	}
}

// Apply runs the input filters over c, applies the result and notifies
// observers. It returns the change that was actually applied.
func (b *Buffer) Apply(c Change) (Change, error) {
	b.obsMu.Lock()
	filters := inOrder(b.filters)
	b.obsMu.Unlock()

	if len(filters) > 0 {
		text := b.Text()
		for _, f := range filters {
			c = f(text, c)
		}
	}
	return b.apply(c)
}

// ApplyRaw applies c without running the input filters.
func (b *Buffer) ApplyRaw(c Change) (Change, error) {
	return b.apply(c)
}

func (b *Buffer) apply(c Change) (Change, error) {
	c.NewLen = utf8.RuneCountInString(c.Text)

	b.mu.Lock()
	if c.Offset < 0 || c.OldLen < 0 || c.Offset+c.OldLen > len(b.text) {
		n := len(b.text)
		b.mu.Unlock()
		return c, fmt.Errorf("%w: offset %d length %d in buffer of %d runes", ErrOutOfRange, c.Offset, c.OldLen, n)
	}
	if c.OldLen == 0 && c.NewLen == 0 {
		b.mu.Unlock()
		return c, nil
	}
	next := make([]rune, 0, len(b.text)-c.OldLen+c.NewLen)
	next = append(next, b.text[:c.Offset]...)
	next = append(next, []rune(c.Text)...)
	next = append(next, b.text[c.Offset+c.OldLen:]...)
	b.text = next
	b.mu.Unlock()

	b.anns.Shift(c.Offset, c.OldLen, c.NewLen)
	log.Debug(log.CatEditor, "Applied change", "buffer", b.id, "offset", c.Offset, "old", c.OldLen, "new", c.NewLen)

	b.notify(c)
	return c, nil
}

func (b *Buffer) notify(c Change) {
	b.obsMu.Lock()
	fns := inOrder(b.observers)
	b.obsMu.Unlock()

	for _, fn := range fns {
		fn(c)
	}
	b.events.Publish(pubsub.ChangedEvent, c)
}

// Insert inserts s at offset.
func (b *Buffer) Insert(offset int, s string) (Change, error) {
	return b.Apply(Change{Offset: offset, Text: s})
}

// Delete removes n runes starting at offset.
func (b *Buffer) Delete(offset, n int) (Change, error) {
	return b.Apply(Change{Offset: offset, OldLen: n})
}

// SetText replaces the whole content with a single change.
func (b *Buffer) SetText(s string) (Change, error) {
	return b.ApplyRaw(Change{OldLen: b.Len(), Text: s})
}

// Replace moves the buffer to s by applying the minimal set of changes
// between the current content and s. Annotations outside the edited
// regions keep their positions.
func (b *Buffer) Replace(s string) ([]Change, error) {
	changes := DiffChanges(b.Text(), s)
	for i, c := range changes {
		if _, err := b.ApplyRaw(c); err != nil {
			return changes[:i], err
		}
	}
	return changes, nil
}

// Close publishes a DetachedEvent and closes the event broker.
func (b *Buffer) Close() {
	b.events.Publish(pubsub.DetachedEvent, Change{})
	b.events.Close()
}

// inOrder returns the values of m ordered by registration id.
func inOrder[F any](m map[int]F) []F {
	ids := make([]int, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	out := make([]F, 0, len(ids))
	for _, id := range ids {
		out = append(out, m[id])
	}
	return out
}
