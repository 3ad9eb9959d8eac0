package annotation

import (
	"slices"
	"sync"
)

// Owner names the subsystem that created an annotation. A highlighter only
// ever clears annotations carrying its own owner.
type Owner string

// Annotation decorates the half-open rune range [Start, End) of a buffer.
type Annotation struct {
	Start      int
	End        int
	Decoration Decoration
	Owner      Owner
}

// Len returns the number of runes covered.
func (a Annotation) Len() int { return a.End - a.Start }

// Contains reports whether offset falls inside the range.
func (a Annotation) Contains(offset int) bool {
	return offset >= a.Start && offset < a.End
}

// Valid reports whether the range is non-empty and non-negative.
func (a Annotation) Valid() bool {
	return a.Start >= 0 && a.End > a.Start
}

// Set is the annotation layer of a single buffer. Annotations keep their
// insertion order so that later passes render on top of earlier ones.
type Set struct {
	mu    sync.RWMutex
	items []Annotation
}

// NewSet creates an empty set.
func NewSet() *Set {
	return &Set{}
}

// Add appends annotations, silently dropping empty or negative ranges.
func (s *Set) Add(anns ...Annotation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range anns {
		if a.Valid() {
			s.items = append(s.items, a)
		}
	}
}

// ClearOwner removes every annotation created by owner and returns how
// many were removed.
func (s *Set) ClearOwner(owner Owner) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	before := len(s.items)
	s.items = slices.DeleteFunc(s.items, func(a Annotation) bool {
		return a.Owner == owner
	})
	return before - len(s.items)
}

// All returns a copy of the annotations in insertion order.
func (s *Set) All() []Annotation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.items)
}

// Owned returns a copy of the annotations created by owner.
func (s *Set) Owned(owner Owner) []Annotation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Annotation
	for _, a := range s.items {
		if a.Owner == owner {
			out = append(out, a)
		}
	}
	return out
}

// At returns the annotations covering offset.
func (s *Set) At(offset int) []Annotation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Annotation
	for _, a := range s.items {
		if a.Contains(offset) {
			out = append(out, a)
		}
	}
	return out
}

// Len returns the number of annotations.
func (s *Set) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Shift keeps annotations attached to their text after oldLen runes at
// offset were replaced by newLen runes. Ranges swallowed by the edit are
// dropped. Results are approximate until the next highlight pass.
func (s *Set) Shift(offset, oldLen, newLen int) {
	if oldLen == 0 && newLen == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	delta := newLen - oldLen
	editEnd := offset + oldLen
	kept := s.items[:0]
	for _, a := range s.items {
		switch {
		case a.Start < offset:
		case a.Start >= editEnd:
			a.Start += delta
		default:
			a.Start = offset + newLen
		}
		switch {
		case a.End <= offset:
		case a.End >= editEnd:
			a.End += delta
		default:
			a.End = offset
		}
		if a.Valid() {
			kept = append(kept, a)
		}
	}
	s.items = kept
}
