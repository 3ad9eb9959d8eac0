package query

import (
	"slices"
	"strings"
	"time"

	"github.com/zjrosen/quill/internal/todotxt"
)

// KeyKind selects which task attribute Keys groups by.
type KeyKind string

const (
	KindProject  KeyKind = "project"
	KindContext  KeyKind = "context"
	KindPriority KeyKind = "priority"
	KindDue      KeyKind = "due"
)

// NoneKey is the key under which tasks lacking the attribute are counted.
const NoneKey = "-"

// Key is one distinct attribute value with the number of tasks carrying it.
type Key struct {
	Value string
	Count int
	// Query selects the tasks counted under this key.
	Query string
}

// Keys counts the distinct values of kind across tasks, sorted by value with
// the NoneKey bucket last. Due keys are the due states overdue, today and
// future relative to now.
func Keys(tasks []todotxt.Task, kind KeyKind, now time.Time) []Key {
	counts := map[string]int{}
	for _, t := range tasks {
		values := keyValues(t, kind, now)
		if len(values) == 0 {
			counts[NoneKey]++
			continue
		}
		for _, v := range values {
			counts[v]++
		}
	}

	values := make([]string, 0, len(counts))
	for v := range counts {
		if v != NoneKey {
			values = append(values, v)
		}
	}
	slices.Sort(values)
	if counts[NoneKey] > 0 {
		values = append(values, NoneKey)
	}

	out := make([]Key, 0, len(values))
	for _, v := range values {
		out = append(out, Key{Value: v, Count: counts[v], Query: elementFor(kind, v)})
	}
	return out
}

func keyValues(t todotxt.Task, kind KeyKind, now time.Time) []string {
	switch kind {
	case KindProject:
		return t.Projects
	case KindContext:
		return t.Contexts
	case KindPriority:
		if t.HasPriority() {
			return []string{t.PriorityString()}
		}
	case KindDue:
		if s := t.DueState(now); s != todotxt.DueNone {
			return []string{s.String()}
		}
	}
	return nil
}

// elementFor returns the predicate selecting tasks with value, or lacking
// the attribute for NoneKey.
func elementFor(kind KeyKind, value string) string {
	if value == NoneKey || value == "" {
		switch kind {
		case KindProject:
			return "noproject"
		case KindContext:
			return "nocontext"
		case KindPriority:
			return "nopriority"
		case KindDue:
			return "nodue"
		}
		return ""
	}
	switch kind {
	case KindProject:
		return "+" + strings.TrimLeft(value, "+")
	case KindContext:
		return "@" + strings.TrimLeft(value, "@")
	case KindPriority:
		return "pri:" + value
	}
	return value
}

// MakeQuery joins the predicates for values of kind with "and" or "or" and
// restricts the result to open tasks. Empty values and NoneKey select tasks
// without the attribute.
func MakeQuery(kind KeyKind, values []string, and bool) string {
	elements := make([]string, 0, len(values))
	for _, v := range values {
		if el := elementFor(kind, v); el != "" {
			elements = append(elements, el)
		}
	}
	if len(elements) == 0 {
		return "!done"
	}
	op := " | "
	if and {
		op = " & "
	}
	return "(" + strings.Join(elements, op) + ") & !done"
}
