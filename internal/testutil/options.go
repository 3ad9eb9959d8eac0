package testutil

import (
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/zjrosen/quill/internal/todotxt"
)

// taskData holds the fields of a task line before rendering.
type taskData struct {
	description string
	priority    rune
	done        bool
	completed   string
	created     string
	due         string
	projects    []string
	contexts    []string
	tags        map[string]string
}

func defaultTask(description string) taskData {
	return taskData{description: description}
}

// line renders the task in canonical todo.txt order.
func (d taskData) line() string {
	var parts []string
	if d.done {
		parts = append(parts, "x")
		if d.completed != "" {
			parts = append(parts, d.completed)
		}
	} else if d.priority != 0 {
		parts = append(parts, "("+string(d.priority)+")")
	}
	if d.created != "" {
		parts = append(parts, d.created)
	}
	parts = append(parts, d.description)
	for _, p := range d.projects {
		parts = append(parts, "+"+p)
	}
	for _, c := range d.contexts {
		parts = append(parts, "@"+c)
	}
	if d.due != "" {
		parts = append(parts, "due:"+d.due)
	}
	for _, k := range slices.Sorted(maps.Keys(d.tags)) {
		parts = append(parts, k+":"+d.tags[k])
	}
	return strings.Join(parts, " ")
}

// TaskOption configures a task during builder setup.
type TaskOption func(*taskData)

func date(t time.Time) string { return t.Format(todotxt.DateLayout) }

// Priority sets the (A)-(Z) priority.
func Priority(p rune) TaskOption {
	return func(d *taskData) { d.priority = p }
}

// Done marks the task complete on the given day.
func Done(on time.Time) TaskOption {
	return func(d *taskData) {
		d.done = true
		d.completed = date(on)
	}
}

// Created sets the creation date.
func Created(on time.Time) TaskOption {
	return func(d *taskData) { d.created = date(on) }
}

// Due sets the due:YYYY-MM-DD tag.
func Due(on time.Time) TaskOption {
	return func(d *taskData) { d.due = date(on) }
}

// Projects appends +project tags.
func Projects(names ...string) TaskOption {
	return func(d *taskData) { d.projects = append(d.projects, names...) }
}

// Contexts appends @context tags.
func Contexts(names ...string) TaskOption {
	return func(d *taskData) { d.contexts = append(d.contexts, names...) }
}

// Tag adds a key:value tag.
func Tag(key, value string) TaskOption {
	return func(d *taskData) {
		if d.tags == nil {
			d.tags = map[string]string{}
		}
		d.tags[key] = value
	}
}
