// Package testutil builds todo.txt documents for tests.
package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/quill/internal/todotxt"
)

// Builder accumulates task lines and renders them as a todo.txt document.
type Builder struct {
	t     *testing.T
	lines []string
}

// NewBuilder creates an empty document builder.
func NewBuilder(t *testing.T) *Builder {
	t.Helper()
	return &Builder{t: t}
}

// WithTask adds a task with optional configuration.
func (b *Builder) WithTask(description string, opts ...TaskOption) *Builder {
	task := defaultTask(description)
	for _, opt := range opts {
		opt(&task)
	}
	b.lines = append(b.lines, task.line())
	return b
}

// WithLine adds a raw line as-is, for malformed or blank input.
func (b *Builder) WithLine(line string) *Builder {
	b.lines = append(b.lines, line)
	return b
}

// Lines returns the document lines in insertion order.
func (b *Builder) Lines() []string {
	return append([]string(nil), b.lines...)
}

// Build returns the document, one line per task and a trailing newline.
func (b *Builder) Build() string {
	if len(b.lines) == 0 {
		return ""
	}
	return strings.Join(b.lines, "\n") + "\n"
}

// Tasks parses every line of the document.
func (b *Builder) Tasks() []todotxt.Task {
	tasks := make([]todotxt.Task, 0, len(b.lines))
	for _, l := range b.lines {
		tasks = append(tasks, todotxt.Parse(l))
	}
	return tasks
}

// WriteFile writes the document to name inside a test temp dir and returns
// its path.
func (b *Builder) WriteFile(name string) string {
	b.t.Helper()
	path := filepath.Join(b.t.TempDir(), name)
	require.NoError(b.t, os.WriteFile(path, []byte(b.Build()), 0o644))
	return path
}
