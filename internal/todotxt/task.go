// Package todotxt parses todo.txt task lines into structured tasks, rebuilds
// lines from tasks and edits tasks inside a larger document.
package todotxt

import (
	"slices"
	"strings"
	"time"

	"github.com/dlclark/regexp2"
)

// DateLayout is the todo.txt date format.
const DateLayout = "2006-01-02"

// Expressions shared with the todo.txt highlighter. Dates only match valid
// month and day ranges, so "2017-13-45" stays part of the description.
const (
	ExprDate       = `\d{4}-(?:0[1-9]|1[0-2])-(?:0[1-9]|[12]\d|3[01])`
	ExprProject    = `\B(?:\++)(\S+)`
	ExprContext    = `\B(?:@+)(\S+)`
	ExprDone       = `(?m)(^[Xx]) (.*)$`
	ExprPriority   = `(?m)^\(([A-Za-z])\)\s`
	ExprKeyValue   = `(?i)((?:[a-z]+):(?:[a-z0-9_-]+))`
	ExprDue        = `(?:due:)(` + ExprDate + `)`
	ExprCreation   = `(?m)^(?:\([A-Za-z]\)\s+)?(?:[Xx]\s+` + ExprDate + `\s+)?(` + ExprDate + `)`
	exprLinePrefix = `^(?:(?<done>[Xx])(?:\s+|$)(?:(?<completion>` + ExprDate + `)(?:\s+|$)(?:(?<creation>` + ExprDate + `)(?:\s+|$))?)?` +
		`|\((?<priority>[A-Za-z])\)(?:\s+|$)(?:(?<creation>` + ExprDate + `)(?:\s+|$))?` +
		`|(?<creation>` + ExprDate + `)(?:\s+|$))?(?<description>.*)$`
)

var (
	rxProject  = mustCompile(ExprProject)
	rxContext  = mustCompile(ExprContext)
	rxKeyValue = mustCompile(ExprKeyValue)
	rxDue      = mustCompile(ExprDue)
	rxPrefix   = mustCompile(exprLinePrefix)
)

func mustCompile(expr string) *regexp2.Regexp {
	re := regexp2.MustCompile(expr, regexp2.None)
	re.MatchTimeout = 250 * time.Millisecond
	return re
}

// NoPriority is the zero priority.
const NoPriority rune = 0

// Task is one parsed todo.txt line.
type Task struct {
	Line           string
	Description    string
	Projects       []string
	Contexts       []string
	Priority       rune
	Done           bool
	CreationDate   string
	CompletionDate string
	DueDate        string
	Tags           map[string]string

	// LineOffset is the rune offset of the line inside the document it was
	// parsed from, CursorOffset the cursor relative to the line start.
	LineOffset   int
	CursorOffset int
}

// Parse reads a single task line. Parse never fails: parts that do not match
// their expected shape stay in the description.
func Parse(line string) Task {
	line = strings.TrimRight(line, "\r\n")
	t := Task{Line: line, Tags: map[string]string{}}

	if m, err := rxPrefix.FindStringMatch(line); err == nil && m != nil {
		t.Done = m.GroupByName("done").Length > 0
		t.CompletionDate = m.GroupByName("completion").String()
		t.CreationDate = m.GroupByName("creation").String()
		if p := m.GroupByName("priority").String(); p != "" {
			t.Priority = []rune(strings.ToUpper(p))[0]
		}
		t.Description = m.GroupByName("description").String()
	} else {
		t.Description = line
	}

	t.Projects = uniqueGroups(rxProject, line)
	t.Contexts = uniqueGroups(rxContext, line)
	for _, kv := range uniqueGroups(rxKeyValue, line) {
		key, value, _ := strings.Cut(kv, ":")
		key = strings.ToLower(key)
		if _, seen := t.Tags[key]; !seen {
			t.Tags[key] = value
		}
	}
	if due := firstGroup(rxDue, line); due != "" {
		t.DueDate = due
	}
	return t
}

// HasPriority reports whether the task carries a priority marker.
func (t Task) HasPriority() bool {
	return t.Priority != NoPriority
}

// PriorityString returns the priority letter or "".
func (t Task) PriorityString() string {
	if !t.HasPriority() {
		return ""
	}
	return string(t.Priority)
}

// HasProject reports whether name (without "+") is one of the projects.
func (t Task) HasProject(name string) bool {
	return slices.Contains(t.Projects, strings.TrimLeft(name, "+"))
}

// HasContext reports whether name (without "@") is one of the contexts.
func (t Task) HasContext(name string) bool {
	return slices.Contains(t.Contexts, strings.TrimLeft(name, "@"))
}

// SetDone marks the task done or open. Marking a task done stamps the
// completion date with now; reopening clears it.
func (t *Task) SetDone(done bool, now time.Time) {
	t.Done = done
	if done {
		t.CompletionDate = now.Format(DateLayout)
	} else {
		t.CompletionDate = ""
	}
	t.Line = t.Regenerate(now)
}

// Regenerate rebuilds the canonical line for the task. A done task drops its
// priority marker, as todo.txt has no place for it after the completion date.
func (t Task) Regenerate(now time.Time) string {
	var parts []string
	if t.Done {
		parts = append(parts, "x")
		completion := t.CompletionDate
		if completion == "" && t.CreationDate != "" {
			completion = now.Format(DateLayout)
		}
		if completion != "" {
			parts = append(parts, completion)
		}
	} else if t.HasPriority() {
		parts = append(parts, "("+string(t.Priority)+")")
	}
	if t.CreationDate != "" {
		parts = append(parts, t.CreationDate)
	}
	if desc := strings.TrimSpace(t.Description); desc != "" {
		parts = append(parts, desc)
	}
	return strings.Join(parts, " ")
}

// String returns the regenerated line using the current date.
func (t Task) String() string {
	return t.Regenerate(time.Now())
}

func uniqueGroups(re *regexp2.Regexp, text string) []string {
	var out []string
	m, err := re.FindStringMatch(text)
	for m != nil && err == nil {
		if g := m.GroupByNumber(1); g != nil && g.Length > 0 {
			v := g.String()
			if !slices.Contains(out, v) {
				out = append(out, v)
			}
		}
		m, err = re.FindNextMatch(m)
	}
	return out
}

func firstGroup(re *regexp2.Regexp, text string) string {
	m, err := re.FindStringMatch(text)
	if err != nil || m == nil {
		return ""
	}
	if g := m.GroupByNumber(1); g != nil {
		return g.String()
	}
	return ""
}
