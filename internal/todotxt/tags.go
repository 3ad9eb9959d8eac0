package todotxt

import (
	"strings"
	"unicode"
)

// InsertProject inserts "+name" into the task line at rune offset at and
// re-parses the task. Offsets below zero insert at the start, offsets past
// the end append. A project the task already has is not inserted twice.
func InsertProject(t Task, name string, at int) Task {
	name = strings.TrimLeft(strings.TrimSpace(name), "+")
	if name == "" || t.HasProject(name) {
		return t
	}
	return insertTag(t, "+"+name, at)
}

// InsertContext inserts "@name" the same way InsertProject inserts projects.
func InsertContext(t Task, name string, at int) Task {
	name = strings.TrimLeft(strings.TrimSpace(name), "@")
	if name == "" || t.HasContext(name) {
		return t
	}
	return insertTag(t, "@"+name, at)
}

func insertTag(t Task, tag string, at int) Task {
	runes := []rune(t.Line)
	var left, right string
	switch {
	case at >= len(runes):
		left = t.Line
	case at < 0:
		right = t.Line
	default:
		left, right = string(runes[:at]), string(runes[at:])
	}

	if left != "" && !endsWithSpace(left) {
		left += " "
	}
	if right != "" && !startsWithSpace(right) {
		right = " " + right
	}

	parsed := Parse(left + tag + right)
	parsed.LineOffset = t.LineOffset
	parsed.CursorOffset = t.CursorOffset
	return parsed
}

func endsWithSpace(s string) bool {
	r := []rune(s)
	return unicode.IsSpace(r[len(r)-1])
}

func startsWithSpace(s string) bool {
	for _, r := range s {
		return unicode.IsSpace(r)
	}
	return false
}
