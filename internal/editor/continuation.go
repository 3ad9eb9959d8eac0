package editor

import (
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/dlclark/regexp2"

	"github.com/zjrosen/quill/internal/log"
)

// Policy controls when a newline continues a list.
type Policy struct {
	// RequireSpaceAfterMarker only treats "-", "1." and the like as list
	// markers when a space follows them.
	RequireSpaceAfterMarker bool
	// ContinueEmptyItems continues a list from an item without content.
	// When false, a newline on such an item removes the marker instead,
	// ending the list.
	ContinueEmptyItems bool
	ContinueNumbered   bool
	ContinueChecklists bool
}

// DefaultPolicy returns the policy used when nothing is configured.
func DefaultPolicy() Policy {
	return Policy{
		RequireSpaceAfterMarker: true,
		ContinueNumbered:        true,
		ContinueChecklists:      true,
	}
}

type itemKind int

const (
	bulletItem itemKind = iota
	checkboxItem
	orderedItem
)

// listItem is the marker found at the start of a line.
type listItem struct {
	kind    itemKind
	indent  string
	marker  string // "-", "*", "+", digits or a single letter
	delim   string // "." or ")" for ordered items
	content string
}

const (
	exprChecklist = `^([ \t]*)([-*+]) \[[ xX]\]`
	exprBullet    = `^([ \t]*)([-*+])`
	exprOrdered   = `^([ \t]*)(\d{1,9}|[A-Za-z])([.)])`
)

type markerSet struct {
	checklist, bullet, ordered *regexp2.Regexp
}

var (
	strictMarkers = compileMarkers(`[ \t]`)
	looseMarkers  = compileMarkers(`[ \t]?`)
)

func compileMarkers(sep string) markerSet {
	compile := func(expr string) *regexp2.Regexp {
		re := regexp2.MustCompile(expr+sep, regexp2.None)
		re.MatchTimeout = 250 * time.Millisecond
		return re
	}
	return markerSet{
		checklist: compile(exprChecklist),
		bullet:    compile(exprBullet),
		ordered:   compile(exprOrdered),
	}
}

func (p Policy) markers() markerSet {
	if p.RequireSpaceAfterMarker {
		return strictMarkers
	}
	return looseMarkers
}

// parseItem recognises the list marker at the start of line.
func (p Policy) parseItem(line string) (listItem, bool) {
	set := p.markers()
	runes := []rune(line)
	for _, kind := range []itemKind{checkboxItem, orderedItem, bulletItem} {
		var re *regexp2.Regexp
		switch kind {
		case checkboxItem:
			re = set.checklist
		case orderedItem:
			re = set.ordered
		default:
			re = set.bullet
		}
		m, err := re.FindStringMatch(line)
		if err != nil || m == nil {
			continue
		}
		groups := m.Groups()
		item := listItem{
			kind:    kind,
			indent:  groups[1].String(),
			marker:  groups[2].String(),
			content: string(runes[m.Index+m.Length:]),
		}
		if kind == orderedItem {
			item.delim = groups[3].String()
		}
		return item, true
	}
	return listItem{}, false
}

// empty reports whether the item carries no content after its marker.
func (i listItem) empty() bool {
	return strings.TrimSpace(i.content) == ""
}

// nextMarker returns the marker of the item following i, including the
// separating space.
func (i listItem) nextMarker() string {
	switch i.kind {
	case checkboxItem:
		return i.marker + " [ ] "
	case orderedItem:
		return nextOrdinal(i.marker) + i.delim + " "
	default:
		return i.marker + " "
	}
}

// nextOrdinal increments a numeric marker and advances a letter, wrapping
// from z to a.
func nextOrdinal(value string) string {
	if n, err := strconv.Atoi(value); err == nil {
		return strconv.Itoa(n + 1)
	}
	if len(value) != 1 {
		return value
	}
	switch c := value[0]; {
	case c == 'z':
		return "a"
	case c == 'Z':
		return "A"
	default:
		return string(c + 1)
	}
}

// lineBefore returns the rune offset where the line holding cursor starts
// and the text between that offset and the cursor.
func lineBefore(runes []rune, cursor int) (int, string) {
	start := cursor
	for start > 0 && runes[start-1] != '\n' {
		start--
	}
	return start, string(runes[start:cursor])
}

// Continue decides what a newline typed at cursor should insert. When the
// text before the cursor starts with a list marker, the result repeats the
// indentation and the next marker after the newline. The second result is
// false when the insertion should be left alone: anything other than a
// single "\n", a cursor at the start of the buffer, a line without a
// marker, or a marker kind the policy does not continue.
func (p Policy) Continue(text string, cursor int, inserted string) (string, bool) {
	if inserted != "\n" {
		return "", false
	}
	runes := []rune(text)
	if cursor <= 0 || cursor > len(runes) {
		return "", false
	}
	_, line := lineBefore(runes, cursor)
	item, ok := p.parseItem(line)
	if !ok {
		return "", false
	}
	switch {
	case item.kind == orderedItem && !p.ContinueNumbered:
		return "", false
	case item.kind == checkboxItem && !p.ContinueChecklists:
		return "", false
	case item.empty() && !p.ContinueEmptyItems:
		return "", false
	}
	return "\n" + item.indent + item.nextMarker(), true
}

// Continue applies DefaultPolicy.
func Continue(text string, cursor int, inserted string) (string, bool) {
	return DefaultPolicy().Continue(text, cursor, inserted)
}

// Filter is an InputFilter that continues lists on newline insertions. A
// newline on an empty item clears that line instead when the policy does
// not continue empty items.
func (p Policy) Filter(text string, c Change) Change {
	if c.OldLen != 0 || c.Text != "\n" {
		return c
	}
	if s, ok := p.Continue(text, c.Offset, c.Text); ok {
		log.Debug(log.CatEditor, "Continuing list", "offset", c.Offset, "insert", s)
		c.Text = s
		return c
	}
	if p.ContinueEmptyItems || c.Offset <= 0 {
		return c
	}
	runes := []rune(text)
	if c.Offset > len(runes) {
		return c
	}
	start, line := lineBefore(runes, c.Offset)
	if item, ok := p.parseItem(line); ok && item.empty() {
		log.Debug(log.CatEditor, "Ending list on empty item", "offset", start)
		return Change{Offset: start, OldLen: c.Offset - start}
	}
	return c
}

// AutoFormat wires list continuation and ordered-list renumbering into a
// buffer.
type AutoFormat struct {
	Policy   Policy
	Renumber bool

	applying atomic.Bool
}

// Attach installs the input filter and, when Renumber is set, an observer
// that renumbers the ordered list around every edit. The returned function
// detaches both.
func (a *AutoFormat) Attach(buf *Buffer) func() {
	removeFilter := buf.AddFilter(a.Policy.Filter)
	if !a.Renumber {
		return removeFilter
	}
	unobserve := buf.Observe(func(c Change) {
		if a.applying.Load() {
			return
		}
		text := buf.Text()
		renumbered, _ := RenumberOrderedList(text, c.Offset+c.NewLen)
		if renumbered == text {
			return
		}
		a.applying.Store(true)
		defer a.applying.Store(false)
		if _, err := buf.Replace(renumbered); err != nil {
			log.ErrorErr(log.CatEditor, "Renumbering failed", err, "buffer", buf.ID())
		}
	})
	return func() {
		removeFilter()
		unobserve()
	}
}
