package editor

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// nestSlack is the indentation difference, in runes, at which a line
// becomes a child of the item above it.
const nestSlack = 2

type listLevel struct {
	indent int
	delim  string
	alpha  bool
	next   string
}

func (l listLevel) matches(item listItem) bool {
	return l.delim == item.delim && l.alpha == isAlpha(item.marker)
}

func isAlpha(marker string) bool {
	r, _ := utf8.DecodeRuneInString(marker)
	return unicode.IsLetter(r)
}

func indentWidth(line string) int {
	n := 0
	for _, r := range line {
		if r != ' ' && r != '\t' {
			break
		}
		n++
	}
	return n
}

func blank(line string) bool {
	return strings.TrimSpace(line) == ""
}

// RenumberOrderedList renumbers the ordered list around cursor so that each
// nesting level counts up from its first item. Lists whose delimiter or
// marker style changes restart at the new item's value. It returns the new
// text and the cursor moved past any digits inserted before it.
func RenumberOrderedList(text string, cursor int) (string, int) {
	p := Policy{RequireSpaceAfterMarker: true}
	lines := strings.Split(text, "\n")

	offsets := make([]int, len(lines))
	cur := len(lines) - 1
	off := 0
	for i, line := range lines {
		offsets[i] = off
		n := utf8.RuneCountInString(line)
		if cursor >= off && cursor <= off+n {
			cur = i
		}
		off += n + 1
	}

	inList := func(line string) bool {
		if blank(line) || indentWidth(line) >= nestSlack {
			return true
		}
		_, ok := p.parseItem(line)
		return ok
	}
	if !inList(lines[cur]) {
		return text, cursor
	}
	start, end := cur, cur
	for start > 0 && inList(lines[start-1]) {
		start--
	}
	for end+1 < len(lines) && inList(lines[end+1]) {
		end++
	}

	var stack []listLevel
	changed := false
	shift := 0
	for i := start; i <= end; i++ {
		line := lines[i]
		if blank(line) {
			continue
		}
		indent := indentWidth(line)
		item, ok := p.parseItem(line)
		if !ok || item.kind != orderedItem {
			for len(stack) > 0 && indent-stack[len(stack)-1].indent < nestSlack {
				stack = stack[:len(stack)-1]
			}
			continue
		}

		for len(stack) > 0 && stack[len(stack)-1].indent-indent >= nestSlack {
			stack = stack[:len(stack)-1]
		}
		value := item.marker
		if n := len(stack); n > 0 && abs(stack[n-1].indent-indent) < nestSlack {
			if stack[n-1].matches(item) {
				value = stack[n-1].next
			} else {
				stack[n-1] = listLevel{indent: indent, delim: item.delim, alpha: isAlpha(item.marker)}
			}
		} else {
			stack = append(stack, listLevel{indent: indent, delim: item.delim, alpha: isAlpha(item.marker)})
		}
		stack[len(stack)-1].next = nextOrdinal(value)

		if value == item.marker {
			continue
		}
		numStart := utf8.RuneCountInString(item.indent)
		numEnd := numStart + utf8.RuneCountInString(item.marker)
		runes := []rune(line)
		lines[i] = string(runes[:numStart]) + value + string(runes[numEnd:])
		if offsets[i]+numEnd <= cursor {
			shift += utf8.RuneCountInString(value) - utf8.RuneCountInString(item.marker)
		}
		changed = true
	}
	if !changed {
		return text, cursor
	}
	return strings.Join(lines, "\n"), cursor + shift
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
