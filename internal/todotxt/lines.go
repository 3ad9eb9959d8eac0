package todotxt

import (
	"strings"
	"time"
)

// TaskAt parses the line of text that contains the rune offset cursor. The
// returned task remembers where its line starts and where the cursor sits
// relative to it.
func TaskAt(text string, cursor int) Task {
	runes := []rune(text)
	cursor = clamp(cursor, 0, len(runes))
	start, end := lineBounds(runes, cursor)
	t := Parse(string(runes[start:end]))
	t.LineOffset = start
	t.CursorOffset = cursor - start
	return t
}

// Selection is a run of whole task lines inside a document.
type Selection struct {
	Tasks []Task
	// Start and End are the rune offsets of the first line start and the
	// last line end.
	Start int
	End   int
}

// TasksInRange expands [start, end) to whole lines and parses each of them.
func TasksInRange(text string, start, end int) Selection {
	runes := []rune(text)
	start = clamp(start, 0, len(runes))
	end = clamp(end, start, len(runes))
	first, _ := lineBounds(runes, start)
	_, last := lineBounds(runes, end)

	sel := Selection{Start: first, End: last}
	offset := first
	for _, line := range strings.Split(string(runes[first:last]), "\n") {
		t := Parse(line)
		t.LineOffset = offset
		sel.Tasks = append(sel.Tasks, t)
		offset += len([]rune(line)) + 1
	}
	return sel
}

// RegenerateText writes the regenerated line of task back into text at the
// line the task was parsed from.
func RegenerateText(text string, task Task, now time.Time) string {
	return ReplaceTillEndOfLineFromIndex(task.LineOffset, text, task.Regenerate(now))
}

// ReplaceTillEndOfLineFromIndex replaces everything from the rune offset
// index up to the end of that line with replacement.
func ReplaceTillEndOfLineFromIndex(index int, text, replacement string) string {
	runes := []rune(text)
	index = clamp(index, 0, len(runes))
	left, right := string(runes[:index]), string(runes[index:])
	if _, rest, ok := strings.Cut(right, "\n"); ok {
		return left + replacement + "\n" + rest
	}
	return left + replacement
}

// ReplaceLine replaces the zero-based line lineIndex of text. Out of range
// indexes leave text unchanged.
func ReplaceLine(text string, lineIndex int, newLine string) string {
	lines := strings.Split(text, "\n")
	if lineIndex < 0 || lineIndex >= len(lines) {
		return text
	}
	lines[lineIndex] = newLine
	return strings.Join(lines, "\n")
}

// lineBounds returns the [start, end) rune range of the line containing pos.
// end excludes the trailing newline.
func lineBounds(runes []rune, pos int) (int, int) {
	start := pos
	for start > 0 && runes[start-1] != '\n' {
		start--
	}
	end := pos
	for end < len(runes) && runes[end] != '\n' {
		end++
	}
	return start, end
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
