package highlight

import (
	"strings"

	"github.com/zjrosen/quill/internal/annotation"
)

// ExprCSVLine matches one non-empty line; cells are split by the decorator.
const ExprCSVLine = `(?m)^[^\n]+$`

// CSVDelimiters are the candidate field separators, in preference order
// when a line contains several.
var CSVDelimiters = []rune{',', ';', '\t', '|'}

// InferDelimiter returns the first candidate delimiter found in the first
// data line of text (comment lines starting with '#' are skipped). It
// defaults to ','.
func InferDelimiter(text string) rune {
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		for _, r := range line {
			for _, d := range CSVDelimiters {
				if r == d {
					return d
				}
			}
		}
		break
	}
	return ','
}

func csvPatterns(opts Options) []Pattern {
	p := NewPattern("csv-column", ExprCSVLine, 0, nil)
	p.Prepare = func(text string) Decorator {
		return decorateColumns(InferDelimiter(text), opts.Palette.Columns)
	}
	return []Pattern{p}
}

// decorateColumns colors every cell after the first one. A cell span starts
// at the delimiter that opens it; colors rotate through the palette.
// Delimiters inside double quotes do not split cells.
func decorateColumns(delim rune, colors []annotation.Color) Decorator {
	return func(m Match) []Span {
		if len(colors) == 0 || strings.HasPrefix(m.Text, "#") {
			return nil
		}
		var (
			spans    []Span
			column   int
			cellFrom = -1
			quoted   bool
		)
		runes := []rune(m.Text)
		flush := func(end int) {
			if cellFrom >= 0 {
				spans = append(spans, Span{
					Start:      m.Start + cellFrom,
					End:        m.Start + end,
					Decoration: annotation.Foreground(colors[(column-1)%len(colors)]),
				})
			}
		}
		for i, r := range runes {
			switch {
			case r == '"':
				quoted = !quoted
			case r == delim && !quoted:
				flush(i)
				column++
				cellFrom = i
			}
		}
		flush(len(runes))
		return spans
	}
}
