package highlight

import (
	"strings"

	"github.com/zjrosen/quill/internal/annotation"
)

// Markdown expressions. Each is documented by the tests in markdown_test.go.
const (
	ExprHeading       = `(?m)((^#{1,6}[^\S\n][^\n]+)|((\n|^)[^\s]+.*?\n(-{2,}|={2,})[^\S\n]*$))`
	ExprLink          = `\[([^\[]+)\]\(([^\)]+)\)`
	ExprList          = `(?m)^[ \t]{0,16}([*+-](?: \[[ xX]\])?)(?= )`
	ExprOrderedList   = `(?m)^[ \t]{0,16}(\d+\.)(?=\s)`
	ExprQuotation     = `(?m)^>`
	ExprStrikethrough = `~{2}(.*?)\S~{2}`
	ExprMonospace     = "(?m)(`(.*?)`)|(^[^\\S\\n]{4}.*$)"
	ExprLineEnding    = `(?m)(?<=\S)[ \t]{2,}$`
	ExprBold          = `(?<=(\n|^|\s))(([*_]){2,3})(?=\S)(.*?)\S\2(?=(\n|$|\s))`
	ExprItalics       = `(?<=(\n|^|\s))([*_])(?=((?!\2)|\2{2,}))(?=\S)(.*?)\S\2(?=(\n|$|\s))`
)

const (
	headerScaleMax  = 1.8
	headerScaleStep = 0.2
	headerScaleMin  = 0.6
)

// HeadingScale returns the font proportion for a heading match of
// ExprHeading. Each '#' of an ATX heading steps down from the maximum;
// setext headings step once for '=' and twice for '-', whatever their text
// starts with. The result never drops below headerScaleMin.
func HeadingScale(m Match) float64 {
	const atx, setext, underline = 2, 3, 5

	p := headerScaleMax
	switch {
	case len(m.Groups) > underline && m.Groups[setext].Matched:
		if strings.HasPrefix(m.Groups[underline].Text, "=") {
			p -= headerScaleStep
		} else {
			p -= headerScaleStep * 2
		}
	case len(m.Groups) > atx && m.Groups[atx].Matched:
		s := strings.TrimSpace(m.Groups[atx].Text)
		hashes := len(s) - len(strings.TrimLeft(s, "#"))
		p -= headerScaleStep * float64(hashes)
	}
	return max(p, headerScaleMin)
}

func markdownPatterns(opts Options) []Pattern {
	pal := opts.Palette

	heading := Decorate(annotation.Foreground(pal.Heading), annotation.Bold())
	if opts.BiggerHeadings {
		heading = func(m Match) []Span {
			return append([]Span{{
				Start:      m.Start,
				End:        m.End,
				Decoration: annotation.HeaderScale(HeadingScale(m)),
			}}, Decorate(annotation.Foreground(pal.Heading), annotation.Bold())(m)...)
		}
	}

	patterns := []Pattern{
		NewPattern("heading", ExprHeading, 0, heading),
		NewPattern("link", ExprLink, 0, Decorate(annotation.Foreground(pal.Link))),
		NewPattern("list", ExprList, 1, Decorate(annotation.Foreground(pal.List))),
		NewPattern("ordered-list", ExprOrderedList, 1, Decorate(annotation.Foreground(pal.List))),
	}
	if opts.LineEnding {
		patterns = append(patterns, NewPattern("line-ending", ExprLineEnding, 0, Decorate(annotation.Background(pal.Background))))
	}
	patterns = append(patterns,
		NewPattern("bold", ExprBold, 0, Decorate(annotation.Bold())),
		NewPattern("italics", ExprItalics, 0, Decorate(annotation.Italic())),
		NewPattern("quotation", ExprQuotation, 0, Decorate(annotation.Foreground(pal.Quote))),
		NewPattern("strikethrough", ExprStrikethrough, 0, Decorate(annotation.Strikethrough())),
	)
	if opts.MonospaceCode {
		patterns = append(patterns, NewPattern("monospace", ExprMonospace, 0, Decorate(
			annotation.Monospace(),
			annotation.Foreground(pal.Code),
		)))
	}
	patterns = append(patterns, NewPattern("code-background", ExprMonospace, 0, Decorate(annotation.Background(pal.Background))))
	return patterns
}
