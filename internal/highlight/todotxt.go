package highlight

import (
	"unicode"

	"github.com/zjrosen/quill/internal/annotation"
	"github.com/zjrosen/quill/internal/todotxt"
)

func todoTxtPatterns(opts Options) []Pattern {
	pal := opts.Palette
	return []Pattern{
		NewPattern("context", todotxt.ExprContext, 0, Decorate(annotation.Foreground(pal.Context))),
		NewPattern("project", todotxt.ExprProject, 0, Decorate(annotation.Foreground(pal.Project))),
		NewPattern("key-value", todotxt.ExprKeyValue, 0, Decorate(annotation.Italic())),
		NewPattern("priority", todotxt.ExprPriority, 0, decoratePriority(pal)),
		NewPattern("creation-date", todotxt.ExprCreation, 1, Decorate(annotation.Foreground(pal.CreationDate))),
		NewPattern("due-date", todotxt.ExprDue, 0, Decorate(annotation.Foreground(pal.Priorities[0]))),
		NewPattern("done", todotxt.ExprDone, 0, Decorate(
			annotation.Foreground(pal.Done),
			annotation.Strikethrough(),
		)),
	}
}

// decoratePriority colors the "(A) " marker. A through F have their own
// color, the remaining letters are only bold.
func decoratePriority(pal Palette) Decorator {
	return func(m Match) []Span {
		letter := unicode.ToUpper([]rune(m.Groups[1].Text)[0])
		spans := []Span{{Start: m.Start, End: m.End, Decoration: annotation.Bold()}}
		if i := int(letter - 'A'); i >= 0 && i < len(pal.Priorities) {
			spans = append([]Span{{Start: m.Start, End: m.End, Decoration: annotation.Foreground(pal.Priorities[i])}}, spans...)
		}
		return spans
	}
}
