// Package render paints annotated text for a terminal. It is the single
// place that dispatches on decoration kinds.
package render

import (
	"io"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/zjrosen/quill/internal/annotation"
)

// DefaultTabSize is used when no tab-width annotation covers a tab.
const DefaultTabSize = 4

// Renderer turns text plus annotations into ANSI-styled output.
type Renderer struct {
	lg      *lipgloss.Renderer
	tabSize int
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithColorProfile forces a color profile instead of detecting one from
// the output.
func WithColorProfile(p termenv.Profile) Option {
	return func(r *Renderer) {
		r.lg.SetColorProfile(p)
	}
}

// WithTabSize sets the width tabs expand to outside tab-width annotations.
func WithTabSize(n int) Option {
	return func(r *Renderer) {
		if n > 0 {
			r.tabSize = n
		}
	}
}

// New creates a renderer for output w.
func New(w io.Writer, opts ...Option) *Renderer {
	r := &Renderer{
		lg:      lipgloss.NewRenderer(w),
		tabSize: DefaultTabSize,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render returns text with every annotation applied. Overlapping
// annotations combine; for the same attribute the later annotation wins.
// Line breaks are never styled.
func (r *Renderer) Render(text string, anns []annotation.Annotation) string {
	runes := []rune(text)
	if len(runes) == 0 {
		return ""
	}

	bounds := []int{0, len(runes)}
	for _, a := range anns {
		if !a.Valid() || a.Start >= len(runes) {
			continue
		}
		bounds = append(bounds, a.Start, min(a.End, len(runes)))
	}
	slices.Sort(bounds)
	bounds = slices.Compact(bounds)

	var b strings.Builder
	for i := 0; i+1 < len(bounds); i++ {
		start, end := bounds[i], bounds[i+1]
		var active []annotation.Decoration
		for _, a := range anns {
			if a.Start <= start && a.End >= end {
				active = append(active, a.Decoration)
			}
		}
		r.writeSegment(&b, string(runes[start:end]), active)
	}
	return b.String()
}

func (r *Renderer) writeSegment(b *strings.Builder, segment string, decorations []annotation.Decoration) {
	style, tab := r.style(decorations)
	segment = strings.ReplaceAll(segment, "\t", strings.Repeat(" ", tab))
	if len(decorations) == 0 {
		b.WriteString(segment)
		return
	}
	for i, part := range strings.Split(segment, "\n") {
		if i > 0 {
			b.WriteByte('\n')
		}
		if part != "" {
			b.WriteString(style.Render(part))
		}
	}
}

// style folds decorations into one lipgloss style and returns the tab
// width in effect.
func (r *Renderer) style(decorations []annotation.Decoration) (lipgloss.Style, int) {
	s := r.lg.NewStyle()
	tab := r.tabSize
	for _, d := range decorations {
		switch d.Kind {
		case annotation.KindForeground:
			s = s.Foreground(color(d.Color))
		case annotation.KindBackground:
			s = s.Background(color(d.Color))
		case annotation.KindBold:
			s = s.Bold(true)
		case annotation.KindItalic:
			s = s.Italic(true)
		case annotation.KindStrikethrough:
			s = s.Strikethrough(true)
		case annotation.KindUnderline:
			s = s.Underline(true)
		case annotation.KindHeaderScale, annotation.KindRelativeSize:
			// Terminals have one text size; enlarged text is shown bold.
			if d.Scale > 1 {
				s = s.Bold(true)
			}
		case annotation.KindMonospace:
		case annotation.KindTabWidth:
			if d.Width > 0 {
				tab = d.Width
			}
		}
	}
	return s, tab
}

func color(c annotation.Color) lipgloss.Color {
	return lipgloss.Color(c.Hex())
}
