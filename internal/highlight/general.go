package highlight

import (
	"strconv"
	"strings"

	"github.com/zjrosen/quill/internal/annotation"
)

// Expressions shared by every dialect.
const (
	ExprTab      = `\t`
	ExprURL      = `\bhttps?://(?:(?:[-;:&=+$,\w]+@)?[A-Za-z0-9.-]+|(?:www\.|[-;:&=+$,\w]+@)[A-Za-z0-9.-]+)(?:/[+~%/.\w_-]*\??[-+=&;%@.\w_]*#?[.!/\\\w]*)?`
	ExprHexColor = `(?i)(?<![\w#&])(#(?:[0-9a-f]{8}|[0-9a-f]{6}|[0-9a-f]{3}))\b`
)

// urlScale shrinks bare links so that long URLs stay out of the way.
const urlScale = 0.85

func generalPatterns(opts Options) []Pattern {
	var out []Pattern
	if opts.TabSize > 0 {
		out = append(out, NewPattern("tab", ExprTab, 0, Decorate(annotation.TabWidth(opts.TabSize))))
	}
	if opts.HexColors {
		out = append(out, NewPattern("hex-color", ExprHexColor, 1, decorateHexColor))
	}
	out = append(out, NewPattern("url", ExprURL, 0, Decorate(
		annotation.Foreground(opts.Palette.URL),
		annotation.Italic(),
		annotation.RelativeSize(urlScale),
	)))
	return out
}

// decorateHexColor underlines a color literal in the color it names.
func decorateHexColor(m Match) []Span {
	c, ok := ParseHexColor(m.Text)
	if !ok {
		return nil
	}
	return []Span{{Start: m.Start, End: m.End, Decoration: annotation.UnderlineColor(c)}}
}

// ParseHexColor parses "#RGB", "#RRGGBB" and "#RRGGBBAA".
func ParseHexColor(s string) (annotation.Color, bool) {
	hex := strings.TrimPrefix(s, "#")
	switch len(hex) {
	case 3:
		var b strings.Builder
		for _, r := range hex {
			b.WriteRune(r)
			b.WriteRune(r)
		}
		hex = b.String() + "ff"
	case 6:
		hex += "ff"
	case 8:
	default:
		return 0, false
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, false
	}
	rgb := uint32(v >> 8)
	alpha := uint32(v & 0xFF)
	return annotation.Color(alpha<<24 | rgb), true
}
