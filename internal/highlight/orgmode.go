package highlight

import (
	"fmt"

	"github.com/zjrosen/quill/internal/annotation"
)

// Org-mode expressions.
const (
	ExprOrgHeading     = `(?m)^(\*+) (.*?)(?=\n|$)`
	ExprOrgLink        = `\[\[.*?\]\]|<.*?>|https?://\S+|\[.*?\]\[.*?\]`
	ExprOrgList        = `(?m)^[ \t]{0,16}([+-])( \[[ X]\])?(?= )`
	ExprOrgOrderedList = `(?m)^[ \t]{0,16}(\d+[.)])(?=\s)`
	ExprOrgKeyword     = `(?m)^#\+.*$`
	ExprOrgComment     = `(?m)^#+ .*$`
	ExprOrgBlock       = `(?m)(?<=#\+BEGIN_.{1,15}$\s)[\s\S]*?(?=#\+END)`
)

// orgEmphasis matches text wrapped in one of the marker characters. The
// marker must hug the text and be followed by whitespace or punctuation.
func orgEmphasis(markers string) string {
	return fmt.Sprintf(`(?<=(\n|^|\s|\{|\())([%s])(?=\S)(?!\2+\2)(.*?)\S\2(?=(\n|$|\s|\.|,|:|;|-|\}|\)))`, markers)
}

var (
	ExprOrgBold          = orgEmphasis(`*`)
	ExprOrgItalics       = orgEmphasis(`/`)
	ExprOrgStrikethrough = orgEmphasis(`+`)
	ExprOrgUnderline     = orgEmphasis(`_`)
	ExprOrgCode          = orgEmphasis(`=~`)
)

func orgmodePatterns(opts Options) []Pattern {
	pal := opts.Palette
	patterns := []Pattern{
		NewPattern("heading", ExprOrgHeading, 0, Decorate(annotation.Foreground(pal.Heading))),
		NewPattern("link", ExprOrgLink, 0, Decorate(annotation.Foreground(pal.Link))),
		NewPattern("list", ExprOrgList, 1, Decorate(annotation.Foreground(pal.List))),
		NewPattern("ordered-list", ExprOrgOrderedList, 1, Decorate(annotation.Foreground(pal.List))),
		NewPattern("keyword", ExprOrgKeyword, 0, Decorate(annotation.Foreground(pal.Comment))),
		NewPattern("comment", ExprOrgComment, 0, Decorate(annotation.Foreground(pal.Comment))),
		NewPattern("block", ExprOrgBlock, 0, Decorate(annotation.Background(pal.Background))),
		NewPattern("bold", ExprOrgBold, 0, Decorate(annotation.Bold())),
		NewPattern("italics", ExprOrgItalics, 0, Decorate(annotation.Italic())),
		NewPattern("strikethrough", ExprOrgStrikethrough, 0, Decorate(annotation.Strikethrough())),
		NewPattern("underline", ExprOrgUnderline, 0, Decorate(annotation.Underline())),
	}
	if opts.MonospaceCode {
		patterns = append(patterns, NewPattern("monospace", ExprOrgCode, 0, Decorate(
			annotation.Monospace(),
			annotation.Foreground(pal.Code),
		)))
	}
	return patterns
}
