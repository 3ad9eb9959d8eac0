// Package annotation defines the range/decoration model produced by the
// highlighters and consumed by renderers.
package annotation

import "fmt"

// Kind identifies the visual treatment carried by a Decoration.
type Kind int

const (
	KindForeground Kind = iota
	KindBackground
	KindBold
	KindItalic
	KindStrikethrough
	KindUnderline
	KindMonospace
	KindHeaderScale  // Scale holds the font-size proportion
	KindRelativeSize // Scale holds the font-size proportion
	KindTabWidth     // Width holds the tab stop in cells
)

// String returns a human-readable representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindForeground:
		return "foreground"
	case KindBackground:
		return "background"
	case KindBold:
		return "bold"
	case KindItalic:
		return "italic"
	case KindStrikethrough:
		return "strikethrough"
	case KindUnderline:
		return "underline"
	case KindMonospace:
		return "monospace"
	case KindHeaderScale:
		return "header-scale"
	case KindRelativeSize:
		return "relative-size"
	case KindTabWidth:
		return "tab-width"
	default:
		return "unknown"
	}
}

// Color is a packed 0xAARRGGBB value.
type Color uint32

// Alpha returns the alpha channel.
func (c Color) Alpha() uint8 { return uint8(c >> 24) }

// Hex returns the color as "#RRGGBB", dropping alpha.
func (c Color) Hex() string {
	return fmt.Sprintf("#%06X", uint32(c)&0xFFFFFF)
}

// Decoration is a data-only description of how a range should look.
// Only the parameter matching Kind is meaningful.
type Decoration struct {
	Kind  Kind
	Color Color
	Scale float64
	Width int
}

func Foreground(c Color) Decoration { return Decoration{Kind: KindForeground, Color: c} }
func Background(c Color) Decoration { return Decoration{Kind: KindBackground, Color: c} }
func Bold() Decoration              { return Decoration{Kind: KindBold} }
func Italic() Decoration            { return Decoration{Kind: KindItalic} }
func Strikethrough() Decoration     { return Decoration{Kind: KindStrikethrough} }
func Underline() Decoration         { return Decoration{Kind: KindUnderline} }
func Monospace() Decoration         { return Decoration{Kind: KindMonospace} }

// UnderlineColor underlines in a specific color instead of the text color.
func UnderlineColor(c Color) Decoration { return Decoration{Kind: KindUnderline, Color: c} }

// HeaderScale scales a heading line by proportion p.
func HeaderScale(p float64) Decoration { return Decoration{Kind: KindHeaderScale, Scale: p} }

// RelativeSize scales any range by proportion p.
func RelativeSize(p float64) Decoration { return Decoration{Kind: KindRelativeSize, Scale: p} }

// TabWidth sets the rendered width of tab characters.
func TabWidth(cells int) Decoration { return Decoration{Kind: KindTabWidth, Width: cells} }

// String formats the decoration with its parameter, e.g. "foreground(#EF6D00)".
func (d Decoration) String() string {
	switch d.Kind {
	case KindForeground, KindBackground:
		return fmt.Sprintf("%s(%s)", d.Kind, d.Color.Hex())
	case KindHeaderScale, KindRelativeSize:
		return fmt.Sprintf("%s(%.2f)", d.Kind, d.Scale)
	case KindTabWidth:
		return fmt.Sprintf("%s(%d)", d.Kind, d.Width)
	case KindUnderline:
		if d.Color != 0 {
			return fmt.Sprintf("%s(%s)", d.Kind, d.Color.Hex())
		}
		return d.Kind.String()
	default:
		return d.Kind.String()
	}
}
