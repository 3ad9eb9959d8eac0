package highlight

import (
	"fmt"

	"github.com/zjrosen/quill/internal/annotation"
)

// Palette holds the colors used by every dialect. Only a handful differ
// between dark and light backgrounds.
type Palette struct {
	Name string

	Heading    annotation.Color
	Link       annotation.Color
	List       annotation.Color
	Quote      annotation.Color
	Code       annotation.Color
	Background annotation.Color
	URL        annotation.Color

	Project      annotation.Color
	Context      annotation.Color
	Priorities   [6]annotation.Color // A through F
	CreationDate annotation.Color
	Done         annotation.Color

	Section annotation.Color
	Comment annotation.Color

	Columns []annotation.Color
}

const (
	PaletteDark  = "dark"
	PaletteLight = "light"
)

var basePalette = Palette{
	Heading:    0xFFEF6D00,
	Link:       0xFF1EA3FE,
	List:       0xFFDAA521,
	Quote:      0xFF88B04C,
	Code:       0xFF8C8C8C,
	URL:        0xFF1EA3FD,

	Project: 0xFFEF6C00,
	Context: 0xFF88B04B,
	Priorities: [6]annotation.Color{
		0xFFEF2929,
		0xFFF57900,
		0xFF73D216,
		0xFF0099CC,
		0xFFEDD400,
		0xFF888A85,
	},

	Section: 0xFFEF6D00,
	Comment: 0xFF88B04B,
}

// DarkPalette returns the palette for dark backgrounds.
func DarkPalette() Palette {
	p := basePalette
	p.Name = PaletteDark
	p.Background = 0xFF3A3A3A
	p.CreationDate = 0x999D9D9D
	p.Done = 0x999D9D9D
	p.Columns = []annotation.Color{0xFFFF5555, 0xFF5C9DFF, 0xFF55DD55, 0xFFFF55FF, 0xFF55FFFF}
	return p
}

// LightPalette returns the palette for light backgrounds.
func LightPalette() Palette {
	p := basePalette
	p.Name = PaletteLight
	p.Background = 0xFFE4E4E4
	p.CreationDate = 0xCC6D6D6D
	p.Done = 0x993D3D3D
	p.Columns = []annotation.Color{0xFFFF0000, 0xFF0000FF, 0xFF00FF00, 0xFFFF00FF, 0xFF00FFFF}
	return p
}

// PaletteByName resolves "dark" or "light".
func PaletteByName(name string) (Palette, error) {
	switch name {
	case PaletteDark, "":
		return DarkPalette(), nil
	case PaletteLight:
		return LightPalette(), nil
	default:
		return Palette{}, fmt.Errorf("unknown palette %q (must be %q or %q)", name, PaletteDark, PaletteLight)
	}
}
