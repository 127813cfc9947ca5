package ili9341

import (
	"image/color"
	"math/bits"

	"tinygo.org/x/drivers/pixel"
)

// Color is a native-order RGB565 value: rrrrrggggggbbbbb.
type Color uint16

const (
	Black       Color = 0x0000
	Navy        Color = 0x000F
	DarkGreen   Color = 0x03E0
	DarkCyan    Color = 0x03EF
	Maroon      Color = 0x7800
	Purple      Color = 0x780F
	Olive       Color = 0x7BE0
	LightGrey   Color = 0xC618
	DarkGrey    Color = 0x7BEF
	DarkerGrey  Color = 0x2104
	Blue        Color = 0x001F
	Green       Color = 0x07E0
	Cyan        Color = 0x07FF
	Red         Color = 0xF800
	Magenta     Color = 0xF81F
	Yellow      Color = 0xFFE0
	White       Color = 0xFFFF
	Orange      Color = 0xFD20
	GreenYellow Color = 0xAFE5
	Pink        Color = 0xF81F
)

// RGB packs 8-bit channels into a Color.
func RGB(r, g, b uint8) Color {
	return Color(uint16(r&0xF8)<<8 | uint16(g&0xFC)<<3 | uint16(b)>>3)
}

// FromRGBA drops alpha and packs c.
func FromRGBA(c color.RGBA) Color { return RGB(c.R, c.G, c.B) }

// Wire returns c in the byte order the panel expects, as stored in pixel
// images.
func (c Color) Wire() pixel.RGB565BE {
	return pixel.RGB565BE(bits.ReverseBytes16(uint16(c)))
}

func (c Color) RGBA() color.RGBA { return c.Wire().RGBA() }

func (c Color) hi() byte { return byte(c >> 8) }
func (c Color) lo() byte { return byte(c) }
