package hal

import (
	"image/color"

	"touchlamp/internal/mathx"
)

func rgb888From565(p uint16) (r, g, b uint8) {
	rr := (p >> 11) & 0x1F
	gg := (p >> 5) & 0x3F
	bb := p & 0x1F

	r = uint8((rr * 255) / 31)
	g = uint8((gg * 255) / 63)
	b = uint8((bb * 255) / 31)
	return r, g, b
}

// expandRGB565 converts native RGB565 pixels to opaque RGBA bytes.
func expandRGB565(dst []byte, src []uint16) {
	for i, p := range src {
		j := i * 4
		if j+3 >= len(dst) {
			return
		}
		dst[j+0], dst[j+1], dst[j+2] = rgb888From565(p)
		dst[j+3] = 0xFF
	}
}

// ledHue is the colour each LED output is shown in at full duty.
var ledHue = [NumLEDs]color.RGBA{
	{R: 0xFF, G: 0xB4, B: 0x6B, A: 0xFF},
	{R: 0xFF, G: 0xF4, B: 0xE5, A: 0xFF},
	{R: 0xFF, A: 0xFF},
	{G: 0xFF, A: 0xFF},
	{B: 0xFF, A: 0xFF},
}

// swatch scales the hue of LED i by level in [0, 1].
func swatch(i int, level float32) color.RGBA {
	level = mathx.Unit(level)
	c := ledHue[i]
	return color.RGBA{
		R: uint8(float32(c.R) * level),
		G: uint8(float32(c.G) * level),
		B: uint8(float32(c.B) * level),
		A: 0xFF,
	}
}
