// Package gfxfont is a 1bpp bitmap font with per-glyph metrics.
//
// Glyph bitmaps are packed MSB first, row-major, continuously across rows
// (a row does not start on a byte boundary). Glyphs cover one contiguous
// character range. A Font also satisfies tinyfont.Fonter, so the tinyfont
// helpers can draw it on any drivers.Displayer.
package gfxfont

import (
	"image/color"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
)

// Glyph holds the metrics of one character. Offsets are relative to the
// cursor on the baseline.
type Glyph struct {
	BitmapOffset uint16
	Width        uint8
	Height       uint8
	XAdvance     uint8
	XOffset      int8
	YOffset      int8
}

// Font is an immutable glyph table.
type Font struct {
	Name     string
	First    rune
	Last     rune
	Glyphs   []Glyph
	Bitmap   []byte
	YAdvance uint8

	// YOffsetMin is the highest row any glyph reaches above the baseline and
	// YOffsetMax the lowest, so every glyph fits a box of
	// YOffsetMax-YOffsetMin+1 rows.
	YOffsetMin int8
	YOffsetMax int8
}

// Glyph returns the glyph for r. ok is false outside [First, Last].
func (f *Font) Glyph(r rune) (g Glyph, ok bool) {
	if f == nil || r < f.First || r > f.Last {
		return Glyph{}, false
	}
	i := int(r - f.First)
	if i >= len(f.Glyphs) {
		return Glyph{}, false
	}
	return f.Glyphs[i], true
}

// Pixel reports whether pixel (x, y) of g is set.
func (f *Font) Pixel(g Glyph, x, y int) bool {
	if x < 0 || y < 0 || x >= int(g.Width) || y >= int(g.Height) {
		return false
	}
	bit := y*int(g.Width) + x
	i := int(g.BitmapOffset) + bit/8
	if i >= len(f.Bitmap) {
		return false
	}
	return f.Bitmap[i]&(0x80>>(bit%8)) != 0
}

// Height is the number of rows of the uniform character box.
func (f *Font) Height() int {
	if f == nil || f.YOffsetMax < f.YOffsetMin {
		return 0
	}
	return int(f.YOffsetMax) - int(f.YOffsetMin) + 1
}

func (f *Font) GetYAdvance() uint8 { return f.YAdvance }

// GetGlyph implements tinyfont.Fonter. Characters outside the range draw
// nothing and do not advance.
func (f *Font) GetGlyph(r rune) tinyfont.Glypher {
	g, ok := f.Glyph(r)
	return glyph{font: f, g: g, r: r, ok: ok}
}

type glyph struct {
	font *Font
	g    Glyph
	r    rune
	ok   bool
}

func (g glyph) Draw(display drivers.Displayer, x, y int16, c color.RGBA) {
	if !g.ok {
		return
	}
	for yy := 0; yy < int(g.g.Height); yy++ {
		for xx := 0; xx < int(g.g.Width); xx++ {
			if g.font.Pixel(g.g, xx, yy) {
				display.SetPixel(x+int16(g.g.XOffset)+int16(xx), y+int16(g.g.YOffset)+int16(yy), c)
			}
		}
	}
}

func (g glyph) Info() tinyfont.GlyphInfo {
	return tinyfont.GlyphInfo{
		Rune:     g.r,
		Width:    g.g.Width,
		Height:   g.g.Height,
		XAdvance: g.g.XAdvance,
		XOffset:  g.g.XOffset,
		YOffset:  g.g.YOffset,
	}
}
