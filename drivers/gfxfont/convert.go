package gfxfont

import (
	"image/color"

	"tinygo.org/x/tinyfont"
)

// FromFonter rasterizes the glyphs first..last of src into a Font.
func FromFonter(name string, src tinyfont.Fonter, first, last rune) *Font {
	f := &Font{
		Name:     name,
		First:    first,
		Last:     last,
		YAdvance: src.GetYAdvance(),
	}
	if last < first {
		f.Last = first - 1
		return f
	}

	extents := false
	var bits bitWriter
	for r := first; r <= last; r++ {
		gl := src.GetGlyph(r)
		info := gl.Info()

		rec := &recorder{w: int16(info.Width), h: int16(info.Height)}
		rec.set = make([]bool, int(info.Width)*int(info.Height))
		// Place the glyph's top-left corner at the recorder origin.
		gl.Draw(rec, -int16(info.XOffset), -int16(info.YOffset), color.RGBA{A: 0xFF})

		g := Glyph{
			BitmapOffset: uint16(bits.flush()),
			Width:        info.Width,
			Height:       info.Height,
			XAdvance:     info.XAdvance,
			XOffset:      info.XOffset,
			YOffset:      info.YOffset,
		}
		for _, on := range rec.set {
			bits.write(on)
		}
		f.Glyphs = append(f.Glyphs, g)

		if g.Width == 0 || g.Height == 0 {
			continue
		}
		top := g.YOffset
		bottom := int8(int(g.YOffset) + int(g.Height) - 1)
		if !extents || top < f.YOffsetMin {
			f.YOffsetMin = top
		}
		if !extents || bottom > f.YOffsetMax {
			f.YOffsetMax = bottom
		}
		extents = true
	}
	bits.flush()
	f.Bitmap = bits.buf
	return f
}

// recorder is a drivers.Displayer that captures one glyph.
type recorder struct {
	w, h int16
	set  []bool
}

func (r *recorder) Size() (x, y int16) { return r.w, r.h }

func (r *recorder) SetPixel(x, y int16, c color.RGBA) {
	if x < 0 || y < 0 || x >= r.w || y >= r.h {
		return
	}
	r.set[int(y)*int(r.w)+int(x)] = true
}

func (r *recorder) Display() error { return nil }

type bitWriter struct {
	buf  []byte
	nbit int
}

func (b *bitWriter) write(on bool) {
	if b.nbit%8 == 0 {
		b.buf = append(b.buf, 0)
	}
	if on {
		b.buf[len(b.buf)-1] |= 0x80 >> (b.nbit % 8)
	}
	b.nbit++
}

// flush pads to a byte boundary and returns the next byte offset.
func (b *bitWriter) flush() int {
	b.nbit = len(b.buf) * 8
	return len(b.buf)
}
