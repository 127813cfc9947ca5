package ili9341

import (
	"fmt"

	"tinygo.org/x/drivers/pixel"

	"touchlamp/drivers/gfxfont"
)

// TextPosition anchors a string at the x passed to DrawTextAtXY.
type TextPosition uint8

const (
	PositionNone TextPosition = iota
	PositionLeft
	PositionCentre
	PositionRight
)

// DrawMode selects how glyph pixels are composited.
type DrawMode uint8

const (
	DrawModeNone DrawMode = iota
	// DrawModeThisCharBar blits the glyph's own bounding box, foreground on
	// background.
	DrawModeThisCharBar
	// DrawModeAnyCharBar blits a box the size of the font's largest glyph,
	// so redrawn text fully covers what was there before.
	DrawModeAnyCharBar
	// DrawModeMerge sets foreground pixels one at a time and leaves the rest
	// of the panel untouched.
	DrawModeMerge
)

// SetFont selects the text font and returns the previous one.
func (d *Device) SetFont(f *gfxfont.Font) *gfxfont.Font {
	prev := d.font
	d.font = f
	return prev
}

// SetTextColor returns the previous foreground colour.
func (d *Device) SetTextColor(c Color) Color {
	prev := d.fg
	d.fg = c
	return prev
}

// SetTextBackgroundColor returns the previous background colour.
func (d *Device) SetTextBackgroundColor(c Color) Color {
	prev := d.bg
	d.bg = c
	return prev
}

// SetTextDrawMode returns the previous mode.
func (d *Device) SetTextDrawMode(m DrawMode) DrawMode {
	prev := d.mode
	d.mode = m
	return prev
}

// GetCharWidth is the advance DrawCharAtXY returns for ch, or 0 when ch is
// not in the font.
func (d *Device) GetCharWidth(ch rune) int16 {
	g, ok := d.font.Glyph(ch)
	if !ok {
		return 0
	}
	return advance(g)
}

func advance(g gfxfont.Glyph) int16 {
	if g.Width == 0 {
		return int16(g.XAdvance)
	}
	return int16(g.XOffset) + int16(g.Width)
}

// GetTextWidth sums GetCharWidth over text.
func (d *Device) GetTextWidth(text string) int16 {
	var w int16
	for _, ch := range text {
		w += d.GetCharWidth(ch)
	}
	return w
}

// GetFontYSpacing is the line height of the current font.
func (d *Device) GetFontYSpacing() int16 {
	if d.font == nil {
		return 0
	}
	return int16(d.font.YAdvance)
}

// DrawCharAtXY draws ch with its baseline at y and returns the advance to
// the next character.
func (d *Device) DrawCharAtXY(ch rune, x, y int16, c Color) (int16, error) {
	g, ok := d.font.Glyph(ch)
	if !ok {
		return 0, nil
	}
	adv := advance(g)

	var err error
	switch d.mode {
	case DrawModeThisCharBar:
		err = d.drawCharBar(g, x, y, c)
	case DrawModeAnyCharBar:
		err = d.drawUniformBar(g, x, y, c)
	case DrawModeMerge:
		d.font.GetGlyph(ch).Draw(d, x, y, c.RGBA())
		err = d.Display()
	}
	if err != nil {
		return 0, fmt.Errorf("ili9341: draw %q: %w", ch, err)
	}
	return adv, nil
}

func (d *Device) drawCharBar(g gfxfont.Glyph, x, y int16, c Color) error {
	w, h := int(g.Width), int(g.Height)
	if w == 0 || h == 0 {
		return nil
	}
	img := pixel.NewImage[pixel.RGB565BE](w, h)
	img.FillSolidColor(d.bg.Wire())
	fg := c.Wire()
	for yy := 0; yy < h; yy++ {
		for xx := 0; xx < w; xx++ {
			if d.font.Pixel(g, xx, yy) {
				img.Set(xx, yy, fg)
			}
		}
	}
	return d.blit(x+int16(g.XOffset), y+int16(g.YOffset), img)
}

func (d *Device) drawUniformBar(g gfxfont.Glyph, x, y int16, c Color) error {
	w, h := int(g.XAdvance), d.font.Height()
	if w == 0 || h == 0 {
		return nil
	}
	img := pixel.NewImage[pixel.RGB565BE](w, h)
	img.FillSolidColor(d.bg.Wire())
	fg := c.Wire()
	top := int(g.YOffset) - int(d.font.YOffsetMin)
	for yy := 0; yy < int(g.Height); yy++ {
		py := top + yy
		if py < 0 || py >= h {
			continue
		}
		for xx := 0; xx < int(g.Width); xx++ {
			px := int(g.XOffset) + xx
			if px < 0 || px >= w {
				continue
			}
			if d.font.Pixel(g, xx, yy) {
				img.Set(px, py, fg)
			}
		}
	}
	return d.blit(x, y+int16(d.font.YOffsetMin), img)
}

func (d *Device) blit(x, y int16, img pixel.Image[pixel.RGB565BE]) error {
	w, h := img.Size()
	if err := d.DrawPixelsMSBFirst(x, y, int16(w), int16(h), img.RawBuffer()); err != nil {
		return err
	}
	return d.Wait()
}

// DrawTextAtXY draws text in the current text colour with its baseline at y.
func (d *Device) DrawTextAtXY(text string, x, y int16, pos TextPosition) error {
	switch pos {
	case PositionCentre:
		x -= d.GetTextWidth(text) / 2
	case PositionRight:
		x -= d.GetTextWidth(text)
	}
	for _, ch := range text {
		adv, err := d.DrawCharAtXY(ch, x, y, d.fg)
		if err != nil {
			return err
		}
		x += adv
	}
	return nil
}
