package app

import (
	"image/color"
	"strings"
	"unicode/utf8"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/freemono"

	"touchlamp/drivers/ili9341"
)

// fatalDisplay is the part of the panel the fatal screen needs.
type fatalDisplay interface {
	drivers.Displayer
	Clear(c ili9341.Color) error
	SetBacklight(on bool) error
}

// showFatal paints err black on white, wrapped to the panel width.
func showFatal(d fatalDisplay, err error) error {
	if cerr := d.Clear(ili9341.White); cerr != nil {
		return cerr
	}
	_ = d.SetBacklight(true)
	return drawLines(d, []string{"touchlamp stopped:", err.Error()}, color.RGBA{A: 0xFF})
}

func drawLines(d drivers.Displayer, lines []string, fg color.RGBA) error {
	font := &freemono.Regular9pt7b
	_, outbox := tinyfont.LineWidth(font, "0")
	lineHeight := int16(font.GetYAdvance())
	w, h := d.Size()
	if outbox == 0 || lineHeight <= 0 {
		return d.Display()
	}
	cols := max(w/int16(outbox), 1)

	y := lineHeight
	for _, line := range lines {
		for len(line) > 0 {
			if y > h {
				return d.Display()
			}
			chunk, rest := takeRunes(line, cols)
			tinyfont.WriteLine(d, font, 0, y, chunk, fg)
			y += lineHeight
			line = strings.TrimLeft(rest, " ")
		}
	}
	return d.Display()
}

func takeRunes(s string, n int16) (prefix, rest string) {
	if n <= 0 || s == "" {
		return "", s
	}
	if int64(len(s)) <= int64(n) {
		return s, ""
	}
	var i int
	var count int16
	for i < len(s) && count < n {
		_, size := utf8.DecodeRuneInString(s[i:])
		if size <= 0 {
			break
		}
		i += size
		count++
	}
	if i >= len(s) {
		return s, ""
	}
	return s[:i], s[i:]
}
