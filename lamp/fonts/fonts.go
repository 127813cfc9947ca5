// Package fonts rasterizes the UI typefaces once at startup.
package fonts

import (
	"tinygo.org/x/tinyfont/freemono"

	"touchlamp/drivers/gfxfont"
)

// Printable ASCII.
const (
	First = 0x20
	Last  = 0x7E
)

var (
	// Small labels buttons.
	Small = gfxfont.FromFonter("FreeMono9pt", &freemono.Regular9pt7b, First, Last)
	// Large is used for headings.
	Large = gfxfont.FromFonter("FreeMono12pt", &freemono.Regular12pt7b, First, Last)
)
