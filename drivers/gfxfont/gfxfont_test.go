package gfxfont

import (
	"image/color"
	"testing"

	"github.com/google/go-cmp/cmp"
	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
)

// patternFont draws each rune from an ASCII-art pattern.
type patternFont struct {
	glyphs map[rune]patternGlyph
}

type patternGlyph struct {
	info tinyfont.GlyphInfo
	rows []string
}

func (f *patternFont) GetYAdvance() uint8 { return 10 }

func (f *patternFont) GetGlyph(r rune) tinyfont.Glypher {
	return f.glyphs[r]
}

func (g patternGlyph) Draw(d drivers.Displayer, x, y int16, c color.RGBA) {
	for j, row := range g.rows {
		for i, ch := range row {
			if ch == '#' {
				d.SetPixel(x+int16(g.info.XOffset)+int16(i), y+int16(g.info.YOffset)+int16(j), c)
			}
		}
	}
}

func (g patternGlyph) Info() tinyfont.GlyphInfo { return g.info }

func testSource() *patternFont {
	return &patternFont{glyphs: map[rune]patternGlyph{
		'A': {
			info: tinyfont.GlyphInfo{Rune: 'A', Width: 3, Height: 4, XAdvance: 4, XOffset: 0, YOffset: -4},
			rows: []string{
				".#.",
				"#.#",
				"###",
				"#.#",
			},
		},
		'B': {
			info: tinyfont.GlyphInfo{Rune: 'B', Width: 0, Height: 0, XAdvance: 3},
		},
		'C': {
			info: tinyfont.GlyphInfo{Rune: 'C', Width: 2, Height: 3, XAdvance: 3, XOffset: 1, YOffset: -1},
			rows: []string{
				"##",
				"#.",
				"##",
			},
		},
	}}
}

func TestFromFonter(t *testing.T) {
	f := FromFonter("test", testSource(), 'A', 'C')

	if got := len(f.Glyphs); got != 3 {
		t.Fatalf("len(Glyphs) = %d, want 3", got)
	}
	if f.YAdvance != 10 {
		t.Fatalf("YAdvance = %d, want 10", f.YAdvance)
	}
	if f.YOffsetMin != -4 || f.YOffsetMax != 1 {
		t.Fatalf("YOffset range = [%d, %d], want [-4, 1]", f.YOffsetMin, f.YOffsetMax)
	}
	if got := f.Height(); got != 6 {
		t.Fatalf("Height() = %d, want 6", got)
	}

	a, ok := f.Glyph('A')
	if !ok {
		t.Fatalf("Glyph('A') ok = false")
	}
	// ".#." "#.#" "###" "#.#" packed MSB first: 010 101 111 101 -> 0x57 0xD0
	if diff := cmp.Diff([]byte{0x57, 0xD0}, f.Bitmap[a.BitmapOffset:a.BitmapOffset+2]); diff != "" {
		t.Fatalf("bitmap mismatch (-want +got):\n%s", diff)
	}
	if !f.Pixel(a, 1, 0) || f.Pixel(a, 0, 0) || !f.Pixel(a, 2, 3) {
		t.Fatalf("Pixel() does not match pattern")
	}

	c, _ := f.Glyph('C')
	if c.BitmapOffset != 2 {
		t.Fatalf("C BitmapOffset = %d, want 2", c.BitmapOffset)
	}
}

func TestGlyphOutOfRange(t *testing.T) {
	f := FromFonter("test", testSource(), 'A', 'C')
	if _, ok := f.Glyph('@'); ok {
		t.Fatalf("Glyph('@') ok = true, want false")
	}
	if _, ok := f.Glyph('D'); ok {
		t.Fatalf("Glyph('D') ok = true, want false")
	}
	var nilFont *Font
	if _, ok := nilFont.Glyph('A'); ok {
		t.Fatalf("nil font Glyph ok = true, want false")
	}
}

type pixelSet map[[2]int16]bool

func (p pixelSet) Size() (x, y int16)                { return 100, 100 }
func (p pixelSet) SetPixel(x, y int16, c color.RGBA) { p[[2]int16{x, y}] = true }
func (p pixelSet) Display() error                    { return nil }

func TestGlypherRoundTrip(t *testing.T) {
	src := testSource()
	f := FromFonter("test", src, 'A', 'C')

	for _, r := range []rune{'A', 'B', 'C'} {
		want := pixelSet{}
		src.GetGlyph(r).Draw(want, 10, 20, color.RGBA{})
		got := pixelSet{}
		f.GetGlyph(r).Draw(got, 10, 20, color.RGBA{})
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("glyph %q mismatch (-want +got):\n%s", r, diff)
		}
		if diff := cmp.Diff(src.GetGlyph(r).Info(), f.GetGlyph(r).Info()); diff != "" {
			t.Fatalf("glyph %q info mismatch (-want +got):\n%s", r, diff)
		}
	}

	got := pixelSet{}
	f.GetGlyph('Z').Draw(got, 0, 0, color.RGBA{})
	if len(got) != 0 {
		t.Fatalf("out of range glyph drew %d pixels", len(got))
	}
}
