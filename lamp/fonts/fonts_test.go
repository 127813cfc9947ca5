package fonts

import (
	"testing"

	"touchlamp/drivers/gfxfont"
)

func TestFontsCoverPrintableASCII(t *testing.T) {
	for _, f := range []*gfxfont.Font{Small, Large} {
		if got := len(f.Glyphs); got != Last-First+1 {
			t.Fatalf("%s: len(Glyphs) = %d, want %d", f.Name, got, Last-First+1)
		}
		for r := rune(First); r <= Last; r++ {
			if _, ok := f.Glyph(r); !ok {
				t.Fatalf("%s: Glyph(%q) missing", f.Name, r)
			}
		}
		if f.YOffsetMin >= 0 || f.YOffsetMax < f.YOffsetMin {
			t.Fatalf("%s: YOffset range [%d, %d] is not above the baseline", f.Name, f.YOffsetMin, f.YOffsetMax)
		}
	}
}

func TestLargeIsTaller(t *testing.T) {
	if Large.Height() <= Small.Height() {
		t.Fatalf("Large.Height() = %d, Small.Height() = %d", Large.Height(), Small.Height())
	}
	if Large.YAdvance <= Small.YAdvance {
		t.Fatalf("Large.YAdvance = %d, Small.YAdvance = %d", Large.YAdvance, Small.YAdvance)
	}
	a, _ := Small.Glyph('A')
	if a.Width == 0 || a.Height == 0 {
		t.Fatalf("Small 'A' is empty: %+v", a)
	}
	sp, _ := Small.Glyph(' ')
	if sp.XAdvance == 0 {
		t.Fatal("Small ' ' has no advance")
	}
}
