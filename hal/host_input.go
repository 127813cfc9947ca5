//go:build !tinygo && cgo

package hal

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// poll reads the first touch, or the left mouse button when there is none.
func (p *pointer) poll(t touchSink, width, height int) {
	if ids := ebiten.AppendTouchIDs(nil); len(ids) > 0 {
		x, y := ebiten.TouchPosition(ids[0])
		p.apply(t, x, y, !inpututil.IsTouchJustReleased(ids[0]), width, height)
		return
	}
	x, y := ebiten.CursorPosition()
	p.apply(t, x, y, ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft), width, height)
}
