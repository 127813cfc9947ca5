//go:build !tinygo

package hal

// touchSink receives emulated presses. *sim.Touch satisfies it.
type touchSink interface {
	Press(x, y int)
	Release()
}

// pointer turns window pointer state into presses on the emulated film.
// A press starting outside the panel is ignored until released.
type pointer struct {
	down bool
}

func (p *pointer) apply(t touchSink, x, y int, pressed bool, width, height int) {
	inside := x >= 0 && y >= 0 && x < width && y < height
	switch {
	case pressed && (p.down || inside):
		p.down = true
		t.Press(max(0, min(x, width-1)), max(0, min(y, height-1)))
	case p.down:
		p.down = false
		t.Release()
	}
}
