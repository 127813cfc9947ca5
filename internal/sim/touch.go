package sim

import "sync"

// TouchRange is the raw ADC span the touch film covers across the screen.
type TouchRange struct {
	XMin, XMax int
	YMin, YMax int
}

// XPT2046 channel selects, bits 6..4 of a control byte.
const (
	chanY  = 1
	chanZ1 = 3
	chanZ2 = 4
	chanX  = 5
)

// Touch is an XPT2046-style resistive touch controller. Every control byte
// with the start bit set yields a 12-bit conversion on the next two bytes.
type Touch struct {
	mu     sync.Mutex
	width  int
	height int
	rng    TouchRange

	invertX bool
	invertY bool

	down   bool
	x, y   int
	z1, z2 int

	glitchX int
	samples int
}

// NewTouch emulates a panel of width x height pixels. Pressure defaults to
// a firm press.
func NewTouch(width, height int, rng TouchRange) *Touch {
	return &Touch{width: width, height: height, rng: rng, z1: 1000, z2: 1500}
}

// SetInverted mirrors the raw axes, as on panels wired the other way round.
func (t *Touch) SetInverted(x, y bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.invertX, t.invertY = x, y
}

// Press holds a touch at screen position (x, y).
func (t *Touch) Press(x, y int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.down = true
	t.x, t.y = x, y
}

func (t *Touch) Release() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.down = false
}

// SetPressure sets the two pressure conversions returned while pressed.
func (t *Touch) SetPressure(z1, z2 int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.z1, t.z2 = z1, z2
}

// Glitch makes the second X conversion of the next exchange read v. The
// first X conversion after the pressure reads is usually discarded.
func (t *Touch) Glitch(v int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.glitchX = v
}

// Samples counts exchanges answered.
func (t *Touch) Samples() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.samples
}

// Raw returns the conversions the current press produces.
func (t *Touch) Raw() (x, y int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.raw()
}

func (t *Touch) raw() (x, y int) {
	x = t.rng.XMin + t.x*(t.rng.XMax-t.rng.XMin)/t.width
	y = t.rng.YMin + t.y*(t.rng.YMax-t.rng.YMin)/t.height
	x, y = clamp12(x), clamp12(y)
	if t.invertX {
		x = 4095 - x
	}
	if t.invertY {
		y = 4095 - y
	}
	return x, y
}

// Tx implements drivers.SPI.
func (t *Touch) Tx(w, r []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.samples++
	for i := range r {
		r[i] = 0
	}
	xs := 0
	for i, b := range w {
		if b&0x80 == 0 {
			continue
		}
		v := t.convert(int(b>>4) & 7)
		if int(b>>4)&7 == chanX {
			if xs == 1 && t.glitchX != 0 {
				v = t.glitchX
				t.glitchX = 0
			}
			xs++
		}
		if i+2 < len(r) {
			r[i+1] = byte(v >> 5)
			r[i+2] = byte(v << 3)
		}
	}
	return nil
}

func (t *Touch) Transfer(b byte) (byte, error) {
	var r [1]byte
	err := t.Tx([]byte{b}, r[:])
	return r[0], err
}

func (t *Touch) convert(ch int) int {
	if !t.down {
		switch ch {
		case chanZ1:
			return 0
		case chanZ2:
			return 4095
		}
		return 0
	}
	x, y := t.raw()
	switch ch {
	case chanX:
		return x
	case chanY:
		return y
	case chanZ1:
		return t.z1
	case chanZ2:
		return t.z2
	}
	return 0
}

func clamp12(v int) int {
	return max(0, min(v, 4095))
}
