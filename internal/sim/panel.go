package sim

import (
	"fmt"
	"sync"
)

const (
	panelSLPOUT = 0x11
	panelDISPON = 0x29
	panelCASET  = 0x2A
	panelPASET  = 0x2B
	panelRAMWR  = 0x2C
)

// Command is one decoded command and the data bytes that followed it.
// Memory write payloads are not kept.
type Command struct {
	Cmd  byte
	Data []byte
}

// Panel is an ILI9341-style controller behind an SPI bus. It keeps native
// RGB565 pixels.
type Panel struct {
	mu     sync.Mutex
	width  int
	height int
	fb     []uint16

	dc        *Pin
	backlight *Pin
	reset     *Pin

	cmd    byte
	args   []byte
	x0, x1 int
	y0, y1 int
	cx, cy int
	hi     byte
	half   bool

	log      []Command
	written  int
	awake    bool
	on       bool
	txErr    error
	txFailAt int
}

func NewPanel(width, height int) *Panel {
	return &Panel{
		width:     width,
		height:    height,
		fb:        make([]uint16, width*height),
		dc:        NewPin("DC"),
		backlight: NewPin("BL"),
		reset:     NewPin("RST"),
		x1:        width - 1,
		y1:        height - 1,
	}
}

func (p *Panel) DC() *Pin        { return p.dc }
func (p *Panel) Backlight() *Pin { return p.backlight }
func (p *Panel) Reset() *Pin     { return p.reset }

func (p *Panel) Size() (w, h int) { return p.width, p.height }

// FailAfter makes the n-th following Tx call, and every one after it,
// return err.
func (p *Panel) FailAfter(n int, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.txFailAt = n
	p.txErr = err
}

// Tx implements drivers.SPI. Bytes are commands while DC is low and data
// while it is high.
func (p *Panel) Tx(w, r []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.txErr != nil {
		if p.txFailAt <= 0 {
			return p.txErr
		}
		p.txFailAt--
	}

	data := p.dc.Get()
	for _, b := range w {
		if data {
			p.data(b)
		} else {
			p.command(b)
		}
	}
	for i := range r {
		r[i] = 0
	}
	return nil
}

func (p *Panel) Transfer(b byte) (byte, error) {
	return 0, p.Tx([]byte{b}, nil)
}

func (p *Panel) command(b byte) {
	p.cmd = b
	p.args = p.args[:0]
	p.half = false
	p.log = append(p.log, Command{Cmd: b})
	switch b {
	case panelRAMWR:
		p.cx, p.cy = p.x0, p.y0
	case panelSLPOUT:
		p.awake = true
	case panelDISPON:
		p.on = true
	}
}

func (p *Panel) data(b byte) {
	switch p.cmd {
	case panelRAMWR:
		if !p.half {
			p.hi = b
			p.half = true
			return
		}
		p.half = false
		p.pixel(uint16(p.hi)<<8 | uint16(b))
		return
	case panelCASET, panelPASET:
		p.args = append(p.args, b)
		if len(p.args) == 4 {
			start := int(p.args[0])<<8 | int(p.args[1])
			end := int(p.args[2])<<8 | int(p.args[3])
			if p.cmd == panelCASET {
				p.x0, p.x1 = start, end
			} else {
				p.y0, p.y1 = start, end
			}
		}
	}
	if n := len(p.log); n > 0 {
		p.log[n-1].Data = append(p.log[n-1].Data, b)
	}
}

func (p *Panel) pixel(c uint16) {
	if p.cx >= 0 && p.cx < p.width && p.cy >= 0 && p.cy < p.height {
		p.fb[p.cy*p.width+p.cx] = c
	}
	p.written++
	p.cx++
	if p.cx > p.x1 {
		p.cx = p.x0
		p.cy++
		if p.cy > p.y1 {
			p.cy = p.y0
		}
	}
}

// Pixel returns the RGB565 value at (x, y).
func (p *Panel) Pixel(x, y int) uint16 {
	p.mu.Lock()
	defer p.mu.Unlock()
	if x < 0 || y < 0 || x >= p.width || y >= p.height {
		return 0
	}
	return p.fb[y*p.width+x]
}

// Count returns how many pixels inside the rectangle equal c.
func (p *Panel) Count(x, y, w, h int, c uint16) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for yy := max(y, 0); yy < min(y+h, p.height); yy++ {
		for xx := max(x, 0); xx < min(x+w, p.width); xx++ {
			if p.fb[yy*p.width+xx] == c {
				n++
			}
		}
	}
	return n
}

// Snapshot copies the frame into dst, which must hold width*height values.
func (p *Panel) Snapshot(dst []uint16) {
	p.mu.Lock()
	defer p.mu.Unlock()
	copy(dst, p.fb)
}

// Window returns the current address window, inclusive.
func (p *Panel) Window() (x0, y0, x1, y1 int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.x0, p.y0, p.x1, p.y1
}

// Commands returns the decoded command log.
func (p *Panel) Commands() []Command {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Command, len(p.log))
	for i, c := range p.log {
		out[i] = Command{Cmd: c.Cmd, Data: append([]byte(nil), c.Data...)}
	}
	return out
}

// ResetLog clears the command log and the written pixel counter.
func (p *Panel) ResetLog() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.log = nil
	p.written = 0
}

// Written counts pixels received through memory writes.
func (p *Panel) Written() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.written
}

// Ready reports whether sleep-out and display-on were received.
func (p *Panel) Ready() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.awake && p.on
}

func (p *Panel) String() string {
	return fmt.Sprintf("sim.Panel(%dx%d)", p.width, p.height)
}
