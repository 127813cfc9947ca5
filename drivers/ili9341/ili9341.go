// Package ili9341 drives an ILI9341 240x320 TFT over a queued SPI bus.
//
// No framebuffer is kept: every primitive programs the address window and
// streams pixels straight to panel memory.
package ili9341

import (
	"errors"
	"fmt"
	"image/color"
	"time"

	"tinygo.org/x/drivers"

	"touchlamp/drivers/gfxfont"
	"touchlamp/drivers/spibus"
)

var (
	ErrBufferSize = errors.New("ili9341: pixel buffer size mismatch")
	ErrRotation   = errors.New("ili9341: unsupported rotation")
)

const (
	barChunkPixels   = 512
	maxTransferBytes = 4096
	resetDelay       = 100 * time.Millisecond
	commandDelay     = 100 * time.Millisecond
)

// Pins are the control lines besides the bus and its D/C strobe.
type Pins struct {
	Reset     spibus.Pin
	Backlight spibus.Pin
	// CS is optional. The panel owns its bus, so it stays selected.
	CS spibus.Pin
}

// Config tunes a Device.
type Config struct {
	// Sleep defaults to time.Sleep.
	Sleep func(time.Duration)
}

// Device is an initialized panel plus its text drawing state.
type Device struct {
	bus   *spibus.Bus
	pins  Pins
	sleep func(time.Duration)

	// Queued transactions reference these until the next wait.
	col     [4]byte
	page    [4]byte
	px      [2]byte
	scratch [barChunkPixels * 2]byte

	backlight bool
	err       error

	font *gfxfont.Font
	fg   Color
	bg   Color
	mode DrawMode
}

// New returns a Device on bus. Call Initialize before drawing.
func New(bus *spibus.Bus, pins Pins, cfg Config) *Device {
	sleep := cfg.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}
	return &Device{
		bus:   bus,
		pins:  pins,
		sleep: sleep,
		fg:    White,
		bg:    Black,
		mode:  DrawModeThisCharBar,
	}
}

// Initialize resets the panel, runs the init sequence and turns the
// backlight on.
func (d *Device) Initialize() error {
	if d.pins.CS != nil {
		d.pins.CS.Set(false)
	}
	if d.pins.Reset != nil {
		d.pins.Reset.Set(true)
		d.sleep(resetDelay)
		d.pins.Reset.Set(false)
		d.sleep(resetDelay)
		d.pins.Reset.Set(true)
		d.sleep(resetDelay)
	}

	d.bus.Acquire()
	err := d.runInit(initSequence)
	d.bus.Release()
	if err != nil {
		return err
	}
	return d.SetBacklight(true)
}

func (d *Device) runInit(seq []byte) error {
	for i := 0; i+1 < len(seq); {
		cmd, count := seq[i], seq[i+1]
		if count == initEnd {
			return nil
		}
		n := int(count & initCount)
		if i+2+n > len(seq) {
			return fmt.Errorf("ili9341: init sequence truncated at command %#02x", cmd)
		}
		if err := d.bus.SendCommand(cmd); err != nil {
			return fmt.Errorf("ili9341: init command %#02x: %w", cmd, err)
		}
		if err := d.bus.SendData(seq[i+2 : i+2+n]); err != nil {
			return fmt.Errorf("ili9341: init data for %#02x: %w", cmd, err)
		}
		if count&initDelay != 0 {
			d.sleep(commandDelay)
		}
		i += 2 + n
	}
	return errors.New("ili9341: init sequence missing terminator")
}

// SetBacklight switches the backlight pin.
func (d *Device) SetBacklight(on bool) error {
	d.backlight = on
	if d.pins.Backlight != nil {
		d.pins.Backlight.Set(on)
	}
	return nil
}

// Backlight reports the last backlight state set.
func (d *Device) Backlight() bool { return d.backlight }

// Size implements drivers.Displayer.
func (d *Device) Size() (x, y int16) { return Width, Height }

// queue enqueues t, draining the bus first when the queue is full.
func (d *Device) queue(t spibus.Transaction) error {
	err := d.bus.Enqueue(t)
	if errors.Is(err, spibus.ErrQueueFull) {
		if err := d.bus.WaitForAll(); err != nil {
			return err
		}
		err = d.bus.Enqueue(t)
	}
	return err
}

// SetColumnAddresses selects columns x..x+w-1. The range is queued; it is
// on the wire after the next wait.
func (d *Device) SetColumnAddresses(x, w int16) error {
	return d.setRange(CASET, d.col[:], x, w)
}

// SetPageAddresses selects rows y..y+h-1.
func (d *Device) SetPageAddresses(y, h int16) error {
	return d.setRange(PASET, d.page[:], y, h)
}

func (d *Device) setRange(cmd byte, buf []byte, start, n int16) error {
	end := uint16(start) + uint16(n) - 1
	buf[0] = byte(uint16(start) >> 8)
	buf[1] = byte(start)
	buf[2] = byte(end >> 8)
	buf[3] = byte(end)
	if err := d.queue(spibus.Command(cmd)); err != nil {
		return err
	}
	return d.queue(spibus.Data(buf))
}

func (d *Device) setWindow(x, y, w, h int16) error {
	// The window buffers may still be queued from the previous draw.
	if err := d.bus.WaitForAll(); err != nil {
		return err
	}
	if err := d.SetColumnAddresses(x, w); err != nil {
		return err
	}
	if err := d.SetPageAddresses(y, h); err != nil {
		return err
	}
	return d.queue(spibus.Command(RAMWR))
}

// DrawPixelsMSBFirst streams w*h pixels already in wire byte order (two
// bytes per pixel, high byte first). The transfers are only queued: call
// Wait before reusing pixels. Parts outside the panel are clipped.
func (d *Device) DrawPixelsMSBFirst(x, y, w, h int16, pixels []byte) error {
	if w <= 0 || h <= 0 {
		return nil
	}
	if len(pixels) != int(w)*int(h)*2 {
		return fmt.Errorf("%w: %d bytes for %dx%d", ErrBufferSize, len(pixels), w, h)
	}
	cx, cy, cw, ch, ok := clip(x, y, w, h)
	if !ok {
		return nil
	}
	if cx != x || cy != y || cw != w || ch != h {
		pixels = crop(pixels, int(w), int(cx-x), int(cy-y), int(cw), int(ch))
	}

	d.bus.Acquire()
	defer d.bus.Release()
	if err := d.drawPixels(cx, cy, cw, ch, pixels); err != nil {
		return fmt.Errorf("ili9341: draw pixels: %w", err)
	}
	return nil
}

func (d *Device) drawPixels(x, y, w, h int16, pixels []byte) error {
	if err := d.setWindow(x, y, w, h); err != nil {
		return err
	}
	for len(pixels) > 0 {
		n := min(len(pixels), maxTransferBytes)
		if err := d.queue(spibus.Data(pixels[:n])); err != nil {
			return err
		}
		pixels = pixels[n:]
	}
	return nil
}

// Wait blocks until every queued transfer is on the wire.
func (d *Device) Wait() error {
	if err := d.bus.WaitForAll(); err != nil {
		return fmt.Errorf("ili9341: %w", err)
	}
	return nil
}

// DrawBar fills a rectangle with c, streaming a small scratch buffer
// repeatedly instead of allocating w*h pixels. It owns the bus for the whole
// rectangle.
func (d *Device) DrawBar(x, y, w, h int16, c Color) error {
	if w <= 0 || h <= 0 {
		return nil
	}
	x, y, w, h, ok := clip(x, y, w, h)
	if !ok {
		return nil
	}

	d.bus.Acquire()
	defer d.bus.Release()

	total := int(w) * int(h)
	fill := min(total, barChunkPixels)
	for i := 0; i < fill; i++ {
		d.scratch[2*i] = c.hi()
		d.scratch[2*i+1] = c.lo()
	}

	if err := d.setWindow(x, y, w, h); err != nil {
		return fmt.Errorf("ili9341: draw bar: %w", err)
	}
	for total > 0 {
		n := min(total, barChunkPixels)
		if err := d.queue(spibus.Data(d.scratch[:2*n])); err != nil {
			return fmt.Errorf("ili9341: draw bar: %w", err)
		}
		if err := d.bus.WaitForAll(); err != nil {
			return fmt.Errorf("ili9341: draw bar: %w", err)
		}
		total -= n
	}
	return nil
}

// FillRectangle implements the tinygo drivers filling contract on top of
// DrawBar.
func (d *Device) FillRectangle(x, y, w, h int16, c color.RGBA) error {
	return d.DrawBar(x, y, w, h, FromRGBA(c))
}

// SetRotation only accepts the portrait orientation set up by the init
// sequence.
func (d *Device) SetRotation(r drivers.Rotation) error {
	if r != drivers.Rotation0 {
		return fmt.Errorf("%w: %d", ErrRotation, r)
	}
	return nil
}

func (d *Device) Rotation() drivers.Rotation { return drivers.Rotation0 }

// SetScroll sets the vertical scroll start line.
func (d *Device) SetScroll(line int16) error {
	d.bus.Acquire()
	defer d.bus.Release()
	buf := []byte{byte(uint16(line) >> 8), byte(line)}
	err := d.queue(spibus.Command(VSCRSADD))
	if err == nil {
		err = d.queue(spibus.Data(buf))
	}
	if werr := d.bus.WaitForAll(); err == nil {
		err = werr
	}
	if err != nil {
		return fmt.Errorf("ili9341: scroll: %w", err)
	}
	return nil
}

// Clear fills the whole panel.
func (d *Device) Clear(c Color) error {
	return d.DrawBar(0, 0, Width, Height, c)
}

// DrawPixel writes one pixel and waits for it.
func (d *Device) DrawPixel(x, y int16, c Color) error {
	if x < 0 || y < 0 || x >= Width || y >= Height {
		return nil
	}
	d.bus.Acquire()
	defer d.bus.Release()

	d.px[0] = c.hi()
	d.px[1] = c.lo()
	if err := d.drawPixels(x, y, 1, 1, d.px[:]); err != nil {
		return fmt.Errorf("ili9341: draw pixel: %w", err)
	}
	if err := d.bus.WaitForAll(); err != nil {
		return fmt.Errorf("ili9341: draw pixel: %w", err)
	}
	return nil
}

// SetPixel implements drivers.Displayer. Errors are kept for Display.
func (d *Device) SetPixel(x, y int16, c color.RGBA) {
	if err := d.DrawPixel(x, y, FromRGBA(c)); err != nil && d.err == nil {
		d.err = err
	}
}

// Display implements drivers.Displayer. Pixels are already on the panel;
// it reports the first error SetPixel swallowed.
func (d *Device) Display() error {
	err := d.err
	d.err = nil
	return err
}

// DrawGrid draws one-pixel lines every dx columns and dy rows.
func (d *Device) DrawGrid(dx, dy int16, c Color) error {
	if dx <= 0 || dy <= 0 {
		return nil
	}
	for y := int16(0); y < Height; y += dy {
		if err := d.DrawBar(0, y, Width, 1, c); err != nil {
			return err
		}
	}
	for x := int16(0); x < Width; x += dx {
		if err := d.DrawBar(x, 0, 1, Height, c); err != nil {
			return err
		}
	}
	return nil
}

// clip intersects a rectangle with the panel.
func clip(x, y, w, h int16) (cx, cy, cw, ch int16, ok bool) {
	x0, y0 := max(int(x), 0), max(int(y), 0)
	x1, y1 := min(int(x)+int(w), Width), min(int(y)+int(h), Height)
	if x0 >= x1 || y0 >= y1 {
		return 0, 0, 0, 0, false
	}
	return int16(x0), int16(y0), int16(x1 - x0), int16(y1 - y0), true
}

func crop(pixels []byte, stride, x, y, w, h int) []byte {
	out := make([]byte, 0, w*h*2)
	for row := y; row < y+h; row++ {
		off := (row*stride + x) * 2
		out = append(out, pixels[off:off+w*2]...)
	}
	return out
}
