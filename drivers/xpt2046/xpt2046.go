// Package xpt2046 samples an XPT2046 resistive touch controller.
//
// One exchange reads both pressure plates and three X and Y conversions.
// The first X conversion only settles the ADC and is thrown away; the
// position is the mean of the two closest remaining readings.
package xpt2046

import (
	"errors"
	"fmt"

	"tinygo.org/x/drivers/touch"

	"touchlamp/drivers/spibus"
	"touchlamp/internal/mathx"
)

var ErrCalibration = errors.New("xpt2046: invalid calibration")

const (
	// DefaultThreshold is the minimum pressure counted as a touch.
	DefaultThreshold = 400
	// QueueSize is the bus queue depth the controller is set up with.
	QueueSize = 10

	maxRaw = 0x0FFF
)

// Control bytes: z1, z2, x (settling), x, y, x, y, x, y and power down.
var sampleCommand = [...]byte{
	0xB1, 0x00, 0xC1, 0x00, 0xD1, 0x00, 0xD1, 0x00, 0x91, 0x00,
	0xD1, 0x00, 0x91, 0x00, 0xD1, 0x00, 0x90, 0x00, 0x00,
}

// Response offsets of each conversion.
const (
	offZ1 = 1
	offZ2 = 3
)

var (
	offX = [3]int{7, 11, 15}
	offY = [3]int{9, 13, 17}
)

// RawSample is a filtered reading in ADC units.
type RawSample struct {
	X, Y int
	Z    int
}

// Calibration is the raw span matching the screen edges.
type Calibration struct {
	XMin, XMax int
	YMin, YMax int
}

// DefaultCalibration suits the 2.8" panels the lamp ships with.
func DefaultCalibration() Calibration {
	return Calibration{XMin: 220, XMax: 3800, YMin: 250, YMax: 3700}
}

func (c Calibration) Validate() error {
	if c.XMin >= c.XMax {
		return fmt.Errorf("%w: x range %d..%d", ErrCalibration, c.XMin, c.XMax)
	}
	if c.YMin >= c.YMax {
		return fmt.Errorf("%w: y range %d..%d", ErrCalibration, c.YMin, c.YMax)
	}
	return nil
}

type Config struct {
	// Width and Height are the screen size in pixels. Zero selects 240x320.
	Width, Height int
	// InvertX and InvertY mirror panels wired the other way round.
	InvertX, InvertY bool
	// Threshold defaults to DefaultThreshold.
	Threshold int
	// Calibration defaults to DefaultCalibration.
	Calibration Calibration
}

type Device struct {
	bus *spibus.Bus
	cfg Config
	rx  [len(sampleCommand)]byte
	err error
}

// New returns a Device sampling over bus.
func New(bus *spibus.Bus, cfg Config) (*Device, error) {
	if cfg.Width <= 0 {
		cfg.Width = 240
	}
	if cfg.Height <= 0 {
		cfg.Height = 320
	}
	if cfg.Threshold <= 0 {
		cfg.Threshold = DefaultThreshold
	}
	if cfg.Calibration == (Calibration{}) {
		cfg.Calibration = DefaultCalibration()
	}
	if err := cfg.Calibration.Validate(); err != nil {
		return nil, err
	}
	return &Device{bus: bus, cfg: cfg}, nil
}

// SetCalibration replaces the raw span. It is meant to be called once,
// before sampling starts.
func (d *Device) SetCalibration(c Calibration) error {
	if err := c.Validate(); err != nil {
		return err
	}
	d.cfg.Calibration = c
	return nil
}

func (d *Device) Calibration() Calibration { return d.cfg.Calibration }

func decode(p []byte) int {
	return (int(p[0])<<5 | int(p[1])>>3) & maxRaw
}

// Sample runs one exchange. A press lighter than the threshold is reported
// as not touched with a zero sample.
func (d *Device) Sample() (RawSample, bool, error) {
	d.bus.Acquire()
	err := d.bus.Exchange(sampleCommand[:], d.rx[:])
	d.bus.Release()
	if err != nil {
		return RawSample{}, false, fmt.Errorf("xpt2046: sample: %w", err)
	}

	z1 := decode(d.rx[offZ1:])
	z2 := decode(d.rx[offZ2:])
	// A z1 in the upper half comes with garbage positions.
	if z1 >= 2048 {
		z1 = 0
	}
	z := maxRaw + z1 - z2
	if z < d.cfg.Threshold {
		return RawSample{}, false, nil
	}

	var xs, ys [3]int
	for i := range xs {
		xs[i] = decode(d.rx[offX[i]:])
		ys[i] = decode(d.rx[offY[i]:])
	}
	x := Best(xs[0], xs[1], xs[2])
	y := Best(ys[0], ys[1], ys[2])
	if d.cfg.InvertX {
		x = maxRaw - x
	}
	if d.cfg.InvertY {
		y = maxRaw - y
	}
	return RawSample{X: x, Y: y, Z: z}, true, nil
}

// Best averages the two closest of three readings. Ties go to a/b, then
// c/a, then b/c.
func Best(a, b, c int) int {
	ab, ca, bc := mathx.Abs(a-b), mathx.Abs(c-a), mathx.Abs(c-b)
	switch {
	case ab <= ca && ab <= bc:
		return (a + b) >> 1
	case ca <= ab && ca <= bc:
		return (a + c) >> 1
	default:
		return (b + c) >> 1
	}
}

// ConvertRawToScreen maps raw readings to pixels. Readings outside the
// calibrated span land off screen; callers hit-test, so nothing is clamped.
func (d *Device) ConvertRawToScreen(rawX, rawY int) (x, y int) {
	c := d.cfg.Calibration
	kx := float32(rawX-c.XMin) / float32(c.XMax-c.XMin)
	ky := float32(rawY-c.YMin) / float32(c.YMax-c.YMin)
	return int(kx * float32(d.cfg.Width)), int(ky * float32(d.cfg.Height))
}

// ReadTouchPoint implements touch.Pointer. Z is zero when nothing is
// pressed or the exchange failed; Err reports the failure.
func (d *Device) ReadTouchPoint() touch.Point {
	s, ok, err := d.Sample()
	if err != nil {
		if d.err == nil {
			d.err = err
		}
		return touch.Point{}
	}
	if !ok {
		return touch.Point{}
	}
	x, y := d.ConvertRawToScreen(s.X, s.Y)
	return touch.Point{X: x, Y: y, Z: s.Z}
}

// Err returns and clears the first error ReadTouchPoint swallowed.
func (d *Device) Err() error {
	err := d.err
	d.err = nil
	return err
}
