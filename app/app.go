// Package app is the lamp firmware: it wires the panel, touch controller
// and LED outputs of a HAL to the UI state machine and runs the control
// loop one tick at a time.
package app

import (
	"errors"
	"fmt"
	"time"

	"touchlamp/drivers/ili9341"
	"touchlamp/drivers/spibus"
	"touchlamp/drivers/xpt2046"
	"touchlamp/hal"
	"touchlamp/lamp"
	"touchlamp/lamp/fonts"
	"touchlamp/lamp/led"
	"touchlamp/lamp/ui"
)

type Config struct {
	Title    string
	Greeting string

	Calibration      xpt2046.Calibration
	InvertX, InvertY bool
	Threshold        int

	// Period is the loop period on boards that pace themselves.
	Period time.Duration
	// Sleep is used for the panel reset delays. Nil selects time.Sleep.
	Sleep func(time.Duration)
}

func DefaultConfig() Config {
	return Config{
		Title:       "Emma's DT lamp!",
		Greeting:    "Hello Emma!",
		Calibration: xpt2046.DefaultCalibration(),
		Threshold:   xpt2046.DefaultThreshold,
		Period:      10 * time.Millisecond,
	}
}

var errNoDisplay = errors.New("app: no display")

// Controller owns the lamp's peripherals and state.
type Controller struct {
	cfg   Config
	log   hal.Logger
	state *lamp.State

	dbus    *spibus.Bus
	tbus    *spibus.Bus
	display *ili9341.Device
	touch   *xpt2046.Device
	pwms    [lamp.NumChannels]hal.PWM
	leds    *led.Driver
	ui      *ui.Machine

	stopCommands func()
}

// NewController builds the drivers on h. Nothing is sent to the hardware
// until Start.
func NewController(h hal.HAL, state *lamp.State, cfg Config) (*Controller, error) {
	dp, tp := h.Display(), h.Touch()
	if dp.SPI == nil {
		return nil, errNoDisplay
	}
	if tp.SPI == nil {
		return nil, errors.New("app: no touch controller")
	}

	c := &Controller{cfg: cfg, log: h.Logger(), state: state, pwms: h.LEDs()}
	c.dbus = spibus.New(dp.SPI, spibus.Config{DC: dp.DC})
	c.display = ili9341.New(c.dbus, ili9341.Pins{
		Reset:     dp.Reset,
		Backlight: dp.Backlight,
		CS:        dp.CS,
	}, ili9341.Config{Sleep: cfg.Sleep})

	if tp.CS != nil {
		tp.CS.Set(false)
	}
	c.tbus = spibus.New(tp.SPI, spibus.Config{QueueSize: xpt2046.QueueSize})
	touch, err := xpt2046.New(c.tbus, xpt2046.Config{
		Width:       ili9341.Width,
		Height:      ili9341.Height,
		InvertX:     cfg.InvertX,
		InvertY:     cfg.InvertY,
		Threshold:   cfg.Threshold,
		Calibration: cfg.Calibration,
	})
	if err != nil {
		c.Close()
		return nil, err
	}
	c.touch = touch

	var outs [lamp.NumChannels]led.PWM
	for i, p := range c.pwms {
		if p != nil {
			outs[i] = p
		}
	}
	c.leds = led.New(outs)
	c.ui = ui.New(c.display, state, ui.Config{
		Title:    cfg.Title,
		Greeting: cfg.Greeting,
		Label:    fonts.Small,
		Heading:  fonts.Large,
	})
	return c, nil
}

func (c *Controller) State() *lamp.State { return c.state }

func (c *Controller) UI() *ui.Machine { return c.ui }

func (c *Controller) Display() *ili9341.Device { return c.display }

func (c *Controller) LEDs() *led.Driver { return c.leds }

// Start brings the panel up, zeroes the lamp and shows the whites screen.
func (c *Controller) Start() error {
	for i, p := range c.pwms {
		if p == nil {
			continue
		}
		if err := p.Configure(led.FrequencyHz, led.MaxDuty); err != nil {
			return fmt.Errorf("app: led %s: %w", lamp.Channel(i), err)
		}
	}
	if err := c.display.Initialize(); err != nil {
		return err
	}
	bootScreen(c.display, "starting")
	if err := c.display.Clear(ili9341.Black); err != nil {
		return err
	}
	c.state.Reset()
	c.display.SetFont(fonts.Small)
	c.display.SetTextDrawMode(ili9341.DrawModeAnyCharBar)
	return c.ui.SetMode(ui.ModeWhites)
}

// Tick runs one pass of the loop: sample the touch controller, feed the
// UI, repaint if a redraw is pending, then drive the backlight and LEDs.
func (c *Controller) Tick() error {
	raw, touched, err := c.touch.Sample()
	if err != nil {
		return err
	}
	if touched {
		x, y := c.touch.ConvertRawToScreen(raw.X, raw.Y)
		if err := touchOverlay(c.display, raw, x, y); err != nil {
			return err
		}
		if err := c.ui.HandleTouch(x, y); err != nil {
			return err
		}
	} else {
		c.ui.Release()
	}

	if err := c.ui.Render(); err != nil {
		return err
	}

	snap := c.state.Snapshot()
	if c.display.Backlight() == snap.Off {
		if err := c.display.SetBacklight(!snap.Off); err != nil {
			return err
		}
	}
	return c.leds.Apply(snap)
}

// Close stops the command channel and the bus workers.
func (c *Controller) Close() error {
	if c.stopCommands != nil {
		c.stopCommands()
		c.stopCommands = nil
	}
	var errs []error
	if c.dbus != nil {
		errs = append(errs, c.dbus.Close())
	}
	if c.tbus != nil {
		errs = append(errs, c.tbus.Close())
	}
	return errors.Join(errs...)
}

// fail logs err, darkens the LEDs and puts the error on the panel.
func (c *Controller) fail(err error) {
	c.log.WriteLineString("touchlamp: fatal: " + err.Error())
	for _, p := range c.pwms {
		if p != nil {
			_ = p.Set(0)
		}
	}
	if c.display == nil {
		return
	}
	if ferr := showFatal(c.display, err); ferr != nil {
		c.log.WriteLineString("touchlamp: fatal screen: " + ferr.Error())
	}
}

// New builds and starts the firmware on h and returns its loop step. The
// first error is fatal: it is reported once and then returned by every
// later step.
func New(h hal.HAL, cfg Config) func() error {
	state := lamp.NewState()
	c, err := NewController(h, state, cfg)
	if err != nil {
		h.Logger().WriteLineString("touchlamp: " + err.Error())
		return func() error { return err }
	}
	if err := c.Start(); err != nil {
		c.fail(err)
		return func() error { return err }
	}
	startCommands(c, h)

	var failed error
	return func() error {
		if failed != nil {
			return failed
		}
		if err := c.Tick(); err != nil {
			failed = err
			c.fail(err)
			return err
		}
		return nil
	}
}

// Run starts the firmware with the default config and loops forever.
func Run(h hal.HAL) {
	RunWithConfig(h, DefaultConfig())
}

// RunWithConfig loops at cfg.Period. After a fatal error it halts.
func RunWithConfig(h hal.HAL, cfg Config) {
	step := New(h, cfg)
	for {
		if err := step(); err != nil {
			select {}
		}
		time.Sleep(cfg.Period)
	}
}
