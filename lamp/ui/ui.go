// Package ui is the lamp's touch screen state machine.
//
// A touch press is handled on its first sample only: that sample is
// hit-tested and may switch mode, turn the lamp off or latch a control.
// Later samples of the same press only drag the latched control, until
// Release is called for a sample with no touch.
package ui

import (
	"fmt"

	"touchlamp/drivers/gfxfont"
	"touchlamp/drivers/ili9341"
	"touchlamp/internal/mathx"
	"touchlamp/lamp"
)

// Screen is what the UI draws on. *ili9341.Device satisfies it.
type Screen interface {
	DrawBar(x, y, w, h int16, c ili9341.Color) error
	Clear(c ili9341.Color) error
	SetFont(f *gfxfont.Font) *gfxfont.Font
	SetTextBackgroundColor(c ili9341.Color) ili9341.Color
	DrawTextAtXY(text string, x, y int16, pos ili9341.TextPosition) error
}

type Mode uint8

const (
	ModeNone Mode = iota
	ModeWhites
	ModeColor
)

func (m Mode) String() string {
	switch m {
	case ModeWhites:
		return "whites"
	case ModeColor:
		return "color"
	}
	return "none"
}

// Control is the draggable control latched by the current press.
type Control uint8

const (
	ControlNone Control = iota
	ControlWhites
	ControlRed
	ControlGreen
	ControlBlue
)

func (c Control) String() string {
	switch c {
	case ControlWhites:
		return "whites"
	case ControlRed:
		return "red"
	case ControlGreen:
		return "green"
	case ControlBlue:
		return "blue"
	}
	return "none"
}

type Config struct {
	Title    string
	Greeting string
	// Label is the button font, Heading the title font.
	Label   *gfxfont.Font
	Heading *gfxfont.Font
}

type Machine struct {
	screen Screen
	state  *lamp.State
	cfg    Config

	mode    Mode
	pressed bool
	control Control
}

// New returns a Machine in ModeNone. Nothing is drawn until SetMode or
// Render.
func New(screen Screen, state *lamp.State, cfg Config) *Machine {
	return &Machine{screen: screen, state: state, cfg: cfg}
}

func (m *Machine) Mode() Mode { return m.mode }

// Pressed reports whether a press is latched.
func (m *Machine) Pressed() bool { return m.pressed }

func (m *Machine) Control() Control { return m.control }

// Release ends the current press.
func (m *Machine) Release() {
	m.pressed = false
}

// SetMode switches mode and redraws. Setting the current mode again draws
// nothing.
func (m *Machine) SetMode(mode Mode) error {
	if mode == m.mode {
		return nil
	}
	m.mode = mode
	return m.DrawScreen()
}

// HandleTouch processes one touched sample at screen position (x, y).
func (m *Machine) HandleTouch(x, y int) error {
	if !m.pressed {
		if err := m.press(x, y); err != nil {
			return err
		}
	}
	if m.pressed {
		m.drag(x, y)
	}
	return nil
}

func (m *Machine) press(x, y int) error {
	m.control = ControlNone

	// Waking up consumes the press.
	if m.state.Off() {
		m.pressed = true
		m.state.SetOff(false)
		m.state.RequestRedraw()
		return nil
	}

	switch {
	case WhiteButton.Contains(x, y):
		m.pressed = true
		return m.SetMode(ModeWhites)
	case OffButton.Contains(x, y):
		m.pressed = true
		m.state.SetOff(true)
		if err := m.screen.Clear(ili9341.Black); err != nil {
			return fmt.Errorf("ui: off: %w", err)
		}
	case ColourButton.Contains(x, y):
		m.pressed = true
		return m.SetMode(ModeColor)
	case m.mode == ModeWhites:
		// Anywhere off the top bar works the pad; drag clamps.
		m.pressed = true
		m.control = ControlWhites
	case m.mode == ModeColor:
		for _, s := range sliders {
			if s.button.Contains(x, y) {
				m.pressed = true
				m.control = s.control
				break
			}
		}
	}
	return nil
}

var sliders = [...]struct {
	button  Button
	control Control
	channel lamp.Channel
}{
	{RedSlider, ControlRed, lamp.Red},
	{GreenSlider, ControlGreen, lamp.Green},
	{BlueSlider, ControlBlue, lamp.Blue},
}

func (m *Machine) drag(x, y int) {
	switch m.control {
	case ControlWhites:
		p := WhitesPad
		m.state.SetBrightness(lamp.WarmWhite, mathx.InvLerp(x, int(p.Left), int(p.Left+p.Width)))
		m.state.SetBrightness(lamp.NaturalWhite, 1-mathx.InvLerp(y, int(p.Top), int(p.Top+p.Height)))
	case ControlRed, ControlGreen, ControlBlue:
		for _, s := range sliders {
			if s.control == m.control {
				b := s.button
				m.state.SetBrightness(s.channel, mathx.InvLerp(x, int(b.Left), int(b.Left+b.Width)))
			}
		}
	}
}

// DrawScreen paints the headings, the current mode's controls and the top
// bar over whatever is on the panel.
func (m *Machine) DrawScreen() error {
	prev := m.screen.SetFont(m.cfg.Heading)
	defer m.screen.SetFont(prev)

	if err := m.screen.DrawTextAtXY(m.cfg.Title, 0, titleY, ili9341.PositionLeft); err != nil {
		return fmt.Errorf("ui: draw title: %w", err)
	}
	if err := m.screen.DrawTextAtXY(m.cfg.Greeting, 0, greetingY, ili9341.PositionLeft); err != nil {
		return fmt.Errorf("ui: draw greeting: %w", err)
	}

	switch m.mode {
	case ModeWhites:
		if err := m.drawButton(WhitesPad); err != nil {
			return err
		}
	case ModeColor:
		// The pad overlaps the sliders; blank it and the slider band.
		blank := WhitesPad
		blank.Color = ili9341.Black
		if err := m.drawButton(blank); err != nil {
			return err
		}
		band := BlueSlider.Top + BlueSlider.Height
		if err := m.screen.DrawBar(0, RedSlider.Top, ili9341.Width, band, ili9341.Black); err != nil {
			return fmt.Errorf("ui: blank sliders: %w", err)
		}
		for _, s := range sliders {
			if err := m.drawButton(s.button); err != nil {
				return err
			}
		}
	}

	for _, b := range [...]Button{WhiteButton, OffButton, ColourButton} {
		if err := m.drawButton(b); err != nil {
			return err
		}
	}
	return nil
}

// drawButton fills b and centres its label in the label font, leaving the
// screen's font and text background as they were.
func (m *Machine) drawButton(b Button) error {
	prevFont := m.screen.SetFont(m.cfg.Label)
	defer m.screen.SetFont(prevFont)

	if err := m.screen.DrawBar(b.Left, b.Top, b.Width, b.Height, b.Color); err != nil {
		return fmt.Errorf("ui: draw button %q: %w", b.Text, err)
	}
	if b.Text == "" {
		return nil
	}
	prevBg := m.screen.SetTextBackgroundColor(b.Color)
	defer m.screen.SetTextBackgroundColor(prevBg)
	if err := m.screen.DrawTextAtXY(b.Text, b.Left+b.Width/2, b.Top+labelBaseline, ili9341.PositionCentre); err != nil {
		return fmt.Errorf("ui: label %q: %w", b.Text, err)
	}
	return nil
}

// Render repaints after a power change: a blank panel while off, the full
// screen otherwise. It does nothing when no redraw is pending.
func (m *Machine) Render() error {
	if !m.state.TakeOffChanged() {
		return nil
	}
	if m.state.Off() {
		if err := m.screen.Clear(ili9341.Black); err != nil {
			return fmt.Errorf("ui: blank: %w", err)
		}
		return nil
	}
	return m.DrawScreen()
}
