package hal

import (
	"errors"
	"net"

	"tinygo.org/x/drivers"
)

// Logger writes newline-delimited log lines.
type Logger interface {
	WriteLineString(s string)
	WriteLineBytes(b []byte)
}

var ErrNotImplemented = errors.New("not implemented")

// NumLEDs is the number of PWM LED outputs, in lamp channel order: warm
// white, natural white, red, green, blue.
const NumLEDs = 5

// Pin is a digital output. machine.Pin satisfies it.
type Pin interface {
	Set(high bool)
}

// PWM is one LED output channel.
type PWM interface {
	// Configure sets the carrier frequency and the duty value meaning
	// always on.
	Configure(freqHz, top uint32) error
	Set(duty uint32) error
}

// DisplayPort is the wiring of the TFT panel.
type DisplayPort struct {
	SPI       drivers.SPI
	DC        Pin
	Reset     Pin
	Backlight Pin
	// CS is nil when chip select is tied low.
	CS Pin
}

// TouchPort is the wiring of the touch controller.
type TouchPort struct {
	SPI drivers.SPI
	CS  Pin
}

// Network provides the command channel listener (optional).
type Network interface {
	Listen() (net.Listener, error)
}

// HAL provides the only contact point between the firmware and the outside
// world.
type HAL interface {
	Logger() Logger
	Display() DisplayPort
	Touch() TouchPort
	LEDs() [NumLEDs]PWM
	Network() Network
}
