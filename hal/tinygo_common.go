//go:build tinygo && baremetal && rp2040

package hal

import (
	"errors"
	"machine"

	uartx "github.com/jangala-dev/tinygo-uartx/uartx"
)

var crlf = []byte("\r\n")

// uartLogger writes CRLF-terminated lines to the debug UART.
type uartLogger struct {
	uart *uartx.UART
}

func (l *uartLogger) WriteLineString(s string) {
	l.uart.Write([]byte(s))
	l.uart.Write(crlf)
}

func (l *uartLogger) WriteLineBytes(b []byte) {
	l.uart.Write(b)
	l.uart.Write(crlf)
}

type pwmDevice interface {
	Configure(config machine.PWMConfig) error
	Channel(pin machine.Pin) (uint8, error)
	Top() uint32
	Set(channel uint8, value uint32)
}

var pwmSlices = [...]pwmDevice{
	machine.PWM0, machine.PWM1, machine.PWM2, machine.PWM3,
	machine.PWM4, machine.PWM5, machine.PWM6, machine.PWM7,
}

func pwmForPin(pin machine.Pin) pwmDevice {
	slice, err := machine.PWMPeripheral(pin)
	if err != nil || int(slice) >= len(pwmSlices) {
		return nil
	}
	return pwmSlices[slice]
}

// pwmLED is one LED channel on a PWM slice. Two pins of a slice share its
// frequency.
type pwmLED struct {
	pin machine.Pin
	pwm pwmDevice
	ch  uint8
	top uint32
	hw  uint32
}

func newPWMLED(pin machine.Pin) *pwmLED {
	pwm := pwmForPin(pin)
	if pwm == nil {
		return nil
	}
	return &pwmLED{pin: pin, pwm: pwm}
}

func (l *pwmLED) Configure(freqHz, top uint32) error {
	if freqHz == 0 || top == 0 {
		return errors.New("pwm: invalid config")
	}
	if err := l.pwm.Configure(machine.PWMConfig{Period: uint64(1e9 / freqHz)}); err != nil {
		return err
	}
	ch, err := l.pwm.Channel(l.pin)
	if err != nil {
		return err
	}
	l.ch = ch
	l.top = top
	l.hw = l.pwm.Top()
	l.pwm.Set(l.ch, 0)
	return nil
}

// Set rescales duty out of top onto the slice's counter top.
func (l *pwmLED) Set(duty uint32) error {
	if l.top == 0 {
		return errors.New("pwm: not configured")
	}
	duty = min(duty, l.top)
	l.pwm.Set(l.ch, uint32(uint64(duty)*uint64(l.hw)/uint64(l.top)))
	return nil
}
