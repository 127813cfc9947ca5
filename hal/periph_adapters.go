//go:build !tinygo

package hal

import (
	"fmt"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
)

// PeriphSPI adapts a periph.io SPI connection to drivers.SPI. Transfers
// longer than the connection's limit are split.
type PeriphSPI struct {
	c     spi.Conn
	limit int
}

func NewPeriphSPI(c spi.Conn) *PeriphSPI {
	s := &PeriphSPI{c: c}
	if l, ok := c.(conn.Limits); ok {
		s.limit = l.MaxTxSize()
	}
	return s
}

// Tx implements drivers.SPI. A nil w clocks out zeros; a nil r discards
// what is read.
func (s *PeriphSPI) Tx(w, r []byte) error {
	if w == nil {
		w = make([]byte, len(r))
	}
	if r != nil && len(r) != len(w) {
		return fmt.Errorf("periph spi: tx %d bytes, rx %d bytes", len(w), len(r))
	}
	for len(w) > 0 {
		n := len(w)
		if s.limit > 0 {
			n = min(n, s.limit)
		}
		var rr []byte
		if r != nil {
			rr, r = r[:n], r[n:]
		}
		if err := s.c.Tx(w[:n], rr); err != nil {
			return fmt.Errorf("periph spi: %w", err)
		}
		w = w[n:]
	}
	return nil
}

// Transfer implements drivers.SPI.
func (s *PeriphSPI) Transfer(b byte) (byte, error) {
	var r [1]byte
	err := s.Tx([]byte{b}, r[:])
	return r[0], err
}

// PeriphPin adapts a periph.io output pin.
type PeriphPin struct {
	p gpio.PinOut
}

func NewPeriphPin(p gpio.PinOut) PeriphPin { return PeriphPin{p: p} }

func (p PeriphPin) Set(high bool) {
	_ = p.p.Out(gpio.Level(high))
}

// PeriphPWM drives an LED through a periph.io PWM capable pin.
type PeriphPWM struct {
	p    gpio.PinOut
	freq physic.Frequency
	top  uint32
}

func NewPeriphPWM(p gpio.PinOut) *PeriphPWM { return &PeriphPWM{p: p} }

func (w *PeriphPWM) Configure(freqHz, top uint32) error {
	if freqHz == 0 || top == 0 {
		return fmt.Errorf("periph pwm %s: invalid config %d Hz top %d", w.p, freqHz, top)
	}
	w.freq = physic.Frequency(freqHz) * physic.Hertz
	w.top = top
	return w.Set(0)
}

// Set scales duty out of top onto gpio.DutyMax.
func (w *PeriphPWM) Set(duty uint32) error {
	if w.top == 0 {
		return fmt.Errorf("periph pwm %s: not configured", w.p)
	}
	duty = min(duty, w.top)
	d := gpio.Duty(uint64(duty) * uint64(gpio.DutyMax) / uint64(w.top))
	if err := w.p.PWM(d, w.freq); err != nil {
		return fmt.Errorf("periph pwm %s: %w", w.p, err)
	}
	return nil
}
