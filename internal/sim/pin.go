// Package sim emulates the lamp's peripherals at the wire level: an
// ILI9341 panel decoding D/C-strobed SPI traffic, an XPT2046 touch
// controller answering conversion commands, GPIO outputs and PWM channels.
//
// The host HAL is built from these, and driver tests use them as fakes.
package sim

import "sync"

// Pin is a virtual digital output.
type Pin struct {
	mu      sync.Mutex
	name    string
	level   bool
	changes int
}

func NewPin(name string) *Pin {
	return &Pin{name: name}
}

func (p *Pin) Name() string { return p.name }

func (p *Pin) Set(high bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.level != high {
		p.changes++
	}
	p.level = high
}

func (p *Pin) High() { p.Set(true) }
func (p *Pin) Low()  { p.Set(false) }

func (p *Pin) Get() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.level
}

// Changes counts level transitions since creation.
func (p *Pin) Changes() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.changes
}
