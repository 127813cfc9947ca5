package sim

import (
	"fmt"
	"sync"
)

// PWM is a virtual PWM channel that remembers its last duty.
type PWM struct {
	mu      sync.Mutex
	name    string
	freqHz  uint32
	top     uint32
	duty    uint32
	commits int
}

func NewPWM(name string) *PWM {
	return &PWM{name: name}
}

func (p *PWM) Name() string { return p.name }

func (p *PWM) Configure(freqHz, top uint32) error {
	if freqHz == 0 || top == 0 {
		return fmt.Errorf("sim: pwm %s: invalid config %d Hz top %d", p.name, freqHz, top)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.freqHz = freqHz
	p.top = top
	return nil
}

func (p *PWM) Set(duty uint32) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.top == 0 {
		return fmt.Errorf("sim: pwm %s: not configured", p.name)
	}
	p.duty = min(duty, p.top)
	p.commits++
	return nil
}

func (p *PWM) Duty() uint32 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.duty
}

// Level is the duty as a fraction of the period.
func (p *PWM) Level() float32 {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.top == 0 {
		return 0
	}
	return float32(p.duty) / float32(p.top)
}

// Commits counts Set calls.
func (p *PWM) Commits() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.commits
}
