// Package led turns channel brightness into PWM duty.
package led

import (
	"fmt"

	"touchlamp/internal/mathx"
	"touchlamp/lamp"
)

const (
	// FrequencyHz is shared by every channel.
	FrequencyHz = 5000
	// Resolution is the 12-bit duty scale.
	Resolution = 4096
	// MaxDuty is the largest duty a channel is driven with.
	MaxDuty = Resolution - 1
)

// PWM is one output channel, already configured for FrequencyHz and a
// MaxDuty top.
type PWM interface {
	Set(duty uint32) error
}

// Duty maps a brightness to a duty on a cubic curve, which leaves most of
// the scale for the dim end.
func Duty(b float32) uint32 {
	b = mathx.Unit(b)
	return min(uint32(b*b*b*Resolution), MaxDuty)
}

// Driver commits duty to the five channel outputs.
type Driver struct {
	pwms [lamp.NumChannels]PWM
	duty [lamp.NumChannels]uint32
}

// New returns a Driver. Nil entries are skipped when driving.
func New(pwms [lamp.NumChannels]PWM) *Driver {
	return &Driver{pwms: pwms}
}

// SetBrightness commits one channel.
func (d *Driver) SetBrightness(ch lamp.Channel, b float32) error {
	if ch >= lamp.NumChannels {
		return fmt.Errorf("led: no channel %d", ch)
	}
	duty := Duty(b)
	d.duty[ch] = duty
	if d.pwms[ch] == nil {
		return nil
	}
	if err := d.pwms[ch].Set(duty); err != nil {
		return fmt.Errorf("led: %s: %w", ch, err)
	}
	return nil
}

// Apply drives every channel from s, all of them dark while the lamp is off.
// It writes even unchanged values.
func (d *Driver) Apply(s lamp.Snapshot) error {
	for _, ch := range lamp.Channels() {
		b := s.Brightness[ch]
		if s.Off {
			b = 0
		}
		if err := d.SetBrightness(ch, b); err != nil {
			return err
		}
	}
	return nil
}

// Duties returns the last committed duty per channel.
func (d *Driver) Duties() [lamp.NumChannels]uint32 { return d.duty }
