package led

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"touchlamp/internal/sim"
	"touchlamp/lamp"
)

func TestDuty(t *testing.T) {
	tests := []struct {
		b    float32
		want uint32
	}{
		{-1, 0},
		{0, 0},
		{0.1, 4},
		{0.5, 512},
		{1, MaxDuty},
		{3, MaxDuty},
	}
	for _, tc := range tests {
		if got := Duty(tc.b); got != tc.want {
			t.Fatalf("Duty(%v) = %d, want %d", tc.b, got, tc.want)
		}
	}
}

func TestDutyMonotonic(t *testing.T) {
	prev := Duty(-0.5)
	for i := -50; i <= 150; i++ {
		b := float32(i) / 100
		d := Duty(b)
		if d < prev {
			t.Fatalf("Duty(%v) = %d, below previous %d", b, d, prev)
		}
		if d >= Resolution {
			t.Fatalf("Duty(%v) = %d, out of range", b, d)
		}
		prev = d
	}
}

func newOutputs(t *testing.T) ([lamp.NumChannels]*sim.PWM, [lamp.NumChannels]PWM) {
	t.Helper()
	var outs [lamp.NumChannels]*sim.PWM
	var pwms [lamp.NumChannels]PWM
	for _, ch := range lamp.Channels() {
		p := sim.NewPWM(ch.String())
		if err := p.Configure(FrequencyHz, MaxDuty); err != nil {
			t.Fatalf("Configure: %v", err)
		}
		outs[ch] = p
		pwms[ch] = p
	}
	return outs, pwms
}

func TestApply(t *testing.T) {
	outs, pwms := newOutputs(t)
	d := New(pwms)

	s := lamp.Snapshot{Brightness: [lamp.NumChannels]float32{lamp.WarmWhite: 1, lamp.Red: 0.5}}
	if err := d.Apply(s); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	want := [lamp.NumChannels]uint32{lamp.WarmWhite: MaxDuty, lamp.Red: 512}
	if diff := cmp.Diff(want, d.Duties()); diff != "" {
		t.Fatalf("Duties() mismatch (-want +got):\n%s", diff)
	}
	if got := outs[lamp.Red].Duty(); got != 512 {
		t.Fatalf("red duty = %d, want 512", got)
	}

	// Off darkens every channel without touching the stored brightness.
	s.Off = true
	if err := d.Apply(s); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if diff := cmp.Diff([lamp.NumChannels]uint32{}, d.Duties()); diff != "" {
		t.Fatalf("Duties() while off (-want +got):\n%s", diff)
	}

	// Level driven: unchanged values are written again.
	if err := d.Apply(s); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	for _, ch := range lamp.Channels() {
		if got := outs[ch].Commits(); got != 3 {
			t.Fatalf("%s commits = %d, want 3", ch, got)
		}
	}
}

func TestSetBrightnessErrors(t *testing.T) {
	var pwms [lamp.NumChannels]PWM
	pwms[lamp.Blue] = sim.NewPWM("unconfigured")
	d := New(pwms)

	if err := d.SetBrightness(lamp.Red, 1); err != nil {
		t.Fatalf("SetBrightness on missing output: %v", err)
	}
	if err := d.SetBrightness(lamp.Blue, 1); err == nil {
		t.Fatal("SetBrightness on unconfigured output succeeded")
	}
	if err := d.SetBrightness(lamp.Channel(8), 1); err == nil {
		t.Fatal("SetBrightness on channel 8 succeeded")
	}
	if err := d.Apply(lamp.Snapshot{}); err == nil || errors.Unwrap(err) == nil {
		t.Fatalf("Apply() = %v, want wrapped output error", err)
	}
}
