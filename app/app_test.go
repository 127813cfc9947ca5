//go:build !tinygo

package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"touchlamp/drivers/ili9341"
	"touchlamp/hal"
	"touchlamp/lamp"
	"touchlamp/lamp/cmdserver"
	"touchlamp/lamp/ui"
)

// Screen positions that land inside controls after the round trip through
// the emulated film and the default calibration.
const (
	padX, padTopY = 120, 81 // warm 0.5, natural 1
	offX, offY    = 120, 302
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Sleep = func(time.Duration) {}
	return cfg
}

func newRig(t *testing.T, h hal.HAL) *Controller {
	t.Helper()
	c, err := NewController(h, lamp.NewState(), testConfig())
	if err != nil {
		t.Fatalf("NewController() err = %v", err)
	}
	t.Cleanup(func() { c.Close() })
	if err := c.Start(); err != nil {
		t.Fatalf("Start() err = %v", err)
	}
	return c
}

func tick(t *testing.T, c *Controller) {
	t.Helper()
	if err := c.Tick(); err != nil {
		t.Fatalf("Tick() err = %v", err)
	}
}

func levels(h *hal.Host) [hal.NumLEDs]uint32 {
	var out [hal.NumLEDs]uint32
	for i, p := range h.SimLEDs() {
		out[i] = p.Duty()
	}
	return out
}

func TestStart(t *testing.T) {
	h := hal.NewHost(hal.HostConfig{Logger: quietLogger()})
	c := newRig(t, h)
	panel := h.SimPanel()

	if !panel.Ready() {
		t.Fatalf("panel not initialized")
	}
	if !panel.Backlight().Get() {
		t.Fatalf("backlight off after Start")
	}
	if c.UI().Mode() != ui.ModeWhites {
		t.Fatalf("Mode() = %v, want whites", c.UI().Mode())
	}
	if got := panel.Pixel(20, 250); got != uint16(ili9341.DarkGrey) {
		t.Fatalf("pad pixel = %#04x, want %#04x", got, uint16(ili9341.DarkGrey))
	}
	if got := panel.Pixel(1, 287); got != uint16(ili9341.Purple) {
		t.Fatalf("White button pixel = %#04x, want %#04x", got, uint16(ili9341.Purple))
	}

	tick(t, c)
	if diff := cmp.Diff([hal.NumLEDs]uint32{}, levels(h)); diff != "" {
		t.Fatalf("duties mismatch (-want +got):\n%s", diff)
	}
	for _, p := range h.SimLEDs() {
		if p.Commits() == 0 {
			t.Fatalf("LED %s never driven", p.Name())
		}
	}
}

func TestWhitesPad(t *testing.T) {
	h := hal.NewHost(hal.HostConfig{Logger: quietLogger()})
	c := newRig(t, h)
	tick(t, c)

	h.SimTouch().Press(padX, padTopY)
	tick(t, c)
	if got := c.State().Brightness(lamp.WarmWhite); got != 0.5 {
		t.Fatalf("warm = %v, want 0.5", got)
	}
	if got := c.State().Brightness(lamp.NaturalWhite); got != 1 {
		t.Fatalf("natural = %v, want 1", got)
	}
	if diff := cmp.Diff([hal.NumLEDs]uint32{512, 4095, 0, 0, 0}, levels(h)); diff != "" {
		t.Fatalf("duties mismatch (-want +got):\n%s", diff)
	}

	// Dragging off the pad keeps the latch and clamps.
	h.SimTouch().Press(239, padTopY)
	tick(t, c)
	if got := c.State().Brightness(lamp.WarmWhite); got != 1 {
		t.Fatalf("warm after drag = %v, want 1", got)
	}

	h.SimTouch().Release()
	tick(t, c)
	if c.UI().Pressed() {
		t.Fatalf("Pressed() = true after release")
	}
}

func TestOffAndWake(t *testing.T) {
	h := hal.NewHost(hal.HostConfig{Logger: quietLogger()})
	c := newRig(t, h)
	panel := h.SimPanel()
	tick(t, c)

	c.State().SetBrightness(lamp.Red, 1)
	tick(t, c)

	h.SimTouch().Press(offX, offY)
	tick(t, c)
	if !c.State().Off() {
		t.Fatalf("Off() = false after Off button")
	}
	if panel.Backlight().Get() {
		t.Fatalf("backlight on while off")
	}
	if diff := cmp.Diff([hal.NumLEDs]uint32{}, levels(h)); diff != "" {
		t.Fatalf("duties while off mismatch (-want +got):\n%s", diff)
	}
	if got := panel.Pixel(20, 250); got != uint16(ili9341.Black) {
		t.Fatalf("pad pixel while off = %#04x, want black", got)
	}

	h.SimTouch().Release()
	tick(t, c)

	// Any press wakes, and is consumed: the pad underneath is not touched.
	h.SimTouch().Press(padX, padTopY)
	tick(t, c)
	if c.State().Off() {
		t.Fatalf("Off() = true after wake press")
	}
	if !panel.Backlight().Get() {
		t.Fatalf("backlight off after wake")
	}
	if got := c.State().Brightness(lamp.WarmWhite); got != 0 {
		t.Fatalf("warm = %v after wake press, want 0", got)
	}
	if diff := cmp.Diff([hal.NumLEDs]uint32{0, 0, 4095, 0, 0}, levels(h)); diff != "" {
		t.Fatalf("duties after wake mismatch (-want +got):\n%s", diff)
	}
	if got := panel.Pixel(20, 250); got != uint16(ili9341.DarkGrey) {
		t.Fatalf("pad pixel after wake = %#04x, want dark grey", got)
	}
}

func TestColourMode(t *testing.T) {
	h := hal.NewHost(hal.HostConfig{Logger: quietLogger()})
	c := newRig(t, h)
	tick(t, c)

	h.SimTouch().Press(210, 302)
	tick(t, c)
	if c.UI().Mode() != ui.ModeColor {
		t.Fatalf("Mode() = %v, want colour", c.UI().Mode())
	}
	if got := h.SimPanel().Pixel(20, 110); got != uint16(ili9341.Red) {
		t.Fatalf("red slider pixel = %#04x, want red", got)
	}
	h.SimTouch().Release()
	tick(t, c)

	h.SimTouch().Press(padX, 117)
	tick(t, c)
	if c.UI().Control() != ui.ControlRed {
		t.Fatalf("Control() = %v, want red", c.UI().Control())
	}
	if got := c.State().Brightness(lamp.Red); got != 0.5 {
		t.Fatalf("red = %v, want 0.5", got)
	}
}

type fixedNetwork struct {
	ln net.Listener
}

func (n fixedNetwork) Listen() (net.Listener, error) { return n.ln, nil }

type netHAL struct {
	*hal.Host
	net hal.Network
}

func (h netHAL) Network() hal.Network { return h.net }

func TestCommandChannel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	host := hal.NewHost(hal.HostConfig{Logger: quietLogger()})
	h := netHAL{Host: host, net: fixedNetwork{ln: ln}}
	c := newRig(t, h)
	startCommands(c, h)
	tick(t, c)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	body, err := cmdserver.Send(ctx, ln.Addr().String(), "State?B=1")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if !strings.Contains(body, "Blue brightness: 1.00") {
		t.Fatalf("status page:\n%s", body)
	}
	tick(t, c)
	if got := host.SimLEDs()[lamp.Blue].Duty(); got != 4095 {
		t.Fatalf("blue duty = %d, want 4095", got)
	}

	if _, err := cmdserver.Send(ctx, ln.Addr().String(), "Off"); err != nil {
		t.Fatalf("Send(Off): %v", err)
	}
	tick(t, c)
	if host.SimPanel().Backlight().Get() {
		t.Fatalf("backlight on after Off command")
	}
	if got := host.SimPanel().Pixel(20, 250); got != uint16(ili9341.Black) {
		t.Fatalf("pad pixel after Off command = %#04x, want black", got)
	}

	if err := c.Close(); err != nil {
		t.Fatalf("Close() err = %v", err)
	}
	if _, err := cmdserver.Send(ctx, ln.Addr().String(), "On"); err == nil {
		t.Fatalf("Send after Close err = nil")
	}
}

type noDisplay struct {
	*hal.Host
}

func (noDisplay) Display() hal.DisplayPort { return hal.DisplayPort{} }

func TestNewWithoutDisplay(t *testing.T) {
	step := New(noDisplay{hal.NewHost(hal.HostConfig{Logger: quietLogger()})}, testConfig())
	for i := 0; i < 2; i++ {
		if err := step(); !errors.Is(err, errNoDisplay) {
			t.Fatalf("step() err = %v, want errNoDisplay", err)
		}
	}
}

func TestBusErrorIsFatal(t *testing.T) {
	h := hal.NewHost(hal.HostConfig{Logger: quietLogger()})
	step := New(h, testConfig())
	h.SimTouch().Press(padX, padTopY)
	if err := step(); err != nil {
		t.Fatalf("step() err = %v", err)
	}
	if levels(h)[lamp.NaturalWhite] != 4095 {
		t.Fatalf("natural duty = %d, want 4095", levels(h)[lamp.NaturalWhite])
	}
	h.SimTouch().Release()
	if err := step(); err != nil {
		t.Fatalf("step() err = %v", err)
	}

	boom := errors.New("boom")
	h.SimPanel().FailAfter(0, boom)
	h.SimTouch().Press(offX, offY)
	err := step()
	if !errors.Is(err, boom) {
		t.Fatalf("step() err = %v, want boom", err)
	}
	if diff := cmp.Diff([hal.NumLEDs]uint32{}, levels(h)); diff != "" {
		t.Fatalf("duties after failure mismatch (-want +got):\n%s", diff)
	}

	samples := h.SimTouch().Samples()
	if err := step(); !errors.Is(err, boom) {
		t.Fatalf("second step() err = %v, want boom", err)
	}
	if got := h.SimTouch().Samples(); got != samples {
		t.Fatalf("touch sampled after failure: %d -> %d", samples, got)
	}
}

func TestTakeRunes(t *testing.T) {
	tests := []struct {
		s          string
		n          int16
		head, tail string
	}{
		{"hello", 10, "hello", ""},
		{"hello world", 5, "hello", " world"},
		{"héllo", 2, "hé", "llo"},
		{"abc", 0, "", "abc"},
		{"", 3, "", ""},
	}
	for _, tt := range tests {
		head, tail := takeRunes(tt.s, tt.n)
		if head != tt.head || tail != tt.tail {
			t.Fatalf("takeRunes(%q, %d) = %q, %q, want %q, %q", tt.s, tt.n, head, tail, tt.head, tt.tail)
		}
	}
}
