//go:build !bootdebug && !tinygo

package app

import (
	"testing"

	"touchlamp/drivers/ili9341"
	"touchlamp/hal"
)

func TestNoTouchOverlay(t *testing.T) {
	h := hal.NewHost(hal.HostConfig{Logger: quietLogger()})
	c := newRig(t, h)
	tick(t, c)

	h.SimTouch().Press(padX, padTopY)
	tick(t, c)
	if n := h.SimPanel().Count(0, 120, 240, 90, uint16(ili9341.White)); n != 0 {
		t.Fatalf("%d white pixels over the pad, want none", n)
	}
}
