//go:build bootdebug

package app

import (
	"fmt"
	"image/color"

	"touchlamp/drivers/ili9341"
	"touchlamp/drivers/xpt2046"
	"touchlamp/internal/buildinfo"
	"touchlamp/lamp/fonts"
)

// Baselines of the touch readout.
const (
	overlayRawY    = 140
	overlayScreenY = 200
)

// bootScreen shows the build and the current boot step.
func bootScreen(d fatalDisplay, msg string) {
	if d.Clear(ili9341.Black) != nil {
		return
	}
	fg := color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	_ = drawLines(d, []string{"touchlamp " + buildinfo.Short(), msg}, fg)
}

// touchOverlay prints each touched sample, raw and mapped, over the UI.
// Fixed-width fields let the next sample cover the previous one.
func touchOverlay(d *ili9341.Device, raw xpt2046.RawSample, x, y int) error {
	prev := d.SetFont(fonts.Small)
	defer d.SetFont(prev)
	if err := d.DrawTextAtXY(fmt.Sprintf("raw %4d %4d %4d", raw.X, raw.Y, raw.Z), 0, overlayRawY, ili9341.PositionLeft); err != nil {
		return err
	}
	return d.DrawTextAtXY(fmt.Sprintf("xy  %4d %4d", x, y), 0, overlayScreenY, ili9341.PositionLeft)
}
