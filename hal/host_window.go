//go:build !tinygo && cgo

package hal

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"

	"touchlamp/internal/buildinfo"
)

const (
	swatchColumn = 48
	swatchGap    = 8
)

// WindowConfig controls the desktop window runner.
type WindowConfig struct {
	Host HostConfig
	// Scale multiplies the window size. Zero selects 2.
	Scale int
	// Hz is the loop rate. Zero selects 100.
	Hz int
}

// RunWindow opens a window showing the emulated panel next to the five LED
// outputs. Mouse and touch input drive the emulated touch controller. It
// blocks until the window closes.
func RunWindow(newApp func(HAL) func() error, cfg WindowConfig) error {
	if cfg.Scale <= 0 {
		cfg.Scale = 2
	}
	if cfg.Hz <= 0 {
		cfg.Hz = 100
	}
	h := NewHost(cfg.Host)
	step := newApp(h)

	w, ht := h.panel.Size()
	g := &hostGame{
		h:      h,
		step:   step,
		width:  w,
		height: ht,
		pixels: make([]uint16, w*ht),
		img:    image.NewRGBA(image.Rect(0, 0, w, ht)),
	}
	ebiten.SetWindowTitle("touchlamp (" + buildinfo.Short() + ")")
	ebiten.SetWindowSize((w+swatchColumn)*cfg.Scale, ht*cfg.Scale)
	ebiten.SetTPS(cfg.Hz)
	return ebiten.RunGame(g)
}

type hostGame struct {
	h      *Host
	step   func() error
	ptr    pointer
	halted bool
	width  int
	height int
	pixels []uint16
	img    *image.RGBA
	fbImg  *ebiten.Image
}

// Update stops stepping after a fatal error and leaves the window open on
// the error screen.
func (g *hostGame) Update() error {
	g.ptr.poll(g.h.touch, g.width, g.height)
	if g.step == nil || g.halted {
		return nil
	}
	if err := g.step(); err != nil {
		g.halted = true
		g.h.logger.log.Error("firmware halted", "err", err)
	}
	return nil
}

func (g *hostGame) Draw(screen *ebiten.Image) {
	if g.fbImg == nil {
		g.fbImg = ebiten.NewImage(g.width, g.height)
	}
	if g.h.panel.Backlight().Get() {
		g.h.panel.Snapshot(g.pixels)
		expandRGB565(g.img.Pix, g.pixels)
	} else {
		clear(g.img.Pix)
	}
	g.fbImg.WritePixels(g.img.Pix)
	screen.DrawImage(g.fbImg, nil)

	bg := screen.SubImage(image.Rect(g.width, 0, g.width+swatchColumn, g.height)).(*ebiten.Image)
	bg.Fill(color.RGBA{R: 0x20, G: 0x20, B: 0x20, A: 0xFF})
	size := (g.height - swatchGap*(NumLEDs+1)) / NumLEDs
	for i, p := range g.h.leds {
		x0 := g.width + swatchGap
		y0 := swatchGap + i*(size+swatchGap)
		r := image.Rect(x0, y0, g.width+swatchColumn-swatchGap, y0+size)
		screen.SubImage(r).(*ebiten.Image).Fill(swatch(i, p.Level()))
	}
}

func (g *hostGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.width + swatchColumn, g.height
}
