//go:build !tinygo && periph

package main

import (
	"log/slog"

	"github.com/spf13/pflag"

	"touchlamp/hal"
)

var periphCfg = hal.DefaultPeriphConfig()

func init() {
	pflag.StringVar(&periphCfg.DisplaySPI, "spi-display", periphCfg.DisplaySPI, "display SPI port")
	pflag.StringVar(&periphCfg.TouchSPI, "spi-touch", periphCfg.TouchSPI, "touch controller SPI port")
	pflag.StringVar(&periphCfg.DC, "pin-dc", periphCfg.DC, "display data/command pin")
	pflag.StringVar(&periphCfg.Reset, "pin-reset", periphCfg.Reset, "display reset pin")
	pflag.StringVar(&periphCfg.Backlight, "pin-backlight", periphCfg.Backlight, "display backlight pin")
	pflag.StringVar(&periphCfg.TouchCS, "pin-touch-cs", periphCfg.TouchCS, "touch chip select pin (empty when the port drives it)")
	leds := periphCfg.LEDs[:]
	pflag.StringSliceVar(&ledPins, "pin-leds", leds, "PWM pins for warm, natural, red, green and blue")
}

var ledPins []string

func openPeriph(logger *slog.Logger) (hal.HAL, func() error, error) {
	c := periphCfg
	c.Listen = listen
	c.Logger = logger
	c.LEDs = [hal.NumLEDs]string{}
	copy(c.LEDs[:], ledPins)
	p, err := hal.NewPeriph(c)
	if err != nil {
		return nil, nil, err
	}
	return p, p.Close, nil
}
