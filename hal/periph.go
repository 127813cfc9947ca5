//go:build !tinygo && periph

package hal

import (
	"errors"
	"fmt"
	"log/slog"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

// PeriphConfig names the SPI ports and pins of a Linux board.
type PeriphConfig struct {
	DisplaySPI string
	TouchSPI   string
	DisplayHz  physic.Frequency
	TouchHz    physic.Frequency

	DC        string
	Reset     string
	Backlight string
	TouchCS   string
	// LEDs are PWM capable pins in lamp channel order.
	LEDs [NumLEDs]string

	Listen string
	Logger *slog.Logger
}

// DefaultPeriphConfig is the wiring used on a Raspberry Pi.
func DefaultPeriphConfig() PeriphConfig {
	return PeriphConfig{
		DisplaySPI: "SPI0.0",
		TouchSPI:   "SPI1.0",
		DisplayHz:  32 * physic.MegaHertz,
		TouchHz:    2 * physic.MegaHertz,
		DC:         "GPIO24",
		Reset:      "GPIO25",
		Backlight:  "GPIO23",
		LEDs:       [NumLEDs]string{"GPIO12", "GPIO13", "GPIO18", "GPIO19", "GPIO26"},
	}
}

// Periph is the HAL of a Linux board driven through periph.io.
type Periph struct {
	logger  *hostLogger
	display DisplayPort
	touch   TouchPort
	leds    [NumLEDs]PWM
	net     Network
	ports   []spi.PortCloser
}

// NewPeriph initializes the periph.io host drivers and opens every port.
func NewPeriph(cfg PeriphConfig) (*Periph, error) {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	state, err := host.Init()
	if err != nil {
		return nil, fmt.Errorf("periph: init: %w", err)
	}
	for _, f := range state.Failed {
		cfg.Logger.Warn("periph driver failed", "driver", f.D, "err", f.Err)
	}

	p := &Periph{logger: &hostLogger{log: cfg.Logger}, net: nullNetwork{}}
	if cfg.Listen != "" {
		p.net = tcpNetwork{addr: cfg.Listen}
	}

	dspi, err := p.open(cfg.DisplaySPI, cfg.DisplayHz)
	if err != nil {
		return nil, errors.Join(err, p.Close())
	}
	tspi, err := p.open(cfg.TouchSPI, cfg.TouchHz)
	if err != nil {
		return nil, errors.Join(err, p.Close())
	}

	pins := map[string]gpio.PinIO{}
	for _, name := range []string{cfg.DC, cfg.Reset, cfg.Backlight, cfg.TouchCS} {
		if name == "" {
			continue
		}
		pin := gpioreg.ByName(name)
		if pin == nil {
			return nil, errors.Join(fmt.Errorf("periph: no pin %q", name), p.Close())
		}
		pins[name] = pin
	}
	optional := func(name string) Pin {
		if pin, ok := pins[name]; ok {
			return NewPeriphPin(pin)
		}
		return nil
	}
	if cfg.DC == "" {
		return nil, errors.Join(errors.New("periph: display needs a DC pin"), p.Close())
	}

	p.display = DisplayPort{
		SPI:       dspi,
		DC:        optional(cfg.DC),
		Reset:     optional(cfg.Reset),
		Backlight: optional(cfg.Backlight),
	}
	p.touch = TouchPort{SPI: tspi, CS: optional(cfg.TouchCS)}

	for i, name := range cfg.LEDs {
		if name == "" {
			continue
		}
		pin := gpioreg.ByName(name)
		if pin == nil {
			return nil, errors.Join(fmt.Errorf("periph: no LED pin %q", name), p.Close())
		}
		p.leds[i] = NewPeriphPWM(pin)
	}
	return p, nil
}

func (p *Periph) open(name string, hz physic.Frequency) (*PeriphSPI, error) {
	port, err := spireg.Open(name)
	if err != nil {
		return nil, fmt.Errorf("periph: open %s: %w", name, err)
	}
	p.ports = append(p.ports, port)
	c, err := port.Connect(hz, spi.Mode0, 8)
	if err != nil {
		return nil, fmt.Errorf("periph: connect %s: %w", name, err)
	}
	return NewPeriphSPI(c), nil
}

// Close releases the SPI ports.
func (p *Periph) Close() error {
	var errs []error
	for _, port := range p.ports {
		errs = append(errs, port.Close())
	}
	p.ports = nil
	return errors.Join(errs...)
}

func (p *Periph) Logger() Logger       { return p.logger }
func (p *Periph) Display() DisplayPort { return p.display }
func (p *Periph) Touch() TouchPort     { return p.touch }
func (p *Periph) LEDs() [NumLEDs]PWM   { return p.leds }
func (p *Periph) Network() Network     { return p.net }
