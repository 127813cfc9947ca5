//go:build !tinygo

package hal

import (
	"log/slog"
	"net"
	"strings"

	"touchlamp/internal/sim"
)

// HostConfig sets up the emulated board.
type HostConfig struct {
	// Listen is the command channel address. Empty disables the network.
	Listen string
	// Touch is the raw span the emulated film covers. Zero selects the
	// span the default calibration expects.
	Touch            sim.TouchRange
	InvertX, InvertY bool
	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Host is the desktop HAL: a panel and touch controller emulated at the
// SPI byte level and five recorded PWM outputs.
type Host struct {
	logger *hostLogger
	panel  *sim.Panel
	touch  *sim.Touch
	tcs    *sim.Pin
	leds   [NumLEDs]*sim.PWM
	net    Network
}

var ledNames = [NumLEDs]string{"warm", "natural", "red", "green", "blue"}

// DefaultTouchRange matches the firmware's default calibration.
func DefaultTouchRange() sim.TouchRange {
	return sim.TouchRange{XMin: 220, XMax: 3800, YMin: 250, YMax: 3700}
}

// NewHost returns a host HAL.
func NewHost(cfg HostConfig) *Host {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Touch == (sim.TouchRange{}) {
		cfg.Touch = DefaultTouchRange()
	}
	h := &Host{
		logger: &hostLogger{log: cfg.Logger},
		panel:  sim.NewPanel(240, 320),
		touch:  sim.NewTouch(240, 320, cfg.Touch),
		tcs:    sim.NewPin("TCS"),
		net:    nullNetwork{},
	}
	h.touch.SetInverted(cfg.InvertX, cfg.InvertY)
	for i := range h.leds {
		h.leds[i] = sim.NewPWM(ledNames[i])
	}
	if cfg.Listen != "" {
		h.net = tcpNetwork{addr: cfg.Listen}
	}
	return h
}

// New returns a host HAL with default settings.
func New() HAL {
	return NewHost(HostConfig{})
}

func (h *Host) Logger() Logger { return h.logger }

func (h *Host) Display() DisplayPort {
	return DisplayPort{
		SPI:       h.panel,
		DC:        h.panel.DC(),
		Reset:     h.panel.Reset(),
		Backlight: h.panel.Backlight(),
	}
}

func (h *Host) Touch() TouchPort {
	return TouchPort{SPI: h.touch, CS: h.tcs}
}

func (h *Host) LEDs() [NumLEDs]PWM {
	var out [NumLEDs]PWM
	for i, p := range h.leds {
		out[i] = p
	}
	return out
}

func (h *Host) Network() Network { return h.net }

// SimPanel is the emulated display.
func (h *Host) SimPanel() *sim.Panel { return h.panel }

// SimTouch is the emulated touch controller.
func (h *Host) SimTouch() *sim.Touch { return h.touch }

// SimLEDs are the recorded LED outputs.
func (h *Host) SimLEDs() [NumLEDs]*sim.PWM { return h.leds }

type hostLogger struct {
	log *slog.Logger
}

func (l *hostLogger) WriteLineString(s string) {
	l.log.Info(strings.TrimRight(s, "\r\n"))
}

func (l *hostLogger) WriteLineBytes(b []byte) {
	l.WriteLineString(string(b))
}

type tcpNetwork struct {
	addr string
}

func (n tcpNetwork) Listen() (net.Listener, error) {
	return net.Listen("tcp", n.addr)
}
