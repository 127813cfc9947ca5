//go:build tinygo && baremetal && rp2040

package hal

import (
	"machine"

	uartx "github.com/jangala-dev/tinygo-uartx/uartx"
	pio "github.com/tinygo-org/pio/rp2-pio"
	"github.com/tinygo-org/pio/rp2-pio/piolib"
)

// Board wiring (Raspberry Pi Pico).
//
// Display: SPI0 on GP18 (SCK) / GP19 (SDO) / GP16 (SDI), CS GP17, DC GP20,
// reset GP21, backlight GP22.
// Touch: PIO0 SPI on GP10 (SCK) / GP11 (SDO) / GP12 (SDI), CS GP13.
// LEDs: GP2 warm, GP3 natural, GP4 red, GP5 green, GP6 blue.
// Log: UART0 on GP0 (TX) / GP1 (RX), 115200 8N1.
const (
	pinTFTSCK       = machine.GP18
	pinTFTSDO       = machine.GP19
	pinTFTSDI       = machine.GP16
	pinTFTCS        = machine.GP17
	pinTFTDC        = machine.GP20
	pinTFTReset     = machine.GP21
	pinTFTBacklight = machine.GP22

	pinTouchSCK = machine.GP10
	pinTouchSDO = machine.GP11
	pinTouchSDI = machine.GP12
	pinTouchCS  = machine.GP13

	tftHz   = 40_000_000
	touchHz = 2_000_000
)

var ledPins = [NumLEDs]machine.Pin{machine.GP2, machine.GP3, machine.GP4, machine.GP5, machine.GP6}

type tinyGoHAL struct {
	logger  *uartLogger
	display DisplayPort
	touch   TouchPort
	leds    [NumLEDs]PWM
	net     Network
}

// New returns the lamp board HAL. Peripherals that fail to come up are
// left nil and reported on the log.
func New() HAL {
	uart := uartx.UART0
	_ = uart.Configure(uartx.UARTConfig{
		BaudRate: 115200,
		TX:       machine.GP0,
		RX:       machine.GP1,
	})
	h := &tinyGoHAL{logger: &uartLogger{uart: uart}, net: nullNetwork{}}

	for _, p := range []machine.Pin{pinTFTCS, pinTFTDC, pinTFTReset, pinTFTBacklight, pinTouchCS} {
		p.Configure(machine.PinConfig{Mode: machine.PinOutput})
		p.High()
	}

	spi := machine.SPI0
	if err := spi.Configure(machine.SPIConfig{
		Frequency: tftHz,
		SCK:       pinTFTSCK,
		SDO:       pinTFTSDO,
		SDI:       pinTFTSDI,
		Mode:      0,
	}); err != nil {
		h.logger.WriteLineString("hal: display spi: " + err.Error())
	} else {
		h.display = DisplayPort{
			SPI:       spi,
			DC:        pinTFTDC,
			Reset:     pinTFTReset,
			Backlight: pinTFTBacklight,
			CS:        pinTFTCS,
		}
	}

	if tspi, err := newTouchSPI(); err != nil {
		h.logger.WriteLineString("hal: touch spi: " + err.Error())
	} else {
		h.touch = TouchPort{SPI: tspi, CS: pinTouchCS}
	}

	for i, pin := range ledPins {
		if l := newPWMLED(pin); l != nil {
			h.leds[i] = l
		} else {
			h.logger.WriteLineString("hal: no pwm slice for led pin")
		}
	}
	return h
}

// newTouchSPI runs the slow touch bus on a PIO state machine so both
// hardware SPI blocks stay free.
func newTouchSPI() (*piolib.SPI, error) {
	sm, err := pio.PIO0.ClaimStateMachine()
	if err != nil {
		return nil, err
	}
	return piolib.NewSPI(sm, machine.SPIConfig{
		Frequency: touchHz,
		SCK:       pinTouchSCK,
		SDO:       pinTouchSDO,
		SDI:       pinTouchSDI,
		Mode:      0,
	})
}

func (h *tinyGoHAL) Logger() Logger       { return h.logger }
func (h *tinyGoHAL) Display() DisplayPort { return h.display }
func (h *tinyGoHAL) Touch() TouchPort     { return h.touch }
func (h *tinyGoHAL) LEDs() [NumLEDs]PWM   { return h.leds }
func (h *tinyGoHAL) Network() Network     { return h.net }
