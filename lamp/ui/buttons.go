package ui

import "touchlamp/drivers/ili9341"

// Button is a fixed screen rectangle with a fill colour and label.
type Button struct {
	Left, Top     int16
	Width, Height int16
	Color         ili9341.Color
	Text          string
}

// Contains hit-tests the half-open rectangle: the right and bottom edges
// are outside.
func (b Button) Contains(x, y int) bool {
	return x >= int(b.Left) && x < int(b.Left)+int(b.Width) &&
		y >= int(b.Top) && y < int(b.Top)+int(b.Height)
}

// Label baseline offset from the top. Buttons are 35 pixels tall.
const labelBaseline = 24

// Top bar, visible in every mode.
var (
	WhiteButton  = Button{Left: 0, Top: 285, Width: 60, Height: 35, Color: ili9341.Purple, Text: "White"}
	OffButton    = Button{Left: 90, Top: 285, Width: 60, Height: 35, Color: ili9341.Purple, Text: "Off"}
	ColourButton = Button{Left: 180, Top: 285, Width: 60, Height: 35, Color: ili9341.Purple, Text: "Colour"}
)

// Whites mode pad: x sets warm white, y natural white (top is brightest).
var WhitesPad = Button{Left: 10, Top: 80, Width: 220, Height: 190, Color: ili9341.DarkGrey}

// Colour mode sliders.
var (
	RedSlider   = Button{Left: 10, Top: 100, Width: 220, Height: 35, Color: ili9341.Red, Text: "Red"}
	GreenSlider = Button{Left: 10, Top: 160, Width: 220, Height: 35, Color: ili9341.Green, Text: "Green"}
	BlueSlider  = Button{Left: 10, Top: 220, Width: 220, Height: 35, Color: ili9341.Blue, Text: "Blue"}
)

// Heading baselines.
const (
	titleY    = 30
	greetingY = 65
)
