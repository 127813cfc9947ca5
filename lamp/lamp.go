// Package lamp holds the state shared by the touch UI, the LED outputs and
// the command channel: five channel brightnesses and the power flag.
package lamp

import (
	"sync"

	"touchlamp/internal/mathx"
)

// Channel identifies one LED string.
type Channel uint8

const (
	WarmWhite Channel = iota
	NaturalWhite
	Red
	Green
	Blue

	NumChannels = 5
)

var channelNames = [NumChannels]string{"warm", "natural", "red", "green", "blue"}

func (c Channel) String() string {
	if int(c) < len(channelNames) {
		return channelNames[c]
	}
	return "unknown"
}

// Channels lists every channel in output order.
func Channels() [NumChannels]Channel {
	return [NumChannels]Channel{WarmWhite, NaturalWhite, Red, Green, Blue}
}

// Snapshot is a copy of State taken under its lock.
type Snapshot struct {
	Brightness [NumChannels]float32
	Off        bool
}

// State is safe for concurrent use. Each call is atomic on its own; there
// is no atomicity across several calls, so a writer updating two channels
// may be observed half done.
type State struct {
	mu         sync.Mutex
	brightness [NumChannels]float32
	off        bool
	offChanged bool
}

// NewState returns a lamp that is on, dark, and waiting for its first
// screen draw.
func NewState() *State {
	return &State{offChanged: true}
}

// Reset zeroes every channel, turns the lamp on and requests a redraw.
func (s *State) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.brightness = [NumChannels]float32{}
	s.off = false
	s.offChanged = true
}

func (s *State) Brightness(ch Channel) float32 {
	if ch >= NumChannels {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.brightness[ch]
}

// SetBrightness stores v clamped to [0, 1]. NaN stores 0.
func (s *State) SetBrightness(ch Channel, v float32) {
	if ch >= NumChannels {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.brightness[ch] = mathx.Unit(v)
}

func (s *State) Off() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.off
}

// SetOff switches the outputs. Brightness values are kept while off.
func (s *State) SetOff(off bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.off = off
}

// RequestRedraw asks the next render to repaint for the current power state.
func (s *State) RequestRedraw() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.offChanged = true
}

// TakeOffChanged reports and clears a pending redraw request.
func (s *State) TakeOffChanged() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	changed := s.offChanged
	s.offChanged = false
	return changed
}

func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{Brightness: s.brightness, Off: s.off}
}

// Night dims to a low warm glow. Power is left as it is.
func (s *State) Night() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.brightness[NaturalWhite] = 0
	s.brightness[WarmWhite] = 0.3
}

// Bright turns both whites fully up and the lamp on.
func (s *State) Bright() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.brightness[NaturalWhite] = 1
	s.brightness[WarmWhite] = 1
	s.off = false
	s.offChanged = true
}
