package cmdserver

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"touchlamp/internal/mathx"
	"touchlamp/lamp"
)

var ErrInvalidCommand = errors.New("cmdserver: invalid command")

// Kind is the action a command performs.
type Kind uint8

const (
	KindState Kind = iota + 1
	KindOff
	KindOn
	KindNight
	KindBright
)

func (k Kind) String() string {
	switch k {
	case KindState:
		return "state"
	case KindOff:
		return "off"
	case KindOn:
		return "on"
	case KindNight:
		return "night"
	case KindBright:
		return "bright"
	}
	return "unknown"
}

// Command is a parsed request path. Channel and Value are only set for
// KindState.
type Command struct {
	Kind    Kind
	Channel lamp.Channel
	Value   float32
}

var (
	requestLine = regexp.MustCompile(`(?i)^GET /(\S+)`)
	stateParam  = regexp.MustCompile(`(?i)^State\?(\S+?)=(\S+)$`)

	// Leading decimal number; trailing junk is ignored.
	numberPrefix = regexp.MustCompile(`^\s*[+-]?(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?`)
)

// Both the short and the long parameter names are accepted.
var channelParams = map[string]lamp.Channel{
	"n": lamp.NaturalWhite, "naturalbrightness": lamp.NaturalWhite,
	"w": lamp.WarmWhite, "warmbrightness": lamp.WarmWhite,
	"r": lamp.Red, "redbrightness": lamp.Red,
	"g": lamp.Green, "greenbrightness": lamp.Green,
	"b": lamp.Blue, "bluebrightness": lamp.Blue,
}

var bareCommands = map[string]Kind{
	"off":    KindOff,
	"on":     KindOn,
	"night":  KindNight,
	"bright": KindBright,
}

// RequestPath extracts the command from a request line such as
// "GET /State?R=0.5 HTTP/1.1". ok is false for lines that are not a GET
// with a non-empty path.
func RequestPath(line string) (path string, ok bool) {
	m := requestLine.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// Parse decodes a command path, case-insensitively. A state value is the
// number at the start of the parameter, clamped to [0, 1].
func Parse(path string) (Command, error) {
	if m := stateParam.FindStringSubmatch(path); m != nil {
		ch, ok := channelParams[strings.ToLower(m[1])]
		if !ok {
			return Command{}, fmt.Errorf("%w: unknown parameter %q", ErrInvalidCommand, m[1])
		}
		num := strings.TrimSpace(numberPrefix.FindString(m[2]))
		if num == "" {
			return Command{}, fmt.Errorf("%w: value %q is not a number", ErrInvalidCommand, m[2])
		}
		v, err := strconv.ParseFloat(num, 32)
		if err != nil {
			return Command{}, fmt.Errorf("%w: value %q: %v", ErrInvalidCommand, m[2], err)
		}
		return Command{Kind: KindState, Channel: ch, Value: mathx.Unit(float32(v))}, nil
	}
	if k, ok := bareCommands[strings.ToLower(path)]; ok {
		return Command{Kind: k}, nil
	}
	return Command{}, fmt.Errorf("%w: %q", ErrInvalidCommand, path)
}

// Apply performs c on s. Power changes request a screen redraw.
func (c Command) Apply(s *lamp.State) {
	switch c.Kind {
	case KindState:
		s.SetBrightness(c.Channel, c.Value)
	case KindOff:
		s.SetOff(true)
		s.RequestRedraw()
	case KindOn:
		s.SetOff(false)
		s.RequestRedraw()
	case KindNight:
		s.Night()
	case KindBright:
		s.Bright()
	}
}

func (c Command) String() string {
	if c.Kind == KindState {
		return fmt.Sprintf("state %s=%.2f", c.Channel, c.Value)
	}
	return c.Kind.String()
}
