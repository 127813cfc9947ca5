package xpt2046

import (
	"errors"
	"testing"

	"tinygo.org/x/drivers/touch"

	"touchlamp/drivers/spibus"
	"touchlamp/internal/sim"
)

func newTouch(t *testing.T, cfg Config) (*Device, *sim.Touch) {
	t.Helper()
	cal := DefaultCalibration()
	st := sim.NewTouch(240, 320, sim.TouchRange{XMin: cal.XMin, XMax: cal.XMax, YMin: cal.YMin, YMax: cal.YMax})
	bus := spibus.New(st, spibus.Config{QueueSize: QueueSize})
	t.Cleanup(func() { bus.Close() })
	d, err := New(bus, cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return d, st
}

func TestBest(t *testing.T) {
	tests := []struct {
		a, b, c int
		want    int
	}{
		{10, 12, 100, 11},
		{100, 10, 12, 11},
		{10, 100, 12, 11},
		{5, 5, 5, 5},
		{0, 2, 4, 1},
		{0, 10, 5, 2},
	}
	for _, tc := range tests {
		if got := Best(tc.a, tc.b, tc.c); got != tc.want {
			t.Fatalf("Best(%d, %d, %d) = %d, want %d", tc.a, tc.b, tc.c, got, tc.want)
		}
	}
}

func TestSample(t *testing.T) {
	d, st := newTouch(t, Config{})

	if _, ok, err := d.Sample(); err != nil || ok {
		t.Fatalf("released Sample() ok = %v, err = %v, want false, nil", ok, err)
	}

	st.Press(120, 160)
	s, ok, err := d.Sample()
	if err != nil || !ok {
		t.Fatalf("pressed Sample() ok = %v, err = %v", ok, err)
	}
	if want := (RawSample{X: 2010, Y: 1975, Z: 3595}); s != want {
		t.Fatalf("Sample() = %+v, want %+v", s, want)
	}

	st.Glitch(4000)
	s, _, _ = d.Sample()
	if s.X != 2010 {
		t.Fatalf("Sample() with one outlier X = %d, want 2010", s.X)
	}
}

func TestSamplePressure(t *testing.T) {
	tests := []struct {
		name   string
		z1, z2 int
		want   bool
	}{
		{name: "firm", z1: 1000, z2: 1500, want: true},
		{name: "light", z1: 100, z2: 3900, want: false},
		{name: "z1 glitch", z1: 3000, z2: 3800, want: false},
		{name: "at threshold", z1: 0, z2: 3695, want: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d, st := newTouch(t, Config{})
			st.Press(10, 10)
			st.SetPressure(tc.z1, tc.z2)
			s, ok, err := d.Sample()
			if err != nil {
				t.Fatalf("Sample: %v", err)
			}
			if ok != tc.want {
				t.Fatalf("Sample() ok = %v, want %v", ok, tc.want)
			}
			if !ok && s != (RawSample{}) {
				t.Fatalf("untouched Sample() = %+v, want zero", s)
			}
		})
	}
}

func TestInvert(t *testing.T) {
	d, st := newTouch(t, Config{InvertX: true, InvertY: true})
	st.SetInverted(true, true)
	st.Press(120, 160)
	s, ok, err := d.Sample()
	if err != nil || !ok {
		t.Fatalf("Sample() ok = %v, err = %v", ok, err)
	}
	if s.X != 2010 || s.Y != 1975 {
		t.Fatalf("Sample() = %d,%d, want 2010,1975", s.X, s.Y)
	}
}

func TestConvertRawToScreen(t *testing.T) {
	d, _ := newTouch(t, Config{})
	if err := d.SetCalibration(Calibration{XMin: 260, XMax: 3760, YMin: 260, YMax: 3660}); err != nil {
		t.Fatalf("SetCalibration: %v", err)
	}
	tests := []struct {
		rawX, rawY int
		x, y       int
	}{
		{2010, 1960, 120, 160},
		{260, 260, 0, 0},
		{3760, 3660, 240, 320},
		{0, 0, -17, -24},
	}
	for _, tc := range tests {
		x, y := d.ConvertRawToScreen(tc.rawX, tc.rawY)
		if x != tc.x || y != tc.y {
			t.Fatalf("ConvertRawToScreen(%d, %d) = %d,%d, want %d,%d", tc.rawX, tc.rawY, x, y, tc.x, tc.y)
		}
	}
}

func TestCalibration(t *testing.T) {
	if err := DefaultCalibration().Validate(); err != nil {
		t.Fatalf("DefaultCalibration().Validate() = %v", err)
	}
	bad := Calibration{XMin: 3000, XMax: 200, YMin: 0, YMax: 10}
	if err := bad.Validate(); !errors.Is(err, ErrCalibration) {
		t.Fatalf("Validate() = %v, want %v", err, ErrCalibration)
	}
	if _, err := New(nil, Config{Calibration: bad}); !errors.Is(err, ErrCalibration) {
		t.Fatalf("New() = %v, want %v", err, ErrCalibration)
	}
	d, _ := newTouch(t, Config{})
	if err := d.SetCalibration(bad); !errors.Is(err, ErrCalibration) {
		t.Fatalf("SetCalibration() = %v, want %v", err, ErrCalibration)
	}
	if d.Calibration() != DefaultCalibration() {
		t.Fatalf("rejected calibration was applied")
	}
}

func TestReadTouchPoint(t *testing.T) {
	d, st := newTouch(t, Config{})
	var p touch.Pointer = d
	if got := p.ReadTouchPoint(); got != (touch.Point{}) {
		t.Fatalf("released ReadTouchPoint() = %+v, want zero", got)
	}
	st.Press(120, 160)
	if got, want := p.ReadTouchPoint(), (touch.Point{X: 120, Y: 160, Z: 3595}); got != want {
		t.Fatalf("ReadTouchPoint() = %+v, want %+v", got, want)
	}
}

type brokenSPI struct{ err error }

func (b brokenSPI) Tx(w, r []byte) error        { return b.err }
func (b brokenSPI) Transfer(byte) (byte, error) { return 0, b.err }

func TestReadTouchPointError(t *testing.T) {
	boom := errors.New("boom")
	bus := spibus.New(brokenSPI{boom}, spibus.Config{})
	t.Cleanup(func() { bus.Close() })
	d, err := New(bus, Config{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, _, err := d.Sample(); !errors.Is(err, boom) {
		t.Fatalf("Sample() err = %v, want %v", err, boom)
	}
	if got := d.ReadTouchPoint(); got.Z != 0 {
		t.Fatalf("ReadTouchPoint().Z = %d, want 0", got.Z)
	}
	if err := d.Err(); !errors.Is(err, boom) {
		t.Fatalf("Err() = %v, want %v", err, boom)
	}
	if err := d.Err(); err != nil {
		t.Fatalf("second Err() = %v, want nil", err)
	}
}
