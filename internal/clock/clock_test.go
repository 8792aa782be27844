package clock

import (
	"math"
	"testing"
	"time"
)

type fakeSource struct {
	times []time.Time
	i     int
}

func (f *fakeSource) Now() time.Time {
	t := f.times[f.i]
	if f.i < len(f.times)-1 {
		f.i++
	}
	return t
}

func TestClockDeltaZeroBeforeTick(t *testing.T) {
	c := New(&fakeSource{times: []time.Time{time.Unix(100, 0)}})
	if d := c.Delta(); d != 0 {
		t.Errorf("Delta() = %v before any tick, want 0", d)
	}
}

func TestClockTick(t *testing.T) {
	base := time.Unix(1000, 0)
	src := &fakeSource{times: []time.Time{
		base,
		base.Add(250 * time.Millisecond),
		base.Add(300 * time.Millisecond),
	}}
	c := New(src)

	c.Tick()
	if d := c.Delta(); math.Abs(d-0.25) > 1e-12 {
		t.Errorf("first Delta() = %v, want 0.25", d)
	}

	c.Tick()
	if d := c.Delta(); math.Abs(d-0.05) > 1e-12 {
		t.Errorf("second Delta() = %v, want 0.05", d)
	}
	if !c.Current().Equal(base.Add(300 * time.Millisecond)) {
		t.Errorf("Current() = %v", c.Current())
	}
}

func TestStepSource(t *testing.T) {
	start := time.Unix(0, 0)
	interval := time.Second / 60
	want := interval.Seconds()
	c := New(NewStepSource(start, interval))

	for i := 0; i < 5; i++ {
		c.Tick()
		if d := c.Delta(); math.Abs(d-want) > 1e-12 {
			t.Fatalf("tick %d: Delta() = %v, want %v", i, d, want)
		}
	}
}

func TestNewDefaultsToSystemSource(t *testing.T) {
	c := New(nil)
	before := c.Current()
	time.Sleep(2 * time.Millisecond)
	c.Tick()
	if !c.Current().After(before) {
		t.Error("system clock did not advance")
	}
	if c.Delta() <= 0 {
		t.Errorf("Delta() = %v, want positive", c.Delta())
	}
}
