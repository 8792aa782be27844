// Package clock tracks the wall-clock time between two consecutive frames.
package clock

import "time"

// Source provides the current time.
type Source interface {
	Now() time.Time
}

// SystemSource reads the process wall clock.
type SystemSource struct{}

func (SystemSource) Now() time.Time { return time.Now() }

// StepSource returns a time that advances by a fixed interval on every
// reading. Headless runs use it to get a constant elapsed time per frame.
type StepSource struct {
	t        time.Time
	interval time.Duration
}

func NewStepSource(start time.Time, interval time.Duration) *StepSource {
	return &StepSource{t: start, interval: interval}
}

func (s *StepSource) Now() time.Time {
	s.t = s.t.Add(s.interval)
	return s.t
}

// Clock holds the previous and current frame timestamps. Both start at the
// construction time, so the first Tick measures the time since New.
type Clock struct {
	src  Source
	past time.Time
	curr time.Time
}

func New(src Source) *Clock {
	if src == nil {
		src = SystemSource{}
	}
	now := src.Now()
	return &Clock{src: src, past: now, curr: now}
}

// Tick shifts the current timestamp into the past and reads a new one.
func (c *Clock) Tick() {
	c.past = c.curr
	c.curr = c.src.Now()
}

// Delta returns the seconds between the last two ticks.
func (c *Clock) Delta() float64 {
	return c.curr.Sub(c.past).Seconds()
}

func (c *Clock) Current() time.Time { return c.curr }
