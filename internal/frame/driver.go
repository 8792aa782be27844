// Package frame drives the render/step cycle of a gravitational system.
//
// A [Driver] owns the drawing [Surface] and the frame [clock.Clock]. Each
// call to [Driver.Cycle] clears the surface, draws every body and advances
// it, then records the frame time. Hosts decide when the next cycle runs:
// the terminal host reschedules with a bubbletea tick, the window host with
// raylib's frame pacing, and [Driver.Run] loops without delay for recording.
package frame

import (
	"context"
	"fmt"
	"time"

	"github.com/san-kum/orrery/internal/clock"
	"github.com/san-kum/orrery/internal/physics"
)

// Surface is a 2D drawing target in pixel coordinates.
type Surface interface {
	Clear(w, h float64)
	FillRect(x, y, w, h float64, color string)
	FillCircle(x, y, r float64, color string)
}

// Frame describes a completed cycle.
type Frame struct {
	Index   int
	Elapsed float64 // wall-clock seconds used by this cycle's physics pass
	Time    float64 // sum of Elapsed over all cycles so far
	System  *physics.System
}

// Observer is notified after every cycle.
type Observer interface {
	OnFrame(f Frame)
}

type Options struct {
	FPS        int
	Width      float64
	Height     float64
	Scale      float64 // simulation units to pixels
	Background string

	// StopOnNonFinite makes Run fail once any body state is NaN or Inf.
	StopOnNonFinite bool
}

func DefaultOptions() Options {
	return Options{
		FPS:        60,
		Width:      1280,
		Height:     720,
		Scale:      1,
		Background: "black",
	}
}

type Driver struct {
	opts      Options
	system    *physics.System
	surface   Surface
	clock     *clock.Clock
	observers []Observer
	frame     int
	time      float64
	elapsed   float64
}

func New(sys *physics.System, surface Surface, clk *clock.Clock, opts Options) *Driver {
	if opts.FPS <= 0 {
		opts.FPS = DefaultOptions().FPS
	}
	if opts.Scale == 0 {
		opts.Scale = 1
	}
	if clk == nil {
		clk = clock.New(nil)
	}
	return &Driver{
		opts:      opts,
		system:    sys,
		surface:   surface,
		clock:     clk,
		observers: make([]Observer, 0),
	}
}

func (d *Driver) AddObserver(o Observer) { d.observers = append(d.observers, o) }

func (d *Driver) System() *physics.System { return d.system }
func (d *Driver) Options() Options        { return d.opts }
func (d *Driver) Frames() int             { return d.frame }
func (d *Driver) SimTime() float64        { return d.time }

// Elapsed returns the seconds used by the most recent cycle.
func (d *Driver) Elapsed() float64 { return d.elapsed }

// Interval is the nominal delay between cycles.
func (d *Driver) Interval() time.Duration {
	return time.Second / time.Duration(d.opts.FPS)
}

// Cycle runs one frame: reset the surface, then for every body draw it and
// update it with the elapsed time of the previous frame, then tick the
// clock.
func (d *Driver) Cycle() {
	elapsed := d.clock.Delta()

	d.reset()
	for i, b := range d.system.Bodies {
		d.draw(b)
		d.system.UpdatePosition(i, elapsed)
	}
	d.clock.Tick()

	d.elapsed = elapsed
	d.time += elapsed
	f := Frame{Index: d.frame, Elapsed: elapsed, Time: d.time, System: d.system}
	d.frame++

	for _, o := range d.observers {
		o.OnFrame(f)
	}
}

func (d *Driver) reset() {
	d.surface.Clear(d.opts.Width, d.opts.Height)
	d.surface.FillRect(0, 0, d.opts.Width, d.opts.Height, d.opts.Background)
}

func (d *Driver) draw(b *physics.Body) {
	p := b.Position.Scale(d.opts.Scale)
	d.surface.FillCircle(p.X, p.Y, b.Radius, b.Color)
}

// Render draws the current state without advancing it.
func (d *Driver) Render() {
	d.reset()
	for _, b := range d.system.Bodies {
		d.draw(b)
	}
}

// Run repeats Cycle until frames cycles have run or ctx is done. frames <= 0
// runs until ctx is done.
func (d *Driver) Run(ctx context.Context, frames int) error {
	for i := 0; frames <= 0 || i < frames; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		d.Cycle()

		if d.opts.StopOnNonFinite && !d.system.Finite() {
			return &CycleError{Frame: d.frame - 1, Time: d.time, Wrapped: physics.ErrNonFinite}
		}
	}
	return nil
}

// CycleError wraps an error with the frame it occurred in.
type CycleError struct {
	Frame   int
	Time    float64
	Wrapped error
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("frame %d (t=%.4fs): %v", e.Frame, e.Time, e.Wrapped)
}

func (e *CycleError) Unwrap() error {
	return e.Wrapped
}
