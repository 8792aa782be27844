package frame_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/orrery/internal/clock"
	"github.com/san-kum/orrery/internal/frame"
	"github.com/san-kum/orrery/internal/physics"
)

// recorder logs surface calls and, through the system pointer, the body
// positions seen at draw time.
type recorder struct {
	ops []string
}

func (r *recorder) Clear(w, h float64) {
	r.ops = append(r.ops, fmt.Sprintf("clear %.0fx%.0f", w, h))
}

func (r *recorder) FillRect(x, y, w, h float64, color string) {
	r.ops = append(r.ops, fmt.Sprintf("rect %.0f,%.0f %.0fx%.0f %s", x, y, w, h, color))
}

func (r *recorder) FillCircle(x, y, rad float64, color string) {
	r.ops = append(r.ops, fmt.Sprintf("circle %.3f,%.3f r%.0f %s", x, y, rad, color))
}

type frameLog struct {
	frames []frame.Frame
}

func (l *frameLog) OnFrame(f frame.Frame) { l.frames = append(l.frames, f) }

// frameInterval is the step clock interval; time.Duration truncates 1/60 s
// to whole nanoseconds.
const frameInterval = time.Second / 60

var frameStep = frameInterval.Seconds()

func henry() *physics.System {
	return &physics.System{Name: "henry", Bodies: []*physics.Body{
		{Name: "sun", Mass: 333000, Position: physics.Vector{X: 640, Y: 360}, Radius: 80, Color: "orange"},
		{Name: "earth", Mass: 1, Position: physics.Vector{X: 450, Y: 450}, Velocity: physics.Vector{X: 0.001, Y: 0.0018}, Radius: 10, Color: "green"},
		{Name: "moon", Mass: 0.0002, Position: physics.Vector{X: 455, Y: 455}, Velocity: physics.Vector{X: 0.0015, Y: 0.00179}, Radius: 5, Color: "white"},
	}}
}

var _ = Describe("Driver", func() {
	var (
		sys  *physics.System
		surf *recorder
		clk  *clock.Clock
		drv  *frame.Driver
		opts frame.Options
	)

	BeforeEach(func() {
		sys = henry()
		surf = &recorder{}
		clk = clock.New(clock.NewStepSource(time.Unix(0, 0), frameInterval))
		opts = frame.DefaultOptions()
		drv = frame.New(sys, surf, clk, opts)
	})

	It("derives the nominal interval from the frame rate", func() {
		Expect(drv.Interval()).To(Equal(time.Second / 60))

		slow := frame.New(sys, surf, clk, frame.Options{FPS: 4})
		Expect(slow.Interval()).To(Equal(250 * time.Millisecond))
	})

	It("clears the surface before drawing bodies in order", func() {
		drv.Cycle()

		Expect(surf.ops).To(HaveLen(5))
		Expect(surf.ops[0]).To(Equal("clear 1280x720"))
		Expect(surf.ops[1]).To(Equal("rect 0,0 1280x720 black"))
		Expect(surf.ops[2]).To(HavePrefix("circle 640.000,360.000 r80 orange"))
		Expect(surf.ops[3]).To(HavePrefix("circle 450.000,450.000 r10 green"))
		Expect(surf.ops[4]).To(HavePrefix("circle 455.000,455.000 r5 white"))
	})

	It("uses a zero elapsed time on the first cycle", func() {
		log := &frameLog{}
		drv.AddObserver(log)

		drv.Cycle()

		Expect(log.frames).To(HaveLen(1))
		Expect(log.frames[0].Elapsed).To(BeZero())
		Expect(sys.Bodies[1].Position).To(Equal(physics.Vector{X: 450, Y: 450}))
		Expect(sys.Bodies[1].Velocity).NotTo(Equal(physics.Vector{X: 0.001, Y: 0.0018}))
	})

	It("uses the time between the previous two ticks afterwards", func() {
		log := &frameLog{}
		drv.AddObserver(log)

		drv.Cycle()
		before := sys.Bodies[1].Position
		v := sys.Bodies[1].Velocity
		drv.Cycle()

		Expect(log.frames[1].Elapsed).To(Equal(frameStep))
		Expect(log.frames[1].Index).To(Equal(1))
		Expect(log.frames[1].Time).To(Equal(frameStep))
		Expect(sys.Bodies[1].Position.X).NotTo(Equal(before.X))
		Expect(sys.Bodies[1].Velocity).NotTo(Equal(v))
	})

	It("draws each body before stepping it", func() {
		drv.Cycle()
		surf.ops = nil
		earth := sys.Bodies[1].Position

		drv.Cycle()

		Expect(surf.ops[3]).To(Equal(fmt.Sprintf("circle %.3f,%.3f r10 green", earth.X, earth.Y)))
		Expect(sys.Bodies[1].Position).NotTo(Equal(earth))
	})

	It("matches a sequential physics pass", func() {
		ref := henry()
		drv.Cycle()
		ref.Advance(0)
		drv.Cycle()
		ref.Advance(frameStep)

		for i, b := range sys.Bodies {
			Expect(b.Position).To(Equal(ref.Bodies[i].Position))
			Expect(b.Velocity).To(Equal(ref.Bodies[i].Velocity))
		}
	})

	It("scales positions to pixels", func() {
		opts.Scale = 0.5
		drv = frame.New(sys, surf, clk, opts)

		drv.Render()

		Expect(surf.ops[2]).To(Equal("circle 320.000,180.000 r80 orange"))
		Expect(drv.Frames()).To(BeZero())
	})

	Describe("Run", func() {
		It("stops after the requested number of frames", func() {
			Expect(drv.Run(context.Background(), 10)).To(Succeed())
			Expect(drv.Frames()).To(Equal(10))
			Expect(drv.SimTime()).To(BeNumerically("~", 9*frameStep, 1e-12))
		})

		It("stops when the context is canceled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			err := drv.Run(ctx, 0)
			Expect(err).To(MatchError(context.Canceled))
			Expect(drv.Frames()).To(BeZero())
		})

		It("reports non-finite state when asked to", func() {
			sys.Bodies[2].Position = sys.Bodies[1].Position
			opts.StopOnNonFinite = true
			drv = frame.New(sys, surf, clk, opts)

			err := drv.Run(context.Background(), 5)

			Expect(errors.Is(err, physics.ErrNonFinite)).To(BeTrue())
			var cerr *frame.CycleError
			Expect(errors.As(err, &cerr)).To(BeTrue())
			Expect(cerr.Frame).To(Equal(0))
		})

		It("keeps going through non-finite state by default", func() {
			sys.Bodies[2].Position = sys.Bodies[1].Position

			Expect(drv.Run(context.Background(), 5)).To(Succeed())
			Expect(sys.Finite()).To(BeFalse())
		})
	})

	It("logs body positions", func() {
		var buf bytes.Buffer
		drv.AddObserver(frame.NewLogObserver(log.New(&buf, "", 0)))

		drv.Cycle()

		Expect(buf.String()).To(ContainSubstring("frame=0 body=earth x=450.000000 y=450.000000"))
		Expect(buf.String()).To(ContainSubstring("body=moon"))
	})
})
