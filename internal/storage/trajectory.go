package storage

import (
	"github.com/san-kum/orrery/internal/frame"
	"github.com/san-kum/orrery/internal/physics"
)

// Sample is one body's state at one frame.
type Sample struct {
	Position physics.Vector `json:"position"`
	Velocity physics.Vector `json:"velocity"`
}

// Trajectory is the recorded state of every body, one row per frame.
type Trajectory struct {
	Bodies  []string   `json:"bodies"`
	Colors  []string   `json:"colors"`
	Times   []float64  `json:"times"`
	Samples [][]Sample `json:"samples"`
}

// Series returns the values of one coordinate of one body over time.
// Coordinate is one of "x", "y", "vx", "vy".
func (t *Trajectory) Series(body int, coordinate string) []float64 {
	out := make([]float64, len(t.Samples))
	for i, row := range t.Samples {
		if body >= len(row) {
			continue
		}
		s := row[body]
		switch coordinate {
		case "x":
			out[i] = s.Position.X
		case "y":
			out[i] = s.Position.Y
		case "vx":
			out[i] = s.Velocity.X
		case "vy":
			out[i] = s.Velocity.Y
		}
	}
	return out
}

// BodyIndex returns the index of the first body with the given name, or -1.
func (t *Trajectory) BodyIndex(name string) int {
	for i, n := range t.Bodies {
		if n == name {
			return i
		}
	}
	return -1
}

// Path returns the positions of one body over time.
func (t *Trajectory) Path(body int) []physics.Vector {
	out := make([]physics.Vector, 0, len(t.Samples))
	for _, row := range t.Samples {
		if body < len(row) {
			out = append(out, row[body].Position)
		}
	}
	return out
}

// Recorder is a frame.Observer that appends every frame to a Trajectory.
// The initial state is captured by NewRecorder.
type Recorder struct {
	traj *Trajectory
}

func NewRecorder(sys *physics.System) *Recorder {
	t := &Trajectory{
		Bodies: make([]string, len(sys.Bodies)),
		Colors: make([]string, len(sys.Bodies)),
	}
	for i, b := range sys.Bodies {
		t.Bodies[i] = b.Name
		t.Colors[i] = b.TrailColor
		if t.Colors[i] == "" {
			t.Colors[i] = b.Color
		}
	}
	r := &Recorder{traj: t}
	r.capture(0, sys)
	return r
}

func (r *Recorder) OnFrame(f frame.Frame) {
	r.capture(f.Time, f.System)
}

func (r *Recorder) capture(t float64, sys *physics.System) {
	row := make([]Sample, len(sys.Bodies))
	for i, b := range sys.Bodies {
		row[i] = Sample{Position: b.Position, Velocity: b.Velocity}
	}
	r.traj.Times = append(r.traj.Times, t)
	r.traj.Samples = append(r.traj.Samples, row)
}

func (r *Recorder) Trajectory() *Trajectory { return r.traj }
