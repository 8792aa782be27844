package physics

import "math"

// Vector is a 2D pair used for both positions and velocities.
type Vector struct {
	X, Y float64
}

func (v Vector) Add(o Vector) Vector { return Vector{v.X + o.X, v.Y + o.Y} }
func (v Vector) Sub(o Vector) Vector { return Vector{v.X - o.X, v.Y - o.Y} }

func (v Vector) Scale(k float64) Vector { return Vector{v.X * k, v.Y * k} }

func (v Vector) Len() float64 { return math.Sqrt(v.X*v.X + v.Y*v.Y) }

// IsFinite reports whether neither component is NaN or infinite.
func (v Vector) IsFinite() bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) && !math.IsNaN(v.Y) && !math.IsInf(v.Y, 0)
}
