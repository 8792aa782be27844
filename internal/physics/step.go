package physics

import "math"

// Attraction returns the force b experiences from o, pointing along the
// displacement from o to b. Coincident bodies divide by zero.
func Attraction(b, o *Body) Vector {
	dx := b.Position.X - o.Position.X
	dy := b.Position.Y - o.Position.Y

	distance := math.Sqrt(dx*dx + dy*dy)

	force := G * b.Mass * o.Mass / (distance * distance)
	theta := math.Atan2(dy, dx)

	return Vector{math.Cos(theta) * force, math.Sin(theta) * force}
}

// UpdatePosition applies one Euler update to body i using the current state
// of all other bodies. The body is mutated before the call returns.
func (s *System) UpdatePosition(i int, elapsed float64) {
	b := s.Bodies[i]

	totalFx, totalFy := 0.0, 0.0
	for _, o := range s.Bodies {
		if o == b {
			continue
		}
		f := Attraction(b, o)
		totalFx += f.X * Timestep
		totalFy += f.Y * Timestep
	}

	b.Velocity.X -= totalFx / b.Mass
	b.Velocity.Y -= totalFy / b.Mass

	b.Position.X += b.Velocity.X * elapsed * Timestep
	b.Position.Y += b.Velocity.Y * elapsed * Timestep
}

// Advance updates every body in insertion order.
func (s *System) Advance(elapsed float64) {
	for i := range s.Bodies {
		s.UpdatePosition(i, elapsed)
	}
}
