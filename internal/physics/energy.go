package physics

import "math"

// Energy returns kinetic plus pairwise gravitational potential energy.
func (s *System) Energy() float64 {
	ke, pe := 0.0, 0.0
	n := len(s.Bodies)

	for i := 0; i < n; i++ {
		bi := s.Bodies[i]
		v := bi.Velocity
		ke += 0.5 * bi.Mass * (v.X*v.X + v.Y*v.Y)

		for j := i + 1; j < n; j++ {
			bj := s.Bodies[j]
			r := bi.Position.Sub(bj.Position).Len()
			pe -= G * bi.Mass * bj.Mass / r
		}
	}

	return ke + pe
}

func (s *System) Momentum() (px, py float64) {
	for _, b := range s.Bodies {
		px += b.Mass * b.Velocity.X
		py += b.Mass * b.Velocity.Y
	}
	return
}

func (s *System) AngularMomentum() float64 {
	L := 0.0
	for _, b := range s.Bodies {
		L += b.Mass * (b.Position.X*b.Velocity.Y - b.Position.Y*b.Velocity.X)
	}
	return L
}

// Center returns the mass-weighted center of the system.
func (s *System) Center() Vector {
	var c Vector
	total := 0.0
	for _, b := range s.Bodies {
		c = c.Add(b.Position.Scale(b.Mass))
		total += b.Mass
	}
	if total == 0 || math.IsNaN(total) {
		return Vector{}
	}
	return c.Scale(1 / total)
}
