package analysis

import (
	"math"

	"github.com/san-kum/orrery/internal/physics"
)

// Divergence estimates the exponential growth rate of the separation
// between sys and a copy whose body 0 is displaced along x by
// perturbation. Both systems are advanced with the same per-frame elapsed
// time for the given number of steps and the separation is renormalised
// each step. sys itself is not modified. A positive value means nearby
// configurations drift apart.
//
// The rate is per step. Divide by elapsed for a per-second rate.
func Divergence(sys *physics.System, elapsed float64, steps int, perturbation float64) float64 {
	if sys.Len() == 0 || steps <= 0 || perturbation <= 0 {
		return 0
	}

	a := sys.Clone()
	b := sys.Clone()
	b.Bodies[0].Position.X += perturbation

	sum := 0.0
	counted := 0
	for i := 0; i < steps; i++ {
		a.Advance(elapsed)
		b.Advance(elapsed)

		d := separation(a, b)
		if d == 0 || math.IsNaN(d) || math.IsInf(d, 0) {
			break
		}

		sum += math.Log(d / perturbation)
		counted++

		// renormalise b back to distance perturbation from a
		scale := perturbation / d
		for j := range b.Bodies {
			dp := b.Bodies[j].Position.Sub(a.Bodies[j].Position)
			dv := b.Bodies[j].Velocity.Sub(a.Bodies[j].Velocity)
			b.Bodies[j].Position = a.Bodies[j].Position.Add(dp.Scale(scale))
			b.Bodies[j].Velocity = a.Bodies[j].Velocity.Add(dv.Scale(scale))
		}
	}

	if counted == 0 {
		return 0
	}
	return sum / float64(counted)
}

func separation(a, b *physics.System) float64 {
	sum := 0.0
	for i := range a.Bodies {
		d := b.Bodies[i].Position.Sub(a.Bodies[i].Position)
		sum += d.X*d.X + d.Y*d.Y
	}
	return math.Sqrt(sum)
}
