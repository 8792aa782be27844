package physics

const (
	// G is the gravitational constant in m³ kg⁻¹ s⁻².
	G = 6.67428e-11

	// AU is one astronomical unit in meters.
	AU = 149.6e6 * 1000

	// Timestep is the number of simulated seconds represented by one force
	// sample (one day).
	Timestep = 3600 * 24
)

// Body is a point mass. Volume, Radius, Color and TrailColor are display
// data and are never read by the step.
type Body struct {
	Name       string
	Mass       float64
	Volume     float64
	Position   Vector
	Velocity   Vector
	Radius     float64
	Color      string
	TrailColor string
}

// System is an ordered set of bodies. Bodies are held by pointer so that
// self-interaction is excluded by identity: two bodies with equal mass and
// position still attract each other.
type System struct {
	Name   string
	Bodies []*Body
}

func NewSystem(name string) *System {
	return &System{Name: name, Bodies: make([]*Body, 0)}
}

func (s *System) Add(b *Body) { s.Bodies = append(s.Bodies, b) }

func (s *System) Len() int { return len(s.Bodies) }

// BodyIndex returns the index of the first body with the given name, or -1.
func (s *System) BodyIndex(name string) int {
	for i, b := range s.Bodies {
		if b.Name == name {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy of the system.
func (s *System) Clone() *System {
	c := &System{Name: s.Name, Bodies: make([]*Body, len(s.Bodies))}
	for i, b := range s.Bodies {
		cp := *b
		c.Bodies[i] = &cp
	}
	return c
}

// Finite reports whether every position and velocity is finite.
func (s *System) Finite() bool {
	for _, b := range s.Bodies {
		if !b.Position.IsFinite() || !b.Velocity.IsFinite() {
			return false
		}
	}
	return true
}
