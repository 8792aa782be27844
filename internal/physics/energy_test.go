package physics

import (
	"errors"
	"math"
	"testing"
)

func TestEnergyTwoBodies(t *testing.T) {
	s := &System{Bodies: []*Body{
		{Mass: 2, Velocity: Vector{3, 0}},
		{Mass: 4, Position: Vector{0, 10}},
	}}

	want := 0.5*2*9 - G*2*4/10
	if got := s.Energy(); math.Abs(got-want) > 1e-12 {
		t.Errorf("Energy() = %v, want %v", got, want)
	}
}

func TestMomentum(t *testing.T) {
	s := &System{Bodies: []*Body{
		{Mass: 2, Position: Vector{1, 0}, Velocity: Vector{1, 2}},
		{Mass: 3, Position: Vector{0, 1}, Velocity: Vector{-1, 0}},
	}}

	px, py := s.Momentum()
	if px != -1 || py != 4 {
		t.Errorf("Momentum() = (%v, %v), want (-1, 4)", px, py)
	}

	// L = 2*(1*2 - 0*1) + 3*(0*0 - 1*-1)
	if got := s.AngularMomentum(); got != 7 {
		t.Errorf("AngularMomentum() = %v, want 7", got)
	}
}

func TestCenter(t *testing.T) {
	s := &System{Bodies: []*Body{
		{Mass: 1, Position: Vector{0, 0}},
		{Mass: 3, Position: Vector{4, 8}},
	}}
	if got := s.Center(); got != (Vector{3, 6}) {
		t.Errorf("Center() = %+v, want {3 6}", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		bodies []*Body
		want   error
	}{
		{"empty", nil, ErrEmptySystem},
		{"ok", []*Body{{Mass: 1}, {Mass: 2, Position: Vector{1, 0}}}, nil},
		{"zero mass", []*Body{{Name: "ghost", Mass: 0}}, ErrNonPositiveMass},
		{"negative mass", []*Body{{Mass: -1}}, ErrNonPositiveMass},
		{"nan mass", []*Body{{Mass: math.NaN()}}, ErrNonPositiveMass},
		{"coincident", []*Body{{Mass: 1, Position: Vector{5, 5}}, {Mass: 1, Position: Vector{5, 5}}}, ErrCoincident},
		{"infinite velocity", []*Body{{Mass: 1, Velocity: Vector{math.Inf(1), 0}}}, ErrNonFinite},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &System{Bodies: tt.bodies}
			err := s.Validate()
			if tt.want == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestBodyErrorMessage(t *testing.T) {
	err := &BodyError{Index: 2, Name: "moon", Wrapped: ErrNonPositiveMass}
	want := "body 2 (moon): physics: body mass must be positive"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestVector(t *testing.T) {
	a := Vector{3, 4}
	if a.Len() != 5 {
		t.Errorf("Len() = %v, want 5", a.Len())
	}
	if got := a.Add(Vector{1, 1}).Sub(Vector{2, 2}).Scale(2); got != (Vector{4, 6}) {
		t.Errorf("arithmetic = %+v, want {4 6}", got)
	}
	if (Vector{math.NaN(), 0}).IsFinite() {
		t.Error("NaN vector reported finite")
	}
}

func TestBodyIndex(t *testing.T) {
	s := NewSystem("dup")
	s.Add(&Body{Name: "sun", Mass: 1})
	s.Add(&Body{Name: "moon", Mass: 1, Position: Vector{1, 0}})
	s.Add(&Body{Name: "moon", Mass: 1, Position: Vector{2, 0}})

	tests := []struct {
		name string
		want int
	}{
		{"sun", 0},
		{"moon", 1},
		{"pluto", -1},
	}

	for _, tt := range tests {
		if got := s.BodyIndex(tt.name); got != tt.want {
			t.Errorf("BodyIndex(%q) = %d, want %d", tt.name, got, tt.want)
		}
	}
}
