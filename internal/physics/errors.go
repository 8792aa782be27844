package physics

import (
	"errors"
	"fmt"
)

// Domain errors reported by Validate and by hosts that watch for divergence.
var (
	// ErrEmptySystem indicates a system with no bodies.
	ErrEmptySystem = errors.New("physics: system has no bodies")

	// ErrNonPositiveMass indicates a body whose mass is zero or negative.
	ErrNonPositiveMass = errors.New("physics: body mass must be positive")

	// ErrCoincident indicates two bodies at the same position.
	ErrCoincident = errors.New("physics: bodies share a position")

	// ErrNonFinite indicates a position or velocity became NaN or Inf.
	ErrNonFinite = errors.New("physics: non-finite body state")
)

// BodyError wraps an error with the offending body.
type BodyError struct {
	Index   int
	Name    string
	Wrapped error
}

func (e *BodyError) Error() string {
	return fmt.Sprintf("body %d (%s): %v", e.Index, e.Name, e.Wrapped)
}

func (e *BodyError) Unwrap() error {
	return e.Wrapped
}

// Validate checks the preconditions the step relies on but does not
// enforce: positive masses and pairwise distinct positions.
func (s *System) Validate() error {
	if len(s.Bodies) == 0 {
		return ErrEmptySystem
	}
	for i, b := range s.Bodies {
		if !(b.Mass > 0) {
			return &BodyError{Index: i, Name: b.Name, Wrapped: ErrNonPositiveMass}
		}
		if !b.Position.IsFinite() || !b.Velocity.IsFinite() {
			return &BodyError{Index: i, Name: b.Name, Wrapped: ErrNonFinite}
		}
		for j := 0; j < i; j++ {
			if s.Bodies[j].Position == b.Position {
				return &BodyError{
					Index:   i,
					Name:    b.Name,
					Wrapped: fmt.Errorf("%w with body %d (%s)", ErrCoincident, j, s.Bodies[j].Name),
				}
			}
		}
	}
	return nil
}
