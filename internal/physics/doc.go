// Package physics advances a small set of point masses under pairwise
// Newtonian gravity.
//
// A [System] holds the bodies in insertion order. [System.UpdatePosition]
// applies one explicit Euler update to a single body using the current
// state of every other body, and [System.Advance] does so for every body in
// order. Updates are sequential: a body updated later in a pass sees the
// positions already written for earlier bodies in the same pass.
//
// # Time constants
//
// Forces are sampled once per [Timestep] (one simulated day). The step
// multiplies by Timestep twice, once when accumulating forces and again when
// moving the body by velocity·elapsed:
//
//	v -= Σ F(b, o)·Timestep / m
//	p += v·elapsed·Timestep
//
// This compounding has no physical meaning. It is kept so that motion on
// screen matches the reference animation.
//
// # Degenerate input
//
// The step does not guard against coincident bodies or non-positive mass;
// both produce non-finite values that then spread through later frames. Use
// [System.Validate] when building a system from configuration.
package physics
