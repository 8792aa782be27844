// Package analysis provides post-run tools for recorded and live systems.
//
//   - [PowerSpectrum]: FFT magnitude of a sampled coordinate
//   - [DominantPeriod]: strongest oscillation period of a series
//   - [Divergence]: separation growth between a system and a perturbed copy
//
// An orbiting body's x coordinate is close to periodic, so its spectrum
// has a single strong peak:
//
//	xs := traj.Series(traj.BodyIndex("earth"), "x")
//	period := analysis.DominantPeriod(xs, 1.0/60)
package analysis
