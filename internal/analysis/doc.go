// Package analysis extracts scalar series from recorded trajectories.
//
//   - [Separation]: distance between two particles at every step
//   - [DominantPeriod]: strongest oscillation period of a series
//   - [Divergence] and [DivergenceRate]: how fast two runs of the same
//     scenario drift apart, for instance under different integrators
//
// # Orbit Period
//
//	sep, _ := analysis.Separation(traj, 0, 1)
//	period, ok := analysis.DominantPeriod(sep, dt)
package analysis
