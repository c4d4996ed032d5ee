// Package dynamo provides core simulation primitives for point-particle
// dynamics.
//
// The package defines the fundamental types shared by every other layer:
//
//   - [Vector]: fixed-dimension (2D or 3D) arithmetic
//   - [Kinematics]: the mutable kinematic state owned by one particle
//   - [Integrator]: per-particle stepping policy
//   - [Phase]: the bootstrap / steady-state integrator phases
//   - [SimulationError]: failure context (step, particle) for a run
//
// # Example
//
//	k := dynamo.Kinematics{Position: dynamo.Vector{3, -1, 0}, InitVelocity: dynamo.Vector{0, -1, 0}}
//	integ := integrators.NewVerlet()
//	k.Acceleration = accel
//	err := integ.Advance(&k, 0.05)
//
// # Thread Safety
//
// Kinematics and integrators are NOT thread-safe. Each particle owns its
// state and is advanced by exactly one caller.
package dynamo
