// Package physics provides point particles and the force laws acting
// between them.
//
// A [ForceLaw] is one of two inverse-square variants:
//
//   - [SymmetricCharge]: like kinds repel, unlike kinds attract, with
//     magnitude k/r², optionally divided by the receiver's mass
//   - [Gravitational]: every body attracts with G·m_other/r²
//
// Each [Particle] owns its kinematic state and its integrator. Forces are
// read-only over the other particles; only [Particle.ComputeAcceleration]
// and [Particle.Step] mutate the receiver.
//
// # Energy Conservation
//
// The pair potential matching each law is exposed for drift monitoring:
//
//	e, err := physics.TotalEnergy(law, particles, dt)
package physics
