package integrators

import "github.com/san-kum/particles/internal/dynamo"

// Taylor applies a second-order Taylor step on every call and tracks
// velocity explicitly:
//
//	x += v dt + a dt^2 / 2
//	v += a dt
type Taylor struct {
	phase dynamo.Phase
}

func NewTaylor() *Taylor {
	return &Taylor{phase: dynamo.PhaseBootstrap}
}

func (t *Taylor) Name() string        { return "taylor" }
func (t *Taylor) Phase() dynamo.Phase { return t.phase }

func (t *Taylor) Advance(k *dynamo.Kinematics, dt float64) error {
	if err := checkStep(t.phase, k, dt); err != nil {
		return err
	}

	vel := k.Velocity
	if t.phase == dynamo.PhaseBootstrap || vel == nil {
		vel = initVelocity(k)
	}

	next := k.Position.
		AddScaled(dt, vel).
		AddScaled(0.5*dt*dt, k.Acceleration)

	k.Velocity = vel.AddScaled(dt, k.Acceleration)
	k.PrevPosition = k.Position
	k.Position = next
	k.StepCount++
	t.phase = dynamo.PhaseSteadyState
	return nil
}

func (t *Taylor) Velocity(k *dynamo.Kinematics, dt float64) dynamo.Vector {
	if t.phase == dynamo.PhaseBootstrap || k.Velocity == nil {
		return initVelocity(k)
	}
	return k.Velocity.Clone()
}
