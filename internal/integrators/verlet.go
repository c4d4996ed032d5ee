package integrators

import (
	"fmt"
	"math"

	"github.com/san-kum/particles/internal/dynamo"
)

// Verlet is the two-phase position Verlet scheme. The first step is a
// second-order Taylor expansion seeded by the initial velocity, since no
// previous position exists yet; every later step uses
//
//	x(t+dt) = 2x(t) - x(t-dt) + a(t)dt^2
//
// Velocity is never integrated. It is derived from consecutive positions.
type Verlet struct {
	phase dynamo.Phase
}

func NewVerlet() *Verlet {
	return &Verlet{phase: dynamo.PhaseBootstrap}
}

func (v *Verlet) Name() string        { return "verlet" }
func (v *Verlet) Phase() dynamo.Phase { return v.phase }

func (v *Verlet) Advance(k *dynamo.Kinematics, dt float64) error {
	if err := checkStep(v.phase, k, dt); err != nil {
		return err
	}

	dt2 := dt * dt
	var next dynamo.Vector

	switch v.phase {
	case dynamo.PhaseBootstrap:
		next = k.Position.
			AddScaled(dt, initVelocity(k)).
			AddScaled(0.5*dt2, k.Acceleration)
	case dynamo.PhaseSteadyState:
		next = k.Position.Scale(2).
			Sub(k.PrevPosition).
			AddScaled(dt2, k.Acceleration)
	}

	k.PrevPosition = k.Position
	k.Position = next
	k.StepCount++
	v.phase = dynamo.PhaseSteadyState
	return nil
}

func (v *Verlet) Velocity(k *dynamo.Kinematics, dt float64) dynamo.Vector {
	if v.phase == dynamo.PhaseBootstrap || k.PrevPosition == nil || dt <= 0 {
		return initVelocity(k)
	}
	return k.Position.Sub(k.PrevPosition).Scale(1 / dt)
}

// checkStep validates the preconditions shared by every scheme. Nothing is
// mutated when it fails.
func checkStep(phase dynamo.Phase, k *dynamo.Kinematics, dt float64) error {
	if math.IsNaN(dt) || math.IsInf(dt, 0) || dt <= 0 {
		return fmt.Errorf("%w: dt must be positive and finite, got %g", dynamo.ErrInvalidStepState, dt)
	}
	if k.StepCount < 0 {
		return fmt.Errorf("%w: negative step count %d", dynamo.ErrInvalidStepState, k.StepCount)
	}
	switch phase {
	case dynamo.PhaseBootstrap:
		if k.StepCount != 0 {
			return fmt.Errorf("%w: bootstrap phase at step count %d", dynamo.ErrInvalidStepState, k.StepCount)
		}
	case dynamo.PhaseSteadyState:
		if k.StepCount == 0 || k.PrevPosition == nil {
			return fmt.Errorf("%w: steady phase without a previous position", dynamo.ErrInvalidStepState)
		}
	default:
		return fmt.Errorf("%w: unknown phase %d", dynamo.ErrInvalidStepState, phase)
	}
	if len(k.Acceleration) != len(k.Position) {
		return fmt.Errorf("%w: acceleration has %d components, position %d",
			dynamo.ErrDimensionMismatch, len(k.Acceleration), len(k.Position))
	}
	return nil
}

func initVelocity(k *dynamo.Kinematics) dynamo.Vector {
	if k.InitVelocity == nil {
		return dynamo.Zero(k.Dim())
	}
	return k.InitVelocity.Clone()
}
