package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/particles/internal/dynamo"
)

// Kind is the identity tag a force law uses to decide between attraction
// and repulsion.
type Kind string

// KindGravity is shared by every body under the gravitational law.
const KindGravity Kind = "grav"

// Particle is a point body. It owns its kinematic state and is only ever
// mutated through ComputeAcceleration and Step.
type Particle struct {
	Name string
	Kind Kind
	Mass float64
	dynamo.Kinematics

	integ dynamo.Integrator
}

// NewParticle validates and copies the initial conditions. A nil velocity
// means the particle starts at rest.
func NewParticle(name string, kind Kind, mass float64, position, velocity dynamo.Vector, integ dynamo.Integrator) (*Particle, error) {
	if integ == nil {
		return nil, fmt.Errorf("particle %q: integrator is required", name)
	}
	if math.IsNaN(mass) || mass <= 0 || math.IsInf(mass, 0) {
		return nil, fmt.Errorf("%w: particle %q mass must be positive, got %g", dynamo.ErrParameterBounds, name, mass)
	}
	if !dynamo.ValidDim(position.Dim()) {
		return nil, fmt.Errorf("%w: particle %q has %d dimensions, want 2 or 3", dynamo.ErrDimensionMismatch, name, position.Dim())
	}
	if velocity == nil {
		velocity = dynamo.Zero(position.Dim())
	}
	if velocity.Dim() != position.Dim() {
		return nil, fmt.Errorf("%w: particle %q velocity has %d dimensions, position %d",
			dynamo.ErrDimensionMismatch, name, velocity.Dim(), position.Dim())
	}
	if !position.IsValid() || !velocity.IsValid() {
		return nil, fmt.Errorf("%w: particle %q", dynamo.ErrInvalidState, name)
	}

	return &Particle{
		Name: name,
		Kind: kind,
		Mass: mass,
		Kinematics: dynamo.Kinematics{
			Position:     position.Clone(),
			InitVelocity: velocity.Clone(),
			Acceleration: dynamo.Zero(position.Dim()),
		},
		integ: integ,
	}, nil
}

// NewGravitator builds a body for the gravitational law. Anti-mass is not
// allowed, so the absolute value of mass is used.
func NewGravitator(name string, mass float64, position, velocity dynamo.Vector, integ dynamo.Integrator) (*Particle, error) {
	return NewParticle(name, KindGravity, math.Abs(mass), position, velocity, integ)
}

// ComputeAcceleration stores the total acceleration due to others. The
// particle is left untouched when the force law fails.
func (p *Particle) ComputeAcceleration(law ForceLaw, others []*Particle) error {
	acc, err := law.TotalAcceleration(p, others)
	if err != nil {
		return err
	}
	p.Acceleration = acc
	return nil
}

// Step advances the particle by dt using its integrator.
func (p *Particle) Step(dt float64) error {
	return p.integ.Advance(&p.Kinematics, dt)
}

// Velocity reports the particle's velocity as seen by its integrator.
func (p *Particle) Velocity(dt float64) dynamo.Vector {
	return p.integ.Velocity(&p.Kinematics, dt)
}

func (p *Particle) Phase() dynamo.Phase { return p.integ.Phase() }

func (p *Particle) Integrator() string { return p.integ.Name() }

func (p *Particle) String() string {
	return fmt.Sprintf("%s(%s, m=%g) at %v", p.Name, p.Kind, p.Mass, []float64(p.Position))
}
