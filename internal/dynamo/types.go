package dynamo

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Vector is a position, velocity or acceleration in 2 or 3 dimensions.
// Operations allocate and never modify the receiver.
type Vector []float64

// Zero returns the origin in dim dimensions.
func Zero(dim int) Vector {
	return make(Vector, dim)
}

// ValidDim reports whether dim is a supported dimensionality.
func ValidDim(dim int) bool {
	return dim == 2 || dim == 3
}

func (v Vector) Dim() int { return len(v) }

func (v Vector) Clone() Vector {
	if v == nil {
		return nil
	}
	c := make(Vector, len(v))
	copy(c, v)
	return c
}

func (v Vector) Add(other Vector) Vector {
	result := v.Clone()
	floats.Add(result, other)
	return result
}

func (v Vector) Sub(other Vector) Vector {
	result := make(Vector, len(v))
	floats.SubTo(result, v, other)
	return result
}

func (v Vector) Scale(factor float64) Vector {
	result := v.Clone()
	floats.Scale(factor, result)
	return result
}

// AddScaled returns v + alpha*other.
func (v Vector) AddScaled(alpha float64, other Vector) Vector {
	result := make(Vector, len(v))
	floats.AddScaledTo(result, v, alpha, other)
	return result
}

func (v Vector) SqNorm() float64 {
	return floats.Dot(v, v)
}

func (v Vector) Norm() float64 {
	return math.Sqrt(v.SqNorm())
}

func (v Vector) IsValid() bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}

// Equal reports component-wise equality within tol.
func (v Vector) Equal(other Vector, tol float64) bool {
	if len(v) != len(other) {
		return false
	}
	return floats.EqualApprox(v, other, tol)
}

// Kinematics is the mutable state of one particle. PrevPosition is nil
// until the first completed step. Velocity is only maintained by schemes
// that track it explicitly.
type Kinematics struct {
	Position     Vector
	PrevPosition Vector
	InitVelocity Vector
	Velocity     Vector
	Acceleration Vector
	StepCount    int
}

func (k *Kinematics) Dim() int { return len(k.Position) }

func (k *Kinematics) Clone() Kinematics {
	return Kinematics{
		Position:     k.Position.Clone(),
		PrevPosition: k.PrevPosition.Clone(),
		InitVelocity: k.InitVelocity.Clone(),
		Velocity:     k.Velocity.Clone(),
		Acceleration: k.Acceleration.Clone(),
		StepCount:    k.StepCount,
	}
}

// Phase is the integrator state. Bootstrap covers the first step, where
// no previous position exists yet.
type Phase int

const (
	PhaseBootstrap Phase = iota
	PhaseSteadyState
)

func (p Phase) String() string {
	switch p {
	case PhaseBootstrap:
		return "bootstrap"
	case PhaseSteadyState:
		return "steady"
	default:
		return "unknown"
	}
}

// Integrator advances one particle's kinematics by dt. Implementations
// hold per-particle phase and must not be shared between particles.
type Integrator interface {
	Name() string
	Phase() Phase
	Advance(k *Kinematics, dt float64) error
	Velocity(k *Kinematics, dt float64) Vector
}
