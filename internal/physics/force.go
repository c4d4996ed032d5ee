package physics

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/particles/internal/dynamo"
)

// GravitationalConstant in m^3 / (kg s^2).
const GravitationalConstant = 6.674e-11

// Variant selects the acceleration formula of a ForceLaw.
type Variant int

const (
	// SymmetricCharge: like kinds repel, unlike kinds attract with k/r^2.
	SymmetricCharge Variant = iota
	// Gravitational: always attractive, scaled by the other body's mass.
	Gravitational
)

func (v Variant) String() string {
	switch v {
	case SymmetricCharge:
		return "charge"
	case Gravitational:
		return "gravity"
	default:
		return fmt.Sprintf("variant(%d)", int(v))
	}
}

func ParseVariant(s string) (Variant, error) {
	switch strings.ToLower(s) {
	case "charge", "symmetric", "symmetric_charge", "":
		return SymmetricCharge, nil
	case "gravity", "gravitational", "grav":
		return Gravitational, nil
	default:
		return 0, fmt.Errorf("unknown force law: %s", s)
	}
}

// ForceLaw is an inverse-square pair interaction. The two variants are
// deliberately not unified: the charge law divides by the receiving
// particle's mass, gravity multiplies by the source's mass.
type ForceLaw struct {
	Variant Variant
	K       float64
	// MassScaled divides charge-law accelerations by the receiver's mass.
	// Ignored by the gravitational variant.
	MassScaled bool
}

func NewSymmetricCharge(k float64, massScaled bool) ForceLaw {
	return ForceLaw{Variant: SymmetricCharge, K: k, MassScaled: massScaled}
}

func NewGravitational() ForceLaw {
	return ForceLaw{Variant: Gravitational, K: GravitationalConstant}
}

func (l ForceLaw) String() string {
	return fmt.Sprintf("%s(k=%g)", l.Variant, l.K)
}

// displacement points from self to other.
func displacement(self, other *Particle) (dynamo.Vector, float64, error) {
	if self.Position.Dim() != other.Position.Dim() {
		return nil, 0, fmt.Errorf("%w: %q is %dD, %q is %dD", dynamo.ErrDimensionMismatch,
			self.Name, self.Position.Dim(), other.Name, other.Position.Dim())
	}
	d := other.Position.Sub(self.Position)
	sq := d.SqNorm()
	if sq == 0 {
		return nil, 0, fmt.Errorf("%w: %q and %q at %v", dynamo.ErrDegenerateConfiguration,
			self.Name, other.Name, []float64(self.Position))
	}
	return d, sq, nil
}

// AccelerationOn returns the acceleration of self caused by other. Neither
// particle is modified.
func (l ForceLaw) AccelerationOn(self, other *Particle) (dynamo.Vector, error) {
	d, sq, err := displacement(self, other)
	if err != nil {
		return nil, err
	}
	dist := math.Sqrt(sq)

	var magnitude float64
	switch l.Variant {
	case SymmetricCharge:
		magnitude = l.K / sq
		if self.Kind == other.Kind {
			magnitude = -magnitude
		}
		if l.MassScaled {
			magnitude /= self.Mass
		}
	case Gravitational:
		if self.Kind != other.Kind {
			return nil, fmt.Errorf("%w: gravitational kinds %q and %q differ",
				dynamo.ErrIncompatibleBodies, self.Kind, other.Kind)
		}
		magnitude = l.K * other.Mass / sq
	default:
		return nil, fmt.Errorf("unknown force law variant %d", int(l.Variant))
	}

	return d.Scale(magnitude / dist), nil
}

// TotalAcceleration sums AccelerationOn over others in input order. The
// caller is responsible for excluding self.
func (l ForceLaw) TotalAcceleration(self *Particle, others []*Particle) (dynamo.Vector, error) {
	total := dynamo.Zero(self.Position.Dim())
	for _, other := range others {
		acc, err := l.AccelerationOn(self, other)
		if err != nil {
			return nil, err
		}
		total = total.Add(acc)
	}
	return total, nil
}

// CheckCompatible rejects particle sets the law cannot act on.
func (l ForceLaw) CheckCompatible(particles []*Particle) error {
	if l.Variant != Gravitational {
		return nil
	}
	for _, p := range particles {
		if p.Kind != KindGravity {
			return fmt.Errorf("%w: %q has kind %q, gravitational bodies must be %q",
				dynamo.ErrIncompatibleBodies, p.Name, p.Kind, KindGravity)
		}
	}
	return nil
}

// PairPotential is the potential energy of a pair consistent with the
// law's force.
func (l ForceLaw) PairPotential(a, b *Particle) (float64, error) {
	_, sq, err := displacement(a, b)
	if err != nil {
		return 0, err
	}
	r := math.Sqrt(sq)

	switch l.Variant {
	case SymmetricCharge:
		if a.Kind == b.Kind {
			return l.K / r, nil
		}
		return -l.K / r, nil
	case Gravitational:
		return -l.K * a.Mass * b.Mass / r, nil
	default:
		return 0, fmt.Errorf("unknown force law variant %d", int(l.Variant))
	}
}
