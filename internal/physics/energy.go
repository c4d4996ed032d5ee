package physics

import "github.com/san-kum/particles/internal/dynamo"

// Inertia is the mass that pairs with the law's accelerations in energy
// and momentum sums. A charge law that ignores mass behaves as if every
// particle had unit mass.
func (l ForceLaw) Inertia(p *Particle) float64 {
	if l.Variant == SymmetricCharge && !l.MassScaled {
		return 1
	}
	return p.Mass
}

func KineticEnergy(law ForceLaw, ps []*Particle, dt float64) float64 {
	ke := 0.0
	for _, p := range ps {
		ke += 0.5 * law.Inertia(p) * p.Velocity(dt).SqNorm()
	}
	return ke
}

// PotentialEnergy sums the pair potential over every unordered pair.
func PotentialEnergy(law ForceLaw, ps []*Particle) (float64, error) {
	pe := 0.0
	for i := 0; i < len(ps); i++ {
		for j := i + 1; j < len(ps); j++ {
			u, err := law.PairPotential(ps[i], ps[j])
			if err != nil {
				return 0, err
			}
			pe += u
		}
	}
	return pe, nil
}

func TotalEnergy(law ForceLaw, ps []*Particle, dt float64) (float64, error) {
	pe, err := PotentialEnergy(law, ps)
	if err != nil {
		return 0, err
	}
	return KineticEnergy(law, ps, dt) + pe, nil
}

func Momentum(law ForceLaw, ps []*Particle, dt float64) dynamo.Vector {
	if len(ps) == 0 {
		return nil
	}
	p := dynamo.Zero(ps[0].Position.Dim())
	for _, b := range ps {
		p = p.AddScaled(law.Inertia(b), b.Velocity(dt))
	}
	return p
}

// CenterOfMass is the inertia-weighted mean position.
func CenterOfMass(law ForceLaw, ps []*Particle) dynamo.Vector {
	if len(ps) == 0 {
		return nil
	}
	com := dynamo.Zero(ps[0].Position.Dim())
	total := 0.0
	for _, b := range ps {
		m := law.Inertia(b)
		com = com.AddScaled(m, b.Position)
		total += m
	}
	return com.Scale(1 / total)
}
