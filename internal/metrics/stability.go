package metrics

import "github.com/san-kum/particles/internal/sim"

// Boundedness is the fraction of observed steps in which every particle
// stayed within radius of the origin.
type Boundedness struct {
	name       string
	radius     float64
	violations int
	samples    int
}

func NewBoundedness(radius float64) *Boundedness {
	return &Boundedness{
		name:   "bounded",
		radius: radius,
	}
}

func (b *Boundedness) Name() string {
	return b.name
}

func (b *Boundedness) Observe(s sim.Snapshot) {
	b.samples++
	for _, p := range s.Particles {
		if p.Position.Norm() > b.radius {
			b.violations++
			break
		}
	}
}

func (b *Boundedness) Value() float64 {
	if b.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(b.violations)/float64(b.samples)
}

func (b *Boundedness) Reset() {
	b.violations = 0
	b.samples = 0
}

// Default returns the metrics attached to every run. radius bounds the
// region considered stable; zero disables the boundedness metric.
func Default(radius float64) []sim.Metric {
	ms := []sim.Metric{
		NewEnergyDrift(),
		NewMomentumDrift(),
		NewCenterOfMassDrift(),
	}
	if radius > 0 {
		ms = append(ms, NewBoundedness(radius))
	}
	return ms
}
