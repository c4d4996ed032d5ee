package metrics

import (
	"math"

	"github.com/san-kum/particles/internal/dynamo"
	"github.com/san-kum/particles/internal/physics"
	"github.com/san-kum/particles/internal/sim"
)

// CenterOfMassDrift is the largest displacement of the centre of mass
// from where it was at the first observation.
type CenterOfMassDrift struct {
	name     string
	origin   dynamo.Vector
	maxDrift float64
}

func NewCenterOfMassDrift() *CenterOfMassDrift {
	return &CenterOfMassDrift{name: "com_drift"}
}

func (c *CenterOfMassDrift) Name() string { return c.name }

func (c *CenterOfMassDrift) Observe(s sim.Snapshot) {
	com := physics.CenterOfMass(s.Law, s.Particles)
	if com == nil {
		return
	}
	if c.origin == nil {
		c.origin = com
		return
	}
	c.maxDrift = math.Max(c.maxDrift, com.Sub(c.origin).Norm())
}

func (c *CenterOfMassDrift) Value() float64 { return c.maxDrift }

func (c *CenterOfMassDrift) Reset() {
	c.origin = nil
	c.maxDrift = 0
}
