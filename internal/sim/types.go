package sim

import "github.com/san-kum/particles/internal/physics"

// Snapshot is the read-only view handed to metrics and observers after a
// completed step.
type Snapshot struct {
	Step      int
	Time      float64
	Dt        float64
	Particles []*physics.Particle
	Law       physics.ForceLaw
}

type Metric interface {
	Name() string
	Observe(s Snapshot)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(s Snapshot)
}

type Config struct {
	Dt            float64
	Steps         int
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Dt:            0.05,
		Steps:         200,
		ValidateState: true,
	}
}

type Result struct {
	Trajectory  *Trajectory
	Times       []float64
	Metrics     map[string]float64
	EnergyDrift float64
	StepsTaken  int
}
