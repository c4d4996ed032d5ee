package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/san-kum/particles/internal/dynamo"
	"github.com/san-kum/particles/internal/physics"
)

// Simulator advances a fixed set of particles in lockstep.
type Simulator struct {
	particles  []*physics.Particle
	others     [][]*physics.Particle
	law        physics.ForceLaw
	metrics    []Metric
	observers  []Observer
	trajectory *Trajectory
	times      []float64
	step       int
	elapsed    float64
}

// New checks the particle set once: it must be non-empty, share one
// dimensionality, carry unique names and be compatible with the law.
func New(particles []*physics.Particle, law physics.ForceLaw) (*Simulator, error) {
	if len(particles) == 0 {
		return nil, fmt.Errorf("%w: no particles", dynamo.ErrParameterBounds)
	}

	dim := particles[0].Position.Dim()
	names := make([]string, len(particles))
	initial := make([]dynamo.Vector, len(particles))
	seen := make(map[string]bool, len(particles))

	for i, p := range particles {
		if p.Position.Dim() != dim {
			return nil, fmt.Errorf("%w: %q is %dD, %q is %dD", dynamo.ErrDimensionMismatch,
				particles[0].Name, dim, p.Name, p.Position.Dim())
		}
		if seen[p.Name] {
			return nil, fmt.Errorf("%w: duplicate particle name %q", dynamo.ErrParameterBounds, p.Name)
		}
		seen[p.Name] = true
		names[i] = p.Name
		initial[i] = p.Position
	}
	if err := law.CheckCompatible(particles); err != nil {
		return nil, err
	}

	others := make([][]*physics.Particle, len(particles))
	for i := range particles {
		others[i] = make([]*physics.Particle, 0, len(particles)-1)
		for j, o := range particles {
			if j != i {
				others[i] = append(others[i], o)
			}
		}
	}

	return &Simulator{
		particles:  particles,
		others:     others,
		law:        law,
		metrics:    make([]Metric, 0),
		observers:  make([]Observer, 0),
		trajectory: NewTrajectory(names, initial, 0),
	}, nil
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Particles() []*physics.Particle { return s.particles }
func (s *Simulator) Law() physics.ForceLaw          { return s.law }
func (s *Simulator) Trajectory() *Trajectory        { return s.trajectory }
func (s *Simulator) StepsTaken() int                { return s.step }

// RunStep advances every particle by dt. All accelerations are computed
// before any particle moves, so no force sees a position from the step
// being taken.
func (s *Simulator) RunStep(dt float64) error {
	next := s.step + 1
	t := s.elapsed + dt

	if math.IsNaN(dt) || math.IsInf(dt, 0) || dt <= 0 {
		return &SimError{Step: next, Time: s.elapsed, Wrapped: fmt.Errorf("%w: dt must be positive, got %g", dynamo.ErrInvalidStepState, dt)}
	}

	for i, p := range s.particles {
		if err := p.ComputeAcceleration(s.law, s.others[i]); err != nil {
			return &SimError{Step: next, Time: s.elapsed, Particle: p.Name, Wrapped: err}
		}
	}

	for _, p := range s.particles {
		if err := p.Step(dt); err != nil {
			return &SimError{Step: next, Time: s.elapsed, Particle: p.Name, Wrapped: err}
		}
	}

	positions := make([]dynamo.Vector, len(s.particles))
	for i, p := range s.particles {
		positions[i] = p.Position
	}
	if err := s.trajectory.Append(positions); err != nil {
		return &SimError{Step: next, Time: t, Wrapped: err}
	}

	s.step = next
	s.elapsed = t
	s.times = append(s.times, t)
	return nil
}

// Run takes exactly cfg.Steps steps. On failure the partial result is
// returned together with the error; it must not be treated as a
// completed run. Runs continue from where the previous one stopped, and
// the result always covers every step the simulator has taken, matching
// the shared trajectory.
func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}

	result := &Result{
		Trajectory: s.trajectory,
		Metrics:    make(map[string]float64),
	}
	defer func() {
		result.StepsTaken = s.step
		result.Times = append([]float64(nil), s.times...)
	}()

	for _, m := range s.metrics {
		m.Reset()
	}

	log := logrus.WithFields(logrus.Fields{
		"particles": len(s.particles),
		"law":       s.law.String(),
		"dt":        cfg.Dt,
		"steps":     cfg.Steps,
	})
	log.Info("starting simulation")

	initialEnergy, energyErr := physics.TotalEnergy(s.law, s.particles, cfg.Dt)

	for i := 0; i < cfg.Steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		if err := s.RunStep(cfg.Dt); err != nil {
			log.WithError(err).Error("simulation aborted")
			return result, err
		}

		if cfg.ValidateState {
			if p := s.firstInvalid(); p != nil {
				err := &SimError{Step: s.step, Time: s.elapsed, Particle: p.Name, Wrapped: dynamo.ErrInvalidState}
				log.WithError(err).Error("simulation diverged")
				return result, err
			}
		}

		snap := s.snapshot(cfg.Dt)
		for _, m := range s.metrics {
			m.Observe(snap)
		}
		for _, obs := range s.observers {
			obs.OnStep(snap)
		}

		logrus.WithFields(logrus.Fields{"step": s.step, "t": s.elapsed}).Debug("step complete")
	}

	if energyErr == nil {
		finalEnergy, err := physics.TotalEnergy(s.law, s.particles, cfg.Dt)
		if err == nil && initialEnergy != 0 {
			result.EnergyDrift = math.Abs(finalEnergy-initialEnergy) / math.Abs(initialEnergy)
		}
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	log.WithField("energy_drift", result.EnergyDrift).Info("simulation complete")
	return result, nil
}

func (s *Simulator) validateConfig(cfg Config) error {
	if math.IsNaN(cfg.Dt) || math.IsInf(cfg.Dt, 0) || cfg.Dt <= 0 {
		return fmt.Errorf("%w: dt must be positive, got %f", dynamo.ErrInvalidStepState, cfg.Dt)
	}
	if cfg.Steps < 1 {
		return fmt.Errorf("%w: steps must be at least 1, got %d", dynamo.ErrParameterBounds, cfg.Steps)
	}
	return nil
}

func (s *Simulator) firstInvalid() *physics.Particle {
	for _, p := range s.particles {
		if !p.Position.IsValid() {
			return p
		}
	}
	return nil
}

func (s *Simulator) snapshot(dt float64) Snapshot {
	return Snapshot{
		Step:      s.step,
		Time:      s.elapsed,
		Dt:        dt,
		Particles: s.particles,
		Law:       s.law,
	}
}

// SimError is the driver's failure type.
type SimError = dynamo.SimulationError
