package experiment

import (
	"context"
	"fmt"

	"github.com/san-kum/particles/internal/config"
	"github.com/san-kum/particles/internal/sim"
)

type Experiment struct {
	cfg       *config.Config
	simulator *sim.Simulator
}

func New(cfg *config.Config) *Experiment {
	return &Experiment{cfg: cfg}
}

// Setup builds the particles and the simulator from the scenario and
// attaches the given metrics.
func (e *Experiment) Setup(metrics []sim.Metric) error {
	s, err := e.build()
	if err != nil {
		return err
	}
	for _, m := range metrics {
		s.AddMetric(m)
	}
	e.simulator = s
	return nil
}

func (e *Experiment) build() (*sim.Simulator, error) {
	particles, law, err := e.cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("scenario %q: %w", e.cfg.Name, err)
	}
	return sim.New(particles, law)
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	return e.simulator.Run(ctx, e.SimConfig())
}

// SimConfig is the driver configuration implied by the scenario.
func (e *Experiment) SimConfig() sim.Config {
	return sim.Config{
		Dt:            e.cfg.Dt,
		Steps:         e.cfg.Steps,
		ValidateState: true,
	}
}

// Member returns an ensemble member that builds a fresh simulator from the
// scenario each time it is run.
func (e *Experiment) Member(name string, metrics func() []sim.Metric) sim.Member {
	return sim.Member{
		Name: name,
		Build: func() (*sim.Simulator, error) {
			s, err := e.build()
			if err != nil {
				return nil, err
			}
			if metrics != nil {
				for _, m := range metrics() {
					s.AddMetric(m)
				}
			}
			return s, nil
		},
	}
}

// GetSimulator returns the underlying simulator for adding observers
func (e *Experiment) GetSimulator() *sim.Simulator {
	return e.simulator
}

func (e *Experiment) Config() *config.Config {
	return e.cfg
}
