package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/particles/internal/dynamo"
	"github.com/san-kum/particles/internal/integrators"
	"github.com/san-kum/particles/internal/physics"
)

const (
	DefaultDt     = 0.05
	DefaultSteps  = 200
	DefaultK      = 25.0
	DefaultDim    = 3
	DefaultStride = 1
)

type Config struct {
	Name       string           `yaml:"name"`
	Dim        int              `yaml:"dim"`
	Dt         float64          `yaml:"dt"`
	Steps      int              `yaml:"steps"`
	Integrator string           `yaml:"integrator"`
	Stride     int              `yaml:"stride,omitempty"`
	Bound      float64          `yaml:"bound,omitempty"`
	Law        LawConfig        `yaml:"law"`
	Particles  []ParticleConfig `yaml:"particles"`
}

type LawConfig struct {
	Type       string  `yaml:"type"`
	K          float64 `yaml:"k,omitempty"`
	MassScaled bool    `yaml:"mass_scaled,omitempty"`
}

type ParticleConfig struct {
	Name     string    `yaml:"name"`
	Kind     string    `yaml:"kind,omitempty"`
	Mass     float64   `yaml:"mass"`
	Position []float64 `yaml:"position"`
	Velocity []float64 `yaml:"velocity,omitempty"`
}

// DefaultConfig is the two-body attraction scenario: opposite kinds at
// (3,-1,0) and (-3,1,0) moving apart along y.
func DefaultConfig() *Config {
	return &Config{
		Name:       "orbit",
		Dim:        DefaultDim,
		Dt:         DefaultDt,
		Steps:      DefaultSteps,
		Integrator: integrators.Default,
		Stride:     DefaultStride,
		Law:        LawConfig{Type: "charge", K: DefaultK},
		Particles: []ParticleConfig{
			{Name: "A", Kind: "A", Mass: 1, Position: []float64{3, -1, 0}, Velocity: []float64{0, -1, 0}},
			{Name: "B", Kind: "B", Mass: 1, Position: []float64{-3, 1, 0}, Velocity: []float64{0, 1, 0}},
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	cfg.Particles = nil
	// k defaults per law; see ForceLaw for gravity.
	cfg.Law = LawConfig{Type: "charge"}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if v, err := physics.ParseVariant(cfg.Law.Type); err == nil && v == physics.SymmetricCharge && cfg.Law.K == 0 {
		cfg.Law.K = DefaultK
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clone returns a deep copy so presets can be tweaked by callers.
func (c *Config) Clone() *Config {
	out := *c
	out.Particles = make([]ParticleConfig, len(c.Particles))
	for i, p := range c.Particles {
		p.Position = append([]float64(nil), p.Position...)
		if p.Velocity != nil {
			p.Velocity = append([]float64(nil), p.Velocity...)
		}
		out.Particles[i] = p
	}
	return &out
}

// Validate reports every problem with the scenario, joined.
func (c *Config) Validate() error {
	var errs []error

	if !dynamo.ValidDim(c.Dim) {
		errs = append(errs, fmt.Errorf("%w: dim must be 2 or 3, got %d", dynamo.ErrDimensionMismatch, c.Dim))
	}
	if math.IsNaN(c.Dt) || math.IsInf(c.Dt, 0) || c.Dt <= 0 {
		errs = append(errs, fmt.Errorf("%w: dt must be positive, got %g", dynamo.ErrParameterBounds, c.Dt))
	}
	if c.Steps < 1 {
		errs = append(errs, fmt.Errorf("%w: steps must be at least 1, got %d", dynamo.ErrParameterBounds, c.Steps))
	}
	if _, err := integrators.New(c.Integrator); err != nil {
		errs = append(errs, err)
	}

	variant, err := physics.ParseVariant(c.Law.Type)
	if err != nil {
		errs = append(errs, err)
	}
	badK := math.IsNaN(c.Law.K) || math.IsInf(c.Law.K, 0)
	switch {
	case variant == physics.SymmetricCharge && (badK || c.Law.K <= 0):
		errs = append(errs, fmt.Errorf("%w: charge law k must be positive, got %g", dynamo.ErrParameterBounds, c.Law.K))
	case variant == physics.Gravitational && (badK || c.Law.K < 0):
		errs = append(errs, fmt.Errorf("%w: gravity law k must be non-negative, got %g", dynamo.ErrParameterBounds, c.Law.K))
	}

	if len(c.Particles) == 0 {
		errs = append(errs, fmt.Errorf("%w: no particles", dynamo.ErrParameterBounds))
	}
	seen := make(map[string]bool, len(c.Particles))
	for i, p := range c.Particles {
		label := p.Name
		if label == "" {
			label = fmt.Sprintf("#%d", i)
			errs = append(errs, fmt.Errorf("%w: particle %s has no name", dynamo.ErrParameterBounds, label))
		}
		if seen[p.Name] {
			errs = append(errs, fmt.Errorf("%w: duplicate particle name %q", dynamo.ErrParameterBounds, p.Name))
		}
		seen[p.Name] = true

		if len(p.Position) != c.Dim {
			errs = append(errs, fmt.Errorf("%w: particle %s position has %d components, want %d",
				dynamo.ErrDimensionMismatch, label, len(p.Position), c.Dim))
		}
		if p.Velocity != nil && len(p.Velocity) != c.Dim {
			errs = append(errs, fmt.Errorf("%w: particle %s velocity has %d components, want %d",
				dynamo.ErrDimensionMismatch, label, len(p.Velocity), c.Dim))
		}

		switch variant {
		case physics.Gravitational:
			if p.Kind != "" && physics.Kind(p.Kind) != physics.KindGravity {
				errs = append(errs, fmt.Errorf("%w: particle %s has kind %q under gravity",
					dynamo.ErrIncompatibleBodies, label, p.Kind))
			}
			if p.Mass == 0 || math.IsNaN(p.Mass) {
				errs = append(errs, fmt.Errorf("%w: particle %s mass must be non-zero", dynamo.ErrParameterBounds, label))
			}
		default:
			if p.Mass <= 0 || math.IsNaN(p.Mass) {
				errs = append(errs, fmt.Errorf("%w: particle %s mass must be positive, got %g",
					dynamo.ErrParameterBounds, label, p.Mass))
			}
		}
	}

	return errors.Join(errs...)
}

// ForceLaw resolves the configured law. A gravitational law with k unset
// uses the physical constant.
func (c *Config) ForceLaw() (physics.ForceLaw, error) {
	variant, err := physics.ParseVariant(c.Law.Type)
	if err != nil {
		return physics.ForceLaw{}, err
	}
	if variant == physics.Gravitational {
		law := physics.NewGravitational()
		if c.Law.K != 0 {
			law.K = c.Law.K
		}
		return law, nil
	}
	return physics.NewSymmetricCharge(c.Law.K, c.Law.MassScaled), nil
}

// Build validates the scenario and constructs its particles, each with a
// fresh integrator.
func (c *Config) Build() ([]*physics.Particle, physics.ForceLaw, error) {
	if err := c.Validate(); err != nil {
		return nil, physics.ForceLaw{}, err
	}
	law, err := c.ForceLaw()
	if err != nil {
		return nil, physics.ForceLaw{}, err
	}

	ps := make([]*physics.Particle, 0, len(c.Particles))
	for _, pc := range c.Particles {
		integ, err := integrators.New(c.Integrator)
		if err != nil {
			return nil, physics.ForceLaw{}, err
		}
		var vel dynamo.Vector
		if pc.Velocity != nil {
			vel = dynamo.Vector(pc.Velocity)
		}

		var p *physics.Particle
		if law.Variant == physics.Gravitational {
			p, err = physics.NewGravitator(pc.Name, pc.Mass, pc.Position, vel, integ)
		} else {
			p, err = physics.NewParticle(pc.Name, physics.Kind(pc.Kind), pc.Mass, pc.Position, vel, integ)
		}
		if err != nil {
			return nil, physics.ForceLaw{}, err
		}
		ps = append(ps, p)
	}
	return ps, law, nil
}
