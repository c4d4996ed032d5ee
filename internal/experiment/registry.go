package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/particles/internal/config"
	"github.com/san-kum/particles/internal/dynamo"
	"github.com/san-kum/particles/internal/integrators"
	"github.com/san-kum/particles/internal/metrics"
	"github.com/san-kum/particles/internal/physics"
	"github.com/san-kum/particles/internal/sim"
)

type Registry struct {
	laws map[string]func(k float64, massScaled bool) physics.ForceLaw
}

func NewRegistry() *Registry {
	r := &Registry{
		laws: make(map[string]func(float64, bool) physics.ForceLaw),
	}

	r.laws[physics.SymmetricCharge.String()] = physics.NewSymmetricCharge
	r.laws[physics.Gravitational.String()] = func(k float64, _ bool) physics.ForceLaw {
		law := physics.NewGravitational()
		if k != 0 {
			law.K = k
		}
		return law
	}

	return r
}

func (r *Registry) GetIntegrator(name string) (dynamo.Integrator, error) {
	return integrators.New(name)
}

func (r *Registry) ListIntegrators() []string {
	return integrators.Names()
}

func (r *Registry) GetLaw(name string, k float64, massScaled bool) (physics.ForceLaw, error) {
	v, err := physics.ParseVariant(name)
	if err != nil {
		return physics.ForceLaw{}, err
	}
	fn, ok := r.laws[v.String()]
	if !ok {
		return physics.ForceLaw{}, fmt.Errorf("unknown force law: %s", name)
	}
	return fn(k, massScaled), nil
}

func (r *Registry) ListLaws() []string {
	names := make([]string, 0, len(r.laws))
	for name := range r.laws {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultMetrics are attached to every run of the scenario.
func (r *Registry) DefaultMetrics(cfg *config.Config) []sim.Metric {
	return metrics.Default(cfg.Bound)
}
