package integrators

import (
	"fmt"
	"sort"

	"github.com/san-kum/particles/internal/dynamo"
)

// Default is the scheme used when a configuration names none.
const Default = "verlet"

var factories = map[string]func() dynamo.Integrator{
	"verlet": func() dynamo.Integrator { return NewVerlet() },
	"taylor": func() dynamo.Integrator { return NewTaylor() },
}

// New returns a fresh integrator. Every particle needs its own instance.
func New(name string) (dynamo.Integrator, error) {
	if name == "" {
		name = Default
	}
	fn, ok := factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
	return fn(), nil
}

func Names() []string {
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
