package sim

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Member is one independent run of an Ensemble. Build is called on the
// member's own goroutine and must return a simulator that shares no
// particles with any other member.
type Member struct {
	Name  string
	Build func() (*Simulator, error)
}

// Ensemble runs independent simulations concurrently, for instance the
// same scenario under different integrators. Each simulation itself stays
// single-threaded.
type Ensemble struct {
	members []Member
}

func NewEnsemble(members ...Member) *Ensemble {
	return &Ensemble{members: members}
}

// Run returns one result per member, index-aligned with the members.
// Failed members keep whatever partial result they produced and their
// errors are joined.
func (e *Ensemble) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	results := make([]*Result, len(e.members))
	errs := make([]error, len(e.members))

	var wg sync.WaitGroup
	for i, m := range e.members {
		wg.Add(1)
		go func(idx int, m Member) {
			defer wg.Done()

			s, err := m.Build()
			if err != nil {
				errs[idx] = fmt.Errorf("%s: %w", m.Name, err)
				return
			}

			results[idx], err = s.Run(ctx, cfg)
			if err != nil {
				errs[idx] = fmt.Errorf("%s: %w", m.Name, err)
			}
		}(i, m)
	}

	wg.Wait()

	return results, errors.Join(errs...)
}
