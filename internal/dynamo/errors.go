package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrDegenerateConfiguration indicates two distinct particles share a position.
	ErrDegenerateConfiguration = errors.New("dynamo: degenerate configuration (coincident particles)")

	// ErrIncompatibleBodies indicates a gravitational interaction between mismatched kinds.
	ErrIncompatibleBodies = errors.New("dynamo: incompatible bodies for force law")

	// ErrInvalidStepState indicates a non-positive timestep or an inconsistent step counter.
	ErrInvalidStepState = errors.New("dynamo: invalid step state")

	// ErrDimensionMismatch indicates vectors of differing dimensionality in one run.
	ErrDimensionMismatch = errors.New("dynamo: dimension mismatch")

	// ErrParameterBounds indicates a parameter value is outside valid range.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")

	// ErrInvalidState indicates a position became NaN or Inf.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")
)

// SimulationError wraps an error with simulation context.
type SimulationError struct {
	Step     int
	Time     float64
	Particle string
	Wrapped  error
}

func (e *SimulationError) Error() string {
	if e.Particle == "" {
		return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
	}
	return fmt.Sprintf("step %d (t=%.4f) particle %q: %v", e.Step, e.Time, e.Particle, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
