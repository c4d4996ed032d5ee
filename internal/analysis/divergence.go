package analysis

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/particles/internal/dynamo"
	"github.com/san-kum/particles/internal/sim"
)

// Separation is the distance between particles i and j at every recorded
// step.
func Separation(traj *sim.Trajectory, i, j int) ([]float64, error) {
	if i < 0 || j < 0 || i >= traj.NumParticles() || j >= traj.NumParticles() {
		return nil, fmt.Errorf("%w: particles %d and %d of %d", dynamo.ErrParameterBounds, i, j, traj.NumParticles())
	}
	a, b := traj.Positions(i), traj.Positions(j)
	sep := make([]float64, len(a))
	for k := range a {
		sep[k] = a[k].Sub(b[k]).Norm()
	}
	return sep, nil
}

// Divergence is the distance between the same particle in two runs at
// every step both runs recorded.
func Divergence(a, b *sim.Trajectory, particle int) ([]float64, error) {
	if particle < 0 || particle >= a.NumParticles() || particle >= b.NumParticles() {
		return nil, fmt.Errorf("%w: particle %d", dynamo.ErrParameterBounds, particle)
	}
	pa, pb := a.Positions(particle), b.Positions(particle)
	n := min(len(pa), len(pb))
	out := make([]float64, n)
	for k := 0; k < n; k++ {
		out[k] = pa[k].Sub(pb[k]).Norm()
	}
	return out, nil
}

// DivergenceRate fits ln(d) = alpha + rate*t over the steps with a
// non-zero divergence. The first entry is taken at t = dt. A positive
// rate means the runs separate exponentially.
func DivergenceRate(div []float64, dt float64) (float64, bool) {
	var ts, logs []float64
	for k, d := range div {
		if d > 0 && !math.IsInf(d, 0) && !math.IsNaN(d) {
			ts = append(ts, float64(k+1)*dt)
			logs = append(logs, math.Log(d))
		}
	}
	if len(ts) < 2 {
		return 0, false
	}
	_, rate := stat.LinearRegression(ts, logs, nil, false)
	return rate, true
}
