package automation

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/san-kum/particles/internal/config"
	"github.com/san-kum/particles/internal/experiment"
	"github.com/san-kum/particles/internal/metrics"
	"github.com/san-kum/particles/internal/sim"
)

// MonteCarloConfig defines Monte Carlo simulation parameters. Every trial
// perturbs each initial position component uniformly within
// ±Perturbation.
type MonteCarloConfig struct {
	Base         *config.Config
	Perturbation float64
	NumTrials    int
	Bound        float64
	Seed         int64
}

// MonteCarloResult holds the outcome of one trial. A trial is stable when
// it ran to completion and every particle stayed within the bound.
type MonteCarloResult struct {
	TrialID     int
	Initial     [][]float64
	Stable      bool
	Bounded     float64
	EnergyDrift float64
	StepsTaken  int
	Err         error
}

// RunMonteCarlo executes multiple trials with random perturbations
func RunMonteCarlo(ctx context.Context, cfg *MonteCarloConfig) ([]MonteCarloResult, error) {
	if cfg.NumTrials < 1 {
		return nil, fmt.Errorf("trials must be at least 1, got %d", cfg.NumTrials)
	}
	if cfg.Bound <= 0 {
		return nil, fmt.Errorf("bound must be positive, got %g", cfg.Bound)
	}
	if err := cfg.Base.Validate(); err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	if cfg.Seed == 0 {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	results := make([]MonteCarloResult, 0, cfg.NumTrials)
	for trial := 0; trial < cfg.NumTrials; trial++ {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		trialCfg := cfg.Base.Clone()
		initial := make([][]float64, len(trialCfg.Particles))
		for i := range trialCfg.Particles {
			pos := trialCfg.Particles[i].Position
			for j := range pos {
				pos[j] += (rng.Float64() - 0.5) * 2 * cfg.Perturbation
			}
			initial[i] = pos
		}

		res := runTrial(ctx, trialCfg, cfg.Bound)
		res.TrialID = trial
		res.Initial = initial
		results = append(results, res)

		if (trial+1)%10 == 0 {
			logrus.Infof("monte carlo: %d/%d trials complete", trial+1, cfg.NumTrials)
		}
	}

	return results, nil
}

func runTrial(ctx context.Context, cfg *config.Config, bound float64) MonteCarloResult {
	bounded := metrics.NewBoundedness(bound)
	exp := experiment.New(cfg)
	if err := exp.Setup(append([]sim.Metric{bounded}, metrics.NewEnergyDrift())); err != nil {
		return MonteCarloResult{Err: err}
	}

	result, err := exp.Run(ctx)
	out := MonteCarloResult{Err: err}
	if result != nil {
		out.StepsTaken = result.StepsTaken
		out.EnergyDrift = result.EnergyDrift
		out.Bounded = bounded.Value()
	}
	out.Stable = err == nil && out.Bounded == 1
	return out
}

// MonteCarloStats computes summary statistics from Monte Carlo results
func MonteCarloStats(results []MonteCarloResult) (stableCount int, unstableCount int) {
	for _, r := range results {
		if r.Stable {
			stableCount++
		} else {
			unstableCount++
		}
	}
	return
}
