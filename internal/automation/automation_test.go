package automation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/particles/internal/config"
)

func orbit(steps int) *config.Config {
	cfg := config.DefaultConfig()
	cfg.Steps = steps
	return cfg
}

func TestMonteCarloIsSeeded(t *testing.T) {
	mc := &MonteCarloConfig{Base: orbit(20), Perturbation: 0.1, NumTrials: 3, Bound: 100, Seed: 7}

	a, err := RunMonteCarlo(context.Background(), mc)
	require.NoError(t, err)
	b, err := RunMonteCarlo(context.Background(), mc)
	require.NoError(t, err)

	require.Len(t, a, 3)
	for i := range a {
		assert.Equal(t, a[i].Initial, b[i].Initial)
		assert.Equal(t, a[i].EnergyDrift, b[i].EnergyDrift)
	}
	assert.NotEqual(t, a[0].Initial, a[1].Initial)
	assert.Equal(t, 3.0, config.DefaultConfig().Particles[0].Position[0])
}

func TestMonteCarloStability(t *testing.T) {
	mc := &MonteCarloConfig{Base: orbit(20), Perturbation: 0.01, NumTrials: 4, Bound: 100, Seed: 1}
	results, err := RunMonteCarlo(context.Background(), mc)
	require.NoError(t, err)

	stable, unstable := MonteCarloStats(results)
	assert.Equal(t, 4, stable)
	assert.Equal(t, 0, unstable)
	for i, r := range results {
		assert.Equal(t, i, r.TrialID)
		assert.Equal(t, 20, r.StepsTaken)
		assert.Equal(t, 1.0, r.Bounded)
	}

	mc.Bound = 1
	results, err = RunMonteCarlo(context.Background(), mc)
	require.NoError(t, err)
	stable, unstable = MonteCarloStats(results)
	assert.Equal(t, 0, stable)
	assert.Equal(t, 4, unstable)
}

func TestMonteCarloValidation(t *testing.T) {
	_, err := RunMonteCarlo(context.Background(), &MonteCarloConfig{Base: orbit(5), NumTrials: 0, Bound: 1})
	assert.Error(t, err)

	_, err = RunMonteCarlo(context.Background(), &MonteCarloConfig{Base: orbit(5), NumTrials: 1})
	assert.Error(t, err)

	_, err = RunMonteCarlo(context.Background(), &MonteCarloConfig{Base: orbit(0), NumTrials: 1, Bound: 1})
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	results, err := RunMonteCarlo(ctx, &MonteCarloConfig{Base: orbit(5), NumTrials: 2, Bound: 1, Seed: 1})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, results)
}
