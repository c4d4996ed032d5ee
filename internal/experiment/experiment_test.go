package experiment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/particles/internal/config"
	"github.com/san-kum/particles/internal/physics"
	"github.com/san-kum/particles/internal/sim"
)

func TestRunBeforeSetup(t *testing.T) {
	_, err := New(config.DefaultConfig()).Run(context.Background())
	assert.EqualError(t, err, "experiment not setup")
}

func TestExperimentRun(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Steps = 20
	reg := NewRegistry()

	exp := New(cfg)
	require.NoError(t, exp.Setup(reg.DefaultMetrics(cfg)))

	res, err := exp.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 20, res.StepsTaken)
	assert.Equal(t, 20, res.Trajectory.Len())
	assert.Contains(t, res.Metrics, "energy_drift")
	assert.Contains(t, res.Metrics, "com_drift")
	assert.Same(t, res.Trajectory, exp.GetSimulator().Trajectory())
}

func TestSetupRejectsInvalidScenario(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Particles[1].Position = cfg.Particles[0].Position
	cfg.Particles[1].Name = "A"

	err := New(cfg).Setup(nil)
	assert.ErrorContains(t, err, `scenario "orbit"`)
}

func TestMemberBuildsFreshSimulators(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Steps = 5
	exp := New(cfg)
	member := exp.Member("verlet", func() []sim.Metric { return NewRegistry().DefaultMetrics(cfg) })

	a, err := member.Build()
	require.NoError(t, err)
	b, err := member.Build()
	require.NoError(t, err)
	assert.NotSame(t, a, b)
	assert.NotSame(t, a.Particles()[0], b.Particles()[0])

	results, err := sim.NewEnsemble(member).Run(context.Background(), exp.SimConfig())
	require.NoError(t, err)
	assert.Equal(t, 5, results[0].StepsTaken)
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()

	assert.Equal(t, []string{"charge", "gravity"}, r.ListLaws())
	assert.Contains(t, r.ListIntegrators(), "verlet")
	assert.Contains(t, r.ListIntegrators(), "taylor")

	integ, err := r.GetIntegrator("taylor")
	require.NoError(t, err)
	assert.Equal(t, "taylor", integ.Name())

	_, err = r.GetIntegrator("rk4")
	assert.Error(t, err)

	law, err := r.GetLaw("gravity", 0, false)
	require.NoError(t, err)
	assert.Equal(t, physics.GravitationalConstant, law.K)

	law, err = r.GetLaw("charge", 5, true)
	require.NoError(t, err)
	assert.Equal(t, physics.NewSymmetricCharge(5, true), law)

	_, err = r.GetLaw("weak", 1, false)
	assert.Error(t, err)
}
