package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/particles/internal/config"
	"github.com/san-kum/particles/internal/sim"
)

func runScenario(t *testing.T, cfg *config.Config) *sim.Result {
	t.Helper()
	ps, law, err := cfg.Build()
	require.NoError(t, err)
	s, err := sim.New(ps, law)
	require.NoError(t, err)
	res, err := s.Run(context.Background(), sim.Config{Dt: cfg.Dt, Steps: cfg.Steps})
	require.NoError(t, err)
	return res
}

func shortRun(t *testing.T) (*config.Config, *sim.Result) {
	cfg := config.DefaultConfig()
	cfg.Steps = 4
	return cfg, runScenario(t, cfg)
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	require.NoError(t, st.Init())

	cfg, result := shortRun(t)
	runID, err := st.Save(NewMetadata(cfg, result), result)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(runID, "orbit_"))

	meta, err := st.Load(runID)
	require.NoError(t, err)
	assert.Equal(t, runID, meta.ID)
	assert.Equal(t, "charge", meta.Law)
	assert.Equal(t, 25.0, meta.K)
	assert.Equal(t, 4, meta.StepsTaken)
	assert.Equal(t, []string{"A", "B"}, meta.Particles)
	assert.Equal(t, result.EnergyDrift, meta.EnergyDrift)
	assert.False(t, meta.Timestamp.IsZero())

	traj, times, err := st.LoadTrajectory(runID)
	require.NoError(t, err)
	assert.Equal(t, result.Times, times)
	assert.Equal(t, []string{"A", "B"}, traj.Names())
	require.Equal(t, 4, traj.Len())
	for i := 0; i < traj.NumParticles(); i++ {
		assert.Equal(t, result.Trajectory.Initial(i), traj.Initial(i))
		for step, want := range result.Trajectory.Positions(i) {
			assert.True(t, want.Equal(traj.Positions(i)[step], 1e-12), "particle %d step %d", i, step)
		}
	}
}

func TestStoreList(t *testing.T) {
	st := New(t.TempDir())
	require.NoError(t, st.Init())

	runs, err := st.List()
	require.NoError(t, err)
	assert.Empty(t, runs)

	cfg, result := shortRun(t)
	_, err = st.Save(NewMetadata(cfg, result), result)
	require.NoError(t, err)

	runs, err = st.List()
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestStoreListMissingDir(t *testing.T) {
	runs, err := New(filepath.Join(t.TempDir(), "absent")).List()
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)
	require.NoError(t, st.Init())

	cfg, result := shortRun(t)
	meta := NewMetadata(cfg, result)
	meta.ID = "fixed"
	runID, err := st.Save(meta, result)
	require.NoError(t, err)
	assert.Equal(t, "fixed", runID)

	_, err = os.Stat(filepath.Join(tmpDir, runID, "metadata.json"))
	assert.NoError(t, err)
	_, err = os.Stat(st.CSVPath(runID))
	assert.NoError(t, err)

	data, err := os.ReadFile(st.CSVPath(runID))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Equal(t, "step,time,particle,x,y,z", lines[0])
	assert.Equal(t, "0,0,A,3,-1,0", lines[1])
	assert.Len(t, lines, 1+2*5)
}

func TestSaveWithoutTrajectory(t *testing.T) {
	_, err := New(t.TempDir()).Save(RunMetadata{Name: "x"}, &sim.Result{})
	assert.Error(t, err)
}

func TestCSVPlanar(t *testing.T) {
	cfg := config.GetPreset("charge", "flat")
	cfg.Steps = 3
	result := runScenario(t, cfg)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, result))
	assert.Contains(t, buf.String(), "0,0,electron,3,-1,\n")

	traj, times, err := ReadCSV(&buf)
	require.NoError(t, err)
	assert.Equal(t, 2, traj.Dim())
	assert.Len(t, times, 3)
	assert.Equal(t, 3, traj.Len())
}

func TestReadCSVRejectsGaps(t *testing.T) {
	doc := "step,time,particle,x,y,z\n0,0,a,1,2,\n2,0.2,a,1,2,\n"
	_, _, err := ReadCSV(strings.NewReader(doc))
	assert.ErrorContains(t, err, "out of order")

	doc = "step,time,particle,x,y,z\n0,0,a,1,2,\n0,0,b,1,3,\n1,0.1,a,1,2,\n"
	_, _, err = ReadCSV(strings.NewReader(doc))
	assert.ErrorContains(t, err, `missing "b"`)
}

func TestExportJSON(t *testing.T) {
	cfg, result := shortRun(t)
	meta := NewMetadata(cfg, result)

	var buf bytes.Buffer
	require.NoError(t, ExportJSON(&buf, meta, result.Trajectory, result.Times))

	var data ExportData
	require.NoError(t, json.Unmarshal(buf.Bytes(), &data))
	assert.Equal(t, 4, data.Steps)
	assert.Equal(t, "orbit", data.Metadata.Name)
	require.Len(t, data.Particles, 2)
	assert.Equal(t, "B", data.Particles[1].Name)
	assert.Equal(t, []float64{-3, 1, 0}, data.Particles[1].Initial)
	assert.Len(t, data.Particles[0].Positions, 4)
}
