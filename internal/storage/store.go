package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/san-kum/particles/internal/config"
	"github.com/san-kum/particles/internal/sim"
)

const (
	metadataFile   = "metadata.json"
	trajectoryFile = "trajectory.csv"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Timestamp   time.Time          `json:"timestamp"`
	Dim         int                `json:"dim"`
	Dt          float64            `json:"dt"`
	Steps       int                `json:"steps"`
	StepsTaken  int                `json:"steps_taken"`
	Stride      int                `json:"stride,omitempty"`
	Integrator  string             `json:"integrator"`
	Law         string             `json:"law"`
	K           float64            `json:"k"`
	MassScaled  bool               `json:"mass_scaled,omitempty"`
	Particles   []string           `json:"particles"`
	EnergyDrift float64            `json:"energy_drift"`
	Metrics     map[string]float64 `json:"metrics"`
}

// NewMetadata describes a finished run of cfg.
func NewMetadata(cfg *config.Config, result *sim.Result) RunMetadata {
	meta := RunMetadata{
		Name:       cfg.Name,
		Dim:        cfg.Dim,
		Dt:         cfg.Dt,
		Steps:      cfg.Steps,
		Stride:     cfg.Stride,
		Integrator: cfg.Integrator,
		Law:        cfg.Law.Type,
		K:          cfg.Law.K,
		MassScaled: cfg.Law.MassScaled,
	}
	if law, err := cfg.ForceLaw(); err == nil {
		meta.Law = law.Variant.String()
		meta.K = law.K
	}
	for _, p := range cfg.Particles {
		meta.Particles = append(meta.Particles, p.Name)
	}
	if result != nil {
		meta.StepsTaken = result.StepsTaken
		meta.EnergyDrift = result.EnergyDrift
		meta.Metrics = result.Metrics
	}
	return meta
}

// Save writes a run directory holding metadata.json and trajectory.csv
// and returns its id.
func (s *Store) Save(meta RunMetadata, result *sim.Result) (string, error) {
	if result == nil || result.Trajectory == nil {
		return "", fmt.Errorf("save %q: no trajectory", meta.Name)
	}

	now := time.Now()
	if meta.ID == "" {
		meta.ID = fmt.Sprintf("%s_%d", meta.Name, now.UnixNano())
	}
	if meta.Timestamp.IsZero() {
		meta.Timestamp = now
	}
	runDir := filepath.Join(s.baseDir, meta.ID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, trajectoryFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := WriteCSV(csvFile, result); err != nil {
		return "", fmt.Errorf("write trajectory: %w", err)
	}

	return meta.ID, nil
}

// List returns the metadata of every readable run, ordered by id.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}

		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].ID < runs[j].ID })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadTrajectory rebuilds the recorded trajectory and its step times.
func (s *Store) LoadTrajectory(runID string) (*sim.Trajectory, []float64, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, trajectoryFile))
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	return ReadCSV(file)
}

// CSVPath is where the run's trajectory lives on disk.
func (s *Store) CSVPath(runID string) string {
	return filepath.Join(s.baseDir, runID, trajectoryFile)
}
