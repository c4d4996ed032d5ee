package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/particles/internal/sim"
)

type ExportData struct {
	Metadata  RunMetadata     `json:"metadata"`
	Steps     int             `json:"steps"`
	Times     []float64       `json:"times"`
	Particles []ParticleTrack `json:"particles"`
}

type ParticleTrack struct {
	Name      string      `json:"name"`
	Initial   []float64   `json:"initial"`
	Positions [][]float64 `json:"positions"`
}

func NewExportData(meta RunMetadata, traj *sim.Trajectory, times []float64) ExportData {
	data := ExportData{
		Metadata:  meta,
		Steps:     traj.Len(),
		Times:     times,
		Particles: make([]ParticleTrack, traj.NumParticles()),
	}

	for i, name := range traj.Names() {
		positions := traj.Positions(i)
		track := ParticleTrack{
			Name:      name,
			Initial:   traj.Initial(i),
			Positions: make([][]float64, len(positions)),
		}
		for j, p := range positions {
			track.Positions[j] = p
		}
		data.Particles[i] = track
	}
	return data
}

func ExportJSON(w io.Writer, meta RunMetadata, traj *sim.Trajectory, times []float64) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(NewExportData(meta, traj, times))
}
