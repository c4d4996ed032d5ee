package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/san-kum/particles/internal/physics"
)

func pair(massA, massB float64) []ParticleConfig {
	return []ParticleConfig{
		{Name: "electron", Kind: "negative", Mass: massA, Position: []float64{3, -1, 0}, Velocity: []float64{0, -1, 0}},
		{Name: "positron", Kind: "positive", Mass: massB, Position: []float64{-3, 1, 0}, Velocity: []float64{0, 1, 0}},
	}
}

var Presets = map[string]map[string]*Config{
	"charge": {
		"orbit": {
			Name: "orbit", Dim: 3, Dt: 0.05, Steps: 200, Integrator: "verlet", Stride: 1,
			Law:       LawConfig{Type: "charge", K: 25},
			Particles: pair(1, 1),
		},
		"spirals": {
			Name: "spirals", Dim: 3, Dt: 0.01, Steps: 1000, Integrator: "verlet", Stride: 5,
			Law:       LawConfig{Type: "charge", K: 125, MassScaled: true},
			Particles: pair(1, 25),
		},
		"trio": {
			Name: "trio", Dim: 3, Dt: 0.05, Steps: 200, Integrator: "verlet", Stride: 1,
			Law: LawConfig{Type: "charge", K: 25},
			Particles: append(pair(1, 1), ParticleConfig{
				Name: "electron2", Kind: "negative", Mass: 1, Position: []float64{0, 0, -3.5},
			}),
		},
		"taylor": {
			Name: "taylor", Dim: 3, Dt: 0.0001, Steps: 100000, Integrator: "taylor", Stride: 27,
			Law:       LawConfig{Type: "charge", K: 25},
			Particles: pair(1, 1),
		},
		"flat": {
			Name: "flat", Dim: 2, Dt: 0.0001, Steps: 100000, Integrator: "taylor", Stride: 90,
			Law: LawConfig{Type: "charge", K: 25},
			Particles: []ParticleConfig{
				{Name: "electron", Kind: "negative", Mass: 1, Position: []float64{3, -1}, Velocity: []float64{0, -1}},
				{Name: "positron", Kind: "positive", Mass: 1, Position: []float64{-3, 1}, Velocity: []float64{0, 1}},
			},
		},
	},
	"gravity": {
		// Moon at its mean distance on a circular orbit of about 1.02 km/s,
		// one-minute steps for a day.
		"earth_moon": {
			Name: "earth_moon", Dim: 3, Dt: 60, Steps: 1440, Integrator: "verlet", Stride: 10,
			Bound: 1e9,
			Law:   LawConfig{Type: "gravity"},
			Particles: []ParticleConfig{
				{Name: "earth", Kind: string(physics.KindGravity), Mass: 5.97e24, Position: []float64{0, 0, 0}, Velocity: []float64{0, -12.5, 0}},
				{Name: "moon", Kind: string(physics.KindGravity), Mass: 7.35e22, Position: []float64{3.844e8, 0, 0}, Velocity: []float64{0, 1018, 0}},
			},
		},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(model, preset string) *Config {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	cfg, ok := modelPresets[preset]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets(model string) []string {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(modelPresets))
	for name := range modelPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func ListModels() []string {
	models := make([]string, 0, len(Presets))
	for m := range Presets {
		models = append(models, m)
	}
	sort.Strings(models)
	return models
}

// Lookup resolves "model/preset", or a bare preset name when exactly one
// model defines it.
func Lookup(ref string) (*Config, error) {
	if model, name, ok := strings.Cut(ref, "/"); ok {
		if cfg := GetPreset(model, name); cfg != nil {
			return cfg, nil
		}
		return nil, fmt.Errorf("unknown preset: %s", ref)
	}

	var found []string
	for _, model := range ListModels() {
		if _, ok := Presets[model][ref]; ok {
			found = append(found, model+"/"+ref)
		}
	}
	switch len(found) {
	case 0:
		return nil, fmt.Errorf("unknown preset: %s", ref)
	case 1:
		return Lookup(found[0])
	default:
		return nil, fmt.Errorf("ambiguous preset %s: one of %s", ref, strings.Join(found, ", "))
	}
}
