package main

import (
	"math"

	"github.com/pthm-cable/hive/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
	Integer bool    // rounded before use
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of optimizable parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			// Flower ecology
			{Name: "spawn_p", Path: "flower.spawn_p", Min: 0.0, Max: 0.2, Default: 0.02},
			{Name: "golden_chance", Path: "flower.golden_chance", Min: 0.0, Max: 0.5, Default: 0.15},
			{Name: "flower_count", Path: "flower.count", Min: 5, Max: 80, Default: 30, Integer: true},
			// Colony
			{Name: "forager_count", Path: "forager.count", Min: 1, Max: 30, Default: 10, Integer: true},
			{Name: "detect_range", Path: "forager.detect_range", Min: 1, Max: 10, Default: 5, Integer: true},
			{Name: "spawn_interval", Path: "queen.spawn_interval", Min: 5, Max: 60, Default: 30, Integer: true},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds, rounding integer parameters.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		val := math.Min(math.Max(v[i], spec.Min), spec.Max)
		if spec.Integer {
			val = math.Round(val)
		}
		clamped[i] = val
	}
	return clamped
}

// ApplyToConfig applies parameter values to a Config struct.
// Order must match Specs order.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	c := pv.Clamp(values)

	cfg.Flower.SpawnP = c[0]
	cfg.Flower.GoldenChance = c[1]
	cfg.Flower.Count = int(c[2])
	cfg.Forager.Count = int(c[3])
	cfg.Forager.DetectRange = int(c[4])
	cfg.Queen.SpawnInterval = int(c[5])
}

// ExtractFromConfig extracts current parameter values from a Config struct.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return []float64{
		cfg.Flower.SpawnP,
		cfg.Flower.GoldenChance,
		float64(cfg.Flower.Count),
		float64(cfg.Forager.Count),
		float64(cfg.Forager.DetectRange),
		float64(cfg.Queen.SpawnInterval),
	}
}
