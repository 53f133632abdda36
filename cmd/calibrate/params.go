// Package main provides CMA-ES calibration for finding ecosystem parameters
// that keep the three species in long-lived balance.
package main

import "github.com/pthm-cable/lumen/config"

// ParamSpec defines a single calibratable parameter.
type ParamSpec struct {
	Name    string
	Path    string // Config path for logging
	Min     float64
	Max     float64
	Default float64
}

// ParamVector holds the set of all calibratable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard calibration set.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			// Predation
			{Name: "predation_start_chance", Path: "predation.start_chance", Min: 0.001, Max: 0.08, Default: 0.02},
			{Name: "predation_progress_rate", Path: "predation.progress_rate", Min: 0.02, Max: 0.5, Default: 0.15},
			// Warfare
			{Name: "warfare_open_chance", Path: "warfare.open_chance", Min: 0.0005, Max: 0.02, Default: 0.005},
			{Name: "warfare_transfer", Path: "warfare.transfer_fraction", Min: 0.05, Max: 0.5, Default: 0.25},
			// Evolution pressure
			{Name: "pressure_rate", Path: "evolution.pressure_rate", Min: 0.02, Max: 0.3, Default: 0.1},
			{Name: "decay_rate", Path: "evolution.decay_rate", Min: 0.005, Max: 0.08, Default: 0.02},
			{Name: "thrive_bonus", Path: "evolution.thrive_bonus", Min: 0.002, Max: 0.05, Default: 0.01},
			// Hierarchy
			{Name: "hive_boost", Path: "hierarchy.hive_boost", Min: 0.0005, Max: 0.01, Default: 0.002},
			{Name: "hive_pull", Path: "hierarchy.hive_pull", Min: 0.05, Max: 1.0, Default: 0.4},
			// Observer
			{Name: "blessing_amount", Path: "observer.blessing_amount", Min: 0.1, Max: 1.5, Default: 0.5},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
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

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		val := v[i]
		if val < spec.Min {
			val = spec.Min
		}
		if val > spec.Max {
			val = spec.Max
		}
		clamped[i] = val
	}
	return clamped
}

// ApplyToConfig applies parameter values to a Config struct.
// Order must match Specs order.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	clamped := pv.Clamp(values)
	i := 0

	cfg.Predation.StartChance = clamped[i]
	i++
	cfg.Predation.ProgressRate = clamped[i]
	i++

	cfg.Warfare.OpenChance = clamped[i]
	i++
	cfg.Warfare.TransferFraction = clamped[i]
	i++

	cfg.Evolution.PressureRate = clamped[i]
	i++
	cfg.Evolution.DecayRate = clamped[i]
	i++
	cfg.Evolution.ThriveBonus = clamped[i]
	i++

	cfg.Hierarchy.HiveBoost = clamped[i]
	i++
	cfg.Hierarchy.HivePull = clamped[i]
	i++

	cfg.Observer.BlessingAmount = clamped[i]
}
