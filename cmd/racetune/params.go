// Command racetune provides CMA-ES tuning for race simulation parameters,
// adapted from the teacher's cmd/optimize parameter-vector machinery.
package main

import (
	"github.com/blindhorse/racesim/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of tunable AI/movement
// parameters: the ones that shape how even a race's win distribution is
// across actor indices.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			{Name: "reaction_ms_min", Min: 80, Max: 400, Default: 150},
			{Name: "reaction_ms_max", Min: 200, Max: 900, Default: 400},
			{Name: "booster_bias", Min: 0.0, Max: 1.0, Default: 0.5},
			{Name: "path_bias", Min: 0.0, Max: 1.0, Default: 0.5},
			{Name: "skill_use_p", Min: 0.0, Max: 1.0, Default: 0.3},
			{Name: "direction_change_p", Min: 0.0, Max: 0.2, Default: 0.05},
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
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	clamped := pv.Clamp(values)

	cfg.AI.ReactionMsMin = float32(clamped[0])
	cfg.AI.ReactionMsMax = float32(clamped[1])
	cfg.AI.BoosterBias = float32(clamped[2])
	cfg.AI.PathBias = float32(clamped[3])
	cfg.AI.SkillUseP = float32(clamped[4])
	cfg.Movement.DirectionChangeP = float32(clamped[5])
}
