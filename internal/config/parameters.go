package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/shopspring/decimal"
)

// Parameters are the tunable knobs of the simulation engine. Defaults are
// calibrated against the MEPS/CMS-derived reference tables; overrides load
// from a YAML file.
type Parameters struct {
	// MaxAnnualTransition caps any odds-ratio-derived annual transition
	// probability.
	MaxAnnualTransition float64 `yaml:"max_annual_transition"`

	// MinEdgeProbability prunes negligible branches during expansion. Applied
	// to the joint (path) probability of the candidate node.
	MinEdgeProbability float64 `yaml:"min_edge_probability"`

	// MaxDepth bounds pathway expansion, in hops from a root node.
	MaxDepth int `yaml:"max_depth"`

	// HighCostThreshold classifies a future node as high_cost when its
	// resolved annual cost exceeds it.
	HighCostThreshold decimal.Decimal `yaml:"high_cost_threshold"`

	// ConfidenceBlendWeight weights the supplied symptom confidence against a
	// comorbidity-derived prior when seeding symptom candidates. 1.0 trusts
	// the confidence alone.
	ConfidenceBlendWeight float64 `yaml:"confidence_blend_weight"`

	// CareCostMultiplier scales a condition's typical annual drug cost up to
	// an estimated total cost of care in the third cascade tier.
	CareCostMultiplier decimal.Decimal `yaml:"care_cost_multiplier"`

	// MinCellSampleSize is the observation count a stratified cost cell needs
	// before the cascade accepts it.
	MinCellSampleSize int `yaml:"min_cell_sample_size"`

	// MinSummarySampleSize is the observation count the demographic summary
	// tier needs.
	MinSummarySampleSize int `yaml:"min_summary_sample_size"`

	// MinEdgeObservations is the supporting observation count a network
	// stratum tier needs before falling back to a coarser stratum.
	MinEdgeObservations int `yaml:"min_edge_observations"`

	// DefaultHorizonYears applies when a request omits the horizon.
	DefaultHorizonYears int `yaml:"default_horizon_years"`
}

// DefaultParameters returns the calibrated engine defaults.
func DefaultParameters() Parameters {
	return Parameters{
		MaxAnnualTransition:   0.35,
		MinEdgeProbability:    0.005,
		MaxDepth:              2,
		HighCostThreshold:     decimal.NewFromInt(10000),
		ConfidenceBlendWeight: 0.6,
		CareCostMultiplier:    decimal.NewFromFloat(4.0),
		MinCellSampleSize:     5,
		MinSummarySampleSize:  10,
		MinEdgeObservations:   25,
		DefaultHorizonYears:   5,
	}
}

// LoadParameters reads engine parameters from a YAML file, applying defaults
// for omitted fields.
func LoadParameters(filename string) (Parameters, error) {
	params := DefaultParameters()

	data, err := os.ReadFile(filename)
	if err != nil {
		return params, fmt.Errorf("failed to read parameters file %s: %w", filename, err)
	}
	if err := yaml.Unmarshal(data, &params); err != nil {
		return params, fmt.Errorf("failed to parse parameters YAML: %w", err)
	}
	if err := params.Validate(); err != nil {
		return params, fmt.Errorf("parameters validation failed: %w", err)
	}
	return params, nil
}

// Validate checks parameter ranges.
func (p *Parameters) Validate() error {
	if p.MaxAnnualTransition <= 0 || p.MaxAnnualTransition > 1 {
		return fmt.Errorf("max_annual_transition must be in (0,1], got %.4f", p.MaxAnnualTransition)
	}
	if p.MinEdgeProbability < 0 || p.MinEdgeProbability >= 1 {
		return fmt.Errorf("min_edge_probability must be in [0,1), got %.4f", p.MinEdgeProbability)
	}
	if p.MaxDepth < 1 {
		return fmt.Errorf("max_depth must be at least 1, got %d", p.MaxDepth)
	}
	if p.HighCostThreshold.IsNegative() {
		return fmt.Errorf("high_cost_threshold cannot be negative")
	}
	if p.ConfidenceBlendWeight < 0 || p.ConfidenceBlendWeight > 1 {
		return fmt.Errorf("confidence_blend_weight must be in [0,1], got %.4f", p.ConfidenceBlendWeight)
	}
	if p.CareCostMultiplier.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("care_cost_multiplier must be positive")
	}
	if p.MinCellSampleSize < 1 || p.MinSummarySampleSize < 1 {
		return fmt.Errorf("minimum sample sizes must be at least 1")
	}
	if p.MinEdgeObservations < 1 {
		return fmt.Errorf("min_edge_observations must be at least 1")
	}
	if p.DefaultHorizonYears < 1 {
		return fmt.Errorf("default_horizon_years must be at least 1, got %d", p.DefaultHorizonYears)
	}
	return nil
}
