package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultParametersValid(t *testing.T) {
	p := DefaultParameters()
	assert.NoError(t, p.Validate())
	assert.Equal(t, 0.35, p.MaxAnnualTransition)
	assert.Equal(t, 0.005, p.MinEdgeProbability)
	assert.Equal(t, 2, p.MaxDepth)
	assert.Equal(t, 5, p.DefaultHorizonYears)
	assert.True(t, p.HighCostThreshold.Equal(decimal.NewFromInt(10000)))
}

func TestLoadParametersAppliesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "params.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_depth: 3\nmin_edge_probability: 0.01\n"), 0644))

	p, err := LoadParameters(path)
	require.NoError(t, err)
	assert.Equal(t, 3, p.MaxDepth)
	assert.Equal(t, 0.01, p.MinEdgeProbability)
	assert.Equal(t, 0.35, p.MaxAnnualTransition, "omitted fields keep their defaults")
}

func TestLoadParametersMissingFile(t *testing.T) {
	_, err := LoadParameters("/nonexistent/params.yaml")
	assert.Error(t, err)
}

func TestLoadParametersRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "params.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_depth: 0\n"), 0644))

	_, err := LoadParameters(path)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "max_depth")
}

func TestParametersValidateRanges(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Parameters)
	}{
		{"transition cap above one", func(p *Parameters) { p.MaxAnnualTransition = 1.5 }},
		{"negative edge probability", func(p *Parameters) { p.MinEdgeProbability = -0.1 }},
		{"blend weight above one", func(p *Parameters) { p.ConfidenceBlendWeight = 1.2 }},
		{"zero care multiplier", func(p *Parameters) { p.CareCostMultiplier = decimal.Zero }},
		{"zero cell sample", func(p *Parameters) { p.MinCellSampleSize = 0 }},
		{"zero edge observations", func(p *Parameters) { p.MinEdgeObservations = 0 }},
		{"zero default horizon", func(p *Parameters) { p.DefaultHorizonYears = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := DefaultParameters()
			tc.mutate(&p)
			assert.Error(t, p.Validate())
		})
	}
}
