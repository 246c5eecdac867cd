package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/caregraph/caregraph/internal/domain"
)

// SimulationRequest is the YAML input the CLI consumes: one patient profile
// plus the scenario to simulate.
type SimulationRequest struct {
	Profile           domain.Profile            `yaml:"profile" json:"profile"`
	Interventions     []string                  `yaml:"interventions" json:"interventions"`
	HorizonYears      int                       `yaml:"horizon_years" json:"horizon_years"`
	SymptomConditions []domain.SymptomCandidate `yaml:"symptom_conditions" json:"symptom_conditions"`
	// UnmappedConditions are ids the upstream intake layer could not map to
	// the registry; echoed back in the result.
	UnmappedConditions []string `yaml:"unmapped_conditions" json:"unmapped_conditions"`
}

// PlanCompareRequest is the YAML input for plan comparison.
type PlanCompareRequest struct {
	Profile       domain.Profile `yaml:"profile" json:"profile"`
	Interventions []string       `yaml:"interventions" json:"interventions"`
	HorizonYears  int            `yaml:"horizon_years" json:"horizon_years"`
	PlanIDs       []string       `yaml:"plan_ids" json:"plan_ids"`
}

// RequestParser handles parsing of simulation request files.
type RequestParser struct {
	Params Parameters
}

// NewRequestParser creates a request parser using the given engine
// parameters for defaults.
func NewRequestParser(params Parameters) *RequestParser {
	return &RequestParser{Params: params}
}

// LoadSimulationRequest loads and validates a simulation request from a YAML
// file.
func (rp *RequestParser) LoadSimulationRequest(filename string) (*SimulationRequest, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	var req SimulationRequest
	if err := yaml.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := rp.ValidateSimulationRequest(&req); err != nil {
		return nil, fmt.Errorf("request validation failed: %w", err)
	}
	return &req, nil
}

// LoadPlanCompareRequest loads and validates a plan comparison request from a
// YAML file.
func (rp *RequestParser) LoadPlanCompareRequest(filename string) (*PlanCompareRequest, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	var req PlanCompareRequest
	if err := yaml.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := req.Profile.Validate(); err != nil {
		return nil, fmt.Errorf("request validation failed: profile: %w", err)
	}
	if len(req.PlanIDs) == 0 {
		return nil, fmt.Errorf("request validation failed: at least one plan id is required")
	}
	if req.HorizonYears == 0 {
		req.HorizonYears = rp.Params.DefaultHorizonYears
	}
	if req.HorizonYears < 1 {
		return nil, fmt.Errorf("request validation failed: horizon_years must be at least 1")
	}
	return &req, nil
}

// ValidateSimulationRequest validates a simulation request in place,
// applying the default horizon when omitted.
func (rp *RequestParser) ValidateSimulationRequest(req *SimulationRequest) error {
	if err := req.Profile.Validate(); err != nil {
		return fmt.Errorf("profile: %w", err)
	}
	if req.HorizonYears == 0 {
		req.HorizonYears = rp.Params.DefaultHorizonYears
	}
	if req.HorizonYears < 1 {
		return fmt.Errorf("horizon_years must be at least 1, got %d", req.HorizonYears)
	}
	for i, sc := range req.SymptomConditions {
		if sc.ConditionID == "" {
			return fmt.Errorf("symptom condition %d: condition_id is required", i)
		}
		if sc.Confidence < 0 || sc.Confidence > 1 {
			return fmt.Errorf("symptom condition %s: confidence %.3f outside [0,1]", sc.ConditionID, sc.Confidence)
		}
	}
	return nil
}
