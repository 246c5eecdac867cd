package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// PlanTerms are the cost-sharing parameters shared by patient profiles and
// marketplace plans.
type PlanTerms struct {
	Deductible  decimal.Decimal `json:"deductible" yaml:"deductible"`
	Coinsurance decimal.Decimal `json:"coinsurance" yaml:"coinsurance"`
	OOPMax      decimal.Decimal `json:"oop_max" yaml:"oop_max"`
}

// Validate checks the cost-sharing parameters.
func (t *PlanTerms) Validate() error {
	if t.Deductible.IsNegative() {
		return fmt.Errorf("deductible cannot be negative")
	}
	if t.Coinsurance.IsNegative() || t.Coinsurance.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("coinsurance must be in [0,1], got %s", t.Coinsurance)
	}
	if t.OOPMax.IsNegative() {
		return fmt.Errorf("oop_max cannot be negative")
	}
	return nil
}

// Profile is the minimal structured patient profile a simulation request is
// built from. Immutable for the lifetime of the request.
type Profile struct {
	Age           int      `json:"age" yaml:"age"`
	Sex           string   `json:"sex" yaml:"sex"`
	Conditions    []string `json:"conditions" yaml:"conditions"`
	InsuranceType string   `json:"insurance_type" yaml:"insurance_type"`
	PlanTerms     `yaml:",inline"`
}

// Validate checks profile-level invariants. Condition ids are not checked
// against the registry here; unknown ids surface in the pathway result as
// unmapped, not as errors.
func (p *Profile) Validate() error {
	if p.Age < 0 || p.Age > 120 {
		return fmt.Errorf("age %d outside plausible range", p.Age)
	}
	sex := p.NormalizedSex()
	if sex != "M" && sex != "F" {
		return fmt.Errorf("sex must be M or F, got %q", p.Sex)
	}
	seen := make(map[string]bool, len(p.Conditions))
	for _, c := range p.Conditions {
		if c == "" {
			return fmt.Errorf("conditions list contains an empty id")
		}
		if seen[c] {
			return fmt.Errorf("duplicate condition %s", c)
		}
		seen[c] = true
	}
	return p.PlanTerms.Validate()
}

// NormalizedSex collapses free-form sex strings to the M/F codes the
// reference tables are keyed by.
func (p *Profile) NormalizedSex() string {
	if strings.HasPrefix(strings.ToUpper(strings.TrimSpace(p.Sex)), "F") {
		return "F"
	}
	return "M"
}

// Stratum returns the demographic/insurance slice all lookups for this
// profile are conditioned on.
func (p *Profile) Stratum() Stratum {
	return Stratum{
		AgeBucket: AgeBucketFor(p.Age),
		Sex:       p.NormalizedSex(),
		Insurance: p.InsuranceType,
	}
}

// SymptomCandidate is a symptom-derived condition hypothesis supplied by the
// upstream intake layer, carrying the extraction confidence.
type SymptomCandidate struct {
	ConditionID string  `json:"condition_id" yaml:"condition_id"`
	Confidence  float64 `json:"confidence" yaml:"confidence"`
}
