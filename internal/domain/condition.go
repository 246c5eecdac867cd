package domain

import "fmt"

// Category groups conditions for fallback cost lookups.
type Category string

const (
	CategoryCardiovascular  Category = "cardiovascular"
	CategoryMetabolic       Category = "metabolic"
	CategoryRenal           Category = "renal"
	CategoryRespiratory     Category = "respiratory"
	CategoryNeurological    Category = "neurological"
	CategoryMusculoskeletal Category = "musculoskeletal"
	CategoryMentalHealth    Category = "mental_health"
	CategoryOncology        Category = "oncology"
	CategoryOther           Category = "other"
)

// Condition is an immutable catalog entry for a known condition.
type Condition struct {
	ID                string   `json:"id" yaml:"id"`
	Label             string   `json:"label" yaml:"label"`
	Category          Category `json:"category" yaml:"category"`
	BaselineIncidence float64  `json:"baseline_incidence" yaml:"baseline_incidence"`
}

// Validate checks catalog-level invariants for a condition entry.
func (c *Condition) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("condition id is required")
	}
	if c.Label == "" {
		return fmt.Errorf("condition %s: label is required", c.ID)
	}
	if c.BaselineIncidence < 0 || c.BaselineIncidence >= 1 {
		return fmt.Errorf("condition %s: baseline incidence %.4f outside [0,1)", c.ID, c.BaselineIncidence)
	}
	return nil
}

// AgeBucket labels follow the MEPS stratification used by the cost tables.
var AgeBuckets = []string{"<30", "30-39", "40-49", "50-59", "60-69", "70-79", "80+"}

// AgeBucketFor maps a numeric age to its stratification bucket.
func AgeBucketFor(age int) string {
	switch {
	case age < 30:
		return "<30"
	case age < 40:
		return "30-39"
	case age < 50:
		return "40-49"
	case age < 60:
		return "50-59"
	case age < 70:
		return "60-69"
	case age < 80:
		return "70-79"
	default:
		return "80+"
	}
}

// Stratum is the demographic/insurance slice used to condition risk and cost
// lookups. Empty fields mean "any" and identify coarsened strata in the
// reference tables.
type Stratum struct {
	AgeBucket string `json:"age_bucket"`
	Sex       string `json:"sex"`
	Insurance string `json:"insurance_type"`
}

// PopulationStratum is the coarsest stratum: no demographic conditioning.
var PopulationStratum = Stratum{}

// Key renders a stable string form, useful for map keys and diagnostics.
func (s Stratum) Key() string {
	return fmt.Sprintf("%s|%s|%s", s.AgeBucket, s.Sex, s.Insurance)
}

// AgeOnly drops sex and insurance conditioning.
func (s Stratum) AgeOnly() Stratum {
	return Stratum{AgeBucket: s.AgeBucket}
}

// SexOnly drops age and insurance conditioning.
func (s Stratum) SexOnly() Stratum {
	return Stratum{Sex: s.Sex}
}

// IsPopulation reports whether the stratum carries no conditioning at all.
func (s Stratum) IsPopulation() bool {
	return s.AgeBucket == "" && s.Sex == "" && s.Insurance == ""
}
