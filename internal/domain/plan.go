package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Plan is a marketplace plan from the catalog (CMS plan attribute + rate
// data). Read-only reference data.
type Plan struct {
	ID             string          `json:"plan_id"`
	Name           string          `json:"plan_name"`
	Issuer         string          `json:"issuer"`
	MetalLevel     string          `json:"metal_level"`
	State          string          `json:"state"`
	MonthlyPremium decimal.Decimal `json:"monthly_premium"`
	PlanTerms
}

// Validate checks a catalog entry.
func (p *Plan) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("plan id is required")
	}
	if p.MonthlyPremium.IsNegative() {
		return fmt.Errorf("plan %s: monthly premium cannot be negative", p.ID)
	}
	if err := p.PlanTerms.Validate(); err != nil {
		return fmt.Errorf("plan %s: %w", p.ID, err)
	}
	return nil
}

// AnnualPremium returns twelve months of premium.
func (p *Plan) AnnualPremium() decimal.Decimal {
	return p.MonthlyPremium.Mul(decimal.NewFromInt(12))
}

// InterventionEffect lowers the annual transition probability into its target
// condition. RiskMultiplier is in (0,1]: 0.42 means a 58% risk reduction.
type InterventionEffect struct {
	Name           string  `json:"name" yaml:"name"`
	TargetID       string  `json:"target_condition_id" yaml:"target_condition_id"`
	RiskMultiplier float64 `json:"risk_multiplier" yaml:"risk_multiplier"`
}

// Validate checks an effect record.
func (e *InterventionEffect) Validate() error {
	if e.Name == "" {
		return fmt.Errorf("intervention name is required")
	}
	if e.TargetID == "" {
		return fmt.Errorf("intervention %s: target condition is required", e.Name)
	}
	if e.RiskMultiplier <= 0 || e.RiskMultiplier > 1 {
		return fmt.Errorf("intervention %s: risk multiplier %.3f outside (0,1]", e.Name, e.RiskMultiplier)
	}
	return nil
}
