package compare

import (
	"github.com/shopspring/decimal"

	"github.com/caregraph/caregraph/internal/domain"
)

// PlanResult is one candidate plan priced against the shared risk graph.
type PlanResult struct {
	Plan  domain.Plan   `json:"plan"`
	Graph *domain.Graph `json:"graph"`

	// TotalOOP is the horizon out-of-pocket total under this plan's terms.
	TotalOOP decimal.Decimal `json:"total_oop"`
	// TotalWithPremium adds the horizon's premiums on top of TotalOOP; the
	// comparison sort key.
	TotalWithPremium decimal.Decimal `json:"total_with_premium"`

	// DiffFromBest compares against the cheapest plan in the set.
	DiffFromBest decimal.Decimal `json:"diff_from_best"`
}

// PlanComparisonSet is the ordered outcome of a plan comparison.
type PlanComparisonSet struct {
	Results []PlanResult `json:"plan_comparisons"`
	// SkippedPlanIDs are requested ids absent from the catalog; reported,
	// not fatal to the batch.
	SkippedPlanIDs []string `json:"skipped_plan_ids,omitempty"`
	HorizonYears   int      `json:"horizon_years"`
}

// ScenarioResult is one intervention set evaluated over the same profile.
type ScenarioResult struct {
	Interventions []string      `json:"interventions"`
	Graph         *domain.Graph `json:"graph"`

	// Deltas against the no-intervention baseline; negative means savings.
	CostDiffFromBaseline decimal.Decimal `json:"cost_diff_from_baseline"`
	OOPDiffFromBaseline  decimal.Decimal `json:"oop_diff_from_baseline"`
}

// ScenarioComparisonSet compares intervention scenarios side by side.
type ScenarioComparisonSet struct {
	Baseline     *domain.Graph    `json:"baseline"`
	Scenarios    []ScenarioResult `json:"scenarios"`
	HorizonYears int              `json:"horizon_years"`
}
