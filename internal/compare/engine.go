// Package compare evaluates the same risk model against multiple insurance
// plans or intervention scenarios.
package compare

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/caregraph/caregraph/internal/pathway"
	"github.com/caregraph/caregraph/internal/plans"
)

// CompareEngine orchestrates plan and scenario comparison.
type CompareEngine struct {
	Builder *pathway.Builder
	Plans   *plans.Catalog
}

// NewCompareEngine creates a comparison engine.
func NewCompareEngine(builder *pathway.Builder, catalog *plans.Catalog) *CompareEngine {
	return &CompareEngine{Builder: builder, Plans: catalog}
}

// ComparePlans prices candidate plans against one fixed risk model. The
// condition-probability graph is computed exactly once; each plan only
// re-runs the out-of-pocket arithmetic. Unknown plan ids are skipped and
// reported. Results are sorted ascending by total cost with premium, ties
// broken by plan id.
func (ce *CompareEngine) ComparePlans(in pathway.BuildInput, planIDs []string) *PlanComparisonSet {
	base := ce.Builder.BuildPathway(in)
	horizon := decimal.NewFromInt(int64(in.HorizonYears))

	set := &PlanComparisonSet{HorizonYears: in.HorizonYears}
	for _, id := range planIDs {
		plan, ok := ce.Plans.Lookup(id)
		if !ok {
			set.SkippedPlanIDs = append(set.SkippedPlanIDs, id)
			continue
		}
		priced := pathway.WithPlanTerms(base, plan.PlanTerms)
		totalPremium := plan.AnnualPremium().Mul(horizon)
		set.Results = append(set.Results, PlanResult{
			Plan:             plan,
			Graph:            priced,
			TotalOOP:         priced.TotalOOP,
			TotalWithPremium: priced.TotalOOP.Add(totalPremium).Round(2),
		})
	}

	sort.SliceStable(set.Results, func(i, j int) bool {
		a, b := set.Results[i], set.Results[j]
		if !a.TotalWithPremium.Equal(b.TotalWithPremium) {
			return a.TotalWithPremium.LessThan(b.TotalWithPremium)
		}
		return a.Plan.ID < b.Plan.ID
	})
	sort.Strings(set.SkippedPlanIDs)

	if len(set.Results) > 0 {
		best := set.Results[0].TotalWithPremium
		for i := range set.Results {
			set.Results[i].DiffFromBest = set.Results[i].TotalWithPremium.Sub(best)
		}
	}
	return set
}

// CompareScenarios evaluates intervention sets side by side over the same
// profile and horizon. The baseline is the no-intervention pathway.
func (ce *CompareEngine) CompareScenarios(in pathway.BuildInput, scenarios [][]string) *ScenarioComparisonSet {
	baselineIn := in
	baselineIn.Interventions = nil
	baseline := ce.Builder.BuildPathway(baselineIn)

	set := &ScenarioComparisonSet{
		Baseline:     baseline,
		HorizonYears: in.HorizonYears,
	}
	for _, interventions := range scenarios {
		scenarioIn := in
		scenarioIn.Interventions = interventions
		g := ce.Builder.BuildPathway(scenarioIn)
		set.Scenarios = append(set.Scenarios, ScenarioResult{
			Interventions:        interventions,
			Graph:                g,
			CostDiffFromBaseline: g.TotalCost.Sub(baseline.TotalCost),
			OOPDiffFromBaseline:  g.TotalOOP.Sub(baseline.TotalOOP),
		})
	}
	return set
}
