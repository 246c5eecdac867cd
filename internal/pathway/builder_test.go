package pathway

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caregraph/caregraph/internal/config"
	"github.com/caregraph/caregraph/internal/costs"
	"github.com/caregraph/caregraph/internal/domain"
	"github.com/caregraph/caregraph/internal/intervention"
	"github.com/caregraph/caregraph/internal/network"
	"github.com/caregraph/caregraph/internal/registry"
)

func testBuilder(t *testing.T) *Builder {
	t.Helper()

	reg, err := registry.New([]domain.Condition{
		{ID: "type_2_diabetes", Label: "Type 2 Diabetes", Category: domain.CategoryMetabolic, BaselineIncidence: 0.009},
		{ID: "hypertension", Label: "Hypertension", Category: domain.CategoryCardiovascular, BaselineIncidence: 0.04},
		{ID: "chronic_kidney_disease", Label: "Chronic Kidney Disease", Category: domain.CategoryRenal, BaselineIncidence: 0.015},
		{ID: "heart_failure", Label: "Heart Failure", Category: domain.CategoryCardiovascular, BaselineIncidence: 0.01},
		{ID: "dialysis", Label: "Dialysis", Category: domain.CategoryRenal, BaselineIncidence: 0.001},
		{ID: "rare_condition", Label: "Rare Condition", Category: domain.CategoryOther, BaselineIncidence: 0.0001},
	})
	require.NoError(t, err)

	net := network.New([]network.OddsRatioEdge{
		{Source: "type_2_diabetes", Target: "chronic_kidney_disease", OddsRatio: 10, Observations: 1000},
		{Source: "type_2_diabetes", Target: "rare_condition", OddsRatio: 2, Observations: 1000},
		{Source: "hypertension", Target: "chronic_kidney_disease", OddsRatio: 20, Observations: 1000},
		{Source: "hypertension", Target: "heart_failure", OddsRatio: 6, Observations: 1000},
		{Source: "chronic_kidney_disease", Target: "dialysis", OddsRatio: 60, Observations: 1000},
		{Source: "chronic_kidney_disease", Target: "heart_failure", OddsRatio: 7, Observations: 1000},
		{Source: "heart_failure", Target: "chronic_kidney_disease", OddsRatio: 6.3, Observations: 1000},
	}, 25)

	oracle := costs.NewOracle(costs.OracleConfig{
		Summary: []costs.SummaryRecord{
			{Condition: "type_2_diabetes", AnnualCost: decimal.NewFromInt(9000), SampleSize: 500},
			{Condition: "hypertension", AnnualCost: decimal.NewFromInt(5000), SampleSize: 500},
			{Condition: "chronic_kidney_disease", AnnualCost: decimal.NewFromInt(15000), SampleSize: 500},
			{Condition: "heart_failure", AnnualCost: decimal.NewFromInt(23000), SampleSize: 500},
			{Condition: "dialysis", AnnualCost: decimal.NewFromInt(89000), SampleSize: 80},
		},
		Category:         map[domain.Category]decimal.Decimal{domain.CategoryOther: decimal.NewFromInt(2500)},
		CareMultiplier:   decimal.NewFromFloat(4.0),
		MinCellSample:    5,
		MinSummarySample: 10,
	})

	catalog, err := intervention.NewCatalog([]domain.InterventionEffect{
		{Name: "sglt2_inhibitor", TargetID: "chronic_kidney_disease", RiskMultiplier: 0.5},
		{Name: "sglt2_inhibitor", TargetID: "dialysis", RiskMultiplier: 0.68},
	})
	require.NoError(t, err)

	return NewBuilder(reg, net, oracle, catalog, config.DefaultParameters())
}

func testProfile(conditions ...string) domain.Profile {
	return domain.Profile{
		Age:           54,
		Sex:           "M",
		Conditions:    conditions,
		InsuranceType: "private",
		PlanTerms: domain.PlanTerms{
			Deductible:  decimal.NewFromInt(1000),
			Coinsurance: decimal.NewFromFloat(0.2),
			OOPMax:      decimal.NewFromInt(6000),
		},
	}
}

func TestBuildPathwayStructure(t *testing.T) {
	b := testBuilder(t)
	g := b.BuildPathway(BuildInput{
		Profile:      testProfile("type_2_diabetes", "hypertension"),
		HorizonYears: 5,
	})

	require.NotNil(t, g.Node("current_type_2_diabetes"))
	require.NotNil(t, g.Node("current_hypertension"))
	require.NotNil(t, g.Node("future_chronic_kidney_disease"))
	require.NotNil(t, g.Node("future_heart_failure"))
	require.NotNil(t, g.Node("future_dialysis"), "depth-2 expansion should reach dialysis")
	assert.Nil(t, g.Node("future_rare_condition"), "negligible branches are pruned")

	for _, n := range g.NodesOfType(domain.NodeCurrent) {
		assert.Equal(t, 1.0, n.Probability, "diagnosed conditions are certain")
		assert.Equal(t, 0, n.OnsetYear)
	}

	ckd := g.Node("future_chronic_kidney_disease")
	assert.Equal(t, 1, ckd.OnsetYear)
	assert.Equal(t, 2, g.Node("future_dialysis").OnsetYear)
}

func TestBuildPathwayDeterministic(t *testing.T) {
	b := testBuilder(t)
	in := BuildInput{
		Profile:       testProfile("type_2_diabetes", "hypertension"),
		Interventions: []string{"sglt2_inhibitor"},
		HorizonYears:  5,
		SymptomConditions: []domain.SymptomCandidate{
			{ConditionID: "heart_failure", Confidence: 0.4},
		},
	}
	assert.Equal(t, b.BuildPathway(in), b.BuildPathway(in),
		"identical inputs must produce identical graphs")
}

func TestBuildPathwayProbabilityBounds(t *testing.T) {
	b := testBuilder(t)
	g := b.BuildPathway(BuildInput{
		Profile:      testProfile("type_2_diabetes", "hypertension"),
		HorizonYears: 5,
	})

	for _, n := range g.Nodes {
		if n.Type == domain.NodeIntervention {
			continue
		}
		assert.GreaterOrEqual(t, n.Probability, 0.0, "node %s", n.ID)
		assert.LessOrEqual(t, n.Probability, 1.0, "node %s", n.ID)
		assert.True(t, n.OOPEstimate.LessThanOrEqual(n.AnnualCost),
			"node %s: OOP %s exceeds cost %s", n.ID, n.OOPEstimate, n.AnnualCost)
	}
	for _, e := range g.Edges {
		if e.Type == domain.EdgeIntervention {
			continue
		}
		assert.LessOrEqual(t, e.Probability, b.Params.MaxAnnualTransition, "edge %s->%s", e.Source, e.Target)
	}
}

func TestBuildPathwayMergeKeepsHigherProbability(t *testing.T) {
	b := testBuilder(t)

	// CKD is reachable from both roots; hypertension's OR 20 dominates
	// diabetes' OR 10, so the merged node carries the hypertension-derived
	// probability.
	both := b.BuildPathway(BuildInput{
		Profile:      testProfile("type_2_diabetes", "hypertension"),
		HorizonYears: 5,
	})
	diabetesOnly := b.BuildPathway(BuildInput{
		Profile:      testProfile("type_2_diabetes"),
		HorizonYears: 5,
	})
	hypertensionOnly := b.BuildPathway(BuildInput{
		Profile:      testProfile("hypertension"),
		HorizonYears: 5,
	})

	merged := both.Node("future_chronic_kidney_disease").Probability
	assert.Equal(t, hypertensionOnly.Node("future_chronic_kidney_disease").Probability, merged)
	assert.Greater(t, merged, diabetesOnly.Node("future_chronic_kidney_disease").Probability)

	// One node, two incoming edges.
	incoming := 0
	for _, e := range both.Edges {
		if e.Target == "future_chronic_kidney_disease" && e.Type != domain.EdgeIntervention {
			incoming++
		}
	}
	assert.Equal(t, 2, incoming)
}

func TestBuildPathwayAcyclicWithReciprocalAssociations(t *testing.T) {
	b := testBuilder(t)

	// CKD and heart failure carry reciprocal odds ratios and both sit at
	// depth 1 from hypertension; neither sibling may link to the other.
	g := b.BuildPathway(BuildInput{
		Profile:      testProfile("hypertension"),
		HorizonYears: 5,
	})

	require.NotNil(t, g.Node("future_chronic_kidney_disease"))
	require.NotNil(t, g.Node("future_heart_failure"))

	seen := map[[2]string]bool{}
	for _, e := range g.Edges {
		if e.Type == domain.EdgeIntervention {
			continue
		}
		assert.False(t, seen[[2]string{e.Target, e.Source}],
			"reciprocal edges %s<->%s form a cycle", e.Source, e.Target)
		seen[[2]string{e.Source, e.Target}] = true

		// Every transition edge advances exactly one year, so no path can
		// ever return to an earlier node.
		src, tgt := g.Node(e.Source), g.Node(e.Target)
		require.NotNil(t, src)
		require.NotNil(t, tgt)
		assert.Equal(t, src.OnsetYear+1, tgt.OnsetYear,
			"edge %s->%s must point one depth deeper", e.Source, e.Target)
	}
}

func TestBuildPathwayMergeKeepsOnsetYear(t *testing.T) {
	b := testBuilder(t)

	// Heart failure is created at depth 1 from hypertension and reached
	// again at depth 2 through CKD; the later visit must not restamp the
	// earlier onset.
	g := b.BuildPathway(BuildInput{
		Profile:      testProfile("type_2_diabetes", "hypertension"),
		HorizonYears: 5,
	})

	hf := g.Node("future_heart_failure")
	require.NotNil(t, hf)
	assert.Equal(t, 1, hf.OnsetYear, "first-reach depth fixes the onset year")
}

func TestBuildPathwayHighCostNodes(t *testing.T) {
	b := testBuilder(t)
	g := b.BuildPathway(BuildInput{
		Profile:      testProfile("type_2_diabetes", "hypertension"),
		HorizonYears: 5,
	})

	assert.Equal(t, domain.NodeHighCost, g.Node("future_chronic_kidney_disease").Type,
		"annual cost above the threshold marks the node high_cost")
	assert.Equal(t, domain.NodeHighCost, g.Node("future_dialysis").Type)
}

func TestBuildPathwayEdgeTypes(t *testing.T) {
	b := testBuilder(t)
	g := b.BuildPathway(BuildInput{
		Profile:      testProfile("type_2_diabetes", "hypertension"),
		HorizonYears: 5,
	})

	byPair := map[[2]string]domain.EdgeType{}
	for _, e := range g.Edges {
		byPair[[2]string{e.Source, e.Target}] = e.Type
	}

	// Same category (cardiovascular -> cardiovascular) is a progression.
	assert.Equal(t, domain.EdgeProgression, byPair[[2]string{"current_hypertension", "future_heart_failure"}])
	// Cross-category transitions are comorbidities.
	assert.Equal(t, domain.EdgeComorbidity, byPair[[2]string{"current_type_2_diabetes", "future_chronic_kidney_disease"}])
	assert.Equal(t, domain.EdgeProgression, byPair[[2]string{"future_chronic_kidney_disease", "future_dialysis"}])
}

func TestBuildPathwayInterventionLowersRisk(t *testing.T) {
	b := testBuilder(t)
	base := b.BuildPathway(BuildInput{
		Profile:      testProfile("type_2_diabetes", "hypertension"),
		HorizonYears: 5,
	})
	treated := b.BuildPathway(BuildInput{
		Profile:       testProfile("type_2_diabetes", "hypertension"),
		Interventions: []string{"sglt2_inhibitor"},
		HorizonYears:  5,
	})

	baseCKD := base.Node("future_chronic_kidney_disease").Probability
	treatedCKD := treated.Node("future_chronic_kidney_disease").Probability
	assert.InDelta(t, baseCKD*0.5, treatedCKD, 1e-9, "the multiplier scales the transition directly")

	assert.True(t, treated.TotalCost.LessThan(base.TotalCost),
		"lower risk must lower the projected total")

	marker := treated.Node("intervention_sglt2_inhibitor")
	require.NotNil(t, marker, "applied interventions appear as marker nodes")
	assert.Equal(t, domain.NodeIntervention, marker.Type)
	assert.True(t, marker.AnnualCost.IsZero(), "markers carry no cost")

	found := false
	for _, e := range treated.Edges {
		if e.Source == "intervention_sglt2_inhibitor" && e.Target == "future_chronic_kidney_disease" {
			found = true
			assert.Equal(t, domain.EdgeIntervention, e.Type)
		}
	}
	assert.True(t, found, "marker should link to its affected node")
}

func TestBuildPathwayUnknownInterventionIgnored(t *testing.T) {
	b := testBuilder(t)
	g := b.BuildPathway(BuildInput{
		Profile:       testProfile("type_2_diabetes"),
		Interventions: []string{"crystal_healing"},
		HorizonYears:  5,
	})
	assert.Empty(t, g.NodesOfType(domain.NodeIntervention), "unknown interventions produce no marker")
}

func TestBuildPathwayTotalsMatchNodeSum(t *testing.T) {
	b := testBuilder(t)
	g := b.BuildPathway(BuildInput{
		Profile:      testProfile("type_2_diabetes", "hypertension"),
		HorizonYears: 5,
	})

	wantCost := decimal.Zero
	wantOOP := decimal.Zero
	for i := range g.Nodes {
		n := &g.Nodes[i]
		if !n.ContributesCost() {
			continue
		}
		years := decimal.NewFromInt(int64(n.YearsActive(g.HorizonYrs)))
		prob := decimal.NewFromFloat(n.Probability)
		wantCost = wantCost.Add(n.AnnualCost.Mul(prob).Mul(years))
		wantOOP = wantOOP.Add(n.OOPEstimate.Mul(prob).Mul(years))
	}
	assert.True(t, g.TotalCost.Equal(wantCost.Round(2)), "total %s want %s", g.TotalCost, wantCost)
	assert.True(t, g.TotalOOP.Equal(wantOOP.Round(2)))
	assert.True(t, g.TotalOOP.LessThanOrEqual(g.TotalCost))
}

func TestBuildPathwaySymptomCandidateBlend(t *testing.T) {
	b := testBuilder(t)
	g := b.BuildPathway(BuildInput{
		Profile:      testProfile("type_2_diabetes"),
		HorizonYears: 5,
		SymptomConditions: []domain.SymptomCandidate{
			{ConditionID: "chronic_kidney_disease", Confidence: 0.9},
		},
	})

	node := g.Node("current_chronic_kidney_disease")
	require.NotNil(t, node)
	assert.True(t, node.IsLLMGenerated)
	// 0.6 x 0.9 confidence blended with 0.4 x the diabetes-derived prior.
	assert.InDelta(t, 0.5929, node.Probability, 0.001)

	var rootEdge *domain.PathwayEdge
	for i := range g.Edges {
		if g.Edges[i].Target == "current_chronic_kidney_disease" && g.Edges[i].Type == domain.EdgeRoot {
			rootEdge = &g.Edges[i]
		}
	}
	require.NotNil(t, rootEdge, "a prior-backed candidate gets a root edge from its source")
	assert.Equal(t, "current_type_2_diabetes", rootEdge.Source)
	assert.Equal(t, "suspected", rootEdge.Label)
}

func TestBuildPathwaySymptomCandidateWithoutPrior(t *testing.T) {
	b := testBuilder(t)
	g := b.BuildPathway(BuildInput{
		Profile:      testProfile(),
		HorizonYears: 5,
		SymptomConditions: []domain.SymptomCandidate{
			{ConditionID: "heart_failure", Confidence: 0.35},
		},
	})

	node := g.Node("current_heart_failure")
	require.NotNil(t, node)
	assert.Equal(t, 0.35, node.Probability, "without a comorbidity prior the raw confidence stands")
}

func TestBuildPathwayUnmappedConditions(t *testing.T) {
	b := testBuilder(t)
	g := b.BuildPathway(BuildInput{
		Profile:            testProfile("type_2_diabetes", "gout"),
		HorizonYears:       5,
		UnmappedConditions: []string{"that_weird_rash", "gout"},
		SymptomConditions:  []domain.SymptomCandidate{{ConditionID: "chronic_fatigue", Confidence: 0.5}},
	})

	assert.Equal(t, []string{"chronic_fatigue", "gout", "that_weird_rash"}, g.Unmapped,
		"unmapped ids are deduplicated and sorted")
	assert.Nil(t, g.Node("current_gout"))
	assert.NotNil(t, g.Node("current_type_2_diabetes"), "known conditions still expand")
}

func TestBuildPathwayEmptyCases(t *testing.T) {
	b := testBuilder(t)

	noConditions := b.BuildPathway(BuildInput{Profile: testProfile(), HorizonYears: 5})
	assert.Empty(t, noConditions.Nodes)
	assert.True(t, noConditions.TotalCost.IsZero())

	zeroHorizon := b.BuildPathway(BuildInput{
		Profile:            testProfile("type_2_diabetes"),
		HorizonYears:       0,
		UnmappedConditions: []string{"x"},
	})
	assert.Empty(t, zeroHorizon.Nodes, "a non-positive horizon yields the empty graph")
	assert.Equal(t, []string{"x"}, zeroHorizon.Unmapped)
}
