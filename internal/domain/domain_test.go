package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestAgeBucketFor(t *testing.T) {
	cases := map[int]string{
		0:   "<30",
		29:  "<30",
		30:  "30-39",
		39:  "30-39",
		45:  "40-49",
		54:  "50-59",
		65:  "60-69",
		79:  "70-79",
		80:  "80+",
		101: "80+",
	}
	for age, want := range cases {
		assert.Equal(t, want, AgeBucketFor(age), "age %d should map to bucket %s", age, want)
	}
}

func TestStratumCoarsening(t *testing.T) {
	s := Stratum{AgeBucket: "50-59", Sex: "M", Insurance: "private"}

	assert.Equal(t, "50-59|M|private", s.Key(), "key should join all three fields")
	assert.Equal(t, Stratum{AgeBucket: "50-59"}, s.AgeOnly(), "age-only should drop sex and insurance")
	assert.Equal(t, Stratum{Sex: "M"}, s.SexOnly(), "sex-only should drop age and insurance")
	assert.False(t, s.IsPopulation())
	assert.True(t, PopulationStratum.IsPopulation())
	assert.Equal(t, "||", PopulationStratum.Key())
}

func TestConditionValidate(t *testing.T) {
	valid := Condition{ID: "hypertension", Label: "Hypertension", Category: CategoryCardiovascular, BaselineIncidence: 0.04}
	assert.NoError(t, valid.Validate())

	missing := Condition{Label: "X"}
	assert.Error(t, missing.Validate(), "missing id should be rejected")

	badIncidence := Condition{ID: "x", Label: "X", BaselineIncidence: 1.0}
	assert.Error(t, badIncidence.Validate(), "incidence of 1.0 should be rejected")
}

func TestPlanTermsValidate(t *testing.T) {
	valid := PlanTerms{
		Deductible:  decimal.NewFromInt(1500),
		Coinsurance: decimal.NewFromFloat(0.2),
		OOPMax:      decimal.NewFromInt(8000),
	}
	assert.NoError(t, valid.Validate())

	negDeductible := valid
	negDeductible.Deductible = decimal.NewFromInt(-1)
	assert.Error(t, negDeductible.Validate())

	badCoinsurance := valid
	badCoinsurance.Coinsurance = decimal.NewFromFloat(1.5)
	assert.Error(t, badCoinsurance.Validate(), "coinsurance above 1 should be rejected")
}

func TestProfileValidate(t *testing.T) {
	p := Profile{
		Age:           54,
		Sex:           "male",
		Conditions:    []string{"type_2_diabetes", "hypertension"},
		InsuranceType: "private",
		PlanTerms: PlanTerms{
			Deductible:  decimal.NewFromInt(2000),
			Coinsurance: decimal.NewFromFloat(0.3),
			OOPMax:      decimal.NewFromInt(9000),
		},
	}
	assert.NoError(t, p.Validate())

	dup := p
	dup.Conditions = []string{"hypertension", "hypertension"}
	assert.Error(t, dup.Validate(), "duplicate conditions should be rejected")

	old := p
	old.Age = 140
	assert.Error(t, old.Validate())

	empty := p
	empty.Conditions = []string{""}
	assert.Error(t, empty.Validate())
}

func TestProfileNormalizedSexAndStratum(t *testing.T) {
	p := Profile{Age: 54, Sex: "female", InsuranceType: "medicare"}
	assert.Equal(t, "F", p.NormalizedSex())
	assert.Equal(t, Stratum{AgeBucket: "50-59", Sex: "F", Insurance: "medicare"}, p.Stratum())

	m := Profile{Age: 33, Sex: "M"}
	assert.Equal(t, "M", m.NormalizedSex())
}

func TestPlanValidateAndAnnualPremium(t *testing.T) {
	p := Plan{
		ID:             "11111AZ0010001",
		Name:           "Test Bronze",
		MonthlyPremium: decimal.NewFromFloat(312.40),
		PlanTerms: PlanTerms{
			Deductible:  decimal.NewFromInt(7500),
			Coinsurance: decimal.NewFromFloat(0.4),
			OOPMax:      decimal.NewFromInt(9450),
		},
	}
	assert.NoError(t, p.Validate())
	assert.True(t, p.AnnualPremium().Equal(decimal.NewFromFloat(3748.80)),
		"annual premium should be twelve months, got %s", p.AnnualPremium())

	noID := p
	noID.ID = ""
	assert.Error(t, noID.Validate())
}

func TestInterventionEffectValidate(t *testing.T) {
	e := InterventionEffect{Name: "statin", TargetID: "heart_attack", RiskMultiplier: 0.7}
	assert.NoError(t, e.Validate())

	zero := e
	zero.RiskMultiplier = 0
	assert.Error(t, zero.Validate(), "zero multiplier should be rejected")

	amplifying := e
	amplifying.RiskMultiplier = 1.2
	assert.Error(t, amplifying.Validate(), "multiplier above 1 should be rejected")
}

func TestYearsActive(t *testing.T) {
	root := PathwayNode{OnsetYear: 0}
	assert.Equal(t, 6, root.YearsActive(5), "a root node spans the horizon plus onset year")

	lateOnset := PathwayNode{OnsetYear: 2}
	assert.Equal(t, 4, lateOnset.YearsActive(5))

	pastHorizon := PathwayNode{OnsetYear: 9}
	assert.Equal(t, 1, pastHorizon.YearsActive(5), "final-year onset still counts at least one year")
}

func TestContributesCost(t *testing.T) {
	for _, typ := range []NodeType{NodeCurrent, NodeFuture, NodeHighCost} {
		n := PathwayNode{Type: typ}
		assert.True(t, n.ContributesCost(), "%s nodes should carry cost", typ)
	}
	marker := PathwayNode{Type: NodeIntervention}
	assert.False(t, marker.ContributesCost(), "intervention markers carry no cost")
}

func TestGraphLookups(t *testing.T) {
	g := EmptyGraph(5)
	assert.Nil(t, g.Node("missing"))
	assert.True(t, g.TotalCost.IsZero())

	g.Nodes = append(g.Nodes,
		PathwayNode{ID: "current_a", Type: NodeCurrent},
		PathwayNode{ID: "future_b", Type: NodeFuture},
	)
	assert.NotNil(t, g.Node("future_b"))
	assert.Len(t, g.NodesOfType(NodeCurrent), 1)
	assert.Empty(t, g.NodesOfType(NodeHighCost))
}
