// Package network holds the stratified comorbidity odds-ratio graph and the
// single conversion point from population odds ratios to patient-specific
// annual transition probabilities.
package network

import (
	"sort"

	"github.com/caregraph/caregraph/internal/domain"
)

// OddsRatioEdge is one directed association in the comorbidity network:
// having Source is associated with developing Target at the given odds ratio
// within Stratum. Observations is the supporting sample size behind the
// estimate. Read-only reference data.
type OddsRatioEdge struct {
	Source       string
	Target       string
	Stratum      domain.Stratum
	OddsRatio    float64
	Observations int
}

// Tier identifies which stratum coarseness a lookup resolved at.
type Tier string

const (
	TierExact      Tier = "exact"
	TierAgeBucket  Tier = "age_bucket"
	TierSex        Tier = "sex"
	TierPopulation Tier = "population"
)

// ComorbidityNetwork indexes odds-ratio edges by source condition. Built once
// from the reference tables; no mutation after construction.
type ComorbidityNetwork struct {
	bySource map[string][]OddsRatioEdge
	minObs   int
}

// New builds a network over the given edges. minObservations is the
// supporting sample size a stratum tier needs before the lookup falls back to
// a coarser tier.
func New(edges []OddsRatioEdge, minObservations int) *ComorbidityNetwork {
	bySource := make(map[string][]OddsRatioEdge)
	for _, e := range edges {
		bySource[e.Source] = append(bySource[e.Source], e)
	}
	// Deterministic neighbor order regardless of input order.
	for src := range bySource {
		list := bySource[src]
		sort.Slice(list, func(i, j int) bool {
			if list[i].Target != list[j].Target {
				return list[i].Target < list[j].Target
			}
			return list[i].Stratum.Key() < list[j].Stratum.Key()
		})
		bySource[src] = list
	}
	return &ComorbidityNetwork{bySource: bySource, minObs: minObservations}
}

// Neighbors returns the outgoing odds-ratio edges for conditionID in the
// finest stratum tier with sufficient supporting observations, falling back
// exact -> age-bucket -> sex -> population. Unknown condition ids yield an
// empty list.
func (n *ComorbidityNetwork) Neighbors(conditionID string, stratum domain.Stratum) []OddsRatioEdge {
	edges, _ := n.NeighborsTier(conditionID, stratum)
	return edges
}

// NeighborsTier is Neighbors plus the tier the lookup resolved at, for
// diagnostics.
func (n *ComorbidityNetwork) NeighborsTier(conditionID string, stratum domain.Stratum) ([]OddsRatioEdge, Tier) {
	all := n.bySource[conditionID]
	if len(all) == 0 {
		return nil, TierPopulation
	}

	tiers := []struct {
		tier    Tier
		stratum domain.Stratum
	}{
		{TierExact, stratum},
		{TierAgeBucket, stratum.AgeOnly()},
		{TierSex, stratum.SexOnly()},
		{TierPopulation, domain.PopulationStratum},
	}

	for i, t := range tiers {
		matched := filterStratum(all, t.stratum)
		if len(matched) == 0 {
			continue
		}
		// The last tier always wins regardless of support; the cascade must
		// terminate.
		if i == len(tiers)-1 || sufficient(matched, n.minObs) {
			return matched, t.tier
		}
	}
	return nil, TierPopulation
}

// Targets returns the distinct target ids reachable from conditionID across
// all strata, sorted.
func (n *ComorbidityNetwork) Targets(conditionID string) []string {
	seen := map[string]bool{}
	for _, e := range n.bySource[conditionID] {
		seen[e.Target] = true
	}
	out := make([]string, 0, len(seen))
	for t := range seen {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

func filterStratum(edges []OddsRatioEdge, s domain.Stratum) []OddsRatioEdge {
	var out []OddsRatioEdge
	for _, e := range edges {
		if e.Stratum == s {
			out = append(out, e)
		}
	}
	return out
}

func sufficient(edges []OddsRatioEdge, minObs int) bool {
	total := 0
	for _, e := range edges {
		total += e.Observations
	}
	return total >= minObs
}
