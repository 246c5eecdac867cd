// Package pathway expands a patient profile into the weighted condition
// graph at the heart of the simulation engine. The expansion is a DAG with
// shared descendants, bounded to two hops, and fully deterministic: identical
// inputs against an identical data snapshot produce an identical graph.
package pathway

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/caregraph/caregraph/internal/config"
	"github.com/caregraph/caregraph/internal/costs"
	"github.com/caregraph/caregraph/internal/domain"
	"github.com/caregraph/caregraph/internal/finance"
	"github.com/caregraph/caregraph/internal/intervention"
	"github.com/caregraph/caregraph/internal/network"
	"github.com/caregraph/caregraph/internal/registry"
)

// Builder wires the read-only reference tables into the expansion algorithm.
// All fields are immutable after construction, so one Builder serves
// concurrent requests without locking.
type Builder struct {
	Registry      *registry.ConditionRegistry
	Network       *network.ComorbidityNetwork
	Costs         *costs.Oracle
	Interventions *intervention.Catalog
	Params        config.Parameters
}

// NewBuilder creates a pathway builder over the given reference tables.
func NewBuilder(
	reg *registry.ConditionRegistry,
	net *network.ComorbidityNetwork,
	oracle *costs.Oracle,
	catalog *intervention.Catalog,
	params config.Parameters,
) *Builder {
	return &Builder{
		Registry:      reg,
		Network:       net,
		Costs:         oracle,
		Interventions: catalog,
		Params:        params,
	}
}

// BuildInput carries one simulation request into the builder.
type BuildInput struct {
	Profile       domain.Profile
	Interventions []string
	HorizonYears  int
	// SymptomConditions are upstream-extracted condition hypotheses with
	// confidence scores; they seed suspected (is_llm_generated) root nodes.
	SymptomConditions []domain.SymptomCandidate
	// UnmappedConditions are ids the caller already failed to map; echoed
	// into the result's unmapped list.
	UnmappedConditions []string
}

type frontierEntry struct {
	nodeID      string
	conditionID string
	probability float64
	depth       int
}

// BuildPathway expands the profile into a care pathway graph. A profile with
// zero resolvable conditions, or a non-positive horizon, yields an empty
// zero-valued graph; unknown condition ids are reported in the unmapped list,
// never raised.
func (b *Builder) BuildPathway(in BuildInput) *domain.Graph {
	unmapped := append([]string(nil), in.UnmappedConditions...)

	if in.HorizonYears < 1 {
		g := domain.EmptyGraph(in.HorizonYears)
		g.Unmapped = dedupSorted(unmapped)
		return g
	}

	stratum := in.Profile.Stratum()
	active := b.Interventions.Resolve(in.Interventions)

	g := domain.EmptyGraph(in.HorizonYears)
	nodeIndex := make(map[string]int)

	addNode := func(n domain.PathwayNode) int {
		g.Nodes = append(g.Nodes, n)
		nodeIndex[n.ID] = len(g.Nodes) - 1
		return len(g.Nodes) - 1
	}

	// Roots from the profile's diagnosed conditions.
	var frontier []frontierEntry
	currentSet := make(map[string]bool)
	for _, cond := range in.Profile.Conditions {
		if !b.Registry.Contains(cond) {
			unmapped = append(unmapped, cond)
			continue
		}
		res := b.Costs.Resolve(cond, stratum)
		id := "current_" + cond
		addNode(domain.PathwayNode{
			ID:          id,
			ConditionID: cond,
			Label:       b.Registry.Label(cond),
			Type:        domain.NodeCurrent,
			OnsetYear:   0,
			Probability: 1,
			AnnualCost:  res.Amount,
			OOPEstimate: finance.OutOfPocket(res.Amount, in.Profile.PlanTerms),
			CostTier:    res.Tier,
		})
		currentSet[cond] = true
		frontier = append(frontier, frontierEntry{nodeID: id, conditionID: cond, probability: 1, depth: 0})
	}

	// Suspected roots from symptom-derived candidates.
	frontier = append(frontier, b.seedSymptomCandidates(g, addNode, &unmapped, in, stratum, currentSet)...)

	if len(frontier) == 0 {
		g.Unmapped = dedupSorted(unmapped)
		return g
	}

	// Marker nodes for every applied intervention. Markers carry no
	// probability or cost semantics; edges to their targets attach after
	// expansion once the targets exist.
	for _, name := range active.Applied() {
		addNode(domain.PathwayNode{
			ID:    "intervention_" + name,
			Label: name,
			Type:  domain.NodeIntervention,
		})
	}

	b.expand(g, addNode, nodeIndex, frontier, stratum, in.Profile.PlanTerms, active, currentSet)
	b.attachInterventionEdges(g, nodeIndex, active)
	b.aggregate(g)

	g.Unmapped = dedupSorted(unmapped)
	return g
}

// seedSymptomCandidates creates suspected root nodes. The seed probability
// blends the supplied extraction confidence with a comorbidity-derived prior
// when the network offers one; otherwise the raw confidence stands.
func (b *Builder) seedSymptomCandidates(
	g *domain.Graph,
	addNode func(domain.PathwayNode) int,
	unmapped *[]string,
	in BuildInput,
	stratum domain.Stratum,
	currentSet map[string]bool,
) []frontierEntry {
	var seeds []frontierEntry
	for _, sc := range in.SymptomConditions {
		if !b.Registry.Contains(sc.ConditionID) {
			*unmapped = append(*unmapped, sc.ConditionID)
			continue
		}
		if currentSet[sc.ConditionID] {
			continue
		}

		prior, priorSource := b.comorbidityPrior(sc.ConditionID, in.Profile.Conditions, stratum)
		prob := clamp01(sc.Confidence)
		if prior > 0 {
			w := b.Params.ConfidenceBlendWeight
			prob = clamp01(w*sc.Confidence + (1-w)*prior)
		}

		res := b.Costs.Resolve(sc.ConditionID, stratum)
		id := "current_" + sc.ConditionID
		addNode(domain.PathwayNode{
			ID:             id,
			ConditionID:    sc.ConditionID,
			Label:          b.Registry.Label(sc.ConditionID),
			Type:           domain.NodeCurrent,
			OnsetYear:      0,
			Probability:    prob,
			AnnualCost:     res.Amount,
			OOPEstimate:    finance.OutOfPocket(res.Amount, in.Profile.PlanTerms),
			IsLLMGenerated: true,
			CostTier:       res.Tier,
		})
		currentSet[sc.ConditionID] = true

		if priorSource != "" {
			g.Edges = append(g.Edges, domain.PathwayEdge{
				Source:      "current_" + priorSource,
				Target:      id,
				Type:        domain.EdgeRoot,
				Probability: prior,
				Label:       "suspected",
			})
		}

		seeds = append(seeds, frontierEntry{nodeID: id, conditionID: sc.ConditionID, probability: prob, depth: 0})
	}
	return seeds
}

// comorbidityPrior returns the strongest network-derived annual probability
// of developing candidate given any of the diagnosed conditions, and the
// diagnosed condition that produced it.
func (b *Builder) comorbidityPrior(candidate string, diagnosed []string, stratum domain.Stratum) (float64, string) {
	best := 0.0
	source := ""
	for _, cond := range diagnosed {
		if !b.Registry.Contains(cond) {
			continue
		}
		for _, e := range b.Network.Neighbors(cond, stratum) {
			if e.Target != candidate {
				continue
			}
			p := network.AnnualProbability(e.OddsRatio, b.Registry.BaselineIncidence(candidate), b.Params.MaxAnnualTransition)
			if p > best {
				best = p
				source = cond
			}
		}
	}
	return best, source
}

// expand runs the bounded breadth-first expansion. A target reached through
// multiple parents in the same round keeps one node with the higher incoming
// probability; the new edge is added without duplicating the node. A target
// that already exists at an earlier depth is skipped outright: edges only
// ever point one depth deeper, which keeps the graph acyclic even when the
// network carries reciprocal associations.
func (b *Builder) expand(
	g *domain.Graph,
	addNode func(domain.PathwayNode) int,
	nodeIndex map[string]int,
	frontier []frontierEntry,
	stratum domain.Stratum,
	terms domain.PlanTerms,
	active *intervention.ActiveSet,
	currentSet map[string]bool,
) {
	for depth := 0; depth < b.Params.MaxDepth; depth++ {
		var next []frontierEntry
		for _, f := range frontier {
			if f.depth != depth {
				next = append(next, f)
				continue
			}
			for _, e := range b.Network.Neighbors(f.conditionID, stratum) {
				target := e.Target
				if target == f.conditionID || currentSet[target] {
					continue
				}
				if !b.Registry.Contains(target) {
					continue
				}

				annual := network.AnnualProbability(e.OddsRatio, b.Registry.BaselineIncidence(target), b.Params.MaxAnnualTransition)
				annual = active.Apply(target, annual)
				if annual <= 0 {
					continue
				}
				joint := f.probability * annual
				if joint < b.Params.MinEdgeProbability {
					continue
				}

				id := "future_" + target
				if idx, exists := nodeIndex[id]; exists {
					// An ancestor or same-depth sibling; an edge into it
					// would point backwards or form a 2-cycle.
					if g.Nodes[idx].OnsetYear != depth+1 {
						continue
					}
					// Shared descendant: merge, keep the higher probability.
					if joint > g.Nodes[idx].Probability {
						g.Nodes[idx].Probability = joint
					}
				} else {
					res := b.Costs.Resolve(target, stratum)
					nodeType := domain.NodeFuture
					if res.Amount.GreaterThan(b.Params.HighCostThreshold) {
						nodeType = domain.NodeHighCost
					}
					addNode(domain.PathwayNode{
						ID:          id,
						ConditionID: target,
						Label:       b.Registry.Label(target),
						Type:        nodeType,
						OnsetYear:   depth + 1,
						Probability: joint,
						AnnualCost:  res.Amount,
						OOPEstimate: finance.OutOfPocket(res.Amount, terms),
						CostTier:    res.Tier,
					})
					next = append(next, frontierEntry{nodeID: id, conditionID: target, probability: joint, depth: depth + 1})
				}

				g.Edges = append(g.Edges, domain.PathwayEdge{
					Source:      f.nodeID,
					Target:      id,
					Type:        b.edgeType(f.conditionID, target),
					Probability: annual,
					Label:       fmt.Sprintf("%.0f%% / yr", annual*100),
				})
			}
		}
		frontier = next
	}
}

func (b *Builder) edgeType(sourceID, targetID string) domain.EdgeType {
	src, okS := b.Registry.Lookup(sourceID)
	tgt, okT := b.Registry.Lookup(targetID)
	if okS && okT && src.Category == tgt.Category {
		return domain.EdgeProgression
	}
	return domain.EdgeComorbidity
}

// attachInterventionEdges links each marker node to the affected condition
// nodes that made it into the graph.
func (b *Builder) attachInterventionEdges(g *domain.Graph, nodeIndex map[string]int, active *intervention.ActiveSet) {
	for _, name := range active.Applied() {
		for _, effect := range b.Interventions.Effects(name) {
			for _, prefix := range []string{"current_", "future_"} {
				if _, ok := nodeIndex[prefix+effect.TargetID]; ok {
					g.Edges = append(g.Edges, domain.PathwayEdge{
						Source: "intervention_" + name,
						Target: prefix + effect.TargetID,
						Type:   domain.EdgeIntervention,
						Label:  name,
					})
				}
			}
		}
	}
}

// aggregate computes the horizon totals: each cost-bearing node contributes
// annual amount x probability x years active.
func (b *Builder) aggregate(g *domain.Graph) {
	totalCost := decimal.Zero
	totalOOP := decimal.Zero
	for i := range g.Nodes {
		n := &g.Nodes[i]
		if !n.ContributesCost() {
			continue
		}
		years := decimal.NewFromInt(int64(n.YearsActive(g.HorizonYrs)))
		prob := decimal.NewFromFloat(n.Probability)
		totalCost = totalCost.Add(n.AnnualCost.Mul(prob).Mul(years))
		totalOOP = totalOOP.Add(n.OOPEstimate.Mul(prob).Mul(years))
	}
	g.TotalCost = totalCost.Round(2)
	g.TotalOOP = totalOOP.Round(2)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func dedupSorted(ids []string) []string {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}
