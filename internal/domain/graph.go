package domain

import "github.com/shopspring/decimal"

// NodeType classifies pathway graph nodes.
type NodeType string

const (
	NodeCurrent      NodeType = "current"
	NodeFuture       NodeType = "future"
	NodeHighCost     NodeType = "high_cost"
	NodeIntervention NodeType = "intervention"
)

// EdgeType classifies pathway graph edges.
type EdgeType string

const (
	EdgeRoot         EdgeType = "root"
	EdgeProgression  EdgeType = "progression"
	EdgeComorbidity  EdgeType = "comorbidity"
	EdgeIntervention EdgeType = "intervention"
)

// PathwayNode is a single state in the expanded care pathway. Nodes are never
// mutated after creation and live only for the lifetime of one response.
type PathwayNode struct {
	ID             string          `json:"id"`
	ConditionID    string          `json:"condition_id,omitempty"`
	Label          string          `json:"label"`
	Type           NodeType        `json:"node_type"`
	OnsetYear      int             `json:"year"`
	Probability    float64         `json:"probability"`
	AnnualCost     decimal.Decimal `json:"annual_cost"`
	OOPEstimate    decimal.Decimal `json:"oop_estimate"`
	IsLLMGenerated bool            `json:"is_llm_generated,omitempty"`

	// CostTier records which cascade tier resolved AnnualCost. Diagnostic
	// only; not part of the cost contract.
	CostTier string `json:"-"`
}

// PathwayEdge links two pathway nodes.
type PathwayEdge struct {
	Source      string   `json:"source"`
	Target      string   `json:"target"`
	Type        EdgeType `json:"edge_type"`
	Probability float64  `json:"probability"`
	Label       string   `json:"label"`
}

// Graph is the Pathway Builder's sole output: the expanded condition DAG with
// aggregate cost totals. Stateless and not persisted.
type Graph struct {
	Nodes      []PathwayNode   `json:"nodes"`
	Edges      []PathwayEdge   `json:"edges"`
	TotalCost  decimal.Decimal `json:"total_5yr_cost"`
	TotalOOP   decimal.Decimal `json:"total_5yr_oop"`
	Unmapped   []string        `json:"unmapped_conditions,omitempty"`
	HorizonYrs int             `json:"horizon_years"`
}

// EmptyGraph is the well-defined zero result for a degenerate profile.
func EmptyGraph(horizonYears int) *Graph {
	return &Graph{
		Nodes:      []PathwayNode{},
		Edges:      []PathwayEdge{},
		TotalCost:  decimal.Zero,
		TotalOOP:   decimal.Zero,
		HorizonYrs: horizonYears,
	}
}

// YearsActive returns how many projection years a node contributes cost for,
// given the horizon. Never less than one so a final-year onset still counts.
func (n *PathwayNode) YearsActive(horizonYears int) int {
	years := horizonYears - n.OnsetYear + 1
	if years < 1 {
		years = 1
	}
	return years
}

// ContributesCost reports whether a node participates in cost aggregation.
// Intervention markers carry no cost semantics of their own.
func (n *PathwayNode) ContributesCost() bool {
	return n.Type == NodeCurrent || n.Type == NodeFuture || n.Type == NodeHighCost
}

// Node returns the node with the given id, or nil.
func (g *Graph) Node(id string) *PathwayNode {
	for i := range g.Nodes {
		if g.Nodes[i].ID == id {
			return &g.Nodes[i]
		}
	}
	return nil
}

// NodesOfType returns all nodes of the given type in graph order.
func (g *Graph) NodesOfType(t NodeType) []PathwayNode {
	var out []PathwayNode
	for _, n := range g.Nodes {
		if n.Type == t {
			out = append(out, n)
		}
	}
	return out
}
