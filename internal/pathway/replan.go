package pathway

import (
	"github.com/shopspring/decimal"

	"github.com/caregraph/caregraph/internal/domain"
	"github.com/caregraph/caregraph/internal/finance"
)

// WithPlanTerms re-prices an existing pathway graph under different plan
// terms. Probabilities, costs, and structure are plan-independent and carry
// over untouched; only per-node OOP estimates and the OOP total are
// recomputed. The input graph is not modified.
func WithPlanTerms(g *domain.Graph, terms domain.PlanTerms) *domain.Graph {
	out := &domain.Graph{
		Nodes:      make([]domain.PathwayNode, len(g.Nodes)),
		Edges:      append([]domain.PathwayEdge(nil), g.Edges...),
		TotalCost:  g.TotalCost,
		Unmapped:   g.Unmapped,
		HorizonYrs: g.HorizonYrs,
	}
	copy(out.Nodes, g.Nodes)

	totalOOP := decimal.Zero
	for i := range out.Nodes {
		n := &out.Nodes[i]
		if !n.ContributesCost() {
			continue
		}
		n.OOPEstimate = finance.OutOfPocket(n.AnnualCost, terms)
		years := decimal.NewFromInt(int64(n.YearsActive(out.HorizonYrs)))
		prob := decimal.NewFromFloat(n.Probability)
		totalOOP = totalOOP.Add(n.OOPEstimate.Mul(prob).Mul(years))
	}
	out.TotalOOP = totalOOP.Round(2)
	return out
}
