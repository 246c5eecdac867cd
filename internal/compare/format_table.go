package compare

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// TableFormatter formats comparison results as a console table.
type TableFormatter struct{}

// FormatPlans generates a formatted table of a plan comparison.
func (tf *TableFormatter) FormatPlans(set *PlanComparisonSet) string {
	var sb strings.Builder

	sb.WriteString("INSURANCE PLAN COMPARISON\n")
	sb.WriteString(strings.Repeat("=", 96) + "\n")
	sb.WriteString(fmt.Sprintf("Horizon: %d years\n\n", set.HorizonYears))

	nameWidth := 28
	numWidth := 14

	sb.WriteString(fmt.Sprintf("%-*s %-8s %*s %*s %*s %*s\n",
		nameWidth, "Plan",
		"Metal",
		numWidth, "Premium/mo",
		numWidth, "Total OOP",
		numWidth, "Total w/Prem",
		numWidth, "vs Best"))
	sb.WriteString(strings.Repeat("-", 96) + "\n")

	for i, r := range set.Results {
		marker := ""
		if i == 0 {
			marker = " *"
		}
		sb.WriteString(fmt.Sprintf("%-*s %-8s %*s %*s %*s %*s%s\n",
			nameWidth, truncate(r.Plan.ID, nameWidth),
			r.Plan.MetalLevel,
			numWidth, formatCurrency(r.Plan.MonthlyPremium),
			numWidth, formatCurrency(r.TotalOOP),
			numWidth, formatCurrency(r.TotalWithPremium),
			numWidth, formatCurrency(r.DiffFromBest),
			marker))
	}
	sb.WriteString(strings.Repeat("=", 96) + "\n")

	if len(set.SkippedPlanIDs) > 0 {
		sb.WriteString(fmt.Sprintf("\nSkipped (not in catalog): %s\n", strings.Join(set.SkippedPlanIDs, ", ")))
	}
	return sb.String()
}

// FormatScenarios generates a formatted table of an intervention scenario
// comparison.
func (tf *TableFormatter) FormatScenarios(set *ScenarioComparisonSet) string {
	var sb strings.Builder

	sb.WriteString("INTERVENTION SCENARIO COMPARISON\n")
	sb.WriteString(strings.Repeat("=", 96) + "\n")
	sb.WriteString(fmt.Sprintf("Horizon: %d years\n", set.HorizonYears))
	sb.WriteString(fmt.Sprintf("Baseline (no interventions): total cost %s, OOP %s\n\n",
		formatCurrency(set.Baseline.TotalCost), formatCurrency(set.Baseline.TotalOOP)))

	nameWidth := 40
	numWidth := 13

	sb.WriteString(fmt.Sprintf("%-*s %*s %*s %*s %*s\n",
		nameWidth, "Interventions",
		numWidth, "Total Cost",
		numWidth, "Total OOP",
		numWidth, "Cost Delta",
		numWidth, "OOP Delta"))
	sb.WriteString(strings.Repeat("-", 96) + "\n")

	for _, s := range set.Scenarios {
		name := strings.Join(s.Interventions, ", ")
		if name == "" {
			name = "(none)"
		}
		sb.WriteString(fmt.Sprintf("%-*s %*s %*s %*s %*s\n",
			nameWidth, truncate(name, nameWidth),
			numWidth, formatCurrency(s.Graph.TotalCost),
			numWidth, formatCurrency(s.Graph.TotalOOP),
			numWidth, formatCurrency(s.CostDiffFromBaseline),
			numWidth, formatCurrency(s.OOPDiffFromBaseline)))
	}
	sb.WriteString(strings.Repeat("=", 96) + "\n")
	return sb.String()
}

func formatCurrency(d decimal.Decimal) string {
	if d.IsNegative() {
		return "-$" + d.Neg().StringFixed(2)
	}
	return "$" + d.StringFixed(2)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
