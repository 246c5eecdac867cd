package compare

import (
	"encoding/csv"
	"strconv"
	"strings"
)

// CSVFormatter formats comparison results as CSV.
type CSVFormatter struct{}

// FormatPlans generates CSV output for a plan comparison.
func (cf *CSVFormatter) FormatPlans(set *PlanComparisonSet) (string, error) {
	var sb strings.Builder
	writer := csv.NewWriter(&sb)

	header := []string{
		"Plan ID",
		"Issuer",
		"Metal Level",
		"State",
		"Monthly Premium",
		"Deductible",
		"Coinsurance",
		"OOP Max",
		"Total OOP",
		"Total With Premium",
		"Diff From Best",
	}
	if err := writer.Write(header); err != nil {
		return "", err
	}

	for _, r := range set.Results {
		row := []string{
			r.Plan.ID,
			r.Plan.Issuer,
			r.Plan.MetalLevel,
			r.Plan.State,
			r.Plan.MonthlyPremium.StringFixed(2),
			r.Plan.Deductible.StringFixed(2),
			r.Plan.Coinsurance.StringFixed(4),
			r.Plan.OOPMax.StringFixed(2),
			r.TotalOOP.StringFixed(2),
			r.TotalWithPremium.StringFixed(2),
			r.DiffFromBest.StringFixed(2),
		}
		if err := writer.Write(row); err != nil {
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// FormatScenarios generates CSV output for a scenario comparison.
func (cf *CSVFormatter) FormatScenarios(set *ScenarioComparisonSet) (string, error) {
	var sb strings.Builder
	writer := csv.NewWriter(&sb)

	header := []string{
		"Interventions",
		"Nodes",
		"Total Cost",
		"Total OOP",
		"Cost Diff From Baseline",
		"OOP Diff From Baseline",
	}
	if err := writer.Write(header); err != nil {
		return "", err
	}

	for _, s := range set.Scenarios {
		row := []string{
			strings.Join(s.Interventions, "; "),
			strconv.Itoa(len(s.Graph.Nodes)),
			s.Graph.TotalCost.StringFixed(2),
			s.Graph.TotalOOP.StringFixed(2),
			s.CostDiffFromBaseline.StringFixed(2),
			s.OOPDiffFromBaseline.StringFixed(2),
		}
		if err := writer.Write(row); err != nil {
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}
	return sb.String(), nil
}
