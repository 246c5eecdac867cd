// Package output renders pathway simulation results for the CLI.
package output

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/caregraph/caregraph/internal/domain"
)

// ReportGenerator handles pathway report generation in various formats.
type ReportGenerator struct{}

// NewReportGenerator creates a new report generator.
func NewReportGenerator() *ReportGenerator {
	return &ReportGenerator{}
}

// GenerateReport renders a pathway graph in the specified format.
func GenerateReport(g *domain.Graph, format string) (string, error) {
	rg := NewReportGenerator()

	switch format {
	case "console":
		return rg.ConsoleReport(g), nil
	case "json":
		return rg.JSONReport(g)
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

// ConsoleReport renders a human-readable pathway summary.
func (rg *ReportGenerator) ConsoleReport(g *domain.Graph) string {
	var sb strings.Builder

	sb.WriteString("CARE PATHWAY PROJECTION\n")
	sb.WriteString(strings.Repeat("=", 88) + "\n")
	sb.WriteString(fmt.Sprintf("Horizon: %d years | Nodes: %d | Edges: %d\n",
		g.HorizonYrs, len(g.Nodes), len(g.Edges)))
	sb.WriteString(fmt.Sprintf("Projected total cost: %s\n", FormatCurrency(g.TotalCost)))
	sb.WriteString(fmt.Sprintf("Projected out-of-pocket: %s\n\n", FormatCurrency(g.TotalOOP)))

	sections := []struct {
		title string
		types []domain.NodeType
	}{
		{"CURRENT CONDITIONS", []domain.NodeType{domain.NodeCurrent}},
		{"PROJECTED CONDITIONS", []domain.NodeType{domain.NodeFuture, domain.NodeHighCost}},
		{"APPLIED INTERVENTIONS", []domain.NodeType{domain.NodeIntervention}},
	}

	for _, sec := range sections {
		nodes := nodesOfTypes(g, sec.types)
		if len(nodes) == 0 {
			continue
		}
		sb.WriteString(sec.title + "\n")
		sb.WriteString(strings.Repeat("-", 88) + "\n")
		for _, n := range nodes {
			switch n.Type {
			case domain.NodeIntervention:
				sb.WriteString(fmt.Sprintf("  %s\n", n.Label))
			case domain.NodeCurrent:
				suffix := ""
				if n.IsLLMGenerated {
					suffix = fmt.Sprintf(" (suspected, p=%.2f)", n.Probability)
				}
				sb.WriteString(fmt.Sprintf("  %-32s %12s/yr  OOP %12s%s\n",
					n.Label, FormatCurrency(n.AnnualCost), FormatCurrency(n.OOPEstimate), suffix))
			default:
				marker := ""
				if n.Type == domain.NodeHighCost {
					marker = " [high cost]"
				}
				sb.WriteString(fmt.Sprintf("  %-32s p=%.3f  year %d  %12s/yr%s\n",
					n.Label, n.Probability, n.OnsetYear, FormatCurrency(n.AnnualCost), marker))
			}
		}
		sb.WriteString("\n")
	}

	if len(g.Unmapped) > 0 {
		unmapped := append([]string(nil), g.Unmapped...)
		sort.Strings(unmapped)
		sb.WriteString(fmt.Sprintf("Unmapped conditions: %s\n", strings.Join(unmapped, ", ")))
	}
	return sb.String()
}

// JSONReport renders the full graph as indented JSON.
func (rg *ReportGenerator) JSONReport(g *domain.Graph) (string, error) {
	data, err := json.MarshalIndent(g, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// FormatCurrency renders a decimal as a dollar amount.
func FormatCurrency(d decimal.Decimal) string {
	if d.IsNegative() {
		return "-$" + d.Neg().StringFixed(2)
	}
	return "$" + d.StringFixed(2)
}

func nodesOfTypes(g *domain.Graph, types []domain.NodeType) []domain.PathwayNode {
	var out []domain.PathwayNode
	for _, n := range g.Nodes {
		for _, t := range types {
			if n.Type == t {
				out = append(out, n)
				break
			}
		}
	}
	return out
}
