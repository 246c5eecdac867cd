package dataset

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/caregraph/caregraph/internal/costs"
	"github.com/caregraph/caregraph/internal/domain"
	"github.com/caregraph/caregraph/internal/network"
)

// loadConditions reads the condition catalog.
func loadConditions(path string) ([]domain.Condition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc struct {
		Conditions []domain.Condition `yaml:"conditions"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return doc.Conditions, nil
}

// loadNetworkEdges reads the odds-ratio table. Columns:
// source,target,age_bucket,sex,insurance_type,odds_ratio,n — the stratum
// columns may be empty for coarsened rows.
func loadNetworkEdges(path string) ([]network.OddsRatioEdge, error) {
	rows, err := readCSV(path, 7)
	if err != nil {
		return nil, err
	}
	edges := make([]network.OddsRatioEdge, 0, len(rows))
	for i, row := range rows {
		or, err := parseFloat(row[5])
		if err != nil {
			return nil, fmt.Errorf("%s row %d: odds_ratio: %w", path, i+2, err)
		}
		if or <= 0 {
			return nil, fmt.Errorf("%s row %d: odds_ratio must be positive", path, i+2)
		}
		n, err := parseInt(row[6])
		if err != nil {
			return nil, fmt.Errorf("%s row %d: n: %w", path, i+2, err)
		}
		edges = append(edges, network.OddsRatioEdge{
			Source: row[0],
			Target: row[1],
			Stratum: domain.Stratum{
				AgeBucket: row[2],
				Sex:       row[3],
				Insurance: row[4],
			},
			OddsRatio:    or,
			Observations: n,
		})
	}
	return edges, nil
}

// loadStratifiedCosts reads the per-cell cost table. Columns:
// condition,age_bucket,sex,insurance_type,n,mean_annual_cost.
func loadStratifiedCosts(path string) ([]costs.CostRecord, error) {
	rows, err := readCSV(path, 6)
	if err != nil {
		return nil, err
	}
	records := make([]costs.CostRecord, 0, len(rows))
	for i, row := range rows {
		n, err := parseInt(row[4])
		if err != nil {
			return nil, fmt.Errorf("%s row %d: n: %w", path, i+2, err)
		}
		amount, err := parseDollars(row[5])
		if err != nil {
			return nil, fmt.Errorf("%s row %d: mean_annual_cost: %w", path, i+2, err)
		}
		records = append(records, costs.CostRecord{
			Condition: row[0],
			Stratum: domain.Stratum{
				AgeBucket: row[1],
				Sex:       row[2],
				Insurance: row[3],
			},
			AnnualCost: amount,
			SampleSize: n,
		})
	}
	return records, nil
}

// loadSummaryCosts reads the demographic-collapsed cost summary.
func loadSummaryCosts(path string) ([]costs.SummaryRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc map[string]struct {
		N              int     `json:"n"`
		MeanAnnualCost float64 `json:"mean_annual_cost"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	records := make([]costs.SummaryRecord, 0, len(doc))
	for cond, entry := range doc {
		records = append(records, costs.SummaryRecord{
			Condition:  cond,
			AnnualCost: decimal.NewFromFloat(entry.MeanAnnualCost).Round(2),
			SampleSize: entry.N,
		})
	}
	return records, nil
}

// loadDrugCosts reads per-condition typical annual prescription spend.
func loadDrugCosts(path string) ([]costs.DrugCostRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc map[string]struct {
		N                  int     `json:"n"`
		MeanAnnualDrugCost float64 `json:"mean_annual_drug_cost"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	records := make([]costs.DrugCostRecord, 0, len(doc))
	for cond, entry := range doc {
		records = append(records, costs.DrugCostRecord{
			Condition:  cond,
			AnnualCost: decimal.NewFromFloat(entry.MeanAnnualDrugCost).Round(2),
			SampleSize: entry.N,
		})
	}
	return records, nil
}

// loadCategoryCosts reads the fixed clinical fallback constants per category.
func loadCategoryCosts(path string) (map[domain.Category]decimal.Decimal, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc struct {
		Categories map[string]float64 `yaml:"categories"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	out := make(map[domain.Category]decimal.Decimal, len(doc.Categories))
	for cat, amount := range doc.Categories {
		out[domain.Category(cat)] = decimal.NewFromFloat(amount).Round(2)
	}
	return out, nil
}

// loadInterventions reads the intervention effect catalog.
func loadInterventions(path string) ([]domain.InterventionEffect, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc struct {
		Interventions []domain.InterventionEffect `yaml:"interventions"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return doc.Interventions, nil
}

// loadPlans reads the marketplace plan catalog. Columns:
// plan_id,plan_name,issuer,metal_level,state,monthly_premium,deductible,
// coinsurance,oop_max. Dollar and percent fields accept the raw CMS PUF
// formats ("$6,500", "30.00%").
func loadPlans(path string) ([]domain.Plan, error) {
	rows, err := readCSV(path, 9)
	if err != nil {
		return nil, err
	}
	entries := make([]domain.Plan, 0, len(rows))
	for i, row := range rows {
		premium, err := parseDollars(row[5])
		if err != nil {
			return nil, fmt.Errorf("%s row %d: monthly_premium: %w", path, i+2, err)
		}
		deductible, err := parseDollars(row[6])
		if err != nil {
			return nil, fmt.Errorf("%s row %d: deductible: %w", path, i+2, err)
		}
		coinsurance, err := parseRate(row[7])
		if err != nil {
			return nil, fmt.Errorf("%s row %d: coinsurance: %w", path, i+2, err)
		}
		oopMax, err := parseDollars(row[8])
		if err != nil {
			return nil, fmt.Errorf("%s row %d: oop_max: %w", path, i+2, err)
		}
		entries = append(entries, domain.Plan{
			ID:             row[0],
			Name:           row[1],
			Issuer:         row[2],
			MetalLevel:     row[3],
			State:          row[4],
			MonthlyPremium: premium,
			PlanTerms: domain.PlanTerms{
				Deductible:  deductible,
				Coinsurance: coinsurance,
				OOPMax:      oopMax,
			},
		})
	}
	return entries, nil
}

// readCSV reads all data rows of a headered CSV, enforcing a column count.
func readCSV(path string, wantCols int) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("%s: read header: %w", path, err)
	}
	if len(header) != wantCols {
		return nil, fmt.Errorf("%s: expected %d columns, got %d", path, wantCols, len(header))
	}

	var rows [][]string
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}
