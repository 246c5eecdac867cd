// Package dataset loads the immutable reference tables the engine runs over:
// condition catalog, comorbidity network, cost tables, intervention effects,
// and the plan catalog. Everything is loaded once at process start and passed
// explicitly into the engine entry points.
package dataset

import (
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/caregraph/caregraph/internal/config"
	"github.com/caregraph/caregraph/internal/costs"
	"github.com/caregraph/caregraph/internal/domain"
	"github.com/caregraph/caregraph/internal/intervention"
	"github.com/caregraph/caregraph/internal/network"
	"github.com/caregraph/caregraph/internal/plans"
	"github.com/caregraph/caregraph/internal/registry"
)

// Reference file names inside the data directory.
const (
	ConditionsFile   = "conditions.yaml"
	NetworkFile      = "comorbidity_network.csv"
	CostsFile        = "condition_costs.csv"
	SummaryFile      = "condition_summary.json"
	DrugCostsFile    = "drug_costs.json"
	CategoryFile     = "category_costs.yaml"
	InterventionFile = "interventions.yaml"
	PlansFile        = "plans.csv"
)

// Dataset bundles the loaded, immutable reference tables.
type Dataset struct {
	Registry      *registry.ConditionRegistry
	Network       *network.ComorbidityNetwork
	Costs         *costs.Oracle
	Interventions *intervention.Catalog
	Plans         *plans.Catalog
}

// Load reads every reference table from dir and assembles the lookup
// structures using the given engine parameters.
func Load(dir string, params config.Parameters, logger zerolog.Logger) (*Dataset, error) {
	conditions, err := loadConditions(filepath.Join(dir, ConditionsFile))
	if err != nil {
		return nil, fmt.Errorf("load condition catalog: %w", err)
	}
	reg, err := registry.New(conditions)
	if err != nil {
		return nil, fmt.Errorf("build condition registry: %w", err)
	}
	logger.Info().Int("conditions", reg.Len()).Msg("loaded condition registry")

	edges, err := loadNetworkEdges(filepath.Join(dir, NetworkFile))
	if err != nil {
		return nil, fmt.Errorf("load comorbidity network: %w", err)
	}
	net := network.New(edges, params.MinEdgeObservations)
	logger.Info().Int("edges", len(edges)).Msg("loaded comorbidity network")

	stratified, err := loadStratifiedCosts(filepath.Join(dir, CostsFile))
	if err != nil {
		return nil, fmt.Errorf("load stratified costs: %w", err)
	}
	summary, err := loadSummaryCosts(filepath.Join(dir, SummaryFile))
	if err != nil {
		return nil, fmt.Errorf("load summary costs: %w", err)
	}
	drug, err := loadDrugCosts(filepath.Join(dir, DrugCostsFile))
	if err != nil {
		return nil, fmt.Errorf("load drug costs: %w", err)
	}
	category, err := loadCategoryCosts(filepath.Join(dir, CategoryFile))
	if err != nil {
		return nil, fmt.Errorf("load category fallbacks: %w", err)
	}
	oracle := costs.NewOracle(costs.OracleConfig{
		Stratified:       stratified,
		Summary:          summary,
		Drug:             drug,
		Category:         category,
		CareMultiplier:   params.CareCostMultiplier,
		MinCellSample:    params.MinCellSampleSize,
		MinSummarySample: params.MinSummarySampleSize,
		CategoryOf: func(id string) domain.Category {
			if c, ok := reg.Lookup(id); ok {
				return c.Category
			}
			return domain.CategoryOther
		},
	})
	logger.Info().
		Int("stratified_cells", len(stratified)).
		Int("summaries", len(summary)).
		Int("drug_costs", len(drug)).
		Msg("loaded cost tables")

	effects, err := loadInterventions(filepath.Join(dir, InterventionFile))
	if err != nil {
		return nil, fmt.Errorf("load interventions: %w", err)
	}
	catalog, err := intervention.NewCatalog(effects)
	if err != nil {
		return nil, fmt.Errorf("build intervention catalog: %w", err)
	}
	logger.Info().Int("effects", len(effects)).Msg("loaded intervention effects")

	planEntries, err := loadPlans(filepath.Join(dir, PlansFile))
	if err != nil {
		return nil, fmt.Errorf("load plan catalog: %w", err)
	}
	planCatalog, err := plans.NewCatalog(planEntries)
	if err != nil {
		return nil, fmt.Errorf("build plan catalog: %w", err)
	}
	logger.Info().Int("plans", planCatalog.Len()).Msg("loaded plan catalog")

	return &Dataset{
		Registry:      reg,
		Network:       net,
		Costs:         oracle,
		Interventions: catalog,
		Plans:         planCatalog,
	}, nil
}
