// Package costs implements the multi-tier cost-resolution cascade. Each tier
// is an independent lookup strategy tried in order; the final tier is a fixed
// per-category constant, so resolution always succeeds.
package costs

import (
	"github.com/shopspring/decimal"

	"github.com/caregraph/caregraph/internal/domain"
)

// Tier names, ordered most to least demographically specific.
const (
	TierStratified = "stratified"
	TierSummary    = "summary"
	TierDrug       = "drug_extrapolation"
	TierCategory   = "category_fallback"
)

// CostRecord is one stratified cost cell: mean annual expenditure for people
// with Condition inside Stratum, with the supporting sample size.
type CostRecord struct {
	Condition  string
	Stratum    domain.Stratum
	AnnualCost decimal.Decimal
	SampleSize int
}

// SummaryRecord is a condition's cost summarized across all demographics.
type SummaryRecord struct {
	Condition  string
	AnnualCost decimal.Decimal
	SampleSize int
}

// DrugCostRecord is a condition's typical annual prescription drug spend.
type DrugCostRecord struct {
	Condition  string
	AnnualCost decimal.Decimal
	SampleSize int
}

// Resolution is a resolved annual cost plus the tier that produced it. The
// tier is diagnostic only and not part of the cost contract.
type Resolution struct {
	Amount decimal.Decimal
	Tier   string
}

// Oracle resolves annual cost estimates per (condition, stratum). Immutable
// after construction.
type Oracle struct {
	stratified map[string]map[string]CostRecord // condition -> stratum key -> record
	summary    map[string]SummaryRecord
	drug       map[string]DrugCostRecord
	category   map[domain.Category]decimal.Decimal
	defaultCat decimal.Decimal

	careMultiplier decimal.Decimal
	minCellN       int
	minSummaryN    int

	categoryOf func(conditionID string) domain.Category
}

// OracleConfig collects the reference tables and thresholds an Oracle needs.
type OracleConfig struct {
	Stratified       []CostRecord
	Summary          []SummaryRecord
	Drug             []DrugCostRecord
	Category         map[domain.Category]decimal.Decimal
	CareMultiplier   decimal.Decimal
	MinCellSample    int
	MinSummarySample int
	// CategoryOf maps a condition id to its category for the final tier.
	// Typically registry-backed. Unknown conditions map to CategoryOther.
	CategoryOf func(conditionID string) domain.Category
}

// NewOracle builds the cascade over the given tables.
func NewOracle(cfg OracleConfig) *Oracle {
	stratified := make(map[string]map[string]CostRecord)
	for _, r := range cfg.Stratified {
		cells, ok := stratified[r.Condition]
		if !ok {
			cells = make(map[string]CostRecord)
			stratified[r.Condition] = cells
		}
		cells[r.Stratum.Key()] = r
	}
	summary := make(map[string]SummaryRecord, len(cfg.Summary))
	for _, r := range cfg.Summary {
		summary[r.Condition] = r
	}
	drug := make(map[string]DrugCostRecord, len(cfg.Drug))
	for _, r := range cfg.Drug {
		drug[r.Condition] = r
	}

	categoryOf := cfg.CategoryOf
	if categoryOf == nil {
		categoryOf = func(string) domain.Category { return domain.CategoryOther }
	}

	defaultCat, ok := cfg.Category[domain.CategoryOther]
	if !ok {
		// Last-resort constant so the cascade can never come up empty even
		// against incomplete category tables.
		defaultCat = decimal.NewFromInt(2500)
	}

	return &Oracle{
		stratified:     stratified,
		summary:        summary,
		drug:           drug,
		category:       cfg.Category,
		defaultCat:     defaultCat,
		careMultiplier: cfg.CareMultiplier,
		minCellN:       cfg.MinCellSample,
		minSummaryN:    cfg.MinSummarySample,
		categoryOf:     categoryOf,
	}
}

// AnnualCost resolves the annual cost estimate for a condition in a stratum.
func (o *Oracle) AnnualCost(conditionID string, stratum domain.Stratum) decimal.Decimal {
	return o.Resolve(conditionID, stratum).Amount
}

// Resolve runs the cascade and reports which tier won.
func (o *Oracle) Resolve(conditionID string, stratum domain.Stratum) Resolution {
	tiers := []func(string, domain.Stratum) (decimal.Decimal, bool){
		o.lookupStratified,
		o.lookupSummary,
		o.lookupDrugExtrapolation,
	}
	names := []string{TierStratified, TierSummary, TierDrug}

	for i, tier := range tiers {
		if amount, ok := tier(conditionID, stratum); ok {
			return Resolution{Amount: amount, Tier: names[i]}
		}
	}
	return Resolution{Amount: o.categoryFallback(conditionID), Tier: TierCategory}
}

func (o *Oracle) lookupStratified(conditionID string, stratum domain.Stratum) (decimal.Decimal, bool) {
	cells, ok := o.stratified[conditionID]
	if !ok {
		return decimal.Zero, false
	}
	rec, ok := cells[stratum.Key()]
	if !ok || rec.SampleSize < o.minCellN {
		return decimal.Zero, false
	}
	return rec.AnnualCost, true
}

func (o *Oracle) lookupSummary(conditionID string, _ domain.Stratum) (decimal.Decimal, bool) {
	rec, ok := o.summary[conditionID]
	if !ok || rec.SampleSize < o.minSummaryN {
		return decimal.Zero, false
	}
	return rec.AnnualCost, true
}

func (o *Oracle) lookupDrugExtrapolation(conditionID string, _ domain.Stratum) (decimal.Decimal, bool) {
	rec, ok := o.drug[conditionID]
	if !ok || rec.AnnualCost.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, false
	}
	return rec.AnnualCost.Mul(o.careMultiplier), true
}

func (o *Oracle) categoryFallback(conditionID string) decimal.Decimal {
	if amount, ok := o.category[o.categoryOf(conditionID)]; ok {
		return amount
	}
	return o.defaultCat
}
