// Package registry holds the static catalog of known conditions and their
// baseline population incidence. Built once at startup and read-only for the
// process lifetime.
package registry

import (
	"fmt"
	"sort"

	"github.com/caregraph/caregraph/internal/domain"
)

// ConditionRegistry maps condition ids to catalog entries.
type ConditionRegistry struct {
	conditions map[string]domain.Condition
}

// New builds a registry from catalog entries. Duplicate or invalid entries
// are rejected; the reference tables are expected to be clean.
func New(conditions []domain.Condition) (*ConditionRegistry, error) {
	byID := make(map[string]domain.Condition, len(conditions))
	for i := range conditions {
		c := conditions[i]
		if err := c.Validate(); err != nil {
			return nil, fmt.Errorf("invalid catalog entry %d: %w", i, err)
		}
		if _, dup := byID[c.ID]; dup {
			return nil, fmt.Errorf("duplicate condition %s in catalog", c.ID)
		}
		byID[c.ID] = c
	}
	return &ConditionRegistry{conditions: byID}, nil
}

// Lookup returns the catalog entry for id. The second return is false for
// unknown ids; unknown is an expected input, not an error.
func (r *ConditionRegistry) Lookup(id string) (domain.Condition, bool) {
	c, ok := r.conditions[id]
	return c, ok
}

// Contains reports whether id is a known condition.
func (r *ConditionRegistry) Contains(id string) bool {
	_, ok := r.conditions[id]
	return ok
}

// Label returns the display label for id, falling back to the id itself for
// unknown conditions.
func (r *ConditionRegistry) Label(id string) string {
	if c, ok := r.conditions[id]; ok {
		return c.Label
	}
	return id
}

// BaselineIncidence returns the baseline population incidence for id, or 0
// for unknown conditions.
func (r *ConditionRegistry) BaselineIncidence(id string) float64 {
	if c, ok := r.conditions[id]; ok {
		return c.BaselineIncidence
	}
	return 0
}

// Len returns the catalog size.
func (r *ConditionRegistry) Len() int {
	return len(r.conditions)
}

// All returns every catalog entry sorted by id.
func (r *ConditionRegistry) All() []domain.Condition {
	out := make([]domain.Condition, 0, len(r.conditions))
	for _, c := range r.conditions {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
