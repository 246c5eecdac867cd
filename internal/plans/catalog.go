// Package plans holds the marketplace plan catalog. Read-only after load.
package plans

import (
	"fmt"
	"sort"
	"strings"

	"github.com/caregraph/caregraph/internal/domain"
)

// Catalog indexes marketplace plans by id.
type Catalog struct {
	plans map[string]domain.Plan
}

// NewCatalog builds a plan catalog, rejecting invalid or duplicate entries.
func NewCatalog(entries []domain.Plan) (*Catalog, error) {
	byID := make(map[string]domain.Plan, len(entries))
	for i := range entries {
		p := entries[i]
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("invalid plan entry %d: %w", i, err)
		}
		if _, dup := byID[p.ID]; dup {
			return nil, fmt.Errorf("duplicate plan %s in catalog", p.ID)
		}
		byID[p.ID] = p
	}
	return &Catalog{plans: byID}, nil
}

// Lookup returns the plan for id; ok is false for unknown ids.
func (c *Catalog) Lookup(id string) (domain.Plan, bool) {
	p, ok := c.plans[id]
	return p, ok
}

// Len returns the catalog size.
func (c *Catalog) Len() int {
	return len(c.plans)
}

// All returns every plan sorted by id.
func (c *Catalog) All() []domain.Plan {
	out := make([]domain.Plan, 0, len(c.plans))
	for _, p := range c.plans {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Filter returns plans matching the given state and metal level, either of
// which may be empty to match all. Results are sorted by id.
func (c *Catalog) Filter(state, metalLevel string) []domain.Plan {
	var out []domain.Plan
	for _, p := range c.plans {
		if state != "" && !strings.EqualFold(p.State, state) {
			continue
		}
		if metalLevel != "" && !strings.EqualFold(p.MetalLevel, metalLevel) {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
