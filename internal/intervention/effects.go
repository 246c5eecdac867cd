// Package intervention resolves intervention names to their risk effects and
// applies them to network-derived transition probabilities.
package intervention

import (
	"fmt"
	"sort"

	"github.com/caregraph/caregraph/internal/domain"
)

// Catalog maps intervention names to their effect records. Immutable after
// construction.
type Catalog struct {
	effects map[string][]domain.InterventionEffect
}

// NewCatalog builds an effect catalog. A single intervention may carry
// effects against multiple target conditions.
func NewCatalog(effects []domain.InterventionEffect) (*Catalog, error) {
	byName := make(map[string][]domain.InterventionEffect)
	for i := range effects {
		e := effects[i]
		if err := e.Validate(); err != nil {
			return nil, fmt.Errorf("invalid effect %d: %w", i, err)
		}
		byName[e.Name] = append(byName[e.Name], e)
	}
	return &Catalog{effects: byName}, nil
}

// Known reports whether an intervention name has any effect record.
func (c *Catalog) Known(name string) bool {
	_, ok := c.effects[name]
	return ok
}

// Effects returns the effect records for name, or nil for unknown names.
func (c *Catalog) Effects(name string) []domain.InterventionEffect {
	return c.effects[name]
}

// Names returns all catalog intervention names, sorted.
func (c *Catalog) Names() []string {
	out := make([]string, 0, len(c.effects))
	for name := range c.effects {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// ActiveSet is the resolved multiplier set for one simulation request:
// target condition id -> combined risk multiplier. Unknown intervention
// names are ignored, not rejected; validating names against the catalog is
// the caller's responsibility.
type ActiveSet struct {
	multipliers map[string]float64
	applied     []string
}

// Resolve builds the active multiplier set for the named interventions.
// Multipliers from distinct interventions against the same target condition
// compound; a name repeated in the request is applied once.
func (c *Catalog) Resolve(names []string) *ActiveSet {
	set := &ActiveSet{multipliers: make(map[string]float64)}
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true
		effects, ok := c.effects[name]
		if !ok {
			continue
		}
		set.applied = append(set.applied, name)
		for _, e := range effects {
			if m, ok := set.multipliers[e.TargetID]; ok {
				set.multipliers[e.TargetID] = m * e.RiskMultiplier
			} else {
				set.multipliers[e.TargetID] = e.RiskMultiplier
			}
		}
	}
	return set
}

// Apply scales an annual transition probability into targetID by the active
// multipliers. A no-op for conditions without an active effect.
func (s *ActiveSet) Apply(targetID string, probability float64) float64 {
	if m, ok := s.multipliers[targetID]; ok {
		return probability * m
	}
	return probability
}

// Affects reports whether any active effect targets the condition.
func (s *ActiveSet) Affects(targetID string) bool {
	_, ok := s.multipliers[targetID]
	return ok
}

// Applied returns the intervention names that resolved to at least one
// effect, in request order.
func (s *ActiveSet) Applied() []string {
	return s.applied
}

// Targets returns the affected condition ids, sorted.
func (s *ActiveSet) Targets() []string {
	out := make([]string, 0, len(s.multipliers))
	for t := range s.multipliers {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
