package memory

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/aretw0/calcgame/pkg/domain"
)

// Loader implements ports.ModLoader over rules held in memory.
type Loader struct {
	rules []domain.ModRule
}

// NewLoader creates a loader serving rules. Every rule needs an ID.
func NewLoader(rules ...domain.ModRule) (*Loader, error) {
	seen := make(map[string]bool, len(rules))
	for _, r := range rules {
		if r.ID == "" {
			return nil, fmt.Errorf("rule missing ID")
		}
		if seen[r.ID] {
			return nil, fmt.Errorf("duplicate rule ID %q", r.ID)
		}
		seen[r.ID] = true
	}
	sorted := slices.Clone(rules)
	slices.SortFunc(sorted, func(a, b domain.ModRule) int { return strings.Compare(a.ID, b.ID) })
	return &Loader{rules: sorted}, nil
}

// LoadRules returns the rules ordered by ID.
func (l *Loader) LoadRules(ctx context.Context) ([]domain.ModRule, error) {
	return slices.Clone(l.rules), nil
}
