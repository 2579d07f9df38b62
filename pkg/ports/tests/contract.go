package tests

import (
	"context"
	"testing"

	"github.com/aretw0/calcgame/pkg/domain"
	"github.com/aretw0/calcgame/pkg/ports"
)

// ModLoaderContractTest verifies that a loader returns exactly the expected
// rules, ordered by ID.
func ModLoaderContractTest(t *testing.T, loader ports.ModLoader, expected []domain.ModRule) {
	t.Helper()

	rules, err := loader.LoadRules(context.Background())
	if err != nil {
		t.Fatalf("unexpected error loading rules: %v", err)
	}

	t.Run("Count", func(t *testing.T) {
		if len(rules) != len(expected) {
			t.Fatalf("expected %d rules, got %d", len(expected), len(rules))
		}
	})

	t.Run("Order", func(t *testing.T) {
		for i := 1; i < len(rules); i++ {
			if rules[i-1].ID > rules[i].ID {
				t.Errorf("rules not ordered by id: %q before %q", rules[i-1].ID, rules[i].ID)
			}
		}
	})

	t.Run("Content", func(t *testing.T) {
		byID := make(map[string]domain.ModRule, len(rules))
		for _, r := range rules {
			byID[r.ID] = r
		}
		for _, want := range expected {
			got, ok := byID[want.ID]
			if !ok {
				t.Errorf("rule %q missing", want.ID)
				continue
			}
			if got.Kind != want.Kind || got.Label() != want.Label() || got.Formula != want.Formula || got.Priority != want.Priority {
				t.Errorf("rule %q mismatch: got %+v, want %+v", want.ID, got, want)
			}
		}
	})
}
