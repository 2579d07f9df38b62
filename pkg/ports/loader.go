package ports

import (
	"context"

	"github.com/aretw0/calcgame/pkg/domain"
)

// ModLoader reads the rules contributed by mods.
type ModLoader interface {
	// LoadRules returns every rule, ordered by ID so that later mods
	// deterministically overwrite earlier ones.
	LoadRules(ctx context.Context) ([]domain.ModRule, error)
}

// Watchable is implemented by loaders that can report changes to their rules.
type Watchable interface {
	// Watch returns a channel that receives the ID of each changed rule.
	Watch(ctx context.Context) (<-chan string, error)
}
