package memory_test

import (
	"context"
	"testing"

	"github.com/aretw0/calcgame/pkg/adapters/memory"
	"github.com/aretw0/calcgame/pkg/domain"
	"github.com/aretw0/calcgame/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Contract(t *testing.T) {
	store := memory.NewStore()
	ports.RunSnapshotStoreContract(t, store)
}

func TestMemoryStore_Isolation(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	snap := domain.NewSnapshot("s1")
	snap.Random.Draws = []int{1, 2}
	require.NoError(t, store.Save(ctx, "s1", snap))

	snap.Random.Draws[0] = 99
	loaded, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, loaded.Random.Draws)

	loaded.Screen = "changed"
	again, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "0", again.Screen)
}
