package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/aretw0/calcgame/pkg/adapters/sqlite"
	"github.com/aretw0/calcgame/pkg/domain"
	"github.com/aretw0/calcgame/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteStore_Contract(t *testing.T) {
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	defer store.Close()

	ports.RunSnapshotStoreContract(t, store)
}

func TestSQLiteStore_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calcgame.db")
	ctx := context.Background()

	store, err := sqlite.New(path)
	require.NoError(t, err)
	snap := domain.NewSnapshot("persist")
	snap.Screen = "1+1"
	require.NoError(t, store.Save(ctx, "persist", snap))
	require.NoError(t, store.Close())

	store, err = sqlite.New(path)
	require.NoError(t, err)
	defer store.Close()

	loaded, err := store.Load(ctx, "persist")
	require.NoError(t, err)
	assert.Equal(t, "1+1", loaded.Screen)

	assert.ErrorIs(t, store.Save(ctx, "", snap), domain.ErrInvalidSessionID)
}
