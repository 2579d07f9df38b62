package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/calcgame/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunSnapshotStoreContract verifies that a SnapshotStore implementation
// honours the interface contract.
func RunSnapshotStoreContract(t *testing.T, store SnapshotStore) {
	ctx := context.Background()
	sessionID := "contract-" + time.Now().Format("20060102150405.000000")

	t.Run("Save and Load", func(t *testing.T) {
		snap := domain.NewSnapshot(sessionID)
		snap.Screen = "(1+2j)"
		snap.Money = complex(3, -1)
		snap.Random = domain.DrawLogState{Seed: 9, Draws: []int{4, 2}, Cursor: 1, Source: []byte{1, 2, 3}}
		snap.History = domain.HistoryMeta{Cursor: 0, Entries: []string{"press 1", "calculate"}}
		snap.LastFormula = []byte(`{"const":["1","0"]}`)

		require.NoError(t, store.Save(ctx, sessionID, snap))

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, snap.SessionID, loaded.SessionID)
		assert.Equal(t, snap.Screen, loaded.Screen)
		assert.Equal(t, snap.Money, loaded.Money)
		assert.Equal(t, snap.Random, loaded.Random)
		assert.Equal(t, snap.History, loaded.History)
		assert.JSONEq(t, string(snap.LastFormula), string(loaded.LastFormula))
	})

	t.Run("Save Overwrites", func(t *testing.T) {
		snap := domain.NewSnapshot(sessionID)
		snap.Screen = "42"
		require.NoError(t, store.Save(ctx, sessionID, snap))

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, "42", loaded.Screen)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, sessionID, domain.NewSnapshot(sessionID)))
		require.NoError(t, store.Delete(ctx, sessionID))

		_, err := store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		require.NoError(t, store.Save(ctx, id1, domain.NewSnapshot(id1)))
		require.NoError(t, store.Save(ctx, id2, domain.NewSnapshot(id2)))
		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		sessions, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sessions, id1)
		assert.Contains(t, sessions, id2)
	})
}
