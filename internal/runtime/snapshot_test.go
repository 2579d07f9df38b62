package runtime_test

import (
	"testing"

	"github.com/aretw0/calcgame/internal/runtime"
	"github.com/aretw0/calcgame/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_SnapshotRestore(t *testing.T) {
	s := runtime.NewSession(runtime.WithID("abc"), runtime.WithSeed(11))
	press(s, "2", "^", "3")
	_, err := s.Calculate()
	require.NoError(t, err)
	s.NextInt(0, 100)

	snap, err := s.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, "abc", snap.SessionID)
	assert.Equal(t, "8", snap.Screen)
	assert.Equal(t, domain.Number(1), snap.Money)
	assert.Equal(t, 3, snap.History.Cursor)
	assert.NotEmpty(t, snap.LastFormula)

	restored := runtime.NewSession()
	require.NoError(t, restored.Restore(snap))
	assert.Equal(t, "abc", restored.ID())
	assert.Equal(t, "8", restored.Screen())
	assert.Equal(t, domain.Number(1), restored.Money())
	assert.Equal(t, s.LastFormula(), restored.LastFormula())
	assert.False(t, restored.View().CanUndo)
	assert.Equal(t, s.NextInt(0, 100), restored.NextInt(0, 100))

	assert.Error(t, restored.Restore(nil))
}
