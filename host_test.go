package calcgame_test

import (
	"context"
	"testing"

	"github.com/aretw0/calcgame"
	"github.com/aretw0/calcgame/pkg/adapters/memory"
	"github.com/aretw0/calcgame/pkg/domain"
	"github.com/aretw0/calcgame/pkg/history"
	"github.com/aretw0/calcgame/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHost(t *testing.T, store *memory.Store, opts ...calcgame.Option) *calcgame.Host {
	t.Helper()
	host, err := calcgame.NewHost(session.NewManager(store), opts...)
	require.NoError(t, err)
	return host
}

func TestHost_Session(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	host := newHost(t, store)

	id, view, err := host.Create(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.Equal(t, domain.DefaultScreen, view.Screen)

	_, err = host.Press(ctx, id, "6*7")
	require.NoError(t, err)
	view, err = host.Calculate(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "42", view.Screen)
	assert.Equal(t, domain.Number(1), view.Money)

	snap, err := store.Load(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "42", snap.Screen, "every change is persisted")

	view, err = host.Undo(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "6*7", view.Screen)
	assert.True(t, view.CanRedo)

	view, err = host.Redo(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "42", view.Screen)

	view, err = host.Clear(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultScreen, view.Screen)

	ids, err := host.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{id}, ids)

	require.NoError(t, host.Delete(ctx, id))
	_, err = host.View(ctx, id)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestHost_FormulaErrorKeepsView(t *testing.T) {
	ctx := context.Background()
	host := newHost(t, memory.NewStore())

	id, _, err := host.Create(ctx)
	require.NoError(t, err)
	_, err = host.Press(ctx, id, "(1+")
	require.NoError(t, err)

	view, err := host.Calculate(ctx, id)
	assert.True(t, calcgame.IsFormulaError(err))
	assert.Equal(t, domain.DefaultScreen, view.Screen)
}

func TestHost_NoopsAreReported(t *testing.T) {
	ctx := context.Background()
	host := newHost(t, memory.NewStore())

	id, _, err := host.Create(ctx)
	require.NoError(t, err)

	view, err := host.Undo(ctx, id)
	assert.ErrorIs(t, err, history.ErrNothingToUndo)
	assert.Equal(t, domain.DefaultScreen, view.Screen)
}

func TestHost_RestoresFromStore(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	first := newHost(t, store)
	id, _, err := first.Create(ctx)
	require.NoError(t, err)
	_, err = first.Press(ctx, id, "2+2")
	require.NoError(t, err)
	_, err = first.Calculate(ctx, id)
	require.NoError(t, err)

	second := newHost(t, store)
	view, err := second.View(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "4", view.Screen)
	assert.Equal(t, domain.Number(1), view.Money)

	_, err = second.Undo(ctx, id)
	assert.ErrorIs(t, err, history.ErrNotUndoable, "restored steps are barriers")

	view, err = second.Press(ctx, id, "+1")
	require.NoError(t, err)
	assert.Equal(t, "4+1", view.Screen)

	view, err = first.View(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "4+1", view.Screen, "a stale live game is replaced by the stored one")
}

func TestHost_Unknown(t *testing.T) {
	host := newHost(t, memory.NewStore())
	_, err := host.Press(context.Background(), "ghost", "1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestHost_EvaluateAndCatalog(t *testing.T) {
	loader, err := memory.NewLoader(domain.ModRule{ID: "sq", Kind: domain.RuleFunction, Name: "sq", Formula: "x*x"})
	require.NoError(t, err)
	host := newHost(t, memory.NewStore(), calcgame.WithModLoader(loader))

	ev, err := host.Evaluate(context.Background(), "sq(3)+1", nil)
	require.NoError(t, err)
	assert.Equal(t, "10", ev.Display)
	assert.Contains(t, host.Catalog().Functions, "sq")
}
