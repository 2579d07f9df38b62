package calcgame_test

import (
	"testing"

	"github.com/aretw0/calcgame"
	"github.com/aretw0/calcgame/pkg/action"
	"github.com/aretw0/calcgame/pkg/adapters/memory"
	"github.com/aretw0/calcgame/pkg/domain"
	"github.com/aretw0/calcgame/pkg/history"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGame_CalculateAndUndo(t *testing.T) {
	game, err := calcgame.New()
	require.NoError(t, err)

	game.Press("1+2*3")
	result, err := game.Calculate()
	require.NoError(t, err)

	assert.Equal(t, "7", result.Display)
	assert.Equal(t, "(1+(2*3))", result.Formatted)
	assert.Equal(t, 2, result.Operations)
	assert.Equal(t, "7", game.View().Screen)
	assert.Equal(t, domain.Number(2), game.View().Money)

	require.NoError(t, game.Undo())
	assert.Equal(t, "1+2*3", game.View().Screen)
	assert.Equal(t, domain.Number(0), game.View().Money)

	require.NoError(t, game.Redo())
	assert.Equal(t, "7", game.View().Screen)
	assert.Equal(t, domain.Number(2), game.View().Money)

	assert.ErrorIs(t, game.Redo(), history.ErrNothingToRedo)
}

func TestGame_FormulaErrorResetsScreen(t *testing.T) {
	game, err := calcgame.New()
	require.NoError(t, err)

	game.Press("2*")
	_, err = game.Calculate()
	require.Error(t, err)
	assert.True(t, calcgame.IsFormulaError(err))
	assert.Equal(t, domain.DefaultScreen, game.View().Screen)

	require.NoError(t, game.Undo())
	assert.Equal(t, "2*", game.View().Screen)
}

func TestGame_ListenerDrawsAreReplayed(t *testing.T) {
	game, err := calcgame.New(calcgame.WithSeed(7))
	require.NoError(t, err)

	var bonuses []int
	game.On(domain.EventCalculated, "bonus", action.New("bonus",
		func(*domain.ActionContext) {
			v := game.Session().NextInt(1, 1000)
			bonuses = append(bonuses, v)
			game.Session().AddMoney(domain.Real(float64(v)))
		},
		func(*domain.ActionContext) {
			v := bonuses[len(bonuses)-1]
			bonuses = bonuses[:len(bonuses)-1]
			game.Session().AddMoney(-domain.Real(float64(v)))
		},
	))

	game.Press("1+1")
	_, err = game.Calculate()
	require.NoError(t, err)
	require.Len(t, bonuses, 1)
	first := bonuses[0]
	money := game.View().Money
	assert.Equal(t, domain.Real(float64(1+first)), money)

	require.NoError(t, game.Undo())
	assert.Empty(t, bonuses)
	assert.Equal(t, domain.Number(0), game.View().Money)

	require.NoError(t, game.Redo())
	require.Len(t, bonuses, 1)
	assert.Equal(t, first, bonuses[0], "redo replays the logged draw")
	assert.Equal(t, money, game.View().Money)
}

func TestGame_Mods(t *testing.T) {
	loader, err := memory.NewLoader(
		domain.ModRule{ID: "hyp", Kind: domain.RuleFunction, Name: "half", Formula: "x/2"},
		domain.ModRule{ID: "avg", Kind: domain.RuleOperator, Symbol: "&", Priority: 1, Formula: "(a+b)/2"},
	)
	require.NoError(t, err)

	game, err := calcgame.New(calcgame.WithModLoader(loader))
	require.NoError(t, err)

	game.Press("half(8)&2")
	result, err := game.Calculate()
	require.NoError(t, err)
	assert.Equal(t, "3", result.Display)

	cat := calcgame.Catalog(game.Registry())
	assert.Contains(t, cat.Functions, "half")
	assert.Contains(t, cat.Operators, domain.OperatorInfo{Symbol: "&", Priority: 1})
}

func TestGame_SnapshotRestore(t *testing.T) {
	game, err := calcgame.New(calcgame.WithID("s1"), calcgame.WithSeed(3))
	require.NoError(t, err)
	game.Press("3^2")
	_, err = game.Calculate()
	require.NoError(t, err)

	snap, err := game.Snapshot()
	require.NoError(t, err)

	restored, err := calcgame.New()
	require.NoError(t, err)
	require.NoError(t, restored.Restore(snap))

	assert.Equal(t, "s1", restored.ID())
	assert.Equal(t, "9", restored.View().Screen)
	assert.Equal(t, domain.Number(1), restored.View().Money)
	assert.ErrorIs(t, restored.Undo(), history.ErrNotUndoable)
}

func TestGame_Renderer(t *testing.T) {
	var views []domain.View
	game, err := calcgame.New(calcgame.WithRenderer(func(v domain.View) {
		views = append(views, v)
	}))
	require.NoError(t, err)

	game.Press("4")
	require.NotEmpty(t, views)
	assert.Equal(t, "4", views[len(views)-1].Screen)
}

func TestEvaluate(t *testing.T) {
	game, err := calcgame.New()
	require.NoError(t, err)

	ev, err := game.Evaluate("x*x+1", map[string]domain.Number{"x": 3})
	require.NoError(t, err)
	assert.Equal(t, domain.Number(10), ev.Value)
	assert.Equal(t, "((x*x)+1)", ev.Formatted)
	assert.Equal(t, 2, ev.Operations)

	_, err = game.Evaluate("x+", nil)
	assert.True(t, calcgame.IsFormulaError(err))

	assert.Equal(t, domain.DefaultScreen, game.View().Screen, "evaluation leaves the game alone")
}
