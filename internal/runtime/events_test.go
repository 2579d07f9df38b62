package runtime_test

import (
	"testing"

	"github.com/aretw0/calcgame/internal/runtime"
	"github.com/aretw0/calcgame/pkg/action"
	"github.com/aretw0/calcgame/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// bonus pays one coin per click, undone together with the click.
func bonus(s *runtime.Session) *action.Action {
	return action.New("bonus",
		func(*domain.ActionContext) { s.AddMoney(1) },
		func(*domain.ActionContext) { s.AddMoney(-1) })
}

func TestEmit_ListenerJoinsUndoStep(t *testing.T) {
	s := runtime.NewSession()
	s.On(domain.EventClick, "bonus", bonus(s))

	s.Press("5")
	assert.Equal(t, domain.Number(1), s.Money())
	assert.Equal(t, 1, s.View().Entries)

	require.NoError(t, s.Undo())
	assert.Equal(t, "0", s.Screen())
	assert.Equal(t, domain.Number(0), s.Money())

	require.NoError(t, s.Redo())
	assert.Equal(t, "5", s.Screen())
	assert.Equal(t, domain.Number(1), s.Money(), "listener replays once")
}

func TestEmit_ReceivesContext(t *testing.T) {
	s := runtime.NewSession()
	var got []*domain.ActionContext
	s.On(domain.EventCalculated, "spy", action.New("spy", func(ctx *domain.ActionContext) {
		got = append(got, ctx)
	}, nil))

	press(s, "6", "*", "7")
	_, err := s.Calculate()
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.Equal(t, domain.ElementCalculate, got[0].Element)
	assert.Equal(t, "42", got[0].Data[domain.KeyResult])
	assert.Equal(t, 1, got[0].Data[domain.KeyOperations])
	assert.Equal(t, "6*7", got[0].Data[domain.KeySource])
}

func TestEmit_OrderAndInterrupt(t *testing.T) {
	s := runtime.NewSession()
	var order []string
	listener := func(name string, stop bool) *action.Action {
		return action.New(name, func(*domain.ActionContext) {
			order = append(order, name)
			if stop {
				action.Interrupt("stop")
			}
		}, nil)
	}

	s.On(domain.EventClick, "b", listener("b", false))
	s.On(domain.EventClick, "a", listener("a", true))
	s.On(domain.EventClick, "c", listener("c", false))
	assert.Equal(t, []string{"b", "a", "c"}, s.Listeners(domain.EventClick))

	assert.NotPanics(t, func() { s.Press("1") })
	assert.Equal(t, []string{"b", "a"}, order)

	s.Off(domain.EventClick, "a")
	order = nil
	s.Press("2")
	assert.Equal(t, []string{"b", "c"}, order)
	assert.Equal(t, []string{"b", "c"}, s.Listeners(domain.EventClick))
}

func TestEmit_ReplaySafeDraws(t *testing.T) {
	s := runtime.NewSession(runtime.WithSeed(7))
	var rolls []int
	s.On(domain.EventClick, "dice", action.New("dice",
		func(*domain.ActionContext) { rolls = append(rolls, s.NextInt(1, 7)) },
		func(*domain.ActionContext) { rolls = rolls[:len(rolls)-1] }))

	s.Press("1")
	s.Press("2")
	want := append([]int(nil), rolls...)

	require.NoError(t, s.Undo())
	require.NoError(t, s.Redo())
	assert.Equal(t, want, rolls)
}

func TestEmit_SharedListenerRunsOncePerStep(t *testing.T) {
	s := runtime.NewSession()
	count := 0
	tick := action.New("tick",
		func(*domain.ActionContext) { count++ },
		func(*domain.ActionContext) { count-- })
	s.On(domain.EventClick, "a", tick)
	s.On(domain.EventClick, "b", tick)
	s.On(domain.EventCalculated, "c", tick)

	s.Press("1")
	assert.Equal(t, 1, count)

	require.NoError(t, s.Undo())
	assert.Equal(t, 0, count)
	require.NoError(t, s.Redo())
	assert.Equal(t, 1, count)

	_, err := s.Calculate()
	require.NoError(t, err)
	assert.Equal(t, 2, count, "listeners run once in the calculate step")

	require.NoError(t, s.Undo())
	assert.Equal(t, 1, count)
	require.NoError(t, s.Undo())
	assert.Equal(t, 0, count)
}
