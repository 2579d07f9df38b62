package history_test

import (
	"testing"

	"github.com/aretw0/calcgame/pkg/action"
	"github.com/aretw0/calcgame/pkg/domain"
	"github.com/aretw0/calcgame/pkg/history"
	"github.com/aretw0/calcgame/pkg/replay"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// counter is the state the test actions mutate.
type counter struct {
	value int
	rolls []int
}

func (c *counter) add(n int) *action.Action {
	return action.New("add",
		func(*domain.ActionContext) { c.value += n },
		func(*domain.ActionContext) { c.value -= n })
}

func (c *counter) roll(draws *replay.DrawLog) *action.Action {
	return action.New("roll",
		func(*domain.ActionContext) { c.rolls = append(c.rolls, draws.NextInt(0, 1_000_000)) },
		func(*domain.ActionContext) { c.rolls = c.rolls[:len(c.rolls)-1] })
}

func newHistory() (*history.History, *replay.DrawLog) {
	draws := replay.New(2024)
	return history.New(draws), draws
}

func TestHistory_DoUndoRedo(t *testing.T) {
	h, _ := newHistory()
	c := &counter{}

	h.Do(c.add(1))
	h.Do(c.add(10))
	assert.Equal(t, 11, c.value)
	assert.Equal(t, 1, h.Cursor())

	require.NoError(t, h.Undo())
	assert.Equal(t, 1, c.value)
	assert.True(t, h.CanRedo())

	require.NoError(t, h.Redo())
	assert.Equal(t, 11, c.value)
	assert.ErrorIs(t, h.Redo(), history.ErrNothingToRedo)

	require.NoError(t, h.Undo())
	require.NoError(t, h.Undo())
	assert.Equal(t, 0, c.value)
	assert.Equal(t, -1, h.Cursor())
	assert.ErrorIs(t, h.Undo(), history.ErrNothingToUndo)
	assert.Equal(t, -1, h.Cursor())
}

func TestHistory_RedoReplaysDraws(t *testing.T) {
	h, draws := newHistory()
	c := &counter{}

	h.Do(c.roll(draws))
	h.Do(c.roll(draws).AndThen(c.roll(draws)))
	after := append([]int(nil), c.rolls...)
	require.Len(t, after, 3)

	require.NoError(t, h.Undo())
	assert.Equal(t, 1, draws.Cursor())
	require.NoError(t, h.Redo())

	assert.Equal(t, after, c.rolls)
	assert.Equal(t, 3, draws.Len())
}

func TestHistory_Truncation(t *testing.T) {
	h, _ := newHistory()
	c := &counter{}

	h.Do(c.add(1))
	h.Do(c.add(2))
	require.NoError(t, h.Undo())
	h.Do(c.add(4))

	assert.Equal(t, 5, c.value)
	assert.Equal(t, 2, h.Len())
	assert.False(t, h.CanRedo())
	assert.ErrorIs(t, h.Redo(), history.ErrNothingToRedo)
	assert.Equal(t, 5, c.value)
}

func TestHistory_NotUndoable(t *testing.T) {
	h, _ := newHistory()
	c := &counter{}

	h.Do(c.add(1))
	h.Do(action.Func("barrier", nil))

	assert.False(t, h.CanUndo())
	assert.ErrorIs(t, h.Undo(), history.ErrNotUndoable)
	assert.Equal(t, 1, h.Cursor())
	assert.Equal(t, 1, c.value)
}

func TestHistory_AppendToLast(t *testing.T) {
	h, _ := newHistory()
	c := &counter{}

	orphan := c.add(100)
	assert.Same(t, orphan, h.AppendToLast(orphan), "empty history returns the action unrecorded")
	assert.Equal(t, 0, h.Len())

	h.Do(c.add(1))
	bonus := h.AppendToLast(c.add(5))
	assert.Equal(t, 1, c.value, "appended action is not run")
	bonus.Redo()
	assert.Equal(t, 6, c.value)
	assert.Equal(t, 1, h.Len())

	require.NoError(t, h.Undo())
	assert.Equal(t, 0, c.value)
	require.NoError(t, h.Redo())
	assert.Equal(t, 6, c.value)
}

func TestHistory_LastContains(t *testing.T) {
	h, _ := newHistory()
	c := &counter{}
	extra := c.add(5)

	assert.False(t, h.LastContains(extra), "empty history")

	h.Do(c.add(1))
	assert.False(t, h.LastContains(extra))
	h.AppendToLast(extra.WithContext(&domain.ActionContext{Element: "x"}))
	assert.True(t, h.LastContains(extra), "context copies share identity")

	h.Do(c.add(2))
	assert.False(t, h.LastContains(extra), "each step starts empty")
}

func TestHistory_AppendToNext(t *testing.T) {
	h, _ := newHistory()
	var order []string
	step := func(name string) *action.Action {
		return action.New(name,
			func(*domain.ActionContext) { order = append(order, "redo "+name) },
			func(*domain.ActionContext) { order = append(order, "undo "+name) })
	}

	h.AppendToNext(step("queued"))
	h.AppendToNext(step("queued2"))
	assert.Empty(t, order)

	h.Do(step("main"))
	assert.Equal(t, []string{"redo queued", "redo queued2", "redo main"}, order)
	assert.Equal(t, []string{"main"}, h.Names())

	order = nil
	h.Do(step("later"))
	assert.Equal(t, []string{"redo later"}, order, "queue is cleared")

	order = nil
	require.NoError(t, h.Undo())
	require.NoError(t, h.Undo())
	assert.Equal(t, []string{"undo later", "undo main", "undo queued2", "undo queued"}, order)
}

func TestHistory_Hooks(t *testing.T) {
	var events []domain.EventType
	var errs []error
	record := func(e *domain.ActionEvent) {
		events = append(events, e.Type)
		errs = append(errs, e.Err)
	}
	h := history.New(replay.New(1), history.WithHooks(domain.LifecycleHooks{
		OnDo: record, OnUndo: record, OnRedo: record,
	}))

	h.Do(action.New("noop", nil, nil))
	require.NoError(t, h.Undo())
	require.NoError(t, h.Redo())
	assert.ErrorIs(t, h.Redo(), history.ErrNothingToRedo)

	assert.Equal(t, []domain.EventType{domain.EventDo, domain.EventUndo, domain.EventRedo, domain.EventRedo}, events)
	assert.Nil(t, errs[0])
	assert.ErrorIs(t, errs[3], history.ErrNothingToRedo)
}

func TestHistory_MetaRestore(t *testing.T) {
	h, _ := newHistory()
	ctx := &domain.ActionContext{Element: "="}
	h.Do(action.New("press", nil, nil))
	h.Do(action.New("calculate", nil, nil, action.WithContext(ctx)))
	h.Do(action.New("clear", nil, nil))
	require.NoError(t, h.Undo())

	assert.Same(t, ctx, h.CurrentContext())
	meta := h.Meta()
	assert.Equal(t, domain.HistoryMeta{Cursor: 1, Entries: []string{"press", "calculate", "clear"}}, meta)

	restored, _ := newHistory()
	restored.Restore(meta)
	assert.Equal(t, 1, restored.Cursor())
	assert.Equal(t, []string{"press", "calculate"}, restored.Names())
	assert.False(t, restored.CanUndo())
	assert.False(t, restored.CanRedo())
}
