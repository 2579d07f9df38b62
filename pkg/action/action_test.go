package action_test

import (
	"errors"
	"testing"

	"github.com/aretw0/calcgame/pkg/action"
	"github.com/aretw0/calcgame/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder builds actions that log their calls.
type recorder struct {
	calls []string
}

func (r *recorder) action(name string, opts ...action.Option) *action.Action {
	return action.New(name,
		func(*domain.ActionContext) { r.calls = append(r.calls, "redo "+name) },
		func(*domain.ActionContext) { r.calls = append(r.calls, "undo "+name) },
		opts...)
}

func TestAndThen_Order(t *testing.T) {
	rec := &recorder{}
	c := rec.action("a").AndThen(rec.action("b")).AndThen(rec.action("c"))

	c.Redo()
	c.Undo()

	assert.Equal(t, []string{
		"redo a", "redo b", "redo c",
		"undo c", "undo b", "undo a",
	}, rec.calls)
	assert.Equal(t, "a", c.Name())
}

func TestAndThen_SelfIsNoop(t *testing.T) {
	rec := &recorder{}
	a := rec.action("a")

	assert.Same(t, a, a.AndThen(a))
	assert.Equal(t, a.Undoable(), a.AndThen(a).Undoable())

	a.AndThen(a).Redo()
	assert.Equal(t, []string{"redo a"}, rec.calls)
}

func TestAndThen_Idempotent(t *testing.T) {
	rec := &recorder{}
	a, b := rec.action("a"), rec.action("b")

	c := a.AndThen(b)
	assert.Same(t, c, c.AndThen(b))
	assert.Same(t, c, c.AndThen(a))
	assert.Same(t, c, c.AndThen(c))

	// Composing the same pair again gives an equivalent composite.
	d := a.AndThen(b)
	c.Redo()
	first := append([]string(nil), rec.calls...)
	rec.calls = nil
	d.Redo()
	assert.Equal(t, first, rec.calls)

	// A re-contexted copy keeps its identity.
	assert.Same(t, c, c.AndThen(b.WithContext(&domain.ActionContext{Element: "x"})))
}

func TestAndThen_Undoable(t *testing.T) {
	rec := &recorder{}
	locked := true
	a := rec.action("a")
	b := rec.action("b", action.WithUndoable(func() bool { return !locked }))

	c := a.AndThen(b)
	assert.False(t, c.Undoable())

	locked = false
	assert.True(t, c.Undoable(), "predicate is evaluated at undo time")

	assert.False(t, a.AndThen(action.Func("barrier", nil)).Undoable())
}

func TestAndThen_Context(t *testing.T) {
	own := &domain.ActionContext{Element: "own"}
	fallback := &domain.ActionContext{Element: "fallback"}

	var seen []string
	capture := func(name string, opts ...action.Option) *action.Action {
		return action.New(name, func(ctx *domain.ActionContext) {
			if ctx == nil {
				seen = append(seen, name+":nil")
				return
			}
			seen = append(seen, name+":"+ctx.Element)
		}, nil, opts...)
	}

	c := capture("a").AndThen(capture("b", action.WithContext(fallback)))
	assert.Same(t, fallback, c.Context())

	c = capture("a", action.WithContext(own)).AndThen(capture("b", action.WithContext(fallback)))
	assert.Same(t, own, c.Context())
	c.Redo()
	assert.Equal(t, []string{"a:own", "b:fallback"}, seen)

	seen = nil
	capture("a").AndThen(capture("b")).WithContext(own).Redo()
	assert.Equal(t, []string{"a:own", "b:own"}, seen)
}

func TestFuncAndOnUndo(t *testing.T) {
	var calls []string
	f := action.Func("f", func(*domain.ActionContext) { calls = append(calls, "f") })
	u := action.OnUndo("u", func(*domain.ActionContext) { calls = append(calls, "u") })

	f.Redo()
	f.Undo()
	u.Redo()
	u.Undo()

	assert.Equal(t, []string{"f", "u"}, calls)
	assert.False(t, f.Undoable())
	assert.True(t, u.Undoable())
}

func TestCatchInterrupt(t *testing.T) {
	var ran []string
	chain := action.Func("first", func(*domain.ActionContext) { ran = append(ran, "first") }).
		AndThen(action.Func("stop", func(*domain.ActionContext) { action.Interrupt("enough") })).
		AndThen(action.Func("never", func(*domain.ActionContext) { ran = append(ran, "never") }))

	ie := action.CatchInterrupt(chain.Redo)
	require.NotNil(t, ie)
	assert.Equal(t, "enough", ie.Reason)
	assert.Equal(t, []string{"first"}, ran)

	assert.Nil(t, action.CatchInterrupt(func() {}))

	boom := errors.New("boom")
	assert.PanicsWithError(t, "boom", func() {
		action.CatchInterrupt(func() { panic(boom) })
	})
}
