/*
Package calcgame is the core of a calculator game: a complex-number formula
engine with a mutable operator registry, undoable actions and a replay-safe
random draw log.

# Concept

The player types on a calculator and presses "=". Every valid formula pays out
one coin per operation it contains. Each step is an action with a redo and an
undo behavior; the history can walk back and forth through them, and random
draws made by event listeners are replayed instead of re-rolled, so undo never
becomes a way to re-roll luck.

Operators and functions live in a registry that mods can extend with formulas
("a*10+b" for an operator over a and b, "x*x" for a function over x).

# Usage

A single game is driven directly:

	game, err := calcgame.New(calcgame.WithSeed(42))
	if err != nil {
		log.Fatal(err)
	}

	game.Press("1+2*3")
	result, err := game.Calculate()
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(result.Display, game.View().Money) // 7 2

	_ = game.Undo() // screen back to "1+2*3", money back to 0

Many games are served by a Host, which persists a snapshot after every change
through a session.Manager and any ports.SnapshotStore:

	host, err := calcgame.NewHost(session.NewManager(memory.NewStore()))
	id, view, err := host.Create(ctx)
	view, err = host.Press(ctx, id, "2^10")
	view, err = host.Calculate(ctx, id)

# Architecture

  - pkg/formula parses, evaluates and formats expression trees.
  - pkg/registry holds operators and functions; pkg/mods extends it.
  - pkg/action and pkg/history implement undoable composite actions.
  - pkg/replay is the random draw log shared with the history.
  - pkg/adapters contains stores (memory, file, redis, sqlite), the Loam mod
    loader and the HTTP and MCP front ends.
*/
package calcgame
