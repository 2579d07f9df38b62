// Package replay implements a random source whose draws are logged so that
// redoing an action after an undo yields the same numbers.
package replay

import (
	"fmt"
	"math/rand/v2"

	"github.com/aretw0/calcgame/pkg/domain"
)

// DrawLog serves draws from its log while the cursor is behind the end and
// from the generator once it catches up. The log is never truncated.
type DrawLog struct {
	seed   uint64
	src    *rand.PCG
	rng    *rand.Rand
	draws  []int
	cursor int
}

// New creates an empty log over a PCG generator seeded with seed.
func New(seed uint64) *DrawLog {
	src := rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)
	return &DrawLog{
		seed: seed,
		src:  src,
		rng:  rand.New(src),
	}
}

// NextInt returns an int in [min, max). It panics if max <= min.
func (l *DrawLog) NextInt(min, max int) int {
	if max <= min {
		panic(fmt.Sprintf("replay: invalid range [%d, %d)", min, max))
	}
	if l.cursor < len(l.draws) {
		v := l.draws[l.cursor]
		l.cursor++
		return v
	}
	v := min + l.rng.IntN(max-min)
	l.draws = append(l.draws, v)
	l.cursor++
	return v
}

// Chance reports true with probability a/b.
func (l *DrawLog) Chance(a, b int) bool {
	return l.NextInt(0, b) < a
}

// Cursor is the index of the next draw.
func (l *DrawLog) Cursor() int { return l.cursor }

// Len is the number of logged draws.
func (l *DrawLog) Len() int { return len(l.draws) }

// Seed returns the seed the generator started from.
func (l *DrawLog) Seed() uint64 { return l.seed }

// Rewind moves the cursor back to pos. Positions outside the log are clamped.
func (l *DrawLog) Rewind(pos int) {
	l.cursor = max(0, min(pos, len(l.draws)))
}

// State captures the log, the cursor and the generator.
func (l *DrawLog) State() (domain.DrawLogState, error) {
	src, err := l.src.MarshalBinary()
	if err != nil {
		return domain.DrawLogState{}, fmt.Errorf("failed to marshal generator: %w", err)
	}
	return domain.DrawLogState{
		Seed:   l.seed,
		Draws:  append([]int{}, l.draws...),
		Cursor: l.cursor,
		Source: src,
	}, nil
}

// Restore replaces the log with a state produced by State.
// Without a generator state the stream restarts from the seed.
func (l *DrawLog) Restore(state domain.DrawLogState) error {
	if state.Cursor < 0 || state.Cursor > len(state.Draws) {
		return fmt.Errorf("replay: cursor %d outside log of %d draws", state.Cursor, len(state.Draws))
	}
	fresh := New(state.Seed)
	if len(state.Source) > 0 {
		if err := fresh.src.UnmarshalBinary(state.Source); err != nil {
			return fmt.Errorf("failed to restore generator: %w", err)
		}
	}
	fresh.draws = append([]int{}, state.Draws...)
	fresh.cursor = state.Cursor
	*l = *fresh
	return nil
}
