// Package random provides an opponent that plays uniformly random moves.
package random

import (
	"math/rand"
	"time"

	"noughts-local/engine"
	"noughts-local/types"
)

// Source yields integers in [0, n). *rand.Rand satisfies it.
type Source interface {
	Intn(n int) int
}

// Opponent draws every move uniformly from the free cells.
type Opponent struct {
	src Source
}

// New creates a random opponent backed by src.
func New(src Source) *Opponent {
	return &Opponent{src: src}
}

// NewSeeded creates a random opponent seeded from the clock.
func NewSeeded() *Opponent {
	return New(rand.New(rand.NewSource(time.Now().UnixNano()))) //nolint: gosec // not security sensitive
}

// ChooseMove implements engine.Opponent.
func (o *Opponent) ChooseMove(free []types.Cell) (types.Cell, error) {
	if len(free) == 0 {
		return types.Cell{}, engine.ErrNoFreeCells
	}
	return free[o.src.Intn(len(free))], nil
}
