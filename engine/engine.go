// Package engine defines the interface for computer opponents.
package engine

import (
	"errors"

	"noughts-local/types"
)

var ErrNoFreeCells = errors.New("no free cells")

// Opponent picks the computer's next move.
type Opponent interface {
	// ChooseMove returns one of the given free cells.
	// Returns ErrNoFreeCells if free is empty.
	ChooseMove(free []types.Cell) (types.Cell, error)
}

// GameConfig holds configuration for starting a new session.
type GameConfig struct {
	Height    int        // Board rows, >= 1
	Width     int        // Board columns, >= 1
	HumanSide types.Side // Side played by the human
	LoadSlot  string     // Saved game slot to resume, empty for a new game
}

// WinLength returns the run length needed to win on this board.
func (c GameConfig) WinLength() int {
	return min(c.Height, c.Width)
}
