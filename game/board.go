// Package game implements the noughts-and-crosses rules and turn sequencing.
package game

import (
	"errors"
	"fmt"
	"sort"

	"noughts-local/types"
)

var ErrInvalidMove = errors.New("invalid move")

// directions scanned for a winning run: horizontal, diagonal, vertical, anti-diagonal.
var directions = [4][2]int{{0, 1}, {1, 1}, {1, 0}, {1, -1}}

type cellSet map[types.Cell]struct{}

func (s cellSet) has(c types.Cell) bool {
	_, ok := s[c]
	return ok
}

func (s cellSet) sorted() []types.Cell {
	cells := make([]types.Cell, 0, len(s))
	for c := range s {
		cells = append(cells, c)
	}
	sort.Slice(cells, func(i, j int) bool { return cells[i].Less(cells[j]) })
	return cells
}

// Board holds the occupied and free cells of a height x width grid.
// Every cell is in exactly one of noughts, crosses or free.
type Board struct {
	height  int
	width   int
	noughts cellSet
	crosses cellSet
	free    cellSet
}

// NewBoard creates an empty board. Dimensions below 1 are raised to 1.
func NewBoard(height, width int) *Board {
	height, width = max(height, 1), max(width, 1)
	b := &Board{
		height:  height,
		width:   width,
		noughts: cellSet{},
		crosses: cellSet{},
		free:    make(cellSet, height*width),
	}
	for r := 0; r < height; r++ {
		for c := 0; c < width; c++ {
			b.free[types.Cell{Row: r, Col: c}] = struct{}{}
		}
	}
	return b
}

// Height returns the number of rows.
func (b *Board) Height() int { return b.height }

// Width returns the number of columns.
func (b *Board) Width() int { return b.width }

// WinLength is the run length needed to win, min(height, width).
func (b *Board) WinLength() int { return min(b.height, b.width) }

// InBounds reports whether c lies on the board.
func (b *Board) InBounds(c types.Cell) bool {
	return c.Row >= 0 && c.Row < b.height && c.Col >= 0 && c.Col < b.width
}

// IsFree reports whether c is on the board and unoccupied.
func (b *Board) IsFree(c types.Cell) bool {
	return b.free.has(c)
}

// IsFull returns true when no free cells remain.
func (b *Board) IsFull() bool {
	return len(b.free) == 0
}

// Free returns the free cells in row-major order.
func (b *Board) Free() []types.Cell {
	return b.free.sorted()
}

// Occupied returns the cells held by side in row-major order.
func (b *Board) Occupied(side types.Side) []types.Cell {
	return b.set(side).sorted()
}

// Owner returns the side occupying c, or 0 when c is free or off the board.
func (b *Board) Owner(c types.Cell) types.Side {
	switch {
	case b.noughts.has(c):
		return types.Noughts
	case b.crosses.has(c):
		return types.Crosses
	}
	return 0
}

// ApplyMove moves cell from the free set to side's set and reports whether
// it completes a winning run. Occupied or off-board cells are rejected with
// ErrInvalidMove and leave the board untouched.
func (b *Board) ApplyMove(cell types.Cell, side types.Side) (bool, error) {
	if side != types.Noughts && side != types.Crosses {
		return false, fmt.Errorf("%w: unknown side %d", ErrInvalidMove, int(side))
	}
	if !b.free.has(cell) {
		if !b.InBounds(cell) {
			return false, fmt.Errorf("%w: %s is off the %dx%d board", ErrInvalidMove, cell, b.height, b.width)
		}
		return false, fmt.Errorf("%w: %s is already taken by %s", ErrInvalidMove, cell, b.Owner(cell))
	}

	delete(b.free, cell)
	taken := b.set(side)
	taken[cell] = struct{}{}

	return CheckWin(cell, taken.has, b.WinLength()), nil
}

func (b *Board) set(side types.Side) cellSet {
	if side == types.Noughts {
		return b.noughts
	}
	return b.crosses
}

// CheckWin reports whether the run through cell reaches length k in any of
// the four line directions. taken tells whether a cell belongs to the side
// that just moved; cells off the board must report false.
func CheckWin(cell types.Cell, taken func(types.Cell) bool, k int) bool {
	if k < 1 {
		return false
	}
	for _, d := range directions {
		line := 0
		for depth := -k + 1; depth < k; depth++ {
			if taken(cell.Add(d[0]*depth, d[1]*depth)) {
				line++
			} else {
				line = 0
			}
			if line == k {
				return true
			}
		}
	}
	return false
}
