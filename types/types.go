// Package types contains shared data structures for noughts-local.
package types

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Cell is a position on the board, indexed from the top-left corner.
type Cell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Add returns the cell offset by dr rows and dc columns.
func (c Cell) Add(dr, dc int) Cell {
	return Cell{Row: c.Row + dr, Col: c.Col + dc}
}

// Less orders cells row-major.
func (c Cell) Less(o Cell) bool {
	if c.Row != o.Row {
		return c.Row < o.Row
	}
	return c.Col < o.Col
}

func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.Row, c.Col)
}

// Side is one of the two markers.
type Side int

const (
	Noughts Side = iota + 1
	Crosses
)

// Opponent returns the other side.
func (s Side) Opponent() Side {
	if s == Noughts {
		return Crosses
	}
	return Noughts
}

func (s Side) String() string {
	switch s {
	case Noughts:
		return "Noughts"
	case Crosses:
		return "Crosses"
	}
	return "Unknown"
}

// MarshalText encodes the side as its lowercase name.
func (s Side) MarshalText() ([]byte, error) {
	switch s {
	case Noughts, Crosses:
		return []byte(strings.ToLower(s.String())), nil
	}
	return nil, fmt.Errorf("%w: %d", ErrUnknownSide, int(s))
}

// UnmarshalText accepts any alias understood by ParseSide.
func (s *Side) UnmarshalText(text []byte) error {
	side, err := ParseSide(string(text))
	if err != nil {
		return err
	}
	*s = side
	return nil
}

var ErrUnknownSide = errors.New("unknown side")

// SideAliases maps every accepted spelling of a side to the side.
var SideAliases = map[string]Side{
	"noughts": Noughts,
	"n":       Noughts,
	"o":       Noughts,
	"crosses": Crosses,
	"c":       Crosses,
	"x":       Crosses,
}

// ParseSide resolves a case-insensitive side alias.
// Unknown input yields ErrUnknownSide with the closest alias as a suggestion.
func ParseSide(s string) (Side, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if side, ok := SideAliases[key]; ok {
		return side, nil
	}
	return 0, fmt.Errorf("%w %q, did you mean %q?", ErrUnknownSide, s, closestAlias(key))
}

// RandomSide picks a side uniformly, used when none was chosen.
func RandomSide(r *rand.Rand) Side {
	if r.Intn(2) == 0 {
		return Noughts
	}
	return Crosses
}

func closestAlias(s string) string {
	best, bestDist := "noughts", -1
	for _, alias := range []string{"noughts", "crosses", "n", "o", "c", "x"} {
		d := levenshtein.ComputeDistance(s, alias)
		if bestDist == -1 || d < bestDist {
			best, bestDist = alias, d
		}
	}
	return best
}

// Outcome is the result of a session.
type Outcome int

const (
	Ongoing Outcome = iota
	Nobody
	PlayerWin
	AiWin
	SavingInProgress
	Abandoned
)

// Finished returns true once the session accepts no more moves.
func (o Outcome) Finished() bool {
	return o != Ongoing
}

// Message is the fixed text shown when the session ends.
func (o Outcome) Message() string {
	switch o {
	case Nobody:
		return "Stalemate!"
	case PlayerWin:
		return "You won!"
	case AiWin:
		return "You lost. We'll get them next time."
	case SavingInProgress:
		return "Game state is saved, closing..."
	}
	return ""
}

func (o Outcome) String() string {
	switch o {
	case Ongoing:
		return "ongoing"
	case Nobody:
		return "nobody"
	case PlayerWin:
		return "player"
	case AiWin:
		return "ai"
	case SavingInProgress:
		return "saving"
	case Abandoned:
		return "abandoned"
	}
	return "unknown"
}

// Command is a discrete input from the player.
type Command int

const (
	Idle Command = iota
	MoveUp
	MoveDown
	MoveLeft
	MoveRight
	Confirm
	Save
	Quit
)

func (c Command) String() string {
	switch c {
	case Idle:
		return "idle"
	case MoveUp:
		return "up"
	case MoveDown:
		return "down"
	case MoveLeft:
		return "left"
	case MoveRight:
		return "right"
	case Confirm:
		return "confirm"
	case Save:
		return "save"
	case Quit:
		return "quit"
	}
	return "unknown"
}
