// Package save stores and restores games in progress.
package save

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"noughts-local/types"
)

// slotLayout names slots after the save time, e.g. "save-Oct-16-12-15-04".
const slotLayout = "save-Jan-02-15-04-05"

var (
	ErrNotFound    = errors.New("saved game not found")
	ErrCorruptSave = errors.New("saved game is corrupt")
)

// SavedGame is a frozen board. It is never modified after it is written.
type SavedGame struct {
	Height    int          `json:"height"`
	Width     int          `json:"width"`
	HumanSide types.Side   `json:"side"`
	Noughts   []types.Cell `json:"noughts"`
	Crosses   []types.Cell `json:"crosses"`
	SavedAt   time.Time    `json:"saved_at"`
}

// Moves returns the number of occupied cells.
func (g *SavedGame) Moves() int {
	return len(g.Noughts) + len(g.Crosses)
}

// Validate checks dimensions and that every cell is on the board and held
// by at most one side. Failures wrap ErrCorruptSave.
func (g *SavedGame) Validate() error {
	if g.Height < 1 || g.Width < 1 {
		return fmt.Errorf("%w: board is %dx%d", ErrCorruptSave, g.Height, g.Width)
	}
	if g.HumanSide != types.Noughts && g.HumanSide != types.Crosses {
		return fmt.Errorf("%w: no side recorded", ErrCorruptSave)
	}
	seen := make(map[types.Cell]struct{}, g.Moves())
	for _, c := range append(append([]types.Cell{}, g.Noughts...), g.Crosses...) {
		if c.Row < 0 || c.Row >= g.Height || c.Col < 0 || c.Col >= g.Width {
			return fmt.Errorf("%w: cell %s is off the board", ErrCorruptSave, c)
		}
		if _, dup := seen[c]; dup {
			return fmt.Errorf("%w: cell %s is taken twice", ErrCorruptSave, c)
		}
		seen[c] = struct{}{}
	}
	if d := len(g.Noughts) - len(g.Crosses); d < 0 || d > 1 {
		return fmt.Errorf("%w: %d noughts against %d crosses", ErrCorruptSave, len(g.Noughts), len(g.Crosses))
	}
	return nil
}

// SlotInfo describes a stored game for listings.
type SlotInfo struct {
	Slot      string
	Height    int
	Width     int
	HumanSide types.Side
	Moves     int
	SavedAt   time.Time
}

// Store persists saved games under slots.
type Store interface {
	// Save writes g under a fresh slot derived from g.SavedAt and returns it.
	// Existing slots are never overwritten.
	Save(ctx context.Context, g SavedGame) (string, error)

	// Load reads the game stored under slot.
	// Returns ErrNotFound or ErrCorruptSave.
	Load(ctx context.Context, slot string) (*SavedGame, error)

	// List returns the stored games, newest first.
	List(ctx context.Context) ([]SlotInfo, error)
}

// slotName returns the n-th candidate slot for t, n starting at 1.
func slotName(t time.Time, n int) string {
	name := t.Format(slotLayout)
	if n > 1 {
		name = fmt.Sprintf("%s-%d", name, n)
	}
	return name
}

func encode(g SavedGame) ([]byte, error) {
	data, err := json.MarshalIndent(g, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("could not marshal saved game: %w", err)
	}
	return data, nil
}

func decode(data []byte) (*SavedGame, error) {
	var g SavedGame
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptSave, err)
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return &g, nil
}

func infoOf(slot string, g *SavedGame) SlotInfo {
	return SlotInfo{
		Slot:      slot,
		Height:    g.Height,
		Width:     g.Width,
		HumanSide: g.HumanSide,
		Moves:     g.Moves(),
		SavedAt:   g.SavedAt,
	}
}

func sortNewestFirst(infos []SlotInfo) {
	sort.SliceStable(infos, func(i, j int) bool {
		if infos[i].SavedAt.Equal(infos[j].SavedAt) {
			return infos[i].Slot > infos[j].Slot
		}
		return infos[i].SavedAt.After(infos[j].SavedAt)
	})
}
