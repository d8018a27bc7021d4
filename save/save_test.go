package save

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"noughts-local/types"
)

func sampleGame() SavedGame {
	return SavedGame{
		Height:    3,
		Width:     4,
		HumanSide: types.Crosses,
		Noughts:   []types.Cell{{0, 0}, {2, 3}},
		Crosses:   []types.Cell{{1, 1}},
		SavedAt:   time.Date(2026, time.October, 16, 12, 15, 4, 0, time.UTC),
	}
}

func TestSavedGame_Validate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		g := sampleGame()
		require.NoError(t, g.Validate())
		assert.Equal(t, 3, g.Moves())
	})

	tests := []struct {
		name   string
		mutate func(g *SavedGame)
	}{
		{"zero height", func(g *SavedGame) { g.Height = 0 }},
		{"no side", func(g *SavedGame) { g.HumanSide = 0 }},
		{"off board", func(g *SavedGame) { g.Crosses = []types.Cell{{3, 0}} }},
		{"negative cell", func(g *SavedGame) { g.Crosses = []types.Cell{{0, -1}} }},
		{"overlap", func(g *SavedGame) { g.Crosses = []types.Cell{{0, 0}} }},
		{"too many crosses", func(g *SavedGame) { g.Crosses = []types.Cell{{1, 1}, {1, 2}, {1, 3}} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := sampleGame()
			tt.mutate(&g)
			require.ErrorIs(t, g.Validate(), ErrCorruptSave)
		})
	}
}

func TestSlotName(t *testing.T) {
	at := time.Date(2026, time.October, 16, 9, 5, 7, 0, time.UTC)
	assert.Equal(t, "save-Oct-16-09-05-07", slotName(at, 1))
	assert.Equal(t, "save-Oct-16-09-05-07-3", slotName(at, 3))
}

func TestDecode(t *testing.T) {
	t.Run("garbage", func(t *testing.T) {
		_, err := decode([]byte("not json"))
		require.ErrorIs(t, err, ErrCorruptSave)
	})

	t.Run("round trip", func(t *testing.T) {
		data, err := encode(sampleGame())
		require.NoError(t, err)

		g, err := decode(data)
		require.NoError(t, err)
		assert.Equal(t, sampleGame(), *g)
	})
}
