package ui

import (
	"context"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"noughts-local/config"
	"noughts-local/game"
	"noughts-local/types"
)

func newSimTerminal(t *testing.T, idleMs int) (*Terminal, tcell.SimulationScreen) {
	t.Helper()

	screen := tcell.NewSimulationScreen("UTF-8")
	cfg := config.DefaultConfig
	cfg.Game.IdleTimeoutMs = idleMs

	term, err := NewTerminal(screen, &cfg)
	require.NoError(t, err)
	screen.SetSize(60, 24)
	t.Cleanup(term.Close)
	return term, screen
}

func runeAt(s tcell.Screen, x, y int) rune {
	r, _, _, _ := s.GetContent(x, y)
	return r
}

func textAt(s tcell.Screen, x, y, n int) string {
	out := make([]rune, n)
	for i := range out {
		out[i] = runeAt(s, x+i, y)
	}
	return string(out)
}

func sampleView() game.View {
	return game.View{
		Height: 3,
		Width:  3,
		Grid: [][]types.Side{
			{types.Noughts, 0, 0},
			{0, 0, types.Crosses},
			{0, 0, 0},
		},
		Cursor:    types.Cell{Row: 1, Col: 1},
		HumanSide: types.Crosses,
		Symbols:   game.Symbols{Noughts: '◯', Crosses: 'X'},
		WinLength: 3,
	}
}

func TestTerminal_Render(t *testing.T) {
	term, screen := newSimTerminal(t, 1000)

	term.Render(sampleView())

	assert.Equal(t, "Game of noughts and crosses", textAt(screen, 0, 0, 27))
	assert.Equal(t, "You are playing Crosses", textAt(screen, 0, 1, 23))

	x, y := cellOrigin(types.Cell{Row: 0, Col: 0})
	assert.Equal(t, '◯', runeAt(screen, x, y))
	x, y = cellOrigin(types.Cell{Row: 1, Col: 2})
	assert.Equal(t, 'X', runeAt(screen, x, y))
	x, y = cellOrigin(types.Cell{Row: 2, Col: 2})
	assert.Equal(t, '·', runeAt(screen, x, y))

	// Then: the cursor shows the human's symbol highlighted
	x, y = cellOrigin(types.Cell{Row: 1, Col: 1})
	r, _, style, _ := screen.GetContent(x, y)
	assert.Equal(t, 'X', r)
	_, _, attrs := style.Decompose()
	assert.NotZero(t, attrs&tcell.AttrReverse)

	assert.Equal(t, '╭', runeAt(screen, boardLeft, boardTop))
	assert.Equal(t, "Press [f] make a turn", textAt(screen, 0, boardTop+6, 21))
}

func TestTerminal_RenderStatus(t *testing.T) {
	term, screen := newSimTerminal(t, 1000)

	v := sampleView()
	v.Status = "Could not save the game"
	term.Render(v)
	assert.Equal(t, v.Status, textAt(screen, 0, 2, len(v.Status)))

	v = sampleView()
	v.Width, v.WinLength = 4, 3
	for r := range v.Grid {
		v.Grid[r] = append(v.Grid[r], 0)
	}
	term.Render(v)
	assert.Equal(t, "3 in a row wins", textAt(screen, 0, 2, 15))
}

// nextCommand skips idle ticks left by resize events.
func nextCommand(term *Terminal) types.Command {
	for i := 0; i < 5; i++ {
		if cmd := term.Next(context.Background()); cmd != types.Idle {
			return cmd
		}
	}
	return types.Idle
}

func TestTerminal_Next(t *testing.T) {
	term, screen := newSimTerminal(t, 5000)
	ctx := context.Background()

	screen.InjectKey(tcell.KeyRight, 0, tcell.ModNone)
	assert.Equal(t, types.MoveRight, nextCommand(term))

	screen.InjectKey(tcell.KeyRune, 'f', tcell.ModNone)
	assert.Equal(t, types.Confirm, nextCommand(term))

	screen.InjectKey(tcell.KeyRune, 'z', tcell.ModNone)
	assert.Equal(t, types.Idle, term.Next(ctx))
}

func TestTerminal_NextIdleTimeout(t *testing.T) {
	term, _ := newSimTerminal(t, 10)

	start := time.Now()
	assert.Equal(t, types.Idle, term.Next(context.Background()))
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestTerminal_NextCancelled(t *testing.T) {
	term, _ := newSimTerminal(t, 5000)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Equal(t, types.Quit, term.Next(ctx))
}

func TestTerminal_ShowOutcome(t *testing.T) {
	term, screen := newSimTerminal(t, 1000)
	term.Render(sampleView())

	done := make(chan struct{})
	go func() {
		term.ShowOutcome(context.Background(), types.PlayerWin)
		close(done)
	}()

	require.Eventually(t, func() bool {
		return textAt(screen, 0, 1, 8) == "You won!"
	}, time.Second, 5*time.Millisecond)

	screen.InjectKey(tcell.KeyRune, 'x', tcell.ModNone)
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("ShowOutcome did not return after a key press")
	}
}
