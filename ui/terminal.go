// Package ui draws the game in the terminal and reads key presses.
package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"

	"noughts-local/config"
	"noughts-local/game"
	"noughts-local/types"
)

const (
	boardLeft = 1
	boardTop  = 4
	// maxMessageLength is the width cleared before writing an outcome message.
	maxMessageLength = 40
)

var helpLines = []string{
	"Press [f] make a turn",
	"Use arrows to move",
	"Press [q] to quit",
	"Press [s] to save and quit",
}

// Terminal renders sessions on a tcell screen and turns key presses into
// commands. It implements game.Renderer and game.InputSource.
type Terminal struct {
	screen tcell.Screen
	events chan tcell.Event
	quit   chan struct{}
	idle   time.Duration
	theme  config.Theme
	styles boardStyles
}

type boardStyles struct {
	text    tcell.Style
	title   tcell.Style
	border  tcell.Style
	empty   tcell.Style
	noughts tcell.Style
	crosses tcell.Style
	cursor  tcell.Style
}

// NewTerminal initializes screen and starts reading its events.
func NewTerminal(screen tcell.Screen, c *config.Config) (*Terminal, error) {
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("failed to init screen: %w", err)
	}
	screen.HideCursor()

	t := &Terminal{
		screen: screen,
		events: make(chan tcell.Event),
		quit:   make(chan struct{}),
		idle:   c.IdleTimeout(),
	}
	t.SetTheme(c.Theme)

	go t.pump()
	return t, nil
}

// SetTheme changes colors and symbols for the next render.
func (t *Terminal) SetTheme(theme config.Theme) {
	colors := theme.Colors
	base := tcell.StyleDefault.Foreground(tcell.PaletteColor(colors.TextColor))
	board := tcell.StyleDefault.Background(tcell.PaletteColor(colors.BoardColor))
	cursor := board.Reverse(true)
	if theme.DrawCursorBackground {
		cursor = tcell.StyleDefault.
			Foreground(tcell.PaletteColor(colors.CursorColorFG)).
			Background(tcell.PaletteColor(colors.CursorColorBG))
	}
	t.theme = theme
	t.styles = boardStyles{
		text:    base,
		title:   base.Bold(true),
		border:  tcell.StyleDefault.Foreground(tcell.PaletteColor(colors.BorderColor)),
		empty:   board.Foreground(tcell.PaletteColor(colors.EmptyColor)),
		noughts: board.Foreground(tcell.PaletteColor(colors.NoughtsColor)),
		crosses: board.Foreground(tcell.PaletteColor(colors.CrossesColor)),
		cursor:  cursor,
	}
}

// pump forwards screen events until Close.
func (t *Terminal) pump() {
	for {
		ev := t.screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case t.events <- ev:
		case <-t.quit:
			return
		}
	}
}

// Close restores the terminal.
func (t *Terminal) Close() {
	close(t.quit)
	t.screen.Fini()
}

// Next implements game.InputSource. Resizes and unmapped keys count as idle
// so the caller redraws; a cancelled context reads as Quit.
func (t *Terminal) Next(ctx context.Context) types.Command {
	timer := time.NewTimer(t.idle)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return types.Quit
	case <-timer.C:
		return types.Idle
	case ev := <-t.events:
		switch ev := ev.(type) {
		case *tcell.EventKey:
			if cmd, ok := CommandForKey(ev); ok {
				return cmd
			}
		case *tcell.EventResize:
			t.screen.Sync()
		}
		return types.Idle
	}
}

// Render implements game.Renderer.
func (t *Terminal) Render(v game.View) {
	t.screen.Clear()

	drawText(t.screen, 0, 0, "Game of noughts and crosses", t.styles.title)
	drawText(t.screen, 0, 1, fmt.Sprintf("You are playing %s", v.HumanSide), t.styles.text)
	if v.Status != "" {
		drawText(t.screen, 0, 2, v.Status, t.styles.text)
	} else if v.WinLength != 3 || v.Height != v.Width {
		drawText(t.screen, 0, 2, fmt.Sprintf("%d in a row wins", v.WinLength), t.styles.text)
	}

	drawBox(t.screen, boardLeft, boardTop, v.Width*2+3, v.Height+2, t.styles.border)
	for r := 0; r < v.Height; r++ {
		for c := 0; c < v.Width; c++ {
			t.drawCell(v, types.Cell{Row: r, Col: c})
		}
	}

	helpTop := boardTop + v.Height + 3
	for i, line := range helpLines {
		drawText(t.screen, 0, helpTop+i, line, t.styles.text)
	}
	t.screen.Show()
}

// drawCell draws one 2-character cell; the cursor shows the human's symbol on free cells.
func (t *Terminal) drawCell(v game.View, cell types.Cell) {
	x, y := cellOrigin(cell)
	owner := v.Grid[cell.Row][cell.Col]

	r, style := t.theme.Symbols.Empty, t.styles.empty
	switch owner {
	case types.Noughts:
		r, style = v.Symbols.Noughts, t.styles.noughts
	case types.Crosses:
		r, style = v.Symbols.Crosses, t.styles.crosses
	}
	if cell == v.Cursor && !v.Outcome.Finished() {
		if owner == 0 {
			r = v.Symbols.For(v.HumanSide)
		}
		style = t.styles.cursor
	}
	drawStoneCell(t.screen, style, r, x, y)
}

// ShowOutcome implements game.Renderer. It blocks until a key is pressed.
func (t *Terminal) ShowOutcome(ctx context.Context, o types.Outcome) {
	for row := 0; row < 3; row++ {
		drawText(t.screen, 0, row, fmt.Sprintf("%-*s", maxMessageLength, ""), t.styles.text)
	}
	drawText(t.screen, 0, 1, o.Message(), t.styles.title)
	drawText(t.screen, 0, 2, "Press any key", t.styles.text)
	t.screen.Show()

	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-t.events:
			if _, ok := ev.(*tcell.EventKey); ok {
				return
			}
		}
	}
}

// cellOrigin returns the screen position of a board cell.
func cellOrigin(c types.Cell) (int, int) {
	return boardLeft + 2 + c.Col*2, boardTop + 1 + c.Row
}

// drawStoneCell draws a cell 2 characters wide.
func drawStoneCell(s tcell.Screen, style tcell.Style, r rune, x, y int) {
	s.SetContent(x, y, r, nil, style)
	s.SetContent(x+1, y, ' ', nil, style)
}

// drawBox draws a rounded border of the given outer size.
func drawBox(s tcell.Screen, x, y, width, height int, style tcell.Style) {
	for col := x + 1; col < x+width-1; col++ {
		s.SetContent(col, y, '─', nil, style)
		s.SetContent(col, y+height-1, '─', nil, style)
	}
	for row := y + 1; row < y+height-1; row++ {
		s.SetContent(x, row, '│', nil, style)
		s.SetContent(x+width-1, row, '│', nil, style)
	}
	s.SetContent(x, y, '╭', nil, style)
	s.SetContent(x+width-1, y, '╮', nil, style)
	s.SetContent(x, y+height-1, '╰', nil, style)
	s.SetContent(x+width-1, y+height-1, '╯', nil, style)
}

// drawText writes a string to the screen at the given position.
func drawText(screen tcell.Screen, x, y int, text string, style tcell.Style) {
	for i, ch := range []rune(text) {
		screen.SetContent(x+i, y, ch, nil, style)
	}
}
