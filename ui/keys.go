package ui

import (
	"unicode"

	"github.com/gdamore/tcell/v2"

	"noughts-local/types"
)

// CommandForKey maps a key press to a game command.
// The second result is false for keys that mean nothing in a game.
func CommandForKey(event *tcell.EventKey) (types.Command, bool) {
	switch event.Key() {
	case tcell.KeyUp:
		return types.MoveUp, true
	case tcell.KeyDown:
		return types.MoveDown, true
	case tcell.KeyLeft:
		return types.MoveLeft, true
	case tcell.KeyRight:
		return types.MoveRight, true
	case tcell.KeyEnter:
		return types.Confirm, true
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return types.Quit, true
	case tcell.KeyRune:
		switch unicode.ToLower(event.Rune()) {
		case 'k':
			return types.MoveUp, true
		case 'j':
			return types.MoveDown, true
		case 'h':
			return types.MoveLeft, true
		case 'l':
			return types.MoveRight, true
		case 'f', ' ':
			return types.Confirm, true
		case 's':
			return types.Save, true
		case 'q':
			return types.Quit, true
		}
	}
	return types.Idle, false
}
