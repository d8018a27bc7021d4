package ui

import "github.com/gdamore/tcell/v2"

// MenuColors defines the Nord-inspired color palette for the setup screen.
var MenuColors = struct {
	Border     tcell.Color // Muted blue-gray for borders
	Title      tcell.Color // Bright white for title
	Label      tcell.Color // Light gray for labels
	Hint       tcell.Color // Dim gray for hints
	ButtonBG   tcell.Color // Button background
	ButtonText tcell.Color // Button text
	FieldBG    tcell.Color // Input field background
}{
	Border:     tcell.PaletteColor(60),
	Title:      tcell.PaletteColor(255),
	Label:      tcell.PaletteColor(250),
	Hint:       tcell.PaletteColor(245),
	ButtonBG:   tcell.PaletteColor(60),
	ButtonText: tcell.PaletteColor(255),
	FieldBG:    tcell.PaletteColor(238),
}
