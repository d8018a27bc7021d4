package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"noughts-local/engine"
	"noughts-local/save"
	"noughts-local/types"
)

// maxBoardDim bounds the board size offered on the setup screen.
const maxBoardDim = 20

// GameSetupUI provides a form for configuring a new game or resuming a saved one.
// A zero HumanSide in the started config means the side should be drawn at random.
type GameSetupUI struct {
	form     *tview.Form
	flex     *tview.Flex
	winText  *tview.TextView
	onStart  func(engine.GameConfig)
	onCancel func()

	height int
	width  int
	side   types.Side
	slot   string
}

// NewGameSetup creates a new game setup form.
func NewGameSetup(defaults engine.GameConfig, saves []save.SlotInfo, onStart func(engine.GameConfig), onCancel func()) *GameSetupUI {
	setup := &GameSetupUI{
		onStart:  onStart,
		onCancel: onCancel,
		height:   defaults.Height,
		width:    defaults.Width,
		side:     defaults.HumanSide,
	}

	sides := []string{"Random", "Noughts (play first)", "Crosses (play second)"}
	slots := []string{"New game"}
	for _, s := range saves {
		slots = append(slots, SlotLabel(s))
	}

	form := tview.NewForm()

	form.AddInputField("Height", strconv.Itoa(setup.height), 4, tview.InputFieldInteger, func(text string) {
		setup.height = parseDim(text, setup.height)
		setup.updateWinText()
	})
	form.AddInputField("Width", strconv.Itoa(setup.width), 4, tview.InputFieldInteger, func(text string) {
		setup.width = parseDim(text, setup.width)
		setup.updateWinText()
	})

	form.AddDropDown("Your Side", sides, int(setup.side), func(option string, index int) {
		setup.side = types.Side(index) // 0=random, 1=noughts, 2=crosses
	})

	form.AddDropDown("Resume", slots, 0, func(option string, index int) {
		if index == 0 {
			setup.slot = ""
			return
		}
		setup.slot = saves[index-1].Slot
	})

	form.AddButton("Start Game", func() {
		onStart(setup.Config())
	})

	form.AddButton("Quit", func() {
		onCancel()
	})

	form.SetBorder(true)
	form.SetTitle(" Noughts and Crosses ")
	form.SetTitleAlign(tview.AlignCenter)
	form.SetBorderColor(MenuColors.Border)
	form.SetTitleColor(MenuColors.Title)
	form.SetLabelColor(MenuColors.Label)
	form.SetFieldBackgroundColor(MenuColors.FieldBG)
	form.SetButtonBackgroundColor(MenuColors.ButtonBG)
	form.SetButtonTextColor(MenuColors.ButtonText)

	helpText := tview.NewTextView().
		SetText("Tab/Shift+Tab: navigate fields  |  Arrow keys: change dropdown  |  Enter: confirm").
		SetTextAlign(tview.AlignCenter)
	helpText.SetTextColor(MenuColors.Hint)

	setup.winText = tview.NewTextView().SetTextAlign(tview.AlignCenter)
	setup.winText.SetTextColor(MenuColors.Label)
	setup.updateWinText()

	flex := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(form, 0, 1, true).
		AddItem(setup.winText, 1, 0, false).
		AddItem(helpText, 1, 0, false)

	setup.form = form
	setup.flex = flex
	return setup
}

// updateWinText shows how many in a row win on the chosen board.
func (s *GameSetupUI) updateWinText() {
	s.winText.SetText(fmt.Sprintf("%d in a row wins", s.Config().WinLength()))
}

// Config returns the game described by the form.
func (s *GameSetupUI) Config() engine.GameConfig {
	return engine.GameConfig{
		Height:    s.height,
		Width:     s.width,
		HumanSide: s.side,
		LoadSlot:  s.slot,
	}
}

// Form returns the flex container with form and help text.
func (s *GameSetupUI) Form() *tview.Flex {
	return s.flex
}

// SetInputCapture sets the input capture function for the form.
func (s *GameSetupUI) SetInputCapture(capture func(event *tcell.EventKey) *tcell.EventKey) {
	s.form.SetInputCapture(capture)
}

// RunSetup shows the setup form in its own application and returns the
// chosen game. ok is false when the player quit.
func RunSetup(defaults engine.GameConfig, saves []save.SlotInfo) (cfg engine.GameConfig, ok bool, err error) {
	app := tview.NewApplication()
	setup := NewGameSetup(defaults, saves,
		func(c engine.GameConfig) {
			cfg, ok = c, true
			app.Stop()
		},
		func() {
			app.Stop()
		},
	)
	setup.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyEscape {
			app.Stop()
			return nil
		}
		return event
	})

	if err := app.SetRoot(CreateCenteredForm(setup.Form(), 60), true).Run(); err != nil {
		return cfg, false, fmt.Errorf("setup screen: %w", err)
	}
	return cfg, ok, nil
}

// CreateCenteredForm creates a centered form container for the setup screen.
func CreateCenteredForm(form *tview.Flex, maxWidth int) *tview.Flex {
	centered := tview.NewFlex().SetDirection(tview.FlexColumn)
	centered.AddItem(nil, 0, 1, false)        // Left spacer
	centered.AddItem(form, maxWidth, 0, true) // Form with max width
	centered.AddItem(nil, 0, 1, false)        // Right spacer

	return centered
}

// SlotLabel describes a saved game in one line.
func SlotLabel(s save.SlotInfo) string {
	return fmt.Sprintf("%s  %dx%d  %s, %d moves", s.SavedAt.Format("Jan 02 15:04"), s.Height, s.Width, s.HumanSide, s.Moves)
}

func parseDim(text string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || n < 1 || n > maxBoardDim {
		return fallback
	}
	return n
}
