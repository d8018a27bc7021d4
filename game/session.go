package game

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"noughts-local/engine"
	"noughts-local/save"
	"noughts-local/types"
)

var ErrSaveFailed = errors.New("save failed")

// TurnOwner says who moves next.
type TurnOwner int

const (
	HumanToMove TurnOwner = iota
	AiToMove
)

func (t TurnOwner) String() string {
	if t == AiToMove {
		return "ai"
	}
	return "human"
}

// Symbols are the glyphs drawn for each side.
type Symbols struct {
	Noughts rune
	Crosses rune
}

// For returns the glyph of side.
func (s Symbols) For(side types.Side) rune {
	if side == types.Noughts {
		return s.Noughts
	}
	return s.Crosses
}

// SessionConfig holds everything a session needs at construction.
type SessionConfig struct {
	Height    int
	Width     int
	HumanSide types.Side
	Symbols   Symbols
	Opponent  engine.Opponent
	Store     save.Store
	Logger    *slog.Logger
	Now       func() time.Time
}

// Session sequences turns between the human and the computer.
// It is not safe for concurrent use; a single game loop owns it.
type Session struct {
	cfg     SessionConfig
	board   *Board
	cursor  types.Cell
	turn    TurnOwner
	outcome types.Outcome
	status  string
	slot    string
	log     *slog.Logger
}

// NewSession creates a session on an empty board, or on the board of saved
// when it is non-nil. A saved game dictates dimensions and the human's side.
func NewSession(cfg SessionConfig, saved *save.SavedGame) (*Session, error) {
	if cfg.Opponent == nil {
		return nil, errors.New("session needs an opponent")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	var board *Board
	if saved != nil {
		var err error
		if board, err = RestoreBoard(saved); err != nil {
			return nil, err
		}
		cfg.Height, cfg.Width, cfg.HumanSide = saved.Height, saved.Width, saved.HumanSide
	} else {
		if cfg.Height < 1 || cfg.Width < 1 {
			return nil, fmt.Errorf("board must be at least 1x1, got %dx%d", cfg.Height, cfg.Width)
		}
		board = NewBoard(cfg.Height, cfg.Width)
	}
	if cfg.HumanSide != types.Noughts && cfg.HumanSide != types.Crosses {
		return nil, fmt.Errorf("%w: %d", types.ErrUnknownSide, int(cfg.HumanSide))
	}

	s := &Session{
		cfg:    cfg,
		board:  board,
		cursor: types.Cell{Row: min(1, board.Height()-1), Col: min(1, board.Width()-1)},
		log:    cfg.Logger,
	}

	// Noughts always moves first.
	noughtsToMove := len(board.noughts) == len(board.crosses)
	if noughtsToMove == (cfg.HumanSide == types.Noughts) {
		s.turn = HumanToMove
	} else {
		s.turn = AiToMove
	}
	return s, nil
}

// RestoreBoard rebuilds a board from a saved game. A board on which either
// side already holds a winning run is rejected with save.ErrCorruptSave.
func RestoreBoard(saved *save.SavedGame) (*Board, error) {
	if err := saved.Validate(); err != nil {
		return nil, err
	}
	b := NewBoard(saved.Height, saved.Width)
	for _, group := range []struct {
		side  types.Side
		cells []types.Cell
	}{{types.Noughts, saved.Noughts}, {types.Crosses, saved.Crosses}} {
		for _, c := range group.cells {
			won, err := b.ApplyMove(c, group.side)
			if err != nil {
				return nil, fmt.Errorf("%w: %w", save.ErrCorruptSave, err)
			}
			// A finished game is never saved.
			if won {
				return nil, fmt.Errorf("%w: %s already has %d in a row", save.ErrCorruptSave, group.side, b.WinLength())
			}
		}
	}
	return b, nil
}

// Board exposes the board for inspection.
func (s *Session) Board() *Board { return s.board }

// Cursor returns the selected cell.
func (s *Session) Cursor() types.Cell { return s.cursor }

// Turn returns who moves next.
func (s *Session) Turn() TurnOwner { return s.turn }

// Outcome returns the session result so far.
func (s *Session) Outcome() types.Outcome { return s.outcome }

// Slot returns the slot written by a save command, if any.
func (s *Session) Slot() string { return s.slot }

// HumanSide returns the side played by the human.
func (s *Session) HumanSide() types.Side { return s.cfg.HumanSide }

// Start plays the computer's opening move when it holds noughts.
func (s *Session) Start() (types.Outcome, error) {
	s.log.Info("session started",
		"height", s.board.Height(), "width", s.board.Width(),
		"win_length", s.board.WinLength(), "human", s.cfg.HumanSide.String(), "turn", s.turn.String())

	if s.board.IsFull() {
		s.finish(types.Nobody)
		return s.outcome, nil
	}
	if s.turn == AiToMove {
		if err := s.aiMove(); err != nil {
			return s.outcome, err
		}
	}
	return s.outcome, nil
}

// Handle resolves one command. Once the session is over all commands are ignored.
func (s *Session) Handle(ctx context.Context, cmd types.Command) (types.Outcome, error) {
	if s.outcome.Finished() {
		return s.outcome, nil
	}

	switch cmd {
	case types.MoveUp:
		s.moveCursor(-1, 0)
	case types.MoveDown:
		s.moveCursor(1, 0)
	case types.MoveLeft:
		s.moveCursor(0, -1)
	case types.MoveRight:
		s.moveCursor(0, 1)
	case types.Confirm:
		return s.outcome, s.confirm()
	case types.Save:
		return s.outcome, s.save(ctx)
	case types.Quit:
		s.finish(types.Abandoned)
	}
	return s.outcome, nil
}

func (s *Session) moveCursor(dr, dc int) {
	next := s.cursor.Add(dr, dc)
	if s.board.InBounds(next) {
		s.cursor = next
	}
}

func (s *Session) confirm() error {
	if s.turn != HumanToMove || !s.board.IsFree(s.cursor) {
		return nil
	}
	s.status = ""

	won, err := s.board.ApplyMove(s.cursor, s.cfg.HumanSide)
	if err != nil {
		return err
	}
	s.log.Debug("human move", "cell", s.cursor.String(), "side", s.cfg.HumanSide.String())
	s.resolve(won, types.PlayerWin)

	if !s.outcome.Finished() && s.turn == AiToMove {
		return s.aiMove()
	}
	return nil
}

func (s *Session) aiMove() error {
	side := s.cfg.HumanSide.Opponent()
	cell, err := s.cfg.Opponent.ChooseMove(s.board.Free())
	if err != nil {
		return fmt.Errorf("opponent move: %w", err)
	}
	won, err := s.board.ApplyMove(cell, side)
	if err != nil {
		return fmt.Errorf("opponent move: %w", err)
	}
	s.log.Debug("ai move", "cell", cell.String(), "side", side.String())
	s.resolve(won, types.AiWin)
	return nil
}

// resolve ends the session on a win or a full board, otherwise passes the turn.
func (s *Session) resolve(won bool, win types.Outcome) {
	switch {
	case won:
		s.finish(win)
	case s.board.IsFull():
		s.finish(types.Nobody)
	case s.turn == HumanToMove:
		s.turn = AiToMove
	default:
		s.turn = HumanToMove
	}
}

func (s *Session) finish(o types.Outcome) {
	s.outcome = o
	s.log.Info("session finished", "outcome", o.String(), "moves", s.board.Height()*s.board.Width()-len(s.board.free))
}

// Snapshot freezes the current board into a saved game.
func (s *Session) Snapshot() save.SavedGame {
	return save.SavedGame{
		Height:    s.board.Height(),
		Width:     s.board.Width(),
		HumanSide: s.cfg.HumanSide,
		Noughts:   s.board.Occupied(types.Noughts),
		Crosses:   s.board.Occupied(types.Crosses),
		SavedAt:   s.cfg.Now(),
	}
}

func (s *Session) save(ctx context.Context) error {
	if s.cfg.Store == nil {
		s.status = "Saving is not available"
		return fmt.Errorf("%w: no store configured", ErrSaveFailed)
	}
	slot, err := s.cfg.Store.Save(ctx, s.Snapshot())
	if err != nil {
		s.status = "Could not save the game"
		return fmt.Errorf("%w: %w", ErrSaveFailed, err)
	}
	s.slot = slot
	s.log.Info("game saved", "slot", slot)
	s.finish(types.SavingInProgress)
	return nil
}

// View is a read-only picture of the session for renderers.
type View struct {
	Height    int
	Width     int
	Grid      [][]types.Side // Grid[row][col], 0 for a free cell
	Cursor    types.Cell
	HumanSide types.Side
	Symbols   Symbols
	WinLength int
	Turn      TurnOwner
	Outcome   types.Outcome
	Status    string
}

// View captures the current state.
func (s *Session) View() View {
	grid := make([][]types.Side, s.board.Height())
	for r := range grid {
		grid[r] = make([]types.Side, s.board.Width())
		for c := range grid[r] {
			grid[r][c] = s.board.Owner(types.Cell{Row: r, Col: c})
		}
	}
	return View{
		Height:    s.board.Height(),
		Width:     s.board.Width(),
		Grid:      grid,
		Cursor:    s.cursor,
		HumanSide: s.cfg.HumanSide,
		Symbols:   s.cfg.Symbols,
		WinLength: s.board.WinLength(),
		Turn:      s.turn,
		Outcome:   s.outcome,
		Status:    s.status,
	}
}
