// noughts-local is a terminal game of noughts and crosses against a random opponent.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"noughts-local/config"
	"noughts-local/engine"
	"noughts-local/engine/random"
	"noughts-local/game"
	"noughts-local/save"
	"noughts-local/types"
	"noughts-local/ui"
)

// Version is set at build time via ldflags
var Version = "dev"

// Command-line flags
var (
	flagHeight     int
	flagWidth      int
	flagSide       string
	flagLoad       string
	flagQuickStart = flag.Bool("play", false, "Start game immediately, skipping the setup screen")
	flagInitConfig = flag.Bool("init-config", false, "Write the default config file and exit")
	flagVersion    = flag.Bool("version", false, "Print version and exit")
)

func init() {
	flag.IntVar(&flagHeight, "height", 0, "Number of rows on gameboard")
	flag.IntVar(&flagHeight, "h", 0, "Number of rows on gameboard (shorthand)")
	flag.IntVar(&flagWidth, "width", 0, "Number of columns on gameboard")
	flag.IntVar(&flagWidth, "w", 0, "Number of columns on gameboard (shorthand)")
	flag.StringVar(&flagSide, "side", "", "Player's side: can be n[oughts] or c[rosses], random if empty")
	flag.StringVar(&flagSide, "s", "", "Player's side (shorthand)")
	flag.StringVar(&flagLoad, "load", "", "Saved game slot or save file to resume")
	flag.StringVar(&flagLoad, "l", "", "Saved game slot or save file to resume (shorthand)")
}

var out = termenv.NewOutput(os.Stdout)

func main() {
	flag.Parse()

	if *flagVersion {
		fmt.Printf("noughts-local %s\n", Version)
		return
	}

	cfg, err := config.InitConfig()
	if err != nil {
		fail(err)
	}

	if *flagInitConfig {
		if err := cfg.Save(); err != nil {
			fail(err)
		}
		fmt.Println("Config written")
		return
	}

	logger, closeLog := initLogger(cfg)
	defer closeLog()

	if err := run(cfg, logger); err != nil {
		logger.Error("run failed", "error", err)
		closeLog()
		fail(err)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("noughts-local needs an interactive terminal")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	gameCfg, ok, err := chooseGame(ctx, cfg, store)
	if err != nil || !ok {
		return err
	}

	var saved *save.SavedGame
	if gameCfg.LoadSlot != "" {
		if saved, err = store.Load(ctx, gameCfg.LoadSlot); err != nil {
			return fmt.Errorf("could not resume %q: %w", gameCfg.LoadSlot, err)
		}
	}

	session, err := game.NewSession(game.SessionConfig{
		Height:    gameCfg.Height,
		Width:     gameCfg.Width,
		HumanSide: gameCfg.HumanSide,
		Symbols:   game.Symbols{Noughts: cfg.Theme.Symbols.Noughts, Crosses: cfg.Theme.Symbols.Crosses},
		Opponent:  random.NewSeeded(),
		Store:     store,
		Logger:    logger,
	}, saved)
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to open terminal: %w", err)
	}
	terminal, err := ui.NewTerminal(screen, cfg)
	if err != nil {
		return err
	}
	outcome, err := game.Run(ctx, session, terminal, terminal)
	terminal.Close()
	if err != nil {
		return err
	}

	printSummary(session, outcome)
	return nil
}

// chooseGame builds the game from flags when any were given, otherwise shows the setup screen.
func chooseGame(ctx context.Context, cfg *config.Config, store save.Store) (engine.GameConfig, bool, error) {
	gameCfg := engine.GameConfig{
		Height:   cfg.Game.Height,
		Width:    cfg.Game.Width,
		LoadSlot: flagLoad,
	}
	if flagHeight != 0 {
		gameCfg.Height = flagHeight
	}
	if flagWidth != 0 {
		gameCfg.Width = flagWidth
	}
	if gameCfg.Height < 1 || gameCfg.Width < 1 {
		return gameCfg, false, fmt.Errorf("board must be at least 1x1, got %dx%d", gameCfg.Height, gameCfg.Width)
	}
	if flagSide != "" {
		side, err := types.ParseSide(flagSide)
		if err != nil {
			return gameCfg, false, err
		}
		gameCfg.HumanSide = side
	}

	quickStart := *flagQuickStart || flagHeight != 0 || flagWidth != 0 || flagSide != "" || flagLoad != ""
	if !quickStart {
		saves, err := store.List(ctx)
		if err != nil {
			saves = nil
		}
		chosen, ok, err := ui.RunSetup(gameCfg, saves)
		if err != nil || !ok {
			return chosen, false, err
		}
		gameCfg = chosen
	}

	if gameCfg.HumanSide == 0 {
		gameCfg.HumanSide = types.RandomSide(rand.New(rand.NewSource(time.Now().UnixNano()))) //nolint: gosec // not security sensitive
	}
	return gameCfg, true, nil
}

// openStore returns the configured save store and a function releasing it.
func openStore(ctx context.Context, cfg *config.Config) (save.Store, func(), error) {
	if cfg.Storage.Backend == config.StorageRedis {
		store, err := save.DialRedis(ctx, cfg.Storage.RedisAddr)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { store.Close() }, nil
	}
	return save.NewFileStore(cfg.SaveDir()), func() {}, nil
}

// initLogger writes to the XDG state dir since the terminal belongs to the game.
func initLogger(cfg *config.Config) (*slog.Logger, func()) {
	var level slog.Level

	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	var w io.Writer = io.Discard
	closeFn := func() {}
	if path, err := config.LogFile(); err == nil {
		if f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644); err == nil {
			w = f
			closeFn = func() { f.Close() }
		}
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), closeFn
}

func printSummary(session *game.Session, outcome types.Outcome) {
	switch outcome {
	case types.Abandoned:
		fmt.Println(out.String("Game abandoned.").Faint())
	case types.SavingInProgress:
		fmt.Println(out.String(outcome.Message()).Foreground(out.Color("2")))
		fmt.Printf("Resume with: noughts-local -l %s\n", session.Slot())
	case types.PlayerWin:
		fmt.Println(out.String(outcome.Message()).Foreground(out.Color("2")).Bold())
	case types.AiWin:
		fmt.Println(out.String(outcome.Message()).Foreground(out.Color("1")))
	default:
		fmt.Println(out.String(outcome.Message()).Bold())
	}
}

func fail(err error) {
	msg := err.Error()
	switch {
	case errors.Is(err, save.ErrNotFound):
		msg += " (check the slot name or the save directory)"
	case errors.Is(err, save.ErrCorruptSave):
		msg += " (the save file cannot be resumed)"
	}
	fmt.Fprintln(os.Stderr, out.String("Error: "+msg).Foreground(out.Color("1")))
	os.Exit(1)
}
