package config

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/ilyakaznacheev/cleanenv"
)

const appDir = "noughts-local"

var (
	cfgFile = appDir + "/config.json"
	logFile = appDir + "/noughts.log"
)

const (
	StorageFile  = "file"
	StorageRedis = "redis"
)

type InvalidConfig struct {
	err string
}

func (e *InvalidConfig) Error() string {
	return fmt.Sprintf("Config error: %s", e.err)
}

type ConfigColors struct {
	BoardColor    int `json:"board"`
	NoughtsColor  int `json:"noughts"`
	CrossesColor  int `json:"crosses"`
	EmptyColor    int `json:"empty"`
	CursorColorFG int `json:"cursor_fg"`
	CursorColorBG int `json:"cursor_bg"`
	BorderColor   int `json:"border"`
	TextColor     int `json:"text"`
}

type ConfigSymbols struct {
	Noughts rune `json:"noughts"`
	Crosses rune `json:"crosses"`
	Empty   rune `json:"empty"`
}

type Theme struct {
	DrawCursorBackground bool          `json:"draw_cursor_bg"`
	Colors               ConfigColors  `json:"colors"`
	Symbols              ConfigSymbols `json:"symbols"`
}

// GameDefaults holds settings used when flags leave them out.
type GameDefaults struct {
	Height        int `json:"default_height" env:"NOUGHTS_HEIGHT"`
	Width         int `json:"default_width" env:"NOUGHTS_WIDTH"`
	IdleTimeoutMs int `json:"idle_timeout_ms" env:"NOUGHTS_IDLE_TIMEOUT_MS"`
}

// StorageConfig selects where saved games live.
type StorageConfig struct {
	Backend   string `json:"backend" env:"NOUGHTS_STORAGE"`
	SaveDir   string `json:"save_dir" env:"NOUGHTS_SAVE_DIR"`
	RedisAddr string `json:"redis_addr" env:"NOUGHTS_REDIS_ADDR"`
}

type Config struct {
	Theme    Theme         `json:"theme"`
	Game     GameDefaults  `json:"game"`
	Storage  StorageConfig `json:"storage"`
	LogLevel string        `json:"log_level" env:"NOUGHTS_LOG_LEVEL"`
}

// InitConfig loads the config file from the XDG config dirs when present,
// then applies NOUGHTS_* environment overrides.
func InitConfig() (*Config, error) {
	absPath, err := xdg.SearchConfigFile(cfgFile)
	if err != nil {
		absPath = ""
	}
	return Load(absPath)
}

// Load reads the config at path on top of DefaultConfig. An empty path
// only applies environment overrides.
func Load(path string) (*Config, error) {
	config := DefaultConfig
	if path != "" {
		if err := cleanenv.ReadConfig(path, &config); err != nil {
			return nil, fmt.Errorf("unable to load config file: %w", err)
		}
	} else if err := cleanenv.ReadEnv(&config); err != nil {
		return nil, fmt.Errorf("unable to read environment: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) Validate() error {
	for _, r := range []rune{c.Theme.Symbols.Noughts, c.Theme.Symbols.Crosses, c.Theme.Symbols.Empty} {
		if r < 32 || (r >= 127 && r <= 159) {
			return &InvalidConfig{"Unicode characters 1-31 and 127-159 are not allowed"}
		}
	}
	if c.Theme.Symbols.Noughts == c.Theme.Symbols.Crosses {
		return &InvalidConfig{"noughts and crosses need different symbols"}
	}
	if c.Game.Height < 1 || c.Game.Width < 1 {
		return &InvalidConfig{fmt.Sprintf("board must be at least 1x1, got %dx%d", c.Game.Height, c.Game.Width)}
	}
	if c.Game.IdleTimeoutMs < 1 {
		return &InvalidConfig{"idle timeout must be positive"}
	}
	switch c.Storage.Backend {
	case StorageFile:
	case StorageRedis:
		if c.Storage.RedisAddr == "" {
			return &InvalidConfig{"redis storage needs redis_addr"}
		}
	default:
		return &InvalidConfig{fmt.Sprintf("unknown storage backend %q", c.Storage.Backend)}
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return &InvalidConfig{fmt.Sprintf("unknown log level %q", c.LogLevel)}
	}
	return nil
}

// IdleTimeout is how long input waits before reporting an idle tick.
func (c *Config) IdleTimeout() time.Duration {
	return time.Duration(c.Game.IdleTimeoutMs) * time.Millisecond
}

// SaveDir returns the directory for file saves, under the XDG data dir by default.
func (c *Config) SaveDir() string {
	if c.Storage.SaveDir != "" {
		return c.Storage.SaveDir
	}
	return filepath.Join(xdg.DataHome, appDir, "saves")
}

// LogFile returns the log file path, creating its directory.
func LogFile() (string, error) {
	return xdg.StateFile(logFile)
}

func (c *Config) Save() error {
	absPath, err := xdg.ConfigFile(cfgFile)
	if err != nil {
		return err
	}
	return saveCfgFile(absPath, c, 0664)
}

func saveCfgFile(filePath string, a interface{}, perm fs.FileMode) error {
	jsonData, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(filePath, jsonData, perm); err != nil {
		return fmt.Errorf("could not write config: %w", err)
	}
	return nil
}
