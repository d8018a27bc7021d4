package config

var DefaultConfig Config
var DefaultTheme Theme

func init() {
	DefaultTheme = Theme{
		DrawCursorBackground: false,
		Colors: ConfigColors{
			BoardColor:    236,
			NoughtsColor:  109,
			CrossesColor:  174,
			EmptyColor:    240,
			CursorColorFG: 255,
			CursorColorBG: 60,
			BorderColor:   60,
			TextColor:     250,
		},
		Symbols: ConfigSymbols{
			Noughts: '◯',
			Crosses: 'X',
			Empty:   '·',
		},
	}

	DefaultConfig = Config{
		Theme: DefaultTheme,
		Game: GameDefaults{
			Height:        3,
			Width:         3,
			IdleTimeoutMs: 2000,
		},
		Storage: StorageConfig{
			Backend: StorageFile,
		},
		LogLevel: "info",
	}
}
