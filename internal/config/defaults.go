package config

// Default returns a Config populated with sensible defaults.
func Default() *Config {
	return &Config{
		Auth: AuthConfig{
			BaseURL: "http://localhost:3000",
		},
		Music: MusicConfig{
			BaseURL: "http://localhost:3002",
			Timeout: 30,
		},
		Player: PlayerConfig{
			Volume:       0.78,
			TickInterval: 200,
			CacheSize:    8,
		},
		Normalizer: NormalizerConfig{
			IDFields:  []string{"id", "_id"},
			URLFields: []string{"songUrl", "musicUrl"},
		},
		Tail: TailConfig{
			Interval: 500,
		},
		TUI: TUIConfig{
			Theme:           "auto",
			RefreshInterval: 1000,
		},
		History: HistoryConfig{
			Limit: 50,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// ApplyDefaults fills in zero values with sensible defaults.
func (c *Config) ApplyDefaults() {
	d := Default()

	// Services
	if c.Auth.BaseURL == "" {
		c.Auth.BaseURL = d.Auth.BaseURL
	}
	if c.Music.BaseURL == "" {
		c.Music.BaseURL = d.Music.BaseURL
	}
	if c.Music.Timeout == 0 {
		c.Music.Timeout = d.Music.Timeout
	}

	// Player
	if c.Player.Volume == 0 {
		c.Player.Volume = d.Player.Volume
	}
	if c.Player.TickInterval == 0 {
		c.Player.TickInterval = d.Player.TickInterval
	}
	if c.Player.CacheSize == 0 {
		c.Player.CacheSize = d.Player.CacheSize
	}

	// Normalizer
	if len(c.Normalizer.IDFields) == 0 {
		c.Normalizer.IDFields = d.Normalizer.IDFields
	}
	if len(c.Normalizer.URLFields) == 0 {
		c.Normalizer.URLFields = d.Normalizer.URLFields
	}

	// Tail
	if c.Tail.Interval == 0 {
		c.Tail.Interval = d.Tail.Interval
	}

	// TUI
	if c.TUI.Theme == "" {
		c.TUI.Theme = d.TUI.Theme
	}
	if c.TUI.RefreshInterval == 0 {
		c.TUI.RefreshInterval = d.TUI.RefreshInterval
	}

	// History
	if c.History.Limit == 0 {
		c.History.Limit = d.History.Limit
	}

	// Log
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
}
