package config

// Config is the root configuration structure.
type Config struct {
	Auth       AuthConfig       `toml:"auth"`
	Music      MusicConfig      `toml:"music"`
	Player     PlayerConfig     `toml:"player"`
	Normalizer NormalizerConfig `toml:"normalizer"`
	Tail       TailConfig       `toml:"tail"`
	TUI        TUIConfig        `toml:"tui"`
	History    HistoryConfig    `toml:"history"`
	Log        LogConfig        `toml:"log"`
}

// AuthConfig holds auth service settings.
type AuthConfig struct {
	BaseURL     string `toml:"base_url"`
	SessionFile string `toml:"session_file"`
}

// MusicConfig holds music service settings.
type MusicConfig struct {
	BaseURL string `toml:"base_url"`
	Timeout int    `toml:"timeout"`
}

// PlayerConfig holds local playback settings.
type PlayerConfig struct {
	Volume       float64 `toml:"volume"`
	TickInterval int     `toml:"tick_interval"`
	CacheSize    int     `toml:"cache_size"`
	Notify       bool    `toml:"notify"`
}

// NormalizerConfig lists the backend field names recognized for songs.
type NormalizerConfig struct {
	IDFields  []string `toml:"id_fields"`
	URLFields []string `toml:"url_fields"`
}

// TailConfig holds settings for the headless event stream.
type TailConfig struct {
	Interval int `toml:"interval"`
}

// TUIConfig holds terminal UI settings.
type TUIConfig struct {
	Theme           string `toml:"theme"`
	RefreshInterval int    `toml:"refresh_interval"`
}

// HistoryConfig holds play history settings.
type HistoryConfig struct {
	Path  string `toml:"path"`
	Limit int    `toml:"limit"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}
