package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads configuration from standard locations with environment overrides.
// Search order: ~/.grooverc, $XDG_CONFIG_HOME/groove/config.toml, ~/.config/groove/config.toml.
// A .env file in the working directory is read before environment overrides apply.
func Load() (*Config, error) {
	cfg := &Config{}

	path := FindConfigFile()
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, err
		}
	}

	cfg.ApplyDefaults()
	loadDotEnv()
	applyEnvOverrides(cfg)

	return cfg, nil
}

// LoadFrom reads configuration from a specific file path.
func LoadFrom(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	loadDotEnv()
	applyEnvOverrides(cfg)
	return cfg, nil
}

// FindConfigFile returns the first existing config file path.
func FindConfigFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	paths := []string{
		filepath.Join(home, ".grooverc"),
	}

	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig == "" {
		xdgConfig = filepath.Join(home, ".config")
	}
	paths = append(paths, filepath.Join(xdgConfig, "groove", "config.toml"))

	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}

// Dir returns the directory groove keeps its state in.
func Dir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "groove"), nil
}

// loadDotEnv reads .env without overriding variables already set.
func loadDotEnv() {
	if _, err := os.Stat(".env"); err == nil {
		_ = godotenv.Load(".env")
	}
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(cfg *Config) {
	// Services
	if v := os.Getenv("GROOVE_AUTH_BASE_URL"); v != "" {
		cfg.Auth.BaseURL = v
	}
	if v := os.Getenv("GROOVE_MUSIC_BASE_URL"); v != "" {
		cfg.Music.BaseURL = v
	}

	// Player
	if v := os.Getenv("GROOVE_PLAYER_VOLUME"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Player.Volume = f
		}
	}
	if v := os.Getenv("GROOVE_PLAYER_NOTIFY"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Player.Notify = b
		}
	}

	// TUI
	if v := os.Getenv("GROOVE_TUI_THEME"); v != "" {
		cfg.TUI.Theme = v
	}

	// History
	if v := os.Getenv("GROOVE_HISTORY_PATH"); v != "" {
		cfg.History.Path = v
	}

	// Log
	if v := os.Getenv("GROOVE_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("GROOVE_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
}
