package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("Default().Validate() error = %v", err)
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{Player: PlayerConfig{Volume: 0.5}}
	cfg.ApplyDefaults()

	if cfg.Auth.BaseURL != "http://localhost:3000" {
		t.Errorf("Auth.BaseURL = %q, want %q", cfg.Auth.BaseURL, "http://localhost:3000")
	}
	if cfg.Music.BaseURL != "http://localhost:3002" {
		t.Errorf("Music.BaseURL = %q, want %q", cfg.Music.BaseURL, "http://localhost:3002")
	}
	if cfg.Player.Volume != 0.5 {
		t.Errorf("Player.Volume = %v, want 0.5 (explicit value kept)", cfg.Player.Volume)
	}
	if len(cfg.Normalizer.IDFields) != 2 || cfg.Normalizer.IDFields[1] != "_id" {
		t.Errorf("Normalizer.IDFields = %v", cfg.Normalizer.IDFields)
	}
}

func TestLoadFrom(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[music]
base_url = "https://music.example.com"

[player]
volume = 0.4

[normalizer]
id_fields = ["trackId"]
url_fields = ["streamUrl"]
`
	if err := os.WriteFile(path, []byte(data), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if cfg.Music.BaseURL != "https://music.example.com" {
		t.Errorf("Music.BaseURL = %q", cfg.Music.BaseURL)
	}
	if cfg.Player.Volume != 0.4 {
		t.Errorf("Player.Volume = %v, want 0.4", cfg.Player.Volume)
	}
	if cfg.Normalizer.IDFields[0] != "trackId" || cfg.Normalizer.URLFields[0] != "streamUrl" {
		t.Errorf("Normalizer = %+v", cfg.Normalizer)
	}
	if cfg.Auth.BaseURL != "http://localhost:3000" {
		t.Errorf("Auth.BaseURL = %q, want default", cfg.Auth.BaseURL)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("GROOVE_AUTH_BASE_URL", "https://auth.example.com")
	t.Setenv("GROOVE_PLAYER_VOLUME", "0.25")
	t.Setenv("GROOVE_LOG_LEVEL", "debug")

	cfg := Default()
	applyEnvOverrides(cfg)

	if cfg.Auth.BaseURL != "https://auth.example.com" {
		t.Errorf("Auth.BaseURL = %q", cfg.Auth.BaseURL)
	}
	if cfg.Player.Volume != 0.25 {
		t.Errorf("Player.Volume = %v, want 0.25", cfg.Player.Volume)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want debug", cfg.Log.Level)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"volume too high", func(c *Config) { c.Player.Volume = 1.5 }, "player: volume"},
		{"tick too slow", func(c *Config) { c.Player.TickInterval = 1000 }, "tick_interval"},
		{"bad scheme", func(c *Config) { c.Music.BaseURL = "ftp://x" }, "music: invalid base_url"},
		{"empty field name", func(c *Config) { c.Normalizer.URLFields = []string{""} }, "normalizer"},
		{"bad theme", func(c *Config) { c.TUI.Theme = "neon" }, "invalid theme"},
		{"bad log level", func(c *Config) { c.Log.Level = "trace" }, "invalid log level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate() error = nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %q, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}
