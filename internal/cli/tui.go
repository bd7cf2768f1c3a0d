package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/tessro/groove/internal/config"
	"github.com/tessro/groove/internal/logging"
	"github.com/tessro/groove/internal/session"
	"github.com/tessro/groove/internal/tui"
)

var tuiRefresh int

var tuiCmd = &cobra.Command{
	Use:     "ui",
	Aliases: []string{"tui"},
	Short:   "Launch interactive player",
	Long: `Launch the interactive terminal player.

The dashboard provides:
  • Now Playing - current track, progress (click to seek), volume
  • Queue - the play queue; Enter jumps to a track
  • Library - songs and playlists, with fuzzy filtering
  • History - recently played tracks

Keyboard shortcuts:
  q, Ctrl+C    Quit
  ?            Help
  /            Filter library
  Space        Play/Pause
  n / p        Next / previous track
  ← / →        Seek
  + / -        Volume up/down
  m            Mute
  N            New playlist
  c            Copy track URL
  Tab          Switch panel`,
	RunE: runTUI,
}

func init() {
	tuiCmd.Flags().IntVar(&tuiRefresh, "refresh", 0, "Refresh interval in milliseconds (default from config)")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	// The dashboard owns the terminal; logs go to a file.
	if cfg.Log.File == "" {
		dir, err := config.Dir()
		if err != nil {
			return err
		}
		level := cfg.Log.Level
		if verbose {
			level = "debug"
		}
		logger, err = logging.New(logging.Options{Level: level, File: filepath.Join(dir, "groove.log")})
		if err != nil {
			return fmt.Errorf("failed to open log: %w", err)
		}
	}

	svc, err := newServices()
	if err != nil {
		return err
	}

	sess, err := session.Open(cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = sess.Close() }()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	sess.Start(ctx)
	followConfigVolume(ctx, sess)

	refresh := tuiRefresh
	if refresh <= 0 {
		refresh = cfg.TUI.RefreshInterval
	}

	opts := tui.Options{
		Player:       sess,
		Catalog:      svc.music,
		Account:      svc.auth,
		Watcher:      svc.store,
		Normalizer:   sess.Normalizer(),
		RefreshRate:  time.Duration(refresh) * time.Millisecond,
		HistoryLimit: cfg.History.Limit,
		Theme:        cfg.TUI.Theme,
		Logger:       logging.With(logger, "tui"),
	}
	if store := sess.History(); store != nil {
		opts.History = store
	}

	return tui.Run(opts)
}
