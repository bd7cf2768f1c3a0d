package cli

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/tessro/groove/internal/auth"
	"github.com/tessro/groove/internal/backend"
	"github.com/tessro/groove/internal/config"
	gerrors "github.com/tessro/groove/internal/errors"
	"github.com/tessro/groove/internal/logging"
	"github.com/tessro/groove/internal/music"
)

var (
	cfgFile string
	jsonOut bool
	verbose bool

	cfg    *config.Config
	logger *log.Logger
)

var rootCmd = &cobra.Command{
	Use:   "groove",
	Short: "Stream music from the terminal",
	Long:  `Groove is a terminal client for the groove music service: browse songs and playlists, manage your artist catalog, and play audio locally.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: ~/.grooverc)")
	rootCmd.PersistentFlags().BoolVarP(&jsonOut, "json", "j", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

func initConfig() error {
	var err error
	if cfgFile != "" {
		cfg, err = config.LoadFrom(cfgFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%w: %v", gerrors.ErrInvalidConfig, err)
	}

	level := cfg.Log.Level
	if verbose {
		level = "debug"
	}
	logger, err = logging.New(logging.Options{Level: level, File: cfg.Log.File})
	if err != nil {
		return fmt.Errorf("failed to open log: %w", err)
	}

	return nil
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, gerrors.Format(err))
		os.Exit(1)
	}
}

// Config returns the loaded configuration.
func Config() *config.Config {
	return cfg
}

// JSONOutput returns true if JSON output is requested.
func JSONOutput() bool {
	return jsonOut
}

// Verbose returns true if verbose output is requested.
func Verbose() bool {
	return verbose
}

// services are the backend clients a command needs. Both share one cookie
// jar and the persisted session.
type services struct {
	auth  *auth.Service
	music *music.Service
	store *backend.SessionStore
}

func newServices() (*services, error) {
	jar, err := backend.NewJar()
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	store, err := backend.NewSessionStore(cfg.Auth.SessionFile)
	if err != nil {
		return nil, err
	}

	timeout := backend.WithTimeout(secondsDuration(cfg.Music.Timeout))
	authClient := backend.New(cfg.Auth.BaseURL,
		backend.WithJar(jar),
		timeout,
		backend.WithLogger(logging.With(logger, "auth")),
	)
	authSvc := auth.NewService(authClient, store,
		auth.WithCookieURLs(cfg.Music.BaseURL),
		auth.WithLogger(logging.With(logger, "auth")),
	)

	musicClient := backend.New(cfg.Music.BaseURL,
		backend.WithJar(jar),
		timeout,
		backend.WithLogger(logging.With(logger, "music")),
		backend.WithBearer(authSvc.Token),
	)

	// Cookies from a previous login ride along on every request.
	_ = authSvc.Restore()

	return &services{
		auth:  authSvc,
		music: music.NewService(musicClient, music.WithLogger(logging.With(logger, "music"))),
		store: store,
	}, nil
}
