// Package logging builds the structured loggers shared by groove's packages.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configures a logger.
type Options struct {
	// Level is one of debug, info, warn, error. Empty means info.
	Level string
	// File, when set, receives log output through a rotating sink
	// instead of the console writer.
	File string
	// Writer is the console writer. Defaults to os.Stderr.
	Writer io.Writer
}

// New creates a [log.Logger] with timestamps enabled.
func New(opts Options) (*log.Logger, error) {
	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}

	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0700); err != nil {
			return nil, err
		}
		w = &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     28,
		}
	}

	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "groove",
	})
	l.SetLevel(ParseLevel(opts.Level))
	return l, nil
}

// ParseLevel maps a config level name to a [log.Level]. Unknown names map to info.
func ParseLevel(name string) log.Level {
	switch strings.ToLower(name) {
	case "debug":
		return log.DebugLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.New(io.Discard)
}

// With creates a child logger tagged with a component name.
func With(l *log.Logger, component string) *log.Logger {
	if l == nil {
		l = Discard()
	}
	return l.With("component", component)
}
