// Package notify shows a desktop notification when a new track starts.
package notify

import (
	"io"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/gen2brain/beeep"

	"github.com/tessro/groove/internal/core"
)

func init() {
	beeep.AppName = "groove"
}

// Notifier announces track changes. A disabled Notifier does nothing.
type Notifier struct {
	enabled bool
	send    func(title, message string) error
	logger  *log.Logger

	mu     sync.Mutex
	lastID string
}

// Option configures a Notifier.
type Option func(*Notifier)

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(n *Notifier) { n.logger = l }
}

// New creates a Notifier.
func New(enabled bool, opts ...Option) *Notifier {
	n := &Notifier{
		enabled: enabled,
		send: func(title, message string) error {
			return beeep.Notify(title, message, "")
		},
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// TrackStarted announces t. Repeating the same track is not announced again.
func (n *Notifier) TrackStarted(t core.Track) {
	if !n.enabled || t.ID == "" {
		return
	}

	n.mu.Lock()
	if n.lastID == t.ID {
		n.mu.Unlock()
		return
	}
	n.lastID = t.ID
	n.mu.Unlock()

	if err := n.send(t.DisplayTitle(), t.DisplayArtist()); err != nil {
		n.logger.Debug("notification failed", "err", err)
	}
}
