// Package session builds the one player context the CLI and TUI share: the
// queue engine, the playback surface, and the listeners that tie them to
// history and notifications.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tessro/groove/internal/config"
	"github.com/tessro/groove/internal/core"
	"github.com/tessro/groove/internal/history"
	"github.com/tessro/groove/internal/logging"
	"github.com/tessro/groove/internal/normalize"
	"github.com/tessro/groove/internal/notify"
	"github.com/tessro/groove/internal/playback"
	"github.com/tessro/groove/internal/queue"
	"github.com/tessro/groove/internal/uistate"
)

// Recorder stores played tracks.
type Recorder interface {
	Record(core.Track) error
}

// Announcer tells the user a track started.
type Announcer interface {
	TrackStarted(core.Track)
}

// Session is the player context.
type Session struct {
	engine     *queue.Engine
	surface    *playback.Surface
	normalizer *normalize.Normalizer
	flags      *uistate.Flags
	history    *history.Store
	recorder   Recorder
	announcer  Announcer
	logger     *log.Logger

	unsubscribe func()

	plays    chan core.Track
	stopPlay context.CancelFunc
	played   chan struct{}
}

// playBacklog bounds the tracks waiting to be recorded and announced.
const playBacklog = 32

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// WithRecorder records every track that becomes current.
func WithRecorder(r Recorder) Option {
	return func(s *Session) { s.recorder = r }
}

// WithAnnouncer announces every track that becomes current.
func WithAnnouncer(a Announcer) Option {
	return func(s *Session) { s.announcer = a }
}

var _ core.Player = (*Session)(nil)

// New wires engine and surface together: each track the engine emits is
// loaded by the surface, and a natural end advances the engine.
func New(engine *queue.Engine, surface *playback.Surface, n *normalize.Normalizer, opts ...Option) *Session {
	if n == nil {
		n = normalize.Default()
	}
	s := &Session{
		engine:     engine,
		surface:    surface,
		normalizer: n,
		logger:     log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.flags == nil {
		s.flags = uistate.New()
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.plays = make(chan core.Track, playBacklog)
	s.stopPlay = cancel
	s.played = make(chan struct{})
	go s.runPlays(ctx)

	s.unsubscribe = engine.Subscribe(s.onTrack)
	surface.SetOnEnded(func() {
		s.logger.Debug("track ended, advancing")
		engine.PlayNext()
	})
	return s
}

// Open builds a session from configuration with real audio output,
// play history, and notifications.
func Open(cfg *config.Config, logger *log.Logger) (*Session, error) {
	if logger == nil {
		logger = logging.Discard()
	}

	fetcher, err := playback.NewFetcher(&http.Client{Timeout: 5 * time.Minute}, cfg.Player.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create audio fetcher: %w", err)
	}

	surface := playback.NewSurface(
		playback.NewSpeakerAudio(fetcher),
		playback.WithLogger(logging.With(logger, "playback")),
		playback.WithVolume(cfg.Player.Volume),
		playback.WithTickInterval(time.Duration(cfg.Player.TickInterval)*time.Millisecond),
	)

	n := normalize.New(cfg.Normalizer.IDFields, cfg.Normalizer.URLFields)
	engine := queue.New(n, queue.WithLogger(logging.With(logger, "queue")))

	opts := []Option{
		WithLogger(logging.With(logger, "session")),
		WithAnnouncer(notify.New(cfg.Player.Notify, notify.WithLogger(logger))),
	}

	store, err := openHistory(cfg.History.Path)
	if err != nil {
		logger.Warn("play history unavailable", "err", err)
	} else {
		opts = append(opts, WithRecorder(store))
	}

	s := New(engine, surface, n, opts...)
	s.history = store
	return s, nil
}

func openHistory(path string) (*history.Store, error) {
	if path == "" {
		dir, err := config.Dir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(dir, history.DefaultFileName)
	}
	return history.Open(path)
}

func (s *Session) onTrack(t core.Track) {
	s.surface.SetTrack(t)

	if s.recorder == nil && s.announcer == nil {
		return
	}
	select {
	case s.plays <- t:
	default:
		s.logger.Warn("play backlog full, dropping", "id", t.ID)
	}
}

// runPlays records and announces tracks off the engine's emit path. Tracks
// still queued when Close is called are handled before it returns.
func (s *Session) runPlays(ctx context.Context) {
	defer close(s.played)
	for {
		select {
		case <-ctx.Done():
			for {
				select {
				case t := <-s.plays:
					s.handlePlay(t)
				default:
					return
				}
			}
		case t := <-s.plays:
			s.handlePlay(t)
		}
	}
}

func (s *Session) handlePlay(t core.Track) {
	if s.recorder != nil {
		if err := s.recorder.Record(t); err != nil {
			s.logger.Warn("failed to record play", "id", t.ID, "err", err)
		}
	}
	if s.announcer != nil {
		s.announcer.TrackStarted(t)
	}
}

// Start begins position reporting.
func (s *Session) Start(ctx context.Context) {
	s.surface.Start(ctx)
}

// Close stops playback and releases resources.
func (s *Session) Close() error {
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
	s.stopPlay()
	<-s.played

	var errs []error
	errs = append(errs, s.surface.Close())
	if s.history != nil {
		errs = append(errs, s.history.Close())
	}
	return errors.Join(errs...)
}

// PlayTrack replaces the queue with list and plays track.
func (s *Session) PlayTrack(track map[string]any, list []map[string]any) {
	s.engine.PlayTrack(track, list)
}

// PlayTracks plays the i-th of tracks with tracks as the queue.
func (s *Session) PlayTracks(tracks []core.Track, i int) {
	if i < 0 || i >= len(tracks) {
		return
	}
	list := s.normalizer.FromTracks(tracks)
	s.engine.PlayTrack(list[i], list)
}

// PlayNext advances the queue.
func (s *Session) PlayNext() { s.engine.PlayNext() }

// PlayPrevious goes back in the queue.
func (s *Session) PlayPrevious() { s.engine.PlayPrevious() }

// Jump plays the queue entry at i.
func (s *Session) Jump(i int) { s.engine.Jump(i) }

// Queue returns a snapshot of the queue.
func (s *Session) Queue() core.Queue { return s.engine.Queue() }

// CurrentTrack returns the track in play, if any.
func (s *Session) CurrentTrack() (core.Track, bool) { return s.engine.Current() }

// TogglePlayPause plays or pauses.
func (s *Session) TogglePlayPause() { s.surface.TogglePlayPause() }

// SeekTo seeks to seconds.
func (s *Session) SeekTo(seconds float64) { s.surface.SeekTo(seconds) }

// SeekFraction seeks to a fraction of the track.
func (s *Session) SeekFraction(fraction float64) { s.surface.SeekFraction(fraction) }

// SeekBy moves the position by delta seconds.
func (s *Session) SeekBy(delta float64) {
	st := s.surface.State()
	s.surface.SeekTo(st.Position + delta)
}

// SetVolume sets the volume and unmutes.
func (s *Session) SetVolume(v float64) { s.surface.SetVolume(v) }

// SyncVolume applies a volume that did not come from the user, such as an
// edited config file. Mute is left alone.
func (s *Session) SyncVolume(v float64) { s.surface.SyncVolume(v) }

// ToggleMute mutes or unmutes.
func (s *Session) ToggleMute() { s.surface.ToggleMute() }

// State returns a snapshot of the playback state.
func (s *Session) State() core.PlaybackState { return s.surface.State() }

// Subscribe registers fn for playback state changes.
func (s *Session) Subscribe(fn func(core.PlaybackState)) func() {
	return s.surface.Subscribe(fn)
}

// SubscribeTrack registers fn for every track that becomes current.
func (s *Session) SubscribeTrack(fn func(core.Track)) func() {
	return s.engine.Subscribe(fn)
}

// Flags returns the UI flag register.
func (s *Session) Flags() *uistate.Flags { return s.flags }

// History returns the play history, or nil when it could not be opened.
func (s *Session) History() *history.Store { return s.history }

// Normalizer returns the record normalizer the queue uses.
func (s *Session) Normalizer() *normalize.Normalizer { return s.normalizer }
