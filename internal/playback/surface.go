// Package playback keeps one audio primitive in sync with the current track.
package playback

import (
	"context"
	"io"
	"math"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/samber/lo"
	"github.com/tessro/groove/internal/core"
)

const (
	// DefaultVolume is the initial volume.
	DefaultVolume = 0.78

	// DefaultTickInterval is how often position is refreshed while playing.
	DefaultTickInterval = 200 * time.Millisecond

	maxTickInterval = 250 * time.Millisecond
)

// Surface owns "where in the track we are and whether audio flows".
type Surface struct {
	audio   Audio
	logger  *log.Logger
	tick    time.Duration
	onEnded func()

	mu         sync.Mutex
	state      core.PlaybackState
	generation uint64
	loaded     bool
	autoplay   bool
	cancelLoad context.CancelFunc

	subMu   sync.Mutex
	subs    []stateSubscriber
	nextSub uint64

	stop     context.CancelFunc
	stopOnce sync.Once
}

type stateSubscriber struct {
	id uint64
	fn func(core.PlaybackState)
}

// Option configures a Surface.
type Option func(*Surface)

// WithLogger sets the logger used for swallowed playback errors.
func WithLogger(l *log.Logger) Option {
	return func(s *Surface) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithVolume sets the initial volume.
func WithVolume(v float64) Option {
	return func(s *Surface) {
		s.state.Volume = clampVolume(v)
	}
}

// WithTickInterval sets the position refresh interval, capped at 250ms.
func WithTickInterval(d time.Duration) Option {
	return func(s *Surface) {
		if d > 0 {
			s.tick = min(d, maxTickInterval)
		}
	}
}

// OnEnded sets the hook run after a track plays to its natural end.
func OnEnded(fn func()) Option {
	return func(s *Surface) {
		s.onEnded = fn
	}
}

// NewSurface creates a surface over audio.
func NewSurface(audio Audio, opts ...Option) *Surface {
	s := &Surface{
		audio:  audio,
		logger: log.New(io.Discard),
		tick:   DefaultTickInterval,
		state: core.PlaybackState{
			Status: core.StatusIdle,
			Volume: DefaultVolume,
		},
		cancelLoad: func() {},
		stop:       func() {},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.audio.SetVolume(s.state.EffectiveVolume())
	return s
}

// SetOnEnded replaces the end-of-track hook.
func (s *Surface) SetOnEnded(fn func()) {
	s.mu.Lock()
	s.onEnded = fn
	s.mu.Unlock()
}

// Start refreshes position while playing until ctx is done or Close is called.
func (s *Surface) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	s.mu.Lock()
	s.stop = cancel
	s.mu.Unlock()

	go func() {
		ticker := time.NewTicker(s.tick)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.refreshPosition()
			}
		}
	}()
}

// Close stops the ticker and releases the audio primitive.
func (s *Surface) Close() error {
	var err error
	s.stopOnce.Do(func() {
		s.mu.Lock()
		s.stop()
		s.cancelLoad()
		s.generation++
		s.audio.Unload()
		s.mu.Unlock()
		err = s.audio.Close()
	})
	return err
}

// SetTrack reacts to a new current track: load it and try to play it.
// A track without a playable URL leaves the surface idle and inert.
func (s *Surface) SetTrack(t core.Track) {
	s.mu.Lock()
	s.generation++
	gen := s.generation
	s.cancelLoad()
	s.cancelLoad = func() {}

	s.audio.Unload()
	s.loaded = false
	track := t
	s.state.Track = &track
	s.state.Position = 0
	s.state.Duration = 0

	if !t.Playable() {
		s.state.Status = core.StatusIdle
		s.autoplay = false
		s.mu.Unlock()
		s.logger.Debug("track has no audio source", "id", t.ID)
		s.publish()
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancelLoad = cancel
	s.state.Status = core.StatusLoading
	s.autoplay = true
	s.mu.Unlock()

	s.publish()
	go s.load(ctx, gen, t.PlayableURL)
}

func (s *Surface) load(ctx context.Context, gen uint64, url string) {
	src, err := s.audio.Open(ctx, url)

	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		if src != nil {
			_ = src.Close()
		}
		return
	}

	if err != nil {
		s.state.Status = core.StatusPaused
		s.mu.Unlock()
		s.logger.Warn("failed to load audio", "url", url, "err", err)
		s.publish()
		return
	}

	s.state.Duration = sanitizeSeconds(s.audio.Load(src, s.endedHandler(gen)))
	s.loaded = true
	if s.autoplay {
		s.startLocked(url)
	} else {
		s.state.Status = core.StatusPaused
	}
	s.mu.Unlock()

	s.publish()
}

// startLocked asks the audio to play; rejections leave the surface paused.
func (s *Surface) startLocked(url string) {
	if err := s.audio.Play(); err != nil {
		s.state.Status = core.StatusPaused
		s.logger.Warn("playback start rejected", "url", url, "err", err)
		return
	}
	s.state.Status = core.StatusPlaying
}

func (s *Surface) endedHandler(gen uint64) func() {
	return func() {
		s.mu.Lock()
		if gen != s.generation || s.state.Status == core.StatusEnded {
			s.mu.Unlock()
			return
		}
		s.state.Status = core.StatusEnded
		s.state.Position = s.state.Duration
		hook := s.onEnded
		s.mu.Unlock()

		s.publish()
		if hook != nil {
			hook()
		}
	}
}

// TogglePlayPause pauses when playing, otherwise tries to play.
func (s *Surface) TogglePlayPause() {
	s.mu.Lock()
	if s.state.Track == nil || !s.state.Track.Playable() {
		s.mu.Unlock()
		return
	}

	switch {
	case s.state.Status == core.StatusPlaying:
		s.audio.Pause()
		s.state.Position = sanitizeSeconds(s.audio.Position())
		s.state.Status = core.StatusPaused
	case s.state.Status == core.StatusLoading:
		s.autoplay = !s.autoplay
	case !s.loaded:
		// The previous load failed; retry it.
		track := *s.state.Track
		s.mu.Unlock()
		s.SetTrack(track)
		return
	default:
		if s.state.Status == core.StatusEnded {
			_ = s.audio.Seek(0)
			s.state.Position = 0
		}
		s.startLocked(s.state.Track.PlayableURL)
	}
	s.mu.Unlock()

	s.publish()
}

// SeekTo moves to seconds, clamped to the track. No-op until the duration is known.
func (s *Surface) SeekTo(seconds float64) {
	if math.IsNaN(seconds) {
		return
	}

	s.mu.Lock()
	d := s.state.Duration
	if !s.loaded || !knownDuration(d) {
		s.mu.Unlock()
		return
	}
	pos := math.Max(0, math.Min(seconds, d))
	if err := s.audio.Seek(pos); err != nil {
		s.mu.Unlock()
		s.logger.Warn("seek failed", "position", pos, "err", err)
		return
	}
	s.state.Position = pos
	s.mu.Unlock()

	s.publish()
}

// SeekFraction seeks to fraction of the duration, as from a click on a progress bar.
func (s *Surface) SeekFraction(fraction float64) {
	if math.IsNaN(fraction) || math.IsInf(fraction, 0) {
		return
	}
	s.mu.Lock()
	d := s.state.Duration
	s.mu.Unlock()
	if !knownDuration(d) {
		return
	}
	s.SeekTo(fraction * d)
}

// SetVolume sets the volume as the user would. It clears mute.
func (s *Surface) SetVolume(v float64) {
	s.setVolume(v, true)
}

// SyncVolume sets the volume without touching mute.
func (s *Surface) SyncVolume(v float64) {
	s.setVolume(v, false)
}

func (s *Surface) setVolume(v float64, fromUser bool) {
	if math.IsNaN(v) {
		return
	}
	s.mu.Lock()
	s.state.Volume = clampVolume(v)
	if fromUser {
		s.state.Muted = false
	}
	s.audio.SetVolume(s.state.EffectiveVolume())
	s.mu.Unlock()

	s.publish()
}

// ToggleMute flips mute. The stored volume is kept.
func (s *Surface) ToggleMute() {
	s.mu.Lock()
	s.state.Muted = !s.state.Muted
	s.audio.SetVolume(s.state.EffectiveVolume())
	s.mu.Unlock()

	s.publish()
}

// State returns a snapshot of the playback state.
func (s *Surface) State() core.PlaybackState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Subscribe registers fn for every state change, including position updates.
func (s *Surface) Subscribe(fn func(core.PlaybackState)) (unsubscribe func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	s.nextSub++
	id := s.nextSub
	s.subs = append(s.subs, stateSubscriber{id: id, fn: fn})

	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		s.subs = lo.Reject(s.subs, func(sub stateSubscriber, _ int) bool {
			return sub.id == id
		})
	}
}

func (s *Surface) refreshPosition() {
	s.mu.Lock()
	if s.state.Status != core.StatusPlaying {
		s.mu.Unlock()
		return
	}
	pos := sanitizeSeconds(s.audio.Position())
	if knownDuration(s.state.Duration) {
		pos = math.Min(pos, s.state.Duration)
	}
	s.state.Position = pos
	s.mu.Unlock()

	s.publish()
}

func (s *Surface) snapshotLocked() core.PlaybackState {
	st := s.state
	if st.Track != nil {
		t := *st.Track
		st.Track = &t
	}
	return st
}

func (s *Surface) publish() {
	st := s.State()

	s.subMu.Lock()
	subs := make([]stateSubscriber, len(s.subs))
	copy(subs, s.subs)
	s.subMu.Unlock()

	for _, sub := range subs {
		sub.fn(st)
	}
}

func knownDuration(d float64) bool {
	return d > 0 && !math.IsNaN(d) && !math.IsInf(d, 0)
}

func sanitizeSeconds(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

func clampVolume(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
