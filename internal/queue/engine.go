// Package queue owns the ordered list of tracks in play and the current index.
package queue

import (
	"io"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/samber/lo"
	"github.com/tessro/groove/internal/core"
	"github.com/tessro/groove/internal/normalize"
)

// Engine holds the play queue. The zero index value is -1: nothing selected.
type Engine struct {
	normalizer *normalize.Normalizer
	logger     *log.Logger

	// changeMu serializes each change with its emit, so subscribers see
	// tracks in the order they became current.
	changeMu sync.Mutex

	mu     sync.RWMutex
	tracks []core.Track
	index  int

	subMu   sync.Mutex
	subs    []subscriber
	nextSub uint64
}

type subscriber struct {
	id uint64
	fn func(core.Track)
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// New creates an empty queue engine.
func New(n *normalize.Normalizer, opts ...Option) *Engine {
	if n == nil {
		n = normalize.Default()
	}
	e := &Engine{
		normalizer: n,
		logger:     log.New(io.Discard),
		index:      -1,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// PlayTrack replaces the queue with list and makes track current.
// A nil list plays track on its own. If track has no identifier or is not
// in list, nothing changes.
func (e *Engine) PlayTrack(track normalize.Record, list []normalize.Record) {
	target, ok := e.normalizer.Normalize(track)
	if !ok {
		e.logger.Debug("ignoring track without identifier")
		return
	}

	var tracks []core.Track
	if list == nil {
		tracks = []core.Track{target}
	} else {
		tracks = e.normalizer.NormalizeAll(list)
	}

	_, idx, found := lo.FindIndexOf(tracks, func(t core.Track) bool {
		return t.ID == target.ID
	})
	if !found {
		e.logger.Debug("track not in list", "id", target.ID, "list", len(tracks))
		return
	}

	e.changeMu.Lock()
	defer e.changeMu.Unlock()

	e.mu.Lock()
	e.tracks = tracks
	e.index = idx
	e.mu.Unlock()

	e.logger.Debug("queue replaced", "id", target.ID, "index", idx, "len", len(tracks))
	e.emit(tracks[idx])
}

// PlayNext advances to the next track, wrapping to the start.
func (e *Engine) PlayNext() {
	e.step(1)
}

// PlayPrevious moves to the previous track, wrapping to the end.
func (e *Engine) PlayPrevious() {
	e.step(-1)
}

func (e *Engine) step(delta int) {
	e.changeMu.Lock()
	defer e.changeMu.Unlock()

	e.mu.Lock()
	n := len(e.tracks)
	if n == 0 {
		e.mu.Unlock()
		return
	}
	e.index = ((e.index+delta)%n + n) % n
	cur := e.tracks[e.index]
	e.mu.Unlock()

	e.emit(cur)
}

// Jump makes the track at i current without replacing the queue.
// Out-of-range indexes are ignored.
func (e *Engine) Jump(i int) {
	e.changeMu.Lock()
	defer e.changeMu.Unlock()

	e.mu.Lock()
	if i < 0 || i >= len(e.tracks) {
		e.mu.Unlock()
		return
	}
	e.index = i
	cur := e.tracks[i]
	e.mu.Unlock()

	e.emit(cur)
}

// Current returns the current track.
func (e *Engine) Current() (core.Track, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.index < 0 {
		return core.Track{}, false
	}
	return e.tracks[e.index], true
}

// Index returns the current index, or -1.
func (e *Engine) Index() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.index
}

// Queue returns a copy of the queue.
func (e *Engine) Queue() core.Queue {
	e.mu.RLock()
	defer e.mu.RUnlock()
	tracks := make([]core.Track, len(e.tracks))
	copy(tracks, e.tracks)
	return core.Queue{Tracks: tracks, CurrentIndex: e.index}
}

// Subscribe registers fn to receive every newly current track.
// Subscribers run synchronously, in registration order, and must not call
// PlayTrack, PlayNext, PlayPrevious or Jump themselves.
func (e *Engine) Subscribe(fn func(core.Track)) (unsubscribe func()) {
	e.subMu.Lock()
	defer e.subMu.Unlock()

	e.nextSub++
	id := e.nextSub
	e.subs = append(e.subs, subscriber{id: id, fn: fn})

	return func() {
		e.subMu.Lock()
		defer e.subMu.Unlock()
		e.subs = lo.Reject(e.subs, func(s subscriber, _ int) bool {
			return s.id == id
		})
	}
}

func (e *Engine) emit(t core.Track) {
	e.subMu.Lock()
	subs := make([]subscriber, len(e.subs))
	copy(subs, e.subs)
	e.subMu.Unlock()

	for _, s := range subs {
		s.fn(t)
	}
}
