// Package tail turns playback state snapshots into a stream of events for
// headless output.
package tail

import (
	"context"
	"time"

	"github.com/mitchellh/hashstructure/v2"

	"github.com/tessro/groove/internal/core"
)

// EventType represents the type of playback event.
type EventType int

const (
	EventTrackChange EventType = iota
	EventTrackComplete
	EventTrackSkip
	EventPause
	EventResume
	EventVolumeChange
	EventMuteChange
	EventLoadFailed
)

// Event represents a playback state change.
type Event struct {
	Type      EventType
	Timestamp time.Time
	Previous  *core.PlaybackState
	Current   *core.PlaybackState
}

// StateSource is anything that reports playback state.
type StateSource interface {
	State() core.PlaybackState
}

// Watcher polls a state source for changes and emits events.
type Watcher struct {
	source   StateSource
	interval time.Duration
	events   chan Event
	done     chan struct{}
}

// NewWatcher creates a new state watcher.
func NewWatcher(source StateSource, interval time.Duration) *Watcher {
	if interval == 0 {
		interval = 500 * time.Millisecond
	}
	return &Watcher{
		source:   source,
		interval: interval,
		events:   make(chan Event, 16),
		done:     make(chan struct{}),
	}
}

// Events returns the channel of playback events.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Start begins polling for state changes. It blocks until ctx is done or
// Stop is called, and closes the events channel on return.
func (w *Watcher) Start(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	defer close(w.events)

	var prev *core.PlaybackState
	var prevHash uint64

	poll := func() {
		curr := w.source.State()
		h, err := fingerprint(&curr)
		if err == nil && prev != nil && h == prevHash {
			// Only the position moved.
			prev = &curr
			return
		}

		for _, e := range diffStates(prev, &curr) {
			select {
			case w.events <- e:
			default:
				// Drop event if channel is full
			}
		}
		prev = &curr
		prevHash = h
	}

	poll()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.done:
			return nil
		case <-ticker.C:
			poll()
		}
	}
}

// Stop stops the watcher.
func (w *Watcher) Stop() {
	close(w.done)
}

// fingerprintFields are the parts of a state that produce events.
type fingerprintFields struct {
	TrackID string
	Status  core.Status
	Volume  float64
	Muted   bool
}

func fingerprint(s *core.PlaybackState) (uint64, error) {
	f := fingerprintFields{Status: s.Status, Volume: s.Volume, Muted: s.Muted}
	if s.Track != nil {
		f.TrackID = s.Track.ID
	}
	return hashstructure.Hash(f, hashstructure.FormatV2, nil)
}

// diffStates compares two states and returns detected events.
func diffStates(prev, curr *core.PlaybackState) []Event {
	if curr == nil {
		return nil
	}

	now := time.Now()
	var events []Event
	add := func(t EventType) {
		events = append(events, Event{Type: t, Timestamp: now, Previous: prev, Current: curr})
	}

	// First poll - no previous state
	if prev == nil {
		if curr.HasTrack() {
			add(EventTrackChange)
		}
		return events
	}

	if trackChanged(prev, curr) {
		switch {
		case prev.HasTrack() && wasCompleted(prev):
			add(EventTrackComplete)
		case prev.HasTrack():
			add(EventTrackSkip)
		}
		add(EventTrackChange)
	} else if curr.HasTrack() && curr.Status == core.StatusEnded && prev.Status != core.StatusEnded {
		// The only track in the queue ended and will start over.
		add(EventTrackComplete)
	}

	// A load that fails lands in Paused without ever playing.
	if prev.Status == core.StatusLoading && curr.Status == core.StatusPaused && curr.Duration == 0 && !trackChanged(prev, curr) {
		add(EventLoadFailed)
	}

	if prev.IsPlaying() && curr.Status == core.StatusPaused {
		add(EventPause)
	} else if !prev.IsPlaying() && prev.Status != core.StatusLoading && curr.IsPlaying() && !trackChanged(prev, curr) {
		add(EventResume)
	}

	if prev.Volume != curr.Volume {
		add(EventVolumeChange)
	}
	if prev.Muted != curr.Muted {
		add(EventMuteChange)
	}

	return events
}

// trackChanged returns true if the track changed.
func trackChanged(prev, curr *core.PlaybackState) bool {
	if prev.Track == nil && curr.Track == nil {
		return false
	}
	if prev.Track == nil || curr.Track == nil {
		return true
	}
	return prev.Track.ID != curr.Track.ID
}

// wasCompleted returns true if the track likely completed naturally.
func wasCompleted(state *core.PlaybackState) bool {
	if state.Status == core.StatusEnded {
		return true
	}
	if state.Duration <= 0 {
		return false
	}
	// Polling can miss the Ended state; treat the last 5% as finished.
	return state.Position >= state.Duration*0.95
}
