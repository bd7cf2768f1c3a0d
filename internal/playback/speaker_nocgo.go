//go:build !((linux && cgo) || windows || darwin)

package playback

import (
	"context"
	"sync"
	"time"
)

// SpeakerAudio stands in for the speaker on builds without cgo. Sources are
// fetched and decoded for their length, then "played" against the wall clock:
// position advances in real time and the end fires when the length runs out.
type SpeakerAudio struct {
	fetcher *Fetcher
	now     func() time.Time

	mu        sync.Mutex
	loaded    bool
	duration  float64
	offset    float64
	startedAt time.Time
	playing   bool
	timer     *time.Timer
	armed     uint64
	onEnded   func()
}

type clockSource struct {
	duration float64
}

func (clockSource) Close() error { return nil }

// NewSpeakerAudio creates the wall-clock audio primitive.
func NewSpeakerAudio(fetcher *Fetcher) *SpeakerAudio {
	return &SpeakerAudio{fetcher: fetcher, now: time.Now}
}

func (a *SpeakerAudio) Open(ctx context.Context, location string) (Source, error) {
	data, err := a.fetcher.Fetch(ctx, location)
	if err != nil {
		return nil, err
	}
	streamer, format, err := decode(data, location)
	if err != nil {
		return nil, err
	}
	defer streamer.Close()

	return clockSource{duration: format.SampleRate.D(streamer.Len()).Seconds()}, nil
}

func (a *SpeakerAudio) Load(src Source, onEnded func()) float64 {
	s, ok := src.(clockSource)
	if !ok {
		return 0
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.unloadLocked()
	a.loaded = true
	a.duration = s.duration
	a.onEnded = onEnded
	return s.duration
}

func (a *SpeakerAudio) Play() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.loaded {
		return ErrNoSource
	}
	if a.playing {
		return nil
	}
	if a.duration > 0 && a.offset >= a.duration {
		a.offset = 0
	}
	a.startedAt = a.now()
	a.playing = true
	a.armLocked()
	return nil
}

func (a *SpeakerAudio) Pause() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.playing {
		return
	}
	a.offset = a.positionLocked()
	a.playing = false
	a.disarmLocked()
}

func (a *SpeakerAudio) Seek(seconds float64) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.loaded {
		return ErrNoSource
	}
	a.offset = max(0, min(seconds, a.duration))
	if a.playing {
		a.startedAt = a.now()
		a.armLocked()
	}
	return nil
}

func (a *SpeakerAudio) SetVolume(float64) {}

func (a *SpeakerAudio) Position() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.positionLocked()
}

func (a *SpeakerAudio) positionLocked() float64 {
	if !a.playing {
		return a.offset
	}
	pos := a.offset + a.now().Sub(a.startedAt).Seconds()
	if a.duration > 0 {
		pos = min(pos, a.duration)
	}
	return pos
}

// armLocked schedules the end of the source. Unknown lengths never end.
func (a *SpeakerAudio) armLocked() {
	a.disarmLocked()
	if a.duration <= 0 {
		return
	}

	a.armed++
	token := a.armed
	remaining := time.Duration((a.duration - a.offset) * float64(time.Second))
	a.timer = time.AfterFunc(remaining, func() {
		a.mu.Lock()
		if token != a.armed || !a.playing {
			a.mu.Unlock()
			return
		}
		a.offset = a.duration
		a.playing = false
		onEnded := a.onEnded
		a.mu.Unlock()

		if onEnded != nil {
			onEnded()
		}
	})
}

func (a *SpeakerAudio) disarmLocked() {
	a.armed++
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
}

func (a *SpeakerAudio) Unload() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.unloadLocked()
}

func (a *SpeakerAudio) unloadLocked() {
	a.disarmLocked()
	a.loaded = false
	a.playing = false
	a.duration = 0
	a.offset = 0
	a.onEnded = nil
}

func (a *SpeakerAudio) Close() error {
	a.Unload()
	return nil
}

var _ Audio = (*SpeakerAudio)(nil)
