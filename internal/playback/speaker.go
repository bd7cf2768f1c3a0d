//go:build (linux && cgo) || windows || darwin

package playback

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/speaker"
)

const outputSampleRate = beep.SampleRate(44100)

var errSpeakerClosed = errors.New("speaker closed")

// SpeakerAudio plays through the system audio device.
type SpeakerAudio struct {
	fetcher *Fetcher

	mu       sync.Mutex
	initOnce sync.Once
	initErr  error
	current  *speakerSource
	ctrl     *beep.Ctrl
	gain     *effects.Gain
	volume   float64
	onEnded  func()
	finished atomic.Bool
}

type speakerSource struct {
	streamer beep.StreamSeekCloser
	format   beep.Format
}

func (s *speakerSource) Close() error {
	return s.streamer.Close()
}

// NewSpeakerAudio creates an audio primitive reading sources through fetcher.
func NewSpeakerAudio(fetcher *Fetcher) *SpeakerAudio {
	return &SpeakerAudio{fetcher: fetcher, volume: 1}
}

func (a *SpeakerAudio) ensureSpeaker() error {
	a.initOnce.Do(func() {
		a.initErr = speaker.Init(outputSampleRate, outputSampleRate.N(time.Second/10))
		if a.initErr != nil {
			a.initErr = fmt.Errorf("failed to initialize speaker: %w", a.initErr)
		}
	})
	return a.initErr
}

// Open fetches and decodes location. Nothing audible changes.
func (a *SpeakerAudio) Open(ctx context.Context, location string) (Source, error) {
	data, err := a.fetcher.Fetch(ctx, location)
	if err != nil {
		return nil, err
	}

	streamer, format, err := decode(data, location)
	if err != nil {
		return nil, err
	}

	return &speakerSource{streamer: streamer, format: format}, nil
}

// Load replaces the active source with src, paused at the start.
func (a *SpeakerAudio) Load(src Source, onEnded func()) float64 {
	s, ok := src.(*speakerSource)
	if !ok {
		return 0
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.unloadLocked()
	a.current = s
	a.onEnded = onEnded

	var stream beep.Streamer = s.streamer
	if s.format.SampleRate != outputSampleRate {
		stream = beep.Resample(4, s.format.SampleRate, outputSampleRate, s.streamer)
	}
	a.ctrl = &beep.Ctrl{Streamer: stream, Paused: true}
	a.gain = &effects.Gain{Streamer: a.ctrl, Gain: a.volume - 1}

	if a.ensureSpeaker() == nil {
		a.armLocked()
	}

	return s.format.SampleRate.D(s.streamer.Len()).Seconds()
}

func (a *SpeakerAudio) armLocked() {
	a.finished.Store(false)
	onEnded := a.onEnded
	speaker.Play(beep.Seq(a.gain, beep.Callback(func() {
		a.finished.Store(true)
		if onEnded != nil {
			go onEnded()
		}
	})))
}

// Play starts or resumes the active source.
func (a *SpeakerAudio) Play() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.current == nil {
		return ErrNoSource
	}
	if err := a.ensureSpeaker(); err != nil {
		return err
	}

	if a.finished.Load() {
		speaker.Lock()
		err := a.current.streamer.Seek(0)
		speaker.Unlock()
		if err != nil {
			return fmt.Errorf("failed to rewind: %w", err)
		}
		a.armLocked()
	}

	speaker.Lock()
	a.ctrl.Paused = false
	speaker.Unlock()
	return nil
}

// Pause pauses the active source.
func (a *SpeakerAudio) Pause() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.ctrl == nil || a.initErr != nil {
		return
	}
	speaker.Lock()
	a.ctrl.Paused = true
	speaker.Unlock()
}

// Seek moves the active source to seconds.
func (a *SpeakerAudio) Seek(seconds float64) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.current == nil {
		return ErrNoSource
	}

	s := a.current
	n := s.format.SampleRate.N(time.Duration(seconds * float64(time.Second)))
	n = max(0, min(n, s.streamer.Len()-1))

	if a.initErr != nil {
		return s.streamer.Seek(n)
	}
	speaker.Lock()
	defer speaker.Unlock()
	return s.streamer.Seek(n)
}

// SetVolume sets a linear volume in [0,1].
func (a *SpeakerAudio) SetVolume(v float64) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.volume = v
	if a.gain == nil || a.initErr != nil {
		return
	}
	speaker.Lock()
	a.gain.Gain = v - 1
	speaker.Unlock()
}

// Position returns the playback position in seconds.
func (a *SpeakerAudio) Position() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.current == nil {
		return 0
	}
	s := a.current
	if a.initErr != nil {
		return s.format.SampleRate.D(s.streamer.Position()).Seconds()
	}
	speaker.Lock()
	p := s.streamer.Position()
	speaker.Unlock()
	return s.format.SampleRate.D(p).Seconds()
}

// Unload stops and closes the active source.
func (a *SpeakerAudio) Unload() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.unloadLocked()
}

func (a *SpeakerAudio) unloadLocked() {
	if a.current == nil {
		return
	}
	if a.initErr == nil {
		speaker.Clear()
	}
	_ = a.current.Close()
	a.current = nil
	a.ctrl = nil
	a.gain = nil
	a.onEnded = nil
}

// Close releases the audio device. The speaker is not reopened afterwards.
func (a *SpeakerAudio) Close() error {
	a.Unload()

	a.mu.Lock()
	defer a.mu.Unlock()
	a.initOnce.Do(func() { a.initErr = errSpeakerClosed })
	if a.initErr == nil {
		speaker.Close()
		a.initErr = errSpeakerClosed
	}
	return nil
}

var _ Audio = (*SpeakerAudio)(nil)
