package playback

import (
	"context"
	"errors"
)

// ErrNoSource is returned by Audio.Play when nothing is loaded.
var ErrNoSource = errors.New("no audio source loaded")

// Source is a decoded audio stream that is ready to be loaded.
type Source interface {
	Close() error
}

// Audio is the single rendering primitive a Surface drives.
//
// Open may be slow and must not change what is currently audible. All other
// methods are quick and are only called by the Surface while it holds its lock.
type Audio interface {
	Open(ctx context.Context, url string) (Source, error)

	// Load makes src the active source, paused at the start, and returns its
	// duration in seconds (0 if unknown). onEnded fires once when the source
	// plays through to its end.
	Load(src Source, onEnded func()) float64

	Play() error
	Pause()
	Seek(seconds float64) error
	SetVolume(v float64)
	Position() float64

	// Unload stops and releases the active source.
	Unload()
	Close() error
}
