package core

import "math"

// Status is the playback surface's lifecycle state.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusPlaying
	StatusPaused
	StatusEnded
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusPlaying:
		return "playing"
	case StatusPaused:
		return "paused"
	case StatusEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// MarshalText renders the status by name.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// PlaybackState represents the current playback state.
// Position and Duration are in seconds.
type PlaybackState struct {
	Track    *Track  `json:"track"`
	Status   Status  `json:"status"`
	Position float64 `json:"position"`
	Duration float64 `json:"duration"`
	Volume   float64 `json:"volume"`
	Muted    bool    `json:"muted"`
}

// IsPlaying returns true if audio is flowing.
func (s *PlaybackState) IsPlaying() bool {
	return s != nil && s.Status == StatusPlaying
}

// HasTrack returns true if there is a track loaded.
func (s *PlaybackState) HasTrack() bool {
	return s != nil && s.Track != nil
}

// EffectiveVolume is the audible level: zero while muted.
func (s *PlaybackState) EffectiveVolume() float64 {
	if s == nil || s.Muted {
		return 0
	}
	return s.Volume
}

// ProgressPercent returns playback progress as a percentage (0-100).
func (s *PlaybackState) ProgressPercent() float64 {
	if s == nil || !validDuration(s.Duration) {
		return 0
	}
	p := s.Position / s.Duration * 100
	return math.Max(0, math.Min(100, p))
}

func validDuration(d float64) bool {
	return d > 0 && !math.IsNaN(d) && !math.IsInf(d, 0)
}
