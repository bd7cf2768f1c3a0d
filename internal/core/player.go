package core

// QueueControl is the capability to choose what plays.
type QueueControl interface {
	PlayTrack(track map[string]any, list []map[string]any)
	PlayNext()
	PlayPrevious()
	Queue() Queue
}

// PlaybackControl is the capability to drive the audio that is playing.
type PlaybackControl interface {
	TogglePlayPause()
	SeekTo(seconds float64)
	SeekFraction(fraction float64)
	SetVolume(v float64)
	ToggleMute()
	State() PlaybackState
}

// Player combines both capabilities, as the player bar needs.
type Player interface {
	QueueControl
	PlaybackControl
}
