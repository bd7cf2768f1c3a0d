package tail

import (
	"strings"
	"testing"
	"time"

	"github.com/tessro/groove/internal/core"
)

func TestFormatLine(t *testing.T) {
	ts := time.Date(2025, 1, 1, 9, 5, 7, 0, time.UTC)
	playing := &core.PlaybackState{Track: track("a"), Status: core.StatusPlaying, Position: 75, Duration: 200, Volume: 0.78}

	tests := []struct {
		name  string
		opts  []FormatterOption
		event Event
		want  string
	}{
		{
			name:  "track change",
			opts:  []FormatterOption{WithEmoji(false)},
			event: Event{Type: EventTrackChange, Current: playing},
			want:  "Now playing: Band - Song a",
		},
		{
			name:  "skip shows position",
			opts:  []FormatterOption{WithEmoji(false)},
			event: Event{Type: EventTrackSkip, Previous: playing},
			want:  "Skipped: Band - Song a at 1:15",
		},
		{
			name:  "volume percent",
			opts:  []FormatterOption{WithEmoji(false)},
			event: Event{Type: EventVolumeChange, Current: playing},
			want:  "Volume: 78%",
		},
		{
			name:  "timestamp and emoji",
			opts:  []FormatterOption{WithTimestamp(true)},
			event: Event{Type: EventPause, Timestamp: ts, Current: playing},
			want:  "09:05:07 ⏸️ Paused at 1:15",
		},
		{
			name:  "placeholders",
			opts:  []FormatterOption{WithEmoji(false)},
			event: Event{Type: EventTrackChange, Current: &core.PlaybackState{Track: &core.Track{ID: "x"}}},
			want:  "Now playing: Unknown artist - Untitled",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewFormatter(tt.opts...).Format(tt.event); got != tt.want {
				t.Errorf("Format() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatTemplate(t *testing.T) {
	f := NewFormatter(WithTemplate("{{.Type}} {{.ID}} {{.Status}} {{.Position}}/{{.Duration}} {{.Volume}}"))
	e := Event{
		Type:    EventResume,
		Current: &core.PlaybackState{Track: track("a"), Status: core.StatusPlaying, Position: 5, Duration: 61, Volume: 0.5},
	}

	if got := f.Format(e); got != "resume a playing 0:05/1:01 50" {
		t.Errorf("Format() = %q", got)
	}
}

func TestFormatBadTemplateFallsBack(t *testing.T) {
	f := NewFormatter(WithTemplate("{{.Nope"), WithEmoji(false))
	got := f.Format(Event{Type: EventMuteChange, Current: &core.PlaybackState{Muted: true}})
	if !strings.HasPrefix(got, "Muted") {
		t.Errorf("Format() = %q, want line output", got)
	}
}

func TestEventTypeName(t *testing.T) {
	if got := EventLoadFailed.Name(); got != "load_failed" {
		t.Errorf("Name() = %q, want load_failed", got)
	}
}
