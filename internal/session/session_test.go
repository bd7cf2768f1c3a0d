package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/tessro/groove/internal/core"
	"github.com/tessro/groove/internal/playback"
	"github.com/tessro/groove/internal/queue"
)

type stubSource struct{ url string }

func (stubSource) Close() error { return nil }

// stubAudio loads instantly and lets the test end the loaded track.
type stubAudio struct {
	mu       sync.Mutex
	loaded   string
	position float64
	onEnded  func()
}

func (a *stubAudio) Open(_ context.Context, url string) (playback.Source, error) {
	return stubSource{url: url}, nil
}

func (a *stubAudio) Load(src playback.Source, onEnded func()) float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.loaded = src.(stubSource).url
	a.position = 0
	a.onEnded = onEnded
	return 120
}

func (a *stubAudio) Play() error { return nil }
func (a *stubAudio) Pause()      {}

func (a *stubAudio) Seek(s float64) error {
	a.mu.Lock()
	a.position = s
	a.mu.Unlock()
	return nil
}

func (a *stubAudio) SetVolume(float64) {}

func (a *stubAudio) Position() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.position
}

func (a *stubAudio) Unload() {
	a.mu.Lock()
	a.loaded = ""
	a.mu.Unlock()
}

func (a *stubAudio) Close() error { return nil }

func (a *stubAudio) end() {
	a.mu.Lock()
	fn := a.onEnded
	a.mu.Unlock()
	if fn != nil {
		fn()
	}
}

func (a *stubAudio) loadedURL() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.loaded
}

type memRecorder struct {
	mu  sync.Mutex
	ids []string
}

func (r *memRecorder) Record(t core.Track) error {
	r.mu.Lock()
	r.ids = append(r.ids, t.ID)
	r.mu.Unlock()
	return nil
}

func (r *memRecorder) played() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.ids...)
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func newTestSession(t *testing.T) (*Session, *stubAudio, *memRecorder) {
	t.Helper()
	audio := &stubAudio{}
	rec := &memRecorder{}
	s := New(queue.New(nil), playback.NewSurface(audio), nil, WithRecorder(rec))
	t.Cleanup(func() { _ = s.Close() })
	return s, audio, rec
}

func song(id string) map[string]any {
	return map[string]any{"_id": id, "title": "Song " + id, "musicUrl": "http://x/" + id + ".mp3"}
}

func playingTrack(s *Session, id string) func() bool {
	return func() bool {
		st := s.State()
		return st.Status == core.StatusPlaying && st.Track != nil && st.Track.ID == id
	}
}

func TestEndOfLastTrackWrapsToFirst(t *testing.T) {
	s, audio, rec := newTestSession(t)
	list := []map[string]any{song("a"), song("b"), song("c")}

	s.PlayTrack(list[2], list)
	waitFor(t, "c playing", playingTrack(s, "c"))

	audio.end()
	waitFor(t, "a playing after wrap", playingTrack(s, "a"))

	if got := s.Queue().CurrentIndex; got != 0 {
		t.Errorf("CurrentIndex = %d, want 0", got)
	}
	if got := audio.loadedURL(); got != "http://x/a.mp3" {
		t.Errorf("loaded = %q, want a.mp3", got)
	}
	waitFor(t, "both plays recorded", func() bool { return len(rec.played()) == 2 })
	if got := rec.played(); got[0] != "c" || got[1] != "a" {
		t.Errorf("recorded = %v, want [c a]", got)
	}
}

func TestSingleTrackRepeatsOnEnd(t *testing.T) {
	s, audio, rec := newTestSession(t)

	s.PlayTrack(song("solo"), nil)
	waitFor(t, "solo playing", playingTrack(s, "solo"))

	audio.end()
	waitFor(t, "solo replayed", func() bool { return len(rec.played()) == 2 })
	waitFor(t, "solo playing again", playingTrack(s, "solo"))

	if got := s.State().Position; got != 0 {
		t.Errorf("Position = %v, want 0 after restart", got)
	}
}

func TestNavigationThroughPlayerInterface(t *testing.T) {
	s, _, _ := newTestSession(t)
	var p core.Player = s
	list := []map[string]any{song("a"), song("b")}

	p.PlayTrack(list[0], list)
	waitFor(t, "a playing", playingTrack(s, "a"))

	p.PlayNext()
	waitFor(t, "b playing", playingTrack(s, "b"))

	p.PlayPrevious()
	p.PlayPrevious()
	waitFor(t, "b playing after wrap", playingTrack(s, "b"))

	p.SeekFraction(0.5)
	if got := p.State().Position; got != 60 {
		t.Errorf("Position = %v, want 60", got)
	}
	s.SeekBy(-100)
	if got := p.State().Position; got != 0 {
		t.Errorf("Position after SeekBy(-100) = %v, want 0", got)
	}

	p.ToggleMute()
	if !p.State().Muted {
		t.Error("Muted = false after ToggleMute")
	}
	p.SetVolume(0.4)
	if st := p.State(); st.Muted || st.Volume != 0.4 {
		t.Errorf("after SetVolume: muted=%v volume=%v", st.Muted, st.Volume)
	}
}

func TestCurrentTrackAndTrackSubscription(t *testing.T) {
	s, _, _ := newTestSession(t)

	if _, ok := s.CurrentTrack(); ok {
		t.Fatal("CurrentTrack reported a track before anything played")
	}

	var mu sync.Mutex
	var seen []string
	unsubscribe := s.SubscribeTrack(func(tr core.Track) {
		mu.Lock()
		seen = append(seen, tr.ID)
		mu.Unlock()
	})

	list := []map[string]any{song("a"), song("b")}
	s.PlayTrack(list[1], list)
	if tr, ok := s.CurrentTrack(); !ok || tr.ID != "b" {
		t.Errorf("CurrentTrack = %v, %v; want b", tr.ID, ok)
	}

	unsubscribe()
	s.PlayNext()

	mu.Lock()
	defer mu.Unlock()
	if len(seen) != 1 || seen[0] != "b" {
		t.Errorf("subscriber saw %v, want [b]", seen)
	}
}

func TestPlayTracks(t *testing.T) {
	s, _, _ := newTestSession(t)
	tracks := []core.Track{
		{ID: "x", PlayableURL: "http://x/x.mp3"},
		{ID: "y", PlayableURL: "http://x/y.mp3"},
	}

	s.PlayTracks(tracks, 1)
	waitFor(t, "y playing", playingTrack(s, "y"))
	if q := s.Queue(); q.Len() != 2 || q.CurrentIndex != 1 {
		t.Errorf("Queue() = %+v", q)
	}

	s.PlayTracks(tracks, 5)
	if got := s.Queue().CurrentIndex; got != 1 {
		t.Errorf("out-of-range PlayTracks changed index to %d", got)
	}
}

func TestUnplayableTrackStaysIdle(t *testing.T) {
	s, audio, _ := newTestSession(t)

	s.PlayTrack(map[string]any{"id": "mute"}, nil)

	st := s.State()
	if st.Status != core.StatusIdle || st.Track == nil || st.Track.ID != "mute" {
		t.Errorf("State() = %+v, want idle on mute", st)
	}
	if audio.loadedURL() != "" {
		t.Errorf("loaded %q for a track without audio", audio.loadedURL())
	}
}

// blockingRecorder holds every Record call until release is closed.
type blockingRecorder struct {
	memRecorder
	release chan struct{}
}

func (r *blockingRecorder) Record(t core.Track) error {
	<-r.release
	return r.memRecorder.Record(t)
}

func TestSlowRecorderDoesNotBlockNavigation(t *testing.T) {
	audio := &stubAudio{}
	rec := &blockingRecorder{release: make(chan struct{})}
	s := New(queue.New(nil), playback.NewSurface(audio), nil, WithRecorder(rec))

	list := []map[string]any{song("a"), song("b"), song("c")}
	done := make(chan struct{})
	go func() {
		s.PlayTrack(list[0], list)
		s.PlayNext()
		s.PlayNext()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("navigation blocked on the recorder")
	}
	waitFor(t, "c playing", playingTrack(s, "c"))

	close(rec.release)
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if got := rec.played(); len(got) != 3 || got[0] != "a" || got[2] != "c" {
		t.Errorf("recorded after Close = %v, want [a b c]", got)
	}
}

func TestSyncVolumeKeepsMute(t *testing.T) {
	s, _, _ := newTestSession(t)

	s.ToggleMute()
	s.SyncVolume(0.3)

	st := s.State()
	if !st.Muted || st.Volume != 0.3 {
		t.Errorf("muted=%v volume=%v, want muted at 0.3", st.Muted, st.Volume)
	}
	if st.EffectiveVolume() != 0 {
		t.Errorf("EffectiveVolume() = %v, want 0 while muted", st.EffectiveVolume())
	}
}
