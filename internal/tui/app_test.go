package tui

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tessro/groove/internal/core"
	gerrors "github.com/tessro/groove/internal/errors"
	"github.com/tessro/groove/internal/music"
	"github.com/tessro/groove/internal/uistate"
)

type fakePlayer struct {
	mu     sync.Mutex
	calls  []string
	state  core.PlaybackState
	queue  core.Queue
	flags  *uistate.Flags
	played []core.Track
	seek   float64
}

func newFakePlayer() *fakePlayer {
	return &fakePlayer{flags: uistate.New(), state: core.PlaybackState{Volume: 0.5}}
}

func (f *fakePlayer) record(call string) {
	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.mu.Unlock()
}

func (f *fakePlayer) PlayTrack(map[string]any, []map[string]any) { f.record("play") }
func (f *fakePlayer) PlayNext() { f.record("next") }
func (f *fakePlayer) PlayPrevious() { f.record("previous") }
func (f *fakePlayer) Queue() core.Queue { return f.queue }
func (f *fakePlayer) TogglePlayPause() { f.record("toggle") }
func (f *fakePlayer) SeekTo(float64) { f.record("seekto") }
func (f *fakePlayer) SetVolume(v float64) {
	f.record("volume")
	f.state.Volume = v
}
func (f *fakePlayer) ToggleMute() { f.record("mute") }
func (f *fakePlayer) State() core.PlaybackState { return f.state }
func (f *fakePlayer) Jump(i int) { f.record("jump") }
func (f *fakePlayer) SeekBy(d float64) {
	f.record("seekby")
	f.seek = d
}
func (f *fakePlayer) SeekFraction(fr float64) {
	f.record("seekfraction")
	f.seek = fr
}
func (f *fakePlayer) PlayTracks(tracks []core.Track, i int) {
	f.record("playtracks")
	f.played = tracks[i:]
}
func (f *fakePlayer) Subscribe(func(core.PlaybackState)) func() { return func() {} }
func (f *fakePlayer) Flags() *uistate.Flags { return f.flags }

func (f *fakePlayer) lastCall() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.calls) == 0 {
		return ""
	}
	return f.calls[len(f.calls)-1]
}

type fakeCatalog struct {
	songs    []music.Record
	created  *music.PlaylistInput
	playlist *music.Playlist
}

func (c *fakeCatalog) Songs(context.Context, string) gerrors.Result[[]music.Record] {
	return gerrors.Ok(c.songs)
}

func (c *fakeCatalog) Playlists(context.Context) gerrors.Result[[]*music.Playlist] {
	return gerrors.Ok([]*music.Playlist{})
}

func (c *fakeCatalog) Playlist(_ context.Context, id string) gerrors.Result[*music.Playlist] {
	if c.playlist == nil || c.playlist.ID != id {
		return gerrors.Fail[*music.Playlist](gerrors.ErrNotFound)
	}
	return gerrors.Ok(c.playlist)
}

func (c *fakeCatalog) CreatePlaylist(_ context.Context, in music.PlaylistInput) gerrors.Result[*music.Playlist] {
	c.created = &in
	return gerrors.Ok(&music.Playlist{Name: in.Name})
}

func newTestModel(t *testing.T) (Model, *fakePlayer, *fakeCatalog) {
	t.Helper()
	p := newFakePlayer()
	c := &fakeCatalog{songs: []music.Record{
		{"_id": "a", "title": "Alpha", "artist": "One", "songUrl": "http://x/a.mp3"},
		{"_id": "b", "title": "Beta", "artist": "Two", "songUrl": "http://x/b.mp3"},
	}}
	m := NewModel(NewApp(Options{Player: p, Catalog: c}))
	model, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return model.(Model), p, c
}

// run executes cmd and feeds its message back into the model.
func run(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	if cmd == nil {
		return m
	}
	msg := cmd()
	if msg == nil {
		return m
	}
	model, _ := m.Update(msg)
	return model.(Model)
}

func press(t *testing.T, m Model, key string) (Model, tea.Cmd) {
	t.Helper()
	var msg tea.KeyMsg
	switch key {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	case "left":
		msg = tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		msg = tea.KeyMsg{Type: tea.KeyRight}
	case " ":
		msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	model, cmd := m.Update(msg)
	return model.(Model), cmd
}

func TestPlaybackKeys(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{" ", "toggle"},
		{"n", "next"},
		{"p", "previous"},
		{"+", "volume"},
		{"-", "volume"},
		{"m", "mute"},
		{"left", "seekby"},
		{"right", "seekby"},
	}

	for _, tt := range tests {
		t.Run(tt.want+"/"+tt.key, func(t *testing.T) {
			m, p, _ := newTestModel(t)
			m, cmd := press(t, m, tt.key)
			run(t, m, cmd)
			if got := p.lastCall(); got != tt.want {
				t.Errorf("key %q called %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestSeekKeysUseFiveSeconds(t *testing.T) {
	m, p, _ := newTestModel(t)
	m, cmd := press(t, m, "left")
	run(t, m, cmd)
	if p.seek != -seekStep {
		t.Errorf("seek = %v, want %v", p.seek, -seekStep)
	}
}

func TestLibraryEnterPlaysSongList(t *testing.T) {
	m, p, _ := newTestModel(t)
	m = run(t, m, m.fetchSongs())

	m, _ = press(t, m, "j")
	m, cmd := press(t, m, "enter")
	run(t, m, cmd)

	if p.lastCall() != "playtracks" {
		t.Fatalf("last call = %q, want playtracks", p.lastCall())
	}
	if len(p.played) != 1 || p.played[0].ID != "b" {
		t.Errorf("played from = %+v, want to start at b", p.played)
	}
}

func TestFilterThenPlay(t *testing.T) {
	m, p, _ := newTestModel(t)
	m = run(t, m, m.fetchSongs())

	m, _ = press(t, m, "/")
	if !p.flags.IsOpen(uistate.Search) {
		t.Fatal("search flag not opened")
	}
	for _, r := range "beta" {
		m, _ = press(t, m, string(r))
	}
	if got := m.library.Filter(); got != "beta" {
		t.Fatalf("filter = %q, want beta", got)
	}

	m, cmd := press(t, m, "enter")
	run(t, m, cmd)
	if p.flags.IsOpen(uistate.Search) {
		t.Error("search flag still open after enter")
	}
	if len(p.played) == 0 || p.played[0].ID != "b" {
		t.Errorf("played = %+v, want b", p.played)
	}
}

func TestHelpFlag(t *testing.T) {
	m, p, _ := newTestModel(t)
	m, _ = press(t, m, "?")
	if !p.flags.IsOpen(uistate.Help) {
		t.Fatal("help not open")
	}
	if !strings.Contains(m.View(), "Keyboard Shortcuts") {
		t.Error("help view not rendered")
	}

	// Keys other than close are swallowed while help is open.
	m, cmd := press(t, m, "n")
	if cmd != nil {
		t.Error("n while help is open should do nothing")
	}
	press(t, m, "esc")
	if p.flags.IsOpen(uistate.Help) {
		t.Error("help still open after esc")
	}
}

func TestPlaylistModalFlag(t *testing.T) {
	m, p, _ := newTestModel(t)
	m, _ = press(t, m, "N")
	if !p.flags.IsOpen(uistate.PlaylistModal) {
		t.Fatal("playlist modal flag not opened")
	}
	if m.form == nil {
		t.Fatal("form not created")
	}
	m, _ = press(t, m, "esc")
	if p.flags.IsOpen(uistate.PlaylistModal) || m.form != nil {
		t.Error("esc did not close the playlist modal")
	}
}

func TestCreatePlaylistCommand(t *testing.T) {
	m, _, c := newTestModel(t)
	m = run(t, m, m.createPlaylist(playlistDraft{name: "Mix", songs: "a, b"}))

	if c.created == nil || c.created.Name != "Mix" {
		t.Fatalf("created = %+v, want Mix", c.created)
	}
	if len(c.created.Songs) != 2 {
		t.Errorf("songs = %v, want two ids", c.created.Songs)
	}
	if !strings.Contains(m.notice, "Mix") {
		t.Errorf("notice = %q, want mention of Mix", m.notice)
	}
}

func TestPlayEmptyPlaylist(t *testing.T) {
	m, p, c := newTestModel(t)
	c.playlist = &music.Playlist{ID: "p1", Name: "Empty"}

	m = run(t, m, m.playPlaylist("p1"))
	if m.notice != "Playlist is empty" {
		t.Errorf("notice = %q", m.notice)
	}
	if p.lastCall() != "" {
		t.Errorf("player was called: %q", p.lastCall())
	}
}

func TestMouseClickSeeks(t *testing.T) {
	m, p, _ := newTestModel(t)
	model, _ := m.Update(stateMsg(core.PlaybackState{
		Track:    &core.Track{ID: "a", Title: "Alpha"},
		Status:   core.StatusPlaying,
		Position: 10,
		Duration: 100,
	}))
	m = model.(Model)
	m.View()

	if _, ok := m.nowPlaying.FractionAt(0, 0); ok {
		t.Fatal("corner should not be on the bar")
	}

	var hit tea.MouseMsg
	found := false
	for col := 0; col < m.width && !found; col++ {
		for row := 0; row < 12 && !found; row++ {
			if _, ok := m.nowPlaying.FractionAt(col, row); ok {
				hit = tea.MouseMsg{X: col, Y: row, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
				found = true
			}
		}
	}
	if !found {
		t.Fatal("no progress bar cell found")
	}

	model, cmd := m.Update(hit)
	run(t, model.(Model), cmd)
	if p.lastCall() != "seekfraction" {
		t.Errorf("last call = %q, want seekfraction", p.lastCall())
	}
}

func TestErrorShownInStatusBar(t *testing.T) {
	m, _, _ := newTestModel(t)
	model, _ := m.Update(errMsg{errors.New("boom")})
	m = model.(Model)
	if !strings.Contains(m.View(), "boom") {
		t.Error("error not rendered")
	}
}

func TestOfferLatestKeepsNewest(t *testing.T) {
	ch := make(chan int, 1)
	offerLatest(ch, 1)
	offerLatest(ch, 2)
	if got := <-ch; got != 2 {
		t.Errorf("got %d, want 2", got)
	}
}
