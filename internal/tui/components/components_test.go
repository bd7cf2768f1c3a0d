package components

import (
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"

	"github.com/tessro/groove/internal/core"
)

func TestFitPair(t *testing.T) {
	tests := []struct {
		title, artist string
		available     int
	}{
		{"Short", "Band", 40},
		{"A very long song title that keeps going", "Someone Famous", 30},
		{"日本語のとても長いタイトルです", "アーティスト", 20},
	}

	for _, tt := range tests {
		title, artist := fitPair(tt.title, tt.artist, tt.available)
		if w := runewidth.StringWidth(title) + runewidth.StringWidth(artist); w > tt.available {
			t.Errorf("fitPair(%q, %q, %d) width = %d, exceeds available", tt.title, tt.artist, tt.available, w)
		}
		if artist == "" {
			t.Errorf("fitPair(%q, %q, %d) dropped the artist", tt.title, tt.artist, tt.available)
		}
	}

	title, artist := fitPair("Short", "Band", 40)
	if title != "Short" || artist != "Band" {
		t.Errorf("fitPair() = %q, %q, want untouched", title, artist)
	}
}

func TestLibraryFilter(t *testing.T) {
	l := NewLibrary()
	l.SetSongs(SongItems([]core.Track{
		{ID: "1", Title: "Blue Monday", Artist: "New Order"},
		{ID: "2", Title: "Bizarre Love Triangle", Artist: "New Order"},
		{ID: "3", Title: "Heroes", Artist: "David Bowie"},
	}))

	if got := len(l.Visible()); got != 3 {
		t.Fatalf("Visible() = %d items, want 3", got)
	}

	l.SetFilter("bowie")
	visible := l.Visible()
	if len(visible) != 1 || visible[0].ID != "3" {
		t.Errorf("filter bowie = %+v, want only Heroes", visible)
	}

	l.SetFilter("zzz")
	if _, ok := l.Selected(); ok {
		t.Error("Selected() with no matches should be false")
	}

	l.SetFilter("")
	if got := len(l.Visible()); got != 3 {
		t.Errorf("cleared filter = %d items, want 3", got)
	}
}

func TestLibraryCursorAndTabs(t *testing.T) {
	l := NewLibrary()
	l.SetSongs(SongItems([]core.Track{{ID: "a"}, {ID: "b"}}))
	l.SetPlaylists([]LibraryItem{{ID: "p1", Title: "Mix", Index: 0}})

	l.CursorDown()
	l.CursorDown()
	item, ok := l.Selected()
	if !ok || item.ID != "b" {
		t.Errorf("Selected() = %+v, want b", item)
	}
	if item.Index != 1 {
		t.Errorf("Selected().Index = %d, want 1", item.Index)
	}

	l.ToggleTab()
	if l.Tab() != TabPlaylists {
		t.Fatalf("Tab() = %v, want playlists", l.Tab())
	}
	item, ok = l.Selected()
	if !ok || item.ID != "p1" {
		t.Errorf("Selected() after tab switch = %+v, want p1", item)
	}
}

func TestNowPlayingFractionAt(t *testing.T) {
	n := NewNowPlaying()
	state := &core.PlaybackState{
		Track:    &core.Track{ID: "1", Title: "Song"},
		Status:   core.StatusPlaying,
		Position: 30,
		Duration: 120,
		Volume:   0.5,
	}
	out := n.Render(state, 0, 0, 60, 12, true, "")
	if !strings.Contains(out, "Song") {
		t.Fatalf("render missing title:\n%s", out)
	}

	if _, ok := n.FractionAt(n.barX, n.barY+1); ok {
		t.Error("FractionAt() off the bar row should be false")
	}
	if f, ok := n.FractionAt(n.barX, n.barY); !ok || f != 0 {
		t.Errorf("FractionAt(start) = %v, %v, want 0, true", f, ok)
	}
	mid := n.barX + n.barWidth/2
	if f, ok := n.FractionAt(mid, n.barY); !ok || f < 0.45 || f > 0.55 {
		t.Errorf("FractionAt(mid) = %v, %v, want ~0.5", f, ok)
	}
	if _, ok := n.FractionAt(n.barX+n.barWidth, n.barY); ok {
		t.Error("FractionAt() past the bar should be false")
	}
}

func TestNowPlayingWithoutTrackHasNoBar(t *testing.T) {
	n := NewNowPlaying()
	n.Render(&core.PlaybackState{}, 0, 0, 60, 12, false, "")
	if _, ok := n.FractionAt(10, progressRow); ok {
		t.Error("FractionAt() with no track should be false")
	}
}

func TestQueueCursor(t *testing.T) {
	q := NewQueue()
	q.CursorUp()
	if q.Selected() != 0 {
		t.Errorf("Selected() = %d, want 0", q.Selected())
	}
	q.CursorDown(2)
	q.CursorDown(2)
	if q.Selected() != 1 {
		t.Errorf("Selected() = %d, want 1", q.Selected())
	}
	q.Follow(0)
	if q.Selected() != 0 {
		t.Errorf("Selected() after Follow = %d, want 0", q.Selected())
	}
}
