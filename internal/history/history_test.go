package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tessro/groove/internal/core"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "nested", "history.db"))
	require.NoError(t, err, "Failed to open history store")
	t.Cleanup(func() { _ = store.Close() })

	// Deterministic, strictly increasing clock.
	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	store.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}
	return store
}

func TestStore_RecordAndRecent(t *testing.T) {
	store := newTestStore(t)

	for _, id := range []string{"s1", "s2", "s3"} {
		require.NoError(t, store.Record(core.Track{ID: id, Title: "Song " + id}))
	}

	entries, err := store.Recent(10)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	require.Equal(t, "s3", entries[0].Track.ID, "The most recent play should be first")
	require.Equal(t, "s2", entries[1].Track.ID)
	require.Equal(t, "s1", entries[2].Track.ID)

	require.NoError(t, store.Record(core.Track{ID: "s1", Title: "Song 1 again"}))

	entries, err = store.Recent(10)
	require.NoError(t, err)
	require.Len(t, entries, 3, "Replaying keeps one entry per track")
	require.Equal(t, "s1", entries[0].Track.ID, "The replayed track should move to the top")
	require.Equal(t, "Song 1 again", entries[0].Track.Title)

	limited, err := store.Recent(2)
	require.NoError(t, err)
	require.Len(t, limited, 2)
	require.Equal(t, "s3", limited[1].Track.ID)

	all, err := store.Recent(0)
	require.NoError(t, err)
	require.Len(t, all, 3)
}

func TestStore_IgnoresUnidentifiedTrack(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Record(core.Track{Title: "no id"}))

	entries, err := store.Recent(10)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestStore_Clear(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Record(core.Track{ID: "s1"}))

	require.NoError(t, store.Clear())

	entries, err := store.Recent(10)
	require.NoError(t, err)
	require.Empty(t, entries)

	require.NoError(t, store.Record(core.Track{ID: "s2"}), "Store should accept plays after Clear")
}

func TestStore_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Record(core.Track{ID: "persisted"}))
	require.NoError(t, store.Close())

	store, err = Open(path)
	require.NoError(t, err)
	defer store.Close()

	entries, err := store.Recent(1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "persisted", entries[0].Track.ID)
}

func TestStore_SubSecondOrdering(t *testing.T) {
	store := newTestStore(t)

	base := time.Date(2025, 1, 1, 12, 0, 5, 0, time.UTC)
	times := []time.Time{
		base,
		base.Add(500 * time.Millisecond),
		base.Add(750 * time.Millisecond),
		base.Add(time.Second),
	}
	i := 0
	store.now = func() time.Time {
		ts := times[i]
		i++
		return ts
	}

	for _, id := range []string{"whole", "half", "three-quarters", "next"} {
		require.NoError(t, store.Record(core.Track{ID: id}))
	}

	entries, err := store.Recent(0)
	require.NoError(t, err)
	require.Len(t, entries, 4)
	got := []string{entries[0].Track.ID, entries[1].Track.ID, entries[2].Track.ID, entries[3].Track.ID}
	require.Equal(t, []string{"next", "three-quarters", "half", "whole"}, got, "Plays within one second must stay in time order")
}

func TestEntryKeyFixedWidth(t *testing.T) {
	whole := entryKey(time.Date(2025, 1, 1, 12, 0, 5, 0, time.UTC), "x")
	frac := entryKey(time.Date(2025, 1, 1, 12, 0, 5, 500000000, time.UTC), "x")
	require.Len(t, frac, len(whole))
	require.Less(t, string(whole), string(frac))
}
