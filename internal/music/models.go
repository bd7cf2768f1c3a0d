package music

import (
	"strings"

	"github.com/samber/lo"

	"github.com/tessro/groove/internal/normalize"
)

// Record is a raw song object as the music service returns it.
type Record = normalize.Record

// Playlist is a named list of songs.
type Playlist struct {
	ID          string
	Name        string
	Description string
	Songs       []Record
}

// CoverImageURL is the first song's cover, if any.
func (p *Playlist) CoverImageURL() string {
	for _, s := range p.Songs {
		if c := normalize.String(s, "coverImageUrl"); c != "" {
			return c
		}
	}
	return ""
}

func playlistFromRecord(rec Record) *Playlist {
	if rec == nil {
		return nil
	}
	return &Playlist{
		ID:          normalize.String(rec, "id", "_id"),
		Name:        normalize.String(rec, "name"),
		Description: normalize.String(rec, "description"),
		Songs:       records(rec["songs"]),
	}
}

// records keeps the object elements of a decoded JSON array. Song ids
// without an expanded object are dropped.
func records(v any) []Record {
	arr, ok := v.([]any)
	if !ok {
		return nil
	}
	return lo.FilterMap(arr, func(item any, _ int) (Record, bool) {
		rec, ok := item.(map[string]any)
		return rec, ok
	})
}

// PlaylistInput is the create-playlist payload.
type PlaylistInput struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Songs       []string `json:"songs"`
}

// SplitSongs parses a comma separated list of song ids, trimming blanks.
func SplitSongs(s string) []string {
	parts := lo.Map(strings.Split(s, ","), func(p string, _ int) string {
		return strings.TrimSpace(p)
	})
	return lo.Compact(parts)
}

// SongUpload is a song created through the listener-facing endpoint.
type SongUpload struct {
	Title string
	Audio string
	Cover string
}

// TrackUpload is a track uploaded from the artist dashboard.
type TrackUpload struct {
	Title    string
	Album    string
	Genre    string
	Explicit bool
	Artwork  string
	Audio    string
}

// ArtistTrack is a track as the artist dashboard lists it.
type ArtistTrack struct {
	ID         string
	Title      string
	ArtistName string
	Artwork    string
	Duration   string
	Raw        Record
}

func artistTrackFromRecord(rec Record) ArtistTrack {
	title := normalize.String(rec, "title", "name")
	if title == "" {
		title = "Untitled"
	}
	return ArtistTrack{
		ID:         normalize.String(rec, "id", "_id", "trackId"),
		Title:      title,
		ArtistName: normalize.String(rec, "artistName", "artist"),
		Artwork:    normalize.String(rec, "artworkUrl", "cover", "image", "coverImageUrl"),
		Duration:   normalize.String(rec, "duration"),
		Raw:        rec,
	}
}

// ArtistProfile is the artist's own profile.
type ArtistProfile struct {
	ID   string
	Name string
	Raw  Record
}
