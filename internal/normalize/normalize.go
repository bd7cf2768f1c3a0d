// Package normalize converts heterogeneous backend song records into core.Track.
package normalize

import (
	"fmt"
	"strconv"

	"github.com/samber/lo"
	"github.com/tessro/groove/internal/core"
)

// Record is a song object as decoded from a backend JSON response.
type Record = map[string]any

var (
	// DefaultIDFields lists identifier field names, canonical first.
	DefaultIDFields = []string{"id", "_id"}

	// DefaultURLFields lists audio location field names, in preference order.
	DefaultURLFields = []string{"songUrl", "musicUrl"}
)

const (
	fieldTitle  = "title"
	fieldArtist = "artist"
	fieldCover  = "coverImageUrl"
)

// Normalizer maps records to tracks using configurable field names.
type Normalizer struct {
	idFields  []string
	urlFields []string
}

// New creates a normalizer. Empty lists fall back to the defaults.
func New(idFields, urlFields []string) *Normalizer {
	if len(idFields) == 0 {
		idFields = DefaultIDFields
	}
	if len(urlFields) == 0 {
		urlFields = DefaultURLFields
	}
	return &Normalizer{
		idFields:  lo.Uniq(idFields),
		urlFields: lo.Uniq(urlFields),
	}
}

// Default returns a normalizer with the default field names.
func Default() *Normalizer {
	return New(nil, nil)
}

// Normalize converts one record. The bool is false when the record has no identifier.
func (n *Normalizer) Normalize(rec Record) (core.Track, bool) {
	if rec == nil {
		return core.Track{}, false
	}

	id := firstString(rec, n.idFields)
	if id == "" {
		return core.Track{}, false
	}

	return core.Track{
		ID:            id,
		Title:         stringField(rec, fieldTitle),
		Artist:        stringField(rec, fieldArtist),
		CoverImageURL: stringField(rec, fieldCover),
		PlayableURL:   firstString(rec, n.urlFields),
	}, true
}

// NormalizeAll converts a list, dropping records without an identifier.
func (n *Normalizer) NormalizeAll(recs []Record) []core.Track {
	return lo.FilterMap(recs, func(rec Record, _ int) (core.Track, bool) {
		return n.Normalize(rec)
	})
}

// FromTrack turns a normalized track back into a record this Normalizer accepts.
func (n *Normalizer) FromTrack(t core.Track) Record {
	rec := Record{
		n.idFields[0]:  t.ID,
		fieldTitle:     t.Title,
		fieldArtist:    t.Artist,
		n.urlFields[0]: t.PlayableURL,
	}
	if t.CoverImageURL != "" {
		rec[fieldCover] = t.CoverImageURL
	}
	return rec
}

// FromTracks applies FromTrack to each track.
func (n *Normalizer) FromTracks(tracks []core.Track) []Record {
	return lo.Map(tracks, func(t core.Track, _ int) Record {
		return n.FromTrack(t)
	})
}

// String returns the first non-empty value among fields, rendered as a string.
func String(rec Record, fields ...string) string {
	return firstString(rec, fields)
}

func firstString(rec Record, fields []string) string {
	for _, f := range fields {
		if s := stringField(rec, f); s != "" {
			return s
		}
	}
	return ""
}

func stringField(rec Record, field string) string {
	switch v := rec[field].(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case fmt.Stringer:
		return v.String()
	default:
		return ""
	}
}
