// Package music is the client for the music and playlist service.
package music

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/samber/lo"

	"github.com/tessro/groove/internal/backend"
	gerrors "github.com/tessro/groove/internal/errors"
	"github.com/tessro/groove/internal/normalize"
)

// Endpoint paths on the music service.
const (
	PathSongs          = "/api/music/get"
	PathCreateSong     = "/api/music/create"
	PathPlaylists      = "/api/music/playlist/get"
	PathCreatePlaylist = "/api/music/playlist/create"
	PathArtistMe       = "/artist/me"
	PathArtistTracks   = "/artist/tracks"
)

// Service is the music service client.
type Service struct {
	client *backend.Client
	logger *log.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// NewService creates a music client.
func NewService(client *backend.Client, opts ...Option) *Service {
	s := &Service{client: client, logger: log.New(io.Discard)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Songs lists songs, optionally only those by artistID.
func (s *Service) Songs(ctx context.Context, artistID string) gerrors.Result[[]Record] {
	var resp struct {
		Musics []Record `json:"musics"`
	}
	path := backend.BuildURL(PathSongs, map[string]string{"artistId": artistID})
	if err := s.client.Get(ctx, path, &resp); err != nil {
		return gerrors.Fail[[]Record](err)
	}
	return gerrors.Ok(compactRecords(resp.Musics))
}

// CreateSong uploads a song with its cover image.
func (s *Service) CreateSong(ctx context.Context, in SongUpload) gerrors.Result[Record] {
	form := backend.Form{
		Fields: map[string]string{"title": in.Title},
		Files: []backend.FormFile{
			{Field: "music", Path: in.Audio},
			{Field: "coverImage", Path: in.Cover},
		},
	}
	var resp struct {
		Music Record `json:"music"`
	}
	if err := s.client.PostMultipart(ctx, PathCreateSong, form, &resp); err != nil {
		return gerrors.Fail[Record](err)
	}
	return gerrors.Ok(resp.Music)
}

// Playlists lists the user's playlists.
func (s *Service) Playlists(ctx context.Context) gerrors.Result[[]*Playlist] {
	var resp struct {
		Playlists []Record `json:"playlists"`
	}
	if err := s.client.Get(ctx, PathPlaylists, &resp); err != nil {
		return gerrors.Fail[[]*Playlist](err)
	}
	playlists := lo.FilterMap(resp.Playlists, func(rec Record, _ int) (*Playlist, bool) {
		p := playlistFromRecord(rec)
		return p, p != nil
	})
	return gerrors.Ok(playlists)
}

// Playlist fetches one playlist. The service answers either {playlist} or
// {playlists:[one]}; both are accepted.
func (s *Service) Playlist(ctx context.Context, id string) gerrors.Result[*Playlist] {
	var resp struct {
		Playlist  Record   `json:"playlist"`
		Playlists []Record `json:"playlists"`
	}
	path := backend.BuildURL(PathPlaylists, map[string]string{"playlistId": id})
	if err := s.client.Get(ctx, path, &resp); err != nil {
		return gerrors.Fail[*Playlist](err)
	}

	rec := resp.Playlist
	if rec == nil && len(resp.Playlists) > 0 {
		rec = resp.Playlists[0]
	}
	if rec == nil {
		return gerrors.Fail[*Playlist](fmt.Errorf("playlist %s: %w", id, gerrors.ErrNotFound))
	}
	return gerrors.Ok(playlistFromRecord(rec))
}

// CreatePlaylist creates a playlist.
func (s *Service) CreatePlaylist(ctx context.Context, in PlaylistInput) gerrors.Result[*Playlist] {
	if in.Songs == nil {
		in.Songs = []string{}
	}
	var resp struct {
		Playlist Record `json:"playlist"`
	}
	if err := s.client.Post(ctx, PathCreatePlaylist, in, &resp); err != nil {
		return gerrors.Fail[*Playlist](err)
	}
	if resp.Playlist == nil {
		return gerrors.Ok(&Playlist{Name: in.Name, Description: in.Description})
	}
	return gerrors.Ok(playlistFromRecord(resp.Playlist))
}

// ArtistProfile fetches the signed-in artist's profile.
func (s *Service) ArtistProfile(ctx context.Context) gerrors.Result[*ArtistProfile] {
	var raw Record
	if err := s.client.Get(ctx, PathArtistMe, &raw); err != nil {
		return gerrors.Fail[*ArtistProfile](err)
	}
	if nested, ok := raw["artist"].(map[string]any); ok {
		raw = nested
	}
	return gerrors.Ok(&ArtistProfile{
		ID:   normalize.String(raw, "id", "_id"),
		Name: normalize.String(raw, "name", "username"),
		Raw:  raw,
	})
}

// ArtistTracks lists the signed-in artist's tracks. The service answers
// {tracks}, {items}, or a bare array.
func (s *Service) ArtistTracks(ctx context.Context) gerrors.Result[[]ArtistTrack] {
	var raw json.RawMessage
	if err := s.client.Get(ctx, PathArtistTracks, &raw); err != nil {
		return gerrors.Fail[[]ArtistTrack](err)
	}

	recs, err := decodeTrackList(raw)
	if err != nil {
		return gerrors.Fail[[]ArtistTrack](err)
	}
	return gerrors.Ok(lo.Map(recs, func(rec Record, _ int) ArtistTrack {
		return artistTrackFromRecord(rec)
	}))
}

func decodeTrackList(raw json.RawMessage) ([]Record, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var arr []Record
	if err := json.Unmarshal(raw, &arr); err == nil {
		return compactRecords(arr), nil
	}
	var wrapped struct {
		Tracks []Record `json:"tracks"`
		Items  []Record `json:"items"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, fmt.Errorf("failed to parse tracks: %w", err)
	}
	if wrapped.Tracks != nil {
		return compactRecords(wrapped.Tracks), nil
	}
	return compactRecords(wrapped.Items), nil
}

// UploadTrack uploads a track from the artist dashboard.
func (s *Service) UploadTrack(ctx context.Context, in TrackUpload) gerrors.Result[ArtistTrack] {
	form := backend.Form{
		Fields: map[string]string{
			"title":    in.Title,
			"album":    in.Album,
			"genre":    in.Genre,
			"explicit": strconv.FormatBool(in.Explicit),
		},
		Files: []backend.FormFile{
			{Field: "artwork", Path: in.Artwork},
			{Field: "audio", Path: in.Audio},
		},
	}
	var raw Record
	if err := s.client.PostMultipart(ctx, PathArtistTracks, form, &raw); err != nil {
		return gerrors.Fail[ArtistTrack](err)
	}
	if nested, ok := raw["track"].(map[string]any); ok {
		raw = nested
	}
	return gerrors.Ok(artistTrackFromRecord(raw))
}

// DeleteTrack removes one of the artist's tracks.
func (s *Service) DeleteTrack(ctx context.Context, id string) gerrors.Result[string] {
	if err := s.client.Delete(ctx, PathArtistTracks+"/"+url.PathEscape(id), nil); err != nil {
		return gerrors.Fail[string](err)
	}
	s.logger.Debug("deleted track", "id", id)
	return gerrors.Ok(id)
}

func compactRecords(recs []Record) []Record {
	return lo.Filter(recs, func(rec Record, _ int) bool { return rec != nil })
}
