// Package history records the tracks groove has played, newest first.
package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"

	"github.com/tessro/groove/internal/core"
)

var playsBucket = []byte("plays")

// DefaultFileName is the database file name inside groove's config dir.
const DefaultFileName = "history.db"

// Entry is one played track.
type Entry struct {
	Track    core.Track `json:"track"`
	PlayedAt time.Time  `json:"played_at"`
}

// Store is a bbolt-backed play history. Each track appears at most once;
// playing it again moves it to the top.
type Store struct {
	db  *bbolt.DB
	now func() time.Time
}

// Open opens (creating if needed) the history database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("could not create history directory: %w", err)
	}

	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("could not open history database: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(playsBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("could not create history bucket: %w", err)
	}

	return &Store{db: db, now: time.Now}, nil
}

// keyLayout is fixed width so keys sort in time order byte by byte.
const keyLayout = "2006-01-02T15:04:05.000000000Z07:00"

func entryKey(t time.Time, id string) []byte {
	return []byte(fmt.Sprintf("%s:%s", t.UTC().Format(keyLayout), id))
}

// Record adds track as the most recent play.
func (s *Store) Record(track core.Track) error {
	if track.ID == "" {
		return nil
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(playsBucket)

		if err := deleteTrack(b, track.ID); err != nil {
			return err
		}

		entry := Entry{Track: track, PlayedAt: s.now()}
		value, err := json.Marshal(entry)
		if err != nil {
			return fmt.Errorf("error serializing history entry: %w", err)
		}
		return b.Put(entryKey(entry.PlayedAt, track.ID), value)
	})
}

func deleteTrack(b *bbolt.Bucket, id string) error {
	c := b.Cursor()
	for k, v := c.First(); k != nil; k, v = c.Next() {
		var e Entry
		if err := json.Unmarshal(v, &e); err != nil {
			continue
		}
		if e.Track.ID == id {
			return c.Delete()
		}
	}
	return nil
}

// Recent returns up to limit entries, newest first. A non-positive limit
// returns everything.
func (s *Store) Recent(limit int) ([]Entry, error) {
	var entries []Entry

	err := s.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket(playsBucket).Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			if limit > 0 && len(entries) >= limit {
				break
			}
			var e Entry
			if err := json.Unmarshal(v, &e); err != nil {
				return fmt.Errorf("error deserializing history entry: %w", err)
			}
			entries = append(entries, e)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// Clear removes every entry.
func (s *Store) Clear() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket(playsBucket); err != nil {
			return err
		}
		_, err := tx.CreateBucket(playsBucket)
		return err
	})
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
