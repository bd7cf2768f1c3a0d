package playback

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
)

func TestFetcherHTTPCaches(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte("ID3audio"))
	}))
	defer server.Close()

	f, err := NewFetcher(server.Client(), 2)
	if err != nil {
		t.Fatalf("NewFetcher() error = %v", err)
	}

	for i := 0; i < 3; i++ {
		data, err := f.Fetch(context.Background(), server.URL+"/a.mp3")
		if err != nil {
			t.Fatalf("Fetch() error = %v", err)
		}
		if string(data) != "ID3audio" {
			t.Errorf("Fetch() = %q, want %q", data, "ID3audio")
		}
	}

	if got := hits.Load(); got != 1 {
		t.Errorf("server hits = %d, want 1", got)
	}
}

func TestFetcherHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	f, _ := NewFetcher(server.Client(), 0)
	if _, err := f.Fetch(context.Background(), server.URL+"/missing.mp3"); err == nil {
		t.Error("Fetch() error = nil, want error for 404")
	}
}

func TestFetcherLocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "song.wav")
	if err := os.WriteFile(path, []byte("RIFF"), 0600); err != nil {
		t.Fatal(err)
	}

	f, _ := NewFetcher(nil, 0)

	for _, location := range []string{path, "file://" + path} {
		data, err := f.Fetch(context.Background(), location)
		if err != nil {
			t.Fatalf("Fetch(%q) error = %v", location, err)
		}
		if string(data) != "RIFF" {
			t.Errorf("Fetch(%q) = %q, want RIFF", location, data)
		}
	}
}

func TestFetcherUnsupportedScheme(t *testing.T) {
	f, _ := NewFetcher(nil, 0)
	if _, err := f.Fetch(context.Background(), "ftp://example.com/a.mp3"); err == nil {
		t.Error("Fetch() error = nil, want unsupported scheme error")
	}
}
