package playback

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize is the number of recently fetched sources kept in memory.
const DefaultCacheSize = 8

// Fetcher loads raw audio bytes from http(s) URLs or local files.
type Fetcher struct {
	client *http.Client
	cache  *lru.Cache[string, []byte]
}

// NewFetcher creates a fetcher. A nil client gets a default with a generous timeout.
func NewFetcher(client *http.Client, cacheSize int) (*Fetcher, error) {
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Minute}
	}
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	cache, err := lru.New[string, []byte](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create audio cache: %w", err)
	}
	return &Fetcher{client: client, cache: cache}, nil
}

// Fetch returns the bytes at location.
func (f *Fetcher) Fetch(ctx context.Context, location string) ([]byte, error) {
	if data, ok := f.cache.Get(location); ok {
		return data, nil
	}

	u, err := url.Parse(location)
	if err != nil {
		return nil, fmt.Errorf("invalid audio location %q: %w", location, err)
	}

	var data []byte
	switch u.Scheme {
	case "http", "https":
		data, err = f.fetchHTTP(ctx, location)
	case "file":
		data, err = os.ReadFile(u.Path)
	case "":
		data, err = os.ReadFile(location)
	default:
		return nil, fmt.Errorf("unsupported audio scheme %q", u.Scheme)
	}
	if err != nil {
		return nil, err
	}

	f.cache.Add(location, data)
	return data, nil
}

func (f *Fetcher) fetchHTTP(ctx context.Context, location string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch audio: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch audio: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio: %w", err)
	}
	return data, nil
}
