package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultSessionFileName is the default name for the session file.
const DefaultSessionFileName = "session.json"

// StoredCookie is a cookie as the jar hands it back: name and value only.
type StoredCookie struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Session is the signed-in state kept between runs: the non-sensitive user
// record the auth service returned and the cookies each service set.
type Session struct {
	User    json.RawMessage           `json:"user,omitempty"`
	Cookies map[string][]StoredCookie `json:"cookies,omitempty"`
	SavedAt time.Time                 `json:"saved_at"`
}

// HasUser reports whether a user record is stored.
func (s *Session) HasUser() bool {
	return s != nil && len(s.User) > 0 && string(s.User) != "null"
}

// SessionStore handles persisting the session to disk.
type SessionStore struct {
	path string
}

// NewSessionStore creates a session store at the specified path.
// If path is empty, uses the default location (~/.config/groove/session.json).
func NewSessionStore(path string) (*SessionStore, error) {
	if path == "" {
		configDir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get config directory: %w", err)
		}
		path = filepath.Join(configDir, "groove", DefaultSessionFileName)
	}

	return &SessionStore{path: path}, nil
}

// Save persists a session to disk.
func (s *SessionStore) Save(session *Session) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	session.SavedAt = time.Now()
	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	// Cookies are credentials: owner only.
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}

	return nil
}

// Load reads the session from disk. A missing file is not an error.
func (s *SessionStore) Load() (*Session, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to parse session file: %w", err)
	}

	return &session, nil
}

// Delete removes the stored session.
func (s *SessionStore) Delete() error {
	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete session file: %w", err)
	}
	return nil
}

// Exists returns true if a session file exists.
func (s *SessionStore) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Path returns the path to the session file.
func (s *SessionStore) Path() string {
	return s.path
}

// Watch calls onChange whenever the session file is written, created, or
// removed (for example by `groove auth login` in another terminal). It blocks
// until ctx is done.
func (s *SessionStore) Watch(ctx context.Context, onChange func()) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	defer w.Close()

	// Watch the directory; editors and WriteFile may replace the file.
	if err := w.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	name := filepath.Clean(s.path)
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != name {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Remove) {
				onChange()
			}
		case _, ok := <-w.Errors:
			if !ok {
				return nil
			}
		}
	}
}

// CaptureCookies reads the jar's cookies for each base URL.
func CaptureCookies(jar http.CookieJar, baseURLs ...string) map[string][]StoredCookie {
	out := make(map[string][]StoredCookie)
	if jar == nil {
		return out
	}
	for _, raw := range baseURLs {
		u, err := url.Parse(raw)
		if err != nil {
			continue
		}
		cookies := jar.Cookies(u)
		if len(cookies) == 0 {
			continue
		}
		stored := make([]StoredCookie, 0, len(cookies))
		for _, c := range cookies {
			stored = append(stored, StoredCookie{Name: c.Name, Value: c.Value})
		}
		out[raw] = stored
	}
	return out
}

// RestoreCookies puts stored cookies back into the jar.
func RestoreCookies(jar http.CookieJar, cookies map[string][]StoredCookie) {
	if jar == nil {
		return
	}
	for raw, stored := range cookies {
		u, err := url.Parse(raw)
		if err != nil {
			continue
		}
		hc := make([]*http.Cookie, 0, len(stored))
		for _, c := range stored {
			hc = append(hc, &http.Cookie{Name: c.Name, Value: c.Value, Path: "/"})
		}
		jar.SetCookies(u, hc)
	}
}
