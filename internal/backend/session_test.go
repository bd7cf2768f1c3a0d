package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestSessionStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")

	store, err := NewSessionStore(path)
	if err != nil {
		t.Fatalf("NewSessionStore() error = %v", err)
	}

	if store.Exists() {
		t.Error("Exists() = true, want false for new store")
	}

	session, err := store.Load()
	if err != nil {
		t.Errorf("Load() error = %v", err)
	}
	if session != nil {
		t.Error("Load() should return nil for a missing session")
	}

	in := &Session{
		User:    json.RawMessage(`{"email":"a@b.c"}`),
		Cookies: map[string][]StoredCookie{"http://localhost:3000": {{Name: "token", Value: "jwt"}}},
	}
	if err := store.Save(in); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if mode := info.Mode().Perm(); mode != 0600 {
		t.Errorf("File permissions = %o, want 0600", mode)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !loaded.HasUser() {
		t.Error("HasUser() = false after save")
	}
	if got := loaded.Cookies["http://localhost:3000"][0].Value; got != "jwt" {
		t.Errorf("cookie value = %q, want jwt", got)
	}
	if loaded.SavedAt.IsZero() {
		t.Error("SavedAt not set")
	}

	if err := store.Delete(); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if store.Exists() {
		t.Error("Exists() = true after delete")
	}
	if err := store.Delete(); err != nil {
		t.Errorf("Delete() twice error = %v", err)
	}
}

func TestHasUser(t *testing.T) {
	tests := []struct {
		name    string
		session *Session
		want    bool
	}{
		{"nil session", nil, false},
		{"no user", &Session{}, false},
		{"null user", &Session{User: json.RawMessage("null")}, false},
		{"user", &Session{User: json.RawMessage(`{}`)}, true},
	}
	for _, tt := range tests {
		if got := tt.session.HasUser(); got != tt.want {
			t.Errorf("%s: HasUser() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestCookieRoundTrip(t *testing.T) {
	jar, err := NewJar()
	if err != nil {
		t.Fatal(err)
	}
	u, _ := url.Parse("http://localhost:3000")
	jar.SetCookies(u, []*http.Cookie{{Name: "token", Value: "jwt", Path: "/"}})

	stored := CaptureCookies(jar, "http://localhost:3000", "http://localhost:3002")
	// Cookies are host scoped, so both services see the token.
	if len(stored) != 2 {
		t.Fatalf("CaptureCookies() = %v, want entries for both services", stored)
	}

	fresh, _ := NewJar()
	RestoreCookies(fresh, stored)
	got := fresh.Cookies(u)
	if len(got) != 1 || got[0].Value != "jwt" {
		t.Errorf("restored cookies = %v, want token=jwt", got)
	}
}

func TestWatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	store, _ := NewSessionStore(path)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan struct{}, 8)
	done := make(chan error, 1)
	go func() {
		done <- store.Watch(ctx, func() { changed <- struct{}{} })
	}()

	// Give the watcher time to register before writing.
	time.Sleep(100 * time.Millisecond)
	if err := store.Save(&Session{}); err != nil {
		t.Fatal(err)
	}

	select {
	case <-changed:
	case <-time.After(2 * time.Second):
		t.Fatal("Watch() did not report the write")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Watch() error = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Watch() did not return after cancel")
	}
}
