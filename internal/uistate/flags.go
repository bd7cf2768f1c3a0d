// Package uistate is a register of named open/closed UI flags that
// unrelated components toggle and observe. Flags never carry data.
package uistate

import (
	"sort"
	"sync"
)

// Flag names a piece of open/closed UI state.
type Flag string

// Known flags.
const (
	PlaylistModal Flag = "playlist-modal"
	MobileMenu    Flag = "mobile-menu"
	Help          Flag = "help"
	Search        Flag = "search"
)

// Flags holds the open flags. The zero value is not usable; call New.
type Flags struct {
	mu   sync.RWMutex
	open map[Flag]bool

	subMu   sync.Mutex
	subs    map[uint64]func(Flag, bool)
	nextSub uint64
}

// New creates a register with every flag closed.
func New() *Flags {
	return &Flags{
		open: make(map[Flag]bool),
		subs: make(map[uint64]func(Flag, bool)),
	}
}

// Open opens f.
func (s *Flags) Open(f Flag) { s.set(f, true) }

// Close closes f.
func (s *Flags) Close(f Flag) { s.set(f, false) }

// Toggle flips f and returns the new value.
func (s *Flags) Toggle(f Flag) bool {
	s.mu.Lock()
	v := !s.open[f]
	s.open[f] = v
	s.mu.Unlock()

	s.notify(f, v)
	return v
}

// IsOpen reports whether f is open.
func (s *Flags) IsOpen(f Flag) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.open[f]
}

// OpenFlags lists the open flags in name order.
func (s *Flags) OpenFlags() []Flag {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Flag
	for f, v := range s.open {
		if v {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Subscribe registers fn for changes. Setting a flag to the value it already
// has is not a change. Call the returned func to unsubscribe.
func (s *Flags) Subscribe(fn func(Flag, bool)) func() {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *Flags) set(f Flag, v bool) {
	s.mu.Lock()
	changed := s.open[f] != v
	s.open[f] = v
	s.mu.Unlock()

	if changed {
		s.notify(f, v)
	}
}

func (s *Flags) notify(f Flag, v bool) {
	s.subMu.Lock()
	fns := make([]func(Flag, bool), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(f, v)
	}
}
