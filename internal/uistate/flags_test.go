package uistate

import (
	"reflect"
	"testing"
)

func TestOpenCloseToggle(t *testing.T) {
	s := New()

	if s.IsOpen(PlaylistModal) {
		t.Error("IsOpen(PlaylistModal) = true on a new register")
	}

	s.Open(PlaylistModal)
	if !s.IsOpen(PlaylistModal) {
		t.Error("IsOpen(PlaylistModal) = false after Open")
	}
	if s.IsOpen(MobileMenu) {
		t.Error("opening one flag opened another")
	}

	if got := s.Toggle(MobileMenu); !got {
		t.Errorf("Toggle(MobileMenu) = %v, want true", got)
	}
	if got := s.OpenFlags(); !reflect.DeepEqual(got, []Flag{MobileMenu, PlaylistModal}) {
		t.Errorf("OpenFlags() = %v", got)
	}

	s.Close(PlaylistModal)
	if s.IsOpen(PlaylistModal) {
		t.Error("IsOpen(PlaylistModal) = true after Close")
	}
	if got := s.Toggle(MobileMenu); got {
		t.Errorf("Toggle(MobileMenu) = %v, want false", got)
	}
}

func TestSubscribe(t *testing.T) {
	s := New()

	type change struct {
		flag Flag
		open bool
	}
	var got []change
	unsubscribe := s.Subscribe(func(f Flag, open bool) {
		got = append(got, change{f, open})
	})

	s.Open(Help)
	s.Open(Help) // no change
	s.Toggle(Search)
	s.Close(Help)

	want := []change{{Help, true}, {Search, true}, {Help, false}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("changes = %v, want %v", got, want)
	}

	unsubscribe()
	s.Open(PlaylistModal)
	if len(got) != len(want) {
		t.Errorf("received %d changes after unsubscribe", len(got)-len(want))
	}
}
