package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/tessro/groove/internal/core"
	"github.com/tessro/groove/internal/tui/styles"
)

// LibraryTab selects what the library lists.
type LibraryTab int

const (
	TabSongs LibraryTab = iota
	TabPlaylists
)

// LibraryItem is one selectable row.
type LibraryItem struct {
	ID       string
	Title    string
	Subtitle string
	// Index into the source list the item came from.
	Index int
}

type itemSource []LibraryItem

func (s itemSource) String(i int) string { return s[i].Title + " " + s[i].Subtitle }
func (s itemSource) Len() int            { return len(s) }

// Library lists songs or playlists and filters them by a fuzzy query.
type Library struct {
	tab       LibraryTab
	songs     []LibraryItem
	playlists []LibraryItem
	query     string
	visible   []LibraryItem
	cursor    int
	offset    int
}

// NewLibrary creates an empty library.
func NewLibrary() *Library {
	return &Library{}
}

// SongItems builds library rows from tracks.
func SongItems(tracks []core.Track) []LibraryItem {
	items := make([]LibraryItem, len(tracks))
	for i, t := range tracks {
		items[i] = LibraryItem{ID: t.ID, Title: t.DisplayTitle(), Subtitle: t.DisplayArtist(), Index: i}
	}
	return items
}

// SetSongs replaces the song rows.
func (l *Library) SetSongs(items []LibraryItem) {
	l.songs = items
	l.refilter()
}

// SetPlaylists replaces the playlist rows.
func (l *Library) SetPlaylists(items []LibraryItem) {
	l.playlists = items
	l.refilter()
}

// Tab returns the active tab.
func (l *Library) Tab() LibraryTab {
	return l.tab
}

// ToggleTab switches between songs and playlists.
func (l *Library) ToggleTab() {
	if l.tab == TabSongs {
		l.tab = TabPlaylists
	} else {
		l.tab = TabSongs
	}
	l.cursor, l.offset = 0, 0
	l.refilter()
}

// SetFilter narrows the rows to fuzzy matches of query, best first.
func (l *Library) SetFilter(query string) {
	if query == l.query {
		return
	}
	l.query = query
	l.cursor, l.offset = 0, 0
	l.refilter()
}

// Filter returns the active query.
func (l *Library) Filter() string {
	return l.query
}

func (l *Library) refilter() {
	source := l.songs
	if l.tab == TabPlaylists {
		source = l.playlists
	}
	if l.query == "" {
		l.visible = source
	} else {
		matches := fuzzy.FindFrom(l.query, itemSource(source))
		l.visible = make([]LibraryItem, len(matches))
		for i, m := range matches {
			l.visible[i] = source[m.Index]
		}
	}
	if l.cursor >= len(l.visible) {
		l.cursor = max(0, len(l.visible)-1)
	}
}

// Visible returns the rows after filtering.
func (l *Library) Visible() []LibraryItem {
	return l.visible
}

// CursorDown moves the selection down.
func (l *Library) CursorDown() {
	if l.cursor < len(l.visible)-1 {
		l.cursor++
	}
}

// CursorUp moves the selection up.
func (l *Library) CursorUp() {
	if l.cursor > 0 {
		l.cursor--
	}
}

// Selected returns the row under the cursor.
func (l *Library) Selected() (LibraryItem, bool) {
	if l.cursor < 0 || l.cursor >= len(l.visible) {
		return LibraryItem{}, false
	}
	return l.visible[l.cursor], true
}

// Render renders the library panel. loading replaces the list with a spinner line.
func (l *Library) Render(width, height int, focused bool, loading string, filter string) string {
	songsTab, playlistsTab := styles.Dim.Render("Songs"), styles.Dim.Render("Playlists")
	if l.tab == TabSongs {
		songsTab = styles.Highlight.Render("Songs")
	} else {
		playlistsTab = styles.Highlight.Render("Playlists")
	}
	title := styles.PanelTitle("Library", focused) + " " + songsTab + styles.Dim.Render(" │ ") + playlistsTab

	var content string
	switch {
	case loading != "":
		content = loading
	case len(l.visible) == 0 && l.query != "":
		content = styles.Muted.Render("No matches")
	case len(l.visible) == 0:
		content = styles.Muted.Render("Nothing here yet")
	default:
		content = l.renderList(width-4, height-5, focused)
	}

	lines := []string{title}
	if filter != "" {
		lines = append(lines, filter)
	} else {
		lines = append(lines, "")
	}
	lines = append(lines, content)

	return styles.Panel(focused).
		Width(width).
		Height(height).
		Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (l *Library) renderList(width, maxLines int, focused bool) string {
	visible := max(1, maxLines-1)
	if l.cursor < l.offset {
		l.offset = l.cursor
	}
	if l.cursor >= l.offset+visible {
		l.offset = l.cursor - visible + 1
	}
	end := min(len(l.visible), l.offset+visible)

	lines := make([]string, 0, end-l.offset+1)
	for i := l.offset; i < end; i++ {
		item := l.visible[i]
		title, sub := fitPair(item.Title, item.Subtitle, width-6)
		prefix := "  "
		if i == l.cursor {
			prefix = "> "
		}
		line := fmt.Sprintf("%s%s %s", prefix, title, styles.Muted.Render(sub))
		if i == l.cursor && focused {
			line = styles.Selected.Render(line)
		}
		lines = append(lines, line)
	}
	if end < len(l.visible) {
		lines = append(lines, styles.Dim.Render(fmt.Sprintf("  ... and %d more", len(l.visible)-end)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
