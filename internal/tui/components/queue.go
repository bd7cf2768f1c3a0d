package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/tessro/groove/internal/core"
	"github.com/tessro/groove/internal/tui/styles"
)

// Queue displays the play queue with a movable cursor.
type Queue struct {
	offset int
	cursor int
}

// NewQueue creates a new Queue component
func NewQueue() *Queue {
	return &Queue{}
}

// CursorDown moves the cursor down within n tracks.
func (q *Queue) CursorDown(n int) {
	if q.cursor < n-1 {
		q.cursor++
	}
}

// CursorUp moves the cursor up.
func (q *Queue) CursorUp() {
	if q.cursor > 0 {
		q.cursor--
	}
}

// Selected returns the index under the cursor.
func (q *Queue) Selected() int {
	return q.cursor
}

// Follow puts the cursor on the current track.
func (q *Queue) Follow(index int) {
	if index >= 0 {
		q.cursor = index
	}
}

// Render renders the queue panel
func (q *Queue) Render(queue *core.Queue, width, height int, focused bool) string {
	title := styles.PanelTitle(fmt.Sprintf("Queue (%d)", queue.Len()), focused)

	var content string
	if queue.IsEmpty() {
		content = styles.Muted.Render("Queue is empty")
	} else {
		content = q.renderQueue(queue, width-4, height-4, focused)
	}

	return styles.Panel(focused).
		Width(width).
		Height(height).
		Render(lipgloss.JoinVertical(lipgloss.Left, title, "", content))
}

func (q *Queue) renderQueue(queue *core.Queue, width, maxLines int, focused bool) string {
	tracks := queue.Tracks
	if q.cursor >= len(tracks) {
		q.cursor = len(tracks) - 1
	}

	visible := max(1, maxLines-1)
	if q.cursor < q.offset {
		q.offset = q.cursor
	}
	if q.cursor >= q.offset+visible {
		q.offset = q.cursor - visible + 1
	}
	if q.offset >= len(tracks) {
		q.offset = 0
	}
	end := min(len(tracks), q.offset+visible)

	lines := make([]string, 0, end-q.offset+1)
	for i := q.offset; i < end; i++ {
		lines = append(lines, q.renderLine(tracks[i], i, i == queue.CurrentIndex, focused && i == q.cursor, width))
	}

	if end < len(tracks) {
		lines = append(lines, styles.Dim.Render(fmt.Sprintf("    ... and %d more", len(tracks)-end)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (q *Queue) renderLine(t core.Track, i int, current, selected bool, width int) string {
	num := fmt.Sprintf("%2d.", i+1)
	title, artist := fitPair(t.DisplayTitle(), t.DisplayArtist(), width-9)

	var line string
	if current {
		line = styles.Playing.Render(fmt.Sprintf("%s ▶ %s — %s", num, title, artist))
	} else {
		line = fmt.Sprintf("%s   %s — %s", styles.Dim.Render(num), title, styles.Muted.Render(artist))
	}
	if selected {
		line = styles.Selected.Render(line)
	}
	return line
}

// fitPair truncates title and artist to share available cells. The artist
// keeps at least a third of the space when both cannot fit.
func fitPair(title, artist string, available int) (string, string) {
	tw, aw := runewidth.StringWidth(title), runewidth.StringWidth(artist)
	if tw+aw <= available {
		return title, artist
	}

	artistSpace := max(8, available/3)
	artistSpace = min(artistSpace, max(0, available-8), aw)
	titleSpace := max(0, available-artistSpace)

	return runewidth.Truncate(title, titleSpace, "…"), runewidth.Truncate(artist, artistSpace, "…")
}
