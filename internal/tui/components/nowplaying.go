package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/tessro/groove/internal/core"
	"github.com/tessro/groove/internal/tui/styles"
)

// Rows inside the panel, counted from its top border.
const (
	progressRow  = 6
	contentLeft  = 2
	minBarWidth  = 10
	timeColWidth = 6
)

// NowPlaying displays the current track and a clickable progress bar.
type NowPlaying struct {
	barX     int
	barY     int
	barWidth int
}

// NewNowPlaying creates a new NowPlaying component
func NewNowPlaying() *NowPlaying {
	return &NowPlaying{}
}

// Render renders the now playing panel at the given screen origin.
func (n *NowPlaying) Render(state *core.PlaybackState, x, y, width, height int, focused bool, spinner string) string {
	title := styles.PanelTitle("Now Playing", focused)

	var content string
	n.barWidth = 0
	if !state.HasTrack() {
		content = styles.Muted.Render("Nothing playing. Pick a song from the library.")
	} else {
		content = n.renderTrack(state, x, y, width-4, spinner)
	}

	return styles.Panel(focused).
		Width(width).
		Height(height).
		Render(lipgloss.JoinVertical(lipgloss.Left, title, "", content))
}

func (n *NowPlaying) renderTrack(state *core.PlaybackState, x, y, width int, spinner string) string {
	track := state.Track

	icon := styles.StatusIcon(state.Status)
	if state.Status == core.StatusLoading && spinner != "" {
		icon = spinner
	}
	title := styles.Title.Render(runewidth.Truncate(track.DisplayTitle(), width-2, "…"))
	artist := styles.Subtitle.Render(runewidth.Truncate(track.DisplayArtist(), width-2, "…"))

	barWidth := max(minBarWidth, width-2*timeColWidth)
	current := fmt.Sprintf("%5s", core.FormatTime(state.Position))
	total := core.FormatTime(state.Duration)
	progress := fmt.Sprintf("%s %s %s", current, styles.ProgressBar(state.ProgressPercent(), barWidth), total)

	n.barX = x + contentLeft + runewidth.StringWidth(current) + 1
	n.barY = y + progressRow
	n.barWidth = barWidth

	volume := fmt.Sprintf("%s %d%%", styles.VolumeIcon(state), int(state.Volume*100+0.5))
	if state.Muted {
		volume += " (muted)"
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		icon+" "+title,
		"  "+artist,
		"",
		progress,
		"",
		styles.Muted.Render(volume)+"  "+styles.Dim.Render(state.Status.String()),
	)
}

// FractionAt maps a screen cell to a position on the progress bar.
// The bool is false when the cell is not on the bar.
func (n *NowPlaying) FractionAt(x, y int) (float64, bool) {
	if n.barWidth <= 0 || y != n.barY || x < n.barX || x >= n.barX+n.barWidth {
		return 0, false
	}
	return float64(x-n.barX) / float64(n.barWidth), true
}
