package cli

import (
	"encoding/json"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

// Table renders rows with go-pretty, fitted to the terminal width.
type Table struct {
	w table.Writer
}

// NewTable creates a new table writing to stdout.
func NewTable(headers ...string) *Table {
	return NewTableWriter(os.Stdout, headers...)
}

// NewTableWriter creates a table writing to a specific writer.
func NewTableWriter(out io.Writer, headers ...string) *Table {
	w := table.NewWriter()
	w.SetOutputMirror(out)
	w.SetStyle(table.StyleLight)
	w.SetAllowedRowLength(termWidth())
	if len(headers) > 0 {
		row := make(table.Row, len(headers))
		for i, h := range headers {
			row[i] = h
		}
		w.AppendHeader(row)
	}
	return &Table{w: w}
}

// Row adds a row to the table.
func (t *Table) Row(values ...string) {
	row := make(table.Row, len(values))
	for i, v := range values {
		row[i] = v
	}
	t.w.AppendRow(row)
}

// Flush writes the table output.
func (t *Table) Flush() {
	t.w.Render()
}

func termWidth() int {
	if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && width > 0 {
		return width
	}
	return 120
}

// isInteractive reports whether prompts can be shown.
func isInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// printJSON writes v as indented JSON to stdout.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// StatusIcon returns an icon for the given boolean status.
func StatusIcon(active bool) string {
	if active {
		return "●"
	}
	return "○"
}

// TruncateString truncates s to maxWidth display cells, adding "…" if truncated.
func TruncateString(s string, maxWidth int) string {
	return runewidth.Truncate(s, maxWidth, "…")
}

// FormatAgo renders a past time relative to now ("3 minutes ago").
func FormatAgo(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return humanize.Time(t)
}

// FormatSize renders a byte count ("4.2 MB").
func FormatSize(n int64) string {
	return humanize.Bytes(uint64(n))
}

// FormatProgress formats a progress bar of width cells.
func FormatProgress(fraction float64, width int) string {
	if width <= 0 {
		return ""
	}
	if fraction <= 0 {
		return strings.Repeat("─", width)
	}
	filled := int(fraction * float64(width))
	if filled > width {
		filled = width
	}
	return strings.Repeat("━", filled) + strings.Repeat("─", width-filled)
}

func secondsDuration(s int) time.Duration {
	return time.Duration(s) * time.Second
}
