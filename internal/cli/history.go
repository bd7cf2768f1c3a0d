package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tessro/groove/internal/config"
	"github.com/tessro/groove/internal/history"
)

var (
	historyLimit int
	historyClear bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recently played tracks",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 0, "number of tracks to show (default from config)")
	historyCmd.Flags().BoolVar(&historyClear, "clear", false, "forget all play history")
	rootCmd.AddCommand(historyCmd)
}

func historyPath() (string, error) {
	if cfg.History.Path != "" {
		return cfg.History.Path, nil
	}
	dir, err := config.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, history.DefaultFileName), nil
}

func runHistory(cmd *cobra.Command, args []string) error {
	path, err := historyPath()
	if err != nil {
		return err
	}
	store, err := history.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if historyClear {
		if err := store.Clear(); err != nil {
			return err
		}
		if JSONOutput() {
			return printJSON(map[string]string{"status": "cleared"})
		}
		fmt.Println("Play history cleared.")
		return nil
	}

	limit := historyLimit
	if limit <= 0 {
		limit = cfg.History.Limit
	}
	entries, err := store.Recent(limit)
	if err != nil {
		return err
	}

	if JSONOutput() {
		return printJSON(entries)
	}
	if len(entries) == 0 {
		fmt.Println("Nothing played yet.")
		return nil
	}

	tbl := NewTable("PLAYED", "TITLE", "ARTIST")
	for _, e := range entries {
		tbl.Row(FormatAgo(e.PlayedAt), TruncateString(e.Track.DisplayTitle(), 40), TruncateString(e.Track.DisplayArtist(), 30))
	}
	tbl.Flush()
	return nil
}
