package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tessro/groove/internal/core"
	gerrors "github.com/tessro/groove/internal/errors"
	"github.com/tessro/groove/internal/music"
	"github.com/tessro/groove/internal/normalize"
	"github.com/tessro/groove/internal/session"
	"github.com/tessro/groove/internal/tail"
)

const volumeStep = 0.05

var (
	playPlaylist  string
	playSong      string
	playArtist    string
	playNoEmoji   bool
	playTimestamp bool
	playFormat    string
)

var playCmd = &cobra.Command{
	Use:   "play [song-id]",
	Short: "Play songs in the terminal",
	Long: `Play songs or a playlist and follow playback as it happens.

The whole song list (or playlist) becomes the queue. With a song id,
playback starts at that song; otherwise at the first one.

While playing, type a command and press enter:
  n          Next track
  p          Previous track
  t, space   Play/pause
  + / -      Volume up/down
  m          Mute/unmute
  seek 0.5   Seek to a fraction of the track
  f / b      Skip forward/back 10 seconds
  s          Show the current track and progress
  queue      List the queue
  q          Quit

Examples:
  groove play
  groove play 64f0c2...
  groove play --playlist 65a1... --song 64f0c2...
  groove play --playlist 65a1...`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&playPlaylist, "playlist", "", "play this playlist")
	playCmd.Flags().StringVar(&playSong, "song", "", "start at this song id")
	playCmd.Flags().StringVar(&playArtist, "artist", "", "only songs by this artist id")
	playCmd.Flags().BoolVar(&playNoEmoji, "no-emoji", false, "disable emoji output")
	playCmd.Flags().BoolVarP(&playTimestamp, "timestamp", "t", false, "show timestamps")
	playCmd.Flags().StringVarP(&playFormat, "format", "f", "", "custom event format template")
	rootCmd.AddCommand(playCmd)
}

func runPlay(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	svc, err := newServices()
	if err != nil {
		return err
	}

	list, err := loadPlayList(ctx, svc.music)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		return fmt.Errorf("nothing to play")
	}

	songID := playSong
	if len(args) == 1 {
		songID = args[0]
	}
	start := 0
	if songID != "" {
		start = indexOfTrack(newNormalizer(), list, songID)
		if start < 0 {
			return fmt.Errorf("song %s: %w", songID, gerrors.ErrNotFound)
		}
	}

	sess, err := session.Open(cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = sess.Close() }()
	sess.Start(ctx)
	followConfigVolume(ctx, sess)

	formatter := tail.NewFormatter(
		tail.WithEmoji(!playNoEmoji),
		tail.WithTimestamp(playTimestamp),
		tail.WithTemplate(playFormat),
	)
	watcher := tail.NewWatcher(sess, time.Duration(cfg.Tail.Interval)*time.Millisecond)

	errCh := make(chan error, 1)
	go func() {
		errCh <- watcher.Start(ctx)
	}()

	lines := make(chan string)
	go readLines(os.Stdin, lines)

	sess.PlayTrack(list[start], list)

	for {
		select {
		case event, ok := <-watcher.Events():
			if !ok {
				return nil
			}
			fmt.Println(formatter.Format(event))

		case line, ok := <-lines:
			if !ok {
				// Keep playing when stdin is closed; wait for a signal.
				lines = nil
				continue
			}
			quit, err := handleCommand(sess, line)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
			}
			if quit {
				return nil
			}

		case err := <-errCh:
			if err == context.Canceled {
				return nil
			}
			return err
		}
	}
}

func loadPlayList(ctx context.Context, svc *music.Service) ([]normalize.Record, error) {
	if playPlaylist != "" {
		res := svc.Playlist(ctx, playPlaylist)
		if !res.Ok() {
			return nil, res.Err()
		}
		return res.Value().Songs, nil
	}
	res := svc.Songs(ctx, playArtist)
	if !res.Ok() {
		return nil, res.Err()
	}
	return res.Value(), nil
}

func indexOfTrack(n *normalize.Normalizer, list []normalize.Record, id string) int {
	for i, rec := range list {
		if t, ok := n.Normalize(rec); ok && t.ID == id {
			return i
		}
	}
	return -1
}

func readLines(r io.Reader, out chan<- string) {
	defer close(out)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		out <- scanner.Text()
	}
}

// controller is what the play loop drives.
type controller interface {
	core.Player
	SeekBy(delta float64)
}

// handleCommand applies one typed command. It reports whether to quit.
func handleCommand(c controller, line string) (bool, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		if line != "" {
			c.TogglePlayPause()
		}
		return false, nil
	}

	switch fields[0] {
	case "q", "quit", "exit":
		return true, nil
	case "n", "next":
		c.PlayNext()
	case "p", "prev", "previous":
		c.PlayPrevious()
	case "t", "toggle", "pause", "play":
		c.TogglePlayPause()
	case "+":
		st := c.State()
		c.SetVolume(min(1, st.Volume+volumeStep))
	case "-":
		st := c.State()
		c.SetVolume(max(0, st.Volume-volumeStep))
	case "m", "mute":
		c.ToggleMute()
	case "f":
		c.SeekBy(10)
	case "b":
		c.SeekBy(-10)
	case "seek":
		if len(fields) != 2 {
			return false, fmt.Errorf("usage: seek <fraction>")
		}
		fraction, err := strconv.ParseFloat(fields[1], 64)
		if err != nil || fraction < 0 || fraction > 1 {
			return false, fmt.Errorf("seek fraction must be between 0 and 1")
		}
		c.SeekFraction(fraction)
	case "s", "status":
		fmt.Println(statusLine(c.State()))
	case "queue":
		q := c.Queue()
		for i, t := range q.Tracks {
			marker := " "
			if i == q.CurrentIndex {
				marker = "▶"
			}
			fmt.Printf("%s %d. %s — %s\n", marker, i+1, t.DisplayTitle(), t.DisplayArtist())
		}
	default:
		return false, fmt.Errorf("unknown command %q", fields[0])
	}
	return false, nil
}

func statusLine(st core.PlaybackState) string {
	if !st.HasTrack() {
		return "Nothing playing"
	}
	return fmt.Sprintf("%s %s — %s  %s %s %s",
		StatusIcon(st.IsPlaying()),
		st.Track.DisplayTitle(),
		st.Track.DisplayArtist(),
		core.FormatTime(st.Position),
		FormatProgress(st.ProgressPercent()/100, 20),
		core.FormatTime(st.Duration),
	)
}
