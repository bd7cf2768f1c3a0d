package cli

import (
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/tessro/groove/internal/core"
	"github.com/tessro/groove/internal/music"
	"github.com/tessro/groove/internal/normalize"
)

var (
	songsArtist string

	playlistName        string
	playlistDescription string
	playlistSongs       string

	uploadTitle string
	uploadCover string
)

var songsCmd = &cobra.Command{
	Use:   "songs",
	Short: "List songs",
	Long: `List songs from the music service.

Examples:
  groove songs
  groove songs --artist 64f0c2...`,
	RunE: runSongs,
}

var playlistsCmd = &cobra.Command{
	Use:   "playlists",
	Short: "List your playlists",
	RunE:  runPlaylists,
}

var playlistCmd = &cobra.Command{
	Use:   "playlist",
	Short: "Show or create a playlist",
}

var playlistShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a playlist and its songs",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlaylistShow,
}

var playlistCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a playlist",
	Long: `Create a playlist from a comma separated list of song ids.

Examples:
  groove playlist create --name "Road trip" --songs id1,id2,id3`,
	RunE: runPlaylistCreate,
}

var uploadCmd = &cobra.Command{
	Use:   "upload <audio-file>",
	Short: "Upload a song with its cover image",
	Args:  cobra.ExactArgs(1),
	RunE:  runUpload,
}

func init() {
	songsCmd.Flags().StringVar(&songsArtist, "artist", "", "only songs by this artist id")

	playlistCreateCmd.Flags().StringVar(&playlistName, "name", "", "playlist name")
	playlistCreateCmd.Flags().StringVar(&playlistDescription, "description", "", "playlist description")
	playlistCreateCmd.Flags().StringVar(&playlistSongs, "songs", "", "comma separated song ids")

	uploadCmd.Flags().StringVar(&uploadTitle, "title", "", "song title")
	uploadCmd.Flags().StringVar(&uploadCover, "cover", "", "cover image file")
	_ = uploadCmd.MarkFlagRequired("title")

	playlistCmd.AddCommand(playlistShowCmd, playlistCreateCmd)
	rootCmd.AddCommand(songsCmd, playlistsCmd, playlistCmd, uploadCmd)
}

func newNormalizer() *normalize.Normalizer {
	return normalize.New(cfg.Normalizer.IDFields, cfg.Normalizer.URLFields)
}

func runSongs(cmd *cobra.Command, args []string) error {
	svc, err := newServices()
	if err != nil {
		return err
	}

	res := svc.music.Songs(cmd.Context(), songsArtist)
	if !res.Ok() {
		return res.Err()
	}

	tracks := newNormalizer().NormalizeAll(res.Value())
	if JSONOutput() {
		return printJSON(tracks)
	}
	if len(tracks) == 0 {
		fmt.Println("No songs found.")
		return nil
	}
	printTracks(tracks)
	return nil
}

func printTracks(tracks []core.Track) {
	tbl := NewTable("#", "ID", "TITLE", "ARTIST", "AUDIO")
	for i, t := range tracks {
		tbl.Row(
			fmt.Sprintf("%d", i+1),
			t.ID,
			TruncateString(t.DisplayTitle(), 40),
			TruncateString(t.DisplayArtist(), 30),
			StatusIcon(t.Playable()),
		)
	}
	tbl.Flush()
}

func runPlaylists(cmd *cobra.Command, args []string) error {
	svc, err := newServices()
	if err != nil {
		return err
	}

	res := svc.music.Playlists(cmd.Context())
	if !res.Ok() {
		return res.Err()
	}
	playlists := res.Value()

	if JSONOutput() {
		return printJSON(lo.Map(playlists, func(p *music.Playlist, _ int) map[string]any {
			return map[string]any{
				"id":          p.ID,
				"name":        p.Name,
				"description": p.Description,
				"songs":       len(p.Songs),
			}
		}))
	}
	if len(playlists) == 0 {
		fmt.Println("No playlists yet. Create one with 'groove playlist create'.")
		return nil
	}

	tbl := NewTable("ID", "NAME", "SONGS", "DESCRIPTION")
	for _, p := range playlists {
		tbl.Row(p.ID, TruncateString(p.Name, 30), fmt.Sprintf("%d", len(p.Songs)), TruncateString(p.Description, 40))
	}
	tbl.Flush()
	return nil
}

func runPlaylistShow(cmd *cobra.Command, args []string) error {
	svc, err := newServices()
	if err != nil {
		return err
	}

	res := svc.music.Playlist(cmd.Context(), args[0])
	if !res.Ok() {
		return res.Err()
	}
	p := res.Value()
	tracks := newNormalizer().NormalizeAll(p.Songs)

	if JSONOutput() {
		return printJSON(map[string]any{
			"id":          p.ID,
			"name":        p.Name,
			"description": p.Description,
			"cover":       p.CoverImageURL(),
			"tracks":      tracks,
		})
	}

	fmt.Println(p.Name)
	if p.Description != "" {
		fmt.Println(p.Description)
	}
	fmt.Println()
	if len(tracks) == 0 {
		fmt.Println("This playlist is empty.")
		return nil
	}
	printTracks(tracks)
	return nil
}

func runPlaylistCreate(cmd *cobra.Command, args []string) error {
	if playlistName == "" {
		if !isInteractive() {
			return fmt.Errorf("--name is required")
		}
		form := huh.NewForm(huh.NewGroup(
			huh.NewInput().Title("Name").Value(&playlistName).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("name is required")
					}
					return nil
				}),
			huh.NewText().Title("Description").Value(&playlistDescription),
			huh.NewInput().Title("Song ids").Description("Comma separated").Value(&playlistSongs),
		))
		if err := form.Run(); err != nil {
			return fmt.Errorf("create cancelled: %w", err)
		}
	}

	svc, err := newServices()
	if err != nil {
		return err
	}

	res := svc.music.CreatePlaylist(cmd.Context(), music.PlaylistInput{
		Name:        playlistName,
		Description: playlistDescription,
		Songs:       music.SplitSongs(playlistSongs),
	})
	if !res.Ok() {
		return res.Err()
	}
	p := res.Value()

	if JSONOutput() {
		return printJSON(map[string]string{"status": "created", "id": p.ID, "name": p.Name})
	}
	fmt.Printf("Created playlist %q\n", p.Name)
	return nil
}

func runUpload(cmd *cobra.Command, args []string) error {
	info, err := os.Stat(args[0])
	if err != nil {
		return fmt.Errorf("cannot read audio file: %w", err)
	}

	svc, err := newServices()
	if err != nil {
		return err
	}

	res := svc.music.CreateSong(cmd.Context(), music.SongUpload{
		Title: uploadTitle,
		Audio: args[0],
		Cover: uploadCover,
	})
	if !res.Ok() {
		return res.Err()
	}

	track, ok := newNormalizer().Normalize(res.Value())
	if JSONOutput() {
		return printJSON(res.Value())
	}
	if ok {
		fmt.Printf("Uploaded %q (%s, %s)\n", track.DisplayTitle(), track.ID, FormatSize(info.Size()))
	} else {
		fmt.Printf("Uploaded %q (%s)\n", uploadTitle, FormatSize(info.Size()))
	}
	return nil
}
