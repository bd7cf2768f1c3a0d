package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	gerrors "github.com/tessro/groove/internal/errors"
	"github.com/tessro/groove/internal/music"
)

var (
	trackTitle    string
	trackAlbum    string
	trackGenre    string
	trackExplicit bool
	trackArtwork  string

	deleteYes bool
)

var artistCmd = &cobra.Command{
	Use:   "artist",
	Short: "Manage your artist catalog",
	Long:  `Commands for artist accounts: view your profile and upload or remove tracks.`,
}

var artistMeCmd = &cobra.Command{
	Use:   "me",
	Short: "Show your artist profile",
	RunE:  runArtistMe,
}

var artistTracksCmd = &cobra.Command{
	Use:   "tracks",
	Short: "List your uploaded tracks",
	RunE:  runArtistTracks,
}

var artistUploadCmd = &cobra.Command{
	Use:   "upload <audio-file>",
	Short: "Upload a track",
	Args:  cobra.ExactArgs(1),
	RunE:  runArtistUpload,
}

var artistDeleteCmd = &cobra.Command{
	Use:   "delete <track-id>...",
	Short: "Delete one or more of your tracks",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runArtistDelete,
}

func init() {
	artistUploadCmd.Flags().StringVar(&trackTitle, "title", "", "track title")
	artistUploadCmd.Flags().StringVar(&trackAlbum, "album", "", "album name")
	artistUploadCmd.Flags().StringVar(&trackGenre, "genre", "", "genre")
	artistUploadCmd.Flags().BoolVar(&trackExplicit, "explicit", false, "mark as explicit")
	artistUploadCmd.Flags().StringVar(&trackArtwork, "artwork", "", "artwork image file")
	_ = artistUploadCmd.MarkFlagRequired("title")

	artistDeleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "skip confirmation")

	artistCmd.AddCommand(artistMeCmd, artistTracksCmd, artistUploadCmd, artistDeleteCmd)
	rootCmd.AddCommand(artistCmd)
}

func runArtistMe(cmd *cobra.Command, args []string) error {
	svc, err := newServices()
	if err != nil {
		return err
	}

	res := svc.music.ArtistProfile(cmd.Context())
	if !res.Ok() {
		return res.Err()
	}
	profile := res.Value()

	if JSONOutput() {
		return printJSON(profile.Raw)
	}
	fmt.Printf("Artist: %s\n", profile.Name)
	fmt.Printf("ID:     %s\n", profile.ID)
	return nil
}

func runArtistTracks(cmd *cobra.Command, args []string) error {
	svc, err := newServices()
	if err != nil {
		return err
	}

	res := svc.music.ArtistTracks(cmd.Context())
	if !res.Ok() {
		return res.Err()
	}
	tracks := res.Value()

	if JSONOutput() {
		raws := make([]music.Record, len(tracks))
		for i, t := range tracks {
			raws[i] = t.Raw
		}
		return printJSON(raws)
	}
	if len(tracks) == 0 {
		fmt.Println("No tracks uploaded yet.")
		return nil
	}

	tbl := NewTable("ID", "TITLE", "ARTIST", "DURATION")
	for _, t := range tracks {
		tbl.Row(t.ID, TruncateString(t.Title, 40), TruncateString(t.ArtistName, 30), t.Duration)
	}
	tbl.Flush()
	return nil
}

func runArtistUpload(cmd *cobra.Command, args []string) error {
	svc, err := newServices()
	if err != nil {
		return err
	}

	res := svc.music.UploadTrack(cmd.Context(), music.TrackUpload{
		Title:    trackTitle,
		Album:    trackAlbum,
		Genre:    trackGenre,
		Explicit: trackExplicit,
		Artwork:  trackArtwork,
		Audio:    args[0],
	})
	if !res.Ok() {
		return res.Err()
	}
	track := res.Value()

	if JSONOutput() {
		return printJSON(map[string]string{"status": "uploaded", "id": track.ID, "title": track.Title})
	}
	fmt.Printf("Uploaded %q\n", track.Title)
	return nil
}

func runArtistDelete(cmd *cobra.Command, args []string) error {
	if !deleteYes {
		if !isInteractive() {
			return fmt.Errorf("refusing to delete without --yes")
		}
		confirmed := false
		err := huh.NewConfirm().
			Title(fmt.Sprintf("Delete %d track(s)?", len(args))).
			Description(strings.Join(args, "\n")).
			Affirmative("Delete").
			Negative("Cancel").
			Value(&confirmed).
			Run()
		if err != nil || !confirmed {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	svc, err := newServices()
	if err != nil {
		return err
	}

	result := deleteTracks(cmd.Context(), svc.music, args)

	if JSONOutput() {
		out := map[string]any{"deleted": result.Data}
		if result.HasErrors() {
			out["errors"] = lo.Map(result.Errors, func(e error, _ int) string { return e.Error() })
		}
		if err := printJSON(out); err != nil {
			return err
		}
	} else {
		for _, id := range result.Data {
			fmt.Printf("Deleted track %s\n", id)
		}
	}

	if result.HasErrors() {
		return errors.New(result.ErrorSummary())
	}
	return nil
}

type trackDeleter interface {
	DeleteTrack(ctx context.Context, id string) gerrors.Result[string]
}

// deleteTracks keeps going after a failure so one bad id doesn't block the rest.
func deleteTracks(ctx context.Context, d trackDeleter, ids []string) *gerrors.PartialResult[[]string] {
	result := &gerrors.PartialResult[[]string]{}
	for _, id := range ids {
		res := d.DeleteTrack(ctx, id)
		if !res.Ok() {
			result.AddError(fmt.Errorf("%s: %w", id, res.Err()))
			continue
		}
		result.Data = append(result.Data, id)
	}
	return result
}
