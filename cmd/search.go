package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/humdle/humdle-cli/internal/domain"
)

func newSearchCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search tracks to guess",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tracks, err := app.search.Search(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			if len(tracks) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no tracks found")
				return nil
			}

			printTracks(cmd, tracks)
			return nil
		},
	}
}

func printTracks(cmd *cobra.Command, tracks []domain.Track) {
	for _, track := range tracks {
		line := fmt.Sprintf("%d\t%s - %s", track.ID, track.Title, track.ArtistName)
		if track.AlbumName != "" {
			line += fmt.Sprintf(" (%s)", track.AlbumName)
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), line)
	}
}

func newGenresCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "genres",
		Short: "List playable genres",
		RunE: func(cmd *cobra.Command, _ []string) error {
			genres, err := app.games.Genres(cmd.Context())
			if err != nil {
				return err
			}

			for _, genre := range genres {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", genre.ID, genre.Name)
			}

			return nil
		},
	}
}
