package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	clipplayer "github.com/humdle/humdle-cli/internal/adapters/media/clock"
	"github.com/humdle/humdle-cli/internal/playback"
)

func newListenCmd(app *app) *cobra.Command {
	var (
		outPath string
		playFor time.Duration
		seekTo  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "listen",
		Short: "Fetch the unlocked clip of the ongoing game",
		Long:  "Fetch the unlocked clip of the ongoing game, optionally saving it as a WAV file and simulating playback to preview where the position lands on the board.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			game, err := app.games.ActiveGame(cmd.Context())
			if err != nil {
				return err
			}

			// The server serves the clip from the requested offset, the
			// same way the web player resumes mid-clip.
			var clipSeek *int64
			if seekTo > 0 {
				millis := seekTo.Milliseconds()
				clipSeek = &millis
			}

			var clip []byte
			err = runFetchSpinner(cmd.Context(), cmd.OutOrStdout(), "Fetching clip...", func(ctx context.Context) error {
				var clipErr error
				clip, clipErr = app.games.Clip(ctx, game, clipSeek)
				return clipErr
			})
			if err != nil {
				return fmt.Errorf("fetch clip: %w", err)
			}

			if outPath != "" {
				if err := os.WriteFile(outPath, clip, 0o600); err != nil {
					return fmt.Errorf("write clip file: %w", err)
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "wrote %d bytes to %s\n", len(clip), outPath)
			}

			unlockedEnd := time.Duration(playback.UnlockedEndMillis(game)) * time.Millisecond
			media := clipplayer.NewPlayer(unlockedEnd)
			player := playback.NewPlayer(media, game)

			if playFor > 0 {
				player.Toggle()
				if seekTo > 0 {
					media.Seek(seekTo)
				}
				time.Sleep(playFor)
				player.Toggle()
			} else if seekTo > 0 {
				media.Seek(seekTo)
			}

			if err := showGame(cmd, game, player.PositionMillis()); err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "unlocked: %s of clip\n", unlockedEnd)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "seek points: %s\n", formatSeekPoints(playback.SeekPoints(game)))

			return nil
		},
	}
	cmd.Flags().StringVar(&outPath, "out", "", "write the clip WAV to this path")
	cmd.Flags().DurationVar(&playFor, "for", 0, "simulate playback for this long before showing the board")
	cmd.Flags().DurationVar(&seekTo, "at", 0, "start the simulated position here")

	return cmd
}

func formatSeekPoints(points []int64) string {
	labels := make([]string, 0, len(points))
	for _, point := range points {
		labels = append(labels, (time.Duration(point) * time.Millisecond).String())
	}

	return strings.Join(labels, ", ")
}
