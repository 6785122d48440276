package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/humdle/humdle-cli/internal/domain"
)

var errAmbiguousGuess = errors.New("query matched several tracks; guess by --track id")

func newGuessCmd(app *app) *cobra.Command {
	var (
		trackID int64
		skip    bool
	)

	cmd := &cobra.Command{
		Use:   "guess [query]",
		Short: "Submit a guess for the ongoing game",
		Long:  "Submit a guess for the ongoing game. Guess by search query when it matches a single track, by --track id otherwise, or skip the slot with --skip.",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			game, err := app.games.ActiveGame(cmd.Context())
			if err != nil {
				return err
			}

			var guessed *domain.TrackID
			switch {
			case skip:
			case cmd.Flags().Changed("track"):
				id := domain.TrackID(trackID)
				guessed = &id
			case len(args) > 0:
				guessed, err = resolveGuess(cmd, app, strings.Join(args, " "))
				if err != nil {
					return err
				}
			default:
				return errors.New("provide a query, --track id, or --skip")
			}

			var updated domain.Game
			err = runFetchSpinner(cmd.Context(), cmd.OutOrStdout(), "Submitting guess...", func(ctx context.Context) error {
				var guessErr error
				updated, guessErr = app.games.SubmitGuess(ctx, game, guessed)
				return guessErr
			})
			if err != nil {
				return fmt.Errorf("submit guess: %w", err)
			}

			return showGame(cmd, updated, 0)
		},
	}
	cmd.Flags().Int64Var(&trackID, "track", 0, "guess a track by its id (see `hum search`)")
	cmd.Flags().BoolVar(&skip, "skip", false, "use up the guess slot without naming a track")

	return cmd
}

// resolveGuess turns a free-text query into a track ID. The guess only
// goes through on an unambiguous match; otherwise the candidates are
// listed so the user can pick one by ID.
func resolveGuess(cmd *cobra.Command, app *app, query string) (*domain.TrackID, error) {
	tracks, err := app.search.Search(cmd.Context(), query)
	if err != nil {
		return nil, err
	}

	switch len(tracks) {
	case 0:
		return nil, fmt.Errorf("no tracks match %q", query)
	case 1:
		return &tracks[0].ID, nil
	default:
		printTracks(cmd, tracks)
		return nil, errAmbiguousGuess
	}
}

func newResignCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "resign",
		Short: "Give up the ongoing game",
		RunE: func(cmd *cobra.Command, _ []string) error {
			game, err := app.games.ActiveGame(cmd.Context())
			if err != nil {
				return err
			}

			finished, err := app.games.Resign(cmd.Context(), game)
			if err != nil {
				return err
			}

			return showGame(cmd, finished, 0)
		},
	}
}
