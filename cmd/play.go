package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/humdle/humdle-cli/internal/application"
	"github.com/humdle/humdle-cli/internal/domain"
)

func newPlayCmd(app *app) *cobra.Command {
	var (
		genreID int64
		timed   bool
	)

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Start a new game",
		RunE: func(cmd *cobra.Command, _ []string) error {
			params := application.StartGameParams{Timed: timed}
			if cmd.Flags().Changed("genre") {
				id := domain.GenreID(genreID)
				params.GenreID = &id
			}

			return startGame(cmd, app, params)
		},
	}
	cmd.Flags().Int64Var(&genreID, "genre", 0, "restrict the track to a genre (see `hum genres`)")
	cmd.Flags().BoolVar(&timed, "timed", false, "play against the clock: clips unlock on a timer")

	return cmd
}

func newDailyCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "daily",
		Short: "Play today's daily game",
		RunE: func(cmd *cobra.Command, _ []string) error {
			result, err := app.sessions.EnsureLoggedIn(cmd.Context())
			if err != nil {
				return err
			}
			reportLoginResult(cmd, result)

			// The daily is one game per calendar day; resume it when the
			// server already knows one.
			game, err := app.games.DailyGame(cmd.Context())
			switch {
			case err == nil:
				return showGame(cmd, game, 0)
			case errors.Is(err, domain.ErrNoDailyGame):
				return startGame(cmd, app, application.StartGameParams{Daily: true})
			default:
				return err
			}
		},
	}
}

func startGame(cmd *cobra.Command, app *app, params application.StartGameParams) error {
	result, err := app.sessions.EnsureLoggedIn(cmd.Context())
	if err != nil {
		return err
	}
	reportLoginResult(cmd, result)

	var game domain.Game
	err = runFetchSpinner(cmd.Context(), cmd.OutOrStdout(), "Starting game...", func(ctx context.Context) error {
		var startErr error
		game, startErr = app.games.StartGame(ctx, params)
		return startErr
	})
	if err != nil {
		return fmt.Errorf("start game: %w", err)
	}

	return showGame(cmd, game, 0)
}
