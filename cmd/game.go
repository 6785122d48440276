package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/humdle/humdle-cli/internal/adapters/render/board"
	"github.com/humdle/humdle-cli/internal/domain"
)

func newGameCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "game [id]",
		Short: "Show the ongoing game, or a specific one by ID",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				game domain.Game
				err  error
			)
			if len(args) == 1 {
				var id int64
				id, err = strconv.ParseInt(args[0], 10, 64)
				if err != nil {
					return fmt.Errorf("parse game id %q: %w", args[0], err)
				}
				game, err = app.games.Game(cmd.Context(), domain.GameID(id))
			} else {
				game, err = app.games.ActiveGame(cmd.Context())
			}
			if err != nil {
				return err
			}

			return showGame(cmd, game, 0)
		},
	}
}

func showGame(cmd *cobra.Command, game domain.Game, positionMillis int64) error {
	output, err := board.Render(game, board.RenderOptions{PositionMillis: positionMillis})
	if err != nil {
		return fmt.Errorf("render game: %w", err)
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), output)
	return err
}
