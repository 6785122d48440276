package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newHistoryCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "List finished games archived on this machine",
		RunE: func(cmd *cobra.Command, _ []string) error {
			records, err := app.games.History(cmd.Context())
			if err != nil {
				return err
			}
			if len(records) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no finished games yet")
				return nil
			}

			wins := 0
			for _, record := range records {
				verdict := "lost"
				if record.Won {
					verdict = fmt.Sprintf("won in %d", record.Guesses)
					wins++
				}

				kind := ""
				if record.IsDaily {
					kind = " [daily]"
				} else if record.Genre != "" {
					kind = fmt.Sprintf(" [%s]", record.Genre)
				}

				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s - %s\t%s%s\n",
					record.FinishedAt.Format("2006-01-02"),
					record.TrackTitle, record.ArtistName,
					verdict, kind,
				)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%d games, %d won\n", len(records), wins)
			return nil
		},
	}
}
