package cmd

import "github.com/spf13/cobra"

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "hum",
		Short:         "Humdle CLI (hum): guess the song from the shortest possible clip",
		Long:          "hum plays Humdle from the terminal: start daily or genre games, search tracks, submit guesses, and browse your local game history. Accounts are anonymous and provisioned automatically on first use.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	app, err := wireApp()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newAccountCmd(app),
		newPlayCmd(app),
		newDailyCmd(app),
		newGameCmd(app),
		newGuessCmd(app),
		newResignCmd(app),
		newSearchCmd(app),
		newGenresCmd(app),
		newHistoryCmd(app),
		newListenCmd(app),
	)

	return rootCmd
}
