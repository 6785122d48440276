package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/humdle/humdle-cli/internal/application"
)

var errDeleteNotConfirmed = errors.New("pass --yes to confirm account deletion")

func newAccountCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage the anonymous account",
	}

	cmd.AddCommand(
		newAccountShowCmd(app),
		newAccountRenameCmd(app),
		newAccountLogoutCmd(app),
		newAccountDeleteCmd(app),
	)

	return cmd
}

func newAccountShowCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the current account, provisioning one if needed",
		RunE: func(cmd *cobra.Command, _ []string) error {
			result, err := app.sessions.EnsureLoggedIn(cmd.Context())
			if err != nil {
				return err
			}
			reportLoginResult(cmd, result)

			account, err := app.accounts.Account(cmd.Context())
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s (account %d)\n", account.DisplayName, account.ID)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", account.CreatedAt.Format("2006-01-02"))

			return nil
		},
	}
}

func newAccountRenameCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <display-name>",
		Short: "Change the account display name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			account, err := app.accounts.Rename(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "renamed to %s\n", account.DisplayName)
			return nil
		},
	}
}

func newAccountLogoutCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the session, keeping the account credentials",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.sessions.Logout(cmd.Context()); err != nil {
				return err
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "logged out")
			return nil
		},
	}
}

func newAccountDeleteCmd(app *app) *cobra.Command {
	var confirmed bool

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete the account and its credentials permanently",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !confirmed {
				return errDeleteNotConfirmed
			}

			if err := app.accounts.Delete(cmd.Context()); err != nil {
				return err
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "account deleted")
			return nil
		},
	}
	cmd.Flags().BoolVar(&confirmed, "yes", false, "confirm the deletion")

	return cmd
}

// reportLoginResult surfaces identity changes the login path performed
// on the user's behalf.
func reportLoginResult(cmd *cobra.Command, result application.LoginResult) {
	if result.ReplacedIdentity {
		_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "warning: stored credentials were rejected; a new anonymous account replaced the old one")
	} else if result.CreatedAccount {
		_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "provisioned a new anonymous account")
	}
}
