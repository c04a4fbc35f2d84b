package cmd

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/spf13/cobra"
)

func newAccountCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage accounts",
	}

	cmd.AddCommand(
		newAccountListCmd(app),
		newAccountRemoveCmd(app),
	)

	return cmd
}

func newAccountListCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List configured accounts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			summaries, err := app.service.ListAccounts(cmd.Context())
			if err != nil {
				return err
			}

			for _, summary := range summaries {
				token := "no token"
				if summary.TokenConfigured {
					token = "token"
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\n",
					sanitizeForTerminal(string(summary.Account.ID)),
					sanitizeForTerminal(summary.Account.Username),
					sanitizeForTerminal(summary.Account.Name),
					token,
				)
			}

			return nil
		},
	}
}

func newAccountRemoveCmd(app *app) *cobra.Command {
	var accountID string

	cmd := &cobra.Command{
		Use:   "remove",
		Short: "Remove an account and its access token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, err := parseAccountID(accountID)
			if err != nil {
				return err
			}
			return app.service.RemoveAccount(cmd.Context(), id)
		},
	}

	cmd.Flags().StringVar(&accountID, "account", "", "Account ID")
	_ = cmd.MarkFlagRequired("account")

	return cmd
}

func sanitizeForTerminal(value string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, value)
}
