package cmd

import (
	"github.com/bnema/queuewatch/internal/application"
	"github.com/bnema/queuewatch/internal/domain"
	"github.com/spf13/cobra"
)

func newAuthCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage account access tokens",
	}

	cmd.AddCommand(newAuthSetCmd(app), newAuthRemoveCmd(app))

	return cmd
}

func newAuthSetCmd(app *app) *cobra.Command {
	var accountID string
	var name string
	var username string
	var method string
	var secretKey string
	var secretValue string

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Store an access token for an account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			authMethod, err := domain.ParseAuthMethod(method)
			if err != nil {
				return err
			}
			resolvedAccountID, err := resolveAccountID(cmd.Context(), app, accountID)
			if err != nil {
				return err
			}

			return app.service.SetAuth(cmd.Context(), application.SetAuthCommand{
				ID:          resolvedAccountID,
				Name:        name,
				Username:    username,
				Method:      authMethod,
				SecretKey:   secretKey,
				SecretValue: secretValue,
			})
		},
	}

	cmd.Flags().StringVar(&accountID, "account", "0", "Account ID (0 or empty auto-assigns next: 1,2,...)")
	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().StringVar(&username, "username", "", "In-game username")
	cmd.Flags().StringVar(&method, "method", string(domain.AuthMethodAccessToken), "Auth method (access_token)")
	cmd.Flags().StringVar(&secretKey, "secret-key", "", "Secret-store key (default queuewatch/accounts/<id>/access_token)")
	cmd.Flags().StringVar(&secretValue, "secret-value", "", "Access token")
	_ = cmd.MarkFlagRequired("secret-value")

	return cmd
}

func newAuthRemoveCmd(app *app) *cobra.Command {
	var accountID string

	cmd := &cobra.Command{
		Use:   "remove",
		Short: "Remove the access token of an account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, err := parseAccountID(accountID)
			if err != nil {
				return err
			}
			return app.service.RemoveAuth(cmd.Context(), application.RemoveAuthCommand{ID: id})
		},
	}

	cmd.Flags().StringVar(&accountID, "account", "", "Account ID")
	_ = cmd.MarkFlagRequired("account")

	return cmd
}
