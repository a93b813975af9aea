package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newAuthCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the model API key",
	}

	cmd.AddCommand(newAuthSetCmd(app), newAuthRemoveCmd(app), newAuthStatusCmd(app))

	return cmd
}

func newAuthSetCmd(app *app) *cobra.Command {
	var apiKey string

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Store the model API key in the secret store",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.credentials.SetAPIKey(cmd.Context(), app.secretRef, apiKey); err != nil {
				return err
			}

			_, err := fmt.Fprintf(cmd.OutOrStdout(), "API key stored at %s\n", app.secretRef)
			return err
		},
	}

	cmd.Flags().StringVar(&apiKey, "api-key", "", "Model API key")
	_ = cmd.MarkFlagRequired("api-key")

	return cmd
}

func newAuthRemoveCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "remove",
		Short: "Remove the model API key from the secret store",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.credentials.RemoveAPIKey(cmd.Context(), app.secretRef); err != nil {
				return err
			}

			_, err := fmt.Fprintf(cmd.OutOrStdout(), "API key removed from %s\n", app.secretRef)
			return err
		},
	}
}

func newAuthStatusCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Report whether a model API key is stored",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ok, err := app.credentials.HasAPIKey(cmd.Context(), app.secretRef)
			if err != nil {
				return err
			}

			state := "not configured"
			if ok {
				state = "configured"
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "API key %s (%s)\n", state, app.secretRef)
			return err
		},
	}
}
