package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newImageCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "image",
		Short: "Build image generation prompts from analyzed characters",
	}

	cmd.AddCommand(newImagePromptCmd(app))

	return cmd
}

func newImagePromptCmd(app *app) *cobra.Command {
	var notes string
	var copyPrompt bool

	cmd := &cobra.Command{
		Use:   "prompt <character>",
		Short: "Write an image prompt for a character of the master document",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			character := strings.Join(args, " ")

			var prompt string
			err := runTaskSpinner(cmd.Context(), cmd.ErrOrStderr(), "Writing image prompt...", func(ctx context.Context, _ func(string)) error {
				result, err := app.director.ImagePrompt(ctx, character, notes)
				prompt = result
				return err
			})
			if err != nil {
				return err
			}

			if _, err := fmt.Fprintln(cmd.OutOrStdout(), prompt); err != nil {
				return err
			}

			if copyPrompt {
				if err := writeClipboard(prompt); err != nil {
					return fmt.Errorf("copy prompt to clipboard: %w", err)
				}
				_, err = fmt.Fprintln(cmd.ErrOrStderr(), "Copied to clipboard")
				return err
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&notes, "notes", "", "Extra direction for the prompt (pose, outfit, scene)")
	cmd.Flags().BoolVar(&copyPrompt, "copy", false, "Copy the prompt to the clipboard")

	return cmd
}
