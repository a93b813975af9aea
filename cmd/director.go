package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bnema/novelpia-prompt-maker/internal/domain"
	"github.com/spf13/cobra"
)

func newDirectorCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "director",
		Short: "Refine persona prompts in a chat grounded on the master document",
	}

	cmd.AddCommand(newDirectorChatCmd(app), newDirectorHistoryCmd(app), newDirectorClearCmd(app))

	return cmd
}

func newDirectorChatCmd(app *app) *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "chat <message>",
		Short: "Send a message to the director",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			message := strings.Join(args, " ")

			var reply domain.ChatTurn
			err := runTaskSpinner(cmd.Context(), cmd.ErrOrStderr(), "Waiting for the director...", func(ctx context.Context, _ func(string)) error {
				turn, err := app.director.Chat(ctx, message)
				reply = turn
				return err
			})
			if err != nil {
				return err
			}

			return writeReply(cmd, app, reply.Content, raw)
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "Print the reply without markdown rendering")

	return cmd
}

func newDirectorHistoryCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the active project's director transcript",
		RunE: func(cmd *cobra.Command, _ []string) error {
			history, err := app.director.History(cmd.Context())
			if err != nil {
				return err
			}

			if asJSON {
				turns := newProjectView(domain.Project{Director: history}).Director
				return writeJSON(cmd.OutOrStdout(), turns)
			}

			out := cmd.OutOrStdout()
			if len(history) == 0 {
				_, err = fmt.Fprintln(out, "No director messages yet. Start with: npmk director chat <message>")
				return err
			}
			for _, turn := range history {
				_, _ = fmt.Fprintf(out, "[%s] %s:\n%s\n\n",
					turn.CreatedAt.Local().Format(time.DateTime),
					strings.ToUpper(string(turn.Role)),
					turn.Content)
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")

	return cmd
}

func newDirectorClearCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear the active project's director transcript",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.director.ClearHistory(cmd.Context()); err != nil {
				return err
			}

			_, err := fmt.Fprintln(cmd.OutOrStdout(), "Director history cleared")
			return err
		},
	}
}

func writeReply(cmd *cobra.Command, app *app, content string, raw bool) error {
	out := cmd.OutOrStdout()
	if raw {
		_, err := fmt.Fprintln(out, content)
		return err
	}

	rendered, err := app.markdownRenderer.Render(content)
	if err != nil {
		app.logger.Debug("markdown render failed, printing raw reply", "error", err)
		rendered = content + "\n"
	}

	_, err = fmt.Fprint(out, rendered)
	return err
}
