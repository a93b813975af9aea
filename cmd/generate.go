package cmd

import (
	"context"
	"fmt"

	"github.com/bnema/novelpia-prompt-maker/internal/domain"
	"github.com/spf13/cobra"
)

func newGenerateCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Analyze the active project's files into a master document",
	}

	cmd.AddCommand(newGenerateRunCmd(app), newGenerateStatusCmd(app))

	return cmd
}

func newGenerateRunCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the analysis over every file of the active project",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var final domain.GeneratorState
			run := func(ctx context.Context, setLabel func(string)) error {
				state, err := app.analysis.RunWithProgress(ctx, func(state domain.GeneratorState) {
					if setLabel != nil {
						setLabel(progressLabel(state))
					}
				})
				final = state
				return err
			}

			var err error
			if asJSON {
				err = run(cmd.Context(), nil)
			} else {
				err = runTaskSpinner(cmd.Context(), cmd.ErrOrStderr(), "Starting analysis...", run)
			}
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), newGeneratorView(final))
			}

			return writeAnalysisSummary(cmd, final)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON and skip the progress spinner")

	return cmd
}

func newGenerateStatusCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the active project's analysis state",
		RunE: func(cmd *cobra.Command, _ []string) error {
			project, err := app.service.ActiveProject(cmd.Context())
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), newGeneratorView(project.Generator))
			}

			state := project.Generator
			done, total := state.Progress()
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "Project: %s\n", project.Name)
			_, _ = fmt.Fprintf(out, "Status: %s (%d/%d files)\n", state.Status, done, total)
			for i, file := range state.Files {
				marker := " "
				if i == state.CurrentFileIndex {
					marker = ">"
				}
				_, _ = fmt.Fprintf(out, "%s %-10s %s\n", marker, file.Status, file.File.Name)
			}
			if state.Error != "" {
				_, _ = fmt.Fprintf(out, "Error: %s\n", state.Error)
			}
			if state.Result != nil {
				_, _ = fmt.Fprintf(out, "Result: %d characters\n", len(state.Result.Characters))
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")

	return cmd
}

func progressLabel(state domain.GeneratorState) string {
	done, total := state.Progress()
	index := state.CurrentFileIndex
	if state.Status == domain.AnalysisRunning && index >= 0 && index < len(state.Files) {
		return fmt.Sprintf("Analyzing %s (%d/%d done)...", state.Files[index].File.Name, done, total)
	}

	return fmt.Sprintf("Analysis %s (%d/%d done)", state.Status, done, total)
}

func writeAnalysisSummary(cmd *cobra.Command, state domain.GeneratorState) error {
	out := cmd.OutOrStdout()
	done, total := state.Progress()
	_, _ = fmt.Fprintf(out, "Analysis %s: %d/%d files\n", state.Status, done, total)
	if state.Result == nil {
		return nil
	}

	if state.Result.Summary != "" {
		_, _ = fmt.Fprintf(out, "Summary: %s\n", state.Result.Summary)
	}
	_, _ = fmt.Fprintf(out, "Characters (%d):\n", len(state.Result.Characters))
	for _, character := range state.Result.Characters {
		if character.Role != "" {
			_, _ = fmt.Fprintf(out, "  - %s (%s)\n", character.Name, character.Role)
			continue
		}
		_, _ = fmt.Fprintf(out, "  - %s\n", character.Name)
	}

	return nil
}
