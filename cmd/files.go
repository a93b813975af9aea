package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/bnema/novelpia-prompt-maker/internal/application"
	"github.com/bnema/novelpia-prompt-maker/internal/domain"
	"github.com/spf13/cobra"
)

func newFilesCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "files",
		Short: "Prepare manuscript files for analysis",
	}

	cmd.AddCommand(newFilesSplitCmd(app), newFilesAddCmd(app))

	return cmd
}

func newFilesSplitCmd(app *app) *cobra.Command {
	var maxChars int
	var outDir string

	cmd := &cobra.Command{
		Use:   "split <input...>",
		Short: "Split manuscripts into chunks and hand them to the active project",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("max-chars") {
				maxChars = app.maxChars
			}

			inputs, err := absPaths(args)
			if err != nil {
				return err
			}
			if outDir != "" {
				if outDir, err = filepath.Abs(outDir); err != nil {
					return fmt.Errorf("resolve %s: %w", outDir, err)
				}
			}

			files, err := application.SplitFiles(cmd.Context(), inputs, application.SplitOptions{
				MaxChars: maxChars,
				OutDir:   outDir,
			})
			if err != nil {
				return err
			}

			return handFiles(cmd, app, files)
		},
	}

	cmd.Flags().IntVar(&maxChars, "max-chars", application.DefaultMaxChars, "Maximum characters per chunk")
	cmd.Flags().StringVar(&outDir, "out", "", "Directory for the chunk files (default: next to each input)")

	return cmd
}

func newFilesAddCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "add <path...>",
		Short: "Hand existing chunk files to the active project",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := application.StatFiles(args)
			if err != nil {
				return err
			}

			return handFiles(cmd, app, files)
		},
	}
}

func handFiles(cmd *cobra.Command, app *app, files []domain.SourceFile) error {
	project, err := app.service.FilesGenerated(cmd.Context(), files)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, file := range files {
		_, _ = fmt.Fprintf(out, "  %s (%d bytes)\n", file.Path, file.Size)
	}
	_, err = fmt.Fprintf(out, "%d files ready for analysis in project %s. Next: npmk generate run\n", len(files), project.Name)
	return err
}

func absPaths(paths []string) ([]string, error) {
	resolved := make([]string, 0, len(paths))
	for _, path := range paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", path, err)
		}
		resolved = append(resolved, abs)
	}

	return resolved, nil
}
