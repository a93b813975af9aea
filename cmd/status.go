package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"sync"

	workspaceadapter "github.com/bnema/novelpia-prompt-maker/internal/adapters/render/workspace"
	"github.com/spf13/cobra"
)

// clearScreen moves the cursor home and clears the terminal between watch
// frames.
const clearScreen = "\x1b[H\x1b[2J"

func newStatusCmd(app *app) *cobra.Command {
	var watch bool
	var showFiles bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Render the workspace: projects, views and generator progress",
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := workspaceadapter.RenderOptions{ShowFiles: showFiles}
			out := cmd.OutOrStdout()

			if err := writeWorkspace(cmd, app, out, opts); err != nil {
				return err
			}
			if !watch {
				return nil
			}

			return app.repo.Watch(cmd.Context(), watchRenderer(out, func() error {
				return writeWorkspace(cmd, app, out, opts)
			}, app.logger))
		},
	}

	cmd.Flags().BoolVar(&watch, "watch", false, "Re-render whenever the workspace file changes (Ctrl+C to stop)")
	cmd.Flags().BoolVar(&showFiles, "files", false, "List the active project's files")

	return cmd
}

// watchRenderer redraws on every call. Debounced calls arrive on timer
// goroutines and may overlap, so frames are written one at a time.
func watchRenderer(out io.Writer, render func() error, logger *slog.Logger) func() {
	var mu sync.Mutex

	return func() {
		mu.Lock()
		defer mu.Unlock()

		_, _ = fmt.Fprint(out, clearScreen)
		if err := render(); err != nil {
			logger.Warn("render workspace", "error", err)
		}
	}
}

func writeWorkspace(cmd *cobra.Command, app *app, out io.Writer, opts workspaceadapter.RenderOptions) error {
	workspace, err := app.service.Workspace(cmd.Context())
	if err != nil {
		return err
	}

	rendered, err := app.workspaceRender(workspace, opts)
	if err != nil {
		return fmt.Errorf("render workspace: %w", err)
	}

	_, err = fmt.Fprintln(out, rendered)
	return err
}
