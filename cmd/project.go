package cmd

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/bnema/novelpia-prompt-maker/internal/domain"
	"github.com/spf13/cobra"
)

func newProjectCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "project",
		Aliases: []string{"projects"},
		Short:   "Manage projects",
	}

	cmd.AddCommand(
		newProjectCreateCmd(app),
		newProjectListCmd(app),
		newProjectSelectCmd(app),
		newProjectShowCmd(app),
		newProjectRenameCmd(app),
		newProjectExportCmd(app),
	)

	return cmd
}

func newProjectCreateCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "create <name>",
		Short: "Create a project and make it active",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			project, err := app.service.CreateProject(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Created project %s (%s)\n", project.Name, project.ID)
			return err
		},
	}
}

func newProjectListCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List projects",
		RunE: func(cmd *cobra.Command, _ []string) error {
			summaries, err := app.service.ListProjects(cmd.Context())
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), summaries)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, "\tID\tNAME\tSTATUS\tFILES\tTURNS")
			for _, summary := range summaries {
				marker := ""
				if summary.Active {
					marker = "*"
				}
				_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d/%d\t%d\n",
					marker, summary.ID, summary.Name, summary.Status,
					summary.FilesDone, summary.FilesTotal, summary.Turns)
			}

			return w.Flush()
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")

	return cmd
}

func newProjectSelectCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "select <id>",
		Short: "Make a project active",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := domain.ProjectID(args[0])
			if err := app.service.SelectProject(cmd.Context(), id); err != nil {
				return err
			}

			_, err := fmt.Fprintf(cmd.OutOrStdout(), "Active project: %s\n", id)
			return err
		},
	}
}

func newProjectShowCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show [id]",
		Short: "Show a project (the active one by default)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			project, err := resolveProject(cmd.Context(), app, args)
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), newProjectView(project))
			}

			done, total := project.Generator.Progress()
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "Project: %s (%s)\n", project.Name, project.ID)
			_, _ = fmt.Fprintf(out, "Created: %s\n", project.CreatedAt.Local().Format(time.DateTime))
			_, _ = fmt.Fprintf(out, "Generator: %s %d/%d files\n", project.Generator.Status, done, total)
			if project.Generator.Error != "" {
				_, _ = fmt.Fprintf(out, "Error: %s\n", project.Generator.Error)
			}
			if project.Generator.Result != nil {
				_, _ = fmt.Fprintf(out, "Characters: %d\n", len(project.Generator.Result.Characters))
			}
			_, err = fmt.Fprintf(out, "Director turns: %d\n", len(project.Director))
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")

	return cmd
}

func newProjectRenameCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <id> <name>",
		Short: "Rename a project",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := domain.ProjectID(args[0])
			name := strings.Join(args[1:], " ")
			if err := app.service.RenameProject(cmd.Context(), id, name); err != nil {
				return err
			}

			_, err := fmt.Fprintf(cmd.OutOrStdout(), "Renamed project %s to %s\n", id, strings.TrimSpace(name))
			return err
		},
	}
}

func newProjectExportCmd(app *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "export [id]",
		Short: "Export a project (the active one by default) as YAML or JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			project, err := resolveProject(cmd.Context(), app, args)
			if err != nil {
				return err
			}

			return writeExport(cmd.OutOrStdout(), strings.ToLower(format), projectExport{
				Version:    exportVersion,
				ExportedAt: time.Now().UTC(),
				Project:    newProjectView(project),
			})
		},
	}

	cmd.Flags().StringVar(&format, "format", "yaml", "Export format (yaml|json)")

	return cmd
}

func resolveProject(ctx context.Context, app *app, args []string) (domain.Project, error) {
	if len(args) == 0 {
		return app.service.ActiveProject(ctx)
	}

	workspace, err := app.service.Workspace(ctx)
	if err != nil {
		return domain.Project{}, err
	}

	id := domain.ProjectID(args[0])
	project, ok := workspace.Project(id)
	if !ok {
		return domain.Project{}, fmt.Errorf("%w: %s", domain.ErrProjectNotFound, id)
	}

	return project, nil
}
