package cmd

import (
	"fmt"

	"github.com/bnema/novelpia-prompt-maker/internal/domain"
	"github.com/spf13/cobra"
)

func newTabCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tab",
		Short: "Show or switch the active view",
	}

	cmd.AddCommand(newTabShowCmd(app), newTabSwitchCmd(app))

	return cmd
}

func newTabShowCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the active view",
		RunE: func(cmd *cobra.Command, _ []string) error {
			workspace, err := app.service.Workspace(cmd.Context())
			if err != nil {
				return err
			}

			tab := workspace.ActiveTab
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "STEP %s %s: %s\n", tab.Step(), tab.Label(), tab.Description())
			return err
		},
	}
}

func newTabSwitchCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:       "switch <splitter|generator|director|image>",
		Short:     "Switch the active view",
		Args:      cobra.ExactArgs(1),
		ValidArgs: tabNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			tab, err := domain.ParseTab(args[0])
			if err != nil {
				return err
			}
			if err := app.service.SwitchTab(cmd.Context(), tab); err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Active view: %s\n", tab.Label())
			return err
		},
	}
}

func newNavCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "nav",
		Short: "Control the navigation overlay",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "toggle",
		Short: "Open or close the navigation overlay",
		RunE: func(cmd *cobra.Command, _ []string) error {
			open, err := app.service.ToggleNavigation(cmd.Context())
			if err != nil {
				return err
			}

			state := "closed"
			if open {
				state = "open"
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Navigation %s\n", state)
			return err
		},
	})

	return cmd
}

func tabNames() []string {
	names := make([]string, 0, len(domain.Tabs))
	for _, tab := range domain.Tabs {
		names = append(names, string(tab))
	}

	return names
}
