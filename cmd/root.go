package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "npmk",
		Short:         "Novelpia Prompt Maker (npmk): turn web novels into chat persona prompts",
		Long:          "npmk splits web novel manuscripts into chunks, analyzes them into a master character document with a language model, and helps direct persona and image prompts from it. Work is grouped in projects stored in ~/.novelpia/workspace.toml.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	app, err := wireApp()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newProjectCmd(app),
		newTabCmd(app),
		newNavCmd(app),
		newFilesCmd(app),
		newGenerateCmd(app),
		newDirectorCmd(app),
		newImageCmd(app),
		newAuthCmd(app),
		newStatusCmd(app),
	)

	return rootCmd
}
