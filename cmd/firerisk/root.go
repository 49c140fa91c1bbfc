package main

import (
	"log/slog"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "firerisk",
		Short:         "Fire-risk extraction and ICTR14 trajectory reports",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		extractCmd(),
		reportCmd(),
		runCmd(),
		serveCmd(),
		validateCmd(),
		genmockCmd(),
	)
	return root
}

// runE adapts a command body that needs the wired application.
func runE(body func(cmd *cobra.Command, a *app) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		a, err := newApp()
		if err != nil {
			slog.Error("failed to start", "command", cmd.Name(), "error", err)
			return err
		}
		defer a.close()

		if err := body(cmd, a); err != nil {
			a.logger.Error("command failed", "command", cmd.Name(), "error", err)
			return err
		}
		return nil
	}
}
