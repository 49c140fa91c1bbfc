package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func extractCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "extract",
		Short: "Sample dataset files at every location and write the tabular series",
		RunE: runE(func(cmd *cobra.Command, a *app) error {
			result, err := a.extractor().Run(cmd.Context())
			if err != nil {
				return err
			}
			for name, path := range result.Written {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", name, path)
			}
			return nil
		}),
	}
}

func reportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Render the risk-trajectory report from the tabular series",
		RunE: runE(func(cmd *cobra.Command, a *app) error {
			return generateReport(cmd, a)
		}),
	}
}

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Extract, then render the report",
		RunE: runE(func(cmd *cobra.Command, a *app) error {
			if _, err := a.extractor().Run(cmd.Context()); err != nil {
				if cmd.Context().Err() != nil {
					return err
				}
				a.logger.Error("extraction incomplete", "error", err)
			}
			return generateReport(cmd, a)
		}),
	}
}

func generateReport(cmd *cobra.Command, a *app) error {
	rep, err := a.reporter(cmd.Context())
	if err != nil {
		return err
	}
	report, err := rep.Run(cmd.Context())
	if err != nil {
		return err
	}
	path, err := a.writeReport(report)
	if err != nil {
		return err
	}
	a.logger.Info("report written", "file", path, "run_id", report.RunID)
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}
