package main

import (
	"context"
	"errors"
	"net/http"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/spf13/cobra"

	httpadapter "github.com/couchcryptid/firerisk-etl/internal/adapter/http"
	"github.com/couchcryptid/firerisk-etl/internal/pipeline"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the pipeline on REPORT_INTERVAL and serve the report over HTTP",
		RunE: runE(func(cmd *cobra.Command, a *app) error {
			ctx := cmd.Context()

			rep, err := a.reporter(ctx)
			if err != nil {
				return err
			}
			svc := pipeline.NewService(a.extractor(), rep, a.cfg.OutputDir, a.cfg.ReportInterval, a.clock, a.logger, a.metrics)

			ready := []sharedobs.ReadinessChecker{svc}
			var points httpadapter.PointStore
			if a.points != nil {
				ready = append(ready, a.points)
				points = a.points
			}
			srv := httpadapter.NewServer(a.cfg.HTTPAddr, httpadapter.AllReady(ready...), svc, points, a.logger)

			// Start HTTP server.
			go func() {
				if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					a.logger.Error("http server error", "error", err)
				}
			}()

			// Start scheduled pipeline.
			done := make(chan struct{})
			go func() {
				defer close(done)
				if err := svc.Run(ctx); err != nil {
					a.logger.Error("pipeline error", "error", err)
				}
			}()

			<-ctx.Done()
			a.logger.Info("shutting down")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				a.logger.Error("http server shutdown error", "error", err)
			}
			select {
			case <-done:
			case <-shutdownCtx.Done():
				a.logger.Warn("pipeline did not stop before shutdown timeout")
			}

			a.logger.Info("shutdown complete")
			return nil
		}),
	}
}
