// Command firerisk extracts daily fire risk for configured locations, computes
// the ICTR14 trend indicator and renders the risk-trajectory report.
//
// Usage:
//
//	firerisk extract   # dataset files -> Risco_<location>.xlsx
//	firerisk report    # Risco_<location>.xlsx -> report.html (+ sinks)
//	firerisk run       # extract, then report
//	firerisk serve     # run on REPORT_INTERVAL and serve /report
//	firerisk validate  # check the tabular series and indicator invariants
//	firerisk genmock   # write synthetic tabular series for local runs
package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Error("failed to load .env", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
