package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/firerisk-etl/internal/observability"
	"github.com/couchcryptid/firerisk-etl/internal/render"
)

// ReportFileName is the report written to the output directory.
const ReportFileName = "report.html"

// Service runs extraction followed by the report on a fixed interval and
// keeps the most recent report page for the HTTP server.
type Service struct {
	extractor *Extractor
	reporter  *Reporter
	outputDir string
	interval  time.Duration
	clock     clockwork.Clock
	logger    *slog.Logger
	metrics   *observability.Metrics

	ready  atomic.Bool
	mu     sync.RWMutex
	latest []byte
}

// NewService creates a Service. The clock drives the interval ticker.
func NewService(e *Extractor, r *Reporter, outputDir string, interval time.Duration, clock clockwork.Clock, logger *slog.Logger, metrics *observability.Metrics) *Service {
	return &Service{
		extractor: e,
		reporter:  r,
		outputDir: outputDir,
		interval:  interval,
		clock:     clock,
		logger:    logger,
		metrics:   metrics,
	}
}

// CheckReadiness returns nil once a report has been produced.
func (s *Service) CheckReadiness(_ context.Context) error {
	if !s.ready.Load() {
		return errors.New("no report has been generated yet")
	}
	return nil
}

// LatestReport returns the last rendered report page, or false if none exists.
func (s *Service) LatestReport() ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest, s.latest != nil
}

// Run executes one cycle immediately and then one per interval until the
// context is cancelled. A failed cycle is logged and retried on the next tick.
func (s *Service) Run(ctx context.Context) error {
	s.logger.Info("scheduler started", "interval", s.interval)
	s.metrics.PipelineRunning.Set(1)
	defer s.metrics.PipelineRunning.Set(0)

	ticker := s.clock.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		if err := s.RunOnce(ctx); err != nil {
			if ctx.Err() != nil {
				s.logger.Info("scheduler stopping", "reason", ctx.Err())
				return nil
			}
			s.logger.Error("pipeline cycle failed", "error", err)
		}

		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopping", "reason", ctx.Err())
			return nil
		case <-ticker.Chan():
		}
	}
}

// RunOnce extracts, reports and publishes the new report page. Extraction
// write failures are logged; the report is still built from whatever the
// store holds.
func (s *Service) RunOnce(ctx context.Context) error {
	if _, err := s.extractor.Run(ctx); err != nil {
		if ctx.Err() != nil {
			return err
		}
		s.logger.Error("extraction incomplete", "error", err)
	}

	report, err := s.reporter.Run(ctx)
	if err != nil {
		return fmt.Errorf("report: %w", err)
	}

	page, err := s.writeReport(report)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.latest = page
	s.mu.Unlock()
	s.ready.Store(true)
	return nil
}

func (s *Service) writeReport(report *render.Report) ([]byte, error) {
	var buf bytes.Buffer
	if err := report.WriteHTML(&buf); err != nil {
		return nil, err
	}
	if _, err := WriteReportFile(s.outputDir, buf.Bytes()); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteReportFile writes the page to dir/report.html, replacing any previous
// report atomically.
func WriteReportFile(dir string, page []byte) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".report-*.html")
	if err != nil {
		return "", fmt.Errorf("create report: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // no-op after rename

	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close() //nolint:errcheck,gosec // chmod error takes precedence
		return "", fmt.Errorf("create report: %w", err)
	}
	if _, err := tmp.Write(page); err != nil {
		tmp.Close() //nolint:errcheck,gosec // write error takes precedence
		return "", fmt.Errorf("write report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}

	path := filepath.Join(dir, ReportFileName)
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}
