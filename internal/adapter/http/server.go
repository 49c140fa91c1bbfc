// Package http serves the health, metrics and report endpoints.
package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/firerisk-etl/internal/domain"
)

// ReportSource provides the most recent rendered report page.
type ReportSource interface {
	LatestReport() ([]byte, bool)
}

// PointStore looks up stored trajectory points for a location.
type PointStore interface {
	Points(ctx context.Context, location string) ([]domain.TrajectoryPoint, error)
}

// Server exposes health, readiness, metrics and report HTTP endpoints.
type Server struct {
	httpServer *http.Server
	reports    ReportSource
	points     PointStore
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /healthz, /readyz, /metrics and
// /report routes. /points/{location} is added when points is non-nil.
func NewServer(addr string, ready sharedobs.ReadinessChecker, reports ReportSource, points PointStore, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		reports: reports,
		points:  points,
		logger:  logger,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /report", s.handleReport)
	if points != nil {
		mux.HandleFunc("GET /points/{location}", s.handlePoints)
	}

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleReport(w http.ResponseWriter, _ *http.Request) {
	page, ok := s.reports.LatestReport()
	if !ok {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "no report generated yet"})
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(page); err != nil {
		s.logger.Warn("write report response failed", "error", err)
	}
}

func (s *Server) handlePoints(w http.ResponseWriter, r *http.Request) {
	location := r.PathValue("location")
	points, err := s.points.Points(r.Context(), location)
	if err != nil {
		s.logger.Error("points lookup failed", "location", location, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "points lookup failed"})
		return
	}
	if len(points) == 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no points for location"})
		return
	}
	writeJSON(w, http.StatusOK, points)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}

// AllReady combines readiness checks; the first failure wins.
func AllReady(checkers ...sharedobs.ReadinessChecker) sharedobs.ReadinessChecker {
	return readinessList(checkers)
}

type readinessList []sharedobs.ReadinessChecker

func (l readinessList) CheckReadiness(ctx context.Context) error {
	for _, c := range l {
		if err := c.CheckReadiness(ctx); err != nil {
			return err
		}
	}
	return nil
}
