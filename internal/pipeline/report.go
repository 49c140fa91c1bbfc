package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/firerisk-etl/internal/domain"
	"github.com/couchcryptid/firerisk-etl/internal/observability"
	"github.com/couchcryptid/firerisk-etl/internal/render"
)

// Reporter reads each location's series, computes the trend indicator,
// draws the diagram and forwards the points to the configured sinks.
type Reporter struct {
	reader    SeriesReader
	renderer  ChartRenderer
	geocoder  domain.Geocoder
	sinks     []PointSink
	locations []domain.Location
	clock     clockwork.Clock
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// NewReporter creates a Reporter. Pass a nil geocoder to leave sections
// without a place label. The clock stamps each report.
func NewReporter(reader SeriesReader, renderer ChartRenderer, geocoder domain.Geocoder, sinks []PointSink, locations []domain.Location, clock clockwork.Clock, logger *slog.Logger, metrics *observability.Metrics) *Reporter {
	return &Reporter{
		reader:    reader,
		renderer:  renderer,
		geocoder:  geocoder,
		sinks:     sinks,
		locations: locations,
		clock:     clock,
		logger:    logger,
		metrics:   metrics,
	}
}

// Run builds the report. A location that cannot be read or has nothing to
// plot gets a notice section; sink failures are logged and counted. Only
// cancellation stops the batch.
func (r *Reporter) Run(ctx context.Context) (*render.Report, error) {
	start := time.Now()
	runID := uuid.NewString()
	logger := r.logger.With("run_id", runID)

	report := &render.Report{
		Title:       render.ReportTitle,
		GeneratedAt: r.clock.Now(),
		RunID:       runID,
		Sections:    make([]render.Section, 0, len(r.locations)),
	}

	for _, loc := range r.locations {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		report.Sections = append(report.Sections, r.section(ctx, logger, runID, loc))
	}

	r.metrics.ReportDuration.Observe(time.Since(start).Seconds())
	r.metrics.LastReportTime.Set(float64(report.GeneratedAt.Unix()))
	logger.Info("report built", "locations", len(report.Sections), "duration", time.Since(start))
	return report, nil
}

func (r *Reporter) section(ctx context.Context, logger *slog.Logger, runID string, loc domain.Location) render.Section {
	title := loc.DisplayName()

	series, err := r.reader.ReadSeries(ctx, loc)
	if err != nil {
		reason := "read"
		if errors.Is(err, domain.ErrSeriesNotFound) {
			reason = "missing"
		}
		logger.Warn("series unavailable", "location", loc.Name, "error", err)
		r.metrics.LocationsSkipped.WithLabelValues(reason).Inc()
		return render.MissingSection(title, err)
	}

	analysis := domain.Analyze(loc.Name, series)
	r.publish(ctx, logger, runID, loc, analysis.Points)

	points := analysis.Plottable()
	if len(points) == 0 {
		logger.Warn("not enough data to plot", "location", loc.Name, "rows", len(series))
		r.metrics.LocationsSkipped.WithLabelValues("empty").Inc()
		return render.EmptySection(title)
	}

	chart, err := r.renderer.Chart(title, points)
	if err != nil {
		logger.Error("render chart failed", "location", loc.Name, "error", err)
		r.metrics.LocationsSkipped.WithLabelValues("render").Inc()
		section := render.EmptySection(title)
		section.Notice = "Falha ao gerar o diagrama: " + err.Error()
		section.NoticeLevel = render.NoticeError
		return section
	}

	r.metrics.LocationsReported.Inc()
	return render.Section{
		Location: title,
		Place:    domain.PlaceLabel(ctx, loc, r.geocoder, logger),
		ChartPNG: chart,
		Points:   points,
	}
}

// publish forwards every point, including those without an indicator, to
// each sink.
func (r *Reporter) publish(ctx context.Context, logger *slog.Logger, runID string, loc domain.Location, points []domain.TrajectoryPoint) {
	if len(points) == 0 {
		return
	}
	for _, sink := range r.sinks {
		if err := sink.PublishPoints(ctx, runID, points); err != nil {
			logger.Error("sink write failed", "sink", sink.Name(), "location", loc.Name, "error", err)
			r.metrics.SinkErrors.WithLabelValues(sink.Name()).Inc()
			continue
		}
		r.metrics.PointsPublished.WithLabelValues(sink.Name()).Add(float64(len(points)))
	}
}
