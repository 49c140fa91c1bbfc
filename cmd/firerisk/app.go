package main

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/jonboulle/clockwork"

	kafkaadapter "github.com/couchcryptid/firerisk-etl/internal/adapter/kafka"
	"github.com/couchcryptid/firerisk-etl/internal/adapter/mapbox"
	"github.com/couchcryptid/firerisk-etl/internal/adapter/netcdf"
	"github.com/couchcryptid/firerisk-etl/internal/adapter/postgres"
	"github.com/couchcryptid/firerisk-etl/internal/adapter/xlsx"
	"github.com/couchcryptid/firerisk-etl/internal/config"
	"github.com/couchcryptid/firerisk-etl/internal/domain"
	"github.com/couchcryptid/firerisk-etl/internal/observability"
	"github.com/couchcryptid/firerisk-etl/internal/pipeline"
	"github.com/couchcryptid/firerisk-etl/internal/render"
)

// app holds the configuration and adapters shared by the subcommands.
type app struct {
	cfg       *config.Config
	logger    *slog.Logger
	metrics   *observability.Metrics
	clock     clockwork.Clock
	locations []domain.Location
	store     *xlsx.Store

	points  *postgres.Store
	closers []func() error
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger := observability.NewLogger(cfg)

	locations, err := config.LoadLocations(cfg.LocationsFile)
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:       cfg,
		logger:    logger,
		metrics:   observability.NewMetrics(),
		clock:     clockwork.NewRealClock(),
		locations: locations,
		store:     xlsx.NewStore(cfg.OutputDir, logger),
	}, nil
}

func (a *app) extractor() *pipeline.Extractor {
	source := pipeline.DatasetSource{
		Dir:    a.cfg.DatasetDir,
		Marker: a.cfg.DatasetMarker,
		Ext:    a.cfg.DatasetExt,
	}
	return pipeline.NewExtractor(source, netcdf.NewReader(a.cfg.DatasetVariable), a.store, a.locations, a.logger, a.metrics)
}

// reporter wires the enabled sinks and the geocoder.
func (a *app) reporter(ctx context.Context) (*pipeline.Reporter, error) {
	var sinks []pipeline.PointSink

	if a.cfg.KafkaEnabled {
		w := kafkaadapter.NewWriter(a.cfg, a.logger)
		a.closers = append(a.closers, w.Close)
		sinks = append(sinks, w)
		a.logger.Info("kafka sink enabled", "topic", a.cfg.KafkaTopic, "brokers", a.cfg.KafkaBrokers)
	}

	if a.cfg.DatabaseURL != "" {
		db, err := postgres.Open(ctx, a.cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, db.Close)
		a.points = postgres.NewStore(db)
		if err := a.points.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		sinks = append(sinks, a.points)
		a.logger.Info("postgres sink enabled")
	}

	// Geocoder is feature-flagged via MAPBOX_ENABLED / MAPBOX_TOKEN.
	var geocoder domain.Geocoder
	if a.cfg.MapboxEnabled {
		client := mapbox.NewClient(a.cfg.MapboxToken, a.cfg.MapboxTimeout, a.metrics, a.logger)
		geocoder = mapbox.NewCachedGeocoder(client, a.cfg.MapboxCacheSize, a.metrics)
		a.logger.Info("mapbox geocoding enabled", "cache_size", a.cfg.MapboxCacheSize, "timeout", a.cfg.MapboxTimeout)
	} else {
		a.logger.Info("mapbox geocoding disabled")
	}

	return pipeline.NewReporter(a.store, render.NewRenderer(), geocoder, sinks, a.locations, a.clock, a.logger, a.metrics), nil
}

// writeReport renders the page and saves it to the output directory.
func (a *app) writeReport(report *render.Report) (string, error) {
	var buf bytes.Buffer
	if err := report.WriteHTML(&buf); err != nil {
		return "", err
	}
	return pipeline.WriteReportFile(a.cfg.OutputDir, buf.Bytes())
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Error("close error", "error", err)
		}
	}
}
