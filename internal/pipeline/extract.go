package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/couchcryptid/firerisk-etl/internal/domain"
	"github.com/couchcryptid/firerisk-etl/internal/observability"
)

// DatasetSource selects the dataset files of a directory.
type DatasetSource struct {
	Dir    string
	Marker string
	Ext    string
}

// ExtractResult summarises one extraction batch.
type ExtractResult struct {
	FilesProcessed int
	FilesSkipped   int
	// Written maps location name to the tabular file produced for it.
	Written map[string]string
}

// Extractor samples every dataset file at every location and writes one
// series per location.
type Extractor struct {
	source    DatasetSource
	opener    GridOpener
	writer    SeriesWriter
	locations []domain.Location
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// NewExtractor creates an Extractor for the given locations.
func NewExtractor(source DatasetSource, opener GridOpener, writer SeriesWriter, locations []domain.Location, logger *slog.Logger, metrics *observability.Metrics) *Extractor {
	return &Extractor{
		source:    source,
		opener:    opener,
		writer:    writer,
		locations: locations,
		logger:    logger,
		metrics:   metrics,
	}
}

// Run processes the dataset directory. Bad files and failed lookups are
// logged and skipped; only an unreadable directory, cancellation or failed
// writes are returned as errors.
func (e *Extractor) Run(ctx context.Context) (ExtractResult, error) {
	start := time.Now()
	defer func() { e.metrics.ExtractDuration.Observe(time.Since(start).Seconds()) }()

	files, err := e.datasetFiles()
	if err != nil {
		return ExtractResult{}, err
	}
	e.logger.Info("extraction started", "dir", e.source.Dir, "files", len(files), "locations", len(e.locations))

	result := ExtractResult{Written: make(map[string]string, len(e.locations))}
	series := make(map[string]domain.RiskSeries, len(e.locations))

	for _, name := range files {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if e.extractFile(name, series) {
			result.FilesProcessed++
		} else {
			result.FilesSkipped++
		}
	}

	var errs []error
	for _, loc := range e.locations {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		path, err := e.writer.WriteSeries(ctx, loc, series[loc.Name].Sorted())
		if err != nil {
			e.logger.Error("write series failed", "location", loc.Name, "error", err)
			errs = append(errs, fmt.Errorf("location %s: %w", loc.Name, err))
			continue
		}
		result.Written[loc.Name] = path
		e.logger.Info("series written", "location", loc.Name, "file", path, "rows", len(series[loc.Name]))
	}

	e.logger.Info("extraction finished",
		"files_processed", result.FilesProcessed,
		"files_skipped", result.FilesSkipped,
	)
	return result, errors.Join(errs...)
}

// datasetFiles lists the matching file names in lexical order.
func (e *Extractor) datasetFiles() ([]string, error) {
	entries, err := os.ReadDir(e.source.Dir)
	if err != nil {
		return nil, fmt.Errorf("read dataset dir: %w", err)
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !domain.IsDatasetFile(entry.Name(), e.source.Marker, e.source.Ext) {
			continue
		}
		names = append(names, entry.Name())
	}
	slices.Sort(names)
	return names, nil
}

// extractFile opens one file and appends its value at every location to
// series. It returns false when the whole file was skipped, including when no
// location had a value in it.
func (e *Extractor) extractFile(name string, series map[string]domain.RiskSeries) bool {
	date, err := domain.ParseDatasetDate(name, e.source.Ext)
	if err != nil {
		e.logger.Warn("skipping dataset file", "file", name, "error", err)
		e.metrics.FilesSkipped.WithLabelValues("date").Inc()
		return false
	}

	field, err := e.opener.Open(filepath.Join(e.source.Dir, name))
	if err != nil {
		e.logger.Warn("skipping dataset file", "file", name, "error", err)
		e.metrics.FilesSkipped.WithLabelValues("open").Inc()
		return false
	}

	sampled := 0
	for _, loc := range e.locations {
		v, err := field.Nearest(loc.Lat, loc.Lon, date)
		if err != nil {
			e.logger.Warn("no value at location",
				"file", name,
				"location", loc.Name,
				"lat", loc.Lat,
				"lon", loc.Lon,
				"error", err,
			)
			e.metrics.FilesSkipped.WithLabelValues("lookup").Inc()
			continue
		}
		series[loc.Name] = append(series[loc.Name], domain.Observation{Date: date, Risk: domain.RoundRisk(v)})
		e.metrics.ObservationsExtracted.Inc()
		sampled++
	}
	if sampled == 0 {
		e.logger.Warn("skipping dataset file", "file", name, "error", "no value at any location")
		e.metrics.FilesSkipped.WithLabelValues("no_value").Inc()
		return false
	}
	e.metrics.FilesProcessed.Inc()
	return true
}
