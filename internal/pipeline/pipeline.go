// Package pipeline runs the extraction and report batches and schedules them
// for the long-running service.
package pipeline

import (
	"context"

	"github.com/couchcryptid/firerisk-etl/internal/domain"
	"github.com/couchcryptid/firerisk-etl/internal/grid"
)

// GridOpener decodes a dataset file into a gridded field.
type GridOpener interface {
	Open(path string) (*grid.Field, error)
}

// SeriesWriter persists a location's extracted series.
type SeriesWriter interface {
	WriteSeries(ctx context.Context, loc domain.Location, series domain.RiskSeries) (string, error)
}

// SeriesReader loads a location's stored series. A location with nothing
// stored yields an error wrapping domain.ErrSeriesNotFound.
type SeriesReader interface {
	ReadSeries(ctx context.Context, loc domain.Location) (domain.RiskSeries, error)
}

// ChartRenderer draws a location's diagram.
type ChartRenderer interface {
	Chart(title string, points []domain.TrajectoryPoint) ([]byte, error)
}

// PointSink receives the analysed trajectory points of one location.
type PointSink interface {
	Name() string
	PublishPoints(ctx context.Context, runID string, points []domain.TrajectoryPoint) error
}
