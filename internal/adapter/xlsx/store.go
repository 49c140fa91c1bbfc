// Package xlsx stores per-location risk series as spreadsheet files with a
// "date" and a "fire_risk" column.
package xlsx

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/couchcryptid/firerisk-etl/internal/domain"
)

const (
	headerDate = "date"
	headerRisk = "fire_risk"

	riskPrecision = 2
)

// ErrNotFound is returned by ReadSeries when the location has no tabular file.
var ErrNotFound = domain.ErrSeriesNotFound

var dateLayouts = []string{
	domain.RiskDateLayout,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"01-02-06",
	"02/01/2006",
}

// Store reads and writes tabular risk files in a directory.
// It implements pipeline.SeriesWriter and pipeline.SeriesReader.
type Store struct {
	dir    string
	logger *slog.Logger
}

// NewStore creates a store rooted at dir.
func NewStore(dir string, logger *slog.Logger) *Store {
	return &Store{dir: dir, logger: logger}
}

// Path returns the tabular file path for a location.
func (s *Store) Path(loc domain.Location) string {
	return filepath.Join(s.dir, loc.FileName())
}

// WriteSeries writes the series to the location's file, one sheet named for
// the location, rows in date order. An existing file is replaced.
func (s *Store) WriteSeries(_ context.Context, loc domain.Location, series domain.RiskSeries) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := loc.SheetName()
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return "", fmt.Errorf("name sheet %q: %w", sheet, err)
	}
	if err := f.SetSheetRow(sheet, "A1", &[]any{headerDate, headerRisk}); err != nil {
		return "", fmt.Errorf("write header: %w", err)
	}

	for i, o := range series.Sorted() {
		row := i + 2
		dateCell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return "", err
		}
		riskCell, err := excelize.CoordinatesToCellName(2, row)
		if err != nil {
			return "", err
		}
		if err := f.SetCellStr(sheet, dateCell, o.Date.Format(domain.RiskDateLayout)); err != nil {
			return "", fmt.Errorf("write row %d: %w", row, err)
		}
		if err := f.SetCellFloat(sheet, riskCell, o.Risk, riskPrecision, 64); err != nil {
			return "", fmt.Errorf("write row %d: %w", row, err)
		}
	}

	path := s.Path(loc)
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("save %s: %w", path, err)
	}
	return path, nil
}

// ReadSeries loads a location's series. It reads the sheet named for the
// location and falls back to the first sheet. Rows with an unreadable date or
// risk are skipped with a warning. The result is in file order.
func (s *Store) ReadSeries(_ context.Context, loc domain.Location) (domain.RiskSeries, error) {
	path := s.Path(loc)
	f, err := excelize.OpenFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	sheet := loc.SheetName()
	if !slices.Contains(f.GetSheetList(), sheet) {
		sheet = f.GetSheetName(0)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}

	series := make(domain.RiskSeries, 0, len(rows))
	for i, row := range rows {
		if i == 0 && isHeader(row) {
			continue
		}
		obs, err := parseRow(row)
		if err != nil {
			s.logger.Warn("skipping tabular row",
				"file", path,
				"row", i+1,
				"error", err,
			)
			continue
		}
		series = append(series, obs)
	}
	return series, nil
}

func isHeader(row []string) bool {
	return len(row) > 0 && strings.EqualFold(strings.TrimSpace(row[0]), headerDate)
}

func parseRow(row []string) (domain.Observation, error) {
	if len(row) < 2 {
		return domain.Observation{}, fmt.Errorf("expected 2 columns, got %d", len(row))
	}
	date, err := parseDate(row[0])
	if err != nil {
		return domain.Observation{}, err
	}
	risk, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(row[1]), ",", "."), 64)
	if err != nil {
		return domain.Observation{}, fmt.Errorf("parse risk %q: %w", row[1], err)
	}
	return domain.Observation{Date: date, Risk: risk}, nil
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	// Date cells typed as numbers come back as Excel serials.
	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("parse date %q", s)
}
