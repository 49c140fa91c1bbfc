package domain

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// ErrNoDate is returned when a dataset file name has no YYYYMMDD suffix.
var ErrNoDate = errors.New("no date suffix in file name")

const (
	datasetDateLayout = "20060102"

	tabularPrefix    = "Risco"
	tabularExt       = ".xlsx"
	defaultPlaceName = "Cidade"
)

// IsDatasetFile reports whether name looks like a fire-risk dataset file:
// it contains marker and ends in ext.
func IsDatasetFile(name, marker, ext string) bool {
	return strings.HasSuffix(name, ext) && strings.Contains(name, marker)
}

// ParseDatasetDate extracts the 8-digit date embedded immediately before ext,
// e.g. "FireRisk_20250613.nc" -> 2025-06-13 UTC.
func ParseDatasetDate(name, ext string) (time.Time, error) {
	base := filepath.Base(name)
	stem, ok := strings.CutSuffix(base, ext)
	if !ok || len(stem) < len(datasetDateLayout) {
		return time.Time{}, fmt.Errorf("%w: %q", ErrNoDate, base)
	}

	digits := stem[len(stem)-len(datasetDateLayout):]
	date, err := time.Parse(datasetDateLayout, digits)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q: %w", ErrNoDate, base, err)
	}
	return date, nil
}

// TabularFileName is the tabular file written for a location, e.g.
// "Risco_Palmeiras.xlsx".
func TabularFileName(location string) string {
	return tabularPrefix + "_" + location + tabularExt
}

// LocationFromTabularName recovers the display name from a tabular file name:
// "Risco_palmeiras.xlsx" -> "Palmeiras". The bare "Risco.xlsx" is the default
// place "Cidade".
func LocationFromTabularName(name string) string {
	base := strings.TrimSuffix(filepath.Base(name), tabularExt)
	if base == tabularPrefix {
		return defaultPlaceName
	}
	return Capitalize(strings.TrimPrefix(base, tabularPrefix+"_"))
}

// Capitalize upper-cases the first letter and lower-cases the rest.
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}
