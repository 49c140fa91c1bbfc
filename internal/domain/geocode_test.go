package domain

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

type mockGeocoder struct {
	result GeocodingResult
	err    error
	calls  int
}

func (m *mockGeocoder) ReverseGeocode(_ context.Context, _, _ float64) (GeocodingResult, error) {
	m.calls++
	return m.result, m.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var palmeiras = Location{Name: "Palmeiras", Lat: -12.45, Lon: -41.47}

func TestPlaceLabel_NilGeocoder(t *testing.T) {
	assert.Empty(t, PlaceLabel(context.Background(), palmeiras, nil, discardLogger()))
}

func TestPlaceLabel_Success(t *testing.T) {
	geo := &mockGeocoder{result: GeocodingResult{FormattedAddress: "Palmeiras, Bahia, Brazil"}}

	got := PlaceLabel(context.Background(), palmeiras, geo, discardLogger())
	assert.Equal(t, "Palmeiras, Bahia, Brazil", got)
	assert.Equal(t, 1, geo.calls)
}

func TestPlaceLabel_ErrorDegrades(t *testing.T) {
	geo := &mockGeocoder{err: errors.New("timeout")}

	assert.Empty(t, PlaceLabel(context.Background(), palmeiras, geo, discardLogger()))
	assert.Equal(t, 1, geo.calls)
}

func TestPlaceLabel_NoCoordinates(t *testing.T) {
	geo := &mockGeocoder{}

	assert.Empty(t, PlaceLabel(context.Background(), Location{Name: "Cidade"}, geo, discardLogger()))
	assert.Zero(t, geo.calls)
}
