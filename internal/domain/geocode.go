package domain

import (
	"context"
	"log/slog"
)

// PlaceLabel returns a human-readable place for a location's coordinates, used
// as the diagram subtitle. It returns "" when geocoder is nil, the lookup
// fails, or nothing was found (graceful degradation).
func PlaceLabel(ctx context.Context, loc Location, geocoder Geocoder, logger *slog.Logger) string {
	if geocoder == nil {
		return ""
	}
	if loc.Lat == 0 && loc.Lon == 0 {
		return ""
	}

	result, err := geocoder.ReverseGeocode(ctx, loc.Lat, loc.Lon)
	if err != nil {
		logger.Warn("reverse geocoding failed",
			"location", loc.Name,
			"lat", loc.Lat,
			"lon", loc.Lon,
			"error", err,
		)
		return ""
	}
	return result.FormattedAddress
}
