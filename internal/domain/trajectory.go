package domain

import "time"

// TrajectoryPoint is one day of a location's risk trajectory: observed risk,
// its smoothed value and the trend indicator.
type TrajectoryPoint struct {
	Location  string    `json:"location"`
	Date      time.Time `json:"date"`
	Risk      float64   `json:"fire_risk"`
	VR7       Reading   `json:"vr7"`
	Indicator Reading   `json:"ictr14"`
	Tier      RiskTier  `json:"tier,omitempty"`
}

// Analysis is a location's series annotated with VR7 and ICTR14.
type Analysis struct {
	Location string
	Points   []TrajectoryPoint
}

// Analyze sorts the series by date and computes VR7 and the trend indicator
// in a single forward pass. The input is not modified.
func Analyze(location string, series RiskSeries) Analysis {
	sorted := series.Sorted()
	values := sorted.Values()
	vr7 := VR7(values)
	indicator := TrendIndicator(values, vr7)

	points := make([]TrajectoryPoint, len(sorted))
	for i, o := range sorted {
		tier, _ := TierOf(o.Risk)
		points[i] = TrajectoryPoint{
			Location:  location,
			Date:      o.Date,
			Risk:      o.Risk,
			VR7:       vr7[i],
			Indicator: indicator[i],
			Tier:      tier,
		}
	}
	return Analysis{Location: location, Points: points}
}

// Plottable returns the points whose indicator is defined, in date order.
func (a Analysis) Plottable() []TrajectoryPoint {
	out := make([]TrajectoryPoint, 0, len(a.Points))
	for _, p := range a.Points {
		if p.Indicator.Valid {
			out = append(out, p)
		}
	}
	return out
}
