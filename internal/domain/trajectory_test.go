package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(d int) time.Time {
	return time.Date(2025, time.June, d, 0, 0, 0, 0, time.UTC)
}

func TestAnalyze_SortsByDate(t *testing.T) {
	series := RiskSeries{}
	for d := 10; d >= 1; d-- {
		series = append(series, Observation{Date: day(d), Risk: 0.1 * float64(d)})
	}

	a := Analyze("Ubatuba", series)
	require.Len(t, a.Points, 10)
	for i := 1; i < len(a.Points); i++ {
		assert.True(t, a.Points[i-1].Date.Before(a.Points[i].Date))
	}
	assert.Equal(t, day(10), series[0].Date, "input must not be reordered")
	assert.Equal(t, "Ubatuba", a.Points[0].Location)
	assert.Equal(t, TierLow, a.Points[0].Tier)
}

func TestAnalyze_PlottableDropsUndefined(t *testing.T) {
	series := RiskSeries{}
	for d := 1; d <= 9; d++ {
		series = append(series, Observation{Date: day(d), Risk: 0.5})
	}

	plot := Analyze("Palmeiras", series).Plottable()
	require.Len(t, plot, 3)
	assert.Equal(t, day(7), plot[0].Date)
	assert.Equal(t, TierHigh, plot[0].Tier)
	for _, p := range plot {
		assert.InDelta(t, 0.5, p.Indicator.Value, eps)
	}
}

func TestAnalyze_Empty(t *testing.T) {
	a := Analyze("Cidade", nil)
	assert.Empty(t, a.Points)
	assert.Empty(t, a.Plottable())
}

func TestTrajectoryPoint_JSON(t *testing.T) {
	p := TrajectoryPoint{
		Location:  "Palmeiras",
		Date:      day(13),
		Risk:      0.62,
		VR7:       None,
		Indicator: Some(0.7),
		Tier:      TierHigh,
	}

	data, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"location":"Palmeiras","date":"2025-06-13T00:00:00Z","fire_risk":0.62,"vr7":null,"ictr14":0.7,"tier":"Alto"}`, string(data))

	var back TrajectoryPoint
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, p, back)
}
