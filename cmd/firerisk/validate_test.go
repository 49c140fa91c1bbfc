package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/firerisk-etl/internal/domain"
)

func seriesOf(values ...float64) domain.RiskSeries {
	s := make(domain.RiskSeries, len(values))
	for i, v := range values {
		s[i] = domain.Observation{Date: time.Date(2025, time.July, i+1, 0, 0, 0, 0, time.UTC), Risk: v}
	}
	return s
}

func TestCheckSeries(t *testing.T) {
	series := seriesOf(0.2, 0.3, 1.25, -0.1)
	series = append(series, series[0])

	p := &phase{name: "integrity"}
	checkSeries(p, "palmeiras", series)

	require.Len(t, p.errors, 3)
	assert.Contains(t, p.errors[0], "2025-07-03: fire_risk 1.25")
	assert.Contains(t, p.errors[1], "2025-07-04: fire_risk -0.10")
	assert.Contains(t, p.errors[2], "2025-07-01: duplicate date")
}

func TestCheckIndicator_Passes(t *testing.T) {
	p := &phase{name: "indicator"}
	checkIndicator(p, domain.Analyze("palmeiras", mockSeries(time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC), 90, 7)))
	assert.True(t, p.passed(), p.errors)
}

func TestCheckIndicator_ShortSeries(t *testing.T) {
	p := &phase{name: "indicator"}
	checkIndicator(p, domain.Analyze("palmeiras", seriesOf(0.1, 0.2, 0.3)))
	assert.True(t, p.passed(), p.errors)
}

func TestCheckIndicator_FlagsTamperedPoints(t *testing.T) {
	base := seriesOf(0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.6)

	t.Run("below vr7 on rise", func(t *testing.T) {
		a := domain.Analyze("palmeiras", base)
		a.Points[7].Indicator = domain.Some(0.1)

		p := &phase{name: "indicator"}
		checkIndicator(p, a)
		require.Len(t, p.errors, 1)
		assert.Contains(t, p.errors[0], "2025-07-08: ictr14 0.1000 below vr7 0.5143 on a rising day")
	})

	t.Run("missing value", func(t *testing.T) {
		a := domain.Analyze("palmeiras", base)
		a.Points[6].Indicator = domain.None

		p := &phase{name: "indicator"}
		checkIndicator(p, a)
		require.Len(t, p.errors, 2)
		assert.Contains(t, p.errors[0], "vr7 defined=true but ictr14 defined=false")
		assert.Contains(t, p.errors[1], "1 defined ictr14 values, want 2")
	})
}

func TestPrintPhases(t *testing.T) {
	ok := &phase{name: "Phase 1: Tabular Files"}
	bad := &phase{name: "Phase 2: Series Integrity"}
	bad.errorf("palmeiras %s: duplicate date", "2025-07-01")

	var buf bytes.Buffer
	assert.False(t, printPhases(&buf, 10, ok, bad))
	out := buf.String()
	assert.Contains(t, out, "FAIL (1 errors)")
	assert.Contains(t, out, "[1] palmeiras 2025-07-01: duplicate date")
	assert.Contains(t, out, "Validation FAILED.")

	buf.Reset()
	assert.True(t, printPhases(&buf, 10, ok))
	assert.Contains(t, buf.String(), "All validations passed.")
}

func TestMockSeries(t *testing.T) {
	from := time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC)
	a := mockSeries(from, 30, 3)
	b := mockSeries(from, 30, 3)

	require.Len(t, a, 30)
	assert.Equal(t, a, b, "same seed gives the same series")
	assert.Equal(t, from.AddDate(0, 0, 29), a[29].Date)
	for _, o := range a {
		assert.GreaterOrEqual(t, o.Risk, 0.0)
		assert.Less(t, o.Risk, 1.2)
		assert.Equal(t, domain.RoundRisk(o.Risk), o.Risk)
	}
	assert.Empty(t, mockSeries(from, 0, 1))

	p := &phase{name: "integrity"}
	checkSeries(p, "palmeiras", a)
	assert.True(t, p.passed(), p.errors)
}
