package grid

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeTimes(t *testing.T) {
	cases := []struct {
		units string
		value float64
		want  time.Time
	}{
		{"days since 2025-01-01", 163, time.Date(2025, time.June, 13, 0, 0, 0, 0, time.UTC)},
		{"hours since 2025-06-13 00:00:00", 12, time.Date(2025, time.June, 13, 12, 0, 0, 0, time.UTC)},
		{"minutes since 2025-06-13T00:00:00Z", 90, time.Date(2025, time.June, 13, 1, 30, 0, 0, time.UTC)},
		{"seconds since 1970-01-01 00:00:00.0", 86400, time.Date(1970, time.January, 2, 0, 0, 0, 0, time.UTC)},
		{"days since 2025-6-1 0:0:0", 0.5, time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		got, err := DecodeTimes([]float64{tc.value}, tc.units)
		require.NoError(t, err, tc.units)
		assert.Equal(t, tc.want, got[0], tc.units)
	}
}

func TestDecodeTimes_Errors(t *testing.T) {
	for _, units := range []string{"days", "fortnights since 2025-01-01", "days since yesterday"} {
		_, err := DecodeTimes([]float64{1}, units)
		assert.Error(t, err, units)
	}
}
