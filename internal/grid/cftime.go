package grid

import (
	"fmt"
	"math"
	"strings"
	"time"
)

var referenceLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-1-2 15:04:05",
	"2006-1-2 15:4:5",
	"2006-01-02",
	"2006-1-2",
}

// DecodeTimes converts CF-convention time offsets ("days since 2025-01-01")
// into UTC timestamps.
func DecodeTimes(values []float64, units string) ([]time.Time, error) {
	unit, ref, ok := strings.Cut(strings.TrimSpace(units), " since ")
	if !ok {
		return nil, fmt.Errorf("time units %q: missing \"since\"", units)
	}

	step, err := unitDuration(strings.ToLower(strings.TrimSpace(unit)))
	if err != nil {
		return nil, err
	}
	origin, err := parseReference(ref)
	if err != nil {
		return nil, err
	}

	out := make([]time.Time, len(values))
	for i, v := range values {
		out[i] = origin.Add(time.Duration(math.Round(v * float64(step))))
	}
	return out, nil
}

func unitDuration(unit string) (time.Duration, error) {
	switch unit {
	case "days", "day", "d":
		return 24 * time.Hour, nil
	case "hours", "hour", "h", "hr":
		return time.Hour, nil
	case "minutes", "minute", "min":
		return time.Minute, nil
	case "seconds", "second", "s", "sec":
		return time.Second, nil
	default:
		return 0, fmt.Errorf("unsupported time unit %q", unit)
	}
}

func parseReference(ref string) (time.Time, error) {
	ref = strings.TrimSpace(ref)
	ref = strings.TrimSuffix(ref, " UTC")
	// Fractional seconds are common ("00:00:00.0") and carry no information here.
	if i := strings.LastIndex(ref, "."); i > strings.LastIndex(ref, ":") && strings.Contains(ref, ":") {
		ref = ref[:i]
	}
	for _, layout := range referenceLayouts {
		if t, err := time.Parse(layout, ref); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable time reference %q", ref)
}
