package domain

// Trend indicator tuning. A rise of delta lifts the indicator by at least
// riseGain*delta + riseBonus above its held level.
const (
	riseGain  = 0.3
	riseBonus = 0.01
)

// TrendIndicator computes ICTR14 for a risk series and its VR7 companion.
//
// The indicator rises at least as fast as the smoothed risk, holds on flat
// days, and decays with a one-step grace period: the first drop in a streak
// keeps the held level (or VR7 if higher), the second consecutive drop snaps
// the indicator down to VR7.
//
// Entries where vr7 is undefined are undefined and reset the drop streak. The
// held level carries forward across undefined gaps. risk and vr7 must have the
// same length; extra entries in either are ignored.
func TrendIndicator(risk []float64, vr7 []Reading) []Reading {
	n := min(len(risk), len(vr7))
	out := make([]Reading, n)

	var (
		held   Reading // last defined indicator value
		streak int     // consecutive strictly decreasing steps ending at i-1
	)

	for i := 0; i < n; i++ {
		smoothed := vr7[i]
		if !smoothed.Valid {
			out[i] = None
			streak = 0
			continue
		}

		if !held.Valid {
			out[i] = smoothed
			held = smoothed
			streak = 0
			continue
		}

		prev := risk[i]
		if i > 0 {
			prev = risk[i-1]
		}
		delta := risk[i] - prev

		if delta < 0 {
			streak++
		} else {
			streak = 0
		}

		var next float64
		switch {
		case delta > 0:
			next = max(smoothed.Value, held.Value+riseGain*delta+riseBonus)
		case delta == 0:
			next = held.Value
		case streak == 1:
			next = max(smoothed.Value, held.Value)
		default:
			next = smoothed.Value
		}

		out[i] = Some(next)
		held = out[i]
	}
	return out
}
