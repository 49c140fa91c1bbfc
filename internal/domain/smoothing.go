package domain

// SmoothingWindow is the VR7 window length in entries.
const SmoothingWindow = 7

// MovingAverage computes the trailing mean over window entries. The window is
// positional, so gaps between dates do not shorten it. Entries with fewer than
// window values behind them (inclusive) are undefined. Negative means are
// clipped to zero.
func MovingAverage(values []float64, window int) []Reading {
	out := make([]Reading, len(values))
	if window <= 0 {
		return out
	}

	for i := window - 1; i < len(values); i++ {
		var sum float64
		for _, v := range values[i-window+1 : i+1] {
			sum += v
		}
		mean := sum / float64(window)
		if mean < 0 {
			mean = 0
		}
		out[i] = Some(mean)
	}
	return out
}

// VR7 is the 7-entry trailing mean of the risk series.
func VR7(values []float64) []Reading {
	return MovingAverage(values, SmoothingWindow)
}
