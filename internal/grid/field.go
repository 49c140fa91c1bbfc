// Package grid selects values from gridded datasets laid out over latitude,
// longitude and (optionally) time.
package grid

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrNoValue is returned when the selected cell holds a fill value or NaN.
var ErrNoValue = errors.New("no value at selected cell")

// Axis names a grid dimension.
type Axis int

const (
	AxisTime Axis = iota
	AxisLat
	AxisLon
)

func (a Axis) String() string {
	switch a {
	case AxisTime:
		return "time"
	case AxisLat:
		return "lat"
	case AxisLon:
		return "lon"
	default:
		return fmt.Sprintf("axis(%d)", int(a))
	}
}

// Field is a scalar variable sampled on a lat/lon(/time) grid. Data is stored
// flat in the variable's native dimension order.
type Field struct {
	Lats  []float64
	Lons  []float64
	Times []time.Time

	// Fill marks missing cells when HasFill is set.
	Fill    float64
	HasFill bool

	data    []float64
	strides [3]int
	hasTime bool
	nTime   int
}

// NewField builds a field from flat data. layout gives the axis of each
// dimension in order and shape its length. Lat and lon axes are required;
// the time axis is optional.
func NewField(data []float64, layout []Axis, shape []int, lats, lons []float64, times []time.Time) (*Field, error) {
	if len(layout) != len(shape) {
		return nil, fmt.Errorf("layout has %d axes, shape has %d", len(layout), len(shape))
	}

	f := &Field{Lats: lats, Lons: lons, Times: times, data: data, nTime: 1}
	seen := map[Axis]bool{}
	stride := 1
	for i := len(layout) - 1; i >= 0; i-- {
		axis, n := layout[i], shape[i]
		if seen[axis] {
			return nil, fmt.Errorf("axis %s repeated", axis)
		}
		seen[axis] = true

		switch axis {
		case AxisLat:
			if n != len(lats) {
				return nil, fmt.Errorf("lat axis has %d cells, %d coordinates", n, len(lats))
			}
		case AxisLon:
			if n != len(lons) {
				return nil, fmt.Errorf("lon axis has %d cells, %d coordinates", n, len(lons))
			}
		case AxisTime:
			if len(times) > 0 && n != len(times) {
				return nil, fmt.Errorf("time axis has %d steps, %d timestamps", n, len(times))
			}
			f.hasTime = true
			f.nTime = n
		default:
			return nil, fmt.Errorf("unknown axis %s", axis)
		}
		f.strides[axis] = stride
		stride *= n
	}

	if !seen[AxisLat] || !seen[AxisLon] {
		return nil, errors.New("field needs both lat and lon axes")
	}
	if stride != len(data) {
		return nil, fmt.Errorf("shape covers %d cells, data has %d", stride, len(data))
	}
	return f, nil
}

// At returns the raw value at the given indices.
func (f *Field) At(t, lat, lon int) float64 {
	return f.data[t*f.strides[AxisTime]+lat*f.strides[AxisLat]+lon*f.strides[AxisLon]]
}

// Nearest returns the value in the cell closest to (lat, lon) at the time step
// closest to at.
func (f *Field) Nearest(lat, lon float64, at time.Time) (float64, error) {
	if len(f.Lats) == 0 || len(f.Lons) == 0 {
		return 0, errors.New("empty grid")
	}

	ti, err := f.timeIndex(at)
	if err != nil {
		return 0, err
	}
	yi := NearestIndex(f.Lats, lat)
	xi := NearestIndex(f.Lons, lon)

	v := f.At(ti, yi, xi)
	if math.IsNaN(v) || (f.HasFill && v == f.Fill) {
		return 0, fmt.Errorf("%w: lat=%g lon=%g", ErrNoValue, f.Lats[yi], f.Lons[xi])
	}
	return v, nil
}

func (f *Field) timeIndex(at time.Time) (int, error) {
	if !f.hasTime || f.nTime == 1 {
		return 0, nil
	}
	if len(f.Times) == 0 {
		return 0, fmt.Errorf("%d time steps without timestamps", f.nTime)
	}

	best, bestDiff := 0, absDuration(f.Times[0].Sub(at))
	for i, t := range f.Times[1:] {
		if d := absDuration(t.Sub(at)); d < bestDiff {
			best, bestDiff = i+1, d
		}
	}
	return best, nil
}

// NearestIndex returns the index of the coordinate closest to v. Ties go to
// the lower index. Works for ascending and descending coordinates.
func NearestIndex(coords []float64, v float64) int {
	best, bestDiff := 0, math.Inf(1)
	for i, c := range coords {
		if d := math.Abs(c - v); d < bestDiff {
			best, bestDiff = i, d
		}
	}
	return best
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
