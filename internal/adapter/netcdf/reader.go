// Package netcdf reads fire-risk grids from NetCDF dataset files.
package netcdf

import (
	"errors"
	"fmt"
	"strings"

	"github.com/batchatco/go-native-netcdf/netcdf"
	"github.com/batchatco/go-native-netcdf/netcdf/api"

	"github.com/couchcryptid/firerisk-etl/internal/grid"
)

// Coordinate variable names accepted for each axis, matched case-insensitively.
var axisNames = map[grid.Axis][]string{
	grid.AxisLat:  {"lat", "latitude", "y"},
	grid.AxisLon:  {"lon", "longitude", "x"},
	grid.AxisTime: {"time", "t"},
}

// Reader decodes one named variable from dataset files.
// It implements pipeline.GridOpener.
type Reader struct {
	variable string
}

// NewReader creates a reader for the given variable code, e.g. "rf".
func NewReader(variable string) *Reader {
	return &Reader{variable: variable}
}

// Open reads the configured variable and its coordinates from path.
func (r *Reader) Open(path string) (*grid.Field, error) {
	nc, err := netcdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer nc.Close()

	v, err := nc.GetVariable(r.variable)
	if err != nil {
		return nil, fmt.Errorf("variable %q: %w", r.variable, err)
	}
	if v == nil {
		return nil, fmt.Errorf("variable %q not found", r.variable)
	}

	data, shape, err := flatten(v.Values)
	if err != nil {
		return nil, fmt.Errorf("variable %q: %w", r.variable, err)
	}
	if len(shape) != len(v.Dimensions) {
		return nil, fmt.Errorf("variable %q: %d dimensions, data has rank %d", r.variable, len(v.Dimensions), len(shape))
	}

	layout := make([]grid.Axis, len(v.Dimensions))
	coords := map[grid.Axis][]float64{}
	var times []float64
	var timeUnits string
	for i, dim := range v.Dimensions {
		axis, ok := axisFor(dim)
		if !ok {
			return nil, fmt.Errorf("variable %q: unrecognised dimension %q", r.variable, dim)
		}
		layout[i] = axis

		values, attrs, err := coordinate(nc, dim)
		if err != nil {
			if axis == grid.AxisTime {
				// A time dimension without a coordinate variable is usable when it has one step.
				continue
			}
			return nil, err
		}
		if axis == grid.AxisTime {
			times = values
			timeUnits, _ = stringAttr(attrs, "units")
			continue
		}
		coords[axis] = values
	}

	field, err := grid.NewField(applyPacking(data, v.Attributes), layout, shape, coords[grid.AxisLat], coords[grid.AxisLon], nil)
	if err != nil {
		return nil, fmt.Errorf("variable %q: %w", r.variable, err)
	}

	if len(times) > 1 {
		decoded, err := grid.DecodeTimes(times, timeUnits)
		if err != nil {
			return nil, fmt.Errorf("time coordinate: %w", err)
		}
		field.Times = decoded
	}

	if fill, ok := numberAttr(v.Attributes, "_FillValue"); ok {
		field.Fill, field.HasFill = applyScale(fill, v.Attributes), true
	} else if fill, ok := numberAttr(v.Attributes, "missing_value"); ok {
		field.Fill, field.HasFill = applyScale(fill, v.Attributes), true
	}
	return field, nil
}

func axisFor(dim string) (grid.Axis, bool) {
	name := strings.ToLower(dim)
	for axis, names := range axisNames {
		for _, n := range names {
			if name == n {
				return axis, true
			}
		}
	}
	return 0, false
}

func coordinate(nc api.Group, name string) ([]float64, api.AttributeMap, error) {
	v, err := nc.GetVariable(name)
	if err != nil {
		return nil, nil, fmt.Errorf("coordinate %q: %w", name, err)
	}
	if v == nil {
		return nil, nil, fmt.Errorf("coordinate %q not found", name)
	}
	values, shape, err := flatten(v.Values)
	if err != nil {
		return nil, nil, fmt.Errorf("coordinate %q: %w", name, err)
	}
	if len(shape) != 1 {
		return nil, nil, fmt.Errorf("coordinate %q: expected 1 dimension, got %d", name, len(shape))
	}
	return values, v.Attributes, nil
}

// applyPacking unpacks scale_factor/add_offset encoded integers in place.
func applyPacking(data []float64, attrs api.AttributeMap) []float64 {
	for i, v := range data {
		data[i] = applyScale(v, attrs)
	}
	return data
}

func applyScale(v float64, attrs api.AttributeMap) float64 {
	if scale, ok := numberAttr(attrs, "scale_factor"); ok {
		v *= scale
	}
	if offset, ok := numberAttr(attrs, "add_offset"); ok {
		v += offset
	}
	return v
}

func numberAttr(attrs api.AttributeMap, key string) (float64, bool) {
	if attrs == nil {
		return 0, false
	}
	raw, ok := attrs.Get(key)
	if !ok {
		return 0, false
	}
	values, _, err := flatten(raw)
	if err != nil || len(values) == 0 {
		return 0, false
	}
	return values[0], true
}

func stringAttr(attrs api.AttributeMap, key string) (string, bool) {
	if attrs == nil {
		return "", false
	}
	raw, ok := attrs.Get(key)
	if !ok {
		return "", false
	}
	s, ok := raw.(string)
	return s, ok
}

var errNotNumeric = errors.New("values are not numeric")
