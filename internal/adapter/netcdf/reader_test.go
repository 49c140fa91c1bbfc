package netcdf

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/batchatco/go-native-netcdf/netcdf/api"
	"github.com/batchatco/go-native-netcdf/netcdf/cdf"
	"github.com/batchatco/go-native-netcdf/netcdf/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/firerisk-etl/internal/grid"
)

type fixtureVar struct {
	name  string
	v     api.Variable
	attrs map[string]any
	order []string
}

// writeDataset writes a classic NetCDF file with the given variables.
func writeDataset(t *testing.T, vars ...fixtureVar) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "FireRisk_20250613.nc")

	cw, err := cdf.OpenWriter(path)
	require.NoError(t, err)
	for _, fv := range vars {
		if len(fv.order) > 0 {
			attrs, err := util.NewOrderedMap(fv.order, fv.attrs)
			require.NoError(t, err)
			fv.v.Attributes = attrs
		}
		require.NoError(t, cw.AddVar(fv.name, fv.v))
	}
	require.NoError(t, cw.Close())
	return path
}

var (
	fixtureLats = fixtureVar{name: "lat", v: api.Variable{Values: []float64{-13, -12}, Dimensions: []string{"lat"}}}
	fixtureLons = fixtureVar{name: "lon", v: api.Variable{Values: []float64{-42, -41.5, -41}, Dimensions: []string{"lon"}}}
)

// packedRisk is rf(time, lat, lon) stored as int16 hundredths with -999 as
// the fill value and two daily time steps.
func packedRisk() []fixtureVar {
	return []fixtureVar{
		fixtureLats,
		fixtureLons,
		{
			name:  "time",
			v:     api.Variable{Values: []float64{0, 1}, Dimensions: []string{"time"}},
			attrs: map[string]any{"units": "days since 2025-06-12 00:00:00"},
			order: []string{"units"},
		},
		{
			name: "rf",
			v: api.Variable{
				Values: [][][]int16{
					{{10, 20, 30}, {40, 50, 60}},
					{{15, 25, -999}, {45, 55, 65}},
				},
				Dimensions: []string{"time", "lat", "lon"},
			},
			attrs: map[string]any{
				"scale_factor": float64(0.01),
				"add_offset":   float64(0),
				"_FillValue":   int16(-999),
			},
			order: []string{"scale_factor", "add_offset", "_FillValue"},
		},
	}
}

func TestReader_Open_PackedVariable(t *testing.T) {
	path := writeDataset(t, packedRisk()...)

	field, err := NewReader("rf").Open(path)
	require.NoError(t, err)
	require.Len(t, field.Times, 2)
	assert.True(t, field.HasFill)

	june12 := time.Date(2025, time.June, 12, 0, 0, 0, 0, time.UTC)
	june13 := june12.AddDate(0, 0, 1)

	v, err := field.Nearest(-12.1, -41.6, june12)
	require.NoError(t, err)
	assert.InDelta(t, 0.50, v, 1e-9)

	v, err = field.Nearest(-12.1, -41.6, june13)
	require.NoError(t, err)
	assert.InDelta(t, 0.55, v, 1e-9, "nearest time step is the second day")

	v, err = field.Nearest(-12.9, -41.9, june13.Add(10*time.Hour))
	require.NoError(t, err)
	assert.InDelta(t, 0.15, v, 1e-9)

	_, err = field.Nearest(-13, -41, june13)
	require.ErrorIs(t, err, grid.ErrNoValue)

	v, err = field.Nearest(-13, -41, june12)
	require.NoError(t, err)
	assert.InDelta(t, 0.30, v, 1e-9)
}

func TestReader_Open_TimeWithoutCoordinate(t *testing.T) {
	path := writeDataset(t,
		fixtureLats,
		fixtureLons,
		fixtureVar{
			name: "rf",
			v: api.Variable{
				Values:     [][][]float64{{{0.1, 0.2, -1}, {0.4, 0.5, 0.6}}},
				Dimensions: []string{"time", "lat", "lon"},
			},
			attrs: map[string]any{"missing_value": float64(-1)},
			order: []string{"missing_value"},
		},
	)

	field, err := NewReader("rf").Open(path)
	require.NoError(t, err)
	assert.Empty(t, field.Times)

	v, err := field.Nearest(-12, -42, time.Date(2025, time.June, 13, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.InDelta(t, 0.4, v, 1e-9)

	_, err = field.Nearest(-13, -41, time.Date(2025, time.June, 13, 0, 0, 0, 0, time.UTC))
	require.ErrorIs(t, err, grid.ErrNoValue)
}

func TestReader_Open_MissingVariable(t *testing.T) {
	path := writeDataset(t, packedRisk()...)

	_, err := NewReader("fwi").Open(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `variable "fwi"`)
}

func TestFlatten(t *testing.T) {
	data, shape, err := flatten([][][]float32{
		{{0.25, 0.5}, {0.75, 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 2}, shape)
	assert.Equal(t, []float64{0.25, 0.5, 0.75, 1}, data)
}

func TestFlatten_IntegersAndScalars(t *testing.T) {
	data, shape, err := flatten([]int16{-9999, 12})
	require.NoError(t, err)
	assert.Equal(t, []int{2}, shape)
	assert.Equal(t, []float64{-9999, 12}, data)

	data, shape, err = flatten(float64(3))
	require.NoError(t, err)
	assert.Empty(t, shape)
	assert.Equal(t, []float64{3}, data)
}

func TestFlatten_Rejects(t *testing.T) {
	_, _, err := flatten([]string{"a"})
	require.ErrorIs(t, err, errNotNumeric)

	_, _, err = flatten([][]float64{{1, 2}, {3}})
	require.Error(t, err)

	_, _, err = flatten(nil)
	require.Error(t, err)
}

func TestAxisFor(t *testing.T) {
	for dim, want := range map[string]grid.Axis{
		"lat":       grid.AxisLat,
		"Latitude":  grid.AxisLat,
		"lon":       grid.AxisLon,
		"LONGITUDE": grid.AxisLon,
		"time":      grid.AxisTime,
	} {
		got, ok := axisFor(dim)
		require.True(t, ok, dim)
		assert.Equal(t, want, got, dim)
	}

	_, ok := axisFor("level")
	assert.False(t, ok)
}

func TestReader_Open_MissingFile(t *testing.T) {
	_, err := NewReader("rf").Open(filepath.Join(t.TempDir(), "FireRisk_20250613.nc"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open dataset")
}
