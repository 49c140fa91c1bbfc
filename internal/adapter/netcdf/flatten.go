package netcdf

import (
	"fmt"
	"reflect"
)

// flatten walks nested numeric slices ([]T, [][]T, [][][]T, ...) or a scalar
// and returns the values in row-major order with their shape. The decoder
// yields a different Go type per on-disk type and rank, so this goes through
// reflection rather than a type switch per combination.
func flatten(v any) ([]float64, []int, error) {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return nil, nil, errNotNumeric
	}

	var shape []int
	for t := rv; t.Kind() == reflect.Slice || t.Kind() == reflect.Array; {
		shape = append(shape, t.Len())
		if t.Len() == 0 {
			break
		}
		t = t.Index(0)
	}

	out := make([]float64, 0, product(shape))
	if err := walk(rv, 0, shape, &out); err != nil {
		return nil, nil, err
	}
	return out, shape, nil
}

func walk(rv reflect.Value, depth int, shape []int, out *[]float64) error {
	if rv.Kind() == reflect.Interface {
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if depth >= len(shape) || rv.Len() != shape[depth] {
			return fmt.Errorf("ragged array at depth %d", depth)
		}
		for i := 0; i < rv.Len(); i++ {
			if err := walk(rv.Index(i), depth+1, shape, out); err != nil {
				return err
			}
		}
		return nil
	case reflect.Float32, reflect.Float64:
		*out = append(*out, rv.Float())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		*out = append(*out, float64(rv.Int()))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		*out = append(*out, float64(rv.Uint()))
	default:
		return fmt.Errorf("%w: %s", errNotNumeric, rv.Kind())
	}
	if depth != len(shape) {
		return fmt.Errorf("ragged array at depth %d", depth)
	}
	return nil
}

func product(shape []int) int {
	n := 1
	for _, s := range shape {
		n *= s
	}
	return n
}
