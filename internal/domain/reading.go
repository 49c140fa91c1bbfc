package domain

import (
	"encoding/json"
	"fmt"
)

// Reading is a float that may be absent. The zero value is "no value".
type Reading struct {
	Value float64
	Valid bool
}

// Some wraps a defined value.
func Some(v float64) Reading {
	return Reading{Value: v, Valid: true}
}

// None is the "no value" reading.
var None = Reading{}

// String renders the reading with two decimals, or "-" when undefined.
func (r Reading) String() string {
	if !r.Valid {
		return "-"
	}
	return fmt.Sprintf("%.2f", r.Value)
}

// MarshalJSON encodes an undefined reading as null.
func (r Reading) MarshalJSON() ([]byte, error) {
	if !r.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(r.Value)
}

// UnmarshalJSON decodes null as an undefined reading.
func (r *Reading) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*r = None
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("decode reading: %w", err)
	}
	*r = Some(v)
	return nil
}
