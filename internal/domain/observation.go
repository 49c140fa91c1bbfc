package domain

import (
	"errors"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// RiskDateLayout is the date format used in tabular files and message keys.
const RiskDateLayout = "2006-01-02"

// ErrSeriesNotFound is returned when a location has no stored series.
var ErrSeriesNotFound = errors.New("tabular file not found")

// Observation is one daily fire-risk (RF) value for a location.
type Observation struct {
	Date time.Time `json:"date"`
	Risk float64   `json:"fire_risk"`
}

// RiskSeries is an ordered list of daily observations. Dates need not be
// contiguous.
type RiskSeries []Observation

// Sorted returns a copy of the series ordered by ascending date. Equal dates
// keep their input order.
func (s RiskSeries) Sorted() RiskSeries {
	out := make(RiskSeries, len(s))
	copy(out, s)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out
}

// Values returns the risk column.
func (s RiskSeries) Values() []float64 {
	out := make([]float64, len(s))
	for i, o := range s {
		out[i] = o.Risk
	}
	return out
}

// exactExponent is below the smallest binary exponent of a float64, so
// NewFromFloatWithExponent keeps every digit of the stored value.
const exactExponent = -1074

// RoundRisk rounds a raw grid value to two decimal places. Rounding works on
// the exact binary value and sends exact ties to the even digit, so 0.125
// becomes 0.12 and 2.675 (stored just below) becomes 2.67.
func RoundRisk(v float64) float64 {
	return decimal.NewFromFloatWithExponent(v, exactExponent).RoundBank(2).InexactFloat64()
}
