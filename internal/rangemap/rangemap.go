// Package rangemap converts between domain values and scroll offsets on the
// tick bar. All functions are pure.
package rangemap

import (
	"math"

	"codeberg.org/mutker/vernier/internal/errors"
)

// Range is a validated value range with Min < Max.
type Range struct {
	Min float64
	Max float64
}

// NewRange rejects empty, inverted and non-finite ranges.
func NewRange(minValue, maxValue float64) (Range, error) {
	errFactory := errors.New()

	if !finite(minValue) || !finite(maxValue) || minValue >= maxValue {
		return Range{}, errFactory.WithData(errors.ErrInvalidRange, struct {
			Min, Max float64
		}{minValue, maxValue})
	}

	return Range{Min: minValue, Max: maxValue}, nil
}

// Span returns Max - Min.
func (r Range) Span() float64 {
	return r.Max - r.Min
}

// Clamp pins v into the range.
func (r Range) Clamp(v float64) float64 {
	return Clamp(v, r.Min, r.Max)
}

// ValueToOffset converts a value to an offset on a bar of barWidth units.
// The value is not clamped; callers clamp first.
func ValueToOffset(value, minValue, maxValue, barWidth float64) float64 {
	return ((value - minValue) / (maxValue - minValue)) * barWidth
}

// OffsetToValue converts an offset to a value. Offsets outside [0, barWidth],
// as produced by elastic overscroll, map exactly to the nearest bound, and
// the result never leaves [minValue, maxValue].
func OffsetToValue(offset, minValue, maxValue, barWidth float64) float64 {
	pct := offset / barWidth
	switch {
	case math.IsNaN(pct) || pct <= 0:
		return minValue
	case pct >= 1:
		return maxValue
	}
	return Clamp(pct*(maxValue-minValue)+minValue, minValue, maxValue)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Clamp pins v into [lo, hi]. NaN clamps to lo.
func Clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}

	return v
}
