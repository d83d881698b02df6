package rangemap_test

import (
	"math"
	"testing"

	"codeberg.org/mutker/vernier/internal/errors"
	"codeberg.org/mutker/vernier/internal/rangemap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	ranges := []struct{ min, max, width float64 }{
		{0, 0.5, 1000},
		{-40, 40, 800},
		{0, 5000, 1200},
		{20.5, 21.75, 333},
		{-7.3, 11.9, 1000},
		{-0.3, 0.1, 1000},
	}
	for _, r := range ranges {
		for i := 0; i <= 100; i++ {
			v := r.min + (r.max-r.min)*float64(i)/100
			off := rangemap.ValueToOffset(v, r.min, r.max, r.width)
			got := rangemap.OffsetToValue(off, r.min, r.max, r.width)
			assert.InDelta(t, v, got, 1e-9*math.Max(1, math.Abs(v)), "range %v value %v", r, v)
		}
	}
}

func TestValueToOffset(t *testing.T) {
	assert.Equal(t, 0.0, rangemap.ValueToOffset(10, 10, 20, 500))
	assert.Equal(t, 250.0, rangemap.ValueToOffset(15, 10, 20, 500))
	assert.Equal(t, 500.0, rangemap.ValueToOffset(20, 10, 20, 500))
}

func TestOffsetToValueClamps(t *testing.T) {
	ranges := []struct{ min, max float64 }{
		{-1, 1},
		{-0.3, 0.1},
		{-7.3, 11.9},
		{-1e16, 3},
		{0.1, 0.7},
		{1e-9, 3e-9},
	}
	const width = 1000.0

	tests := []struct {
		name   string
		offset float64
		atMax  bool
	}{
		{"overscroll left", -35, false},
		{"far overscroll left", -1e12, false},
		{"nan", math.NaN(), false},
		{"start", 0, false},
		{"overscroll right", 1035, true},
		{"far overscroll right", 5000, true},
		{"infinite right", math.Inf(1), true},
		{"end", width, true},
	}
	for _, r := range ranges {
		for _, tt := range tests {
			want := r.min
			if tt.atMax {
				want = r.max
			}
			got := rangemap.OffsetToValue(tt.offset, r.min, r.max, width)
			assert.Equal(t, want, got, "range %v %s", r, tt.name)
		}
	}
}

func TestOffsetToValueStaysInRange(t *testing.T) {
	ranges := []struct{ min, max float64 }{
		{-0.3, 0.1},
		{-7.3, 11.9},
		{-1e16, 3},
	}
	for _, r := range ranges {
		for i := 0; i <= 1000; i++ {
			got := rangemap.OffsetToValue(float64(i), r.min, r.max, 1000)
			assert.GreaterOrEqual(t, got, r.min, "range %v offset %d", r, i)
			assert.LessOrEqual(t, got, r.max, "range %v offset %d", r, i)
		}
	}
}

func TestNewRange(t *testing.T) {
	r, err := rangemap.NewRange(0, 50)
	require.NoError(t, err)
	assert.Equal(t, 50.0, r.Span())
	assert.Equal(t, 50.0, r.Clamp(70))
	assert.Equal(t, 0.0, r.Clamp(-3))
	assert.Equal(t, 12.5, r.Clamp(12.5))

	bad := [][2]float64{
		{5, 5},
		{6, 5},
		{math.NaN(), 1},
		{0, math.Inf(1)},
	}
	for _, b := range bad {
		_, err := rangemap.NewRange(b[0], b[1])
		require.Error(t, err, "range %v", b)
		assert.True(t, errors.HasCode(err, errors.ErrInvalidRange))
	}
}
