package tickbar

import (
	"math"

	"codeberg.org/mutker/vernier/internal/errors"
)

// Layout is the tick bar geometry. It is a comparable value and doubles as
// part of the render cache key.
type Layout struct {
	BarWidth             float64
	MajorTickCount       int
	MinorTickCount       int
	MajorTickHeightRatio float64
	MinorTickHeightRatio float64
}

// DefaultLayout is a 1000 unit bar with 10 major and 100 minor divisions.
func DefaultLayout() Layout {
	return Layout{
		BarWidth:             1000,
		MajorTickCount:       10,
		MinorTickCount:       100,
		MajorTickHeightRatio: 0.6,
		MinorTickHeightRatio: 0.3,
	}
}

// Validate checks the geometry. A minor count that is not a multiple of the
// major count is allowed; the ticks simply will not line up.
func (l Layout) Validate() error {
	errFactory := errors.New()

	switch {
	case !(l.BarWidth > 0) || math.IsInf(l.BarWidth, 0):
		return errFactory.WithData(errors.ErrInvalidLayout, "bar width must be a positive number")
	case l.MajorTickCount <= 0:
		return errFactory.WithData(errors.ErrInvalidLayout, "major tick count must be positive")
	case l.MinorTickCount <= 0:
		return errFactory.WithData(errors.ErrInvalidLayout, "minor tick count must be positive")
	case !validRatio(l.MajorTickHeightRatio):
		return errFactory.WithData(errors.ErrInvalidLayout, "major tick height ratio must be in (0, 1]")
	case !validRatio(l.MinorTickHeightRatio):
		return errFactory.WithData(errors.ErrInvalidLayout, "minor tick height ratio must be in (0, 1]")
	}

	return nil
}

// Width is the pixel width of the rendered bar: one column past BarWidth so
// the closing major tick is visible.
func (l Layout) Width() int {
	return int(math.Ceil(l.BarWidth)) + 1
}

// MinorStep is the bar distance between two minor ticks.
func (l Layout) MinorStep() float64 {
	return l.BarWidth / float64(l.MinorTickCount)
}

// MajorStep is the bar distance between two major ticks.
func (l Layout) MajorStep() float64 {
	return l.BarWidth / float64(l.MajorTickCount)
}

func validRatio(r float64) bool {
	return r > 0 && r <= 1
}
