// Package tickbar draws the graduated strip that scrolls under the indicator.
package tickbar

import (
	"image"
	"image/color"
	"math"

	"codeberg.org/mutker/vernier/internal/errors"
	"codeberg.org/mutker/vernier/internal/theme"
	xdraw "golang.org/x/image/draw"
)

// MarkKind identifies what a Mark draws.
type MarkKind int

const (
	MarkBackground MarkKind = iota
	MarkMinor
	MarkMajor
)

func (k MarkKind) String() string {
	switch k {
	case MarkBackground:
		return "background"
	case MarkMinor:
		return "minor"
	case MarkMajor:
		return "major"
	default:
		return "unknown"
	}
}

// Mark is one filled rectangle of the tick bar drawing.
type Mark struct {
	Kind  MarkKind
	Rect  image.Rectangle
	Color color.RGBA
}

// Plan returns the drawing description for a bar of height h: the background
// first, then every minor tick, then every major tick. Later marks paint over
// earlier ones.
func Plan(layout Layout, th theme.Theme, h int) ([]Mark, error) {
	if err := layout.Validate(); err != nil {
		return nil, err
	}
	if h <= 0 {
		return nil, errors.New().WithData(errors.ErrInvalidLayout, "height must be positive")
	}

	marks := make([]Mark, 0, 1+layout.MinorTickCount+layout.MajorTickCount+1)
	marks = append(marks, Mark{
		Kind:  MarkBackground,
		Rect:  image.Rect(0, 0, layout.Width(), h),
		Color: th.Background,
	})

	minorH := tickHeight(h, layout.MinorTickHeightRatio)
	step := layout.MinorStep()
	for i := 0; i < layout.MinorTickCount; i++ {
		marks = append(marks, tick(MarkMinor, float64(i)*step, h, minorH, th.MinorTick))
	}

	majorH := tickHeight(h, layout.MajorTickHeightRatio)
	step = layout.MajorStep()
	for i := 0; i <= layout.MajorTickCount; i++ {
		marks = append(marks, tick(MarkMajor, float64(i)*step, h, majorH, th.MajorTick))
	}

	return marks, nil
}

// Render paints Plan into a new (Width() x h) image.
func Render(layout Layout, th theme.Theme, h int) (*image.RGBA, error) {
	marks, err := Plan(layout, th, h)
	if err != nil {
		return nil, err
	}

	return paint(layout, marks, h), nil
}

func paint(layout Layout, marks []Mark, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, layout.Width(), h))
	for _, m := range marks {
		xdraw.Draw(img, m.Rect, image.NewUniform(m.Color), image.Point{}, xdraw.Src)
	}
	return img
}

// Count returns how many marks of kind are in marks.
func Count(marks []Mark, kind MarkKind) int {
	n := 0
	for _, m := range marks {
		if m.Kind == kind {
			n++
		}
	}
	return n
}

func tick(kind MarkKind, x float64, h, tickH int, c color.RGBA) Mark {
	px := int(math.Round(x))
	return Mark{
		Kind:  kind,
		Rect:  image.Rect(px, h-tickH, px+1, h),
		Color: c,
	}
}

func tickHeight(h int, ratio float64) int {
	return int(math.Round(float64(h) * ratio))
}
