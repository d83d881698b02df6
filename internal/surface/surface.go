// Package surface is the terminal host for the gauge: a horizontally
// scrolling tick bar under a fixed centre indicator, drawn with tcell.
package surface

import (
	"math"

	"codeberg.org/mutker/vernier/internal/logger"
	"codeberg.org/mutker/vernier/internal/rangemap"
	"codeberg.org/mutker/vernier/internal/theme"
	"codeberg.org/mutker/vernier/internal/tickbar"
	"github.com/gdamore/tcell/v2"
)

// Canvas is the subset of tcell.Screen the widgets draw to.
type Canvas interface {
	SetContent(x, y int, mainc rune, combc []rune, style tcell.Style)
}

// Rect is a cell rectangle on the screen.
type Rect struct {
	X, Y, W, H int
}

// Contains reports whether (x, y) is inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

const (
	minorGlyph     = '│'
	majorGlyph     = '┃'
	indicatorGlyph = '▼'
	indicatorStem  = '╎'
)

// TickSurface shows one terminal column per bar unit. Its content offset is
// the bar coordinate under the indicator.
//
// User input moves the offset and reports every change to the position
// handler. While dragging, the offset may run up to the overscroll margin
// past either end; releasing settles it back onto the bar.
type TickSurface struct {
	Rect Rect

	layout     tickbar.Layout
	theme      theme.Theme
	overscroll float64
	log        logger.Logger

	offset  float64
	handler func(float64)

	dragging  bool
	dragX     int
	dragStart float64

	cache tickbar.Cache
}

// New creates a surface for layout. overscroll is the elastic margin in bar
// units.
func New(layout tickbar.Layout, th theme.Theme, overscroll float64, log logger.Logger) *TickSurface {
	if log == nil {
		log = logger.Default()
	}
	return &TickSurface{
		layout:     layout,
		theme:      th,
		overscroll: math.Max(0, overscroll),
		log:        log.With("surface"),
	}
}

// SetRect places the surface on the screen.
func (s *TickSurface) SetRect(r Rect) {
	s.Rect = r
}

// SetContentOffset implements gauge.Surface. It never calls the handler.
func (s *TickSurface) SetContentOffset(offset float64) {
	s.offset = offset
}

// SetPositionHandler implements gauge.Surface.
func (s *TickSurface) SetPositionHandler(fn func(float64)) {
	s.handler = fn
}

// ContentOffset returns the bar coordinate under the indicator.
func (s *TickSurface) ContentOffset() float64 {
	return s.offset
}

// Dragging reports whether a mouse drag is in progress.
func (s *TickSurface) Dragging() bool {
	return s.dragging
}

// IndicatorColumn is the screen column of the indicator.
func (s *TickSurface) IndicatorColumn() int {
	return s.Rect.X + s.Rect.W/2
}

// HandleKey scrolls by one unit with the arrow keys, by a minor division with
// Shift+arrow, by a major division with PgUp/PgDn and to the ends with
// Home/End.
func (s *TickSurface) HandleKey(ev *tcell.EventKey) bool {
	step := 1.0
	if ev.Modifiers()&tcell.ModShift != 0 {
		step = s.layout.MinorStep()
	}

	switch ev.Key() {
	case tcell.KeyLeft:
		s.scrollTo(s.offset-step, false)
	case tcell.KeyRight:
		s.scrollTo(s.offset+step, false)
	case tcell.KeyPgUp:
		s.scrollTo(s.offset-s.layout.MajorStep(), false)
	case tcell.KeyPgDn:
		s.scrollTo(s.offset+s.layout.MajorStep(), false)
	case tcell.KeyHome:
		s.scrollTo(0, false)
	case tcell.KeyEnd:
		s.scrollTo(s.layout.BarWidth, false)
	default:
		return false
	}

	return true
}

// HandleMouse drags the bar with the primary button and scrolls it with the
// wheel. Dragging right moves the bar right, which lowers the offset.
func (s *TickSurface) HandleMouse(ev *tcell.EventMouse) bool {
	x, y := ev.Position()
	buttons := ev.Buttons()

	switch {
	case buttons&tcell.Button1 != 0:
		if !s.dragging {
			if !s.Rect.Contains(x, y) {
				return false
			}
			s.dragging = true
			s.dragX = x
			s.dragStart = s.offset
			return true
		}
		s.scrollTo(s.dragStart-float64(x-s.dragX), true)
		return true

	case s.dragging:
		s.dragging = false
		s.settle()
		return true

	case buttons&(tcell.WheelUp|tcell.WheelLeft) != 0:
		if !s.Rect.Contains(x, y) {
			return false
		}
		s.scrollTo(s.offset-1, false)
		return true

	case buttons&(tcell.WheelDown|tcell.WheelRight) != 0:
		if !s.Rect.Contains(x, y) {
			return false
		}
		s.scrollTo(s.offset+1, false)
		return true
	}

	return false
}

func (s *TickSurface) scrollTo(offset float64, elastic bool) {
	lo, hi := 0.0, s.layout.BarWidth
	if elastic {
		lo, hi = -s.overscroll, s.layout.BarWidth+s.overscroll
	}
	offset = rangemap.Clamp(offset, lo, hi)
	if offset == s.offset {
		return
	}
	s.offset = offset
	s.notify()
}

// settle pulls an overscrolled offset back onto the bar.
func (s *TickSurface) settle() {
	settled := rangemap.Clamp(s.offset, 0, s.layout.BarWidth)
	if settled == s.offset {
		return
	}
	s.log.Debug().Float64("from", s.offset).Float64("to", settled).Msg("Settling overscroll")
	s.offset = settled
	s.notify()
}

func (s *TickSurface) notify() {
	if s.handler != nil {
		s.handler(s.offset)
	}
}

// Draw renders the visible window of the bar and the indicator.
func (s *TickSurface) Draw(c Canvas) {
	r := s.Rect
	if r.W <= 0 || r.H <= 0 {
		return
	}

	marks, err := s.cache.Plan(s.layout, s.theme, r.H)
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to plan tick bar")
		return
	}

	bg := tcell.StyleDefault.Background(rgb(s.theme.Background))
	outside := tcell.StyleDefault
	first := int(math.Round(s.offset)) - r.W/2
	width := s.layout.Width()

	for col := 0; col < r.W; col++ {
		style := outside
		if bx := first + col; bx >= 0 && bx < width {
			style = bg
		}
		for row := 0; row < r.H; row++ {
			c.SetContent(r.X+col, r.Y+row, ' ', nil, style)
		}
	}

	for _, m := range marks {
		if m.Kind == tickbar.MarkBackground {
			continue
		}
		glyph := minorGlyph
		if m.Kind == tickbar.MarkMajor {
			glyph = majorGlyph
		}
		style := bg.Foreground(rgb(m.Color))
		for bx := m.Rect.Min.X; bx < m.Rect.Max.X; bx++ {
			col := bx - first
			if col < 0 || col >= r.W {
				continue
			}
			for row := m.Rect.Min.Y; row < m.Rect.Max.Y; row++ {
				c.SetContent(r.X+col, r.Y+row, glyph, nil, style)
			}
		}
	}

	ind := bg.Foreground(rgb(s.theme.Indicator))
	x := s.IndicatorColumn()
	c.SetContent(x, r.Y, indicatorGlyph, nil, ind)
	for row := 1; row < r.H; row++ {
		c.SetContent(x, r.Y+row, indicatorStem, nil, ind)
	}
}
