// Package gauge holds the stateful core of the picker: the current value,
// the two update entry points and the fan-out to subscribers.
//
// A Controller is not safe for concurrent use. Like the host UI it serves,
// it expects every call to come from one goroutine; each call runs to
// completion before returning.
package gauge

import (
	"image"

	"codeberg.org/mutker/vernier/internal/errors"
	"codeberg.org/mutker/vernier/internal/logger"
	"codeberg.org/mutker/vernier/internal/precision"
	"codeberg.org/mutker/vernier/internal/rangemap"
	"codeberg.org/mutker/vernier/internal/theme"
	"codeberg.org/mutker/vernier/internal/tickbar"
)

type subscriber struct {
	id      Subscription
	fn      func(Change)
	removed bool
}

// Controller maps between the surface offset and the domain value.
type Controller struct {
	rng       rangemap.Range
	layout    tickbar.Layout
	theme     theme.Theme
	formatter precision.Formatter
	preview   Preview
	surface   Surface
	log       logger.Logger

	value float64
	// echoSuppressed is set by OnScrollOffsetChanged for exactly one pass
	// through update, which consumes it.
	echoSuppressed bool

	subs   []*subscriber
	nextID Subscription
	cache  tickbar.Cache
}

// New validates the range and layout, resolves the preview formatter and
// positions the surface, if any, at the initial value.
func New(minValue, maxValue float64, layout tickbar.Layout, th theme.Theme, opts ...Option) (*Controller, error) {
	errFactory := errors.New()

	o := options{mode: precision.ModeDefault}
	for _, opt := range opts {
		if err := opt(&o); err != nil {
			return nil, errFactory.Wrap(errors.ErrInvalidArgument, err)
		}
	}
	if o.log == nil {
		o.log = logger.Default()
	}

	rng, err := rangemap.NewRange(minValue, maxValue)
	if err != nil {
		return nil, err
	}
	if err := layout.Validate(); err != nil {
		return nil, err
	}

	c := &Controller{
		rng:     rng,
		layout:  layout,
		theme:   th,
		preview: o.preview,
		surface: o.surface,
		log:     o.log.With("gauge"),
		value:   rng.Min,
	}

	switch o.mode {
	case precision.ModeDefault:
		c.formatter = precision.ForRange(rng.Min, rng.Max)
	case precision.ModeDisabled:
		c.formatter = nil
	case precision.ModeCustom:
		if o.formatter == nil {
			return nil, errFactory.WithData(errors.ErrInvalidPrecision, "custom precision mode without a formatter")
		}
		c.formatter = o.formatter
	default:
		return nil, errFactory.WithData(errors.ErrInvalidPrecision, o.mode.String())
	}

	if o.initial != nil {
		c.value = rng.Clamp(*o.initial)
	}

	if c.surface != nil {
		c.surface.SetPositionHandler(c.OnScrollOffsetChanged)
		c.surface.SetContentOffset(c.Offset())
	}

	c.log.Debug().
		Float64("min", rng.Min).
		Float64("max", rng.Max).
		Float64("value", c.value).
		Str("precision", o.mode.String()).
		Float64("bar_width", layout.BarWidth).
		Msg("Gauge initialized")

	return c, nil
}

// Value returns the current value.
func (c *Controller) Value() float64 {
	return c.value
}

// Range returns the validated value range.
func (c *Controller) Range() rangemap.Range {
	return c.rng
}

// Layout returns the tick bar layout.
func (c *Controller) Layout() tickbar.Layout {
	return c.layout
}

// Theme returns the colour theme.
func (c *Controller) Theme() theme.Theme {
	return c.theme
}

// Offset returns the bar offset of the current value.
func (c *Controller) Offset() float64 {
	return rangemap.ValueToOffset(c.value, c.rng.Min, c.rng.Max, c.layout.BarWidth)
}

// Formatted returns the preview text for the current value. ok is false when
// previews are disabled or the formatter has nothing to show.
func (c *Controller) Formatted() (string, bool) {
	return c.format(c.value)
}

// TickBar returns the rendered bar at height h, reusing the previous render
// while the height is unchanged.
func (c *Controller) TickBar(h int) (*image.RGBA, error) {
	img, err := c.cache.Image(c.layout, c.theme, h)
	if err != nil {
		return nil, errors.New().Wrap(errors.ErrRenderFailed, err)
	}
	return img, nil
}

// SetValue is the programmatic entry point. v is clamped into the range; an
// unchanged value is ignored. Otherwise subscribers and the preview are
// updated and the surface is moved to the new offset.
func (c *Controller) SetValue(v float64) {
	c.update(v)
}

// OnScrollOffsetChanged is the surface entry point, registered as the
// position handler. It updates the value like SetValue but never writes the
// offset back to the surface that reported it.
func (c *Controller) OnScrollOffsetChanged(offset float64) {
	c.echoSuppressed = true
	defer func() { c.echoSuppressed = false }()

	c.update(rangemap.OffsetToValue(offset, c.rng.Min, c.rng.Max, c.layout.BarWidth))
}

func (c *Controller) update(v float64) bool {
	fromScroll := c.echoSuppressed
	c.echoSuppressed = false

	v = c.rng.Clamp(v)
	if v == c.value {
		return false
	}
	c.value = v

	origin := OriginProgrammatic
	if fromScroll {
		origin = OriginScroll
	}
	c.broadcast(Change{Value: v, Origin: origin})

	// A subscriber called SetValue while we were broadcasting; that nested
	// update already refreshed the preview and the surface.
	if c.value != v {
		return true
	}

	c.showPreview(v)

	if !fromScroll && c.surface != nil {
		c.surface.SetContentOffset(c.Offset())
	}

	return true
}

func (c *Controller) format(v float64) (text string, ok bool) {
	if c.formatter == nil {
		return "", false
	}

	defer func() {
		if r := recover(); r != nil {
			c.log.Warn().Interface("panic", r).Float64("value", v).Msg("Formatter panicked, skipping preview")
			text, ok = "", false
		}
	}()

	return c.formatter.Format(v)
}

func (c *Controller) showPreview(v float64) {
	if c.preview == nil {
		return
	}

	text, ok := c.format(v)
	if !ok {
		c.log.Debug().Float64("value", v).Msg("Formatter returned no text, skipping preview")
		return
	}
	c.preview.Display(text)
}
