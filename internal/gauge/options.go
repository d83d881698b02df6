package gauge

import (
	"codeberg.org/mutker/vernier/internal/logger"
	"codeberg.org/mutker/vernier/internal/precision"
)

// Option configures a Controller at construction.
type Option func(*options) error

type options struct {
	initial   *float64
	mode      precision.Mode
	formatter precision.Formatter
	preview   Preview
	surface   Surface
	log       logger.Logger
}

// WithInitialValue starts the gauge at v instead of the range minimum. The
// value is clamped into the range.
func WithInitialValue(v float64) Option {
	return func(o *options) error {
		o.initial = &v
		return nil
	}
}

// WithPrecision selects the preview formatting mode. ModeCustom requires
// WithFormatter.
func WithPrecision(mode precision.Mode) Option {
	return func(o *options) error {
		o.mode = mode
		return nil
	}
}

// WithFormatter installs a custom formatter and switches to ModeCustom.
func WithFormatter(f precision.Formatter) Option {
	return func(o *options) error {
		o.mode = precision.ModeCustom
		o.formatter = f
		return nil
	}
}

// WithPreview forwards formatted values to p.
func WithPreview(p Preview) Option {
	return func(o *options) error {
		o.preview = p
		return nil
	}
}

// WithSurface binds the controller to a host scroll surface.
func WithSurface(s Surface) Option {
	return func(o *options) error {
		o.surface = s
		return nil
	}
}

// WithLogger sets the logger; the package logger is used otherwise.
func WithLogger(l logger.Logger) Option {
	return func(o *options) error {
		o.log = l
		return nil
	}
}
