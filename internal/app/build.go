// Package app assembles the picker from configuration and runs it on a
// terminal screen.
package app

import (
	"codeberg.org/mutker/vernier/internal/config"
	"codeberg.org/mutker/vernier/internal/errors"
	"codeberg.org/mutker/vernier/internal/gauge"
	"codeberg.org/mutker/vernier/internal/logger"
	"codeberg.org/mutker/vernier/internal/precision"
	"codeberg.org/mutker/vernier/internal/surface"
	"codeberg.org/mutker/vernier/internal/theme"
	"codeberg.org/mutker/vernier/internal/tickbar"
)

// Picker is a gauge bound to its terminal surface and preview label.
type Picker struct {
	Controller *gauge.Controller
	Surface    *surface.TickSurface
	Label      *surface.Label
}

// LayoutFrom converts the configured layout section.
func LayoutFrom(cfg *config.Config) tickbar.Layout {
	return tickbar.Layout{
		BarWidth:             cfg.Layout.BarWidth,
		MajorTickCount:       cfg.Layout.MajorTicks,
		MinorTickCount:       cfg.Layout.MinorTicks,
		MajorTickHeightRatio: cfg.Layout.MajorHeight,
		MinorTickHeightRatio: cfg.Layout.MinorHeight,
	}
}

// ThemeFrom resolves the configured colours. Every substituted resource is
// logged at debug with the colour used in its place.
func ThemeFrom(cfg *config.Config, log logger.Logger) theme.Theme {
	th, substituted := theme.FromResources(cfg.Theme)
	for _, name := range substituted {
		used, _ := th.Color(name)
		ev := log.Debug().Str("resource", name).Str("using", theme.Hex(used))
		if hex, ok := cfg.Theme[name]; ok {
			ev = ev.Str("value", hex)
		}
		ev.Msg("Theme colour substituted")
	}
	return th
}

// PrecisionOptions turns the precision and format settings into gauge
// options. A format implies custom precision unless precision is disabled.
func PrecisionOptions(cfg *config.Config) ([]gauge.Option, error) {
	errFactory := errors.New()

	mode, err := precision.ParseMode(cfg.Precision)
	if err != nil {
		return nil, err
	}

	if mode == precision.ModeDisabled || cfg.Format == "" {
		return []gauge.Option{gauge.WithPrecision(mode)}, nil
	}

	f, err := precision.Printf(cfg.Format)
	if err != nil {
		return nil, errFactory.Wrap(errors.ErrInvalidConfig, err)
	}
	return []gauge.Option{gauge.WithFormatter(f)}, nil
}

// Build creates the controller, surface and label described by cfg.
func Build(cfg *config.Config, log logger.Logger) (*Picker, error) {
	errFactory := errors.New()

	layout := LayoutFrom(cfg)
	th := ThemeFrom(cfg, log)

	surf := surface.New(layout, th, cfg.Overscroll, log)
	label := surface.NewLabel(th)

	opts, err := PrecisionOptions(cfg)
	if err != nil {
		return nil, errFactory.Wrap(errors.ErrInitApp, err)
	}
	opts = append(opts,
		gauge.WithSurface(surf),
		gauge.WithPreview(label),
		gauge.WithLogger(log),
	)
	if cfg.HasInitial {
		opts = append(opts, gauge.WithInitialValue(cfg.Initial))
	}

	ctrl, err := gauge.New(cfg.Min, cfg.Max, layout, th, opts...)
	if err != nil {
		return nil, errFactory.Wrap(errors.ErrInitApp, err)
	}

	return &Picker{
		Controller: ctrl,
		Surface:    surf,
		Label:      label,
	}, nil
}
