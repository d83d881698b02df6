package app_test

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"codeberg.org/mutker/vernier/internal/app"
	"codeberg.org/mutker/vernier/internal/config"
	"codeberg.org/mutker/vernier/internal/errors"
	"codeberg.org/mutker/vernier/internal/logger"
	"codeberg.org/mutker/vernier/internal/theme"
	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		Min: 0,
		Max: 10,
		Layout: config.LayoutConfig{
			BarWidth:    100,
			MajorTicks:  10,
			MinorTicks:  100,
			MajorHeight: 0.6,
			MinorHeight: 0.3,
		},
		Precision:  "default",
		Overscroll: 24,
		LogLevel:   "info",
	}
}

func TestBuild(t *testing.T) {
	cfg := testConfig()
	cfg.Initial = 4
	cfg.HasInitial = true

	p, err := app.Build(cfg, logger.Nop())
	require.NoError(t, err)
	assert.InDelta(t, 4.0, p.Controller.Value(), 1e-9)
	assert.InDelta(t, 40.0, p.Surface.ContentOffset(), 1e-9)

	text, ok := p.Controller.Formatted()
	require.True(t, ok)
	assert.Equal(t, "4.00", text)
}

func TestBuildStartsAtMinimumWithoutInitial(t *testing.T) {
	cfg := testConfig()
	cfg.Min = 2
	cfg.Initial = 7 // ignored without HasInitial

	p, err := app.Build(cfg, logger.Nop())
	require.NoError(t, err)
	assert.Equal(t, 2.0, p.Controller.Value())
}

func TestBuildWithFormat(t *testing.T) {
	cfg := testConfig()
	cfg.Format = "%.1f dB"

	p, err := app.Build(cfg, logger.Nop())
	require.NoError(t, err)
	p.Controller.SetValue(3)
	assert.Equal(t, "3.0 dB", p.Label.Text())
}

func TestBuildDisabledIgnoresFormat(t *testing.T) {
	cfg := testConfig()
	cfg.Precision = "disabled"
	cfg.Format = "%.1f"

	p, err := app.Build(cfg, logger.Nop())
	require.NoError(t, err)
	p.Controller.SetValue(3)
	assert.Empty(t, p.Label.Text())
}

func TestBuildErrors(t *testing.T) {
	t.Run("custom without format", func(t *testing.T) {
		cfg := testConfig()
		cfg.Precision = "custom"
		_, err := app.Build(cfg, logger.Nop())
		require.Error(t, err)
		assert.True(t, errors.HasCode(err, errors.ErrInitApp))
		assert.True(t, errors.HasCode(err, errors.ErrInvalidPrecision))
	})

	t.Run("format without verb", func(t *testing.T) {
		cfg := testConfig()
		cfg.Format = "dB"
		_, err := app.Build(cfg, logger.Nop())
		assert.True(t, errors.HasCode(err, errors.ErrInvalidPrecision))
	})

	t.Run("unknown precision", func(t *testing.T) {
		cfg := testConfig()
		cfg.Precision = "scientific"
		_, err := app.Build(cfg, logger.Nop())
		assert.True(t, errors.HasCode(err, errors.ErrInvalidPrecision))
	})

	t.Run("empty range", func(t *testing.T) {
		cfg := testConfig()
		cfg.Max = cfg.Min
		_, err := app.Build(cfg, logger.Nop())
		assert.True(t, errors.HasCode(err, errors.ErrInvalidRange))
	})
}

func TestThemeFrom(t *testing.T) {
	cfg := testConfig()
	cfg.Theme = map[string]string{
		theme.Indicator: "#ff0000",
		theme.MajorTick: "not a colour",
	}

	var buf bytes.Buffer
	th := app.ThemeFrom(cfg, logger.New(&buf))
	assert.Equal(t, "#ff0000", theme.Hex(th.Indicator))
	assert.Equal(t, theme.Fallback().MajorTick, th.MajorTick)

	var lines []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		lines = append(lines, entry)
	}
	// everything but the indicator was substituted
	require.Len(t, lines, 5)
	for _, entry := range lines {
		assert.Equal(t, "debug", entry["level"])
		if entry["resource"] == theme.MajorTick {
			assert.Equal(t, "not a colour", entry["value"])
			assert.Equal(t, theme.Hex(theme.Fallback().MajorTick), entry["using"])
		}
	}
}

func TestRunShowsInitialValue(t *testing.T) {
	cfg := testConfig()
	cfg.Initial = 4
	cfg.HasInitial = true
	p, err := app.Build(cfg, logger.Nop())
	require.NoError(t, err)
	require.Empty(t, p.Label.Text())
	screen := newScreen(t)

	require.NoError(t, screen.PostEvent(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone)))
	run(t, context.Background(), screen, p)

	assert.Equal(t, "4.00", p.Label.Text())
}

func newScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	t.Cleanup(screen.Fini)
	screen.SetSize(41, 8)
	return screen
}

func run(t *testing.T, ctx context.Context, screen tcell.Screen, p *app.Picker) {
	t.Helper()
	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Run(ctx, screen, p.Controller, p.Surface, p.Label)
	}()

	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("run did not exit")
	}
}

func TestRunKeys(t *testing.T) {
	p, err := app.Build(testConfig(), logger.Nop())
	require.NoError(t, err)
	screen := newScreen(t)

	require.NoError(t, screen.PostEvent(tcell.NewEventKey(tcell.KeyRune, '+', tcell.ModNone)))
	require.NoError(t, screen.PostEvent(tcell.NewEventKey(tcell.KeyPgDn, 0, tcell.ModNone)))
	require.NoError(t, screen.PostEvent(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone)))

	run(t, context.Background(), screen, p)

	assert.InDelta(t, 1.1, p.Controller.Value(), 1e-9)
	assert.InDelta(t, 11.0, p.Surface.ContentOffset(), 1e-9)
	assert.Equal(t, "1.10", p.Label.Text())
}

func TestRunResetKey(t *testing.T) {
	cfg := testConfig()
	cfg.Initial = 6
	cfg.HasInitial = true
	p, err := app.Build(cfg, logger.Nop())
	require.NoError(t, err)
	screen := newScreen(t)

	require.NoError(t, screen.PostEvent(tcell.NewEventKey(tcell.KeyRune, 'r', tcell.ModNone)))
	require.NoError(t, screen.PostEvent(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)))

	run(t, context.Background(), screen, p)

	assert.Equal(t, 0.0, p.Controller.Value())
	assert.Equal(t, 0.0, p.Surface.ContentOffset())
}

func TestRunMouseDrag(t *testing.T) {
	p, err := app.Build(testConfig(), logger.Nop())
	require.NoError(t, err)
	screen := newScreen(t)

	// Dragging left by ten columns moves the bar left under the indicator
	require.NoError(t, screen.PostEvent(tcell.NewEventMouse(20, 2, tcell.Button1, tcell.ModNone)))
	require.NoError(t, screen.PostEvent(tcell.NewEventMouse(10, 2, tcell.Button1, tcell.ModNone)))
	require.NoError(t, screen.PostEvent(tcell.NewEventMouse(10, 2, tcell.ButtonNone, tcell.ModNone)))
	require.NoError(t, screen.PostEvent(tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModNone)))

	run(t, context.Background(), screen, p)

	assert.InDelta(t, 1.0, p.Controller.Value(), 1e-9)
	assert.False(t, p.Surface.Dragging())
}

func TestRunStopsOnCancel(t *testing.T) {
	p, err := app.Build(testConfig(), logger.Nop())
	require.NoError(t, err)
	screen := newScreen(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	run(t, ctx, screen, p)
}
