package gauge_test

import (
	"math"
	"testing"

	"codeberg.org/mutker/vernier/internal/errors"
	"codeberg.org/mutker/vernier/internal/gauge"
	"codeberg.org/mutker/vernier/internal/logger"
	"codeberg.org/mutker/vernier/internal/precision"
	"codeberg.org/mutker/vernier/internal/theme"
	"codeberg.org/mutker/vernier/internal/tickbar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSurface records programmatic offsets. With echo set it behaves like a
// surface that fires its change event on programmatic sets too.
type fakeSurface struct {
	handler func(float64)
	offsets []float64
	echo    bool
}

func (s *fakeSurface) SetContentOffset(offset float64) {
	s.offsets = append(s.offsets, offset)
	if s.echo && s.handler != nil {
		s.handler(offset)
	}
}

func (s *fakeSurface) SetPositionHandler(fn func(float64)) {
	s.handler = fn
}

func (s *fakeSurface) drag(offset float64) {
	s.handler(offset)
}

type fakePreview struct {
	texts []string
}

func (p *fakePreview) Display(text string) {
	p.texts = append(p.texts, text)
}

func layout() tickbar.Layout {
	return tickbar.DefaultLayout()
}

func newGauge(t *testing.T, minValue, maxValue float64, opts ...gauge.Option) *gauge.Controller {
	t.Helper()
	opts = append([]gauge.Option{gauge.WithLogger(logger.Nop())}, opts...)
	c, err := gauge.New(minValue, maxValue, layout(), theme.Fallback(), opts...)
	require.NoError(t, err)
	return c
}

func TestNewRejectsInvalidRange(t *testing.T) {
	for _, r := range [][2]float64{{5, 5}, {10, -10}} {
		_, err := gauge.New(r[0], r[1], layout(), theme.Fallback(), gauge.WithLogger(logger.Nop()))
		require.Error(t, err, "range %v", r)
		assert.True(t, errors.HasCode(err, errors.ErrInvalidRange))
	}
}

func TestNewRejectsInvalidLayout(t *testing.T) {
	l := layout()
	l.BarWidth = -1
	_, err := gauge.New(0, 1, l, theme.Fallback(), gauge.WithLogger(logger.Nop()))
	assert.True(t, errors.HasCode(err, errors.ErrInvalidLayout))
}

func TestNewRejectsCustomWithoutFormatter(t *testing.T) {
	_, err := gauge.New(0, 1, layout(), theme.Fallback(),
		gauge.WithLogger(logger.Nop()), gauge.WithPrecision(precision.ModeCustom))
	assert.True(t, errors.HasCode(err, errors.ErrInvalidPrecision))
}

func TestInitialValue(t *testing.T) {
	c := newGauge(t, 10, 20)
	assert.Equal(t, 10.0, c.Value())

	s := &fakeSurface{}
	c = newGauge(t, 10, 20, gauge.WithInitialValue(15), gauge.WithSurface(s))
	assert.Equal(t, 15.0, c.Value())
	require.NotNil(t, s.handler)
	assert.Equal(t, []float64{500}, s.offsets)

	c = newGauge(t, 10, 20, gauge.WithInitialValue(99))
	assert.Equal(t, 20.0, c.Value())
}

func TestSetValueClampsAndRepositions(t *testing.T) {
	s := &fakeSurface{}
	c := newGauge(t, 0, 100, gauge.WithSurface(s))
	s.offsets = nil

	var changes []gauge.Change
	c.OnChange(func(ch gauge.Change) { changes = append(changes, ch) })

	c.SetValue(250)
	assert.Equal(t, 100.0, c.Value())
	c.SetValue(-3)
	assert.Equal(t, 0.0, c.Value())
	c.SetValue(math.NaN())
	assert.Equal(t, 0.0, c.Value())

	assert.Equal(t, []gauge.Change{
		{Value: 100, Origin: gauge.OriginProgrammatic},
		{Value: 0, Origin: gauge.OriginProgrammatic},
	}, changes)
	assert.Equal(t, []float64{1000, 0}, s.offsets)
}

func TestScrollSuppressesEcho(t *testing.T) {
	s := &fakeSurface{}
	c := newGauge(t, 0, 50, gauge.WithSurface(s))
	s.offsets = nil

	var changes []gauge.Change
	c.OnChange(func(ch gauge.Change) { changes = append(changes, ch) })

	s.drag(250)
	assert.InDelta(t, 12.5, c.Value(), 1e-9)
	assert.Empty(t, s.offsets, "scroll-driven update must not reposition the surface")
	require.Len(t, changes, 1)
	assert.Equal(t, gauge.OriginScroll, changes[0].Origin)

	c.SetValue(25)
	assert.Equal(t, []float64{500}, s.offsets, "independent SetValue must reposition")
	assert.Equal(t, gauge.OriginProgrammatic, changes[1].Origin)
}

func TestScrollOverscrollClamps(t *testing.T) {
	s := &fakeSurface{}
	c := newGauge(t, -1, 1, gauge.WithSurface(s))

	s.drag(1200)
	assert.Equal(t, 1.0, c.Value())
	s.drag(-80)
	assert.Equal(t, -1.0, c.Value())
}

func TestEchoingSurfaceSettles(t *testing.T) {
	s := &fakeSurface{echo: true}
	c := newGauge(t, 0, 10, gauge.WithSurface(s))

	calls := 0
	c.OnChange(func(gauge.Change) { calls++ })

	c.SetValue(5)
	assert.Equal(t, 5.0, c.Value())
	assert.Equal(t, 1, calls)

	s.drag(700)
	assert.InDelta(t, 7.0, c.Value(), 1e-9)
	assert.Equal(t, 2, calls)
}

func TestNoOpSetValue(t *testing.T) {
	s := &fakeSurface{}
	p := &fakePreview{}
	c := newGauge(t, 0, 10, gauge.WithSurface(s), gauge.WithPreview(p), gauge.WithInitialValue(5))
	s.offsets = nil

	calls := 0
	c.OnChange(func(gauge.Change) { calls++ })

	c.SetValue(5)
	s.drag(500)
	c.SetValue(12)
	c.SetValue(10)

	assert.Equal(t, 1, calls)
	assert.Equal(t, []string{"10.00"}, p.texts)
	assert.Equal(t, []float64{1000}, s.offsets)
}

func TestBroadcastOrdering(t *testing.T) {
	s := &fakeSurface{}
	c := newGauge(t, 0, 10, gauge.WithSurface(s))
	s.offsets = nil

	c.OnChange(func(ch gauge.Change) {
		assert.Equal(t, ch.Value, c.Value(), "broadcast must follow the state update")
		assert.Empty(t, s.offsets, "reposition must follow the broadcast")
	})
	c.SetValue(5)
	assert.Len(t, s.offsets, 1)
}

func TestNestedSetValueDuringScroll(t *testing.T) {
	s := &fakeSurface{}
	c := newGauge(t, 0, 100, gauge.WithSurface(s))
	s.offsets = nil

	// snap scroll-driven values to whole tens
	c.OnChange(func(ch gauge.Change) {
		if ch.Origin == gauge.OriginScroll {
			c.SetValue(math.Round(ch.Value/10) * 10)
		}
	})

	s.drag(437)
	assert.Equal(t, 40.0, c.Value())
	assert.Equal(t, []float64{400}, s.offsets)
}

func TestReentrantSetValueStopsStaleBroadcast(t *testing.T) {
	c := newGauge(t, 0, 10)

	c.OnChange(func(ch gauge.Change) {
		if ch.Value == 5 {
			c.SetValue(7)
		}
	})
	var seen []float64
	c.OnChange(func(ch gauge.Change) {
		assert.Equal(t, c.Value(), ch.Value, "broadcast of a value the gauge no longer holds")
		seen = append(seen, ch.Value)
	})

	c.SetValue(5)
	assert.Equal(t, 7.0, c.Value())
	assert.Equal(t, []float64{7}, seen)
}

func TestPrecisionSelection(t *testing.T) {
	tests := []struct {
		max  float64
		want string
	}{
		{0.5, "0.250"},
		{50, "25.00"},
		{500, "250.0"},
		{5000, "2500"},
	}
	for _, tt := range tests {
		c := newGauge(t, 0, tt.max, gauge.WithInitialValue(tt.max/2))
		got, ok := c.Formatted()
		require.True(t, ok)
		assert.Equal(t, tt.want, got, "max %v", tt.max)
	}

	c := newGauge(t, 0, 1, gauge.WithPrecision(precision.ModeDisabled))
	_, ok := c.Formatted()
	assert.False(t, ok)
}

func TestPreviewFailureDoesNotBlockUpdate(t *testing.T) {
	p := &fakePreview{}
	f := precision.FormatterFunc(func(v float64) (string, bool) {
		if v > 5 {
			return "", false
		}
		if v < 1 {
			panic("formatter exploded")
		}
		return "ok", true
	})
	c := newGauge(t, 0, 10, gauge.WithFormatter(f), gauge.WithPreview(p))

	var got []float64
	c.OnChange(func(ch gauge.Change) { got = append(got, ch.Value) })

	c.SetValue(3)
	c.SetValue(8)
	c.SetValue(0.5)

	assert.Equal(t, []float64{3, 8, 0.5}, got)
	assert.Equal(t, 0.5, c.Value())
	assert.Equal(t, []string{"ok"}, p.texts)
}

func TestDisabledPreviewNeverDisplays(t *testing.T) {
	p := &fakePreview{}
	c := newGauge(t, 0, 10, gauge.WithPrecision(precision.ModeDisabled), gauge.WithPreview(p))
	c.SetValue(4)
	assert.Empty(t, p.texts)
}

func TestSubscribeReplaysLatest(t *testing.T) {
	c := newGauge(t, 0, 10, gauge.WithInitialValue(2))

	var got []gauge.Change
	id := c.Subscribe(func(ch gauge.Change) { got = append(got, ch) })
	c.SetValue(6)
	c.Unsubscribe(id)
	c.SetValue(7)

	assert.Equal(t, []gauge.Change{
		{Value: 2, Origin: gauge.OriginReplay},
		{Value: 6, Origin: gauge.OriginProgrammatic},
	}, got)
	assert.Equal(t, 0, c.Subscribers())
}

func TestUnsubscribeDuringBroadcast(t *testing.T) {
	c := newGauge(t, 0, 10)

	var order []string
	var second gauge.Subscription
	first := c.OnChange(func(gauge.Change) {
		order = append(order, "first")
		c.Unsubscribe(second)
	})
	second = c.OnChange(func(gauge.Change) { order = append(order, "second") })
	c.OnChange(func(gauge.Change) { order = append(order, "third") })

	c.SetValue(1)
	c.Unsubscribe(first)
	c.SetValue(2)
	c.Unsubscribe(12345)

	assert.Equal(t, []string{"first", "third", "third"}, order)
	assert.Equal(t, 1, c.Subscribers())
}

func TestNoSubscribers(t *testing.T) {
	c := newGauge(t, 0, 10)
	c.SetValue(9)
	assert.Equal(t, 9.0, c.Value())
	assert.Equal(t, 900.0, c.Offset())
}

func TestTickBarCached(t *testing.T) {
	c := newGauge(t, 0, 10)

	a, err := c.TickBar(24)
	require.NoError(t, err)
	b, err := c.TickBar(24)
	require.NoError(t, err)
	assert.Same(t, a, b)
	assert.Equal(t, layout().Width(), a.Bounds().Dx())

	_, err = c.TickBar(0)
	assert.True(t, errors.HasCode(err, errors.ErrRenderFailed))
}
