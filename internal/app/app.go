package app

import (
	"context"

	"codeberg.org/mutker/vernier/internal/gauge"
	"codeberg.org/mutker/vernier/internal/logger"
	"codeberg.org/mutker/vernier/internal/surface"
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

const (
	maxBarRows = 6
	helpText   = "←/→ scroll  ⇧ minor  PgUp/PgDn major  +/- nudge  r reset  q quit"
)

// Run draws the picker on screen and handles input until the user quits or
// ctx is cancelled. The screen must already be initialized; Run does not
// finalize it.
func Run(ctx context.Context, screen tcell.Screen, ctrl *gauge.Controller, surf *surface.TickSurface, label *surface.Label) error {
	log := logger.Default().With("app")

	screen.EnableMouse()
	screen.HideCursor()

	events := make(chan tcell.Event, 32)
	stop := make(chan struct{})
	go func() {
		defer close(events)
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-stop:
				return
			}
		}
	}()
	defer func() {
		close(stop)
		// wake the poller
		_ = screen.PostEvent(tcell.NewEventInterrupt(nil))
	}()

	if text, ok := ctrl.Formatted(); ok {
		label.Display(text)
	}
	resize(screen, surf, label)
	draw(screen, surf, label)

	step := nudgeStep(ctrl)
	for {
		select {
		case <-ctx.Done():
			log.Debug().Msg("Context cancelled, leaving picker")
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			switch tev := ev.(type) {
			case *tcell.EventResize:
				screen.Sync()
				resize(screen, surf, label)
			case *tcell.EventKey:
				if quitKey(tev) {
					return nil
				}
				if !surf.HandleKey(tev) {
					handleRune(tev, ctrl, step)
				}
			case *tcell.EventMouse:
				surf.HandleMouse(tev)
			}
			draw(screen, surf, label)
		}
	}
}

func quitKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
		return ev.Rune() == 'q'
	}
	return false
}

// handleRune applies the programmatic shortcuts: nudge by one minor division
// and reset to the minimum.
func handleRune(ev *tcell.EventKey, ctrl *gauge.Controller, step float64) {
	if ev.Key() != tcell.KeyRune {
		return
	}
	switch ev.Rune() {
	case '+', '=':
		ctrl.SetValue(ctrl.Value() + step)
	case '-', '_':
		ctrl.SetValue(ctrl.Value() - step)
	case 'r':
		ctrl.SetValue(ctrl.Range().Min)
	}
}

// nudgeStep is the value distance covered by one minor division.
func nudgeStep(ctrl *gauge.Controller) float64 {
	l := ctrl.Layout()
	return ctrl.Range().Span() * l.MinorStep() / l.BarWidth
}

// resize centres the label and bar vertically, the help line on the last row.
func resize(screen tcell.Screen, surf *surface.TickSurface, label *surface.Label) {
	w, h := screen.Size()

	rows := h - 3
	if rows > maxBarRows {
		rows = maxBarRows
	}
	if rows < 1 {
		rows = 1
	}
	top := (h - 1 - (rows + 1)) / 2
	if top < 0 {
		top = 0
	}

	label.Rect = surface.Rect{X: 0, Y: top, W: w, H: 1}
	surf.SetRect(surface.Rect{X: 0, Y: top + 1, W: w, H: rows})
}

func draw(screen tcell.Screen, surf *surface.TickSurface, label *surface.Label) {
	screen.Clear()
	surf.Draw(screen)
	label.Draw(screen)

	w, h := screen.Size()
	text := runewidth.Truncate(helpText, w, "…")
	x := 0
	dim := tcell.StyleDefault.Dim(true)
	for _, r := range text {
		screen.SetContent(x, h-1, r, nil, dim)
		x += runewidth.RuneWidth(r)
	}

	screen.Show()
}
