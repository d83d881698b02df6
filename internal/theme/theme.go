// Package theme holds the tick bar colour palette.
package theme

import (
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Resource names used in config files and resource maps.
const (
	Background      = "background"
	MajorTick       = "major_tick"
	MinorTick       = "minor_tick"
	Indicator       = "indicator"
	LabelText       = "label_text"
	LabelBackground = "label_background"
)

// Theme is the colour set for the tick bar, its indicator and the optional
// preview label.
type Theme struct {
	Background      color.RGBA
	MajorTick       color.RGBA
	MinorTick       color.RGBA
	Indicator       color.RGBA
	LabelText       color.RGBA
	LabelBackground color.RGBA
}

var fallbackHex = map[string]string{
	Background:      "#1e1e2e",
	MajorTick:       "#cdd6f4",
	MinorTick:       "#7f849c",
	Indicator:       "#f38ba8",
	LabelText:       "#11111b",
	LabelBackground: "#f9e2af",
}

// Fallback returns the built-in palette.
func Fallback() Theme {
	th, _ := FromResources(nil)
	return th
}

// FromResources builds a Theme from named hex colours. Names that are missing
// or do not parse are filled in and reported back: the label text from the
// contrast of a configured label background, everything else from the
// built-in palette.
func FromResources(res map[string]string) (Theme, []string) {
	var substituted []string

	lookup := func(name string) (color.RGBA, bool) {
		if hex, ok := res[name]; ok {
			if c, err := ParseHex(hex); err == nil {
				return c, true
			}
		}
		return color.RGBA{}, false
	}
	pick := func(name string) color.RGBA {
		if c, ok := lookup(name); ok {
			return c
		}
		substituted = append(substituted, name)
		c, _ := ParseHex(fallbackHex[name])
		return c
	}

	th := Theme{
		Background: pick(Background),
		MajorTick:  pick(MajorTick),
		MinorTick:  pick(MinorTick),
		Indicator:  pick(Indicator),
	}

	labelBg, bgSet := lookup(LabelBackground)
	labelText, textSet := lookup(LabelText)
	switch {
	case textSet:
		th.LabelText = labelText
	case bgSet:
		substituted = append(substituted, LabelText)
		th.LabelText = Contrast(labelBg)
	default:
		th.LabelText = pick(LabelText)
	}
	th.LabelBackground = pick(LabelBackground)

	return th, substituted
}

// Color returns the colour for a resource name.
func (t Theme) Color(name string) (color.RGBA, bool) {
	switch name {
	case Background:
		return t.Background, true
	case MajorTick:
		return t.MajorTick, true
	case MinorTick:
		return t.MinorTick, true
	case Indicator:
		return t.Indicator, true
	case LabelText:
		return t.LabelText, true
	case LabelBackground:
		return t.LabelBackground, true
	default:
		return color.RGBA{}, false
	}
}

// ParseHex parses "#rrggbb" or "rrggbb" into an opaque colour.
func ParseHex(s string) (color.RGBA, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return color.RGBA{}, err
	}
	r, g, b := c.Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}, nil
}

// Hex formats c as "#rrggbb".
func Hex(c color.RGBA) string {
	cf, _ := colorful.MakeColor(c)
	return cf.Hex()
}

// Contrast returns black or white, whichever reads better on bg.
func Contrast(bg color.RGBA) color.RGBA {
	cf, ok := colorful.MakeColor(bg)
	if !ok {
		return color.RGBA{A: 0xff}
	}
	l, _, _ := cf.Lab()
	if l > 0.6 {
		return color.RGBA{A: 0xff}
	}
	return color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
}
