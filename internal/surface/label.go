package surface

import (
	"image/color"

	"codeberg.org/mutker/vernier/internal/theme"
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// Label is the preview label: one row of centred text above the bar.
type Label struct {
	Rect Rect

	text  string
	style tcell.Style
}

// NewLabel styles the label from the theme's label colours.
func NewLabel(th theme.Theme) *Label {
	return &Label{
		style: tcell.StyleDefault.
			Foreground(rgb(th.LabelText)).
			Background(rgb(th.LabelBackground)),
	}
}

// Display implements gauge.Preview.
func (l *Label) Display(text string) {
	l.text = text
}

// Text returns the last displayed text.
func (l *Label) Text() string {
	return l.text
}

// Draw centres the text, padded by one cell on both sides, on the label row.
func (l *Label) Draw(c Canvas) {
	if l.text == "" || l.Rect.W <= 0 {
		return
	}

	text := runewidth.Truncate(" "+l.text+" ", l.Rect.W, "…")
	x := l.Rect.X + (l.Rect.W-runewidth.StringWidth(text))/2
	for _, r := range text {
		c.SetContent(x, l.Rect.Y, r, nil, l.style)
		x += runewidth.RuneWidth(r)
	}
}

func rgb(c color.RGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}
