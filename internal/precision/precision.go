// Package precision decides how gauge values are rendered as text.
package precision

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"codeberg.org/mutker/vernier/internal/errors"
)

// Mode selects the preview formatting strategy.
type Mode int

const (
	// ModeDefault derives the decimal count from the size of the range.
	ModeDefault Mode = iota
	// ModeDisabled produces no preview at all.
	ModeDisabled
	// ModeCustom uses a caller-supplied Formatter verbatim.
	ModeCustom
)

func (m Mode) String() string {
	switch m {
	case ModeDefault:
		return "default"
	case ModeDisabled:
		return "disabled"
	case ModeCustom:
		return "custom"
	default:
		return "unknown"
	}
}

// ParseMode maps a config value to a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "default":
		return ModeDefault, nil
	case "disabled", "none", "off":
		return ModeDisabled, nil
	case "custom":
		return ModeCustom, nil
	default:
		return ModeDefault, errors.New().WithData(errors.ErrInvalidPrecision, s)
	}
}

// Formatter turns a value into preview text. ok is false when there is
// nothing to show for v.
type Formatter interface {
	Format(v float64) (text string, ok bool)
}

// FormatterFunc adapts a function to Formatter.
type FormatterFunc func(v float64) (string, bool)

func (f FormatterFunc) Format(v float64) (string, bool) {
	return f(v)
}

// Decimals picks the number of decimal places from log10 of the range span:
// below 1 gives 3, below 2 gives 2, below 3 gives 1 and anything larger 0.
// The decade boundaries are compared on the span itself since math.Log10 is
// not exact at powers of ten.
func Decimals(span float64) int {
	switch {
	case span < 10:
		return 3
	case span < 100:
		return 2
	case span < 1000:
		return 1
	default:
		return 0
	}
}

// Fixed formats with a constant number of decimals.
type Fixed int

func (d Fixed) Format(v float64) (string, bool) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "", false
	}
	return strconv.FormatFloat(v, 'f', int(d), 64), true
}

// ForRange returns the default formatter for [minValue, maxValue].
func ForRange(minValue, maxValue float64) Fixed {
	return Fixed(Decimals(maxValue - minValue))
}

// Printf formats with a fmt verb string such as "%.2f dB". A result that is
// empty after trimming counts as no text.
func Printf(format string) (Formatter, error) {
	if !strings.Contains(format, "%") {
		return nil, errors.New().WithData(errors.ErrInvalidPrecision, "format has no verb: "+format)
	}
	return FormatterFunc(func(v float64) (string, bool) {
		s := fmt.Sprintf(format, v)
		if strings.TrimSpace(s) == "" || strings.Contains(s, "%!") {
			return "", false
		}
		return s, true
	}), nil
}
