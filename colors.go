package ninebar

import (
	"fmt"
	"sort"
	"strings"
)

// Base16 Tomorrow palette, the default colors used by the built-in units.
// https://chriskempson.github.io/base16/#tomorrow
const (
	NearBlack   = "#1D1F21"
	DarkerGrey  = "#282A2E"
	DarkGrey    = "#373B41"
	Grey        = "#969896"
	LightGrey   = "#B4B7B4"
	LighterGrey = "#C5C8C6"
	NearWhite   = "#E0E0E0"
	White       = "#FFFFFF"
	Red         = "#CC6666"
	Orange      = "#DE935F"
	Yellow      = "#F0C674"
	Green       = "#B5BD68"
	Cyan        = "#8ABEB7"
	Blue        = "#81A2BE"
	Violet      = "#B294BB"
	Brown       = "#A3685A"
)

// Pango wraps s in a pango <span> tag carrying the given attributes.
//
// Attributes are emitted in sorted key order so output is deterministic.
// Values are not escaped; callers own the validity of attribute values.
//
// Example:
//
//	ninebar.Pango("hot", "color", "#FFFFFF", "background", "#FF0000")
//	// <span background='#FF0000' color='#FFFFFF'>hot</span>
func Pango(s string, attrs ...string) string {
	if len(attrs)%2 != 0 {
		panic("ninebar: Pango requires an even number of attribute arguments")
	}
	pairs := make([]string, 0, len(attrs)/2)
	for i := 0; i < len(attrs); i += 2 {
		if attrs[i+1] == "" {
			continue
		}
		pairs = append(pairs, fmt.Sprintf("%s='%s'", attrs[i], attrs[i+1]))
	}
	sort.Strings(pairs)

	var b strings.Builder
	b.WriteString("<span ")
	b.WriteString(strings.Join(pairs, " "))
	b.WriteString(">")
	b.WriteString(s)
	b.WriteString("</span>")
	return b.String()
}

// Colorize wraps s in a pango span setting only the foreground color.
func Colorize(s, color string) string {
	return Pango(s, "color", color)
}

// GradeColor maps a value onto a color scale using an increasing list of
// breakpoints. With n breakpoints the scale has n+1 colors; the value's
// insertion index into the breakpoints selects the color.
//
// If colors is nil the default blue-green-yellow-orange-red scale is used,
// which expects four breakpoints. Pass rev=true to reverse the scale for
// quantities where high is good (battery charge, link quality).
func GradeColor(v float64, breakpoints []float64, colors []string, rev bool) string {
	if colors == nil {
		colors = []string{Blue, Green, Yellow, Orange, Red}
	}
	if rev {
		reversed := make([]string, len(colors))
		for i, c := range colors {
			reversed[len(colors)-1-i] = c
		}
		colors = reversed
	}

	idx := sort.SearchFloat64s(breakpoints, v)
	// SearchFloat64s is a lower bound; an exact breakpoint hit belongs to
	// the next band, matching bisect semantics.
	for idx < len(breakpoints) && breakpoints[idx] == v {
		idx++
	}
	if idx >= len(colors) {
		idx = len(colors) - 1
	}
	return colors[idx]
}

// ColorizeFloat renders val with the given width and precision, colored on
// a [GradeColor] scale over breakpoints.
func ColorizeFloat(val float64, width, prec int, breakpoints []float64) string {
	return Colorize(
		fmt.Sprintf("%*.*f", width, prec, val),
		GradeColor(val, breakpoints, nil, false),
	)
}

// TempColor renders a temperature reading in degrees Celsius, shading it
// green through red over the 30-90 range. At or beyond 100 degrees the
// reading switches to white-on-red.
func TempColor(temp float64) string {
	text := fmt.Sprintf("%3.0f", temp)
	if temp >= 100 {
		return Pango(text, "color", White, "background", "#FF0000")
	}
	return Colorize(text, GradeColor(temp, []float64{30, 50, 70, 90}, nil, false))
}

// FormatDuration renders a second count as a compact d/h/m/s string, e.g.
// "3d4h07m" or "12m08s". Used by units that display uptimes or remaining
// battery time.
func FormatDuration(seconds float64) string {
	s := int(seconds)
	d := s / 86400
	h := (s % 86400) / 3600
	m := (s % 3600) / 60
	sec := s % 60

	switch {
	case d > 0:
		return fmt.Sprintf("%dd%dh%02dm", d, h, m)
	case h > 0:
		return fmt.Sprintf("%dh%02dm", h, m)
	default:
		return fmt.Sprintf("%dm%02ds", m, sec)
	}
}
