package layout

import (
	"github.com/matzehuels/gridboard/pkg/errors"
)

// Breakpoint names one of the six responsive screen-size tiers.
type Breakpoint string

// The six tiers, largest first.
const (
	XXL Breakpoint = "xxl"
	XL  Breakpoint = "xl"
	LG  Breakpoint = "lg"
	MD  Breakpoint = "md"
	SM  Breakpoint = "sm"
	XS  Breakpoint = "xs"
)

// Breakpoints lists every tier from largest to smallest. XXL is the source of
// truth whenever a per-widget attribute has to be read from a single tier.
var Breakpoints = []Breakpoint{XXL, XL, LG, MD, SM, XS}

type tier struct {
	minWidth     int // viewport width in pixels at which the tier starts
	cols         int // grid columns
	defaultWidth int // width of a freshly generated widget
}

var tiers = map[Breakpoint]tier{
	XXL: {minWidth: 1600, cols: 12, defaultWidth: 4},
	XL:  {minWidth: 1200, cols: 10, defaultWidth: 4},
	LG:  {minWidth: 992, cols: 8, defaultWidth: 4},
	MD:  {minWidth: 768, cols: 6, defaultWidth: 3},
	SM:  {minWidth: 576, cols: 4, defaultWidth: 4},
	XS:  {minWidth: 480, cols: 2, defaultWidth: 2},
}

// Valid reports whether b is one of the six known tiers.
func (b Breakpoint) Valid() bool {
	_, ok := tiers[b]
	return ok
}

// Cols returns the number of grid columns at b, or 0 for an unknown tier.
func (b Breakpoint) Cols() int { return tiers[b].cols }

// MinWidth returns the viewport width in pixels at which b starts.
func (b Breakpoint) MinWidth() int { return tiers[b].minWidth }

// DefaultWidth returns the width given to a newly generated widget at b.
func (b Breakpoint) DefaultWidth() int { return tiers[b].defaultWidth }

// String implements fmt.Stringer.
func (b Breakpoint) String() string { return string(b) }

// ParseBreakpoint converts a tier name into a Breakpoint.
func ParseBreakpoint(s string) (Breakpoint, error) {
	b := Breakpoint(s)
	if !b.Valid() {
		return "", errors.New(errors.ErrCodeInvalidBreakpoint,
			"unknown breakpoint %q (expected one of xxl, xl, lg, md, sm, xs)", s)
	}
	return b, nil
}

// ForWidth resolves a viewport width to the largest tier whose minimum width
// it reaches. Widths below the smallest tier resolve to XS.
func ForWidth(px int) Breakpoint {
	for _, b := range Breakpoints {
		if px >= tiers[b].minWidth {
			return b
		}
	}
	return XS
}
