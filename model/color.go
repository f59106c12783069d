package model

import "fmt"

// Color is either an RGB triple with components in [0, 1] or unset.
// The zero value is unset.
type Color struct {
	r, g, b float64
	set     bool
}

// NoColor is the unset color.
var NoColor = Color{}

// RGB returns a set color.
func RGB(r, g, b float64) Color {
	return Color{r: r, g: g, b: b, set: true}
}

// Gray returns the RGB color with all three components equal to g.
func Gray(g float64) Color {
	return RGB(g, g, g)
}

// ColorFromComponents normalizes a raw color value from a decoder.
// One component is gray, three are RGB; any other length is unset.
func ColorFromComponents(c []float64) Color {
	switch len(c) {
	case 1:
		return Gray(c[0])
	case 3:
		return RGB(c[0], c[1], c[2])
	default:
		return NoColor
	}
}

// IsSet reports whether the color carries RGB components.
func (c Color) IsSet() bool {
	return c.set
}

// Components returns the RGB components. ok is false for an unset color.
func (c Color) Components() (r, g, b float64, ok bool) {
	return c.r, c.g, c.b, c.set
}

// Sum returns r+g+b, or 0 for an unset color.
func (c Color) Sum() float64 {
	if !c.set {
		return 0
	}
	return c.r + c.g + c.b
}

// String implements fmt.Stringer.
func (c Color) String() string {
	if !c.set {
		return "none"
	}
	return fmt.Sprintf("rgb(%.3g,%.3g,%.3g)", c.r, c.g, c.b)
}

// MarshalJSON encodes the color as a 3-element array or null.
func (c Color) MarshalJSON() ([]byte, error) {
	if !c.set {
		return []byte("null"), nil
	}
	return []byte(fmt.Sprintf("[%g,%g,%g]", c.r, c.g, c.b)), nil
}
