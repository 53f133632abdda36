package safety

import "math"

// Color is a linear RGB color with channels in [0, 1].
type Color struct {
	R, G, B float32
}

// Luminance returns perceptual luminance using ITU-R BT.709 weights.
func (c Color) Luminance() float32 {
	return 0.2126*c.R + 0.7152*c.G + 0.0722*c.B
}

// Lerp interpolates from c toward other by t in [0, 1].
func (c Color) Lerp(other Color, t float32) Color {
	return Color{
		R: c.R + (other.R-c.R)*t,
		G: c.G + (other.G-c.G)*t,
		B: c.B + (other.B-c.B)*t,
	}
}

// HSV returns hue in degrees [0, 360), saturation and value in [0, 1].
func (c Color) HSV() (h, s, v float32) {
	max := c.R
	if c.G > max {
		max = c.G
	}
	if c.B > max {
		max = c.B
	}
	min := c.R
	if c.G < min {
		min = c.G
	}
	if c.B < min {
		min = c.B
	}

	v = max
	delta := max - min
	if max > 0 {
		s = delta / max
	}
	if delta == 0 {
		return 0, s, v
	}

	switch max {
	case c.R:
		h = 60 * float32(math.Mod(float64((c.G-c.B)/delta), 6))
	case c.G:
		h = 60 * ((c.B-c.R)/delta + 2)
	default:
		h = 60 * ((c.R-c.G)/delta + 4)
	}
	if h < 0 {
		h += 360
	}
	return h, s, v
}

// FromHSV converts hue in degrees, saturation and value in [0, 1] to RGB.
func FromHSV(h, s, v float32) Color {
	h = float32(math.Mod(float64(h), 360))
	if h < 0 {
		h += 360
	}

	c := v * s
	x := c * float32(1-math.Abs(math.Mod(float64(h)/60, 2)-1))
	m := v - c

	var r, g, b float32
	switch {
	case h < 60:
		r, g, b = c, x, 0
	case h < 120:
		r, g, b = x, c, 0
	case h < 180:
		r, g, b = 0, c, x
	case h < 240:
		r, g, b = 0, x, c
	case h < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}

	return Color{R: r + m, G: g + m, B: b + m}
}

// redBandContains reports whether a hue falls in the dangerous red band.
// The band wraps zero: [345, 360) plus [0, 15].
func redBandContains(hue float32) bool {
	return hue >= 345 || hue <= 15
}
