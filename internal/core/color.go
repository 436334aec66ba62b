package core

// Color is a straight-alpha RGBA colour with components in [0, 1].
type Color struct {
	R, G, B, A float32
}

// Common colours.
var (
	White   = Color{1, 1, 1, 1}
	Black   = Color{0, 0, 0, 1}
	Red     = Color{1, 0, 0, 1}
	Green   = Color{0, 1, 0, 1}
	Blue    = Color{0, 0, 1, 1}
	Yellow  = Color{1, 1, 0, 1}
	Magenta = Color{1, 0, 1, 1}
	Cyan    = Color{0, 1, 1, 1}
	Clear   = Color{}
)

// RGBA builds a colour from 8-bit components.
func RGBA(r, g, b, a uint8) Color {
	return Color{float32(r) / 255, float32(g) / 255, float32(b) / 255, float32(a) / 255}
}

// Mul modulates c by o component-wise.
func (c Color) Mul(o Color) Color {
	return Color{c.R * o.R, c.G * o.G, c.B * o.B, c.A * o.A}
}

// WithAlpha returns c with its alpha replaced.
func (c Color) WithAlpha(a float32) Color {
	c.A = ClampF(a, 0, 1)
	return c
}

// Components returns the colour as a fixed array.
func (c Color) Components() [4]float32 { return [4]float32{c.R, c.G, c.B, c.A} }

// ColorFrom builds a colour from a component array.
func ColorFrom(v [4]float32) Color { return Color{v[0], v[1], v[2], v[3]} }

// Ink is an ANSI 16-colour code used by the terminal renderer.
type Ink uint8

const (
	InkDefault Ink = iota
	InkRed
	InkGreen
	InkYellow
	InkBlue
	InkMagenta
	InkCyan
	InkWhite
	InkGray
)

// Ink maps the colour to the nearest terminal ink by dominant channels.
// Mostly transparent colours map to InkGray.
func (c Color) Ink() Ink {
	if c.A < 0.35 {
		return InkGray
	}
	const on = 0.5
	r, g, b := c.R >= on, c.G >= on, c.B >= on
	switch {
	case r && g && b:
		return InkWhite
	case r && g:
		return InkYellow
	case r && b:
		return InkMagenta
	case g && b:
		return InkCyan
	case r:
		return InkRed
	case g:
		return InkGreen
	case b:
		return InkBlue
	default:
		return InkGray
	}
}
