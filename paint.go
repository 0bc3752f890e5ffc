package strips

import "image/color"

// AlphaColor is a non-premultiplied sRGB color with channels in [0, 1].
// It is the only Paint variant this module implements; gradients and
// patterns are explicitly out of scope.
type AlphaColor struct {
	R, G, B, A float32
}

// Opaque returns a fully opaque AlphaColor from RGB components.
func Opaque(r, g, b float32) AlphaColor {
	return AlphaColor{R: r, G: g, B: b, A: 1}
}

// WithAlpha returns a copy of c with the alpha channel replaced.
func (c AlphaColor) WithAlpha(a float32) AlphaColor {
	c.A = a
	return c
}

// Premultiply returns the premultiplied form of c.
func (c AlphaColor) Premultiply() AlphaColor {
	return AlphaColor{R: c.R * c.A, G: c.G * c.A, B: c.B * c.A, A: c.A}
}

// FromNRGBA converts a stdlib non-premultiplied color into an AlphaColor.
func FromNRGBA(c color.NRGBA) AlphaColor {
	return AlphaColor{
		R: float32(c.R) / 255,
		G: float32(c.G) / 255,
		B: float32(c.B) / 255,
		A: float32(c.A) / 255,
	}
}

// ToNRGBA converts c to a stdlib non-premultiplied color, rounding each
// channel to the nearest byte.
func (c AlphaColor) ToNRGBA() color.NRGBA {
	return color.NRGBA{
		R: to8(c.R),
		G: to8(c.G),
		B: to8(c.B),
		A: to8(c.A),
	}
}

// to8 converts a [0,1] channel to a byte, clamping out-of-range input.
func to8(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}

// toPremulBytes converts c directly to premultiplied 8-bit RGBA, the
// representation the fine rasterizer composites into.
func (c AlphaColor) toPremulBytes() [4]uint8 {
	a := to8(c.A)
	return [4]uint8{
		to8(c.R * c.A),
		to8(c.G * c.A),
		to8(c.B * c.A),
		a,
	}
}

// Named opaque colors used throughout the package's own fixtures.
var (
	Black = Opaque(0, 0, 0)
	White = Opaque(1, 1, 1)
	Red   = Opaque(1, 0, 0)
	Green = Opaque(0, 1, 0)
	Blue  = Opaque(0, 0, 1)

	Transparent = AlphaColor{}
)
