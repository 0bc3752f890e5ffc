package strips

// LineCap is the shape drawn at the open ends of a stroked subpath.
type LineCap int

const (
	LineCapButt LineCap = iota
	LineCapRound
	LineCapSquare
)

// LineJoin is the shape drawn where two stroked segments meet.
type LineJoin int

const (
	LineJoinMiter LineJoin = iota
	LineJoinRound
	LineJoinBevel
)

// Stroke defines the style for stroking paths. Dashing is out of scope for
// this module (see DESIGN.md) — a Stroke always describes a solid line.
type Stroke struct {
	// Width is the line width in pixels. Default: 1.0
	Width float64

	// Cap is the shape of line endpoints. Default: LineCapButt
	Cap LineCap

	// Join is the shape of line joins. Default: LineJoinMiter
	Join LineJoin

	// MiterLimit is the limit for miter joins before they become bevels.
	// Default: 4.0 (common default, matches SVG)
	MiterLimit float64
}

// DefaultStroke returns a Stroke with default settings: a solid 1-pixel
// line with butt caps and miter joins.
func DefaultStroke() Stroke {
	return Stroke{
		Width:      1.0,
		Cap:        LineCapButt,
		Join:       LineJoinMiter,
		MiterLimit: 4.0,
	}
}

// WithWidth returns a copy of the Stroke with the given width.
func (s Stroke) WithWidth(w float64) Stroke {
	s.Width = w
	return s
}

// WithCap returns a copy of the Stroke with the given line cap style.
func (s Stroke) WithCap(lineCap LineCap) Stroke {
	s.Cap = lineCap
	return s
}

// WithJoin returns a copy of the Stroke with the given line join style.
func (s Stroke) WithJoin(join LineJoin) Stroke {
	s.Join = join
	return s
}

// WithMiterLimit returns a copy of the Stroke with the given miter limit.
// A value of 1.0 effectively disables miter joins.
func (s Stroke) WithMiterLimit(limit float64) Stroke {
	s.MiterLimit = limit
	return s
}

// Thin returns a thin stroke (0.5 pixels).
func Thin() Stroke {
	return DefaultStroke().WithWidth(0.5)
}

// Thick returns a thick stroke (3 pixels).
func Thick() Stroke {
	return DefaultStroke().WithWidth(3.0)
}

// RoundStroke returns a stroke with round caps and joins.
func RoundStroke() Stroke {
	return DefaultStroke().WithCap(LineCapRound).WithJoin(LineJoinRound)
}

// SquareStroke returns a stroke with square caps.
func SquareStroke() Stroke {
	return DefaultStroke().WithCap(LineCapSquare)
}
