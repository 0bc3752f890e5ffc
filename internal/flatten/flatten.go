// Package flatten reduces a path of lines and Bezier curves to a sequence
// of line segments within a given tolerance. It plays the role spec.md
// assigns to an external curve-flattening collaborator: the render context
// hands it a path in its own coordinate space (before the current
// transform is applied) and receives back straight segments via a
// callback, which the caller then transforms into device space.
//
// The package defines its own minimal path element types rather than
// importing the root package, mirroring internal/stroke's self-contained
// Point/PathElement shape and avoiding an import cycle (the root package
// imports this one).
package flatten

import "math"

// Point is a 2D point in whatever coordinate space the caller's path uses.
type Point struct {
	X, Y float64
}

// PathElement is one element of a BezPath.
type PathElement interface {
	isPathElement()
}

// MoveTo starts a new subpath at Point.
type MoveTo struct{ Point Point }

// LineTo draws a line to Point.
type LineTo struct{ Point Point }

// QuadTo draws a quadratic Bezier curve through Control to Point.
type QuadTo struct{ Control, Point Point }

// CubicTo draws a cubic Bezier curve through Control1, Control2 to Point.
type CubicTo struct{ Control1, Control2, Point Point }

// Close closes the current subpath back to its start.
type Close struct{}

func (MoveTo) isPathElement()  {}
func (LineTo) isPathElement()  {}
func (QuadTo) isPathElement()  {}
func (CubicTo) isPathElement() {}
func (Close) isPathElement()   {}

// BezPath is an ordered sequence of path elements.
type BezPath []PathElement

// DefaultTolerance is the flattening tolerance used when a caller passes a
// non-positive value.
const DefaultTolerance = 0.25

// maxSegments bounds the number of segments a single curve can flatten
// into, guarding against pathological control points (e.g. coincident
// with the tolerance driving the Wang's-formula estimate to infinity).
const maxSegments = 2048

// Flatten walks path and invokes emit(p0, p1) for every straight segment
// needed to approximate it to within tolerance. Quadratic and cubic
// Bezier curves are subdivided into a fixed number of chords sized by a
// Wang's-formula segment-count estimate, without recursion
// (internal/stroke, by contrast, flattens curves by recursive
// subdivision).
//
// Every subpath is closed implicitly, whether or not the path contains an
// explicit Close element: fill rasterization treats an open subpath as
// bounding the region obtained by drawing a final segment back to its
// start point (spec.md scenario 3), so Flatten emits that segment itself
// rather than requiring the caller's path to be pre-closed.
func Flatten(path BezPath, tolerance float64, emit func(p0, p1 Point)) {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}

	var start, cur Point
	started := false

	closeIfOpen := func() {
		if started && cur != start {
			emit(cur, start)
		}
	}

	for _, el := range path {
		switch e := el.(type) {
		case MoveTo:
			closeIfOpen()
			start = e.Point
			cur = e.Point
			started = true
		case LineTo:
			if e.Point != cur {
				emit(cur, e.Point)
			}
			cur = e.Point
		case QuadTo:
			flattenQuad(cur, e.Control, e.Point, tolerance, emit)
			cur = e.Point
		case CubicTo:
			flattenCubic(cur, e.Control1, e.Control2, e.Point, tolerance, emit)
			cur = e.Point
		case Close:
			if cur != start {
				emit(cur, start)
			}
			cur = start
		}
	}
	closeIfOpen()
}

func flattenQuad(p0, p1, p2 Point, tol float64, emit func(a, b Point)) {
	n := wangQuad(p0, p1, p2, tol)
	prev := p0
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		pt := evalQuad(p0, p1, p2, t)
		if pt != prev {
			emit(prev, pt)
		}
		prev = pt
	}
}

func flattenCubic(p0, p1, p2, p3 Point, tol float64, emit func(a, b Point)) {
	n := wangCubic(p0, p1, p2, p3, tol)
	prev := p0
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		pt := evalCubic(p0, p1, p2, p3, t)
		if pt != prev {
			emit(prev, pt)
		}
		prev = pt
	}
}

// wangQuad estimates the number of line segments needed to flatten a
// quadratic Bezier to within tol, via the standard Wang's-formula bound on
// the deviation of the control polygon from a straight chord.
func wangQuad(p0, p1, p2 Point, tol float64) int {
	ux := p0.X - 2*p1.X + p2.X
	uy := p0.Y - 2*p1.Y + p2.Y
	d := math.Hypot(ux, uy)
	if d <= 1e-12 {
		return 1
	}
	n := int(math.Ceil(math.Sqrt(d / (4 * tol))))
	return clampSegments(n)
}

// wangCubic is the cubic analogue of wangQuad, using the larger of the two
// second-difference vectors of the control polygon.
func wangCubic(p0, p1, p2, p3 Point, tol float64) int {
	ux := p0.X - 2*p1.X + p2.X
	uy := p0.Y - 2*p1.Y + p2.Y
	vx := p1.X - 2*p2.X + p3.X
	vy := p1.Y - 2*p2.Y + p3.Y
	a := math.Hypot(ux, uy)
	b := math.Hypot(vx, vy)
	m := math.Max(a, b)
	if m <= 1e-12 {
		return 1
	}
	n := int(math.Ceil(math.Sqrt(3 * m / (4 * tol))))
	return clampSegments(n)
}

func clampSegments(n int) int {
	if n < 1 {
		return 1
	}
	if n > maxSegments {
		return maxSegments
	}
	return n
}

func evalQuad(p0, p1, p2 Point, t float64) Point {
	mt := 1 - t
	return Point{
		X: mt*mt*p0.X + 2*mt*t*p1.X + t*t*p2.X,
		Y: mt*mt*p0.Y + 2*mt*t*p1.Y + t*t*p2.Y,
	}
}

func evalCubic(p0, p1, p2, p3 Point, t float64) Point {
	mt := 1 - t
	mt2 := mt * mt
	mt3 := mt2 * mt
	t2 := t * t
	t3 := t2 * t
	return Point{
		X: mt3*p0.X + 3*mt2*t*p1.X + 3*mt*t2*p2.X + t3*p3.X,
		Y: mt3*p0.Y + 3*mt2*t*p1.Y + 3*mt*t2*p2.Y + t3*p3.Y,
	}
}
