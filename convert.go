package strips

import (
	"github.com/inkwell/strips/internal/flatten"
	"github.com/inkwell/strips/internal/stroke"
)

// toFlattenPath converts a Path's elements into internal/flatten's own
// element types. Both sides define the same shape independently (to avoid
// an import cycle), so this is a direct field-by-field copy.
func toFlattenPath(elements []PathElement) flatten.BezPath {
	out := make(flatten.BezPath, len(elements))
	for i, el := range elements {
		switch e := el.(type) {
		case MoveTo:
			out[i] = flatten.MoveTo{Point: flatten.Point(e.Point)}
		case LineTo:
			out[i] = flatten.LineTo{Point: flatten.Point(e.Point)}
		case QuadTo:
			out[i] = flatten.QuadTo{Control: flatten.Point(e.Control), Point: flatten.Point(e.Point)}
		case CubicTo:
			out[i] = flatten.CubicTo{
				Control1: flatten.Point(e.Control1),
				Control2: flatten.Point(e.Control2),
				Point:    flatten.Point(e.Point),
			}
		case Close:
			out[i] = flatten.Close{}
		}
	}
	return out
}

// toStrokeElements converts a Path's elements into internal/stroke's own
// element types, the input format StrokeExpander.Expand consumes.
func toStrokeElements(elements []PathElement) []stroke.PathElement {
	out := make([]stroke.PathElement, len(elements))
	for i, el := range elements {
		switch e := el.(type) {
		case MoveTo:
			out[i] = stroke.MoveTo{Point: stroke.Point(e.Point)}
		case LineTo:
			out[i] = stroke.LineTo{Point: stroke.Point(e.Point)}
		case QuadTo:
			out[i] = stroke.QuadTo{Control: stroke.Point(e.Control), Point: stroke.Point(e.Point)}
		case CubicTo:
			out[i] = stroke.CubicTo{
				Control1: stroke.Point(e.Control1),
				Control2: stroke.Point(e.Control2),
				Point:    stroke.Point(e.Point),
			}
		case Close:
			out[i] = stroke.Close{}
		}
	}
	return out
}

// fromStrokeElements converts a stroke outline (internal/stroke's element
// types) into internal/flatten's element types, so the outline can be run
// back through the same flattening path as an ordinary fill.
func fromStrokeElements(elements []stroke.PathElement) flatten.BezPath {
	out := make(flatten.BezPath, len(elements))
	for i, el := range elements {
		switch e := el.(type) {
		case stroke.MoveTo:
			out[i] = flatten.MoveTo{Point: flatten.Point(e.Point)}
		case stroke.LineTo:
			out[i] = flatten.LineTo{Point: flatten.Point(e.Point)}
		case stroke.QuadTo:
			out[i] = flatten.QuadTo{Control: flatten.Point(e.Control), Point: flatten.Point(e.Point)}
		case stroke.CubicTo:
			out[i] = flatten.CubicTo{
				Control1: flatten.Point(e.Control1),
				Control2: flatten.Point(e.Control2),
				Point:    flatten.Point(e.Point),
			}
		case stroke.Close:
			out[i] = flatten.Close{}
		}
	}
	return out
}

// toStrokeStyle converts the root Stroke style into internal/stroke's own
// style type.
func toStrokeStyle(s Stroke) stroke.Stroke {
	return stroke.Stroke{
		Width:      s.Width,
		Cap:        stroke.LineCap(s.Cap),
		Join:       stroke.LineJoin(s.Join),
		MiterLimit: s.MiterLimit,
	}
}
