// Package strip walks a sorted tile buffer and integrates per-pixel
// coverage into Strip records and a packed alpha column buffer.
package strip

import (
	"math"

	"github.com/inkwell/strips/internal/geom"
)

// FillRule selects how accumulated winding numbers map to opacity.
type FillRule int

const (
	NonZero FillRule = iota
	EvenOdd
)

// ActiveFill reports whether the region between two strips on the same row
// is inside the shape, given the winding number carried into that gap.
func (r FillRule) ActiveFill(winding int32) bool {
	if r == EvenOdd {
		return winding%2 != 0
	}
	return winding != 0
}

// Strip is a horizontal run of per-column alpha values over one wide-tile
// row, four pixels tall.
type Strip struct {
	X       int32  // may be negative, left of the viewport
	Y       uint16 // always a multiple of geom.StripHeight
	Col     uint32 // index into the alpha buffer
	Winding int32  // winding count entering this strip
}

// Generate walks sortedTiles (the output of tiler.MakeTiles followed by
// tiler.SortTiles, sentinels included) and returns the emitted strips in
// (y, x) order along with the packed alpha column buffer each strip's Col
// indexes into.
func Generate(sortedTiles []geom.Tile, rule FillRule) ([]Strip, []uint32) {
	var strips []Strip
	var alphas []uint32

	var areas [geom.TileWidth][geom.TileHeight]float32

	i := 0
	enteringWinding := int32(0)
	lastRowY := uint16(0)
	haveLastRow := false

	for i < len(sortedTiles) {
		groupX, groupY := sortedTiles[i].Loc()

		if haveLastRow && groupY != lastRowY {
			enteringWinding = 0
		}
		haveLastRow = true
		lastRowY = groupY

		prevStartsNewStrip := !sameStripAsPrevious(sortedTiles, i)

		j := i
		var fp geom.Footprint
		if !prevStartsNewStrip {
			// This group continues the strip merged in from the previous
			// group: column 0 must be covered even if no tile in this
			// group's own footprint touches it, or the alpha run breaks
			// contiguity across the tile boundary.
			fp = fp.WithBit0()
		}
		for j < len(sortedTiles) {
			x, y := sortedTiles[j].Loc()
			if x != groupX || y != groupY {
				break
			}
			fp = fp.Union(geom.TileFootprint(sortedTiles[j]))
			j++
		}

		nextIsSameStrip := false
		if j < len(sortedTiles) {
			nx, ny := sortedTiles[j].Loc()
			nextIsSameStrip = sameStrip(groupX, groupY, nx, ny)
		}
		if nextIsSameStrip {
			fp = fp.WithBit3()
		}

		x0 := fp.X0()
		x1 := fp.X1()

		startDelta := enteringWinding

		if x0 < x1 {
			for col := 0; col < geom.TileWidth; col++ {
				for row := 0; row < geom.TileHeight; row++ {
					areas[col][row] = float32(startDelta)
				}
			}

			groupDelta := int32(0)
			for k := i; k < j; k++ {
				tl := sortedTiles[k]
				groupDelta += tl.Delta()
				for col := x0; col < x1; col++ {
					for row := 0; row < geom.TileHeight; row++ {
						areas[col][row] += integrate(tl, col, row)
					}
				}
			}

			if prevStartsNewStrip {
				strips = append(strips, Strip{
					X:       4*groupX + int32(x0),
					Y:       4 * groupY,
					Col:     uint32(len(alphas)),
					Winding: startDelta,
				})
			}
			// Every group's columns extend the alpha run of whichever strip
			// it belongs to, whether it started that strip or continues one
			// merged across a tile boundary by WithBit3 above.
			for col := x0; col < x1; col++ {
				alphas = append(alphas, packColumn(areas[col], rule))
			}

			enteringWinding += groupDelta
		} else {
			for k := i; k < j; k++ {
				enteringWinding += sortedTiles[k].Delta()
			}
		}

		i = j
	}

	return strips, alphas
}

// sameStrip reports whether two tile locations belong to the same strip:
// same y and adjacent (or identical) x.
func sameStrip(ax int32, ay uint16, bx int32, by uint16) bool {
	if ay != by {
		return false
	}
	d := bx - ax
	if d < 0 {
		d = -d
	}
	return d <= 1
}

// sameStripAsPrevious reports whether the group starting at index i
// continues the same strip as the group immediately before it.
func sameStripAsPrevious(tiles []geom.Tile, i int) bool {
	if i == 0 {
		return false
	}
	px, py := tiles[i-1].Loc()
	cx, cy := tiles[i].Loc()
	return sameStrip(px, py, cx, cy)
}

// integrate computes the signed coverage area contributed by tile tl's
// segment within sub-pixel (col, row), via analytic line-trapezoid
// intersection against the unit square.
func integrate(tl geom.Tile, col, row int) float32 {
	p0x, p0y := float64(tl.P0.UnpackedX())-float64(col), float64(tl.P0.UnpackedY())-float64(row)
	p1x, p1y := float64(tl.P1.UnpackedX())-float64(col), float64(tl.P1.UnpackedY())-float64(row)

	y0 := clamp01(p0y)
	y1 := clamp01(p1y)
	dy := y0 - y1
	if dy == 0 {
		return float32(edgeFixup(tl, col, row))
	}

	invSlope := (p1x - p0x) / (p1y - p0y)
	xx0 := p0x + (y0-p0y)*invSlope
	xx1 := p0x + (y1-p0y)*invSlope

	xmin := math.Min(math.Min(xx0, xx1), 1) - 1e-6
	xmax := math.Max(xx0, xx1)

	b := math.Min(xmax, 1)
	c := math.Max(b, 0)
	d := math.Max(xmin, 0)

	var a float64
	if xmax != xmin {
		a = (b + 0.5*(d*d-c*c) - xmin) / (xmax - xmin)
	}

	return float32(a*dy) + float32(edgeFixup(tl, col, row))
}

// edgeFixup applies the rectangular-coverage correction for endpoints that
// lie exactly on the tile's left edge, a marker introduced by the tiler's
// x nudge.
func edgeFixup(tl geom.Tile, col, row int) float64 {
	var fixup float64
	if tl.P0.X == 0 {
		fixup += clamp01(float64(row) - float64(tl.P0.UnpackedY()) + 1)
	}
	if tl.P1.X == 0 {
		fixup -= clamp01(float64(row) - float64(tl.P1.UnpackedY()) + 1)
	}
	return fixup
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// packColumn converts one column's four row areas into a packed u32 alpha
// word (one u8 per row, LSB = top row).
func packColumn(rows [geom.TileHeight]float32, rule FillRule) uint32 {
	var word uint32
	for row := 0; row < geom.TileHeight; row++ {
		word |= uint32(alphaFromArea(rows[row], rule)) << uint(row*8)
	}
	return word
}

func alphaFromArea(area float32, rule FillRule) uint8 {
	a := float64(area)
	switch rule {
	case EvenOdd:
		fl := math.Floor(a)
		even := math.Mod(fl, 2)
		if even < 0 {
			even += 2
		}
		frac := a - fl
		v := even + (1-2*even)*frac
		return round255(v)
	default: // NonZero
		v := math.Min(math.Abs(a), 1)
		return round255(v)
	}
}

func round255(v float64) uint8 {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	return uint8(math.Round(v * 255))
}
