// Package tiler maps flattened line segments onto the aligned 4x4 pixel
// tiles they cross, producing sub-tile packed coordinates that the strip
// generator integrates into per-pixel coverage.
package tiler

import (
	"math"
	"sort"

	"github.com/inkwell/strips/internal/geom"
)

// MakeTiles walks every line in lines and appends one geom.Tile per tile
// cell the line crosses, in emission order (not yet sorted). Two sentinel
// tiles are appended at the end so the strip generator can flush its last
// real group without a special case.
func MakeTiles(lines []geom.FlatLine) []geom.Tile {
	tiles := make([]geom.Tile, 0, len(lines)*2)
	for _, line := range lines {
		tiles = appendLineTiles(tiles, line)
	}
	s := geom.Sentinels()
	tiles = append(tiles, s[0], s[1])
	return tiles
}

// SortTiles orders tiles by (y, x) ascending. The sort is unstable: tiles
// that share a key may be reordered relative to each other, which is safe
// because the strip generator treats a group of same-location tiles as an
// unordered set.
func SortTiles(tiles []geom.Tile) {
	sort.Slice(tiles, func(i, j int) bool {
		a, b := tiles[i], tiles[j]
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		return a.X < b.X
	})
}

const fracTileScale = geom.FracTileScale

// tilePoint is an intermediate representation of a line endpoint in tile
// units: tileX/tileY select the tile cell, subX/subY are PackedPoint-grid
// coordinates within that cell in [0, FRAC_TILE_SCALE].
type tilePoint struct {
	tileX, tileY int32
	subX, subY   uint16
}

// toTilePoint rounds a point already expressed in tile units (one unit per
// tile) onto the PackedPoint grid, applying the edge-crossing nudge: an x
// coordinate landing exactly on a tile's left edge is nudged one grid unit
// so that subX == 0 unambiguously means "this endpoint marks a horizontal
// edge crossing" wherever the strip generator checks for it; the y axis is
// left unnudged because Tile.Delta relies on an exact y == 0 comparison to
// detect a segment crossing a tile's top edge.
func toTilePoint(x, y float64) tilePoint {
	gx := int64(math.Round(x * fracTileScale))
	gy := int64(math.Round(y * fracTileScale))
	if mod(gx, fracTileScale) == 0 {
		gx++
	}
	tx := floorDiv(gx, fracTileScale)
	ty := floorDiv(gy, fracTileScale)
	return tilePoint{
		tileX: int32(tx),
		tileY: int32(ty),
		subX:  uint16(gx - tx*fracTileScale),
		subY:  uint16(gy - ty*fracTileScale),
	}
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func mod(a, b int64) int64 {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}

func span(a, b int32) int {
	d := int(b - a)
	if d < 0 {
		d = -d
	}
	return d + 1
}

// appendLineTiles emits the tile records for a single line segment,
// dropping any whose tile row is above the viewport (y < 0).
func appendLineTiles(tiles []geom.Tile, line geom.FlatLine) []geom.Tile {
	x0 := float64(line.P0[0]) / geom.TileWidth
	y0 := float64(line.P0[1]) / geom.TileHeight
	x1 := float64(line.P1[0]) / geom.TileWidth
	y1 := float64(line.P1[1]) / geom.TileHeight

	p0 := toTilePoint(x0, y0)
	p1 := toTilePoint(x1, y1)

	nx := span(p0.tileX, p1.tileX)
	ny := span(p0.tileY, p1.tileY)

	switch {
	case nx == 1 && ny == 1:
		return emit(tiles, p0.tileX, p0.tileY, geom.PackedPoint{X: p0.subX, Y: p0.subY}, geom.PackedPoint{X: p1.subX, Y: p1.subY})
	case nx == 1:
		return appendVerticalColumn(tiles, p0, p1, ny)
	case ny == 1:
		return appendHorizontalRow(tiles, p0, p1, nx)
	default:
		return appendGeneralDDA(tiles, p0, p1, nx, ny)
	}
}

func emit(tiles []geom.Tile, x, y int32, p0, p1 geom.PackedPoint) []geom.Tile {
	if y < 0 {
		return tiles
	}
	return append(tiles, geom.Tile{X: x, Y: uint16(y), P0: p0, P1: p1})
}

// appendVerticalColumn handles a line confined to a single tile column but
// spanning ny tile rows.
func appendVerticalColumn(tiles []geom.Tile, p0, p1 tilePoint, ny int) []geom.Tile {
	down := p1.tileY >= p0.tileY
	invSlope := 0.0
	dxTotal := fullX(p1) - fullX(p0)
	dyTotal := fullY(p1) - fullY(p0)
	if dyTotal != 0 {
		invSlope = dxTotal / dyTotal
	}

	cur := p0
	x := p0.tileX
	y := p0.tileY
	for i := 0; i < ny; i++ {
		last := i == ny-1
		var next geom.PackedPoint
		if last {
			next = geom.PackedPoint{X: p1.subX, Y: p1.subY}
		} else {
			// x-intercept with the leading horizontal tile edge.
			var edgeY float64
			if down {
				edgeY = fracTileScale
			} else {
				edgeY = 0
			}
			dy := (edgeY - fullSubY(cur)) / fracTileScale
			xIntercept := fullSubX(cur) + invSlope*dy*fracTileScale
			ix := maxF(xIntercept, 1)
			next = geom.PackedPoint{X: uint16(clampScale(ix)), Y: uint16(edgeY)}
		}
		tiles = emit(tiles, x, y, geom.PackedPoint{X: cur.subX, Y: cur.subY}, next)
		if last {
			break
		}
		if down {
			y++
		} else {
			y--
		}
		cur = tilePoint{tileX: x, tileY: y, subX: next.X, subY: next.Y ^ fracTileScale16}
	}
	return tiles
}

// appendHorizontalRow is the axis-swapped mirror of appendVerticalColumn.
func appendHorizontalRow(tiles []geom.Tile, p0, p1 tilePoint, nx int) []geom.Tile {
	right := p1.tileX >= p0.tileX
	invSlope := 0.0
	dxTotal := fullX(p1) - fullX(p0)
	dyTotal := fullY(p1) - fullY(p0)
	if dxTotal != 0 {
		invSlope = dyTotal / dxTotal
	}

	cur := p0
	x := p0.tileX
	y := p0.tileY
	for i := 0; i < nx; i++ {
		last := i == nx-1
		var next geom.PackedPoint
		if last {
			next = geom.PackedPoint{X: p1.subX, Y: p1.subY}
		} else {
			var edgeX float64
			if right {
				edgeX = fracTileScale
			} else {
				edgeX = 0
			}
			dx := (edgeX - fullSubX(cur)) / fracTileScale
			yIntercept := fullSubY(cur) + invSlope*dx*fracTileScale
			iy := maxF(yIntercept, 1)
			next = geom.PackedPoint{X: uint16(edgeX), Y: uint16(clampScale(iy))}
		}
		tiles = emit(tiles, x, y, geom.PackedPoint{X: cur.subX, Y: cur.subY}, next)
		if last {
			break
		}
		if right {
			x++
		} else {
			x--
		}
		cur = tilePoint{tileX: x, tileY: y, subX: next.X ^ fracTileScale16, subY: next.Y}
	}
	return tiles
}

// appendGeneralDDA walks a line spanning multiple tile rows and columns,
// stepping the axis whose next grid crossing is nearer in parametric t.
func appendGeneralDDA(tiles []geom.Tile, p0, p1 tilePoint, nx, ny int) []geom.Tile {
	x0, y0 := fullX(p0), fullY(p0)
	x1, y1 := fullX(p1), fullY(p1)
	dx := x1 - x0
	dy := y1 - y0

	right := p1.tileX >= p0.tileX
	down := p1.tileY >= p0.tileY

	nextVerticalGrid := func(tx int32) float64 {
		if right {
			return float64(tx+1) * fracTileScale
		}
		return float64(tx) * fracTileScale
	}
	nextHorizontalGrid := func(ty int32) float64 {
		if down {
			return float64(ty+1) * fracTileScale
		}
		return float64(ty) * fracTileScale
	}

	x := p0.tileX
	y := p0.tileY
	cur := p0
	// nx+ny is a safe upper bound on grid-line crossings; the loop's own
	// atTargetX/atTargetY check is the real termination condition, this
	// only guards against infinite looping from unexpected f64 drift.
	totalSteps := nx + ny + 4

	for step := 0; step < totalSteps; step++ {
		atTargetX := x == p1.tileX
		atTargetY := y == p1.tileY
		if atTargetX && atTargetY {
			break
		}

		tClipX := math.Inf(1)
		if dx != 0 && !atTargetX {
			tClipX = (nextVerticalGrid(x) - x0) / dx
		}
		tClipY := math.Inf(1)
		if dy != 0 && !atTargetY {
			tClipY = (nextHorizontalGrid(y) - y0) / dy
		}

		stepX := tClipX <= tClipY
		var next geom.PackedPoint
		if stepX {
			gx := nextVerticalGrid(x)
			t := (gx - x0) / dx
			gy := y0 + t*dy
			yIntercept := maxF(gy-float64(y)*fracTileScale, 1)
			next = geom.PackedPoint{
				X: wrapScale(gx - float64(x)*fracTileScale),
				Y: uint16(clampScale(yIntercept)),
			}
		} else {
			gy := nextHorizontalGrid(y)
			t := (gy - y0) / dy
			gx := x0 + t*dx
			xIntercept := maxF(gx-float64(x)*fracTileScale, 1)
			next = geom.PackedPoint{
				X: uint16(clampScale(xIntercept)),
				Y: wrapScale(gy - float64(y)*fracTileScale),
			}
		}

		tiles = emit(tiles, x, y, geom.PackedPoint{X: cur.subX, Y: cur.subY}, next)

		if stepX {
			if right {
				x++
			} else {
				x--
			}
			cur = tilePoint{tileX: x, tileY: y, subX: next.X ^ fracTileScale16, subY: next.Y}
		} else {
			if down {
				y++
			} else {
				y--
			}
			cur = tilePoint{tileX: x, tileY: y, subX: next.X, subY: next.Y ^ fracTileScale16}
		}

		// Direction-aware termination: compare against the true target
		// tile using the sign of travel so f32/f64 drift in the stepped
		// coordinate can never skip past the target and loop forever.
		if right {
			if x >= p1.tileX {
				x = p1.tileX
			}
		} else {
			if x <= p1.tileX {
				x = p1.tileX
			}
		}
		if down {
			if y >= p1.tileY {
				y = p1.tileY
			}
		} else {
			if y <= p1.tileY {
				y = p1.tileY
			}
		}
	}

	tiles = emit(tiles, p1.tileX, p1.tileY, geom.PackedPoint{X: cur.subX, Y: cur.subY}, geom.PackedPoint{X: p1.subX, Y: p1.subY})
	return tiles
}

const fracTileScale16 = uint16(geom.FracTileScale)

func fullX(p tilePoint) float64 {
	return float64(p.tileX)*fracTileScale + float64(p.subX)
}

func fullY(p tilePoint) float64 {
	return float64(p.tileY)*fracTileScale + float64(p.subY)
}

func fullSubX(p tilePoint) float64 { return float64(p.subX) }
func fullSubY(p tilePoint) float64 { return float64(p.subY) }

func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func clampScale(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > fracTileScale {
		return fracTileScale
	}
	return v
}

func wrapScale(v float64) uint16 {
	return uint16(clampScale(v))
}
