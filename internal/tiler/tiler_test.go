package tiler

import (
	"testing"

	"github.com/inkwell/strips/internal/geom"
)

func TestMakeTilesAppendsSentinels(t *testing.T) {
	lines := []geom.FlatLine{{P0: [2]float32{0, 0}, P1: [2]float32{4, 4}}}
	tiles := MakeTiles(lines)
	if len(tiles) < 2 {
		t.Fatalf("MakeTiles() returned %d tiles, want at least 2", len(tiles))
	}
	s := geom.Sentinels()
	last2 := tiles[len(tiles)-2:]
	if last2[0] != s[0] || last2[1] != s[1] {
		t.Errorf("MakeTiles() trailing tiles = %+v, want sentinels %+v", last2, s)
	}
}

func TestMakeTilesSingleTile(t *testing.T) {
	// A short diagonal fully inside tile (0,0): 4x4 tile spans pixels [0,4).
	lines := []geom.FlatLine{{P0: [2]float32{1, 1}, P1: [2]float32{3, 3}}}
	tiles := MakeTiles(lines)
	real := tiles[:len(tiles)-2]
	if len(real) != 1 {
		t.Fatalf("single-tile line produced %d real tiles, want 1", len(real))
	}
	if real[0].X != 0 || real[0].Y != 0 {
		t.Errorf("real[0] loc = (%d,%d), want (0,0)", real[0].X, real[0].Y)
	}
}

func TestMakeTilesDropsNegativeY(t *testing.T) {
	// A vertical line starting above the viewport.
	lines := []geom.FlatLine{{P0: [2]float32{2, -20}, P1: [2]float32{2, 2}}}
	tiles := MakeTiles(lines)
	real := tiles[:len(tiles)-2]
	for _, tl := range real {
		if int32(tl.Y) < 0 {
			t.Errorf("tile with y<0 present: %+v", tl)
		}
	}
}

func TestMakeTilesKeepsNegativeX(t *testing.T) {
	lines := []geom.FlatLine{{P0: [2]float32{-20, 2}, P1: [2]float32{2, 2}}}
	tiles := MakeTiles(lines)
	real := tiles[:len(tiles)-2]
	foundNegative := false
	for _, tl := range real {
		if tl.X < 0 {
			foundNegative = true
		}
	}
	if !foundNegative {
		t.Errorf("expected at least one tile with x<0, got %+v", real)
	}
}

func TestMakeTilesVerticalColumn(t *testing.T) {
	// Spans tile rows 0-3 plus a degenerate touch of row 4's top edge,
	// where the endpoint lands exactly on a tile boundary.
	lines := []geom.FlatLine{{P0: [2]float32{2, 0}, P1: [2]float32{2, 16}}}
	tiles := MakeTiles(lines)
	real := tiles[:len(tiles)-2]
	if len(real) != 5 {
		t.Fatalf("vertical column produced %d tiles, want 5", len(real))
	}
	for i, tl := range real {
		if tl.X != 0 || int(tl.Y) != i {
			t.Errorf("real[%d] loc = (%d,%d), want (0,%d)", i, tl.X, tl.Y, i)
		}
	}
}

func TestMakeTilesHorizontalRow(t *testing.T) {
	lines := []geom.FlatLine{{P0: [2]float32{0, 2}, P1: [2]float32{16, 2}}}
	tiles := MakeTiles(lines)
	real := tiles[:len(tiles)-2]
	if len(real) != 5 {
		t.Fatalf("horizontal row produced %d tiles, want 5", len(real))
	}
	for i, tl := range real {
		if int(tl.X) != i || tl.Y != 0 {
			t.Errorf("real[%d] loc = (%d,%d), want (%d,0)", i, tl.X, tl.Y, i)
		}
	}
}

func TestMakeTilesGeneralDDATerminates(t *testing.T) {
	lines := []geom.FlatLine{{P0: [2]float32{0, 0}, P1: [2]float32{40, 24}}}
	tiles := MakeTiles(lines)
	real := tiles[:len(tiles)-2]
	if len(real) == 0 {
		t.Fatal("general DDA produced no tiles")
	}
	last := real[len(real)-1]
	if last.X != 10 || last.Y != 6 {
		t.Errorf("last tile loc = (%d,%d), want (10,6)", last.X, last.Y)
	}
}

func TestMakeTilesGeneralDDANegativeDirection(t *testing.T) {
	lines := []geom.FlatLine{{P0: [2]float32{40, 24}, P1: [2]float32{0, 0}}}
	tiles := MakeTiles(lines)
	real := tiles[:len(tiles)-2]
	if len(real) == 0 {
		t.Fatal("general DDA (reverse direction) produced no tiles")
	}
	last := real[len(real)-1]
	if last.X != 0 || last.Y != 0 {
		t.Errorf("last tile loc = (%d,%d), want (0,0)", last.X, last.Y)
	}
}

func TestAppendGeneralDDACornerInterceptNudged(t *testing.T) {
	// A diagonal from tile-grid corner (0,0) to corner (2,2): the DDA's
	// second grid crossing (at tile (1,0), stepping down into tile (1,1))
	// lands exactly on the vertical grid line local to that tile, so the
	// cross-axis intercept computed for the stepY branch is exactly 0
	// before the maxF(_, 1) nudge — colliding with geom.PackedPoint's
	// reserved edge-crossing marker value instead of reading as an
	// ordinary interior coordinate.
	p0 := tilePoint{tileX: 0, tileY: 0, subX: 0, subY: 0}
	p1 := tilePoint{tileX: 2, tileY: 2, subX: 0, subY: 0}
	tiles := appendGeneralDDA(nil, p0, p1, 3, 3)

	var found bool
	for _, tl := range tiles {
		if tl.X == 1 && tl.Y == 0 {
			found = true
			if tl.P1.X == 0 {
				t.Errorf("tile (1,0).P1.X = 0, want the cross-axis intercept nudged to 1")
			}
		}
	}
	if !found {
		t.Fatal("expected a tile at (1,0) along the diagonal, found none")
	}
}

func TestSortTilesOrdersByYThenX(t *testing.T) {
	tiles := []geom.Tile{
		{X: 5, Y: 2},
		{X: -1, Y: 2},
		{X: 0, Y: 0},
		{X: 3, Y: 1},
	}
	SortTiles(tiles)
	for i := 1; i < len(tiles); i++ {
		a, b := tiles[i-1], tiles[i]
		if a.Y > b.Y || (a.Y == b.Y && a.X > b.X) {
			t.Errorf("tiles not sorted at %d: %+v then %+v", i, a, b)
		}
	}
}

func TestMakeTilesZeroLengthLineDoesNotPanic(t *testing.T) {
	lines := []geom.FlatLine{{P0: [2]float32{5, 5}, P1: [2]float32{5, 5}}}
	tiles := MakeTiles(lines)
	if len(tiles) < 2 {
		t.Fatalf("MakeTiles(zero-length) = %d tiles, want at least the sentinels", len(tiles))
	}
}
