package geom

import "testing"

func TestPackedPointUnpack(t *testing.T) {
	p := PackedPoint{X: TileScale * 2, Y: TileScale / 2}
	if got := p.UnpackedX(); got != 2 {
		t.Errorf("UnpackedX() = %v, want 2", got)
	}
	if got := p.UnpackedY(); got != 0.5 {
		t.Errorf("UnpackedY() = %v, want 0.5", got)
	}
}

func TestTileLoc(t *testing.T) {
	tile := Tile{X: 3, Y: 7}
	x, y := tile.Loc()
	if x != 3 || y != 7 {
		t.Errorf("Loc() = (%d,%d), want (3,7)", x, y)
	}
}

func TestTileDelta(t *testing.T) {
	tests := []struct {
		name string
		tile Tile
		want int32
	}{
		{"segment ends at top edge", Tile{P0: PackedPoint{Y: 100}, P1: PackedPoint{Y: 0}}, 1},
		{"segment starts at top edge", Tile{P0: PackedPoint{Y: 0}, P1: PackedPoint{Y: 100}}, -1},
		{"neither endpoint at top edge", Tile{P0: PackedPoint{Y: 50}, P1: PackedPoint{Y: 100}}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.tile.Delta(); got != tt.want {
				t.Errorf("Delta() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestFootprintFromRange(t *testing.T) {
	tests := []struct {
		a, b int
		want Footprint
	}{
		{0, 4, 0b1111},
		{1, 3, 0b0110},
		{0, 1, 0b0001},
		{3, 4, 0b1000},
		{2, 2, 0},
		{3, 1, 0},
	}
	for _, tt := range tests {
		if got := FootprintFromRange(tt.a, tt.b); got != tt.want {
			t.Errorf("FootprintFromRange(%d,%d) = %b, want %b", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestFootprintEmpty(t *testing.T) {
	f := EmptyFootprint()
	if f.X0() != 32 {
		t.Errorf("EmptyFootprint().X0() = %d, want 32", f.X0())
	}
	if f.X1() != 0 {
		t.Errorf("EmptyFootprint().X1() = %d, want 0", f.X1())
	}
}

func TestFootprintX0X1(t *testing.T) {
	f := FootprintFromRange(1, 3)
	if f.X0() != 1 {
		t.Errorf("X0() = %d, want 1", f.X0())
	}
	if f.X1() != 3 {
		t.Errorf("X1() = %d, want 3", f.X1())
	}
}

func TestFootprintUnion(t *testing.T) {
	a := FootprintFromRange(0, 1)
	b := FootprintFromRange(2, 4)
	got := a.Union(b)
	want := Footprint(0b1101)
	if got != want {
		t.Errorf("Union() = %b, want %b", got, want)
	}
}

func TestFootprintWithBit3(t *testing.T) {
	f := FootprintFromRange(0, 1).WithBit3()
	if f&(1<<3) == 0 {
		t.Errorf("WithBit3() did not set bit 3: %b", f)
	}
	if f&1 == 0 {
		t.Errorf("WithBit3() clobbered existing bits: %b", f)
	}
}

func TestTileFootprint(t *testing.T) {
	tile := Tile{
		P0: PackedPoint{X: TileScale / 2, Y: 0},   // x=0.5
		P1: PackedPoint{X: TileScale*2 + 1, Y: 1}, // x=~2.0
	}
	f := TileFootprint(tile)
	if f.X0() != 0 {
		t.Errorf("TileFootprint().X0() = %d, want 0", f.X0())
	}
	if f.X1() < 2 {
		t.Errorf("TileFootprint().X1() = %d, want at least 2", f.X1())
	}
}

func TestTileFootprintClampsToTileWidth(t *testing.T) {
	tile := Tile{
		P0: PackedPoint{X: 0, Y: 0},
		P1: PackedPoint{X: TileScale * 7, Y: 1}, // far past the tile
	}
	f := TileFootprint(tile)
	if f.X1() > TileWidth {
		t.Errorf("TileFootprint().X1() = %d, want <= %d", f.X1(), TileWidth)
	}
}

func TestSentinels(t *testing.T) {
	s := Sentinels()
	if s[0].X != SentinelX1 || s[0].Y != SentinelY {
		t.Errorf("Sentinels()[0] = %+v", s[0])
	}
	if s[1].X != SentinelX2 || s[1].Y != SentinelY {
		t.Errorf("Sentinels()[1] = %+v", s[1])
	}
	if s[0].X >= s[1].X {
		t.Errorf("sentinel order: want X1 < X2, got %d >= %d", s[0].X, s[1].X)
	}
}
