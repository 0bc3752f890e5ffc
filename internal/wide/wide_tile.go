package wide

import (
	"github.com/inkwell/strips/internal/blend"
	"github.com/inkwell/strips/internal/strip"
)

// Width is the pixel width of one wide tile: a full row of a frame is
// split into tiles Width pixels wide so a tile's command list and its
// composited scratch buffer both fit comfortably in cache.
const Width = 256

// Height is the pixel height of one wide tile, matching geom.StripHeight:
// every strip produced by the strip generator is exactly one wide tile
// tall.
const Height = 4

// Color is a premultiplied sRGB color in 8-bit channels, the representation
// commands carry and the fine rasterizer composites.
type Color struct {
	R, G, B, A byte
}

// CmdKind distinguishes the two command shapes a wide tile can hold.
type CmdKind uint8

const (
	CmdFill CmdKind = iota
	CmdStrip
)

// Cmd is one drawing operation scoped to a single wide tile: either a solid
// fill of a sub-range of columns, or a masked strip composited from the
// packed alpha buffer.
type Cmd struct {
	Kind    CmdKind
	X       uint32 // column offset within the tile, [0, Width)
	Width   uint32 // column count, X+Width <= Width
	AlphaIx uint32 // index into the shared alpha buffer, CmdStrip only
	Color   Color
	Blend   blend.BlendMode
}

// Tile is one wide tile's accumulated state: an opaque background color
// (the fill-hoist fast path) plus an ordered command list to run over it.
type Tile struct {
	Bg   Color
	Cmds []Cmd
}

// Fill appends a solid fill command spanning [x, x+width) columns. A fill
// that covers the entire tile width with an opaque color under normal
// SrcOver compositing collapses to the tile's background instead of a
// command: it clears any commands recorded before it, since they are now
// fully occluded.
func (t *Tile) Fill(x, width uint32, color Color, mode blend.BlendMode) {
	if x == 0 && width == Width && color.A == 255 && mode == blend.BlendSrcOver {
		t.Cmds = t.Cmds[:0]
		t.Bg = color
		return
	}
	t.Cmds = append(t.Cmds, Cmd{Kind: CmdFill, X: x, Width: width, Color: color, Blend: mode})
}

// Push appends an arbitrary command, used directly for CmdStrip commands
// which are never hoisted.
func (t *Tile) Push(cmd Cmd) {
	t.Cmds = append(t.Cmds, cmd)
}

// Grid is the full frame's wide-tile buffer: width/height in pixels,
// rounded up into a grid of wide tiles, row-major.
type Grid struct {
	Width, Height           int
	WidthTiles, HeightTiles int
	Tiles                   []Tile
}

// NewGrid allocates a Grid sized to cover a width x height pixel frame.
func NewGrid(width, height int) *Grid {
	wt := (width + Width - 1) / Width
	ht := (height + Height - 1) / Height
	return &Grid{
		Width:       width,
		Height:      height,
		WidthTiles:  wt,
		HeightTiles: ht,
		Tiles:       make([]Tile, wt*ht),
	}
}

// Reset clears every tile's background and command list, reusing their
// underlying storage, ready for the next frame.
func (g *Grid) Reset() {
	for i := range g.Tiles {
		g.Tiles[i].Bg = Color{}
		g.Tiles[i].Cmds = g.Tiles[i].Cmds[:0]
	}
}

// Compile appends the wide-tile commands for one path's strips into g. Both
// CmdStrip and the fill-hoist band between consecutive strips on the same
// row are split at wide-tile boundaries, since a single command never
// crosses from one Tile into another.
//
// strips is the strip output of strip.Generate for this path; it must
// include the terminal strips produced by the tiler's sentinel tiles,
// which this function relies on to size the final real strip and to stop
// before running off the end of the slice.
func Compile(g *Grid, strips []strip.Strip, rule strip.FillRule, color Color, mode blend.BlendMode) {
	for i := 0; i+1 < len(strips); i++ {
		s := strips[i]
		if int(s.Y) >= g.Height {
			break
		}
		next := strips[i+1]

		row := int(s.Y) / Height
		stripWidth := int32(next.Col - s.Col)
		x0, x1 := s.X, s.X+stripWidth

		g.pushStripRun(row, x0, x1, s.Col, color, mode)

		if rule.ActiveFill(next.Winding) && s.Y == next.Y {
			g.pushFillRun(row, x1, next.X, color, mode)
		}
	}
}

// pushStripRun emits CmdStrip commands for the column range [x0, x1) on
// wide-tile row, clipping to the viewport and splitting at Width-pixel
// boundaries. col is the first alpha-buffer index corresponding to x0;
// clipping the left edge advances it in step with the skipped columns.
func (g *Grid) pushStripRun(row int, x0, x1 int32, col uint32, color Color, mode blend.BlendMode) {
	cx0, cx1 := g.clipRow(x0, x1)
	if cx0 >= cx1 {
		return
	}
	col += uint32(cx0 - x0)

	rowStart := row * g.WidthTiles
	x := cx0
	for x < cx1 {
		xtile := int(x) / Width
		tileEnd := int32((xtile + 1) * Width)
		end := cx1
		if tileEnd < end {
			end = tileEnd
		}
		width := uint32(end - x)
		g.Tiles[rowStart+xtile].Push(Cmd{
			Kind:    CmdStrip,
			X:       uint32(x) % Width,
			Width:   width,
			AlphaIx: col,
			Color:   color,
			Blend:   mode,
		})
		col += width
		x = end
	}
}

// pushFillRun is pushStripRun's counterpart for the solid fill band between
// two strips on the same row where the fill rule reports the region active.
func (g *Grid) pushFillRun(row int, x0, x1 int32, color Color, mode blend.BlendMode) {
	cx0, cx1 := g.clipRow(x0, x1)
	if cx0 >= cx1 {
		return
	}
	rowStart := row * g.WidthTiles
	x := cx0
	for x < cx1 {
		xtile := int(x) / Width
		tileEnd := int32((xtile + 1) * Width)
		end := cx1
		if tileEnd < end {
			end = tileEnd
		}
		width := uint32(end - x)
		g.Tiles[rowStart+xtile].Fill(uint32(x)%Width, width, color, mode)
		x = end
	}
}

// clipRow clamps [x0, x1) to the grid's pixel width, so strips and fill
// bands extending left of column 0 or past the right edge (both of which
// the tiler permits, since it never clips against the viewport) never
// address a wide tile outside the grid.
func (g *Grid) clipRow(x0, x1 int32) (int32, int32) {
	if x0 < 0 {
		x0 = 0
	}
	if x1 > int32(g.Width) {
		x1 = int32(g.Width)
	}
	return x0, x1
}
