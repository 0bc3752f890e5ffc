// Package fine executes a wide tile's compiled commands into a scratch
// buffer and packs the result into a row-major pixel buffer. It is the last
// stage of the pipeline: by the time a command reaches here, the tiler and
// strip generator have already reduced a path to coverage data, and this
// package's only job is Porter-Duff compositing.
package fine

import (
	"github.com/inkwell/strips/internal/blend"
	"github.com/inkwell/strips/internal/wide"
)

// rowBytes is the byte length of one wide tile's scratch buffer.
const rowBytes = wide.Width * wide.Height * 4

// Kernel composites Fill and Strip commands into a wide tile's scratch
// buffer. Two implementations are provided: ScalarKernel, which evaluates
// every channel through blend.ComposeMasked, and VectorKernel, which
// batches a command's SrcOver arithmetic into wide.U16x16 lanes. Both must
// agree on output for any given input; VectorKernel falls back to scalar
// arithmetic for any blend mode other than SrcOver.
type Kernel interface {
	RunFill(scratch []byte, x, width int, color wide.Color, mode blend.BlendMode)
	RunStrip(scratch []byte, x, width int, alphaIx uint32, alphas []uint32, color wide.Color, mode blend.BlendMode)
}

// columnOffset returns the scratch byte offset of column col's first byte.
// The scratch buffer is column-major (wide.Height rows of 4 bytes per
// column) so that a command's inner loop, which always runs exactly
// wide.Height iterations, vectorizes uniformly regardless of command width.
func columnOffset(col int) int {
	return col * wide.Height * 4
}

// ScalarKernel composites one pixel at a time via blend.ComposeMasked.
type ScalarKernel struct{}

func (ScalarKernel) RunFill(scratch []byte, x, width int, color wide.Color, mode blend.BlendMode) {
	for col := x; col < x+width; col++ {
		off := columnOffset(col)
		for row := 0; row < wide.Height; row++ {
			i := off + row*4
			scratch[i], scratch[i+1], scratch[i+2], scratch[i+3] = blend.ComposeMasked(
				mode,
				color.R, color.G, color.B, color.A,
				scratch[i], scratch[i+1], scratch[i+2], scratch[i+3],
				255,
			)
		}
	}
}

func (ScalarKernel) RunStrip(scratch []byte, x, width int, alphaIx uint32, alphas []uint32, color wide.Color, mode blend.BlendMode) {
	for i := 0; i < width; i++ {
		col := x + i
		a := alphas[alphaIx+uint32(i)]
		off := columnOffset(col)
		for row := 0; row < wide.Height; row++ {
			am := byte((a >> uint(row*8)) & 0xff)
			j := off + row*4
			scratch[j], scratch[j+1], scratch[j+2], scratch[j+3] = blend.ComposeMasked(
				mode,
				color.R, color.G, color.B, color.A,
				scratch[j], scratch[j+1], scratch[j+2], scratch[j+3],
				am,
			)
		}
	}
}

// VectorKernel composites a full 16-byte scratch column (4 rows x 4 RGBA
// bytes) per wide.U16x16 operation for the common SrcOver case, and
// defers to ScalarKernel for every other blend mode.
type VectorKernel struct {
	scalar ScalarKernel
}

func (k VectorKernel) RunFill(scratch []byte, x, width int, color wide.Color, mode blend.BlendMode) {
	if mode != blend.BlendSrcOver {
		k.scalar.RunFill(scratch, x, width, color, mode)
		return
	}
	colorVec := broadcastColor(color)
	for col := x; col < x+width; col++ {
		off := columnOffset(col)
		blendColumnSrcOver(scratch[off:off+16], colorVec, fullCoverage)
	}
}

func (k VectorKernel) RunStrip(scratch []byte, x, width int, alphaIx uint32, alphas []uint32, color wide.Color, mode blend.BlendMode) {
	if mode != blend.BlendSrcOver {
		k.scalar.RunStrip(scratch, x, width, alphaIx, alphas, color, mode)
		return
	}
	colorVec := broadcastColor(color)
	for i := 0; i < width; i++ {
		col := x + i
		a := alphas[alphaIx+uint32(i)]
		off := columnOffset(col)
		blendColumnSrcOver(scratch[off:off+16], colorVec, broadcastAlphaWord(a))
	}
}

// fullCoverage is the coverage vector for a Fill command: every row has a
// mask alpha of 255.
var fullCoverage = broadcastAlphaWord(0xFFFFFFFF)

func broadcastColor(c wide.Color) wide.U16x16 {
	var v wide.U16x16
	for row := 0; row < 4; row++ {
		v[row*4+0] = uint16(c.R)
		v[row*4+1] = uint16(c.G)
		v[row*4+2] = uint16(c.B)
		v[row*4+3] = uint16(c.A)
	}
	return v
}

// broadcastAlphaWord spreads a packed alpha word's four per-row mask bytes
// across the four channel lanes of their row.
func broadcastAlphaWord(a uint32) wide.U16x16 {
	var v wide.U16x16
	for row := 0; row < 4; row++ {
		am := uint16((a >> uint(row*8)) & 0xff)
		for c := 0; c < 4; c++ {
			v[row*4+c] = am
		}
	}
	return v
}

// blendColumnSrcOver composites colorVec over the 16-byte destination
// column dst under SrcOver, attenuated per row by cov's mask lanes. It
// reproduces composeChannel's SrcOver arithmetic
// (svPrime + dst*inv(aPrime)) exactly, using the same MulDiv255 formula as
// blend.mulDiv255 so scalar and vector kernels agree bit for bit.
func blendColumnSrcOver(dst []byte, colorVec, cov wide.U16x16) {
	var dstVec wide.U16x16
	for i, b := range dst {
		dstVec[i] = uint16(b)
	}

	svPrime := colorVec.MulDiv255(cov)

	var aPrimeVec wide.U16x16
	for row := 0; row < 4; row++ {
		a := svPrime[row*4+3]
		for c := 0; c < 4; c++ {
			aPrimeVec[row*4+c] = a
		}
	}

	dstTerm := dstVec.MulDiv255(aPrimeVec.Inv())
	out := svPrime.Add(dstTerm).Clamp(255)
	for i := range dst {
		dst[i] = byte(out[i])
	}
}

// Scratch holds one wide tile's working pixel buffer and the kernel used to
// composite commands into it.
type Scratch struct {
	buf    []byte
	kernel Kernel
}

// NewScratch allocates a scratch buffer driven by kernel.
func NewScratch(kernel Kernel) *Scratch {
	return &Scratch{buf: make([]byte, rowBytes), kernel: kernel}
}

// Clear fills the scratch buffer with a solid background color.
func (s *Scratch) Clear(bg wide.Color) {
	for col := 0; col < wide.Width; col++ {
		off := columnOffset(col)
		for row := 0; row < wide.Height; row++ {
			i := off + row*4
			s.buf[i], s.buf[i+1], s.buf[i+2], s.buf[i+3] = bg.R, bg.G, bg.B, bg.A
		}
	}
}

// RunCmd executes a single compiled command against the scratch buffer.
func (s *Scratch) RunCmd(cmd wide.Cmd, alphas []uint32) {
	switch cmd.Kind {
	case wide.CmdFill:
		s.kernel.RunFill(s.buf, int(cmd.X), int(cmd.Width), cmd.Color, cmd.Blend)
	case wide.CmdStrip:
		s.kernel.RunStrip(s.buf, int(cmd.X), int(cmd.Width), cmd.AlphaIx, alphas, cmd.Color, cmd.Blend)
	}
}

// Pack copies the scratch buffer's column-major pixels into out, a
// row-major premultiplied RGBA buffer width x height pixels, at the wide
// tile located at (tileX, tileY) in tile units. Columns and rows beyond the
// edge of the real pixmap are skipped.
func (s *Scratch) Pack(out []byte, width, height, tileX, tileY int) {
	baseX := tileX * wide.Width
	baseY := tileY * wide.Height
	for row := 0; row < wide.Height; row++ {
		y := baseY + row
		if y >= height {
			break
		}
		lineStart := y * width * 4
		for col := 0; col < wide.Width; col++ {
			x := baseX + col
			if x >= width {
				break
			}
			srcOff := columnOffset(col) + row*4
			dstOff := lineStart + x*4
			copy(out[dstOff:dstOff+4], s.buf[srcOff:srcOff+4])
		}
	}
}

// RenderRow composites and packs every wide tile in one tile-row of g into
// out, reusing scratch across tiles.
func RenderRow(g *wide.Grid, alphas []uint32, row int, out []byte, width, height int, scratch *Scratch) {
	rowStart := row * g.WidthTiles
	for xt := 0; xt < g.WidthTiles; xt++ {
		tile := &g.Tiles[rowStart+xt]
		scratch.Clear(tile.Bg)
		for _, cmd := range tile.Cmds {
			scratch.RunCmd(cmd, alphas)
		}
		scratch.Pack(out, width, height, xt, row)
	}
}

// RenderToPixmap composites and packs every wide tile of g, sequentially,
// into out. Callers needing parallelism should instead drive RenderRow
// directly, one call per tile row, each with its own Scratch.
func RenderToPixmap(g *wide.Grid, alphas []uint32, out []byte, width, height int, kernel Kernel) {
	scratch := NewScratch(kernel)
	for row := 0; row < g.HeightTiles; row++ {
		RenderRow(g, alphas, row, out, width, height, scratch)
	}
}
