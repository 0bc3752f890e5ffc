package strips

import (
	"context"
	"log/slog"

	"github.com/inkwell/strips/internal/blend"
	"github.com/inkwell/strips/internal/fine"
	"github.com/inkwell/strips/internal/flatten"
	"github.com/inkwell/strips/internal/geom"
	"github.com/inkwell/strips/internal/strip"
	"github.com/inkwell/strips/internal/stroke"
	"github.com/inkwell/strips/internal/tiler"
	"github.com/inkwell/strips/internal/wide"
)

// FillRule selects how accumulated winding numbers map to opacity.
// It re-exports internal/strip's rule so callers never import an internal
// package directly.
type FillRule = strip.FillRule

const (
	NonZero = strip.NonZero
	EvenOdd = strip.EvenOdd
)

// BlendMode is a Porter-Duff compositing operator, re-exported from
// internal/blend.
type BlendMode = blend.BlendMode

const (
	BlendSrcOver     = blend.BlendSrcOver
	BlendCopy        = blend.BlendCopy
	BlendDest        = blend.BlendDest
	BlendDestOver    = blend.BlendDestOver
	BlendSrcIn       = blend.BlendSrcIn
	BlendDestIn      = blend.BlendDestIn
	BlendSrcOut      = blend.BlendSrcOut
	BlendDestOut     = blend.BlendDestOut
	BlendSrcAtop     = blend.BlendSrcAtop
	BlendDestAtop    = blend.BlendDestAtop
	BlendXor         = blend.BlendXor
	BlendPlus        = blend.BlendPlus
	BlendPlusLighter = blend.BlendPlusLighter
	BlendClear       = blend.BlendClear
)

// flattenTolerance is the device-space chord tolerance the teacher's curve
// flattener converges to, matching internal/flatten.DefaultTolerance.
const flattenTolerance = flatten.DefaultTolerance

// RenderContext accumulates paths against a current transform and fill/blend
// state, then rasterizes them into a Pixmap. It holds no GPU resources and
// carries no hidden global state: its configuration fields (Width, Height,
// FillRule, Blend, Workers) are exported so the teacher's
// field-based configuration style applies here too, rather than functional
// options.
type RenderContext struct {
	// Width and Height are the render target's pixel dimensions.
	Width, Height int

	// FillRule is used by FillPath and FillRect. Defaults to NonZero.
	FillRule FillRule

	// Blend is the Porter-Duff operator used to composite every path drawn
	// through this context. Defaults to BlendSrcOver.
	Blend BlendMode

	// Workers, when non-nil, routes RenderToPixmap through a parallel pool
	// dispatching one task per wide-tile row. Nil means serial rendering.
	Workers *wide.WorkerPool

	ctm Transform

	grid   *wide.Grid
	alphas []uint32
}

// NewRenderContext creates a context targeting a width x height render
// area, with an identity transform, NonZero fill rule, and SrcOver blend.
func NewRenderContext(width, height int) *RenderContext {
	rc := &RenderContext{
		Width:    width,
		Height:   height,
		FillRule: NonZero,
		Blend:    BlendSrcOver,
		ctm:      Identity(),
	}
	rc.grid = wide.NewGrid(width, height)
	return rc
}

// SetTransform replaces the current transform (CTM) applied to subsequently
// drawn geometry.
func (rc *RenderContext) SetTransform(t Transform) {
	rc.ctm = t
}

// Transform returns the current transform.
func (rc *RenderContext) Transform() Transform {
	return rc.ctm
}

// Reset clears the accumulated wide-tile commands and alpha buffer so the
// context can be reused for a new frame without reallocating its grid.
func (rc *RenderContext) Reset() {
	rc.grid.Reset()
	rc.alphas = rc.alphas[:0]
}

// FillPath flattens path under the current transform and fill rule, and
// accumulates the resulting wide-tile commands with color composited via
// Blend.
func (rc *RenderContext) FillPath(path *Path, color AlphaColor) {
	rc.logBounds(path)
	lines := rc.flattenFill(path.Elements())
	rc.compile(lines, color)
}

// logBounds traces a path's bounding box at debug level, skipping the
// Rect computation entirely when no logger is installed.
func (rc *RenderContext) logBounds(path *Path) {
	if !Logger().Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	b := path.Bounds()
	Logger().Debug("render path", "minX", b.Min.X, "minY", b.Min.Y, "maxX", b.Max.X, "maxY", b.Max.Y)
}

// StrokePath expands path into a filled outline using style, then fills
// that outline exactly as FillPath would, always under NonZero winding
// (the outline's self-intersections at joins are resolved by construction,
// not by the caller's fill rule).
func (rc *RenderContext) StrokePath(path *Path, style Stroke, color AlphaColor) {
	rc.logBounds(path)
	elements := toStrokeElements(path.Elements())
	expander := stroke.NewStrokeExpander(toStrokeStyle(style))
	expander.SetTolerance(flattenTolerance / rc.ctm.MaxScaleFactor())
	outline := expander.Expand(elements)

	lines := rc.flattenLines(fromStrokeElements(outline))
	rc.compileWithRule(lines, color, NonZero)
}

// FillRect is a convenience wrapper over FillPath for an axis-aligned
// rectangle in user space.
func (rc *RenderContext) FillRect(x, y, w, h float64, color AlphaColor) {
	p := NewPath()
	p.Rectangle(x, y, w, h)
	rc.FillPath(p, color)
}

// Pixmap allocates a Pixmap sized to rc.Width x rc.Height and renders the
// accumulated commands into it.
func (rc *RenderContext) Pixmap() (*Pixmap, error) {
	pm, err := NewPixmap(rc.Width, rc.Height)
	if err != nil {
		return nil, err
	}
	rc.RenderToPixmap(pm)
	return pm, nil
}

// RenderToPixmap composites every accumulated command into pm, sequentially
// unless Workers is set, in which case rendering is dispatched one
// wide-tile row per task across the pool.
func (rc *RenderContext) RenderToPixmap(pm *Pixmap) {
	out := pm.Data()
	kernel := fine.Kernel(fine.VectorKernel{})

	if rc.Workers == nil {
		fine.RenderToPixmap(rc.grid, rc.alphas, out, rc.Width, rc.Height, kernel)
		return
	}

	tasks := make([]func(), rc.grid.HeightTiles)
	for row := 0; row < rc.grid.HeightTiles; row++ {
		row := row
		tasks[row] = func() {
			scratch := fine.NewScratch(kernel)
			fine.RenderRow(rc.grid, rc.alphas, row, out, rc.Width, rc.Height, scratch)
		}
	}
	rc.Workers.ExecuteAll(tasks)
}

// flattenFill flattens elements under the current transform, honoring the
// implicit-subpath-close behavior Flatten already provides.
func (rc *RenderContext) flattenFill(elements []PathElement) []geom.FlatLine {
	return rc.flattenLines(toFlattenPath(elements))
}

// flattenLines runs path through internal/flatten at a tolerance scaled
// into path space by the CTM's max scale factor, then maps every emitted
// segment endpoint through the CTM into device space.
func (rc *RenderContext) flattenLines(path flatten.BezPath) []geom.FlatLine {
	tolerance := flattenTolerance / rc.ctm.MaxScaleFactor()

	var lines []geom.FlatLine
	flatten.Flatten(path, tolerance, func(p0, p1 flatten.Point) {
		x0, y0 := rc.ctm.Apply(p0.X, p0.Y)
		x1, y1 := rc.ctm.Apply(p1.X, p1.Y)
		lines = append(lines, geom.FlatLine{
			P0: [2]float32{float32(x0), float32(y0)},
			P1: [2]float32{float32(x1), float32(y1)},
		})
	})
	return lines
}

func (rc *RenderContext) compile(lines []geom.FlatLine, color AlphaColor) {
	rc.compileWithRule(lines, color, rc.FillRule)
}

func (rc *RenderContext) compileWithRule(lines []geom.FlatLine, color AlphaColor, rule FillRule) {
	if len(lines) == 0 {
		return
	}
	tiles := tiler.MakeTiles(lines)
	tiler.SortTiles(tiles)
	strips, alphas := strip.Generate(tiles, rule)
	if len(strips) == 0 {
		return
	}

	base := uint32(len(rc.alphas))
	rc.alphas = append(rc.alphas, alphas...)
	for i := range strips {
		strips[i].Col += base
	}

	premul := color.toPremulBytes()
	wideColor := wide.Color{R: premul[0], G: premul[1], B: premul[2], A: premul[3]}
	wide.Compile(rc.grid, strips, rule, wideColor, rc.Blend)
}
