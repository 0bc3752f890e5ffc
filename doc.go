// Package strips is a CPU sparse-strip 2D vector rasterizer.
//
// # Overview
//
// A path is flattened to line segments, the segments are binned into 4x4
// pixel tiles, the tiler's output is swept into vertical coverage strips
// with packed per-pixel alpha, and a wide-tile command compiler turns those
// strips into a short list of Fill/Strip commands per 256x4 pixel wide
// tile. The fine rasterizer executes those commands against a small
// scratch buffer and packs the result into a Pixmap.
//
//	rc := strips.NewRenderContext(256, 256)
//	rc.FillPath(path, strips.Opaque(1, 0, 0))
//	pm, err := rc.Pixmap()
//
// # Packages
//
//   - internal/geom: tile and sub-pixel coordinate primitives
//   - internal/tiler: line-to-tile binning
//   - internal/strip: signed-area coverage integration into strips
//   - internal/wide: wide-tile command compilation and parallel dispatch
//   - internal/fine: command execution into a pixel scratch buffer
//   - internal/blend: Porter-Duff compositing math
//   - internal/flatten: Bezier curve flattening
//   - internal/stroke: stroke-to-fill outline expansion
//
// # Coordinate system
//
// Origin (0,0) at top-left, x increases right, y increases down, matching
// the pixel buffer's row-major layout.
//
// # Color
//
// AlphaColor stores non-premultiplied sRGB channels in [0,1]; the pipeline
// premultiplies internally and Pixmap stores premultiplied bytes.
package strips
