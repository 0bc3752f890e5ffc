// Package wide compiles a path's strips into per-wide-tile command lists
// and holds the SIMD-friendly types and worker pool used to execute them.
//
// # Command compilation
//
// Grid holds one Tile per wide-tile cell of a frame, Width pixels wide by
// Height pixels tall. Compile walks a path's strip.Strip
// sequence and appends Fill and Strip commands to the tiles that sequence
// touches, splitting any command that crosses a wide-tile boundary and
// hoisting an opaque, full-width, SrcOver fill into the tile's background
// color instead of a command.
//
// # SIMD-style types
//
// U16x16 groups 16 uint16 lanes so the fine rasterizer's vector kernel can
// batch a scratch column's arithmetic into one set of operations instead of
// a per-byte loop, while still compiling to ordinary Go that the compiler
// can auto-vectorize on supported architectures.
//
// # Parallel dispatch
//
// WorkerPool is a work-stealing pool of goroutines. A render context
// dispatches one task per wide-tile row, since rows never share scratch
// state or output pixels, making the row the natural unit of parallel work.
package wide
