package strips

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
)

// Compile-time interface checks.
var (
	_ image.Image = (*Pixmap)(nil)
	_ draw.Image  = (*Pixmap)(nil)
)

// Pixmap is a rectangular buffer of premultiplied sRGB RGBA pixels, the
// output format produced by RenderContext.RenderToPixmap. It implements
// both image.Image (read-only) and draw.Image (read-write), so a Pixmap
// can be handed to any stdlib or ecosystem image consumer.
type Pixmap struct {
	width  int
	height int
	data   []uint8 // premultiplied RGBA, 4 bytes per pixel
}

// NewPixmap allocates a pixmap of the given dimensions. It returns an
// error instead of panicking for invalid or overflowing sizes, since
// caller-supplied dimensions are the one place this module validates
// input.
func NewPixmap(width, height int) (*Pixmap, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.New("strips: pixmap dimensions must be positive")
	}
	n := width * height
	if n/width != height || n > (1<<62)/4 {
		return nil, errors.New("strips: pixmap dimensions overflow")
	}
	return &Pixmap{
		width:  width,
		height: height,
		data:   make([]uint8, n*4),
	}, nil
}

// Width returns the width of the pixmap.
func (p *Pixmap) Width() int { return p.width }

// Height returns the height of the pixmap.
func (p *Pixmap) Height() int { return p.height }

// Data returns the raw premultiplied RGBA pixel buffer, row-major.
func (p *Pixmap) Data() []uint8 { return p.data }

// SetPixel sets a single pixel from a non-premultiplied AlphaColor.
func (p *Pixmap) SetPixel(x, y int, c AlphaColor) {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return
	}
	i := (y*p.width + x) * 4
	b := c.toPremulBytes()
	p.data[i+0], p.data[i+1], p.data[i+2], p.data[i+3] = b[0], b[1], b[2], b[3]
}

// GetPixel returns the non-premultiplied color of a single pixel.
func (p *Pixmap) GetPixel(x, y int) AlphaColor {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return Transparent
	}
	i := (y*p.width + x) * 4
	return unpremulBytes(p.data[i], p.data[i+1], p.data[i+2], p.data[i+3])
}

func unpremulBytes(r, g, b, a uint8) AlphaColor {
	if a == 0 {
		return Transparent
	}
	af := float32(a) / 255
	return AlphaColor{
		R: float32(r) / 255 / af,
		G: float32(g) / 255 / af,
		B: float32(b) / 255 / af,
		A: af,
	}
}

// Clear fills the entire pixmap with a solid color.
func (p *Pixmap) Clear(c AlphaColor) {
	b := c.toPremulBytes()
	for i := 0; i < len(p.data); i += 4 {
		p.data[i+0], p.data[i+1], p.data[i+2], p.data[i+3] = b[0], b[1], b[2], b[3]
	}
}

// ToImage converts the pixmap to a straight-alpha *image.NRGBA, unpremultiplying
// every pixel. This is the boundary at which this module hands a result to
// the standard image ecosystem; no encoder is implemented here.
func (p *Pixmap) ToImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, p.width, p.height))
	for y := 0; y < p.height; y++ {
		for x := 0; x < p.width; x++ {
			n := p.GetPixel(x, y).ToNRGBA()
			img.SetNRGBA(x, y, n)
		}
	}
	return img
}

// At implements image.Image.
func (p *Pixmap) At(x, y int) color.Color {
	return p.GetPixel(x, y).ToNRGBA()
}

// Set implements draw.Image.
func (p *Pixmap) Set(x, y int, c color.Color) {
	r, g, b, a := c.RGBA()
	p.SetPixel(x, y, AlphaColor{
		R: float32(r) / 65535,
		G: float32(g) / 65535,
		B: float32(b) / 65535,
		A: float32(a) / 65535,
	})
}

// Bounds implements image.Image.
func (p *Pixmap) Bounds() image.Rectangle {
	return image.Rect(0, 0, p.width, p.height)
}

// ColorModel implements image.Image.
func (p *Pixmap) ColorModel() color.Model {
	return color.NRGBAModel
}
