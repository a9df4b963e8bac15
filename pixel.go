package largeview

import (
	"image"
	"image/color"
)

// RGB565Color is a 16-bit color with 5 bits red, 6 bits green and 5 bits
// blue. It is always opaque.
type RGB565Color uint16

// RGBA implements color.Color.
func (c RGB565Color) RGBA() (r, g, b, a uint32) {
	r8, g8, b8 := c.expand()
	r = uint32(r8) | uint32(r8)<<8
	g = uint32(g8) | uint32(g8)<<8
	b = uint32(b8) | uint32(b8)<<8
	return r, g, b, 0xffff
}

// expand widens the channels to 8 bits, replicating the high bits into the
// low bits so that full intensity maps to 0xff.
func (c RGB565Color) expand() (r, g, b uint8) {
	r5 := uint8(c>>11) & 0x1f
	g6 := uint8(c>>5) & 0x3f
	b5 := uint8(c) & 0x1f
	return r5<<3 | r5>>2, g6<<2 | g6>>4, b5<<3 | b5>>2
}

// PackRGB565 packs 8-bit channels into an RGB565Color.
func PackRGB565(r, g, b uint8) RGB565Color {
	return RGB565Color(uint16(r&0xf8)<<8 | uint16(g&0xfc)<<3 | uint16(b)>>3)
}

// RGB565Model converts any color to RGB565Color, dropping alpha.
var RGB565Model = color.ModelFunc(rgb565Model)

func rgb565Model(c color.Color) color.Color {
	if c, ok := c.(RGB565Color); ok {
		return c
	}
	r, g, b, _ := c.RGBA()
	return PackRGB565(uint8(r>>8), uint8(g>>8), uint8(b>>8))
}

// RGB565 is an in-memory image of RGB565Color values stored little-endian,
// two bytes per pixel. It halves the memory of a decoded region compared to
// RGBA and implements draw.Image.
type RGB565 struct {
	// Pix holds the pixels. The pixel at (x, y) starts at
	// Pix[(y-Rect.Min.Y)*Stride + (x-Rect.Min.X)*2].
	Pix    []uint8
	Stride int
	Rect   image.Rectangle
}

// NewRGB565 returns a new RGB565 image with the given bounds.
func NewRGB565(r image.Rectangle) *RGB565 {
	w, h := r.Dx(), r.Dy()
	if w <= 0 || h <= 0 {
		return &RGB565{Rect: r}
	}
	return &RGB565{Pix: make([]uint8, 2*w*h), Stride: 2 * w, Rect: r}
}

func (p *RGB565) ColorModel() color.Model { return RGB565Model }

func (p *RGB565) Bounds() image.Rectangle { return p.Rect }

func (p *RGB565) At(x, y int) color.Color {
	return p.RGB565At(x, y)
}

// RGB565At returns the packed color at (x, y), or 0 outside the bounds.
func (p *RGB565) RGB565At(x, y int) RGB565Color {
	if !(image.Point{x, y}.In(p.Rect)) {
		return 0
	}
	i := p.PixOffset(x, y)
	return RGB565Color(uint16(p.Pix[i]) | uint16(p.Pix[i+1])<<8)
}

// PixOffset returns the index of the first element of Pix that corresponds
// to the pixel at (x, y).
func (p *RGB565) PixOffset(x, y int) int {
	return (y-p.Rect.Min.Y)*p.Stride + (x-p.Rect.Min.X)*2
}

func (p *RGB565) Set(x, y int, c color.Color) {
	if !(image.Point{x, y}.In(p.Rect)) {
		return
	}
	p.SetRGB565(x, y, rgb565Model(c).(RGB565Color))
}

// SetRGB565 stores a packed color at (x, y).
func (p *RGB565) SetRGB565(x, y int, c RGB565Color) {
	if !(image.Point{x, y}.In(p.Rect)) {
		return
	}
	i := p.PixOffset(x, y)
	p.Pix[i] = uint8(c)
	p.Pix[i+1] = uint8(c >> 8)
}

// Opaque reports true; RGB565 has no alpha channel.
func (p *RGB565) Opaque() bool { return true }

// SubImage returns an image representing the portion of p visible through
// r. The returned value shares pixels with the original image.
func (p *RGB565) SubImage(r image.Rectangle) image.Image {
	r = r.Intersect(p.Rect)
	if r.Empty() {
		return &RGB565{}
	}
	i := p.PixOffset(r.Min.X, r.Min.Y)
	return &RGB565{
		Pix:    p.Pix[i:],
		Stride: p.Stride,
		Rect:   r,
	}
}

// toRGBA writes img into dst as premultiplied 8-bit RGBA, the layout expected by
// ebiten.Image.WritePixels. dst must hold 4*w*h bytes.
func toRGBA(dst []byte, img image.Image) {
	b := img.Bounds()
	w := b.Dx()
	switch src := img.(type) {
	case *RGB565:
		for y := b.Min.Y; y < b.Max.Y; y++ {
			row := (y - b.Min.Y) * w * 4
			si := src.PixOffset(b.Min.X, y)
			for x := 0; x < w; x++ {
				c := RGB565Color(uint16(src.Pix[si]) | uint16(src.Pix[si+1])<<8)
				r, g, bl := c.expand()
				o := row + x*4
				dst[o] = r
				dst[o+1] = g
				dst[o+2] = bl
				dst[o+3] = 0xff
				si += 2
			}
		}
	case *image.RGBA:
		for y := b.Min.Y; y < b.Max.Y; y++ {
			si := src.PixOffset(b.Min.X, y)
			copy(dst[(y-b.Min.Y)*w*4:], src.Pix[si:si+w*4])
		}
	default:
		for y := b.Min.Y; y < b.Max.Y; y++ {
			row := (y - b.Min.Y) * w * 4
			for x := b.Min.X; x < b.Max.X; x++ {
				c := color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
				o := row + (x-b.Min.X)*4
				dst[o] = c.R
				dst[o+1] = c.G
				dst[o+2] = c.B
				dst[o+3] = c.A
			}
		}
	}
}
