package largeview

import (
	"errors"
	"fmt"
	"image"
)

// ImageDimensions is the intrinsic pixel size of an opened image. Both
// components are positive once a RegionSource has been opened.
type ImageDimensions struct {
	Width, Height int
}

// Known reports whether both dimensions are positive.
func (d ImageDimensions) Known() bool {
	return d.Width > 0 && d.Height > 0
}

// SurfaceDimensions is the size of the display surface in pixels. It is zero
// until the host has laid the surface out.
type SurfaceDimensions struct {
	Width, Height int
}

// Ready reports whether the surface has been laid out with a non-empty size.
func (s SurfaceDimensions) Ready() bool {
	return s.Width > 0 && s.Height > 0
}

// ViewRect is the visible rectangle in image pixel coordinates. Right and
// Bottom are exclusive, matching image.Rectangle.
type ViewRect struct {
	Left, Top, Right, Bottom int
}

// Dx returns the rectangle width.
func (r ViewRect) Dx() int { return r.Right - r.Left }

// Dy returns the rectangle height.
func (r ViewRect) Dy() int { return r.Bottom - r.Top }

// Empty reports whether the rectangle contains no pixels.
func (r ViewRect) Empty() bool {
	return r.Left >= r.Right || r.Top >= r.Bottom
}

// Offset returns r translated by (dx, dy). Width and height are preserved.
func (r ViewRect) Offset(dx, dy int) ViewRect {
	return ViewRect{
		Left:   r.Left + dx,
		Top:    r.Top + dy,
		Right:  r.Right + dx,
		Bottom: r.Bottom + dy,
	}
}

// Clamp intersects r with the image area [0,Width]×[0,Height]. The result
// may be smaller than r; it is empty when r lies outside the image.
func (r ViewRect) Clamp(dims ImageDimensions) ViewRect {
	c := ViewRect{
		Left:   max(r.Left, 0),
		Top:    max(r.Top, 0),
		Right:  min(r.Right, dims.Width),
		Bottom: min(r.Bottom, dims.Height),
	}
	if c.Empty() {
		return ViewRect{}
	}
	return c
}

// Rectangle converts r to an image.Rectangle.
func (r ViewRect) Rectangle() image.Rectangle {
	return image.Rect(r.Left, r.Top, r.Right, r.Bottom)
}

func (r ViewRect) String() string {
	return fmt.Sprintf("(%d,%d)-(%d,%d)", r.Left, r.Top, r.Right, r.Bottom)
}

// PointerTrack is the last pointer position seen by the controller. It is
// only used to turn absolute pointer positions into deltas.
type PointerTrack struct {
	LastX, LastY int
}

// PixelFormat selects the in-memory layout of decoded regions.
type PixelFormat uint8

const (
	PixelFormatRGB565 PixelFormat = iota // 16-bit packed, 2 bytes per pixel (default)
	PixelFormatRGBA                      // 8-bit RGBA, 4 bytes per pixel
)

func (f PixelFormat) String() string {
	switch f {
	case PixelFormatRGB565:
		return "rgb565"
	case PixelFormatRGBA:
		return "rgba"
	default:
		return fmt.Sprintf("PixelFormat(%d)", uint8(f))
	}
}

// ParsePixelFormat maps a config string to a PixelFormat.
func ParsePixelFormat(s string) (PixelFormat, error) {
	switch s {
	case "", "rgb565", "565":
		return PixelFormatRGB565, nil
	case "rgba", "rgba8888":
		return PixelFormatRGBA, nil
	}
	return 0, fmt.Errorf("unknown pixel format %q", s)
}

// Standard errors reported by RegionSource.
var (
	ErrUnsupportedFormat = errors.New("unsupported image format")
	ErrEmptyRegion       = errors.New("region does not intersect the image")
	ErrClosed            = errors.New("region source is closed")
)

// OpenError is returned by Open when the stream cannot be read or is not a
// supported raster format. It is fatal for that image.
type OpenError struct {
	Err error
}

func (e *OpenError) Error() string { return "open image: " + e.Err.Error() }

func (e *OpenError) Unwrap() error { return e.Err }

// DecodeError is returned by DecodeRegion. It only affects the frame that
// requested Rect; the next request is attempted normally.
type DecodeError struct {
	Rect ViewRect
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode region %v: %v", e.Rect, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
