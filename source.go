package largeview

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/gen2brain/jpegn"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// SourceOptions configures Open and OpenFile. The zero value decodes to
// RGB565 and logs nothing.
type SourceOptions struct {
	// Format is the pixel layout of buffers returned by DecodeRegion.
	Format PixelFormat
	// Logger receives debug timings. Nil discards.
	Logger *slog.Logger
}

// regionReader produces pixels for a rectangle already clamped to the image.
type regionReader interface {
	readRegion(rect ViewRect, sampleSize int, format PixelFormat) (image.Image, error)
}

// RegionSource wraps an encoded image and answers region queries against it.
// It holds the opened handle until Close.
type RegionSource struct {
	handle io.ReaderAt
	size   int64
	closer io.Closer

	format string
	dims   ImageDimensions
	pixfmt PixelFormat
	reader regionReader
	logger *slog.Logger

	// mu serializes decodes; the underlying decoders are not reentrant.
	mu     sync.Mutex
	closed bool
}

// sizedReaderAt is satisfied by *bytes.Reader, *strings.Reader and
// *io.SectionReader.
type sizedReaderAt interface {
	io.ReaderAt
	Size() int64
}

// Open reads an encoded image from r and prepares it for region decoding.
// The image dimensions are determined by a bounds-only probe. If r supports
// random access it is used in place and must stay valid until Close;
// otherwise its contents are read into memory. Open never closes r.
func Open(r io.Reader, opts *SourceOptions) (*RegionSource, error) {
	if sr, ok := r.(sizedReaderAt); ok {
		return newRegionSource(sr, sr.Size(), nil, opts)
	}
	data, err := readAllData(r)
	if err != nil {
		return nil, &OpenError{Err: err}
	}
	return newRegionSource(bytes.NewReader(data), int64(len(data)), nil, opts)
}

// OpenFile opens the image file at path. The file is read on demand and
// released by Close.
func OpenFile(path string, opts *SourceOptions) (*RegionSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &OpenError{Err: err}
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, &OpenError{Err: fmt.Errorf("stat %s: %w", path, err)}
	}
	src, err := newRegionSource(f, fi.Size(), f, opts)
	if err != nil {
		f.Close()
		return nil, err
	}
	return src, nil
}

// readAllData reads data from r, pre-allocating if the size is known.
func readAllData(r io.Reader) ([]byte, error) {
	if rl, ok := r.(interface{ Len() int }); ok {
		if size := rl.Len(); size > 0 {
			data := make([]byte, size)
			if _, err := io.ReadFull(r, data); err != nil {
				return nil, fmt.Errorf("read image data: %w", err)
			}
			return data, nil
		}
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read image data: %w", err)
	}
	return data, nil
}

func newRegionSource(handle io.ReaderAt, size int64, closer io.Closer, opts *SourceOptions) (*RegionSource, error) {
	var o SourceOptions
	if opts != nil {
		o = *opts
	}
	logger := o.Logger
	if logger == nil {
		logger = discardLogger()
	}

	cfg, format, err := image.DecodeConfig(io.NewSectionReader(handle, 0, size))
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return nil, &OpenError{Err: ErrUnsupportedFormat}
		}
		return nil, &OpenError{Err: fmt.Errorf("probe bounds: %w", err)}
	}
	dims := ImageDimensions{Width: cfg.Width, Height: cfg.Height}
	if !dims.Known() {
		return nil, &OpenError{Err: fmt.Errorf("%w: %s image is %dx%d", ErrUnsupportedFormat, format, cfg.Width, cfg.Height)}
	}

	var reader regionReader
	if format == "bmp" {
		br, err := newBMPRegionReader(handle, size, dims)
		if err == nil {
			reader = br
		} else {
			logger.Debug("bmp region reader unavailable, using raster path", "err", err)
		}
	}
	if reader == nil {
		reader = &rasterRegionReader{handle: handle, size: size, format: format}
	}

	logger.Debug("opened image", "format", format, "width", dims.Width, "height", dims.Height, "pixel_format", o.Format.String())

	return &RegionSource{
		handle: handle,
		size:   size,
		closer: closer,
		format: format,
		dims:   dims,
		pixfmt: o.Format,
		reader: reader,
		logger: logger,
	}, nil
}

// Dimensions returns the intrinsic image size.
func (s *RegionSource) Dimensions() ImageDimensions {
	return s.dims
}

// Format returns the registered name of the image format, e.g. "jpeg".
func (s *RegionSource) Format() string {
	return s.format
}

// PixelFormat returns the layout of buffers produced by DecodeRegion.
func (s *RegionSource) PixelFormat() PixelFormat {
	return s.pixfmt
}

// DecodeRegion returns the pixels inside rect. rect is clamped to the image
// bounds first; the returned image has bounds (0,0)-(w,h) where w and h are
// the clamped size divided by sampleSize, rounded up. A sampleSize below 1
// is treated as 1.
func (s *RegionSource) DecodeRegion(rect ViewRect, sampleSize int) (image.Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, &DecodeError{Rect: rect, Err: ErrClosed}
	}
	clamped := rect.Clamp(s.dims)
	if clamped.Empty() {
		return nil, &DecodeError{Rect: rect, Err: ErrEmptyRegion}
	}
	if sampleSize < 1 {
		sampleSize = 1
	}

	start := time.Now()
	img, err := s.reader.readRegion(clamped, sampleSize, s.pixfmt)
	if err != nil {
		return nil, &DecodeError{Rect: clamped, Err: err}
	}
	s.logger.Debug("decoded region",
		"rect", clamped.String(),
		"sample", sampleSize,
		"elapsed", time.Since(start))
	return img, nil
}

// Close releases the file opened by OpenFile. Further DecodeRegion calls
// fail with ErrClosed. Close is idempotent.
func (s *RegionSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}

// sampledSize is the output length of n source pixels taken every sample
// pixels.
func sampledSize(n, sample int) int {
	return (n + sample - 1) / sample
}

// newRegionBuffer allocates an origin-anchored buffer in the given format.
func newRegionBuffer(w, h int, format PixelFormat) draw.Image {
	r := image.Rect(0, 0, w, h)
	if format == PixelFormatRGBA {
		return image.NewRGBA(r)
	}
	return NewRGB565(r)
}

// pixelSetter returns a fast opaque-pixel writer for buffers made by
// newRegionBuffer.
func pixelSetter(dst draw.Image) func(x, y int, r, g, b uint8) {
	switch d := dst.(type) {
	case *RGB565:
		return func(x, y int, r, g, b uint8) {
			d.SetRGB565(x, y, PackRGB565(r, g, b))
		}
	case *image.RGBA:
		return func(x, y int, r, g, b uint8) {
			i := d.PixOffset(x, y)
			d.Pix[i] = r
			d.Pix[i+1] = g
			d.Pix[i+2] = b
			d.Pix[i+3] = 0xff
		}
	default:
		return func(x, y int, r, g, b uint8) {
			d.Set(x, y, color.RGBA{R: r, G: g, B: b, A: 0xff})
		}
	}
}

// rasterRegionReader handles compressed formats that offer no random access.
// Each call decodes the stream, crops, and converts; nothing decoded is kept
// between calls.
type rasterRegionReader struct {
	handle io.ReaderAt
	size   int64
	format string
}

func (r *rasterRegionReader) decode() (image.Image, error) {
	sr := io.NewSectionReader(r.handle, 0, r.size)
	if r.format == "jpeg" {
		// jpegn falls back to image/jpeg for progressive and CMYK streams.
		return jpegn.Decode(sr)
	}
	img, _, err := image.Decode(sr)
	return img, err
}

func (r *rasterRegionReader) readRegion(rect ViewRect, sampleSize int, format PixelFormat) (image.Image, error) {
	img, err := r.decode()
	if err != nil {
		return nil, err
	}
	b := img.Bounds()
	sr := rect.Rectangle().Add(b.Min).Intersect(b)
	if sr.Empty() {
		return nil, ErrEmptyRegion
	}

	dst := newRegionBuffer(sampledSize(sr.Dx(), sampleSize), sampledSize(sr.Dy(), sampleSize), format)
	if sampleSize == 1 {
		draw.Copy(dst, image.Point{}, img, sr, draw.Src, nil)
	} else {
		draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, sr, draw.Src, nil)
	}
	return dst, nil
}
