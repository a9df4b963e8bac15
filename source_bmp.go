package largeview

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"io"
)

const (
	bmpFileHeaderLen  = 14
	bmpInfoHeaderLen  = 40
	bmpCompressionRGB = 0
)

var errBMPLayout = errors.New("bmp layout not readable by region")

// bmpRegionReader reads uncompressed 24 and 32 bpp bitmaps one row at a
// time, touching only the rows and columns of the requested rectangle.
type bmpRegionReader struct {
	handle    io.ReaderAt
	pixOffset int64
	width     int
	height    int
	bpp       int
	stride    int
	topDown   bool
}

func newBMPRegionReader(handle io.ReaderAt, size int64, dims ImageDimensions) (*bmpRegionReader, error) {
	var hdr [bmpFileHeaderLen + bmpInfoHeaderLen]byte
	if n, err := handle.ReadAt(hdr[:], 0); n < len(hdr) {
		return nil, fmt.Errorf("read bmp header: %w", err)
	}
	if hdr[0] != 'B' || hdr[1] != 'M' {
		return nil, fmt.Errorf("%w: bad magic", errBMPLayout)
	}

	le := binary.LittleEndian
	pixOffset := int64(le.Uint32(hdr[10:14]))
	infoLen := le.Uint32(hdr[14:18])
	width := int(int32(le.Uint32(hdr[18:22])))
	height := int(int32(le.Uint32(hdr[22:26])))
	planes := le.Uint16(hdr[26:28])
	bpp := int(le.Uint16(hdr[28:30]))
	compression := le.Uint32(hdr[30:34])

	if infoLen < bmpInfoHeaderLen || planes != 1 {
		return nil, fmt.Errorf("%w: info header %d bytes, %d planes", errBMPLayout, infoLen, planes)
	}
	if compression != bmpCompressionRGB || (bpp != 24 && bpp != 32) {
		return nil, fmt.Errorf("%w: %d bpp, compression %d", errBMPLayout, bpp, compression)
	}
	topDown := height < 0
	if topDown {
		height = -height
	}
	if width != dims.Width || height != dims.Height {
		return nil, fmt.Errorf("%w: header %dx%d disagrees with probe %dx%d",
			errBMPLayout, width, height, dims.Width, dims.Height)
	}

	// Rows are padded to 4 bytes.
	stride := ((width*bpp + 31) / 32) * 4
	if pixOffset+int64(stride)*int64(height) > size {
		return nil, fmt.Errorf("%w: pixel data truncated", errBMPLayout)
	}

	return &bmpRegionReader{
		handle:    handle,
		pixOffset: pixOffset,
		width:     width,
		height:    height,
		bpp:       bpp,
		stride:    stride,
		topDown:   topDown,
	}, nil
}

func (b *bmpRegionReader) readRegion(rect ViewRect, sampleSize int, format PixelFormat) (image.Image, error) {
	bytesPP := b.bpp / 8
	dw := sampledSize(rect.Dx(), sampleSize)
	dh := sampledSize(rect.Dy(), sampleSize)
	dst := newRegionBuffer(dw, dh, format)
	set := pixelSetter(dst)

	row := make([]byte, rect.Dx()*bytesPP)
	for dy := 0; dy < dh; dy++ {
		y := rect.Top + dy*sampleSize
		fileRow := y
		if !b.topDown {
			fileRow = b.height - 1 - y
		}
		off := b.pixOffset + int64(fileRow)*int64(b.stride) + int64(rect.Left*bytesPP)
		if n, err := b.handle.ReadAt(row, off); n < len(row) {
			return nil, fmt.Errorf("read row %d: %w", y, err)
		}
		for dx := 0; dx < dw; dx++ {
			i := dx * sampleSize * bytesPP
			// Stored as B, G, R[, X].
			set(dx, dy, row[i+2], row[i+1], row[i])
		}
	}
	return dst, nil
}
