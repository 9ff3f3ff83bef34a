package raster

import (
	"errors"
	"fmt"
	"image"
	"math"
)

var (
	ErrNilData     = errors.New("raster: nil pixel data")
	ErrZeroSize    = errors.New("raster: zero-sized image")
	ErrOutOfRange  = errors.New("raster: pixel out of range")
	ErrOutOfMemory = errors.New("raster: image too large")
)

// Channels per pixel in a FrameBuffer.
const Channels = 3

// maxPixels bounds a single allocation so absurd sizes fail as an error
// instead of taking the process down.
const maxPixels = 1 << 28

// FrameBuffer holds 8-bit RGB pixels, tightly packed, row-major, no padding.
type FrameBuffer struct {
	Width  int
	Height int
	Pix    []uint8 // RGB interleaved, len = W*H*3
}

// NewFrameBuffer allocates a zeroed (black) framebuffer.
func NewFrameBuffer(w, h int) (*FrameBuffer, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrZeroSize, w, h)
	}
	if int64(w)*int64(h) > maxPixels {
		return nil, fmt.Errorf("%w: %dx%d", ErrOutOfMemory, w, h)
	}
	return &FrameBuffer{
		Width:  w,
		Height: h,
		Pix:    make([]uint8, w*h*Channels),
	}, nil
}

// Stride is the number of bytes per row.
func (fb *FrameBuffer) Stride() int {
	return fb.Width * Channels
}

// Index returns the offset of pixel (x, y) in Pix.
func (fb *FrameBuffer) Index(x, y int) int {
	return (y*fb.Width + x) * Channels
}

// Set stores an RGB triple at (x, y).
func (fb *FrameBuffer) Set(x, y int, r, g, b uint8) error {
	if x < 0 || y < 0 || x >= fb.Width || y >= fb.Height {
		return fmt.Errorf("%w: (%d,%d) in %dx%d", ErrOutOfRange, x, y, fb.Width, fb.Height)
	}
	i := fb.Index(x, y)
	fb.Pix[i] = r
	fb.Pix[i+1] = g
	fb.Pix[i+2] = b
	return nil
}

// At returns the RGB triple at (x, y).
func (fb *FrameBuffer) At(x, y int) (r, g, b uint8, err error) {
	if x < 0 || y < 0 || x >= fb.Width || y >= fb.Height {
		return 0, 0, 0, fmt.Errorf("%w: (%d,%d) in %dx%d", ErrOutOfRange, x, y, fb.Width, fb.Height)
	}
	i := fb.Index(x, y)
	return fb.Pix[i], fb.Pix[i+1], fb.Pix[i+2], nil
}

// Fill sets every pixel to the same RGB triple.
func (fb *FrameBuffer) Fill(r, g, b uint8) {
	for i := 0; i < len(fb.Pix); i += Channels {
		fb.Pix[i] = r
		fb.Pix[i+1] = g
		fb.Pix[i+2] = b
	}
}

// ToNRGBA expands the framebuffer into an opaque NRGBA image for encoders.
func (fb *FrameBuffer) ToNRGBA() (*image.NRGBA, error) {
	if fb == nil || fb.Pix == nil {
		return nil, ErrNilData
	}
	img := image.NewNRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for y := 0; y < fb.Height; y++ {
		src := y * fb.Stride()
		dst := y * img.Stride
		for x := 0; x < fb.Width; x++ {
			img.Pix[dst] = fb.Pix[src]
			img.Pix[dst+1] = fb.Pix[src+1]
			img.Pix[dst+2] = fb.Pix[src+2]
			img.Pix[dst+3] = 255
			src += Channels
			dst += 4
		}
	}
	return img, nil
}

// Quantize converts a [0,1] channel value to 8 bits by truncation. Values
// above 1 clamp to 255; negative and NaN values become 0.
func Quantize(v float64) uint8 {
	s := v * 255
	if !(s > 0) {
		return 0
	}
	if s >= 255 || math.IsInf(s, 1) {
		return 255
	}
	return uint8(s)
}
