// Package output encodes finished frames to disk.
package output

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"

	"cpu-raytracer/internal/raster"
)

// ErrUnknownFormat is returned for file extensions with no encoder.
var ErrUnknownFormat = errors.New("output: unknown image format")

// Format is an output encoding.
type Format string

const (
	PNG  Format = "png"
	WebP Format = "webp"
)

// ParseFormat resolves a format name; the empty string means PNG.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(name, ".")) {
	case "", "png":
		return PNG, nil
	case "webp":
		return WebP, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
}

// FormatFor picks the encoder from a file extension.
func FormatFor(path string) (Format, error) {
	return ParseFormat(filepath.Ext(path))
}

// Ext is the file extension for f, including the dot.
func (f Format) Ext() string {
	return "." + string(f)
}

// Encode writes img to w in format f. WebP output is lossless.
func Encode(w io.Writer, img image.Image, f Format) error {
	switch f {
	case PNG:
		return png.Encode(w, img)
	case WebP:
		return nativewebp.Encode(w, img, nil)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, string(f))
	}
}

// WriteImage encodes fb to path, creating parent directories. The format
// follows the file extension.
func WriteImage(path string, fb *raster.FrameBuffer) error {
	img, err := fb.ToNRGBA()
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return WriteNRGBA(path, img)
}

// WriteNRGBA is WriteImage for an already expanded image.
func WriteNRGBA(path string, img image.Image) error {
	f, err := FormatFor(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Encode(out, img, f); err != nil {
		out.Close()
		return fmt.Errorf("%s encode: %w", f, err)
	}
	return out.Close()
}
