// Package postprocess resamples finished frames.
package postprocess

import (
	"image"

	"golang.org/x/image/draw"
)

// Downsample reduces a supersampled frame to w×h with CatmullRom filtering.
// Frames are opaque, so no alpha premultiplication is needed. The image is
// returned unchanged when it is already no larger than the target.
func Downsample(img *image.NRGBA, w, h int) *image.NRGBA {
	b := img.Bounds()
	if w <= 0 || h <= 0 || (b.Dx() <= w && b.Dy() <= h) {
		return img
	}

	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// Factor clamps a supersampling factor to the supported range.
func Factor(n int) int {
	switch {
	case n < 1:
		return 1
	case n > MaxFactor:
		return MaxFactor
	}
	return n
}

// MaxFactor bounds supersampling; 4× already costs 16 rays per pixel.
const MaxFactor = 4
