package texture

import (
	"fmt"
	"image"
	"math"
	"strings"
)

// Filter selects how texels are combined.
type Filter int

const (
	Nearest Filter = iota
	Bilinear
)

// ParseFilter resolves a filter from its config name.
func ParseFilter(name string) (Filter, error) {
	switch strings.ToLower(name) {
	case "", "nearest":
		return Nearest, nil
	case "linear", "bilinear":
		return Bilinear, nil
	default:
		return Nearest, fmt.Errorf("texture: unknown filter %q", name)
	}
}

// AddressMode decides what happens to coordinates outside [0,1].
type AddressMode int

const (
	Repeat AddressMode = iota
	MirroredRepeat
	ClampToEdge
	ClampToBorder
)

// RGBA is a normalized floating-point color.
type RGBA [4]float64

// Sampler reads filtered colors from an NRGBA image. Safe for concurrent use
// as long as the image is not modified.
type Sampler struct {
	Image   *image.NRGBA
	Filter  Filter
	Address AddressMode
	Border  RGBA
}

// Sample returns the color at texture coordinate (u, v); (0,0) is the
// top-left corner of the image.
func (s *Sampler) Sample(u, v float64) RGBA {
	if s.Image == nil {
		return s.Border
	}
	w := s.Image.Rect.Dx()
	h := s.Image.Rect.Dy()
	if w == 0 || h == 0 || math.IsNaN(u) || math.IsNaN(v) {
		return s.Border
	}

	if s.Filter == Nearest {
		return s.texel(int(math.Floor(u*float64(w))), int(math.Floor(v*float64(h))))
	}

	// Bilinear around texel centers
	fx := u*float64(w) - 0.5
	fy := v*float64(h) - 0.5
	x0 := int(math.Floor(fx))
	y0 := int(math.Floor(fy))
	dx := fx - float64(x0)
	dy := fy - float64(y0)

	c00 := s.texel(x0, y0)
	c10 := s.texel(x0+1, y0)
	c01 := s.texel(x0, y0+1)
	c11 := s.texel(x0+1, y0+1)

	w00 := (1 - dx) * (1 - dy)
	w10 := dx * (1 - dy)
	w01 := (1 - dx) * dy
	w11 := dx * dy

	var out RGBA
	for i := 0; i < 4; i++ {
		out[i] = c00[i]*w00 + c10[i]*w10 + c01[i]*w01 + c11[i]*w11
	}
	return out
}

// texel fetches one pixel after applying the address mode.
func (s *Sampler) texel(x, y int) RGBA {
	w := s.Image.Rect.Dx()
	h := s.Image.Rect.Dy()
	x, okX := s.address(x, w)
	y, okY := s.address(y, h)
	if !okX || !okY {
		return s.Border
	}

	i := y*s.Image.Stride + x*4
	pix := s.Image.Pix
	return RGBA{
		float64(pix[i]) / 255,
		float64(pix[i+1]) / 255,
		float64(pix[i+2]) / 255,
		float64(pix[i+3]) / 255,
	}
}

// address maps an integer texel coordinate into [0, n). ok is false when
// the coordinate falls on the border.
func (s *Sampler) address(c, n int) (int, bool) {
	switch s.Address {
	case Repeat:
		return ((c % n) + n) % n, true
	case MirroredRepeat:
		period := 2 * n
		m := ((c % period) + period) % period
		if m >= n {
			m = period - 1 - m
		}
		return m, true
	case ClampToEdge:
		if c < 0 {
			return 0, true
		}
		if c >= n {
			return n - 1, true
		}
		return c, true
	default:
		if c < 0 || c >= n {
			return 0, false
		}
		return c, true
	}
}
