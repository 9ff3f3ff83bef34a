package raster

import (
	"fmt"
	"math"
	"strings"
)

// belowOne is the largest float64 smaller than 1.
var belowOne = math.Nextafter(1, 0)

// Tonemapper maps a non-negative linear HDR channel value into [0,1).
type Tonemapper func(x float64) float64

// Reinhard maps x to x/(x+1). Zero maps to zero and no finite input reaches 1.
func Reinhard(x float64) float64 {
	if !(x > 0) {
		return 0
	}
	if v := x / (x + 1); v < 1 {
		return v
	}
	return belowOne
}

// ACESTonemap applies ACES Filmic tone mapping to a linear value.
func ACESTonemap(x float64) float64 {
	if !(x > 0) {
		return 0
	}
	v := (x * (2.51*x + 0.03)) / (x*(2.43*x+0.59) + 0.14)
	if v < 1 {
		return v
	}
	// the curve tends to 2.51/2.43; NaN from infinite input lands here too
	return belowOne
}

// TonemapByName resolves a tone mapping operator from its config name.
func TonemapByName(name string) (Tonemapper, error) {
	switch strings.ToLower(name) {
	case "", "reinhard":
		return Reinhard, nil
	case "aces":
		return ACESTonemap, nil
	default:
		return nil, fmt.Errorf("raster: unknown tonemap %q", name)
	}
}
