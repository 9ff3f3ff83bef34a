package mathutil

import "math"

// Deg2Rad converts degrees to radians.
func Deg2Rad(d float64) float64 {
	return d * math.Pi / 180
}

// FocalLength converts a vertical field of view (degrees) into the distance
// of a unit-height image plane from a pinhole.
func FocalLength(fovDeg float64) float64 {
	half := Deg2Rad(fovDeg) / 2
	if half <= 0 || half >= math.Pi/2 {
		return 1
	}
	return 1 / math.Tan(half)
}
