package shader

import (
	"github.com/go-gl/mathgl/mgl64"

	"cpu-raytracer/internal/mathutil"
	"cpu-raytracer/internal/scene"
)

// Camera is a pinhole camera. Image-plane points (x, y, focal) are rotated
// into world space by the camera basis.
type Camera struct {
	origin mathutil.Vec3
	basis  mgl64.Mat3 // columns: right, up, forward
	focal  float64
}

// NewCamera builds the orthonormal basis for c. A zero look direction faces
// +Z; an up vector parallel to the look direction is replaced by +Z or +X.
func NewCamera(c scene.Camera) *Camera {
	forward := c.LookAt.Sub(c.Origin).Normalize()
	if forward.IsZero() {
		forward = mathutil.Vec3{0, 0, 1}
	}
	up := c.Up
	if up.IsZero() {
		up = mathutil.Vec3{0, 1, 0}
	}

	right := up.Cross(forward).Normalize()
	if right.IsZero() {
		alt := mathutil.Vec3{0, 0, 1}
		if forward[2] != 0 {
			alt = mathutil.Vec3{1, 0, 0}
		}
		right = alt.Cross(forward).Normalize()
	}
	camUp := forward.Cross(right)

	focal := c.FocalLength
	if !(focal > 0) {
		focal = scene.DefaultFocalLength
	}

	return &Camera{
		origin: c.Origin,
		basis:  mgl64.Mat3FromCols(mgl64.Vec3(right), mgl64.Vec3(camUp), mgl64.Vec3(forward)),
		focal:  focal,
	}
}

// Ray returns the primary ray through image-plane point (x, y).
func (c *Camera) Ray(x, y float64) mathutil.Ray {
	d := c.basis.Mul3x1(mgl64.Vec3{x, y, c.focal})
	return mathutil.Ray{
		Origin:    c.origin,
		Direction: mathutil.Vec3(d).Normalize(),
	}
}

// Origin is the camera position.
func (c *Camera) Origin() mathutil.Vec3 {
	return c.origin
}
