package texture

import (
	"fmt"
	"image"
	"math"

	"cpu-raytracer/internal/mathutil"
)

// Environment returns the background radiance seen along a direction.
type Environment interface {
	Sample(dir mathutil.Vec3) mathutil.Vec3
}

// SphericalMap projects an equirectangular image onto the unit sphere.
type SphericalMap struct {
	Sampler
}

// NewSphericalMap wraps img with repeat addressing so longitude wraps.
func NewSphericalMap(img *image.NRGBA, filter Filter) *SphericalMap {
	return &SphericalMap{Sampler{Image: img, Filter: filter, Address: Repeat}}
}

// 1/(2π) and 1/π
const (
	invTwoPi = 0.5 / math.Pi
	invPi    = 1 / math.Pi
)

func (m *SphericalMap) Sample(dir mathutil.Vec3) mathutil.Vec3 {
	d := dir.Normalize()
	u := math.Atan2(d[0], d[2])*invTwoPi + 0.5
	v := 1 - (math.Asin(clampUnit(d[1]))*invPi + 0.5)
	c := m.Sampler.Sample(u, v)
	return mathutil.Vec3{c[0], c[1], c[2]}
}

// Cube face order.
const (
	FacePositiveX = iota
	FaceNegativeX
	FacePositiveY
	FaceNegativeY
	FacePositiveZ
	FaceNegativeZ
)

// Cubemap samples one of six face images by the dominant direction axis.
type Cubemap struct {
	Faces [6]Sampler
}

// NewCubemap builds a cubemap from six images in +X, -X, +Y, -Y, +Z, -Z order.
func NewCubemap(faces []*image.NRGBA, filter Filter) (*Cubemap, error) {
	if len(faces) != 6 {
		return nil, fmt.Errorf("texture: cubemap needs 6 faces, got %d", len(faces))
	}
	cm := &Cubemap{}
	for i, img := range faces {
		if img == nil {
			return nil, fmt.Errorf("texture: cubemap face %d is nil", i)
		}
		cm.Faces[i] = Sampler{Image: img, Filter: filter, Address: ClampToEdge}
	}
	return cm, nil
}

// FaceUV picks the cube face for dir and the (u, v) coordinate on it, with
// v = 0 at the top row of the face image.
func FaceUV(dir mathutil.Vec3) (face int, u, v float64) {
	ax, ay, az := math.Abs(dir[0]), math.Abs(dir[1]), math.Abs(dir[2])

	var major, su, sv float64
	switch {
	case ax >= ay && ax >= az && dir[0] >= 0:
		face, major, su, sv = FacePositiveX, ax, -dir[2], dir[1]
	case ax >= ay && ax >= az:
		face, major, su, sv = FaceNegativeX, ax, dir[2], dir[1]
	case ay >= ax && ay >= az && dir[1] >= 0:
		face, major, su, sv = FacePositiveY, ay, dir[0], -dir[2]
	case ay >= ax && ay >= az:
		face, major, su, sv = FaceNegativeY, ay, dir[0], dir[2]
	case dir[2] >= 0:
		face, major, su, sv = FacePositiveZ, az, dir[0], dir[1]
	default:
		face, major, su, sv = FaceNegativeZ, az, -dir[0], dir[1]
	}
	if major == 0 {
		return FacePositiveZ, 0.5, 0.5
	}

	u = 0.5 * (su/major + 1)
	v = 1 - 0.5*(sv/major+1)
	return face, u, v
}

func (c *Cubemap) Sample(dir mathutil.Vec3) mathutil.Vec3 {
	face, u, v := FaceUV(dir)
	s := c.Faces[face].Sample(u, v)
	return mathutil.Vec3{s[0], s[1], s[2]}
}

func clampUnit(x float64) float64 {
	if x < -1 {
		return -1
	}
	if x > 1 {
		return 1
	}
	return x
}
