// Package primitive holds the geometric objects a scene is built from.
// Every variant answers two queries: the distance along a ray to its
// surface and the unsigned distance from an arbitrary point to its surface.
package primitive

import "cpu-raytracer/internal/mathutil"

// Flags modify how an intersection query is evaluated.
type Flags uint32

const (
	// ConsiderInside accepts the exit point of a ray whose origin lies
	// strictly inside the primitive.
	ConsiderInside Flags = 1 << iota
)

// Material describes the surface of a primitive.
type Material struct {
	Albedo    mathutil.Vec3 `json:"albedo"`
	Roughness float64       `json:"roughness"`
	Metallic  float64       `json:"metallic"`
	Opacity   float64       `json:"opacity"`
}

// Primitive is the closed set of geometry the tracer understands:
// *Sphere, *DistanceSphere and *InfPlane.
type Primitive interface {
	// Intersect returns the ray parameter of the nearest valid hit, or
	// exactly tMax when there is none within range.
	Intersect(ray mathutil.Ray, tMax float64, flags Flags) float64

	// Distance returns the unsigned distance from p to the surface.
	// It is not capped at any maximum.
	Distance(p mathutil.Vec3) float64

	// Normal returns the outward unit normal at a surface point p.
	Normal(p mathutil.Vec3) mathutil.Vec3

	Material() Material
	SetMaterial(m Material)

	// Clone returns a deep copy that shares no state with the receiver.
	Clone() Primitive
}
