package primitive

import (
	"math"

	"cpu-raytracer/internal/mathutil"
)

// InfPlane is an unbounded plane through Origin. Direction is the plane
// normal pointing away from the side the plane is visible from; only rays
// travelling along Direction (dot > 0) can hit it.
type InfPlane struct {
	Direction mathutil.Vec3
	Origin    mathutil.Vec3
	mtl       Material
}

// NewInfPlane normalizes direction. A zero direction yields a plane that
// is never hit.
func NewInfPlane(direction, origin mathutil.Vec3, mtl Material) *InfPlane {
	return &InfPlane{Direction: direction.Normalize(), Origin: origin, mtl: mtl}
}

func (p *InfPlane) Material() Material     { return p.mtl }
func (p *InfPlane) SetMaterial(m Material) { p.mtl = m }

func (p *InfPlane) Clone() Primitive {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}

// Intersect ignores flags; a plane has no inside.
func (p *InfPlane) Intersect(ray mathutil.Ray, tMax float64, _ Flags) float64 {
	denom := p.Direction.Dot(ray.Direction)
	if !(denom > 0) {
		return tMax
	}
	// positive sign: t must land on the plane, not on its mirror image
	t := p.Direction.Dot(p.Origin.Sub(ray.Origin)) / denom
	if t < 0 || t >= tMax || math.IsNaN(t) {
		return tMax
	}
	return t
}

func (p *InfPlane) Distance(q mathutil.Vec3) float64 {
	return math.Abs(p.Direction.Dot(q.Sub(p.Origin)))
}

// Normal faces the rays that can hit the plane.
func (p *InfPlane) Normal(mathutil.Vec3) mathutil.Vec3 {
	return p.Direction.Scale(-1)
}
