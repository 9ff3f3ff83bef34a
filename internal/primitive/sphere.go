package primitive

import (
	"math"

	"cpu-raytracer/internal/mathutil"
)

// Sphere is defined by a center point and a radius.
type Sphere struct {
	Center mathutil.Vec3
	Radius float64
	mtl    Material
}

func NewSphere(center mathutil.Vec3, radius float64, mtl Material) *Sphere {
	return &Sphere{Center: center, Radius: radius, mtl: mtl}
}

func (s *Sphere) Material() Material     { return s.mtl }
func (s *Sphere) SetMaterial(m Material) { s.mtl = m }

func (s *Sphere) Clone() Primitive {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}

func (s *Sphere) Intersect(ray mathutil.Ray, tMax float64, flags Flags) float64 {
	return s.intersect(ray, tMax, flags)
}

// intersect solves t² + b·t + c = 0. The quadratic coefficient is 1 because
// the ray direction has unit length.
func (s *Sphere) intersect(ray mathutil.Ray, tMax float64, flags Flags) float64 {
	if s.Radius <= 0 || ray.Direction.IsZero() {
		return tMax
	}

	oc := ray.Origin.Sub(s.Center)
	b := 2 * ray.Direction.Dot(oc)
	c := oc.Dot(oc) - s.Radius*s.Radius
	delta := b*b - 4*c
	if delta < 0 {
		return tMax
	}

	var t0, t1 float64
	if delta == 0 {
		t0 = -0.5 * b
		t1 = t0
	} else {
		sq := math.Sqrt(delta)
		t0 = (-b - sq) / 2
		t1 = (-b + sq) / 2
	}

	// Entry hits are far more common than exit hits, so test them first.
	if t0 < tMax {
		if t0 >= 0 && t1 >= 0 {
			return t0
		}
		if flags&ConsiderInside != 0 && t0 < 0 && t1 >= 0 && t1 < tMax {
			return t1
		}
	}
	return tMax
}

func (s *Sphere) Distance(p mathutil.Vec3) float64 {
	return math.Abs(s.Center.Sub(p).Len() - s.Radius)
}

func (s *Sphere) Normal(p mathutil.Vec3) mathutil.Vec3 {
	return p.Sub(s.Center).Normalize()
}

// DistanceSphere behaves exactly like Sphere but rejects spheres whose
// surface is already farther than tMax from the ray origin before solving
// the quadratic.
type DistanceSphere struct {
	Sphere
}

func NewDistanceSphere(center mathutil.Vec3, radius float64, mtl Material) *DistanceSphere {
	return &DistanceSphere{Sphere{Center: center, Radius: radius, mtl: mtl}}
}

func (s *DistanceSphere) Clone() Primitive {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}

func (s *DistanceSphere) Intersect(ray mathutil.Ray, tMax float64, flags Flags) float64 {
	d := s.Center.Sub(ray.Origin).Len() - s.Radius
	if d >= tMax {
		return tMax
	}
	return s.intersect(ray, tMax, flags)
}
