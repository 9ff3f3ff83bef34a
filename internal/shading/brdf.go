// Package shading evaluates the local illumination of a surface point lit by
// a single directional light, using a Cook-Torrance microfacet BRDF.
package shading

import (
	"math"

	"cpu-raytracer/internal/mathutil"
	"cpu-raytracer/internal/primitive"
)

// Light is a directional light. Direction is a unit vector pointing from the
// surface toward the light.
type Light struct {
	Direction mathutil.Vec3 `json:"direction"`
	Intensity mathutil.Vec3 `json:"intensity"`
}

// baseReflectivity of dielectrics at normal incidence.
const baseReflectivity = 0.04

// specularFloor keeps the specular denominator away from zero at grazing angles.
const specularFloor = 0.001

// DistributionGGX is the Trowbridge-Reitz normal distribution term with
// alpha = roughness².
func DistributionGGX(n, h mathutil.Vec3, roughness float64) float64 {
	a := roughness * roughness
	a2 := a * a
	ndh := math.Max(n.Dot(h), 0)
	denom := ndh*ndh*(a2-1) + 1
	if denom <= 0 {
		// perfectly smooth surface seen exactly along the normal
		return 0
	}
	return a2 / (math.Pi * denom * denom)
}

// GeometrySchlickGGX is the single-direction self-shadowing term with
// k = (roughness+1)² / 8.
func GeometrySchlickGGX(ndv, roughness float64) float64 {
	r := roughness + 1
	k := r * r / 8
	return ndv / (ndv*(1-k) + k)
}

// GeometrySmith combines the view and light self-shadowing terms.
func GeometrySmith(n, v, l mathutil.Vec3, roughness float64) float64 {
	ndv := math.Max(n.Dot(v), 0)
	ndl := math.Max(n.Dot(l), 0)
	return GeometrySchlickGGX(ndv, roughness) * GeometrySchlickGGX(ndl, roughness)
}

// FresnelSchlick approximates the reflected fraction for the half vector h
// and view vector v.
func FresnelSchlick(h, v, f0 mathutil.Vec3) mathutil.Vec3 {
	x := 1 - math.Max(h.Dot(v), 0)
	p := math.Pow(math.Max(x, 0), 5)
	return f0.Add(mathutil.Splat(1).Sub(f0).Scale(p))
}

// Evaluate returns the radiance reflected toward v from light l at a surface
// with normal n. v and n must be unit vectors. The result is never negative.
func Evaluate(l Light, m primitive.Material, v, n mathutil.Vec3) mathutil.Vec3 {
	f0 := mathutil.Mix(mathutil.Splat(baseReflectivity), m.Albedo, mathutil.Splat(m.Metallic))
	h := l.Direction.Add(v).Normalize()

	ndf := DistributionGGX(n, h, m.Roughness)
	g := GeometrySmith(n, v, l.Direction, m.Roughness)
	f := FresnelSchlick(h, v, f0)

	kd := mathutil.Splat(1).Sub(f).Scale(1 - m.Metallic)

	denom := 4 * math.Max(v.Dot(n), 0) * math.Max(l.Direction.Dot(n), 0)
	specular := f.Scale(ndf * g / math.Max(denom, specularFloor))

	ndl := math.Max(n.Dot(l.Direction), 0)
	diffuse := kd.Mul(m.Albedo).Scale(1 / math.Pi)
	return diffuse.Add(specular).Mul(l.Intensity).Scale(ndl)
}
