// Package shader provides the shader stages used to render scene files:
// a pinhole camera, a Cook-Torrance surface with soft shadows, mirror
// reflection and glass-like refraction, and a background or environment
// lookup for rays that escape.
package shader

import (
	"cpu-raytracer/internal/mathutil"
	"cpu-raytracer/internal/primitive"
	"cpu-raytracer/internal/scene"
	"cpu-raytracer/internal/shading"
	"cpu-raytracer/internal/texture"
	"cpu-raytracer/internal/tracer"
)

const (
	ambient  = 0.3    // fraction of albedo added regardless of lighting
	bias     = 0.0001 // offset along rays to step off the surface
	iorAir   = 1.0
	iorGlass = 1.52

	DefaultSoftness = 10.0
)

// Standard is the shader set for scene files. It is read-only after
// construction and safe for concurrent use.
type Standard struct {
	Camera     *Camera
	Light      shading.Light
	Background mathutil.Vec3
	Env        texture.Environment // overrides Background when set
	Softness   float64
}

// New builds the shader set for sc. env may be nil.
func New(sc *scene.Scene, env texture.Environment, softness float64) *Standard {
	if !(softness > 0) {
		softness = DefaultSoftness
	}
	return &Standard{
		Camera:     NewCamera(sc.Camera),
		Light:      sc.Light,
		Background: sc.Background,
		Env:        env,
		Softness:   softness,
	}
}

func (r *Standard) RayGeneration(x, y float64) mathutil.Ray {
	return r.Camera.Ray(x, y)
}

// ClosestHit mixes three contributions by the hit material:
//
//	opacity·(roughness·absorbed + (1-roughness)·reflected) + (1-opacity)·refracted
//
// where absorbed is ambient plus shadowed direct light. Branches with zero
// weight are not traced.
func (r *Standard) ClosestHit(tr tracer.Tracer, ray mathutil.Ray, depth int, t, tMax float64, hit primitive.Primitive) mathutil.Vec3 {
	mtl := hit.Material()
	p := ray.At(t + bias)
	n := hit.Normal(p)
	if n.IsZero() {
		return mathutil.Vec3{}
	}

	direct := shading.Evaluate(r.Light, mtl, ray.Direction.Scale(-1), n)
	lit := 0.0
	if r.Light.Direction.Dot(n) > 0 {
		lit = tr.Shadow(mathutil.Ray{Origin: p, Direction: r.Light.Direction}, tMax, r.Softness)
	}
	absorbed := mtl.Albedo.Scale(ambient).Add(direct.Scale(lit))

	out := absorbed.Scale(mtl.Opacity * mtl.Roughness)

	if w := mtl.Opacity * (1 - mtl.Roughness); w != 0 {
		dir := mathutil.Reflect(ray.Direction, n).Normalize()
		reflected := tr.TraceRay(mathutil.Ray{Origin: p, Direction: dir}, depth-1, tMax)
		out = out.Add(reflected.Scale(w))
	}

	if w := 1 - mtl.Opacity; w != 0 {
		out = out.Add(r.transmit(tr, ray, p, n, depth, tMax, hit).Scale(w))
	}
	return out
}

// transmit refracts into hit at p, finds the exit point on the same
// primitive and refracts back out. Total internal reflection at either
// interface, or a primitive with no far side, contributes nothing.
func (r *Standard) transmit(tr tracer.Tracer, ray mathutil.Ray, p, n mathutil.Vec3, depth int, tMax float64, hit primitive.Primitive) mathutil.Vec3 {
	dir := mathutil.Refract(ray.Direction, n, iorAir/iorGlass)
	if dir.IsZero() {
		return mathutil.Vec3{}
	}

	inner := mathutil.Ray{Origin: p, Direction: dir}
	tBack := hit.Intersect(inner, tMax, primitive.ConsiderInside)
	if tBack >= tMax {
		return mathutil.Vec3{}
	}
	back := inner.At(tBack - bias)
	nBack := hit.Normal(back).Scale(-1)

	exit := mathutil.Refract(dir, nBack, iorGlass/iorAir)
	if exit.IsZero() {
		return mathutil.Vec3{}
	}
	return tr.TraceRay(mathutil.Ray{Origin: back, Direction: exit}, depth-1, tMax)
}

func (r *Standard) Miss(_ tracer.Tracer, ray mathutil.Ray, _ int, _ float64) mathutil.Vec3 {
	if r.Env != nil {
		return r.Env.Sample(ray.Direction)
	}
	return r.Background
}

var _ tracer.Shaders = (*Standard)(nil)
