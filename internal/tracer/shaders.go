package tracer

import (
	"cpu-raytracer/internal/mathutil"
	"cpu-raytracer/internal/primitive"
)

// Tracer is the part of the pipeline shader stages may call back into.
type Tracer interface {
	// TraceRay returns the radiance arriving along ray, recursing at most
	// depth levels.
	TraceRay(ray mathutil.Ray, depth int, tMax float64) mathutil.Vec3

	// Intersect returns the nearest hit distance (tMax if none) and the
	// primitive that produced it.
	Intersect(ray mathutil.Ray, tMax float64, flags primitive.Flags) (float64, primitive.Primitive)

	// Shadow returns the fraction of light reaching ray.Origin along
	// ray.Direction, in [0,1] for softness <= 1.
	Shadow(ray mathutil.Ray, tMax, softness float64) float64
}

// Shaders are the user-supplied stages of the pipeline. Implementations must
// be safe for concurrent use: every stage is called from many workers.
type Shaders interface {
	// RayGeneration builds the primary ray for normalized device
	// coordinates (x, y); x spans [-aspect, aspect], y spans [-1, 1] with
	// +1 at the top image row.
	RayGeneration(x, y float64) mathutil.Ray

	// ClosestHit shades the nearest intersection at distance t along ray.
	// Recursive TraceRay calls pass depth-1.
	ClosestHit(tr Tracer, ray mathutil.Ray, depth int, t, tMax float64, hit primitive.Primitive) mathutil.Vec3

	// Miss supplies the radiance for rays that leave the scene.
	Miss(tr Tracer, ray mathutil.Ray, depth int, tMax float64) mathutil.Vec3
}

// ShaderFuncs adapts plain functions to Shaders. A nil stage contributes
// black (or, for RayGeneration, a zero ray that hits nothing).
type ShaderFuncs struct {
	RayGenerationFunc func(x, y float64) mathutil.Ray
	ClosestHitFunc    func(tr Tracer, ray mathutil.Ray, depth int, t, tMax float64, hit primitive.Primitive) mathutil.Vec3
	MissFunc          func(tr Tracer, ray mathutil.Ray, depth int, tMax float64) mathutil.Vec3
}

func (f ShaderFuncs) RayGeneration(x, y float64) mathutil.Ray {
	if f.RayGenerationFunc == nil {
		return mathutil.Ray{}
	}
	return f.RayGenerationFunc(x, y)
}

func (f ShaderFuncs) ClosestHit(tr Tracer, ray mathutil.Ray, depth int, t, tMax float64, hit primitive.Primitive) mathutil.Vec3 {
	if f.ClosestHitFunc == nil {
		return mathutil.Vec3{}
	}
	return f.ClosestHitFunc(tr, ray, depth, t, tMax, hit)
}

func (f ShaderFuncs) Miss(tr Tracer, ray mathutil.Ray, depth int, tMax float64) mathutil.Vec3 {
	if f.MissFunc == nil {
		return mathutil.Vec3{}
	}
	return f.MissFunc(tr, ray, depth, tMax)
}
