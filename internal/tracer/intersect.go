package tracer

import (
	"cpu-raytracer/internal/mathutil"
	"cpu-raytracer/internal/primitive"
)

// Shadow marching parameters.
const (
	shadowStart      = 0.15   // initial march offset, avoids self-shadowing
	shadowHitEpsilon = 0.0001 // distances at or below count as occluded
	shadowMaxSteps   = 128
)

// Intersect scans every primitive in every drawn buffer's processable range
// and keeps the closest hit strictly below the running best.
func (p *Pipeline) Intersect(ray mathutil.Ray, tMax float64, flags primitive.Flags) (float64, primitive.Primitive) {
	t := tMax
	var hit primitive.Primitive

	for _, buf := range p.buffers {
		slots := buf.Map()
		first, last := buf.Range()
		for i := first; i < last; i++ {
			prim := slots[i]
			if prim == nil {
				continue
			}
			if tc := prim.Intersect(ray, tMax, flags); tc < t {
				t = tc
				hit = prim
			}
		}
	}
	return t, hit
}

// Distance returns the smallest surface distance from pt to any drawn
// primitive, or tMax when every primitive is at least tMax away.
func (p *Pipeline) Distance(pt mathutil.Vec3, tMax float64) (float64, primitive.Primitive) {
	d := tMax
	var closest primitive.Primitive

	for _, buf := range p.buffers {
		slots := buf.Map()
		first, last := buf.Range()
		for i := first; i < last; i++ {
			prim := slots[i]
			if prim == nil {
				continue
			}
			if dc := prim.Distance(pt); dc < d {
				d = dc
				closest = prim
			}
		}
	}
	return d, closest
}

// Shadow sphere-traces from ray.Origin toward the light. It returns 0 as soon
// as the march touches a surface, otherwise the smallest softness·d/t ratio
// seen along the way (starting from 1). Larger softness gives sharper edges.
func (p *Pipeline) Shadow(ray mathutil.Ray, tMax, softness float64) float64 {
	t := shadowStart
	res := 1.0

	for i := 0; i < shadowMaxSteps && t < tMax; i++ {
		d, _ := p.Distance(ray.At(t), tMax)
		if d <= shadowHitEpsilon {
			return 0
		}
		t += d
		if r := softness * d / t; r < res {
			res = r
		}
	}
	return res
}
