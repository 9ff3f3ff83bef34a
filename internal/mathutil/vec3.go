package mathutil

import "math"

// Vec3 is a 3-component vector (value type, stack-allocated).
// Used for points, directions and linear RGB colors alike.
type Vec3 [3]float64

// Splat returns a vector with all three components set to s.
func Splat(s float64) Vec3 {
	return Vec3{s, s, s}
}

func (a Vec3) Add(b Vec3) Vec3 {
	return Vec3{a[0] + b[0], a[1] + b[1], a[2] + b[2]}
}

func (a Vec3) Sub(b Vec3) Vec3 {
	return Vec3{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v[0] * s, v[1] * s, v[2] * s}
}

// Mul is the component-wise product.
func (a Vec3) Mul(b Vec3) Vec3 {
	return Vec3{a[0] * b[0], a[1] * b[1], a[2] * b[2]}
}

// Div is the component-wise quotient.
func (a Vec3) Div(b Vec3) Vec3 {
	return Vec3{a[0] / b[0], a[1] / b[1], a[2] / b[2]}
}

func (a Vec3) Dot(b Vec3) float64 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

func (a Vec3) Cross(b Vec3) Vec3 {
	return Vec3{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

func (v Vec3) Len() float64 {
	return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}

func (v Vec3) Normalize() Vec3 {
	l := v.Len()
	if l < 1e-12 {
		return Vec3{}
	}
	return Vec3{v[0] / l, v[1] / l, v[2] / l}
}

func (v Vec3) IsZero() bool {
	return v[0] == 0 && v[1] == 0 && v[2] == 0
}

// Mix linearly interpolates each component: a*(1-t) + b*t.
func Mix(a, b, t Vec3) Vec3 {
	return Vec3{
		a[0]*(1-t[0]) + b[0]*t[0],
		a[1]*(1-t[1]) + b[1]*t[1],
		a[2]*(1-t[2]) + b[2]*t[2],
	}
}

// Max returns the component-wise maximum of v and s.
func (v Vec3) Max(s float64) Vec3 {
	return Vec3{math.Max(v[0], s), math.Max(v[1], s), math.Max(v[2], s)}
}

// Reflect mirrors the incident direction i around the normal n.
func Reflect(i, n Vec3) Vec3 {
	return i.Sub(n.Scale(2 * n.Dot(i)))
}

// Refract bends the unit incident direction i through a surface with unit
// normal n. eta is the ratio of indices of refraction (outside / inside).
// Returns the zero vector on total internal reflection.
func Refract(i, n Vec3, eta float64) Vec3 {
	cosI := n.Dot(i)
	k := 1 - eta*eta*(1-cosI*cosI)
	if k < 0 {
		return Vec3{}
	}
	return i.Scale(eta).Sub(n.Scale(eta*cosI + math.Sqrt(k)))
}
