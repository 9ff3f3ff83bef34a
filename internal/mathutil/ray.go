package mathutil

// Ray is a half-line starting at Origin. Direction must be normalized by the
// caller before the ray is handed to any intersection query.
type Ray struct {
	Origin    Vec3
	Direction Vec3
}

// At returns the point Origin + t*Direction.
func (r Ray) At(t float64) Vec3 {
	return r.Origin.Add(r.Direction.Scale(t))
}
