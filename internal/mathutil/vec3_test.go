package mathutil

import (
	"math"
	"testing"
)

func vecNear(a, b Vec3, eps float64) bool {
	for i := 0; i < 3; i++ {
		if math.Abs(a[i]-b[i]) > eps {
			return false
		}
	}
	return true
}

func TestReflect(t *testing.T) {
	in := Vec3{1, -1, 0}.Normalize()
	n := Vec3{0, 1, 0}
	got := Reflect(in, n)
	want := Vec3{1, 1, 0}.Normalize()
	if !vecNear(got, want, 1e-12) {
		t.Errorf("Reflect = %v, want %v", got, want)
	}
}

func TestRefract(t *testing.T) {
	tests := []struct {
		name string
		in   Vec3
		n    Vec3
		eta  float64
		want Vec3
	}{
		{
			name: "normal incidence passes straight",
			in:   Vec3{0, 0, 1},
			n:    Vec3{0, 0, -1},
			eta:  1 / 1.52,
			want: Vec3{0, 0, 1},
		},
		{
			name: "unit ratio keeps direction",
			in:   Vec3{1, -1, 0}.Normalize(),
			n:    Vec3{0, 1, 0},
			eta:  1,
			want: Vec3{1, -1, 0}.Normalize(),
		},
		{
			name: "total internal reflection",
			in:   Vec3{1, -0.1, 0}.Normalize(),
			n:    Vec3{0, 1, 0},
			eta:  1.52,
			want: Vec3{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Refract(tt.in, tt.n, tt.eta)
			if !vecNear(got, tt.want, 1e-9) {
				t.Errorf("Refract = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRefract_SnellsLaw(t *testing.T) {
	in := Vec3{math.Sin(0.5), -math.Cos(0.5), 0}
	n := Vec3{0, 1, 0}
	eta := 1 / 1.52
	out := Refract(in, n, eta)

	if math.Abs(out.Len()-1) > 1e-9 {
		t.Fatalf("refracted direction not unit length: %v", out.Len())
	}
	if math.Abs(out[0]-eta*in[0]) > 1e-9 {
		t.Errorf("tangential component %v, want %v", out[0], eta*in[0])
	}
}

func TestNormalize_ZeroVector(t *testing.T) {
	if got := (Vec3{}).Normalize(); !got.IsZero() {
		t.Errorf("Normalize(0) = %v, want zero", got)
	}
}

func TestMix(t *testing.T) {
	got := Mix(Splat(0.04), Vec3{1, 0.5, 0}, Splat(1))
	if !vecNear(got, Vec3{1, 0.5, 0}, 1e-12) {
		t.Errorf("Mix at t=1 = %v", got)
	}
	got = Mix(Splat(0.04), Vec3{1, 0.5, 0}, Splat(0))
	if !vecNear(got, Splat(0.04), 1e-12) {
		t.Errorf("Mix at t=0 = %v", got)
	}
}

func TestRayAt(t *testing.T) {
	r := Ray{Origin: Vec3{0, 0, -5}, Direction: Vec3{0, 0, 1}}
	if got := r.At(4); !vecNear(got, Vec3{0, 0, -1}, 1e-12) {
		t.Errorf("At(4) = %v", got)
	}
}

func TestFocalLength(t *testing.T) {
	if got := FocalLength(90); math.Abs(got-1) > 1e-12 {
		t.Errorf("FocalLength(90) = %v, want 1", got)
	}
	if got := FocalLength(0); got != 1 {
		t.Errorf("FocalLength(0) = %v, want fallback 1", got)
	}
}
