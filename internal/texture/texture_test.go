package texture

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"golang.org/x/image/bmp"

	"cpu-raytracer/internal/mathutil"
)

// checker returns a 2x2 image: red, green / blue, white.
func checker() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.SetNRGBA(0, 0, color.NRGBA{255, 0, 0, 255})
	img.SetNRGBA(1, 0, color.NRGBA{0, 255, 0, 255})
	img.SetNRGBA(0, 1, color.NRGBA{0, 0, 255, 255})
	img.SetNRGBA(1, 1, color.NRGBA{255, 255, 255, 255})
	return img
}

func solid(c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func rgbaNear(a, b RGBA) bool {
	for i := range a {
		if math.Abs(a[i]-b[i]) > 1e-9 {
			return false
		}
	}
	return true
}

func TestSampler_Nearest(t *testing.T) {
	s := Sampler{Image: checker(), Filter: Nearest, Address: Repeat}
	tests := []struct {
		u, v float64
		want RGBA
	}{
		{0.25, 0.25, RGBA{1, 0, 0, 1}},
		{0.75, 0.25, RGBA{0, 1, 0, 1}},
		{0.25, 0.75, RGBA{0, 0, 1, 1}},
		{1.25, 0.25, RGBA{1, 0, 0, 1}},
		{-0.25, 0.25, RGBA{0, 1, 0, 1}},
	}
	for _, tt := range tests {
		if got := s.Sample(tt.u, tt.v); !rgbaNear(got, tt.want) {
			t.Errorf("Sample(%v,%v) = %v, want %v", tt.u, tt.v, got, tt.want)
		}
	}
}

func TestSampler_AddressModes(t *testing.T) {
	border := RGBA{0.5, 0.5, 0.5, 1}
	tests := []struct {
		name string
		mode AddressMode
		u    float64
		want RGBA
	}{
		{"clamp right", ClampToEdge, 1.7, RGBA{0, 1, 0, 1}},
		{"clamp left", ClampToEdge, -3, RGBA{1, 0, 0, 1}},
		{"border", ClampToBorder, 1.2, border},
		{"mirror first reflection", MirroredRepeat, 1.25, RGBA{0, 1, 0, 1}},
		{"mirror second reflection", MirroredRepeat, 1.75, RGBA{1, 0, 0, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Sampler{Image: checker(), Filter: Nearest, Address: tt.mode, Border: border}
			if got := s.Sample(tt.u, 0.25); !rgbaNear(got, tt.want) {
				t.Errorf("Sample = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSampler_Bilinear(t *testing.T) {
	s := Sampler{Image: checker(), Filter: Bilinear, Address: ClampToEdge}

	// Texel center returns the texel exactly.
	if got := s.Sample(0.25, 0.25); !rgbaNear(got, RGBA{1, 0, 0, 1}) {
		t.Errorf("texel center = %v", got)
	}
	// Midway between red and green.
	if got := s.Sample(0.5, 0.25); !rgbaNear(got, RGBA{0.5, 0.5, 0, 1}) {
		t.Errorf("midpoint = %v", got)
	}
}

func TestSampler_NilImage(t *testing.T) {
	s := Sampler{Border: RGBA{0, 0, 0, 1}}
	if got := s.Sample(0.5, 0.5); got != s.Border {
		t.Errorf("nil image sample = %v", got)
	}
}

func TestParseFilter(t *testing.T) {
	if f, err := ParseFilter("linear"); err != nil || f != Bilinear {
		t.Errorf("linear = %v, %v", f, err)
	}
	if f, err := ParseFilter(""); err != nil || f != Nearest {
		t.Errorf("default = %v, %v", f, err)
	}
	if _, err := ParseFilter("cubic"); err == nil {
		t.Error("expected error")
	}
}

func TestSphericalMap_Poles(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 2))
	for x := 0; x < 4; x++ {
		img.SetNRGBA(x, 0, color.NRGBA{255, 255, 255, 255})
		img.SetNRGBA(x, 1, color.NRGBA{0, 0, 0, 255})
	}
	m := NewSphericalMap(img, Nearest)

	if got := m.Sample(mathutil.Vec3{0, 1, 0.01}); got[0] != 1 {
		t.Errorf("up = %v, want sky row", got)
	}
	if got := m.Sample(mathutil.Vec3{0, -1, 0.01}); got[0] != 0 {
		t.Errorf("down = %v, want ground row", got)
	}
}

func TestFaceUV(t *testing.T) {
	tests := []struct {
		dir  mathutil.Vec3
		face int
	}{
		{mathutil.Vec3{1, 0, 0}, FacePositiveX},
		{mathutil.Vec3{-1, 0.2, 0}, FaceNegativeX},
		{mathutil.Vec3{0, 1, 0}, FacePositiveY},
		{mathutil.Vec3{0.3, -1, 0.3}, FaceNegativeY},
		{mathutil.Vec3{0, 0, 1}, FacePositiveZ},
		{mathutil.Vec3{0, 0, -1}, FaceNegativeZ},
	}
	for _, tt := range tests {
		face, u, v := FaceUV(tt.dir)
		if face != tt.face {
			t.Errorf("FaceUV(%v) face = %d, want %d", tt.dir, face, tt.face)
		}
		if u < 0 || u > 1 || v < 0 || v > 1 {
			t.Errorf("FaceUV(%v) uv = (%v,%v) out of range", tt.dir, u, v)
		}
	}

	if _, u, v := FaceUV(mathutil.Vec3{0, 0, 1}); u != 0.5 || v != 0.5 {
		t.Errorf("face center uv = (%v,%v)", u, v)
	}
}

func TestCubemap_Sample(t *testing.T) {
	colors := []color.NRGBA{
		{255, 0, 0, 255}, {0, 255, 0, 255}, {0, 0, 255, 255},
		{255, 255, 0, 255}, {0, 255, 255, 255}, {255, 0, 255, 255},
	}
	faces := make([]*image.NRGBA, 6)
	for i, c := range colors {
		faces[i] = solid(c)
	}
	cm, err := NewCubemap(faces, Bilinear)
	if err != nil {
		t.Fatal(err)
	}

	if got := cm.Sample(mathutil.Vec3{0, 0, -1}); got != (mathutil.Vec3{1, 0, 1}) {
		t.Errorf("-Z sample = %v", got)
	}
	if got := cm.Sample(mathutil.Vec3{0, 1, 0}); got != (mathutil.Vec3{0, 0, 1}) {
		t.Errorf("+Y sample = %v", got)
	}

	if _, err := NewCubemap(faces[:5], Nearest); err == nil {
		t.Error("expected error for 5 faces")
	}
}

func TestLoad_PNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sky.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, checker()); err != nil {
		t.Fatal(err)
	}
	f.Close()

	img, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if img.NRGBAAt(1, 1) != (color.NRGBA{255, 255, 255, 255}) {
		t.Errorf("pixel (1,1) = %v", img.NRGBAAt(1, 1))
	}
}

func TestLoad_BMP(t *testing.T) {
	path := filepath.Join(t.TempDir(), "face.bmp")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := bmp.Encode(f, checker()); err != nil {
		t.Fatal(err)
	}
	f.Close()

	img, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if img.NRGBAAt(0, 1) != (color.NRGBA{0, 0, 255, 255}) {
		t.Errorf("pixel (0,1) = %v", img.NRGBAAt(0, 1))
	}
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()
	if _, err := Load(filepath.Join(dir, "missing.png")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file error = %v", err)
	}

	garbage := filepath.Join(dir, "garbage.png")
	_ = os.WriteFile(garbage, []byte("not an image"), 0644)
	if _, err := Load(garbage); err == nil {
		t.Error("expected decode error")
	}
}

func TestCache_LoadsOnce(t *testing.T) {
	var mu sync.Mutex
	calls := 0
	c := NewCache()
	c.load = func(string) (*image.NRGBA, error) {
		mu.Lock()
		calls++
		mu.Unlock()
		return checker(), nil
	}

	var wg sync.WaitGroup
	results := make([]*image.NRGBA, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = c.Get("sky.png")
		}(i)
	}
	wg.Wait()

	for i := 1; i < len(results); i++ {
		if results[i] != results[0] {
			t.Fatal("concurrent Get returned different images")
		}
	}
	if c.Len() != 1 {
		t.Errorf("Len = %d, want 1", c.Len())
	}
	if _, err := c.Get("sky.png"); err != nil {
		t.Fatal(err)
	}
	mu.Lock()
	defer mu.Unlock()
	if calls > len(results) {
		t.Errorf("loader called %d times", calls)
	}
}
