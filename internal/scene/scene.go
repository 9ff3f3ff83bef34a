// Package scene owns the primitive buffers a render pass draws and the
// description format scenes are loaded from.
package scene

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"cpu-raytracer/internal/mathutil"
	"cpu-raytracer/internal/primitive"
	"cpu-raytracer/internal/shading"
)

// Camera describes a pinhole camera.
type Camera struct {
	Origin      mathutil.Vec3 `json:"origin"`
	LookAt      mathutil.Vec3 `json:"look_at"`
	Up          mathutil.Vec3 `json:"up"`
	FocalLength float64       `json:"focal_length"`
	FOV         float64       `json:"fov,omitempty"` // vertical, degrees; used when FocalLength is unset
}

// Environment names the texture the miss stage samples. Exactly one of
// Spherical or the six cube faces is used; Spherical wins when both are set.
type Environment struct {
	Spherical string   `json:"spherical,omitempty"`
	Cube      []string `json:"cube,omitempty"` // +X, -X, +Y, -Y, +Z, -Z
	Filter    string   `json:"filter,omitempty"`
}

// Scene is everything a render pass needs besides the output settings.
type Scene struct {
	Name        string
	Light       shading.Light
	Camera      Camera
	Background  mathutil.Vec3
	Environment *Environment
	Buffers     []*Buffer
}

// Default camera settings.
const (
	DefaultFocalLength = 1.5
)

// DefaultCamera sits at (0,0,-5), looking at (2,0,0).
func DefaultCamera() Camera {
	return Camera{
		Origin:      mathutil.Vec3{0, 0, -5},
		LookAt:      mathutil.Vec3{2, 0, 0},
		Up:          mathutil.Vec3{0, 1, 0},
		FocalLength: DefaultFocalLength,
	}
}

// Default returns the built-in scene: a blue and a green sphere resting on
// a large white ground sphere, lit from the left.
func Default() *Scene {
	prims := []primitive.Primitive{
		primitive.NewSphere(mathutil.Vec3{0, 0, 3}, 1, primitive.Material{
			Albedo: mathutil.Vec3{0, 0, 1}, Roughness: 0.8, Metallic: 0.5, Opacity: 1,
		}),
		primitive.NewSphere(mathutil.Vec3{3, 0, 3}, 1, primitive.Material{
			Albedo: mathutil.Vec3{0, 1, 0}, Roughness: 0.8, Metallic: 0.5, Opacity: 1,
		}),
		primitive.NewSphere(mathutil.Vec3{-1.75, -1001, 3}, 1000, primitive.Material{
			Albedo: mathutil.Vec3{1, 1, 1}, Roughness: 0.7, Metallic: 0, Opacity: 1,
		}),
	}

	buf := NewBuffer(FullLayout(len(prims)))
	// Capacity matches len(prims); SetRange cannot overflow.
	_ = buf.SetRange(0, prims)

	return &Scene{
		Name: "default",
		Light: shading.Light{
			Direction: mathutil.Vec3{-1, 0.5, 0}.Normalize(),
			Intensity: mathutil.Splat(7),
		},
		Camera:  DefaultCamera(),
		Buffers: []*Buffer{buf},
	}
}

// fileScene matches the JSON schema of a scene description file.
type fileScene struct {
	Name        string        `json:"name"`
	Light       shading.Light `json:"light"`
	Camera      *Camera       `json:"camera"`
	Background  mathutil.Vec3 `json:"background"`
	Environment *Environment  `json:"environment"`
	Buffers     []fileBuffer  `json:"buffers"`
}

type fileBuffer struct {
	Layout     *Layout         `json:"layout"`
	Primitives []filePrimitive `json:"primitives"`
}

type filePrimitive struct {
	Type      string        `json:"type"` // sphere, distance_sphere, plane
	Center    mathutil.Vec3 `json:"center"`
	Radius    float64       `json:"radius"`
	Direction mathutil.Vec3 `json:"direction"`
	Origin    mathutil.Vec3 `json:"origin"`
	Material  fileMaterial  `json:"material"`
}

// fileMaterial defaults opacity to 1 when the field is absent.
type fileMaterial struct {
	Albedo    mathutil.Vec3 `json:"albedo"`
	Roughness float64       `json:"roughness"`
	Metallic  float64       `json:"metallic"`
	Opacity   *float64      `json:"opacity"`
}

func (fm fileMaterial) material() primitive.Material {
	m := primitive.Material{
		Albedo:    fm.Albedo,
		Roughness: fm.Roughness,
		Metallic:  fm.Metallic,
		Opacity:   1,
	}
	if fm.Opacity != nil {
		m.Opacity = *fm.Opacity
	}
	return m
}

// Load reads a JSON scene description. Relative environment texture paths
// are resolved against the scene file's directory.
func Load(path string) (*Scene, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scene: read %s: %w", path, err)
	}

	var fs fileScene
	if err := json.Unmarshal(raw, &fs); err != nil {
		return nil, fmt.Errorf("scene: parse %s: %w", path, err)
	}

	sc := &Scene{
		Name:       fs.Name,
		Light:      fs.Light,
		Camera:     DefaultCamera(),
		Background: fs.Background,
	}
	if sc.Name == "" {
		base := filepath.Base(path)
		sc.Name = base[:len(base)-len(filepath.Ext(base))]
	}
	sc.Light.Direction = sc.Light.Direction.Normalize()
	if sc.Light.Direction.IsZero() {
		return nil, fmt.Errorf("scene: %s: light direction must be non-zero", path)
	}

	if fs.Camera != nil {
		sc.Camera = *fs.Camera
		if sc.Camera.Up.IsZero() {
			sc.Camera.Up = mathutil.Vec3{0, 1, 0}
		}
		if sc.Camera.FocalLength <= 0 {
			sc.Camera.FocalLength = DefaultFocalLength
			if sc.Camera.FOV > 0 {
				sc.Camera.FocalLength = mathutil.FocalLength(sc.Camera.FOV)
			}
		}
	}

	if env := fs.Environment; env != nil {
		dir := filepath.Dir(path)
		if env.Spherical != "" && !filepath.IsAbs(env.Spherical) {
			env.Spherical = filepath.Join(dir, env.Spherical)
		}
		for i, face := range env.Cube {
			if !filepath.IsAbs(face) {
				env.Cube[i] = filepath.Join(dir, face)
			}
		}
		if env.Spherical == "" && len(env.Cube) != 6 {
			return nil, fmt.Errorf("scene: %s: cube environment needs 6 faces, got %d", path, len(env.Cube))
		}
		sc.Environment = env
	}

	for bi, fb := range fs.Buffers {
		prims := make([]primitive.Primitive, 0, len(fb.Primitives))
		for pi, fp := range fb.Primitives {
			p, err := fp.build()
			if err != nil {
				return nil, fmt.Errorf("scene: %s: buffer %d primitive %d: %w", path, bi, pi, err)
			}
			prims = append(prims, p)
		}

		layout := FullLayout(len(prims))
		if fb.Layout != nil {
			layout = *fb.Layout
		}
		buf := NewBuffer(layout)
		if err := buf.SetRange(0, prims); err != nil {
			return nil, fmt.Errorf("scene: %s: buffer %d: %w", path, bi, err)
		}
		sc.Buffers = append(sc.Buffers, buf)
	}

	return sc, nil
}

func (fp filePrimitive) build() (primitive.Primitive, error) {
	m := fp.Material.material()
	switch fp.Type {
	case "sphere":
		return primitive.NewSphere(fp.Center, fp.Radius, m), nil
	case "distance_sphere":
		return primitive.NewDistanceSphere(fp.Center, fp.Radius, m), nil
	case "plane":
		return primitive.NewInfPlane(fp.Direction, fp.Origin, m), nil
	default:
		return nil, fmt.Errorf("unknown primitive type %q", fp.Type)
	}
}

// Clone deep-copies the scene's buffers so the copy can be mutated freely.
func (s *Scene) Clone() *Scene {
	c := *s
	c.Buffers = make([]*Buffer, len(s.Buffers))
	for i, b := range s.Buffers {
		c.Buffers[i] = b.Clone()
	}
	if s.Environment != nil {
		env := *s.Environment
		env.Cube = append([]string(nil), s.Environment.Cube...)
		c.Environment = &env
	}
	return &c
}
