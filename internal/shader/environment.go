package shader

import (
	"fmt"
	"image"

	"cpu-raytracer/internal/scene"
	"cpu-raytracer/internal/texture"
)

// LoadEnvironment resolves a scene's environment description into a
// sampler, loading images through cache. A nil description yields nil.
func LoadEnvironment(env *scene.Environment, cache *texture.Cache) (texture.Environment, error) {
	if env == nil {
		return nil, nil
	}
	filter, err := texture.ParseFilter(env.Filter)
	if err != nil {
		return nil, err
	}

	if env.Spherical != "" {
		img, err := cache.Get(env.Spherical)
		if err != nil {
			return nil, fmt.Errorf("environment: %w", err)
		}
		return texture.NewSphericalMap(img, filter), nil
	}

	if len(env.Cube) == 0 {
		return nil, nil
	}
	faces := make([]*image.NRGBA, len(env.Cube))
	for i, path := range env.Cube {
		img, err := cache.Get(path)
		if err != nil {
			return nil, fmt.Errorf("environment face %d: %w", i, err)
		}
		faces[i] = img
	}
	cube, err := texture.NewCubemap(faces, filter)
	if err != nil {
		return nil, fmt.Errorf("environment: %w", err)
	}
	return cube, nil
}
