package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// Defaults applied by Resolve.
const (
	DefaultWidth       = 960
	DefaultHeight      = 540
	DefaultThreadScale = 1
	DefaultDepth       = 5
	DefaultTMax        = 100.0
	DefaultSoftness    = 10.0
	DefaultSupersample = 1
	DefaultFormat      = "png"
	DefaultTonemap     = "reinhard"
	DefaultOutputDir   = "renders"
)

// Config holds all configurable paths and render settings.
type Config struct {
	// Paths
	Scene     string `json:"scene"`      // single scene file; empty renders the built-in scene
	SceneDir  string `json:"scene_dir"`  // render every *.json scene in this directory
	OutputDir string `json:"output_dir"` // where images and manifest.json go
	Output    string `json:"output"`     // explicit output file for single-scene runs

	// Render settings
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	Threads     int     `json:"threads"`      // render workers per frame
	ThreadScale int     `json:"thread_scale"` // multiplier on NumCPU when Threads is unset
	Jobs        int     `json:"jobs"`         // scenes rendered concurrently in batch mode
	Depth       int     `json:"depth"`
	TMax        float64 `json:"t_max"`
	Softness    float64 `json:"softness"`
	Supersample int     `json:"supersample"`
	Format      string  `json:"format"`  // png or webp
	Tonemap     string  `json:"tonemap"` // reinhard or aces
}

// Load reads a JSON config file and returns Config.
// Fields not set in the file keep their zero values. Relative paths are
// resolved against the directory holding the file.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	base := filepath.Dir(path)
	for _, p := range []*string{&cfg.Scene, &cfg.SceneDir, &cfg.OutputDir, &cfg.Output} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(base, *p)
		}
	}

	return cfg, nil
}

// Resolve fills in any empty fields with defaults.
// CLI flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) {
	// CLI flags override config file
	if flags.Scene != "" {
		c.Scene = flags.Scene
	}
	if flags.SceneDir != "" {
		c.SceneDir = flags.SceneDir
	}
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.Output != "" {
		c.Output = flags.Output
	}
	if flags.Width > 0 {
		c.Width = flags.Width
	}
	if flags.Height > 0 {
		c.Height = flags.Height
	}
	if flags.Threads > 0 {
		c.Threads = flags.Threads
	}
	if flags.Jobs > 0 {
		c.Jobs = flags.Jobs
	}
	if flags.Supersample > 0 {
		c.Supersample = flags.Supersample
	}
	if flags.Format != "" {
		c.Format = flags.Format
	}

	// Defaults for render settings
	if c.Width <= 0 {
		c.Width = DefaultWidth
	}
	if c.Height <= 0 {
		c.Height = DefaultHeight
	}
	if c.ThreadScale <= 0 {
		c.ThreadScale = DefaultThreadScale
	}
	if c.Threads <= 0 {
		c.Threads = runtime.NumCPU() * c.ThreadScale
	}
	if c.Jobs <= 0 {
		c.Jobs = 1
	}
	if c.Depth <= 0 {
		c.Depth = DefaultDepth
	}
	if !(c.TMax > 0) {
		c.TMax = DefaultTMax
	}
	if !(c.Softness > 0) {
		c.Softness = DefaultSoftness
	}
	if c.Supersample <= 0 {
		c.Supersample = DefaultSupersample
	}
	if c.Format == "" {
		c.Format = DefaultFormat
	}
	if c.Tonemap == "" {
		c.Tonemap = DefaultTonemap
	}
	if c.OutputDir == "" {
		c.OutputDir = DefaultOutputDir
	}
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	Scene       string
	SceneDir    string
	OutputDir   string
	Output      string
	Width       int
	Height      int
	Threads     int
	Jobs        int
	Supersample int
	Format      string
}
