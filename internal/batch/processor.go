package batch

import (
	"fmt"
	"image"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"cpu-raytracer/internal/output"
	"cpu-raytracer/internal/postprocess"
	"cpu-raytracer/internal/raster"
	"cpu-raytracer/internal/scene"
	"cpu-raytracer/internal/shader"
	"cpu-raytracer/internal/texture"
	"cpu-raytracer/internal/tracer"
)

// Config holds all shared resources for a batch run.
type Config struct {
	OutputDir   string
	Format      output.Format
	Width       int
	Height      int
	Supersample int
	Threads     int // render workers per scene
	Jobs        int // scenes in flight
	Depth       int
	TMax        float64
	Softness    float64
	Tonemap     raster.Tonemapper
	Textures    *texture.Cache
}

// Result holds the outcome of rendering one scene.
type Result struct {
	Name         string
	Scene        string
	Image        string // path relative to OutputDir
	Success      bool
	Error        string
	Elapsed      time.Duration
	FailedPixels int64
}

// Run renders every scene file using a worker pool.
func Run(cfg Config, scenes []string) []Result {
	total := len(scenes)
	results := make([]Result, total)
	var processed atomic.Int64

	jobs := cfg.Jobs
	if jobs <= 0 {
		jobs = 1
	}

	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				p := processed.Load()
				if p > 0 {
					elapsed := time.Since(start).Seconds()
					rate := float64(p) / elapsed
					fmt.Printf("  [%d/%d] %.2f scenes/sec\n", p, total, rate)
				}
			}
		}
	}()

	// Worker pool
	sceneChan := make(chan int, jobs*2)
	var wg sync.WaitGroup

	for w := 0; w < jobs; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range sceneChan {
				results[idx] = processScene(cfg, scenes[idx])
				processed.Add(1)
			}
		}()
	}

	// Send work
	for i := range scenes {
		sceneChan <- i
	}
	close(sceneChan)

	wg.Wait()
	close(done)

	return results
}

func processScene(cfg Config, path string) Result {
	start := time.Now()
	res := Result{Name: sceneName(path), Scene: path}

	sc, err := scene.Load(path)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	if sc.Name != "" {
		res.Name = sc.Name
	}

	img, failed, err := Render(cfg, sc)
	res.FailedPixels = failed
	if err != nil {
		res.Error = err.Error()
		return res
	}

	// file stems are unique within a directory, scene names need not be
	res.Image = sceneName(path) + cfg.Format.Ext()
	if err := output.WriteNRGBA(filepath.Join(cfg.OutputDir, res.Image), img); err != nil {
		res.Error = err.Error()
		return res
	}

	res.Elapsed = time.Since(start)
	res.Success = true
	return res
}

// Render traces one scene at cfg's resolution. Supersampled frames are
// rendered at Supersample× size and filtered down. The second return value
// counts pixels a shader failed on.
func Render(cfg Config, sc *scene.Scene) (*image.NRGBA, int64, error) {
	cache := cfg.Textures
	if cache == nil {
		cache = texture.NewCache()
	}
	env, err := shader.LoadEnvironment(sc.Environment, cache)
	if err != nil {
		return nil, 0, err
	}

	p := tracer.New(shader.New(sc, env, cfg.Softness), tracer.Config{
		Depth:   cfg.Depth,
		TMax:    cfg.TMax,
		Tonemap: cfg.Tonemap,
	})
	p.SetNumThreads(cfg.Threads)
	for _, b := range sc.Buffers {
		p.DrawBuffer(b)
	}

	factor := postprocess.Factor(cfg.Supersample)
	if err := p.SetFramebuffer(cfg.Width*factor, cfg.Height*factor); err != nil {
		return nil, 0, err
	}
	if err := p.Run(); err != nil {
		return nil, 0, err
	}

	img, err := p.Framebuffer().ToNRGBA()
	if err != nil {
		return nil, p.FailedPixels(), err
	}
	if factor > 1 {
		img = postprocess.Downsample(img, cfg.Width, cfg.Height)
	}
	return img, p.FailedPixels(), nil
}

func sceneName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// FindScenes lists the *.json scene files directly inside dir, sorted.
func FindScenes(dir string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("batch: scan %s: %w", dir, err)
	}
	return matches, nil
}
