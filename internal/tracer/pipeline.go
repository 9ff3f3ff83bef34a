package tracer

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"cpu-raytracer/internal/mathutil"
	"cpu-raytracer/internal/raster"
	"cpu-raytracer/internal/scene"
)

var (
	ErrNoFramebuffer = errors.New("tracer: no framebuffer")
	ErrNoShaders     = errors.New("tracer: no shaders")
)

// Defaults for Config fields left at zero.
const (
	DefaultDepth = 5
	DefaultTMax  = 100.0
)

// Config holds the per-frame tracing limits.
type Config struct {
	Depth   int               // recursion budget handed to the first TraceRay
	TMax    float64           // far limit for primary rays
	Tonemap raster.Tonemapper // nil means Reinhard
}

// Pipeline owns the framebuffer, the drawn primitive buffers and the shader
// stages. Configure it from one goroutine, then call Run; Run fans the frame
// out to its own workers and returns once every pixel is written.
type Pipeline struct {
	cfg     Config
	shaders Shaders

	fb      *raster.FrameBuffer
	aspect  float64
	buffers []*scene.Buffer
	threads int

	failed atomic.Int64
}

// New creates a pipeline with no framebuffer, no buffers and one worker
// per CPU.
func New(shaders Shaders, cfg Config) *Pipeline {
	if cfg.Depth <= 0 {
		cfg.Depth = DefaultDepth
	}
	if !(cfg.TMax > 0) {
		cfg.TMax = DefaultTMax
	}
	if cfg.Tonemap == nil {
		cfg.Tonemap = raster.Reinhard
	}
	return &Pipeline{
		cfg:     cfg,
		shaders: shaders,
		threads: runtime.NumCPU(),
	}
}

// SetShaders replaces the shader stages.
func (p *Pipeline) SetShaders(s Shaders) {
	p.shaders = s
}

// SetFramebuffer allocates a new black w×h framebuffer. Views returned by
// earlier Framebuffer calls keep the old pixels. On failure the previous
// framebuffer is released too, so Run refuses to start.
func (p *Pipeline) SetFramebuffer(w, h int) error {
	p.fb = nil
	p.aspect = 0
	fb, err := raster.NewFrameBuffer(w, h)
	if err != nil {
		return fmt.Errorf("tracer: set framebuffer: %w", err)
	}
	p.fb = fb
	p.aspect = float64(w) / float64(h)
	return nil
}

// Framebuffer returns the current framebuffer, or nil before SetFramebuffer.
// Callers must treat it as read-only.
func (p *Pipeline) Framebuffer() *raster.FrameBuffer {
	return p.fb
}

// Aspect is width/height of the current framebuffer.
func (p *Pipeline) Aspect() float64 {
	return p.aspect
}

// ClearColor fills the framebuffer with a linear color in [0,1] per channel.
func (p *Pipeline) ClearColor(r, g, b float64) error {
	if p.fb == nil {
		return ErrNoFramebuffer
	}
	p.fb.Fill(raster.Quantize(r), raster.Quantize(g), raster.Quantize(b))
	return nil
}

// DrawBuffer queues a copy of buf for rendering. Later changes to buf do
// not affect the pipeline.
func (p *Pipeline) DrawBuffer(buf *scene.Buffer) {
	if buf == nil {
		return
	}
	p.buffers = append(p.buffers, buf.Clone())
}

// ClearBuffers drops every queued buffer.
func (p *Pipeline) ClearBuffers() {
	p.buffers = nil
}

// SetNumThreads sets the worker count for Run. Values below 1 are ignored.
func (p *Pipeline) SetNumThreads(n int) {
	if n > 0 {
		p.threads = n
	}
}

// NumThreads reports the worker count Run will use.
func (p *Pipeline) NumThreads() int {
	return p.threads
}

// FailedPixels counts pixels left black by a panicking shader during the
// last Run.
func (p *Pipeline) FailedPixels() int64 {
	return p.failed.Load()
}

// TraceRay returns the radiance along ray. depth 0 returns black without
// invoking any shader; otherwise ClosestHit or Miss receives depth unchanged
// and must recurse with depth-1.
func (p *Pipeline) TraceRay(ray mathutil.Ray, depth int, tMax float64) mathutil.Vec3 {
	if depth <= 0 {
		return mathutil.Vec3{}
	}
	t, hit := p.Intersect(ray, tMax, 0)
	if hit == nil || t >= tMax {
		return p.shaders.Miss(p, ray, depth, tMax)
	}
	return p.shaders.ClosestHit(p, ray, depth, t, tMax, hit)
}

// NDC maps pixel (x, y) of a w×h image to normalized device coordinates:
// x in [-aspect, aspect] left to right, y in [-1, 1] with row 0 at +1.
func NDC(x, y, w, h int) (float64, float64) {
	aspect := float64(w) / float64(h)
	return unit(x, w) * aspect, -unit(y, h)
}

// unit maps 0..n-1 onto [-1, 1]; a single sample sits at 0.
func unit(i, n int) float64 {
	if n <= 1 {
		return 0
	}
	return 2*float64(i)/float64(n-1) - 1
}

// Run renders one frame: rows are handed to NumThreads workers, each pixel
// gets a primary ray from RayGeneration, is traced, tone mapped and
// quantized. Every pixel is written by exactly one worker, so the result
// does not depend on the thread count.
func (p *Pipeline) Run() error {
	if p.fb == nil {
		return ErrNoFramebuffer
	}
	if p.shaders == nil {
		return ErrNoShaders
	}
	p.failed.Store(0)

	fb := p.fb
	workers := p.threads
	if workers > fb.Height {
		workers = fb.Height
	}

	rows := make(chan int, workers*2)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for y := range rows {
				p.renderRow(fb, y)
			}
		}()
	}

	for y := 0; y < fb.Height; y++ {
		rows <- y
	}
	close(rows)

	wg.Wait()
	return nil
}

func (p *Pipeline) renderRow(fb *raster.FrameBuffer, y int) {
	i := fb.Index(0, y)
	for x := 0; x < fb.Width; x++ {
		c := p.shadePixel(x, y, fb.Width, fb.Height)
		fb.Pix[i] = raster.Quantize(p.cfg.Tonemap(c[0]))
		fb.Pix[i+1] = raster.Quantize(p.cfg.Tonemap(c[1]))
		fb.Pix[i+2] = raster.Quantize(p.cfg.Tonemap(c[2]))
		i += raster.Channels
	}
}

// shadePixel traces one primary ray. A panicking shader leaves the pixel
// black instead of taking down the frame.
func (p *Pipeline) shadePixel(x, y, w, h int) (c mathutil.Vec3) {
	defer func() {
		if r := recover(); r != nil {
			p.failed.Add(1)
			c = mathutil.Vec3{}
		}
	}()

	nx, ny := NDC(x, y, w, h)
	ray := p.shaders.RayGeneration(nx, ny)
	return p.TraceRay(ray, p.cfg.Depth, p.cfg.TMax)
}

var _ Tracer = (*Pipeline)(nil)
