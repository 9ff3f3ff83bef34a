package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"cpu-raytracer/internal/batch"
	"cpu-raytracer/internal/config"
	"cpu-raytracer/internal/output"
	"cpu-raytracer/internal/raster"
	"cpu-raytracer/internal/scene"
	"cpu-raytracer/internal/texture"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to config.json file")
	sceneFile := flag.String("scene", "", "Scene JSON file (default: built-in three-sphere scene)")
	sceneDir := flag.String("scenes", "", "Render every *.json scene in this directory")
	outputFile := flag.String("output", "", "Output image path for a single scene (.png or .webp)")
	outputDir := flag.String("outdir", "", "Output directory (default: renders)")
	width := flag.Int("width", 0, "Image width (default: 960)")
	height := flag.Int("height", 0, "Image height (default: 540)")
	threads := flag.Int("threads", 0, "Render workers per frame (default: NumCPU)")
	jobs := flag.Int("jobs", 0, "Scenes rendered concurrently with -scenes (default: 1)")
	format := flag.String("format", "", "Output format: png or webp (default: png)")
	supersample := flag.Int("supersample", 0, "Supersampling factor 1-4 (default: 1)")

	flag.Parse()

	// Load config
	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// CLI flags override config file
	cfg.Resolve(config.Flags{
		Scene:       *sceneFile,
		SceneDir:    *sceneDir,
		OutputDir:   *outputDir,
		Output:      *outputFile,
		Width:       *width,
		Height:      *height,
		Threads:     *threads,
		Jobs:        *jobs,
		Supersample: *supersample,
		Format:      *format,
	})

	outFormat, err := output.ParseFormat(cfg.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	tonemap, err := raster.TonemapByName(cfg.Tonemap)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	batchCfg := batch.Config{
		OutputDir:   cfg.OutputDir,
		Format:      outFormat,
		Width:       cfg.Width,
		Height:      cfg.Height,
		Supersample: cfg.Supersample,
		Threads:     cfg.Threads,
		Jobs:        cfg.Jobs,
		Depth:       cfg.Depth,
		TMax:        cfg.TMax,
		Softness:    cfg.Softness,
		Tonemap:     tonemap,
		Textures:    texture.NewCache(),
	}

	if cfg.SceneDir != "" {
		os.Exit(runBatch(batchCfg, cfg.SceneDir))
	}
	os.Exit(runSingle(batchCfg, cfg.Scene, cfg.Output))
}

func runSingle(cfg batch.Config, scenePath, outPath string) int {
	sc := scene.Default()
	if scenePath != "" {
		var err error
		sc, err = scene.Load(scenePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading scene: %v\n", err)
			return 1
		}
	}
	if sc.Name == "" {
		sc.Name = "default"
	}
	if outPath == "" {
		outPath = filepath.Join(cfg.OutputDir, sc.Name+cfg.Format.Ext())
	}

	fmt.Printf("Scene: %s, %dx%d, %d threads\n", sc.Name, cfg.Width, cfg.Height, cfg.Threads)

	start := time.Now()
	img, failed, err := batch.Render(cfg, sc)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error rendering: %v\n", err)
		return 1
	}
	fmt.Printf("Render: %d ms\n", time.Since(start).Milliseconds())
	if failed > 0 {
		fmt.Fprintf(os.Stderr, "Warning: %d pixels failed to shade\n", failed)
	}

	start = time.Now()
	if err := output.WriteNRGBA(outPath, img); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", outPath, err)
		return 1
	}
	fmt.Printf("Write: %d ms\n", time.Since(start).Milliseconds())
	fmt.Printf("Output: %s\n", outPath)
	return 0
}

func runBatch(cfg batch.Config, dir string) int {
	scenes, err := batch.FindScenes(dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if len(scenes) == 0 {
		fmt.Println("No scenes to render.")
		return 0
	}

	fmt.Printf("Scenes: %d, Jobs: %d, Threads/scene: %d\n", len(scenes), cfg.Jobs, cfg.Threads)
	fmt.Printf("Output: %s\n", cfg.OutputDir)
	fmt.Println("------------------------------------------------------------")

	start := time.Now()
	results := batch.Run(cfg, scenes)

	elapsed := time.Since(start)
	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.1fs\n", elapsed.Seconds())

	// Count results
	success, failed := 0, 0
	var failures []batch.Result
	for _, r := range results {
		if r.Success {
			success++
		} else {
			failed++
			failures = append(failures, r)
		}
	}

	fmt.Printf("Rendered: %d/%d\n", success, len(scenes))

	if len(failures) > 0 {
		fmt.Printf("\nFailed (%d):\n", failed)
		limit := 20
		if len(failures) < limit {
			limit = len(failures)
		}
		for _, e := range failures[:limit] {
			fmt.Printf("  %s: %s\n", e.Name, e.Error)
		}
	}

	manifestPath, err := writeManifest(cfg, results)
	if errors.Is(err, errOutputDir) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: manifest write failed: %v\n", err)
	} else {
		fmt.Printf("Manifest: %s\n", manifestPath)
	}

	if failed > 0 {
		return 1
	}
	return 0
}

var errOutputDir = errors.New("cannot create output directory")

// writeManifest creates the output directory and writes manifest.json into it.
func writeManifest(cfg batch.Config, results []batch.Result) (string, error) {
	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return "", fmt.Errorf("%w %s: %w", errOutputDir, cfg.OutputDir, err)
	}
	path := filepath.Join(cfg.OutputDir, "manifest.json")
	return path, batch.WriteManifest(path, batch.NewManifest(cfg, results))
}
