package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"cpu-raytracer/internal/batch"
	"cpu-raytracer/internal/output"
)

func TestWriteManifest_OutputDirIsFile(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "renders")
	if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg := batch.Config{OutputDir: blocker, Format: output.PNG, Width: 4, Height: 4}
	if _, err := writeManifest(cfg, nil); !errors.Is(err, errOutputDir) {
		t.Errorf("writeManifest = %v, want errOutputDir", err)
	}
}

func TestWriteManifest_CreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	cfg := batch.Config{OutputDir: dir, Format: output.PNG, Width: 4, Height: 4}
	path, err := writeManifest(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("manifest missing: %v", err)
	}
}
