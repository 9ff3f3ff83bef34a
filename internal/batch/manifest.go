package batch

import (
	"encoding/json"
	"os"
	"time"

	"github.com/google/uuid"
)

// ManifestEntry represents one scene in the output manifest.
type ManifestEntry struct {
	Name     string `json:"name"`
	Scene    string `json:"scene"`
	Image    string `json:"image,omitempty"`
	Success  bool   `json:"success"`
	Error    string `json:"error,omitempty"`
	RenderMS int64  `json:"render_ms"`
}

// Manifest describes one batch run.
type Manifest struct {
	RunID   string          `json:"run_id"`
	Created time.Time       `json:"created"`
	Width   int             `json:"width"`
	Height  int             `json:"height"`
	Scenes  []ManifestEntry `json:"scenes"`
}

// NewManifest stamps results with a fresh run id.
func NewManifest(cfg Config, results []Result) Manifest {
	entries := make([]ManifestEntry, len(results))
	for i, r := range results {
		entries[i] = ManifestEntry{
			Name:     r.Name,
			Scene:    r.Scene,
			Image:    r.Image,
			Success:  r.Success,
			Error:    r.Error,
			RenderMS: r.Elapsed.Milliseconds(),
		}
	}
	return Manifest{
		RunID:   uuid.NewString(),
		Created: time.Now().UTC(),
		Width:   cfg.Width,
		Height:  cfg.Height,
		Scenes:  entries,
	}
}

// WriteManifest writes manifest.json to the output directory.
func WriteManifest(path string, m Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
