package formatter

import (
	"fmt"
	"os"
	"time"

	"github.com/desertthunder/songsheet/internal/shared"
)

// ManifestEntry records the outcome of one song in a bulk export.
type ManifestEntry struct {
	SongID  int64    `json:"song_id"`
	Label   string   `json:"label"`
	Success bool     `json:"success"`
	Files   []string `json:"files,omitempty"`
	Error   string   `json:"error,omitempty"`
}

// Manifest summarizes a bulk export.
type Manifest struct {
	ExportID          string          `json:"export_id"`
	Format            string          `json:"format"`
	ExportedAt        time.Time       `json:"exported_at"`
	TotalSongs        int             `json:"total_songs"`
	SuccessfulExports int             `json:"successful_exports"`
	FailedExports     int             `json:"failed_exports"`
	OutputDirectory   string          `json:"output_directory"`
	Songs             []ManifestEntry `json:"songs"`
}

// WriteManifest writes m as indented JSON to path.
func WriteManifest(m Manifest, path string) error {
	data, err := shared.MarshalJSON(m, true)
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}
