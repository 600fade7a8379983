// package tasks runs long song library operations with progress reporting.
package tasks

import (
	"github.com/charmbracelet/log"
	"github.com/desertthunder/songsheet/internal/services"
	"github.com/desertthunder/songsheet/internal/shared"
)

// ExportEngine exports songs read from a [services.SongService].
type ExportEngine struct {
	songs  services.SongService
	logger *log.Logger
}

// NewExportEngine creates an ExportEngine. A nil logger writes to stderr.
func NewExportEngine(songs services.SongService, logger *log.Logger) *ExportEngine {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &ExportEngine{songs: songs, logger: shared.WithLogger(logger, "component", "export")}
}

// sendProgress sends a progress update through the channel without blocking.
func (e *ExportEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}
