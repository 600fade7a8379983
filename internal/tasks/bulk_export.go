package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/desertthunder/songsheet/internal/formatter"
	"github.com/desertthunder/songsheet/internal/models"
	"github.com/desertthunder/songsheet/internal/shared"
	"golang.org/x/time/rate"
)

// Bulk export defaults.
const (
	DefaultWorkers   = 5
	MaxWorkers       = 10
	DefaultRateLimit = 5.0
	ManifestFile     = "export_manifest.json"
)

// BulkExportOpts contains configuration for bulk song exports.
type BulkExportOpts struct {
	Format     string  // Export format, one of formatter.Formats (default: markdown)
	OutputDir  string  // Base output directory (default: songsheet_export_{epoch})
	NumWorkers int     // Concurrent writers (default: 5, max: 10)
	RateLimit  float64 // Song fetches per second (default: 5)
}

// SongExportJob is a fetched song waiting to be written.
type SongExportJob struct {
	SongID  int64
	Details *models.SongDetails
}

// SongExportResult is the outcome of exporting one song.
type SongExportResult struct {
	SongID  int64
	Label   string
	Success bool
	Files   []string
	Error   error
}

// BulkExportResult summarizes a bulk export.
type BulkExportResult struct {
	TotalSongs        int
	SuccessfulExports int
	FailedExports     int
	OutputDirectory   string
	ManifestPath      string
	Results           []SongExportResult
}

// BulkExport exports songs concurrently with rate limiting and progress tracking.
//
// When ids is empty every song in the library is exported. Fetches are paced by the rate limiter
// and a pool of workers writes the files. Partial failures are reported per song and a manifest
// summarizing the export is written last.
func (e *ExportEngine) BulkExport(
	ctx context.Context,
	prog chan<- ProgressUpdate,
	ids []int64,
	opts BulkExportOpts,
) (*BulkExportResult, error) {
	if e.songs == nil {
		return nil, fmt.Errorf("%w: song service not initialized", shared.ErrUnavailable)
	}

	if opts.Format == "" {
		opts.Format = formatter.FormatMarkdown
	}
	if formatter.Extension(opts.Format) == "" {
		return nil, fmt.Errorf("%w: unsupported export format %q", shared.ErrInvalidArgument, opts.Format)
	}
	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("songsheet_export_%d", time.Now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = DefaultWorkers
	}
	if opts.NumWorkers > MaxWorkers {
		opts.NumWorkers = MaxWorkers
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = DefaultRateLimit
	}

	if len(ids) == 0 {
		e.sendProgress(prog, listingSongsUpdate())
		songs, err := e.songs.ListSongs(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list songs: %w", err)
		}
		for _, s := range songs {
			ids = append(ids, s.ID)
		}
		e.sendProgress(prog, foundSongsUpdate(len(ids)))
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	result := &BulkExportResult{
		TotalSongs:      len(ids),
		OutputDirectory: opts.OutputDir,
		Results:         make([]SongExportResult, 0, len(ids)),
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	jobs := make(chan SongExportJob, len(ids))
	results := make(chan SongExportResult, len(ids))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go e.exportWorker(ctx, &wg, jobs, results, opts)
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		defer close(jobs)
		for i, id := range ids {
			if err := limiter.Wait(ctx); err != nil {
				return
			}

			e.sendProgress(prog, fetchingSongUpdate(i+1, len(ids), id))

			details, err := e.songs.SongDetails(ctx, id)
			if err != nil {
				e.logger.Warn("failed to fetch song", "id", id, "error", err)
				results <- SongExportResult{
					SongID: id,
					Label:  fmt.Sprintf("Unknown (%d)", id),
					Error:  fmt.Errorf("failed to fetch song: %w", err),
				}
				continue
			}

			jobs <- SongExportJob{SongID: id, Details: details}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		result.Results = append(result.Results, res)

		if res.Success {
			result.SuccessfulExports++
			e.sendProgress(prog, exportCompletedUpdate(completed, len(ids), res.Label, len(res.Files)))
		} else {
			result.FailedExports++
			e.sendProgress(prog, exportFailedUpdate(completed, len(ids), res.Label, res.Error))
		}
	}

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("export interrupted after %d of %d songs: %w", completed, len(ids), err)
	}

	manifestPath := filepath.Join(opts.OutputDir, ManifestFile)
	e.sendProgress(prog, manifestUpdate(manifestPath))
	if err := formatter.WriteManifest(result.Manifest(opts.Format), manifestPath); err != nil {
		return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath
	return result, nil
}

// Manifest converts the result to its manifest file representation.
func (r *BulkExportResult) Manifest(format string) formatter.Manifest {
	m := formatter.Manifest{
		ExportID:          shared.GenerateID(),
		Format:            format,
		ExportedAt:        time.Now().UTC(),
		TotalSongs:        r.TotalSongs,
		SuccessfulExports: r.SuccessfulExports,
		FailedExports:     r.FailedExports,
		OutputDirectory:   r.OutputDirectory,
		Songs:             make([]formatter.ManifestEntry, 0, len(r.Results)),
	}
	for _, res := range r.Results {
		entry := formatter.ManifestEntry{
			SongID:  res.SongID,
			Label:   res.Label,
			Success: res.Success,
			Files:   res.Files,
		}
		if res.Error != nil {
			entry.Error = res.Error.Error()
		}
		m.Songs = append(m.Songs, entry)
	}
	return m
}

// exportWorker is a worker goroutine that writes songs from the jobs channel.
func (e *ExportEngine) exportWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	jobs <-chan SongExportJob,
	results chan<- SongExportResult,
	opts BulkExportOpts,
) {
	defer wg.Done()

	for job := range jobs {
		select {
		case <-ctx.Done():
			return
		default:
		}

		results <- e.exportSingleSong(job, opts)
	}
}

// exportSingleSong writes one song in the requested format. Files are named {id}-{slug}.
func (e *ExportEngine) exportSingleSong(j SongExportJob, opts BulkExportOpts) SongExportResult {
	result := SongExportResult{
		SongID: j.SongID,
		Label:  j.Details.Label(),
		Files:  []string{},
	}

	base := filepath.Join(opts.OutputDir, fmt.Sprintf("%d-%s", j.SongID, formatter.Slug(&j.Details.Partition)))

	switch opts.Format {
	case formatter.FormatCSV:
		csvRes, err := formatter.WriteCSVExport(j.Details, base)
		if err != nil {
			result.Error = fmt.Errorf("CSV export failed: %w", err)
			return result
		}
		result.Files = []string{csvRes.ChordsFile, csvRes.MetadataFile}

	case formatter.FormatMarkdown:
		mdRes, err := formatter.WriteMarkdownExport(j.Details, base)
		if err != nil {
			result.Error = fmt.Errorf("markdown export failed: %w", err)
			return result
		}
		result.Files = mdRes.Files

	default:
		path, err := formatter.WriteExport(j.Details, opts.Format, base+formatter.Extension(opts.Format))
		if err != nil {
			result.Error = fmt.Errorf("%s export failed: %w", opts.Format, err)
			return result
		}
		result.Files = []string{path}
	}

	result.Success = true
	return result
}
