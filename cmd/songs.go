package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/desertthunder/songsheet/internal/formatter"
	"github.com/desertthunder/songsheet/internal/models"
	"github.com/desertthunder/songsheet/internal/scroll"
	"github.com/desertthunder/songsheet/internal/shared"
	"github.com/desertthunder/songsheet/internal/store"
	"github.com/desertthunder/songsheet/internal/tasks"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// playLineUnits is the number of pacer units in one printed line.
const playLineUnits = 20.0

// SongsList prints songs grouped by artist, optionally filtered by a search term.
func (r *Runner) SongsList(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.service(ctx, cmd)
	if err != nil {
		return err
	}

	artists, err := svc.ListArtists(ctx)
	if err != nil {
		return fmt.Errorf("failed to list artists: %w", err)
	}
	songs, err := svc.ListSongs(ctx)
	if err != nil {
		return fmt.Errorf("failed to list songs: %w", err)
	}

	groups := store.Sidebar(artists, songs, cmd.String("search"))

	if cmd.Bool("json") {
		type group struct {
			Artist *models.Artist      `json:"artist"`
			Songs  []*models.Partition `json:"songs"`
		}
		out := make([]group, len(groups))
		for i, g := range groups {
			out[i] = group{Artist: g.Artist, Songs: g.Songs}
		}
		return r.writeJSON(out, true)
	}

	if len(groups) == 0 {
		return r.writePlain("Aucune chanson\n")
	}
	for _, g := range groups {
		r.writePlain("%s\n", g.Artist.Name)
		for _, s := range g.Songs {
			r.writePlain("  %4d  %s\n", s.ID, s.Title)
		}
	}
	return nil
}

// SongsShow prints one song sheet in the requested format.
func (r *Runner) SongsShow(ctx context.Context, cmd *cli.Command) error {
	details, err := r.songDetails(ctx, cmd)
	if err != nil {
		return err
	}

	if cmd.Bool("pretty") {
		md, err := formatter.ExportToMarkdown(details)
		if err != nil {
			return err
		}
		renderer, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(100),
		)
		if err != nil {
			return fmt.Errorf("failed to create markdown renderer: %w", err)
		}
		out, err := renderer.Render(string(md))
		if err != nil {
			return fmt.Errorf("failed to render markdown: %w", err)
		}
		return r.writePlain("%s", out)
	}

	data, err := formatter.Export(details, cmd.String("format"))
	if err != nil {
		return err
	}
	return r.writePlain("%s", data)
}

// SongsRecent prints the newest songs.
func (r *Runner) SongsRecent(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.service(ctx, cmd)
	if err != nil {
		return err
	}

	songs, err := svc.RecentSongs(ctx, cmd.Int("limit"))
	if err != nil {
		return fmt.Errorf("failed to load recent songs: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(songs, true)
	}
	r.writePlainHeader("Ajouts récents")
	r.writeSongTable(songs)
	return nil
}

// SongsPopular prints the most viewed songs.
func (r *Runner) SongsPopular(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.service(ctx, cmd)
	if err != nil {
		return err
	}

	songs, err := svc.PopularSongs(ctx, cmd.Int("limit"))
	if err != nil {
		return fmt.Errorf("failed to load popular songs: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(songs, true)
	}
	r.writePlainHeader("Populaires")
	r.writeSongTable(songs)
	return nil
}

// SongsAdd creates a song from a YAML submission file.
func (r *Runner) SongsAdd(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("file")
	if path == "" {
		return fmt.Errorf("%w: file", shared.ErrMissingArgument)
	}

	sub, err := readSubmission(path)
	if err != nil {
		return err
	}

	svc, err := r.service(ctx, cmd)
	if err != nil {
		return err
	}

	r.writeWarnings(sub)
	id, err := svc.CreateSong(ctx, sub)
	if err != nil {
		return fmt.Errorf("failed to create song: %w", err)
	}

	r.logger.Info("song created", "id", id, "title", sub.Title)
	return r.writePlain("✓ Created song %d: %s - %s\n", id, sub.Artist, sub.Title)
}

// SongsEdit replaces a song from a YAML file, or prints its current submission when --file is empty.
func (r *Runner) SongsEdit(ctx context.Context, cmd *cli.Command) error {
	id, err := parseID(cmd, "id")
	if err != nil {
		return err
	}

	svc, err := r.service(ctx, cmd)
	if err != nil {
		return err
	}

	path := cmd.String("file")
	if path == "" {
		details, err := svc.SongDetails(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to load song %d: %w", id, err)
		}
		data, err := yaml.Marshal(models.SubmissionFromDetails(details))
		if err != nil {
			return fmt.Errorf("failed to encode submission: %w", err)
		}
		return r.writePlain("%s", data)
	}

	sub, err := readSubmission(path)
	if err != nil {
		return err
	}

	r.writeWarnings(sub)
	if err := svc.UpdateSong(ctx, id, sub); err != nil {
		return fmt.Errorf("failed to update song %d: %w", id, err)
	}

	r.logger.Info("song updated", "id", id, "title", sub.Title)
	return r.writePlain("✓ Updated song %d: %s - %s\n", id, sub.Artist, sub.Title)
}

// SongsFavorite toggles the favorite marker of a song.
func (r *Runner) SongsFavorite(ctx context.Context, cmd *cli.Command) error {
	id, err := parseID(cmd, "id")
	if err != nil {
		return err
	}

	svc, err := r.service(ctx, cmd)
	if err != nil {
		return err
	}

	favorite, err := svc.ToggleFavorite(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to toggle favorite: %w", err)
	}

	if favorite {
		return r.writePlain("★ Song %d added to favorites\n", id)
	}
	return r.writePlain("☆ Song %d removed from favorites\n", id)
}

// SongsExport writes one song sheet to a file.
func (r *Runner) SongsExport(ctx context.Context, cmd *cli.Command) error {
	details, err := r.songDetails(ctx, cmd)
	if err != nil {
		return err
	}

	format := cmd.String("format")
	output := cmd.String("output")

	var files []string
	switch format {
	case formatter.FormatCSV:
		if output == "" {
			output = formatter.Slug(&details.Partition)
		}
		res, err := formatter.WriteCSVExport(details, strings.TrimSuffix(output, ".csv"))
		if err != nil {
			return err
		}
		files = []string{res.ChordsFile, res.MetadataFile}
	default:
		path, err := formatter.WriteExport(details, format, output)
		if err != nil {
			return err
		}
		files = []string{path}
	}

	r.logger.Info("song exported", "id", details.ID, "format", format, "files", len(files))
	for _, f := range files {
		r.writePlain("✓ %s\n", f)
	}
	return nil
}

// SongsExportAll exports many songs with the bulk export engine, logging progress as it goes.
func (r *Runner) SongsExportAll(ctx context.Context, cmd *cli.Command) error {
	ids, err := parseIDList(cmd.String("ids"))
	if err != nil {
		return err
	}

	engine, err := r.exportEngine(ctx, cmd)
	if err != nil {
		return err
	}

	progress := make(chan tasks.ProgressUpdate, 16)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progress {
			r.logger.Info(update.Message, "phase", update.Phase.String(), "step", update.Step, "total", update.Total)
		}
	}()

	result, err := engine.BulkExport(ctx, progress, ids, tasks.BulkExportOpts{
		Format:     cmd.String("format"),
		OutputDir:  cmd.String("output"),
		NumWorkers: cmd.Int("workers"),
		RateLimit:  cmd.Float("rate"),
	})
	close(progress)
	<-done

	if result != nil {
		r.writePlainHeader("Export")
		r.writePlain("Directory:  %s\n", result.OutputDirectory)
		r.writePlain("Songs:      %d\n", result.TotalSongs)
		r.writePlain("Successful: %d\n", result.SuccessfulExports)
		r.writePlain("Failed:     %d\n", result.FailedExports)
		for _, res := range result.Results {
			if !res.Success {
				r.writePlain("  ✗ %s: %v\n", res.Label, res.Error)
			}
		}
		if result.ManifestPath != "" {
			r.writePlain("Manifest:   %s\n", result.ManifestPath)
		}
	}
	if err != nil {
		return fmt.Errorf("bulk export failed: %w", err)
	}
	return nil
}

// SongsPlay prints a song sheet line by line, paced by its tempo, until the end or an interrupt.
func (r *Runner) SongsPlay(ctx context.Context, cmd *cli.Command) error {
	details, err := r.songDetails(ctx, cmd)
	if err != nil {
		return err
	}

	text, err := formatter.ExportToText(details)
	if err != nil {
		return err
	}
	lines := strings.Split(strings.TrimRight(string(text), "\n"), "\n")

	interval := cmd.Duration("interval")
	if interval <= 0 {
		return fmt.Errorf("%w: --interval must be positive, got %s", shared.ErrInvalidArgument, interval)
	}

	height := max(cmd.Int("height"), 1)
	shown := min(height, len(lines))
	for _, line := range lines[:shown] {
		r.writePlain("%s\n", line)
	}
	if shown == len(lines) {
		return nil
	}

	pacer := scroll.New(details.Tempo)
	pacer.SetMultiplier(cmd.Float("multiplier"))
	pacer.SetTolerance(r.config.Scroll.Tolerance)
	pacer.Start()

	measure := func() (float64, float64) {
		return float64(height) * playLineUnits, float64(len(lines)) * playLineUnits
	}
	err = scroll.Run(ctx, interval, pacer, measure, func(pos float64) {
		next := min(len(lines), height+int(pos/playLineUnits))
		for ; shown < next; shown++ {
			r.writePlain("%s\n", lines[shown])
		}
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	if ctx.Err() == nil {
		for ; shown < len(lines); shown++ {
			r.writePlain("%s\n", lines[shown])
		}
	}
	return nil
}

// songDetails loads the song named by the id argument.
func (r *Runner) songDetails(ctx context.Context, cmd *cli.Command) (*models.SongDetails, error) {
	id, err := parseID(cmd, "id")
	if err != nil {
		return nil, err
	}

	svc, err := r.service(ctx, cmd)
	if err != nil {
		return nil, err
	}

	details, err := svc.SongDetails(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load song %d: %w", id, err)
	}
	return details, nil
}

func (r *Runner) writeWarnings(sub models.Submission) {
	for _, w := range sub.Warnings() {
		r.logger.Warn(w.Message, "field", w.Field)
	}
}

// readSubmission decodes a YAML submission file.
func readSubmission(path string) (models.Submission, error) {
	var sub models.Submission

	data, err := os.ReadFile(path)
	if err != nil {
		return sub, fmt.Errorf("failed to read submission: %w", err)
	}
	if err := yaml.Unmarshal(data, &sub); err != nil {
		return sub, fmt.Errorf("%w: invalid submission YAML: %v", shared.ErrInvalidInput, err)
	}
	return sub, nil
}

// parseIDList parses a comma separated list of song IDs. Empty input yields nil.
func parseIDList(raw string) ([]int64, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("%w: invalid song ID %q", shared.ErrInvalidArgument, part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
