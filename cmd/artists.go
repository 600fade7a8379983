package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/desertthunder/songsheet/internal/models"
	"github.com/desertthunder/songsheet/internal/shared"
	"github.com/urfave/cli/v3"
)

// ArtistsList prints every artist ordered by name.
func (r *Runner) ArtistsList(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.service(ctx, cmd)
	if err != nil {
		return err
	}

	artists, err := svc.ListArtists(ctx)
	if err != nil {
		return fmt.Errorf("failed to list artists: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(artists, true)
	}

	r.writePlainHeader(fmt.Sprintf("Artistes (%d)", len(artists)))
	for _, a := range artists {
		r.writePlain("%4d  %s\n", a.ID, a.Name)
	}
	return nil
}

// ArtistsRandom prints a random artist that has at least one song.
func (r *Runner) ArtistsRandom(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.service(ctx, cmd)
	if err != nil {
		return err
	}

	artist, err := svc.RandomArtist(ctx)
	if err != nil {
		return fmt.Errorf("failed to pick an artist: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(artist, true)
	}
	return r.writePlain("%s (%d)\n", artist.Name, artist.ID)
}

// ArtistSongs prints the songs of one artist.
func (r *Runner) ArtistSongs(ctx context.Context, cmd *cli.Command) error {
	id, err := parseID(cmd, "id")
	if err != nil {
		return err
	}

	svc, err := r.service(ctx, cmd)
	if err != nil {
		return err
	}

	songs, err := svc.ListArtistSongs(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to list songs of artist %d: %w", id, err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(songs, true)
	}
	r.writeSongTable(songs)
	return nil
}

// parseID reads a positive numeric ID from the named argument.
func parseID(cmd *cli.Command, name string) (int64, error) {
	raw := cmd.StringArg(name)
	if raw == "" {
		return 0, fmt.Errorf("%w: %s", shared.ErrMissingArgument, name)
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer, got %q", shared.ErrInvalidArgument, name, raw)
	}
	return id, nil
}

// writeSongTable prints one song per line with its ID, title, artist and tempo.
func (r *Runner) writeSongTable(songs []*models.Partition) {
	if len(songs) == 0 {
		r.writePlain("Aucune chanson\n")
		return
	}
	for _, s := range songs {
		r.writePlain("%4d  %-32s %-24s %s\n", s.ID, s.Title, s.ArtistName, s.Tempo)
	}
}
