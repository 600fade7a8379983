package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/songsheet/internal/cache"
	"github.com/urfave/cli/v3"
)

// CacheClear drops the cached artist and song lists from the shared Redis cache.
//
// The in-memory cache lives and dies with each process, so there is nothing to clear without Redis.
func (r *Runner) CacheClear(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.service(ctx, cmd)
	if err != nil {
		return err
	}

	redis, ok := r.cache.(*cache.RedisCache)
	if !ok {
		return r.writePlain("No Redis cache configured, nothing to clear\n")
	}

	artists, err := svc.ListArtists(ctx)
	if err != nil {
		return fmt.Errorf("failed to list artists: %w", err)
	}

	keys := []string{cache.KeyArtists, cache.KeySongs}
	for _, a := range artists {
		keys = append(keys, cache.ArtistSongsKey(a.ID))
	}

	if err := redis.Delete(ctx, keys...); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}

	r.logger.Info("cache cleared", "keys", len(keys))
	return r.writePlain("✓ Cleared %d cache keys\n", len(keys))
}

// cacheCommand manages the shared read cache
func cacheCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Manage the shared read cache",
		Commands: []*cli.Command{
			{
				Name:   "clear",
				Usage:  "Drop cached artist and song lists from Redis",
				Flags:  []cli.Flag{configFlag()},
				Action: r.CacheClear,
			},
		},
	}
}
