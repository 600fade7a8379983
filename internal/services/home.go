package services

import (
	"context"

	"github.com/desertthunder/songsheet/internal/models"
	"golang.org/x/sync/errgroup"
)

// Home is everything the home screen shows.
type Home struct {
	Artists []*models.Artist    `json:"artists"`
	Songs   []*models.Partition `json:"songs"`
	Recent  []*models.Partition `json:"recent"`
	Popular []*models.Partition `json:"popular"`
}

// LoadHome fetches the home screen lists concurrently. The first failure cancels the rest.
func LoadHome(ctx context.Context, svc SongService, limit int) (*Home, error) {
	var home Home
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		home.Artists, err = svc.ListArtists(ctx)
		return err
	})
	g.Go(func() (err error) {
		home.Songs, err = svc.ListSongs(ctx)
		return err
	})
	g.Go(func() (err error) {
		home.Recent, err = svc.RecentSongs(ctx, limit)
		return err
	})
	g.Go(func() (err error) {
		home.Popular, err = svc.PopularSongs(ctx, limit)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &home, nil
}
