package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand/v2"
	"sort"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/songsheet/internal/cache"
	"github.com/desertthunder/songsheet/internal/models"
	"github.com/desertthunder/songsheet/internal/repositories"
	"github.com/desertthunder/songsheet/internal/shared"
)

// Library implements [SongService] over the repositories.
type Library struct {
	artists    *repositories.ArtistRepository
	partitions *repositories.PartitionRepository
	chords     *repositories.ChordRepository
	favorites  *repositories.FavoriteRepository
	views      *repositories.ViewRepository
	cache      cache.Cache
	logger     *log.Logger
	intn       func(n int) int
}

// NewLibrary creates a Library on db. A nil cache disables caching and a nil logger writes to stderr.
func NewLibrary(db *sql.DB, c cache.Cache, logger *log.Logger) *Library {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Library{
		artists:    repositories.NewArtistRepository(db),
		partitions: repositories.NewPartitionRepository(db),
		chords:     repositories.NewChordRepository(db),
		favorites:  repositories.NewFavoriteRepository(db),
		views:      repositories.NewViewRepository(db),
		cache:      c,
		logger:     shared.WithLogger(logger, "component", "library"),
		intn:       rand.IntN,
	}
}

func (l *Library) ListArtists(ctx context.Context) ([]*models.Artist, error) {
	return cache.Fetch(ctx, l.cache, cache.KeyArtists, func(ctx context.Context) ([]*models.Artist, error) {
		return l.artists.List(ctx, nil)
	})
}

func (l *Library) ListSongs(ctx context.Context) ([]*models.Partition, error) {
	return cache.Fetch(ctx, l.cache, cache.KeySongs, func(ctx context.Context) ([]*models.Partition, error) {
		return l.partitions.List(ctx, map[string]any{"order": repositories.OrderByTitle})
	})
}

func (l *Library) ListArtistSongs(ctx context.Context, artistID int64) ([]*models.Partition, error) {
	if _, err := l.artists.Get(ctx, artistID); err != nil {
		return nil, err
	}

	key := cache.ArtistSongsKey(artistID)
	return cache.Fetch(ctx, l.cache, key, func(ctx context.Context) ([]*models.Partition, error) {
		return l.partitions.List(ctx, map[string]any{"artist_id": artistID, "order": repositories.OrderByTitle})
	})
}

// SongDetails fetches the song, its chords and favorite flag, then records a view.
// A failed view record is logged and does not fail the read.
func (l *Library) SongDetails(ctx context.Context, id int64) (*models.SongDetails, error) {
	p, err := l.partitions.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	chords, err := l.chords.ListByPartition(ctx, id)
	if err != nil {
		return nil, err
	}

	favorite, err := l.favorites.Exists(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := l.views.RecordView(ctx, id); err != nil {
		l.logger.Warn("failed to record view", "partition_id", id, "err", err)
	}

	if chords == nil {
		chords = []models.ChordEntry{}
	}
	return &models.SongDetails{Partition: *p, Chords: chords, IsFavorite: favorite}, nil
}

func (l *Library) CreateSong(ctx context.Context, s models.Submission) (int64, error) {
	s = s.Normalize()
	if err := s.Validate(); err != nil {
		return 0, err
	}

	artist, err := l.artists.FindOrCreate(ctx, s.Artist)
	if err != nil {
		return 0, models.NewDatabaseError("failed to save artist", err)
	}

	p := s.Partition(artist.ID)
	if err := l.partitions.Create(ctx, p); err != nil {
		return 0, models.NewDatabaseError("failed to save song", err)
	}

	if err := l.chords.InsertAll(ctx, p.ID, s.Chords); err != nil {
		l.logger.Warn("failed to insert chords", "partition_id", p.ID, "count", len(s.Chords), "err", err)
	}

	l.invalidate(ctx, artist.ID)
	l.logger.Debug("created song", "id", p.ID, "artist", artist.Name, "title", p.Title)
	return p.ID, nil
}

// UpdateSong replaces the song row, then deletes and re-inserts every chord.
func (l *Library) UpdateSong(ctx context.Context, id int64, s models.Submission) error {
	s = s.Normalize()
	if err := s.Validate(); err != nil {
		return err
	}

	existing, err := l.partitions.Get(ctx, id)
	if err != nil {
		return models.NewDatabaseError("failed to load song", err)
	}

	artist, err := l.artists.FindOrCreate(ctx, s.Artist)
	if err != nil {
		return models.NewDatabaseError("failed to save artist", err)
	}

	p := s.Partition(artist.ID)
	p.ID = id
	if err := l.partitions.Update(ctx, p); err != nil {
		return models.NewDatabaseError("failed to update song", err)
	}

	if _, err := l.chords.DeleteByPartition(ctx, id); err != nil {
		return models.NewDatabaseError("failed to delete chords", err)
	}
	if err := l.chords.InsertAll(ctx, id, s.Chords); err != nil {
		return models.NewDatabaseError("failed to insert chords", err)
	}

	l.invalidate(ctx, existing.ArtistID, artist.ID)
	return nil
}

func (l *Library) ToggleFavorite(ctx context.Context, id int64) (bool, error) {
	if _, err := l.partitions.Get(ctx, id); err != nil {
		return false, err
	}
	return l.favorites.Toggle(ctx, id)
}

func (l *Library) RecentSongs(ctx context.Context, limit int) ([]*models.Partition, error) {
	limit = listLimit(limit)
	return l.readTiers(ctx, "recent",
		tier{name: repositories.RecentView, read: func(ctx context.Context) ([]*models.Partition, error) {
			return l.views.Recent(ctx, limit)
		}},
		tier{name: "ordered", read: func(ctx context.Context) ([]*models.Partition, error) {
			return l.partitions.List(ctx, map[string]any{"order": repositories.OrderByCreatedAt, "limit": limit})
		}},
		tier{name: "in-memory", read: func(ctx context.Context) ([]*models.Partition, error) {
			all, err := l.partitions.List(ctx, map[string]any{"order": repositories.OrderNone})
			if err != nil {
				return nil, err
			}
			return SortRecent(all, limit), nil
		}},
	)
}

func (l *Library) PopularSongs(ctx context.Context, limit int) ([]*models.Partition, error) {
	limit = listLimit(limit)
	return l.readTiers(ctx, "popular",
		tier{name: repositories.PopularView, read: func(ctx context.Context) ([]*models.Partition, error) {
			return l.views.Popular(ctx, limit)
		}},
		tier{name: "ordered", read: func(ctx context.Context) ([]*models.Partition, error) {
			return l.partitions.List(ctx, map[string]any{"order": repositories.OrderByPopularity, "limit": limit})
		}},
		tier{name: "in-memory", read: func(ctx context.Context) ([]*models.Partition, error) {
			all, err := l.partitions.List(ctx, map[string]any{"order": repositories.OrderNone})
			if err != nil {
				return nil, err
			}
			return SortPopular(all, limit), nil
		}},
	)
}

func (l *Library) RandomArtist(ctx context.Context) (*models.Artist, error) {
	artists, err := l.artists.List(ctx, map[string]any{"with_songs": true})
	if err != nil {
		return nil, err
	}
	if len(artists) == 0 {
		return nil, shared.ErrNoArtists
	}
	return artists[l.intn(len(artists))], nil
}

func (l *Library) invalidate(ctx context.Context, artistIDs ...int64) {
	if l.cache == nil {
		return
	}
	keys := []string{cache.KeyArtists, cache.KeySongs}
	for _, id := range artistIDs {
		keys = append(keys, cache.ArtistSongsKey(id))
	}
	if err := l.cache.Delete(ctx, keys...); err != nil {
		l.logger.Warn("failed to invalidate cache", "keys", keys, "err", err)
	}
}

type tier struct {
	name string
	read func(ctx context.Context) ([]*models.Partition, error)
}

// readTiers returns the result of the first tier that succeeds.
func (l *Library) readTiers(ctx context.Context, list string, tiers ...tier) ([]*models.Partition, error) {
	errs := []error{shared.ErrUnavailable}
	for _, t := range tiers {
		songs, err := t.read(ctx)
		if err == nil {
			if songs == nil {
				songs = []*models.Partition{}
			}
			return songs, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		l.logger.Warn("read tier failed", "list", list, "tier", t.name, "err", err)
		errs = append(errs, fmt.Errorf("%s: %w", t.name, err))
	}
	return nil, errors.Join(errs...)
}

func listLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return limit
}

// SortRecent orders songs newest first and keeps at most limit.
func SortRecent(songs []*models.Partition, limit int) []*models.Partition {
	sorted := append([]*models.Partition(nil), songs...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].CreatedAt.Equal(sorted[j].CreatedAt) {
			return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
		}
		return sorted[i].ID > sorted[j].ID
	})
	return truncate(sorted, limit)
}

// SortPopular orders songs by recent views then total views and keeps at most limit.
func SortPopular(songs []*models.Partition, limit int) []*models.Partition {
	sorted := append([]*models.Partition(nil), songs...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.RecentViews != b.RecentViews {
			return a.RecentViews > b.RecentViews
		}
		if a.Views != b.Views {
			return a.Views > b.Views
		}
		return a.ID < b.ID
	})
	return truncate(sorted, limit)
}

func truncate(songs []*models.Partition, limit int) []*models.Partition {
	if limit > 0 && len(songs) > limit {
		return songs[:limit]
	}
	return songs
}
