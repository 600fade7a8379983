package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/songsheet/internal/models"
)

// FavoriteRepository persists favorite markers. A row's existence means the partition is favorited.
type FavoriteRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewFavoriteRepository creates a new FavoriteRepository with the given database connection
func NewFavoriteRepository(db *sql.DB) *FavoriteRepository {
	return &FavoriteRepository{db: db, now: time.Now}
}

// Exists reports whether partitionID is favorited.
func (r *FavoriteRepository) Exists(ctx context.Context, partitionID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM favorites WHERE partition_id = ?)", partitionID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check favorite: %w", err)
	}
	return exists, nil
}

// Add marks partitionID as favorited.
func (r *FavoriteRepository) Add(ctx context.Context, partitionID int64) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO favorites (partition_id, created_at) VALUES (?, ?)",
		partitionID, formatTimestamp(r.now()),
	)
	if err != nil {
		return fmt.Errorf("failed to insert favorite: %w", err)
	}
	return nil
}

// Remove clears the favorite marker of partitionID.
func (r *FavoriteRepository) Remove(ctx context.Context, partitionID int64) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM favorites WHERE partition_id = ?", partitionID); err != nil {
		return fmt.Errorf("failed to delete favorite: %w", err)
	}
	return nil
}

// Toggle deletes an existing marker (returning false) or inserts a new one (returning true).
func (r *FavoriteRepository) Toggle(ctx context.Context, partitionID int64) (bool, error) {
	exists, err := r.Exists(ctx, partitionID)
	if err != nil {
		return false, err
	}

	if exists {
		return false, r.Remove(ctx, partitionID)
	}
	return true, r.Add(ctx, partitionID)
}

// List returns every favorite, newest first.
func (r *FavoriteRepository) List(ctx context.Context) ([]models.Favorite, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT partition_id, created_at FROM favorites ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to query favorites: %w", err)
	}
	defer rows.Close()

	var favorites []models.Favorite
	for rows.Next() {
		var (
			f         models.Favorite
			createdAt timestamp
		)
		if err := rows.Scan(&f.PartitionID, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan favorite: %w", err)
		}
		f.CreatedAt = createdAt.Time
		favorites = append(favorites, f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return favorites, nil
}
