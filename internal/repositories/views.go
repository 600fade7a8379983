package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/songsheet/internal/models"
	"github.com/desertthunder/songsheet/internal/shared"
)

// Read views created by migrations.
const (
	RecentView  = "recent_partitions"
	PopularView = "popular_partitions"
)

// RecentWindow is the trailing period counted by recent_views.
const RecentWindow = 7 * 24 * time.Hour

var viewOrderings = map[string]string{
	RecentView:  " ORDER BY created_at DESC, id DESC",
	PopularView: " ORDER BY recent_views DESC, views DESC, id ASC",
}

const viewColumns = `id, artist_id, artist_name, title, tuning, key_signature, capo, tempo,
	time_signature, rhythm, lyrics, views, recent_views, created_at,
	album, year, difficulty, youtube_link`

// ViewRepository handles view-count bookkeeping and reads from the precomputed views.
type ViewRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewViewRepository creates a new ViewRepository with the given database connection
func NewViewRepository(db *sql.DB) *ViewRepository {
	return &ViewRepository{db: db, now: time.Now}
}

// RecordView is the record_view procedure: it increments views, appends to the view log and
// recomputes recent_views over [RecentWindow], in one transaction.
func (r *ViewRepository) RecordView(ctx context.Context, partitionID int64) error {
	now := r.now()
	cutoff := formatTimestamp(now.Add(-RecentWindow))

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, "UPDATE partitions SET views = views + 1 WHERE id = ?", partitionID)
	if err != nil {
		return fmt.Errorf("failed to increment views: %w", err)
	}
	if err := checkAffected(result, fmt.Errorf("%w: %d", shared.ErrSongNotFound, partitionID)); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO partition_views (partition_id, viewed_at) VALUES (?, ?)",
		partitionID, formatTimestamp(now),
	); err != nil {
		return fmt.Errorf("failed to log view: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM partition_views WHERE partition_id = ? AND viewed_at < ?",
		partitionID, cutoff,
	); err != nil {
		return fmt.Errorf("failed to prune view log: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE partitions
		SET recent_views = (SELECT COUNT(*) FROM partition_views WHERE partition_id = ? AND viewed_at >= ?)
		WHERE id = ?
	`, partitionID, cutoff, partitionID); err != nil {
		return fmt.Errorf("failed to update recent views: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit view: %w", err)
	}

	return nil
}

// Recent reads up to limit partitions from [RecentView].
func (r *ViewRepository) Recent(ctx context.Context, limit int) ([]*models.Partition, error) {
	return r.fromView(ctx, RecentView, limit)
}

// Popular reads up to limit partitions from [PopularView].
func (r *ViewRepository) Popular(ctx context.Context, limit int) ([]*models.Partition, error) {
	return r.fromView(ctx, PopularView, limit)
}

func (r *ViewRepository) fromView(ctx context.Context, view string, limit int) ([]*models.Partition, error) {
	order, ok := viewOrderings[view]
	if !ok {
		return nil, fmt.Errorf("%w: unknown view %q", shared.ErrInvalidArgument, view)
	}

	query := "SELECT " + viewColumns + " FROM " + view + order
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", view, err)
	}
	defer rows.Close()

	return collectPartitions(rows)
}
