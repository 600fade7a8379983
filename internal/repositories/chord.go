package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/desertthunder/songsheet/internal/models"
)

// ChordRepository persists the ordered chord entries of partitions.
type ChordRepository struct {
	db *sql.DB
}

// NewChordRepository creates a new ChordRepository with the given database connection
func NewChordRepository(db *sql.DB) *ChordRepository {
	return &ChordRepository{db: db}
}

// ListByPartition returns the chords of a partition ordered by position.
func (r *ChordRepository) ListByPartition(ctx context.Context, partitionID int64) ([]models.ChordEntry, error) {
	query := `
		SELECT partition_id, position, chord, fingering
		FROM partition_chords
		WHERE partition_id = ?
		ORDER BY position ASC
	`

	rows, err := r.db.QueryContext(ctx, query, partitionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query chords: %w", err)
	}
	defer rows.Close()

	chords := []models.ChordEntry{}
	for rows.Next() {
		var c models.ChordEntry
		if err := rows.Scan(&c.PartitionID, &c.Position, &c.Chord, &c.Fingering); err != nil {
			return nil, fmt.Errorf("failed to scan chord: %w", err)
		}
		chords = append(chords, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return chords, nil
}

// InsertAll batch-inserts chords for a partition with position set to each entry's index.
func (r *ChordRepository) InsertAll(ctx context.Context, partitionID int64, chords []models.ChordEntry) error {
	if len(chords) == 0 {
		return nil
	}

	placeholders := make([]string, len(chords))
	args := make([]any, 0, len(chords)*4)
	for i, c := range chords {
		placeholders[i] = "(?, ?, ?, ?)"
		args = append(args, partitionID, i, c.Chord, c.Fingering)
	}

	query := "INSERT INTO partition_chords (partition_id, position, chord, fingering) VALUES " + strings.Join(placeholders, ", ")
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert chords: %w", err)
	}

	return nil
}

// DeleteByPartition removes every chord of a partition and returns how many were removed.
func (r *ChordRepository) DeleteByPartition(ctx context.Context, partitionID int64) (int64, error) {
	result, err := r.db.ExecContext(ctx, "DELETE FROM partition_chords WHERE partition_id = ?", partitionID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete chords: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return n, nil
}
