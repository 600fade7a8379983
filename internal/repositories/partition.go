package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/songsheet/internal/models"
	"github.com/desertthunder/songsheet/internal/shared"
)

const partitionColumns = `p.id, p.artist_id, a.name, p.title, p.tuning, p.key_signature, p.capo, p.tempo,
	p.time_signature, p.rhythm, p.lyrics, p.views, p.recent_views, p.created_at,
	p.album, p.year, p.difficulty, p.youtube_link`

// Orderings accepted by the "order" criterion of [PartitionRepository.List].
const (
	OrderByTitle      = "title"
	OrderByCreatedAt  = "created_at"
	OrderByPopularity = "popularity"
	OrderNone         = "none"
)

var partitionOrderings = map[string]string{
	OrderByTitle:      " ORDER BY p.title COLLATE NOCASE ASC, p.id ASC",
	OrderByCreatedAt:  " ORDER BY p.created_at DESC, p.id DESC",
	OrderByPopularity: " ORDER BY p.recent_views DESC, p.views DESC, p.id ASC",
	OrderNone:         "",
}

// PartitionRepository implements [models.Repository] for [models.Partition] persistence.
//
// Reads join the artists table so ArtistName is always populated.
type PartitionRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewPartitionRepository creates a new PartitionRepository with the given database connection
func NewPartitionRepository(db *sql.DB) *PartitionRepository {
	return &PartitionRepository{db: db, now: time.Now}
}

// Create inserts a new partition with zeroed view counters and sets its ID and CreatedAt
func (r *PartitionRepository) Create(ctx context.Context, p *models.Partition) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	p.Views, p.RecentViews = 0, 0
	p.CreatedAt = r.now().UTC().Truncate(time.Microsecond)

	query := `
		INSERT INTO partitions (
			artist_id, title, tuning, key_signature, capo, tempo, time_signature, rhythm, lyrics,
			views, recent_views, created_at, album, year, difficulty, youtube_link
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, 0, 0, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		p.ArtistID,
		p.Title,
		p.Tuning,
		p.KeySignature,
		p.Capo,
		p.Tempo,
		p.TimeSignature,
		p.Rhythm,
		p.Lyrics,
		formatTimestamp(p.CreatedAt),
		nullString(p.Album),
		nullInt(p.Year),
		nullString(p.Difficulty),
		nullString(p.YouTubeLink),
	)
	if err != nil {
		return fmt.Errorf("failed to insert partition: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get partition id: %w", err)
	}
	p.ID = id

	return nil
}

// Get retrieves a partition by ID
func (r *PartitionRepository) Get(ctx context.Context, id int64) (*models.Partition, error) {
	query := `SELECT ` + partitionColumns + `
		FROM partitions p
		JOIN artists a ON a.id = p.artist_id
		WHERE p.id = ?
	`

	p, err := scanPartition(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", shared.ErrSongNotFound, id)
	}
	return p, err
}

// Update replaces every editable field of an existing partition. Counters and CreatedAt are kept.
func (r *PartitionRepository) Update(ctx context.Context, p *models.Partition) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		UPDATE partitions
		SET artist_id = ?, title = ?, tuning = ?, key_signature = ?, capo = ?, tempo = ?,
			time_signature = ?, rhythm = ?, lyrics = ?, album = ?, year = ?, difficulty = ?, youtube_link = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		p.ArtistID,
		p.Title,
		p.Tuning,
		p.KeySignature,
		p.Capo,
		p.Tempo,
		p.TimeSignature,
		p.Rhythm,
		p.Lyrics,
		nullString(p.Album),
		nullInt(p.Year),
		nullString(p.Difficulty),
		nullString(p.YouTubeLink),
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update partition: %w", err)
	}

	return checkAffected(result, fmt.Errorf("%w: %d", shared.ErrSongNotFound, p.ID))
}

// Delete removes a partition; its chords, favorite and view log cascade.
func (r *PartitionRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM partitions WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete partition: %w", err)
	}

	return checkAffected(result, fmt.Errorf("%w: %d", shared.ErrSongNotFound, id))
}

// List retrieves partitions joined with their artist name.
//
// Criteria:
//   - "artist_id" (int64) restricts to one artist
//   - "order" (string) one of [OrderByTitle] (default), [OrderByCreatedAt], [OrderByPopularity], [OrderNone]
//   - "limit" (int) caps the number of rows when positive
func (r *PartitionRepository) List(ctx context.Context, criteria map[string]any) ([]*models.Partition, error) {
	query := `SELECT ` + partitionColumns + `
		FROM partitions p
		JOIN artists a ON a.id = p.artist_id
		WHERE 1 = 1
	`
	args := []any{}

	if artistID, ok := criteria["artist_id"].(int64); ok && artistID > 0 {
		query += " AND p.artist_id = ?"
		args = append(args, artistID)
	}

	order := OrderByTitle
	if o, ok := criteria["order"].(string); ok && o != "" {
		order = o
	}
	clause, ok := partitionOrderings[order]
	if !ok {
		return nil, fmt.Errorf("%w: unknown ordering %q", shared.ErrInvalidArgument, order)
	}
	query += clause

	if limit, ok := criteria["limit"].(int); ok && limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query partitions: %w", err)
	}
	defer rows.Close()

	return collectPartitions(rows)
}

func collectPartitions(rows *sql.Rows) ([]*models.Partition, error) {
	var partitions []*models.Partition
	for rows.Next() {
		p, err := scanPartition(rows)
		if err != nil {
			return nil, err
		}
		partitions = append(partitions, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return partitions, nil
}

// scanPartition reads the column order of partitionColumns, which the read views share.
func scanPartition(row scanner) (*models.Partition, error) {
	var (
		p          models.Partition
		createdAt  timestamp
		album      sql.NullString
		year       sql.NullInt64
		difficulty sql.NullString
		youtube    sql.NullString
	)

	err := row.Scan(
		&p.ID,
		&p.ArtistID,
		&p.ArtistName,
		&p.Title,
		&p.Tuning,
		&p.KeySignature,
		&p.Capo,
		&p.Tempo,
		&p.TimeSignature,
		&p.Rhythm,
		&p.Lyrics,
		&p.Views,
		&p.RecentViews,
		&createdAt,
		&album,
		&year,
		&difficulty,
		&youtube,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan partition: %w", err)
	}

	p.CreatedAt = createdAt.Time
	p.Album = stringPtr(album)
	p.Year = intPtr(year)
	p.Difficulty = stringPtr(difficulty)
	p.YouTubeLink = stringPtr(youtube)

	return &p, nil
}
