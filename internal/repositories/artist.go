package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/desertthunder/songsheet/internal/models"
	"github.com/desertthunder/songsheet/internal/shared"
)

// ArtistRepository implements [models.Repository] for [models.Artist] persistence.
type ArtistRepository struct {
	db *sql.DB
}

// NewArtistRepository creates a new [ArtistRepository] with the given database connection
func NewArtistRepository(db *sql.DB) *ArtistRepository {
	return &ArtistRepository{db: db}
}

// Create inserts a new artist and sets its ID
func (r *ArtistRepository) Create(ctx context.Context, artist *models.Artist) error {
	if err := artist.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	artist.Name = strings.TrimSpace(artist.Name)
	result, err := r.db.ExecContext(ctx, "INSERT INTO artists (name) VALUES (?)", artist.Name)
	if err != nil {
		return fmt.Errorf("failed to insert artist: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get artist id: %w", err)
	}
	artist.ID = id

	return nil
}

// Get retrieves an artist by ID
func (r *ArtistRepository) Get(ctx context.Context, id int64) (*models.Artist, error) {
	return r.scanOne(r.db.QueryRowContext(ctx, "SELECT id, name FROM artists WHERE id = ?", id))
}

// GetByName retrieves an artist by exact name
func (r *ArtistRepository) GetByName(ctx context.Context, name string) (*models.Artist, error) {
	return r.scanOne(r.db.QueryRowContext(ctx, "SELECT id, name FROM artists WHERE name = ?", strings.TrimSpace(name)))
}

// FindOrCreate returns the artist named name, inserting it first when absent.
func (r *ArtistRepository) FindOrCreate(ctx context.Context, name string) (*models.Artist, error) {
	artist, err := r.GetByName(ctx, name)
	if err == nil {
		return artist, nil
	}
	if !errors.Is(err, shared.ErrArtistNotFound) {
		return nil, err
	}

	artist = &models.Artist{Name: name}
	if err := r.Create(ctx, artist); err != nil {
		return nil, err
	}
	return artist, nil
}

// Update renames an existing artist
func (r *ArtistRepository) Update(ctx context.Context, artist *models.Artist) error {
	if err := artist.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	result, err := r.db.ExecContext(ctx, "UPDATE artists SET name = ? WHERE id = ?", strings.TrimSpace(artist.Name), artist.ID)
	if err != nil {
		return fmt.Errorf("failed to update artist: %w", err)
	}

	return checkAffected(result, fmt.Errorf("%w: %d", shared.ErrArtistNotFound, artist.ID))
}

// Delete removes an artist by ID. Fails while partitions still reference it.
func (r *ArtistRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM artists WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete artist: %w", err)
	}

	return checkAffected(result, fmt.Errorf("%w: %d", shared.ErrArtistNotFound, id))
}

// List retrieves artists ordered by name.
//
// Criteria: "with_songs" (bool) keeps only artists referenced by at least one partition.
func (r *ArtistRepository) List(ctx context.Context, criteria map[string]any) ([]*models.Artist, error) {
	query := "SELECT a.id, a.name FROM artists a"

	if withSongs, ok := criteria["with_songs"].(bool); ok && withSongs {
		query += " WHERE EXISTS (SELECT 1 FROM partitions p WHERE p.artist_id = a.id)"
	}

	query += " ORDER BY a.name COLLATE NOCASE ASC, a.id ASC"

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query artists: %w", err)
	}
	defer rows.Close()

	var artists []*models.Artist
	for rows.Next() {
		artist, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		artists = append(artists, artist)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return artists, nil
}

func (r *ArtistRepository) scanOne(row *sql.Row) (*models.Artist, error) {
	artist, err := r.scanRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, shared.ErrArtistNotFound
	}
	return artist, err
}

func (r *ArtistRepository) scanRow(row scanner) (*models.Artist, error) {
	var artist models.Artist
	if err := row.Scan(&artist.ID, &artist.Name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan artist: %w", err)
	}
	return &artist, nil
}
