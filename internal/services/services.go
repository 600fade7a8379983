// package services defines the [SongService] data access boundary and its implementations.
package services

import (
	"context"

	"github.com/desertthunder/songsheet/internal/models"
)

// DefaultListLimit caps the recent and popular lists.
const DefaultListLimit = 10

// SongService is the data access boundary consumed by the HTTP API, the TUI and the CLI.
type SongService interface {
	// ListArtists returns every artist ordered by name.
	ListArtists(ctx context.Context) ([]*models.Artist, error)

	// ListSongs returns every song joined with its artist name, ordered by title.
	ListSongs(ctx context.Context) ([]*models.Partition, error)

	// ListArtistSongs returns one artist's songs ordered by title.
	ListArtistSongs(ctx context.Context, artistID int64) ([]*models.Partition, error)

	// SongDetails returns a song with its ordered chords and favorite status, and records a view.
	SongDetails(ctx context.Context, id int64) (*models.SongDetails, error)

	// CreateSong writes a new song, creating its artist when absent, and returns the new ID.
	// Errors are [models.SubmitError] values.
	CreateSong(ctx context.Context, s models.Submission) (int64, error)

	// UpdateSong replaces every field and chord of an existing song.
	// Errors are [models.SubmitError] values.
	UpdateSong(ctx context.Context, id int64, s models.Submission) error

	// ToggleFavorite flips the favorite marker and reports whether the song is now a favorite.
	ToggleFavorite(ctx context.Context, id int64) (bool, error)

	// RecentSongs returns up to limit songs, newest first.
	RecentSongs(ctx context.Context, limit int) ([]*models.Partition, error)

	// PopularSongs returns up to limit songs by recent then total views.
	PopularSongs(ctx context.Context, limit int) ([]*models.Partition, error)

	// RandomArtist picks an artist that has at least one song.
	RandomArtist(ctx context.Context) (*models.Artist, error)
}
