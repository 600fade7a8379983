package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Persistence errors
	ErrNotFound       = fmt.Errorf("not found")
	ErrArtistNotFound = fmt.Errorf("artist %w", ErrNotFound)
	ErrSongNotFound   = fmt.Errorf("song %w", ErrNotFound)
	ErrNoArtists      = fmt.Errorf("no artists with songs")
	ErrUnavailable    = fmt.Errorf("all read tiers failed")

	// Remote API errors
	ErrAPIRequest = fmt.Errorf("API request failed")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
