package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/songsheet/internal/shared"
)

// Partition is a stored chord sheet.
//
// ArtistName is filled by queries that join the artists table.
// Album, Year, Difficulty and YouTubeLink are optional.
type Partition struct {
	ID            int64     `json:"id" yaml:"id"`
	ArtistID      int64     `json:"artist_id" yaml:"artist_id"`
	ArtistName    string    `json:"artist_name,omitempty" yaml:"artist,omitempty"`
	Title         string    `json:"title" yaml:"title"`
	Tuning        string    `json:"tuning" yaml:"tuning"`
	KeySignature  string    `json:"key_signature" yaml:"key_signature"`
	Capo          string    `json:"capo" yaml:"capo"`
	Tempo         string    `json:"tempo" yaml:"tempo"`
	TimeSignature string    `json:"time_signature" yaml:"time_signature"`
	Rhythm        string    `json:"rhythm" yaml:"rhythm"`
	Lyrics        string    `json:"lyrics" yaml:"lyrics"`
	Views         int       `json:"views" yaml:"views"`
	RecentViews   int       `json:"recent_views" yaml:"recent_views"`
	CreatedAt     time.Time `json:"created_at" yaml:"created_at"`
	Album         *string   `json:"album,omitempty" yaml:"album,omitempty"`
	Year          *int      `json:"year,omitempty" yaml:"year,omitempty"`
	Difficulty    *string   `json:"difficulty,omitempty" yaml:"difficulty,omitempty"`
	YouTubeLink   *string   `json:"youtube_link,omitempty" yaml:"youtube_link,omitempty"`
}

// Validate requires a title and an artist reference.
func (p *Partition) Validate() error {
	if strings.TrimSpace(p.Title) == "" {
		return fmt.Errorf("%w: title is required", shared.ErrInvalidInput)
	}
	if p.ArtistID == 0 {
		return fmt.Errorf("%w: artist_id is required", shared.ErrInvalidInput)
	}
	return nil
}

// Label returns "Artist - Title", or just the title when the artist name was not joined.
func (p *Partition) Label() string {
	if p.ArtistName == "" {
		return p.Title
	}
	return p.ArtistName + " - " + p.Title
}

// ChordEntry is one chord of a partition. Position orders entries and is contiguous from 0.
type ChordEntry struct {
	PartitionID int64  `json:"partition_id,omitempty" yaml:"-"`
	Position    int    `json:"position" yaml:"-"`
	Chord       string `json:"chord" yaml:"chord"`
	Fingering   string `json:"fingering" yaml:"fingering"`
}

// Favorite marks a partition as favorited. Existence implies favorited.
type Favorite struct {
	PartitionID int64     `json:"partition_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// SongDetails is a partition with its ordered chords and favorite status.
type SongDetails struct {
	Partition
	Chords     []ChordEntry `json:"chords" yaml:"chords"`
	IsFavorite bool         `json:"is_favorite" yaml:"is_favorite"`
}

// EmbedURL returns the audio player embed URL for the song's YouTube link, or "".
func (d *SongDetails) EmbedURL() string {
	if d.YouTubeLink == nil {
		return ""
	}
	return EmbedURL(*d.YouTubeLink)
}
