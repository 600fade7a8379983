package models

import (
	"fmt"
	"strings"
)

// Defaults applied to a submission before it is written.
const (
	DefaultTempo         = "120 BPM"
	DefaultKey           = "C"
	DefaultCapo          = "Aucun"
	DefaultTimeSignature = "4 / 4"
	DefaultRhythm        = "↓ . ↓ ↑ ↓ . ↓ ↑"
	DefaultChord         = "C"
	DefaultFingering     = "X32010"
)

// Submission is the payload of the add/edit form, also read from YAML files by the CLI.
type Submission struct {
	Artist        string       `json:"artist" yaml:"artist"`
	Title         string       `json:"title" yaml:"title"`
	Tuning        string       `json:"tuning" yaml:"tuning"`
	KeySignature  string       `json:"key_signature" yaml:"key_signature"`
	Capo          string       `json:"capo" yaml:"capo"`
	Tempo         string       `json:"tempo" yaml:"tempo"`
	TimeSignature string       `json:"time_signature" yaml:"time_signature"`
	Rhythm        string       `json:"rhythm" yaml:"rhythm"`
	Lyrics        string       `json:"lyrics" yaml:"lyrics"`
	Album         string       `json:"album,omitempty" yaml:"album,omitempty"`
	Year          int          `json:"year,omitempty" yaml:"year,omitempty"`
	Difficulty    string       `json:"difficulty,omitempty" yaml:"difficulty,omitempty"`
	YouTubeLink   string       `json:"youtube_link,omitempty" yaml:"youtube_link,omitempty"`
	Chords        []ChordEntry `json:"chords" yaml:"chords"`
}

// SubmissionFromDetails builds the edit form payload of an existing song.
func SubmissionFromDetails(d *SongDetails) Submission {
	s := Submission{
		Artist:        d.ArtistName,
		Title:         d.Title,
		Tuning:        d.Tuning,
		KeySignature:  d.KeySignature,
		Capo:          d.Capo,
		Tempo:         d.Tempo,
		TimeSignature: d.TimeSignature,
		Rhythm:        d.Rhythm,
		Lyrics:        d.Lyrics,
	}
	if d.Album != nil {
		s.Album = *d.Album
	}
	if d.Year != nil {
		s.Year = *d.Year
	}
	if d.Difficulty != nil {
		s.Difficulty = *d.Difficulty
	}
	if d.YouTubeLink != nil {
		s.YouTubeLink = *d.YouTubeLink
	}
	for _, c := range d.Chords {
		s.Chords = append(s.Chords, ChordEntry{Chord: c.Chord, Fingering: c.Fingering})
	}
	return s
}

// NormalizeTempo appends " BPM" to a bare tempo and defaults an empty one to [DefaultTempo].
func NormalizeTempo(tempo string) string {
	tempo = strings.TrimSpace(tempo)
	switch {
	case tempo == "":
		return DefaultTempo
	case strings.Contains(strings.ToUpper(tempo), "BPM"):
		return tempo
	default:
		return tempo + " BPM"
	}
}

// Normalize trims fields, fills defaults and drops unnamed chords.
//
// A submission without any named chord gets a single C chord.
func (s Submission) Normalize() Submission {
	s.Artist = strings.TrimSpace(s.Artist)
	s.Title = strings.TrimSpace(s.Title)
	s.Tempo = NormalizeTempo(s.Tempo)
	s.Tuning = orDefault(s.Tuning, tunings[0])
	s.KeySignature = orDefault(s.KeySignature, DefaultKey)
	s.Capo = orDefault(s.Capo, DefaultCapo)
	s.TimeSignature = orDefault(s.TimeSignature, DefaultTimeSignature)
	s.Rhythm = orDefault(s.Rhythm, DefaultRhythm)
	s.Album = strings.TrimSpace(s.Album)
	s.Difficulty = strings.TrimSpace(s.Difficulty)
	s.YouTubeLink = strings.TrimSpace(s.YouTubeLink)

	chords := make([]ChordEntry, 0, len(s.Chords))
	for _, c := range s.Chords {
		name := strings.TrimSpace(c.Chord)
		if name == "" {
			continue
		}
		chords = append(chords, ChordEntry{
			Position:  len(chords),
			Chord:     name,
			Fingering: strings.TrimSpace(c.Fingering),
		})
	}
	if len(chords) == 0 {
		chords = []ChordEntry{{Chord: DefaultChord, Fingering: DefaultFingering}}
	}
	s.Chords = chords

	return s
}

// Validate reports missing required fields as a validation [SubmitError].
func (s Submission) Validate() error {
	var missing []string
	if strings.TrimSpace(s.Artist) == "" {
		missing = append(missing, "artist")
	}
	if strings.TrimSpace(s.Title) == "" {
		missing = append(missing, "title")
	}
	if s.Year < 0 {
		return NewValidationError(fmt.Sprintf("invalid year %d", s.Year))
	}
	if len(missing) > 0 {
		return NewValidationError("missing required fields: " + strings.Join(missing, ", "))
	}
	return nil
}

// Warnings checks chord names, fingerings and the YouTube link. Findings never block a write.
func (s Submission) Warnings() []Warning {
	var warnings []Warning
	for i, c := range s.Chords {
		if c.Chord != "" && !ValidChordName(c.Chord) {
			warnings = append(warnings, Warning{
				Field:   fmt.Sprintf("chords[%d].chord", i),
				Message: fmt.Sprintf("%q is not a recognized chord name", c.Chord),
			})
		}
		if c.Fingering != "" && !ValidFingering(c.Fingering) {
			warnings = append(warnings, Warning{
				Field:   fmt.Sprintf("chords[%d].fingering", i),
				Message: fmt.Sprintf("%q must be 6 characters from X and 0-9", c.Fingering),
			})
		}
	}
	if s.YouTubeLink != "" && !ValidYouTubeLink(s.YouTubeLink) {
		warnings = append(warnings, Warning{
			Field:   "youtube_link",
			Message: "not a youtube.com/watch?v= or youtu.be/ link with an 11 character video ID",
		})
	}
	return warnings
}

// Partition maps the submission onto a partition row for artistID.
func (s Submission) Partition(artistID int64) *Partition {
	p := &Partition{
		ArtistID:      artistID,
		ArtistName:    s.Artist,
		Title:         s.Title,
		Tuning:        s.Tuning,
		KeySignature:  s.KeySignature,
		Capo:          s.Capo,
		Tempo:         s.Tempo,
		TimeSignature: s.TimeSignature,
		Rhythm:        s.Rhythm,
		Lyrics:        s.Lyrics,
		Album:         optional(s.Album),
		Difficulty:    optional(s.Difficulty),
		YouTubeLink:   optional(s.YouTubeLink),
	}
	if s.Year > 0 {
		year := s.Year
		p.Year = &year
	}
	return p
}

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v == "" {
		return def
	}
	return v
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
