package models

import (
	"regexp"
	"strings"
)

var (
	chordNamePattern = regexp.MustCompile(`^[A-G][#b]?(?:maj|min|m|dim|aug|sus|add)?\d*(?:sus[24]|add\d+|b5|#5)?(?:/[A-G][#b]?)?$`)
	fingeringPattern = regexp.MustCompile(`^[Xx0-9]{6}$`)
	youTubePattern   = regexp.MustCompile(`^(?:https?://)?(?:www\.|m\.|music\.)?(?:youtube\.com/watch\?(?:[^#]*&)?v=|youtu\.be/)([A-Za-z0-9_-]{11})(?:[?&#].*)?$`)
)

// Warning is a non-blocking validation finding on a submitted field.
type Warning struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidChordName reports whether name looks like a chord symbol, e.g. "C#m7" or "D/F#".
func ValidChordName(name string) bool {
	return chordNamePattern.MatchString(name)
}

// ValidFingering reports whether f has one fret digit or mute marker per string.
func ValidFingering(f string) bool {
	return fingeringPattern.MatchString(f)
}

// ExtractYouTubeID returns the 11 character video ID of a youtube.com/watch or youtu.be link, or "".
func ExtractYouTubeID(link string) string {
	m := youTubePattern.FindStringSubmatch(strings.TrimSpace(link))
	if m == nil {
		return ""
	}
	return m[1]
}

// ValidYouTubeLink reports whether link carries a video ID.
func ValidYouTubeLink(link string) bool {
	return ExtractYouTubeID(link) != ""
}

// EmbedURL builds the embed URL of an audio-only player for link, or "" when link is not a video link.
func EmbedURL(link string) string {
	id := ExtractYouTubeID(link)
	if id == "" {
		return ""
	}
	return "https://www.youtube.com/embed/" + id + "?autoplay=0&controls=1"
}
