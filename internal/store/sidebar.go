package store

import (
	"sort"
	"strings"

	"github.com/desertthunder/songsheet/internal/models"
	"github.com/desertthunder/songsheet/internal/shared"
)

// ArtistGroup is one sidebar entry: an artist and the songs listed under it.
type ArtistGroup struct {
	Artist *models.Artist
	Songs  []*models.Partition
}

// Sidebar groups songs under their artists.
//
// A non-empty term keeps songs whose title or artist name contains it, ignoring case and extra spaces.
// Artists without a listed song are omitted. Groups are sorted by artist name and songs by title.
func Sidebar(artists []*models.Artist, songs []*models.Partition, term string) []ArtistGroup {
	needle := shared.NormalizeText(term)

	byArtist := make(map[int64][]*models.Partition)
	for _, song := range songs {
		byArtist[song.ArtistID] = append(byArtist[song.ArtistID], song)
	}

	var groups []ArtistGroup
	for _, artist := range artists {
		artistMatch := needle != "" && strings.Contains(shared.NormalizeText(artist.Name), needle)

		var matched []*models.Partition
		for _, song := range byArtist[artist.ID] {
			if needle == "" || artistMatch || strings.Contains(shared.NormalizeText(song.Title), needle) {
				matched = append(matched, song)
			}
		}
		if len(matched) == 0 {
			continue
		}

		sort.SliceStable(matched, func(i, j int) bool {
			return strings.ToLower(matched[i].Title) < strings.ToLower(matched[j].Title)
		})
		groups = append(groups, ArtistGroup{Artist: artist, Songs: matched})
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return strings.ToLower(groups[i].Artist.Name) < strings.ToLower(groups[j].Artist.Name)
	})
	return groups
}

// Resolve returns the song a selection points at within groups, or nil when out of range.
func Resolve(groups []ArtistGroup, sel *Selection) *models.Partition {
	if sel == nil || sel.ArtistIndex < 0 || sel.ArtistIndex >= len(groups) {
		return nil
	}
	songs := groups[sel.ArtistIndex].Songs
	if sel.SongIndex < 0 || sel.SongIndex >= len(songs) {
		return nil
	}
	return songs[sel.SongIndex]
}
