package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/songsheet/internal/models"
	"github.com/desertthunder/songsheet/internal/store"
)

var (
	_ list.Item = artistItem{}
	_ list.Item = songItem{}
)

// artistItem is a sidebar artist header. Selecting it opens or closes its group.
type artistItem struct {
	index  int
	artist *models.Artist
	count  int
	open   bool
}

func (i artistItem) FilterValue() string { return i.artist.Name }
func (i artistItem) Title() string {
	marker := "▸"
	if i.open {
		marker = "▾"
	}
	return fmt.Sprintf("%s %s", marker, i.artist.Name)
}
func (i artistItem) Description() string {
	if i.count == 1 {
		return "1 chanson"
	}
	return fmt.Sprintf("%d chansons", i.count)
}

// songItem is a song listed under an open artist group.
type songItem struct {
	selection store.Selection
	song      *models.Partition
}

func (i songItem) FilterValue() string { return i.song.Title }
func (i songItem) Title() string       { return "   " + i.song.Title }
func (i songItem) Description() string {
	desc := "   " + i.song.Tempo
	if i.song.KeySignature != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.song.KeySignature)
	}
	return desc
}

// sidebarItems flattens groups into list items. Every group is expanded while searching.
func sidebarItems(groups []store.ArtistGroup, openIndex int, searching bool) []list.Item {
	var items []list.Item
	for gi, g := range groups {
		open := searching || gi == openIndex
		items = append(items, artistItem{index: gi, artist: g.Artist, count: len(g.Songs), open: open})
		if !open {
			continue
		}
		for si, s := range g.Songs {
			items = append(items, songItem{selection: store.Selection{ArtistIndex: gi, SongIndex: si}, song: s})
		}
	}
	return items
}

// locate finds the sidebar selection of a song, or nil when it is not listed.
func locate(groups []store.ArtistGroup, songID int64) *store.Selection {
	for gi, g := range groups {
		for si, s := range g.Songs {
			if s.ID == songID {
				return &store.Selection{ArtistIndex: gi, SongIndex: si}
			}
		}
	}
	return nil
}

// artistIndex finds the group index of an artist, or [store.NoArtist].
func artistIndex(groups []store.ArtistGroup, artistID int64) int {
	for gi, g := range groups {
		if g.Artist.ID == artistID {
			return gi
		}
	}
	return store.NoArtist
}
