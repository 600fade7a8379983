package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/songsheet/internal/models"
	"github.com/desertthunder/songsheet/internal/services"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgHomeLoaded MsgKind = iota
	MsgDetailsLoaded
	MsgFavoriteToggled
	MsgSaved
	MsgRandomArtist
	MsgExported
	MsgTick
)

type homeLoaded struct {
	home *services.Home
	err  error
}

type detailsLoaded struct {
	id      int64
	details *models.SongDetails
	err     error
}

type favoriteToggled struct {
	id       int64
	favorite bool
	err      error
}

type saved struct {
	id       int64
	warnings []models.Warning
	err      error
}

type randomArtist struct {
	artist *models.Artist
	err    error
}

type exported struct {
	path string
	err  error
}

// homeLoadedMsg is the constructor for [MsgHomeLoaded]
func homeLoadedMsg(home *services.Home, err error) Msg {
	return Msg{kind: MsgHomeLoaded, data: homeLoaded{home, err}}
}

// detailsLoadedMsg is the constructor for [MsgDetailsLoaded]
func detailsLoadedMsg(id int64, details *models.SongDetails, err error) Msg {
	return Msg{kind: MsgDetailsLoaded, data: detailsLoaded{id, details, err}}
}

// favoriteToggledMsg is the constructor for [MsgFavoriteToggled]
func favoriteToggledMsg(id int64, favorite bool, err error) Msg {
	return Msg{kind: MsgFavoriteToggled, data: favoriteToggled{id, favorite, err}}
}

// savedMsg is the constructor for [MsgSaved]
func savedMsg(id int64, warnings []models.Warning, err error) Msg {
	return Msg{kind: MsgSaved, data: saved{id, warnings, err}}
}

// randomArtistMsg is the constructor for [MsgRandomArtist]
func randomArtistMsg(artist *models.Artist, err error) Msg {
	return Msg{kind: MsgRandomArtist, data: randomArtist{artist, err}}
}

// exportedMsg is the constructor for [MsgExported]
func exportedMsg(path string, err error) Msg {
	return Msg{kind: MsgExported, data: exported{path, err}}
}

// tickMsg is the constructor for [MsgTick]. gen ties the tick to one opened song.
func tickMsg(gen int) Msg {
	return Msg{kind: MsgTick, data: gen}
}

func tick(interval time.Duration, gen int) tea.Cmd {
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return tickMsg(gen)
	})
}
