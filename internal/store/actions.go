package store

import "github.com/desertthunder/songsheet/internal/models"

// Action is a state transition understood by [Reduce].
type Action interface {
	apply(State) State
}

// SetArtists replaces the artist list.
type SetArtists struct{ Artists []*models.Artist }

// SetSongs replaces the song list.
type SetSongs struct{ Songs []*models.Partition }

// SetOpenArtistIndex opens one sidebar group, or closes all with [NoArtist].
type SetOpenArtistIndex struct{ Index int }

// SelectSong selects a song, or clears the selection when Selection is nil.
type SelectSong struct{ Selection *Selection }

// SetSongDetails stores the fetched detail of the selected song.
type SetSongDetails struct{ Details *models.SongDetails }

// SetLoading flags an outstanding request.
type SetLoading struct{ Loading bool }

// SetError records an error message. An empty message clears it.
type SetError struct{ Message string }

// SetEditing switches edit mode.
type SetEditing struct{ Editing bool }

func (a SetArtists) apply(s State) State {
	s.Artists = a.Artists
	return s
}

func (a SetSongs) apply(s State) State {
	s.Songs = a.Songs
	return s
}

func (a SetOpenArtistIndex) apply(s State) State {
	if a.Index < 0 {
		a.Index = NoArtist
	}
	s.OpenArtistIndex = a.Index
	return s
}

func (a SelectSong) apply(s State) State {
	if a.Selection == nil {
		s.SelectedSong = nil
		return s
	}
	sel := *a.Selection
	s.SelectedSong = &sel
	return s
}

func (a SetSongDetails) apply(s State) State {
	s.CurrentSongDetails = a.Details
	return s
}

func (a SetLoading) apply(s State) State {
	s.IsLoading = a.Loading
	return s
}

func (a SetError) apply(s State) State {
	s.Error = a.Message
	return s
}

func (a SetEditing) apply(s State) State {
	s.IsEditing = a.Editing
	return s
}

// Reduce returns the state after applying a. A nil action leaves state unchanged.
func Reduce(state State, a Action) State {
	if a == nil {
		return state
	}
	return a.apply(state)
}
