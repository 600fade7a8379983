// Package store holds client state for the song views as a reducer with subscriptions.
//
// A [Store] is created per application and shared by whatever front end drives it. State is only
// changed through [Store.Dispatch], which runs [Reduce] and notifies subscribers.
package store

import (
	"sync"

	"github.com/desertthunder/songsheet/internal/models"
)

// NoArtist marks that no artist group is open in the sidebar.
const NoArtist = -1

// View is the top-level screen derived from state.
type View int

const (
	ViewHome View = iota
	ViewSong
	ViewEditing
)

func (v View) String() string {
	switch v {
	case ViewSong:
		return "song"
	case ViewEditing:
		return "editing"
	default:
		return "home"
	}
}

// Selection points at a song in the sidebar as an (artist index, song index) pair.
type Selection struct {
	ArtistIndex int
	SongIndex   int
}

// State is an immutable snapshot of the client state.
type State struct {
	Artists            []*models.Artist
	Songs              []*models.Partition
	OpenArtistIndex    int
	SelectedSong       *Selection
	CurrentSongDetails *models.SongDetails
	IsLoading          bool
	Error              string
	IsEditing          bool
}

// Initial returns the empty starting state.
func Initial() State {
	return State{OpenArtistIndex: NoArtist}
}

// View returns the screen to display. Editing takes priority over a stale selection.
func (s State) View() View {
	switch {
	case s.IsEditing:
		return ViewEditing
	case s.SelectedSong != nil:
		return ViewSong
	default:
		return ViewHome
	}
}

// Store is a mutex-guarded [State] with change subscriptions.
type Store struct {
	mu     sync.RWMutex
	state  State
	subs   map[int]func(State)
	nextID int
}

// New creates a store in the [Initial] state.
func New() *Store {
	return &Store{state: Initial(), subs: make(map[int]func(State))}
}

// State returns the current snapshot.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Dispatch applies actions in order and notifies subscribers once with the resulting state.
func (s *Store) Dispatch(actions ...Action) State {
	s.mu.Lock()
	for _, a := range actions {
		s.state = Reduce(s.state, a)
	}
	state := s.state
	subs := make([]func(State), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(state)
	}
	return state
}

// Subscribe registers fn to be called after every dispatch. The returned func unsubscribes.
func (s *Store) Subscribe(fn func(State)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.subs[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}
