// Package ui implements the interactive terminal interface using bubbletea's Elm architecture.
//
// The screen follows [store.State.View]:
//  1. Home : a sidebar of artists with their songs, a search field and the recent and popular lists
//  2. Song : the rendered sheet in a scrolling viewport with tempo-paced auto-scroll
//  3. Editing : a YAML submission in a text area, saved with ctrl+s
//
// Editing takes priority over an open song, so cancelling an edit returns to the song that was open.
// The (view) [Model] receives service results through the Msg union and records them in the
// [store.Store] it observes. Auto-scroll runs on tea.Tick messages that keep firing while the pacer is
// paused and stop when the song is closed.
package ui
