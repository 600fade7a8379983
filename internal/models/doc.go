// Package models defines the domain entities of the chord sheet library.
//
// Persistent entities mirror the database tables:
//   - [Artist] : a performer, created on first song submission
//   - [Partition] : a stored chord sheet (song metadata, lyrics, counters)
//   - [ChordEntry] : an ordered chord of a partition with its fingering
//   - [Favorite] : a favorite marker for a partition
//
// Derived and transfer types:
//   - [SongDetails] : a partition with its ordered chords and favorite status
//   - [Submission] : the add/edit form payload, normalized before it is written
//   - [SubmitError] : the coarse error kinds surfaced by write operations
//
// The Repository[T] interface defines standard CRUD operations for database access.
package models
