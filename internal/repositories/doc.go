// Package repositories implements SQL persistence for the chord sheet library.
//
// Queries are written in the SQLite dialect and run unchanged against a local SQLite file or a hosted libSQL database.
//
// Key Implementations:
//   - [ArtistRepository] : artists, find-or-create by name, artists with songs
//   - [PartitionRepository] : chord sheets joined with their artist name
//   - [ChordRepository] : ordered chord entries, replaced wholesale on edit
//   - [FavoriteRepository] : favorite markers, toggled by insert/delete
//   - [ViewRepository] : record_view bookkeeping and the recent/popular read views
//
// Timestamps are written as fixed-width UTC strings so they sort lexically on both drivers.
package repositories
