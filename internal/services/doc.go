// Package services defines the [SongService] interface and implements it over the local
// repositories ([Library]) and over a running songsheet HTTP API ([APIClient]).
//
// # Library
//
// [Library] composes the repositories with an optional [cache.Cache] for list reads. Writes
// invalidate the cached lists they affect.
//
// Writes are best-effort sequences rather than transactions: artist upsert, song write and chord
// batch are independent statements. On create, a chord batch failure is logged and the song is still
// reported as created.
//
// # Read tiers
//
// Recent and popular lists read the precomputed views first, then fall back to an ordered base
// query, then to an unordered base query sorted in memory. Each tier failure is logged at warn
// level. Only exhaustion of every tier returns an error, wrapping [shared.ErrUnavailable].
//
// # Home
//
// [LoadHome] fetches the lists shown on the home screen concurrently with an errgroup and works
// with any [SongService].
//
// # Error Handling
//
//   - [shared.ErrSongNotFound], [shared.ErrArtistNotFound] : unknown IDs
//   - [shared.ErrNoArtists] : random artist requested with no songs stored
//   - [models.SubmitError] : create and update failures, classified by kind
package services
