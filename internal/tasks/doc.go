// Package tasks exports the song library in bulk with real-time progress reporting.
//
// # Bulk Export
//
// [ExportEngine.BulkExport] fetches each song's details from a [services.SongService] under a
// rate limit and hands them to a pool of workers that write files through the formatter package.
// A song that fails to fetch or write is recorded in the result and the export carries on.
// An export_manifest.json summarizing every song is written to the output directory.
//
// # Progress Reporting
//
// Progress is reported on an optional channel of [ProgressUpdate] values. Sends never block:
// when the channel is full the update is dropped.
package tasks
