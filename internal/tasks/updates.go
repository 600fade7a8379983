package tasks

import (
	"fmt"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	ListSongs Phase = iota
	FetchSong
	ExportSong
	WriteManifest
)

func (p Phase) String() string {
	switch p {
	case ListSongs:
		return "list_songs"
	case FetchSong:
		return "fetch_song"
	case ExportSong:
		return "export_song"
	case WriteManifest:
		return "write_manifest"
	default:
		return ""
	}
}

func listingSongsUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:   ListSongs,
		Step:    1,
		Total:   1,
		Message: "Listing songs...",
	}
}

func foundSongsUpdate(total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ListSongs,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Found %d songs", total),
		Data:    total,
	}
}

func fetchingSongUpdate(step, total int, id int64) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchSong,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Fetching song %d...", step, total, id),
	}
}

func exportCompletedUpdate(step, total int, label string, filesCount int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportSong,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (%d files)", step, total, label, filesCount),
	}
}

func exportFailedUpdate(step, total int, label string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportSong,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, label, err),
	}
}

func manifestUpdate(path string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WriteManifest,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Writing manifest to %s", path),
	}
}
