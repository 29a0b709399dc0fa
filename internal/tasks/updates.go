package tasks

import "fmt"

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data
}

// Operation phase enumeration
type Phase int

const (
	FetchCollections Phase = iota
	FetchTracks
	SearchServices
	BulkFetch
)

func (p Phase) String() string {
	switch p {
	case FetchCollections:
		return "fetch_collections"
	case FetchTracks:
		return "fetch_tracks"
	case SearchServices:
		return "search_services"
	case BulkFetch:
		return "bulk_fetch"
	default:
		return ""
	}
}

func fetchCollectionsUpdate(step, total int, service string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchCollections,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Listing collections on %s...", service),
	}
}

func collectionsLoadedUpdate(step, total int, service string, count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchCollections,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Found %d collections on %s", count, service),
	}
}

func fetchTracksUpdate(step, total int, service, collection string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchTracks,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Fetching %s from %s...", collection, service),
	}
}

func tracksLoadedUpdate(step, total int, collection string, count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchTracks,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Loaded %d tracks from %s", count, collection),
	}
}

func searchUpdate(step, total int, service, query string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SearchServices,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Searching %s for %q...", step, total, service, query),
	}
}

func bulkFetchUpdate(step, total int, collection string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   BulkFetch,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Fetching %s...", step, total, collection),
	}
}

func bulkFetchedUpdate(step, total int, collection string, count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   BulkFetch,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (%d tracks)", step, total, collection, count),
	}
}

func bulkFailedUpdate(step, total int, collection string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   BulkFetch,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, collection, err),
	}
}
