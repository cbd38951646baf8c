package tasks

import "fmt"

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
	StartExport Phase = iota
	FetchPage
	WriteCollection
	CollectionDone
	CollectionFailed
	WriteManifest
)

func (p Phase) String() string {
	switch p {
	case StartExport:
		return "start_export"
	case FetchPage:
		return "fetch_page"
	case WriteCollection:
		return "write_collection"
	case CollectionDone:
		return "collection_done"
	case CollectionFailed:
		return "collection_failed"
	case WriteManifest:
		return "write_manifest"
	default:
		return ""
	}
}

func startExportUpdate(total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   StartExport,
		Step:    0,
		Total:   total,
		Message: fmt.Sprintf("Exporting %d collections...", total),
	}
}

func fetchPageUpdate(job CollectionJob, page, maxPages, items int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchPage,
		Step:    page,
		Total:   maxPages,
		Message: fmt.Sprintf("Fetched page %d of %s (%d items)", page, job, items),
		Data:    job,
	}
}

func writeCollectionUpdate(job CollectionJob, items int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WriteCollection,
		Step:    items,
		Total:   items,
		Message: fmt.Sprintf("Writing %d items from %s", items, job),
		Data:    job,
	}
}

func collectionDoneUpdate(step, total int, res CollectionResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CollectionDone,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("✓ %s: %d items in %d pages", res.Collection, res.Items, res.Pages),
		Data:    res,
	}
}

func collectionFailedUpdate(step, total int, res CollectionResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CollectionFailed,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("✗ %s: %v", res.Collection, res.Error),
		Data:    res,
	}
}

func writeManifestUpdate(path string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WriteManifest,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Writing manifest to %s", path),
	}
}
