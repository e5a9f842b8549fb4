package tasks

import (
	"fmt"

	"github.com/desertthunder/faustok/internal/models"
)

// ProgressUpdate represents a progress event during a relay.
type ProgressUpdate struct {
	Phase   Phase  // Relay phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data
}

// Relay phase enumeration
type Phase int

const (
	Resolve Phase = iota
	Fetch
	Upload
	Cleanup
)

func (p Phase) String() string {
	switch p {
	case Resolve:
		return "resolve"
	case Fetch:
		return "fetch"
	case Upload:
		return "upload"
	case Cleanup:
		return "cleanup"
	default:
		return ""
	}
}

// sendProgress sends a progress update through the channel without blocking.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
		// Channel full, skip this update
	}
}

func resolvingUpdate(kind models.MediaKind) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Resolve,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Resolving %s...", kind),
	}
}

func resolvedUpdate(media *models.ResolvedMedia) ProgressUpdate {
	n := len(media.URLs())
	return ProgressUpdate{
		Phase:   Resolve,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Resolved %d %s URL(s)", n, media.Kind),
		Data:    media,
	}
}

func fetchedUpdate(step, total int, file models.LocalMediaFile) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Fetch,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Downloaded %d bytes", step, total, file.Size),
		Data:    file,
	}
}

func uploadUpdate(step, total, files int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Upload,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Uploading %d attachment(s)...", step, total, files),
	}
}

func cleanupUpdate(removed int, err error) ProgressUpdate {
	if err != nil {
		return ProgressUpdate{
			Phase:   Cleanup,
			Step:    1,
			Total:   1,
			Message: fmt.Sprintf("✗ Removed %d file(s): %v", removed, err),
		}
	}
	return ProgressUpdate{
		Phase:   Cleanup,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("✓ Removed %d file(s)", removed),
	}
}
