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
	FetchPage Phase = iota
	FetchDetails
	Compare
)

func (p Phase) String() string {
	switch p {
	case FetchPage:
		return "fetch_page"
	case FetchDetails:
		return "fetch_details"
	case Compare:
		return "compare"
	default:
		return ""
	}
}

func fetchPageUpdate(page, total int) ProgressUpdate {
	msg := fmt.Sprintf("Fetching page %d...", page)
	if total > 0 {
		msg = fmt.Sprintf("Fetching page %d of %d...", page, total)
	}
	return ProgressUpdate{
		Phase:   FetchPage,
		Step:    page,
		Total:   total,
		Message: msg,
	}
}

func fetchingDetailsUpdate(total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchDetails,
		Step:    0,
		Total:   total,
		Message: fmt.Sprintf("Fetching details for %d movies...", total),
	}
}

func detailsCompletedUpdate(step, total int, res DetailsResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchDetails,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (%d)", step, total, res.Movie.Title, res.ID),
		Data:    res.Movie,
	}
}

func detailsFailedUpdate(step, total int, res DetailsResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchDetails,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %d: %v", step, total, res.ID, res.Error),
	}
}

func compareUpdate(total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Compare,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Comparing %d favorites with the catalog...", total),
	}
}
