package tasks

import (
	"context"
	"errors"
	"fmt"

	"github.com/desertthunder/cinelist/internal/models"
	"github.com/desertthunder/cinelist/internal/shared"
)

// FieldChange is one field whose stored value differs from the catalog.
type FieldChange struct {
	Field  string `json:"field"`
	Stored string `json:"stored"`
	Live   string `json:"live"`
}

// MovieChange lists the differences found for one favorite.
type MovieChange struct {
	ID      int           `json:"id"`
	Title   string        `json:"title"`
	Changes []FieldChange `json:"changes"`
}

// RefreshResult compares stored favorites with the live catalog.
type RefreshResult struct {
	Checked   int            `json:"checked"`
	Unchanged int            `json:"unchanged"`
	Changed   []MovieChange  `json:"changed"`
	Missing   []models.Movie `json:"missing"`
	Failed    []FailedLookup `json:"failed"`
}

// FailedLookup is a favorite whose details could not be fetched.
type FailedLookup struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
	Error string `json:"error"`
}

// Refresh looks up every favorite and reports how the stored copies differ from the
// catalog. It only reads; applying the changes is left to the caller.
func (e *Engine) Refresh(
	ctx context.Context,
	prog chan<- ProgressUpdate,
	favorites []models.Movie,
	opts BulkDetailsOpts,
) (*RefreshResult, error) {
	ids := make([]int, len(favorites))
	for i, m := range favorites {
		ids[i] = m.ID
	}

	bulk, err := e.BulkDetails(ctx, prog, ids, opts)
	if bulk == nil {
		return nil, err
	}

	sendProgress(prog, compareUpdate(len(favorites)))

	result := &RefreshResult{
		Checked: len(favorites),
		Changed: []MovieChange{},
		Missing: []models.Movie{},
		Failed:  []FailedLookup{},
	}

	for i, res := range bulk.Results {
		stored := favorites[i]
		switch {
		case errors.Is(res.Error, shared.ErrMovieNotFound):
			result.Missing = append(result.Missing, stored)
		case res.Error != nil:
			result.Failed = append(result.Failed, FailedLookup{ID: stored.ID, Title: stored.Title, Error: res.Error.Error()})
		default:
			if changes := DiffMovie(stored, *res.Movie); len(changes) > 0 {
				result.Changed = append(result.Changed, MovieChange{ID: stored.ID, Title: stored.Title, Changes: changes})
			} else {
				result.Unchanged++
			}
		}
	}

	return result, err
}

// DiffMovie returns the user-visible fields that differ between stored and live.
func DiffMovie(stored, live models.Movie) []FieldChange {
	var changes []FieldChange
	add := func(field, a, b string) {
		if a != b {
			changes = append(changes, FieldChange{Field: field, Stored: a, Live: b})
		}
	}

	add("title", stored.Title, live.Title)
	add("original_title", stored.OriginalTitle, live.OriginalTitle)
	add("release_date", stored.ReleaseDate, live.ReleaseDate)
	add("vote_average", stored.Rating(), live.Rating())
	add("vote_count", fmt.Sprint(stored.VoteCount), fmt.Sprint(live.VoteCount))
	add("poster_path", stored.Poster(), live.Poster())
	add("backdrop_path", stored.Backdrop(), live.Backdrop())
	add("overview", stored.Overview, live.Overview)
	return changes
}
