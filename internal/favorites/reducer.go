package favorites

import (
	"slices"

	"github.com/desertthunder/cinelist/internal/models"
)

type actionKind int

const (
	actionSetInitial actionKind = iota + 1
	actionAdd
	actionRemove
)

func (k actionKind) String() string {
	switch k {
	case actionSetInitial:
		return "set_initial_state"
	case actionAdd:
		return "add_favorite"
	case actionRemove:
		return "remove_favorite"
	default:
		return "unknown"
	}
}

// action is one transition of the favorites list. Only the field matching kind is read.
type action struct {
	kind    actionKind
	movies  []models.Movie
	movie   models.Movie
	movieID int
}

// reduce returns the list after applying a. It never modifies state in place.
func reduce(state []models.Movie, a action) []models.Movie {
	switch a.kind {
	case actionSetInitial:
		return models.AppendUnique(make([]models.Movie, 0, len(a.movies)), map[int]struct{}{}, a.movies...)
	case actionAdd:
		if slices.ContainsFunc(state, func(m models.Movie) bool { return m.ID == a.movie.ID }) {
			return state
		}
		next := make([]models.Movie, 0, len(state)+1)
		next = append(next, state...)
		return append(next, a.movie)
	case actionRemove:
		next := make([]models.Movie, 0, len(state))
		for _, m := range state {
			if m.ID != a.movieID {
				next = append(next, m)
			}
		}
		return next
	default:
		return state
	}
}
