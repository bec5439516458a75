// Package favorites owns the user's deduplicated list of favorite movies and keeps
// it in sync with its persisted copy.
//
// A [Manager] starts with an empty list and loads the stored list once. A non-empty
// stored list replaces the in-memory one before any mutation happens; from then on
// every [Manager.Add] and [Manager.Remove] writes the whole list through to storage.
// Persistence failures are logged by the storage adapter and never reach callers.
package favorites

import (
	"slices"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/cinelist/internal/models"
	"github.com/desertthunder/cinelist/internal/persist"
	"github.com/desertthunder/cinelist/internal/shared"
	"github.com/desertthunder/cinelist/internal/storage"
)

// StorageKey is the key the favorites list is persisted under.
const StorageKey = "tmdb_favorites"

// Manager is the single writer of the favorites list.
type Manager struct {
	mu         sync.Mutex
	stored     *persist.State[[]models.Movie]
	list       []models.Movie
	index      map[int]struct{}
	rehydrated bool
	mutated    bool
	logger     *log.Logger
}

// New creates a Manager and runs the one-time startup rehydrate.
func New(adapter *storage.Adapter, logger *log.Logger) *Manager {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	m := &Manager{
		list:   []models.Movie{},
		index:  map[int]struct{}{},
		logger: logger,
	}
	m.stored = persist.New(adapter, StorageKey, []models.Movie{})

	// A stored empty list is indistinguishable from nothing stored; both leave the
	// in-memory list empty and mark nothing as rehydrated.
	if loaded := m.stored.Value(); m.stored.Loaded() && len(loaded) > 0 {
		m.setInitialState(loaded)
	}
	return m
}

// setInitialState replaces the in-memory list wholesale. It succeeds at most once and
// never after an add or remove, so pending changes cannot be overwritten.
func (m *Manager) setInitialState(movies []models.Movie) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.rehydrated || m.mutated {
		m.logger.Warn("ignoring late rehydrate", "rehydrated", m.rehydrated, "mutated", m.mutated)
		return false
	}

	m.apply(action{kind: actionSetInitial, movies: movies})
	m.rehydrated = true
	if dropped := len(movies) - len(m.list); dropped > 0 {
		m.logger.Warn("dropped duplicate stored favorites", "key", m.stored.Key(), "dropped", dropped)
	}
	m.logger.Debug("rehydrated favorites", "count", len(m.list))
	return true
}

// Add appends movie unless a favorite with the same ID already exists. The first
// stored copy of a movie is kept and a duplicate add writes nothing.
func (m *Manager) Add(movie models.Movie) {
	if movie.Genres == nil {
		movie.Genres = []models.Genre{}
	}
	m.mutate(action{kind: actionAdd, movie: movie})
}

// Remove drops the favorite with the given ID, if any. The list is written through
// even when nothing changed.
func (m *Manager) Remove(id int) {
	m.mutate(action{kind: actionRemove, movieID: id})
}

// IsFavorited reports whether a favorite with the given ID exists.
func (m *Manager) IsFavorited(id int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.index[id]
	return ok
}

// Favorites returns a copy of the list in insertion (or load) order.
func (m *Manager) Favorites() []models.Movie {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.list)
}

// Len returns the number of favorites.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.list)
}

// Clear empties the list and deletes the stored entry. It returns how many
// favorites were removed.
func (m *Manager) Clear() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	count := len(m.list)
	m.mutated = true
	m.list = []models.Movie{}
	m.index = map[int]struct{}{}
	m.stored.Clear([]models.Movie{})
	m.logger.Debug("favorites cleared", "key", m.stored.Key(), "count", count)
	return count
}

// Rehydrated reports whether the list was loaded from storage at startup.
func (m *Manager) Rehydrated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rehydrated
}

func (m *Manager) mutate(a action) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.index[a.movie.ID]; a.kind == actionAdd && exists {
		m.logger.Debug("favorite already present", "id", a.movie.ID)
		return
	}

	m.mutated = true
	m.apply(a)
	m.stored.Set(slices.Clone(m.list))
	m.logger.Debug("favorites updated", "key", m.stored.Key(), "action", a.kind, "count", len(m.list))
}

// apply must be called with mu held.
func (m *Manager) apply(a action) {
	next := reduce(m.list, a)
	if next == nil {
		next = []models.Movie{}
	}
	m.list = next

	m.index = make(map[int]struct{}, len(next))
	for _, movie := range next {
		m.index[movie.ID] = struct{}{}
	}
}
