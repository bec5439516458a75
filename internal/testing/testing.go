// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/desertthunder/cinelist/internal/models"
	"github.com/desertthunder/cinelist/internal/shared"
)

// MockCatalog is an in-memory test double for [tmdb.Catalog].
//
// Movies are served in the order given. PageSize splits them into pages (default 2).
// Errors maps a movie ID to the error Details returns for it.
type MockCatalog struct {
	Movies   []models.Movie
	PageSize int
	Errors   map[int]error
	Err      error

	mu    sync.Mutex
	calls []string
}

func NewMockCatalog(movies ...models.Movie) *MockCatalog {
	return &MockCatalog{Movies: movies, PageSize: 2, Errors: map[int]error{}}
}

func (m *MockCatalog) record(call string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, call)
}

// Calls returns the recorded calls, e.g. "popular:1" or "details:101".
func (m *MockCatalog) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

func (m *MockCatalog) Popular(ctx context.Context, page int) (*models.PaginatedResult[models.Movie], error) {
	m.record(fmt.Sprintf("popular:%d", page))
	if m.Err != nil {
		return nil, m.Err
	}
	return m.page(m.Movies, page), nil
}

func (m *MockCatalog) Details(ctx context.Context, id int) (*models.Movie, error) {
	m.record(fmt.Sprintf("details:%d", id))
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if id <= 0 {
		return nil, shared.ErrInvalidArgument
	}
	if err, ok := m.Errors[id]; ok {
		return nil, err
	}
	for _, movie := range m.Movies {
		if movie.ID == id {
			return &movie, nil
		}
	}
	return nil, shared.ErrMovieNotFound
}

func (m *MockCatalog) Search(ctx context.Context, query string, page int) (*models.PaginatedResult[models.Movie], error) {
	m.record(fmt.Sprintf("search:%s:%d", query, page))
	if m.Err != nil {
		return nil, m.Err
	}
	query = shared.NormalizeQuery(query)
	if query == "" {
		return nil, shared.ErrInvalidInput
	}

	var matches []models.Movie
	for _, movie := range m.Movies {
		if strings.Contains(strings.ToLower(movie.Title), strings.ToLower(query)) {
			matches = append(matches, movie)
		}
	}
	return m.page(matches, page), nil
}

func (m *MockCatalog) page(movies []models.Movie, page int) *models.PaginatedResult[models.Movie] {
	size := m.PageSize
	if size <= 0 {
		size = 2
	}
	page = max(page, 1)

	totalPages := (len(movies) + size - 1) / size
	start := min((page-1)*size, len(movies))
	end := min(start+size, len(movies))

	return &models.PaginatedResult[models.Movie]{
		Page:         page,
		Results:      append([]models.Movie{}, movies[start:end]...),
		TotalPages:   totalPages,
		TotalResults: len(movies),
	}
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
