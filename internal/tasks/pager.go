package tasks

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/desertthunder/cinelist/internal/models"
	"github.com/desertthunder/cinelist/internal/shared"
	"github.com/desertthunder/cinelist/internal/tmdb"
)

// PageFetcher returns one page of a paginated movie listing.
type PageFetcher func(ctx context.Context, page int) (*models.PaginatedResult[models.Movie], error)

// Pager accumulates pages of a listing for infinite scroll.
type Pager struct {
	mu       sync.Mutex
	fetch    PageFetcher
	pages    []models.PaginatedResult[models.Movie]
	movies   []models.Movie
	next     int
	total    int
	results  int
	finished bool
}

// NewPager creates a Pager that starts at page 1.
func NewPager(fetch PageFetcher) *Pager {
	return &Pager{fetch: fetch, next: 1}
}

// PopularPager pages through the catalog's popular movies.
func PopularPager(catalog tmdb.Catalog) *Pager {
	return NewPager(catalog.Popular)
}

// SearchPager pages through search results for query.
func SearchPager(catalog tmdb.Catalog, query string) *Pager {
	return NewPager(func(ctx context.Context, page int) (*models.PaginatedResult[models.Movie], error) {
		return catalog.Search(ctx, query, page)
	})
}

// StartAt makes the next fetch request page. It has no effect after the first fetch.
func (p *Pager) StartAt(page int) *Pager {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.pages) == 0 {
		p.next = max(page, 1)
	}
	return p
}

// Next fetches the next page and returns the movies it added to the merged list.
// It returns nil without a request once the last page has been loaded.
func (p *Pager) Next(ctx context.Context, progress chan<- ProgressUpdate) ([]models.Movie, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.finished {
		return nil, nil
	}

	sendProgress(progress, fetchPageUpdate(p.next, p.total))

	page, err := p.fetch(ctx, p.next)
	if err != nil {
		return nil, fmt.Errorf("failed to load page %d: %w", p.next, err)
	}
	if page == nil {
		return nil, fmt.Errorf("%w: empty response for page %d", shared.ErrAPIRequest, p.next)
	}

	before := len(p.movies)
	p.pages = append(p.pages, *page)
	p.movies = models.MergePages(p.pages...)
	p.total = page.TotalPages
	p.results = page.TotalResults
	p.finished = !page.HasNextPage()
	p.next = page.Page + 1

	return slices.Clone(p.movies[before:]), nil
}

// Load fetches until n pages have been loaded or the listing ends.
func (p *Pager) Load(ctx context.Context, n int, progress chan<- ProgressUpdate) ([]models.Movie, error) {
	for range max(n, 1) {
		if !p.HasMore() {
			break
		}
		if _, err := p.Next(ctx, progress); err != nil {
			return p.Movies(), err
		}
	}
	return p.Movies(), nil
}

// HasMore reports whether another page can be fetched.
func (p *Pager) HasMore() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return !p.finished
}

// Movies returns the merged movies loaded so far.
func (p *Pager) Movies() []models.Movie {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.movies)
}

// PagesLoaded returns the number of pages fetched.
func (p *Pager) PagesLoaded() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.pages)
}

// TotalResults returns the listing size reported by the last page.
func (p *Pager) TotalResults() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.results
}
