package tasks

import (
	"context"
	"fmt"
	"sync"

	"github.com/desertthunder/cinelist/internal/models"
	"github.com/desertthunder/cinelist/internal/shared"
	"golang.org/x/time/rate"
)

// BulkDetailsOpts contains configuration for bulk detail lookups.
type BulkDetailsOpts struct {
	NumWorkers int     // Concurrent workers (default: 4, max: 10)
	RateLimit  float64 // Requests per second (default: 10)
}

// DetailsResult is the outcome of looking up one movie ID.
type DetailsResult struct {
	ID    int
	Movie *models.Movie
	Error error
}

// BulkDetailsResult holds per-ID results in input order.
type BulkDetailsResult struct {
	Results   []DetailsResult
	Succeeded int
	Failed    int
}

// Movies returns the successfully fetched movies in input order.
func (r *BulkDetailsResult) Movies() []models.Movie {
	movies := make([]models.Movie, 0, r.Succeeded)
	for _, res := range r.Results {
		if res.Movie != nil {
			movies = append(movies, *res.Movie)
		}
	}
	return movies
}

type detailsJob struct {
	index int
	id    int
}

// BulkDetails fetches details for ids concurrently with rate limiting and progress tracking.
//
// Failures are recorded per ID and do not stop the run. Cancelling ctx stops the
// producer; IDs that were never looked up carry the context error.
func (e *Engine) BulkDetails(
	ctx context.Context,
	prog chan<- ProgressUpdate,
	ids []int,
	opts BulkDetailsOpts,
) (*BulkDetailsResult, error) {
	if e.catalog == nil {
		return nil, fmt.Errorf("%w: catalog not initialized", shared.ErrServiceUnavailable)
	}

	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 4
	}
	if opts.NumWorkers > 10 {
		opts.NumWorkers = 10
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 10.0
	}

	result := &BulkDetailsResult{Results: make([]DetailsResult, len(ids))}
	for i, id := range ids {
		result.Results[i] = DetailsResult{ID: id}
	}
	if len(ids) == 0 {
		return result, nil
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	jobs := make(chan detailsJob, len(ids))
	results := make(chan detailsJob, len(ids))
	done := make([]bool, len(ids))

	var wg sync.WaitGroup
	for range opts.NumWorkers {
		wg.Add(1)
		go e.detailsWorker(ctx, &wg, jobs, results, result.Results)
	}

	go func() {
		defer close(jobs)
		sendProgress(prog, fetchingDetailsUpdate(len(ids)))
		for i, id := range ids {
			if err := limiter.Wait(ctx); err != nil {
				return
			}
			jobs <- detailsJob{index: i, id: id}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for job := range results {
		completed++
		done[job.index] = true
		res := result.Results[job.index]

		if res.Error == nil {
			result.Succeeded++
			sendProgress(prog, detailsCompletedUpdate(completed, len(ids), res))
		} else {
			result.Failed++
			sendProgress(prog, detailsFailedUpdate(completed, len(ids), res))
		}
	}

	if err := ctx.Err(); err != nil {
		for i := range result.Results {
			if !done[i] {
				result.Results[i].Error = err
				result.Failed++
			}
		}
		return result, fmt.Errorf("bulk details interrupted: %w", err)
	}

	return result, nil
}

// detailsWorker looks up IDs from jobs. Each job owns its slot in out.
func (e *Engine) detailsWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	jobs <-chan detailsJob,
	results chan<- detailsJob,
	out []DetailsResult,
) {
	defer wg.Done()

	for job := range jobs {
		movie, err := e.catalog.Details(ctx, job.id)
		if err != nil {
			out[job.index].Error = err
		} else {
			out[job.index].Movie = movie
		}
		results <- job
	}
}
