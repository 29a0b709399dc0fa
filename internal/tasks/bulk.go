package tasks

import (
	"context"
	"fmt"
	"sync"

	"github.com/soundtable/soundtable/internal/models"
	"golang.org/x/time/rate"
)

// FetchRequest names one collection to fetch during a bulk operation.
type FetchRequest struct {
	Service      models.ServiceType
	CollectionID string
}

// FetchResult is the outcome of one bulk fetch request.
type FetchResult struct {
	Request FetchRequest
	Export  *models.CollectionExport // nil when the fetch failed
	Error   error
	Success bool
}

// BulkFetchOpts contains configuration for bulk collection fetches.
type BulkFetchOpts struct {
	NumWorkers int     // Concurrent workers (default: 4)
	RateLimit  float64 // Requests per second across all workers (default: 5)
}

// BulkFetchResult summarizes a bulk fetch. Results appear in request order
// regardless of completion order, so concatenating their tracks has the same
// semantics as fetching sequentially.
type BulkFetchResult struct {
	TotalCollections  int
	SuccessfulFetches int
	FailedFetches     int
	Results           []FetchResult
}

// Tracks concatenates the tracks of every successful fetch in request order.
func (r *BulkFetchResult) Tracks() []models.Track {
	lists := make([][]models.Track, 0, len(r.Results))
	for _, res := range r.Results {
		if res.Success {
			lists = append(lists, res.Export.Tracks)
		}
	}
	return Combine(lists...)
}

type bulkJob struct {
	index   int
	request FetchRequest
}

// BulkFetch fetches several collections concurrently with a shared rate
// limiter. Partial failures are recorded per request rather than aborting the
// whole run.
func (l *Loader) BulkFetch(ctx context.Context, progress chan<- ProgressUpdate, requests []FetchRequest, opts BulkFetchOpts) (*BulkFetchResult, error) {
	if len(requests) == 0 {
		return nil, fmt.Errorf("no collections requested")
	}

	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 4
	}
	if opts.NumWorkers > 10 {
		opts.NumWorkers = 10
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}

	result := &BulkFetchResult{
		TotalCollections: len(requests),
		Results:          make([]FetchResult, len(requests)),
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	jobs := make(chan bulkJob, len(requests))

	var wg sync.WaitGroup
	for range opts.NumWorkers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				// Each worker writes only its own index, so the slice
				// needs no extra locking.
				result.Results[job.index] = l.fetchOne(ctx, limiter, job)
			}
		}()
	}

	for i, request := range requests {
		l.sendProgress(progress, bulkFetchUpdate(i+1, len(requests), request.CollectionID))
		jobs <- bulkJob{index: i, request: request}
	}
	close(jobs)
	wg.Wait()

	for i, res := range result.Results {
		if res.Success {
			result.SuccessfulFetches++
			l.sendProgress(progress, bulkFetchedUpdate(i+1, len(requests), res.Export.Collection.Name, len(res.Export.Tracks)))
		} else {
			result.FailedFetches++
			l.sendProgress(progress, bulkFailedUpdate(i+1, len(requests), res.Request.CollectionID, res.Error))
		}
	}

	return result, nil
}

// fetchOne fetches a single collection, waiting on the shared limiter first.
func (l *Loader) fetchOne(ctx context.Context, limiter *rate.Limiter, job bulkJob) FetchResult {
	result := FetchResult{Request: job.request}

	if err := limiter.Wait(ctx); err != nil {
		result.Error = err
		return result
	}

	export, err := l.LoadExport(ctx, job.request.Service, job.request.CollectionID, nil)
	if err != nil {
		result.Error = err
		return result
	}

	result.Export = export
	result.Success = true
	return result
}
