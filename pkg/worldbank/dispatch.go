package worldbank

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/arturogonzalezm/world-bank-data/pkg/logging"
)

// SeriesFetcher is the single-series contract the dispatcher fans out over.
// *Downloader implements it.
type SeriesFetcher interface {
	FetchSeries(ctx context.Context, country, indicator string) []Observation
}

// seriesResult carries one finished task back to the collector.
type seriesResult struct {
	indicator    string
	observations []Observation
	err          error
}

// Dispatcher fans one country's indicator fetches out across a fixed worker
// pool and collects results in completion order.
type Dispatcher struct {
	fetcher SeriesFetcher
	workers int
	logger  zerolog.Logger
}

// NewDispatcher creates a dispatcher over the given fetcher.
func NewDispatcher(fetcher SeriesFetcher, workers int) *Dispatcher {
	if workers <= 0 {
		workers = 10
	}
	return &Dispatcher{
		fetcher: fetcher,
		workers: workers,
		logger:  logging.NewLogger("dispatcher"),
	}
}

// FetchAll fetches the series for every indicator of one country. Each
// indicator is submitted exactly once; the returned map's key set is a subset
// of the input. A task failure or panic is logged and excluded without
// cancelling sibling tasks, and empty series are excluded. Collection order is
// completion order and carries no guarantee.
func (p *Dispatcher) FetchAll(ctx context.Context, country string, indicators []string) map[string][]Observation {
	results := make(map[string][]Observation)
	if len(indicators) == 0 {
		return results
	}

	jobs := make(chan string, len(indicators))
	done := make(chan seriesResult, len(indicators))

	var wg sync.WaitGroup
	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go p.worker(ctx, country, jobs, done, &wg, i)
	}

	for _, indicator := range indicators {
		jobs <- indicator
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(done)
	}()

	// Only this goroutine touches the results map; workers hand back values.
	for result := range done {
		if result.err != nil {
			p.logger.Warn().
				Err(result.err).
				Str("country", country).
				Str("indicator", result.indicator).
				Msg("Series task failed")
			continue
		}
		if len(result.observations) == 0 {
			continue
		}
		results[result.indicator] = result.observations
	}

	p.logger.Info().
		Str("country", country).
		Int("fetched", len(results)).
		Int("requested", len(indicators)).
		Msg("Dispatch complete")

	return results
}

// worker drains the job queue until it closes or the context is cancelled.
func (p *Dispatcher) worker(ctx context.Context, country string, jobs <-chan string, done chan<- seriesResult, wg *sync.WaitGroup, workerID int) {
	defer wg.Done()

	for indicator := range jobs {
		select {
		case <-ctx.Done():
			p.logger.Debug().
				Int("worker_id", workerID).
				Msg("Worker stopping (context cancelled)")
			return
		default:
		}

		// done is sized for every job, sends never block.
		done <- p.fetchOne(ctx, country, indicator)
	}
}

// fetchOne runs a single task, converting a panic into a task-level error so
// one bad series cannot take down the batch.
func (p *Dispatcher) fetchOne(ctx context.Context, country, indicator string) (result seriesResult) {
	defer func() {
		if r := recover(); r != nil {
			result = seriesResult{
				indicator: indicator,
				err:       fmt.Errorf("series fetch panicked: %v", r),
			}
		}
	}()

	return seriesResult{
		indicator:    indicator,
		observations: p.fetcher.FetchSeries(ctx, country, indicator),
	}
}

// FetchAllIndicators fans this downloader's series fetches for one country
// out across the configured worker pool.
func (d *Downloader) FetchAllIndicators(ctx context.Context, country string, indicators []string) map[string][]Observation {
	return NewDispatcher(d, d.cfg.Workers).FetchAll(ctx, country, indicators)
}
