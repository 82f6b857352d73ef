package crawler

import (
	"context"
	"fmt"
	"sync"

	"github.com/jonesrussell/aiwatch/internal/canonical"
	"github.com/jonesrussell/aiwatch/internal/extractor"
	"github.com/jonesrussell/aiwatch/internal/logger"
	"github.com/jonesrussell/aiwatch/internal/metrics"
	"github.com/jonesrussell/aiwatch/internal/sources"
)

// Runner executes crawl runs for a set of sources, one goroutine per
// source. Sources share nothing but the storage gateway and the metrics
// counters; one source failing never disturbs the others.
type Runner struct {
	coordinators []*Coordinator
	log          logger.Interface
	metrics      *metrics.Metrics
}

// NewRunner builds one coordinator per source. A source without a
// registered extractor is a configuration error, surfaced here so the
// caller can fail at startup rather than mid-crawl.
func NewRunner(
	configs []*sources.Config,
	fetcher PageFetcher,
	store ArticleStore,
	log logger.Interface,
	m *metrics.Metrics,
) (*Runner, error) {
	canon := canonical.New()

	coordinators := make([]*Coordinator, 0, len(configs))
	for _, cfg := range configs {
		list, err := extractor.ForSource(cfg.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to build coordinator: %w", err)
		}
		coordinators = append(coordinators,
			NewCoordinator(cfg, list, canon, fetcher, store, log, m))
	}

	return &Runner{coordinators: coordinators, log: log, metrics: m}, nil
}

// Run crawls all sources concurrently and returns their per-source
// results in configuration order. Cancelling ctx stops every run;
// articles persisted before cancellation are retained.
func (r *Runner) Run(ctx context.Context) []*RunResult {
	results := make([]*RunResult, len(r.coordinators))

	var wg sync.WaitGroup
	for i, coordinator := range r.coordinators {
		wg.Add(1)
		go func(i int, coordinator *Coordinator) {
			defer wg.Done()
			results[i] = coordinator.Run(ctx)
		}(i, coordinator)
	}
	wg.Wait()

	snapshot := r.metrics.Snapshot()
	r.log.Info("crawl complete",
		"sources", len(r.coordinators),
		"pages_fetched", snapshot.PagesFetched,
		"articles_inserted", snapshot.ArticlesInserted,
		"duplicates", snapshot.Duplicates,
		"failed_runs", snapshot.FailedRuns,
		"elapsed", snapshot.Elapsed,
	)

	return results
}
