// Package crawler drives crawl runs: one coordinator per source walks the
// listing pages, decodes items, fetches details, and hands canonical
// articles to storage, under the source's rate limit, item cap, and
// timeout.
package crawler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/jonesrussell/aiwatch/internal/canonical"
	"github.com/jonesrussell/aiwatch/internal/domain"
	"github.com/jonesrussell/aiwatch/internal/extractor"
	"github.com/jonesrussell/aiwatch/internal/logger"
	"github.com/jonesrussell/aiwatch/internal/metrics"
	"github.com/jonesrussell/aiwatch/internal/sources"
)

// ArticleStore is the storage gateway surface the coordinator needs.
// Insertion is idempotent on the URL and content-hash uniqueness
// constraints; the store, not the coordinator, arbitrates races.
type ArticleStore interface {
	InsertIfAbsent(ctx context.Context, article *domain.Article) (id int64, wasNew bool, err error)
}

// RunResult is the per-source outcome reported to the caller.
type RunResult struct {
	RunID      string
	Source     string
	State      domain.RunState
	Collected  int
	Inserted   int
	Duplicates int
	Duration   time.Duration
	Err        error
}

// Coordinator runs one source's crawl. Within a coordinator execution is
// strictly sequential page to page; detail fetches within one page may be
// parallelized up to the source's detail concurrency, all sharing the same
// token bucket.
type Coordinator struct {
	source  *sources.Config
	list    extractor.ListExtractor
	canon   *canonical.Canonicalizer
	fetcher PageFetcher
	store   ArticleStore
	limiter *rate.Limiter
	log     logger.Interface
	metrics *metrics.Metrics
}

// NewCoordinator creates a coordinator for one source. The rate limiter is
// a token bucket with burst 1: the first request goes out immediately,
// every following request to this source waits out the configured spacing.
func NewCoordinator(
	source *sources.Config,
	list extractor.ListExtractor,
	canon *canonical.Canonicalizer,
	fetcher PageFetcher,
	store ArticleStore,
	log logger.Interface,
	m *metrics.Metrics,
) *Coordinator {
	return &Coordinator{
		source:  source,
		list:    list,
		canon:   canon,
		fetcher: fetcher,
		store:   store,
		limiter: rate.NewLimiter(rate.Every(source.RateLimitDuration()), 1),
		log:     log.WithSource(source.Name),
		metrics: m,
	}
}

// Run executes one crawl run to a terminal state. A failed run reports its
// error but keeps every article persisted before the failure.
func (c *Coordinator) Run(ctx context.Context) *RunResult {
	run := &domain.CrawlRun{
		ID:        uuid.NewString(),
		Source:    c.source.Name,
		State:     domain.StateIdle,
		StartedAt: time.Now(),
	}
	result := &RunResult{RunID: run.ID, Source: c.source.Name}
	log := c.log.WithRunID(run.ID)

	log.Info("starting crawl run",
		"max_articles", c.source.MaxArticles,
		"rate_limit", c.source.RateLimitDuration(),
	)

	if err := c.crawl(ctx, run, result, log); err != nil {
		run.Err = err
		result.Err = err
		c.metrics.AddFailedRun()
		log.Error("crawl run failed",
			"error", err,
			"collected", result.Collected,
		)
	} else {
		log.Info("crawl run finished",
			"collected", result.Collected,
			"inserted", result.Inserted,
			"duplicates", result.Duplicates,
		)
	}

	result.State = run.State
	result.Duration = time.Since(run.StartedAt)
	return result
}

// crawl walks listing pages from each seed until the cap is reached,
// pagination is exhausted, or a list fetch fails. Pagination pages are
// processed strictly in sequence before any remaining seed.
func (c *Coordinator) crawl(
	ctx context.Context,
	run *domain.CrawlRun,
	result *RunResult,
	log logger.Interface,
) error {
	cursors := append([]string{}, c.source.StartURLs...)

	for len(cursors) > 0 && result.Collected < c.source.MaxArticles {
		run.Cursor = cursors[0]
		cursors = cursors[1:]

		if err := run.Transition(domain.StateFetchingList); err != nil {
			return err
		}
		page, err := c.fetchListPage(ctx, run.Cursor)
		if err != nil {
			// Transport failure on the list page fails the run; articles
			// already persisted this run are kept.
			if terr := run.Transition(domain.StateFailed); terr != nil {
				return terr
			}
			return err
		}
		c.metrics.AddPageFetched()

		if err := run.Transition(domain.StateDecoding); err != nil {
			return err
		}
		items, next, err := c.list.ExtractList(page, run.Cursor)
		if err != nil {
			// An undecodable page yields no items and ends this chain;
			// it is not a transport failure.
			log.Warn("failed to decode listing page", "url", run.Cursor, "error", err)
			items, next = nil, ""
		}
		c.metrics.AddItemsDecoded(len(items))
		log.Debug("decoded listing page",
			"url", run.Cursor,
			"items", len(items),
			"has_next", next != "",
		)

		// The cap is a hard bound: once the remaining budget is spent no
		// further detail fetches are issued, even mid-page.
		if remaining := c.source.MaxArticles - result.Collected; len(items) > remaining {
			items = items[:remaining]
		}

		if len(items) > 0 {
			if err := c.fetchDetails(ctx, run, items); err != nil {
				return err
			}
			if err := run.Transition(domain.StateAccumulating); err != nil {
				return err
			}
			for i := range items {
				c.accumulate(ctx, result, log, &items[i], run.Cursor)
			}
		}

		if next != "" && result.Collected < c.source.MaxArticles {
			resolved, resolveErr := canonical.ResolveURL(run.Cursor, next)
			if resolveErr != nil {
				log.Warn("ignoring unresolvable next locator", "next", next, "error", resolveErr)
			} else {
				cursors = append([]string{resolved}, cursors...)
			}
		}

		if len(cursors) > 0 && result.Collected < c.source.MaxArticles {
			if err := run.Transition(domain.StatePaginating); err != nil {
				return err
			}
		}
	}

	return run.Transition(domain.StateDone)
}

// fetchListPage fetches one listing page after taking a rate-limit token.
func (c *Coordinator) fetchListPage(ctx context.Context, pageURL string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait aborted: %w", err)
	}
	page, err := c.fetcher.Fetch(ctx, pageURL, c.source.TimeoutDuration())
	if err != nil {
		return nil, fmt.Errorf("list page fetch failed: %w", err)
	}
	return page, nil
}

// fetchDetails fills item bodies from their detail pages, when the
// source's extractor has the detail capability. Fetches run with bounded
// concurrency but still share the source's token bucket, so the aggregate
// cadence respects the rate limit. A failed detail fetch leaves the body
// empty; the canonicalizer falls back to the listing description.
func (c *Coordinator) fetchDetails(
	ctx context.Context,
	run *domain.CrawlRun,
	items []domain.RawItem,
) error {
	detail, ok := c.list.(extractor.DetailDecoder)
	if !ok {
		return nil
	}

	if err := run.Transition(domain.StateFetchingDetail); err != nil {
		return err
	}

	concurrency := c.source.DetailConcurrency
	if concurrency < 1 {
		concurrency = 1
	}

	var wg sync.WaitGroup
	sem := make(chan struct{}, concurrency)
	for i := range items {
		wg.Add(1)
		sem <- struct{}{}
		go func(item *domain.RawItem) {
			defer wg.Done()
			defer func() { <-sem }()
			c.fetchDetail(ctx, detail, item, run.Cursor)
		}(&items[i])
	}
	wg.Wait()

	return nil
}

// fetchDetail fetches and decodes one item's detail page.
func (c *Coordinator) fetchDetail(
	ctx context.Context,
	detail extractor.DetailDecoder,
	item *domain.RawItem,
	pageURL string,
) {
	if item.Body != "" || item.Link == "" {
		return
	}

	itemURL, err := canonical.ResolveURL(pageURL, item.Link)
	if err != nil {
		c.metrics.AddDetailFailure()
		return
	}

	if err := c.limiter.Wait(ctx); err != nil {
		c.metrics.AddDetailFailure()
		return
	}
	page, err := c.fetcher.Fetch(ctx, itemURL, c.source.TimeoutDuration())
	if err != nil {
		c.metrics.AddDetailFailure()
		c.log.Warn("detail fetch failed, using listing fallback",
			"url", itemURL,
			"error", err,
		)
		return
	}
	c.metrics.AddDetailFetched()

	body, err := detail.ExtractDetail(page)
	if err != nil {
		c.metrics.AddDetailFailure()
		return
	}
	item.Body = body
}

// accumulate canonicalizes one item and hands it to storage. Failures skip
// the item only; duplicates are counted as re-sightings, never errors.
func (c *Coordinator) accumulate(
	ctx context.Context,
	result *RunResult,
	log logger.Interface,
	item *domain.RawItem,
	pageURL string,
) {
	article, err := c.canon.Canonicalize(item, c.source, pageURL)
	if err != nil {
		c.metrics.AddItemSkipped()
		log.Warn("skipping item", "title", item.Title, "error", err)
		return
	}

	_, wasNew, err := c.store.InsertIfAbsent(ctx, article)
	if err != nil {
		c.metrics.AddItemSkipped()
		log.Error("failed to persist article", "url", article.URL, "error", err)
		return
	}

	result.Collected++
	if wasNew {
		result.Inserted++
		c.metrics.AddArticleInserted()
	} else {
		result.Duplicates++
		c.metrics.AddDuplicate()
	}
}
