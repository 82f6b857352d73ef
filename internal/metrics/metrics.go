// Package metrics provides crawl metrics collection and reporting.
package metrics

import (
	"sync"
	"time"
)

// Metrics holds counters for one crawl invocation. It is shared by all
// concurrently running sources, so all access is mutex-guarded.
type Metrics struct {
	mu sync.Mutex

	// PagesFetched counts listing pages fetched across all sources.
	PagesFetched int64
	// DetailsFetched counts item detail pages fetched.
	DetailsFetched int64
	// DetailFailures counts detail fetches that fell back to the
	// listing description.
	DetailFailures int64
	// ItemsDecoded counts raw items decoded from listing pages.
	ItemsDecoded int64
	// ItemsSkipped counts items dropped by decode or canonicalization
	// failures.
	ItemsSkipped int64
	// ArticlesInserted counts newly persisted articles.
	ArticlesInserted int64
	// Duplicates counts idempotent re-sightings of known articles.
	Duplicates int64
	// FailedRuns counts source runs that terminated in failure.
	FailedRuns int64

	// StartTime is when metrics collection began.
	StartTime time.Time
}

// New creates a new Metrics instance.
func New() *Metrics {
	return &Metrics{StartTime: time.Now()}
}

// AddPageFetched records a fetched listing page.
func (m *Metrics) AddPageFetched() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PagesFetched++
}

// AddDetailFetched records a fetched detail page.
func (m *Metrics) AddDetailFetched() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DetailsFetched++
}

// AddDetailFailure records a detail fetch that degraded to fallback text.
func (m *Metrics) AddDetailFailure() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DetailFailures++
}

// AddItemsDecoded records items decoded from one listing page.
func (m *Metrics) AddItemsDecoded(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ItemsDecoded += int64(n)
}

// AddItemSkipped records an item dropped by a decode failure.
func (m *Metrics) AddItemSkipped() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ItemsSkipped++
}

// AddArticleInserted records a newly persisted article.
func (m *Metrics) AddArticleInserted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ArticlesInserted++
}

// AddDuplicate records an idempotent re-sighting.
func (m *Metrics) AddDuplicate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Duplicates++
}

// AddFailedRun records a source run that terminated in failure.
func (m *Metrics) AddFailedRun() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FailedRuns++
}

// Snapshot returns a copy of the current counters.
func (m *Metrics) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Snapshot{
		PagesFetched:     m.PagesFetched,
		DetailsFetched:   m.DetailsFetched,
		DetailFailures:   m.DetailFailures,
		ItemsDecoded:     m.ItemsDecoded,
		ItemsSkipped:     m.ItemsSkipped,
		ArticlesInserted: m.ArticlesInserted,
		Duplicates:       m.Duplicates,
		FailedRuns:       m.FailedRuns,
		Elapsed:          time.Since(m.StartTime),
	}
}

// Snapshot is a point-in-time copy of the crawl counters.
type Snapshot struct {
	PagesFetched     int64
	DetailsFetched   int64
	DetailFailures   int64
	ItemsDecoded     int64
	ItemsSkipped     int64
	ArticlesInserted int64
	Duplicates       int64
	FailedRuns       int64
	Elapsed          time.Duration
}
