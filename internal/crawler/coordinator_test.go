package crawler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/aiwatch/internal/canonical"
	"github.com/jonesrussell/aiwatch/internal/domain"
	"github.com/jonesrussell/aiwatch/internal/logger"
	"github.com/jonesrussell/aiwatch/internal/metrics"
	"github.com/jonesrussell/aiwatch/internal/sources"
)

// fakeFetcher serves scripted pages and records every fetch in order,
// with its arrival time.
type fakeFetcher struct {
	mu      sync.Mutex
	pages   map[string][]byte
	errs    map[string]error
	fetched []string
	times   []time.Time
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{pages: map[string][]byte{}, errs: map[string]error{}}
}

func (f *fakeFetcher) Fetch(_ context.Context, pageURL string, _ time.Duration) ([]byte, error) {
	f.mu.Lock()
	f.fetched = append(f.fetched, pageURL)
	f.times = append(f.times, time.Now())
	f.mu.Unlock()

	if err, ok := f.errs[pageURL]; ok {
		return nil, err
	}
	page, ok := f.pages[pageURL]
	if !ok {
		return nil, fmt.Errorf("no page scripted for %s", pageURL)
	}
	return page, nil
}

func (f *fakeFetcher) fetchedURLs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string{}, f.fetched...)
}

func (f *fakeFetcher) fetchTimes() []time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]time.Time{}, f.times...)
}

func (f *fakeFetcher) detailFetchCount() int {
	n := 0
	for _, u := range f.fetchedURLs() {
		if strings.Contains(u, "/item/") {
			n++
		}
	}
	return n
}

// listPage describes one scripted listing page.
type listPage struct {
	items []domain.RawItem
	next  string
}

// fakeExtractor decodes scripted pages by their URL (the page bytes carry
// the URL back to the extractor).
type fakeExtractor struct {
	pages     map[string]listPage
	decodeErr map[string]error
}

func (e *fakeExtractor) ExtractList(page []byte, pageURL string) ([]domain.RawItem, string, error) {
	if err, ok := e.decodeErr[pageURL]; ok {
		return nil, "", err
	}
	scripted, ok := e.pages[pageURL]
	if !ok {
		return nil, "", nil
	}
	items := make([]domain.RawItem, len(scripted.items))
	copy(items, scripted.items)
	return items, scripted.next, nil
}

// fakeDetailExtractor adds the detail capability.
type fakeDetailExtractor struct {
	fakeExtractor
}

func (e *fakeDetailExtractor) ExtractDetail(page []byte) (string, error) {
	return "detail body " + string(page), nil
}

// fakeStore keeps inserted articles keyed by URL and content hash.
type fakeStore struct {
	mu       sync.Mutex
	byURL    map[string]int64
	byHash   map[string]int64
	nextID   int64
	inserted []*domain.Article
	err      error
}

func newFakeStore() *fakeStore {
	return &fakeStore{byURL: map[string]int64{}, byHash: map[string]int64{}}
}

func (s *fakeStore) InsertIfAbsent(_ context.Context, article *domain.Article) (int64, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return 0, false, s.err
	}
	if id, ok := s.byURL[article.URL]; ok {
		return id, false, nil
	}
	if id, ok := s.byHash[article.ContentHash]; ok {
		return id, false, nil
	}
	s.nextID++
	s.byURL[article.URL] = s.nextID
	s.byHash[article.ContentHash] = s.nextID
	s.inserted = append(s.inserted, article)
	return s.nextID, true, nil
}

func testConfig(maxArticles int) *sources.Config {
	return &sources.Config{
		Name:        "fake",
		BaseURL:     "https://example.com",
		StartURLs:   []string{"https://example.com/list"},
		RateLimit:   0.001,
		MaxArticles: maxArticles,
		Timeout:     5,
		Enabled:     true,
	}
}

func rawItems(n int) []domain.RawItem {
	items := make([]domain.RawItem, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, domain.RawItem{
			Title: fmt.Sprintf("Item %d", i),
			Link:  fmt.Sprintf("https://example.com/item/%d", i),
		})
	}
	return items
}

func newTestCoordinator(
	cfg *sources.Config,
	list interface{ ExtractList([]byte, string) ([]domain.RawItem, string, error) },
	fetcher *fakeFetcher,
	store *fakeStore,
) *Coordinator {
	return NewCoordinator(
		cfg,
		list,
		canonical.New(),
		fetcher,
		store,
		logger.NewNoOp(),
		metrics.New(),
	)
}

func TestCoordinatorCapStopsDetailFetches(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.pages["https://example.com/list"] = []byte("list")
	for i := 0; i < 5; i++ {
		fetcher.pages[fmt.Sprintf("https://example.com/item/%d", i)] = []byte(fmt.Sprintf("p%d", i))
	}

	extractor := &fakeDetailExtractor{fakeExtractor{
		pages: map[string]listPage{
			"https://example.com/list": {items: rawItems(5)},
		},
	}}
	store := newFakeStore()

	c := newTestCoordinator(testConfig(3), extractor, fetcher, store)
	result := c.Run(context.Background())

	require.NoError(t, result.Err)
	assert.Equal(t, domain.StateDone, result.State)
	assert.Equal(t, 3, result.Collected)
	assert.Equal(t, 3, result.Inserted)
	assert.Equal(t, 3, fetcher.detailFetchCount(),
		"items beyond the cap must not trigger detail fetches")
	assert.Len(t, store.inserted, 3)
}

func TestCoordinatorRateLimitSpacing(t *testing.T) {
	const spacing = 50 * time.Millisecond

	fetcher := newFakeFetcher()
	fetcher.pages["https://example.com/list"] = []byte("list")
	for i := 0; i < 3; i++ {
		fetcher.pages[fmt.Sprintf("https://example.com/item/%d", i)] = []byte("p")
	}

	extractor := &fakeDetailExtractor{fakeExtractor{
		pages: map[string]listPage{
			"https://example.com/list": {items: rawItems(3)},
		},
	}}

	cfg := testConfig(10)
	cfg.RateLimit = spacing.Seconds()
	cfg.DetailConcurrency = 2

	start := time.Now()
	result := newTestCoordinator(cfg, extractor, fetcher, newFakeStore()).Run(context.Background())
	elapsed := time.Since(start)

	require.NoError(t, result.Err)

	times := fetcher.fetchTimes()
	require.Len(t, times, 4, "one list fetch plus three detail fetches")

	// Token grants can land a few microseconds apart from the recorded
	// arrival; the aggregate bound below catches systematic violations.
	for i := 1; i < len(times); i++ {
		gap := times[i].Sub(times[i-1])
		assert.GreaterOrEqual(t, gap, spacing-5*time.Millisecond,
			"requests %d and %d must wait out the rate limit, even concurrent detail fetches", i-1, i)
	}
	assert.GreaterOrEqual(t, elapsed, 3*spacing,
		"four requests through a burst-1 bucket need three full intervals")
}

func TestCoordinatorDuplicateReSighting(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.pages["https://example.com/list"] = []byte("list")

	extractor := &fakeExtractor{
		pages: map[string]listPage{
			"https://example.com/list": {items: rawItems(2)},
		},
	}
	store := newFakeStore()
	cfg := testConfig(10)

	first := newTestCoordinator(cfg, extractor, fetcher, store).Run(context.Background())
	require.NoError(t, first.Err)
	assert.Equal(t, 2, first.Inserted)
	assert.Equal(t, 0, first.Duplicates)

	second := newTestCoordinator(cfg, extractor, fetcher, store).Run(context.Background())
	require.NoError(t, second.Err)
	assert.Equal(t, domain.StateDone, second.State, "re-sightings are never errors")
	assert.Equal(t, 2, second.Collected, "re-sightings still count against the cap")
	assert.Equal(t, 0, second.Inserted)
	assert.Equal(t, 2, second.Duplicates)
	assert.Len(t, store.inserted, 2, "no duplicate rows")
}

func TestCoordinatorPagination(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.pages["https://example.com/list"] = []byte("page1")
	fetcher.pages["https://example.com/list?page=2"] = []byte("page2")

	extractor := &fakeExtractor{
		pages: map[string]listPage{
			"https://example.com/list": {
				items: rawItems(2),
				next:  "/list?page=2",
			},
			"https://example.com/list?page=2": {
				items: []domain.RawItem{
					{Title: "Last", Link: "https://example.com/item/last"},
				},
			},
		},
	}
	store := newFakeStore()

	result := newTestCoordinator(testConfig(10), extractor, fetcher, store).Run(context.Background())

	require.NoError(t, result.Err)
	assert.Equal(t, domain.StateDone, result.State)
	assert.Equal(t, 3, result.Collected)
	assert.Equal(t,
		[]string{"https://example.com/list", "https://example.com/list?page=2"},
		fetcher.fetchedURLs(),
		"pagination follows the resolved next locator and terminates on empty")
}

func TestCoordinatorCapSkipsPagination(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.pages["https://example.com/list"] = []byte("page1")

	extractor := &fakeExtractor{
		pages: map[string]listPage{
			"https://example.com/list": {
				items: rawItems(2),
				next:  "/list?page=2",
			},
		},
	}
	store := newFakeStore()

	result := newTestCoordinator(testConfig(2), extractor, fetcher, store).Run(context.Background())

	require.NoError(t, result.Err)
	assert.Equal(t, 2, result.Collected)
	assert.Equal(t, []string{"https://example.com/list"}, fetcher.fetchedURLs(),
		"cap reached means the next page is never fetched")
}

func TestCoordinatorListFetchFailure(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.pages["https://example.com/list"] = []byte("page1")
	fetcher.errs["https://example.com/list?page=2"] = errors.New("boom")

	extractor := &fakeExtractor{
		pages: map[string]listPage{
			"https://example.com/list": {
				items: rawItems(2),
				next:  "/list?page=2",
			},
		},
	}
	store := newFakeStore()

	result := newTestCoordinator(testConfig(10), extractor, fetcher, store).Run(context.Background())

	require.Error(t, result.Err)
	assert.Equal(t, domain.StateFailed, result.State)
	assert.Equal(t, 2, result.Collected, "articles persisted before the failure are kept")
	assert.Len(t, store.inserted, 2)
}

func TestCoordinatorDecodeFailureDegrades(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.pages["https://example.com/list"] = []byte("garbage")

	extractor := &fakeExtractor{
		decodeErr: map[string]error{
			"https://example.com/list": errors.New("not a listing"),
		},
	}
	store := newFakeStore()

	result := newTestCoordinator(testConfig(10), extractor, fetcher, store).Run(context.Background())

	require.NoError(t, result.Err, "an undecodable page is not a transport failure")
	assert.Equal(t, domain.StateDone, result.State)
	assert.Equal(t, 0, result.Collected)
}

func TestCoordinatorDetailFailureFallsBack(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.pages["https://example.com/list"] = []byte("list")
	fetcher.errs["https://example.com/item/0"] = errors.New("timeout")

	extractor := &fakeDetailExtractor{fakeExtractor{
		pages: map[string]listPage{
			"https://example.com/list": {items: []domain.RawItem{
				{Title: "Item 0", Link: "https://example.com/item/0", Description: "teaser"},
			}},
		},
	}}
	store := newFakeStore()

	result := newTestCoordinator(testConfig(10), extractor, fetcher, store).Run(context.Background())

	require.NoError(t, result.Err, "detail failures degrade, they never fail the run")
	assert.Equal(t, 1, result.Collected)
	require.Len(t, store.inserted, 1)
	assert.Equal(t, "teaser", store.inserted[0].RawContent,
		"listing description is the fallback body")
}

func TestCoordinatorStoreErrorSkipsItem(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.pages["https://example.com/list"] = []byte("list")

	extractor := &fakeExtractor{
		pages: map[string]listPage{
			"https://example.com/list": {items: rawItems(1)},
		},
	}
	store := newFakeStore()
	store.err = errors.New("db down")

	result := newTestCoordinator(testConfig(10), extractor, fetcher, store).Run(context.Background())

	require.NoError(t, result.Err, "storage failures skip the item, not the run")
	assert.Equal(t, 0, result.Collected)
}
