package enrichment

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/aiwatch/internal/domain"
	"github.com/jonesrussell/aiwatch/internal/logger"
)

// fakeArticleStore hands out a fixed backlog and records processed ids.
type fakeArticleStore struct {
	backlog   []*domain.Article
	processed map[int64]*domain.EnrichmentResult
	markErr   error
}

func newFakeArticleStore(articles ...*domain.Article) *fakeArticleStore {
	return &fakeArticleStore{
		backlog:   articles,
		processed: map[int64]*domain.EnrichmentResult{},
	}
}

func (s *fakeArticleStore) ListUnprocessed(_ context.Context, limit int) ([]*domain.Article, error) {
	if len(s.backlog) > limit {
		return s.backlog[:limit], nil
	}
	return s.backlog, nil
}

func (s *fakeArticleStore) MarkProcessed(
	_ context.Context,
	articleID int64,
	enriched *domain.EnrichmentResult,
) error {
	if s.markErr != nil {
		return s.markErr
	}
	s.processed[articleID] = enriched
	return nil
}

// failingSummarizer fails for one article id.
type failingSummarizer struct {
	failID int64
}

func (f failingSummarizer) Summarize(
	ctx context.Context,
	article *domain.Article,
) (*domain.Summary, error) {
	if article.ID == f.failID {
		return nil, errors.New("model unavailable")
	}
	return ExtractiveSummarizer{}.Summarize(ctx, article)
}

func testArticle(id int64, content string) *domain.Article {
	return &domain.Article{
		ID:         id,
		Title:      "Test Article",
		URL:        "https://example.com/a",
		Source:     "arxiv",
		RawContent: content,
		WordCount:  len(content) / 5,
	}
}

func newTestPipeline(store ArticleStore, summarizer Summarizer) *Pipeline {
	return NewPipeline(
		store,
		summarizer,
		DictionaryEntityExtractor{},
		KeywordCategorizer{},
		10,
		logger.NewNoOp(),
	)
}

func TestPipelineProcessesBatch(t *testing.T) {
	store := newFakeArticleStore(
		testArticle(1, "OpenAI published a new paper on arxiv. It sets a benchmark."),
		testArticle(2, "A product launch for enterprise customers."),
	)

	result, err := newTestPipeline(store, ExtractiveSummarizer{}).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, result.Processed)
	assert.Equal(t, 0, result.Failed)
	require.Len(t, store.processed, 2)

	first := store.processed[1]
	assert.Equal(t, "research", first.Category)
	assert.NotEmpty(t, first.Summary.ShortSummary)
	assert.NotNil(t, first.QualityScore)

	var foundOrg bool
	for _, entity := range first.Entities {
		if entity.EntityText == "OpenAI" {
			foundOrg = true
			assert.Equal(t, domain.EntityTypeOrganization, entity.EntityType)
		}
	}
	assert.True(t, foundOrg, "dictionary entity must be found")

	assert.Equal(t, "industry", store.processed[2].Category)
}

func TestPipelineFailureLeavesArticleUnprocessed(t *testing.T) {
	store := newFakeArticleStore(
		testArticle(1, "fails."),
		testArticle(2, "succeeds."),
	)

	result, err := newTestPipeline(store, failingSummarizer{failID: 1}).Run(context.Background())
	require.NoError(t, err, "one article failing never fails the pass")
	assert.Equal(t, 1, result.Processed)
	assert.Equal(t, 1, result.Failed)

	_, processed := store.processed[1]
	assert.False(t, processed, "failed article stays unprocessed for the next pass")
	_, processed = store.processed[2]
	assert.True(t, processed)
}

func TestPipelinePersistFailureCountsAsFailed(t *testing.T) {
	store := newFakeArticleStore(testArticle(1, "some text."))
	store.markErr = errors.New("db down")

	result, err := newTestPipeline(store, ExtractiveSummarizer{}).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, result.Processed)
	assert.Equal(t, 1, result.Failed)
}

func TestExtractiveSummarizerTiers(t *testing.T) {
	article := testArticle(1, "One. Two. Three. Four. Five. Six. Seven.")
	summary, err := ExtractiveSummarizer{}.Summarize(context.Background(), article)
	require.NoError(t, err)

	assert.Equal(t, "One.", summary.ShortSummary)
	assert.Equal(t, "One. Two. Three.", summary.MediumSummary)
	assert.Equal(t, "One. Two. Three. Four. Five. Six.", summary.LongSummary)
	assert.Len(t, []string(summary.KeyPoints), 5)
}

func TestKeywordCategorizerDefaultsToGeneral(t *testing.T) {
	article := testArticle(1, "nothing matching at all")
	category, err := KeywordCategorizer{}.Categorize(context.Background(), article)
	require.NoError(t, err)
	assert.Equal(t, "general", category)
}
