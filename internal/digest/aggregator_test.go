package digest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/aiwatch/internal/domain"
	"github.com/jonesrussell/aiwatch/internal/logger"
)

type fakeReader struct {
	articles []*domain.Article
	entities []*domain.Entity
}

func (r *fakeReader) ListProcessedInRange(
	_ context.Context,
	start, end time.Time,
) ([]*domain.Article, error) {
	var out []*domain.Article
	for _, article := range r.articles {
		if !article.ScrapedDate.Before(start) && article.ScrapedDate.Before(end) {
			out = append(out, article)
		}
	}
	return out, nil
}

func (r *fakeReader) ListEntitiesInRange(
	_ context.Context,
	_, _ time.Time,
) ([]*domain.Entity, error) {
	return r.entities, nil
}

type fakeWriter struct {
	digests []*domain.DailyDigest
	trends  map[string]*domain.Trend
}

func newFakeWriter() *fakeWriter {
	return &fakeWriter{trends: map[string]*domain.Trend{}}
}

func (w *fakeWriter) UpsertDigest(_ context.Context, digest *domain.DailyDigest) error {
	w.digests = append(w.digests, digest)
	return nil
}

func (w *fakeWriter) UpsertTrend(_ context.Context, trend *domain.Trend) error {
	w.trends[trend.Keyword+"/"+trend.Category] = trend
	return nil
}

func strPtr(s string) *string { return &s }

func fPtr(f float64) *float64 { return &f }

func digestArticle(
	title, source, category string,
	scraped time.Time,
	quality float64,
	tags ...string,
) *domain.Article {
	return &domain.Article{
		Title:        title,
		Source:       source,
		Category:     strPtr(category),
		ScrapedDate:  scraped,
		QualityScore: fPtr(quality),
		Tags:         domain.JSONBStrings(tags),
		IsProcessed:  true,
	}
}

func TestAggregatorBuild(t *testing.T) {
	day := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	noon := day.Add(12 * time.Hour)

	reader := &fakeReader{
		articles: []*domain.Article{
			digestArticle("Best paper", "arxiv", "research", noon, 0.9, "llm"),
			digestArticle("Another paper", "arxiv", "research", noon, 0.5, "llm"),
			digestArticle("Blog post", "huggingface", "open_source", noon, 0.7, "llm", "diffusion"),
		},
		entities: []*domain.Entity{
			{EntityText: "Jane Doe", EntityType: domain.EntityTypePerson},
			{EntityText: "OpenAI", EntityType: domain.EntityTypeOrganization},
			{EntityText: "OpenAI", EntityType: domain.EntityTypeOrganization},
			{EntityText: "DeepMind", EntityType: domain.EntityTypeOrganization},
			{EntityText: "Llama", EntityType: domain.EntityTypeModel},
		},
	}
	writer := newFakeWriter()

	digest, err := NewAggregator(reader, writer, logger.NewNoOp()).Build(context.Background(), noon)
	require.NoError(t, err)

	assert.Equal(t, day, digest.Date, "digest date truncates to the UTC day")
	assert.Equal(t, 3, digest.TotalArticles)
	assert.Equal(t, domain.JSONBCounts{"arxiv": 2, "huggingface": 1}, digest.ArticlesBySource)
	assert.Equal(t,
		domain.JSONBCounts{"research": 2, "open_source": 1},
		digest.ArticlesByCategory,
	)
	assert.Equal(t, domain.JSONBStrings{"Jane Doe"}, digest.TopResearchers)
	assert.Equal(t, domain.JSONBStrings{"OpenAI", "DeepMind"}, digest.TopOrganizations,
		"top mentions sort by count, ties alphabetical")
	assert.Equal(t, domain.JSONBStrings{"Llama"}, digest.TopModels)
	assert.Equal(t, domain.JSONBStrings{"Best paper", "Blog post", "Another paper"},
		digest.Highlights, "highlights rank by quality score")

	require.Len(t, writer.digests, 1)
}

func TestAggregatorBuildIsIdempotent(t *testing.T) {
	day := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	reader := &fakeReader{
		articles: []*domain.Article{
			digestArticle("Only one", "arxiv", "research", day, 0.5, "llm"),
		},
	}
	writer := newFakeWriter()
	aggregator := NewAggregator(reader, writer, logger.NewNoOp())

	first, err := aggregator.Build(context.Background(), day)
	require.NoError(t, err)
	second, err := aggregator.Build(context.Background(), day)
	require.NoError(t, err)

	assert.Equal(t, first.TotalArticles, second.TotalArticles)
	assert.Equal(t, first.ArticlesBySource, second.ArticlesBySource)
	assert.Equal(t, first.Highlights, second.Highlights)
}

func TestAggregatorTrendWindows(t *testing.T) {
	day := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	inWeek := day.Add(-2 * 24 * time.Hour)
	inMonthOnly := day.Add(-20 * 24 * time.Hour)

	reader := &fakeReader{
		articles: []*domain.Article{
			digestArticle("Recent", "arxiv", "research", inWeek, 0.5, "llm"),
			digestArticle("Older", "arxiv", "research", inMonthOnly, 0.5, "llm"),
			digestArticle("Older 2", "arxiv", "research", inMonthOnly, 0.5, "llm"),
		},
	}
	writer := newFakeWriter()

	_, err := NewAggregator(reader, writer, logger.NewNoOp()).Build(context.Background(), day)
	require.NoError(t, err)

	trend, ok := writer.trends["llm/research"]
	require.True(t, ok)
	assert.Equal(t, 1, trend.WeekMentions)
	assert.Equal(t, 3, trend.MonthMentions)
	require.NotNil(t, trend.GrowthRate)
	// 1 mention this week against a weekly average of 0.75.
	assert.InDelta(t, 1.0/0.75-1.0, *trend.GrowthRate, 1e-9)
}
