// Package enrichment runs summarization, entity extraction, and
// categorization over stored articles. The models behind the three
// stages are injected; the pipeline only sequences them and guarantees
// that an article is marked processed exactly once, with all outputs
// landing together or not at all.
package enrichment

import (
	"context"
	"fmt"

	"github.com/jonesrussell/aiwatch/internal/domain"
	"github.com/jonesrussell/aiwatch/internal/logger"
)

// Summarizer produces tiered summaries for one article.
type Summarizer interface {
	Summarize(ctx context.Context, article *domain.Article) (*domain.Summary, error)
}

// EntityExtractor finds named entity mentions in one article.
type EntityExtractor interface {
	ExtractEntities(ctx context.Context, article *domain.Article) ([]domain.Entity, error)
}

// Categorizer assigns one category to one article.
type Categorizer interface {
	Categorize(ctx context.Context, article *domain.Article) (string, error)
}

// ArticleStore is the storage surface the pipeline needs.
type ArticleStore interface {
	ListUnprocessed(ctx context.Context, limit int) ([]*domain.Article, error)
	MarkProcessed(ctx context.Context, articleID int64, enriched *domain.EnrichmentResult) error
}

// Result reports one pipeline pass.
type Result struct {
	Processed int
	Failed    int
}

// Pipeline enriches unprocessed articles in batches. A failed stage
// leaves the article unprocessed so the next pass retries it; one
// article failing never disturbs the rest of the batch.
type Pipeline struct {
	store       ArticleStore
	summarizer  Summarizer
	entities    EntityExtractor
	categorizer Categorizer
	batchSize   int
	log         logger.Interface
}

// NewPipeline creates an enrichment pipeline.
func NewPipeline(
	store ArticleStore,
	summarizer Summarizer,
	entities EntityExtractor,
	categorizer Categorizer,
	batchSize int,
	log logger.Interface,
) *Pipeline {
	if batchSize <= 0 {
		batchSize = 50
	}
	return &Pipeline{
		store:       store,
		summarizer:  summarizer,
		entities:    entities,
		categorizer: categorizer,
		batchSize:   batchSize,
		log:         log.WithComponent("enrichment"),
	}
}

// Run executes one enrichment pass over at most one batch of
// unprocessed articles.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	articles, err := p.store.ListUnprocessed(ctx, p.batchSize)
	if err != nil {
		return nil, fmt.Errorf("failed to load unprocessed articles: %w", err)
	}

	result := &Result{}
	for _, article := range articles {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}
		if err := p.enrichOne(ctx, article); err != nil {
			result.Failed++
			p.log.Warn("enrichment failed, leaving article for next pass",
				"article_id", article.ID,
				"url", article.URL,
				"error", err,
			)
			continue
		}
		result.Processed++
	}

	p.log.Info("enrichment pass complete",
		"processed", result.Processed,
		"failed", result.Failed,
	)
	return result, nil
}

// enrichOne runs all three stages for one article and persists the
// outputs atomically.
func (p *Pipeline) enrichOne(ctx context.Context, article *domain.Article) error {
	summary, err := p.summarizer.Summarize(ctx, article)
	if err != nil {
		return fmt.Errorf("summarization failed: %w", err)
	}

	entities, err := p.entities.ExtractEntities(ctx, article)
	if err != nil {
		return fmt.Errorf("entity extraction failed: %w", err)
	}

	category, err := p.categorizer.Categorize(ctx, article)
	if err != nil {
		return fmt.Errorf("categorization failed: %w", err)
	}

	score := qualityScore(article)
	enriched := &domain.EnrichmentResult{
		Summary:        *summary,
		Entities:       entities,
		Category:       category,
		CleanedContent: article.RawContent,
		QualityScore:   &score,
	}

	if err := p.store.MarkProcessed(ctx, article.ID, enriched); err != nil {
		return fmt.Errorf("failed to persist enrichment: %w", err)
	}
	return nil
}

// qualityScore rates an article on completeness of its metadata and the
// substance of its body, in [0, 1].
func qualityScore(article *domain.Article) float64 {
	score := 0.2
	if article.WordCount >= 100 {
		score += 0.3
	} else if article.WordCount >= 30 {
		score += 0.15
	}
	if article.PublishedDate != nil {
		score += 0.2
	}
	if len(article.Authors) > 0 {
		score += 0.2
	}
	if article.ImageURL != nil {
		score += 0.1
	}
	return score
}
