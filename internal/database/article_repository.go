package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/jonesrussell/aiwatch/internal/domain"
)

// ErrArticleNotFound is returned when an article does not exist.
var ErrArticleNotFound = errors.New("article not found")

// ArticleRepository handles article persistence in PostgreSQL.
type ArticleRepository struct {
	db *sqlx.DB
}

// NewArticleRepository creates a new article repository.
func NewArticleRepository(db *sqlx.DB) *ArticleRepository {
	return &ArticleRepository{db: db}
}

// ArticleFilter narrows List queries. Zero values mean "no constraint".
type ArticleFilter struct {
	Source        string
	Category      string
	ProcessedOnly bool
	Limit         int
	Offset        int
}

// InsertIfAbsent inserts the article unless its URL or content hash is
// already present. The uniqueness constraints arbitrate concurrent
// insertion races; a conflict reports the existing row's id with
// wasNew=false and is never an error.
func (r *ArticleRepository) InsertIfAbsent(
	ctx context.Context,
	article *domain.Article,
) (int64, bool, error) {
	query := `
		INSERT INTO articles (
			title, url, source, authors, published_date, scraped_date,
			raw_content, content_hash, language, tags, image_url,
			word_count, reading_time
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13
		)
		ON CONFLICT DO NOTHING
		RETURNING id`

	var id int64
	err := r.db.GetContext(ctx, &id, query,
		article.Title,
		article.URL,
		article.Source,
		article.Authors,
		article.PublishedDate,
		article.ScrapedDate,
		article.RawContent,
		article.ContentHash,
		article.Language,
		article.Tags,
		article.ImageURL,
		article.WordCount,
		article.ReadingTime,
	)
	if err == nil {
		article.ID = id
		return id, true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, false, fmt.Errorf("failed to insert article: %w", err)
	}

	// Conflict path: look up the existing row by either unique key.
	lookup := `SELECT id FROM articles WHERE url = $1 OR content_hash = $2`
	if err := r.db.GetContext(ctx, &id, lookup, article.URL, article.ContentHash); err != nil {
		return 0, false, fmt.Errorf("failed to resolve duplicate article: %w", err)
	}
	article.ID = id
	return id, false, nil
}

// GetByID retrieves an article by its id.
func (r *ArticleRepository) GetByID(ctx context.Context, id int64) (*domain.Article, error) {
	var article domain.Article
	err := r.db.GetContext(ctx, &article, `SELECT * FROM articles WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrArticleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get article: %w", err)
	}
	return &article, nil
}

// List retrieves articles matching the filter, newest first.
func (r *ArticleRepository) List(
	ctx context.Context,
	filter ArticleFilter,
) ([]*domain.Article, error) {
	query := `SELECT * FROM articles WHERE 1=1`
	args := []any{}

	if filter.Source != "" {
		args = append(args, filter.Source)
		query += fmt.Sprintf(" AND source = $%d", len(args))
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		query += fmt.Sprintf(" AND category = $%d", len(args))
	}
	if filter.ProcessedOnly {
		query += " AND is_processed = TRUE"
	}

	query += " ORDER BY scraped_date DESC"

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	args = append(args, limit)
	query += fmt.Sprintf(" LIMIT $%d", len(args))
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	articles := []*domain.Article{}
	if err := r.db.SelectContext(ctx, &articles, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list articles: %w", err)
	}
	return articles, nil
}

// ListUnprocessed retrieves up to limit articles awaiting enrichment,
// oldest first so the backlog drains in ingestion order.
func (r *ArticleRepository) ListUnprocessed(
	ctx context.Context,
	limit int,
) ([]*domain.Article, error) {
	query := `
		SELECT * FROM articles
		WHERE is_processed = FALSE
		ORDER BY scraped_date ASC
		LIMIT $1`

	articles := []*domain.Article{}
	if err := r.db.SelectContext(ctx, &articles, query, limit); err != nil {
		return nil, fmt.Errorf("failed to list unprocessed articles: %w", err)
	}
	return articles, nil
}

// ListProcessedInRange retrieves processed articles scraped within
// [start, end), oldest first.
func (r *ArticleRepository) ListProcessedInRange(
	ctx context.Context,
	start, end time.Time,
) ([]*domain.Article, error) {
	query := `
		SELECT * FROM articles
		WHERE is_processed = TRUE
		  AND scraped_date >= $1 AND scraped_date < $2
		ORDER BY scraped_date ASC`

	articles := []*domain.Article{}
	if err := r.db.SelectContext(ctx, &articles, query, start, end); err != nil {
		return nil, fmt.Errorf("failed to list processed articles: %w", err)
	}
	return articles, nil
}

// ListEntitiesInRange retrieves entity mentions attached to processed
// articles scraped within [start, end).
func (r *ArticleRepository) ListEntitiesInRange(
	ctx context.Context,
	start, end time.Time,
) ([]*domain.Entity, error) {
	query := `
		SELECT e.* FROM entities e
		JOIN articles a ON a.id = e.article_id
		WHERE a.is_processed = TRUE
		  AND a.scraped_date >= $1 AND a.scraped_date < $2`

	entities := []*domain.Entity{}
	if err := r.db.SelectContext(ctx, &entities, query, start, end); err != nil {
		return nil, fmt.Errorf("failed to list entities: %w", err)
	}
	return entities, nil
}

// GetSummary retrieves the summary for an article, if one exists.
func (r *ArticleRepository) GetSummary(
	ctx context.Context,
	articleID int64,
) (*domain.Summary, error) {
	var summary domain.Summary
	err := r.db.GetContext(ctx, &summary,
		`SELECT * FROM summaries WHERE article_id = $1 ORDER BY created_at DESC LIMIT 1`,
		articleID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get summary: %w", err)
	}
	return &summary, nil
}

// MarkProcessed persists one article's enrichment outputs and flips its
// processed flag, all in one transaction. Re-processing an already
// processed article is a no-op so a crashed enrichment pass can be
// retried safely.
func (r *ArticleRepository) MarkProcessed(
	ctx context.Context,
	articleID int64,
	enriched *domain.EnrichmentResult,
) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	update := `
		UPDATE articles
		SET cleaned_content = $2,
		    category = $3,
		    quality_score = $4,
		    is_processed = TRUE,
		    updated_at = now()
		WHERE id = $1 AND is_processed = FALSE`

	res, err := tx.ExecContext(ctx, update,
		articleID,
		enriched.CleanedContent,
		enriched.Category,
		enriched.QualityScore,
	)
	if err != nil {
		return fmt.Errorf("failed to mark article processed: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		// Already processed, or gone. Either way the enrichment outputs
		// must not be written twice.
		return tx.Commit()
	}

	insertSummary := `
		INSERT INTO summaries (
			article_id, short_summary, medium_summary, long_summary,
			key_points, model_used, model_version, confidence_score
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	s := enriched.Summary
	if _, err := tx.ExecContext(ctx, insertSummary,
		articleID,
		s.ShortSummary,
		s.MediumSummary,
		s.LongSummary,
		s.KeyPoints,
		s.ModelUsed,
		s.ModelVersion,
		s.ConfidenceScore,
	); err != nil {
		return fmt.Errorf("failed to insert summary: %w", err)
	}

	insertEntity := `
		INSERT INTO entities (
			article_id, entity_text, entity_type, context,
			position_start, position_end, confidence_score,
			canonical_name, model_used
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	for i := range enriched.Entities {
		e := &enriched.Entities[i]
		if _, err := tx.ExecContext(ctx, insertEntity,
			articleID,
			e.EntityText,
			e.EntityType,
			e.Context,
			e.PositionStart,
			e.PositionEnd,
			e.ConfidenceScore,
			e.CanonicalName,
			e.ModelUsed,
		); err != nil {
			return fmt.Errorf("failed to insert entity: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit enrichment: %w", err)
	}
	return nil
}
