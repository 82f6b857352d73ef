package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/jonesrussell/aiwatch/internal/config"
	"github.com/jonesrussell/aiwatch/internal/domain"
)

// ErrDigestNotFound is returned when no digest exists for a date.
var ErrDigestNotFound = errors.New("digest not found")

// DigestRepository handles daily digest and trend persistence.
type DigestRepository struct {
	db *sqlx.DB
}

// NewDigestRepository creates a new digest repository.
func NewDigestRepository(db *sqlx.DB) *DigestRepository {
	return &DigestRepository{db: db}
}

// UpsertDigest writes a digest, replacing any previous digest for the
// same date. Rebuilding a day is idempotent.
func (r *DigestRepository) UpsertDigest(ctx context.Context, digest *domain.DailyDigest) error {
	query := `
		INSERT INTO daily_digests (
			date, total_articles, articles_by_source, articles_by_category,
			top_researchers, top_organizations, top_models,
			trending_topics, highlights
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (date) DO UPDATE SET
			total_articles = EXCLUDED.total_articles,
			articles_by_source = EXCLUDED.articles_by_source,
			articles_by_category = EXCLUDED.articles_by_category,
			top_researchers = EXCLUDED.top_researchers,
			top_organizations = EXCLUDED.top_organizations,
			top_models = EXCLUDED.top_models,
			trending_topics = EXCLUDED.trending_topics,
			highlights = EXCLUDED.highlights,
			updated_at = now()
		RETURNING id`

	err := r.db.GetContext(ctx, &digest.ID, query,
		digest.Date,
		digest.TotalArticles,
		digest.ArticlesBySource,
		digest.ArticlesByCategory,
		digest.TopResearchers,
		digest.TopOrganizations,
		digest.TopModels,
		digest.TrendingTopics,
		digest.Highlights,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert digest: %w", err)
	}
	return nil
}

// GetDigestByDate retrieves the digest for one calendar day.
func (r *DigestRepository) GetDigestByDate(
	ctx context.Context,
	date time.Time,
) (*domain.DailyDigest, error) {
	var digest domain.DailyDigest
	err := r.db.GetContext(ctx, &digest,
		`SELECT * FROM daily_digests WHERE date = $1`, date)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrDigestNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get digest: %w", err)
	}
	return &digest, nil
}

// UpsertTrend writes one keyword's rolling mention counts, keyed by
// (keyword, category).
func (r *DigestRepository) UpsertTrend(ctx context.Context, trend *domain.Trend) error {
	query := `
		INSERT INTO trends (keyword, category, week_mentions, month_mentions, growth_rate)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (keyword, category) DO UPDATE SET
			week_mentions = EXCLUDED.week_mentions,
			month_mentions = EXCLUDED.month_mentions,
			growth_rate = EXCLUDED.growth_rate,
			updated_at = now()
		RETURNING id`

	err := r.db.GetContext(ctx, &trend.ID, query,
		trend.Keyword,
		trend.Category,
		trend.WeekMentions,
		trend.MonthMentions,
		trend.GrowthRate,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert trend: %w", err)
	}
	return nil
}

// trendLimit clamps a caller-supplied limit to the configured default.
func trendLimit(limit int) int {
	if limit <= 0 {
		return config.DefaultTrendTopKeywords
	}
	return limit
}

// ListTrends retrieves trends ordered by week mentions, busiest first.
func (r *DigestRepository) ListTrends(ctx context.Context, limit int) ([]*domain.Trend, error) {
	limit = trendLimit(limit)

	trends := []*domain.Trend{}
	err := r.db.SelectContext(ctx, &trends,
		`SELECT * FROM trends ORDER BY week_mentions DESC, keyword ASC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list trends: %w", err)
	}
	return trends, nil
}
