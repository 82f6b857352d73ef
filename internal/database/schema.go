package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// schema is the full DDL for the aiwatch database. Statements are
// idempotent so Migrate can run on every startup.
const schema = `
CREATE TABLE IF NOT EXISTS articles (
    id              BIGSERIAL PRIMARY KEY,
    title           VARCHAR(500) NOT NULL,
    url             VARCHAR(1000) NOT NULL UNIQUE,
    source          VARCHAR(50) NOT NULL,
    authors         JSONB,
    published_date  TIMESTAMPTZ,
    scraped_date    TIMESTAMPTZ NOT NULL DEFAULT now(),
    raw_content     TEXT,
    cleaned_content TEXT,
    content_hash    VARCHAR(64) NOT NULL UNIQUE,
    language        VARCHAR(10) NOT NULL DEFAULT 'en',
    category        VARCHAR(50),
    tags            JSONB,
    image_url       VARCHAR(1000),
    word_count      INTEGER NOT NULL DEFAULT 0,
    reading_time    INTEGER NOT NULL DEFAULT 0,
    is_processed    BOOLEAN NOT NULL DEFAULT FALSE,
    quality_score   DOUBLE PRECISION,
    created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_articles_source ON articles (source);
CREATE INDEX IF NOT EXISTS idx_articles_is_processed ON articles (is_processed);
CREATE INDEX IF NOT EXISTS idx_articles_scraped_date ON articles (scraped_date);

CREATE TABLE IF NOT EXISTS summaries (
    id               BIGSERIAL PRIMARY KEY,
    article_id       BIGINT NOT NULL REFERENCES articles (id) ON DELETE CASCADE,
    short_summary    TEXT,
    medium_summary   TEXT,
    long_summary     TEXT,
    key_points       JSONB,
    model_used       VARCHAR(100) NOT NULL,
    model_version    VARCHAR(50),
    confidence_score DOUBLE PRECISION,
    created_at       TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_summaries_article_id ON summaries (article_id);

CREATE TABLE IF NOT EXISTS entities (
    id               BIGSERIAL PRIMARY KEY,
    article_id       BIGINT NOT NULL REFERENCES articles (id) ON DELETE CASCADE,
    entity_text      VARCHAR(255) NOT NULL,
    entity_type      VARCHAR(50) NOT NULL,
    context          TEXT,
    position_start   INTEGER,
    position_end     INTEGER,
    confidence_score DOUBLE PRECISION,
    canonical_name   VARCHAR(255),
    model_used       VARCHAR(100) NOT NULL,
    created_at       TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_entities_article_id ON entities (article_id);
CREATE INDEX IF NOT EXISTS idx_entities_entity_type ON entities (entity_type);

CREATE TABLE IF NOT EXISTS daily_digests (
    id                   BIGSERIAL PRIMARY KEY,
    date                 DATE NOT NULL UNIQUE,
    total_articles       INTEGER NOT NULL DEFAULT 0,
    articles_by_source   JSONB,
    articles_by_category JSONB,
    top_researchers      JSONB,
    top_organizations    JSONB,
    top_models           JSONB,
    trending_topics      JSONB,
    highlights           JSONB,
    created_at           TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at           TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS trends (
    id             BIGSERIAL PRIMARY KEY,
    keyword        VARCHAR(255) NOT NULL,
    category       VARCHAR(50) NOT NULL,
    week_mentions  INTEGER NOT NULL DEFAULT 0,
    month_mentions INTEGER NOT NULL DEFAULT 0,
    growth_rate    DOUBLE PRECISION,
    updated_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
    UNIQUE (keyword, category)
);
`

// Migrate applies the schema to the database.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
