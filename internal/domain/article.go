// Package domain provides domain models used across the application.
package domain

import (
	"time"
)

// Article is the canonical record produced by the canonicalizer and
// persisted by the storage gateway. URL and ContentHash are each unique;
// a second ingestion with either colliding value is a re-sighting, not an
// error.
type Article struct {
	ID             int64        `db:"id"              json:"id"`
	Title          string       `db:"title"           json:"title"`
	URL            string       `db:"url"             json:"url"`
	Source         string       `db:"source"          json:"source"`
	Authors        JSONBStrings `db:"authors"         json:"authors,omitempty"`
	PublishedDate  *time.Time   `db:"published_date"  json:"published_date,omitempty"`
	ScrapedDate    time.Time    `db:"scraped_date"    json:"scraped_date"`
	RawContent     string       `db:"raw_content"     json:"raw_content,omitempty"`
	CleanedContent *string      `db:"cleaned_content" json:"cleaned_content,omitempty"`
	ContentHash    string       `db:"content_hash"    json:"content_hash"`
	Language       string       `db:"language"        json:"language"`
	Category       *string      `db:"category"        json:"category,omitempty"`
	Tags           JSONBStrings `db:"tags"            json:"tags,omitempty"`
	ImageURL       *string      `db:"image_url"       json:"image_url,omitempty"`
	WordCount      int          `db:"word_count"      json:"word_count"`
	ReadingTime    int          `db:"reading_time"    json:"reading_time"`
	IsProcessed    bool         `db:"is_processed"    json:"is_processed"`
	QualityScore   *float64     `db:"quality_score"   json:"quality_score,omitempty"`
	CreatedAt      time.Time    `db:"created_at"      json:"created_at"`
	UpdatedAt      time.Time    `db:"updated_at"      json:"updated_at"`
}

// Summary holds the summarization output for an article. Summaries are
// cascade-deleted with their article.
type Summary struct {
	ID              int64        `db:"id"               json:"id"`
	ArticleID       int64        `db:"article_id"       json:"article_id"`
	ShortSummary    string       `db:"short_summary"    json:"short_summary,omitempty"`
	MediumSummary   string       `db:"medium_summary"   json:"medium_summary,omitempty"`
	LongSummary     string       `db:"long_summary"     json:"long_summary,omitempty"`
	KeyPoints       JSONBStrings `db:"key_points"       json:"key_points,omitempty"`
	ModelUsed       string       `db:"model_used"       json:"model_used"`
	ModelVersion    *string      `db:"model_version"    json:"model_version,omitempty"`
	ConfidenceScore *float64     `db:"confidence_score" json:"confidence_score,omitempty"`
	CreatedAt       time.Time    `db:"created_at"       json:"created_at"`
}

// Entity is a named entity mention extracted from an article.
type Entity struct {
	ID              int64     `db:"id"               json:"id"`
	ArticleID       int64     `db:"article_id"       json:"article_id"`
	EntityText      string    `db:"entity_text"      json:"entity_text"`
	EntityType      string    `db:"entity_type"      json:"entity_type"`
	Context         *string   `db:"context"          json:"context,omitempty"`
	PositionStart   *int      `db:"position_start"   json:"position_start,omitempty"`
	PositionEnd     *int      `db:"position_end"     json:"position_end,omitempty"`
	ConfidenceScore *float64  `db:"confidence_score" json:"confidence_score,omitempty"`
	CanonicalName   *string   `db:"canonical_name"   json:"canonical_name,omitempty"`
	ModelUsed       string    `db:"model_used"       json:"model_used"`
	CreatedAt       time.Time `db:"created_at"       json:"created_at"`
}

// Entity types produced by the extraction models.
const (
	EntityTypePerson       = "PERSON"
	EntityTypeOrganization = "ORG"
	EntityTypeModel        = "MODEL"
	EntityTypeTopic        = "TOPIC"
)
