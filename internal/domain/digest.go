package domain

import (
	"time"
)

// DailyDigest aggregates processed articles for one calendar day. The date
// is unique; rebuilding a digest for the same day overwrites the previous
// row.
type DailyDigest struct {
	ID                 int64        `db:"id"                   json:"id"`
	Date               time.Time    `db:"date"                 json:"date"`
	TotalArticles      int          `db:"total_articles"       json:"total_articles"`
	ArticlesBySource   JSONBCounts  `db:"articles_by_source"   json:"articles_by_source,omitempty"`
	ArticlesByCategory JSONBCounts  `db:"articles_by_category" json:"articles_by_category,omitempty"`
	TopResearchers     JSONBStrings `db:"top_researchers"      json:"top_researchers,omitempty"`
	TopOrganizations   JSONBStrings `db:"top_organizations"    json:"top_organizations,omitempty"`
	TopModels          JSONBStrings `db:"top_models"           json:"top_models,omitempty"`
	TrendingTopics     JSONBStrings `db:"trending_topics"      json:"trending_topics,omitempty"`
	Highlights         JSONBStrings `db:"highlights"           json:"highlights,omitempty"`
	CreatedAt          time.Time    `db:"created_at"           json:"created_at"`
	UpdatedAt          time.Time    `db:"updated_at"           json:"updated_at"`
}

// Trend tracks rolling mention counts for one keyword within one category.
// Rows are keyed by (keyword, category) and accumulate across digest runs.
type Trend struct {
	ID            int64     `db:"id"             json:"id"`
	Keyword       string    `db:"keyword"        json:"keyword"`
	Category      string    `db:"category"       json:"category"`
	WeekMentions  int       `db:"week_mentions"  json:"week_mentions"`
	MonthMentions int       `db:"month_mentions" json:"month_mentions"`
	GrowthRate    *float64  `db:"growth_rate"    json:"growth_rate,omitempty"`
	UpdatedAt     time.Time `db:"updated_at"     json:"updated_at"`
}
