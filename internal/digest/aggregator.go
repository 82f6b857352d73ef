// Package digest builds daily digests and rolling trends from processed
// articles.
package digest

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jonesrussell/aiwatch/internal/domain"
	"github.com/jonesrussell/aiwatch/internal/logger"
)

const (
	topEntityCount = 5
	highlightCount = 3
	weekWindow     = 7 * 24 * time.Hour
	monthWindow    = 30 * 24 * time.Hour
)

// ArticleReader is the article store surface the aggregator needs.
type ArticleReader interface {
	ListProcessedInRange(ctx context.Context, start, end time.Time) ([]*domain.Article, error)
	ListEntitiesInRange(ctx context.Context, start, end time.Time) ([]*domain.Entity, error)
}

// DigestWriter persists digests and trends.
type DigestWriter interface {
	UpsertDigest(ctx context.Context, digest *domain.DailyDigest) error
	UpsertTrend(ctx context.Context, trend *domain.Trend) error
}

// Aggregator builds the digest for one calendar day. Building the same
// day twice produces the same digest row; nothing accumulates across
// rebuilds.
type Aggregator struct {
	articles ArticleReader
	digests  DigestWriter
	log      logger.Interface
}

// NewAggregator creates a digest aggregator.
func NewAggregator(articles ArticleReader, digests DigestWriter, log logger.Interface) *Aggregator {
	return &Aggregator{
		articles: articles,
		digests:  digests,
		log:      log.WithComponent("digest"),
	}
}

// Build assembles and persists the digest for the day containing date,
// then refreshes trend counters. The day boundary is UTC midnight.
func (a *Aggregator) Build(ctx context.Context, date time.Time) (*domain.DailyDigest, error) {
	dayStart := date.UTC().Truncate(24 * time.Hour)
	dayEnd := dayStart.Add(24 * time.Hour)

	articles, err := a.articles.ListProcessedInRange(ctx, dayStart, dayEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to load day's articles: %w", err)
	}
	entities, err := a.articles.ListEntitiesInRange(ctx, dayStart, dayEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to load day's entities: %w", err)
	}

	digest := a.assemble(dayStart, articles, entities)
	if err := a.digests.UpsertDigest(ctx, digest); err != nil {
		return nil, err
	}

	if err := a.updateTrends(ctx, dayEnd); err != nil {
		return nil, err
	}

	a.log.Info("digest built",
		"date", dayStart.Format("2006-01-02"),
		"articles", digest.TotalArticles,
	)
	return digest, nil
}

// assemble computes the digest row from one day's articles and entities.
func (a *Aggregator) assemble(
	day time.Time,
	articles []*domain.Article,
	entities []*domain.Entity,
) *domain.DailyDigest {
	bySource := domain.JSONBCounts{}
	byCategory := domain.JSONBCounts{}
	for _, article := range articles {
		bySource[article.Source]++
		if article.Category != nil && *article.Category != "" {
			byCategory[*article.Category]++
		}
	}

	byType := map[string]map[string]int{}
	for _, entity := range entities {
		if byType[entity.EntityType] == nil {
			byType[entity.EntityType] = map[string]int{}
		}
		byType[entity.EntityType][entity.EntityText]++
	}

	return &domain.DailyDigest{
		Date:               day,
		TotalArticles:      len(articles),
		ArticlesBySource:   bySource,
		ArticlesByCategory: byCategory,
		TopResearchers:     topMentions(byType[domain.EntityTypePerson], topEntityCount),
		TopOrganizations:   topMentions(byType[domain.EntityTypeOrganization], topEntityCount),
		TopModels:          topMentions(byType[domain.EntityTypeModel], topEntityCount),
		TrendingTopics:     topMentions(byType[domain.EntityTypeTopic], topEntityCount),
		Highlights:         highlights(articles, highlightCount),
	}
}

// updateTrends recomputes week and month mention counts for every tag
// seen in the month window ending at end.
func (a *Aggregator) updateTrends(ctx context.Context, end time.Time) error {
	monthArticles, err := a.articles.ListProcessedInRange(ctx, end.Add(-monthWindow), end)
	if err != nil {
		return fmt.Errorf("failed to load month window: %w", err)
	}

	weekStart := end.Add(-weekWindow)
	week := map[trendKey]int{}
	month := map[trendKey]int{}
	for _, article := range monthArticles {
		category := "general"
		if article.Category != nil && *article.Category != "" {
			category = *article.Category
		}
		for _, tag := range article.Tags {
			key := trendKey{keyword: strings.ToLower(tag), category: category}
			month[key]++
			if !article.ScrapedDate.Before(weekStart) {
				week[key]++
			}
		}
	}

	for key, monthCount := range month {
		weekCount := week[key]
		trend := &domain.Trend{
			Keyword:       key.keyword,
			Category:      key.category,
			WeekMentions:  weekCount,
			MonthMentions: monthCount,
			GrowthRate:    growthRate(weekCount, monthCount),
		}
		if err := a.digests.UpsertTrend(ctx, trend); err != nil {
			return err
		}
	}
	return nil
}

type trendKey struct {
	keyword  string
	category string
}

// growthRate compares the last week's pace against the month's weekly
// average. Nil when the month window is empty.
func growthRate(week, month int) *float64 {
	if month == 0 {
		return nil
	}
	weeklyAverage := float64(month) / 4.0
	rate := float64(week)/weeklyAverage - 1.0
	return &rate
}

// topMentions returns the n most-mentioned texts, ties broken
// alphabetically so rebuilds are deterministic.
func topMentions(counts map[string]int, n int) domain.JSONBStrings {
	if len(counts) == 0 {
		return nil
	}

	texts := make([]string, 0, len(counts))
	for text := range counts {
		texts = append(texts, text)
	}
	sort.Slice(texts, func(i, j int) bool {
		if counts[texts[i]] != counts[texts[j]] {
			return counts[texts[i]] > counts[texts[j]]
		}
		return texts[i] < texts[j]
	})

	if len(texts) > n {
		texts = texts[:n]
	}
	return domain.JSONBStrings(texts)
}

// highlights picks the highest-quality articles of the day, recorded by
// title so the digest is readable without joins.
func highlights(articles []*domain.Article, n int) domain.JSONBStrings {
	if len(articles) == 0 {
		return nil
	}

	sorted := make([]*domain.Article, len(articles))
	copy(sorted, articles)
	sort.SliceStable(sorted, func(i, j int) bool {
		return quality(sorted[i]) > quality(sorted[j])
	})

	if len(sorted) > n {
		sorted = sorted[:n]
	}
	out := make(domain.JSONBStrings, 0, len(sorted))
	for _, article := range sorted {
		out = append(out, article.Title)
	}
	return out
}

func quality(article *domain.Article) float64 {
	if article.QualityScore == nil {
		return 0
	}
	return *article.QualityScore
}
