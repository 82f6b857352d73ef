package enrichment

import (
	"context"
	"strings"

	"github.com/jonesrussell/aiwatch/internal/domain"
)

// heuristicModel identifies the built-in rule-based stages in the
// model_used columns.
const heuristicModel = "heuristic-v1"

// ExtractiveSummarizer builds summaries from the article's own leading
// sentences. It is the default wired by the CLI; model-backed
// summarizers replace it via the Summarizer interface.
type ExtractiveSummarizer struct{}

// Summarize implements Summarizer.
func (ExtractiveSummarizer) Summarize(
	_ context.Context,
	article *domain.Article,
) (*domain.Summary, error) {
	sentences := splitSentences(article.RawContent)
	if len(sentences) == 0 {
		sentences = []string{article.Title}
	}

	keyPoints := sentences
	if len(keyPoints) > 5 {
		keyPoints = keyPoints[:5]
	}

	return &domain.Summary{
		ArticleID:     article.ID,
		ShortSummary:  joinSentences(sentences, 1),
		MediumSummary: joinSentences(sentences, 3),
		LongSummary:   joinSentences(sentences, 6),
		KeyPoints:     domain.JSONBStrings(keyPoints),
		ModelUsed:     heuristicModel,
	}, nil
}

// DictionaryEntityExtractor matches a fixed dictionary of well-known
// people, organizations, and model names against the article text.
type DictionaryEntityExtractor struct{}

var entityDictionary = map[string]string{
	"OpenAI":       domain.EntityTypeOrganization,
	"Google":       domain.EntityTypeOrganization,
	"DeepMind":     domain.EntityTypeOrganization,
	"Meta":         domain.EntityTypeOrganization,
	"Microsoft":    domain.EntityTypeOrganization,
	"Anthropic":    domain.EntityTypeOrganization,
	"Hugging Face": domain.EntityTypeOrganization,
	"NVIDIA":       domain.EntityTypeOrganization,
	"Stanford":     domain.EntityTypeOrganization,
	"Berkeley":     domain.EntityTypeOrganization,
	"MIT":          domain.EntityTypeOrganization,
	"GPT-4":        domain.EntityTypeModel,
	"GPT-5":        domain.EntityTypeModel,
	"Gemini":       domain.EntityTypeModel,
	"Llama":        domain.EntityTypeModel,
	"Claude":       domain.EntityTypeModel,
	"Stable Diffusion": domain.EntityTypeModel,
	"BERT":         domain.EntityTypeModel,
	"AlphaFold":    domain.EntityTypeModel,
}

// ExtractEntities implements EntityExtractor.
func (DictionaryEntityExtractor) ExtractEntities(
	_ context.Context,
	article *domain.Article,
) ([]domain.Entity, error) {
	text := article.Title + " " + article.RawContent

	var entities []domain.Entity
	for name, entityType := range entityDictionary {
		idx := strings.Index(text, name)
		if idx < 0 {
			continue
		}
		start, end := idx, idx+len(name)
		entities = append(entities, domain.Entity{
			ArticleID:     article.ID,
			EntityText:    name,
			EntityType:    entityType,
			PositionStart: &start,
			PositionEnd:   &end,
			ModelUsed:     heuristicModel,
		})
	}

	// Authors are PERSON mentions by construction.
	for _, author := range article.Authors {
		author := author
		entities = append(entities, domain.Entity{
			ArticleID:  article.ID,
			EntityText: author,
			EntityType: domain.EntityTypePerson,
			ModelUsed:  heuristicModel,
		})
	}

	return entities, nil
}

// KeywordCategorizer scores a fixed keyword list per category and picks
// the highest-scoring one. Articles matching nothing land in "general".
type KeywordCategorizer struct{}

var categoryKeywords = map[string][]string{
	"research":    {"paper", "arxiv", "study", "benchmark", "dataset", "state-of-the-art"},
	"industry":    {"launch", "product", "customers", "enterprise", "partnership", "funding"},
	"open_source": {"open source", "open-source", "github", "weights", "license", "community"},
	"policy":      {"regulation", "policy", "safety", "governance", "ethics", "law"},
	"education":   {"course", "tutorial", "students", "teaching", "curriculum"},
}

// Categorize implements Categorizer.
func (KeywordCategorizer) Categorize(
	_ context.Context,
	article *domain.Article,
) (string, error) {
	text := strings.ToLower(article.Title + " " + article.RawContent)

	best, bestScore := "general", 0
	for category, keywords := range categoryKeywords {
		score := 0
		for _, kw := range keywords {
			score += strings.Count(text, kw)
		}
		if score > bestScore || (score == bestScore && score > 0 && category < best) {
			best, bestScore = category, score
		}
	}
	return best, nil
}

// splitSentences breaks text on sentence terminators, dropping blanks.
func splitSentences(text string) []string {
	var sentences []string
	var b strings.Builder
	for _, r := range text {
		b.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			if s := strings.TrimSpace(b.String()); s != "" && len(s) > 1 {
				sentences = append(sentences, s)
			}
			b.Reset()
		}
	}
	if s := strings.TrimSpace(b.String()); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

func joinSentences(sentences []string, n int) string {
	if len(sentences) < n {
		n = len(sentences)
	}
	return strings.Join(sentences[:n], " ")
}
