package canonical

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jonesrussell/aiwatch/internal/domain"
	"github.com/jonesrussell/aiwatch/internal/sources"
)

// readingSpeedWPM is the words-per-minute constant used for the reading
// time estimate. The estimate rounds up.
const readingSpeedWPM = 200

// defaultLanguage is assigned to every article; all configured sources
// publish in English.
const defaultLanguage = "en"

// ErrMissingTitle indicates the raw item had no usable title.
var ErrMissingTitle = errors.New("raw item has no title")

// ErrMissingLink indicates the raw item had no usable link.
var ErrMissingLink = errors.New("raw item has no link")

// dateLayouts are tried in order when parsing listing-page date text.
// Sources disagree on formats, so unparseable dates degrade to nil.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"Mon, 2 Jan 2006",
	"Mon, 2 Jan",
	"Jan 2",
}

// Canonicalizer maps raw items into canonical articles.
type Canonicalizer struct {
	now func() time.Time
}

// New creates a canonicalizer.
func New() *Canonicalizer {
	return &Canonicalizer{now: time.Now}
}

// Canonicalize builds the canonical article for a raw item decoded from
// pageURL for the given source. Relative links are resolved against the
// page URL, body whitespace is collapsed, and the content fingerprint is
// computed over the normalized URL and normalized body.
func (c *Canonicalizer) Canonicalize(
	item *domain.RawItem,
	source *sources.Config,
	pageURL string,
) (*domain.Article, error) {
	title := strings.TrimSpace(item.Title)
	if title == "" {
		return nil, ErrMissingTitle
	}
	if strings.TrimSpace(item.Link) == "" {
		return nil, ErrMissingLink
	}

	resolved, err := ResolveURL(pageURL, item.Link)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve item link: %w", err)
	}
	normalizedURL, err := NormalizeURL(resolved)
	if err != nil {
		return nil, fmt.Errorf("failed to normalize item link: %w", err)
	}

	body := NormalizeWhitespace(item.Body)
	if body == "" {
		// Detail fetch failed or the source carries no full text; the
		// listing-page description is the fallback body.
		body = NormalizeWhitespace(item.Description)
	}

	words := countWords(body)
	article := &domain.Article{
		Title:       title,
		URL:         normalizedURL,
		Source:      source.Name,
		Authors:     cleanStrings(item.Authors),
		ScrapedDate: c.now().UTC(),
		RawContent:  body,
		ContentHash: Fingerprint(normalizedURL, body),
		Language:    defaultLanguage,
		Tags:        cleanStrings(item.Keywords),
		WordCount:   words,
		ReadingTime: readingTime(words),
	}

	if published := parseDate(item.DateText, c.now()); published != nil {
		article.PublishedDate = published
	}
	if img := strings.TrimSpace(item.ImageURL); img != "" {
		if resolvedImg, imgErr := ResolveURL(pageURL, img); imgErr == nil {
			article.ImageURL = &resolvedImg
		}
	}

	return article, nil
}

// Fingerprint returns the deterministic content fingerprint: the SHA-256
// hex digest over the normalized URL and normalized body.
func Fingerprint(normalizedURL, normalizedBody string) string {
	h := sha256.New()
	h.Write([]byte(normalizedURL))
	h.Write([]byte{'\n'})
	h.Write([]byte(normalizedBody))
	return hex.EncodeToString(h.Sum(nil))
}

// NormalizeWhitespace collapses runs of whitespace into single spaces and
// trims the result.
func NormalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// countWords counts whitespace-separated words.
func countWords(s string) int {
	return len(strings.Fields(s))
}

// readingTime estimates reading time in minutes, rounded up.
func readingTime(words int) int {
	if words == 0 {
		return 0
	}
	return (words + readingSpeedWPM - 1) / readingSpeedWPM
}

// parseDate tries the known listing-page date layouts. Layouts without a
// year (arxiv's "Tue, 7 Oct" style headers) are pinned to the current year.
func parseDate(text string, now time.Time) *time.Time {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	// Some sources prefix dates ("Published on Jan 2, 2006").
	text = strings.TrimPrefix(text, "Published on ")

	for _, layout := range dateLayouts {
		parsed, err := time.Parse(layout, text)
		if err != nil {
			continue
		}
		if parsed.Year() == 0 {
			parsed = parsed.AddDate(now.Year(), 0, 0)
		}
		parsed = parsed.UTC()
		return &parsed
	}
	return nil
}

// cleanStrings trims entries and drops empty ones.
func cleanStrings(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, 0, len(in))
	for _, s := range in {
		if trimmed := strings.TrimSpace(s); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
