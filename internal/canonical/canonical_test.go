package canonical

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/aiwatch/internal/domain"
	"github.com/jonesrussell/aiwatch/internal/sources"
)

func testSource() *sources.Config {
	return &sources.Config{
		Name:        "arxiv",
		BaseURL:     "https://arxiv.org",
		StartURLs:   []string{"https://arxiv.org/list/cs.AI/recent"},
		RateLimit:   1.0,
		MaxArticles: 5,
		Timeout:     10,
		Enabled:     true,
	}
}

func fixedCanonicalizer(at time.Time) *Canonicalizer {
	c := New()
	c.now = func() time.Time { return at }
	return c
}

func TestCanonicalize(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	c := fixedCanonicalizer(now)

	item := &domain.RawItem{
		Title:    "  A New Transformer  ",
		Link:     "/abs/2608.01234",
		DateText: "Aug 29, 2026",
		Authors:  []string{"Jane Doe", " ", "Kim Lee"},
		Keywords: []string{"cs.AI"},
		Body:     "First   sentence.\n\nSecond    sentence.",
	}

	article, err := c.Canonicalize(item, testSource(), "https://arxiv.org/list/cs.AI/recent")
	require.NoError(t, err)

	assert.Equal(t, "A New Transformer", article.Title)
	assert.Equal(t, "https://arxiv.org/abs/2608.01234", article.URL)
	assert.Equal(t, "arxiv", article.Source)
	assert.Equal(t, []string{"Jane Doe", "Kim Lee"}, []string(article.Authors))
	assert.Equal(t, "First sentence. Second sentence.", article.RawContent)
	assert.Equal(t, "en", article.Language)
	assert.Equal(t, now, article.ScrapedDate)
	require.NotNil(t, article.PublishedDate)
	assert.Equal(t, time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC), *article.PublishedDate)
	assert.Equal(t, 4, article.WordCount)
	assert.Equal(t, 1, article.ReadingTime)
	assert.Len(t, article.ContentHash, 64)
}

func TestCanonicalizeRequiredFields(t *testing.T) {
	c := New()
	src := testSource()

	_, err := c.Canonicalize(&domain.RawItem{Link: "/x"}, src, src.StartURLs[0])
	assert.ErrorIs(t, err, ErrMissingTitle)

	_, err = c.Canonicalize(&domain.RawItem{Title: "t"}, src, src.StartURLs[0])
	assert.ErrorIs(t, err, ErrMissingLink)
}

func TestCanonicalizeDescriptionFallback(t *testing.T) {
	c := New()
	src := testSource()

	item := &domain.RawItem{
		Title:       "No detail page",
		Link:        "https://example.com/item",
		Description: "listing   teaser text",
	}
	article, err := c.Canonicalize(item, src, src.StartURLs[0])
	require.NoError(t, err)
	assert.Equal(t, "listing teaser text", article.RawContent)
}

func TestFingerprintDeterministic(t *testing.T) {
	a := Fingerprint("https://example.com/p", "body text")
	b := Fingerprint("https://example.com/p", "body text")
	assert.Equal(t, a, b)

	c := Fingerprint("https://example.com/p", "different body")
	assert.NotEqual(t, a, c)

	// The separator keeps url/body boundaries unambiguous.
	d := Fingerprint("https://example.com/pbody", " text")
	assert.NotEqual(t, a, d)
}

func TestFingerprintIgnoresURLNoise(t *testing.T) {
	u1, err := NormalizeURL("https://Example.com/post/?utm_source=feed")
	require.NoError(t, err)
	u2, err := NormalizeURL("https://example.com/post")
	require.NoError(t, err)
	assert.Equal(t, Fingerprint(u1, "b"), Fingerprint(u2, "b"))
}

func TestReadingTimeRoundsUp(t *testing.T) {
	tests := []struct {
		words int
		want  int
	}{
		{0, 0},
		{1, 1},
		{200, 1},
		{201, 2},
		{1000, 5},
	}
	for _, tt := range tests {
		body := strings.TrimSpace(strings.Repeat("word ", tt.words))
		assert.Equal(t, tt.want, readingTime(countWords(body)), "words=%d", tt.words)
	}
}

func TestParseDateYearlessPinsCurrentYear(t *testing.T) {
	now := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		text string
		want time.Time
	}{
		{"bare month day", "Aug 7", time.Date(2026, 8, 7, 0, 0, 0, 0, time.UTC)},
		{"weekday prefixed", "Tue, 7 Oct", time.Date(2026, 10, 7, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed := parseDate(tt.text, now)
			require.NotNil(t, parsed)
			assert.Equal(t, tt.want, *parsed)
		})
	}
}

func TestParseDateUnknownFormatDegrades(t *testing.T) {
	assert.Nil(t, parseDate("sometime last week", time.Now()))
	assert.Nil(t, parseDate("", time.Now()))
}
