package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/aiwatch/internal/domain"
)

func TestForSource(t *testing.T) {
	for _, name := range RegisteredSources() {
		extractor, err := ForSource(name)
		require.NoError(t, err, name)
		assert.NotNil(t, extractor, name)
	}

	_, err := ForSource("not_a_source")
	assert.ErrorIs(t, err, ErrUnknownSource)
}

func TestDetailCapability(t *testing.T) {
	// OpenAI's full text sits behind JavaScript, so its extractor carries
	// no detail capability; the others decode detail pages.
	withDetail, err := ForSource("arxiv")
	require.NoError(t, err)
	_, ok := withDetail.(DetailDecoder)
	assert.True(t, ok)

	withoutDetail, err := ForSource("openai_blog")
	require.NoError(t, err)
	_, ok = withoutDetail.(DetailDecoder)
	assert.False(t, ok)
}

const arxivListingFixture = `<html><body>
<h3>Tue, 7 Oct 2025 (showing first 50 of 431 entries)</h3>
<dl id="articles">
  <dt>
    <a href="/abs/2510.01234" title="Abstract">arXiv:2510.01234</a>
  </dt>
  <dd>
    <div class="list-title">Title: Scaling Laws Revisited</div>
    <div class="list-authors">
      <a href="/a/doe_j_1">Jane Doe</a>, <a href="/a/lee_k_1">Kim Lee</a>
    </div>
    <div class="list-subjects">
      <span class="descriptor">Subjects:</span>
      <span>Artificial Intelligence (cs.AI)</span>
    </div>
  </dd>
  <dt>
    <a href="/abs/2510.05678" title="Abstract">arXiv:2510.05678</a>
  </dt>
  <dd>
    <div class="list-title">Title: Efficient Inference</div>
    <div class="list-authors"><a href="/a/roe_r_1">Ray Roe</a></div>
    <div class="list-subjects">
      <span class="descriptor">Subjects:</span>
      <span>Machine Learning (cs.LG)</span>
    </div>
  </dd>
</dl>
</body></html>`

func TestArxivExtractList(t *testing.T) {
	e := &ArxivExtractor{}
	items, next, err := e.ExtractList([]byte(arxivListingFixture), "https://arxiv.org/list/cs.AI/recent")
	require.NoError(t, err)
	assert.Empty(t, next, "the recent view never paginates")
	require.Len(t, items, 2)

	first := items[0]
	assert.Equal(t, "Scaling Laws Revisited", first.Title)
	assert.Equal(t, "https://arxiv.org/html/2510.01234v1", first.Link)
	assert.Equal(t, "Tue, 7 Oct 2025", first.DateText)
	assert.Equal(t, []string{"Jane Doe", "Kim Lee"}, first.Authors)
	assert.Equal(t, []string{"Artificial Intelligence (cs.AI)"}, first.Keywords)

	assert.Equal(t, "Efficient Inference", items[1].Title)
	assert.Equal(t, "https://arxiv.org/html/2510.05678v1", items[1].Link)
}

const huggingfaceListingFixture = `<html><body>
<div class="grid">
  <a class="flex" href="/blog/new-release">
    <img src="/blog/assets/thumb.png"/>
    <h2>Announcing a New Release</h2>
    <span class="truncate">Aug 28, 2026</span>
  </a>
  <a class="flex" href="/blog/second-post">
    <h2>Second Post</h2>
    <span class="truncate">Aug 27, 2026</span>
  </a>
</div>
<a href="/blog?p=1">Next</a>
</body></html>`

func TestHuggingFaceExtractList(t *testing.T) {
	e := &HuggingFaceExtractor{}
	items, next, err := e.ExtractList([]byte(huggingfaceListingFixture), "https://huggingface.co/blog")
	require.NoError(t, err)
	assert.Equal(t, "/blog?p=1", next)
	require.Len(t, items, 2)

	first := items[0]
	assert.Equal(t, "Announcing a New Release", first.Title)
	assert.Equal(t, "/blog/new-release", first.Link)
	assert.Equal(t, "Aug 28, 2026", first.DateText)
	assert.Equal(t, "/blog/assets/thumb.png", first.ImageURL)
}

const openaiListingFixture = `<html><body>
<div class="py-md border-primary-12">
  <div class="mb-2xs text-h5">New Research Milestone</div>
  <div class="text-meta"><div class="me-2xs">Publication</div></div>
  <a href="/research/new-milestone">Read</a>
  <time datetime="2026-08-25T00:00:00Z">Aug 25, 2026</time>
</div>
<div class="py-md border-primary-12">
  <div class="text-meta"><div class="me-2xs">Release</div></div>
  <a href="/research/untitled">Read</a>
</div>
</body></html>`

func TestOpenAIExtractList(t *testing.T) {
	e := &OpenAIExtractor{}
	items, next, err := e.ExtractList([]byte(openaiListingFixture), "https://openai.com/research/index/")
	require.NoError(t, err)
	assert.Empty(t, next, "load-more pagination requires JavaScript")
	require.Len(t, items, 1, "rows without a title are skipped")

	item := items[0]
	assert.Equal(t, "New Research Milestone", item.Title)
	assert.Equal(t, "/research/new-milestone", item.Link)
	assert.Equal(t, "2026-08-25T00:00:00Z", item.DateText)
	assert.Equal(t, []string{"Publication"}, item.Keywords)
	assert.Empty(t, item.Body, "no detail capability, body stays empty")
}

const detailFixture = `<html><head>
<script>var tracking = true;</script>
<style>body { color: red; }</style>
</head><body>
<nav>Home</nav>
<article>
  <h1>Heading</h1>
  <p>First    paragraph
  spanning lines.</p>
  <p>Second paragraph.</p>
</article>
</body></html>`

func TestHTMLDetailExtract(t *testing.T) {
	e := &ArxivExtractor{}
	body, err := e.ExtractDetail([]byte(detailFixture))
	require.NoError(t, err)

	assert.Contains(t, body, "First paragraph spanning lines.")
	assert.Contains(t, body, "Second paragraph.")
	assert.NotContains(t, body, "tracking", "script content must be stripped")
	assert.NotContains(t, body, "color: red", "style content must be stripped")
}

func TestExtractListSkipsIncompleteItems(t *testing.T) {
	// A card with no link and a card with no title both disappear without
	// aborting the page.
	page := []byte(`<html><body><div class="grid">
		<a class="flex"><h2>No Link</h2></a>
		<a class="flex" href="/blog/ok"><h2>Fine</h2></a>
	</div></body></html>`)

	e := &HuggingFaceExtractor{}
	items, _, err := e.ExtractList(page, "https://huggingface.co/blog")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, domain.RawItem{Title: "Fine", Link: "/blog/ok"}, items[0])
}
