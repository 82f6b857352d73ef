package canonical

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			"lowercases scheme and host",
			"HTTPS://ArXiv.ORG/abs/2401.00001",
			"https://arxiv.org/abs/2401.00001",
		},
		{
			"strips default port",
			"https://example.com:443/path",
			"https://example.com/path",
		},
		{
			"keeps non-default port",
			"https://example.com:8443/path",
			"https://example.com:8443/path",
		},
		{
			"drops fragment",
			"https://example.com/post#section-2",
			"https://example.com/post",
		},
		{
			"drops trailing slash",
			"https://example.com/blog/post/",
			"https://example.com/blog/post",
		},
		{
			"keeps root slash",
			"https://example.com/",
			"https://example.com/",
		},
		{
			"sorts query parameters",
			"https://example.com/p?b=2&a=1",
			"https://example.com/p?a=1&b=2",
		},
		{
			"strips tracking parameters",
			"https://example.com/p?utm_source=x&id=7&utm_campaign=y",
			"https://example.com/p?id=7",
		},
		{
			"resolves dot segments",
			"https://example.com/a/b/../c",
			"https://example.com/a/c",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeURL(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeURLDeterministic(t *testing.T) {
	// Same address spelled differently must normalize identically; the
	// fingerprint and the url uniqueness constraint both depend on it.
	a, err := NormalizeURL("https://Example.COM:443/blog/post/?b=2&a=1&utm_medium=rss")
	require.NoError(t, err)
	b, err := NormalizeURL("https://example.com/blog/post?a=1&b=2")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestResolveURL(t *testing.T) {
	got, err := ResolveURL("https://news.mit.edu/topic/ai", "/2026/some-article")
	require.NoError(t, err)
	assert.Equal(t, "https://news.mit.edu/2026/some-article", got)

	got, err = ResolveURL("https://example.com/list", "https://other.org/item")
	require.NoError(t, err)
	assert.Equal(t, "https://other.org/item", got)
}
