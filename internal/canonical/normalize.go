// Package canonical maps raw extracted items into canonical articles.
// URLs are normalized before fingerprinting so that the same item expressed
// differently produces the same fingerprint for deduplication.
package canonical

import (
	"errors"
	"fmt"
	"net/url"
	"path"
	"sort"
	"strings"
)

// trackingParams lists query parameters stripped during normalization.
// These are advertising and analytics trackers that do not affect page
// content.
var trackingParams = map[string]struct{}{
	"utm_source":   {},
	"utm_medium":   {},
	"utm_campaign": {},
	"utm_term":     {},
	"utm_content":  {},
	"fbclid":       {},
	"gclid":        {},
	"gclsrc":       {},
	"dclid":        {},
	"msclkid":      {},
}

// defaultPorts maps schemes to their default port strings.
var defaultPorts = map[string]string{
	"http":  "80",
	"https": "443",
}

var (
	errEmptyInput          = errors.New("normalize url: empty input")
	errMissingSchemeOrHost = errors.New("normalize url: missing scheme or host")
)

// NormalizeURL applies deterministic transformations to a raw URL so that
// equivalent URLs produce identical strings: lowercased scheme and host,
// default ports removed, dot-segments resolved, trailing slashes removed,
// fragments dropped, query parameters sorted, and tracking parameters
// stripped.
func NormalizeURL(rawURL string) (string, error) {
	if rawURL == "" {
		return "", errEmptyInput
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("normalize url: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return "", errMissingSchemeOrHost
	}

	parsed.Scheme = strings.ToLower(parsed.Scheme)
	parsed.Host = normalizeHost(parsed)
	parsed.Fragment = ""
	parsed.RawQuery = buildCleanQuery(parsed.Query())
	parsed.Path = normalizePath(parsed.Path)

	return parsed.String(), nil
}

// ResolveURL resolves a possibly-relative reference against a base URL.
func ResolveURL(base, ref string) (string, error) {
	if ref == "" {
		return "", errEmptyInput
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("resolve url: invalid base: %w", err)
	}
	refURL, err := url.Parse(strings.TrimSpace(ref))
	if err != nil {
		return "", fmt.Errorf("resolve url: invalid reference: %w", err)
	}
	return baseURL.ResolveReference(refURL).String(), nil
}

// normalizeHost lowercases the host and strips the scheme's default port.
func normalizeHost(parsed *url.URL) string {
	host := strings.ToLower(parsed.Host)
	if defaultPort, ok := defaultPorts[strings.ToLower(parsed.Scheme)]; ok {
		host = strings.TrimSuffix(host, ":"+defaultPort)
	}
	return host
}

// buildCleanQuery sorts query parameters and removes tracking parameters.
func buildCleanQuery(values url.Values) string {
	if len(values) == 0 {
		return ""
	}

	keys := make([]string, 0, len(values))
	for key := range values {
		if _, tracked := trackingParams[strings.ToLower(key)]; tracked {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var builder strings.Builder
	for _, key := range keys {
		for _, value := range values[key] {
			if builder.Len() > 0 {
				builder.WriteByte('&')
			}
			builder.WriteString(url.QueryEscape(key))
			builder.WriteByte('=')
			builder.WriteString(url.QueryEscape(value))
		}
	}
	return builder.String()
}

// normalizePath resolves dot-segments and removes trailing slashes, keeping
// the root slash.
func normalizePath(p string) string {
	if p == "" {
		return ""
	}
	cleaned := path.Clean(p)
	if cleaned == "." || cleaned == "/" {
		return "/"
	}
	return cleaned
}
