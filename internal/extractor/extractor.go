// Package extractor decodes source-specific listing markup into raw items.
// Each configured source has its own extractor implementation; all of them
// satisfy the same capability set (list decode, pagination-next decode,
// optional detail decode) so the crawl coordinator stays source-agnostic.
package extractor

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonesrussell/aiwatch/internal/domain"
)

// ErrUnknownSource indicates no extractor is registered for a source name.
var ErrUnknownSource = errors.New("no extractor registered for source")

// ListExtractor decodes one fetched listing page into raw items plus the
// locator of the next page. An empty next locator is the normal pagination
// termination signal, not an error. Items with undecodable required fields
// are skipped; they never abort the page.
type ListExtractor interface {
	// ExtractList decodes a listing page fetched from pageURL.
	ExtractList(page []byte, pageURL string) (items []domain.RawItem, next string, err error)
}

// DetailDecoder is the optional capability of decoding a fetched item page
// into body text. Extractors without it (sources whose full text is not
// reachable) leave the listing-page description as the article body.
type DetailDecoder interface {
	ExtractDetail(page []byte) (string, error)
}

// builders maps source names to extractor constructors. Keyed by the
// source names used in the sources registry.
var builders = map[string]func() ListExtractor{
	"arxiv":            func() ListExtractor { return &ArxivExtractor{} },
	"papers_with_code": func() ListExtractor { return &HFPapersExtractor{} },
	"google_blog":      func() ListExtractor { return &GoogleBlogExtractor{} },
	"huggingface":      func() ListExtractor { return &HuggingFaceExtractor{} },
	"mit_news":         func() ListExtractor { return &MITNewsExtractor{} },
	"berkeley_ai":      func() ListExtractor { return &BerkeleyExtractor{} },
	"meta_ai":          func() ListExtractor { return &MetaAIExtractor{} },
	"stanford_hai":     func() ListExtractor { return &StanfordHAIExtractor{} },
	"openai_blog":      func() ListExtractor { return &OpenAIExtractor{} },
}

// ForSource returns the extractor for the given source name.
func ForSource(name string) (ListExtractor, error) {
	builder, ok := builders[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSource, name)
	}
	return builder(), nil
}

// RegisteredSources returns the names of all registered extractors, sorted.
func RegisteredSources() []string {
	names := make([]string, 0, len(builders))
	for name := range builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// parseDocument parses raw page bytes into a goquery document.
func parseDocument(page []byte) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}
	return doc, nil
}

// text returns the trimmed text of the first element matching the selector,
// or empty when absent.
func text(s *goquery.Selection, selector string) string {
	return strings.TrimSpace(s.Find(selector).First().Text())
}

// attr returns the trimmed attribute of the first element matching the
// selector, or empty when absent.
func attr(s *goquery.Selection, selector, name string) string {
	value, _ := s.Find(selector).First().Attr(name)
	return strings.TrimSpace(value)
}

// texts returns the trimmed, non-empty texts of all elements matching the
// selector.
func texts(s *goquery.Selection, selector string) []string {
	var out []string
	s.Find(selector).Each(func(_ int, el *goquery.Selection) {
		if t := strings.TrimSpace(el.Text()); t != "" {
			out = append(out, t)
		}
	})
	return out
}

// anchorWithText returns the href of the first anchor matching the selector
// whose text contains needle. Used for "Next"/"Older" pagination buttons
// that carry no stable attribute.
func anchorWithText(doc *goquery.Document, selector, needle string) string {
	var href string
	doc.Find(selector).EachWithBreak(func(_ int, el *goquery.Selection) bool {
		if !strings.Contains(el.Text(), needle) {
			return true
		}
		href, _ = el.Attr("href")
		href = strings.TrimSpace(href)
		return false
	})
	return href
}

// monthNames is used to recognize date-bearing text fragments on listing
// pages that mark dates with no dedicated attribute.
var monthNames = []string{
	"Jan", "Feb", "Mar", "Apr", "May", "Jun",
	"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
}

// firstDateLike returns the first candidate containing a month name.
func firstDateLike(candidates []string) string {
	for _, candidate := range candidates {
		for _, month := range monthNames {
			if strings.Contains(candidate, month) {
				return strings.TrimSpace(candidate)
			}
		}
	}
	return ""
}
