package extractor

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// nonContentSelectors are stripped before extracting detail-page text.
var nonContentSelectors = []string{
	"script", "style", "noscript", "iframe", "svg",
}

// htmlDetail provides the shared detail-decode capability: the whole page's
// visible text, whitespace-collapsed. Sources embed it to opt in.
type htmlDetail struct{}

// ExtractDetail returns the visible text of a fetched item page.
func (htmlDetail) ExtractDetail(page []byte) (string, error) {
	doc, err := parseDocument(page)
	if err != nil {
		return "", err
	}
	for _, selector := range nonContentSelectors {
		doc.Find(selector).Remove()
	}

	var builder strings.Builder
	doc.Find("body").Each(func(_ int, s *goquery.Selection) {
		builder.WriteString(s.Text())
		builder.WriteByte(' ')
	})
	textValue := builder.String()
	if textValue == "" {
		textValue = doc.Text()
	}
	return strings.Join(strings.Fields(textValue), " "), nil
}
