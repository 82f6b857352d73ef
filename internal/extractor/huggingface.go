package extractor

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonesrussell/aiwatch/internal/domain"
)

// HuggingFaceExtractor decodes the Hugging Face blog index. Cards are
// anchors inside the post grid; the card itself is the item link.
// Pagination uses a "Next" button with no stable attribute, so it is
// matched by its text.
type HuggingFaceExtractor struct {
	htmlDetail
}

// ExtractList implements ListExtractor.
func (e *HuggingFaceExtractor) ExtractList(page []byte, _ string) ([]domain.RawItem, string, error) {
	doc, err := parseDocument(page)
	if err != nil {
		return nil, "", err
	}

	var items []domain.RawItem
	doc.Find("div.grid a.flex").Each(func(_ int, card *goquery.Selection) {
		title := text(card, "h2")
		href, _ := card.Attr("href")
		href = strings.TrimSpace(href)
		if title == "" || href == "" {
			return
		}

		// Author links are nested anchors in the served markup; the HTML5
		// parser hoists them out of the card, so they are not reachable
		// from here.
		items = append(items, domain.RawItem{
			Title:    title,
			Link:     href,
			DateText: text(card, "span.truncate"),
			ImageURL: attr(card, "img", "src"),
		})
	})

	next := anchorWithText(doc, "a", "Next")
	return items, next, nil
}
