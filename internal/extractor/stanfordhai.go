package extractor

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonesrussell/aiwatch/internal/domain"
)

// StanfordHAIExtractor decodes the Stanford HAI publications index.
// Result items are CSS-module divs; images may only carry a srcset, in
// which case the first candidate is used. Pagination is the adjacent-page
// link.
type StanfordHAIExtractor struct {
	htmlDetail
}

// ExtractList implements ListExtractor.
func (e *StanfordHAIExtractor) ExtractList(page []byte, _ string) ([]domain.RawItem, string, error) {
	doc, err := parseDocument(page)
	if err != nil {
		return nil, "", err
	}

	var items []domain.RawItem
	doc.Find(`div[class^="FilteredSearchIndex_resultItem"]`).Each(func(_ int, card *goquery.Selection) {
		title := text(card, `a[class^="ContentItem_titleLink"]`)
		href := attr(card, `a[class^="ContentItem_titleLink"]`, "href")
		if title == "" || href == "" {
			return
		}

		image := attr(card, `div[class^="ContentItem_image"] img`, "src")
		if image == "" {
			if srcset := attr(card, `div[class^="ContentItem_image"] img`, "srcset"); srcset != "" {
				image = strings.Fields(srcset)[0]
			}
		}

		item := domain.RawItem{
			Title:    title,
			Link:     href,
			DateText: firstDateLike(texts(card, `div[class^="ContentMeta_data"] span`)),
			ImageURL: image,
		}
		if author := text(card, `div[class^="ContentMeta_peopleOrAttribution"] span a`); author != "" {
			item.Authors = []string{author}
		}
		items = append(items, item)
	})

	next := attr(doc.Selection, `a[class^="Pagination_pageAdjacentLink"]`, "href")
	return items, next, nil
}
