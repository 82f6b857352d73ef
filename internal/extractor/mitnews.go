package extractor

import (
	"github.com/PuerkitoBio/goquery"

	"github.com/jonesrussell/aiwatch/internal/domain"
)

// MITNewsExtractor decodes MIT News topic listings. Items are article
// elements with the title inside an itemprop span; cover images lazy-load,
// so the data-src attribute is the fallback for src. The rel=next anchor
// drives pagination.
type MITNewsExtractor struct {
	htmlDetail
}

// ExtractList implements ListExtractor.
func (e *MITNewsExtractor) ExtractList(page []byte, _ string) ([]domain.RawItem, string, error) {
	doc, err := parseDocument(page)
	if err != nil {
		return nil, "", err
	}

	var items []domain.RawItem
	doc.Find("article.term-page--news-article--item").Each(func(_ int, card *goquery.Selection) {
		title := text(card, `h3.term-page--news-article--item--title a span[itemprop="name headline"]`)
		href := attr(card, "h3.term-page--news-article--item--title a", "href")
		if title == "" || href == "" {
			return
		}

		image := attr(card, "div.term-page--news-article--item--cover-image img", "src")
		if image == "" {
			image = attr(card, "div.term-page--news-article--item--cover-image img", "data-src")
		}

		items = append(items, domain.RawItem{
			Title:       title,
			Link:        href,
			DateText:    text(card, "p.term-page--news-article--item--publication-date time"),
			Description: text(card, "p.term-page--news-article--item--dek span"),
			ImageURL:    image,
		})
	})

	next := attr(doc.Selection, `a[rel="next"]`, "href")
	return items, next, nil
}
