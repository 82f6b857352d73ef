package extractor

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonesrussell/aiwatch/internal/domain"
)

// GoogleBlogExtractor decodes the Google Research blog label listing.
// Cards sit in the posts grid; pagination is a next button carrying the
// target page number in a data attribute, appended to the listing URL as a
// query parameter.
type GoogleBlogExtractor struct {
	htmlDetail
}

// ExtractList implements ListExtractor.
func (e *GoogleBlogExtractor) ExtractList(page []byte, pageURL string) ([]domain.RawItem, string, error) {
	doc, err := parseDocument(page)
	if err != nil {
		return nil, "", err
	}

	var items []domain.RawItem
	doc.Find("ul.blog-posts-grid__cards li.glue-grid__col").Each(func(_ int, card *goquery.Selection) {
		title := text(card, "span.headline-5")
		href := attr(card, "a.glue-card", "href")
		if title == "" || href == "" {
			return
		}

		items = append(items, domain.RawItem{
			Title:    title,
			Link:     href,
			DateText: text(card, "p.glue-label"),
			Keywords: texts(card, "li.glue-card__link-list__item span.caption"),
			ImageURL: attr(card, "div.related-posts__image img", "src"),
		})
	})

	next := ""
	button := doc.Find("a.pagination__next-button:not(.pagination__next-button--disabled)").First()
	if pageNum, ok := button.Attr("data-page"); ok && pageNum != "" {
		base := pageURL
		if i := strings.Index(base, "?"); i >= 0 {
			base = base[:i]
		}
		next = base + "?page=" + strings.TrimSpace(pageNum)
	}

	return items, next, nil
}
