package extractor

import (
	"path"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonesrussell/aiwatch/internal/domain"
)

// ArxivExtractor decodes the arxiv.org recent-listings page. Entries are
// dt/dd pairs under dl#articles: the dt carries the abstract link (and so
// the paper id), the dd carries title, authors, and subjects. The listing
// date sits in the page-level h3 header. The recent view is a single page,
// so no next locator is ever produced.
type ArxivExtractor struct {
	htmlDetail
}

// ExtractList implements ListExtractor.
func (e *ArxivExtractor) ExtractList(page []byte, _ string) ([]domain.RawItem, string, error) {
	doc, err := parseDocument(page)
	if err != nil {
		return nil, "", err
	}

	// "Tue, 7 Oct 2025 (showing first 50 of ...)" — keep the date part.
	dateText := strings.TrimSpace(doc.Find("h3").First().Text())
	if i := strings.Index(dateText, "("); i >= 0 {
		dateText = strings.TrimSpace(dateText[:i])
	}

	var items []domain.RawItem
	doc.Find("dl#articles > dt").Each(func(_ int, dt *goquery.Selection) {
		dd := dt.NextFiltered("dd")
		if dd.Length() == 0 {
			return
		}

		title := text(dd, "div.list-title")
		title = strings.TrimSpace(strings.TrimPrefix(title, "Title:"))

		href := attr(dt, `a[href*="/abs/"]`, "href")
		if title == "" || href == "" {
			return
		}

		// The HTML rendering carries the full text the detail fetch reads.
		paperID := path.Base(href)
		items = append(items, domain.RawItem{
			Title:    title,
			Link:     "https://arxiv.org/html/" + paperID + "v1",
			DateText: dateText,
			Authors:  texts(dd, "div.list-authors a"),
			Keywords: texts(dd, "div.list-subjects span:not(.descriptor)"),
		})
	})

	return items, "", nil
}
