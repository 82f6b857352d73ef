package extractor

import (
	"github.com/PuerkitoBio/goquery"

	"github.com/jonesrussell/aiwatch/internal/domain"
)

// BerkeleyExtractor decodes the BAIR blog index. Posts carry title and
// link in the post-title anchor; the post-meta span mixes authors (as
// anchors) with the date (trailing text). Pagination is the "Older"
// button.
type BerkeleyExtractor struct {
	htmlDetail
}

// ExtractList implements ListExtractor.
func (e *BerkeleyExtractor) ExtractList(page []byte, _ string) ([]domain.RawItem, string, error) {
	doc, err := parseDocument(page)
	if err != nil {
		return nil, "", err
	}

	var items []domain.RawItem
	doc.Find("div.posts div.post").Each(func(_ int, post *goquery.Selection) {
		title := text(post, "h1.post-title a.post-link")
		href := attr(post, "h1.post-title a.post-link", "href")
		if title == "" || href == "" {
			return
		}

		meta := post.Find("span.post-meta").First()
		authors := texts(meta, "a")

		// The date is the text left in post-meta once author anchors are
		// removed.
		metaClone := meta.Clone()
		metaClone.Find("a").Remove()
		date := firstDateLike([]string{metaClone.Text()})

		items = append(items, domain.RawItem{
			Title:    title,
			Link:     href,
			DateText: date,
			Authors:  authors,
			ImageURL: attr(post, "img", "src"),
		})
	})

	next := anchorWithText(doc, "a.pagination-item", "Older")
	return items, next, nil
}
