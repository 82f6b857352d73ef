package extractor

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonesrussell/aiwatch/internal/domain"
)

// HFPapersExtractor decodes the Hugging Face trending-papers index, the
// successor of the Papers with Code listing. Papers are article cards with
// the title anchor inside the h3.
type HFPapersExtractor struct {
	htmlDetail
}

// ExtractList implements ListExtractor.
func (e *HFPapersExtractor) ExtractList(page []byte, _ string) ([]domain.RawItem, string, error) {
	doc, err := parseDocument(page)
	if err != nil {
		return nil, "", err
	}

	var items []domain.RawItem
	doc.Find("article").Each(func(_ int, card *goquery.Selection) {
		title := text(card, "h3 a")
		href := attr(card, "h3 a", "href")
		if title == "" || href == "" {
			return
		}

		item := domain.RawItem{
			Title:    title,
			Link:     href,
			DateText: strings.TrimPrefix(firstDateLike(texts(card, "span")), "Published on "),
			ImageURL: attr(card, "img", "src"),
		}
		if author := text(card, "span.truncate"); author != "" {
			item.Authors = []string{author}
		}
		items = append(items, item)
	})

	next := anchorWithText(doc, "a", "Next")
	return items, next, nil
}
