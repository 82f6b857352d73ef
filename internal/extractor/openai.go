package extractor

import (
	"github.com/PuerkitoBio/goquery"

	"github.com/jonesrussell/aiwatch/internal/domain"
)

// OpenAIExtractor decodes the OpenAI research index. The index exposes
// title, category, and publication time per row; full text sits behind a
// JavaScript-only "Load more" flow, so the extractor carries no detail
// capability and articles keep their listing description as body.
type OpenAIExtractor struct{}

// ExtractList implements ListExtractor.
func (e *OpenAIExtractor) ExtractList(page []byte, _ string) ([]domain.RawItem, string, error) {
	doc, err := parseDocument(page)
	if err != nil {
		return nil, "", err
	}

	var items []domain.RawItem
	doc.Find("div.py-md.border-primary-12").Each(func(_ int, row *goquery.Selection) {
		title := text(row, "div.mb-2xs.text-h5")
		href := attr(row, "a", "href")
		if title == "" || href == "" {
			return
		}

		item := domain.RawItem{
			Title:    title,
			Link:     href,
			DateText: attr(row, "time", "datetime"),
		}
		if category := text(row, "div.text-meta div.me-2xs"); category != "" {
			item.Keywords = []string{category}
		}
		items = append(items, item)
	})

	// Further entries require JavaScript interaction.
	return items, "", nil
}
