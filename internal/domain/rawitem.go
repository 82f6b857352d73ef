package domain

// RawItem is an unvalidated, source-shaped bag of fields decoded from one
// listing-page entry. It is produced by an extractor and consumed
// immediately by the canonicalizer; it is never persisted.
type RawItem struct {
	// Title as presented on the listing page.
	Title string
	// Link to the item, possibly relative to the listing page.
	Link string
	// DateText is the raw date string; sources disagree on formats, so
	// parsing is deferred to the canonicalizer.
	DateText string
	// Authors listed on the listing page, if any.
	Authors []string
	// Keywords or subject tags from the listing page, if any.
	Keywords []string
	// ImageURL of the item's cover image, possibly relative.
	ImageURL string
	// Description is summary text harvested from the listing page. It is
	// the fallback body when the detail fetch fails.
	Description string
	// Body is pre-fetched full text, when the listing page already
	// carries it. Usually filled later by a detail fetch.
	Body string
}
