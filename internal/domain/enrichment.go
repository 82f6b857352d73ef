package domain

// EnrichmentResult bundles the outputs of one successful enrichment pass
// over one article. The storage gateway persists it atomically with the
// processed flag: either everything lands or nothing does.
type EnrichmentResult struct {
	Summary        Summary
	Entities       []Entity
	Category       string
	CleanedContent string
	QualityScore   *float64
}
