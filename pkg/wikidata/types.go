package wikidata

// SearchResult is a single normalized hit from the entity search endpoint.
type SearchResult struct {
	ID           string `json:"id"`
	Label        string `json:"label"`
	Description  string `json:"description,omitempty"`
	CanonicalURL string `json:"canonicalUrl"`
	// ArticleURL is derived from the label (spaces to underscores). This is
	// a heuristic, not a verified mapping: it can point to a missing or
	// wrong article when the label and the canonical title diverge.
	ArticleURL string `json:"derivedArticleUrl,omitempty"`
}

// EntityDetail is the flattened view of a full entity.
type EntityDetail struct {
	ID          string `json:"id"`
	Label       string `json:"label,omitempty"`
	Description string `json:"description,omitempty"`
	// Aliases are resolved for the requested language only, no fallback.
	Aliases []string `json:"aliases"`
	// Claims maps semantic property names to flattened scalar values.
	// Keys come from the fixed allow-list; an entity with no allow-listed
	// statements carries an empty map, never a missing field.
	Claims        map[string][]string `json:"claims"`
	SitelinkCount int                 `json:"sitelinkCount"`
	CanonicalURL  string              `json:"canonicalUrl"`
}

// RelatedEntity is a labeled entity discovered in another entity's claims.
type RelatedEntity struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
}
