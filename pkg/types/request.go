// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// RequestKind selects one of the serving-time query modes.
type RequestKind string

const (
	// KindStandard is a free-text / author / date / language search.
	KindStandard RequestKind = "standard"

	// KindCiteSimilar is "more like this" by shared citations against a
	// reference document.
	KindCiteSimilar RequestKind = "cite_similar"

	// KindEntitySimilar is "more like this" by shared named entities.
	KindEntitySimilar RequestKind = "entity_similar"

	// KindEntityMatch looks up documents containing one cleaned entity
	// token.
	KindEntityMatch RequestKind = "entity_match"
)

// Operator selects how free-text terms combine across fields.
type Operator string

const (
	OpConjunctive Operator = "and"
	OpDisjunctive Operator = "or"
)

// PageSize is the fixed results-per-page window.
const PageSize = 10

// SearchRequest describes one serving-time query. It is a plain
// serializable value passed between the composer and the serving
// boundary; re-pagination re-submits the same request with a new Page.
type SearchRequest struct {
	Kind RequestKind `json:"kind" yaml:"kind"`

	// FreeText is matched across title, abstract, body text and anchor
	// text.
	FreeText string `json:"free_text,omitempty" yaml:"free_text,omitempty"`

	// Authors is the raw author-query string: author tokens separated
	// by ";", names within a token separated by whitespace.
	Authors string `json:"authors,omitempty" yaml:"authors,omitempty"`

	// YearFrom and YearTo bound the publish year inclusively; zero
	// means unbounded on that side.
	YearFrom int `json:"year_from,omitempty" yaml:"year_from,omitempty"`
	YearTo   int `json:"year_to,omitempty" yaml:"year_to,omitempty"`

	// EnglishOnly restricts results to documents flagged as English.
	EnglishOnly bool `json:"english_only,omitempty" yaml:"english_only,omitempty"`

	// Operator selects conjunctive or disjunctive free-text matching.
	// Empty defaults to disjunctive.
	Operator Operator `json:"operator,omitempty" yaml:"operator,omitempty"`

	// RefDocID is the reference document id for the similarity kinds.
	RefDocID string `json:"ref_doc_id,omitempty" yaml:"ref_doc_id,omitempty"`

	// Entity is the cleaned entity token for KindEntityMatch.
	Entity string `json:"entity,omitempty" yaml:"entity,omitempty"`

	// Page is the 1-based result page. Values below 1 are treated as 1.
	Page int `json:"page,omitempty" yaml:"page,omitempty"`
}

// Window returns the result offset and length for the request's page.
// Page p maps to offset (p-1)*PageSize regardless of total hit count.
func (r SearchRequest) Window() (from, size int) {
	page := r.Page
	if page < 1 {
		page = 1
	}
	return (page - 1) * PageSize, PageSize
}

// IsEmpty reports whether a standard request carries no free-text and
// no author terms, in which case every document matches and results are
// ordered by importance score.
func (r SearchRequest) IsEmpty() bool {
	return r.FreeText == "" && r.Authors == ""
}

// ResultSummary is one entry of a serving-time response. Title carries
// server-side highlight markup when the index returned any; Excerpt is
// the highlighted abstract fragment and Body a bounded excerpt of the
// document's body text.
type ResultSummary struct {
	DocID     string   `json:"doc_id"`
	Score     float64  `json:"score"`
	Title     string   `json:"title"`
	Abstract  string   `json:"abstract"`
	Excerpt   string   `json:"excerpt,omitempty"`
	Body      string   `json:"body,omitempty"`
	Citations []string `json:"citations,omitempty"`

	// Entities lists the document's entity tokens, each at most once,
	// in first appearance order.
	Entities []string `json:"entities,omitempty"`

	// Overlap is the citation-overlap count against the reference
	// document for KindCiteSimilar results. It stays 0 for the entity
	// similarity kinds, which keep no overlap bookkeeping.
	Overlap int `json:"overlap,omitempty"`
}

// SearchResponse is the ordered serving-time result list.
type SearchResponse struct {
	Total   int64           `json:"total"`
	Results []ResultSummary `json:"results"`

	// Message distinguishes empty result sets (no matches, index
	// timeout) without raising a fault to the caller.
	Message string `json:"message,omitempty"`
}
