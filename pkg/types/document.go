// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// BodySection is one named section of an indexed document. Text blocks
// that share a section heading are grouped under one entry.
type BodySection struct {
	Name string   `json:"name" yaml:"name"`
	Text []string `json:"text" yaml:"text"`
}

// CitationRef is one bibliography entry as pushed to the index. InCorpus
// is the doc index of the cited article when its title resolves to a
// corpus member, -1 otherwise.
type CitationRef struct {
	Title    string `json:"title" yaml:"title"`
	Year     int    `json:"year" yaml:"year"`
	InCorpus int    `json:"in_corpus" yaml:"in_corpus"`
	Authors  []Name `json:"authors" yaml:"authors"`
}

// AnchorRef is one sentence of anchor text: the doc index of the citing
// article and the sentence surrounding its citation mention.
type AnchorRef struct {
	ID   int    `json:"id" yaml:"id"`
	Text string `json:"text" yaml:"text"`
}

// IndexDocument is the composite per-article record handed to the
// external retrieval index: article content merged with the derived
// citation, importance, anchor-text and entity artifacts.
type IndexDocument struct {
	Title       string        `json:"title"`
	IDNum       string        `json:"id_num"`
	Abstract    string        `json:"abstract"`
	Body        []BodySection `json:"body"`
	BodyText    string        `json:"body_text"`
	Authors     []Name        `json:"authors"`
	PublishTime int           `json:"publish_time"`
	Journal     string        `json:"journal"`
	Citations   []CitationRef `json:"citations"`
	InEnglish   bool          `json:"in_english"`

	// PR is the link-analysis importance score of the article's
	// normalized title; 0 for titles absent from the citation graph.
	PR float64 `json:"pr"`

	// AnchorText is the concatenation of all CitedBy sentences, indexed
	// as an additional relevance field.
	AnchorText string `json:"anchor_text"`

	// CitedBy lists the sentences elsewhere in the corpus that cite
	// this article.
	CitedBy []AnchorRef `json:"cited_by"`

	// Ents is the whitespace-separated string of cleaned,
	// frequency-filtered entity tokens (internal spaces become "_").
	Ents string `json:"ents"`
}

// CitationTitleSet returns the set of normalized citation titles of the
// document, used for overlap counting.
func (d *IndexDocument) CitationTitleSet() map[string]struct{} {
	set := make(map[string]struct{}, len(d.Citations))
	for _, c := range d.Citations {
		if t := NormalizeTitle(c.Title); t != "" {
			set[t] = struct{}{}
		}
	}
	return set
}
