// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "strings"

// UntitledSentinel replaces a missing or empty article title. The
// normalized form of an empty title is never a graph node or map key.
const UntitledSentinel = "(Untitled)"

// Name is an author name with separate first and last fields, matching
// the nested authors mapping in the retrieval index.
type Name struct {
	First string `json:"first" yaml:"first"`
	Last  string `json:"last" yaml:"last"`
}

// CiteSpan marks a citation mention inside a section's text: the local
// bibliography reference id and the [Start, End) byte offsets of the
// mention within that text block.
type CiteSpan struct {
	RefID string `json:"ref_id" yaml:"ref_id"`
	Start int    `json:"start" yaml:"start"`
	End   int    `json:"end" yaml:"end"`
}

// Section is one body text block with its section heading and any
// citation spans pointing into Text.
type Section struct {
	Name      string     `json:"section" yaml:"section"`
	Text      string     `json:"text" yaml:"text"`
	CiteSpans []CiteSpan `json:"cite_spans" yaml:"cite_spans"`
}

// BibEntry is one bibliography entry of an article. Entries carry the
// cited work's title, not its corpus identifier; titles are the join
// key for graph construction.
type BibEntry struct {
	Title   string `json:"title" yaml:"title"`
	Year    int    `json:"year" yaml:"year"`
	Authors []Name `json:"authors" yaml:"authors"`
}

// Paragraph is one abstract fragment.
type Paragraph struct {
	Text string `json:"text" yaml:"text"`
}

// Article is one raw per-article corpus record, read-only input for an
// indexing run.
type Article struct {
	// ID is the stable article identifier (a content hash in the
	// upstream dataset), unique across the corpus.
	ID string `json:"paper_id" yaml:"paper_id"`

	Metadata ArticleMetadata `json:"metadata" yaml:"metadata"`

	// Abstract holds the abstract paragraph fragments in order.
	Abstract []Paragraph `json:"abstract" yaml:"abstract"`

	// BodyText holds the ordered body sections.
	BodyText []Section `json:"body_text" yaml:"body_text"`

	// BibEntries maps local reference ids (such as "BIBREF0") to
	// bibliography entries.
	BibEntries map[string]BibEntry `json:"bib_entries" yaml:"bib_entries"`
}

// ArticleMetadata is the metadata block of a raw article record.
type ArticleMetadata struct {
	Title   string `json:"title" yaml:"title"`
	Authors []Name `json:"authors" yaml:"authors"`
}

// Title returns the article title, or UntitledSentinel when empty.
func (a *Article) Title() string {
	if strings.TrimSpace(a.Metadata.Title) == "" {
		return UntitledSentinel
	}
	return a.Metadata.Title
}

// NormalizedTitle returns the lower-cased, space-trimmed title used as
// the graph node and join key. It is empty for untitled articles.
func (a *Article) NormalizedTitle() string {
	return NormalizeTitle(a.Metadata.Title)
}

// NormalizeTitle lower-cases and trims a title for use as a graph node
// or map key. A blank result means the title must not be used as a key.
func NormalizeTitle(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}

// AbstractText joins the abstract paragraph fragments with single
// spaces. A missing abstract yields the empty string.
func (a *Article) AbstractText() string {
	parts := make([]string, 0, len(a.Abstract))
	for _, p := range a.Abstract {
		if p.Text != "" {
			parts = append(parts, p.Text)
		}
	}
	return strings.Join(parts, " ")
}

// FullBodyText joins all body section texts with single spaces.
func (a *Article) FullBodyText() string {
	parts := make([]string, 0, len(a.BodyText))
	for _, s := range a.BodyText {
		if s.Text != "" {
			parts = append(parts, s.Text)
		}
	}
	return strings.Join(parts, " ")
}
