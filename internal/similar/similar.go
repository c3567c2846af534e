// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package similar ranks documents by citation overlap with a seed
// document. Overlap is the cardinality of the intersection of the two
// documents' citation-title sets.
package similar

import (
	"github.com/pdiddy/relevance-engine/pkg/types"
)

// Overlap counts the citation titles the two documents share.
func Overlap(a, b types.IndexDocument) int {
	seen := a.CitationTitleSet()
	other := b.CitationTitleSet()

	// iterate the smaller set
	if len(other) < len(seen) {
		seen, other = other, seen
	}
	n := 0
	for title := range seen {
		if _, ok := other[title]; ok {
			n++
		}
	}
	return n
}

// Annotate fills each result's Overlap with its citation overlap
// against the seed document. seedID is the seed's doc index; a result
// carrying it is dropped, similarity to oneself is not a result.
func Annotate(seed types.IndexDocument, seedID string, results []types.ResultSummary, docs map[string]types.IndexDocument) []types.ResultSummary {
	out := results[:0]
	for _, r := range results {
		if r.DocID == seedID {
			continue
		}
		if doc, ok := docs[r.DocID]; ok {
			r.Overlap = Overlap(seed, doc)
		}
		out = append(out, r)
	}
	return out
}

// FilterZeroOverlap drops results that share no citations with the
// seed.
func FilterZeroOverlap(results []types.ResultSummary) []types.ResultSummary {
	out := results[:0]
	for _, r := range results {
		if r.Overlap > 0 {
			out = append(out, r)
		}
	}
	return out
}
