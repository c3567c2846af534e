// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package anchortext recovers the sentence surrounding each citation
// mention and accumulates it under the cited article's normalized
// title, producing the inbound-reference ("cited by") index.
package anchortext

import (
	"runtime"
	"sort"
	"sync"

	"github.com/pdiddy/relevance-engine/internal/citegraph"
	"github.com/pdiddy/relevance-engine/pkg/types"
)

// Index maps normalized cited titles to the anchor sentences citing
// them. Each entry carries the citing article's doc index.
type Index map[string][]types.AnchorRef

// Extract scans every article's body sections for citation spans and
// builds the anchor-text index. Only spans whose reference resolves to
// a non-blank title present in the corpus membership index are
// recorded. Articles are processed in parallel with per-worker partial
// maps merged at fan-in; the merge preserves doc-index order.
func Extract(articles []*types.Article, index citegraph.TitleIndex) Index {
	workers := runtime.GOMAXPROCS(0)
	if workers > len(articles) {
		workers = len(articles)
	}
	if workers < 1 {
		workers = 1
	}

	// Partition-then-merge: each worker owns a slice partition and its
	// own map, so no shared map is mutated concurrently.
	partials := make([]Index, workers)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			part := make(Index)
			for i := w; i < len(articles); i += workers {
				extractArticle(part, articles[i], i, index)
			}
			partials[w] = part
		}(w)
	}
	wg.Wait()

	merged := make(Index)
	for _, part := range partials {
		for title, refs := range part {
			merged[title] = append(merged[title], refs...)
		}
	}
	// Restore ascending citing-doc order after the strided partitions
	// are merged.
	for title := range merged {
		refs := merged[title]
		sort.Slice(refs, func(i, j int) bool { return refs[i].ID < refs[j].ID })
	}
	return merged
}

// extractArticle records the anchor sentences of one citing article.
func extractArticle(out Index, article *types.Article, docIndex int, index citegraph.TitleIndex) {
	for _, section := range article.BodyText {
		if len(section.CiteSpans) == 0 {
			continue
		}
		for _, span := range section.CiteSpans {
			bib, ok := article.BibEntries[span.RefID]
			if !ok {
				continue
			}
			cited := types.NormalizeTitle(bib.Title)
			if cited == "" || !index.Contains(cited) {
				continue
			}
			sentence := ExpandSpan(section.Text, span.Start, span.End)
			if sentence == "" {
				continue
			}
			out[cited] = append(out[cited], types.AnchorRef{ID: docIndex, Text: sentence})
		}
	}
}

// ExpandSpan widens [start, end) outward to the nearest '.' on each
// side without exceeding the text bounds and returns the enclosed
// substring. Out-of-range spans yield the empty string.
func ExpandSpan(text string, start, end int) string {
	if start < 0 || end > len(text) || start >= end {
		return ""
	}
	for start > 0 && text[start] != '.' {
		start--
	}
	for end < len(text) && text[end] != '.' {
		end++
	}
	return text[start:end]
}
