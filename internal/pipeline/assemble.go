// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline assembles per-article composite index documents
// from the corpus and its derived artifacts, and runs the full batch
// indexing pass.
package pipeline

import (
	"sort"
	"strings"

	"github.com/abadojack/whatlanggo"

	"github.com/pdiddy/relevance-engine/internal/anchortext"
	"github.com/pdiddy/relevance-engine/internal/citegraph"
	"github.com/pdiddy/relevance-engine/internal/crossref"
	"github.com/pdiddy/relevance-engine/pkg/types"
)

// entityTypes is the biomedical/geographic whitelist applied at
// assembly: entities of other types never reach the index.
var entityTypes = map[string]struct{}{
	"GPE":                           {},
	"BACTERIUM":                     {},
	"LOC":                           {},
	"TISSUE":                        {},
	"GENE_OR_GENOME":                {},
	"IMMUNE_RESPONSE":               {},
	"VIRAL_PROTEIN":                 {},
	"CELL_OR_MOLECULAR_DYSFUNCTION": {},
	"ORGANISM":                      {},
	"CELL_FUNCTION":                 {},
	"DISEASE_OR_SYNDROME":           {},
	"MOLECULAR_FUNCTION":            {},
	"CELL_COMPONENT":                {},
	"WILDLIFE":                      {},
	"VIRUS":                         {},
	"SIGN_OR_SYMPTOM":               {},
	"LIVESTOCK":                     {},
}

// Assemble merges the loaded articles with every derived artifact into
// the composite documents pushed to the index. The document at slice
// position i describes articles[i]; that position is its doc index.
func Assemble(
	articles []*types.Article,
	scores citegraph.Scores,
	titles citegraph.TitleIndex,
	anchors anchortext.Index,
	table crossref.Table,
	freqs map[string]int,
) []types.IndexDocument {
	docs := make([]types.IndexDocument, len(articles))
	for i, article := range articles {
		docs[i] = assembleOne(article, scores, titles, anchors, table, freqs)
	}
	return docs
}

func assembleOne(
	article *types.Article,
	scores citegraph.Scores,
	titles citegraph.TitleIndex,
	anchors anchortext.Index,
	table crossref.Table,
	freqs map[string]int,
) types.IndexDocument {
	normalized := article.NormalizedTitle()
	bodyText := article.FullBodyText()

	doc := types.IndexDocument{
		Title:     article.Title(),
		IDNum:     article.ID,
		Abstract:  article.AbstractText(),
		Body:      bodySections(article),
		BodyText:  bodyText,
		Authors:   article.Metadata.Authors,
		Citations: citations(article, titles),
		InEnglish: inEnglish(bodyText),
		PR:        scores.Of(normalized),
	}

	if rec, ok := table[article.ID]; ok {
		doc.PublishTime = crossref.ExtractYear(rec.PublishTime)
		doc.Journal = rec.Journal
		doc.Ents = entString(rec, freqs)
	}

	citedBy := anchors[normalized]
	doc.CitedBy = citedBy
	texts := make([]string, 0, len(citedBy))
	for _, ref := range citedBy {
		texts = append(texts, ref.Text)
	}
	doc.AnchorText = strings.Join(texts, " ")

	return doc
}

// bodySections groups the article's body blocks by section heading,
// preserving the order each heading first appears.
func bodySections(article *types.Article) []types.BodySection {
	var sections []types.BodySection
	byName := make(map[string]int)
	for _, block := range article.BodyText {
		idx, ok := byName[block.Name]
		if !ok {
			idx = len(sections)
			byName[block.Name] = idx
			sections = append(sections, types.BodySection{Name: block.Name})
		}
		sections[idx].Text = append(sections[idx].Text, block.Text)
	}
	return sections
}

// citations converts the bibliography into index citation entries,
// dropping entries with empty titles and resolving each cited title to
// its doc index when the cited work is itself a corpus member.
func citations(article *types.Article, titles citegraph.TitleIndex) []types.CitationRef {
	var refs []types.CitationRef
	for _, key := range sortedBibKeys(article.BibEntries) {
		entry := article.BibEntries[key]
		if entry.Title == "" {
			continue
		}
		refs = append(refs, types.CitationRef{
			Title:    entry.Title,
			Year:     entry.Year,
			InCorpus: titles.Lookup(types.NormalizeTitle(entry.Title)),
			Authors:  entry.Authors,
		})
	}
	return refs
}

func sortedBibKeys(entries map[string]types.BibEntry) []string {
	keys := make([]string, 0, len(entries))
	for key := range entries {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// entString collects the record's whitelisted, frequency-filtered
// entity forms into the whitespace-joined index field. Forms occurring
// once in the whole corpus are noise and excluded.
func entString(rec crossref.Record, freqs map[string]int) string {
	entKinds := make([]string, 0, len(rec.Entities))
	for entType := range rec.Entities {
		entKinds = append(entKinds, entType)
	}
	sort.Strings(entKinds)

	var ents []string
	for _, entType := range entKinds {
		if _, ok := entityTypes[entType]; !ok {
			continue
		}
		for _, ent := range rec.Entities[entType] {
			if freqs[ent] > 1 {
				ents = append(ents, ent)
			}
		}
	}
	return crossref.Untokenize(ents)
}

// inEnglish classifies the body language. An empty body carries no
// signal and is treated as English rather than filtered out.
func inEnglish(bodyText string) bool {
	if strings.TrimSpace(bodyText) == "" {
		return true
	}
	return whatlanggo.Detect(bodyText).Lang == whatlanggo.Eng
}
