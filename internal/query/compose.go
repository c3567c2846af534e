// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package query

import (
	"fmt"
	"strings"

	"github.com/pdiddy/relevance-engine/pkg/types"
)

// TextFields are the full-text relevance fields of a standard search.
var TextFields = []string{"title", "abstract", "body_text", "anchor_text"}

// Plan is a composed retrieval request ready for execution: the query
// tree plus windowing, ordering and highlighting directives.
type Plan struct {
	Root Node

	// From and Size window the results (fixed pages of 10).
	From int
	Size int

	// SortByImportance orders by the pr field descending instead of by
	// relevance score, used when a standard request has no search terms.
	SortByImportance bool

	// Highlight asks the index for highlighted title and abstract
	// fragments.
	Highlight bool
}

// Compose builds the Plan for a serving-time request. Citation
// similarity needs the reference document's citation titles; callers
// pass them via seedTitles (ignored for the other kinds).
func Compose(req types.SearchRequest, seedTitles []string) (*Plan, error) {
	from, size := req.Window()
	plan := &Plan{From: from, Size: size}

	switch req.Kind {
	case types.KindStandard, "":
		plan.Root = standard(req)
		plan.SortByImportance = req.IsEmpty()
		plan.Highlight = true
	case types.KindCiteSimilar:
		if req.RefDocID == "" {
			return nil, fmt.Errorf("citation-similarity request requires a reference document id")
		}
		plan.Root = citeSimilar(req.RefDocID, seedTitles)
	case types.KindEntitySimilar:
		if req.RefDocID == "" {
			return nil, fmt.Errorf("entity-similarity request requires a reference document id")
		}
		plan.Root = Bool{
			Must:    []Node{MoreLikeThis{Fields: []string{"ents"}, LikeDocID: req.RefDocID}},
			MustNot: []Node{IDs{Values: []string{req.RefDocID}}},
		}
	case types.KindEntityMatch:
		if req.Entity == "" {
			return nil, fmt.Errorf("entity-match request requires an entity token")
		}
		plan.Root = Match{Field: "ents", Text: req.Entity}
	default:
		return nil, fmt.Errorf("unknown request kind %q", req.Kind)
	}

	return plan, nil
}

// standard combines free-text matching, the author filter, the publish
// year range and the language filter. With no free-text and no author
// terms every document matches, to be ordered by importance.
func standard(req types.SearchRequest) Node {
	var root Bool

	if req.FreeText != "" {
		op := "or"
		if req.Operator == types.OpConjunctive {
			op = "and"
		}
		root.Must = append(root.Must, MultiMatch{
			Fields:   TextFields,
			Text:     req.FreeText,
			Operator: op,
		})
	}

	root.Filter = append(root.Filter, AuthorFilters(req.Authors)...)

	if req.YearFrom != 0 || req.YearTo != 0 {
		r := Range{Field: "publish_time"}
		if req.YearFrom != 0 {
			gte := req.YearFrom
			r.GTE = &gte
		}
		if req.YearTo != 0 {
			lte := req.YearTo
			r.LTE = &lte
		}
		root.Filter = append(root.Filter, r)
	}

	if req.EnglishOnly {
		root.Filter = append(root.Filter, Term{Field: "in_english", Value: true})
	}

	if len(root.Must) == 0 && len(root.Filter) == 0 {
		return MatchAll{}
	}
	if len(root.Must) == 0 {
		root.Must = []Node{MatchAll{}}
	}
	return root
}

// AuthorFilters parses the author-query string into successive nested
// filters. The string splits on ";" into author tokens; each token
// splits on whitespace. Two or more words require first AND last name
// to match the same author entry; a single word matches either the
// first OR the last name.
func AuthorFilters(authors string) []Node {
	var filters []Node
	for _, token := range strings.Split(authors, ";") {
		names := strings.Fields(token)
		switch {
		case len(names) >= 2:
			filters = append(filters, Nested{
				Path: "authors",
				Query: Bool{Must: []Node{
					Match{Field: "authors.first", Text: names[0]},
					Match{Field: "authors.last", Text: names[1]},
				}},
			})
		case len(names) == 1:
			filters = append(filters, Nested{
				Path: "authors",
				Query: Bool{
					Should: []Node{
						Match{Field: "authors.first", Text: names[0]},
						Match{Field: "authors.last", Text: names[0]},
					},
					MinimumShouldMatch: 1,
				},
			})
		}
	}
	return filters
}

// citeSimilar matches documents citing at least one of the reference
// document's citation titles, excluding the reference itself. Blank
// titles contribute nothing.
func citeSimilar(refDocID string, titles []string) Node {
	var should []Node
	for _, title := range titles {
		if t := types.NormalizeTitle(title); t != "" {
			should = append(should, Match{Field: "citations.title", Text: t})
		}
	}
	if len(should) == 0 {
		// Nothing shareable to match: a document with no usable
		// citation titles has no citation-similar neighbors.
		return Bool{MustNot: []Node{MatchAll{}}}
	}
	return Bool{
		Must: []Node{Nested{
			Path:  "citations",
			Query: Bool{Should: should, MinimumShouldMatch: 1},
		}},
		MustNot: []Node{IDs{Values: []string{refDocID}}},
	}
}
