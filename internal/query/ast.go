// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package query composes retrieval requests as a small typed query
// tree compiled to the index engine's JSON DSL. The tree replaces the
// loosely-typed nested dictionaries of earlier designs with explicit
// variants.
package query

// Node is one query-tree node. Compile renders the node as the JSON
// DSL fragment the index backend expects.
type Node interface {
	Compile() map[string]any
}

// MatchAll matches every document.
type MatchAll struct{}

func (MatchAll) Compile() map[string]any {
	return map[string]any{"match_all": map[string]any{}}
}

// Match is a single-field full-text match.
type Match struct {
	Field string
	Text  string
}

func (m Match) Compile() map[string]any {
	return map[string]any{"match": map[string]any{m.Field: m.Text}}
}

// Term is an exact-value filter on a keyword, numeric or boolean field.
type Term struct {
	Field string
	Value any
}

func (t Term) Compile() map[string]any {
	return map[string]any{"term": map[string]any{t.Field: t.Value}}
}

// IDs matches documents by index-assigned identifier.
type IDs struct {
	Values []string
}

func (i IDs) Compile() map[string]any {
	return map[string]any{"ids": map[string]any{"values": i.Values}}
}

// MultiMatch is a cross-field full-text match. Operator "and" requires
// every query term to match (conjunctive); "or" is disjunctive.
type MultiMatch struct {
	Fields   []string
	Text     string
	Operator string
}

func (m MultiMatch) Compile() map[string]any {
	inner := map[string]any{
		"query":  m.Text,
		"type":   "cross_fields",
		"fields": m.Fields,
	}
	if m.Operator != "" {
		inner["operator"] = m.Operator
	}
	return map[string]any{"multi_match": inner}
}

// Range filters a numeric field with inclusive bounds; a nil bound is
// open on that side.
type Range struct {
	Field string
	GTE   *int
	LTE   *int
}

func (r Range) Compile() map[string]any {
	bounds := map[string]any{}
	if r.GTE != nil {
		bounds["gte"] = *r.GTE
	}
	if r.LTE != nil {
		bounds["lte"] = *r.LTE
	}
	return map[string]any{"range": map[string]any{r.Field: bounds}}
}

// Nested scopes an inner query to a nested-object field such as
// authors or citations.
type Nested struct {
	Path  string
	Query Node
}

func (n Nested) Compile() map[string]any {
	return map[string]any{"nested": map[string]any{
		"path":  n.Path,
		"query": n.Query.Compile(),
	}}
}

// Bool combines sub-queries. Must clauses all apply and score; Filter
// clauses all apply without scoring; Should clauses are alternatives
// governed by MinimumShouldMatch; MustNot clauses exclude.
type Bool struct {
	Must               []Node
	Filter             []Node
	Should             []Node
	MustNot            []Node
	MinimumShouldMatch int
}

func (b Bool) Compile() map[string]any {
	inner := map[string]any{}
	if len(b.Must) > 0 {
		inner["must"] = compileAll(b.Must)
	}
	if len(b.Filter) > 0 {
		inner["filter"] = compileAll(b.Filter)
	}
	if len(b.Should) > 0 {
		inner["should"] = compileAll(b.Should)
		if b.MinimumShouldMatch > 0 {
			inner["minimum_should_match"] = b.MinimumShouldMatch
		}
	}
	if len(b.MustNot) > 0 {
		inner["must_not"] = compileAll(b.MustNot)
	}
	return map[string]any{"bool": inner}
}

// MoreLikeThis asks the index for documents similar to a stored
// document on the given fields.
type MoreLikeThis struct {
	Fields    []string
	IndexName string
	LikeDocID string
}

func (m MoreLikeThis) Compile() map[string]any {
	like := map[string]any{"_id": m.LikeDocID}
	if m.IndexName != "" {
		like["_index"] = m.IndexName
	}
	return map[string]any{"more_like_this": map[string]any{
		"fields":        m.Fields,
		"like":          []any{like},
		"min_term_freq": 1,
		"min_doc_freq":  1,
	}}
}

func compileAll(nodes []Node) []map[string]any {
	out := make([]map[string]any, len(nodes))
	for i, n := range nodes {
		out[i] = n.Compile()
	}
	return out
}
