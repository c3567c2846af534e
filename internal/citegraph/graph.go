// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package citegraph builds the directed citation graph over normalized
// article titles and computes a link-analysis importance score on it.
package citegraph

import (
	"sort"

	"github.com/pdiddy/relevance-engine/pkg/types"
)

// Graph is a directed graph whose nodes are normalized article titles.
// Edge u→v means an article titled u cites an article titled v.
// Duplicate bibliography entries collapse into a single edge. The graph
// is built once per corpus snapshot and is immutable afterwards.
type Graph struct {
	// succ maps each node to its outgoing-edge targets. Nodes without
	// outgoing edges still have an entry (possibly nil set membership).
	succ map[string]map[string]struct{}
	// edge count, kept so Edges() is O(1).
	edges int
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{succ: make(map[string]map[string]struct{})}
}

// AddNode registers a node. Blank titles are ignored: a normalized
// empty title is never a valid node.
func (g *Graph) AddNode(title string) {
	if title == "" {
		return
	}
	if _, ok := g.succ[title]; !ok {
		g.succ[title] = nil
	}
}

// AddEdge adds the directed edge from→to, creating both nodes as
// needed. Duplicate edges and edges with a blank endpoint are ignored.
func (g *Graph) AddEdge(from, to string) {
	if from == "" || to == "" {
		return
	}
	g.AddNode(to)
	set := g.succ[from]
	if set == nil {
		set = make(map[string]struct{})
		g.succ[from] = set
	}
	if _, ok := set[to]; !ok {
		set[to] = struct{}{}
		g.edges++
	}
}

// HasNode reports whether title is a node of the graph.
func (g *Graph) HasNode(title string) bool {
	_, ok := g.succ[title]
	return ok
}

// Len returns the number of nodes.
func (g *Graph) Len() int { return len(g.succ) }

// Edges returns the number of distinct edges.
func (g *Graph) Edges() int { return g.edges }

// Nodes returns all node titles in sorted order.
func (g *Graph) Nodes() []string {
	nodes := make([]string, 0, len(g.succ))
	for n := range g.succ {
		nodes = append(nodes, n)
	}
	sort.Strings(nodes)
	return nodes
}

// Successors returns the targets of the node's outgoing edges, sorted.
// An unknown node yields nil.
func (g *Graph) Successors(title string) []string {
	set, ok := g.succ[title]
	if !ok || len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for t := range set {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// OutDegree returns the number of outgoing edges of a node.
func (g *Graph) OutDegree(title string) int {
	return len(g.succ[title])
}

// TitleIndex maps normalized corpus titles to their doc index. Lookups
// of unknown titles return -1, so bibliography titles outside the
// corpus resolve to a sentinel rather than a missing-key failure.
type TitleIndex map[string]int

// Lookup returns the doc index for a normalized title, or -1 when the
// title is not a corpus member.
func (ti TitleIndex) Lookup(title string) int {
	if idx, ok := ti[title]; ok {
		return idx
	}
	return -1
}

// Contains reports corpus membership of a normalized title.
func (ti TitleIndex) Contains(title string) bool {
	_, ok := ti[title]
	return ok
}

// NewTitleIndex maps each article's normalized title to its doc index,
// skipping untitled articles. It is the join key for citation
// resolution when the graph itself comes from the artifact cache.
func NewTitleIndex(articles []*types.Article) TitleIndex {
	index := make(TitleIndex, len(articles))
	for i, article := range articles {
		if title := article.NormalizedTitle(); title != "" {
			index[title] = i
		}
	}
	return index
}

// Build constructs the citation graph and title index from the corpus.
// Each article's normalized title becomes a node even without edges, so
// uncited articles with no outbound citations still receive the damping
// share of the importance score. Bibliography entries with blank titles
// contribute nothing.
func Build(articles []*types.Article) (*Graph, TitleIndex) {
	graph := NewGraph()
	index := make(TitleIndex, len(articles))

	for i, article := range articles {
		citing := article.NormalizedTitle()
		if citing != "" {
			graph.AddNode(citing)
			index[citing] = i
		}
		for _, bib := range article.BibEntries {
			cited := types.NormalizeTitle(bib.Title)
			if cited == "" {
				continue
			}
			graph.AddEdge(citing, cited)
		}
	}

	return graph, index
}
