package citegraph

import (
	"math"
	"testing"

	"github.com/pdiddy/relevance-engine/pkg/types"
)

func article(id, title string, cited ...string) *types.Article {
	bib := make(map[string]types.BibEntry, len(cited))
	for i, t := range cited {
		bib[refID(i)] = types.BibEntry{Title: t}
	}
	return &types.Article{
		ID:         id,
		Metadata:   types.ArticleMetadata{Title: title},
		BibEntries: bib,
	}
}

func refID(i int) string {
	return "BIBREF" + string(rune('0'+i))
}

// --- graph construction ---

func TestBuildAddsNodesAndEdges(t *testing.T) {
	articles := []*types.Article{
		article("x", "Article X", "Covid Transmission Study", "External Work"),
		article("y", "Covid Transmission Study"),
	}

	g, index := Build(articles)

	// X, its two cited titles, Y (same node as the first cited title).
	if g.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", g.Len())
	}
	if g.Edges() != 2 {
		t.Errorf("Edges() = %d, want 2", g.Edges())
	}
	if !g.HasNode("covid transmission study") {
		t.Error("cited corpus title missing from graph")
	}
	if got := index.Lookup("article x"); got != 0 {
		t.Errorf("Lookup(article x) = %d, want 0", got)
	}
	if got := index.Lookup("covid transmission study"); got != 1 {
		t.Errorf("Lookup(covid transmission study) = %d, want 1", got)
	}
	if got := index.Lookup("external work"); got != -1 {
		t.Errorf("Lookup(external work) = %d, want -1", got)
	}
}

func TestBuildCollapsesDuplicateEdges(t *testing.T) {
	articles := []*types.Article{
		article("x", "Citing Paper", "Same Target", "same target", "Same Target "),
	}

	g, _ := Build(articles)
	if g.Edges() != 1 {
		t.Errorf("Edges() = %d, want 1 (duplicates collapsed)", g.Edges())
	}
	if got := g.OutDegree("citing paper"); got != 1 {
		t.Errorf("OutDegree = %d, want 1", got)
	}
}

func TestBuildSkipsBlankTitles(t *testing.T) {
	articles := []*types.Article{
		article("x", "Citing Paper", "", "   "),
		article("u", ""), // untitled: never a node or index key
	}

	g, index := Build(articles)
	if g.HasNode("") {
		t.Error("blank title must not become a node")
	}
	if g.Edges() != 0 {
		t.Errorf("Edges() = %d, want 0", g.Edges())
	}
	if index.Contains("") {
		t.Error("blank title must not be an index key")
	}
}

func TestBuildNodeWithoutEdges(t *testing.T) {
	articles := []*types.Article{article("solo", "Standalone Paper")}

	g, _ := Build(articles)
	if !g.HasNode("standalone paper") {
		t.Fatal("article without citations must still be a node")
	}
	if got := g.Successors("standalone paper"); got != nil {
		t.Errorf("Successors = %v, want nil", got)
	}
}

// --- PageRank ---

func scoreSum(g *Graph, s Scores) float64 {
	var sum float64
	for _, node := range g.Nodes() {
		sum += s.Of(node)
	}
	return sum
}

func TestPageRankSumsToOne(t *testing.T) {
	articles := []*types.Article{
		article("a", "Paper A", "Paper B", "Paper C"),
		article("b", "Paper B", "Paper C"),
		article("c", "Paper C"),
		article("d", "Isolated Paper"),
	}

	g, _ := Build(articles)
	scores := PageRank(g, 0, 0)

	if sum := scoreSum(g, scores); math.Abs(sum-1.0) > 1e-9 {
		t.Errorf("score sum = %g, want 1", sum)
	}
	if scores.Of("isolated paper") <= 0 {
		t.Error("isolated node must receive a positive damping share")
	}
}

func TestPageRankCitedOutranksCiting(t *testing.T) {
	// X cites Y; Y cites nothing. Y receives inbound weight, X only the
	// damping share, so Y must score higher.
	articles := []*types.Article{
		article("x", "Article X", "Covid Transmission Study"),
		article("y", "Covid Transmission Study"),
	}

	g, _ := Build(articles)
	if g.Len() != 2 || g.Edges() != 1 {
		t.Fatalf("graph = %d nodes / %d edges, want 2 / 1", g.Len(), g.Edges())
	}

	scores := PageRank(g, 0, 0)
	x := scores.Of("article x")
	y := scores.Of("covid transmission study")
	if y <= x {
		t.Errorf("cited score %g must exceed citing score %g", y, x)
	}
}

func TestPageRankUnknownTitleScoresZero(t *testing.T) {
	g, _ := Build([]*types.Article{article("a", "Paper A")})
	scores := PageRank(g, 0, 0)

	if got := scores.Of("never seen"); got != 0 {
		t.Errorf("Of(unknown) = %g, want 0", got)
	}
}

func TestPageRankEmptyGraph(t *testing.T) {
	scores := PageRank(NewGraph(), 0, 0)
	if len(scores) != 0 {
		t.Errorf("len(scores) = %d, want 0", len(scores))
	}
}
