// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"fmt"
	"io"

	"github.com/pdiddy/relevance-engine/internal/anchortext"
	"github.com/pdiddy/relevance-engine/internal/cache"
	"github.com/pdiddy/relevance-engine/internal/citegraph"
	"github.com/pdiddy/relevance-engine/internal/corpus"
	"github.com/pdiddy/relevance-engine/internal/crossref"
	"github.com/pdiddy/relevance-engine/internal/index"
	"github.com/pdiddy/relevance-engine/pkg/types"
)

// Run executes the full batch pass: load the corpus, derive the
// citation graph, importance scores, cross-reference table and anchor
// text, assemble composite documents and push them to the index.
// Progress and per-item warnings go to w.
func Run(ctx context.Context, cfg types.PipelineConfig, client *index.Client, recreate bool, w io.Writer) error {
	load, err := corpus.Load(ctx, cfg.Corpus, w)
	if err != nil {
		return err
	}
	if len(load.Articles) == 0 {
		return fmt.Errorf("no articles found under %s", cfg.Corpus.DataDir)
	}

	graph, scores, titles, err := deriveGraph(ctx, cfg, load.Articles, w)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "citation graph: %d nodes, %d edges\n", graph.Len(), graph.Edges())

	table, err := crossRefTable(cfg.CrossRef, w)
	if err != nil {
		return err
	}
	freqs := crossref.Frequencies(table)

	anchors := anchortext.Extract(load.Articles, titles)
	fmt.Fprintf(w, "anchor text: %d cited titles\n", len(anchors))

	docs := Assemble(load.Articles, scores, titles, anchors, table, freqs)

	if err := client.EnsureIndex(ctx, recreate); err != nil {
		return err
	}
	summary, err := client.BulkIndex(ctx, docs, w)
	if err != nil {
		return err
	}
	if summary.HasFailures() {
		fmt.Fprintf(w, "warning: %d of %d documents were rejected\n", summary.Failed, summary.Total())
	}
	return nil
}

// crossRefTable loads or builds the cross-reference artifact. With no
// sources and no artifact configured the table is empty and the
// entity, journal and publish-time fields stay unset.
func crossRefTable(cfg types.CrossRefConfig, w io.Writer) (crossref.Table, error) {
	if cfg.MetadataCSV == "" && cfg.NERPath == "" {
		if cfg.ArtifactPath != "" {
			if table, err := crossref.Load(cfg.ArtifactPath); err == nil {
				fmt.Fprintf(w, "loaded cross-reference artifact (%d articles)\n", len(table))
				return table, nil
			}
		}
		fmt.Fprintf(w, "warning: no cross-reference sources configured, entity fields will be empty\n")
		return crossref.Table{}, nil
	}
	return crossref.LoadOrBuild(cfg.MetadataCSV, cfg.NERPath, cfg.ArtifactPath, w)
}

// deriveGraph returns the citation graph and importance scores, served
// from the artifact cache when the corpus snapshot matches, rebuilt and
// re-cached otherwise. The title index is always derived fresh: it is
// cheap and positional.
func deriveGraph(ctx context.Context, cfg types.PipelineConfig, articles []*types.Article, w io.Writer) (*citegraph.Graph, citegraph.Scores, citegraph.TitleIndex, error) {
	if cfg.Cache.Disabled {
		graph, titles := citegraph.Build(articles)
		scores := citegraph.PageRank(graph, citegraph.DefaultTolerance, citegraph.DefaultMaxIterations)
		return graph, scores, titles, nil
	}

	snapshot, err := corpus.SnapshotID(cfg.Corpus.DataDir)
	if err != nil {
		return nil, nil, nil, err
	}

	dir := cfg.Cache.Dir
	if dir == "" {
		dir = ".cache"
	}
	store, err := cache.Open(dir)
	if err != nil {
		fmt.Fprintf(w, "warning: artifact cache unavailable, rebuilding: %v\n", err)
		graph, titles := citegraph.Build(articles)
		scores := citegraph.PageRank(graph, citegraph.DefaultTolerance, citegraph.DefaultMaxIterations)
		return graph, scores, titles, nil
	}
	defer store.Close()

	if graph, scores, ok, err := store.Load(ctx, snapshot); err == nil && ok {
		fmt.Fprintf(w, "loaded citation artifacts from cache\n")
		return graph, scores, citegraph.NewTitleIndex(articles), nil
	} else if err != nil {
		fmt.Fprintf(w, "warning: artifact cache read failed, rebuilding: %v\n", err)
	}

	graph, titles := citegraph.Build(articles)
	scores := citegraph.PageRank(graph, citegraph.DefaultTolerance, citegraph.DefaultMaxIterations)

	if err := store.Save(ctx, snapshot, graph, scores); err != nil {
		fmt.Fprintf(w, "warning: artifact cache write failed: %v\n", err)
	}
	return graph, scores, titles, nil
}
