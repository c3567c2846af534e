// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/pdiddy/relevance-engine/internal/citegraph"
	"github.com/pdiddy/relevance-engine/internal/corpus"
	"github.com/pdiddy/relevance-engine/pkg/types"
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Print citation-graph statistics for a corpus",
	Long: `Graph loads the corpus, builds the citation graph, computes importance
scores and prints node and edge counts plus the highest-ranked titles. It
never touches the retrieval index.`,
	RunE: runGraph,
}

func init() {
	graphCmd.Flags().String("data-dir", "", "directory tree of per-article JSON records")
	graphCmd.Flags().Int("workers", 0, "concurrent corpus readers (default GOMAXPROCS)")
	graphCmd.Flags().Int("top", 10, "number of top-ranked titles to print")

	rootCmd.AddCommand(graphCmd)
}

func runGraph(cmd *cobra.Command, args []string) error {
	workers, _ := cmd.Flags().GetInt("workers")
	top, _ := cmd.Flags().GetInt("top")

	cfg := types.CorpusConfig{
		DataDir: stringSetting(cmd, "data-dir", "corpus.data_dir", "data"),
		Workers: workers,
	}

	load, err := corpus.Load(context.Background(), cfg, os.Stdout)
	if err != nil {
		return err
	}
	if len(load.Articles) == 0 {
		return fmt.Errorf("no articles found under %s", cfg.DataDir)
	}

	graph, titles := citegraph.Build(load.Articles)
	scores := citegraph.PageRank(graph, citegraph.DefaultTolerance, citegraph.DefaultMaxIterations)

	fmt.Printf("articles: %d (%d unreadable)\n", len(load.Articles), load.Failed)
	fmt.Printf("nodes:    %d\n", graph.Len())
	fmt.Printf("edges:    %d\n", graph.Edges())

	type ranked struct {
		title string
		score float64
	}
	all := make([]ranked, 0, len(scores))
	for title, score := range scores {
		all = append(all, ranked{title, score})
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].score != all[j].score {
			return all[i].score > all[j].score
		}
		return all[i].title < all[j].title
	})
	if top > len(all) {
		top = len(all)
	}

	fmt.Printf("\n%-4s  %-10s  %-8s  %s\n", "Rank", "Score", "Corpus", "Title")
	for i := 0; i < top; i++ {
		member := "no"
		if titles.Contains(all[i].title) {
			member = "yes"
		}
		title := truncate(all[i].title, 70)
		fmt.Printf("%-4d  %-10.6f  %-8s  %s\n", i+1, all[i].score, member, title)
	}
	return nil
}
