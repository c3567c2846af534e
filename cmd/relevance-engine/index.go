// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/relevance-engine/internal/index"
	"github.com/pdiddy/relevance-engine/internal/pipeline"
	"github.com/pdiddy/relevance-engine/pkg/types"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Run the batch pipeline and push documents to the index",
	Long: `Index loads the article corpus, derives the citation graph and importance
scores, cross-references extracted entities, collects anchor text, and bulk
pushes the assembled documents to the retrieval index.

Derived citation artifacts are cached per corpus snapshot and reused when
the corpus is unchanged; --no-cache forces a full rebuild.`,
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().String("data-dir", "", "directory tree of per-article JSON records")
	indexCmd.Flags().String("metadata", "", "metadata CSV cross-referenced positionally with the NER file")
	indexCmd.Flags().String("ner", "", "entity-extraction JSONL file ordered by doc index")
	indexCmd.Flags().String("artifact", "crossref.json", "path of the persisted cross-reference artifact")
	indexCmd.Flags().Int("workers", 0, "concurrent corpus readers (default GOMAXPROCS)")
	indexCmd.Flags().String("addresses", "", "comma-separated index engine endpoints")
	indexCmd.Flags().String("index-name", "", "target index name")
	indexCmd.Flags().String("username", "", "index basic-auth username")
	indexCmd.Flags().Int("bulk-size", 0, "documents per bulk submission (default 500)")
	indexCmd.Flags().Bool("recreate", false, "delete and recreate an existing index")
	indexCmd.Flags().String("cache-dir", "", "artifact cache directory (default .cache)")
	indexCmd.Flags().Bool("no-cache", false, "rebuild derived artifacts unconditionally")

	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig(cmd)
	recreate, _ := cmd.Flags().GetBool("recreate")

	client, err := index.NewClient(cfg.Index, indexPassword())
	if err != nil {
		return err
	}
	return pipeline.Run(context.Background(), cfg, client, recreate, os.Stdout)
}

// pipelineConfig resolves the pipeline configuration from flags, the
// config file and the environment.
func pipelineConfig(cmd *cobra.Command) types.PipelineConfig {
	workers, _ := cmd.Flags().GetInt("workers")
	bulkSize, _ := cmd.Flags().GetInt("bulk-size")
	noCache, _ := cmd.Flags().GetBool("no-cache")

	var addresses []string
	if raw := stringSetting(cmd, "addresses", "index.addresses", ""); raw != "" {
		for _, addr := range strings.Split(raw, ",") {
			if addr = strings.TrimSpace(addr); addr != "" {
				addresses = append(addresses, addr)
			}
		}
	}

	return types.PipelineConfig{
		Corpus: types.CorpusConfig{
			DataDir: stringSetting(cmd, "data-dir", "corpus.data_dir", "data"),
			Workers: workers,
		},
		CrossRef: types.CrossRefConfig{
			MetadataCSV:  stringSetting(cmd, "metadata", "crossref.metadata_csv", ""),
			NERPath:      stringSetting(cmd, "ner", "crossref.ner_path", ""),
			ArtifactPath: stringSetting(cmd, "artifact", "crossref.artifact_path", "crossref.json"),
		},
		Index: types.IndexConfig{
			Addresses: addresses,
			IndexName: stringSetting(cmd, "index-name", "index.index_name", index.DefaultIndexName),
			Username:  stringSetting(cmd, "username", "index.username", ""),
			BulkSize:  bulkSize,
		},
		Cache: types.CacheConfig{
			Dir:      stringSetting(cmd, "cache-dir", "cache.dir", ".cache"),
			Disabled: noCache,
		},
	}
}
