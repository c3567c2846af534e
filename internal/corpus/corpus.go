// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package corpus reads raw per-article records from a directory tree
// into an ordered in-memory collection. File order defines the doc
// index used by every downstream artifact.
package corpus

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/pdiddy/relevance-engine/pkg/types"
)

// LoadResult holds the outcome of a corpus load.
type LoadResult struct {
	// Articles is the ordered corpus; position is the doc index.
	Articles []*types.Article

	// Failed counts files that could not be decoded.
	Failed int
}

// HasFailures reports whether any files were skipped.
func (r LoadResult) HasFailures() bool {
	return r.Failed > 0
}

// Load walks cfg.DataDir, decoding every .json file into an Article.
// Files are parsed concurrently by a bounded worker pool; each worker
// writes only its own slots, so the merged slice needs no locking.
// Undecodable or non-UTF8 files are skipped with a warning to w, never
// aborting the run. The resulting order is the sorted relative path
// order, which is deterministic across runs.
func Load(ctx context.Context, cfg types.CorpusConfig, w io.Writer) (LoadResult, error) {
	paths, err := listArticleFiles(cfg.DataDir)
	if err != nil {
		return LoadResult{}, err
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(paths) {
		workers = len(paths)
	}
	if workers < 1 {
		workers = 1
	}

	type slot struct {
		article *types.Article
		err     error
	}
	slots := make([]slot, len(paths))

	var wg sync.WaitGroup
	for worker := 0; worker < workers; worker++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for i := worker; i < len(paths); i += workers {
				if ctx.Err() != nil {
					return
				}
				article, err := readArticle(paths[i])
				slots[i] = slot{article: article, err: err}
			}
		}(worker)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return LoadResult{}, err
	}

	var result LoadResult
	for i, s := range slots {
		if s.err != nil {
			fmt.Fprintf(w, "warning: skipping %s: %v\n", paths[i], s.err)
			result.Failed++
			continue
		}
		result.Articles = append(result.Articles, s.article)
	}

	fmt.Fprintf(w, "loaded %d articles (%d skipped)\n", len(result.Articles), result.Failed)
	return result, nil
}

// listArticleFiles collects the corpus .json files in sorted relative
// path order.
func listArticleFiles(dataDir string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(dataDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".json") {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking corpus directory %s: %w", dataDir, err)
	}
	sort.Strings(paths)
	return paths, nil
}

// readArticle decodes one article file, applying defaults for missing
// optional fields.
func readArticle(path string) (*types.Article, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("not valid UTF-8")
	}

	var article types.Article
	if err := json.Unmarshal(data, &article); err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	if article.ID == "" {
		return nil, fmt.Errorf("missing paper_id")
	}
	if article.BibEntries == nil {
		article.BibEntries = map[string]types.BibEntry{}
	}
	return &article, nil
}

// SnapshotID derives a stable identity for the current corpus snapshot
// from the sorted relative paths, sizes and modification times of its
// files. Derived-artifact caches are keyed by this value and rebuilt
// whenever it changes.
func SnapshotID(dataDir string) (string, error) {
	paths, err := listArticleFiles(dataDir)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return "", fmt.Errorf("stat %s: %w", path, err)
		}
		rel, err := filepath.Rel(dataDir, path)
		if err != nil {
			rel = path
		}
		fmt.Fprintf(&b, "%s\x00%d\x00%d\n", rel, info.Size(), info.ModTime().UnixNano())
	}
	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:]), nil
}
