// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// CorpusConfig holds settings for reading the raw article corpus.
type CorpusConfig struct {
	// DataDir is the directory tree of per-article JSON records.
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// Workers bounds concurrent file parsing (default: GOMAXPROCS).
	Workers int `json:"workers" yaml:"workers"`
}

// CrossRefConfig holds settings for the entity cross-reference stage.
type CrossRefConfig struct {
	// MetadataCSV is the metadata file whose rows correspond
	// positionally to the NER records.
	MetadataCSV string `json:"metadata_csv" yaml:"metadata_csv"`

	// NERPath is the entity-extraction JSONL file ordered by doc index.
	NERPath string `json:"ner_path" yaml:"ner_path"`

	// ArtifactPath is where the cross-referenced mapping is persisted
	// and reused across runs.
	ArtifactPath string `json:"artifact_path" yaml:"artifact_path"`
}

// IndexConfig holds settings for the external retrieval index client.
type IndexConfig struct {
	// Addresses lists the index engine endpoints (e.g. http://127.0.0.1:9200).
	Addresses []string `json:"addresses" yaml:"addresses"`

	// IndexName is the target index (default "article_index").
	IndexName string `json:"index_name" yaml:"index_name"`

	// Username for basic auth; the password is read from the secrets
	// directory under "index-password".
	Username string `json:"username,omitempty" yaml:"username,omitempty"`

	// Timeout is the per-call request timeout (default 30s).
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// MaxRetries bounds retries on retryable index failures (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	// BulkSize is the number of documents per bulk submission (default 500).
	BulkSize int `json:"bulk_size" yaml:"bulk_size"`
}

// CacheConfig holds settings for the derived-artifact cache.
type CacheConfig struct {
	// Dir is the cache directory holding the SQLite database
	// (default ".cache").
	Dir string `json:"dir" yaml:"dir"`

	// Disabled forces a full rebuild of derived artifacts.
	Disabled bool `json:"disabled,omitempty" yaml:"disabled,omitempty"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Corpus   CorpusConfig   `json:"corpus" yaml:"corpus"`
	CrossRef CrossRefConfig `json:"crossref" yaml:"crossref"`
	Index    IndexConfig    `json:"index" yaml:"index"`
	Cache    CacheConfig    `json:"cache" yaml:"cache"`
}
