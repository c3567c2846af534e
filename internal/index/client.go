// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package index is the client boundary to the external retrieval
// engine: index creation with the article mapping, bulk document
// submission, and execution of composed query plans.
package index

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/opensearch-project/opensearch-go/v2"

	"github.com/pdiddy/relevance-engine/pkg/types"
)

// ErrUnavailable marks index-engine connectivity failures. They are
// retryable and distinct from corpus-parsing failures; callers surface
// them as an empty result set with a message rather than a fault.
var ErrUnavailable = errors.New("index unavailable")

// DefaultIndexName is used when the configuration leaves it empty.
const DefaultIndexName = "article_index"

// Client wraps the engine connection with the target index name.
type Client struct {
	os        *opensearch.Client
	indexName string
	bulkSize  int
}

// NewClient connects to the index engine. Retries on transient HTTP
// failures are handled by the transport (bounded by cfg.MaxRetries);
// password may be empty when the engine runs without auth.
func NewClient(cfg types.IndexConfig, password string) (*Client, error) {
	if len(cfg.Addresses) == 0 {
		cfg.Addresses = []string{"http://127.0.0.1:9200"}
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.IndexName == "" {
		cfg.IndexName = DefaultIndexName
	}
	if cfg.BulkSize <= 0 {
		cfg.BulkSize = 500
	}

	osClient, err := opensearch.NewClient(opensearch.Config{
		Addresses:     cfg.Addresses,
		Username:      cfg.Username,
		Password:      password,
		MaxRetries:    cfg.MaxRetries,
		RetryOnStatus: []int{429, 502, 503, 504},
		Transport: &http.Transport{
			ResponseHeaderTimeout: cfg.Timeout,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("creating index client: %w", err)
	}

	return &Client{
		os:        osClient,
		indexName: cfg.IndexName,
		bulkSize:  cfg.BulkSize,
	}, nil
}

// IndexName returns the configured target index.
func (c *Client) IndexName() string { return c.indexName }

// asUnavailable wraps a transport-level failure as ErrUnavailable.
// Errors returned by the engine itself (HTTP error payloads) never
// reach this path; only failed calls do.
func asUnavailable(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}
