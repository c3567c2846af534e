// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"

	"github.com/pdiddy/relevance-engine/pkg/types"
)

// BulkSummary holds counts from a bulk submission run.
type BulkSummary struct {
	Indexed int
	Failed  int
}

// Total returns the number of documents submitted.
func (s BulkSummary) Total() int {
	return s.Indexed + s.Failed
}

// HasFailures reports whether any documents were rejected.
func (s BulkSummary) HasFailures() bool {
	return s.Failed > 0
}

// EnsureIndex creates the article index with its mapping. When recreate
// is set an existing index of the same name is deleted first, matching
// the one-index-per-corpus-snapshot lifecycle.
func (c *Client) EnsureIndex(ctx context.Context, recreate bool) error {
	exists, err := c.indexExists(ctx)
	if err != nil {
		return err
	}

	if exists {
		if !recreate {
			return nil
		}
		del := opensearchapi.IndicesDeleteRequest{Index: []string{c.indexName}}
		resp, err := del.Do(ctx, c.os)
		if err != nil {
			return asUnavailable(err)
		}
		defer resp.Body.Close()
		if resp.IsError() {
			return fmt.Errorf("deleting index %s: %s", c.indexName, responseError(resp))
		}
	}

	create := opensearchapi.IndicesCreateRequest{
		Index: c.indexName,
		Body:  strings.NewReader(articleMapping),
	}
	resp, err := create.Do(ctx, c.os)
	if err != nil {
		return asUnavailable(err)
	}
	defer resp.Body.Close()
	if resp.IsError() {
		return fmt.Errorf("creating index %s: %s", c.indexName, responseError(resp))
	}
	return nil
}

func (c *Client) indexExists(ctx context.Context) (bool, error) {
	req := opensearchapi.IndicesExistsRequest{Index: []string{c.indexName}}
	resp, err := req.Do(ctx, c.os)
	if err != nil {
		return false, asUnavailable(err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	switch resp.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, fmt.Errorf("checking index %s: status %d", c.indexName, resp.StatusCode)
	}
}

// BulkIndex submits the documents in batches. The document id is the
// doc index (slice position), the identity every derived artifact uses.
// A rejected document is reported to w and counted, and the batch
// continues: one malformed record never aborts the rest of the
// submission. Connectivity failures abort with ErrUnavailable.
func (c *Client) BulkIndex(ctx context.Context, docs []types.IndexDocument, w io.Writer) (BulkSummary, error) {
	var summary BulkSummary

	for start := 0; start < len(docs); start += c.bulkSize {
		end := start + c.bulkSize
		if end > len(docs) {
			end = len(docs)
		}
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		failed, err := c.bulkBatch(ctx, docs[start:end], start, w)
		if err != nil {
			return summary, err
		}
		summary.Failed += failed
		summary.Indexed += (end - start) - failed
	}

	fmt.Fprintf(w, "indexed %d documents (%d rejected)\n", summary.Indexed, summary.Failed)
	return summary, nil
}

func (c *Client) bulkBatch(ctx context.Context, docs []types.IndexDocument, offset int, w io.Writer) (failed int, err error) {
	var body bytes.Buffer
	enc := json.NewEncoder(&body)

	for i, doc := range docs {
		action := map[string]any{"index": map[string]any{
			"_index": c.indexName,
			"_id":    strconv.Itoa(offset + i),
		}}
		if err := enc.Encode(action); err != nil {
			return 0, fmt.Errorf("encoding bulk action: %w", err)
		}
		if err := enc.Encode(doc); err != nil {
			return 0, fmt.Errorf("encoding document %d: %w", offset+i, err)
		}
	}

	req := opensearchapi.BulkRequest{Body: &body}
	resp, err := req.Do(ctx, c.os)
	if err != nil {
		return 0, asUnavailable(err)
	}
	defer resp.Body.Close()
	if resp.IsError() {
		return 0, fmt.Errorf("bulk submission: %s", responseError(resp))
	}

	var bulkResp struct {
		Errors bool `json:"errors"`
		Items  []map[string]struct {
			ID     string `json:"_id"`
			Status int    `json:"status"`
			Error  *struct {
				Type   string `json:"type"`
				Reason string `json:"reason"`
			} `json:"error"`
		} `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&bulkResp); err != nil {
		return 0, fmt.Errorf("decoding bulk response: %w", err)
	}
	if !bulkResp.Errors {
		return 0, nil
	}

	for _, item := range bulkResp.Items {
		for _, result := range item {
			if result.Error != nil {
				failed++
				fmt.Fprintf(w, "warning: document %s rejected: %s: %s\n",
					result.ID, result.Error.Type, result.Error.Reason)
			}
		}
	}
	return failed, nil
}

// responseError extracts the engine's error reason from a response body.
func responseError(resp *opensearchapi.Response) string {
	data, _ := io.ReadAll(resp.Body)
	var payload struct {
		Error struct {
			Type   string `json:"type"`
			Reason string `json:"reason"`
		} `json:"error"`
	}
	if err := json.Unmarshal(data, &payload); err == nil && payload.Error.Reason != "" {
		return payload.Error.Type + ": " + payload.Error.Reason
	}
	return fmt.Sprintf("status %d", resp.StatusCode)
}
