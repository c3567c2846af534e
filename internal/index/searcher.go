// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"

	"github.com/pdiddy/relevance-engine/internal/query"
	"github.com/pdiddy/relevance-engine/pkg/types"
)

// Hit is one matched document with its relevance score and any
// highlighted fragments keyed by field name.
type Hit struct {
	ID         int
	Score      float64
	Doc        types.IndexDocument
	Highlights map[string][]string
}

// Result holds one page of search hits plus the total match count.
type Result struct {
	Total int
	Hits  []Hit
}

// Search executes a compiled query plan against the article index.
func (c *Client) Search(ctx context.Context, plan query.Plan) (Result, error) {
	body := map[string]any{
		"query": plan.Root.Compile(),
		"from":  plan.From,
		"size":  plan.Size,
	}
	if plan.SortByImportance {
		body["sort"] = []any{map[string]any{"pr": map[string]any{"order": "desc"}}}
	}
	if plan.Highlight {
		body["highlight"] = map[string]any{
			"pre_tags":  []string{"<mark>"},
			"post_tags": []string{"</mark>"},
			"fields": map[string]any{
				"title":    map[string]any{"number_of_fragments": 1},
				"abstract": map[string]any{"number_of_fragments": 1},
			},
		}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return Result{}, fmt.Errorf("encoding search body: %w", err)
	}

	req := opensearchapi.SearchRequest{
		Index: []string{c.indexName},
		Body:  bytes.NewReader(payload),
	}
	resp, err := req.Do(ctx, c.os)
	if err != nil {
		return Result{}, asUnavailable(err)
	}
	defer resp.Body.Close()
	if resp.IsError() {
		return Result{}, fmt.Errorf("search: %s", responseError(resp))
	}

	var searchResp struct {
		Hits struct {
			Total struct {
				Value int `json:"value"`
			} `json:"total"`
			Hits []struct {
				ID        string              `json:"_id"`
				Score     float64             `json:"_score"`
				Source    types.IndexDocument `json:"_source"`
				Highlight map[string][]string `json:"highlight"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return Result{}, fmt.Errorf("decoding search response: %w", err)
	}

	result := Result{Total: searchResp.Hits.Total.Value}
	for _, h := range searchResp.Hits.Hits {
		id, err := strconv.Atoi(h.ID)
		if err != nil {
			return Result{}, fmt.Errorf("non-numeric document id %q", h.ID)
		}
		result.Hits = append(result.Hits, Hit{
			ID:         id,
			Score:      h.Score,
			Doc:        h.Source,
			Highlights: h.Highlight,
		})
	}
	return result, nil
}

// Get fetches a single document by its doc index. It returns an error
// when the document does not exist.
func (c *Client) Get(ctx context.Context, docID int) (types.IndexDocument, error) {
	req := opensearchapi.GetRequest{
		Index:      c.indexName,
		DocumentID: strconv.Itoa(docID),
	}
	resp, err := req.Do(ctx, c.os)
	if err != nil {
		return types.IndexDocument{}, asUnavailable(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return types.IndexDocument{}, fmt.Errorf("document %d not found", docID)
	}
	if resp.IsError() {
		return types.IndexDocument{}, fmt.Errorf("fetching document %d: %s", docID, responseError(resp))
	}

	var getResp struct {
		Source types.IndexDocument `json:"_source"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&getResp); err != nil {
		return types.IndexDocument{}, fmt.Errorf("decoding document %d: %w", docID, err)
	}
	return getResp.Source, nil
}
