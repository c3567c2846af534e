// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/relevance-engine/internal/query"
	"github.com/pdiddy/relevance-engine/pkg/types"
)

// --- fake engine ---

// fakeEngine records requests and replays canned responses per
// method+path.
type fakeEngine struct {
	t         *testing.T
	responses map[string]fakeResponse
	requests  []recordedRequest
}

type fakeResponse struct {
	status int
	body   string
}

type recordedRequest struct {
	method string
	path   string
	body   string
}

func (f *fakeEngine) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(r.Body)
	require.NoError(f.t, err)
	f.requests = append(f.requests, recordedRequest{
		method: r.Method,
		path:   r.URL.Path,
		body:   string(data),
	})

	resp, ok := f.responses[r.Method+" "+r.URL.Path]
	if !ok {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.status)
	w.Write([]byte(resp.body))
}

func newTestClient(t *testing.T, engine *fakeEngine) *Client {
	t.Helper()
	srv := httptest.NewServer(engine)
	t.Cleanup(srv.Close)

	client, err := NewClient(types.IndexConfig{
		Addresses: []string{srv.URL},
		IndexName: "test_index",
		BulkSize:  2,
	}, "")
	require.NoError(t, err)
	return client
}

// --- EnsureIndex ---

func TestEnsureIndexCreatesWhenMissing(t *testing.T) {
	engine := &fakeEngine{t: t, responses: map[string]fakeResponse{
		"HEAD /test_index": {status: http.StatusNotFound},
		"PUT /test_index":  {status: http.StatusOK, body: `{"acknowledged":true}`},
	}}
	client := newTestClient(t, engine)

	require.NoError(t, client.EnsureIndex(context.Background(), false))

	var put *recordedRequest
	for i := range engine.requests {
		if engine.requests[i].method == http.MethodPut {
			put = &engine.requests[i]
		}
	}
	require.NotNil(t, put, "expected index creation request")
	assert.Contains(t, put.body, "text_analyzer")
	assert.Contains(t, put.body, "entity_analyzer")
	assert.Contains(t, put.body, "porter_stem")
}

func TestEnsureIndexRecreatesExisting(t *testing.T) {
	engine := &fakeEngine{t: t, responses: map[string]fakeResponse{
		"HEAD /test_index":   {status: http.StatusOK},
		"DELETE /test_index": {status: http.StatusOK, body: `{"acknowledged":true}`},
		"PUT /test_index":    {status: http.StatusOK, body: `{"acknowledged":true}`},
	}}
	client := newTestClient(t, engine)

	require.NoError(t, client.EnsureIndex(context.Background(), true))

	var methods []string
	for _, req := range engine.requests {
		methods = append(methods, req.method)
	}
	assert.Equal(t, []string{http.MethodHead, http.MethodDelete, http.MethodPut}, methods)
}

func TestEnsureIndexLeavesExistingWithoutRecreate(t *testing.T) {
	engine := &fakeEngine{t: t, responses: map[string]fakeResponse{
		"HEAD /test_index": {status: http.StatusOK},
	}}
	client := newTestClient(t, engine)

	require.NoError(t, client.EnsureIndex(context.Background(), false))
	require.Len(t, engine.requests, 1)
	assert.Equal(t, http.MethodHead, engine.requests[0].method)
}

// --- BulkIndex ---

func bulkOKItems(ids ...string) string {
	var items []string
	for _, id := range ids {
		items = append(items, `{"index":{"_id":"`+id+`","status":201}}`)
	}
	return `{"errors":false,"items":[` + strings.Join(items, ",") + `]}`
}

func TestBulkIndexBatchesByConfiguredSize(t *testing.T) {
	engine := &fakeEngine{t: t, responses: map[string]fakeResponse{
		"POST /_bulk": {status: http.StatusOK, body: bulkOKItems("0", "1")},
	}}
	client := newTestClient(t, engine)

	docs := []types.IndexDocument{
		{Title: "alpha"}, {Title: "beta"}, {Title: "gamma"},
	}
	var out bytes.Buffer
	summary, err := client.BulkIndex(context.Background(), docs, &out)
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Indexed)
	assert.Equal(t, 0, summary.Failed)
	assert.Equal(t, 3, summary.Total())
	assert.False(t, summary.HasFailures())

	// bulk size 2: three documents need two submissions
	var bulks []recordedRequest
	for _, req := range engine.requests {
		if req.path == "/_bulk" {
			bulks = append(bulks, req)
		}
	}
	require.Len(t, bulks, 2)
	assert.Contains(t, bulks[0].body, `"_id":"0"`)
	assert.Contains(t, bulks[0].body, `"_id":"1"`)
	assert.Contains(t, bulks[1].body, `"_id":"2"`)
}

func TestBulkIndexCountsRejectedDocuments(t *testing.T) {
	body := `{"errors":true,"items":[` +
		`{"index":{"_id":"0","status":201}},` +
		`{"index":{"_id":"1","status":400,"error":{"type":"mapper_parsing_exception","reason":"bad field"}}}` +
		`]}`
	engine := &fakeEngine{t: t, responses: map[string]fakeResponse{
		"POST /_bulk": {status: http.StatusOK, body: body},
	}}
	client := newTestClient(t, engine)

	docs := []types.IndexDocument{{Title: "good"}, {Title: "bad"}}
	var out bytes.Buffer
	summary, err := client.BulkIndex(context.Background(), docs, &out)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Indexed)
	assert.Equal(t, 1, summary.Failed)
	assert.True(t, summary.HasFailures())
	assert.Contains(t, out.String(), "warning: document 1 rejected")
	assert.Contains(t, out.String(), "mapper_parsing_exception")
}

func TestBulkIndexUnreachableEngine(t *testing.T) {
	client, err := NewClient(types.IndexConfig{
		Addresses: []string{"http://127.0.0.1:1"},
		IndexName: "test_index",
		BulkSize:  10,
	}, "")
	require.NoError(t, err)

	_, err = client.BulkIndex(context.Background(), []types.IndexDocument{{Title: "x"}}, io.Discard)
	require.ErrorIs(t, err, ErrUnavailable)
}

// --- Search ---

const searchHits = `{
	"hits": {
		"total": {"value": 42},
		"hits": [
			{
				"_id": "7",
				"_score": 2.5,
				"_source": {"title": "viral entry", "id_num": "sha7"},
				"highlight": {"abstract": ["the <mark>spike</mark> protein"]}
			},
			{
				"_id": "12",
				"_score": 1.25,
				"_source": {"title": "receptor binding", "id_num": "sha12"}
			}
		]
	}
}`

func TestSearchParsesHits(t *testing.T) {
	engine := &fakeEngine{t: t, responses: map[string]fakeResponse{
		"POST /test_index/_search": {status: http.StatusOK, body: searchHits},
	}}
	client := newTestClient(t, engine)

	plan := query.Plan{Root: query.MatchAll{}, From: 0, Size: 10}
	result, err := client.Search(context.Background(), plan)
	require.NoError(t, err)

	assert.Equal(t, 42, result.Total)
	require.Len(t, result.Hits, 2)
	assert.Equal(t, 7, result.Hits[0].ID)
	assert.Equal(t, 2.5, result.Hits[0].Score)
	assert.Equal(t, "viral entry", result.Hits[0].Doc.Title)
	assert.Equal(t, []string{"the <mark>spike</mark> protein"}, result.Hits[0].Highlights["abstract"])
	assert.Equal(t, 12, result.Hits[1].ID)
	assert.Nil(t, result.Hits[1].Highlights)
}

func TestSearchBodyCarriesPlanOptions(t *testing.T) {
	engine := &fakeEngine{t: t, responses: map[string]fakeResponse{
		"POST /test_index/_search": {status: http.StatusOK, body: `{"hits":{"total":{"value":0},"hits":[]}}`},
	}}
	client := newTestClient(t, engine)

	plan := query.Plan{
		Root:             query.MatchAll{},
		From:             20,
		Size:             10,
		SortByImportance: true,
		Highlight:        true,
	}
	_, err := client.Search(context.Background(), plan)
	require.NoError(t, err)

	require.NotEmpty(t, engine.requests)
	var body map[string]any
	require.NoError(t, json.Unmarshal([]byte(engine.requests[len(engine.requests)-1].body), &body))

	assert.Equal(t, float64(20), body["from"])
	assert.Equal(t, float64(10), body["size"])
	require.Contains(t, body, "sort")
	require.Contains(t, body, "highlight")

	highlight := body["highlight"].(map[string]any)
	assert.Equal(t, []any{"<mark>"}, highlight["pre_tags"])
	fields := highlight["fields"].(map[string]any)
	assert.Contains(t, fields, "title")
	assert.Contains(t, fields, "abstract")
}

// --- Get ---

func TestGetReturnsDocument(t *testing.T) {
	engine := &fakeEngine{t: t, responses: map[string]fakeResponse{
		"GET /test_index/_doc/5": {status: http.StatusOK, body: `{"_source":{"title":"host range","id_num":"sha5","pr":0.01}}`},
	}}
	client := newTestClient(t, engine)

	doc, err := client.Get(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, "host range", doc.Title)
	assert.Equal(t, "sha5", doc.IDNum)
	assert.Equal(t, 0.01, doc.PR)
}

func TestGetMissingDocument(t *testing.T) {
	engine := &fakeEngine{t: t, responses: map[string]fakeResponse{
		"GET /test_index/_doc/99": {status: http.StatusNotFound, body: `{"found":false}`},
	}}
	client := newTestClient(t, engine)

	_, err := client.Get(context.Background(), 99)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}
