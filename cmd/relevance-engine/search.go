// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/relevance-engine/internal/crossref"
	"github.com/pdiddy/relevance-engine/internal/index"
	"github.com/pdiddy/relevance-engine/internal/query"
	"github.com/pdiddy/relevance-engine/internal/similar"
	"github.com/pdiddy/relevance-engine/pkg/types"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Query the retrieval index",
	Long: `Search runs a serving-time query against the retrieval index. The default
mode is free-text search over title, abstract, body and anchor text with
optional author, publish-year and language filters; with no terms at all it
lists the corpus ordered by citation importance.

--cite-like and --ent-like switch to similarity modes against a reference
document (by doc id): shared citations or shared named entities. --entity
looks up documents mentioning one entity token.

An unreachable index or an empty page renders as an empty result set with a
message; neither is a command failure.`,
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().String("query", "", "free-text query")
	searchCmd.Flags().String("authors", "", `author filter: authors separated by ";", names by spaces`)
	searchCmd.Flags().Int("from", 0, "earliest publish year (inclusive)")
	searchCmd.Flags().Int("to", 0, "latest publish year (inclusive)")
	searchCmd.Flags().Bool("english", false, "restrict to documents classified as English")
	searchCmd.Flags().String("operator", "or", "free-text term combination: and | or")
	searchCmd.Flags().Int("page", 1, "1-based result page (10 results per page)")
	searchCmd.Flags().Int("cite-like", -1, "doc id: rank by shared citations with this document")
	searchCmd.Flags().Int("ent-like", -1, "doc id: rank by shared named entities with this document")
	searchCmd.Flags().String("entity", "", "look up documents mentioning one entity token")
	searchCmd.Flags().Bool("only-overlap", false, "drop citation-similarity results sharing no citations")
	searchCmd.Flags().String("request-file", "", "read the full request from a YAML file instead of flags")
	searchCmd.Flags().Bool("json", false, "output results as JSON")
	searchCmd.Flags().String("addresses", "", "comma-separated index engine endpoints")
	searchCmd.Flags().String("index-name", "", "target index name")
	searchCmd.Flags().String("username", "", "index basic-auth username")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	req, err := requestFromFlags(cmd)
	if err != nil {
		return err
	}

	client, err := index.NewClient(indexConfigFromFlags(cmd), indexPassword())
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	onlyOverlap, _ := cmd.Flags().GetBool("only-overlap")

	resp, err := executeSearch(context.Background(), client, req, onlyOverlap)
	if err != nil {
		return err
	}
	return renderResults(req, resp, jsonOutput)
}

func requestFromFlags(cmd *cobra.Command) (types.SearchRequest, error) {
	if path, _ := cmd.Flags().GetString("request-file"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return types.SearchRequest{}, fmt.Errorf("reading request file: %w", err)
		}
		var req types.SearchRequest
		if err := yaml.Unmarshal(data, &req); err != nil {
			return types.SearchRequest{}, fmt.Errorf("parsing request file %s: %w", path, err)
		}
		return req, nil
	}

	freeText, _ := cmd.Flags().GetString("query")
	authors, _ := cmd.Flags().GetString("authors")
	yearFrom, _ := cmd.Flags().GetInt("from")
	yearTo, _ := cmd.Flags().GetInt("to")
	english, _ := cmd.Flags().GetBool("english")
	operator, _ := cmd.Flags().GetString("operator")
	page, _ := cmd.Flags().GetInt("page")
	citeLike, _ := cmd.Flags().GetInt("cite-like")
	entLike, _ := cmd.Flags().GetInt("ent-like")
	entity, _ := cmd.Flags().GetString("entity")

	if operator != string(types.OpConjunctive) && operator != string(types.OpDisjunctive) {
		return types.SearchRequest{}, fmt.Errorf("unsupported operator %q: use and or or", operator)
	}

	req := types.SearchRequest{
		Kind:        types.KindStandard,
		FreeText:    freeText,
		Authors:     authors,
		YearFrom:    yearFrom,
		YearTo:      yearTo,
		EnglishOnly: english,
		Operator:    types.Operator(operator),
		Page:        page,
	}

	switch {
	case citeLike >= 0:
		req.Kind = types.KindCiteSimilar
		req.RefDocID = strconv.Itoa(citeLike)
	case entLike >= 0:
		req.Kind = types.KindEntitySimilar
		req.RefDocID = strconv.Itoa(entLike)
	case entity != "":
		req.Kind = types.KindEntityMatch
		req.Entity = crossref.CleanEntity(entity)
	}
	return req, nil
}

func indexConfigFromFlags(cmd *cobra.Command) types.IndexConfig {
	var addresses []string
	if raw := stringSetting(cmd, "addresses", "index.addresses", ""); raw != "" {
		for _, addr := range strings.Split(raw, ",") {
			if addr = strings.TrimSpace(addr); addr != "" {
				addresses = append(addresses, addr)
			}
		}
	}
	return types.IndexConfig{
		Addresses: addresses,
		IndexName: stringSetting(cmd, "index-name", "index.index_name", index.DefaultIndexName),
		Username:  stringSetting(cmd, "username", "index.username", ""),
	}
}

// executeSearch composes and runs the query, annotating citation
// similarity results with their overlap counts. Index unavailability
// becomes an empty response with a message rather than an error.
func executeSearch(ctx context.Context, client *index.Client, req types.SearchRequest, onlyOverlap bool) (types.SearchResponse, error) {
	var seed types.IndexDocument
	var seedTitles []string

	if req.Kind == types.KindCiteSimilar || req.Kind == types.KindEntitySimilar {
		refID, err := strconv.Atoi(req.RefDocID)
		if err != nil {
			return types.SearchResponse{}, fmt.Errorf("reference document id %q is not numeric", req.RefDocID)
		}
		seed, err = client.Get(ctx, refID)
		if errors.Is(err, index.ErrUnavailable) {
			return types.SearchResponse{Message: "index unavailable, try again later"}, nil
		}
		if err != nil {
			return types.SearchResponse{}, err
		}
		for title := range seed.CitationTitleSet() {
			seedTitles = append(seedTitles, title)
		}
	}

	plan, err := query.Compose(req, seedTitles)
	if err != nil {
		return types.SearchResponse{}, err
	}

	result, err := client.Search(ctx, *plan)
	if errors.Is(err, index.ErrUnavailable) {
		return types.SearchResponse{Message: "index unavailable, try again later"}, nil
	}
	if err != nil {
		return types.SearchResponse{}, err
	}

	resp := types.SearchResponse{Total: int64(result.Total)}
	docs := make(map[string]types.IndexDocument, len(result.Hits))
	for _, hit := range result.Hits {
		id := strconv.Itoa(hit.ID)
		docs[id] = hit.Doc
		resp.Results = append(resp.Results, summarize(id, hit))
	}

	if req.Kind == types.KindCiteSimilar {
		resp.Results = similar.Annotate(seed, req.RefDocID, resp.Results, docs)
		if onlyOverlap {
			resp.Results = similar.FilterZeroOverlap(resp.Results)
		}
	}

	if len(resp.Results) == 0 && resp.Message == "" {
		resp.Message = "no matching documents"
	}
	return resp, nil
}

// bodyExcerptRunes bounds the body excerpt carried per result.
const bodyExcerptRunes = 300

// summarize flattens one hit into a result entry, preferring the
// index's highlighted fragments over the raw fields.
func summarize(id string, hit index.Hit) types.ResultSummary {
	r := types.ResultSummary{
		DocID:    id,
		Score:    hit.Score,
		Title:    hit.Doc.Title,
		Abstract: hit.Doc.Abstract,
		Body:     truncate(hit.Doc.BodyText, bodyExcerptRunes),
	}
	if marked, ok := hit.Highlights["title"]; ok && len(marked) > 0 {
		r.Title = marked[0]
	}
	if marked, ok := hit.Highlights["abstract"]; ok && len(marked) > 0 {
		r.Excerpt = marked[0]
	}
	for _, cit := range hit.Doc.Citations {
		r.Citations = append(r.Citations, cit.Title)
	}
	if hit.Doc.Ents != "" {
		r.Entities = distinctTokens(hit.Doc.Ents)
	}
	return r
}

// distinctTokens splits a whitespace-joined token string, keeping each
// token once in first appearance order. The entity field repeats a
// token when a document mentions the same entity more than once.
func distinctTokens(s string) []string {
	seen := make(map[string]struct{})
	var tokens []string
	for _, tok := range strings.Fields(s) {
		if _, ok := seen[tok]; ok {
			continue
		}
		seen[tok] = struct{}{}
		tokens = append(tokens, tok)
	}
	return tokens
}

// truncate shortens s to at most max runes, marking a cut with "...".
// Cutting on runes keeps multibyte titles intact.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}

func renderResults(req types.SearchRequest, resp types.SearchResponse, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}

	if len(resp.Results) == 0 {
		if resp.Message != "" {
			fmt.Println(resp.Message)
		} else {
			fmt.Println("no matching documents")
		}
		return nil
	}

	withOverlap := req.Kind == types.KindCiteSimilar

	if withOverlap {
		fmt.Printf("%-4s  %-6s  %-8s  %-7s  %s\n", "Rank", "Doc", "Score", "Overlap", "Title")
		fmt.Println(strings.Repeat("-", 100))
	} else {
		fmt.Printf("%-4s  %-6s  %-8s  %s\n", "Rank", "Doc", "Score", "Title")
		fmt.Println(strings.Repeat("-", 92))
	}

	offset := (req.Page - 1) * types.PageSize
	if req.Page < 1 {
		offset = 0
	}
	for i, r := range resp.Results {
		title := truncate(r.Title, 70)
		if withOverlap {
			fmt.Printf("%-4d  %-6s  %-8.3f  %-7d  %s\n", offset+i+1, r.DocID, r.Score, r.Overlap, title)
		} else {
			fmt.Printf("%-4d  %-6s  %-8.3f  %s\n", offset+i+1, r.DocID, r.Score, title)
		}
		if r.Excerpt != "" {
			fmt.Printf("      %s\n", r.Excerpt)
		}
	}

	fmt.Printf("\n%d of %d results (page %d)\n", len(resp.Results), resp.Total, req.Page)
	return nil
}
