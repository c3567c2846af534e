// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"reflect"
	"strings"
	"testing"

	"github.com/pdiddy/relevance-engine/internal/index"
	"github.com/pdiddy/relevance-engine/pkg/types"
)

func TestSummarizeEntitiesAreDistinct(t *testing.T) {
	// A document mentioning the same entity twice repeats its token in
	// the ents field; the summary lists each token once, first seen
	// first.
	r := summarize("0", index.Hit{Doc: types.IndexDocument{Ents: "ace2 ace2 tmprss2 ace2"}})

	want := []string{"ace2", "tmprss2"}
	if !reflect.DeepEqual(r.Entities, want) {
		t.Errorf("Entities = %v, want %v", r.Entities, want)
	}
}

func TestSummarizeBodyExcerpt(t *testing.T) {
	body := strings.Repeat("spike binds ace2. ", 40) // well past the bound
	r := summarize("3", index.Hit{Doc: types.IndexDocument{BodyText: body}})

	if r.Body == "" {
		t.Fatal("Body excerpt missing")
	}
	if got := len([]rune(r.Body)); got > bodyExcerptRunes {
		t.Errorf("Body excerpt = %d runes, want at most %d", got, bodyExcerptRunes)
	}
	if !strings.HasSuffix(r.Body, "...") {
		t.Errorf("Body = %q, truncation must be marked", r.Body)
	}
	if !strings.HasPrefix(r.Body, "spike binds ace2.") {
		t.Errorf("Body = %q, want a prefix of the body text", r.Body)
	}

	short := summarize("4", index.Hit{Doc: types.IndexDocument{BodyText: "Short body."}})
	if short.Body != "Short body." {
		t.Errorf("Body = %q, short bodies must pass through untouched", short.Body)
	}
}

func TestSummarizePrefersHighlights(t *testing.T) {
	hit := index.Hit{
		Doc: types.IndexDocument{Title: "Plain Title", Abstract: "Plain abstract."},
		Highlights: map[string][]string{
			"title":    {"Plain <mark>Title</mark>"},
			"abstract": {"Plain <mark>abstract</mark>."},
		},
	}
	r := summarize("7", hit)

	if r.Title != "Plain <mark>Title</mark>" {
		t.Errorf("Title = %q, want the highlighted fragment", r.Title)
	}
	if r.Excerpt != "Plain <mark>abstract</mark>." {
		t.Errorf("Excerpt = %q, want the highlighted fragment", r.Excerpt)
	}
	if r.Abstract != "Plain abstract." {
		t.Errorf("Abstract = %q, raw abstract must survive alongside the excerpt", r.Abstract)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"short passes through", "short title", 70, "short title"},
		{"exact length passes through", strings.Repeat("a", 70), 70, strings.Repeat("a", 70)},
		{"long is cut and marked", strings.Repeat("a", 80), 70, strings.Repeat("a", 67) + "..."},
		{"multibyte cut stays valid", strings.Repeat("é", 80), 70, strings.Repeat("é", 67) + "..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncate(tt.in, tt.max)
			if got != tt.want {
				t.Errorf("truncate = %q, want %q", got, tt.want)
			}
			if !strings.HasPrefix(got, string([]rune(tt.in)[:1])) {
				t.Errorf("truncate = %q, first rune mangled", got)
			}
		})
	}
}
