// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package crossref

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	// nonAlnumRe matches everything but alphanumerics and hyphens.
	nonAlnumRe = regexp.MustCompile(`[^a-z0-9\-]`)

	// multiSpaceRe collapses runs of whitespace.
	multiSpaceRe = regexp.MustCompile(`\s+`)

	// yearRe matches a leading four-digit year.
	yearRe = regexp.MustCompile(`^[12][0-9]{3}`)

	// wsRe rewrites internal whitespace when joining entity tokens.
	wsRe = regexp.MustCompile(`\s`)
)

// CleanEntity normalizes one entity surface form: lower-case,
// punctuation replaced by spaces (hyphens survive), whitespace
// collapsed and trimmed. Cleaning is idempotent.
func CleanEntity(ent string) string {
	ent = strings.ToLower(ent)
	ent = nonAlnumRe.ReplaceAllString(ent, " ")
	ent = multiSpaceRe.ReplaceAllString(ent, " ")
	return strings.TrimSpace(ent)
}

// FilterEntities cleans each surface form and drops forms of cleaned
// length ≤ 2 and forms beginning with "fig" (figure references leak
// from the extraction source).
func FilterEntities(ents []string) []string {
	var filtered []string
	for _, ent := range ents {
		cleaned := CleanEntity(ent)
		if len(cleaned) <= 2 {
			continue
		}
		if strings.HasPrefix(cleaned, "fig") {
			continue
		}
		filtered = append(filtered, cleaned)
	}
	return filtered
}

// Frequencies cleans every entity list in the table in place and
// returns the corpus-wide count of each cleaned form. The counts feed
// the rare-entity filter: forms with frequency ≤ 1 are excluded at
// indexing time, while the cleaned lists stay in the artifact for
// inspection.
func Frequencies(table Table) map[string]int {
	freqs := make(map[string]int)
	for sha, rec := range table {
		for entType, list := range rec.Entities {
			cleaned := FilterEntities(list)
			rec.Entities[entType] = cleaned
			for _, ent := range cleaned {
				freqs[ent]++
			}
		}
		table[sha] = rec
	}
	return freqs
}

// Untokenize joins entity tokens into one whitespace-separated string
// for the index's entity field. Internal whitespace becomes "_" so each
// multi-word entity stays a single token under a whitespace tokenizer.
func Untokenize(ents []string) string {
	if len(ents) == 0 {
		return ""
	}
	joined := make([]string, len(ents))
	for i, ent := range ents {
		joined[i] = wsRe.ReplaceAllString(ent, "_")
	}
	return strings.Join(joined, " ")
}

// ExtractYear matches a leading four-digit year in a free-text
// publish-time field. No match means the year is unknown, reported as
// 0 rather than an error.
func ExtractYear(publishTime string) int {
	m := yearRe.FindString(publishTime)
	if m == "" {
		return 0
	}
	year, _ := strconv.Atoi(m)
	return year
}
