package crossref

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// --- fixtures ---

// metaHeader mirrors the upstream metadata layout: sha at column 0,
// source 1, doi 3, publish_time 8, journal 10, has_full_text 13.
const metaHeader = "sha,source_x,title,doi,pmcid,pubmed_id,license,abstract,publish_time,authors,journal,ms_id,who,has_full_text"

func metaRow(sha, source, doi, publishTime, journal, hasFullText string) string {
	cols := make([]string, 14)
	cols[colSHA] = sha
	cols[colSource] = source
	cols[colDOI] = doi
	cols[colPublishTime] = publishTime
	cols[colJournal] = journal
	cols[colHasFullText] = hasFullText
	return strings.Join(cols, ",")
}

func nerLine(docID int, entsByType map[string][]string) string {
	var ents []string
	for entType, list := range entsByType {
		for _, text := range list {
			ents = append(ents, fmt.Sprintf(`{"type":%q,"text":%q}`, entType, text))
		}
	}
	return fmt.Sprintf(`{"doc_id":%d,"sents":[{"entities":[%s]}]}`, docID, strings.Join(ents, ","))
}

func writeSources(t *testing.T, metaRows, nerLines []string) (metaPath, nerPath string) {
	t.Helper()
	dir := t.TempDir()
	metaPath = filepath.Join(dir, "metadata.csv")
	nerPath = filepath.Join(dir, "ner.jsonl")

	meta := metaHeader + "\n" + strings.Join(metaRows, "\n") + "\n"
	if err := os.WriteFile(metaPath, []byte(meta), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(nerPath, []byte(strings.Join(nerLines, "\n")+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	return metaPath, nerPath
}

// --- positional join ---

func TestBuildJoinsByPosition(t *testing.T) {
	metaRows := []string{
		metaRow("sha0", "CZI", "10.1/a", "2020-03-13", "Virology", "True"),
		metaRow("", "CZI", "10.1/b", "2019", "Nature", "True"),
		metaRow("sha2", "PMC", "10.1/c", "not a date", "Cell", "False"),
		metaRow("abc123", "CZI", "10.1/d", "2020", "Lancet", "True"),
	}
	nerLines := []string{
		nerLine(0, map[string][]string{"VIRUS": {"covid-19"}}),
		nerLine(1, map[string][]string{"GPE": {"Wuhan"}}),
		nerLine(2, nil),
		nerLine(3, map[string][]string{"GENE": {"ace2", "ACE2 "}}),
	}

	metaPath, nerPath := writeSources(t, metaRows, nerLines)
	table, err := Build(metaPath, nerPath, &bytes.Buffer{})
	if err != nil {
		t.Fatal(err)
	}

	// The empty-identifier row is dropped.
	if len(table) != 3 {
		t.Fatalf("len(table) = %d, want 3", len(table))
	}
	if _, ok := table[""]; ok {
		t.Error("empty identifier must be dropped")
	}

	rec, ok := table["abc123"]
	if !ok {
		t.Fatal("row 3 identifier abc123 missing")
	}
	if got := rec.Entities["GENE"]; len(got) != 2 || got[0] != "ace2" {
		t.Errorf("GENE entities = %v, want raw [ace2, ACE2 ]", got)
	}
	if rec.Journal != "Lancet" || !rec.HasFullText {
		t.Errorf("record = %+v, metadata fields not copied", rec)
	}
	if table["sha2"].HasFullText {
		t.Error("has_full_text False must parse as false")
	}
}

func TestBuildRowCountMismatch(t *testing.T) {
	metaRows := []string{
		metaRow("sha0", "CZI", "", "2020", "", "True"),
		metaRow("sha1", "CZI", "", "2020", "", "True"),
	}
	nerLines := []string{nerLine(0, nil)}

	metaPath, nerPath := writeSources(t, metaRows, nerLines)
	_, err := Build(metaPath, nerPath, &bytes.Buffer{})
	if err == nil {
		t.Fatal("row-count mismatch must fail, not silently corrupt the join")
	}
	if !strings.Contains(err.Error(), "positional join mismatch") {
		t.Errorf("err = %v, want positional join mismatch", err)
	}
}

// --- artifact persistence ---

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "artifacts", "crossref.json")
	table := Table{
		"abc": {
			Entities:    map[string][]string{"VIRUS": {"sars-cov-2"}},
			Source:      "CZI",
			PublishTime: "2020-01-01",
			HasFullText: true,
		},
	}

	if err := Save(table, path); err != nil {
		t.Fatal(err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded["abc"].Entities["VIRUS"][0] != "sars-cov-2" {
		t.Errorf("loaded = %+v, round trip lost data", loaded)
	}
}

func TestLoadOrBuildPrefersArtifact(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "crossref.json")
	if err := Save(Table{"cached": {Source: "CZI"}}, path); err != nil {
		t.Fatal(err)
	}

	// Source paths are bogus: the artifact must win without touching them.
	table, err := LoadOrBuild(filepath.Join(dir, "missing.csv"), filepath.Join(dir, "missing.jsonl"), path, &bytes.Buffer{})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := table["cached"]; !ok {
		t.Error("persisted artifact must be reused")
	}
}

// --- entity cleaning ---

func TestCleanEntity(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"ACE2 ", "ace2"},
		{"SARS-CoV-2", "sars-cov-2"},
		{"spike  (protein)", "spike protein"},
		{"T cell", "t cell"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := CleanEntity(tt.in); got != tt.want {
				t.Errorf("CleanEntity(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCleanEntityIdempotent(t *testing.T) {
	for _, in := range []string{"ACE2 ", "SARS-CoV-2", "spike  (protein)", "angiotensin converting enzyme"} {
		once := CleanEntity(in)
		if twice := CleanEntity(once); twice != once {
			t.Errorf("CleanEntity not idempotent: %q -> %q -> %q", in, once, twice)
		}
	}
}

func TestFilterEntities(t *testing.T) {
	got := FilterEntities([]string{"ACE2 ", "ab", "fig 3", "figure legend", "RNA!", "sars-cov-2"})
	want := []string{"ace2", "rna", "sars-cov-2"}
	if len(got) != len(want) {
		t.Fatalf("FilterEntities = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("FilterEntities[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestFrequenciesCountsCleanedForms(t *testing.T) {
	table := Table{
		"abc123": {Entities: map[string][]string{"GENE": {"ace2", "ACE2 "}}},
		"def456": {Entities: map[string][]string{"VIRUS": {"sars-cov-2"}}},
	}

	freqs := Frequencies(table)
	// Both raw forms of abc123 clean to "ace2": frequency 2 from one
	// document alone.
	if freqs["ace2"] != 2 {
		t.Errorf("freq[ace2] = %d, want 2", freqs["ace2"])
	}
	if freqs["sars-cov-2"] != 1 {
		t.Errorf("freq[sars-cov-2] = %d, want 1", freqs["sars-cov-2"])
	}
	if got := table["abc123"].Entities["GENE"]; len(got) != 2 || got[0] != "ace2" || got[1] != "ace2" {
		t.Errorf("cleaned GENE list = %v, want [ace2 ace2]", got)
	}
}

// --- year extraction ---

func TestExtractYear(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"2020-03-13", 2020},
		{"1998 Dec", 1998},
		{"Dec 2020", 0}, // year must lead the field
		{"0999", 0},
		{"", 0},
		{"3020", 0},
	}
	for _, tt := range tests {
		if got := ExtractYear(tt.in); got != tt.want {
			t.Errorf("ExtractYear(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

// --- untokenize ---

func TestUntokenize(t *testing.T) {
	got := Untokenize([]string{"spike protein", "ace2"})
	if got != "spike_protein ace2" {
		t.Errorf("Untokenize = %q, want %q", got, "spike_protein ace2")
	}
	if Untokenize(nil) != "" {
		t.Error("Untokenize(nil) must be empty")
	}
}
