// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package crossref joins the positional entity-extraction output with
// the identifier-keyed metadata rows into one identifier-keyed table,
// cleans entity surface forms, and computes corpus-wide entity
// frequencies for rare-entity filtering.
package crossref

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Metadata CSV column positions. The file layout is fixed upstream.
const (
	colSHA         = 0
	colSource      = 1
	colDOI         = 3
	colPublishTime = 8
	colJournal     = 10
	colHasFullText = 13
)

// Record holds the cross-referenced metadata and entities for one
// article identifier.
type Record struct {
	// Entities groups raw entity surface strings by entity type.
	// After Frequencies runs, the lists hold cleaned forms.
	Entities map[string][]string `json:"entities"`

	Source      string `json:"source"`
	DOI         string `json:"doi"`
	PublishTime string `json:"publish_time"`
	Journal     string `json:"journal"`
	HasFullText bool   `json:"has_full_text"`
}

// Table maps article identifiers to their cross-referenced records.
type Table map[string]Record

// nerRecord is one line of the entity-extraction JSONL file. Records
// appear in doc-index order; DocID is informational only.
type nerRecord struct {
	DocID int `json:"doc_id"`
	Sents []struct {
		Entities []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"entities"`
	} `json:"sents"`
}

// Build joins the two sources. The join contract is positional: row i
// of the metadata CSV (after the header) corresponds to record i of the
// NER file. The sources carry no shared key, so Build validates that
// the row counts agree before trusting the join; a mismatch is an
// error, not a silent misalignment. Rows with an empty identifier are
// dropped.
func Build(metadataCSV, nerPath string, w io.Writer) (Table, error) {
	ents, err := readNER(nerPath)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(metadataCSV)
	if err != nil {
		return nil, fmt.Errorf("opening metadata file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading metadata rows: %w", err)
	}
	if len(rows) < 1 {
		return nil, fmt.Errorf("metadata file %s has no header row", metadataCSV)
	}
	rows = rows[1:]

	if len(rows) != len(ents) {
		return nil, fmt.Errorf(
			"positional join mismatch: %d metadata rows vs %d entity records; sources were regenerated independently",
			len(rows), len(ents))
	}

	table := make(Table, len(rows))
	dropped := 0
	for i, row := range rows {
		if len(row) <= colHasFullText {
			fmt.Fprintf(w, "warning: metadata row %d has %d columns, skipping\n", i, len(row))
			dropped++
			continue
		}
		sha := strings.TrimSpace(row[colSHA])
		if sha == "" {
			dropped++
			continue
		}
		table[sha] = Record{
			Entities:    ents[i],
			Source:      row[colSource],
			DOI:         row[colDOI],
			PublishTime: row[colPublishTime],
			Journal:     row[colJournal],
			HasFullText: strings.EqualFold(strings.TrimSpace(row[colHasFullText]), "true"),
		}
	}

	fmt.Fprintf(w, "cross-referenced %d articles (%d rows dropped)\n", len(table), dropped)
	return table, nil
}

// readNER reads the entity-extraction JSONL file, collecting each
// record's entities grouped by type, preserving surface order.
func readNER(path string) ([]map[string][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening entity file: %w", err)
	}
	defer f.Close()

	var records []map[string][]string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 1024*1024), 16*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		raw := strings.TrimSpace(scanner.Text())
		if raw == "" {
			continue
		}
		var rec nerRecord
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			return nil, fmt.Errorf("parsing entity record on line %d: %w", line, err)
		}
		byType := make(map[string][]string)
		for _, sent := range rec.Sents {
			for _, ent := range sent.Entities {
				byType[ent.Type] = append(byType[ent.Type], ent.Text)
			}
		}
		records = append(records, byType)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading entity file: %w", err)
	}
	return records, nil
}

// Save persists the table as the cross-reference artifact.
func Save(table Table, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating artifact directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating artifact file: %w", err)
	}
	defer f.Close()
	if err := json.NewEncoder(f).Encode(table); err != nil {
		return fmt.Errorf("writing artifact: %w", err)
	}
	return nil
}

// Load reads a previously saved artifact.
func Load(path string) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading artifact: %w", err)
	}
	var table Table
	if err := json.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("parsing artifact %s: %w", path, err)
	}
	return table, nil
}

// LoadOrBuild returns the persisted artifact when present, otherwise
// builds it from the sources and persists it for reuse across runs.
func LoadOrBuild(metadataCSV, nerPath, artifactPath string, w io.Writer) (Table, error) {
	if _, err := os.Stat(artifactPath); err == nil {
		table, err := Load(artifactPath)
		if err == nil {
			fmt.Fprintf(w, "loaded cross-reference artifact (%d articles)\n", len(table))
			return table, nil
		}
		fmt.Fprintf(w, "warning: artifact unreadable, rebuilding: %v\n", err)
	}

	table, err := Build(metadataCSV, nerPath, w)
	if err != nil {
		return nil, err
	}
	if err := Save(table, artifactPath); err != nil {
		return nil, err
	}
	return table, nil
}
