// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cache persists derived citation artifacts (graph edges and
// importance scores) in a SQLite database keyed by a corpus snapshot
// id. A lookup under a different snapshot or schema version is a miss,
// never a stale hit; callers rebuild and overwrite.
package cache

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/relevance-engine/internal/citegraph"
)

const (
	dbFile = "artifacts.db"

	// schemaVersion invalidates every stored artifact when the layout
	// below changes.
	schemaVersion = 1
)

// Store manages the artifact cache database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the cache database at dir/artifacts.db.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	dbPath := filepath.Join(dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating cache schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS nodes (
			title TEXT PRIMARY KEY
		)`,
		`CREATE TABLE IF NOT EXISTS edges (
			src TEXT NOT NULL,
			dst TEXT NOT NULL,
			PRIMARY KEY (src, dst)
		)`,
		`CREATE TABLE IF NOT EXISTS scores (
			title TEXT PRIMARY KEY,
			score REAL NOT NULL
		)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Load returns the cached graph and scores for the snapshot. ok is
// false when the cache holds nothing, a different snapshot, or an
// artifact written under a different schema version.
func (s *Store) Load(ctx context.Context, snapshot string) (g *citegraph.Graph, scores citegraph.Scores, ok bool, err error) {
	valid, err := s.validFor(ctx, snapshot)
	if err != nil || !valid {
		return nil, nil, false, err
	}

	g = citegraph.NewGraph()

	rows, err := s.db.QueryContext(ctx, `SELECT title FROM nodes`)
	if err != nil {
		return nil, nil, false, fmt.Errorf("reading cached nodes: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var title string
		if err := rows.Scan(&title); err != nil {
			return nil, nil, false, fmt.Errorf("scanning cached node: %w", err)
		}
		g.AddNode(title)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, false, fmt.Errorf("reading cached nodes: %w", err)
	}

	edgeRows, err := s.db.QueryContext(ctx, `SELECT src, dst FROM edges`)
	if err != nil {
		return nil, nil, false, fmt.Errorf("reading cached edges: %w", err)
	}
	defer edgeRows.Close()
	for edgeRows.Next() {
		var src, dst string
		if err := edgeRows.Scan(&src, &dst); err != nil {
			return nil, nil, false, fmt.Errorf("scanning cached edge: %w", err)
		}
		g.AddEdge(src, dst)
	}
	if err := edgeRows.Err(); err != nil {
		return nil, nil, false, fmt.Errorf("reading cached edges: %w", err)
	}

	scores = make(citegraph.Scores)
	scoreRows, err := s.db.QueryContext(ctx, `SELECT title, score FROM scores`)
	if err != nil {
		return nil, nil, false, fmt.Errorf("reading cached scores: %w", err)
	}
	defer scoreRows.Close()
	for scoreRows.Next() {
		var title string
		var score float64
		if err := scoreRows.Scan(&title, &score); err != nil {
			return nil, nil, false, fmt.Errorf("scanning cached score: %w", err)
		}
		scores[title] = score
	}
	if err := scoreRows.Err(); err != nil {
		return nil, nil, false, fmt.Errorf("reading cached scores: %w", err)
	}

	return g, scores, true, nil
}

// Save replaces the cached artifacts with the graph and scores derived
// from the given snapshot.
func (s *Store) Save(ctx context.Context, snapshot string, g *citegraph.Graph, scores citegraph.Scores) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning cache transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"nodes", "edges", "scores"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return fmt.Errorf("clearing cached %s: %w", table, err)
		}
	}

	nodeStmt, err := tx.PrepareContext(ctx, `INSERT INTO nodes (title) VALUES (?)`)
	if err != nil {
		return fmt.Errorf("preparing node insert: %w", err)
	}
	defer nodeStmt.Close()

	edgeStmt, err := tx.PrepareContext(ctx, `INSERT INTO edges (src, dst) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing edge insert: %w", err)
	}
	defer edgeStmt.Close()

	for _, title := range g.Nodes() {
		if _, err := nodeStmt.ExecContext(ctx, title); err != nil {
			return fmt.Errorf("inserting cached node: %w", err)
		}
		for _, succ := range g.Successors(title) {
			if _, err := edgeStmt.ExecContext(ctx, title, succ); err != nil {
				return fmt.Errorf("inserting cached edge: %w", err)
			}
		}
	}

	scoreStmt, err := tx.PrepareContext(ctx, `INSERT INTO scores (title, score) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing score insert: %w", err)
	}
	defer scoreStmt.Close()
	for title, score := range scores {
		if _, err := scoreStmt.ExecContext(ctx, title, score); err != nil {
			return fmt.Errorf("inserting cached score: %w", err)
		}
	}

	for key, value := range map[string]string{
		"schema_version": strconv.Itoa(schemaVersion),
		"snapshot_id":    snapshot,
	} {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO meta (key, value) VALUES (?, ?)
			 ON CONFLICT(key) DO UPDATE SET value=excluded.value`,
			key, value,
		)
		if err != nil {
			return fmt.Errorf("writing cache metadata: %w", err)
		}
	}

	return tx.Commit()
}

// validFor reports whether the stored artifacts were written for the
// given snapshot under the current schema version.
func (s *Store) validFor(ctx context.Context, snapshot string) (bool, error) {
	var version string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM meta WHERE key = 'schema_version'`).Scan(&version)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("reading cache schema version: %w", err)
	}
	if version != strconv.Itoa(schemaVersion) {
		return false, nil
	}

	var stored string
	err = s.db.QueryRowContext(ctx,
		`SELECT value FROM meta WHERE key = 'snapshot_id'`).Scan(&stored)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("reading cache snapshot id: %w", err)
	}
	return stored == snapshot, nil
}
