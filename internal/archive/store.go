// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package archive persists world documents in SQLite and applies accepted
// rewrites back to them.
// Implements: docs/ARCHITECTURE § World Archive.
package archive

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/chris-arsenault/illuminator/pkg/types"
)

const (
	indexDir = "index"
	dbFile   = "world.db"
)

// Store manages the world archive SQLite database.
type Store struct {
	db         *sql.DB
	archiveDir string
	maxResults int
}

// NewStore opens or creates the archive SQLite database at
// archiveDir/index/world.db. It creates the schema if it does not exist.
func NewStore(cfg types.ArchiveConfig) (*Store, error) {
	dbDir := filepath.Join(cfg.ArchiveDir, indexDir)
	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	dbPath := filepath.Join(dbDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{
		db:         db,
		archiveDir: cfg.ArchiveDir,
		maxResults: maxResults,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS documents (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			kind TEXT NOT NULL,
			name TEXT NOT NULL,
			era TEXT,
			text TEXT NOT NULL,
			updated_at TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_documents_kind ON documents(kind)`,
		`CREATE INDEX IF NOT EXISTS idx_documents_era ON documents(era)`,
		`CREATE TABLE IF NOT EXISTS weave_runs (
			id TEXT PRIMARY KEY,
			motif TEXT NOT NULL,
			model TEXT,
			candidates INTEGER,
			batches INTEGER,
			failed_batches INTEGER,
			prompt_tokens INTEGER,
			output_tokens INTEGER,
			started_at TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS revisions (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			document_id TEXT NOT NULL REFERENCES documents(id),
			run_id TEXT,
			candidate_id TEXT,
			start_offset INTEGER NOT NULL,
			end_offset INTEGER NOT NULL,
			original TEXT NOT NULL,
			replacement TEXT NOT NULL,
			applied_at TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_revisions_document ON revisions(document_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual table with triggers for sync.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='documents_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}

	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE documents_fts USING fts5(name, text, content=documents, content_rowid=rowid)`,
			`CREATE TRIGGER documents_ai AFTER INSERT ON documents BEGIN
				INSERT INTO documents_fts(rowid, name, text) VALUES (new.rowid, new.name, new.text);
			END`,
			`CREATE TRIGGER documents_ad AFTER DELETE ON documents BEGIN
				INSERT INTO documents_fts(documents_fts, rowid, name, text) VALUES('delete', old.rowid, old.name, old.text);
			END`,
			`CREATE TRIGGER documents_au AFTER UPDATE ON documents BEGIN
				INSERT INTO documents_fts(documents_fts, rowid, name, text) VALUES('delete', old.rowid, old.name, old.text);
				INSERT INTO documents_fts(rowid, name, text) VALUES (new.rowid, new.name, new.text);
			END`,
		}
		for _, stmt := range ftsStatements {
			if _, err := s.db.Exec(stmt); err != nil {
				return fmt.Errorf("creating FTS infrastructure: %w", err)
			}
		}
	}

	return nil
}

// UpsertDocument inserts or replaces one document by ID.
func (s *Store) UpsertDocument(ctx context.Context, doc types.Document) error {
	if doc.ID == "" {
		return fmt.Errorf("document has no ID")
	}
	updatedAt := doc.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO documents (id, kind, name, era, text, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			kind=excluded.kind, name=excluded.name, era=excluded.era,
			text=excluded.text, updated_at=excluded.updated_at`,
		doc.ID, string(doc.Kind), doc.Name, doc.Era, doc.Text,
		updatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("upserting document %s: %w", doc.ID, err)
	}
	return nil
}

// GetDocument fetches one document by ID.
func (s *Store) GetDocument(ctx context.Context, id string) (types.Document, error) {
	var (
		doc       types.Document
		kind      string
		era       sql.NullString
		updatedAt sql.NullString
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, kind, name, era, text, updated_at FROM documents WHERE id = ?`, id,
	).Scan(&doc.ID, &kind, &doc.Name, &era, &doc.Text, &updatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return doc, fmt.Errorf("document %s not found", id)
		}
		return doc, fmt.Errorf("looking up document: %w", err)
	}
	doc.Kind = types.DocumentKind(kind)
	if era.Valid {
		doc.Era = era.String
	}
	if updatedAt.Valid {
		doc.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedAt.String)
	}
	return doc, nil
}

// ListDocuments returns all documents, optionally filtered by kind, ordered
// by kind then ID. The scan stage iterates this to find candidates.
func (s *Store) ListDocuments(ctx context.Context, kind types.DocumentKind) ([]types.Document, error) {
	query := `SELECT id, kind, name, era, text, updated_at FROM documents`
	var args []any
	if kind != "" {
		query += ` WHERE kind = ?`
		args = append(args, string(kind))
	}
	query += ` ORDER BY kind, id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	defer rows.Close()

	var docs []types.Document
	for rows.Next() {
		var (
			doc       types.Document
			docKind   string
			era       sql.NullString
			updatedAt sql.NullString
		)
		if err := rows.Scan(&doc.ID, &docKind, &doc.Name, &era, &doc.Text, &updatedAt); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		doc.Kind = types.DocumentKind(docKind)
		if era.Valid {
			doc.Era = era.String
		}
		if updatedAt.Valid {
			doc.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedAt.String)
		}
		docs = append(docs, doc)
	}

	return docs, rows.Err()
}
