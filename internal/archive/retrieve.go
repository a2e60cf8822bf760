// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package archive

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/chris-arsenault/illuminator/pkg/types"
)

// QueryOptions holds parameters for archive queries.
type QueryOptions struct {
	// Query is the FTS5 full-text search string over names and prose.
	Query string

	// Kind filters by document kind.
	Kind types.DocumentKind

	// Era filters by era name.
	Era string

	// MaxResults limits result count. Zero uses store default.
	MaxResults int
}

// IsEmpty reports whether the query has no search terms or filters.
func (q QueryOptions) IsEmpty() bool {
	return q.Query == "" && q.Kind == "" && q.Era == ""
}

// QueryResult is a document with its FTS rank when full-text search was used.
type QueryResult struct {
	types.Document
	Rank float64 `json:"rank" yaml:"rank"`
}

// Retrieve queries the archive with optional full-text search and structured
// filters. Results are ranked by relevance for full-text queries or sorted by
// kind and ID for structured-only queries.
func (s *Store) Retrieve(ctx context.Context, opts QueryOptions) ([]QueryResult, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb     strings.Builder
		args   []any
		useFTS = opts.Query != ""
	)

	if useFTS {
		qb.WriteString(
			`SELECT d.id, d.kind, d.name, d.era, d.text, d.updated_at, documents_fts.rank
			FROM documents_fts
			JOIN documents d ON d.rowid = documents_fts.rowid
			WHERE documents_fts MATCH ?`)
		args = append(args, opts.Query)
	} else {
		qb.WriteString(
			`SELECT d.id, d.kind, d.name, d.era, d.text, d.updated_at, 0 AS rank
			FROM documents d
			WHERE 1=1`)
	}

	if opts.Kind != "" {
		qb.WriteString(` AND d.kind = ?`)
		args = append(args, string(opts.Kind))
	}

	if opts.Era != "" {
		qb.WriteString(` AND d.era = ?`)
		args = append(args, opts.Era)
	}

	if useFTS {
		qb.WriteString(` ORDER BY documents_fts.rank`)
	} else {
		qb.WriteString(` ORDER BY d.kind, d.id`)
	}

	qb.WriteString(` LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying archive: %w", err)
	}
	defer rows.Close()

	var results []QueryResult
	for rows.Next() {
		var (
			qr        QueryResult
			kind      string
			era       sql.NullString
			updatedAt sql.NullString
		)

		if err := rows.Scan(&qr.ID, &kind, &qr.Name, &era, &qr.Text, &updatedAt, &qr.Rank); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}

		qr.Kind = types.DocumentKind(kind)
		if era.Valid {
			qr.Era = era.String
		}
		if updatedAt.Valid {
			qr.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedAt.String)
		}

		results = append(results, qr)
	}

	return results, rows.Err()
}
