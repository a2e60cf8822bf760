// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package archive

import (
	"context"
	"fmt"
	"time"

	"github.com/chris-arsenault/illuminator/pkg/types"
)

// RecordRun stores the bookkeeping row for one generate run. Re-recording
// the same run ID overwrites the earlier row.
func (s *Store) RecordRun(ctx context.Context, rec types.RunRecord) error {
	if rec.ID == "" {
		return fmt.Errorf("run record has no ID")
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO weave_runs (id, motif, model, candidates, batches, failed_batches, prompt_tokens, output_tokens, started_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			motif=excluded.motif, model=excluded.model, candidates=excluded.candidates,
			batches=excluded.batches, failed_batches=excluded.failed_batches,
			prompt_tokens=excluded.prompt_tokens, output_tokens=excluded.output_tokens,
			started_at=excluded.started_at`,
		rec.ID, rec.Motif, rec.Model, rec.Candidates, rec.Batches, rec.FailedBatches,
		rec.PromptTokens, rec.OutputTokens, rec.StartedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("recording run %s: %w", rec.ID, err)
	}
	return nil
}

// ListRuns returns all recorded runs, newest first. The cost report
// aggregates token counts from these.
func (s *Store) ListRuns(ctx context.Context) ([]types.RunRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, motif, model, candidates, batches, failed_batches, prompt_tokens, output_tokens, started_at
		 FROM weave_runs ORDER BY started_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var runs []types.RunRecord
	for rows.Next() {
		var rec types.RunRecord
		var startedAt string
		if err := rows.Scan(&rec.ID, &rec.Motif, &rec.Model, &rec.Candidates, &rec.Batches,
			&rec.FailedBatches, &rec.PromptTokens, &rec.OutputTokens, &startedAt); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		rec.StartedAt, _ = time.Parse(time.RFC3339Nano, startedAt)
		runs = append(runs, rec)
	}

	return runs, rows.Err()
}
