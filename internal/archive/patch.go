// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package archive

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/chris-arsenault/illuminator/pkg/types"
)

// Patch replaces one sentence span in a document. Original is the text the
// span held at scan time; apply refuses the patch when the document has
// drifted since.
type Patch struct {
	DocumentID  string
	CandidateID string
	Start       int
	End         int
	Original    string
	Replacement string
}

// BuildPatches pairs accepted variants with their candidates to produce
// patches. Every variant must reference a candidate from the same scan.
func BuildPatches(cf types.CandidateFile, accepted []types.Variant) ([]Patch, error) {
	byID := make(map[string]types.Candidate, len(cf.Candidates))
	for _, c := range cf.Candidates {
		byID[c.ID] = c
	}

	patches := make([]Patch, 0, len(accepted))
	for _, v := range accepted {
		c, ok := byID[v.CandidateID]
		if !ok {
			return nil, fmt.Errorf("variant references unknown candidate %s", v.CandidateID)
		}
		patches = append(patches, Patch{
			DocumentID:  c.DocumentID,
			CandidateID: c.ID,
			Start:       c.SentenceStart,
			End:         c.SentenceEnd,
			Original:    c.Sentence,
			Replacement: v.Text,
		})
	}
	return patches, nil
}

// ApplySummary holds counts from an apply run.
type ApplySummary struct {
	Documents int
	Applied   int
	Failed    int
}

// HasFailures reports whether any documents failed to patch.
func (s ApplySummary) HasFailures() bool {
	return s.Failed > 0
}

// ApplyAll applies patches grouped by document. Within a document, patches
// are applied back to front so earlier offsets stay valid. Each document is
// one transaction: if any of its spans fails verification the document is
// left untouched and all its patches count as failed. Progress is written
// to w.
func (s *Store) ApplyAll(ctx context.Context, runID string, patches []Patch, w io.Writer) (ApplySummary, error) {
	var summary ApplySummary

	byDoc := make(map[string][]Patch)
	var docIDs []string
	for _, p := range patches {
		if _, seen := byDoc[p.DocumentID]; !seen {
			docIDs = append(docIDs, p.DocumentID)
		}
		byDoc[p.DocumentID] = append(byDoc[p.DocumentID], p)
	}
	sort.Strings(docIDs)

	for _, docID := range docIDs {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		docPatches := byDoc[docID]
		summary.Documents++

		if err := s.applyDocument(ctx, runID, docID, docPatches); err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", docID, err)
			summary.Failed += len(docPatches)
			continue
		}

		fmt.Fprintf(w, "patched %s (%d sentences)\n", docID, len(docPatches))
		summary.Applied += len(docPatches)
	}

	fmt.Fprintf(w, "\napplied: %d, failed: %d across %d documents\n",
		summary.Applied, summary.Failed, summary.Documents)

	return summary, nil
}

func (s *Store) applyDocument(ctx context.Context, runID, docID string, patches []Patch) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var text string
	if err := tx.QueryRowContext(ctx,
		`SELECT text FROM documents WHERE id = ?`, docID,
	).Scan(&text); err != nil {
		return fmt.Errorf("looking up document: %w", err)
	}

	// Back to front keeps earlier offsets valid as the text shrinks or grows.
	sorted := make([]Patch, len(patches))
	copy(sorted, patches)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Start > sorted[j].Start
	})

	appliedAt := time.Now().UTC().Format(time.RFC3339Nano)

	for _, p := range sorted {
		if p.Start < 0 || p.End > len(text) || p.Start >= p.End {
			return fmt.Errorf("span [%d:%d) out of range for %s", p.Start, p.End, p.CandidateID)
		}
		if text[p.Start:p.End] != p.Original {
			return fmt.Errorf("document changed since scan at [%d:%d) for %s", p.Start, p.End, p.CandidateID)
		}

		text = text[:p.Start] + p.Replacement + text[p.End:]

		_, err := tx.ExecContext(ctx,
			`INSERT INTO revisions (document_id, run_id, candidate_id, start_offset, end_offset, original, replacement, applied_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			docID, runID, p.CandidateID, p.Start, p.End, p.Original, p.Replacement, appliedAt,
		)
		if err != nil {
			return fmt.Errorf("recording revision for %s: %w", p.CandidateID, err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE documents SET text = ?, updated_at = ? WHERE id = ?`,
		text, appliedAt, docID,
	); err != nil {
		return fmt.Errorf("updating document: %w", err)
	}

	return tx.Commit()
}

// Revision is one applied patch as recorded in the archive.
type Revision struct {
	DocumentID  string
	RunID       string
	CandidateID string
	Start       int
	End         int
	Original    string
	Replacement string
	AppliedAt   time.Time
}

// ListRevisions returns the applied revisions for a document, oldest first.
func (s *Store) ListRevisions(ctx context.Context, docID string) ([]Revision, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT document_id, run_id, candidate_id, start_offset, end_offset, original, replacement, applied_at
		 FROM revisions WHERE document_id = ? ORDER BY rowid`, docID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing revisions: %w", err)
	}
	defer rows.Close()

	var revisions []Revision
	for rows.Next() {
		var r Revision
		var appliedAt string
		if err := rows.Scan(&r.DocumentID, &r.RunID, &r.CandidateID, &r.Start, &r.End, &r.Original, &r.Replacement, &appliedAt); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		r.AppliedAt, _ = time.Parse(time.RFC3339Nano, appliedAt)
		revisions = append(revisions, r)
	}

	return revisions, rows.Err()
}
