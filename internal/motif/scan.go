// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package motif

import (
	"fmt"
	"io"

	"github.com/chris-arsenault/illuminator/pkg/types"
)

// Scan locates concept matches in one document and returns at most one
// candidate per distinct sentence span, in order of appearance. startIndex
// seeds the global sequence numbering; the next unused sequence number is
// returned so a multi-document scan can thread the counter through calls.
//
// A document already containing the target phrase returns zero candidates.
// Empty or match-free text is a valid zero-result path, not an error; a
// document without an ID is a contract violation and fails fast.
func (s *Scanner) Scan(doc types.Document, startIndex int) ([]types.Candidate, int, error) {
	if doc.ID == "" {
		return nil, startIndex, fmt.Errorf("document has no ID")
	}
	if s.Resolved(doc.Text) {
		return nil, startIndex, nil
	}

	seq := startIndex
	seen := make(map[string]bool)
	var candidates []types.Candidate

	for _, span := range s.concept.FindAllStringIndex(doc.Text, -1) {
		start, end := sentenceBounds(doc.Text, span[0], span[1])

		// One candidate per sentence: later matches inside an already-seen
		// span are discarded.
		key := fmt.Sprintf("%d:%d", start, end)
		if seen[key] {
			continue
		}
		seen[key] = true

		before, after := contextWindow(doc.Text, start, end, s.radius)
		candidates = append(candidates, types.Candidate{
			ID:             fmt.Sprintf("%s:%d", doc.ID, start),
			Seq:            seq,
			DocumentID:     doc.ID,
			DocumentLabel:  doc.Name,
			Sentence:       doc.Text[start:end],
			SentenceStart:  start,
			SentenceEnd:    end,
			MatchedConcept: doc.Text[span[0]:span[1]],
			ContextBefore:  before,
			ContextAfter:   after,
		})
		seq++
	}

	return candidates, seq, nil
}

// ScanReport holds counts from a multi-document scan.
type ScanReport struct {
	Documents  int
	Resolved   int
	Candidates int
	Failed     int
}

// HasFailures reports whether any documents failed scanning.
func (r ScanReport) HasFailures() bool {
	return r.Failed > 0
}

// ScanAll runs the scanner over each document in order, threading the
// sequence counter across documents so candidate ordering stays stable.
// Progress is written to w, one line per document.
func ScanAll(docs []types.Document, s *Scanner, w io.Writer) (ScanReport, []types.Candidate) {
	var report ScanReport
	var all []types.Candidate
	seq := 0

	for _, doc := range docs {
		report.Documents++

		if s.Resolved(doc.Text) {
			fmt.Fprintf(w, "resolved %s\n", doc.ID)
			report.Resolved++
			continue
		}

		candidates, next, err := s.Scan(doc, seq)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", doc.ID, err)
			report.Failed++
			continue
		}
		seq = next

		fmt.Fprintf(w, "scanned %s (%d candidates)\n", doc.ID, len(candidates))
		all = append(all, candidates...)
		report.Candidates += len(candidates)
	}

	return report, all
}
