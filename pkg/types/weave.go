// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Candidate is a single sentence flagged for possible rewrite, with its
// location and surrounding context. Candidates are created fresh on each
// scan and never mutated; later stages track variants and decisions in
// separate records keyed by candidate ID.
type Candidate struct {
	// ID is a stable identity derived from the owning document ID and the
	// sentence start offset. The same document and offset always yield the
	// same ID, so repeated scans of unchanged text correlate.
	ID string `json:"id" yaml:"id"`

	// Seq is the global sequence number assigned across a multi-document
	// scan. Batch dispatch uses it to correlate rewrites back to candidates.
	Seq int `json:"seq" yaml:"seq"`

	// DocumentID identifies the source document in the archive.
	DocumentID string `json:"document_id" yaml:"document_id"`

	// DocumentLabel is the document's display name.
	DocumentLabel string `json:"document_label" yaml:"document_label"`

	// Sentence is the extracted substring judged to be one sentence.
	Sentence string `json:"sentence" yaml:"sentence"`

	// SentenceStart and SentenceEnd are character offsets into the document
	// text: 0 <= SentenceStart < SentenceEnd <= len(text), and
	// text[SentenceStart:SentenceEnd] == Sentence.
	SentenceStart int `json:"sentence_start" yaml:"sentence_start"`
	SentenceEnd   int `json:"sentence_end" yaml:"sentence_end"`

	// MatchedConcept is the substring that triggered inclusion.
	MatchedConcept string `json:"matched_concept" yaml:"matched_concept"`

	// ContextBefore and ContextAfter are bounded-length surrounding text for
	// review, with "..." markers when clipped.
	ContextBefore string `json:"context_before" yaml:"context_before"`
	ContextAfter  string `json:"context_after" yaml:"context_after"`
}

// Variant is a model-produced rewrite of one candidate sentence.
type Variant struct {
	// CandidateID links the variant to its candidate.
	CandidateID string `json:"candidate_id" yaml:"candidate_id"`

	// Seq is the candidate's global sequence number.
	Seq int `json:"seq" yaml:"seq"`

	// Text is the rewritten sentence.
	Text string `json:"text" yaml:"text"`

	// BatchID identifies the dispatch batch that produced this variant.
	BatchID string `json:"batch_id" yaml:"batch_id"`

	// Model is the AI model that produced the rewrite.
	Model string `json:"model" yaml:"model"`
}

// DecisionVerdict records the reviewer's call on one variant.
type DecisionVerdict string

const (
	VerdictAccept DecisionVerdict = "accept"
	VerdictReject DecisionVerdict = "reject"
)

// Decision is one accept/reject entry in a decisions file.
type Decision struct {
	// CandidateID links the decision to a candidate and its variant.
	CandidateID string `json:"candidate_id" yaml:"candidate_id"`

	// Verdict is accept or reject.
	Verdict DecisionVerdict `json:"verdict" yaml:"verdict"`
}

// CandidateFile is the on-disk output of a scan run: the motif that was
// scanned for, the candidates found, and summary statistics. The weave
// stages reload it without re-scanning.
type CandidateFile struct {
	Motif      string      `yaml:"motif"`
	Candidates []Candidate `yaml:"candidates"`
	Summary    ScanSummary `yaml:"summary"`
}

// ScanSummary stores scan statistics and a timestamp.
type ScanSummary struct {
	Documents  int       `yaml:"documents"`
	Resolved   int       `yaml:"resolved"`
	Candidates int       `yaml:"candidates"`
	Timestamp  time.Time `yaml:"timestamp"`
}

// VariantsFile is the on-disk output of a generate run.
type VariantsFile struct {
	RunID    string     `yaml:"run_id"`
	Motif    string     `yaml:"motif"`
	Model    string     `yaml:"model"`
	Variants []Variant  `yaml:"variants"`
	Summary  RunSummary `yaml:"summary"`
	Failures []string   `yaml:"failures,omitempty"`
}

// RunSummary stores generate-run statistics.
type RunSummary struct {
	Batches       int       `yaml:"batches"`
	FailedBatches int       `yaml:"failed_batches"`
	Rewrites      int       `yaml:"rewrites"`
	PromptTokens  int       `yaml:"prompt_tokens"`
	OutputTokens  int       `yaml:"output_tokens"`
	Timestamp     time.Time `yaml:"timestamp"`
}

// DecisionsFile holds the reviewer's accept/reject calls for one run.
type DecisionsFile struct {
	RunID     string     `yaml:"run_id"`
	Decisions []Decision `yaml:"decisions"`
}

// RunRecord is the archive's bookkeeping row for one generate run, used by
// the cost report.
type RunRecord struct {
	ID            string    `json:"id" yaml:"id"`
	Motif         string    `json:"motif" yaml:"motif"`
	Model         string    `json:"model" yaml:"model"`
	Candidates    int       `json:"candidates" yaml:"candidates"`
	Batches       int       `json:"batches" yaml:"batches"`
	FailedBatches int       `json:"failed_batches" yaml:"failed_batches"`
	PromptTokens  int       `json:"prompt_tokens" yaml:"prompt_tokens"`
	OutputTokens  int       `json:"output_tokens" yaml:"output_tokens"`
	StartedAt     time.Time `json:"started_at" yaml:"started_at"`
}
