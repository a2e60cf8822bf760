// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package weave

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/chris-arsenault/illuminator/internal/motif"
	"github.com/chris-arsenault/illuminator/pkg/types"
)

const (
	defaultBatchSize   = 5
	defaultConcurrency = 2
)

// GenerateResult holds the variants and accounting from one generate run.
// Completed batches remain usable even when others fail; Failures carries
// one message per failed batch.
type GenerateResult struct {
	Variants      []types.Variant
	Batches       int
	FailedBatches int
	PromptTokens  int
	OutputTokens  int
	Failures      []string
}

// HasFailures reports whether any batches failed.
func (r GenerateResult) HasFailures() bool {
	return r.FailedBatches > 0
}

// FirstFailure returns the first batch error message, or "" when none failed.
func (r GenerateResult) FirstFailure() string {
	if len(r.Failures) == 0 {
		return ""
	}
	return r.Failures[0]
}

// Generate splits candidates into batches, dispatches them to the backend
// through a bounded worker pool, and correlates rewrites back to candidates
// by sequence number. Rewrites whose seq matches no dispatched candidate are
// dropped with a warning. Progress is written to w.
func Generate(ctx context.Context, backend RewriteBackend, m *motif.Motif, candidates []types.Candidate, cfg types.WeaveConfig, w io.Writer) GenerateResult {
	var result GenerateResult
	if len(candidates) == 0 {
		return result
	}

	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}

	bySeq := make(map[int]types.Candidate, len(candidates))
	for _, c := range candidates {
		bySeq[c.Seq] = c
	}

	batches := splitBatches(m, candidates, batchSize)
	result.Batches = len(batches)
	if concurrency > len(batches) {
		concurrency = len(batches)
	}

	type batchOutcome struct {
		req  BatchRequest
		resp BatchResponse
		err  error
	}

	jobs := make(chan BatchRequest)
	outcomes := make(chan batchOutcome, len(batches))
	var wg sync.WaitGroup

	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for req := range jobs {
				resp, err := callWithRetry(ctx, backend, req, maxRetries)
				outcomes <- batchOutcome{req: req, resp: resp, err: err}
			}
		}()
	}

	go func() {
		for _, req := range batches {
			jobs <- req
		}
		close(jobs)
		wg.Wait()
		close(outcomes)
	}()

	for out := range outcomes {
		if out.err != nil {
			fmt.Fprintf(w, "failed  batch %s (%d sentences): %v\n", out.req.BatchID, len(out.req.Items), out.err)
			result.FailedBatches++
			result.Failures = append(result.Failures, out.err.Error())
			continue
		}

		kept := 0
		for _, rw := range out.resp.Rewrites {
			c, ok := bySeq[rw.Seq]
			if !ok {
				fmt.Fprintf(w, "warning: batch %s returned unknown seq %d, dropping\n", out.req.BatchID, rw.Seq)
				continue
			}
			result.Variants = append(result.Variants, types.Variant{
				CandidateID: c.ID,
				Seq:         c.Seq,
				Text:        rw.Text,
				BatchID:     out.req.BatchID,
				Model:       cfg.Model,
			})
			kept++
		}
		result.PromptTokens += out.resp.PromptTokens
		result.OutputTokens += out.resp.OutputTokens
		fmt.Fprintf(w, "rewrote batch %s (%d of %d sentences)\n", out.req.BatchID, kept, len(out.req.Items))
	}

	sort.Slice(result.Variants, func(i, j int) bool {
		return result.Variants[i].Seq < result.Variants[j].Seq
	})

	if result.FailedBatches > 0 {
		fmt.Fprintf(w, "\n%d of %d batches failed; first error: %s\n",
			result.FailedBatches, result.Batches, result.FirstFailure())
	}

	return result
}

// splitBatches groups candidates into batch requests of at most size items,
// preserving scan order. Each batch gets a fresh ID.
func splitBatches(m *motif.Motif, candidates []types.Candidate, size int) []BatchRequest {
	var batches []BatchRequest
	for start := 0; start < len(candidates); start += size {
		end := start + size
		if end > len(candidates) {
			end = len(candidates)
		}
		items := make([]BatchItem, 0, end-start)
		for _, c := range candidates[start:end] {
			items = append(items, BatchItem{
				Seq:           c.Seq,
				Sentence:      c.Sentence,
				ContextBefore: c.ContextBefore,
				ContextAfter:  c.ContextAfter,
			})
		}
		batches = append(batches, BatchRequest{
			BatchID: uuid.NewString(),
			Motif:   m,
			Items:   items,
		})
	}
	return batches
}
