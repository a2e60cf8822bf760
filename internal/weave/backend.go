// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package weave dispatches rewrite candidates to a Generative AI backend in
// batches and collects the resulting sentence variants.
// Implements: docs/ARCHITECTURE § Weave.
package weave

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/chris-arsenault/illuminator/internal/motif"
	"github.com/chris-arsenault/illuminator/pkg/types"
)

// RewriteBackend abstracts the Generative AI API so tests can supply a mock.
// Each implementation handles one batch of candidate sentences and returns
// the model's rewrites. Per Strategy pattern.
type RewriteBackend interface {
	Rewrite(ctx context.Context, req BatchRequest) (BatchResponse, error)
}

// BatchItem is one candidate sentence within a batch request.
type BatchItem struct {
	// Seq is the candidate's global sequence number; the model echoes it
	// back so rewrites correlate to candidates.
	Seq int

	// Sentence is the text to rewrite.
	Sentence string

	// ContextBefore and ContextAfter give the model surrounding prose.
	ContextBefore string
	ContextAfter  string
}

// BatchRequest is one group of candidates sent to the backend together.
type BatchRequest struct {
	// BatchID identifies the batch in variants and failure reports.
	BatchID string

	// Motif carries the concept name, guidance, and target phrase the
	// rewrite should introduce.
	Motif *motif.Motif

	// Items lists the sentences to rewrite.
	Items []BatchItem
}

// Rewrite is a single rewritten sentence in a batch response.
type Rewrite struct {
	Seq  int    `json:"seq"`
	Text string `json:"text"`
}

// BatchResponse is the structured response from the backend for one batch.
type BatchResponse struct {
	Rewrites []Rewrite `json:"rewrites"`

	// PromptTokens and OutputTokens are usage counts when the API reports
	// them; zero otherwise.
	PromptTokens int `json:"-"`
	OutputTokens int `json:"-"`
}

// NewBackend constructs the configured rewrite backend.
func NewBackend(cfg types.WeaveConfig, client *http.Client) (RewriteBackend, error) {
	switch cfg.Provider {
	case types.ProviderClaude, "":
		return &ClaudeBackend{APIKey: cfg.APIKey, Model: cfg.Model, Client: client}, nil
	case types.ProviderGemini:
		return &GeminiBackend{APIKey: cfg.APIKey, Model: cfg.Model, Client: client}, nil
	default:
		return nil, fmt.Errorf("unknown AI provider %q: use claude or gemini", cfg.Provider)
	}
}

// backoffBase controls the base duration for exponential backoff. Tests
// override this to avoid real sleeps.
var backoffBase = time.Second

// callWithRetry calls the backend with exponential backoff.
func callWithRetry(ctx context.Context, backend RewriteBackend, req BatchRequest, maxRetries int) (BatchResponse, error) {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * backoffBase
			select {
			case <-ctx.Done():
				return BatchResponse{}, ctx.Err()
			case <-time.After(backoff):
			}
		}

		resp, err := backend.Rewrite(ctx, req)
		if err == nil {
			return resp, nil
		}
		lastErr = err
	}
	return BatchResponse{}, fmt.Errorf("after %d retries: %w", maxRetries, lastErr)
}
