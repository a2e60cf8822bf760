package weave

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/chris-arsenault/illuminator/pkg/types"
)

func testBatchRequest() BatchRequest {
	return BatchRequest{
		BatchID: "batch-1",
		Motif:   testMotif(),
		Items: []BatchItem{
			{Seq: 3, Sentence: "The ice waits below the ridge.", ContextBefore: "Snow fell all night.", ContextAfter: "Nobody crossed."},
		},
	}
}

func TestNewBackend(t *testing.T) {
	tests := []struct {
		name     string
		provider types.AIProvider
		want     string
		wantErr  bool
	}{
		{name: "claude", provider: types.ProviderClaude, want: "*weave.ClaudeBackend"},
		{name: "default is claude", provider: "", want: "*weave.ClaudeBackend"},
		{name: "gemini", provider: types.ProviderGemini, want: "*weave.GeminiBackend"},
		{name: "unknown", provider: "oracle", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := types.WeaveConfig{AIConfig: types.AIConfig{Provider: tt.provider}}
			backend, err := NewBackend(cfg, nil)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("NewBackend(%q) succeeded, want error", tt.provider)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewBackend(%q) error = %v", tt.provider, err)
			}
			switch tt.want {
			case "*weave.ClaudeBackend":
				if _, ok := backend.(*ClaudeBackend); !ok {
					t.Errorf("got %T, want ClaudeBackend", backend)
				}
			case "*weave.GeminiBackend":
				if _, ok := backend.(*GeminiBackend); !ok {
					t.Errorf("got %T, want GeminiBackend", backend)
				}
			}
		})
	}
}

func TestClaudeBackendRewrite(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("x-api-key"); got != "test-key" {
			t.Errorf("x-api-key = %q, want test-key", got)
		}
		if got := r.Header.Get("anthropic-version"); got != "2023-06-01" {
			t.Errorf("anthropic-version = %q", got)
		}

		var req claudeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		if req.Model != "test-model" {
			t.Errorf("model = %q, want test-model", req.Model)
		}
		prompt := req.Messages[0].Content
		for _, want := range []string{"the ice remembers", "The ice waits below the ridge.", "[3]"} {
			if !strings.Contains(prompt, want) {
				t.Errorf("prompt missing %q", want)
			}
		}

		json.NewEncoder(w).Encode(claudeResponse{
			Content: []claudeContent{
				{Type: "text", Text: `{"rewrites":[{"seq":3,"text":"The ice remembers who waits below the ridge."}]}`},
			},
			Usage: claudeUsage{InputTokens: 120, OutputTokens: 30},
		})
	}))
	defer ts.Close()

	oldURL := claudeAPIURL
	claudeAPIURL = ts.URL
	defer func() { claudeAPIURL = oldURL }()

	backend := &ClaudeBackend{APIKey: "test-key", Model: "test-model", Client: ts.Client()}
	resp, err := backend.Rewrite(context.Background(), testBatchRequest())
	if err != nil {
		t.Fatalf("Rewrite() error = %v", err)
	}

	if len(resp.Rewrites) != 1 || resp.Rewrites[0].Seq != 3 {
		t.Fatalf("rewrites = %+v, want one rewrite for seq 3", resp.Rewrites)
	}
	if resp.PromptTokens != 120 || resp.OutputTokens != 30 {
		t.Errorf("tokens = %d/%d, want 120/30", resp.PromptTokens, resp.OutputTokens)
	}
}

func TestClaudeBackendAPIError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":{"message":"overloaded"}}`, http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	oldURL := claudeAPIURL
	claudeAPIURL = ts.URL
	defer func() { claudeAPIURL = oldURL }()

	backend := &ClaudeBackend{APIKey: "test-key", Model: "test-model", Client: ts.Client()}
	_, err := backend.Rewrite(context.Background(), testBatchRequest())
	if err == nil {
		t.Fatal("Rewrite() succeeded, want error on 503")
	}
	if !strings.Contains(err.Error(), "503") {
		t.Errorf("error = %v, want status code in message", err)
	}
}

func TestGeminiBackendRewrite(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "/models/test-model:generateContent") {
			t.Errorf("path = %q, want generateContent for test-model", r.URL.Path)
		}
		if got := r.URL.Query().Get("key"); got != "test-key" {
			t.Errorf("key = %q, want test-key", got)
		}

		var req geminiRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		if req.GenerationConfig.ResponseMimeType != "application/json" {
			t.Errorf("responseMimeType = %q", req.GenerationConfig.ResponseMimeType)
		}

		resp := geminiResponse{}
		resp.Candidates = []struct {
			Content geminiContent `json:"content"`
		}{
			{Content: geminiContent{Parts: []geminiPart{
				{Text: `{"rewrites":[{"seq":3,"text":`},
				{Text: `"The ice remembers the ridge."}]}`},
			}}},
		}
		resp.UsageMetadata.PromptTokenCount = 80
		resp.UsageMetadata.CandidatesTokenCount = 25
		json.NewEncoder(w).Encode(resp)
	}))
	defer ts.Close()

	oldURL := geminiBaseURL
	geminiBaseURL = ts.URL
	defer func() { geminiBaseURL = oldURL }()

	backend := &GeminiBackend{APIKey: "test-key", Model: "test-model", Client: ts.Client()}
	resp, err := backend.Rewrite(context.Background(), testBatchRequest())
	if err != nil {
		t.Fatalf("Rewrite() error = %v", err)
	}

	// Parts concatenate before JSON parsing.
	if len(resp.Rewrites) != 1 || resp.Rewrites[0].Text != "The ice remembers the ridge." {
		t.Fatalf("rewrites = %+v, want concatenated parts parsed", resp.Rewrites)
	}
	if resp.PromptTokens != 80 || resp.OutputTokens != 25 {
		t.Errorf("tokens = %d/%d, want 80/25", resp.PromptTokens, resp.OutputTokens)
	}
}

func TestGeminiBackendNoCandidates(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(geminiResponse{})
	}))
	defer ts.Close()

	oldURL := geminiBaseURL
	geminiBaseURL = ts.URL
	defer func() { geminiBaseURL = oldURL }()

	backend := &GeminiBackend{APIKey: "test-key", Model: "test-model", Client: ts.Client()}
	_, err := backend.Rewrite(context.Background(), testBatchRequest())
	if err == nil {
		t.Fatal("Rewrite() succeeded, want error on empty candidates")
	}
	if !strings.Contains(err.Error(), "no candidates") {
		t.Errorf("error = %v, want no candidates", err)
	}
}
