// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package weave

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/chris-arsenault/illuminator/internal/httputil"
)

// geminiBaseURL is the Gemini API base. Package-level var for test substitution.
var geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// GeminiBackend calls the Gemini generateContent API to rewrite one batch
// of candidate sentences. The request pins the response MIME type to JSON
// so the rewrite contract matches the Claude backend.
type GeminiBackend struct {
	APIKey string
	Model  string
	Client *http.Client
}

type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenerationConfig struct {
	MaxOutputTokens  int    `json:"maxOutputTokens,omitempty"`
	ResponseMimeType string `json:"responseMimeType,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
	UsageMetadata struct {
		PromptTokenCount     int `json:"promptTokenCount"`
		CandidatesTokenCount int `json:"candidatesTokenCount"`
	} `json:"usageMetadata"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Rewrite calls the Gemini API with the rewrite prompt for one batch.
func (g *GeminiBackend) Rewrite(ctx context.Context, breq BatchRequest) (BatchResponse, error) {
	prompt, err := renderPrompt(breq)
	if err != nil {
		return BatchResponse{}, fmt.Errorf("rendering prompt: %w", err)
	}

	reqBody := geminiRequest{
		Contents: []geminiContent{
			{Role: "user", Parts: []geminiPart{{Text: prompt}}},
		},
		GenerationConfig: geminiGenerationConfig{
			MaxOutputTokens:  4096,
			ResponseMimeType: "application/json",
		},
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", geminiBaseURL, g.Model, g.APIKey)
	resp, err := httputil.PostJSON(ctx, g.Client, url, nil, reqBody, 0)
	if err != nil {
		return BatchResponse{}, fmt.Errorf("calling Gemini API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return BatchResponse{}, fmt.Errorf("Gemini API returned %d: %s", resp.StatusCode, string(body))
	}

	var gResp geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&gResp); err != nil {
		return BatchResponse{}, fmt.Errorf("decoding Gemini response: %w", err)
	}
	if gResp.Error != nil {
		return BatchResponse{}, fmt.Errorf("Gemini API error: %s", gResp.Error.Message)
	}
	if len(gResp.Candidates) == 0 || len(gResp.Candidates[0].Content.Parts) == 0 {
		return BatchResponse{}, fmt.Errorf("Gemini API returned no candidates")
	}

	var text strings.Builder
	for _, part := range gResp.Candidates[0].Content.Parts {
		text.WriteString(part.Text)
	}

	var bResp BatchResponse
	if err := json.Unmarshal([]byte(text.String()), &bResp); err != nil {
		return BatchResponse{}, fmt.Errorf("parsing rewrite JSON: %w", err)
	}
	bResp.PromptTokens = gResp.UsageMetadata.PromptTokenCount
	bResp.OutputTokens = gResp.UsageMetadata.CandidatesTokenCount
	return bResp, nil
}
