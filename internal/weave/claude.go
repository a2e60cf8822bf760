// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package weave

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/chris-arsenault/illuminator/internal/httputil"
)

// claudeAPIURL is the Claude API endpoint. Package-level var for test substitution.
var claudeAPIURL = "https://api.anthropic.com/v1/messages"

// ClaudeBackend calls the Claude Messages API to rewrite one batch of
// candidate sentences.
type ClaudeBackend struct {
	APIKey string
	Model  string
	Client *http.Client
}

// claudeRequest is the request body for the Claude Messages API.
type claudeRequest struct {
	Model     string          `json:"model"`
	MaxTokens int             `json:"max_tokens"`
	Messages  []claudeMessage `json:"messages"`
}

// claudeMessage is a single message in the Claude API conversation.
type claudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// claudeResponse is the response body from the Claude Messages API.
type claudeResponse struct {
	Content []claudeContent `json:"content"`
	Usage   claudeUsage     `json:"usage"`
}

// claudeContent is a content block in the Claude API response.
type claudeContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// claudeUsage carries token accounting from the API.
type claudeUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// Rewrite calls the Claude API with the rewrite prompt for one batch.
func (c *ClaudeBackend) Rewrite(ctx context.Context, breq BatchRequest) (BatchResponse, error) {
	prompt, err := renderPrompt(breq)
	if err != nil {
		return BatchResponse{}, fmt.Errorf("rendering prompt: %w", err)
	}

	reqBody := claudeRequest{
		Model:     c.Model,
		MaxTokens: 4096,
		Messages: []claudeMessage{
			{Role: "user", Content: prompt},
		},
	}

	headers := map[string]string{
		"x-api-key":         c.APIKey,
		"anthropic-version": "2023-06-01",
	}
	resp, err := httputil.PostJSON(ctx, c.Client, claudeAPIURL, headers, reqBody, 0)
	if err != nil {
		return BatchResponse{}, fmt.Errorf("calling Claude API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return BatchResponse{}, fmt.Errorf("Claude API returned %d: %s", resp.StatusCode, string(body))
	}

	var cResp claudeResponse
	if err := json.NewDecoder(resp.Body).Decode(&cResp); err != nil {
		return BatchResponse{}, fmt.Errorf("decoding Claude response: %w", err)
	}

	if len(cResp.Content) == 0 {
		return BatchResponse{}, fmt.Errorf("Claude API returned empty content")
	}

	for _, block := range cResp.Content {
		if block.Type != "text" {
			continue
		}
		var bResp BatchResponse
		if err := json.Unmarshal([]byte(block.Text), &bResp); err != nil {
			return BatchResponse{}, fmt.Errorf("parsing rewrite JSON: %w", err)
		}
		bResp.PromptTokens = cResp.Usage.InputTokens
		bResp.OutputTokens = cResp.Usage.OutputTokens
		return bResp, nil
	}

	return BatchResponse{}, fmt.Errorf("no text content in Claude API response")
}
