// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package summary generates natural-language summaries of investigation
// reports through a chat-completions API and maintains the append-only
// summaries CSV.
package summary

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mcadwell/sir-engine/internal/httputil"
	"github.com/mcadwell/sir-engine/pkg/types"
)

const defaultBaseURL = "https://openrouter.ai/api/v1/chat/completions"

// DefaultQuery is the instruction prepended to each report's text.
const DefaultQuery = "Explain what went down here, in a few sentences. In one extra sentence, weigh in on culpability."

// Result is one completed summarization call.
type Result struct {
	Response     string
	InputTokens  int
	OutputTokens int
	Duration     time.Duration
}

// Backend produces a summary for one prompt. Implementations must be safe
// for sequential reuse; calls are not made concurrently.
type Backend interface {
	Summarize(ctx context.Context, prompt string) (Result, error)
}

// OpenRouterBackend calls an OpenRouter-compatible chat-completions
// endpoint, retrying on rate limits.
type OpenRouterBackend struct {
	client *http.Client
	cfg    types.SummaryConfig
}

// NewOpenRouterBackend builds a backend from cfg. BaseURL and Timeout
// default when unset.
func NewOpenRouterBackend(cfg types.SummaryConfig) *OpenRouterBackend {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 3 * time.Minute
	}
	return &OpenRouterBackend{
		client: &http.Client{Timeout: timeout},
		cfg:    cfg,
	}
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

// Summarize sends one prompt and returns the first choice's content with
// token usage. Non-2xx responses after retries are errors.
func (b *OpenRouterBackend) Summarize(ctx context.Context, prompt string) (Result, error) {
	start := time.Now()

	payload, err := json.Marshal(chatRequest{
		Model:    b.cfg.Model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return Result{}, fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.cfg.BaseURL, bytes.NewReader(payload))
	if err != nil {
		return Result{}, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+b.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")
	if b.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", b.cfg.UserAgent)
	}

	resp, err := httputil.DoWithRetry(ctx, b.client, req, b.cfg.MaxRetries)
	if err != nil {
		return Result{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("api request failed: %d %s", resp.StatusCode, truncate(string(body), 200))
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return Result{}, fmt.Errorf("decoding response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return Result{}, fmt.Errorf("response contained no choices")
	}

	return Result{
		Response:     parsed.Choices[0].Message.Content,
		InputTokens:  parsed.Usage.PromptTokens,
		OutputTokens: parsed.Usage.CompletionTokens,
		Duration:     time.Since(start),
	}, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
