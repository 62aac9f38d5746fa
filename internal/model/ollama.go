// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package model

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/meshintel/procure-engine/internal/httputil"
	"github.com/meshintel/procure-engine/pkg/types"
)

// OllamaGateway calls an Ollama-compatible chat endpoint. Constructed from
// ModelConfig; an empty BaseURL makes every Invoke fail with ErrUnavailable
// so the caller substitutes the fallback.
type OllamaGateway struct {
	baseURL string
	model   string
	apiKey  string
	client  *http.Client
}

// NewOllamaGateway builds a gateway from config. The HTTP client carries no
// timeout of its own; each Invoke applies its per-call timeout through the
// request context.
func NewOllamaGateway(cfg types.ModelConfig) *OllamaGateway {
	model := cfg.Model
	if model == "" {
		model = "llama3"
	}
	// No client-level timeout; each Invoke bounds itself through the
	// request context.
	return &OllamaGateway{
		baseURL: strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		model:   model,
		apiKey:  cfg.APIKey,
		client:  &http.Client{Transport: httputil.NewTransport("procure-engine/0.1")},
	}
}

// chatRequest is the request body for the Ollama chat API.
type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Format   string        `json:"format,omitempty"`
	Stream   bool          `json:"stream"`
}

// chatMessage is a single message in the chat conversation.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse is the response body from the Ollama chat API.
type chatResponse struct {
	Message chatMessage `json:"message"`
}

// Invoke sends one chat completion request and returns the raw response
// text. Network errors map to ErrUnavailable and deadline expiry to
// ErrTimeout; both are terminal for the call.
func (g *OllamaGateway) Invoke(ctx context.Context, system, user string, timeout time.Duration) (string, error) {
	if g.baseURL == "" {
		return "", ErrUnavailable
	}

	reqBody := chatRequest{
		Model: g.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Format: "json",
		Stream: false,
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	callCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(callCtx, http.MethodPost, g.baseURL+"/api/chat", bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if g.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+g.apiKey)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		if callCtx.Err() == context.DeadlineExceeded {
			return "", fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("%w: provider returned %d: %s", ErrUnavailable, resp.StatusCode, string(body))
	}

	var cResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cResp); err != nil {
		return "", fmt.Errorf("decoding provider response: %w", err)
	}

	return cResp.Message.Content, nil
}
