// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package model provides the single synchronous interface to the LLM
// provider. Callers hold a Gateway; the live implementation talks to an
// Ollama-compatible chat endpoint with a per-call timeout, and the mock
// implementation returns fixed responses so the surrounding workflow never
// blocks or comes back empty. The mock is a terminal fallback, not a retry
// target: a provider failure is substituted exactly once per call.
package model

import (
	"context"
	"errors"
	"time"
)

// ErrUnavailable indicates no provider is configured or the provider could
// not be reached.
var ErrUnavailable = errors.New("model provider unavailable")

// ErrTimeout indicates the provider did not respond within the per-call
// timeout. Treated like any other provider failure; never retried, since
// retrying a slow model call compounds latency.
var ErrTimeout = errors.New("model provider timed out")

// Gateway invokes the model once with a system and user prompt. The
// timeout bounds the whole call. Implementations must be safe for
// concurrent use; each call is independent and stateless.
type Gateway interface {
	Invoke(ctx context.Context, system, user string, timeout time.Duration) (string, error)
}
