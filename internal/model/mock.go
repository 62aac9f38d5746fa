// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package model

import (
	"context"
	"time"
)

// Mock is a deterministic Gateway that always returns the same response.
// Used by tests and as the terminal fallback when no provider is
// configured.
type Mock struct {
	Response string
}

// Invoke returns the fixed response immediately, ignoring prompts and
// timeout.
func (m *Mock) Invoke(_ context.Context, _, _ string, _ time.Duration) (string, error) {
	return m.Response, nil
}
