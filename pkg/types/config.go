// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by components that make
// network requests (the model gateway and the verification agents).
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "procure-engine/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// ModelConfig holds settings for the LLM provider used by evaluation and
// vendor extraction. An empty BaseURL means no provider is configured and
// every call resolves to the deterministic fallback.
type ModelConfig struct {
	// BaseURL is the provider endpoint (e.g. "http://localhost:11434").
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`

	// Model is the model identifier sent with each request (e.g. "llama3").
	Model string `json:"model" yaml:"model"`

	// APIKey, when set, is sent as a bearer token. Local Ollama needs
	// none; proxied endpoints may.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// EvaluationTimeout bounds one evaluation call. Full-document reasoning
	// is slow; the default is 5 minutes.
	EvaluationTimeout time.Duration `json:"evaluation_timeout" yaml:"evaluation_timeout"`

	// ExtractionTimeout bounds one vendor-extraction call. Extraction sits
	// on a more time-sensitive path; the default is 2 minutes.
	ExtractionTimeout time.Duration `json:"extraction_timeout" yaml:"extraction_timeout"`
}

// EvaluationTimeoutOrDefault returns the configured evaluation timeout or
// the 5-minute default.
func (c ModelConfig) EvaluationTimeoutOrDefault() time.Duration {
	if c.EvaluationTimeout > 0 {
		return c.EvaluationTimeout
	}
	return 5 * time.Minute
}

// ExtractionTimeoutOrDefault returns the configured extraction timeout or
// the 2-minute default.
func (c ModelConfig) ExtractionTimeoutOrDefault() time.Duration {
	if c.ExtractionTimeout > 0 {
		return c.ExtractionTimeout
	}
	return 2 * time.Minute
}

// StoreConfig holds settings for the procurement database.
type StoreConfig struct {
	// DataDir is the base directory for persistent state (contains
	// procure.db and uploads/).
	DataDir string `json:"data_dir" yaml:"data_dir"`
}

// VerificationConfig holds settings for the vendor verification agents.
type VerificationConfig struct {
	HTTPConfig `yaml:",inline"`

	// Enabled controls whether website reachability checks run at vendor
	// creation. Format checks (phone, email) always run.
	Enabled bool `json:"enabled" yaml:"enabled"`
}

// PipelineConfig groups all component configurations.
type PipelineConfig struct {
	Model        ModelConfig        `json:"model" yaml:"model"`
	Store        StoreConfig        `json:"store" yaml:"store"`
	Verification VerificationConfig `json:"verification" yaml:"verification"`
}
