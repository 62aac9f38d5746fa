// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared across stages.
package httputil

import (
	"net/http"
	"time"
)

// DefaultTimeout bounds outbound requests when no timeout is configured.
const DefaultTimeout = 15 * time.Second

// NewClient builds an HTTP client with the given timeout and a transport
// that stamps every request with the User-Agent. Both the model gateway
// and the verification checks share this construction so outbound
// requests identify themselves consistently.
func NewClient(timeout time.Duration, userAgent string) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: NewTransport(userAgent),
	}
}

// NewTransport returns a RoundTripper that stamps the User-Agent on
// outgoing requests. Useful when the caller manages timeouts per request
// and wants no client-level deadline.
func NewTransport(userAgent string) http.RoundTripper {
	return &userAgentTransport{
		userAgent: userAgent,
		base:      http.DefaultTransport,
	}
}

// userAgentTransport sets the User-Agent header when the request carries
// none of its own.
type userAgentTransport struct {
	userAgent string
	base      http.RoundTripper
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.userAgent != "" && req.Header.Get("User-Agent") == "" {
		// Clone before mutating; RoundTrip must not modify the caller's request.
		req = req.Clone(req.Context())
		req.Header.Set("User-Agent", t.userAgent)
	}
	return t.base.RoundTrip(req)
}
