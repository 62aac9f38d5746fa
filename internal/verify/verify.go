// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package verify implements the simulated vendor verification agents:
// website reachability and phone/email format validity. Checks are pure
// and single-shot with no retries; any transport failure reads as
// unreachable. Results are tri-state: nil means the input was empty and
// nothing was checked.
package verify

import (
	"context"
	"net/http"
	"regexp"
	"strings"

	"github.com/meshintel/procure-engine/internal/httputil"
	"github.com/meshintel/procure-engine/pkg/types"
)

var (
	// phoneE164 accepts international numbers after separator stripping.
	phoneE164 = regexp.MustCompile(`^\+?[1-9]\d{1,14}$`)

	// phoneLoose accepts common local formats: digits, spaces, dashes,
	// parens, dots.
	phoneLoose = regexp.MustCompile(`^[\d\s\-\(\)\+\.]{10,20}$`)

	phoneSeparators = regexp.MustCompile(`[\s\-\.]`)

	emailFormat = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// Checker runs verification checks. The HTTP client comes from config so
// tests can use short timeouts against a local server.
type Checker struct {
	client *http.Client
}

// NewChecker builds a Checker from HTTP config.
func NewChecker(cfg types.HTTPConfig) *Checker {
	ua := cfg.UserAgent
	if ua == "" {
		ua = "procure-engine/0.1"
	}
	return &Checker{client: httputil.NewClient(cfg.Timeout, ua)}
}

// VerifyWebsite pings the URL with a HEAD request. Returns true for a
// 2xx/3xx response, false for anything else including transport errors,
// nil for empty input. A missing scheme defaults to https.
func (c *Checker) VerifyWebsite(ctx context.Context, url string) *bool {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil
	}
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		url = "https://" + url
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return boolPtr(false)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return boolPtr(false)
	}
	resp.Body.Close()

	return boolPtr(resp.StatusCode >= 200 && resp.StatusCode < 400)
}

// VerifyPhone checks phone number format: E.164-like after separator
// stripping, or a loose local format. nil for empty input.
func (c *Checker) VerifyPhone(value string) *bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	stripped := phoneSeparators.ReplaceAllString(value, "")
	if phoneE164.MatchString(stripped) {
		return boolPtr(true)
	}
	return boolPtr(phoneLoose.MatchString(value))
}

// VerifyEmail checks basic email format. nil for empty input.
func (c *Checker) VerifyEmail(value string) *bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return boolPtr(emailFormat.MatchString(value))
}

func boolPtr(v bool) *bool { return &v }
