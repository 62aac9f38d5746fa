// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package repair extracts a structured object from noisy model output.
// Models are not guaranteed to emit syntactically valid JSON even when
// instructed to, so parsing degrades gracefully: strip markdown fences,
// isolate the first balanced JSON object, fix trailing commas, and as a
// last resort scrape score and reasoning fields with regular expressions.
package repair

import (
	"encoding/json"
	"errors"
	"regexp"
	"strconv"
	"strings"
)

// ErrUnparsable is returned only when no usable fragment exists: neither a
// parsable JSON object nor a recoverable score/reasoning pair.
var ErrUnparsable = errors.New("no parsable JSON or score/reasoning in model output")

var (
	trailingCommaObj = regexp.MustCompile(`,\s*}`)
	trailingCommaArr = regexp.MustCompile(`,\s*]`)
	scoreField       = regexp.MustCompile(`"score"\s*:\s*(\d+(?:\.\d+)?)`)
	reasoningField   = regexp.MustCompile(`"reasoning"\s*:\s*"((?:[^"\\]|\\.)*)"`)
)

// Repair extracts a JSON object from raw model output. It tolerates fenced
// code blocks, prose before and after the object, truncated tails, and
// trailing commas. The regex fallback returns a partial object holding
// whichever of score and reasoning could be recovered; it is
// indistinguishable from a fully parsed object by design.
func Repair(raw string) (map[string]any, error) {
	text := stripFence(strings.TrimSpace(raw))
	text = isolateObject(text)

	var obj map[string]any
	if err := json.Unmarshal([]byte(text), &obj); err == nil {
		return obj, nil
	}

	fixed := trailingCommaObj.ReplaceAllString(text, "}")
	fixed = trailingCommaArr.ReplaceAllString(fixed, "]")
	if err := json.Unmarshal([]byte(fixed), &obj); err == nil {
		return obj, nil
	}

	return scrapeFields(text)
}

// stripFence removes a markdown code fence wrapper, preferring a ```json
// fence over a plain one.
func stripFence(text string) string {
	if idx := strings.Index(text, "```json"); idx >= 0 {
		text = text[idx+len("```json"):]
	} else if idx := strings.Index(text, "```"); idx >= 0 {
		text = text[idx+len("```"):]
	} else {
		return text
	}
	if end := strings.Index(text, "```"); end >= 0 {
		text = text[:end]
	}
	return strings.TrimSpace(text)
}

// isolateObject finds the first '{' and returns the substring up to its
// matching '}' by brace-depth counting, discarding trailing prose. When
// the object is truncated (depth never returns to zero) the text is
// returned unchanged so later stages can still scrape fields from it.
func isolateObject(text string) string {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return text
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1]
			}
		}
	}
	return text
}

// scrapeFields recovers a numeric score and a quoted reasoning string from
// otherwise unparsable text. Succeeds if at least one of the two is found.
func scrapeFields(text string) (map[string]any, error) {
	out := map[string]any{
		"score":     nil,
		"reasoning": "",
	}
	found := false

	if m := scoreField.FindStringSubmatch(text); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			out["score"] = v
			found = true
		}
	}
	if m := reasoningField.FindStringSubmatch(text); m != nil {
		out["reasoning"] = decodeEscapes(m[1])
		if out["reasoning"] != "" {
			found = true
		}
	}

	if !found {
		return nil, ErrUnparsable
	}
	return out, nil
}

// decodeEscapes interprets JSON escape sequences in a raw captured string.
// Undecodable input is returned as captured.
func decodeEscapes(s string) string {
	if decoded, err := strconv.Unquote(`"` + s + `"`); err == nil {
		return decoded
	}
	return s
}
