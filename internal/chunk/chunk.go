// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package chunk splits document text into overlapping segments. Chunks are
// computed once at ingestion and reused for every later evaluation so
// prompt size stays bounded and boundaries never shift between runs.
package chunk

import "strings"

const (
	// targetSize is the soft upper bound on chunk length in characters.
	targetSize = 1800

	// overlapSize is how many trailing characters of one chunk reappear at
	// the start of the next, so concepts spanning a boundary are not lost.
	overlapSize = 100
)

// Split cuts text into overlapping chunks of roughly targetSize characters.
// Empty or whitespace-only input yields no chunks; input at or under the
// target yields exactly one chunk equal to the trimmed input. Splitting is
// deterministic: the same text always produces the same chunks.
func Split(text string) []string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}
	if len(trimmed) <= targetSize {
		return []string{trimmed}
	}

	var chunks []string
	start := 0
	for {
		end := cutPoint(trimmed, start, start+targetSize)
		chunks = append(chunks, trimmed[start:end])
		if end >= len(trimmed) {
			return chunks
		}
		start = end - overlapSize
	}
}

// cutPoint picks where to end the chunk starting at start. A cut landing
// inside a word backs off to the nearest preceding paragraph break, then
// sentence break, then falls through to a hard cut at the target size.
// Back-off never retreats into the overlap region, so every chunk makes
// forward progress.
func cutPoint(text string, start, end int) int {
	if end >= len(text) {
		return len(text)
	}
	if isSpace(text[end]) || isSpace(text[end-1]) {
		return end
	}

	window := text[start:end]
	if i := strings.LastIndex(window, "\n\n"); i > overlapSize {
		return start + i + 2
	}
	if i := strings.LastIndex(window, ". "); i > overlapSize {
		return start + i + 2
	}
	return end
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}
