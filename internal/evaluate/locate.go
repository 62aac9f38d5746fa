// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package evaluate

import (
	"strings"

	"github.com/meshintel/procure-engine/pkg/types"
)

const (
	// minQuoteLen is the raw quote length below which relocation is not
	// attempted.
	minQuoteLen = 10

	// minNormalizedLen is the minimum normalized quote length; anything
	// shorter matches too promiscuously to be evidence.
	minNormalizedLen = 8
)

// prefixLengths is the progressive cascade used when the full quote is not
// found verbatim: longer prefixes first, relaxing to tolerate OCR noise or
// a paraphrased tail.
var prefixLengths = [...]int{80, 50, 35, 25}

// CorrectPages relocates each annotation to the first page whose text
// contains its quote, trying the full normalized quote and then
// progressively shorter prefixes. An annotation whose quote appears on no
// page keeps its original page guess untouched: the locator only improves
// confidence, it never turns missing evidence into a cleared field.
// No-op when pageTexts is empty.
func CorrectPages(annotations []types.Annotation, pageTexts []string) []types.Annotation {
	if len(pageTexts) == 0 || len(annotations) == 0 {
		return annotations
	}

	normPages := make([]string, len(pageTexts))
	for i, p := range pageTexts {
		normPages[i] = normalizeText(p)
	}

	for i, ann := range annotations {
		if len(ann.Quote) < minQuoteLen {
			continue
		}
		quote := normalizeText(ann.Quote)
		if len(quote) < minNormalizedLen {
			continue
		}
		if page, ok := findPage(normPages, quote); ok {
			p := page
			annotations[i].Page = &p
		}
	}
	return annotations
}

// findPage scans pages in order for the full quote, then for each prefix
// length in the cascade. Returns the 1-based page of the first match.
func findPage(normPages []string, quote string) (int, bool) {
	for i, page := range normPages {
		if strings.Contains(page, quote) {
			return i + 1, true
		}
	}
	for _, n := range prefixLengths {
		if len(quote) <= n {
			continue
		}
		prefix := quote[:n]
		for i, page := range normPages {
			if strings.Contains(page, prefix) {
				return i + 1, true
			}
		}
	}
	return 0, false
}

// normalizeText lower-cases and collapses all whitespace runs to single
// spaces.
func normalizeText(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
