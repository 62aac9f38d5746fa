// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package evaluate

import (
	"bytes"
	"text/template"
)

// systemPrompt instructs the model on the response schema. The
// requirement-table constraint (genuine requirement statements only, no
// section headers) matters: naive models echo document structure instead
// of substantive criteria.
const systemPrompt = `You are a procurement expert. Analyze the Vendor's Bid against the RFP Requirements. ` +
	`Return ONLY a valid JSON object, no other text or markdown. The JSON must have: ` +
	`"score" (number 0-100), ` +
	`"reasoning" (string, 2-4 sentences explaining the score), ` +
	`"requirements_breakdown" (array of objects, each with "requirement" (short string), "compliant" (boolean), "note" (string)), ` +
	`"annotations" (array of 5-10 objects, each with "quote" (short excerpt copied from the bid), "reason" (why it needs human review), "page" (1-based page number if known, else omit)). ` +
	`List each distinct requirement from the RFP and whether the bid complies, with a brief note. ` +
	`Only include genuine requirement statements; never list section headers or titles as requirements.`

// userPromptTmpl composes the evaluation request for one bid.
var userPromptTmpl = template.Must(template.New("evaluation").Parse(`RFP requirements:
{{.Requirements}}

Bid text (extracted):
{{.BidText}}
{{if .ReviewerNotes}}
Reviewer context from a prior review round (weigh this when scoring):
{{.ReviewerNotes}}
{{end}}
Return only the JSON object with keys score, reasoning, requirements_breakdown, and annotations.`))

// promptData feeds userPromptTmpl.
type promptData struct {
	Requirements  string
	BidText       string
	ReviewerNotes string
}

// renderUserPrompt executes the evaluation prompt template.
func renderUserPrompt(data promptData) (string, error) {
	var buf bytes.Buffer
	if err := userPromptTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
