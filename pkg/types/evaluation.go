// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// EvaluationSource tags where an evaluation result came from: the live
// model, or the deterministic fallback substituted when the provider is
// unconfigured, unreachable, or its output unparsable.
type EvaluationSource string

const (
	SourceModel    EvaluationSource = "model"
	SourceFallback EvaluationSource = "fallback"
)

// RequirementCheck is one row of the requirement-by-requirement compliance
// table produced by an evaluation.
type RequirementCheck struct {
	// Requirement is a short statement of the RFP requirement.
	Requirement string `json:"requirement" yaml:"requirement"`

	// Compliant reports whether the bid satisfies the requirement.
	Compliant bool `json:"compliant" yaml:"compliant"`

	// Note is a brief justification for the compliance call.
	Note string `json:"note" yaml:"note"`
}

// Annotation is a bid excerpt the evaluation model flagged as needing
// human review, with a location hint.
type Annotation struct {
	// Quote is the excerpt as it appears in the bid.
	Quote string `json:"quote" yaml:"quote"`

	// Reason explains why the excerpt needs review.
	Reason string `json:"reason" yaml:"reason"`

	// Page is the 1-based page holding the quote. When set, the page's
	// text contains a normalized form of the quote; the locator enforces
	// this after evaluation and never invents a page without evidence.
	Page *int `json:"page,omitempty" yaml:"page,omitempty"`

	// ReviewerNotes carries free-text reviewer commentary across
	// re-evaluations.
	ReviewerNotes string `json:"reviewer_notes,omitempty" yaml:"reviewer_notes,omitempty"`

	// VerificationStatus and VerificationNote are set by the separate
	// annotation verification step ("verified" or "rejected").
	VerificationStatus string `json:"verification_status,omitempty" yaml:"verification_status,omitempty"`
	VerificationNote   string `json:"verification_note,omitempty" yaml:"verification_note,omitempty"`
}

// EvaluationResult is the normalized outcome of one bid evaluation.
// Requirements and Annotations are never nil.
type EvaluationResult struct {
	// Score is the overall 0-100 score, or nil when the model omitted it.
	Score *float64 `json:"score,omitempty" yaml:"score,omitempty"`

	// Reasoning is the model's written justification.
	Reasoning string `json:"reasoning" yaml:"reasoning"`

	// Source records whether the result is model-derived or synthetic.
	Source EvaluationSource `json:"source" yaml:"source"`

	// Requirements is the per-requirement compliance breakdown.
	Requirements []RequirementCheck `json:"requirements_breakdown" yaml:"requirements_breakdown"`

	// Annotations lists excerpts flagged for human review.
	Annotations []Annotation `json:"annotations" yaml:"annotations"`
}

// DocumentText holds the extracted text of one uploaded document: the full
// text plus per-page segments (index+1 = page number). Immutable once
// produced; cached alongside the bid it was extracted from.
type DocumentText struct {
	Full  string   `json:"full" yaml:"full"`
	Pages []string `json:"pages" yaml:"pages"`
}
