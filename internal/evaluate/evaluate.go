// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package evaluate scores one bid against RFP requirements through the
// model gateway, normalizes the repaired response, and relocates review
// annotations to the pages that actually contain their quotes.
//
// Provider and parse failures never reach the caller: every evaluation
// returns a structurally valid result, degraded to the deterministic
// fallback and tagged as such when the live path fails.
package evaluate

import (
	"context"
	"fmt"
	"strings"

	"github.com/meshintel/procure-engine/internal/model"
	"github.com/meshintel/procure-engine/internal/repair"
	"github.com/meshintel/procure-engine/pkg/types"
)

const (
	// maxTextLen bounds each prompt slice (requirements, bid text).
	maxTextLen = 6000

	// maxSummaryTextLen bounds the summary-plus-excerpt path, which may
	// run longer because the summary is information-dense.
	maxSummaryTextLen = 8000
)

// Request carries the inputs for one evaluation. Chunks and Summary come
// from the ingestion-time caches when available; BidText is the raw
// fallback.
type Request struct {
	Requirements  string
	BidText       string
	Summary       string
	Chunks        []string
	ReviewerNotes string
}

// Orchestrator builds evaluation prompts, invokes the gateway, and
// normalizes results. Stateless aside from configuration; safe for
// concurrent use.
type Orchestrator struct {
	gateway model.Gateway
	cfg     types.ModelConfig
}

// NewOrchestrator builds an Orchestrator. A nil gateway means every
// evaluation resolves to the fallback.
func NewOrchestrator(gw model.Gateway, cfg types.ModelConfig) *Orchestrator {
	return &Orchestrator{gateway: gw, cfg: cfg}
}

// Evaluate scores the bid against the requirements. On any provider or
// parse failure it returns the deterministic fallback result instead of
// an error.
func (o *Orchestrator) Evaluate(ctx context.Context, req Request) types.EvaluationResult {
	req.ReviewerNotes = ""
	result, err := o.invokeModel(ctx, req)
	if err != nil {
		return FallbackResult()
	}
	return result
}

// EvaluateWithContext re-evaluates with prior reviewer notes woven into
// the prompt. Any failure on the augmented path degrades to the plain
// evaluation rather than failing the caller.
func (o *Orchestrator) EvaluateWithContext(ctx context.Context, req Request) types.EvaluationResult {
	if strings.TrimSpace(req.ReviewerNotes) == "" {
		return o.Evaluate(ctx, req)
	}
	result, err := o.invokeModel(ctx, req)
	if err != nil {
		return o.Evaluate(ctx, req)
	}
	return result
}

// invokeModel runs one gateway call end to end: select text, render the
// prompt, invoke, repair, normalize.
func (o *Orchestrator) invokeModel(ctx context.Context, req Request) (types.EvaluationResult, error) {
	if o.gateway == nil {
		return types.EvaluationResult{}, model.ErrUnavailable
	}

	user, err := renderUserPrompt(promptData{
		Requirements:  truncate(req.Requirements, maxTextLen),
		BidText:       selectBidText(req),
		ReviewerNotes: strings.TrimSpace(req.ReviewerNotes),
	})
	if err != nil {
		return types.EvaluationResult{}, fmt.Errorf("rendering prompt: %w", err)
	}

	raw, err := o.gateway.Invoke(ctx, systemPrompt, user, o.cfg.EvaluationTimeoutOrDefault())
	if err != nil {
		return types.EvaluationResult{}, err
	}

	obj, err := repair.Repair(raw)
	if err != nil {
		return types.EvaluationResult{}, err
	}

	return normalize(obj), nil
}

// selectBidText picks what to send the model, most information-dense
// material first: a stored summary plus a short excerpt of the first
// chunk, else the chunks joined up to the global ceiling, else raw text
// truncated to the same ceiling.
func selectBidText(req Request) string {
	summary := strings.TrimSpace(req.Summary)
	if summary != "" && len(req.Chunks) > 0 {
		text := summary + "\n\nOpening excerpt of the bid:\n" + req.Chunks[0]
		return truncate(text, maxSummaryTextLen)
	}
	if len(req.Chunks) > 0 {
		return truncate(strings.Join(req.Chunks, "\n"), maxTextLen)
	}
	return truncate(req.BidText, maxTextLen)
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}

// FallbackResult is the fixed evaluation substituted when the live model
// is unavailable or its output unparsable. Deterministic so the workflow
// always receives the same structurally valid result.
func FallbackResult() types.EvaluationResult {
	score := 85.5
	return types.EvaluationResult{
		Score: &score,
		Reasoning: "The bid meets most requirements but is missing the specific ISO " +
			"certification details mentioned in the RFP. Good budget alignment.",
		Source:       types.SourceFallback,
		Requirements: []types.RequirementCheck{},
		Annotations:  []types.Annotation{},
	}
}

// normalize converts a repaired object into an EvaluationResult: score
// clamped to [0,100] or absent, slices never nil, every annotation with a
// non-empty quote and reason and an integer page when present.
func normalize(obj map[string]any) types.EvaluationResult {
	result := types.EvaluationResult{
		Source:       types.SourceModel,
		Requirements: []types.RequirementCheck{},
		Annotations:  []types.Annotation{},
	}

	if v, ok := obj["score"].(float64); ok {
		if v < 0 {
			v = 0
		}
		if v > 100 {
			v = 100
		}
		result.Score = &v
	}
	if v, ok := obj["reasoning"].(string); ok {
		result.Reasoning = strings.TrimSpace(v)
	}

	if items, ok := obj["requirements_breakdown"].([]any); ok {
		for _, item := range items {
			m, ok := item.(map[string]any)
			if !ok {
				continue
			}
			check := types.RequirementCheck{
				Requirement: strings.TrimSpace(stringField(m, "requirement")),
				Note:        strings.TrimSpace(stringField(m, "note")),
			}
			if compliant, ok := m["compliant"].(bool); ok {
				check.Compliant = compliant
			}
			if check.Requirement == "" {
				continue
			}
			result.Requirements = append(result.Requirements, check)
		}
	}

	if items, ok := obj["annotations"].([]any); ok {
		for _, item := range items {
			m, ok := item.(map[string]any)
			if !ok {
				continue
			}
			ann := types.Annotation{
				Quote:  strings.TrimSpace(stringField(m, "quote")),
				Reason: strings.TrimSpace(stringField(m, "reason")),
			}
			if ann.Quote == "" {
				continue
			}
			if ann.Reason == "" {
				ann.Reason = "Flagged for review"
			}
			if page, ok := m["page"].(float64); ok && page >= 1 {
				p := int(page)
				ann.Page = &p
			}
			result.Annotations = append(result.Annotations, ann)
		}
	}

	return result
}

func stringField(m map[string]any, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

// CarryReviewerState copies reviewer notes and verification outcomes from
// a previous evaluation's annotations onto the new ones, matched by
// normalized quote, so a re-evaluation does not discard human work.
func CarryReviewerState(fresh, prior []types.Annotation) []types.Annotation {
	if len(prior) == 0 {
		return fresh
	}
	byQuote := make(map[string]types.Annotation, len(prior))
	for _, p := range prior {
		byQuote[normalizeText(p.Quote)] = p
	}
	for i, ann := range fresh {
		p, ok := byQuote[normalizeText(ann.Quote)]
		if !ok {
			continue
		}
		fresh[i].ReviewerNotes = p.ReviewerNotes
		fresh[i].VerificationStatus = p.VerificationStatus
		fresh[i].VerificationNote = p.VerificationNote
	}
	return fresh
}
