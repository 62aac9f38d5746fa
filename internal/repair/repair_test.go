package repair

import (
	"errors"
	"testing"
)

func TestRepairWellFormed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"bare object", `{"score": 90, "reasoning": "solid bid"}`},
		{"json fence", "```json\n{\"score\": 90, \"reasoning\": \"solid bid\"}\n```"},
		{"plain fence", "```\n{\"score\": 90, \"reasoning\": \"solid bid\"}\n```"},
		{"leading prose", `Here is my evaluation: {"score": 90, "reasoning": "solid bid"}`},
		{"trailing prose", `{"score": 90, "reasoning": "solid bid"} I hope this helps!`},
		{"fence and trailing prose", "```json\n{\"score\": 90, \"reasoning\": \"solid bid\"}\n```\nLet me know."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obj, err := Repair(tt.raw)
			if err != nil {
				t.Fatalf("Repair: %v", err)
			}
			if obj["score"] != 90.0 {
				t.Errorf("score = %v, want 90", obj["score"])
			}
			if obj["reasoning"] != "solid bid" {
				t.Errorf("reasoning = %v, want %q", obj["reasoning"], "solid bid")
			}
		})
	}
}

func TestRepairTrailingCommas(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"object", `{"score": 55, "reasoning": "partial", }`},
		{"array", `{"score": 55, "reasoning": "partial", "requirements_breakdown": ["a", "b",]}`},
		{"nested", `{"score": 55, "reasoning": "partial", "requirements_breakdown": [{"requirement": "ISO 9001", "compliant": true,},],}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obj, err := Repair(tt.raw)
			if err != nil {
				t.Fatalf("Repair: %v", err)
			}
			if obj["score"] != 55.0 {
				t.Errorf("score = %v, want 55", obj["score"])
			}
		})
	}
}

func TestRepairRegexFallback(t *testing.T) {
	raw := `The bid scores well overall. "score": 72 out of 100, though the
document was hard to read and the JSON got mangled {{{`
	obj, err := Repair(raw)
	if err != nil {
		t.Fatalf("Repair: %v", err)
	}
	if obj["score"] != 72.0 {
		t.Errorf("score = %v, want 72", obj["score"])
	}
}

func TestRepairRegexFallbackReasoningEscapes(t *testing.T) {
	raw := `broken json ahead { "score": 61.5, "reasoning": "Meets the \"core\" requirements.\nMissing certifications." oops`
	obj, err := Repair(raw)
	if err != nil {
		t.Fatalf("Repair: %v", err)
	}
	if obj["score"] != 61.5 {
		t.Errorf("score = %v, want 61.5", obj["score"])
	}
	want := "Meets the \"core\" requirements.\nMissing certifications."
	if obj["reasoning"] != want {
		t.Errorf("reasoning = %q, want %q", obj["reasoning"], want)
	}
}

func TestRepairTruncatedOutput(t *testing.T) {
	// Model stopped mid-array: no balanced object, but score is recoverable.
	raw := `{"score": 44, "reasoning": "incomplete", "requirements_breakdown": [{"requirement": "upt`
	obj, err := Repair(raw)
	if err != nil {
		t.Fatalf("Repair: %v", err)
	}
	if obj["score"] != 44.0 {
		t.Errorf("score = %v, want 44", obj["score"])
	}
	if obj["reasoning"] != "incomplete" {
		t.Errorf("reasoning = %v, want %q", obj["reasoning"], "incomplete")
	}
}

func TestRepairUnparsable(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"pure prose", "I cannot evaluate this bid."},
		{"braces only", "{{{}}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Repair(tt.raw)
			if !errors.Is(err, ErrUnparsable) {
				t.Errorf("err = %v, want ErrUnparsable", err)
			}
		})
	}
}

func TestRepairBracesInsideStrings(t *testing.T) {
	raw := `{"score": 80, "reasoning": "uses {curly} notation"} trailing`
	obj, err := Repair(raw)
	if err != nil {
		t.Fatalf("Repair: %v", err)
	}
	if obj["reasoning"] != "uses {curly} notation" {
		t.Errorf("reasoning = %v", obj["reasoning"])
	}
}
