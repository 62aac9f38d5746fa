// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// RFPStatus tracks an RFP through its lifecycle.
type RFPStatus string

const (
	RFPDraft     RFPStatus = "draft"
	RFPPublished RFPStatus = "published"
	RFPClosed    RFPStatus = "closed"
)

// RFP is a request for proposals that vendors bid against.
type RFP struct {
	ID           int64     `json:"id" yaml:"id"`
	Title        string    `json:"title" yaml:"title"`
	Description  string    `json:"description,omitempty" yaml:"description,omitempty"`
	Requirements string    `json:"requirements,omitempty" yaml:"requirements,omitempty"`
	Budget       *float64  `json:"budget,omitempty" yaml:"budget,omitempty"`
	Status       RFPStatus `json:"status" yaml:"status"`
	BidsLocked   bool      `json:"bids_locked" yaml:"bids_locked"`
	CreatedAt    time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt    time.Time `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`
}

// BidStatus tracks a bid through the review workflow.
type BidStatus string

const (
	BidUploaded  BidStatus = "Uploaded"
	BidEvaluated BidStatus = "Evaluated"
	BidApproved  BidStatus = "Approved"
	BidRejected  BidStatus = "Rejected"
)

// Bid is one vendor submission against an RFP, together with the cached
// document understanding (extracted text, per-page text, chunks, summary)
// and the latest evaluation.
type Bid struct {
	ID       int64 `json:"id" yaml:"id"`
	RFPID    int64 `json:"rfp_id" yaml:"rfp_id"`
	VendorID *int64 `json:"vendor_id,omitempty" yaml:"vendor_id,omitempty"`

	Filename string `json:"filename" yaml:"filename"`
	FilePath string `json:"file_path" yaml:"file_path"`

	// ExtractedText is the full document text from ingestion.
	ExtractedText string `json:"extracted_text,omitempty" yaml:"extracted_text,omitempty"`

	// TextChunks and PageTexts are JSON-encoded caches computed once at
	// ingestion. Corrupted values are treated as cache misses, never
	// hard failures.
	TextChunks string `json:"text_chunks,omitempty" yaml:"text_chunks,omitempty"`
	PageTexts  string `json:"page_texts,omitempty" yaml:"page_texts,omitempty"`

	// EvaluationSummary is a short summary captured at ingestion, preferred
	// over raw text when composing evaluation prompts.
	EvaluationSummary string `json:"evaluation_summary,omitempty" yaml:"evaluation_summary,omitempty"`

	// VendorName is denormalized from the resolved vendor for display.
	VendorName string    `json:"vendor_name" yaml:"vendor_name"`
	Status     BidStatus `json:"status" yaml:"status"`

	// Latest AI evaluation. Requirements and annotations are stored as
	// JSON arrays.
	AIScore        *float64         `json:"ai_score,omitempty" yaml:"ai_score,omitempty"`
	AIReasoning    string           `json:"ai_reasoning,omitempty" yaml:"ai_reasoning,omitempty"`
	AISource       EvaluationSource `json:"ai_source,omitempty" yaml:"ai_source,omitempty"`
	AIRequirements string           `json:"ai_requirements,omitempty" yaml:"ai_requirements,omitempty"`
	AIAnnotations  string           `json:"ai_annotations,omitempty" yaml:"ai_annotations,omitempty"`

	// LastEvalSeconds is the wall-clock duration of the last evaluation.
	LastEvalSeconds *float64 `json:"last_eval_seconds,omitempty" yaml:"last_eval_seconds,omitempty"`

	HumanScore *float64 `json:"human_score,omitempty" yaml:"human_score,omitempty"`
	HumanNotes string   `json:"human_notes,omitempty" yaml:"human_notes,omitempty"`

	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`
}

// AuditEvent is one append-only entry in a bid's audit trail.
// Actions: created, evaluated, human_review, approved, rejected.
type AuditEvent struct {
	ID        int64     `json:"id" yaml:"id"`
	BidID     int64     `json:"bid_id" yaml:"bid_id"`
	Action    string    `json:"action" yaml:"action"`
	Actor     string    `json:"actor,omitempty" yaml:"actor,omitempty"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// EvaluationSnapshot preserves a bid's evaluation before re-evaluation
// overwrites it.
type EvaluationSnapshot struct {
	ID             int64     `json:"id" yaml:"id"`
	BidID          int64     `json:"bid_id" yaml:"bid_id"`
	AIScore        *float64  `json:"ai_score,omitempty" yaml:"ai_score,omitempty"`
	AIReasoning    string    `json:"ai_reasoning,omitempty" yaml:"ai_reasoning,omitempty"`
	AIRequirements string    `json:"ai_requirements,omitempty" yaml:"ai_requirements,omitempty"`
	AIAnnotations  string    `json:"ai_annotations,omitempty" yaml:"ai_annotations,omitempty"`
	HumanScore     *float64  `json:"human_score,omitempty" yaml:"human_score,omitempty"`
	HumanNotes     string    `json:"human_notes,omitempty" yaml:"human_notes,omitempty"`
	CreatedAt      time.Time `json:"created_at" yaml:"created_at"`
}

// QAStatus tracks a vendor question.
type QAStatus string

const (
	QAUnanswered QAStatus = "Unanswered"
	QAAnswered   QAStatus = "Answered"
)

// VendorQA is one vendor question on an RFP and its eventual answer.
type VendorQA struct {
	ID         int64     `json:"id" yaml:"id"`
	RFPID      int64     `json:"rfp_id" yaml:"rfp_id"`
	VendorName string    `json:"vendor_name" yaml:"vendor_name"`
	Question   string    `json:"question" yaml:"question"`
	Answer     string    `json:"answer,omitempty" yaml:"answer,omitempty"`
	Status     QAStatus  `json:"status" yaml:"status"`
	CreatedAt  time.Time `json:"created_at" yaml:"created_at"`
}
