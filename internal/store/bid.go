// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/meshintel/procure-engine/pkg/types"
)

// Audit actions recorded on bids.
const (
	AuditCreated     = "created"
	AuditEvaluated   = "evaluated"
	AuditHumanReview = "human_review"
	AuditApproved    = "approved"
	AuditRejected    = "rejected"
)

// CreateBid persists an uploaded bid with its ingestion-time caches and
// records the "created" audit event. Uploads against a locked or missing
// RFP fail with a ValidationError.
func (s *Store) CreateBid(ctx context.Context, bid types.Bid) (*types.Bid, error) {
	if bid.Filename == "" {
		return nil, validationErrorf("bid filename is required")
	}

	var locked bool
	err := s.db.QueryRowContext(ctx,
		`SELECT bids_locked FROM rfps WHERE id = ?`, bid.RFPID).Scan(&locked)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, validationErrorf("rfp %d not found", bid.RFPID)
	}
	if err != nil {
		return nil, fmt.Errorf("checking rfp %d: %w", bid.RFPID, err)
	}
	if locked {
		return nil, validationErrorf("rfp %d is not accepting bids", bid.RFPID)
	}

	if bid.Status == "" {
		bid.Status = types.BidUploaded
	}
	now := nowRFC3339()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO bids (rfp_id, vendor_id, filename, file_path, extracted_text,
			text_chunks, page_texts, evaluation_summary, vendor_name, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		bid.RFPID, bid.VendorID, bid.Filename, bid.FilePath, bid.ExtractedText,
		bid.TextChunks, bid.PageTexts, bid.EvaluationSummary, bid.VendorName,
		string(bid.Status), now,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting bid: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("reading bid id: %w", err)
	}

	if err := appendAudit(ctx, tx, id, AuditCreated, ""); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing bid: %w", err)
	}
	return s.GetBid(ctx, id)
}

// GetBid returns the bid with the given id, or nil when it does not exist.
func (s *Store) GetBid(ctx context.Context, id int64) (*types.Bid, error) {
	row := s.db.QueryRowContext(ctx, selectBid+` WHERE id = ?`, id)
	bid, err := scanBid(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying bid %d: %w", id, err)
	}
	return bid, nil
}

// ListBids returns all bids for an RFP, newest first.
func (s *Store) ListBids(ctx context.Context, rfpID int64) ([]types.Bid, error) {
	rows, err := s.db.QueryContext(ctx, selectBid+` WHERE rfp_id = ? ORDER BY id DESC`, rfpID)
	if err != nil {
		return nil, fmt.Errorf("listing bids: %w", err)
	}
	defer rows.Close()

	var out []types.Bid
	for rows.Next() {
		bid, err := scanBid(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning bid: %w", err)
		}
		out = append(out, *bid)
	}
	return out, rows.Err()
}

// SetBidVendor links a bid to its resolved vendor.
func (s *Store) SetBidVendor(ctx context.Context, bidID, vendorID int64, vendorName string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE bids SET vendor_id = ?, vendor_name = ?, updated_at = ? WHERE id = ?`,
		vendorID, vendorName, nowRFC3339(), bidID)
	if err != nil {
		return fmt.Errorf("linking bid vendor: %w", err)
	}
	return requireRowAffected(res, "bid", bidID)
}

// SaveEvaluation stores a fresh evaluation on the bid. The previous
// evaluation, when one exists, is snapshotted into history in the same
// transaction, and an "evaluated" audit event is recorded.
func (s *Store) SaveEvaluation(ctx context.Context, bidID int64, result types.EvaluationResult, elapsedSeconds float64) error {
	reqJSON, err := json.Marshal(result.Requirements)
	if err != nil {
		return fmt.Errorf("encoding requirements: %w", err)
	}
	annJSON, err := json.Marshal(result.Annotations)
	if err != nil {
		return fmt.Errorf("encoding annotations: %w", err)
	}
	now := nowRFC3339()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var (
		prevScore      sql.NullFloat64
		prevReasoning  sql.NullString
		prevReqs       sql.NullString
		prevAnns       sql.NullString
		prevHumanScore sql.NullFloat64
		prevHumanNotes sql.NullString
	)
	err = tx.QueryRowContext(ctx,
		`SELECT ai_score, ai_reasoning, ai_requirements, ai_annotations, human_score, human_notes
		 FROM bids WHERE id = ?`, bidID).
		Scan(&prevScore, &prevReasoning, &prevReqs, &prevAnns, &prevHumanScore, &prevHumanNotes)
	if errors.Is(err, sql.ErrNoRows) {
		return validationErrorf("bid %d not found", bidID)
	}
	if err != nil {
		return fmt.Errorf("reading bid %d: %w", bidID, err)
	}

	if prevScore.Valid {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO bid_evaluation_history
				(bid_id, ai_score, ai_reasoning, ai_requirements, ai_annotations, human_score, human_notes, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			bidID, prevScore, prevReasoning, prevReqs, prevAnns,
			prevHumanScore, prevHumanNotes, now)
		if err != nil {
			return fmt.Errorf("snapshotting evaluation: %w", err)
		}
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE bids SET ai_score = ?, ai_reasoning = ?, ai_source = ?, ai_requirements = ?,
			ai_annotations = ?, last_eval_seconds = ?, status = ?, updated_at = ?
		 WHERE id = ?`,
		floatToNull(result.Score), result.Reasoning, string(result.Source),
		string(reqJSON), string(annJSON), elapsedSeconds,
		string(types.BidEvaluated), now, bidID)
	if err != nil {
		return fmt.Errorf("saving evaluation: %w", err)
	}

	if err := appendAudit(ctx, tx, bidID, AuditEvaluated, ""); err != nil {
		return err
	}
	return tx.Commit()
}

// SaveHumanReview records a reviewer's score and notes on a bid.
func (s *Store) SaveHumanReview(ctx context.Context, bidID int64, score *float64, notes, actor string) error {
	if score != nil && (*score < 0 || *score > 100) {
		return validationErrorf("human score %v out of range [0,100]", *score)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE bids SET human_score = ?, human_notes = ?, updated_at = ? WHERE id = ?`,
		floatToNull(score), notes, nowRFC3339(), bidID)
	if err != nil {
		return fmt.Errorf("saving human review: %w", err)
	}
	if err := requireRowAffected(res, "bid", bidID); err != nil {
		return err
	}
	if err := appendAudit(ctx, tx, bidID, AuditHumanReview, actor); err != nil {
		return err
	}
	return tx.Commit()
}

// DecideBid moves a bid to Approved or Rejected and records the decision.
func (s *Store) DecideBid(ctx context.Context, bidID int64, approve bool, actor string) error {
	status := types.BidRejected
	action := AuditRejected
	if approve {
		status = types.BidApproved
		action = AuditApproved
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE bids SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), nowRFC3339(), bidID)
	if err != nil {
		return fmt.Errorf("deciding bid: %w", err)
	}
	if err := requireRowAffected(res, "bid", bidID); err != nil {
		return err
	}
	if err := appendAudit(ctx, tx, bidID, action, actor); err != nil {
		return err
	}
	return tx.Commit()
}

// SetAnnotationVerification records a reviewer's verdict on one stored
// annotation, addressed by its position in the annotations array. An
// out-of-range index is a ValidationError.
func (s *Store) SetAnnotationVerification(ctx context.Context, bidID int64, index int, status, note string) error {
	bid, err := s.GetBid(ctx, bidID)
	if err != nil {
		return err
	}
	if bid == nil {
		return validationErrorf("bid %d not found", bidID)
	}

	anns := DecodeAnnotations(bid)
	if index < 0 || index >= len(anns) {
		return validationErrorf("annotation index %d out of range for bid %d (have %d)", index, bidID, len(anns))
	}
	anns[index].VerificationStatus = status
	anns[index].VerificationNote = note

	return s.UpdateAnnotations(ctx, bidID, anns)
}

// SetAnnotationNotes records reviewer notes on one stored annotation.
func (s *Store) SetAnnotationNotes(ctx context.Context, bidID int64, index int, notes string) error {
	bid, err := s.GetBid(ctx, bidID)
	if err != nil {
		return err
	}
	if bid == nil {
		return validationErrorf("bid %d not found", bidID)
	}

	anns := DecodeAnnotations(bid)
	if index < 0 || index >= len(anns) {
		return validationErrorf("annotation index %d out of range for bid %d (have %d)", index, bidID, len(anns))
	}
	anns[index].ReviewerNotes = notes

	return s.UpdateAnnotations(ctx, bidID, anns)
}

// UpdateAnnotations replaces a bid's stored annotations.
func (s *Store) UpdateAnnotations(ctx context.Context, bidID int64, anns []types.Annotation) error {
	data, err := json.Marshal(anns)
	if err != nil {
		return fmt.Errorf("encoding annotations: %w", err)
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE bids SET ai_annotations = ?, updated_at = ? WHERE id = ?`,
		string(data), nowRFC3339(), bidID)
	if err != nil {
		return fmt.Errorf("updating annotations: %w", err)
	}
	return requireRowAffected(res, "bid", bidID)
}

// ListAuditEvents returns a bid's audit trail, oldest first.
func (s *Store) ListAuditEvents(ctx context.Context, bidID int64) ([]types.AuditEvent, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, bid_id, action, actor, created_at FROM bid_audit_events
		 WHERE bid_id = ? ORDER BY id ASC`, bidID)
	if err != nil {
		return nil, fmt.Errorf("listing audit events: %w", err)
	}
	defer rows.Close()

	var out []types.AuditEvent
	for rows.Next() {
		var (
			ev        types.AuditEvent
			actor     sql.NullString
			createdAt string
		)
		if err := rows.Scan(&ev.ID, &ev.BidID, &ev.Action, &actor, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning audit event: %w", err)
		}
		ev.Actor = actor.String
		ev.CreatedAt = parseTime(createdAt)
		out = append(out, ev)
	}
	return out, rows.Err()
}

// ListEvaluationHistory returns a bid's evaluation snapshots, newest first.
func (s *Store) ListEvaluationHistory(ctx context.Context, bidID int64) ([]types.EvaluationSnapshot, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, bid_id, ai_score, ai_reasoning, ai_requirements, ai_annotations,
			human_score, human_notes, created_at
		 FROM bid_evaluation_history WHERE bid_id = ? ORDER BY id DESC`, bidID)
	if err != nil {
		return nil, fmt.Errorf("listing evaluation history: %w", err)
	}
	defer rows.Close()

	var out []types.EvaluationSnapshot
	for rows.Next() {
		var (
			snap       types.EvaluationSnapshot
			aiScore    sql.NullFloat64
			reasoning  sql.NullString
			reqs       sql.NullString
			anns       sql.NullString
			humanScore sql.NullFloat64
			humanNotes sql.NullString
			createdAt  string
		)
		err := rows.Scan(&snap.ID, &snap.BidID, &aiScore, &reasoning, &reqs, &anns,
			&humanScore, &humanNotes, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("scanning snapshot: %w", err)
		}
		snap.AIScore = nullToFloat(aiScore)
		snap.AIReasoning = reasoning.String
		snap.AIRequirements = reqs.String
		snap.AIAnnotations = anns.String
		snap.HumanScore = nullToFloat(humanScore)
		snap.HumanNotes = humanNotes.String
		snap.CreatedAt = parseTime(createdAt)
		out = append(out, snap)
	}
	return out, rows.Err()
}

// DecodeChunks returns the bid's cached text chunks. A missing or
// corrupted cache reads as empty, never as an error.
func DecodeChunks(bid *types.Bid) []string {
	if bid == nil || bid.TextChunks == "" {
		return nil
	}
	var chunks []string
	if err := json.Unmarshal([]byte(bid.TextChunks), &chunks); err != nil {
		return nil
	}
	return chunks
}

// DecodePages returns the bid's cached per-page texts. A missing or
// corrupted cache reads as empty, never as an error.
func DecodePages(bid *types.Bid) []string {
	if bid == nil || bid.PageTexts == "" {
		return nil
	}
	var pages []string
	if err := json.Unmarshal([]byte(bid.PageTexts), &pages); err != nil {
		return nil
	}
	return pages
}

// DecodeAnnotations returns the bid's stored annotations. A missing or
// corrupted value reads as empty.
func DecodeAnnotations(bid *types.Bid) []types.Annotation {
	if bid == nil || bid.AIAnnotations == "" {
		return nil
	}
	var anns []types.Annotation
	if err := json.Unmarshal([]byte(bid.AIAnnotations), &anns); err != nil {
		return nil
	}
	return anns
}

func appendAudit(ctx context.Context, tx *sql.Tx, bidID int64, action, actor string) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO bid_audit_events (bid_id, action, actor, created_at) VALUES (?, ?, ?, ?)`,
		bidID, action, actor, nowRFC3339())
	if err != nil {
		return fmt.Errorf("recording audit event: %w", err)
	}
	return nil
}

const selectBid = `SELECT id, rfp_id, vendor_id, filename, file_path, extracted_text,
	text_chunks, page_texts, evaluation_summary, vendor_name, status,
	ai_score, ai_reasoning, ai_source, ai_requirements, ai_annotations,
	last_eval_seconds, human_score, human_notes, created_at, updated_at
	FROM bids`

func scanBid(sc scanner) (*types.Bid, error) {
	var (
		bid         types.Bid
		vendorID    sql.NullInt64
		extracted   sql.NullString
		chunks      sql.NullString
		pages       sql.NullString
		summary     sql.NullString
		vendorName  sql.NullString
		status      string
		aiScore     sql.NullFloat64
		aiReasoning sql.NullString
		aiSource    sql.NullString
		aiReqs      sql.NullString
		aiAnns      sql.NullString
		evalSecs    sql.NullFloat64
		humanScore  sql.NullFloat64
		humanNotes  sql.NullString
		createdAt   string
		updatedAt   sql.NullString
	)
	err := sc.Scan(&bid.ID, &bid.RFPID, &vendorID, &bid.Filename, &bid.FilePath,
		&extracted, &chunks, &pages, &summary, &vendorName, &status,
		&aiScore, &aiReasoning, &aiSource, &aiReqs, &aiAnns,
		&evalSecs, &humanScore, &humanNotes, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	if vendorID.Valid {
		bid.VendorID = &vendorID.Int64
	}
	bid.ExtractedText = extracted.String
	bid.TextChunks = chunks.String
	bid.PageTexts = pages.String
	bid.EvaluationSummary = summary.String
	bid.VendorName = vendorName.String
	bid.Status = types.BidStatus(status)
	bid.AIScore = nullToFloat(aiScore)
	bid.AIReasoning = aiReasoning.String
	bid.AISource = types.EvaluationSource(aiSource.String)
	bid.AIRequirements = aiReqs.String
	bid.AIAnnotations = aiAnns.String
	bid.LastEvalSeconds = nullToFloat(evalSecs)
	bid.HumanScore = nullToFloat(humanScore)
	bid.HumanNotes = humanNotes.String
	bid.CreatedAt = parseTime(createdAt)
	bid.UpdatedAt = parseTime(updatedAt.String)
	return &bid, nil
}
