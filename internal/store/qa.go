// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/meshintel/procure-engine/pkg/types"
)

// CreateQuestion records a vendor question on an RFP.
func (s *Store) CreateQuestion(ctx context.Context, q types.VendorQA) (*types.VendorQA, error) {
	if q.Question == "" {
		return nil, validationErrorf("question text is required")
	}
	rfp, err := s.GetRFP(ctx, q.RFPID)
	if err != nil {
		return nil, err
	}
	if rfp == nil {
		return nil, validationErrorf("rfp %d not found", q.RFPID)
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO vendor_qa (rfp_id, vendor_name, question, status, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		q.RFPID, q.VendorName, q.Question, string(types.QAUnanswered), nowRFC3339())
	if err != nil {
		return nil, fmt.Errorf("inserting question: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("reading question id: %w", err)
	}
	return s.getQuestion(ctx, id)
}

// AnswerQuestion records the answer to a question and marks it answered.
func (s *Store) AnswerQuestion(ctx context.Context, id int64, answer string) error {
	if answer == "" {
		return validationErrorf("answer text is required")
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE vendor_qa SET answer = ?, status = ? WHERE id = ?`,
		answer, string(types.QAAnswered), id)
	if err != nil {
		return fmt.Errorf("answering question: %w", err)
	}
	return requireRowAffected(res, "question", id)
}

// ListQuestions returns all questions on an RFP, oldest first.
func (s *Store) ListQuestions(ctx context.Context, rfpID int64) ([]types.VendorQA, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, rfp_id, vendor_name, question, answer, status, created_at
		 FROM vendor_qa WHERE rfp_id = ? ORDER BY id ASC`, rfpID)
	if err != nil {
		return nil, fmt.Errorf("listing questions: %w", err)
	}
	defer rows.Close()

	var out []types.VendorQA
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning question: %w", err)
		}
		out = append(out, *q)
	}
	return out, rows.Err()
}

func (s *Store) getQuestion(ctx context.Context, id int64) (*types.VendorQA, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, rfp_id, vendor_name, question, answer, status, created_at
		 FROM vendor_qa WHERE id = ?`, id)
	q, err := scanQuestion(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying question %d: %w", id, err)
	}
	return q, nil
}

func scanQuestion(sc scanner) (*types.VendorQA, error) {
	var (
		q          types.VendorQA
		vendorName sql.NullString
		answer     sql.NullString
		status     string
		createdAt  string
	)
	err := sc.Scan(&q.ID, &q.RFPID, &vendorName, &q.Question, &answer, &status, &createdAt)
	if err != nil {
		return nil, err
	}
	q.VendorName = vendorName.String
	q.Answer = answer.String
	q.Status = types.QAStatus(status)
	q.CreatedAt = parseTime(createdAt)
	return &q, nil
}
