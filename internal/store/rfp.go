// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/meshintel/procure-engine/pkg/types"
)

// CreateRFP persists a new RFP. Status defaults to draft when unset.
func (s *Store) CreateRFP(ctx context.Context, rfp types.RFP) (*types.RFP, error) {
	if rfp.Title == "" {
		return nil, validationErrorf("rfp title is required")
	}
	if rfp.Status == "" {
		rfp.Status = types.RFPDraft
	}
	now := nowRFC3339()

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO rfps (title, description, requirements, budget, status, bids_locked, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rfp.Title, rfp.Description, rfp.Requirements, floatToNull(rfp.Budget),
		string(rfp.Status), rfp.BidsLocked, now,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting rfp: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("reading rfp id: %w", err)
	}
	return s.GetRFP(ctx, id)
}

// GetRFP returns the RFP with the given id, or nil when it does not exist.
func (s *Store) GetRFP(ctx context.Context, id int64) (*types.RFP, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, title, description, requirements, budget, status, bids_locked, created_at, updated_at
		 FROM rfps WHERE id = ?`, id)
	rfp, err := scanRFP(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying rfp %d: %w", id, err)
	}
	return rfp, nil
}

// ListRFPs returns all RFPs, newest first.
func (s *Store) ListRFPs(ctx context.Context) ([]types.RFP, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, description, requirements, budget, status, bids_locked, created_at, updated_at
		 FROM rfps ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing rfps: %w", err)
	}
	defer rows.Close()

	var out []types.RFP
	for rows.Next() {
		rfp, err := scanRFP(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning rfp: %w", err)
		}
		out = append(out, *rfp)
	}
	return out, rows.Err()
}

// UpdateRFPStatus moves an RFP to a new lifecycle status.
func (s *Store) UpdateRFPStatus(ctx context.Context, id int64, status types.RFPStatus) error {
	switch status {
	case types.RFPDraft, types.RFPPublished, types.RFPClosed:
	default:
		return validationErrorf("unknown rfp status %q", status)
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE rfps SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), nowRFC3339(), id)
	if err != nil {
		return fmt.Errorf("updating rfp status: %w", err)
	}
	return requireRowAffected(res, "rfp", id)
}

// SetBidsLocked toggles the bid-lock on an RFP. A locked RFP accepts no
// new bid uploads.
func (s *Store) SetBidsLocked(ctx context.Context, id int64, locked bool) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE rfps SET bids_locked = ?, updated_at = ? WHERE id = ?`,
		locked, nowRFC3339(), id)
	if err != nil {
		return fmt.Errorf("updating rfp bid lock: %w", err)
	}
	return requireRowAffected(res, "rfp", id)
}

// scanner covers both sql.Row and sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRFP(sc scanner) (*types.RFP, error) {
	var (
		rfp       types.RFP
		budget    sql.NullFloat64
		status    string
		createdAt string
		updatedAt sql.NullString
	)
	err := sc.Scan(&rfp.ID, &rfp.Title, &rfp.Description, &rfp.Requirements,
		&budget, &status, &rfp.BidsLocked, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	rfp.Budget = nullToFloat(budget)
	rfp.Status = types.RFPStatus(status)
	rfp.CreatedAt = parseTime(createdAt)
	rfp.UpdatedAt = parseTime(updatedAt.String)
	return &rfp, nil
}

func requireRowAffected(res sql.Result, kind string, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if n == 0 {
		return validationErrorf("%s %d not found", kind, id)
	}
	return nil
}
