// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/meshintel/procure-engine/pkg/types"
)

// CreateVendor persists a vendor and its representatives in one
// transaction and returns the stored record.
func (s *Store) CreateVendor(ctx context.Context, v types.Vendor) (*types.Vendor, error) {
	if v.Name == "" {
		return nil, validationErrorf("vendor name is required")
	}
	now := nowRFC3339()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO vendors (name, address, website, domain, website_verified, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		v.Name, v.Address, v.Website, v.Domain, boolToNull(v.WebsiteVerified), now)
	if err != nil {
		return nil, fmt.Errorf("inserting vendor: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("reading vendor id: %w", err)
	}

	for _, rep := range v.Representatives {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO vendor_reps (vendor_id, name, email, phone, designation, phone_verified, email_verified)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			id, rep.Name, rep.Email, rep.Phone, rep.Designation,
			boolToNull(rep.PhoneVerified), boolToNull(rep.EmailVerified))
		if err != nil {
			return nil, fmt.Errorf("inserting representative: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing vendor: %w", err)
	}
	return s.GetVendor(ctx, id)
}

// GetVendor returns the vendor with its representatives, or nil when it
// does not exist.
func (s *Store) GetVendor(ctx context.Context, id int64) (*types.Vendor, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, address, website, domain, website_verified, created_at
		 FROM vendors WHERE id = ?`, id)
	v, err := scanVendor(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying vendor %d: %w", id, err)
	}
	if err := s.loadRepresentatives(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

// FindVendorByName matches a vendor by case-insensitive name, or returns
// nil when no vendor matches.
func (s *Store) FindVendorByName(ctx context.Context, name string) (*types.Vendor, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, address, website, domain, website_verified, created_at
		 FROM vendors WHERE LOWER(name) = LOWER(?) ORDER BY id ASC LIMIT 1`, name)
	v, err := scanVendor(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("matching vendor by name: %w", err)
	}
	if err := s.loadRepresentatives(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

// FindVendorByWebsite matches a vendor by exact website, or returns nil
// when no vendor matches.
func (s *Store) FindVendorByWebsite(ctx context.Context, website string) (*types.Vendor, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, address, website, domain, website_verified, created_at
		 FROM vendors WHERE website = ? ORDER BY id ASC LIMIT 1`, website)
	v, err := scanVendor(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("matching vendor by website: %w", err)
	}
	if err := s.loadRepresentatives(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

// ListVendors returns all vendors with their representatives, newest first.
func (s *Store) ListVendors(ctx context.Context) ([]types.Vendor, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, address, website, domain, website_verified, created_at
		 FROM vendors ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing vendors: %w", err)
	}
	defer rows.Close()

	var out []types.Vendor
	for rows.Next() {
		v, err := scanVendor(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning vendor: %w", err)
		}
		out = append(out, *v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		if err := s.loadRepresentatives(ctx, &out[i]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (s *Store) loadRepresentatives(ctx context.Context, v *types.Vendor) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, vendor_id, name, email, phone, designation, phone_verified, email_verified
		 FROM vendor_reps WHERE vendor_id = ? ORDER BY id ASC`, v.ID)
	if err != nil {
		return fmt.Errorf("loading representatives: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			rep         types.Representative
			name        sql.NullString
			email       sql.NullString
			phone       sql.NullString
			designation sql.NullString
			phoneVer    sql.NullInt64
			emailVer    sql.NullInt64
		)
		err := rows.Scan(&rep.ID, &rep.VendorID, &name, &email, &phone,
			&designation, &phoneVer, &emailVer)
		if err != nil {
			return fmt.Errorf("scanning representative: %w", err)
		}
		rep.Name = name.String
		rep.Email = email.String
		rep.Phone = phone.String
		rep.Designation = designation.String
		rep.PhoneVerified = nullToBool(phoneVer)
		rep.EmailVerified = nullToBool(emailVer)
		v.Representatives = append(v.Representatives, rep)
	}
	return rows.Err()
}

func scanVendor(sc scanner) (*types.Vendor, error) {
	var (
		v          types.Vendor
		address    sql.NullString
		website    sql.NullString
		domain     sql.NullString
		webVerNull sql.NullInt64
		createdAt  string
	)
	err := sc.Scan(&v.ID, &v.Name, &address, &website, &domain, &webVerNull, &createdAt)
	if err != nil {
		return nil, err
	}
	v.Address = address.String
	v.Website = website.String
	v.Domain = domain.String
	v.WebsiteVerified = nullToBool(webVerNull)
	v.CreatedAt = parseTime(createdAt)
	return &v, nil
}
