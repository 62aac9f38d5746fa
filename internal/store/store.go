// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists RFPs, bids, vendors, and their audit history in
// a SQLite database under the configured data directory.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/meshintel/procure-engine/pkg/types"
)

const dbFile = "procure.db"

// ValidationError reports a caller mistake (bad index, missing record
// precondition) as opposed to an infrastructure failure.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func validationErrorf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// Store manages the procurement SQLite database.
type Store struct {
	db      *sql.DB
	dataDir string
}

// NewStore opens or creates the database at dataDir/procure.db, creating
// the schema when absent.
func NewStore(cfg types.StoreConfig) (*Store, error) {
	dataDir := cfg.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, dataDir: dataDir}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS rfps (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL,
			description TEXT,
			requirements TEXT,
			budget REAL,
			status TEXT NOT NULL DEFAULT 'draft',
			bids_locked INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL,
			updated_at TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS vendors (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			address TEXT,
			website TEXT,
			domain TEXT,
			website_verified INTEGER,
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS vendor_reps (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			vendor_id INTEGER NOT NULL REFERENCES vendors(id),
			name TEXT,
			email TEXT,
			phone TEXT,
			designation TEXT,
			phone_verified INTEGER,
			email_verified INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_vendor_reps_vendor ON vendor_reps(vendor_id)`,
		`CREATE TABLE IF NOT EXISTS bids (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			rfp_id INTEGER NOT NULL REFERENCES rfps(id),
			vendor_id INTEGER REFERENCES vendors(id),
			filename TEXT NOT NULL,
			file_path TEXT NOT NULL,
			extracted_text TEXT,
			text_chunks TEXT,
			page_texts TEXT,
			evaluation_summary TEXT,
			vendor_name TEXT,
			status TEXT NOT NULL DEFAULT 'Uploaded',
			ai_score REAL,
			ai_reasoning TEXT,
			ai_source TEXT,
			ai_requirements TEXT,
			ai_annotations TEXT,
			last_eval_seconds REAL,
			human_score REAL,
			human_notes TEXT,
			created_at TEXT NOT NULL,
			updated_at TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_bids_rfp ON bids(rfp_id)`,
		`CREATE TABLE IF NOT EXISTS bid_audit_events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			bid_id INTEGER NOT NULL REFERENCES bids(id),
			action TEXT NOT NULL,
			actor TEXT,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_audit_bid ON bid_audit_events(bid_id)`,
		`CREATE TABLE IF NOT EXISTS bid_evaluation_history (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			bid_id INTEGER NOT NULL REFERENCES bids(id),
			ai_score REAL,
			ai_reasoning TEXT,
			ai_requirements TEXT,
			ai_annotations TEXT,
			human_score REAL,
			human_notes TEXT,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_history_bid ON bid_evaluation_history(bid_id)`,
		`CREATE TABLE IF NOT EXISTS vendor_qa (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			rfp_id INTEGER NOT NULL REFERENCES rfps(id),
			vendor_name TEXT,
			question TEXT NOT NULL,
			answer TEXT,
			status TEXT NOT NULL DEFAULT 'Unanswered',
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_qa_rfp ON vendor_qa(rfp_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// boolToNull maps a tri-state flag to a nullable integer column.
func boolToNull(v *bool) any {
	if v == nil {
		return nil
	}
	if *v {
		return int64(1)
	}
	return int64(0)
}

// nullToBool maps a nullable integer column back to a tri-state flag.
func nullToBool(v sql.NullInt64) *bool {
	if !v.Valid {
		return nil
	}
	b := v.Int64 != 0
	return &b
}

func floatToNull(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullToFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

// nowRFC3339 is the stored timestamp format for every table.
func nowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
