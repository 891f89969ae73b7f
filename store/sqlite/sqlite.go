/*
Package sqlite provides SQLite-backed persistence for the engine's
inputs and outputs.

PURPOSE:
  Two concerns only: the administratively authored pricing record set
  (loaded once per run into an in-memory catalog snapshot), and
  reconciliation reports (one row per outcome, keyed by run). The
  engine itself never touches the database; resolution runs entirely
  over the snapshot.

APPEND-ONLY PRICING HISTORY:
  Pricing records are never updated in place. A rate change appends a
  new row and closes the previous row's end date, preserving the full
  audit trail the retroactive calculation depends on.

KEY TABLES:
  pricing_records:          Effective-dated rate history (JSON payload)
  reconciliation_runs:      One row per batch run with summary counters
  reconciliation_outcomes:  One row per reconciled payment

WAL MODE:
  SQLite is opened with WAL for better concurrency: readers don't block
  while a run's outcomes are written.

SEE ALSO:
  - pricing/catalog.go: In-memory snapshot the records load into
  - factory/catalog.go: JSON codec reused for record payloads
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/meridian/tuition-engine/factory"
	"github.com/meridian/tuition-engine/pricing"
	"github.com/meridian/tuition-engine/reconcile"
)

// Store persists pricing records and reconciliation reports.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	-- Effective-dated rate history (append-only)
	CREATE TABLE IF NOT EXISTS pricing_records (
		id TEXT PRIMARY KEY,
		scope_key TEXT NOT NULL,
		effective TEXT NOT NULL,
		end_date TEXT,
		payload TEXT NOT NULL,
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_pricing_records_scope ON pricing_records(scope_key, effective);

	CREATE TABLE IF NOT EXISTS reconciliation_runs (
		run_id TEXT PRIMARY KEY,
		created_at TEXT NOT NULL,
		total INTEGER NOT NULL,
		fully_reconciled INTEGER NOT NULL,
		minor_variance INTEGER NOT NULL,
		partial_match INTEGER NOT NULL,
		unmatched INTEGER NOT NULL,
		zero_payment_review INTEGER NOT NULL,
		all_dropped INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS reconciliation_outcomes (
		run_id TEXT NOT NULL REFERENCES reconciliation_runs(run_id),
		payment_ref TEXT NOT NULL,
		student_id TEXT NOT NULL,
		payment_date TEXT NOT NULL,
		expected_amount TEXT NOT NULL,
		actual_amount TEXT NOT NULL,
		variance TEXT NOT NULL,
		variance_pct TEXT NOT NULL,
		status TEXT NOT NULL,
		confidence INTEGER NOT NULL,
		matched_courses TEXT,
		notes TEXT,
		PRIMARY KEY (run_id, payment_ref)
	);
	CREATE INDEX IF NOT EXISTS idx_outcomes_status ON reconciliation_outcomes(run_id, status);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// PRICING RECORDS
// =============================================================================

// SaveRecords inserts pricing records. Existing IDs are rejected;
// history is append-only.
func (s *Store) SaveRecords(ctx context.Context, records []pricing.PricingRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO pricing_records (id, scope_key, effective, end_date, payload, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339)
	for _, rec := range records {
		rj, err := factory.RecordToJSON(rec)
		if err != nil {
			return fmt.Errorf("encode record %s: %w", rec.ID, err)
		}
		payload, err := json.Marshal(rj)
		if err != nil {
			return fmt.Errorf("encode record %s: %w", rec.ID, err)
		}

		var end *string
		if rec.Range.End != nil {
			e := rec.Range.End.String()
			end = &e
		}
		if _, err := stmt.ExecContext(ctx, rec.ID, rec.Scope.Key(), rec.Range.Effective.String(), end, string(payload), now); err != nil {
			return fmt.Errorf("insert record %s: %w", rec.ID, err)
		}
	}
	return tx.Commit()
}

// LoadRecords reads the full pricing history, ordered by scope and
// effective date. Callers hand the result to pricing.NewCatalog, which
// performs the integrity check.
func (s *Store) LoadRecords(ctx context.Context) ([]pricing.PricingRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT payload FROM pricing_records ORDER BY scope_key, effective`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []factory.RecordJSON
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var rj factory.RecordJSON
		if err := json.Unmarshal([]byte(payload), &rj); err != nil {
			return nil, fmt.Errorf("decode record payload: %w", err)
		}
		docs = append(docs, rj)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	doc := factory.CatalogJSON{Records: docs}
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	return factory.ParseCatalog(data)
}

// =============================================================================
// RECONCILIATION REPORTS
// =============================================================================

// SaveReport persists a batch run and its outcomes atomically.
func (s *Store) SaveReport(ctx context.Context, report reconcile.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	sum := report.Summary
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO reconciliation_runs
		(run_id, created_at, total, fully_reconciled, minor_variance, partial_match, unmatched, zero_payment_review, all_dropped)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		report.RunID, time.Now().UTC().Format(time.RFC3339),
		sum.Total, sum.FullyReconciled, sum.MinorVariance, sum.PartialMatch,
		sum.Unmatched, sum.ZeroPaymentReview, sum.AllDropped); err != nil {
		return fmt.Errorf("insert run %s: %w", report.RunID, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO reconciliation_outcomes
		(run_id, payment_ref, student_id, payment_date, expected_amount, actual_amount,
		 variance, variance_pct, status, confidence, matched_courses, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, out := range report.Outcomes {
		courses, err := json.Marshal(out.MatchedCourseCodes)
		if err != nil {
			return err
		}
		notes, err := json.Marshal(out.Notes)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx,
			report.RunID, out.PaymentRef, out.StudentID, out.PaymentDate.String(),
			out.ExpectedAmount.String(), out.ActualAmount.String(),
			out.Variance.String(), out.VariancePct.String(),
			string(out.Status), out.Confidence, string(courses), string(notes)); err != nil {
			return fmt.Errorf("insert outcome %s: %w", out.PaymentRef, err)
		}
	}
	return tx.Commit()
}

// LoadSummary reads one run's counters.
func (s *Store) LoadSummary(ctx context.Context, runID string) (reconcile.Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var sum reconcile.Summary
	err := s.db.QueryRowContext(ctx, `
		SELECT total, fully_reconciled, minor_variance, partial_match, unmatched, zero_payment_review, all_dropped
		FROM reconciliation_runs WHERE run_id = ?`, runID).
		Scan(&sum.Total, &sum.FullyReconciled, &sum.MinorVariance, &sum.PartialMatch,
			&sum.Unmatched, &sum.ZeroPaymentReview, &sum.AllDropped)
	if err != nil {
		return reconcile.Summary{}, err
	}
	return sum, nil
}

// ListRuns returns run IDs, newest first.
func (s *Store) ListRuns(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT run_id FROM reconciliation_runs ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		runs = append(runs, id)
	}
	return runs, rows.Err()
}
