// Package store provides the SQLite-backed run journal: one row per
// invocation, the auditable trail the rest of the system trusts, plus the
// run lock that keeps invocations from overlapping.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/tenbis-tools/tenbuy/internal/model"

	_ "modernc.org/sqlite" // register sqlite driver
)

// ErrLocked means another invocation currently holds the run lock.
var ErrLocked = errors.New("store: another run is in flight")

// Journal records run outcomes.
type Journal struct {
	db *sql.DB
}

// Open opens or creates the journal database at the given path.
func Open(dbPath string) (*Journal, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating journal dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("opening journal db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Journal{db: db}, nil
}

// Close closes the journal database.
func (j *Journal) Close() error {
	return j.db.Close()
}

// Append records one terminal outcome.
func (j *Journal) Append(o model.Outcome) error {
	var dailyRemaining, monthlyRemaining, shortfall sql.NullFloat64
	if o.Allowance != nil {
		dailyRemaining = sql.NullFloat64{Float64: o.Allowance.DailyRemaining, Valid: true}
		monthlyRemaining = sql.NullFloat64{Float64: o.Allowance.MonthlyRemaining, Valid: true}
	}
	if o.Kind == model.OutcomeSkipped {
		shortfall = sql.NullFloat64{Float64: o.Shortfall, Valid: true}
	}

	var cause string
	if o.Err != nil {
		cause = o.Err.Error()
	}

	dryRun := 0
	if o.Mode.DryRun {
		dryRun = 1
	}

	var confirmationID, screenshotPath, documentPath string
	if o.Confirmation != nil {
		confirmationID = o.Confirmation.ID
		screenshotPath = o.Confirmation.ScreenshotPath
		documentPath = o.Confirmation.DocumentPath
	}

	_, err := j.db.Exec(`INSERT INTO runs
		(run_id, started_at, finished_at, outcome, dry_run, item_url, item_price,
		 daily_remaining, monthly_remaining, block_reason, shortfall, stage, cause,
		 confirmation_id, screenshot_path, document_path)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		o.RunID,
		o.StartedAt.UTC().Format(time.RFC3339),
		o.FinishedAt.UTC().Format(time.RFC3339),
		string(o.Kind), dryRun, o.Item.URL, o.Item.Price,
		dailyRemaining, monthlyRemaining,
		string(o.Reason), shortfall, string(o.Stage), cause,
		confirmationID, screenshotPath, documentPath,
	)
	if err != nil {
		return fmt.Errorf("appending run: %w", err)
	}
	return nil
}

// Run is one journal row.
type Run struct {
	RunID            string
	StartedAt        time.Time
	FinishedAt       time.Time
	Outcome          string
	DryRun           bool
	ItemURL          string
	ItemPrice        float64
	DailyRemaining   *float64
	MonthlyRemaining *float64
	BlockReason      string
	Shortfall        *float64
	Stage            string
	Cause            string
	ConfirmationID   string
	ScreenshotPath   string
	DocumentPath     string
}

// Recent returns up to limit runs, newest first.
func (j *Journal) Recent(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := j.db.Query(`SELECT
		run_id, started_at, finished_at, outcome, dry_run, item_url, item_price,
		daily_remaining, monthly_remaining, block_reason, shortfall, stage, cause,
		confirmation_id, screenshot_path, document_path
		FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var runs []Run
	for rows.Next() {
		var r Run
		var startStr, endStr string
		var dryRun int
		var daily, monthly, shortfall sql.NullFloat64
		var reason, stage, cause, confID, shot, doc sql.NullString

		err := rows.Scan(
			&r.RunID, &startStr, &endStr, &r.Outcome, &dryRun, &r.ItemURL, &r.ItemPrice,
			&daily, &monthly, &reason, &shortfall, &stage, &cause,
			&confID, &shot, &doc,
		)
		if err != nil {
			return nil, err
		}

		r.DryRun = dryRun != 0
		r.StartedAt, _ = time.Parse(time.RFC3339, startStr)
		r.FinishedAt, _ = time.Parse(time.RFC3339, endStr)
		if daily.Valid {
			r.DailyRemaining = &daily.Float64
		}
		if monthly.Valid {
			r.MonthlyRemaining = &monthly.Float64
		}
		if shortfall.Valid {
			r.Shortfall = &shortfall.Float64
		}
		r.BlockReason = reason.String
		r.Stage = stage.String
		r.Cause = cause.String
		r.ConfirmationID = confID.String
		r.ScreenshotPath = shot.String
		r.DocumentPath = doc.String

		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// AcquireLock takes the single run lock, refusing if a live invocation holds
// it. Locks older than staleAfter are presumed abandoned (killed process) and
// are replaced. The returned release func must be called when the run ends.
func (j *Journal) AcquireLock(staleAfter time.Duration) (func(), error) {
	cutoff := time.Now().Add(-staleAfter).UnixNano()
	if _, err := j.db.Exec(`DELETE FROM run_lock WHERE acquired_at_ns <= ?`, cutoff); err != nil {
		return nil, fmt.Errorf("clearing stale lock: %w", err)
	}

	_, err := j.db.Exec(`INSERT INTO run_lock (id, pid, acquired_at_ns) VALUES (1, ?, ?)`,
		os.Getpid(), time.Now().UnixNano())
	if err != nil {
		// The singleton row already exists: a run is in flight.
		return nil, ErrLocked
	}

	release := func() {
		_, _ = j.db.Exec(`DELETE FROM run_lock WHERE id = 1`)
	}
	return release, nil
}
