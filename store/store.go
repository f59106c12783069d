// Package store persists measurement runs in SQLite, keyed by the content
// fingerprint of the measured page.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/tsawler/takeoff/measure"
	"github.com/tsawler/takeoff/model"
)

// ErrNotFound is returned when no run exists for a fingerprint.
var ErrNotFound = errors.New("no measurement run found")

// Run is one stored measurement.
type Run struct {
	ID          string
	Fingerprint string
	CreatedAt   time.Time

	// Indexed copies of the headline figures
	PageNumber  int
	GrossAreaSF float64
	RoomCount   int
	ScaleFactor float64
	Confidence  model.Confidence

	Measurements measure.PageMeasurements
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the store logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock sets the time source for new runs.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// Store is a SQLite-backed run history. It is safe for concurrent use.
type Store struct {
	db     *sql.DB
	logger *log.Logger
	now    func() time.Time
}

// Open opens or creates the database at path. ":memory:" gives a private
// in-memory database.
func Open(path string, opts ...Option) (*Store, error) {
	dsn := path
	if path != ":memory:" {
		dsn = "file:" + path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if path == ":memory:" {
		// every connection would get its own empty database
		db.SetMaxOpenConns(1)
	}

	s := &Store{
		db:     db,
		logger: log.New(io.Discard, "", 0),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		fingerprint TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		page_number INTEGER NOT NULL,
		gross_area_sf REAL NOT NULL,
		room_count INTEGER NOT NULL,
		scale_factor REAL,
		confidence TEXT NOT NULL,
		data JSON NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_fingerprint ON runs(fingerprint, created_at);
	CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Save stores a measurement under the page fingerprint and returns the new
// run.
func (s *Store) Save(ctx context.Context, fingerprint string, m measure.PageMeasurements) (Run, error) {
	if fingerprint == "" {
		return Run{}, errors.New("failed to save run: empty fingerprint")
	}
	data, err := json.Marshal(m)
	if err != nil {
		return Run{}, fmt.Errorf("failed to marshal measurements: %w", err)
	}

	run := Run{
		ID:           uuid.NewString(),
		Fingerprint:  fingerprint,
		CreatedAt:    s.now().UTC(),
		PageNumber:   m.PageNumber,
		GrossAreaSF:  m.GrossAreaSF,
		RoomCount:    m.RoomCount,
		Confidence:   m.Confidence,
		Measurements: m,
	}
	var factor sql.NullFloat64
	if m.Scale != nil {
		run.ScaleFactor = m.Scale.Factor
		factor = sql.NullFloat64{Float64: m.Scale.Factor, Valid: true}
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO runs (id, fingerprint, created_at, page_number, gross_area_sf, room_count, scale_factor, confidence, data)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.Fingerprint, run.CreatedAt.UnixNano(), run.PageNumber, run.GrossAreaSF,
		run.RoomCount, factor, string(run.Confidence), data)
	if err != nil {
		return Run{}, fmt.Errorf("failed to insert run: %w", err)
	}

	s.logger.Printf("Saved run %s for page %d (%s)", run.ID, run.PageNumber, shortFingerprint(fingerprint))
	return run, nil
}

// Latest returns the most recent run for a fingerprint.
func (s *Store) Latest(ctx context.Context, fingerprint string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, fingerprint, created_at, page_number, gross_area_sf, room_count, scale_factor, confidence, data
		FROM runs
		WHERE fingerprint = ?
		ORDER BY created_at DESC, rowid DESC
		LIMIT 1
	`, fingerprint)

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, ErrNotFound
	}
	if err != nil {
		return Run{}, err
	}
	return run, nil
}

// List returns up to limit runs, newest first. A non-positive limit
// returns all of them.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, fingerprint, created_at, page_number, gross_area_sf, room_count, scale_factor, confidence, data
		FROM runs
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}
	return runs, nil
}

// Delete removes every run for a fingerprint and reports how many were
// removed.
func (s *Store) Delete(ctx context.Context, fingerprint string) (int, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE fingerprint = ?`, fingerprint)
	if err != nil {
		return 0, fmt.Errorf("failed to delete runs: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted runs: %w", err)
	}
	return int(n), nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (Run, error) {
	var (
		run        Run
		created    int64
		factor     sql.NullFloat64
		confidence string
		data       []byte
	)
	if err := sc.Scan(&run.ID, &run.Fingerprint, &created, &run.PageNumber, &run.GrossAreaSF,
		&run.RoomCount, &factor, &confidence, &data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, err
		}
		return Run{}, fmt.Errorf("failed to scan run: %w", err)
	}
	if err := json.Unmarshal(data, &run.Measurements); err != nil {
		return Run{}, fmt.Errorf("failed to unmarshal run data: %w", err)
	}
	run.CreatedAt = time.Unix(0, created).UTC()
	run.ScaleFactor = nullToFloat(factor)
	run.Confidence = model.Confidence(confidence)
	return run, nil
}

// nullToFloat converts sql.NullFloat64 to float64, 0 when NULL
func nullToFloat(nf sql.NullFloat64) float64 {
	if nf.Valid {
		return nf.Float64
	}
	return 0
}

func shortFingerprint(fp string) string {
	if len(fp) > 12 {
		return fp[:12]
	}
	return fp
}
